package normalizer

import (
	"strings"

	"github.com/goafire/firetrack/telemetry"
)

const (
	csvHeaderPrefix = "Company,"
	csvNoData       = "No Data Found"
)

// ParseCSV extracts one record per header/data block. Only a single pair of
// surrounding double quotes is removed from each value; the feed never
// embeds commas or quotes, so no other CSV escaping is handled.
func ParseCSV(payload []byte) []telemetry.RawRecord {
	lines := strings.Split(string(payload), "\n")
	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], "\r")
	}

	var out []telemetry.RawRecord
	for i := 0; i < len(lines); i++ {
		if !strings.HasPrefix(lines[i], csvHeaderPrefix) {
			continue
		}
		headers := splitCSVLine(lines[i])
		if i+1 >= len(lines) {
			break
		}
		data := lines[i+1]
		if strings.HasPrefix(data, csvHeaderPrefix) || strings.TrimSpace(data) == "" {
			continue
		}
		if strings.Contains(data, csvNoData) {
			break
		}
		i++

		values := splitCSVLine(data)
		var rec telemetry.RawRecord
		for j, h := range headers {
			v := ""
			if j < len(values) {
				v = values[j]
			}
			rec.Set(h, v)
		}
		out = append(out, rec)
	}
	return out
}

func splitCSVLine(line string) []string {
	parts := strings.Split(line, ",")
	for i, p := range parts {
		parts[i] = unquote(strings.TrimSpace(p))
	}
	return parts
}

func unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}
