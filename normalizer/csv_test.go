package normalizer

import (
	"testing"
)

func TestParseCSV_RepeatedBlocks(t *testing.T) {
	payload := "Company,Vehicle_No,Door1,Door2\n" +
		"ABC,GA07G0308,15.486755,73.817429\n" +
		"Company,Vehicle_No,Latitude,Longitude\r\n" +
		"ABC,GA01Z0001,\"15.5\",\"73.9\"\r\n"
	recs := ParseCSV([]byte(payload))
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recs))
	}
	if v, _ := recs[0].Get("Door1"); v != "15.486755" {
		t.Errorf("expected Door1=15.486755, got %q", v)
	}
	if v, _ := recs[1].Get("Latitude"); v != "15.5" {
		t.Errorf("quotes should be stripped, got %q", v)
	}
	if v, _ := recs[1].Get("Longitude"); v != "73.9" {
		t.Errorf("CR should be trimmed, got %q", v)
	}
}

func TestParseCSV_NoDataFoundStops(t *testing.T) {
	payload := "Company,Vehicle_No,Latitude,Longitude\n" +
		"ABC,V1,15.5,73.9\n" +
		"Company,Vehicle_No,Latitude,Longitude\n" +
		"No Data Found\n" +
		"Company,Vehicle_No,Latitude,Longitude\n" +
		"ABC,V3,15.6,73.8\n"
	recs := ParseCSV([]byte(payload))
	if len(recs) != 1 {
		t.Fatalf("expected extraction to stop at No Data Found, got %d records", len(recs))
	}
	if recs[0].VehicleID() != "V1" {
		t.Errorf("unexpected record %v", recs[0].Fields())
	}
}

func TestParseCSV_HeaderWithoutData(t *testing.T) {
	payload := "Company,Vehicle_No\n" +
		"Company,Vehicle_No,Latitude\n" +
		"ABC,V2,15.5\n" +
		"Company,Vehicle_No\n"
	recs := ParseCSV([]byte(payload))
	if len(recs) != 1 || recs[0].VehicleID() != "V2" {
		t.Fatalf("expected only the block with data, got %d", len(recs))
	}
}

func TestParseCSV_ShortDataLinePadsEmpty(t *testing.T) {
	recs := ParseCSV([]byte("Company,Vehicle_No,Latitude,Longitude\nABC,V1\n"))
	if len(recs) != 1 {
		t.Fatalf("expected 1 record, got %d", len(recs))
	}
	v, ok := recs[0].Get("Longitude")
	if !ok || v != "" {
		t.Errorf("missing trailing field should be empty string, got %q ok=%v", v, ok)
	}
	if recs[0].Len() != 4 {
		t.Errorf("expected 4 fields, got %d", recs[0].Len())
	}
}

func TestParseCSV_IgnoresPreamble(t *testing.T) {
	recs := ParseCSV([]byte("Report generated\n\nCompany,Vehicle_No\nABC,V1\n"))
	if len(recs) != 1 {
		t.Fatalf("expected 1 record, got %d", len(recs))
	}
}
