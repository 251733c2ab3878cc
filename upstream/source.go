package upstream

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goafire/firetrack/telemetry"
)

// Source modes.
const (
	ModeCSV  = "csv"
	ModeJSON = "json"
	ModeFile = "file"
)

// Source fetches one raw payload per call.
type Source interface {
	FetchRawPayload(ctx context.Context) (telemetry.Format, []byte, error)
}

// Options selects and configures a Source. It has no dependency on the
// config package.
type Options struct {
	Mode string

	// CSVURL is the export endpoint used in csv mode.
	CSVURL string
	// Query holds extra query parameters for the CSV request.
	Query map[string]string
	// CredentialsInQuery sends username and password as CSV query parameters.
	CredentialsInQuery bool

	// AuthURL enables the token handshake when set.
	AuthURL string
	// LiveDataURL is the vehicle endpoint used in json mode.
	LiveDataURL string
	// TokenParam also passes the token as this query parameter when set.
	TokenParam string

	// FilePath and FileFormat are used in file mode. An empty FileFormat is
	// inferred from the extension.
	FilePath   string
	FileFormat telemetry.Format

	Username string
	Password string

	Timeout            time.Duration
	UserAgent          string
	InsecureSkipVerify bool
	PinnedCertSHA256   string
}

// NewSource builds the Source selected by opts.Mode.
func NewSource(opts Options) (Source, error) {
	if opts.Mode == ModeFile {
		if opts.FilePath == "" {
			return nil, fmt.Errorf("file mode requires a file path")
		}
		return &FileSource{Path: opts.FilePath, Format: opts.FileFormat}, nil
	}

	client, err := NewClient(ClientOptions{
		Timeout:            opts.Timeout,
		UserAgent:          opts.UserAgent,
		InsecureSkipVerify: opts.InsecureSkipVerify,
		PinnedCertSHA256:   opts.PinnedCertSHA256,
	})
	if err != nil {
		return nil, err
	}
	var auth *Authenticator
	if opts.AuthURL != "" {
		auth = NewAuthenticator(client, opts.AuthURL, opts.Username, opts.Password)
	}

	switch opts.Mode {
	case ModeCSV:
		if opts.CSVURL == "" {
			return nil, fmt.Errorf("csv mode requires a CSV URL")
		}
		return &CSVSource{opts: opts, client: client, auth: auth}, nil
	case ModeJSON:
		if opts.LiveDataURL == "" {
			return nil, fmt.Errorf("json mode requires a live data URL")
		}
		return &JSONSource{opts: opts, client: client, auth: auth}, nil
	default:
		return nil, fmt.Errorf("unknown upstream mode %q", opts.Mode)
	}
}

// CSVSource fetches the CSV export with a single GET.
type CSVSource struct {
	opts   Options
	client *Client
	auth   *Authenticator
}

// FetchRawPayload implements Source.
func (s *CSVSource) FetchRawPayload(ctx context.Context) (telemetry.Format, []byte, error) {
	tok, err := authenticate(ctx, s.auth)
	if err != nil {
		return "", nil, err
	}

	params := map[string]string{}
	for k, v := range s.opts.Query {
		params[k] = v
	}
	if s.opts.CredentialsInQuery {
		params["username"] = s.opts.Username
		params["password"] = s.opts.Password
	}
	if s.opts.TokenParam != "" && tok.Value != "" {
		params[s.opts.TokenParam] = tok.Value
	}
	target, err := withQuery(s.opts.CSVURL, params)
	if err != nil {
		return "", nil, err
	}

	b, err := s.client.Get(ctx, target, bearer(tok))
	if err != nil {
		return "", nil, fmt.Errorf("fetch csv: %w", err)
	}
	log.Printf("upstream: fetched %d bytes of CSV", len(b))
	return telemetry.FormatCSV, b, nil
}

// JSONSource authenticates (when configured) and fetches live vehicle data.
type JSONSource struct {
	opts   Options
	client *Client
	auth   *Authenticator
}

// FetchRawPayload implements Source.
func (s *JSONSource) FetchRawPayload(ctx context.Context) (telemetry.Format, []byte, error) {
	tok, err := authenticate(ctx, s.auth)
	if err != nil {
		return "", nil, err
	}

	target := s.opts.LiveDataURL
	if s.opts.TokenParam != "" && tok.Value != "" {
		if target, err = withQuery(target, map[string]string{s.opts.TokenParam: tok.Value}); err != nil {
			return "", nil, err
		}
	}

	b, err := s.client.Get(ctx, target, bearer(tok))
	if err != nil {
		return "", nil, fmt.Errorf("fetch live data: %w", err)
	}
	log.Printf("upstream: fetched %d bytes of JSON", len(b))
	return telemetry.FormatJSON, b, nil
}

// FileSource reads a captured payload from disk.
type FileSource struct {
	Path   string
	Format telemetry.Format
}

// FetchRawPayload implements Source.
func (s *FileSource) FetchRawPayload(ctx context.Context) (telemetry.Format, []byte, error) {
	if err := ctx.Err(); err != nil {
		return "", nil, err
	}
	format := s.Format
	if format == "" {
		switch strings.ToLower(filepath.Ext(s.Path)) {
		case ".csv", ".txt":
			format = telemetry.FormatCSV
		default:
			format = telemetry.FormatJSON
		}
	}
	b, err := os.ReadFile(s.Path)
	if err != nil {
		return "", nil, fmt.Errorf("read payload file: %w", err)
	}
	return format, b, nil
}

func authenticate(ctx context.Context, auth *Authenticator) (Token, error) {
	if auth == nil {
		return Token{}, nil
	}
	return auth.Authenticate(ctx)
}

func withQuery(rawURL string, params map[string]string) (string, error) {
	if len(params) == 0 {
		return rawURL, nil
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parse upstream URL: %w", err)
	}
	q := u.Query()
	for k, v := range params {
		q.Set(k, v)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}
