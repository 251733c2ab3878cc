package upstream

import (
	"bytes"
	"context"
	"crypto/sha256"
	"crypto/tls"
	"crypto/x509"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "firetrack/1.0"
	maxPayloadBytes  = 32 << 20
	maxErrorSnippet  = 512
)

// Client is the HTTP client shared by the upstream sources.
type Client struct {
	httpClient *http.Client
	userAgent  string
	maxPayload int64
}

// ClientOptions configures transport security and limits.
type ClientOptions struct {
	Timeout   time.Duration
	UserAgent string
	// InsecureSkipVerify disables chain and hostname verification. The vendor
	// serves a self-signed certificate on a bare IP address.
	InsecureSkipVerify bool
	// MaxPayloadBytes caps a response body; larger bodies are an error.
	// Zero means 32 MiB.
	MaxPayloadBytes int64
	// PinnedCertSHA256 is the hex SHA-256 of the expected leaf certificate.
	// It is enforced whether or not chain verification is skipped.
	PinnedCertSHA256 string
}

// NewClient creates a new upstream HTTP client
func NewClient(opts ClientOptions) (*Client, error) {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	agent := strings.TrimSpace(opts.UserAgent)
	if agent == "" {
		agent = defaultUserAgent
	}

	tlsCfg := &tls.Config{InsecureSkipVerify: opts.InsecureSkipVerify} //nolint:gosec // opt-in, logged below
	if opts.InsecureSkipVerify {
		log.Printf("WARNING: upstream TLS certificate verification is DISABLED")
	}
	if pin := normalizeFingerprint(opts.PinnedCertSHA256); pin != "" {
		if len(pin) != sha256.Size*2 {
			return nil, fmt.Errorf("pinned certificate fingerprint must be %d hex chars", sha256.Size*2)
		}
		tlsCfg.VerifyPeerCertificate = pinVerifier(pin)
	} else if opts.InsecureSkipVerify {
		log.Printf("WARNING: no certificate pin configured; upstream identity is not verified")
	}

	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		DialContext:         (&net.Dialer{Timeout: 10 * time.Second}).DialContext,
		TLSHandshakeTimeout: 10 * time.Second,
		TLSClientConfig:     tlsCfg,
	}
	limit := opts.MaxPayloadBytes
	if limit <= 0 {
		limit = maxPayloadBytes
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout, Transport: transport},
		userAgent:  agent,
		maxPayload: limit,
	}, nil
}

func normalizeFingerprint(s string) string {
	return strings.ToLower(strings.NewReplacer(":", "", " ", "").Replace(strings.TrimSpace(s)))
}

func pinVerifier(pin string) func([][]byte, [][]*x509.Certificate) error {
	return func(rawCerts [][]byte, _ [][]*x509.Certificate) error {
		if len(rawCerts) == 0 {
			return errors.New("no peer certificate presented")
		}
		sum := sha256.Sum256(rawCerts[0])
		if got := hex.EncodeToString(sum[:]); got != pin {
			return fmt.Errorf("peer certificate fingerprint %s does not match pin", got)
		}
		return nil
	}
}

// Get performs a GET and returns the body of a 200 response.
func (c *Client) Get(ctx context.Context, rawURL string, header http.Header) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &TransportError{Op: "GET", URL: redact(rawURL), Err: err}
	}
	return c.do(req, header)
}

// PostJSON posts body as application/json. Non-200 responses are returned
// as *TransportError carrying the status code.
func (c *Client) PostJSON(ctx context.Context, rawURL string, body []byte, header http.Header) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, bytes.NewReader(body))
	if err != nil {
		return nil, &TransportError{Op: "POST", URL: redact(rawURL), Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, header)
}

func (c *Client) do(req *http.Request, header http.Header) ([]byte, error) {
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("User-Agent", c.userAgent)

	op, target := req.Method, redact(req.URL.String())
	resp, err := c.httpClient.Do(req)
	if err != nil {
		// url.Error repeats the unredacted URL.
		var ue *url.Error
		if errors.As(err, &ue) {
			err = ue.Err
		}
		return nil, &TransportError{Op: op, URL: target, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorSnippet))
		return nil, &TransportError{
			Op:         op,
			URL:        target,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(b)),
			Err:        fmt.Errorf("status %s", resp.Status),
		}
	}
	b, err := io.ReadAll(io.LimitReader(resp.Body, c.maxPayload+1))
	if err != nil {
		return nil, &TransportError{Op: op, URL: target, Err: err}
	}
	if int64(len(b)) > c.maxPayload {
		return nil, &TransportError{Op: op, URL: target, Err: fmt.Errorf("payload exceeds %d bytes", c.maxPayload)}
	}
	return b, nil
}

// redact hides credential query parameters in logged URLs.
func redact(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	q := u.Query()
	changed := false
	for k := range q {
		switch strings.ToLower(k) {
		case "password", "pass", "pwd", "token", "apikey", "api_key":
			q.Set(k, "xxx")
			changed = true
		}
	}
	if changed {
		u.RawQuery = q.Encode()
	}
	return u.String()
}
