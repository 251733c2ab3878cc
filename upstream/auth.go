package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/buger/jsonparser"
	"github.com/golang-jwt/jwt/v5"
)

// CredentialVariant names the body fields carrying username and password.
type CredentialVariant struct {
	UserField string
	PassField string
}

// DefaultCredentialVariants are the body shapes the vendor has accepted.
var DefaultCredentialVariants = []CredentialVariant{
	{"username", "password"},
	{"userName", "password"},
	{"UserName", "Password"},
	{"user", "pass"},
	{"login", "password"},
}

// DefaultTokenPaths are the response locations searched for a token, in order.
var DefaultTokenPaths = [][]string{
	{"token"},
	{"access_token"},
	{"accessToken"},
	{"Token"},
	{"data", "token"},
}

// Token is an upstream session token.
type Token struct {
	Value string
	// Variant is the index of the credential variant that produced it.
	Variant int
	// Expires is read from the JWT exp claim without verification. Zero when
	// the token is opaque or carries no expiry.
	Expires time.Time
}

// Authenticator performs the token handshake.
type Authenticator struct {
	client     *Client
	url        string
	username   string
	password   string
	variants   []CredentialVariant
	tokenPaths [][]string
}

// NewAuthenticator creates an authenticator posting to url.
func NewAuthenticator(client *Client, url, username, password string) *Authenticator {
	return &Authenticator{
		client:     client,
		url:        url,
		username:   username,
		password:   password,
		variants:   DefaultCredentialVariants,
		tokenPaths: DefaultTokenPaths,
	}
}

// Authenticate tries each credential variant until a token is returned.
//
// A 4xx answer or a body without a token moves on to the next variant. A
// network failure or 5xx aborts with *TransportError. When every variant
// fails the error wraps ErrAuthExhausted, and also ErrAuthRejected if any
// attempt was answered with result: 0.
func (a *Authenticator) Authenticate(ctx context.Context) (Token, error) {
	rejected := false
	for i, v := range a.variants {
		body, err := json.Marshal(map[string]string{
			v.UserField: a.username,
			v.PassField: a.password,
		})
		if err != nil {
			return Token{}, fmt.Errorf("encode auth body: %w", err)
		}

		resp, err := a.client.PostJSON(ctx, a.url, body, nil)
		if err != nil {
			var te *TransportError
			if errors.As(err, &te) && te.StatusCode >= 400 && te.StatusCode < 500 {
				log.Printf("auth: variant %d (%s/%s) refused: HTTP %d", i, v.UserField, v.PassField, te.StatusCode)
				continue
			}
			return Token{}, err
		}

		if resultRejected(resp) {
			rejected = true
			log.Printf("auth: variant %d (%s/%s) rejected with result 0", i, v.UserField, v.PassField)
			continue
		}

		value := a.findToken(resp)
		if value == "" {
			log.Printf("auth: variant %d (%s/%s) returned no token", i, v.UserField, v.PassField)
			continue
		}

		tok := Token{Value: value, Variant: i, Expires: tokenExpiry(value)}
		if tok.Expires.IsZero() {
			log.Printf("auth: token accepted with variant %d (%s/%s)", i, v.UserField, v.PassField)
		} else {
			log.Printf("auth: token accepted with variant %d (%s/%s), expires %s",
				i, v.UserField, v.PassField, tok.Expires.UTC().Format(time.RFC3339))
		}
		return tok, nil
	}

	if rejected {
		return Token{}, fmt.Errorf("%w after %d variants: %w", ErrAuthExhausted, len(a.variants), ErrAuthRejected)
	}
	return Token{}, fmt.Errorf("%w after %d variants", ErrAuthExhausted, len(a.variants))
}

func (a *Authenticator) findToken(resp []byte) string {
	for _, path := range a.tokenPaths {
		s, err := jsonparser.GetString(resp, path...)
		if err == nil {
			if s = strings.TrimSpace(s); s != "" {
				return s
			}
		}
	}
	return ""
}

// resultRejected reports whether the body carries result: 0 (or "0", false).
func resultRejected(resp []byte) bool {
	v, t, _, err := jsonparser.Get(resp, "result")
	if err != nil {
		return false
	}
	switch t {
	case jsonparser.Number, jsonparser.String:
		return strings.TrimSpace(string(v)) == "0"
	case jsonparser.Boolean:
		return string(v) == "false"
	default:
		return false
	}
}

// tokenExpiry decodes the exp claim of a JWT without checking its signature.
func tokenExpiry(token string) time.Time {
	if strings.Count(token, ".") != 2 {
		return time.Time{}
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}

// bearer returns an Authorization header for tok, or nil when tok is empty.
func bearer(tok Token) http.Header {
	if tok.Value == "" {
		return nil
	}
	h := http.Header{}
	h.Set("Authorization", "Bearer "+tok.Value)
	return h
}
