// Package credential resolves the short-lived TOS credentials a caller
// attaches to a request.
//
// In web deployments the credential arrives as a base64-encoded JSON
// document in the Authorization header (optionally behind a scheme
// prefix such as "Bearer"). Stdio deployments pass the same payload
// through the "authorization" environment variable. The document is the
// STS grant shape:
//
//	{"CurrentTime": ..., "ExpiredTime": ..., "AccessKeyId": ...,
//	 "SecretAccessKey": ..., "SessionToken": ...}
package credential

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"
)

// Resolution errors.
var (
	// ErrMissing indicates no credential was attached to the request.
	ErrMissing = errors.New("missing authorization info")

	// ErrMalformed indicates the payload could not be decoded.
	ErrMalformed = errors.New("malformed credential payload")

	// ErrIncomplete indicates required fields are absent.
	ErrIncomplete = errors.New("incomplete credential")

	// ErrExpired indicates the credential's expiry has passed.
	ErrExpired = errors.New("credential expired")
)

// Credential is a decoded STS grant.
type Credential struct {
	AccessKeyID     string `json:"AccessKeyId"`
	SecretAccessKey string `json:"SecretAccessKey"`
	SessionToken    string `json:"SessionToken"`

	// CurrentTime and ExpiredTime are carried as issued; formats vary
	// between RFC 3339 strings and unix seconds, so both are kept raw.
	CurrentTime json.RawMessage `json:"CurrentTime,omitempty"`
	ExpiredTime json.RawMessage `json:"ExpiredTime,omitempty"`
}

// Decode parses a raw Authorization value into a Credential.
//
// A scheme prefix ("Bearer <payload>") is stripped when present. The
// remainder is base64-decoded and unmarshalled; required fields are
// checked but expiry is validated separately via Expired.
func Decode(raw string) (*Credential, error) {
	if raw == "" {
		return nil, ErrMissing
	}

	payload := raw
	if i := strings.IndexByte(raw, ' '); i >= 0 {
		payload = raw[i+1:]
	}

	decoded, err := base64.StdEncoding.DecodeString(strings.TrimSpace(payload))
	if err != nil {
		// Tolerate unpadded payloads from sloppy encoders.
		decoded, err = base64.RawStdEncoding.DecodeString(strings.TrimSpace(payload))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
	}

	var cred Credential
	if err := json.Unmarshal(decoded, &cred); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	if cred.AccessKeyID == "" || cred.SecretAccessKey == "" || cred.SessionToken == "" {
		return nil, fmt.Errorf("%w: AccessKeyId, SecretAccessKey and SessionToken are required", ErrIncomplete)
	}

	return &cred, nil
}

// Expired reports whether the credential's ExpiredTime, when present
// and parseable, is before now. Credentials without an expiry are
// treated as valid; the storage service is the final authority.
func (c *Credential) Expired(now time.Time) bool {
	exp, ok := parseTimestamp(c.ExpiredTime)
	if !ok {
		return false
	}
	return exp.Before(now)
}

// parseTimestamp accepts RFC 3339 strings and unix-second numbers.
func parseTimestamp(raw json.RawMessage) (time.Time, bool) {
	if len(raw) == 0 {
		return time.Time{}, false
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if ts, err := time.Parse(time.RFC3339, s); err == nil {
			return ts, true
		}
		if secs, err := strconv.ParseInt(s, 10, 64); err == nil {
			return time.Unix(secs, 0), true
		}
		return time.Time{}, false
	}

	var secs int64
	if err := json.Unmarshal(raw, &secs); err == nil {
		return time.Unix(secs, 0), true
	}
	return time.Time{}, false
}

type contextKey struct{}

// WithAuthorization stores a raw Authorization value in the context for
// later resolution by tool handlers.
func WithAuthorization(ctx context.Context, raw string) context.Context {
	if raw == "" {
		return ctx
	}
	return context.WithValue(ctx, contextKey{}, raw)
}

// FromContext resolves and validates the credential attached to ctx.
func FromContext(ctx context.Context, now time.Time) (*Credential, error) {
	raw, _ := ctx.Value(contextKey{}).(string)
	cred, err := Decode(raw)
	if err != nil {
		return nil, err
	}
	if cred.Expired(now) {
		return nil, ErrExpired
	}
	return cred, nil
}

// FromRequest pulls the Authorization header off an HTTP request and
// stores it in the context, falling back to the process environment
// when the header is absent. Used as the HTTP/SSE transport context
// func.
func FromRequest(ctx context.Context, r *http.Request) context.Context {
	if raw := r.Header.Get("Authorization"); raw != "" {
		return WithAuthorization(ctx, raw)
	}
	return FromEnvironment(ctx)
}

// FromEnvironment pulls the credential payload from the process
// environment. Used as the stdio transport context func, where no
// request headers exist.
func FromEnvironment(ctx context.Context) context.Context {
	raw := os.Getenv("authorization")
	if raw == "" {
		raw = os.Getenv("AUTHORIZATION")
	}
	return WithAuthorization(ctx, raw)
}
