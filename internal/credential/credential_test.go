package credential

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePayload(t *testing.T, payload map[string]any) string {
	t.Helper()
	data, err := json.Marshal(payload)
	require.NoError(t, err)
	return base64.StdEncoding.EncodeToString(data)
}

func validPayload(t *testing.T) string {
	return encodePayload(t, map[string]any{
		"CurrentTime":     "2026-01-01T00:00:00Z",
		"ExpiredTime":     "2026-01-01T01:00:00Z",
		"AccessKeyId":     "AKTEST",
		"SecretAccessKey": "SKTEST",
		"SessionToken":    "STSTOKEN",
	})
}

func TestDecode(t *testing.T) {
	cred, err := Decode(validPayload(t))
	require.NoError(t, err)
	assert.Equal(t, "AKTEST", cred.AccessKeyID)
	assert.Equal(t, "SKTEST", cred.SecretAccessKey)
	assert.Equal(t, "STSTOKEN", cred.SessionToken)
}

func TestDecode_SchemePrefix(t *testing.T) {
	cred, err := Decode("Bearer " + validPayload(t))
	require.NoError(t, err)
	assert.Equal(t, "AKTEST", cred.AccessKeyID)
}

func TestDecode_Unpadded(t *testing.T) {
	data, err := json.Marshal(map[string]any{
		"AccessKeyId":     "AKTEST",
		"SecretAccessKey": "SKTEST",
		"SessionToken":    "STSTOKEN",
	})
	require.NoError(t, err)

	cred, err := Decode(base64.RawStdEncoding.EncodeToString(data))
	require.NoError(t, err)
	assert.Equal(t, "AKTEST", cred.AccessKeyID)
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr error
	}{
		{"empty", "", ErrMissing},
		{"not base64", "%%%not-base64%%%", ErrMalformed},
		{"not json", base64.StdEncoding.EncodeToString([]byte("plainly not json")), ErrMalformed},
		{
			"missing session token",
			encodePayload(t, map[string]any{"AccessKeyId": "ak", "SecretAccessKey": "sk"}),
			ErrIncomplete,
		},
		{
			"missing keys",
			encodePayload(t, map[string]any{"SessionToken": "tok"}),
			ErrIncomplete,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.raw)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestExpired(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 30, 0, 0, time.UTC)

	tests := []struct {
		name    string
		expired any
		want    bool
	}{
		{"future rfc3339", "2026-01-01T01:00:00Z", false},
		{"past rfc3339", "2026-01-01T00:00:00Z", true},
		{"future unix seconds", now.Add(time.Hour).Unix(), false},
		{"past unix seconds", now.Add(-time.Hour).Unix(), true},
		{"unix seconds as string", "1798761600", false}, // 2027-01-01T00:00:00Z
		{"absent", nil, false},
		{"unparseable", "soon", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := map[string]any{
				"AccessKeyId":     "ak",
				"SecretAccessKey": "sk",
				"SessionToken":    "tok",
			}
			if tt.expired != nil {
				payload["ExpiredTime"] = tt.expired
			}

			cred, err := Decode(encodePayload(t, payload))
			require.NoError(t, err)
			assert.Equal(t, tt.want, cred.Expired(now))
		})
	}
}

func TestFromContext(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 30, 0, 0, time.UTC)

	ctx := WithAuthorization(context.Background(), validPayload(t))
	cred, err := FromContext(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, "AKTEST", cred.AccessKeyID)

	_, err = FromContext(context.Background(), now)
	assert.ErrorIs(t, err, ErrMissing)
}

func TestFromContext_Expired(t *testing.T) {
	ctx := WithAuthorization(context.Background(), validPayload(t))
	_, err := FromContext(ctx, time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC))
	assert.ErrorIs(t, err, ErrExpired)
}

func TestFromRequest(t *testing.T) {
	req := httptest.NewRequest("POST", "/mcp", nil)
	req.Header.Set("Authorization", "Bearer "+validPayload(t))

	ctx := FromRequest(context.Background(), req)
	cred, err := FromContext(ctx, time.Date(2026, 1, 1, 0, 30, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "AKTEST", cred.AccessKeyID)
}

func TestFromRequest_EnvironmentFallback(t *testing.T) {
	t.Setenv("authorization", validPayload(t))

	// No Authorization header: the environment supplies the payload.
	req := httptest.NewRequest("POST", "/mcp", nil)
	ctx := FromRequest(context.Background(), req)
	cred, err := FromContext(ctx, time.Date(2026, 1, 1, 0, 30, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "AKTEST", cred.AccessKeyID)
}

func TestFromRequest_HeaderWinsOverEnvironment(t *testing.T) {
	t.Setenv("authorization", "not-a-credential")

	req := httptest.NewRequest("POST", "/mcp", nil)
	req.Header.Set("Authorization", "Bearer "+validPayload(t))
	ctx := FromRequest(context.Background(), req)
	cred, err := FromContext(ctx, time.Date(2026, 1, 1, 0, 30, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "AKTEST", cred.AccessKeyID)
}

func TestFromEnvironment(t *testing.T) {
	t.Setenv("authorization", validPayload(t))

	ctx := FromEnvironment(context.Background())
	cred, err := FromContext(ctx, time.Date(2026, 1, 1, 0, 30, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "STSTOKEN", cred.SessionToken)
}
