package server

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHumanizeParam(t *testing.T) {
	assert.Equal(t, "ID", humanizeParam("id"))
	assert.Equal(t, "user ID", humanizeParam("user_id"))
	assert.Equal(t, "post ID", humanizeParam("post_id"))
	assert.Equal(t, "slug", humanizeParam("slug"))
}

func TestStaticPrefix(t *testing.T) {
	assert.Equal(t, "/uploads", staticPrefix("http://localhost:8375/uploads"))
	assert.Equal(t, "/static", staticPrefix("http://localhost:8375"))
	assert.Equal(t, "/static", staticPrefix(""))
}

func TestCodeValue_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    string
		wantErr bool
	}{
		{name: "string", body: `{"verificationCode":" 012345 "}`, want: " 012345 "},
		{name: "number", body: `{"verificationCode":960436}`, want: "960436"},
		{name: "number with leading zero lost", body: `{"verificationCode":12345}`, want: "012345"},
		{name: "null", body: `{"verificationCode":null}`, want: ""},
		{name: "missing", body: `{}`, want: ""},
		{name: "fraction", body: `{"verificationCode":12.5}`, wantErr: true},
		{name: "negative", body: `{"verificationCode":-4}`, wantErr: true},
		{name: "object", body: `{"verificationCode":{}}`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req verifyEmailRequest
			err := json.Unmarshal([]byte(tt.body), &req)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(req.VerificationCode))
		})
	}
}
