package request

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeRegisterRequest(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantErr  string
		wantUser string
	}{
		{"valid", `{"username":"alice","password":"secret123"}`, "", "alice"},
		{"extra fields ignored", `{"username":"alice","password":"pw","display_name":"A"}`, "", "alice"},
		{"missing username", `{"password":"pw"}`, "username is required", ""},
		{"empty password", `{"username":"alice","password":""}`, "password is required", ""},
		{"null username", `{"username":null,"password":"pw"}`, "username is required", ""},
		{"numeric username", `{"username":42,"password":"pw"}`, "username must be a string", ""},
		{"array password", `{"username":"alice","password":["pw"]}`, "password must be a string", ""},
		{"not json", `username=alice`, "invalid request body", ""},
		{"empty body", ``, "invalid request body", ""},
		{"two objects", `{"username":"a","password":"b"}{"username":"c"}`, "invalid request body", ""},
		{"top level array", `[]`, "invalid request body", ""},
		{"uppercase keys", `{"USERNAME":"alice","PASSWORD":"pw"}`, "username is required", ""},
		{"mixed case password key", `{"username":"alice","Password":"pw"}`, "password is required", ""},
		{"exact keys win over folded keys", `{"Username":"mallory","username":"alice","password":"pw"}`, "", "alice"},
		{"nul in username", `{"username":"d\u0000","password":"pw"}`, "username must not contain NUL characters", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("POST", "/api/v1/player", strings.NewReader(tt.body))

			var req RegisterRequest
			err := Decode(r, &req)
			if err == nil {
				err = req.Validate()
			}

			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantErr, err.Error())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantUser, req.Username)
		})
	}
}
