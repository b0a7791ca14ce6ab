package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestLogger(t *testing.T) {
	cases := []struct {
		name   string
		status int
		level  string
		msg    string
	}{
		{"Success", http.StatusOK, "INFO", "request completed"},
		{"Client Error", http.StatusConflict, "WARN", "request rejected"},
		{"Server Error", http.StatusServiceUnavailable, "ERROR", "server error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := slog.New(slog.NewJSONHandler(&buf, nil))
			h := RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
			}))

			h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/tickets", nil))

			var entry map[string]any
			require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
			assert.Equal(t, tc.level, entry["level"])
			assert.Equal(t, tc.msg, entry["msg"])
			response := entry["response"].(map[string]any)
			assert.EqualValues(t, tc.status, response["status"])
		})
	}
}
