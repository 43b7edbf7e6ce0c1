package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func loggedOutput(t *testing.T, status int, path string) string {
	t.Helper()
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))

	h := RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	return buf.String()
}

func TestRequestLoggerLevels(t *testing.T) {
	cases := []struct {
		status int
		level  string
	}{
		{http.StatusOK, "level=INFO"},
		{http.StatusNotFound, "level=WARN"},
		{http.StatusInternalServerError, "level=ERROR"},
	}
	for _, tc := range cases {
		out := loggedOutput(t, tc.status, "/api/habits")
		if !strings.Contains(out, tc.level) {
			t.Errorf("status %d: output %q missing %q", tc.status, out, tc.level)
		}
		if !strings.Contains(out, "path=/api/habits") {
			t.Errorf("status %d: output %q missing path", tc.status, out)
		}
	}
}

func TestRequestLoggerQuietHealthPolls(t *testing.T) {
	if out := loggedOutput(t, http.StatusOK, "/health"); out != "" {
		t.Errorf("healthy /health logged at info: %q", out)
	}
	// A failing health check still surfaces.
	if out := loggedOutput(t, http.StatusInternalServerError, "/health"); !strings.Contains(out, "level=ERROR") {
		t.Errorf("failing /health output %q missing level=ERROR", out)
	}
}
