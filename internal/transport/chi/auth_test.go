package chi

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestBearerAuthMiddleware(t *testing.T) {
	tests := []struct {
		name   string
		keys   []string
		header string
		want   int
	}{
		{name: "no keys passes through", keys: nil, want: http.StatusOK},
		{name: "empty string keys pass through", keys: []string{"", ""}, want: http.StatusOK},
		{name: "missing header", keys: []string{"secret"}, want: http.StatusUnauthorized},
		{name: "basic scheme", keys: []string{"secret"}, header: "Basic dXNlcjpwYXNz", want: http.StatusUnauthorized},
		{name: "wrong token", keys: []string{"secret"}, header: "Bearer wrong-key", want: http.StatusUnauthorized},
		{name: "token prefix only", keys: []string{"secret"}, header: "Bearer secr", want: http.StatusUnauthorized},
		{name: "valid token", keys: []string{"secret"}, header: "Bearer secret", want: http.StatusOK},
		{name: "second of many keys", keys: []string{"key1", "key2"}, header: "Bearer key2", want: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := BearerAuthMiddleware(tt.keys)(okHandler())

			req := httptest.NewRequest(http.MethodPost, "/v1/admin/reload", http.NoBody)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			if rr.Code != tt.want {
				t.Fatalf("got %d, want %d", rr.Code, tt.want)
			}
			if tt.want != http.StatusUnauthorized {
				return
			}
			var errResp ErrorResponse
			if err := json.NewDecoder(rr.Body).Decode(&errResp); err != nil {
				t.Fatalf("decode error response: %v", err)
			}
			if errResp.Code != CodeUnauthorized {
				t.Errorf("error code: got %s, want %s", errResp.Code, CodeUnauthorized)
			}
		})
	}
}
