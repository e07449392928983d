package transport

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAuthenticators(t *testing.T) {
	tests := []struct {
		name   string
		auth   Authenticator
		header string
		want   string
	}{
		{name: "bearer", auth: BearerAuth{}, header: "Authorization", want: "Bearer secret"},
		{name: "header", auth: HeaderAuth{Header: "X-API-Key"}, header: "X-API-Key", want: "secret"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "https://store.example.org/sessions", nil)
			tt.auth.Apply(req, "secret")
			assert.Equal(t, tt.want, req.Header.Get(tt.header))
		})
	}
}
