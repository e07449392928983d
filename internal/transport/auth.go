package transport

import "net/http"

// Authenticator attaches a credential to an outgoing request.
type Authenticator interface {
	Apply(req *http.Request, apiKey string)
}

// BearerAuth sends the key as "Authorization: Bearer <key>". The remote
// store expects this.
type BearerAuth struct{}

func (BearerAuth) Apply(req *http.Request, apiKey string) {
	req.Header.Set("Authorization", "Bearer "+apiKey)
}

// HeaderAuth sends the key verbatim in Header, e.g. X-API-Key for feeds.
type HeaderAuth struct {
	Header string
}

func (a HeaderAuth) Apply(req *http.Request, apiKey string) {
	req.Header.Set(a.Header, apiKey)
}
