package transport

import (
	"io"
	"net/http"
	"strings"

	"github.com/goccy/go-json"

	"github.com/openstatehouse/legisync/pkg/errors"
	"github.com/openstatehouse/legisync/pkg/logging"
)

// ErrorBody is the JSON error envelope returned by legisync-compatible APIs.
type ErrorBody struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// DecodeResponse decodes a JSON response into the target structure. Non-2xx
// responses become an *errors.APIError carrying the status code and, when the
// body is an ErrorBody, its message and code.
func DecodeResponse(resp *http.Response, service string, target any) error {
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logging.Warn().Err(err).Msg("Failed to close response body")
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.WrapIO("read", "response body", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &errors.APIError{
			Service:    service,
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(body)),
		}
		var envelope ErrorBody
		if json.Unmarshal(body, &envelope) == nil && envelope.Error != "" {
			apiErr.Message = envelope.Error
			apiErr.Code = envelope.Code
		}
		if apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		return apiErr
	}

	if target == nil || len(body) == 0 {
		return nil
	}

	if err := json.Unmarshal(body, target); err != nil {
		return &errors.APIError{
			Service:    service,
			StatusCode: resp.StatusCode,
			Message:    "undecodable response body",
			Err:        errors.WrapParse("json", "response", err),
		}
	}

	return nil
}
