package ollama

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"

	"github.com/rekurs-dev/rekurs/pkg/api"
)

// mapNetworkError classifies a failure that occurred before a response was
// received. These are always transport errors: the backend never answered.
func mapNetworkError(err error) *api.APIError {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		if urlErr.Timeout() {
			return api.NewTransportError(fmt.Sprintf("backend request timed out: %s", urlErr.Err))
		}
		var netErr *net.OpError
		if errors.As(urlErr.Err, &netErr) {
			return api.NewTransportError(fmt.Sprintf("backend unreachable: %s", netErr))
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return api.NewTransportError("backend request timed out")
	}
	if errors.Is(err, context.Canceled) {
		return api.NewTransportError("backend request cancelled")
	}
	return api.NewTransportError(err.Error())
}

// mapHTTPError classifies a non-2xx response. The backend answered, so
// these are provider errors carrying whatever error payload was reported.
func mapHTTPError(resp *http.Response) *api.APIError {
	msg := extractErrorMessage(resp.Body)
	if msg == "" {
		msg = fmt.Sprintf("backend returned status %d", resp.StatusCode)
	}
	return api.NewProviderError(msg)
}

// extractErrorMessage pulls the "error" field out of an Ollama error body.
// Returns empty string if the body is not parseable.
func extractErrorMessage(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, 8192))
	if err != nil {
		return ""
	}

	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return ""
	}
	return payload.Error
}
