package pocket

import (
	"encoding/json"
	"net/http"
	"strconv"
)

// classify turns the parts of a raw Pocket API response into a decoded
// payload or a typed error. Any status in the 2xx range counts as success
// and the body is decoded into out (a nil out skips decoding); anything
// else becomes an *APIError carrying the X-Error-Code / X-Error detail. A
// success body that fails to decode becomes a *DecodeError with the raw
// body preserved.
func classify(statusCode int, header http.Header, body []byte, out any) error {
	if statusCode < http.StatusOK || statusCode >= http.StatusMultipleChoices {
		return newAPIError(statusCode, header, body)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &DecodeError{Err: err, Body: string(body)}
	}
	return nil
}

func newAPIError(statusCode int, header http.Header, body []byte) *APIError {
	apiErr := &APIError{
		StatusCode: statusCode,
		Body:       string(body),
		RateLimit:  parseRateLimit(header),
	}
	if v := header.Get(headerErrorCode); v != "" {
		if code, err := strconv.Atoi(v); err == nil {
			apiErr.Code = code
		}
	}
	apiErr.Message = header.Get(headerError)
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(statusCode)
	}
	return apiErr
}
