package httputil

import (
	"io"
	"net/http"

	jsoniter "github.com/json-iterator/go"

	"github.com/matzehuels/candlecake/pkg/errors"
)

// MaxBodyBytes bounds request bodies read by [DecodeJSON].
const MaxBodyBytes = 1 << 20

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// strict decodes request bodies; unknown fields are errors.
var strict = jsoniter.Config{
	EscapeHTML:             true,
	SortMapKeys:            true,
	ValidateJsonRawMessage: true,
	DisallowUnknownFields:  true,
}.Froze()

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

// WriteJSON writes v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes err as an [ErrorBody] and returns the status used.
func WriteError(w http.ResponseWriter, err error) int {
	status := errors.HTTPStatus(err)
	body := ErrorBody{Code: errors.GetCode(err), Message: errors.UserMessage(err)}
	if body.Code == "" {
		body.Code = errors.ErrCodeInternal
		body.Message = http.StatusText(status)
	}
	WriteJSON(w, status, body)
	return status
}

// DecodeJSON reads the request body into v.
// Failures are INVALID_INPUT errors.
func DecodeJSON(r *http.Request, v any) error {
	if r.Body == nil {
		return errors.New(errors.ErrCodeInvalidInput, "request body is empty")
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, MaxBodyBytes+1))
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "read request body")
	}
	if len(body) > MaxBodyBytes {
		return errors.New(errors.ErrCodeInvalidInput, "request body exceeds %d bytes", MaxBodyBytes)
	}
	if len(body) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "request body is empty")
	}

	if err := strict.Unmarshal(body, v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid JSON body")
	}
	return nil
}
