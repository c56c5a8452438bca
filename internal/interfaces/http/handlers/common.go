// Package handlers implements the HTTP handlers of the analysis API.
package handlers

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/turtacn/refsign-check/pkg/errors"
)

// maxBodyBytes caps request bodies independently of analysis.max_text_size
// so that oversized JSON is rejected before it is decoded.
const maxBodyBytes = 16 << 20

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// ErrorResponse is the standard error response body.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// writeAppError maps application errors to HTTP status codes. Internal
// errors are masked.
func writeAppError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	status := errors.HTTPStatusForCode(code)
	if status >= http.StatusInternalServerError {
		writeJSON(w, status, ErrorResponse{
			Code:    string(code),
			Message: errors.DefaultMessageForCode(code),
		})
		return
	}

	resp := ErrorResponse{Code: string(code), Message: err.Error()}
	var ae *errors.AppError
	if stderrors.As(err, &ae) {
		resp.Message = ae.Message
		resp.Detail = ae.Detail
	}
	writeJSON(w, status, resp)
}

// decodeJSON reads a JSON body into dst. An empty body leaves dst untouched.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return errors.Wrap(err, errors.ErrCodeBadRequest, "invalid request body")
	}
	return nil
}

//Personal.AI order the ending
