package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/pantryshop/storefront/constants"
)

// HTTPErrorResponse is the JSON body of an API error.
type HTTPErrorResponse struct {
	Detail string `json:"detail"`
}

// WriteHTTPError writes a JSON error response.
func WriteHTTPError(w http.ResponseWriter, message string, code int) {
	if err := WriteHTTPJSON(w, code, HTTPErrorResponse{Detail: message}); err != nil {
		Error(constants.LogFailedEncodeJSON, err)
	}
}

// WriteHTTPJSON encodes v as the response body with the given status code.
func WriteHTTPJSON(w http.ResponseWriter, code int, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		w.Header().Set(constants.HeaderContentType, constants.ContentTypeText)
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, constants.ResponseInternalError)
		return err
	}
	w.Header().Set(constants.HeaderContentType, constants.ContentTypeJSON)
	w.WriteHeader(code)
	if _, err := w.Write(data); err != nil {
		Debug(constants.LogWriteFailed, err)
	}
	return nil
}

// RootCause follows the Unwrap chain to the innermost error. For errors
// wrapping several causes the first one is followed.
func RootCause(err error) error {
	for err != nil {
		switch u := err.(type) {
		case interface{ Unwrap() []error }:
			errs := u.Unwrap()
			if len(errs) == 0 {
				return err
			}
			err = errs[0]
		default:
			next := errors.Unwrap(err)
			if next == nil {
				return err
			}
			err = next
		}
	}
	return nil
}

// TypeName returns the dynamic Go type of v, e.g. "*net.OpError".
func TypeName(v any) string {
	return fmt.Sprintf("%T", v)
}
