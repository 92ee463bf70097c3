package v1

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// sanitizeValidationError returns a client-safe message for a JSON binding
// error. Raw decoder errors are never echoed.
func sanitizeValidationError(err error) string {
	var (
		typeErr   *json.UnmarshalTypeError
		syntaxErr *json.SyntaxError
	)
	switch {
	case err == nil:
		return ""
	case errors.Is(err, io.EOF):
		return "Request body is required"
	case errors.As(err, &typeErr) && typeErr.Field != "":
		return fmt.Sprintf("Invalid value for field: %s", typeErr.Field)
	case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
		return "Malformed JSON body"
	}
	return "Invalid request"
}
