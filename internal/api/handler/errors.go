package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/kmapgame/internal/api/apierr"
	"github.com/mcoot/kmapgame/internal/api/request"
	"github.com/mcoot/kmapgame/internal/model"
)

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	apierr.WriteError(w, err)
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return apierr.NewInvalidRequestError(message)
}

// decode reads a JSON body into req and checks its validation tags.
// A malformed elapsed time keeps its own error so clients can tell it apart.
func decode(r *http.Request, req any) error {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		if errors.Is(err, model.ErrInvalidElapsed) {
			return err
		}
		return NewInvalidRequestError("invalid request body")
	}
	return request.Validate(req)
}
