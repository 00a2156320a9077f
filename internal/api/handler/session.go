package handler

import (
	"net/http"

	"github.com/mcoot/kmapgame/internal/api/request"
	"github.com/mcoot/kmapgame/internal/api/response"
	"github.com/mcoot/kmapgame/internal/services/game"
)

// SessionHandler handles practice and daily session endpoints
type SessionHandler struct {
	controller *game.Controller
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(controller *game.Controller) *SessionHandler {
	return &SessionHandler{
		controller: controller,
	}
}

// Create handles POST /api/v1/sessions
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateSessionRequest
	if err := decode(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	session, err := h.controller.StartSession(r.Context(), game.StartInput{
		Username: req.Username,
		Mode:     request.ResolveMode(req.Mode, req.Difficulty),
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SessionFromModel(session))
}

// Advance handles POST /api/v1/sessions/advance
func (h *SessionHandler) Advance(w http.ResponseWriter, r *http.Request) {
	var req request.AdvanceSessionRequest
	if err := decode(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	session, err := h.controller.AdvanceSession(r.Context(), game.AdvanceInput{
		Session: req.ToModel(),
		Result:  req.Result,
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SessionFromModel(session))
}

// SubmitAnswer handles POST /api/v1/answers
func (h *SessionHandler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	var req request.SubmitAnswerRequest
	if err := decode(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	out, err := h.controller.SubmitAnswer(r.Context(), game.SubmitInput{
		Session: req.ToModel(),
		Answer:  req.Answer,
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SubmitAnswerFromOutput(out))
}
