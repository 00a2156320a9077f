package handler

import (
	"net/http"
	"strconv"

	"github.com/mcoot/kmapgame/internal/api/request"
	"github.com/mcoot/kmapgame/internal/api/response"
	"github.com/mcoot/kmapgame/internal/model"
	"github.com/mcoot/kmapgame/internal/services/game"
)

// TimeAttackHandler handles the survival mode endpoints
type TimeAttackHandler struct {
	controller *game.Controller
}

// NewTimeAttackHandler creates a new time attack handler
func NewTimeAttackHandler(controller *game.Controller) *TimeAttackHandler {
	return &TimeAttackHandler{
		controller: controller,
	}
}

// Start handles POST /api/v1/time-attack
func (h *TimeAttackHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req request.StartTimeAttackRequest
	if err := decode(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	state, err := h.controller.StartTimeAttack(r.Context(), req.Username, req.Difficulty)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.TimeAttackStateFromModel(*state))
}

// Check handles POST /api/v1/time-attack/check
func (h *TimeAttackHandler) Check(w http.ResponseWriter, r *http.Request) {
	var req request.CheckTimeAttackRequest
	if err := decode(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	out, err := h.controller.CheckTimeAttack(r.Context(), game.TimeAttackState{
		Username:        req.Username,
		Difficulty:      req.Difficulty,
		QuestionsSolved: req.QuestionsSolved,
		Puzzle:          req.Puzzle,
	}, req.Answer)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.TimeAttackCheckFromOutput(out))
}

// Finish handles POST /api/v1/time-attack/finish
func (h *TimeAttackHandler) Finish(w http.ResponseWriter, r *http.Request) {
	var req request.FinishTimeAttackRequest
	if err := decode(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	out, err := h.controller.FinishTimeAttack(r.Context(), req.Username, req.Difficulty, req.QuestionsSolved)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.TimeAttackFinishFromOutput(out))
}

// Leaderboard handles GET /api/v1/time-attack/leaderboard
func (h *TimeAttackHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	difficulty, err := intParam(q.Get("difficulty"))
	if err != nil {
		WriteError(w, NewInvalidRequestError("difficulty must be an integer"))
		return
	}
	limit, err := intParam(q.Get("limit"))
	if err != nil {
		WriteError(w, NewInvalidRequestError("limit must be an integer"))
		return
	}

	entries, err := h.controller.GetTimeAttackLeaderboard(r.Context(), model.Tier(difficulty), limit)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.TimeAttackLeaderboard{
		Difficulty:  model.Tier(difficulty),
		Leaderboard: entries,
	})
}

// intParam parses an optional integer query parameter; empty means zero
func intParam(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}
