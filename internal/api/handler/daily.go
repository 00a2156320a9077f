package handler

import (
	"net/http"

	"github.com/mcoot/kmapgame/internal/api/request"
	"github.com/mcoot/kmapgame/internal/api/response"
	"github.com/mcoot/kmapgame/internal/services/game"
)

// DailyHandler handles the daily challenge endpoints
type DailyHandler struct {
	controller *game.Controller
}

// NewDailyHandler creates a new daily handler
func NewDailyHandler(controller *game.Controller) *DailyHandler {
	return &DailyHandler{
		controller: controller,
	}
}

// Get handles GET /api/v1/daily
func (h *DailyHandler) Get(w http.ResponseWriter, r *http.Request) {
	view, err := h.controller.GetDailyChallenge(r.Context(), r.URL.Query().Get("username"))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.DailyChallengeFromView(view))
}

// Leaderboard handles GET /api/v1/daily/leaderboard
func (h *DailyHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	view, err := h.controller.GetDailyLeaderboard(r.Context(), r.URL.Query().Get("username"))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.DailyLeaderboardFromView(view))
}

// Finish handles POST /api/v1/daily/finish
func (h *DailyHandler) Finish(w http.ResponseWriter, r *http.Request) {
	var req request.FinishDailyRequest
	if err := decode(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	out, err := h.controller.FinishDaily(r.Context(), game.FinishDailyInput{
		Username:       req.Username,
		Difficulty:     req.Difficulty,
		ElapsedSeconds: req.Elapsed(),
		Score:          req.Score,
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.FinishDailyFromOutput(out))
}
