package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"glucoguard/internal/app"
	"glucoguard/internal/food"
	"glucoguard/internal/habits"
	"glucoguard/internal/ledger"
	"glucoguard/internal/weekly"
	"glucoguard/internal/wellness"
)

const maxImageBytes = 8 << 20

func badRequest(c *gin.Context, msg string, err error) {
	body := gin.H{"error": msg}
	if err != nil {
		body["details"] = err.Error()
	}
	c.JSON(http.StatusBadRequest, body)
}

func (h *handler) getState(c *gin.Context) {
	c.JSON(http.StatusOK, h.app.Engine.Snapshot())
}

func (h *handler) resetState(c *gin.Context) {
	if err := h.app.Engine.Reset(); err != nil {
		h.logger.Error("failed to reset state", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reset state"})
		return
	}
	c.JSON(http.StatusOK, h.app.Engine.Snapshot())
}

func (h *handler) patchProfile(c *gin.Context) {
	var p habits.ProfilePatch
	if err := c.ShouldBindJSON(&p); err != nil {
		badRequest(c, "Invalid request data", err)
		return
	}
	if p.Empty() {
		badRequest(c, "No profile fields given", nil)
		return
	}
	if p.DailySugar != nil && !p.DailySugar.Valid() {
		badRequest(c, "dailySugar must be one of low, moderate, high, very-high", nil)
		return
	}

	c.JSON(http.StatusOK, h.app.Engine.SetProfile(p))
}

func (h *handler) patchHabits(c *gin.Context) {
	var p habits.HabitsPatch
	if err := c.ShouldBindJSON(&p); err != nil {
		badRequest(c, "Invalid request data", err)
		return
	}
	if p.Empty() {
		badRequest(c, "No habit fields given", nil)
		return
	}

	updated := h.app.Engine.SetHabits(p)
	score := h.app.Engine.DailyScore()
	c.JSON(http.StatusOK, gin.H{
		"habits":     updated,
		"dailyScore": score,
		"avatar":     wellness.MoodFor(score),
	})
}

func (h *handler) logHabits(c *gin.Context) {
	res, ok := h.app.Engine.MarkHabitsLogged()
	if !ok {
		c.JSON(http.StatusConflict, gin.H{"error": "Habits already logged today", "streak": res.Streak})
		return
	}
	c.JSON(http.StatusOK, res)
}

type challengeView struct {
	ledger.Challenge
	Completed bool `json:"completed"`
	Eligible  bool `json:"eligible"`
}

func (h *handler) listChallenges(c *gin.Context) {
	state := h.app.Engine.Snapshot()
	done := make(map[string]bool, len(state.CompletedChallenges))
	for _, id := range state.CompletedChallenges {
		done[id] = true
	}

	views := make([]challengeView, 0, 10)
	for _, ch := range ledger.Challenges() {
		views = append(views, challengeView{
			Challenge: ch,
			Completed: done[ch.ID],
			Eligible:  !done[ch.ID] && ch.Check(state.Habits),
		})
	}
	c.JSON(http.StatusOK, views)
}

func (h *handler) completeChallenge(c *gin.Context) {
	id := c.Param("id")
	completed, err := h.app.Engine.TryCompleteChallenge(id)
	switch {
	case errors.Is(err, ledger.ErrUnknownChallenge):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	case errors.Is(err, ledger.ErrNotEligible):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"completed": completed,
		"points":    h.app.Engine.Points(),
		"level":     h.app.Engine.Level(),
	})
}

type badgeView struct {
	ledger.Badge
	Earned bool `json:"earned"`
}

func (h *handler) listBadges(c *gin.Context) {
	earned := make(map[string]bool)
	for _, id := range h.app.Engine.Snapshot().Badges {
		earned[id] = true
	}

	views := make([]badgeView, 0, 8)
	for _, b := range ledger.Badges() {
		views = append(views, badgeView{Badge: b, Earned: earned[b.ID]})
	}
	c.JSON(http.StatusOK, views)
}

type foodRequest struct {
	Name     string   `json:"name" binding:"required"`
	Calories float64  `json:"calories"`
	Sugar    float64  `json:"sugar"`
	Fat      *float64 `json:"fat"`
}

func (h *handler) addFood(c *gin.Context) {
	var req foodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request data", err)
		return
	}

	c.JSON(http.StatusCreated, h.app.LogFood(req.Name, req.Calories, req.Sugar, req.Fat))
}

func (h *handler) scanFood(c *gin.Context) {
	fh, err := c.FormFile("image")
	if err != nil {
		badRequest(c, "An image file is required", err)
		return
	}
	if fh.Size > maxImageBytes {
		badRequest(c, "Image too large", nil)
		return
	}

	f, err := fh.Open()
	if err != nil {
		badRequest(c, "Unreadable image", err)
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		badRequest(c, "Unreadable image", err)
		return
	}
	mimeType := fh.Header.Get("Content-Type")
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = http.DetectContentType(data)
	}

	res, err := h.app.ScanFood(c.Request.Context(), food.Image{MimeType: mimeType, Data: data})
	switch {
	case errors.Is(err, app.ErrScanUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	case errors.Is(err, food.ErrNoImage):
		badRequest(c, "Empty image", nil)
		return
	case err != nil:
		h.logger.Warn("food scan failed", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Food identification failed"})
		return
	}

	c.JSON(http.StatusCreated, res)
}

func (h *handler) getWeekly(c *gin.Context) {
	r := weekly.NewRollup(h.app.Engine.Weekly())
	c.JSON(http.StatusOK, gin.H{"days": r.Days(), "average": r.Average()})
}
