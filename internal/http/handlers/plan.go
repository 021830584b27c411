package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	types "github.com/yungbote/plancast-backend/internal/domain"
	"github.com/yungbote/plancast-backend/internal/http/response"
	"github.com/yungbote/plancast-backend/internal/planner"
	"github.com/yungbote/plancast-backend/internal/services"
)

type PlanHandler struct {
	planService services.PlanService
}

func NewPlanHandler(planService services.PlanService) *PlanHandler {
	return &PlanHandler{planService: planService}
}

func planErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, planner.ErrBadDateKey):
		return http.StatusBadRequest, "invalid_date"
	case errors.Is(err, planner.ErrFutureDate):
		return http.StatusBadRequest, "future_date"
	default:
		return http.StatusBadRequest, "plan_operation_failed"
	}
}

func (ph *PlanHandler) GetPlan(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", err)
		return
	}
	doc := ph.planService.Load(c.Request.Context(), userID)
	response.RespondOK(c, gin.H{"plan": doc})
}

func (ph *PlanHandler) ResetPlan(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", err)
		return
	}
	if err := ph.planService.Reset(c.Request.Context(), userID); err != nil {
		response.RespondError(c, http.StatusInternalServerError, "reset_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

func (ph *PlanHandler) UpdateProfile(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", err)
		return
	}
	var req struct {
		Platform     string   `json:"platform"`
		Niche        string   `json:"niche"`
		ContentTypes []string `json:"content_types"`
		Frequency    int      `json:"frequency"`
		Step         int      `json:"step"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	profile := types.Profile{
		Platform:     types.Platform(req.Platform),
		Niche:        req.Niche,
		ContentTypes: req.ContentTypes,
		Frequency:    types.Frequency(req.Frequency),
	}
	doc, err := ph.planService.UpdateProfile(c.Request.Context(), userID, profile, req.Step)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "profile_update_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"plan": doc})
}

func (ph *PlanHandler) Generate(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", err)
		return
	}
	var req struct {
		Year  int    `json:"year"`
		Month int    `json:"month"`
		Theme string `json:"theme"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if req.Year == 0 || req.Month == 0 {
		now := time.Now()
		req.Year, req.Month = now.Year(), int(now.Month())
	}
	doc, err := ph.planService.GenerateMonth(c.Request.Context(), userID, req.Year, time.Month(req.Month), req.Theme)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "generation_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"plan": doc})
}

func (ph *PlanHandler) MarkDone(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", err)
		return
	}
	doc, res, err := ph.planService.MarkDone(c.Request.Context(), userID, c.Param("date"))
	if err != nil {
		status, code := planErrorStatus(err)
		response.RespondError(c, status, code, err)
		return
	}
	response.RespondOK(c, gin.H{
		"plan":      doc,
		"streak":    res.Streak,
		"best":      res.Best,
		"milestone": res.Milestone,
	})
}

func (ph *PlanHandler) UnmarkDone(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", err)
		return
	}
	doc, err := ph.planService.UnmarkDone(c.Request.Context(), userID, c.Param("date"))
	if err != nil {
		status, code := planErrorStatus(err)
		response.RespondError(c, status, code, err)
		return
	}
	response.RespondOK(c, gin.H{"plan": doc})
}

func (ph *PlanHandler) EditPost(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", err)
		return
	}
	var req types.PostEdit
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	doc, err := ph.planService.SetEdit(c.Request.Context(), userID, c.Param("date"), req)
	if err != nil {
		status, code := planErrorStatus(err)
		response.RespondError(c, status, code, err)
		return
	}
	response.RespondOK(c, gin.H{"plan": doc})
}

func (ph *PlanHandler) LogMetrics(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", err)
		return
	}
	var req struct {
		Views    int `json:"views"`
		Likes    int `json:"likes"`
		Comments int `json:"comments"`
		Saves    int `json:"saves"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	entry := types.MetricEntry{
		Date:     c.Param("date"),
		Views:    req.Views,
		Likes:    req.Likes,
		Comments: req.Comments,
		Saves:    req.Saves,
	}
	doc, err := ph.planService.LogMetrics(c.Request.Context(), userID, entry)
	if err != nil {
		status, code := planErrorStatus(err)
		response.RespondError(c, status, code, err)
		return
	}
	response.RespondOK(c, gin.H{"plan": doc})
}

func (ph *PlanHandler) GetStreak(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", err)
		return
	}
	current, best := ph.planService.Streak(c.Request.Context(), userID)
	response.RespondOK(c, gin.H{"streak": current, "best": best})
}

func (ph *PlanHandler) SetTheme(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", err)
		return
	}
	var req struct {
		Dark bool `json:"dark"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	doc := ph.planService.SetDarkTheme(c.Request.Context(), userID, req.Dark)
	response.RespondOK(c, gin.H{"plan": doc})
}
