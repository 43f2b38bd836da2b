package web

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/julianstephens/dailyos/internal/actions"
	apperrors "github.com/julianstephens/dailyos/internal/errors"
	"github.com/julianstephens/dailyos/internal/models"
)

func (s *Server) getToday(c *gin.Context) {
	day, err := s.svc.TodayDay(userID(c))
	if err != nil {
		respondError(c, "load today", err)
		return
	}
	c.JSON(http.StatusOK, day)
}

func (s *Server) putTodayWorkUnit(c *gin.Context) {
	var body struct {
		WorkUnitID string `json:"work_unit_id"`
	}
	if !bind(c, &body) {
		return
	}
	day, err := s.svc.SetTodayWorkUnit(userID(c), body.WorkUnitID)
	if err != nil {
		respondError(c, "set today's work unit", err)
		return
	}
	c.JSON(http.StatusOK, day)
}

func (s *Server) getStatus(c *gin.Context) {
	user := userID(c)
	shown, err := s.svc.HasShownUpToday(user)
	if err != nil {
		respondError(c, "load status", err)
		return
	}
	closed, err := s.svc.HasCheckpointedToday(user)
	if err != nil {
		respondError(c, "load status", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"date":         s.svc.Today(),
		"shown_up":     shown,
		"checkpointed": closed,
	})
}

func (s *Server) getStreaks(c *gin.Context) {
	streaks, err := s.svc.MonthlyStreaks(userID(c))
	if err != nil {
		respondError(c, "load streaks", err)
		return
	}
	c.JSON(http.StatusOK, streaks)
}

func (s *Server) getMomentum(c *gin.Context) {
	momentum, err := s.svc.WeeklyMomentum(userID(c))
	if err != nil {
		respondError(c, "load momentum", err)
		return
	}
	c.JSON(http.StatusOK, momentum)
}

// getDay looks a day up by its YYYY-MM-DD date.
func (s *Server) getDay(c *gin.Context) {
	day, err := s.svc.DayByDate(userID(c), c.Param("day"))
	if err != nil {
		respondError(c, "load day", err)
		return
	}
	c.JSON(http.StatusOK, day)
}

func (s *Server) putIntent(c *gin.Context) {
	var body struct {
		Intent string `json:"intent"`
	}
	if !bind(c, &body) {
		return
	}
	day, err := s.svc.SaveDailyIntent(userID(c), c.Param("day"), body.Intent)
	if err != nil {
		respondError(c, "save daily intent", err)
		return
	}
	c.JSON(http.StatusOK, day)
}

func (s *Server) putHorizon(c *gin.Context) {
	var body struct {
		Content string `json:"content"`
	}
	if !bind(c, &body) {
		return
	}
	horizon := models.HorizonType(c.Param("horizon"))
	day, err := s.svc.SaveHorizon(userID(c), c.Param("day"), horizon, body.Content)
	if err != nil {
		respondError(c, "save "+string(horizon)+" horizon", err)
		return
	}
	c.JSON(http.StatusOK, day)
}

func (s *Server) getDayCheckpoint(c *gin.Context) {
	cp, err := s.svc.CheckpointForDay(userID(c), c.Param("day"))
	if err != nil {
		respondError(c, "load checkpoint", err)
		return
	}
	if cp == nil {
		respondError(c, "load checkpoint", apperrors.NotFoundf("checkpoint for day %s", c.Param("day")))
		return
	}
	c.JSON(http.StatusOK, cp)
}

func (s *Server) postNail(c *gin.Context) {
	var in actions.NailInput
	if !bind(c, &in) {
		return
	}
	in.DayID = c.Param("day")
	nail, err := s.svc.AddDailyNail(userID(c), in)
	if err != nil {
		respondError(c, "add daily nail", err)
		return
	}
	c.JSON(http.StatusCreated, nail)
}

func (s *Server) patchNail(c *gin.Context) {
	var body struct {
		IsDone bool `json:"is_done"`
	}
	if !bind(c, &body) {
		return
	}
	nail, err := s.svc.ToggleDailyNail(userID(c), c.Param("id"), body.IsDone)
	if err != nil {
		respondError(c, "update daily nail", err)
		return
	}
	c.JSON(http.StatusOK, nail)
}

func (s *Server) deleteNail(c *gin.Context) {
	if err := s.svc.DeleteDailyNail(userID(c), c.Param("id")); err != nil {
		respondError(c, "delete daily nail", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) getCheckpoints(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			respondError(c, "load checkpoints", apperrors.Invalidf("limit must be a non-negative integer"))
			return
		}
		limit = n
	}
	cps, err := s.svc.RecentCheckpoints(userID(c), limit)
	if err != nil {
		respondError(c, "load checkpoints", err)
		return
	}
	c.JSON(http.StatusOK, cps)
}

func (s *Server) postCheckpoint(c *gin.Context) {
	var in actions.CheckpointInput
	if !bind(c, &in) {
		return
	}
	cp, err := s.svc.SaveCheckpoint(userID(c), in)
	if err != nil {
		respondError(c, "save checkpoint", err)
		return
	}
	c.JSON(http.StatusOK, cp)
}

func (s *Server) getWorkUnits(c *gin.Context) {
	units, err := s.svc.WorkUnits(userID(c), models.WorkUnitStatus(c.Query("status")))
	if err != nil {
		respondError(c, "load work units", err)
		return
	}
	c.JSON(http.StatusOK, units)
}

// getActiveWorkUnits answers ?with=counts or ?with=checklists; plain units otherwise.
func (s *Server) getActiveWorkUnits(c *gin.Context) {
	user := userID(c)
	var (
		out any
		err error
	)
	switch c.Query("with") {
	case "counts":
		out, err = s.svc.ActiveWorkUnitsWithCounts(user)
	case "checklists":
		out, err = s.svc.ActiveWorkUnitsWithChecklists(user)
	case "":
		out, err = s.svc.ActiveWorkUnits(user)
	default:
		err = apperrors.Invalidf("with must be counts or checklists")
	}
	if err != nil {
		respondError(c, "load work units", err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) postWorkUnit(c *gin.Context) {
	var in actions.WorkUnitInput
	if !bind(c, &in) {
		return
	}
	wu, err := s.svc.CreateWorkUnit(userID(c), in)
	if err != nil {
		respondError(c, "create work unit", err)
		return
	}
	c.JSON(http.StatusCreated, wu)
}

func (s *Server) getWorkUnit(c *gin.Context) {
	wu, err := s.svc.WorkUnit(userID(c), c.Param("id"))
	if err != nil {
		respondError(c, "load work unit", err)
		return
	}
	c.JSON(http.StatusOK, wu)
}

func (s *Server) patchWorkUnit(c *gin.Context) {
	var patch actions.WorkUnitPatch
	if !bind(c, &patch) {
		return
	}
	wu, err := s.svc.UpdateWorkUnit(userID(c), c.Param("id"), patch)
	if err != nil {
		respondError(c, "update work unit", err)
		return
	}
	c.JSON(http.StatusOK, wu)
}

func (s *Server) deleteWorkUnit(c *gin.Context) {
	if err := s.svc.DeleteWorkUnit(userID(c), c.Param("id")); err != nil {
		respondError(c, "delete work unit", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) putWorkUnitStatus(c *gin.Context) {
	var body struct {
		Status models.WorkUnitStatus `json:"status"`
	}
	if !bind(c, &body) {
		return
	}
	wu, err := s.svc.SetWorkUnitStatus(userID(c), c.Param("id"), body.Status)
	if err != nil {
		respondError(c, "update work unit status", err)
		return
	}
	c.JSON(http.StatusOK, wu)
}

func (s *Server) postCompleteWorkUnit(c *gin.Context) {
	wu, err := s.svc.CompleteWorkUnit(userID(c), c.Param("id"))
	if err != nil {
		respondError(c, "complete work unit", err)
		return
	}
	c.JSON(http.StatusOK, wu)
}

func (s *Server) getLatestCheckpoint(c *gin.Context) {
	cp, err := s.svc.LatestCheckpoint(userID(c), c.Param("id"))
	if err != nil {
		respondError(c, "load checkpoint", err)
		return
	}
	if cp == nil {
		respondError(c, "load checkpoint", apperrors.NotFoundf("checkpoint for work unit %s", c.Param("id")))
		return
	}
	c.JSON(http.StatusOK, cp)
}

func (s *Server) postChecklistItem(c *gin.Context) {
	var body struct {
		Label    string `json:"label"`
		Position *int   `json:"position"`
	}
	if !bind(c, &body) {
		return
	}
	item, err := s.svc.AddChecklistItem(userID(c), c.Param("id"), body.Label, body.Position)
	if err != nil {
		respondError(c, "add checklist item", err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

// patchChecklistItem renames and/or toggles an item; at least one field is required.
func (s *Server) patchChecklistItem(c *gin.Context) {
	var body struct {
		Label  *string `json:"label"`
		IsDone *bool   `json:"is_done"`
	}
	if !bind(c, &body) {
		return
	}
	if body.Label == nil && body.IsDone == nil {
		respondError(c, "update checklist item", apperrors.Invalidf("label or is_done is required"))
		return
	}

	user, id := userID(c), c.Param("id")
	var (
		item models.ChecklistItem
		err  error
	)
	if body.Label != nil {
		if item, err = s.svc.RenameChecklistItem(user, id, *body.Label); err != nil {
			respondError(c, "update checklist item", err)
			return
		}
	}
	if body.IsDone != nil {
		if item, err = s.svc.ToggleChecklistItem(user, id, *body.IsDone); err != nil {
			respondError(c, "update checklist item", err)
			return
		}
	}
	c.JSON(http.StatusOK, item)
}

func (s *Server) deleteChecklistItem(c *gin.Context) {
	if _, err := s.svc.DeleteChecklistItem(userID(c), c.Param("id")); err != nil {
		respondError(c, "delete checklist item", err)
		return
	}
	c.Status(http.StatusNoContent)
}
