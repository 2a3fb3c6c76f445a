package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/barangaylink/barangaylink-backend/internal/logger"
	"github.com/barangaylink/barangaylink-backend/internal/services"
	"github.com/barangaylink/barangaylink-backend/internal/types"
)

type SummonHandler struct {
	log           *logger.Logger
	summonService services.SummonService
}

func NewSummonHandler(log *logger.Logger, summonService services.SummonService) *SummonHandler {
	return &SummonHandler{
		log:           log.With("handler", "SummonHandler"),
		summonService: summonService,
	}
}

func (sh *SummonHandler) FileCase(c *gin.Context) {
	var req struct {
		CaseNumber   string     `json:"case_number"`
		Nature       string     `json:"nature"`
		Details      string     `json:"details"`
		Complainants []string   `json:"complainants"`
		Respondents  []string   `json:"respondents"`
		FiledAt      *time.Time `json:"filed_at"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	summonCase := &types.SummonCase{
		CaseNumber: req.CaseNumber,
		Nature:     req.Nature,
		Details:    req.Details,
	}
	if req.FiledAt != nil {
		summonCase.FiledAt = *req.FiledAt
	}
	filed, err := sh.summonService.FileCase(c.Request.Context(), summonCase, req.Complainants, req.Respondents)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "file_case_failed", err)
		return
	}
	RespondOK(c, gin.H{"case": filed})
}

func (sh *SummonHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	summonCase, err := sh.summonService.Get(c.Request.Context(), id)
	if err != nil {
		RespondServiceError(c, "load_case_failed", err)
		return
	}
	RespondOK(c, gin.H{"case": summonCase})
}

func (sh *SummonHandler) List(c *gin.Context) {
	params := listParamsFromQuery(c)
	cases, total, err := sh.summonService.List(c.Request.Context(), c.Query("status"), params)
	if err != nil {
		sh.log.Error("List summon cases failed", "error", err)
		RespondError(c, http.StatusInternalServerError, "list_cases_failed", err)
		return
	}
	RespondPage(c, cases, total, params)
}

func (sh *SummonHandler) ScheduleHearing(c *gin.Context) {
	caseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	var req struct {
		ScheduledAt time.Time `json:"scheduled_at"`
		Venue       string    `json:"venue"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	hearing, err := sh.summonService.ScheduleHearing(c.Request.Context(), caseID, req.ScheduledAt, req.Venue)
	if err != nil {
		RespondServiceError(c, "schedule_hearing_failed", err)
		return
	}
	RespondOK(c, gin.H{"hearing": hearing})
}

func (sh *SummonHandler) RecordOutcome(c *gin.Context) {
	caseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	hearingID, err := uuid.Parse(c.Param("hearingId"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	var req struct {
		Outcome string `json:"outcome"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	if err := sh.summonService.RecordOutcome(c.Request.Context(), caseID, hearingID, req.Outcome); err != nil {
		RespondServiceError(c, "record_outcome_failed", err)
		return
	}
	RespondOK(c, gin.H{"success": true})
}

func (sh *SummonHandler) Settle(c *gin.Context) {
	sh.closeCase(c, sh.summonService.Settle, "settle_case_failed")
}

func (sh *SummonHandler) Escalate(c *gin.Context) {
	sh.closeCase(c, sh.summonService.Escalate, "escalate_case_failed")
}

func (sh *SummonHandler) closeCase(c *gin.Context, op func(ctx context.Context, caseID uuid.UUID) error, code string) {
	caseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	if err := op(c.Request.Context(), caseID); err != nil {
		RespondServiceError(c, code, err)
		return
	}
	RespondOK(c, gin.H{"success": true})
}

// Notice streams the rendered summons PNG for printing.
func (sh *SummonHandler) Notice(c *gin.Context) {
	caseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	png, err := sh.summonService.HearingNotice(c.Request.Context(), caseID)
	if err != nil {
		RespondServiceError(c, "render_notice_failed", err)
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}
