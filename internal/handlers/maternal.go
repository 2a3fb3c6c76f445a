package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/barangaylink/barangaylink-backend/internal/logger"
	"github.com/barangaylink/barangaylink-backend/internal/services"
	"github.com/barangaylink/barangaylink-backend/internal/types"
)

type MaternalHandler struct {
	log             *logger.Logger
	maternalService services.MaternalService
}

func NewMaternalHandler(log *logger.Logger, maternalService services.MaternalService) *MaternalHandler {
	return &MaternalHandler{
		log:             log.With("handler", "MaternalHandler"),
		maternalService: maternalService,
	}
}

func (mh *MaternalHandler) RegisterPregnancy(c *gin.Context) {
	var req struct {
		ResidentID   uuid.UUID  `json:"resident_id"`
		RegisteredAt *time.Time `json:"registered_at"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	pregnancy := &types.Pregnancy{ResidentID: req.ResidentID}
	if req.RegisteredAt != nil {
		pregnancy.RegisteredAt = *req.RegisteredAt
	}
	created, err := mh.maternalService.RegisterPregnancy(c.Request.Context(), pregnancy)
	if err != nil {
		RespondServiceError(c, "register_pregnancy_failed", err)
		return
	}
	RespondOK(c, gin.H{"pregnancy": created})
}

func (mh *MaternalHandler) AddRecord(c *gin.Context) {
	pregnancyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	var req struct {
		RecordType      string          `json:"record_type"`
		CheckupDate     *time.Time      `json:"checkup_date"`
		ExpectedDueDate *time.Time      `json:"expected_due_date"`
		DeliveryDate    *time.Time      `json:"delivery_date"`
		VitalSigns      json.RawMessage `json:"vital_signs"`
		Notes           string          `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	record := &types.MaternalRecord{
		PregnancyID:     pregnancyID,
		RecordType:      req.RecordType,
		ExpectedDueDate: req.ExpectedDueDate,
		DeliveryDate:    req.DeliveryDate,
		Notes:           req.Notes,
	}
	if req.CheckupDate != nil {
		record.CheckupDate = *req.CheckupDate
	}
	if len(req.VitalSigns) > 0 {
		record.VitalSigns = datatypes.JSON(req.VitalSigns)
	}
	created, err := mh.maternalService.AddRecord(c.Request.Context(), record)
	if err != nil {
		RespondServiceError(c, "add_maternal_record_failed", err)
		return
	}
	RespondOK(c, gin.H{"record": created})
}

func (mh *MaternalHandler) GetPregnancy(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	pregnancy, err := mh.maternalService.GetPregnancy(c.Request.Context(), id)
	if err != nil {
		RespondServiceError(c, "load_pregnancy_failed", err)
		return
	}
	RespondOK(c, gin.H{"pregnancy": pregnancy})
}

func (mh *MaternalHandler) Grouped(c *gin.Context) {
	groups, err := mh.maternalService.GroupedPregnancies(c.Request.Context())
	if err != nil {
		mh.log.Error("Grouped pregnancies failed", "error", err)
		RespondError(c, http.StatusInternalServerError, "load_grouped_pregnancies_failed", err)
		return
	}
	RespondOK(c, gin.H{"groups": groups})
}

func (mh *MaternalHandler) MarkCompleted(c *gin.Context) {
	mh.close(c, mh.maternalService.MarkCompleted, "complete_pregnancy_failed")
}

func (mh *MaternalHandler) MarkLoss(c *gin.Context) {
	mh.close(c, mh.maternalService.MarkLoss, "mark_loss_failed")
}

func (mh *MaternalHandler) close(c *gin.Context, op func(ctx context.Context, pregnancyID, recordID uuid.UUID) error, code string) {
	pregnancyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	var req struct {
		RecordID uuid.UUID `json:"record_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	if err := op(c.Request.Context(), pregnancyID, req.RecordID); err != nil {
		RespondServiceError(c, code, err)
		return
	}
	RespondOK(c, gin.H{"success": true})
}
