package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/barangaylink/barangaylink-backend/internal/logger"
	"github.com/barangaylink/barangaylink-backend/internal/normalization"
	"github.com/barangaylink/barangaylink-backend/internal/services"
	"github.com/barangaylink/barangaylink-backend/internal/types"
)

type MinutesHandler struct {
	log            *logger.Logger
	minutesService services.MinutesService
}

func NewMinutesHandler(log *logger.Logger, minutesService services.MinutesService) *MinutesHandler {
	return &MinutesHandler{
		log:            log.With("handler", "MinutesHandler"),
		minutesService: minutesService,
	}
}

type minutesRequest struct {
	Title       string    `json:"title"`
	SessionDate time.Time `json:"session_date"`
	Agenda      string    `json:"agenda"`
	Body        string    `json:"body"`
	Attendees   string    `json:"attendees"`
	FileRefs    string    `json:"file_refs"`
}

func (req minutesRequest) toMinutes() (*types.MeetingMinutes, error) {
	attendees, err := json.Marshal(normalization.CoerceStringSlice(req.Attendees))
	if err != nil {
		return nil, err
	}
	refs, err := json.Marshal(normalization.CoerceStringSlice(req.FileRefs))
	if err != nil {
		return nil, err
	}
	return &types.MeetingMinutes{
		Title:       req.Title,
		SessionDate: req.SessionDate,
		Agenda:      req.Agenda,
		Body:        req.Body,
		Attendees:   datatypes.JSON(attendees),
		FileRefs:    datatypes.JSON(refs),
	}, nil
}

func (mh *MinutesHandler) Create(c *gin.Context) {
	minutes, ok := mh.bindMinutes(c)
	if !ok {
		return
	}
	created, err := mh.minutesService.Create(c.Request.Context(), minutes)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "create_minutes_failed", err)
		return
	}
	RespondOK(c, gin.H{"minutes": created})
}

func (mh *MinutesHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	minutes, ok := mh.bindMinutes(c)
	if !ok {
		return
	}
	minutes.ID = id
	updated, err := mh.minutesService.Update(c.Request.Context(), minutes)
	if err != nil {
		RespondServiceError(c, "update_minutes_failed", err)
		return
	}
	RespondOK(c, gin.H{"minutes": updated})
}

func (mh *MinutesHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	minutes, err := mh.minutesService.Get(c.Request.Context(), id)
	if err != nil {
		RespondServiceError(c, "load_minutes_failed", err)
		return
	}
	RespondOK(c, gin.H{"minutes": minutes})
}

func (mh *MinutesHandler) List(c *gin.Context) {
	params := listParamsFromQuery(c)
	minutes, total, err := mh.minutesService.List(c.Request.Context(), params)
	if err != nil {
		mh.log.Error("List minutes failed", "error", err)
		RespondError(c, http.StatusInternalServerError, "list_minutes_failed", err)
		return
	}
	RespondPage(c, minutes, total, params)
}

func (mh *MinutesHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	if err := mh.minutesService.Delete(c.Request.Context(), id); err != nil {
		RespondServiceError(c, "delete_minutes_failed", err)
		return
	}
	RespondOK(c, gin.H{"success": true})
}

func (mh *MinutesHandler) bindMinutes(c *gin.Context) (*types.MeetingMinutes, bool) {
	var req minutesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return nil, false
	}
	minutes, err := req.toMinutes()
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return nil, false
	}
	return minutes, true
}
