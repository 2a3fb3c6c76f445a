package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/barangaylink/barangaylink-backend/internal/logger"
	"github.com/barangaylink/barangaylink-backend/internal/services"
	"github.com/barangaylink/barangaylink-backend/internal/types"
)

type ResidentHandler struct {
	log             *logger.Logger
	residentService services.ResidentService
}

func NewResidentHandler(log *logger.Logger, residentService services.ResidentService) *ResidentHandler {
	return &ResidentHandler{
		log:             log.With("handler", "ResidentHandler"),
		residentService: residentService,
	}
}

type residentRequest struct {
	FirstName  string     `json:"first_name"`
	LastName   string     `json:"last_name"`
	MiddleName string     `json:"middle_name"`
	BirthDate  *time.Time `json:"birth_date"`
	Sex        string     `json:"sex"`
	Address    string     `json:"address"`
	ContactNo  string     `json:"contact_no"`
}

func (req residentRequest) toResident() *types.Resident {
	return &types.Resident{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		MiddleName: req.MiddleName,
		BirthDate:  req.BirthDate,
		Sex:        req.Sex,
		Address:    req.Address,
		ContactNo:  req.ContactNo,
	}
}

func (rh *ResidentHandler) Create(c *gin.Context) {
	var req residentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	resident, err := rh.residentService.Create(c.Request.Context(), req.toResident())
	if err != nil {
		RespondError(c, http.StatusBadRequest, "create_resident_failed", err)
		return
	}
	RespondOK(c, gin.H{"resident": resident})
}

func (rh *ResidentHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	var req residentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	resident := req.toResident()
	resident.ID = id
	updated, err := rh.residentService.Update(c.Request.Context(), resident)
	if err != nil {
		RespondServiceError(c, "update_resident_failed", err)
		return
	}
	RespondOK(c, gin.H{"resident": updated})
}

func (rh *ResidentHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	resident, err := rh.residentService.Get(c.Request.Context(), id)
	if err != nil {
		RespondServiceError(c, "load_resident_failed", err)
		return
	}
	RespondOK(c, gin.H{"resident": resident})
}

func (rh *ResidentHandler) List(c *gin.Context) {
	params := listParamsFromQuery(c)
	residents, total, err := rh.residentService.List(c.Request.Context(), params)
	if err != nil {
		rh.log.Error("List residents failed", "error", err)
		RespondError(c, http.StatusInternalServerError, "list_residents_failed", err)
		return
	}
	RespondPage(c, residents, total, params)
}

func (rh *ResidentHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	if err := rh.residentService.Delete(c.Request.Context(), id); err != nil {
		RespondServiceError(c, "delete_resident_failed", err)
		return
	}
	RespondOK(c, gin.H{"success": true})
}
