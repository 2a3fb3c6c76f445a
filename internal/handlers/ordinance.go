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
	"github.com/barangaylink/barangaylink-backend/internal/normalization"
	"github.com/barangaylink/barangaylink-backend/internal/services"
	"github.com/barangaylink/barangaylink-backend/internal/types"
)

type OrdinanceHandler struct {
	log              *logger.Logger
	ordinanceService services.OrdinanceService
}

func NewOrdinanceHandler(log *logger.Logger, ordinanceService services.OrdinanceService) *OrdinanceHandler {
	return &OrdinanceHandler{
		log:              log.With("handler", "OrdinanceHandler"),
		ordinanceService: ordinanceService,
	}
}

// ordinanceRequest accepts file_refs as whatever the client sends: a
// JSON array, a comma list, or a single string.
type ordinanceRequest struct {
	Number    string     `json:"number"`
	Title     string     `json:"title"`
	Details   string     `json:"details"`
	Status    string     `json:"status"`
	EnactedAt *time.Time `json:"enacted_at"`
	FileRefs  string     `json:"file_refs"`
}

func (req ordinanceRequest) toOrdinance() (*types.Ordinance, error) {
	refs := normalization.CoerceStringSlice(req.FileRefs)
	encoded, err := json.Marshal(refs)
	if err != nil {
		return nil, err
	}
	return &types.Ordinance{
		Number:    req.Number,
		Title:     req.Title,
		Details:   req.Details,
		Status:    req.Status,
		EnactedAt: req.EnactedAt,
		FileRefs:  datatypes.JSON(encoded),
	}, nil
}

func (oh *OrdinanceHandler) Create(c *gin.Context) {
	ordinance, ok := oh.bindOrdinance(c)
	if !ok {
		return
	}
	created, err := oh.ordinanceService.Create(c.Request.Context(), ordinance)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "create_ordinance_failed", err)
		return
	}
	RespondOK(c, gin.H{"ordinance": created})
}

func (oh *OrdinanceHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	ordinance, ok := oh.bindOrdinance(c)
	if !ok {
		return
	}
	ordinance.ID = id
	updated, err := oh.ordinanceService.Update(c.Request.Context(), ordinance)
	if err != nil {
		RespondServiceError(c, "update_ordinance_failed", err)
		return
	}
	RespondOK(c, gin.H{"ordinance": updated})
}

func (oh *OrdinanceHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	ordinance, err := oh.ordinanceService.Get(c.Request.Context(), id)
	if err != nil {
		RespondServiceError(c, "load_ordinance_failed", err)
		return
	}
	RespondOK(c, gin.H{"ordinance": ordinance})
}

func (oh *OrdinanceHandler) List(c *gin.Context) {
	params := listParamsFromQuery(c)
	ordinances, total, err := oh.ordinanceService.List(c.Request.Context(), params)
	if err != nil {
		oh.log.Error("List ordinances failed", "error", err)
		RespondError(c, http.StatusInternalServerError, "list_ordinances_failed", err)
		return
	}
	RespondPage(c, ordinances, total, params)
}

// Folders returns the grouped council book view.
func (oh *OrdinanceHandler) Folders(c *gin.Context) {
	folders, err := oh.ordinanceService.Folders(c.Request.Context(), c.Query("search"))
	if err != nil {
		oh.log.Error("Ordinance folders failed", "error", err)
		RespondError(c, http.StatusInternalServerError, "load_folders_failed", err)
		return
	}
	RespondOK(c, gin.H{"folders": folders})
}

func (oh *OrdinanceHandler) Amend(c *gin.Context) {
	oh.createChild(c, oh.ordinanceService.Amend, "amend_ordinance_failed")
}

func (oh *OrdinanceHandler) Repeal(c *gin.Context) {
	oh.createChild(c, oh.ordinanceService.Repeal, "repeal_ordinance_failed")
}

func (oh *OrdinanceHandler) createChild(
	c *gin.Context,
	op func(ctx context.Context, parentID uuid.UUID, child *types.Ordinance) (*types.Ordinance, error),
	code string,
) {
	parentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	child, ok := oh.bindOrdinance(c)
	if !ok {
		return
	}
	created, err := op(c.Request.Context(), parentID, child)
	if err != nil {
		RespondServiceError(c, code, err)
		return
	}
	RespondOK(c, gin.H{"ordinance": created})
}

func (oh *OrdinanceHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	if err := oh.ordinanceService.Delete(c.Request.Context(), id); err != nil {
		RespondServiceError(c, "delete_ordinance_failed", err)
		return
	}
	RespondOK(c, gin.H{"success": true})
}

func (oh *OrdinanceHandler) bindOrdinance(c *gin.Context) (*types.Ordinance, bool) {
	var req ordinanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return nil, false
	}
	ordinance, err := req.toOrdinance()
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return nil, false
	}
	return ordinance, true
}
