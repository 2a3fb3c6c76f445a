package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	redisclient "github.com/barangaylink/barangaylink-backend/internal/clients/redis"
	"github.com/barangaylink/barangaylink-backend/internal/logger"
	"github.com/barangaylink/barangaylink-backend/internal/requestdata"
	"github.com/barangaylink/barangaylink-backend/internal/services"
	"github.com/barangaylink/barangaylink-backend/internal/types"
)

type MedicineHandler struct {
	log             *logger.Logger
	medicineService services.MedicineService
}

func NewMedicineHandler(log *logger.Logger, medicineService services.MedicineService) *MedicineHandler {
	return &MedicineHandler{
		log:             log.With("handler", "MedicineHandler"),
		medicineService: medicineService,
	}
}

type medicineItemRequest struct {
	Name          string     `json:"name"`
	Categories    string     `json:"categories"`
	Unit          string     `json:"unit"`
	StockQuantity int        `json:"stock_quantity"`
	ExpiryDate    *time.Time `json:"expiry_date"`
}

func (mh *MedicineHandler) CreateItem(c *gin.Context) {
	var req medicineItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	item := &types.MedicineItem{
		Name:          req.Name,
		Unit:          req.Unit,
		StockQuantity: req.StockQuantity,
		ExpiryDate:    req.ExpiryDate,
	}
	created, err := mh.medicineService.CreateItem(c.Request.Context(), item, req.Categories)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "create_medicine_item_failed", err)
		return
	}
	RespondOK(c, gin.H{"item": created})
}

func (mh *MedicineHandler) UpdateItem(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	var req medicineItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	item := &types.MedicineItem{
		ID:            id,
		Name:          req.Name,
		Unit:          req.Unit,
		StockQuantity: req.StockQuantity,
		ExpiryDate:    req.ExpiryDate,
	}
	updated, err := mh.medicineService.UpdateItem(c.Request.Context(), item, req.Categories)
	if err != nil {
		RespondServiceError(c, "update_medicine_item_failed", err)
		return
	}
	RespondOK(c, gin.H{"item": updated})
}

func (mh *MedicineHandler) GetItem(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	item, err := mh.medicineService.GetItem(c.Request.Context(), id)
	if err != nil {
		RespondServiceError(c, "load_medicine_item_failed", err)
		return
	}
	RespondOK(c, gin.H{"item": item})
}

func (mh *MedicineHandler) ListItems(c *gin.Context) {
	params := listParamsFromQuery(c)
	items, total, err := mh.medicineService.ListItems(c.Request.Context(), params)
	if err != nil {
		mh.log.Error("List medicine items failed", "error", err)
		RespondError(c, http.StatusInternalServerError, "list_medicine_items_failed", err)
		return
	}
	RespondPage(c, items, total, params)
}

func (mh *MedicineHandler) DeleteItem(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	if err := mh.medicineService.DeleteItem(c.Request.Context(), id); err != nil {
		RespondServiceError(c, "delete_medicine_item_failed", err)
		return
	}
	RespondOK(c, gin.H{"success": true})
}

func (mh *MedicineHandler) GetDraft(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	draft, err := mh.medicineService.GetDraft(c.Request.Context(), rd.UserID)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "load_draft_failed", err)
		return
	}
	if draft == nil {
		draft = []redisclient.DraftItem{}
	}
	RespondOK(c, gin.H{"items": draft})
}

func (mh *MedicineHandler) SaveDraft(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	var req struct {
		Items []redisclient.DraftItem `json:"items"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	if err := mh.medicineService.SaveDraft(c.Request.Context(), rd.UserID, req.Items); err != nil {
		RespondError(c, http.StatusBadRequest, "save_draft_failed", err)
		return
	}
	RespondOK(c, gin.H{"success": true})
}

func (mh *MedicineHandler) ClearDraft(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	if err := mh.medicineService.ClearDraft(c.Request.Context(), rd.UserID); err != nil {
		RespondError(c, http.StatusInternalServerError, "clear_draft_failed", err)
		return
	}
	RespondOK(c, gin.H{"success": true})
}

func (mh *MedicineHandler) SubmitRequest(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	var req struct {
		ResidentID uuid.UUID `json:"resident_id"`
		Reason     string    `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	request, err := mh.medicineService.SubmitRequest(c.Request.Context(), rd.UserID, req.ResidentID, req.Reason)
	if err != nil {
		RespondServiceError(c, "submit_request_failed", err)
		return
	}
	RespondOK(c, gin.H{"request": request})
}

func (mh *MedicineHandler) GetRequest(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	request, err := mh.medicineService.GetRequest(c.Request.Context(), id)
	if err != nil {
		RespondServiceError(c, "load_request_failed", err)
		return
	}
	RespondOK(c, gin.H{"request": request})
}

func (mh *MedicineHandler) ListRequests(c *gin.Context) {
	params := listParamsFromQuery(c)
	requests, total, err := mh.medicineService.ListRequests(c.Request.Context(), c.Query("status"), params)
	if err != nil {
		mh.log.Error("List medicine requests failed", "error", err)
		RespondError(c, http.StatusInternalServerError, "list_requests_failed", err)
		return
	}
	RespondPage(c, requests, total, params)
}

func (mh *MedicineHandler) ApproveRequest(c *gin.Context) {
	mh.moveRequest(c, mh.medicineService.ApproveRequest, "approve_request_failed")
}

func (mh *MedicineHandler) ReleaseRequest(c *gin.Context) {
	mh.moveRequest(c, mh.medicineService.ReleaseRequest, "release_request_failed")
}

func (mh *MedicineHandler) RejectRequest(c *gin.Context) {
	mh.moveRequest(c, mh.medicineService.RejectRequest, "reject_request_failed")
}

func (mh *MedicineHandler) moveRequest(c *gin.Context, op func(ctx context.Context, id uuid.UUID) (*types.MedicineRequest, error), code string) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	request, err := op(c.Request.Context(), id)
	if err != nil {
		RespondServiceError(c, code, err)
		return
	}
	RespondOK(c, gin.H{"request": request})
}
