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

type TreasuryHandler struct {
	log             *logger.Logger
	treasuryService services.TreasuryService
}

func NewTreasuryHandler(log *logger.Logger, treasuryService services.TreasuryService) *TreasuryHandler {
	return &TreasuryHandler{
		log:             log.With("handler", "TreasuryHandler"),
		treasuryService: treasuryService,
	}
}

type albumRequest struct {
	Title       string `json:"title"`
	Kind        string `json:"kind"`
	Period      string `json:"period"`
	Description string `json:"description"`
}

func (req albumRequest) toAlbum() *types.TreasuryAlbum {
	return &types.TreasuryAlbum{
		Title:       req.Title,
		Kind:        req.Kind,
		Period:      req.Period,
		Description: req.Description,
	}
}

func (th *TreasuryHandler) CreateAlbum(c *gin.Context) {
	var req albumRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	album, err := th.treasuryService.CreateAlbum(c.Request.Context(), req.toAlbum())
	if err != nil {
		RespondError(c, http.StatusBadRequest, "create_album_failed", err)
		return
	}
	RespondOK(c, gin.H{"album": album})
}

func (th *TreasuryHandler) UpdateAlbum(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	var req albumRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	album := req.toAlbum()
	album.ID = id
	updated, err := th.treasuryService.UpdateAlbum(c.Request.Context(), album)
	if err != nil {
		RespondServiceError(c, "update_album_failed", err)
		return
	}
	RespondOK(c, gin.H{"album": updated})
}

func (th *TreasuryHandler) GetAlbum(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	album, err := th.treasuryService.GetAlbum(c.Request.Context(), id)
	if err != nil {
		RespondServiceError(c, "load_album_failed", err)
		return
	}
	RespondOK(c, gin.H{"album": album})
}

func (th *TreasuryHandler) ListAlbums(c *gin.Context) {
	params := listParamsFromQuery(c)
	albums, total, err := th.treasuryService.ListAlbums(c.Request.Context(), c.Query("kind"), params)
	if err != nil {
		th.log.Error("List treasury albums failed", "error", err)
		RespondError(c, http.StatusInternalServerError, "list_albums_failed", err)
		return
	}
	RespondPage(c, albums, total, params)
}

func (th *TreasuryHandler) DeleteAlbum(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	if err := th.treasuryService.DeleteAlbum(c.Request.Context(), id); err != nil {
		RespondServiceError(c, "delete_album_failed", err)
		return
	}
	RespondOK(c, gin.H{"success": true})
}

func (th *TreasuryHandler) AddDocument(c *gin.Context) {
	albumID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	var req struct {
		Title      string     `json:"title"`
		Amount     float64    `json:"amount"`
		FileRefs   string     `json:"file_refs"`
		RecordedAt *time.Time `json:"recorded_at"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	refs, err := json.Marshal(normalization.CoerceStringSlice(req.FileRefs))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	doc := &types.TreasuryDocument{
		AlbumID:  albumID,
		Title:    req.Title,
		Amount:   req.Amount,
		FileRefs: datatypes.JSON(refs),
	}
	if req.RecordedAt != nil {
		doc.RecordedAt = *req.RecordedAt
	}
	created, err := th.treasuryService.AddDocument(c.Request.Context(), doc)
	if err != nil {
		RespondServiceError(c, "add_document_failed", err)
		return
	}
	RespondOK(c, gin.H{"document": created})
}

func (th *TreasuryHandler) ListDocuments(c *gin.Context) {
	albumID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	docs, err := th.treasuryService.ListDocuments(c.Request.Context(), albumID)
	if err != nil {
		RespondServiceError(c, "list_documents_failed", err)
		return
	}
	RespondOK(c, gin.H{"documents": docs})
}

func (th *TreasuryHandler) DeleteDocument(c *gin.Context) {
	albumID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	docID, err := uuid.Parse(c.Param("docId"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	if err := th.treasuryService.DeleteDocument(c.Request.Context(), albumID, docID); err != nil {
		RespondServiceError(c, "delete_document_failed", err)
		return
	}
	RespondOK(c, gin.H{"success": true})
}
