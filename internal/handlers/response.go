package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/barangaylink/barangaylink-backend/internal/repos"
	"github.com/barangaylink/barangaylink-backend/internal/services"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

// RespondServiceError maps the service sentinels onto HTTP statuses so
// every handler reports them the same way.
func RespondServiceError(c *gin.Context, code string, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		RespondError(c, http.StatusNotFound, "not_found", err)
	case errors.Is(err, services.ErrInvalidTransition),
		errors.Is(err, services.ErrNotLatestRecord),
		errors.Is(err, services.ErrHearingLimit):
		RespondError(c, http.StatusConflict, code, err)
	case errors.Is(err, services.ErrEmptyDraft):
		RespondError(c, http.StatusBadRequest, code, err)
	default:
		RespondError(c, http.StatusInternalServerError, code, err)
	}
}

// PagedPayload is the envelope every listing endpoint returns.
type PagedPayload struct {
	Items    any   `json:"items"`
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
}

func RespondPage(c *gin.Context, items any, total int64, params repos.ListParams) {
	page := params.Page
	if page < 1 {
		page = 1
	}
	RespondOK(c, PagedPayload{
		Items:    items,
		Total:    total,
		Page:     page,
		PageSize: params.Limit(),
	})
}

func listParamsFromQuery(c *gin.Context) repos.ListParams {
	page, _ := strconv.Atoi(c.Query("page"))
	pageSize, _ := strconv.Atoi(c.Query("page_size"))
	return repos.ListParams{
		Search:   c.Query("search"),
		Page:     page,
		PageSize: pageSize,
	}
}
