package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/iptv_reseller_app/internal/apperrors"
	"github.com/SscSPs/iptv_reseller_app/internal/dto"
	"github.com/SscSPs/iptv_reseller_app/internal/middleware"
	"github.com/SscSPs/iptv_reseller_app/internal/utils/pagination"
	"github.com/gin-gonic/gin"
)

// statusFor maps a service error to its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrValidation),
		errors.Is(err, apperrors.ErrInsufficientStock),
		errors.Is(err, apperrors.ErrInsufficientBalance):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrConflict), errors.Is(err, apperrors.ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, apperrors.ErrUnauthorized):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the error envelope. Internal failures never leak their cause.
func respondError(c *gin.Context, err error, internalMsg string) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error(internalMsg, slog.String("error", err.Error()))
		c.JSON(status, dto.APIResponse{Success: false, Error: internalMsg})
		return
	}
	c.JSON(status, dto.APIResponse{Success: false, Error: err.Error()})
}

func respondBindError(c *gin.Context, err error) {
	middleware.GetLoggerFromCtx(c.Request.Context()).Warn("Failed to bind request", slog.String("error", err.Error()))
	c.JSON(http.StatusBadRequest, dto.APIResponse{Success: false, Error: "Invalid request format: " + err.Error()})
}

func respondOK(c *gin.Context, status int, data any, message string) {
	c.JSON(status, dto.APIResponse{Success: true, Data: data, Message: message})
}

func respondList[T any](c *gin.Context, items []T, total int, page dto.PageParams) {
	if items == nil {
		items = []T{}
	}
	respondOK(c, http.StatusOK, dto.ListResponse[T]{
		Items: items,
		Pagination: dto.Pagination{
			Total: total,
			Page:  page.Page,
			Limit: page.Limit,
			Pages: pagination.Pages(total, page.Limit),
		},
	}, "")
}

// requireUserID returns the authenticated user or writes a 401.
func requireUserID(c *gin.Context) (string, bool) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, dto.APIResponse{Success: false, Error: "Unauthorized"})
	}
	return userID, ok
}

// pager clamps page query parameters to the configured limits.
type pager struct {
	limits pagination.Limits
}

func (p pager) normalize(params *dto.PageParams) {
	params.Page, params.Limit = pagination.Normalize(params.Page, params.Limit, p.limits)
}
