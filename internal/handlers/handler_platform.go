package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/iptv_reseller_app/internal/core/ports/services"
	"github.com/SscSPs/iptv_reseller_app/internal/dto"
	"github.com/SscSPs/iptv_reseller_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// platformHandler handles platform CRUD and the balance ledger endpoints.
type platformHandler struct {
	platformService portssvc.PlatformSvcFacade
	ledgerService   portssvc.LedgerSvcFacade
	pager
}

func registerPlatformRoutes(rg *gin.RouterGroup, ps portssvc.PlatformSvcFacade, ls portssvc.LedgerSvcFacade, p pager) {
	h := &platformHandler{platformService: ps, ledgerService: ls, pager: p}

	platforms := rg.Group("/plateformes")
	{
		platforms.GET("", h.listPlatforms)
		platforms.POST("", h.createPlatform)
		platforms.GET("/:id", h.getPlatform)
		platforms.PUT("/:id", h.updatePlatform)
		platforms.DELETE("/:id", h.deletePlatform)
		platforms.GET("/:id/ledger", h.listLedger)
		platforms.POST("/:id/reconcile", h.reconcile)
	}
}

// listPlatforms godoc
// @Summary List platforms
// @Tags plateformes
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(20)
// @Success 200 {object} dto.APIResponse{data=dto.ListResponse[domain.Platform]}
// @Failure 401 {object} dto.APIResponse
// @Failure 500 {object} dto.APIResponse
// @Security BearerAuth
// @Router /api/plateformes [get]
func (h *platformHandler) listPlatforms(c *gin.Context) {
	var params dto.ListPlatformsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}
	h.normalize(&params.PageParams)

	platforms, total, err := h.platformService.ListPlatforms(c.Request.Context(), params)
	if err != nil {
		respondError(c, err, "Failed to list platforms")
		return
	}
	respondList(c, platforms, total, params.PageParams)
}

// createPlatform godoc
// @Summary Create a platform
// @Description The initial balance seeds both initial_balance and balance.
// @Tags plateformes
// @Accept json
// @Produce json
// @Param platform body dto.CreatePlatformRequest true "Platform details"
// @Success 201 {object} dto.APIResponse{data=domain.Platform}
// @Failure 400 {object} dto.APIResponse
// @Failure 401 {object} dto.APIResponse
// @Failure 500 {object} dto.APIResponse
// @Security BearerAuth
// @Router /api/plateformes [post]
func (h *platformHandler) createPlatform(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreatePlatformRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	logger.Info("Received request to create platform", slog.String("name", req.Name), slog.String("balance_type", string(req.BalanceType)))
	platform, err := h.platformService.CreatePlatform(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, err, "Failed to create platform")
		return
	}
	respondOK(c, http.StatusCreated, platform, "Platform created")
}

// getPlatform godoc
// @Summary Get a platform
// @Tags plateformes
// @Produce json
// @Param id path string true "Platform ID"
// @Success 200 {object} dto.APIResponse{data=domain.Platform}
// @Failure 404 {object} dto.APIResponse
// @Security BearerAuth
// @Router /api/plateformes/{id} [get]
func (h *platformHandler) getPlatform(c *gin.Context) {
	platform, err := h.platformService.GetPlatformByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to retrieve platform")
		return
	}
	respondOK(c, http.StatusOK, platform, "")
}

// updatePlatform godoc
// @Summary Update a platform
// @Description Balance and balance type cannot be changed here.
// @Tags plateformes
// @Accept json
// @Produce json
// @Param id path string true "Platform ID"
// @Param platform body dto.UpdatePlatformRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse{data=domain.Platform}
// @Failure 400 {object} dto.APIResponse
// @Failure 404 {object} dto.APIResponse
// @Security BearerAuth
// @Router /api/plateformes/{id} [put]
func (h *platformHandler) updatePlatform(c *gin.Context) {
	var req dto.UpdatePlatformRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	platform, err := h.platformService.UpdatePlatform(c.Request.Context(), c.Param("id"), req, userID)
	if err != nil {
		respondError(c, err, "Failed to update platform")
		return
	}
	respondOK(c, http.StatusOK, platform, "Platform updated")
}

// deletePlatform godoc
// @Summary Delete a platform
// @Tags plateformes
// @Produce json
// @Param id path string true "Platform ID"
// @Success 200 {object} dto.APIResponse
// @Failure 404 {object} dto.APIResponse
// @Failure 409 {object} dto.APIResponse "Platform still has products or recharges"
// @Security BearerAuth
// @Router /api/plateformes/{id} [delete]
func (h *platformHandler) deletePlatform(c *gin.Context) {
	if err := h.platformService.DeletePlatform(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err, "Failed to delete platform")
		return
	}
	respondOK(c, http.StatusOK, nil, "Platform deleted")
}

// listLedger godoc
// @Summary List balance movements of a platform
// @Tags plateformes
// @Produce json
// @Param id path string true "Platform ID"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(20)
// @Success 200 {object} dto.APIResponse{data=dto.ListResponse[domain.LedgerEntry]}
// @Failure 404 {object} dto.APIResponse
// @Security BearerAuth
// @Router /api/plateformes/{id}/ledger [get]
func (h *platformHandler) listLedger(c *gin.Context) {
	var params dto.ListLedgerParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}
	h.normalize(&params.PageParams)

	entries, total, err := h.ledgerService.ListEntries(c.Request.Context(), c.Param("id"), params)
	if err != nil {
		respondError(c, err, "Failed to list ledger entries")
		return
	}
	respondList(c, entries, total, params.PageParams)
}

// reconcile godoc
// @Summary Reconcile a platform balance
// @Description Compares the balance with initial balance + paid recharges - sale costs. With apply=true the balance is reset to the expected value.
// @Tags plateformes
// @Produce json
// @Param id path string true "Platform ID"
// @Param apply query bool false "Correct the drift"
// @Success 200 {object} dto.APIResponse{data=domain.ReconciliationReport}
// @Failure 404 {object} dto.APIResponse
// @Security BearerAuth
// @Router /api/plateformes/{id}/reconcile [post]
func (h *platformHandler) reconcile(c *gin.Context) {
	var params dto.ReconcileParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	report, err := h.ledgerService.Reconcile(c.Request.Context(), c.Param("id"), params.Apply, userID)
	if err != nil {
		respondError(c, err, "Failed to reconcile platform")
		return
	}
	respondOK(c, http.StatusOK, report, "")
}
