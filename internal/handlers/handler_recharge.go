package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/iptv_reseller_app/internal/core/ports/services"
	"github.com/SscSPs/iptv_reseller_app/internal/dto"
	"github.com/SscSPs/iptv_reseller_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

type rechargeHandler struct {
	rechargeService portssvc.RechargeSvcFacade
	pager
}

func registerRechargeRoutes(rg *gin.RouterGroup, rs portssvc.RechargeSvcFacade, p pager) {
	h := &rechargeHandler{rechargeService: rs, pager: p}

	recharges := rg.Group("/recharges")
	{
		recharges.GET("", h.listRecharges)
		recharges.POST("", h.createRecharge)
		recharges.GET("/:id", h.getRecharge)
		recharges.PUT("/:id", h.updateRecharge)
		recharges.DELETE("/:id", h.deleteRecharge)
	}
}

// listRecharges godoc
// @Summary List recharges
// @Tags recharges
// @Produce json
// @Param id_plateforme query string false "Platform ID"
// @Param statut query string false "En attente, Payé or Annulé"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(20)
// @Success 200 {object} dto.APIResponse{data=dto.ListResponse[domain.Recharge]}
// @Failure 400 {object} dto.APIResponse
// @Security BearerAuth
// @Router /api/recharges [get]
func (h *rechargeHandler) listRecharges(c *gin.Context) {
	var params dto.ListRechargesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}
	h.normalize(&params.PageParams)

	recharges, total, err := h.rechargeService.ListRecharges(c.Request.Context(), params)
	if err != nil {
		respondError(c, err, "Failed to list recharges")
		return
	}
	respondList(c, recharges, total, params.PageParams)
}

// createRecharge godoc
// @Summary Record a recharge
// @Description A recharge created as Payé credits the platform balance immediately.
// @Tags recharges
// @Accept json
// @Produce json
// @Param recharge body dto.CreateRechargeRequest true "Recharge details"
// @Success 201 {object} dto.APIResponse{data=domain.Recharge}
// @Failure 400 {object} dto.APIResponse
// @Failure 404 {object} dto.APIResponse "Platform not found"
// @Security BearerAuth
// @Router /api/recharges [post]
func (h *rechargeHandler) createRecharge(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateRechargeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	logger.Info("Received request to create recharge",
		slog.String("platform_id", req.PlatformID),
		slog.String("amount", req.Amount.String()),
		slog.String("status", string(req.Status)))
	recharge, err := h.rechargeService.CreateRecharge(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, err, "Failed to create recharge")
		return
	}
	respondOK(c, http.StatusCreated, recharge, "Recharge created")
}

// getRecharge godoc
// @Summary Get a recharge
// @Tags recharges
// @Produce json
// @Param id path string true "Recharge ID"
// @Success 200 {object} dto.APIResponse{data=domain.Recharge}
// @Failure 404 {object} dto.APIResponse
// @Security BearerAuth
// @Router /api/recharges/{id} [get]
func (h *rechargeHandler) getRecharge(c *gin.Context) {
	recharge, err := h.rechargeService.GetRechargeByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to retrieve recharge")
		return
	}
	respondOK(c, http.StatusOK, recharge, "")
}

// updateRecharge godoc
// @Summary Update a recharge
// @Description Status and amount changes are reflected on the platform balance.
// @Tags recharges
// @Accept json
// @Produce json
// @Param id path string true "Recharge ID"
// @Param recharge body dto.UpdateRechargeRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse{data=domain.Recharge}
// @Failure 400 {object} dto.APIResponse
// @Failure 404 {object} dto.APIResponse
// @Security BearerAuth
// @Router /api/recharges/{id} [put]
func (h *rechargeHandler) updateRecharge(c *gin.Context) {
	var req dto.UpdateRechargeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	recharge, err := h.rechargeService.UpdateRecharge(c.Request.Context(), c.Param("id"), req, userID)
	if err != nil {
		respondError(c, err, "Failed to update recharge")
		return
	}
	respondOK(c, http.StatusOK, recharge, "Recharge updated")
}

// deleteRecharge godoc
// @Summary Delete a recharge
// @Description Deleting a Payé recharge debits its amount from the platform balance.
// @Tags recharges
// @Produce json
// @Param id path string true "Recharge ID"
// @Success 200 {object} dto.APIResponse
// @Failure 400 {object} dto.APIResponse
// @Failure 404 {object} dto.APIResponse
// @Security BearerAuth
// @Router /api/recharges/{id} [delete]
func (h *rechargeHandler) deleteRecharge(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	if err := h.rechargeService.DeleteRecharge(c.Request.Context(), c.Param("id"), userID); err != nil {
		respondError(c, err, "Failed to delete recharge")
		return
	}
	respondOK(c, http.StatusOK, nil, "Recharge deleted")
}
