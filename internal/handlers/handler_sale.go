package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/iptv_reseller_app/internal/core/ports/services"
	"github.com/SscSPs/iptv_reseller_app/internal/dto"
	"github.com/SscSPs/iptv_reseller_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

type saleHandler struct {
	saleService portssvc.SaleSvcFacade
	pager
}

func registerSaleRoutes(rg *gin.RouterGroup, ss portssvc.SaleSvcFacade, p pager) {
	h := &saleHandler{saleService: ss, pager: p}

	sales := rg.Group("/ventes")
	{
		sales.GET("", h.listSales)
		sales.POST("", h.createSale)
		sales.DELETE("/bulk-delete", h.bulkDeleteSales)
		sales.GET("/:id", h.getSale)
		sales.PUT("/:id", h.updateSale)
		sales.DELETE("/:id", h.deleteSale)
	}
}

// listSales godoc
// @Summary List sales
// @Tags ventes
// @Produce json
// @Param id_client query string false "Client ID"
// @Param id_produit query string false "Product ID"
// @Param id_plateforme query string false "Platform ID"
// @Param statut_paiement query string false "Payé or En attente"
// @Param date_from query string false "First day, YYYY-MM-DD"
// @Param date_to query string false "Last day (inclusive), YYYY-MM-DD"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(20)
// @Success 200 {object} dto.APIResponse{data=dto.ListResponse[domain.Sale]}
// @Failure 400 {object} dto.APIResponse
// @Security BearerAuth
// @Router /api/ventes [get]
func (h *saleHandler) listSales(c *gin.Context) {
	var params dto.ListSalesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}
	h.normalize(&params.PageParams)

	sales, total, err := h.saleService.ListSales(c.Request.Context(), params)
	if err != nil {
		respondError(c, err, "Failed to list sales")
		return
	}
	respondList(c, sales, total, params.PageParams)
}

// createSale godoc
// @Summary Record a sale
// @Description Decrements product stock and debits the purchase cost from the platform balance in one transaction.
// @Tags ventes
// @Accept json
// @Produce json
// @Param sale body dto.CreateSaleRequest true "Sale details"
// @Success 201 {object} dto.APIResponse{data=domain.Sale}
// @Failure 400 {object} dto.APIResponse "Validation error, insufficient stock or insufficient balance"
// @Failure 404 {object} dto.APIResponse "Client, product or platform not found"
// @Security BearerAuth
// @Router /api/ventes [post]
func (h *saleHandler) createSale(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	logger.Info("Received request to create sale",
		slog.String("product_id", req.ProductID),
		slog.String("platform_id", req.PlatformID),
		slog.Int("quantity", req.Quantity))
	sale, err := h.saleService.CreateSale(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, err, "Failed to create sale")
		return
	}
	respondOK(c, http.StatusCreated, sale, "Sale created")
}

// getSale godoc
// @Summary Get a sale
// @Tags ventes
// @Produce json
// @Param id path string true "Sale ID"
// @Success 200 {object} dto.APIResponse{data=domain.Sale}
// @Failure 404 {object} dto.APIResponse
// @Security BearerAuth
// @Router /api/ventes/{id} [get]
func (h *saleHandler) getSale(c *gin.Context) {
	sale, err := h.saleService.GetSaleByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to retrieve sale")
		return
	}
	respondOK(c, http.StatusOK, sale, "")
}

// updateSale godoc
// @Summary Update a sale
// @Description quantite, purchase_cost, id_produit and id_plateforme cannot be changed. Stock and balance are untouched.
// @Tags ventes
// @Accept json
// @Produce json
// @Param id path string true "Sale ID"
// @Param sale body dto.UpdateSaleRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse{data=domain.Sale}
// @Failure 400 {object} dto.APIResponse
// @Failure 404 {object} dto.APIResponse
// @Security BearerAuth
// @Router /api/ventes/{id} [put]
func (h *saleHandler) updateSale(c *gin.Context) {
	var req dto.UpdateSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	sale, err := h.saleService.UpdateSale(c.Request.Context(), c.Param("id"), req, userID)
	if err != nil {
		respondError(c, err, "Failed to update sale")
		return
	}
	respondOK(c, http.StatusOK, sale, "Sale updated")
}

// deleteSale godoc
// @Summary Delete a sale
// @Tags ventes
// @Produce json
// @Param id path string true "Sale ID"
// @Success 200 {object} dto.APIResponse
// @Failure 404 {object} dto.APIResponse
// @Security BearerAuth
// @Router /api/ventes/{id} [delete]
func (h *saleHandler) deleteSale(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	if err := h.saleService.DeleteSale(c.Request.Context(), c.Param("id"), userID); err != nil {
		respondError(c, err, "Failed to delete sale")
		return
	}
	respondOK(c, http.StatusOK, nil, "Sale deleted")
}

// bulkDeleteSales godoc
// @Summary Delete every sale
// @Tags ventes
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.BulkDeleteResponse}
// @Security BearerAuth
// @Router /api/ventes/bulk-delete [delete]
func (h *saleHandler) bulkDeleteSales(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	deleted, err := h.saleService.BulkDeleteSales(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to delete sales")
		return
	}
	logger.Warn("All sales deleted", slog.Int64("deleted", deleted))
	respondOK(c, http.StatusOK, dto.BulkDeleteResponse{Deleted: deleted}, "Sales deleted")
}
