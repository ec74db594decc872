package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/iptv_reseller_app/internal/core/ports/services"
	"github.com/SscSPs/iptv_reseller_app/internal/dto"
	"github.com/gin-gonic/gin"
)

type productHandler struct {
	productService portssvc.ProductSvcFacade
	pager
}

func registerProductRoutes(rg *gin.RouterGroup, ps portssvc.ProductSvcFacade, p pager) {
	h := &productHandler{productService: ps, pager: p}

	products := rg.Group("/produits")
	{
		products.GET("", h.listProducts)
		products.POST("", h.createProduct)
		products.GET("/:id", h.getProduct)
		products.PUT("/:id", h.updateProduct)
		products.DELETE("/:id", h.deleteProduct)
	}
}

// listProducts godoc
// @Summary List products
// @Tags produits
// @Produce json
// @Param id_plateforme query string false "Platform ID"
// @Param low_stock query bool false "Only products at or below their alert threshold"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(20)
// @Success 200 {object} dto.APIResponse{data=dto.ListResponse[domain.Product]}
// @Security BearerAuth
// @Router /api/produits [get]
func (h *productHandler) listProducts(c *gin.Context) {
	var params dto.ListProductsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}
	h.normalize(&params.PageParams)

	products, total, err := h.productService.ListProducts(c.Request.Context(), params)
	if err != nil {
		respondError(c, err, "Failed to list products")
		return
	}
	respondList(c, products, total, params.PageParams)
}

// createProduct godoc
// @Summary Create a product
// @Tags produits
// @Accept json
// @Produce json
// @Param product body dto.CreateProductRequest true "Product details"
// @Success 201 {object} dto.APIResponse{data=domain.Product}
// @Failure 400 {object} dto.APIResponse
// @Failure 404 {object} dto.APIResponse "Platform not found"
// @Security BearerAuth
// @Router /api/produits [post]
func (h *productHandler) createProduct(c *gin.Context) {
	var req dto.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	product, err := h.productService.CreateProduct(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, err, "Failed to create product")
		return
	}
	respondOK(c, http.StatusCreated, product, "Product created")
}

// getProduct godoc
// @Summary Get a product
// @Tags produits
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} dto.APIResponse{data=domain.Product}
// @Failure 404 {object} dto.APIResponse
// @Security BearerAuth
// @Router /api/produits/{id} [get]
func (h *productHandler) getProduct(c *gin.Context) {
	product, err := h.productService.GetProductByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to retrieve product")
		return
	}
	respondOK(c, http.StatusOK, product, "")
}

// updateProduct godoc
// @Summary Update a product
// @Description Stock is not editable; it moves only through sales.
// @Tags produits
// @Accept json
// @Produce json
// @Param id path string true "Product ID"
// @Param product body dto.UpdateProductRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse{data=domain.Product}
// @Failure 400 {object} dto.APIResponse
// @Failure 404 {object} dto.APIResponse
// @Security BearerAuth
// @Router /api/produits/{id} [put]
func (h *productHandler) updateProduct(c *gin.Context) {
	var req dto.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	product, err := h.productService.UpdateProduct(c.Request.Context(), c.Param("id"), req, userID)
	if err != nil {
		respondError(c, err, "Failed to update product")
		return
	}
	respondOK(c, http.StatusOK, product, "Product updated")
}

// deleteProduct godoc
// @Summary Delete a product
// @Tags produits
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} dto.APIResponse
// @Failure 404 {object} dto.APIResponse
// @Failure 409 {object} dto.APIResponse "Product has sales"
// @Security BearerAuth
// @Router /api/produits/{id} [delete]
func (h *productHandler) deleteProduct(c *gin.Context) {
	if err := h.productService.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err, "Failed to delete product")
		return
	}
	respondOK(c, http.StatusOK, nil, "Product deleted")
}
