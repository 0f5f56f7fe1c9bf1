package handler

import (
	"net/http"

	"github.com/mansij47/Optiven-Backend/internal/middleware"
	"github.com/mansij47/Optiven-Backend/internal/model"
	"github.com/mansij47/Optiven-Backend/internal/service"
	"github.com/mansij47/Optiven-Backend/pkg/pagination"
	"github.com/mansij47/Optiven-Backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type ProductHandler struct {
	productService service.ProductService
}

func NewProductHandler(productService service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

func (h *ProductHandler) RegisterRoutes(router *gin.RouterGroup) {
	products := router.Group("/api/products")
	{
		products.GET("", middleware.RequireRole(model.RoleAdmin, model.RoleSales, model.RoleProcurement, model.RoleSuperAdmin), h.ListProducts)
		products.POST("", middleware.RequireRole(model.RoleAdmin, model.RoleSuperAdmin), h.CreateProduct)
		products.GET("/:id", middleware.RequireRole(model.RoleAdmin, model.RoleSales, model.RoleProcurement, model.RoleSuperAdmin), h.GetProduct)
		products.GET("/:id/movements", middleware.RequireRole(model.RoleAdmin, model.RoleProcurement, model.RoleSuperAdmin), h.ListMovements)
		products.PUT("/:id", middleware.RequireRole(model.RoleAdmin, model.RoleSuperAdmin), h.UpdateProduct)
		products.DELETE("/:id", middleware.RequireRole(model.RoleAdmin, model.RoleSuperAdmin), h.DeleteProduct)
	}
}

// ListProducts handles retrieving the paginated store inventory
// @Summary      List products
// @Description  Retrieves a paginated list of the store's products with derived stock status
// @Tags         inventory
// @Security     BearerAuth
// @Produce      json
// @Param        page   query     int  false  "Page number (default 1)"
// @Param        limit  query     int  false  "Number of items per page (default 20)"
// @Success      200    {object}  response.Response{data=object}
// @Failure      500    {object}  response.Response
// @Router       /api/products [get]
func (h *ProductHandler) ListProducts(c *gin.Context) {
	params := pagination.Parse(c)
	principal := middleware.PrincipalFromContext(c)

	products, total, err := h.productService.ListProducts(c.Request.Context(), principal, params.Page, params.Limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"products": products,
		"total":    total,
		"page":     params.Page,
		"limit":    params.Limit,
	}))
}

// CreateProduct creates a new inventory product entry
// @Summary      Create product
// @Description  Creates a product with a freshly generated sequential product id
// @Tags         inventory
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateProductRequest  true  "Create Product Payload"
// @Success      201      {object}  response.Response{data=service.ProductResponse}
// @Failure      400      {object}  response.Response
// @Failure      500      {object}  response.Response
// @Router       /api/products [post]
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req service.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	principal := middleware.PrincipalFromContext(c)
	product, err := h.productService.CreateProduct(c.Request.Context(), principal, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, product))
}

// GetProduct retrieves one product by its business id
// @Summary      Get product
// @Description  Retrieves a single product with derived stock status
// @Tags         inventory
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Product ID"
// @Success      200  {object}  response.Response{data=service.ProductResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/products/{id} [get]
func (h *ProductHandler) GetProduct(c *gin.Context) {
	principal := middleware.PrincipalFromContext(c)
	product, err := h.productService.GetProduct(c.Request.Context(), principal, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, product))
}

// ListMovements retrieves the stock movement ledger for a product
// @Summary      List stock movements
// @Description  Retrieves every recorded quantity change for a product
// @Tags         inventory
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Product ID"
// @Success      200  {object}  response.Response{data=object}
// @Failure      500  {object}  response.Response
// @Router       /api/products/{id}/movements [get]
func (h *ProductHandler) ListMovements(c *gin.Context) {
	principal := middleware.PrincipalFromContext(c)
	movements, err := h.productService.ListMovements(c.Request.Context(), principal, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, movements))
}

// UpdateProduct patches an existing product's details
// @Summary      Update product
// @Description  Updates only the fields present in the payload
// @Tags         inventory
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                        true  "Product ID"
// @Param        payload  body      service.UpdateProductRequest  true  "Update Product Payload"
// @Success      200      {object}  response.Response{data=service.ProductResponse}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/products/{id} [put]
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	var req service.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	principal := middleware.PrincipalFromContext(c)
	product, err := h.productService.UpdateProduct(c.Request.Context(), principal, c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, product))
}

// DeleteProduct removes a product from inventory
// @Summary      Delete product
// @Description  Permanently removes a product from the store's inventory
// @Tags         inventory
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Product ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/products/{id} [delete]
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	principal := middleware.PrincipalFromContext(c)
	if err := h.productService.DeleteProduct(c.Request.Context(), principal, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"deleted": c.Param("id")}))
}
