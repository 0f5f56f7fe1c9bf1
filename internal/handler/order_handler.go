package handler

import (
	"context"
	"net/http"

	"github.com/mansij47/Optiven-Backend/internal/middleware"
	"github.com/mansij47/Optiven-Backend/internal/model"
	"github.com/mansij47/Optiven-Backend/internal/service"
	"github.com/mansij47/Optiven-Backend/pkg/pagination"
	"github.com/mansij47/Optiven-Backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	orderService service.OrderService
}

func NewOrderHandler(orderService service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

func (h *OrderHandler) RegisterRoutes(router *gin.RouterGroup) {
	sales := middleware.RequireRole(model.RoleSales, model.RoleAdmin, model.RoleSuperAdmin)
	orders := router.Group("/api/orders")
	{
		orders.POST("/received/add", sales, h.CreateOrder)
		orders.GET("/received", sales, h.ListReceived)
		orders.GET("/received/:id", sales, h.GetOrder)
		orders.PUT("/received/:id", sales, h.EditOrder)
		orders.PATCH("/received/:id", sales, h.EditOrder)
		orders.PUT("/received/:id/sell", sales, h.SellOrder)
		orders.DELETE("/received/:id", sales, h.DeleteOrder)
		orders.GET("/sold", sales, h.ListSold)
		orders.GET("/sold/:id", sales, h.GetOrder)
		orders.POST("/requests/raise", sales, h.RaiseRequest)
	}
}

// CreateOrder places a new customer order in Received state
// @Summary      Create order
// @Description  Prices every line against current inventory and stores the order as received
// @Tags         orders
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateOrderRequest  true  "Create Order Payload"
// @Success      201      {object}  response.Response{data=service.OrderResponse}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/orders/received/add [post]
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req service.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	principal := middleware.PrincipalFromContext(c)
	order, err := h.orderService.CreateOrder(c.Request.Context(), principal, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, order))
}

// ListReceived lists orders still in Received state
// @Summary      List received orders
// @Tags         orders
// @Security     BearerAuth
// @Produce      json
// @Param        page   query     int  false  "Page number (default 1)"
// @Param        limit  query     int  false  "Number of items per page (default 20)"
// @Success      200    {object}  response.Response{data=object}
// @Router       /api/orders/received [get]
func (h *OrderHandler) ListReceived(c *gin.Context) {
	h.list(c, h.orderService.ListReceived)
}

// ListSold lists orders already sold
// @Summary      List sold orders
// @Tags         orders
// @Security     BearerAuth
// @Produce      json
// @Param        page   query     int  false  "Page number (default 1)"
// @Param        limit  query     int  false  "Number of items per page (default 20)"
// @Success      200    {object}  response.Response{data=object}
// @Router       /api/orders/sold [get]
func (h *OrderHandler) ListSold(c *gin.Context) {
	h.list(c, h.orderService.ListSold)
}

// GetOrder retrieves one order by its business id
// @Summary      Get order
// @Tags         orders
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Order ID"
// @Success      200  {object}  response.Response{data=service.OrderResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/orders/received/{id} [get]
func (h *OrderHandler) GetOrder(c *gin.Context) {
	principal := middleware.PrincipalFromContext(c)
	order, err := h.orderService.GetOrder(c.Request.Context(), principal, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, order))
}

// EditOrder replaces the order's line set and re-prices the whole order
// @Summary      Edit order
// @Description  Rebuilds every line against current inventory price and tax
// @Tags         orders
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                    true  "Order ID"
// @Param        payload  body      service.EditOrderRequest  true  "Edit Order Payload"
// @Success      200      {object}  response.Response{data=service.OrderResponse}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/orders/received/{id} [put]
func (h *OrderHandler) EditOrder(c *gin.Context) {
	var req service.EditOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	principal := middleware.PrincipalFromContext(c)
	order, err := h.orderService.EditOrder(c.Request.Context(), principal, c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, order))
}

// SellOrder transitions a received order to sold and consumes stock
// @Summary      Sell order
// @Description  Marks the order sold and decrements inventory for each line, clamped at zero
// @Tags         orders
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Order ID"
// @Success      200  {object}  response.Response{data=service.OrderResponse}
// @Failure      400  {object}  response.Response
// @Router       /api/orders/received/{id}/sell [put]
func (h *OrderHandler) SellOrder(c *gin.Context) {
	principal := middleware.PrincipalFromContext(c)
	order, err := h.orderService.SellOrder(c.Request.Context(), principal, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, order))
}

// DeleteOrder removes an order in any state
// @Summary      Delete order
// @Tags         orders
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Order ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/orders/received/{id} [delete]
func (h *OrderHandler) DeleteOrder(c *gin.Context) {
	principal := middleware.PrincipalFromContext(c)
	if err := h.orderService.DeleteOrder(c.Request.Context(), principal, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"deleted": c.Param("id")}))
}

// RaiseRequest opens a procurement request for an order's stock shortfall
// @Summary      Raise requested order
// @Description  Creates a procurement request when the ordered quantity exceeds on-hand stock
// @Tags         orders
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.RaiseRequestRequest  true  "Raise Request Payload"
// @Success      201      {object}  response.Response{data=model.RequestedOrder}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/orders/requests/raise [post]
func (h *OrderHandler) RaiseRequest(c *gin.Context) {
	var req service.RaiseRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	principal := middleware.PrincipalFromContext(c)
	requested, err := h.orderService.RaiseRequest(c.Request.Context(), principal, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, requested))
}

func (h *OrderHandler) list(c *gin.Context, fetch func(ctx context.Context, principal middleware.Principal, page, limit int) ([]service.OrderResponse, int64, error)) {
	params := pagination.Parse(c)
	principal := middleware.PrincipalFromContext(c)

	orders, total, err := fetch(c.Request.Context(), principal, params.Page, params.Limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"orders": orders,
		"total":  total,
		"page":   params.Page,
		"limit":  params.Limit,
	}))
}
