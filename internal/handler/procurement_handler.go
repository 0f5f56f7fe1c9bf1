package handler

import (
	"net/http"

	"github.com/mansij47/Optiven-Backend/internal/middleware"
	"github.com/mansij47/Optiven-Backend/internal/model"
	"github.com/mansij47/Optiven-Backend/internal/service"
	"github.com/mansij47/Optiven-Backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type ProcurementHandler struct {
	procurementService service.ProcurementService
}

func NewProcurementHandler(procurementService service.ProcurementService) *ProcurementHandler {
	return &ProcurementHandler{procurementService: procurementService}
}

func (h *ProcurementHandler) RegisterRoutes(router *gin.RouterGroup) {
	procurement := middleware.RequireRole(model.RoleProcurement, model.RoleSuperAdmin)

	returnOrders := router.Group("/api/return-orders")
	{
		returnOrders.GET("", procurement, h.ListSentReturns)
		returnOrders.GET("/:id", procurement, h.GetSentReturn)
		returnOrders.POST("/validate-return-orders", procurement, h.ValidateReturnOrder)
	}

	purchaseOrders := router.Group("/api/purchase-orders")
	{
		purchaseOrders.GET("", procurement, h.ListPurchaseOrders)
		purchaseOrders.PUT("/:id/mark-received", procurement, h.MarkPurchaseOrderReceived)
		purchaseOrders.POST("/validate", procurement, h.ValidatePurchaseOrder)
	}

	router.GET("/api/vendor-returns", procurement, h.ListVendorReturns)
	router.GET("/api/vendor-returns/:id", procurement, h.GetVendorReturn)
	router.GET("/api/requested-orders", procurement, h.ListRequestedOrders)
	router.POST("/api/contracts", procurement, h.CreateContract)
	router.GET("/api/contracts", procurement, h.ListContracts)
	router.GET("/api/loss-orders", middleware.RequireRole(model.RoleAdmin, model.RoleProcurement, model.RoleSuperAdmin), h.ListLossOrders)
}

// ListSentReturns lists returns handed over by sales
// @Summary      List sent returns
// @Tags         procurement
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=object}
// @Router       /api/return-orders [get]
func (h *ProcurementHandler) ListSentReturns(c *gin.Context) {
	principal := middleware.PrincipalFromContext(c)
	returns, err := h.procurementService.ListSentReturns(c.Request.Context(), principal)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, returns))
}

// GetSentReturn retrieves one sent return by its business id
// @Summary      Get sent return
// @Tags         procurement
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Return ID"
// @Success      200  {object}  response.Response{data=model.ReturnOrder}
// @Failure      404  {object}  response.Response
// @Router       /api/return-orders/{id} [get]
func (h *ProcurementHandler) GetSentReturn(c *gin.Context) {
	principal := middleware.PrincipalFromContext(c)
	returnOrder, err := h.procurementService.GetSentReturn(c.Request.Context(), principal, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, returnOrder))
}

// ValidateReturnOrder routes a return to vendor-return, loss, or restock
// @Summary      Validate return order
// @Description  Dispositions the return's first line and deletes the return; re-invoking yields not found
// @Tags         procurement
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.ValidateReturnOrderRequest  true  "Validate Return Payload"
// @Success      200      {object}  response.Response{data=service.DispositionResponse}
// @Failure      404      {object}  response.Response
// @Router       /api/return-orders/validate-return-orders [post]
func (h *ProcurementHandler) ValidateReturnOrder(c *gin.Context) {
	var req service.ValidateReturnOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	principal := middleware.PrincipalFromContext(c)
	result, err := h.procurementService.ValidateReturnOrder(c.Request.Context(), principal, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// ListPurchaseOrders lists inbound deliveries with display statuses
// @Summary      List purchase orders
// @Tags         procurement
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=object}
// @Router       /api/purchase-orders [get]
func (h *ProcurementHandler) ListPurchaseOrders(c *gin.Context) {
	principal := middleware.PrincipalFromContext(c)
	orders, err := h.procurementService.ListPurchaseOrders(c.Request.Context(), principal)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, orders))
}

// MarkPurchaseOrderReceived flags a delivery as physically received
// @Summary      Mark purchase order received
// @Tags         procurement
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Purchase Order ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/purchase-orders/{id}/mark-received [put]
func (h *ProcurementHandler) MarkPurchaseOrderReceived(c *gin.Context) {
	principal := middleware.PrincipalFromContext(c)
	if err := h.procurementService.MarkPurchaseOrderReceived(c.Request.Context(), principal, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"order_id": c.Param("id"), "received_status": "Received"}))
}

// ValidatePurchaseOrder classifies a delivery into inventory, vendor return, or loss
// @Summary      Validate purchase order
// @Description  Routes the delivery by quantity match and damage flags; the purchase order completes terminally
// @Tags         procurement
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.ValidatePurchaseOrderRequest  true  "Validate Purchase Order Payload"
// @Success      200      {object}  response.Response{data=service.ValidatePurchaseOrderResponse}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/purchase-orders/validate [post]
func (h *ProcurementHandler) ValidatePurchaseOrder(c *gin.Context) {
	var req service.ValidatePurchaseOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	principal := middleware.PrincipalFromContext(c)
	result, err := h.procurementService.ValidatePurchaseOrder(c.Request.Context(), principal, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// ListVendorReturns lists outbound vendor returns
// @Summary      List vendor returns
// @Tags         procurement
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=object}
// @Router       /api/vendor-returns [get]
func (h *ProcurementHandler) ListVendorReturns(c *gin.Context) {
	principal := middleware.PrincipalFromContext(c)
	returns, err := h.procurementService.ListVendorReturns(c.Request.Context(), principal)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, returns))
}

// GetVendorReturn retrieves one vendor return
// @Summary      Get vendor return
// @Tags         procurement
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Vendor Return ID"
// @Success      200  {object}  response.Response{data=service.VendorReturnResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/vendor-returns/{id} [get]
func (h *ProcurementHandler) GetVendorReturn(c *gin.Context) {
	principal := middleware.PrincipalFromContext(c)
	vendorReturn, err := h.procurementService.GetVendorReturn(c.Request.Context(), principal, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, vendorReturn))
}

// ListRequestedOrders lists pending procurement requests
// @Summary      List requested orders
// @Tags         procurement
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=object}
// @Router       /api/requested-orders [get]
func (h *ProcurementHandler) ListRequestedOrders(c *gin.Context) {
	principal := middleware.PrincipalFromContext(c)
	orders, err := h.procurementService.ListRequestedOrders(c.Request.Context(), principal)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, orders))
}

// ListLossOrders lists write-offs with aggregated metrics
// @Summary      List loss orders
// @Tags         procurement
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=service.LossOrdersResponse}
// @Router       /api/loss-orders [get]
func (h *ProcurementHandler) ListLossOrders(c *gin.Context) {
	principal := middleware.PrincipalFromContext(c)
	result, err := h.procurementService.ListLossOrders(c.Request.Context(), principal)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// CreateContract records a vendor agreement and raises its purchase order
// @Summary      Create contract
// @Tags         procurement
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateContractRequest  true  "Create Contract Payload"
// @Success      201      {object}  response.Response{data=model.Contract}
// @Failure      400      {object}  response.Response
// @Router       /api/contracts [post]
func (h *ProcurementHandler) CreateContract(c *gin.Context) {
	var req service.CreateContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	principal := middleware.PrincipalFromContext(c)
	contract, err := h.procurementService.CreateContract(c.Request.Context(), principal, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, contract))
}

// ListContracts lists the store's vendor contracts
// @Summary      List contracts
// @Tags         procurement
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=object}
// @Router       /api/contracts [get]
func (h *ProcurementHandler) ListContracts(c *gin.Context) {
	principal := middleware.PrincipalFromContext(c)
	contracts, err := h.procurementService.ListContracts(c.Request.Context(), principal)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, contracts))
}
