package handler

import (
	"net/http"

	"github.com/mansij47/Optiven-Backend/internal/middleware"
	"github.com/mansij47/Optiven-Backend/internal/model"
	"github.com/mansij47/Optiven-Backend/internal/service"
	"github.com/mansij47/Optiven-Backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type ReturnHandler struct {
	returnService service.ReturnService
}

func NewReturnHandler(returnService service.ReturnService) *ReturnHandler {
	return &ReturnHandler{returnService: returnService}
}

func (h *ReturnHandler) RegisterRoutes(router *gin.RouterGroup) {
	sales := middleware.RequireRole(model.RoleSales, model.RoleAdmin, model.RoleSuperAdmin)
	returns := router.Group("/api/orders/returns")
	{
		returns.POST("/add", sales, h.CreateReturn)
		returns.GET("", sales, h.ListReturns)
		returns.GET("/:id", sales, h.GetReturn)
		returns.DELETE("/:id", sales, h.DeleteReturn)
		returns.PUT("/procure/:id", sales, h.MarkSentToProcurement)
	}
}

// CreateReturn raises a customer return against a sold order
// @Summary      Create return
// @Description  Validates each line against the product's consumer returnability, trims the sales order, and reports skipped lines
// @Tags         returns
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateReturnRequest  true  "Create Return Payload"
// @Success      201      {object}  response.Response{data=service.CreateReturnResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/orders/returns/add [post]
func (h *ReturnHandler) CreateReturn(c *gin.Context) {
	var req service.CreateReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	principal := middleware.PrincipalFromContext(c)
	result, err := h.returnService.CreateReturn(c.Request.Context(), principal, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, result))
}

// ListReturns lists returns still with the sales department
// @Summary      List returns
// @Tags         returns
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=object}
// @Router       /api/orders/returns [get]
func (h *ReturnHandler) ListReturns(c *gin.Context) {
	principal := middleware.PrincipalFromContext(c)
	returns, err := h.returnService.ListReturns(c.Request.Context(), principal)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, returns))
}

// GetReturn retrieves one return by its business id
// @Summary      Get return
// @Tags         returns
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Return ID"
// @Success      200  {object}  response.Response{data=model.ReturnOrder}
// @Failure      404  {object}  response.Response
// @Router       /api/orders/returns/{id} [get]
func (h *ReturnHandler) GetReturn(c *gin.Context) {
	principal := middleware.PrincipalFromContext(c)
	returnOrder, err := h.returnService.GetReturn(c.Request.Context(), principal, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, returnOrder))
}

// DeleteReturn removes a return order
// @Summary      Delete return
// @Tags         returns
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Return ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/orders/returns/{id} [delete]
func (h *ReturnHandler) DeleteReturn(c *gin.Context) {
	principal := middleware.PrincipalFromContext(c)
	if err := h.returnService.DeleteReturn(c.Request.Context(), principal, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"deleted": c.Param("id")}))
}

// MarkSentToProcurement hands a return over to procurement
// @Summary      Send return to procurement
// @Description  Flips the one-way sent_to_procurement flag; the return then only shows in procurement views
// @Tags         returns
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Return ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/orders/returns/procure/{id} [put]
func (h *ReturnHandler) MarkSentToProcurement(c *gin.Context) {
	principal := middleware.PrincipalFromContext(c)
	if err := h.returnService.MarkSentToProcurement(c.Request.Context(), principal, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"return_id": c.Param("id"), "sent_to_procurement": 1}))
}
