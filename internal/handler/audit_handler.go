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

type AuditHandler struct {
	auditService service.AuditService
}

func NewAuditHandler(auditService service.AuditService) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

func (h *AuditHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/api/audit-logs", middleware.RequireRole(model.RoleAdmin, model.RoleSuperAdmin), h.ListLogs)
}

// ListLogs retrieves the store's audit trail, newest first
// @Summary      List audit logs
// @Tags         audit
// @Security     BearerAuth
// @Produce      json
// @Param        page   query     int  false  "Page number (default 1)"
// @Param        limit  query     int  false  "Number of items per page (default 20)"
// @Success      200    {object}  response.Response{data=object}
// @Failure      500    {object}  response.Response
// @Router       /api/audit-logs [get]
func (h *AuditHandler) ListLogs(c *gin.Context) {
	params := pagination.Parse(c)
	principal := middleware.PrincipalFromContext(c)

	logs, total, err := h.auditService.ListLogs(c.Request.Context(), principal, params.Page, params.Limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"logs":  logs,
		"total": total,
		"page":  params.Page,
		"limit": params.Limit,
	}))
}
