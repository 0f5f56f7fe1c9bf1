package handler

import (
	"github.com/mansij47/Optiven-Backend/pkg/apperror"
	"github.com/mansij47/Optiven-Backend/pkg/response"

	"github.com/gin-gonic/gin"
)

// respondError maps a service error to its HTTP status via the error kind.
func respondError(c *gin.Context, err error) {
	status := apperror.HTTPStatus(err)
	c.JSON(status, response.Error(status, err.Error()))
}
