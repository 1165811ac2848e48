package api

import (
	"strconv"

	"github.com/fsdevblog/groph-shop/internal/domain"
	"github.com/fsdevblog/groph-shop/internal/service"
	"github.com/fsdevblog/groph-shop/internal/transport/api/middlewares"
	"github.com/gin-gonic/gin"
)

// getRequesterFromContext собирает Requester из значений, записанных auth middleware.
func getRequesterFromContext(c *gin.Context) service.Requester {
	requester := service.Requester{}
	if id, ok := c.Get(middlewares.CurrentUserIDKey); ok {
		requester.UserID, _ = id.(int64)
	}
	if role, ok := c.Get(middlewares.CurrentUserRoleKey); ok {
		requester.Role, _ = role.(domain.RoleType)
	}
	return requester
}

// pathID парсит int64 параметр пути. Второе значение false при невалидном параметре.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
