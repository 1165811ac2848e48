package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/fsdevblog/groph-shop/internal/domain"
	"github.com/fsdevblog/groph-shop/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// UsersHandler админский CRUD над юзерами.
type UsersHandler struct {
	userService UserServicer
}

func NewUsersHandler(userService UserServicer) *UsersHandler {
	return &UsersHandler{
		userService: userService,
	}
}

// Index GET RouteGroup + UsersRoute.
func (h *UsersHandler) Index(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	users, err := h.userService.GetAll(ctx)
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		return
	}

	response := make([]UserResponse, len(users))
	for i := range users {
		response[i] = newUserResponse(&users[i])
	}
	c.JSON(http.StatusOK, response)
}

// Show GET RouteGroup + UsersRoute + /:username.
func (h *UsersHandler) Show(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	user, err := h.userService.GetByUsername(ctx, c.Param("username"))
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			c.AbortWithStatus(http.StatusNotFound)
			return
		}
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		return
	}
	c.JSON(http.StatusOK, newUserResponse(user))
}

type UserUpdateParams struct {
	ID       int64           `binding:"required,gt=0"           json:"ID"`
	Username string          `binding:"required,min=1,max=30"   json:"login"`
	Email    string          `binding:"required,email"          json:"email"`
	Password string          `binding:"required,min=6,max=255"  json:"password"`
	Role     domain.RoleType `binding:"required,oneof=ADMIN USER" json:"role"`
	Address  string          `binding:"omitempty,max_bytes=255" json:"address"`
	Balance  decimal.Decimal `json:"balance"`
}

// Update PUT RouteGroup + UsersRoute.
func (h *UsersHandler) Update(c *gin.Context) {
	var params UserUpdateParams
	if bindErr := c.ShouldBindJSON(&params); bindErr != nil {
		_ = c.AbortWithError(http.StatusBadRequest, bindErr).SetType(gin.ErrorTypeBind)
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	user, err := h.userService.Update(ctx, service.UpdateUserArgs{
		ID:       params.ID,
		Username: params.Username,
		Email:    params.Email,
		Password: params.Password,
		Role:     params.Role,
		Address:  params.Address,
		Balance:  params.Balance,
	})
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			c.AbortWithStatus(http.StatusNotFound)
			return
		}
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		return
	}
	c.JSON(http.StatusOK, newUserResponse(user))
}

// Delete DELETE RouteGroup + UsersRoute + /:userId.
func (h *UsersHandler) Delete(c *gin.Context) {
	userID, ok := pathID(c, "userId")
	if !ok {
		c.AbortWithStatus(http.StatusUnprocessableEntity)
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	if err := h.userService.Delete(ctx, userID); err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			c.AbortWithStatus(http.StatusNotFound)
			return
		}
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		return
	}
	c.AbortWithStatus(http.StatusNoContent)
}
