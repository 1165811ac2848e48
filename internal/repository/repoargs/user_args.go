package repoargs

import (
	"github.com/fsdevblog/groph-shop/internal/domain"
	"github.com/shopspring/decimal"
)

type CreateUser struct {
	Username string
	Email    string
	Password string
	Role     domain.RoleType
	Address  string
	Balance  decimal.Decimal
}

type UpdateUser struct {
	ID       int64
	Username string
	Email    string
	Password string
	Role     domain.RoleType
	Address  string
	Balance  decimal.Decimal
}
