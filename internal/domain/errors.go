package domain

import (
	"errors"
	"fmt"
)

var (
	ErrRecordNotFound    = errors.New("record not found")
	ErrPasswordMissMatch = errors.New("password mismatch")
	ErrDuplicateKey      = errors.New("duplicate key")
	ErrUnknown           = errors.New("unknown error")

	ErrCartEmpty        = errors.New("cart is empty")
	ErrNotEnoughBalance = errors.New("not enough balance")
	ErrNotEnoughStock   = errors.New("not enough stock")
	ErrOwnerConflict    = errors.New("owner conflict")
	ErrUsernameTaken    = errors.New("username already taken")
)

// StockInsufficientError указывает товар, по которому не хватило остатка.
// Может обнаружиться как на этапе валидации, так и позже - при условном
// списании остатка внутри транзакции чекаута.
type StockInsufficientError struct {
	ProductID int64
}

func NewStockInsufficientError(productID int64) error {
	return &StockInsufficientError{ProductID: productID}
}

func (e *StockInsufficientError) Error() string {
	return fmt.Sprintf("not enough stock for product with id %d", e.ProductID)
}

func (e *StockInsufficientError) Is(target error) bool {
	return target == ErrNotEnoughStock
}

// EntityNotFoundError жесткое нарушение предусловия: сущность, на которую
// ссылается запрос, отсутствует в БД.
type EntityNotFoundError struct {
	Kind EntityKind
	ID   int64
}

func NewEntityNotFoundError(kind EntityKind, id int64) error {
	return &EntityNotFoundError{Kind: kind, ID: id}
}

func (e *EntityNotFoundError) Error() string {
	return fmt.Sprintf("%s with id %d not found", e.Kind, e.ID)
}

func (e *EntityNotFoundError) Is(target error) bool {
	return target == ErrRecordNotFound
}
