package pgrepo

import (
	"context"

	"github.com/fsdevblog/groph-shop/internal/domain"
	"github.com/fsdevblog/groph-shop/internal/repository/repoargs"
	"github.com/fsdevblog/groph-shop/pkg/uow"
)

const cartItemColumns = "cart_item_id, cart_id, product_id, quantity"

type CartRepository struct {
	db uow.DBTX
}

func NewCartRepository(db uow.DBTX) *CartRepository {
	return &CartRepository{db: db}
}

func (c *CartRepository) CreateCart(ctx context.Context, userID int64) (*domain.Cart, error) {
	row := c.db.QueryRow(ctx,
		`INSERT INTO carts (user_id) VALUES ($1) RETURNING cart_id, user_id`, userID)

	cart, err := scanCart(row)
	if err != nil {
		return nil, convertErr(err, "creating cart for user with id `%d`", userID)
	}
	return cart, nil
}

func (c *CartRepository) FindCartByID(ctx context.Context, cartID int64) (*domain.Cart, error) {
	row := c.db.QueryRow(ctx, `SELECT cart_id, user_id FROM carts WHERE cart_id = $1`, cartID)
	cart, err := scanCart(row)
	if err != nil {
		return nil, convertErr(err, "finding cart by id `%d`", cartID)
	}
	return cart, nil
}

func (c *CartRepository) FindCartByUserID(ctx context.Context, userID int64) (*domain.Cart, error) {
	row := c.db.QueryRow(ctx, `SELECT cart_id, user_id FROM carts WHERE user_id = $1`, userID)
	cart, err := scanCart(row)
	if err != nil {
		return nil, convertErr(err, "finding cart by userID `%d`", userID)
	}
	return cart, nil
}

// DeleteCart удаляет корзину. Поскольку связь юзер-корзина хранится в carts.user_id,
// удаление строки одновременно отвязывает корзину от юзера.
func (c *CartRepository) DeleteCart(ctx context.Context, cartID int64) error {
	tag, err := c.db.Exec(ctx, `DELETE FROM carts WHERE cart_id = $1`, cartID)
	if err != nil {
		return convertErr(err, "deleting cart with id `%d`", cartID)
	}
	if tag.RowsAffected() == 0 {
		return convertErr(errNoRowsAffected, "deleting cart with id `%d`", cartID)
	}
	return nil
}

// GetItems возвращает позиции корзины в порядке их добавления. Пустая корзина - валидное
// состояние, вернется пустой срез без ошибки.
func (c *CartRepository) GetItems(ctx context.Context, cartID int64) ([]domain.CartItem, error) {
	rows, err := c.db.Query(ctx,
		`SELECT `+cartItemColumns+` FROM cart_items WHERE cart_id = $1 ORDER BY cart_item_id`, cartID)
	if err != nil {
		return nil, convertErr(err, "getting items of cart with id `%d`", cartID)
	}
	defer rows.Close()

	var items []domain.CartItem
	for rows.Next() {
		item, scanErr := scanCartItem(rows)
		if scanErr != nil {
			return nil, convertErr(scanErr, "scanning cart item row")
		}
		items = append(items, *item)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, convertErr(rowsErr, "iterating cart item rows")
	}
	return items, nil
}

func (c *CartRepository) FindItemByID(ctx context.Context, cartItemID int64) (*domain.CartItem, error) {
	row := c.db.QueryRow(ctx,
		`SELECT `+cartItemColumns+` FROM cart_items WHERE cart_item_id = $1`, cartItemID)
	item, err := scanCartItem(row)
	if err != nil {
		return nil, convertErr(err, "finding cart item by id `%d`", cartItemID)
	}
	return item, nil
}

func (c *CartRepository) AddItem(ctx context.Context, args repoargs.CreateCartItem) (*domain.CartItem, error) {
	row := c.db.QueryRow(ctx, `
		INSERT INTO cart_items (cart_id, product_id, quantity)
		VALUES ($1, $2, $3)
		RETURNING `+cartItemColumns,
		args.CartID, args.ProductID, args.Quantity)

	item, err := scanCartItem(row)
	if err != nil {
		return nil, convertErr(err, "adding item to cart with id `%d`", args.CartID)
	}
	return item, nil
}

func (c *CartRepository) UpdateItem(ctx context.Context, args repoargs.UpdateCartItem) (*domain.CartItem, error) {
	row := c.db.QueryRow(ctx, `
		UPDATE cart_items SET quantity = $2 WHERE cart_item_id = $1
		RETURNING `+cartItemColumns,
		args.ID, args.Quantity)

	item, err := scanCartItem(row)
	if err != nil {
		return nil, convertErr(err, "updating cart item with id `%d`", args.ID)
	}
	return item, nil
}

func (c *CartRepository) DeleteItem(ctx context.Context, cartItemID int64) error {
	tag, err := c.db.Exec(ctx, `DELETE FROM cart_items WHERE cart_item_id = $1`, cartItemID)
	if err != nil {
		return convertErr(err, "deleting cart item with id `%d`", cartItemID)
	}
	if tag.RowsAffected() == 0 {
		return convertErr(errNoRowsAffected, "deleting cart item with id `%d`", cartItemID)
	}
	return nil
}

func (c *CartRepository) DeleteItemsByCartID(ctx context.Context, cartID int64) error {
	if _, err := c.db.Exec(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cartID); err != nil {
		return convertErr(err, "deleting items of cart with id `%d`", cartID)
	}
	return nil
}

func scanCart(row rowScanner) (*domain.Cart, error) {
	var cart domain.Cart
	if err := row.Scan(&cart.ID, &cart.UserID); err != nil {
		return nil, err
	}
	return &cart, nil
}

func scanCartItem(row rowScanner) (*domain.CartItem, error) {
	var item domain.CartItem
	if err := row.Scan(&item.ID, &item.CartID, &item.ProductID, &item.Quantity); err != nil {
		return nil, err
	}
	return &item, nil
}
