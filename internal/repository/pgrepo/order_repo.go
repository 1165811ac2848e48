package pgrepo

import (
	"context"

	"github.com/fsdevblog/groph-shop/internal/domain"
	"github.com/fsdevblog/groph-shop/internal/repository/repoargs"
	"github.com/fsdevblog/groph-shop/pkg/uow"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const orderColumns = "order_id, created_at, user_id, total_price"
const orderItemColumns = "order_item_id, order_id, product_id, quantity, price_at_purchase"

type OrderRepository struct {
	db uow.DBTX
}

func NewOrderRepository(db uow.DBTX) *OrderRepository {
	return &OrderRepository{db: db}
}

func (o *OrderRepository) CreateOrder(
	ctx context.Context,
	userID int64,
	totalPrice decimal.Decimal,
) (*domain.Order, error) {
	row := o.db.QueryRow(ctx, `
		INSERT INTO orders (user_id, total_price) VALUES ($1, $2)
		RETURNING `+orderColumns,
		userID, totalPrice)

	order, err := scanOrder(row)
	if err != nil {
		return nil, convertErr(err, "creating order for user with id `%d`", userID)
	}
	return order, nil
}

// BatchCreateItems вставляет позиции заказа одним батч запросом. Результат каждой вставки
// передается в колбек fn с индексом исходного среза.
func (o *OrderRepository) BatchCreateItems(
	ctx context.Context,
	items []repoargs.OrderItemCreate,
	fn repoargs.OrderItemBatchQueryRow,
) {
	batch := new(pgx.Batch)
	for _, item := range items {
		batch.Queue(`
			INSERT INTO order_items (order_id, product_id, quantity, price_at_purchase)
			VALUES ($1, $2, $3, $4)`,
			item.OrderID, item.ProductID, item.Quantity, item.PriceAtPurchase)
	}

	results := o.db.SendBatch(ctx, batch)
	defer results.Close()

	for i := range items {
		_, err := results.Exec()
		fn(i, convertErr(err, "creating order item for product with id `%d`", items[i].ProductID))
	}
}

func (o *OrderRepository) FindOrderByID(ctx context.Context, orderID int64) (*domain.Order, error) {
	row := o.db.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE order_id = $1`, orderID)
	order, err := scanOrder(row)
	if err != nil {
		return nil, convertErr(err, "finding order by id `%d`", orderID)
	}
	return order, nil
}

func (o *OrderRepository) GetAll(ctx context.Context) ([]domain.Order, error) {
	rows, err := o.db.Query(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY order_id`)
	if err != nil {
		return nil, convertErr(err, "getting all orders")
	}
	defer rows.Close()
	return collectOrders(rows)
}

// GetByUserID возвращает заказы юзера отсортированные по дате создания по убыванию.
func (o *OrderRepository) GetByUserID(ctx context.Context, userID int64) ([]domain.Order, error) {
	rows, err := o.db.Query(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, convertErr(err, "getting orders by userID `%d`", userID)
	}
	defer rows.Close()
	return collectOrders(rows)
}

func (o *OrderRepository) GetItemsByOrderID(ctx context.Context, orderID int64) ([]domain.OrderItem, error) {
	rows, err := o.db.Query(ctx,
		`SELECT `+orderItemColumns+` FROM order_items WHERE order_id = $1 ORDER BY order_item_id`, orderID)
	if err != nil {
		return nil, convertErr(err, "getting items of order with id `%d`", orderID)
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var item domain.OrderItem
		if scanErr := rows.Scan(
			&item.ID, &item.OrderID, &item.ProductID, &item.Quantity, &item.PriceAtPurchase,
		); scanErr != nil {
			return nil, convertErr(scanErr, "scanning order item row")
		}
		items = append(items, item)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, convertErr(rowsErr, "iterating order item rows")
	}
	return items, nil
}

func collectOrders(rows pgx.Rows) ([]domain.Order, error) {
	var orders []domain.Order
	for rows.Next() {
		order, scanErr := scanOrder(rows)
		if scanErr != nil {
			return nil, convertErr(scanErr, "scanning order row")
		}
		orders = append(orders, *order)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, convertErr(rowsErr, "iterating order rows")
	}
	return orders, nil
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	var order domain.Order
	if err := row.Scan(&order.ID, &order.CreatedAt, &order.UserID, &order.TotalPrice); err != nil {
		return nil, err
	}
	return &order, nil
}
