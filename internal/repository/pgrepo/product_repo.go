package pgrepo

import (
	"context"

	"github.com/fsdevblog/groph-shop/internal/domain"
	"github.com/fsdevblog/groph-shop/internal/repository/repoargs"
	"github.com/fsdevblog/groph-shop/pkg/uow"
)

const productColumns = "product_id, created_at, updated_at, name, description, price, stock"

type ProductRepository struct {
	db uow.DBTX
}

func NewProductRepository(db uow.DBTX) *ProductRepository {
	return &ProductRepository{db: db}
}

func (p *ProductRepository) CreateProduct(ctx context.Context, args repoargs.CreateProduct) (*domain.Product, error) {
	row := p.db.QueryRow(ctx, `
		INSERT INTO products (name, description, price, stock)
		VALUES ($1, $2, $3, $4)
		RETURNING `+productColumns,
		args.Name, args.Description, args.Price, args.Stock)

	product, err := scanProduct(row)
	if err != nil {
		return nil, convertErr(err, "creating product `%s`", args.Name)
	}
	return product, nil
}

func (p *ProductRepository) FindProductByID(ctx context.Context, productID int64) (*domain.Product, error) {
	row := p.db.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE product_id = $1`, productID)
	product, err := scanProduct(row)
	if err != nil {
		return nil, convertErr(err, "finding product by id `%d`", productID)
	}
	return product, nil
}

// FindProductsByIDs возвращает товары по списку id. Отсутствующие id молча пропускаются,
// их наличие проверяет вызывающая сторона.
func (p *ProductRepository) FindProductsByIDs(ctx context.Context, productIDs []int64) ([]domain.Product, error) {
	rows, err := p.db.Query(ctx,
		`SELECT `+productColumns+` FROM products WHERE product_id = ANY($1) ORDER BY product_id`, productIDs)
	if err != nil {
		return nil, convertErr(err, "finding products by ids `%v`", productIDs)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		product, scanErr := scanProduct(rows)
		if scanErr != nil {
			return nil, convertErr(scanErr, "scanning product row")
		}
		products = append(products, *product)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, convertErr(rowsErr, "iterating product rows")
	}
	return products, nil
}

func (p *ProductRepository) GetAll(ctx context.Context) ([]domain.Product, error) {
	rows, err := p.db.Query(ctx, `SELECT `+productColumns+` FROM products ORDER BY product_id`)
	if err != nil {
		return nil, convertErr(err, "getting all products")
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		product, scanErr := scanProduct(rows)
		if scanErr != nil {
			return nil, convertErr(scanErr, "scanning product row")
		}
		products = append(products, *product)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, convertErr(rowsErr, "iterating product rows")
	}
	return products, nil
}

func (p *ProductRepository) UpdateProduct(ctx context.Context, args repoargs.UpdateProduct) (*domain.Product, error) {
	row := p.db.QueryRow(ctx, `
		UPDATE products
		SET name = $2, description = $3, price = $4, stock = $5, updated_at = now()
		WHERE product_id = $1
		RETURNING `+productColumns,
		args.ID, args.Name, args.Description, args.Price, args.Stock)

	product, err := scanProduct(row)
	if err != nil {
		return nil, convertErr(err, "updating product with id `%d`", args.ID)
	}
	return product, nil
}

func (p *ProductRepository) DeleteProduct(ctx context.Context, productID int64) error {
	tag, err := p.db.Exec(ctx, `DELETE FROM products WHERE product_id = $1`, productID)
	if err != nil {
		return convertErr(err, "deleting product with id `%d`", productID)
	}
	if tag.RowsAffected() == 0 {
		return convertErr(errNoRowsAffected, "deleting product with id `%d`", productID)
	}
	return nil
}

// DecrementStock списывает qty единиц остатка условным обновлением: строка изменится лишь если
// остатка достаточно. Ноль затронутых строк - поздно обнаруженная нехватка остатка (конкурентный
// чекаут успел списать раньше) либо отсутствие товара.
func (p *ProductRepository) DecrementStock(ctx context.Context, productID int64, qty int32) error {
	tag, err := p.db.Exec(ctx, `
		UPDATE products SET stock = stock - $2, updated_at = now()
		WHERE product_id = $1 AND stock >= $2`,
		productID, qty)
	if err != nil {
		return convertErr(err, "decrementing stock of product with id `%d`", productID)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if checkErr := p.db.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM products WHERE product_id = $1)`, productID).Scan(&exists); checkErr != nil {
			return convertErr(checkErr, "checking product existence with id `%d`", productID)
		}
		if !exists {
			return convertErr(errNoRowsAffected, "decrementing stock of product with id `%d`", productID)
		}
		return domain.NewStockInsufficientError(productID)
	}
	return nil
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	var product domain.Product
	err := row.Scan(
		&product.ID,
		&product.CreatedAt,
		&product.UpdatedAt,
		&product.Name,
		&product.Description,
		&product.Price,
		&product.Stock,
	)
	if err != nil {
		return nil, err
	}
	return &product, nil
}
