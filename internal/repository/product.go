package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/minhpv/product-events/internal/apperr"
	"github.com/minhpv/product-events/internal/model"
	"github.com/minhpv/product-events/internal/storage/db"
)

type ProductRepository interface {
	// Create inserts one row and returns it with the store-assigned
	// id and created_at.
	Create(ctx context.Context, name string, price float64) (model.Product, error)

	// Delete removes the row matching id. Returns apperr.ProductNotFoundErr
	// when no row matched.
	Delete(ctx context.Context, id int64) error

	// List returns one page of products ordered by id descending, together
	// with the total row count of the whole table.
	List(ctx context.Context, limit, offset int) ([]model.Product, int64, error)
}

type productRepository struct {
	db db.DB
}

func NewProductRepository(db db.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(ctx context.Context, name string, price float64) (model.Product, error) {
	var priceNum pgtype.Numeric
	if err := priceNum.Scan(fmt.Sprintf("%.2f", price)); err != nil {
		return model.Product{}, fmt.Errorf("scan price: %w", err)
	}

	row := r.db.QueryRow(ctx, `
		INSERT INTO products (name, price)
		VALUES ($1, $2)
		RETURNING id, name, price, created_at
	`, name, priceNum)

	product, err := scanProduct(row)
	if err != nil {
		return model.Product{}, fmt.Errorf("create product: %w", err)
	}

	return product, nil
}

func (r *productRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return apperr.ProductNotFoundErr
	}

	return nil
}

func (r *productRepository) List(ctx context.Context, limit, offset int) ([]model.Product, int64, error) {
	// The windowed count makes total reflect the whole table regardless of
	// the slice returned, in the same round trip as the page itself.
	rows, err := r.db.Query(ctx, `
		SELECT id, name, price, created_at, COUNT(*) OVER() AS total_count
		FROM products
		ORDER BY id DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var (
		products = make([]model.Product, 0, limit)
		total    int64
	)
	for rows.Next() {
		var (
			product  model.Product
			priceNum pgtype.Numeric
		)
		if err := rows.Scan(&product.ID, &product.Name, &priceNum, &product.CreatedAt, &total); err != nil {
			return nil, 0, fmt.Errorf("scan product row: %w", err)
		}

		price, err := priceNum.Float64Value()
		if err != nil {
			return nil, 0, fmt.Errorf("convert price to float64: %w", err)
		}
		product.Price = price.Float64

		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate product rows: %w", err)
	}

	return products, total, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (model.Product, error) {
	var (
		product  model.Product
		priceNum pgtype.Numeric
	)
	if err := row.Scan(&product.ID, &product.Name, &priceNum, &product.CreatedAt); err != nil {
		return model.Product{}, fmt.Errorf("scan product: %w", err)
	}

	price, err := priceNum.Float64Value()
	if err != nil {
		return model.Product{}, fmt.Errorf("convert price to float64: %w", err)
	}
	product.Price = price.Float64

	return product, nil
}
