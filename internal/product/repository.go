package product

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

type Repository interface {
	Lookup
	List(ctx context.Context, opts ListOptions) ([]*Product, error)
	Create(ctx context.Context, p *Product) error
	Update(ctx context.Context, p *Product) error
	Delete(ctx context.Context, id string) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const productColumns = `
	id, slug, name, price, original_price, discount, images, description,
	benefits, ingredients, usage, in_stock, featured, stock_quantity,
	rating_average, review_count, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*Product, error) {
	var (
		p        Product
		original decimal.NullDecimal
	)
	err := row.Scan(
		&p.ID, &p.Slug, &p.Name, &p.Price, &original, &p.Discount,
		pq.Array(&p.Images), &p.Description, pq.Array(&p.Benefits),
		&p.Ingredients, &p.Usage, &p.InStock, &p.Featured, &p.StockQuantity,
		&p.Rating.Average, &p.Rating.Count, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if original.Valid {
		p.OriginalPrice = &original.Decimal
	}
	return &p, nil
}

func (r *repository) findOne(ctx context.Context, where string, arg any) (*Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE ` + where + ` ORDER BY created_at LIMIT 1`

	p, err := scanProduct(r.db.QueryRowContext(ctx, query, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return p, nil
}

func (r *repository) FindByID(ctx context.Context, id string) (*Product, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrProductNotFound
	}
	return r.findOne(ctx, "id = $1", id)
}

func (r *repository) FindBySlug(ctx context.Context, slug string) (*Product, error) {
	return r.findOne(ctx, "slug = $1", slug)
}

func (r *repository) FindByName(ctx context.Context, name string) (*Product, error) {
	return r.findOne(ctx, "name = $1", name)
}

func (r *repository) List(ctx context.Context, opts ListOptions) ([]*Product, error) {
	var (
		conds []string
		args  []any
	)
	if opts.FeaturedOnly {
		conds = append(conds, "featured = TRUE")
	}
	if opts.InStockOnly {
		conds = append(conds, "in_stock = TRUE")
	}

	query := `SELECT ` + productColumns + ` FROM products`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY created_at DESC`
	if opts.Limit > 0 {
		args = append(args, opts.Limit)
		query += fmt.Sprintf(` LIMIT $%d`, len(args))
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := make([]*Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return products, nil
}

func (r *repository) Create(ctx context.Context, p *Product) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}

	err := r.db.QueryRowContext(ctx, `
		INSERT INTO products (
			id, slug, name, price, original_price, discount, images, description,
			benefits, ingredients, usage, in_stock, featured, stock_quantity
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
		RETURNING created_at, updated_at
	`,
		p.ID, p.Slug, p.Name, p.Price, nullDecimal(p.OriginalPrice), p.Discount,
		pq.Array(p.Images), p.Description, pq.Array(p.Benefits), p.Ingredients,
		p.Usage, p.InStock, p.Featured, p.StockQuantity,
	).Scan(&p.CreatedAt, &p.UpdatedAt)

	if isUniqueViolation(err) {
		return ErrSlugTaken
	}
	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

func (r *repository) Update(ctx context.Context, p *Product) error {
	err := r.db.QueryRowContext(ctx, `
		UPDATE products SET
			slug = $2, name = $3, price = $4, original_price = $5, discount = $6,
			images = $7, description = $8, benefits = $9, ingredients = $10,
			usage = $11, in_stock = $12, featured = $13, stock_quantity = $14,
			updated_at = NOW()
		WHERE id = $1
		RETURNING created_at, updated_at
	`,
		p.ID, p.Slug, p.Name, p.Price, nullDecimal(p.OriginalPrice), p.Discount,
		pq.Array(p.Images), p.Description, pq.Array(p.Benefits), p.Ingredients,
		p.Usage, p.InStock, p.Featured, p.StockQuantity,
	).Scan(&p.CreatedAt, &p.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return ErrProductNotFound
	}
	if isUniqueViolation(err) {
		return ErrSlugTaken
	}
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrProductNotFound
	}

	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrProductNotFound
	}
	return nil
}

func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == PgUniqueViolation
}
