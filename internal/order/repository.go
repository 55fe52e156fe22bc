package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Repository is the order store. It owns order_number uniqueness.
type Repository interface {
	Create(ctx context.Context, o *Order) error
	FindByOrderNumber(ctx context.Context, orderNumber string) (*Order, error)
	FindByTransactionID(ctx context.Context, transactionID string) (*Order, error)
	FindByBankReference(ctx context.Context, orderNumber, reference string) (*Order, error)
	SetTransactionID(ctx context.Context, orderNumber, transactionID string) error
	SetBankReference(ctx context.Context, orderNumber, reference string) error
	UpdateStatus(ctx context.Context, orderNumber string, upd StatusUpdate) error
	List(ctx context.Context, f ListFilter) ([]*Order, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const orderColumns = `
	id, order_number, customer_name, customer_email, customer_phone,
	street, city, province, postal_code, country,
	subtotal, shipping, total, payment_method, payment_status, order_status,
	COALESCE(payment_transaction_id, ''), COALESCE(bank_transaction_reference, ''),
	COALESCE(tracking_number, ''), COALESCE(notes, ''), created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*Order, error) {
	var o Order
	err := row.Scan(
		&o.ID, &o.OrderNumber, &o.Customer.Name, &o.Customer.Email, &o.Customer.Phone,
		&o.Customer.Address.Street, &o.Customer.Address.City, &o.Customer.Address.Province,
		&o.Customer.Address.PostalCode, &o.Customer.Address.Country,
		&o.Subtotal, &o.Shipping, &o.Total, &o.PaymentMethod, &o.PaymentStatus, &o.OrderStatus,
		&o.PaymentTransactionID, &o.BankTransactionReference, &o.TrackingNumber, &o.Notes,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *repository) Create(ctx context.Context, o *Order) error {
	if o.ID == "" {
		o.ID = uuid.New().String()
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx, `
		INSERT INTO orders (
			id, order_number, customer_name, customer_email, customer_phone,
			street, city, province, postal_code, country,
			subtotal, shipping, total, payment_method, payment_status, order_status, notes
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
		RETURNING created_at, updated_at
	`,
		o.ID, o.OrderNumber, o.Customer.Name, o.Customer.Email, o.Customer.Phone,
		o.Customer.Address.Street, o.Customer.Address.City, o.Customer.Address.Province,
		o.Customer.Address.PostalCode, o.Customer.Address.Country,
		o.Subtotal, o.Shipping, o.Total,
		string(o.PaymentMethod), string(o.PaymentStatus), string(o.OrderStatus), nullString(o.Notes),
	).Scan(&o.CreatedAt, &o.UpdatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicateOrderNumber
	}
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	for i, item := range o.Items {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_items (
				order_id, position, product_id, name, price, quantity, image
			) VALUES ($1,$2,$3,$4,$5,$6,$7)
		`,
			o.ID, i, item.ProductID, item.Name, item.Price, item.Quantity, nullString(item.Image),
		)
		if err != nil {
			return fmt.Errorf("failed to insert order item: %w", err)
		}
	}

	return tx.Commit()
}

func (r *repository) findOne(ctx context.Context, where string, args ...any) (*Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE ` + where + ` LIMIT 1`

	o, err := scanOrder(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	if err := r.attachItems(ctx, []*Order{o}); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *repository) FindByOrderNumber(ctx context.Context, orderNumber string) (*Order, error) {
	return r.findOne(ctx, "order_number = $1", orderNumber)
}

func (r *repository) FindByTransactionID(ctx context.Context, transactionID string) (*Order, error) {
	if transactionID == "" {
		return nil, ErrOrderNotFound
	}
	return r.findOne(ctx, "payment_transaction_id = $1", transactionID)
}

func (r *repository) FindByBankReference(ctx context.Context, orderNumber, reference string) (*Order, error) {
	if reference == "" {
		return nil, ErrOrderNotFound
	}
	return r.findOne(ctx, "order_number = $1 AND bank_transaction_reference = $2", orderNumber, reference)
}

func (r *repository) attachItems(ctx context.Context, orders []*Order) error {
	if len(orders) == 0 {
		return nil
	}

	ids := make([]string, 0, len(orders))
	byID := make(map[string]*Order, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID)
		byID[o.ID] = o
		o.Items = []Item{}
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT order_id, product_id, name, price, quantity, COALESCE(image, '')
		FROM order_items
		WHERE order_id = ANY($1)
		ORDER BY order_id, position
	`, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("failed to load order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			orderID string
			item    Item
		)
		if err := rows.Scan(&orderID, &item.ProductID, &item.Name, &item.Price, &item.Quantity, &item.Image); err != nil {
			return fmt.Errorf("failed to scan order item: %w", err)
		}
		if o, ok := byID[orderID]; ok {
			o.Items = append(o.Items, item)
		}
	}
	return rows.Err()
}

func (r *repository) exec(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update order: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func (r *repository) SetTransactionID(ctx context.Context, orderNumber, transactionID string) error {
	return r.exec(ctx, `
		UPDATE orders SET payment_transaction_id = $2, updated_at = NOW()
		WHERE order_number = $1
	`, orderNumber, transactionID)
}

// SetBankReference stores the customer's transfer reference and puts the
// payment back to pending.
func (r *repository) SetBankReference(ctx context.Context, orderNumber, reference string) error {
	return r.exec(ctx, `
		UPDATE orders SET bank_transaction_reference = $2, payment_status = $3, updated_at = NOW()
		WHERE order_number = $1
	`, orderNumber, reference, string(PaymentPending))
}

func (r *repository) UpdateStatus(ctx context.Context, orderNumber string, upd StatusUpdate) error {
	sets := []string{}
	args := []any{orderNumber}

	if upd.PaymentStatus != nil {
		args = append(args, string(*upd.PaymentStatus))
		sets = append(sets, fmt.Sprintf("payment_status = $%d", len(args)))
	}
	if upd.OrderStatus != nil {
		args = append(args, string(*upd.OrderStatus))
		sets = append(sets, fmt.Sprintf("order_status = $%d", len(args)))
	}
	if upd.TrackingNumber != nil {
		args = append(args, *upd.TrackingNumber)
		sets = append(sets, fmt.Sprintf("tracking_number = $%d", len(args)))
	}
	if len(sets) == 0 {
		return errors.New("status update has no fields")
	}
	sets = append(sets, "updated_at = NOW()")

	query := `UPDATE orders SET ` + strings.Join(sets, ", ") + ` WHERE order_number = $1`
	return r.exec(ctx, query, args...)
}

func (r *repository) List(ctx context.Context, f ListFilter) ([]*Order, error) {
	var (
		where string
		args  []any
	)
	if f.OrderStatus != "" {
		args = append(args, string(f.OrderStatus))
		where = ` WHERE order_status = $1`
	}
	args = append(args, f.Limit, f.Offset)

	query := fmt.Sprintf(`SELECT %s FROM orders%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		orderColumns, where, len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	orders := make([]*Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.attachItems(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == PgUniqueViolation
}
