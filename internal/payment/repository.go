package payment

import (
	"context"
	"database/sql"
	"encoding/json"
)

// CallbackLog is the append-only audit trail of provider callbacks. Entries
// are never used to reject or deduplicate a callback.
type CallbackLog interface {
	Record(ctx context.Context, provider, reference, status string, payload json.RawMessage) (int64, error)
	MarkProcessed(ctx context.Context, id int64) error
	MarkFailed(ctx context.Context, id int64, reason string) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) CallbackLog {
	return &repository{db: db}
}

func (r *repository) Record(
	ctx context.Context,
	provider string,
	reference string,
	status string,
	payload json.RawMessage,
) (int64, error) {

	const q = `
	INSERT INTO payment_callbacks (
		provider,
		reference,
		status,
		payload
	)
	VALUES ($1, $2, $3, $4)
	RETURNING id;
	`

	if len(payload) == 0 {
		payload = json.RawMessage(`{}`)
	}

	var id int64
	err := r.db.QueryRowContext(ctx, q, provider, reference, status, []byte(payload)).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *repository) MarkProcessed(
	ctx context.Context,
	id int64,
) error {

	const q = `
	UPDATE payment_callbacks
	SET processed_at = now()
	WHERE id = $1;
	`

	_, err := r.db.ExecContext(ctx, q, id)
	return err
}

func (r *repository) MarkFailed(
	ctx context.Context,
	id int64,
	reason string,
) error {

	const q = `
	UPDATE payment_callbacks
	SET process_error = $2
	WHERE id = $1;
	`

	_, err := r.db.ExecContext(ctx, q, id, reason)
	return err
}
