package notification

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// Recorder accepts notification intents for later delivery.
type Recorder interface {
	Enqueue(ctx context.Context, intent Intent) error
}

// Outbox is the durable queue of pending notification intents.
type Outbox interface {
	Recorder
	Claim(ctx context.Context, now time.Time, limit int, lease time.Duration) ([]Message, error)
	MarkSent(ctx context.Context, id int64) error
	MarkFailed(ctx context.Context, id int64, lastErr string, next time.Time, dead bool) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Outbox {
	return &repository{db: db}
}

func (r *repository) Enqueue(ctx context.Context, intent Intent) error {
	if !intent.Kind.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownKind, intent.Kind)
	}
	if intent.Recipient == "" {
		return ErrMissingReceiver
	}

	payload, err := json.Marshal(intent.Data)
	if err != nil {
		return fmt.Errorf("failed to encode notification data: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO notification_outbox (kind, recipient, payload, status, next_attempt_at)
		VALUES ($1, $2, $3, $4, NOW())
	`, string(intent.Kind), intent.Recipient, payload, string(StatusPending))
	if err != nil {
		return fmt.Errorf("failed to enqueue notification: %w", err)
	}
	return nil
}

// Claim leases up to limit due messages. A leased row becomes due again once
// the lease expires.
func (r *repository) Claim(ctx context.Context, now time.Time, limit int, lease time.Duration) ([]Message, error) {
	rows, err := r.db.QueryContext(ctx, `
		UPDATE notification_outbox
		SET attempts = attempts + 1,
			next_attempt_at = $3,
			updated_at = NOW()
		WHERE id IN (
			SELECT id FROM notification_outbox
			WHERE status = 'pending' AND next_attempt_at <= $1
			ORDER BY id
			LIMIT $2
			FOR UPDATE SKIP LOCKED
		)
		RETURNING id, kind, recipient, payload, attempts
	`, now, limit, now.Add(lease))
	if err != nil {
		return nil, fmt.Errorf("failed to claim notifications: %w", err)
	}
	defer rows.Close()

	var msgs []Message
	for rows.Next() {
		var (
			m       Message
			kind    string
			payload []byte
		)
		if err := rows.Scan(&m.ID, &kind, &m.Intent.Recipient, &payload, &m.Attempts); err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		m.Intent.Kind = Kind(kind)
		if err := json.Unmarshal(payload, &m.Intent.Data); err != nil {
			m.DecodeErr = fmt.Errorf("%w: %v", ErrUndecodable, err)
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

func (r *repository) MarkSent(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE notification_outbox
		SET status = 'sent', sent_at = NOW(), last_error = NULL, updated_at = NOW()
		WHERE id = $1
	`, id)
	return err
}

func (r *repository) MarkFailed(ctx context.Context, id int64, lastErr string, next time.Time, dead bool) error {
	status := StatusPending
	if dead {
		status = StatusDead
	}

	_, err := r.db.ExecContext(ctx, `
		UPDATE notification_outbox
		SET status = $2, last_error = $3, next_attempt_at = $4, updated_at = NOW()
		WHERE id = $1
	`, id, string(status), lastErr, next)
	return err
}
