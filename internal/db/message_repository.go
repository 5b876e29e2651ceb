package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vesselworks/crewcomm/internal/models"
)

// Message repository errors.
var (
	ErrMessageNotFound = errors.New("message not found")
	ErrNotSender       = errors.New("operator is not the message sender")
)

// MessageRepository handles message persistence.
type MessageRepository struct {
	db *DB
}

// NewMessageRepository creates a new MessageRepository.
func NewMessageRepository(db *DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// Create persists a new message. The id, timestamp and initial status
// are assigned here; clients never supply them.
func (r *MessageRepository) Create(ctx context.Context, msg *models.Message) error {
	if err := msg.Validate(); err != nil {
		return fmt.Errorf("invalid message: %w", err)
	}

	msg.ID = uuid.New().String()
	msg.SentAt = time.Now().UTC()
	msg.Status = models.StatusSent
	if msg.Priority == "" {
		msg.Priority = models.PriorityNormal
	}

	return r.db.TransactionWithRetry(ctx, 0, 0, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO messages (id, from_id, to_id, content, sent_at, status, priority)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`,
			msg.ID,
			msg.FromID,
			msg.ToID,
			msg.Content,
			msg.SentAt.Format(time.RFC3339Nano),
			string(msg.Status),
			string(msg.Priority),
		)
		if err != nil {
			return fmt.Errorf("insert message: %w", err)
		}
		return nil
	})
}

// Thread returns the full ordered history between the operator and the
// contact, oldest first.
func (r *MessageRepository) Thread(ctx context.Context, operatorID, contactID string) ([]models.Message, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, from_id, to_id, content, sent_at, status, priority
		FROM messages
		WHERE (from_id = ? AND to_id = ?) OR (from_id = ? AND to_id = ?)
		ORDER BY sent_at, id
	`, operatorID, contactID, contactID, operatorID)
	if err != nil {
		return nil, fmt.Errorf("load thread: %w", err)
	}
	defer rows.Close()

	var messages []models.Message
	for rows.Next() {
		var msg models.Message
		var sentAt, status, priority string
		if err := rows.Scan(&msg.ID, &msg.FromID, &msg.ToID, &msg.Content, &sentAt, &status, &priority); err != nil {
			return nil, err
		}
		if parsed, err := time.Parse(time.RFC3339Nano, sentAt); err == nil {
			msg.SentAt = parsed
		}
		msg.Status = models.MessageStatus(status)
		msg.Priority = models.MessagePriority(priority)
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

// AdvanceInboundStatus progresses delivery state for messages addressed
// to the operator from the contact: sent becomes delivered, delivered
// becomes read. Called when the operator fetches the thread, so two
// consecutive fetches bring a message to read.
func (r *MessageRepository) AdvanceInboundStatus(ctx context.Context, operatorID, contactID string) error {
	return r.db.TransactionWithRetry(ctx, 0, 0, func(tx *sql.Tx) error {
		// Delivered first, otherwise a freshly delivered row would be
		// promoted twice in one pass.
		if _, err := tx.ExecContext(ctx, `
			UPDATE messages SET status = ?
			WHERE to_id = ? AND from_id = ? AND status = ?
		`, string(models.StatusRead), operatorID, contactID, string(models.StatusDelivered)); err != nil {
			return fmt.Errorf("mark read: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `
			UPDATE messages SET status = ?
			WHERE to_id = ? AND from_id = ? AND status = ?
		`, string(models.StatusDelivered), operatorID, contactID, string(models.StatusSent)); err != nil {
			return fmt.Errorf("mark delivered: %w", err)
		}
		return nil
	})
}

// UpdateContent replaces a message's text. Only the sender may edit,
// and only while the message has not progressed past sent.
func (r *MessageRepository) UpdateContent(ctx context.Context, messageID, operatorID, content string) error {
	if content == "" {
		return fmt.Errorf("content must not be empty")
	}

	return r.db.TransactionWithRetry(ctx, 0, 0, func(tx *sql.Tx) error {
		var fromID, status string
		err := tx.QueryRowContext(ctx, `SELECT from_id, status FROM messages WHERE id = ?`, messageID).Scan(&fromID, &status)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrMessageNotFound
		}
		if err != nil {
			return err
		}
		if fromID != operatorID {
			return ErrNotSender
		}
		if models.MessageStatus(status) != models.StatusSent {
			return fmt.Errorf("message already %s, no longer editable", status)
		}

		_, err = tx.ExecContext(ctx, `UPDATE messages SET content = ? WHERE id = ?`, content, messageID)
		return err
	})
}

// Delete removes a message. Only the sender may delete.
func (r *MessageRepository) Delete(ctx context.Context, messageID, operatorID string) error {
	return r.db.TransactionWithRetry(ctx, 0, 0, func(tx *sql.Tx) error {
		var fromID string
		err := tx.QueryRowContext(ctx, `SELECT from_id FROM messages WHERE id = ?`, messageID).Scan(&fromID)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrMessageNotFound
		}
		if err != nil {
			return err
		}
		if fromID != operatorID {
			return ErrNotSender
		}

		_, err = tx.ExecContext(ctx, `DELETE FROM messages WHERE id = ?`, messageID)
		return err
	})
}
