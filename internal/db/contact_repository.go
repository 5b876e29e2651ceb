package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Contact repository errors.
var ErrContactNotFound = errors.New("contact not found")

// Contact is a raw directory record as stored by the service. The
// client, not the server, derives labels and presence from it.
type Contact struct {
	ID        string
	CrewID    string
	FullName  string
	Role      string
	Status    string
	CreatedAt time.Time
}

// ContactRepository handles contact persistence.
type ContactRepository struct {
	db *DB
}

// NewContactRepository creates a new ContactRepository.
func NewContactRepository(db *DB) *ContactRepository {
	return &ContactRepository{db: db}
}

// Upsert inserts or updates a contact record.
func (r *ContactRepository) Upsert(ctx context.Context, contact *Contact) error {
	if contact.ID == "" {
		return fmt.Errorf("contact id is required")
	}
	if contact.FullName == "" {
		return fmt.Errorf("contact full name is required")
	}
	if contact.Status == "" {
		contact.Status = "active"
	}
	if contact.CreatedAt.IsZero() {
		contact.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO contacts (id, crew_id, full_name, role, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			crew_id = excluded.crew_id,
			full_name = excluded.full_name,
			role = excluded.role,
			status = excluded.status
	`,
		contact.ID,
		nullableString(contact.CrewID),
		contact.FullName,
		contact.Role,
		contact.Status,
		contact.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("upsert contact: %w", err)
	}
	return nil
}

// List returns all contacts ordered by full name.
func (r *ContactRepository) List(ctx context.Context) ([]*Contact, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, crew_id, full_name, role, status, created_at
		FROM contacts
		ORDER BY full_name, id
	`)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	defer rows.Close()

	var contacts []*Contact
	for rows.Next() {
		contact, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		contacts = append(contacts, contact)
	}
	return contacts, rows.Err()
}

// Get returns a contact by id.
func (r *ContactRepository) Get(ctx context.Context, id string) (*Contact, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, crew_id, full_name, role, status, created_at
		FROM contacts
		WHERE id = ?
	`, id)

	contact, err := scanContact(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrContactNotFound
		}
		return nil, err
	}
	return contact, nil
}

// SetStatus updates a contact's active/inactive flag.
func (r *ContactRepository) SetStatus(ctx context.Context, id, status string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE contacts SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return fmt.Errorf("set contact status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrContactNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanContact(row rowScanner) (*Contact, error) {
	var contact Contact
	var crewID sql.NullString
	var createdAt string

	if err := row.Scan(&contact.ID, &crewID, &contact.FullName, &contact.Role, &contact.Status, &createdAt); err != nil {
		return nil, err
	}
	if crewID.Valid {
		contact.CrewID = crewID.String
	}
	if parsed, err := time.Parse(time.RFC3339, createdAt); err == nil {
		contact.CreatedAt = parsed
	}
	return &contact, nil
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
