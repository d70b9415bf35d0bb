package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"contact-keeper/internal/domain"
	"contact-keeper/internal/repository"
)

const createContactsTable = `
CREATE TABLE IF NOT EXISTS contacts (
	id TEXT PRIMARY KEY,
	user_id INTEGER NOT NULL REFERENCES users(id),
	name TEXT NOT NULL,
	email TEXT NOT NULL DEFAULT '',
	phone TEXT NOT NULL DEFAULT '',
	type TEXT NOT NULL DEFAULT 'personal',
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);
`

const createContactsIndex = `
CREATE INDEX IF NOT EXISTS idx_contacts_user_created ON contacts(user_id, created_at DESC);
`

type ContactRepository struct {
	db *sql.DB
}

func NewContactRepository(db *sql.DB) repository.ContactRepository {
	return &ContactRepository{db: db}
}

func (r *ContactRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createContactsTable); err != nil {
		return fmt.Errorf("create contacts table: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, createContactsIndex); err != nil {
		return fmt.Errorf("create contacts index: %w", err)
	}
	return nil
}

func (r *ContactRepository) Create(ctx context.Context, contact *domain.Contact) error {
	now := time.Now().UTC()
	contact.CreatedAt = now
	contact.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `
INSERT INTO contacts (id, user_id, name, email, phone, type, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		contact.ID,
		contact.UserID,
		contact.Name,
		contact.Email,
		contact.Phone,
		string(contact.Type),
		contact.CreatedAt,
		contact.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert contact: %w", err)
	}
	return nil
}

func (r *ContactRepository) GetByID(ctx context.Context, id string) (*domain.Contact, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, user_id, name, email, phone, type, created_at, updated_at
FROM contacts
WHERE id = ?`,
		id,
	)
	return scanContact(row)
}

func (r *ContactRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Contact, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, user_id, name, email, phone, type, created_at, updated_at
FROM contacts
WHERE user_id = ?
ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	defer rows.Close()

	var contacts []domain.Contact
	for rows.Next() {
		contact, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		contacts = append(contacts, *contact)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate contacts: %w", err)
	}
	return contacts, nil
}

// UpdateOwned writes the contact in a single statement constrained to the
// owning user, so the ownership check and the write cannot race.
func (r *ContactRepository) UpdateOwned(ctx context.Context, userID int64, contact *domain.Contact) error {
	contact.UpdatedAt = time.Now().UTC()

	res, err := r.db.ExecContext(ctx, `
UPDATE contacts
SET name = ?, email = ?, phone = ?, type = ?, updated_at = ?
WHERE id = ? AND user_id = ?`,
		contact.Name,
		contact.Email,
		contact.Phone,
		string(contact.Type),
		contact.UpdatedAt,
		contact.ID,
		userID,
	)
	if err != nil {
		return fmt.Errorf("update contact: %w", err)
	}
	return r.checkAffected(ctx, res, contact.ID)
}

func (r *ContactRepository) DeleteOwned(ctx context.Context, userID int64, id string) error {
	res, err := r.db.ExecContext(ctx, `
DELETE FROM contacts
WHERE id = ? AND user_id = ?`,
		id,
		userID,
	)
	if err != nil {
		return fmt.Errorf("delete contact: %w", err)
	}
	return r.checkAffected(ctx, res, id)
}

// checkAffected distinguishes a missing contact from one owned by somebody
// else after a conditional mutation matched zero rows.
func (r *ContactRepository) checkAffected(ctx context.Context, res sql.Result, id string) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("contact rows affected: %w", err)
	}
	if affected > 0 {
		return nil
	}

	var exists int
	err = r.db.QueryRowContext(ctx, `SELECT 1 FROM contacts WHERE id = ?`, id).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrContactNotFound
	}
	if err != nil {
		return fmt.Errorf("probe contact: %w", err)
	}
	return domain.ErrNotOwner
}

func scanContact(row interface {
	Scan(dest ...any) error
}) (*domain.Contact, error) {
	var (
		contact domain.Contact
		ctype   string
	)
	if err := row.Scan(
		&contact.ID,
		&contact.UserID,
		&contact.Name,
		&contact.Email,
		&contact.Phone,
		&ctype,
		&contact.CreatedAt,
		&contact.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrContactNotFound
		}
		return nil, fmt.Errorf("scan contact: %w", err)
	}
	contact.Type = domain.ContactType(ctype)
	return &contact, nil
}
