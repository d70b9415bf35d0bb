package repository

import (
	"context"

	"contact-keeper/internal/domain"
)

// ContactRepository exposes persistence operations for Contact records.
//
// UpdateOwned and DeleteOwned constrain the mutation to the owning user in a
// single conditional statement, so there is no window between the ownership
// check and the write. When no row matches they report either
// domain.ErrContactNotFound or domain.ErrNotOwner.
type ContactRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, contact *domain.Contact) error
	GetByID(ctx context.Context, id string) (*domain.Contact, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Contact, error)
	UpdateOwned(ctx context.Context, userID int64, contact *domain.Contact) error
	DeleteOwned(ctx context.Context, userID int64, id string) error
}
