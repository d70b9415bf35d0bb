package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"contact-keeper/internal/domain"
	"contact-keeper/internal/repository"
	"contact-keeper/internal/storage"
)

// ErrSnapshotsDisabled is returned by Export when no snapshot store is configured.
var ErrSnapshotsDisabled = errors.New("snapshot storage is not configured")

// ContactFields carries client-supplied contact attributes. For updates the
// zero value of Email/Phone means "keep the stored value", while Name and
// Type always overwrite.
type ContactFields struct {
	Name  string
	Email string
	Phone string
	Type  string
}

// ContactService exposes contact CRUD scoped to an owning user.
type ContactService interface {
	List(ctx context.Context, ownerID int64) ([]domain.Contact, error)
	Create(ctx context.Context, ownerID int64, fields ContactFields) (*domain.Contact, error)
	Update(ctx context.Context, ownerID int64, id string, fields ContactFields) (*domain.Contact, error)
	Delete(ctx context.Context, ownerID int64, id string) error
	Export(ctx context.Context, ownerID int64) (string, error)
	ListSnapshots(ctx context.Context, ownerID int64) ([]storage.SnapshotInfo, error)
	DeleteSnapshots(ctx context.Context, ownerID int64) error
}

type contactService struct {
	contacts  repository.ContactRepository
	snapshots storage.Service
	bucket    string
	keyPrefix string
}

// NewContactService builds a ContactService. The snapshot store may be nil,
// which disables Export.
func NewContactService(contacts repository.ContactRepository, snapshots storage.Service, bucket, keyPrefix string) ContactService {
	return &contactService{
		contacts:  contacts,
		snapshots: snapshots,
		bucket:    bucket,
		keyPrefix: strings.Trim(keyPrefix, "/"),
	}
}

func (s *contactService) List(ctx context.Context, ownerID int64) ([]domain.Contact, error) {
	return s.contacts.ListByUser(ctx, ownerID)
}

func (s *contactService) Create(ctx context.Context, ownerID int64, fields ContactFields) (*domain.Contact, error) {
	name := strings.TrimSpace(fields.Name)
	if name == "" {
		return nil, domain.NewValidationError("name", "name is required")
	}

	contact := &domain.Contact{
		ID:     uuid.NewString(),
		UserID: ownerID,
		Name:   name,
		Email:  fields.Email,
		Phone:  fields.Phone,
		Type:   contactType(fields.Type),
	}

	if err := s.contacts.Create(ctx, contact); err != nil {
		return nil, err
	}
	return contact, nil
}

// Update applies partial semantics: name and type always overwrite, email
// and phone only when non-empty.
func (s *contactService) Update(ctx context.Context, ownerID int64, id string, fields ContactFields) (*domain.Contact, error) {
	name := strings.TrimSpace(fields.Name)
	if name == "" {
		return nil, domain.NewValidationError("name", "name is required")
	}

	current, err := s.contacts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	current.Name = name
	current.Type = contactType(fields.Type)
	if fields.Email != "" {
		current.Email = fields.Email
	}
	if fields.Phone != "" {
		current.Phone = fields.Phone
	}

	// the write itself is owner-conditional, so a mismatched owner cannot
	// slip through between the read above and this statement
	if err := s.contacts.UpdateOwned(ctx, ownerID, current); err != nil {
		return nil, err
	}
	return current, nil
}

func (s *contactService) Delete(ctx context.Context, ownerID int64, id string) error {
	return s.contacts.DeleteOwned(ctx, ownerID, id)
}

// Export uploads a JSON snapshot of the owner's contacts and returns its
// location.
func (s *contactService) Export(ctx context.Context, ownerID int64) (string, error) {
	if s.snapshots == nil || s.bucket == "" {
		return "", ErrSnapshotsDisabled
	}

	contacts, err := s.contacts.ListByUser(ctx, ownerID)
	if err != nil {
		return "", err
	}

	snapshot := struct {
		UserID     int64            `json:"user_id"`
		ExportedAt time.Time        `json:"exported_at"`
		Contacts   []domain.Contact `json:"contacts"`
	}{
		UserID:     ownerID,
		ExportedAt: time.Now().UTC(),
		Contacts:   contacts,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(snapshot); err != nil {
		return "", fmt.Errorf("encode snapshot: %w", err)
	}

	key := s.snapshotPrefix(ownerID) + snapshot.ExportedAt.Format("20060102T150405Z") + ".json"
	return s.snapshots.PutSnapshot(ctx, s.bucket, key, &buf)
}

// ListSnapshots returns the stored snapshot objects belonging to the owner.
func (s *contactService) ListSnapshots(ctx context.Context, ownerID int64) ([]storage.SnapshotInfo, error) {
	if s.snapshots == nil || s.bucket == "" {
		return nil, ErrSnapshotsDisabled
	}
	return s.snapshots.ListSnapshots(ctx, s.bucket, s.snapshotPrefix(ownerID))
}

// DeleteSnapshots removes every stored snapshot belonging to the owner.
func (s *contactService) DeleteSnapshots(ctx context.Context, ownerID int64) error {
	if s.snapshots == nil || s.bucket == "" {
		return ErrSnapshotsDisabled
	}
	return s.snapshots.DeletePrefix(ctx, s.bucket, s.snapshotPrefix(ownerID))
}

// snapshotPrefix keeps the trailing slash so user-1 never matches user-10.
func (s *contactService) snapshotPrefix(ownerID int64) string {
	prefix := fmt.Sprintf("user-%d/", ownerID)
	if s.keyPrefix != "" {
		prefix = s.keyPrefix + "/" + prefix
	}
	return prefix
}

func contactType(t string) domain.ContactType {
	if domain.ContactType(t) == domain.ContactTypeProfessional {
		return domain.ContactTypeProfessional
	}
	return domain.ContactTypePersonal
}
