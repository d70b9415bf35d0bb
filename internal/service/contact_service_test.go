package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"contact-keeper/internal/domain"
	"contact-keeper/internal/repository"
	"contact-keeper/internal/storage"
)

func registerOwner(t *testing.T, users repository.UserRepository, email string) int64 {
	t.Helper()
	svc := NewUserService(users)
	user, err := svc.Register(context.Background(), "Owner", email, "secret123")
	require.NoError(t, err)
	return user.ID
}

func TestCreateAndListNewestFirst(t *testing.T) {
	users, contacts := setupRepos(t)
	owner := registerOwner(t, users, "owner@example.com")
	svc := NewContactService(contacts, nil, "", "")
	ctx := context.Background()

	first, err := svc.Create(ctx, owner, ContactFields{Name: "Amy"})
	require.NoError(t, err)
	require.Equal(t, domain.ContactTypePersonal, first.Type)

	time.Sleep(5 * time.Millisecond)
	second, err := svc.Create(ctx, owner, ContactFields{Name: "John", Type: "professional"})
	require.NoError(t, err)
	require.Equal(t, domain.ContactTypeProfessional, second.Type)

	list, err := svc.List(ctx, owner)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "John", list[0].Name)
	require.Equal(t, "Amy", list[1].Name)
}

func TestCreateRequiresName(t *testing.T) {
	users, contacts := setupRepos(t)
	owner := registerOwner(t, users, "owner@example.com")
	svc := NewContactService(contacts, nil, "", "")

	_, err := svc.Create(context.Background(), owner, ContactFields{Name: "  "})
	var validationErr *domain.ValidationError
	require.ErrorAs(t, err, &validationErr)

	list, err := svc.List(context.Background(), owner)
	require.NoError(t, err)
	require.Empty(t, list)
}

func TestUpdatePartialSemantics(t *testing.T) {
	users, contacts := setupRepos(t)
	owner := registerOwner(t, users, "owner@example.com")
	svc := NewContactService(contacts, nil, "", "")
	ctx := context.Background()

	created, err := svc.Create(ctx, owner, ContactFields{
		Name:  "John",
		Email: "john@contacts.example",
		Phone: "555-0100",
	})
	require.NoError(t, err)

	// updating only phone keeps the stored email
	updated, err := svc.Update(ctx, owner, created.ID, ContactFields{
		Name:  "John",
		Phone: "555-0199",
	})
	require.NoError(t, err)
	require.Equal(t, "john@contacts.example", updated.Email)
	require.Equal(t, "555-0199", updated.Phone)

	// an explicitly empty email also keeps the stored value
	updated, err = svc.Update(ctx, owner, created.ID, ContactFields{
		Name:  "Johnny",
		Email: "",
	})
	require.NoError(t, err)
	require.Equal(t, "Johnny", updated.Name)
	require.Equal(t, "john@contacts.example", updated.Email)
	require.Equal(t, "555-0199", updated.Phone)

	// an empty name never reaches the store
	_, err = svc.Update(ctx, owner, created.ID, ContactFields{Name: ""})
	var validationErr *domain.ValidationError
	require.ErrorAs(t, err, &validationErr)

	list, err := svc.List(ctx, owner)
	require.NoError(t, err)
	require.Equal(t, "Johnny", list[0].Name)
}

func TestMutationsScopedToOwner(t *testing.T) {
	users, contacts := setupRepos(t)
	alice := registerOwner(t, users, "alice@example.com")
	bob := registerOwner(t, users, "bob@example.com")
	svc := NewContactService(contacts, nil, "", "")
	ctx := context.Background()

	contact, err := svc.Create(ctx, alice, ContactFields{Name: "Carol"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, bob, contact.ID, ContactFields{Name: "Hijacked"})
	require.ErrorIs(t, err, domain.ErrNotOwner)

	err = svc.Delete(ctx, bob, contact.ID)
	require.ErrorIs(t, err, domain.ErrNotOwner)

	// bob's list never leaks alice's contact
	list, err := svc.List(ctx, bob)
	require.NoError(t, err)
	require.Empty(t, list)

	// alice's record is untouched
	list, err = svc.List(ctx, alice)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "Carol", list[0].Name)
}

func TestDeleteMissingContact(t *testing.T) {
	users, contacts := setupRepos(t)
	owner := registerOwner(t, users, "owner@example.com")
	svc := NewContactService(contacts, nil, "", "")
	ctx := context.Background()

	err := svc.Delete(ctx, owner, "no-such-id")
	require.ErrorIs(t, err, domain.ErrContactNotFound)

	contact, err := svc.Create(ctx, owner, ContactFields{Name: "Dana"})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, owner, contact.ID))

	err = svc.Delete(ctx, owner, contact.ID)
	require.ErrorIs(t, err, domain.ErrContactNotFound)
}

type fakeSnapshotStore struct {
	bucket string
	key    string
	body   []byte

	stored        []storage.SnapshotInfo
	listedPrefix  string
	deletedPrefix string
}

func (f *fakeSnapshotStore) PutSnapshot(_ context.Context, bucket, key string, body io.Reader) (string, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	f.bucket = bucket
	f.key = key
	f.body = data
	return "s3://" + bucket + "/" + key, nil
}

func (f *fakeSnapshotStore) ListSnapshots(_ context.Context, bucket, prefix string) ([]storage.SnapshotInfo, error) {
	f.bucket = bucket
	f.listedPrefix = prefix
	var matched []storage.SnapshotInfo
	for _, s := range f.stored {
		if strings.HasPrefix(s.Key, prefix) {
			matched = append(matched, s)
		}
	}
	return matched, nil
}

func (f *fakeSnapshotStore) DeletePrefix(_ context.Context, bucket, prefix string) error {
	f.bucket = bucket
	f.deletedPrefix = prefix
	return nil
}

func TestExportUploadsSnapshot(t *testing.T) {
	users, contacts := setupRepos(t)
	owner := registerOwner(t, users, "owner@example.com")
	store := &fakeSnapshotStore{}
	svc := NewContactService(contacts, store, "backups", "contact-snapshots")
	ctx := context.Background()

	_, err := svc.Create(ctx, owner, ContactFields{Name: "Amy", Email: "amy@contacts.example"})
	require.NoError(t, err)

	location, err := svc.Export(ctx, owner)
	require.NoError(t, err)
	require.Equal(t, "backups", store.bucket)
	require.True(t, strings.HasPrefix(store.key, fmt.Sprintf("contact-snapshots/user-%d/", owner)), store.key)
	require.Equal(t, "s3://backups/"+store.key, location)

	var snapshot struct {
		UserID   int64 `json:"user_id"`
		Contacts []struct {
			Name  string `json:"Name"`
			Email string `json:"Email"`
		} `json:"contacts"`
	}
	require.NoError(t, json.Unmarshal(store.body, &snapshot))
	require.Equal(t, owner, snapshot.UserID)
	require.Len(t, snapshot.Contacts, 1)
	require.Equal(t, "Amy", snapshot.Contacts[0].Name)
}

func TestListSnapshotsScopedToOwner(t *testing.T) {
	users, contacts := setupRepos(t)
	owner := registerOwner(t, users, "owner@example.com")
	store := &fakeSnapshotStore{stored: []storage.SnapshotInfo{
		{Key: fmt.Sprintf("contact-snapshots/user-%d/20260101T000000Z.json", owner), Size: 42},
		{Key: fmt.Sprintf("contact-snapshots/user-%d0/20260101T000000Z.json", owner), Size: 7},
	}}
	svc := NewContactService(contacts, store, "backups", "contact-snapshots")

	snapshots, err := svc.ListSnapshots(context.Background(), owner)
	require.NoError(t, err)
	// the trailing slash keeps user-N from matching user-N0
	require.Equal(t, fmt.Sprintf("contact-snapshots/user-%d/", owner), store.listedPrefix)
	require.Len(t, snapshots, 1)
	require.Equal(t, int64(42), snapshots[0].Size)
}

func TestDeleteSnapshotsUsesOwnerPrefix(t *testing.T) {
	users, contacts := setupRepos(t)
	owner := registerOwner(t, users, "owner@example.com")
	store := &fakeSnapshotStore{}
	svc := NewContactService(contacts, store, "backups", "contact-snapshots")

	require.NoError(t, svc.DeleteSnapshots(context.Background(), owner))
	require.Equal(t, "backups", store.bucket)
	require.Equal(t, fmt.Sprintf("contact-snapshots/user-%d/", owner), store.deletedPrefix)
}

func TestExportWithoutStorage(t *testing.T) {
	users, contacts := setupRepos(t)
	owner := registerOwner(t, users, "owner@example.com")
	svc := NewContactService(contacts, nil, "", "")

	_, err := svc.Export(context.Background(), owner)
	require.ErrorIs(t, err, ErrSnapshotsDisabled)

	_, err = svc.ListSnapshots(context.Background(), owner)
	require.ErrorIs(t, err, ErrSnapshotsDisabled)

	err = svc.DeleteSnapshots(context.Background(), owner)
	require.ErrorIs(t, err, ErrSnapshotsDisabled)
}
