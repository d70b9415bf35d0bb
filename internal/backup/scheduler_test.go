package backup

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"contact-keeper/internal/domain"
	"contact-keeper/internal/service"
	"contact-keeper/internal/storage"
)

type fakeUserRepo struct {
	ids []int64
}

func (f *fakeUserRepo) Init(context.Context) error                          { return nil }
func (f *fakeUserRepo) Create(context.Context, *domain.User) (int64, error) { return 0, nil }
func (f *fakeUserRepo) GetByEmail(context.Context, string) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}
func (f *fakeUserRepo) GetByID(context.Context, int64) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}
func (f *fakeUserRepo) ListIDs(context.Context) ([]int64, error) { return f.ids, nil }

type fakeContactService struct {
	mu       sync.Mutex
	exported []int64
}

func (f *fakeContactService) List(context.Context, int64) ([]domain.Contact, error) {
	return nil, nil
}
func (f *fakeContactService) Create(context.Context, int64, service.ContactFields) (*domain.Contact, error) {
	return nil, nil
}
func (f *fakeContactService) Update(context.Context, int64, string, service.ContactFields) (*domain.Contact, error) {
	return nil, nil
}
func (f *fakeContactService) Delete(context.Context, int64, string) error { return nil }
func (f *fakeContactService) Export(_ context.Context, ownerID int64) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.exported = append(f.exported, ownerID)
	return "s3://backups/fake", nil
}

func (f *fakeContactService) ListSnapshots(context.Context, int64) ([]storage.SnapshotInfo, error) {
	return nil, nil
}
func (f *fakeContactService) DeleteSnapshots(context.Context, int64) error { return nil }

func (f *fakeContactService) exportedIDs() []int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int64(nil), f.exported...)
}

func TestSchedulerExportsEveryUser(t *testing.T) {
	users := &fakeUserRepo{ids: []int64{1, 2}}
	contacts := &fakeContactService{}

	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)

	s := NewScheduler(Config{Interval: 10 * time.Millisecond, Logger: logger}, users, contacts)
	require.NoError(t, s.Start(context.Background()))

	require.Eventually(t, func() bool {
		ids := contacts.exportedIDs()
		return len(ids) >= 2
	}, time.Second, 5*time.Millisecond)

	s.Shutdown()

	ids := contacts.exportedIDs()
	require.Contains(t, ids, int64(1))
	require.Contains(t, ids, int64(2))
}

func TestSchedulerRejectsZeroInterval(t *testing.T) {
	s := NewScheduler(Config{}, &fakeUserRepo{}, &fakeContactService{})
	require.Error(t, s.Start(context.Background()))
}

func TestSchedulerShutdownStopsTicks(t *testing.T) {
	users := &fakeUserRepo{ids: []int64{1}}
	contacts := &fakeContactService{}

	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)

	s := NewScheduler(Config{Interval: 10 * time.Millisecond, Logger: logger}, users, contacts)
	require.NoError(t, s.Start(context.Background()))

	require.Eventually(t, func() bool {
		return len(contacts.exportedIDs()) >= 1
	}, time.Second, 5*time.Millisecond)

	s.Shutdown()
	after := len(contacts.exportedIDs())
	time.Sleep(50 * time.Millisecond)
	require.Equal(t, after, len(contacts.exportedIDs()))
}
