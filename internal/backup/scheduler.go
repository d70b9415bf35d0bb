package backup

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"contact-keeper/internal/repository"
	"contact-keeper/internal/service"
)

// Scheduler periodically exports every user's contacts as a snapshot.
type Scheduler interface {
	Start(ctx context.Context) error
	Shutdown()
}

type Config struct {
	Interval time.Duration
	Logger   *logrus.Logger
}

type scheduler struct {
	cfg      Config
	users    repository.UserRepository
	contacts service.ContactService

	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
	mu     sync.Mutex
}

func NewScheduler(cfg Config, users repository.UserRepository, contacts service.ContactService) Scheduler {
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}
	return &scheduler{
		cfg:      cfg,
		users:    users,
		contacts: contacts,
	}
}

func (s *scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		return fmt.Errorf("scheduler already started")
	}
	if s.cfg.Interval <= 0 {
		return fmt.Errorf("backup interval must be positive")
	}

	s.ctx, s.cancel = context.WithCancel(ctx)
	s.wg.Add(1)
	go s.run()
	return nil
}

func (s *scheduler) Shutdown() {
	s.mu.Lock()
	cancel := s.cancel
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	s.wg.Wait()
}

func (s *scheduler) run() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	s.cfg.Logger.Infof("backup scheduler running every %s", s.cfg.Interval)

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.exportAll()
		}
	}
}

func (s *scheduler) exportAll() {
	ctx, cancel := context.WithTimeout(s.ctx, time.Minute)
	defer cancel()

	ids, err := s.users.ListIDs(ctx)
	if err != nil {
		s.cfg.Logger.Warnf("backup: list users: %v", err)
		return
	}

	for _, id := range ids {
		location, err := s.contacts.Export(ctx, id)
		if err != nil {
			if errors.Is(err, service.ErrSnapshotsDisabled) {
				s.cfg.Logger.Warn("backup: snapshot storage is not configured, stopping")
				return
			}
			s.cfg.Logger.Warnf("backup: export user %d: %v", id, err)
			continue
		}
		s.cfg.Logger.Debugf("backup: user %d exported to %s", id, location)
	}
}
