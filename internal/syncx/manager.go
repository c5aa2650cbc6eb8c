package syncx

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/mutestr/mutestr/internal/common"
	"github.com/mutestr/mutestr/internal/logging"
)

// Service is one syncable data category as seen by the manager.
type Service interface {
	Name() string
	SyncWithRelay(ctx context.Context, relayURLs []string) error
}

// ServiceError pairs a failed service with its error message.
type ServiceError struct {
	Service string
	Message string
}

// Status is the manager's aggregate state, exposed to observers.
type Status struct {
	InProgress   bool
	LastSyncTime time.Time
	Errors       []ServiceError
	Synced       []string
}

// Manager runs every registered service's sync in parallel and aggregates
// the outcome. Failures are isolated per service: one category failing
// never prevents the others from syncing, and nothing is thrown to the
// caller of SyncAll.
type Manager struct {
	relayURLs []string
	log       logging.Logger

	mu       sync.Mutex
	services []Service
	status   Status
	subs     map[int]func(Status)
	nextSub  int
}

func NewManager(relayURLs []string, log logging.Logger, services ...Service) *Manager {
	return &Manager{
		relayURLs: relayURLs,
		log:       log,
		services:  services,
		subs:      make(map[int]func(Status)),
	}
}

// Subscribe registers an observer notified on every status change. The
// returned function unsubscribes.
func (m *Manager) Subscribe(fn func(Status)) func() {
	m.mu.Lock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.subs, id)
		m.mu.Unlock()
	}
}

// Status returns a copy of the current aggregate status.
func (m *Manager) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

// notifyLocked snapshots subscribers and status under the lock, then calls
// outside it so an observer can re-enter the manager.
func (m *Manager) notifyLocked() (Status, []func(Status)) {
	st := m.status
	fns := make([]func(Status), 0, len(m.subs))
	for _, fn := range m.subs {
		fns = append(fns, fn)
	}
	return st, fns
}

// SyncAll syncs every service in parallel and returns the resulting status.
// A call made while a sync is already running is a no-op that returns the
// in-progress status unchanged, so rapid reconnect events cannot trigger
// duplicate full-syncs.
func (m *Manager) SyncAll(ctx context.Context) Status {
	m.mu.Lock()
	if m.status.InProgress {
		st := m.status
		m.mu.Unlock()
		return st
	}
	m.status.InProgress = true
	st, fns := m.notifyLocked()
	services := m.services
	m.mu.Unlock()

	for _, fn := range fns {
		fn(st)
	}

	var (
		resMu  sync.Mutex
		failed []ServiceError
		synced []string
		wg     sync.WaitGroup
	)

	for _, svc := range services {
		wg.Add(1)
		go func(svc Service) {
			defer wg.Done()

			err := svc.SyncWithRelay(ctx, m.relayURLs)

			resMu.Lock()
			defer resMu.Unlock()
			switch {
			case errors.Is(err, common.ErrSyncInProgress):
				// Another caller is already syncing this category.
			case err != nil:
				m.log.Warn(ctx, "category sync failed", "service", svc.Name(), "err", err)
				failed = append(failed, ServiceError{Service: svc.Name(), Message: err.Error()})
			default:
				synced = append(synced, svc.Name())
			}
		}(svc)
	}

	wg.Wait()

	sort.Strings(synced)
	sort.Slice(failed, func(i, j int) bool { return failed[i].Service < failed[j].Service })

	m.mu.Lock()
	m.status = Status{
		InProgress:   false,
		LastSyncTime: time.Now(),
		Errors:       failed,
		Synced:       synced,
	}
	st, fns = m.notifyLocked()
	m.mu.Unlock()

	for _, fn := range fns {
		fn(st)
	}
	return st
}
