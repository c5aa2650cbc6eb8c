package syncx

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mutestr/mutestr/internal/logging"
)

type fakeService struct {
	name  string
	err   error
	block chan struct{} // when set, SyncWithRelay waits until closed
	calls atomic.Int32
}

func (f *fakeService) Name() string { return f.name }

func (f *fakeService) SyncWithRelay(ctx context.Context, relayURLs []string) error {
	f.calls.Add(1)
	if f.block != nil {
		<-f.block
	}
	return f.err
}

func TestSyncAll_AggregatesSuccessAndFailure(t *testing.T) {
	ok := &fakeService{name: "preferences"}
	bad := &fakeService{name: "blacklist", err: errors.New("relay exploded")}

	m := NewManager([]string{"wss://a"}, logging.NewDefault(), ok, bad)
	st := m.SyncAll(context.Background())

	require.False(t, st.InProgress)
	require.Equal(t, []string{"preferences"}, st.Synced)
	require.Len(t, st.Errors, 1)
	require.Equal(t, "blacklist", st.Errors[0].Service)
	require.Contains(t, st.Errors[0].Message, "relay exploded")
	require.False(t, st.LastSyncTime.IsZero())
}

func TestSyncAll_FailureDoesNotAbortSiblings(t *testing.T) {
	a := &fakeService{name: "a", err: errors.New("down")}
	b := &fakeService{name: "b"}
	c := &fakeService{name: "c"}

	m := NewManager(nil, logging.NewDefault(), a, b, c)
	st := m.SyncAll(context.Background())

	require.Equal(t, []string{"b", "c"}, st.Synced)
	require.Equal(t, int32(1), b.calls.Load())
	require.Equal(t, int32(1), c.calls.Load())
}

func TestSyncAll_ReentryIsNoOp(t *testing.T) {
	block := make(chan struct{})
	slow := &fakeService{name: "slow", block: block}

	m := NewManager(nil, logging.NewDefault(), slow)

	done := make(chan Status, 1)
	go func() { done <- m.SyncAll(context.Background()) }()

	// Wait until the first sync is visibly in progress.
	require.Eventually(t, func() bool {
		return m.Status().InProgress
	}, time.Second, time.Millisecond)

	st := m.SyncAll(context.Background())
	require.True(t, st.InProgress)

	close(block)
	final := <-done
	require.False(t, final.InProgress)

	// The second call must not have fanned out again.
	require.Equal(t, int32(1), slow.calls.Load())
}

func TestSubscribe_NotifiedOnStartAndFinish(t *testing.T) {
	svc := &fakeService{name: "s"}
	m := NewManager(nil, logging.NewDefault(), svc)

	var mu sync.Mutex
	var seen []bool
	unsub := m.Subscribe(func(st Status) {
		mu.Lock()
		seen = append(seen, st.InProgress)
		mu.Unlock()
	})
	defer unsub()

	m.SyncAll(context.Background())

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, []bool{true, false}, seen)
}

func TestSubscribe_UnsubscribeStopsNotifications(t *testing.T) {
	svc := &fakeService{name: "s"}
	m := NewManager(nil, logging.NewDefault(), svc)

	var n atomic.Int32
	unsub := m.Subscribe(func(Status) { n.Add(1) })
	unsub()

	m.SyncAll(context.Background())
	require.Equal(t, int32(0), n.Load())
}
