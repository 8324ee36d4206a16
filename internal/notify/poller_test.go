package notify

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aitodo/internal/notified"
	"aitodo/internal/service"
	"aitodo/internal/testutil"
)

func newTestPoller(t *testing.T, fake *testutil.FakeService) *Poller {
	t.Helper()

	store, err := notified.Open(filepath.Join(t.TempDir(), "notified.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewPoller(fake, store, NewEscalator(logger), logger)
}

func pendingReminder(id int, title string) service.Reminder {
	return service.Reminder{
		ID:           id,
		Title:        title,
		ReminderTime: service.Time{Time: time.Now()},
		ReminderType: service.ReminderOneTime,
		Status:       service.StatusPending,
	}
}

func TestPollDeliversInOrder(t *testing.T) {
	fake := testutil.NewFakeService()
	fake.AddReminder(pendingReminder(1, "standup"))
	fake.AddReminder(pendingReminder(2, "water plants"))
	p := newTestPoller(t, fake)

	var got []int
	p.Subscribe(func(r service.Reminder) { got = append(got, r.ID) })

	p.poll(context.Background())
	p.wg.Wait()

	assert.Equal(t, []int{1, 2}, got)
	assert.ElementsMatch(t, []int{1, 2}, fake.MarkSentIDs)

	ids, err := p.store.IDs()
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, ids)
}

func TestPollSkipsAlreadyNotified(t *testing.T) {
	fake := testutil.NewFakeService()
	fake.AddReminder(pendingReminder(5, "standup"))
	p := newTestPoller(t, fake)

	_, err := p.store.Add(5)
	require.NoError(t, err)

	var got []int
	p.Subscribe(func(r service.Reminder) { got = append(got, r.ID) })

	p.poll(context.Background())
	p.wg.Wait()

	assert.Empty(t, got)
	assert.Empty(t, fake.MarkSentIDs)
}

func TestMarkSentFailureDoesNotReAlert(t *testing.T) {
	fake := testutil.NewFakeService()
	fake.AddReminder(pendingReminder(9, "standup"))
	fake.MarkSentErr = errors.New("backend down")
	p := newTestPoller(t, fake)

	var got []int
	p.Subscribe(func(r service.Reminder) { got = append(got, r.ID) })

	// The backend keeps reporting the reminder as pending, so a second
	// poll sees it again. The notified store must keep it quiet.
	p.poll(context.Background())
	p.wg.Wait()
	p.poll(context.Background())
	p.wg.Wait()

	assert.Equal(t, []int{9}, got, "at most one local alert per reminder")
	assert.Equal(t, []int{9}, fake.MarkSentIDs, "status update is not retried")
}

func TestPollFetchFailureRecovers(t *testing.T) {
	fake := testutil.NewFakeService()
	fake.AddReminder(pendingReminder(3, "standup"))
	fake.PendingRemindersErr = errors.New("timeout")
	p := newTestPoller(t, fake)

	var got []int
	p.Subscribe(func(r service.Reminder) { got = append(got, r.ID) })

	p.poll(context.Background())
	assert.Empty(t, got)

	fake.PendingRemindersErr = nil
	p.poll(context.Background())
	p.wg.Wait()
	assert.Equal(t, []int{3}, got)
}

func TestSubscribeUnsubscribe(t *testing.T) {
	fake := testutil.NewFakeService()
	fake.AddReminder(pendingReminder(1, "standup"))
	p := newTestPoller(t, fake)

	var a, b int
	unsubA := p.Subscribe(func(service.Reminder) { a++ })
	p.Subscribe(func(service.Reminder) { b++ })

	unsubA()
	unsubA() // idempotent

	p.poll(context.Background())
	p.wg.Wait()

	assert.Equal(t, 0, a)
	assert.Equal(t, 1, b)
}

func TestUnsubscribeDuringDelivery(t *testing.T) {
	fake := testutil.NewFakeService()
	fake.AddReminder(pendingReminder(1, "standup"))
	fake.AddReminder(pendingReminder(2, "water plants"))
	p := newTestPoller(t, fake)

	var calls int
	var unsub func()
	unsub = p.Subscribe(func(service.Reminder) {
		calls++
		unsub()
	})

	p.poll(context.Background())
	p.wg.Wait()

	// The first delivery's snapshot may still include the listener for
	// the second reminder of the same poll, but later polls must not.
	fake.AddReminder(pendingReminder(3, "third"))
	p.poll(context.Background())
	p.wg.Wait()

	assert.LessOrEqual(t, calls, 2)
}

func TestStartStopRestart(t *testing.T) {
	fake := testutil.NewFakeService()
	fake.AddReminder(pendingReminder(1, "standup"))
	p := newTestPoller(t, fake)

	delivered := make(chan service.Reminder, 8)
	p.Subscribe(func(r service.Reminder) { delivered <- r })

	p.Start(time.Hour)
	assert.True(t, p.Running())

	select {
	case r := <-delivered:
		assert.Equal(t, 1, r.ID)
	case <-time.After(2 * time.Second):
		t.Fatal("no immediate poll after Start")
	}

	// Wake triggers an out-of-cycle poll; the reminder is already in
	// the notified store so nothing new is delivered, but a new pending
	// one is picked up.
	fake.AddReminder(pendingReminder(2, "water plants"))
	p.Wake()
	select {
	case r := <-delivered:
		assert.Equal(t, 2, r.ID)
	case <-time.After(2 * time.Second):
		t.Fatal("wake did not trigger a poll")
	}

	// Restart without an explicit Stop must not leave an extra loop.
	p.Start(time.Hour)
	assert.True(t, p.Running())

	p.Stop()
	assert.False(t, p.Running())
	p.Stop() // safe when not running
}
