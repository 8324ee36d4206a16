package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aitodo/internal/config"
	"aitodo/internal/service"
)

type fakeNotifier struct {
	grant    bool
	reqErr   error
	requests int
	sent     []string
}

func (n *fakeNotifier) Send(ctx context.Context, title, body string) error {
	n.sent = append(n.sent, title)
	return nil
}

func (n *fakeNotifier) Request(ctx context.Context) (bool, error) {
	n.requests++
	return n.grant, n.reqErr
}

type memPermissions struct {
	state string
}

func (p *memPermissions) Permission() string { return p.state }

func (p *memPermissions) SetPermission(state string) error {
	p.state = state
	return nil
}

func TestDesktopRequestsPermissionOnce(t *testing.T) {
	notifier := &fakeNotifier{grant: true}
	perms := &memPermissions{state: config.PermissionUndetermined}
	c := NewDesktopChannel(notifier, perms, discard())

	r := service.Reminder{ID: 1, Title: "standup"}
	require.NoError(t, c.Alert(context.Background(), r))
	require.NoError(t, c.Alert(context.Background(), r))

	assert.Equal(t, 1, notifier.requests, "granted state persists, no second prompt")
	assert.Equal(t, config.PermissionGranted, perms.state)
	assert.Equal(t, []string{"standup", "standup"}, notifier.sent)
}

func TestDesktopDenialIsNeverRePrompted(t *testing.T) {
	notifier := &fakeNotifier{grant: false}
	perms := &memPermissions{state: config.PermissionUndetermined}
	c := NewDesktopChannel(notifier, perms, discard())

	r := service.Reminder{ID: 1, Title: "standup"}
	require.NoError(t, c.Alert(context.Background(), r))
	assert.Equal(t, config.PermissionDenied, perms.state)

	require.NoError(t, c.Alert(context.Background(), r))
	require.NoError(t, c.Alert(context.Background(), r))

	assert.Equal(t, 1, notifier.requests)
	assert.Empty(t, notifier.sent, "denied permission silently skips the channel")
}

func TestDesktopSkipsWhenAlreadyDenied(t *testing.T) {
	notifier := &fakeNotifier{grant: true}
	perms := &memPermissions{state: config.PermissionDenied}
	c := NewDesktopChannel(notifier, perms, discard())

	require.NoError(t, c.Alert(context.Background(), service.Reminder{ID: 1, Title: "standup"}))
	assert.Zero(t, notifier.requests)
	assert.Empty(t, notifier.sent)
}

func TestDesktopRequestFailure(t *testing.T) {
	notifier := &fakeNotifier{reqErr: errors.New("no notification daemon")}
	perms := &memPermissions{state: config.PermissionUndetermined}
	c := NewDesktopChannel(notifier, perms, discard())

	err := c.Alert(context.Background(), service.Reminder{ID: 1, Title: "standup"})
	require.Error(t, err)
	assert.Equal(t, config.PermissionUndetermined, perms.state,
		"a failed request leaves the state undetermined for a later retry")
}
