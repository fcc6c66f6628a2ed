package daemon

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	sent []Notification
	err  error
}

func (r *recordingSender) send(_ context.Context, n Notification) (uint32, error) {
	if r.err != nil {
		return 0, r.err
	}
	r.sent = append(r.sent, n)
	return uint32(len(r.sent)), nil
}

func TestInternalNotifier_RateLimit(t *testing.T) {
	rec := &recordingSender{}
	n := NewInternalNotifier("menubard", rec.send, nil)

	clock := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	n.now = func() time.Time { return clock }

	assert.True(t, n.Notify("k", "s", "b", NotificationLevelInfo))
	assert.False(t, n.Notify("k", "s", "b", NotificationLevelInfo))

	// other keys are independent
	assert.True(t, n.Notify("other", "s", "b", NotificationLevelInfo))

	clock = clock.Add(6 * time.Second)
	assert.True(t, n.Notify("k", "s", "b", NotificationLevelInfo))
	assert.Len(t, rec.sent, 3)
}

func TestInternalNotifier_Content(t *testing.T) {
	rec := &recordingSender{}
	n := NewInternalNotifier("menubard", rec.send, nil)

	n.NotifyConfigError(errors.New("bad anchor"))
	require.Len(t, rec.sent, 1)

	got := rec.sent[0]
	assert.Equal(t, "menubard", got.AppName)
	assert.Equal(t, "dialog-warning", got.AppIcon)
	assert.Contains(t, got.Body, "bad anchor")
	assert.Equal(t, byte(1), got.Hints["urgency"].Value())
	assert.Equal(t, true, got.Hints["transient"].Value())
	assert.Equal(t, int32(5000), got.ExpireTimeout)
}

func TestInternalNotifier_Levels(t *testing.T) {
	tests := []struct {
		level   NotificationLevel
		urgency byte
		icon    string
	}{
		{NotificationLevelInfo, 0, "dialog-information"},
		{NotificationLevelWarning, 1, "dialog-warning"},
		{NotificationLevelError, 2, "dialog-error"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.urgency, tt.level.urgency())
		assert.Equal(t, tt.icon, tt.level.icon())
	}
}

func TestInternalNotifier_DisabledAndNoSender(t *testing.T) {
	rec := &recordingSender{}
	n := NewInternalNotifier("menubard", rec.send, nil)
	n.SetEnabled(false)
	assert.False(t, n.Notify("k", "s", "b", NotificationLevelInfo))
	assert.Empty(t, rec.sent)

	assert.False(t, NewInternalNotifier("menubard", nil, nil).Notify("k", "s", "b", NotificationLevelInfo))
}

func TestInternalNotifier_SendFailure(t *testing.T) {
	rec := &recordingSender{err: errors.New("no server")}
	n := NewInternalNotifier("menubard", rec.send, nil)
	assert.False(t, n.Notify("k", "s", "b", NotificationLevelError))
}

func TestNotifyConfigReloaded(t *testing.T) {
	rec := &recordingSender{}
	n := NewInternalNotifier("menubard", rec.send, nil)
	n.SetMinInterval(0)

	n.NotifyConfigReloaded([]string{"tooltip", "width"})
	n.NotifyConfigReloaded(nil)
	require.Len(t, rec.sent, 2)
	assert.Contains(t, rec.sent[0].Body, "2 option(s)")
	assert.Equal(t, "Configuration reloaded.", rec.sent[1].Body)
}
