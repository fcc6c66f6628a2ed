package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	godbus "github.com/godbus/dbus/v5"
)

const (
	notificationsName = "org.freedesktop.Notifications"
	notificationsPath = "/org/freedesktop/Notifications"
)

// NotificationLevel indicates the severity of an internal notification.
type NotificationLevel int

const (
	// NotificationLevelInfo is for informational messages (low urgency).
	NotificationLevelInfo NotificationLevel = iota
	// NotificationLevelWarning is for warning messages (normal urgency).
	NotificationLevelWarning
	// NotificationLevelError is for error messages (critical urgency).
	NotificationLevelError
)

func (l NotificationLevel) urgency() byte {
	switch l {
	case NotificationLevelInfo:
		return 0
	case NotificationLevelError:
		return 2
	default:
		return 1
	}
}

func (l NotificationLevel) icon() string {
	switch l {
	case NotificationLevelInfo:
		return "dialog-information"
	case NotificationLevelError:
		return "dialog-error"
	default:
		return "dialog-warning"
	}
}

// Notification is one org.freedesktop.Notifications.Notify request.
type Notification struct {
	AppName       string
	AppIcon       string
	Summary       string
	Body          string
	Hints         map[string]godbus.Variant
	ExpireTimeout int32
}

// Sender delivers a notification and returns the server-assigned ID.
type Sender func(ctx context.Context, n Notification) (uint32, error)

// BusSender returns a Sender calling the notification server on conn.
func BusSender(conn *godbus.Conn) Sender {
	obj := conn.Object(notificationsName, notificationsPath)
	return func(ctx context.Context, n Notification) (uint32, error) {
		var id uint32
		err := obj.CallWithContext(ctx, notificationsName+".Notify", 0,
			n.AppName, uint32(0), n.AppIcon, n.Summary, n.Body,
			[]string{}, n.Hints, n.ExpireTimeout,
		).Store(&id)
		if err != nil {
			return 0, fmt.Errorf("failed to send notification: %w", err)
		}
		return id, nil
	}
}

// InternalNotifier tells the user about problems the daemon cannot show in
// the popup, such as a broken config file. Repeats of the same key are
// rate limited.
type InternalNotifier struct {
	mu     sync.Mutex
	logger *slog.Logger

	appName string
	send    Sender

	lastNotifyTime map[string]time.Time
	minInterval    time.Duration
	now            func() time.Time

	enabled bool
}

// NewInternalNotifier creates a notifier. A nil sender makes every
// notification a logged no-op.
func NewInternalNotifier(appName string, send Sender, logger *slog.Logger) *InternalNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &InternalNotifier{
		logger:         logger,
		appName:        appName,
		send:           send,
		lastNotifyTime: make(map[string]time.Time),
		minInterval:    5 * time.Second,
		now:            time.Now,
		enabled:        true,
	}
}

// SetEnabled enables or disables internal notifications.
func (n *InternalNotifier) SetEnabled(enabled bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.enabled = enabled
}

// SetMinInterval sets the minimum interval between notifications sharing a key.
func (n *InternalNotifier) SetMinInterval(interval time.Duration) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.minInterval = interval
}

// Notify sends a notification unless disabled or rate limited. It reports
// whether a notification was handed to the sender.
func (n *InternalNotifier) Notify(key, summary, body string, level NotificationLevel) bool {
	n.mu.Lock()
	if !n.enabled {
		n.mu.Unlock()
		return false
	}
	if n.send == nil {
		n.mu.Unlock()
		n.logger.Debug("internal notification skipped: no sender", "summary", summary)
		return false
	}
	now := n.now()
	if last, ok := n.lastNotifyTime[key]; ok && now.Sub(last) < n.minInterval {
		n.mu.Unlock()
		n.logger.Debug("internal notification rate-limited", "key", key)
		return false
	}
	n.lastNotifyTime[key] = now
	send := n.send
	n.mu.Unlock()

	notification := Notification{
		AppName: n.appName,
		AppIcon: level.icon(),
		Summary: summary,
		Body:    body,
		Hints: map[string]godbus.Variant{
			"urgency":       godbus.MakeVariant(level.urgency()),
			"transient":     godbus.MakeVariant(true),
			"desktop-entry": godbus.MakeVariant(n.appName),
		},
		ExpireTimeout: 5000,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := send(ctx, notification); err != nil {
		n.logger.Warn("internal notification failed", "key", key, "error", err)
		return false
	}
	n.logger.Debug("sent internal notification", "key", key, "summary", summary)
	return true
}

// NotifyConfigReloaded reports a successful reload listing changed options.
func (n *InternalNotifier) NotifyConfigReloaded(changed []string) {
	body := "Configuration reloaded."
	if len(changed) > 0 {
		body = fmt.Sprintf("Configuration reloaded: %d option(s) changed.", len(changed))
	}
	n.Notify("config-reload", "Menubar", body, NotificationLevelInfo)
}

// NotifyConfigError reports a config file that failed to load.
func (n *InternalNotifier) NotifyConfigError(err error) {
	n.Notify("config-error", "Menubar configuration error",
		"Failed to reload configuration: "+err.Error(), NotificationLevelWarning)
}

// NotifyThemeError reports a popup theme that failed to load.
func (n *InternalNotifier) NotifyThemeError(err error) {
	n.Notify("theme-error", "Menubar theme error",
		"Failed to load theme: "+err.Error(), NotificationLevelWarning)
}
