// Package notify owns the real-time notification channel: a single push
// connection per logged-in session, the in-memory notification list it
// feeds, and the read-state reconciliation with the backend.
//
// The connection is resilient: an unexpected disconnect schedules a
// reconnect with exponential backoff, bounded both in delay and in the
// number of consecutive attempts. A manual disconnect never reconnects.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/sunxu/malladmin/rest"
	"github.com/sunxu/malladmin/retry"
	"github.com/sunxu/malladmin/tlog"
	"github.com/sunxu/malladmin/tws"
	"github.com/sunxu/malladmin/wire"
)

// State of the notification channel
type State string

// Channel states
const (
	StateDisconnected     State = "DISCONNECTED"
	StateConnecting       State = "CONNECTING"
	StateOpen             State = "OPEN"
	StateReconnectPending State = "RECONNECT_PENDING"
)

// DefaultBackoff is the reconnect schedule: 500ms doubling up to 30s, at
// most 10 consecutive attempts. The attempt counter resets every time a
// connection opens successfully.
var DefaultBackoff = retry.ExpConfig{
	Min:         500 * time.Millisecond,
	Max:         30 * time.Second,
	Scale:       2,
	MaxAttempts: 10,
}

// Config is the configuration of a Manager
type Config struct {
	// REST is the client used for read acknowledgments
	REST *rest.Client

	// WSBase overrides the push endpoint base address, e.g.
	// "ws://mall.example.com". When empty the address is derived from the
	// REST base URL.
	WSBase string

	// Backoff overrides DefaultBackoff
	Backoff *retry.ExpConfig

	// WS overrides tws.DefaultConfig
	WS *tws.Config

	// AlertFn, if set, is invoked with every fresh notification so the
	// caller can raise a transient alert
	AlertFn func(Item)
}

// Manager owns the push connection and the notification list. The raw
// connection is never exposed: Connect and Disconnect are the only ways to
// affect it.
type Manager struct {
	config  Config
	backoff retry.ExpConfig
	ws      tws.Config
	store   *Store

	mu     sync.Mutex
	state  State
	cancel context.CancelFunc
	done   chan struct{}
}

// NewManager creates a Manager in the disconnected state
func NewManager(config Config) *Manager {
	m := &Manager{
		config:  config,
		backoff: DefaultBackoff,
		ws:      tws.DefaultConfig,
		store:   NewStore(),
		state:   StateDisconnected,
	}
	if config.Backoff != nil {
		m.backoff = *config.Backoff
	}
	if config.WS != nil {
		m.ws = *config.WS
	}
	return m
}

// Connect opens the push channel for the given user. A channel open for a
// previous session is shut down first. Returns once the connection loop is
// running; the loop keeps reconnecting on failures until ctx is closed,
// Disconnect is called or the attempt limit is exhausted.
func (m *Manager) Connect(ctx context.Context, userID wire.ID) {
	m.Disconnect()

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	m.mu.Lock()
	m.cancel = cancel
	m.done = done
	m.state = StateConnecting
	m.mu.Unlock()

	go func() {
		defer close(done)
		m.run(runCtx, userID)
	}()
}

// Disconnect shuts the push channel down and suppresses reconnection.
// Idempotent, may be called in any state.
func (m *Manager) Disconnect() {
	m.mu.Lock()
	cancel, done := m.cancel, m.done
	m.cancel, m.done = nil, nil
	m.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// State returns the current channel state
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Manager) setState(state State) {
	m.mu.Lock()
	m.state = state
	m.mu.Unlock()
}

func (m *Manager) endpoint(userID wire.ID) string {
	base := m.config.WSBase
	if base == "" {
		u := m.config.REST.BaseURL()
		base = u.Scheme + "://" + u.Host
	}
	if strings.HasPrefix(base, "http://") || strings.HasPrefix(base, "https://") {
		base = tws.WithWSScheme(base)
	}
	return strings.TrimSuffix(base, "/") + "/ws/" + userID.String()
}

func (m *Manager) run(ctx context.Context, userID wire.ID) {
	defer m.setState(StateDisconnected)

	endpoint := m.endpoint(userID)
	logger := tlog.Get(ctx).With(zap.String("endpoint", endpoint))
	ctx = tlog.WithLogger(ctx, logger)

	delays := m.backoff.Delays()
	for {
		delay, ok := delays()
		if !ok {
			logger.Warn("Notification channel reconnect attempts exhausted")
			return
		}
		if delay > 0 {
			m.setState(StateReconnectPending)
			logger.Info("Notification channel reconnecting", zap.Duration("delay", delay))
			if retry.Sleep(ctx, delay) != nil {
				return
			}
		}

		m.setState(StateConnecting)
		err := tws.Dial(ctx, endpoint, nil, m.ws, func(ctx context.Context, incoming <-chan tws.Message, _ chan<- tws.Message) error {
			m.setState(StateOpen)
			// the channel is open, future failures back off from scratch
			delays = m.backoff.Delays()
			delays()
			return m.consume(ctx, incoming)
		})
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			logger.Warn("Notification channel failed", zap.Error(err))
		} else {
			logger.Warn("Notification channel closed by server")
		}
	}
}

func (m *Manager) consume(ctx context.Context, incoming <-chan tws.Message) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-incoming:
			if !ok {
				return nil
			}
			m.handleFrame(ctx, msg)
		}
	}
}

// handleFrame processes one inbound frame. Malformed or unrecognized frames
// are logged and dropped, they never terminate the session.
func (m *Manager) handleFrame(ctx context.Context, msg tws.Message) {
	logger := tlog.Get(ctx)

	if !msg.Binary && string(msg.Data) == wire.SentinelConnected {
		logger.Debug("Notification channel acknowledged")
		return
	}

	var frame wire.Frame
	if err := json.Unmarshal(wire.Sanitize(msg.Data), &frame); err != nil {
		logger.Warn("Dropping malformed notification frame",
			zap.Error(err), zap.ByteString("frame", msg.Data))
		return
	}

	switch frame.Type {
	case wire.FrameExportExcel:
		var data wire.ExportExcelData
		if err := json.Unmarshal(frame.Data, &data); err != nil {
			logger.Warn("Dropping malformed export notification",
				zap.Error(err), zap.ByteString("frame", msg.Data))
			return
		}
		item := m.store.Add(Item{
			Title:    "导出成功",
			Content:  fmt.Sprintf("文件 %q 已生成", data.FileName),
			Category: CategorySuccess,
			File:     &data,
		})
		logger.Info("Export finished", zap.String("fileName", data.FileName),
			zap.String("fileUrl", data.FileURL))
		if m.config.AlertFn != nil {
			m.config.AlertFn(item)
		}
	default:
		logger.Debug("Ignoring notification frame of unknown type",
			zap.String("type", frame.Type))
	}
}

// Items returns all notifications, most recent first
func (m *Manager) Items() []Item {
	return m.store.Items()
}

// Unread returns the number of unread notifications
func (m *Manager) Unread() int {
	return m.store.Unread()
}

// MarkRead acknowledges one notification on the server and then flips it to
// read locally. A no-op for unknown or already read IDs. On server failure
// the local state stays unread.
func (m *Manager) MarkRead(ctx context.Context, id string) error {
	item, ok := m.store.Get(id)
	if !ok || item.Read {
		return nil
	}
	if _, err := rest.Post[struct{}](ctx, m.config.REST, "/notify/"+id+"/read", nil); err != nil {
		return err
	}
	m.store.markRead(id)
	return nil
}

// MarkAllRead acknowledges all notifications on the server and then flips
// them to read locally. A no-op when nothing is unread.
func (m *Manager) MarkAllRead(ctx context.Context) error {
	if m.store.Unread() == 0 {
		return nil
	}
	if _, err := rest.Post[int](ctx, m.config.REST, "/notify/read-all", nil); err != nil {
		return err
	}
	m.store.markAllRead()
	return nil
}

// Clear empties the notification list. Purely local, typically called on
// logout.
func (m *Manager) Clear() {
	m.store.Clear()
}
