package notify

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/url"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/specialistvlad/burstmatrix/internal/ctxlog"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

// DefaultSocketIOEvent is the event name lifecycle events are emitted under.
const DefaultSocketIOEvent = "burstmatrix"

// SocketIOConfig configures a SocketIOSink.
type SocketIOConfig struct {
	URL                string
	Namespace          string
	Event              string
	InsecureSkipVerify bool
	ConnectTimeout     time.Duration
}

// SocketIOSink emits lifecycle events to a socket.io server namespace.
type SocketIOSink struct {
	emit       func(ev string, data any) error
	disconnect func()
	event      string
}

// DialSocketIO connects to the server and returns a sink bound to the
// connection. It fails when the connection is not established within the
// configured timeout.
func DialSocketIO(ctx context.Context, cfg SocketIOConfig) (*SocketIOSink, error) {
	logger := ctxlog.FromContext(ctx).With("sink", "socketio", "url", cfg.URL)
	logger.Info("Connecting notification sink...")

	parsedURL, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse URL")
	}
	if parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, errors.Newf("invalid socket.io URL %q", cfg.URL)
	}

	opts := socket.DefaultOptions()
	if parsedURL.Path != "" {
		opts.SetPath(parsedURL.Path)
	}
	if cfg.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification")
		opts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))

	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	namespace := cfg.Namespace
	if namespace == "" {
		namespace = "/"
	}
	event := cfg.Event
	if event == "" {
		event = DefaultSocketIOEvent
	}

	connectChan := make(chan error, 1)
	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	manager := socket.NewManager(baseURL, opts)
	io := manager.Socket(namespace, opts)

	io.Once(types.EventName("connect"), func(...any) {
		logger.Info("Notification sink connected.", "sid", io.Id())
		select {
		case connectChan <- nil:
		default:
		}
	})
	io.Once(types.EventName("connect_error"), func(errs ...any) {
		err := errors.New("connect_error")
		if len(errs) > 0 {
			if e, ok := errs[0].(error); ok {
				err = e
			}
		}
		select {
		case connectChan <- err:
		default:
		}
	})
	io.Connect()

	select {
	case err := <-connectChan:
		if err != nil {
			io.Disconnect()
			return nil, errors.Wrap(err, "socket.io connection failed")
		}
	case <-ctx.Done():
		io.Disconnect()
		return nil, errors.Wrap(ctx.Err(), "waiting for socket.io connection")
	case <-time.After(timeout):
		io.Disconnect()
		return nil, errors.Newf("timed out after %s waiting for socket.io connection", timeout)
	}

	return &SocketIOSink{
		emit: func(ev string, data any) error {
			if !io.Connected() {
				return errors.New("socket is not connected")
			}
			io.Emit(ev, data)
			return nil
		},
		disconnect: func() { io.Disconnect() },
		event:      event,
	}, nil
}

// Notify implements Sink.
func (s *SocketIOSink) Notify(ctx context.Context, e Event) {
	if err := s.emit(s.event, e); err != nil {
		ctxlog.FromContext(ctx).Warn("Failed to emit notification.", "type", e.Type, "error", err)
	}
}

// Close disconnects from the server.
func (s *SocketIOSink) Close() {
	if s.disconnect != nil {
		s.disconnect()
	}
}
