// Package publish mirrors graph changes to a remote editor over Socket.IO and
// applies the edits the editor sends back.
package publish

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/vk/patchgrid/internal/ctxlog"
	"github.com/vk/patchgrid/internal/dag"
	"github.com/vk/patchgrid/internal/nodestore"
	"github.com/vk/patchgrid/internal/topologystore"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

// DefaultConnectTimeout bounds how long Connect waits for the handshake.
const DefaultConnectTimeout = 15 * time.Second

// ErrClosed is returned by Attach after Close.
var ErrClosed = errors.New("publisher is closed")

// Source is anything whose structure and layout can be observed.
// *graph.Manager satisfies it.
type Source interface {
	SubscribeStructure(fn topologystore.Listener) func()
	SubscribeLayout(fn nodestore.Listener) func()
}

// Emitter sends one event with its payload.
type Emitter func(event string, payload any)

// Options configures Connect.
type Options struct {
	URL                string
	Namespace          string
	InsecureSkipVerify bool
	ConnectTimeout     time.Duration
}

// Publisher forwards every snapshot of the attached sources to an Emitter.
type Publisher struct {
	emit       Emitter
	on         Subscriber
	disconnect func()

	mu     sync.Mutex
	closed bool
	unsubs []func()
}

// New creates a publisher around an arbitrary emitter. It cannot Listen.
func New(emit Emitter) *Publisher {
	return NewDuplex(emit, nil)
}

// NewDuplex creates a publisher that also receives editor events through on.
func NewDuplex(emit Emitter, on Subscriber) *Publisher {
	return &Publisher{emit: emit, on: on, disconnect: func() {}}
}

// Connect dials a Socket.IO server and returns a publisher emitting to it.
// It waits for the connection to be established, the timeout to elapse or
// ctx to be cancelled, whichever happens first.
func Connect(ctx context.Context, opts Options) (*Publisher, error) {
	logger := ctxlog.FromContext(ctx).With("component", "publisher", "url", opts.URL)
	logger.Debug("Connecting to editor...")

	parsedURL, err := url.Parse(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}
	if parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, fmt.Errorf("invalid publish URL '%s': scheme and host are required", opts.URL)
	}
	timeout := opts.ConnectTimeout
	if timeout <= 0 {
		timeout = DefaultConnectTimeout
	}

	sockOpts := socket.DefaultOptions()
	if parsedURL.Path != "" {
		sockOpts.SetPath(parsedURL.Path)
	}
	if opts.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification")
		sockOpts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	sockOpts.SetTransports(types.NewSet(transports.WebSocket))

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	manager := socket.NewManager(baseURL, sockOpts)
	io := manager.Socket(opts.Namespace, sockOpts)

	connected := make(chan error, 1)
	io.Once(types.EventName("connect"), func(...any) {
		connected <- nil
	})
	io.Once(types.EventName("connect_error"), func(errs ...any) {
		err := errors.New("connect_error")
		if len(errs) > 0 {
			if e, ok := errs[0].(error); ok {
				err = e
			}
		}
		connected <- err
	})
	io.Connect()

	select {
	case err := <-connected:
		if err != nil {
			io.Disconnect()
			return nil, fmt.Errorf("socket.io connection failed: %w", err)
		}
	case <-ctx.Done():
		io.Disconnect()
		return nil, fmt.Errorf("context cancelled while waiting for socket.io connection: %w", ctx.Err())
	case <-time.After(timeout):
		io.Disconnect()
		return nil, fmt.Errorf("timed out after %s waiting for socket.io connection", timeout)
	}
	logger.Info("Connected to editor.", "sid", io.Id())

	p := NewDuplex(
		func(event string, payload any) {
			io.Emit(event, payload)
		},
		func(event string, handler func(data ...any)) {
			io.On(types.EventName(event), handler)
		},
	)
	p.disconnect = func() { io.Disconnect() }
	return p, nil
}

// Attach subscribes to src. The current structure and layout are emitted
// immediately, then again after every change.
func (p *Publisher) Attach(ctx context.Context, src Source) error {
	p.mu.Lock()
	closed := p.closed
	p.mu.Unlock()
	if closed {
		return ErrClosed
	}

	logger := ctxlog.FromContext(ctx).With("component", "publisher")

	// Subscribing delivers a snapshot synchronously, so p.mu must not be held.
	unsubStructure := src.SubscribeStructure(func(g *dag.Graph) {
		logger.Debug("Publishing structure.", "nodes", g.Len())
		p.send(EventStructure, NewStructure(g))
	})
	unsubLayout := src.SubscribeLayout(func(l nodestore.Layout) {
		logger.Debug("Publishing layout.", "widgets", len(l))
		p.send(EventLayout, NewLayout(l))
	})

	p.mu.Lock()
	if !p.closed {
		p.unsubs = append(p.unsubs, unsubStructure, unsubLayout)
		p.mu.Unlock()
		return nil
	}
	p.mu.Unlock()

	unsubStructure()
	unsubLayout()
	return ErrClosed
}

func (p *Publisher) send(event string, payload any) {
	p.mu.Lock()
	closed := p.closed
	p.mu.Unlock()
	if closed {
		return
	}
	p.emit(event, payload)
}

// Close detaches from every source and disconnects. It is safe to call more
// than once.
func (p *Publisher) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	unsubs := p.unsubs
	p.unsubs = nil
	p.mu.Unlock()

	for _, u := range unsubs {
		u()
	}
	p.disconnect()
}
