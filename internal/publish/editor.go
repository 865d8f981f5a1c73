package publish

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/vk/patchgrid/internal/ctxlog"
	"github.com/vk/patchgrid/internal/nodestore"
)

// Event names received from the editor.
const (
	EventCreateNode    = "createNode"
	EventDestroyNode   = "destroyNode"
	EventCreateEdge    = "createEdge"
	EventDestroyEdge   = "destroyEdge"
	EventSetOperation  = "setOperation"
	EventDisplaceNodes = "displaceNodes"
	// EventRejected is emitted back when an edit could not be applied.
	EventRejected = "rejected"
)

// InboundEvents lists every event Listen subscribes to.
var InboundEvents = []string{
	EventCreateNode,
	EventDestroyNode,
	EventCreateEdge,
	EventDestroyEdge,
	EventSetOperation,
	EventDisplaceNodes,
}

// ErrNoInbound is returned by Listen on a publisher built without a
// Subscriber.
var ErrNoInbound = errors.New("publisher has no inbound channel")

// Editor applies edits received from the editor. *graph.Manager satisfies it.
type Editor interface {
	CreateNode(ctx context.Context, key, operation string, at *nodestore.Point) error
	DestroyNode(ctx context.Context, key string) error
	CreateEdge(ctx context.Context, source, target string, port int) (string, error)
	DestroyEdge(ctx context.Context, source, target string) error
	SetOperation(ctx context.Context, key, operation string) error
	DisplaceNodes(ctx context.Context, deltas map[string]nodestore.Point) error
}

// Subscriber registers handler for an inbound event.
type Subscriber func(event string, handler func(data ...any))

// Rejection is the payload of EventRejected.
type Rejection struct {
	Event   string `json:"event"`
	Message string `json:"message"`
}

type nodeRequest struct {
	Key       string           `json:"key"`
	Operation string           `json:"operation"`
	Position  *nodestore.Point `json:"position,omitempty"`
}

type edgeRequest struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Port   int    `json:"port"`
}

// Listen applies every inbound editor event to ed until the publisher is
// closed. Changes made this way reach the editor again through Attach.
func (p *Publisher) Listen(ctx context.Context, ed Editor) error {
	if p.on == nil {
		return ErrNoInbound
	}
	p.mu.Lock()
	closed := p.closed
	p.mu.Unlock()
	if closed {
		return ErrClosed
	}

	for _, event := range InboundEvents {
		p.on(event, func(data ...any) {
			_ = p.Handle(ctx, ed, event, data...)
		})
	}
	ctxlog.FromContext(ctx).Debug("Listening for editor events.", "events", len(InboundEvents))
	return nil
}

// Handle applies one inbound event to ed. A failed edit is reported to the
// editor as EventRejected and returned.
func (p *Publisher) Handle(ctx context.Context, ed Editor, event string, data ...any) error {
	logger := ctxlog.FromContext(ctx).With("component", "publisher", "event", event)
	err := apply(ctx, ed, event, data)
	if err != nil {
		logger.Warn("Rejected editor event.", "error", err)
		p.send(EventRejected, Rejection{Event: event, Message: err.Error()})
		return err
	}
	logger.Debug("Applied editor event.")
	return nil
}

func apply(ctx context.Context, ed Editor, event string, data []any) error {
	if len(data) == 0 {
		return fmt.Errorf("%s: missing payload", event)
	}
	payload := data[0]

	switch event {
	case EventCreateNode:
		var req nodeRequest
		if err := decode(payload, &req); err != nil {
			return fmt.Errorf("%s: %w", event, err)
		}
		return ed.CreateNode(ctx, req.Key, req.Operation, req.Position)
	case EventDestroyNode:
		var req nodeRequest
		if err := decode(payload, &req); err != nil {
			return fmt.Errorf("%s: %w", event, err)
		}
		return ed.DestroyNode(ctx, req.Key)
	case EventSetOperation:
		var req nodeRequest
		if err := decode(payload, &req); err != nil {
			return fmt.Errorf("%s: %w", event, err)
		}
		return ed.SetOperation(ctx, req.Key, req.Operation)
	case EventCreateEdge:
		var req edgeRequest
		if err := decode(payload, &req); err != nil {
			return fmt.Errorf("%s: %w", event, err)
		}
		_, err := ed.CreateEdge(ctx, req.Source, req.Target, req.Port)
		return err
	case EventDestroyEdge:
		var req edgeRequest
		if err := decode(payload, &req); err != nil {
			return fmt.Errorf("%s: %w", event, err)
		}
		return ed.DestroyEdge(ctx, req.Source, req.Target)
	case EventDisplaceNodes:
		var deltas map[string]nodestore.Point
		if err := decode(payload, &deltas); err != nil {
			return fmt.Errorf("%s: %w", event, err)
		}
		return ed.DisplaceNodes(ctx, deltas)
	default:
		return fmt.Errorf("unknown event '%s'", event)
	}
}

// decode converts a Socket.IO payload, already decoded into generic maps and
// slices, into v.
func decode(payload any, v any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("invalid payload: %w", err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("invalid payload: %w", err)
	}
	return nil
}
