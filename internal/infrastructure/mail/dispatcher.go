// Package mail renders and delivers transactional mail off the request path.
package mail

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"p2p-lending.backend/pkg/logger"
	"p2p-lending.backend/pkg/metrics"
)

const (
	defaultQueueSize = 100
	sendTimeout      = 15 * time.Second
)

// Message is one mail waiting to be rendered and sent
type Message struct {
	To       string
	Subject  string
	Template Template
	Context  map[string]interface{}
}

// Dispatcher queues messages and sends them from a single worker.
// Delivery errors are logged and counted, never returned.
type Dispatcher struct {
	sender   Sender
	renderer *Renderer
	queue    chan Message

	mu      sync.RWMutex
	started bool
	closed  bool
	done    chan struct{}
}

func NewDispatcher(sender Sender, queueSize int) (*Dispatcher, error) {
	renderer, err := NewRenderer()
	if err != nil {
		return nil, err
	}
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	return &Dispatcher{
		sender:   sender,
		renderer: renderer,
		queue:    make(chan Message, queueSize),
		done:     make(chan struct{}),
	}, nil
}

// Start launches the worker. It drains the queue until Close.
func (d *Dispatcher) Start(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.started || d.closed {
		return
	}
	d.started = true

	go func() {
		defer close(d.done)
		for msg := range d.queue {
			d.deliver(ctx, msg)
		}
	}()
}

// Dispatch enqueues msg without blocking. A full or closed queue drops it.
func (d *Dispatcher) Dispatch(msg Message) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		logger.Warn(context.Background(), "Mail dropped after shutdown", zap.String("template", string(msg.Template)))
		metrics.MailsDispatched.WithLabelValues(string(msg.Template), "dropped").Inc()
		return
	}

	select {
	case d.queue <- msg:
	default:
		logger.Warn(context.Background(), "Mail queue full, dropping message",
			zap.String("template", string(msg.Template)),
			zap.String("to", msg.To),
		)
		metrics.MailsDispatched.WithLabelValues(string(msg.Template), "dropped").Inc()
	}
}

// Close stops accepting mail and waits for queued messages to be sent
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.queue)
	started := d.started
	d.mu.Unlock()

	if started {
		<-d.done
	}
}

func (d *Dispatcher) deliver(ctx context.Context, msg Message) {
	html, err := d.renderer.Render(msg.Template, msg.Context)
	if err != nil {
		logger.Error(ctx, "Failed to render mail", zap.String("template", string(msg.Template)), zap.Error(err))
		metrics.MailsDispatched.WithLabelValues(string(msg.Template), "failed").Inc()
		return
	}

	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sendTimeout)
	defer cancel()

	if err := d.sender.Send(sendCtx, msg.To, msg.Subject, html); err != nil {
		logger.Error(ctx, "Failed to send mail",
			zap.String("template", string(msg.Template)),
			zap.String("to", msg.To),
			zap.Error(err),
		)
		metrics.MailsDispatched.WithLabelValues(string(msg.Template), "failed").Inc()
		return
	}

	logger.Info(ctx, "Mail sent", zap.String("template", string(msg.Template)), zap.String("to", msg.To))
	metrics.MailsDispatched.WithLabelValues(string(msg.Template), "sent").Inc()
}
