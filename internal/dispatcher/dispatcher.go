// Package dispatcher routes host commands to their handlers.
package dispatcher

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrUnknownCommand is returned by Dispatch for a command nobody registered.
var ErrUnknownCommand = errors.New("unknown command")

// Event is one command sent by the host integration layer.
type Event struct {
	Command   string
	Args      []string
	Timestamp time.Time
}

// HandlerFunc processes an event and returns a result.
type HandlerFunc func(Event) (any, error)

// Logger is the key/value logger the dispatcher reports through.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}

// Option configures handler registration.
type Option func(*options)

type options struct {
	logged    bool
	recovered bool
}

// Logged logs each event at debug and failures at error.
func Logged() Option {
	return func(o *options) { o.logged = true }
}

// Recovered turns a panic inside the handler into an error so it never
// reaches the host's frame or day loop.
func Recovered() Option {
	return func(o *options) { o.recovered = true }
}

// Dispatcher routes events to registered handlers. Handlers run on the
// caller's goroutine; registration and dispatch may happen concurrently.
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[string]HandlerFunc
	logger   Logger
	inst     *instruments
}

// New creates a Dispatcher. Metrics go to the global OTel meter, which is
// a no-op until a provider is installed.
func New(logger Logger) (*Dispatcher, error) {
	inst, err := newInstruments()
	if err != nil {
		return nil, err
	}
	return &Dispatcher{
		handlers: make(map[string]HandlerFunc),
		logger:   logger,
		inst:     inst,
	}, nil
}

// Register installs h for command, replacing any earlier handler. The
// recovery layer sits inside logging so a recovered panic is logged like
// any other error.
func (d *Dispatcher) Register(command string, h HandlerFunc, opts ...Option) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	chain := d.inst.wrap(command, h)
	if o.recovered {
		chain = recovering(command, chain)
	}
	if o.logged && d.logger != nil {
		chain = logging(d.logger, command, chain)
	}

	d.mu.Lock()
	d.handlers[command] = chain
	d.mu.Unlock()
}

// Dispatch runs the handler registered for e.Command.
func (d *Dispatcher) Dispatch(e Event) (any, error) {
	d.mu.RLock()
	h, ok := d.handlers[e.Command]
	d.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCommand, e.Command)
	}
	return h(e)
}

// HasHandler reports whether command is registered.
func (d *Dispatcher) HasHandler(command string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.handlers[command]
	return ok
}

func recovering(command string, next HandlerFunc) HandlerFunc {
	return func(e Event) (result any, err error) {
		defer func() {
			if r := recover(); r != nil {
				result, err = nil, fmt.Errorf("panic in %s: %v", command, r)
			}
		}()
		return next(e)
	}
}

func logging(logger Logger, command string, next HandlerFunc) HandlerFunc {
	return func(e Event) (any, error) {
		logger.Debug("handling event", "command", command, "args", len(e.Args))
		start := time.Now()
		result, err := next(e)
		took := time.Since(start)
		if err != nil {
			logger.Error("event failed", "command", command, "duration", took, "error", err)
			return result, err
		}
		logger.Debug("event complete", "command", command, "duration", took)
		return result, nil
	}
}
