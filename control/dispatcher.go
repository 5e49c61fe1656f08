package control

import (
	"context"
	"time"

	"go.uber.org/zap"

	"TrafficLight/phase"
)

// Signal is what the command loop drives. *light.Controller implements it.
type Signal interface {
	Start()
	Stop()
	Resume()
	Reset()
	Configure(p phase.Phase, seconds int) error
	Run(ctx context.Context) error
}

// DefaultEnqueueTimeout bounds how long Enqueue may block a UI goroutine.
const DefaultEnqueueTimeout = 150 * time.Millisecond

// Dispatcher serializes commands onto a Signal and drives its ticks.
type Dispatcher struct {
	signal         Signal
	logger         *zap.Logger
	cmdCh          chan Command
	enqueueTimeout time.Duration
}

// NewDispatcher creates a dispatcher with a buffered command channel.
func NewDispatcher(s Signal, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{
		signal: s,
		logger: logger,
		// Larger buffer reduces drops under brief bursts of slider events.
		cmdCh:          make(chan Command, 256),
		enqueueTimeout: DefaultEnqueueTimeout,
	}
}

// Enqueue posts a command to the loop without blocking the caller
// indefinitely. If the channel stays full for the enqueue timeout, the
// command is dropped and Enqueue returns false.
func (d *Dispatcher) Enqueue(cmd Command) bool {
	select {
	case d.cmdCh <- cmd:
		return true
	case <-time.After(d.enqueueTimeout):
		d.logger.Warn("enqueue timeout, dropping command", zap.Stringer("command", cmd.Type))
		return false
	}
}

// Do enqueues cmd and waits for its outcome.
func (d *Dispatcher) Do(ctx context.Context, cmd Command) error {
	cmd.Reply = make(chan error, 1)
	select {
	case d.cmdCh <- cmd:
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-cmd.Reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run handles commands and drives the signal until ctx is done.
func (d *Dispatcher) Run(ctx context.Context) error {
	done := make(chan error, 1)
	go func() {
		done <- d.signal.Run(ctx)
	}()

	for {
		select {
		case <-ctx.Done():
			<-done
			return ctx.Err()
		case cmd := <-d.cmdCh:
			err := d.handle(cmd)
			if cmd.Reply != nil {
				select {
				case cmd.Reply <- err:
				default:
				}
			}
		}
	}
}

func (d *Dispatcher) handle(cmd Command) error {
	d.logger.Debug("command", zap.Stringer("type", cmd.Type))
	switch cmd.Type {
	case CmdStart:
		d.signal.Start()
	case CmdStop:
		d.signal.Stop()
	case CmdResume:
		d.signal.Resume()
	case CmdReset:
		d.signal.Reset()
	case CmdConfigure:
		return d.signal.Configure(cmd.Phase, cmd.Seconds)
	default:
		return ErrUnknownCommand
	}
	return nil
}
