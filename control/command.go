// Package control defines lightweight command messages used by the front
// ends to request actions from the command loop. The loop centralizes
// state changes so that UI goroutines never mutate the signal directly.
package control

import (
	"errors"
	"fmt"

	"TrafficLight/phase"
)

// CommandType enumerates supported command operations.
type CommandType int

const (
	CmdStart CommandType = iota
	CmdStop
	CmdResume
	CmdReset
	CmdConfigure
)

func (t CommandType) String() string {
	switch t {
	case CmdStart:
		return "start"
	case CmdStop:
		return "stop"
	case CmdResume:
		return "resume"
	case CmdReset:
		return "reset"
	case CmdConfigure:
		return "configure"
	}
	return fmt.Sprintf("CommandType(%d)", int(t))
}

// ErrUnknownCommand is replied for a command type the loop does not handle.
var ErrUnknownCommand = errors.New("unknown command")

// Command is the message sent from a front end to Dispatcher.Run. Phase
// and Seconds are only read by CmdConfigure. The optional Reply channel
// receives the outcome (useful for keeping UI state in sync).
type Command struct {
	Type    CommandType
	Phase   phase.Phase
	Seconds int
	Reply   chan error // optional reply channel
}

// Configure builds a CmdConfigure command.
func Configure(p phase.Phase, seconds int) Command {
	return Command{Type: CmdConfigure, Phase: p, Seconds: seconds}
}
