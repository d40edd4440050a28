package api

import (
	"errors"

	"github.com/sadopc/pomoscreen/internal/restart"
)

// ErrUnknownCommand is returned for names outside the command and event sets.
var ErrUnknownCommand = errors.New("unknown command")

type CommandKind string

const (
	KindCommand CommandKind = "command"
	KindEvent   CommandKind = "event"
)

// Command names accepted on /api/commands/:name.
const (
	CommandStart    = "start"
	CommandPause    = "pause"
	CommandResume   = "resume"
	CommandStop     = "stop"
	CommandFinish   = "finish"
	CommandSkipRest = "skip-rest"
)

var commandNames = map[string]bool{
	CommandStart:    true,
	CommandPause:    true,
	CommandResume:   true,
	CommandStop:     true,
	CommandFinish:   true,
	CommandSkipRest: true,
}

// eventNames maps /api/events/:name to the machine event it simulates.
var eventNames = map[string]restart.Event{
	"screen-locked":       restart.EventScreenLocked,
	"screen-unlocked":     restart.EventScreenUnlocked,
	"screensaver-started": restart.EventScreensaverStarted,
	"screensaver-stopped": restart.EventScreensaverStopped,
	"idle-exceeded":       restart.EventIdleTimeExceeded,
	"user-activity":       restart.EventUserActivityDetected,
}

// Command is a request accepted over HTTP and handed to the UI loop.
// Event is set only for KindEvent.
type Command struct {
	Kind  CommandKind
	Name  string
	Event restart.Event
}

// Dispatcher delivers a command to the owner of the scheduler. It must not
// block; the TUI implements it with tea.Program.Send.
type Dispatcher func(Command)

func ParseCommand(name string) (Command, error) {
	if !commandNames[name] {
		return Command{}, ErrUnknownCommand
	}
	return Command{Kind: KindCommand, Name: name}, nil
}

func ParseEventCommand(name string) (Command, error) {
	e, ok := eventNames[name]
	if !ok {
		return Command{}, ErrUnknownCommand
	}
	return Command{Kind: KindEvent, Name: name, Event: e}, nil
}
