package store

import "time"

// EventType names a statistics event.
type EventType string

const (
	EventPomodoroCompleted    EventType = "pomodoro_completed"
	EventShortBreakStarted    EventType = "short_break_started"
	EventLongBreakStarted     EventType = "long_break_started"
	EventBreakFinished        EventType = "break_finished"
	EventBreakCancelled       EventType = "break_cancelled"
	EventScreenLocked         EventType = "screen_locked"
	EventScreensaverActivated EventType = "screensaver_activated"
	EventStayUpLateTriggered  EventType = "stay_up_late_triggered"
)

// Metadata keys and values used by the host.
const (
	MetaSource    = "source"
	MetaBreakKind = "break_kind"
	MetaWindow    = "window"

	SourceUser   = "user"
	SourceSystem = "system"
)

type Event struct {
	ID         string
	Type       EventType
	OccurredAt time.Time
	Duration   int64 // seconds
	Metadata   map[string]string
}

// EventFilter is used to filter events in queries.
type EventFilter struct {
	Type  *EventType
	From  *time.Time
	To    *time.Time
	Limit int
}

// DailySummary aggregates one UTC day of events.
type DailySummary struct {
	Date                   string
	CompletedPomodoros     int
	WorkSeconds            int64
	ShortBreaks            int
	LongBreaks             int
	BreakSeconds           int64
	CancelledBreaks        int
	ScreenLocks            int
	ScreensaverActivations int
	StayUpLate             int
}
