package tui

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/pomoscreen/internal/activity"
	"github.com/sadopc/pomoscreen/internal/api"
	"github.com/sadopc/pomoscreen/internal/config"
	"github.com/sadopc/pomoscreen/internal/curfew"
	"github.com/sadopc/pomoscreen/internal/restart"
	"github.com/sadopc/pomoscreen/internal/scheduler"
	"github.com/sadopc/pomoscreen/internal/store"
)

type signalKind int

const (
	signalWorkFinished signalKind = iota
	signalRestFinished
	signalForcedSleepStarted
	signalForcedSleepEnded
	signalWarning
)

type hostSignal struct {
	kind    signalKind
	rest    scheduler.IntervalKind
	seconds int
}

// signalSink collects scheduler callbacks. The scheduler calls back
// synchronously, so the model drains the sink after every call into it.
type signalSink struct {
	pending []hostSignal
	display string
}

func (s *signalSink) callbacks() scheduler.Callbacks {
	return scheduler.Callbacks{
		OnTimeDisplay: func(display string) { s.display = display },
		OnWorkIntervalFinished: func() {
			s.pending = append(s.pending, hostSignal{kind: signalWorkFinished})
		},
		OnRestFinished: func(kind scheduler.IntervalKind, seconds int) {
			s.pending = append(s.pending, hostSignal{kind: signalRestFinished, rest: kind, seconds: seconds})
		},
		OnForcedSleepStarted: func() {
			s.pending = append(s.pending, hostSignal{kind: signalForcedSleepStarted})
		},
		OnForcedSleepEnded: func() {
			s.pending = append(s.pending, hostSignal{kind: signalForcedSleepEnded})
		},
		OnCountdownWarning: func(secondsLeft int) {
			s.pending = append(s.pending, hostSignal{kind: signalWarning, seconds: secondsLeft})
		},
	}
}

func (s *signalSink) drain() []hostSignal {
	out := s.pending
	s.pending = nil
	return out
}

var modeLabels = map[restart.Mode]string{
	restart.ModeIdle:               "READY",
	restart.ModeWorkRunning:        "WORK",
	restart.ModeWorkPausedByUser:   "PAUSED",
	restart.ModeWorkPausedByIdle:   "PAUSED (IDLE)",
	restart.ModeWorkPausedBySystem: "PAUSED (LOCKED)",
	restart.ModeRestPausedByUser:   "BREAK PAUSED",
	restart.ModeRestPausedBySystem: "BREAK PAUSED (LOCKED)",
	restart.ModeForcedSleep:        "STAY-UP LIMIT",
}

// pomodoroModel owns the scheduler and feeds it every input: ticks, keys,
// API commands, screen lock changes, idle checks and the stay-up window.
// Pointer fields are shared between value copies of the model.
type pomodoroModel struct {
	store  *store.Store
	board  *api.StatusBoard
	logger *slog.Logger
	width  int
	height int

	sched    *scheduler.Scheduler
	sink     *signalSink
	activity *activity.Monitor
	curfew   *curfew.Monitor
	settings config.Settings

	today store.DailySummary
	title string
}

func newPomodoroModel(opts Options) pomodoroModel {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	sink := &signalSink{}
	sched := scheduler.New(opts.Settings.Scheduler(), sink.callbacks())
	sched.SetLogger(logger)

	monitor := activity.NewMonitor(opts.IdleProvider, opts.Settings.IdleAfter())
	monitor.Configure(opts.Settings.Idle.Enabled, opts.Settings.IdleAfter())
	monitor.SetLogger(logger)

	p := pomodoroModel{
		store:    opts.Store,
		board:    opts.Board,
		logger:   logger,
		sched:    sched,
		sink:     sink,
		activity: monitor,
		curfew:   &curfew.Monitor{},
		settings: opts.Settings,
	}
	p.sink.drain()
	p.loadToday()
	p.publish()
	return p
}

func (p *pomodoroModel) setSize(w, h int) {
	p.width = w
	p.height = h
}

func (p pomodoroModel) update(msg tea.Msg) (pomodoroModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		p.tick(time.Time(msg))
		return p, p.afterChange()

	case api.Command:
		p.applyCommand(msg)
		return p, p.afterChange()

	case ScreenLockMsg:
		if msg.Locked {
			p.applyEvent(restart.EventScreenLocked)
		} else {
			p.applyEvent(restart.EventScreenUnlocked)
		}
		return p, p.afterChange()

	case SettingsMsg:
		p.applySettings(msg.Settings)
		return p, p.afterChange()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Start):
			p.sched.Start()
		case key.Matches(msg, keys.Pause):
			p.togglePause()
		case key.Matches(msg, keys.Stop):
			p.sched.Stop()
		case key.Matches(msg, keys.Finish):
			p.sched.FinishNow()
		case key.Matches(msg, keys.Skip):
			if !p.sched.IsInRest() {
				return p, nil
			}
			p.skipRest()
		default:
			return p, nil
		}
		return p, p.afterChange()
	}
	return p, nil
}

// tick runs the once-per-second input checks and advances the countdown.
func (p *pomodoroModel) tick(now time.Time) {
	window := p.settings.Curfew()
	switch p.curfew.Check(now, p.settings.StayUp.Enabled, window) {
	case curfew.Entered:
		p.logger.Info("stay-up window entered", "window", window.String())
		p.record(store.Event{
			Type:       store.EventStayUpLateTriggered,
			OccurredAt: now,
			Metadata:   map[string]string{store.MetaWindow: window.String()},
		})
		p.sched.OnCurfewTriggered()
	case curfew.Left:
		p.logger.Info("stay-up window left")
		p.sched.OnCurfewEnded()
	}

	sig, err := p.activity.Check(now)
	if err != nil {
		p.logger.Debug("idle check failed", "err", err)
	}
	switch sig {
	case activity.SignalIdle:
		p.sched.OnIdleExceeded()
	case activity.SignalActive:
		p.sched.OnUserActivity()
	}

	p.sched.Tick()
}

func (p *pomodoroModel) togglePause() {
	if p.sched.IsRunning() {
		p.sched.Pause()
		return
	}
	p.sched.Resume()
}

// skipRest cancels the rest in progress and starts the next work interval.
func (p *pomodoroModel) skipRest() {
	kind := p.sched.Kind()
	p.sched.CancelRest()
	p.record(store.Event{
		Type: store.EventBreakCancelled,
		Metadata: map[string]string{
			store.MetaSource:    store.SourceUser,
			store.MetaBreakKind: kind.String(),
		},
	})
	p.sched.Start()
}

func (p *pomodoroModel) applyCommand(cmd api.Command) {
	if cmd.Kind == api.KindEvent {
		p.applyEvent(cmd.Event)
		return
	}
	switch cmd.Name {
	case api.CommandStart:
		p.sched.Start()
	case api.CommandPause:
		p.sched.Pause()
	case api.CommandResume:
		p.sched.Resume()
	case api.CommandStop:
		p.sched.Stop()
	case api.CommandFinish:
		p.sched.FinishNow()
	case api.CommandSkipRest:
		if p.sched.IsInRest() {
			p.skipRest()
		}
	}
}

func (p *pomodoroModel) applyEvent(e restart.Event) {
	switch e {
	case restart.EventScreenLocked:
		p.record(store.Event{
			Type:     store.EventScreenLocked,
			Metadata: map[string]string{store.MetaSource: store.SourceSystem},
		})
		p.sched.OnScreenLocked()
	case restart.EventScreenUnlocked:
		p.sched.OnScreenUnlocked()
	case restart.EventScreensaverStarted:
		p.record(store.Event{
			Type:     store.EventScreensaverActivated,
			Metadata: map[string]string{store.MetaSource: store.SourceSystem},
		})
		p.sched.OnScreensaverStarted()
	case restart.EventScreensaverStopped:
		p.sched.OnScreensaverStopped()
	case restart.EventIdleTimeExceeded:
		p.sched.OnIdleExceeded()
	case restart.EventUserActivityDetected:
		p.sched.OnUserActivity()
	default:
		p.logger.Warn("ignoring event", "event", e)
	}
}

func (p *pomodoroModel) applySettings(s config.Settings) {
	p.settings = s
	p.sched.UpdateSettings(s.Scheduler())
	p.activity.Configure(s.Idle.Enabled, s.IdleAfter())
	p.logger.Info("settings applied",
		"work_minutes", s.WorkMinutes, "cycle", s.LongBreakCycle, "auto_start", s.AutoStartNextWork)
}

// afterChange turns the collected scheduler callbacks into statistics
// events and status messages, then publishes the new state.
func (p *pomodoroModel) afterChange() tea.Cmd {
	var cmds []tea.Cmd
	for _, sig := range p.sink.drain() {
		if cmd := p.handleSignal(sig); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}

	if p.sink.display != "" && p.sink.display != p.title {
		p.title = p.sink.display
		cmds = append(cmds, tea.SetWindowTitle("pomoscreen "+p.title))
	}

	p.publish()
	return tea.Batch(cmds...)
}

func (p *pomodoroModel) handleSignal(sig hostSignal) tea.Cmd {
	switch sig.kind {
	case signalWorkFinished:
		p.record(store.Event{
			Type:     store.EventPomodoroCompleted,
			Duration: int64(p.settings.WorkMinutes * 60),
		})
		breakType := store.EventShortBreakStarted
		if p.sched.IsLongRest() {
			breakType = store.EventLongBreakStarted
		}
		p.record(store.Event{
			Type:     breakType,
			Duration: int64(p.sched.TotalSeconds()),
			Metadata: map[string]string{store.MetaBreakKind: p.sched.Kind().String()},
		})
		return statusCmd("Break time! \a")

	case signalRestFinished:
		p.record(store.Event{
			Type:     store.EventBreakFinished,
			Duration: int64(sig.seconds),
			Metadata: map[string]string{store.MetaBreakKind: sig.rest.String()},
		})
		return statusCmd("Break over \a")

	case signalForcedSleepStarted:
		return statusCmd("Stay-up limit reached")

	case signalForcedSleepEnded:
		return statusCmd("Stay-up window over")

	case signalWarning:
		return statusCmd(fmt.Sprintf("%d seconds of work left", sig.seconds))
	}
	return nil
}

func statusCmd(text string) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{text: text}
	}
}

// record writes e to the statistics store. Failures are logged and never
// reach the timer.
func (p *pomodoroModel) record(e store.Event) {
	if p.store == nil {
		return
	}
	if _, err := p.store.RecordEvent(e); err != nil {
		p.logger.Error("record statistics event", "type", e.Type, "err", err)
		return
	}
	p.loadToday()
}

func (p *pomodoroModel) loadToday() {
	if p.store == nil {
		return
	}
	today, err := p.store.GetTodaySummary()
	if err != nil {
		p.logger.Error("load today summary", "err", err)
		return
	}
	p.today = today
}

func (p *pomodoroModel) publish() {
	if p.board != nil {
		p.board.Publish(p.sched.Snapshot())
	}
}

// overlayActive is true while a rest or the stay-up limit takes over the screen.
func (p pomodoroModel) overlayActive() bool {
	return p.sched.IsInRest() || p.sched.IsForcedSleep()
}

func (p pomodoroModel) phaseLabel() string {
	mode := p.sched.Mode()
	if mode == restart.ModeRestPending || mode == restart.ModeRestRunning {
		if p.sched.IsLongRest() {
			return "LONG BREAK"
		}
		return "SHORT BREAK"
	}
	if mode == restart.ModeIdle && p.sched.CanResume() {
		return "STOPPED"
	}
	if label, ok := modeLabels[mode]; ok {
		return label
	}
	return strings.ToUpper(string(mode))
}

func (p pomodoroModel) view() string {
	w := p.width - 4

	title := titleStyle.Render("Pomodoro Timer")

	clockStyle := timerStyle
	switch {
	case p.sched.IsRunning():
		clockStyle = timerRunningStyle
	case p.sched.IsPaused():
		clockStyle = timerPausedStyle
	}
	timeDisplay := clockStyle.Width(max(w-6, 10)).Render(p.sched.Display())

	var phaseLabel string
	switch {
	case p.sched.IsRunning():
		phaseLabel = accentStyle.Bold(true).Render(p.phaseLabel())
	case p.sched.IsPaused():
		phaseLabel = warningStyle.Bold(true).Render(p.phaseLabel())
	default:
		phaseLabel = mutedStyle.Render(p.phaseLabel())
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		title,
		"",
		timeDisplay,
		phaseLabel,
		"",
		p.renderProgress(),
		"",
		p.renderToday(),
		p.renderDetectors(),
	)

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Center, content, "", p.renderControls()),
	)
}

func (p pomodoroModel) renderControls() string {
	switch {
	case p.sched.IsForcedSleep():
		return mutedStyle.Render("q: quit")
	case p.sched.IsRunning():
		return mutedStyle.Render("space: pause  f: finish now  x: stop")
	case p.sched.IsPaused():
		return mutedStyle.Render("space: resume  s: restart  x: stop")
	case p.sched.CanResume():
		return mutedStyle.Render("s: start over  x: stop  q: quit")
	}
	return mutedStyle.Render("s: start  q: quit")
}

// renderProgress draws one dot per interval of the long-break cycle.
func (p pomodoroModel) renderProgress() string {
	completed := p.sched.CompletedWorkIntervals()
	cycle := p.sched.LongBreakCycle()
	if cycle <= 0 {
		return mutedStyle.Render(fmt.Sprintf("%d completed", completed))
	}

	done := completed % cycle
	if done == 0 && completed > 0 && p.sched.IsLongRest() {
		done = cycle
	}

	var parts []string
	for i := 0; i < cycle; i++ {
		switch {
		case i < done:
			parts = append(parts, successStyle.Render("●"))
		case i == done && p.sched.Kind() == scheduler.Work && p.sched.IsRunning():
			parts = append(parts, accentStyle.Render("◐"))
		default:
			parts = append(parts, mutedStyle.Render("○"))
		}
	}
	progress := strings.Join(parts, " ")
	counter := mutedStyle.Render(fmt.Sprintf("  %d completed", completed))
	return progress + counter
}

func (p pomodoroModel) renderToday() string {
	return mutedStyle.Render(fmt.Sprintf("Today: %d pomodoros  %s focused  %d breaks",
		p.today.CompletedPomodoros,
		formatHours(p.today.WorkSeconds),
		p.today.ShortBreaks+p.today.LongBreaks,
	))
}

func (p pomodoroModel) renderDetectors() string {
	flag := func(name string, on bool) string {
		if on {
			return successStyle.Render("● " + name)
		}
		return mutedStyle.Render("○ " + name)
	}
	return lipgloss.JoinHorizontal(lipgloss.Bottom,
		flag("idle", p.settings.Idle.Enabled && p.activity.Supported()), "  ",
		flag("lock", p.settings.ScreenLock.Enabled), "  ",
		flag("screensaver", p.settings.Screensaver.Enabled), "  ",
		flag("stay-up "+p.settings.Curfew().String(), p.settings.StayUp.Enabled),
	)
}
