package tui

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/pomoscreen/internal/config"
)

const (
	actionRestart = "restart"
	actionPause   = "pause"
)

type settingsForm struct {
	work        string
	shortBreak  string
	longBreak   string
	cycle       string
	autoStart   bool
	idleEnabled bool
	idleAfter   string
	idleAction  string
	lockEnabled bool
	lockAction  string
	saverEnable bool
	saverAction string
	stayUp      bool
	stayUpHour  string
	stayUpMin   string
	apiPort     string
}

type settingsModel struct {
	path   string
	width  int
	height int

	current    config.Settings
	formActive bool
	form       *huh.Form

	// Form values behind a pointer (survive value copies)
	values *settingsForm
}

func newSettingsModel(path string, current config.Settings) settingsModel {
	return settingsModel{
		path:    path,
		current: current,
		values:  &settingsForm{},
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok && key.Matches(msg, keys.Enter) {
		return s.showForm()
	}
	return s, nil
}

func actionName(isRestart bool) string {
	if isRestart {
		return actionRestart
	}
	return actionPause
}

func actionOptions() []huh.Option[string] {
	return []huh.Option[string]{
		huh.NewOption("Restart the interval", actionRestart),
		huh.NewOption("Pause the interval", actionPause),
	}
}

func validateInt(lo, hi int) func(string) error {
	return func(v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.New("enter a whole number")
		}
		if n < lo || n > hi {
			return fmt.Errorf("must be between %d and %d", lo, hi)
		}
		return nil
	}
}

func (s settingsModel) showForm() (settingsModel, tea.Cmd) {
	c := s.current
	*s.values = settingsForm{
		work:        strconv.Itoa(c.WorkMinutes),
		shortBreak:  strconv.Itoa(c.ShortBreakMinutes),
		longBreak:   strconv.Itoa(c.LongBreakMinutes),
		cycle:       strconv.Itoa(c.LongBreakCycle),
		autoStart:   c.AutoStartNextWork,
		idleEnabled: c.Idle.Enabled,
		idleAfter:   strconv.Itoa(c.Idle.AfterMinutes),
		idleAction:  actionName(c.Idle.ActionIsRestart),
		lockEnabled: c.ScreenLock.Enabled,
		lockAction:  actionName(c.ScreenLock.ActionIsRestart),
		saverEnable: c.Screensaver.Enabled,
		saverAction: actionName(c.Screensaver.ActionIsRestart),
		stayUp:      c.StayUp.Enabled,
		stayUpHour:  strconv.Itoa(c.StayUp.Hour),
		stayUpMin:   strconv.Itoa(c.StayUp.Minute),
		apiPort:     strconv.Itoa(c.API.Port),
	}
	v := s.values

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Work (min)").Value(&v.work).Validate(validateInt(1, 600)),
			huh.NewInput().Title("Short break (min)").Value(&v.shortBreak).Validate(validateInt(1, 600)),
			huh.NewInput().Title("Long break (min)").Value(&v.longBreak).Validate(validateInt(1, 600)),
			huh.NewInput().Title("Work intervals per long break (0 = never)").Value(&v.cycle).Validate(validateInt(0, 100)),
			huh.NewConfirm().Title("Start the next work interval after a break").Value(&v.autoStart),
		).Title("Pomodoro"),
		huh.NewGroup(
			huh.NewConfirm().Title("Detect idle time").Value(&v.idleEnabled),
			huh.NewInput().Title("Idle after (min)").Value(&v.idleAfter).Validate(validateInt(1, 600)),
			huh.NewSelect[string]().Title("When idle").Options(actionOptions()...).Value(&v.idleAction),
			huh.NewConfirm().Title("Detect screen lock").Value(&v.lockEnabled),
			huh.NewSelect[string]().Title("When locked").Options(actionOptions()...).Value(&v.lockAction),
			huh.NewConfirm().Title("Detect screensaver").Value(&v.saverEnable),
			huh.NewSelect[string]().Title("When the screensaver starts").Options(actionOptions()...).Value(&v.saverAction),
		).Title("Away detection"),
		huh.NewGroup(
			huh.NewConfirm().Title("Limit staying up late").Value(&v.stayUp),
			huh.NewInput().Title("Limit hour (0-23)").Value(&v.stayUpHour).Validate(validateInt(0, 23)),
			huh.NewInput().Title("Limit minute (0-59)").Value(&v.stayUpMin).Validate(validateInt(0, 59)),
			huh.NewInput().Title("Control API port (0 = off)").Value(&v.apiPort).Validate(validateInt(0, 65535)),
		).Title("General"),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		s.form = nil
		return s, s.save(s.values.apply(s.current))
	}

	return s, cmd
}

// apply copies the form values over base. Fields that fail to parse keep
// the value from base.
func (f settingsForm) apply(base config.Settings) config.Settings {
	atoi := func(v string, fallback int) int {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		return fallback
	}

	out := base
	out.WorkMinutes = atoi(f.work, base.WorkMinutes)
	out.ShortBreakMinutes = atoi(f.shortBreak, base.ShortBreakMinutes)
	out.LongBreakMinutes = atoi(f.longBreak, base.LongBreakMinutes)
	out.LongBreakCycle = atoi(f.cycle, base.LongBreakCycle)
	out.AutoStartNextWork = f.autoStart
	out.Idle = config.IdleSettings{
		Enabled:         f.idleEnabled,
		AfterMinutes:    atoi(f.idleAfter, base.Idle.AfterMinutes),
		ActionIsRestart: f.idleAction == actionRestart,
	}
	out.ScreenLock = config.DetectorSettings{Enabled: f.lockEnabled, ActionIsRestart: f.lockAction == actionRestart}
	out.Screensaver = config.DetectorSettings{Enabled: f.saverEnable, ActionIsRestart: f.saverAction == actionRestart}
	out.StayUp = config.StayUpSettings{
		Enabled: f.stayUp,
		Hour:    atoi(f.stayUpHour, base.StayUp.Hour),
		Minute:  atoi(f.stayUpMin, base.StayUp.Minute),
	}
	out.API.Port = atoi(f.apiPort, base.API.Port)
	return out
}

func (s settingsModel) save(next config.Settings) tea.Cmd {
	path := s.path
	return func() tea.Msg {
		if path != "" {
			if err := config.Save(path, next); err != nil {
				return statusMsg{text: fmt.Sprintf("Settings error: %v", err), isError: true}
			}
		}
		return SettingsMsg{Settings: next}
	}
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func (s settingsModel) rows() [][2]string {
	c := s.current
	return [][2]string{
		{"Work", fmt.Sprintf("%d min", c.WorkMinutes)},
		{"Short break", fmt.Sprintf("%d min", c.ShortBreakMinutes)},
		{"Long break", fmt.Sprintf("%d min", c.LongBreakMinutes)},
		{"Long break every", fmt.Sprintf("%d intervals", c.LongBreakCycle)},
		{"Auto-start work", onOff(c.AutoStartNextWork)},
		{"Idle detection", fmt.Sprintf("%s, %d min, %s", onOff(c.Idle.Enabled), c.Idle.AfterMinutes, actionName(c.Idle.ActionIsRestart))},
		{"Screen lock", fmt.Sprintf("%s, %s", onOff(c.ScreenLock.Enabled), actionName(c.ScreenLock.ActionIsRestart))},
		{"Screensaver", fmt.Sprintf("%s, %s", onOff(c.Screensaver.Enabled), actionName(c.Screensaver.ActionIsRestart))},
		{"Stay-up limit", fmt.Sprintf("%s, %s", onOff(c.StayUp.Enabled), c.Curfew())},
		{"Control API port", strconv.Itoa(c.API.Port)},
		{"Log level", c.LogLevel},
	}
}

func (s settingsModel) view() string {
	w := s.width - 4
	title := titleStyle.Render("Settings")

	if s.formActive && s.form != nil {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", s.form.View()),
		)
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	for _, row := range s.rows() {
		label := lipgloss.NewStyle().Width(24).Render(row[0])
		rows = append(rows, fmt.Sprintf("  %s %s", label, highlightStyle.Render(row[1])))
	}
	rows = append(rows, "")
	if s.path != "" {
		rows = append(rows, mutedStyle.Render("  "+s.path))
	}
	rows = append(rows, mutedStyle.Render("Press enter to edit settings"))

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
