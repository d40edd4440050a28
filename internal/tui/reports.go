package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/pomoscreen/internal/store"
)

type reportMode int

const (
	reportDaily reportMode = iota
	reportWeekly
)

type reportsModel struct {
	store  *store.Store
	width  int
	height int

	mode      reportMode
	summaries []store.DailySummary
	offset    int // weeks or 7-day blocks offset from today (0 = current)
	now       func() time.Time

	chart barchart.Model
}

func newReportsModel(s *store.Store) reportsModel {
	return reportsModel{
		store: s,
		now:   time.Now,
		chart: barchart.New(60, 12),
	}
}

func (r *reportsModel) setSize(w, h int) {
	r.width = w
	r.height = h
}

type reportsDataMsg struct {
	summaries []store.DailySummary
}

func (r reportsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		if r.store == nil {
			return reportsDataMsg{}
		}
		from, to := r.dateRange()
		summaries, err := r.store.GetDailySummary(from, to)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Reports error: %v", err), isError: true}
		}
		return reportsDataMsg{summaries: summaries}
	}
}

func (r reportsModel) dateRange() (time.Time, time.Time) {
	now := r.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	switch r.mode {
	case reportWeekly:
		// Start of current week (Monday)
		weekday := today.Weekday()
		if weekday == time.Sunday {
			weekday = 7
		}
		startOfWeek := today.AddDate(0, 0, -int(weekday-time.Monday))
		startOfWeek = startOfWeek.AddDate(0, 0, -7*r.offset)
		return startOfWeek, startOfWeek.AddDate(0, 0, 7)
	default:
		// Daily: last 7 days
		end := today.AddDate(0, 0, 1-7*r.offset)
		start := end.AddDate(0, 0, -7)
		return start, end
	}
}

func (r reportsModel) update(msg tea.Msg) (reportsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case reportsDataMsg:
		r.summaries = msg.summaries
		r.buildChart()
		return r, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left):
			r.offset++
			return r, r.refresh()
		case key.Matches(msg, keys.Right):
			if r.offset > 0 {
				r.offset--
			}
			return r, r.refresh()
		case key.Matches(msg, keys.Enter):
			if r.mode == reportDaily {
				r.mode = reportWeekly
			} else {
				r.mode = reportDaily
			}
			r.offset = 0
			return r, r.refresh()
		}
	}
	return r, nil
}

func (r reportsModel) summaryFor(date string) (store.DailySummary, bool) {
	for _, s := range r.summaries {
		if s.Date == date {
			return s, true
		}
	}
	return store.DailySummary{}, false
}

func (r *reportsModel) buildChart() {
	chartWidth := r.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := 12
	if r.height > 30 {
		chartHeight = 16
	}

	r.chart = barchart.New(chartWidth, chartHeight)

	from, to := r.dateRange()
	workStyle := lipgloss.NewStyle().Foreground(colorAccent)
	breakStyle := lipgloss.NewStyle().Foreground(colorSecondary)

	var bars []barchart.BarData
	for d := from; d.Before(to); d = d.AddDate(0, 0, 1) {
		s, _ := r.summaryFor(d.Format("2006-01-02"))
		bars = append(bars, barchart.BarData{
			Label: d.Format("Mon 02"),
			Values: []barchart.BarValue{
				{Name: "Pomodoros", Value: float64(s.CompletedPomodoros), Style: workStyle},
				{Name: "Breaks", Value: float64(s.ShortBreaks + s.LongBreaks), Style: breakStyle},
			},
		})
	}

	r.chart.PushAll(bars)
	r.chart.Draw()
}

func (r reportsModel) view() string {
	w := r.width - 4

	dailyTab := inactiveTabStyle.Render("Daily")
	weeklyTab := inactiveTabStyle.Render("Weekly")
	if r.mode == reportDaily {
		dailyTab = activeTabStyle.Render("Daily")
	} else {
		weeklyTab = activeTabStyle.Render("Weekly")
	}
	modeTabs := lipgloss.JoinHorizontal(lipgloss.Bottom, dailyTab, weeklyTab)

	from, to := r.dateRange()
	dateLabel := mutedStyle.Render(fmt.Sprintf("%s - %s", from.Format("Jan 02"), to.Add(-24*time.Hour).Format("Jan 02, 2006")))

	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Reports"), "  ", modeTabs, "  ", dateLabel,
	)

	legend := "  " + lipgloss.NewStyle().Foreground(colorAccent).Render("●") + " pomodoros  " +
		lipgloss.NewStyle().Foreground(colorSecondary).Render("●") + " breaks"

	nav := mutedStyle.Render("  ←/→: navigate  enter: switch mode")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "", r.chart.View(), "", legend, "", r.renderSummaryTable(w), "", nav,
		),
	)
}

func (r reportsModel) renderSummaryTable(w int) string {
	if len(r.summaries) == 0 {
		return mutedStyle.Render("  No data for this period")
	}

	var rows []string
	headerRow := mutedStyle.Render(fmt.Sprintf("  %-12s %9s %10s %7s %10s %9s %6s",
		"Date", "Pomodoros", "Focused", "Breaks", "Break time", "Skipped", "Locks"))
	rows = append(rows, headerRow)
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", min(w-6, 71))))

	var total store.DailySummary
	for _, s := range r.summaries {
		rows = append(rows, fmt.Sprintf("  %-12s %9d %10s %7d %10s %9d %6d",
			s.Date, s.CompletedPomodoros, formatSeconds(s.WorkSeconds),
			s.ShortBreaks+s.LongBreaks, formatSeconds(s.BreakSeconds),
			s.CancelledBreaks, s.ScreenLocks+s.ScreensaverActivations,
		))
		total.CompletedPomodoros += s.CompletedPomodoros
		total.WorkSeconds += s.WorkSeconds
		total.StayUpLate += s.StayUpLate
	}

	rows = append(rows, "")
	rows = append(rows, highlightStyle.Render(fmt.Sprintf("  %d pomodoros, %s focused, stay-up limit hit %d times",
		total.CompletedPomodoros, formatHours(total.WorkSeconds), total.StayUpLate)))

	return strings.Join(rows, "\n")
}
