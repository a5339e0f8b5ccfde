// Package tui provides the Bubble Tea typing interface.
package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/typetest/internal/model"
	"github.com/verte-zerg/typetest/internal/stats"
	"github.com/verte-zerg/typetest/internal/typing"
)

const tickInterval = 100 * time.Millisecond

// History loads earlier results for the footer.
type History interface {
	ListResults(ctx context.Context, cfg model.StatsConfig) ([]model.Result, error)
}

type tickMsg time.Time

type keyMap struct {
	Restart key.Binding
	Quit    key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Restart, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

var keys = keyMap{
	Restart: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "new test")),
	Quit:    key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
}

// Model implements the Bubble Tea typing UI.
type Model struct {
	ctx     context.Context
	engine  *typing.Engine
	history History

	width  int
	height int

	buffer  []rune
	ticking bool
	notice  string

	progress progress.Model
	help     help.Model

	past     []model.Result
	hasLast  bool
	lastWPM  float64
	lastAcc  float64
	allTime  stats.Summary
	finished *model.Result
	saveErr  error
}

var (
	correctStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	incorrectStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	extraStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#A8071A"))
	pendingStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	currentWordStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	cursorStyle      = pendingStyle.Underline(true)
	footerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	liveStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	headingStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	savedStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A"))
	notSavedStyle    = incorrectStyle
)

// NewModel constructs a typing TUI model over engine. history may be nil.
func NewModel(ctx context.Context, engine *typing.Engine, history History) *Model {
	m := &Model{
		ctx:      ctx,
		engine:   engine,
		history:  history,
		progress: progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		help:     help.New(),
	}
	m.loadFooterStats()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = max(10, m.contentWidth())
		return m, nil
	case tickMsg:
		return m, m.handleTick()
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, keys.Restart):
			m.restart()
			return m, nil
		}
		switch msg.Type {
		case tea.KeyBackspace, tea.KeyDelete:
			if len(m.buffer) == 0 {
				return m, nil
			}
			return m, m.setBuffer(m.buffer[:len(m.buffer)-1])
		case tea.KeySpace:
			return m, m.appendRunes([]rune{' '})
		case tea.KeyRunes:
			return m, m.appendRunes(msg.Runes)
		default:
			return m, nil
		}
	default:
		return m, nil
	}
}

func (m *Model) appendRunes(runes []rune) tea.Cmd {
	next := make([]rune, 0, len(m.buffer)+len(runes))
	next = append(next, m.buffer...)
	next = append(next, runes...)
	return m.setBuffer(next)
}

// setBuffer forwards a buffer snapshot and mirrors what the session accepted.
func (m *Model) setBuffer(next []rune) tea.Cmd {
	session := m.engine.Session()
	if session.Status() == typing.Finished {
		return nil
	}
	err := m.engine.Input(m.ctx, string(next))
	m.buffer = []rune(session.Typed())
	return m.afterTransition(session, err, false)
}

func (m *Model) handleTick() tea.Cmd {
	session := m.engine.Session()
	if session.Status() != typing.Active {
		m.ticking = false
		return nil
	}
	err := m.engine.Tick(m.ctx)
	return m.afterTransition(session, err, true)
}

// afterTransition keeps a single tick loop alive while the session is active.
func (m *Model) afterTransition(session *typing.Session, err error, fromTick bool) tea.Cmd {
	switch session.Status() {
	case typing.Finished:
		m.ticking = false
		m.recordFinish(session, err)
		return nil
	case typing.Active:
		if m.ticking && !fromTick {
			return nil
		}
		m.ticking = true
		return tickCmd()
	default:
		return nil
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *Model) recordFinish(session *typing.Session, err error) {
	if m.finished != nil {
		return
	}
	res, ok := session.Result()
	if !ok {
		return
	}
	m.finished = &res
	m.saveErr = session.SaveErr()
	if err != nil && !errors.Is(err, typing.ErrResultNotSaved) {
		slog.Warn("unexpected finish error", "err", err)
	}
	if m.saveErr != nil {
		slog.Warn("failed to save result", "id", res.ID, "err", m.saveErr)
	}
	m.past = append(m.past, res)
	m.lastWPM = res.WPM
	m.lastAcc = res.Accuracy
	m.hasLast = true
	m.allTime = stats.Summarize(m.past)
}

func (m *Model) restart() {
	if err := m.engine.Restart(); err != nil {
		m.notice = fmt.Sprintf("failed to start a new test: %v", err)
		slog.Warn("failed to restart test", "err", err)
		return
	}
	m.notice = ""
	m.buffer = nil
	m.finished = nil
	m.saveErr = nil
}

func (m *Model) loadFooterStats() {
	if m.history == nil {
		return
	}
	cfg := m.engine.Session().Config()
	results, err := m.history.ListResults(m.ctx, model.StatsConfig{User: cfg.User, Lang: cfg.Lang})
	if err != nil {
		slog.Warn("failed to load result history", "err", err)
		return
	}
	m.past = results
	if len(results) == 0 {
		return
	}
	last := results[len(results)-1]
	m.lastWPM = last.WPM
	m.lastAcc = last.Accuracy
	m.hasLast = true
	m.allTime = stats.Summarize(results)
}

// View implements tea.Model.
func (m *Model) View() string {
	var content string
	if m.finished != nil {
		content = m.renderFinish()
	} else {
		content = m.renderTest()
	}
	if m.notice != "" {
		content += "\n\n" + incorrectStyle.Render(m.notice)
	}
	if m.width == 0 || m.height == 0 {
		return content
	}
	footer := m.renderFooter()
	if footer == "" || m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	body := lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

func (m *Model) contentWidth() int {
	return max(1, int(float64(m.width)*0.70))
}

func (m *Model) renderTest() string {
	session := m.engine.Session()
	reference := []rune(session.Reference())
	statuses := session.Statuses()
	cursorIndex := len(m.buffer)
	if cursorIndex >= len(reference) {
		cursorIndex = -1
	}
	styled := buildStyledRunes(reference, m.buffer, statuses, cursorIndex)

	text := renderStyledRunes(styled)
	if m.width > 0 {
		text = lipgloss.NewStyle().Width(m.contentWidth()).Render(wrapStyledRunes(styled, m.contentWidth()))
	}
	return strings.Join([]string{
		liveStyle.Render(m.liveLine(session)),
		m.progress.ViewAs(m.progressFraction(session)),
		"",
		text,
	}, "\n")
}

func (m *Model) liveLine(session *typing.Session) string {
	live := session.Live()
	cfg := session.Config()
	segments := []string{}
	switch cfg.Mode {
	case model.ModeTime:
		left := m.engine.Remaining()
		segments = append(segments, fmt.Sprintf("%ds", int(math.Ceil(left.Seconds()))))
	case model.ModeWords:
		segments = append(segments, fmt.Sprintf("%d/%d", typedWords(m.buffer), cfg.WordCount))
	}
	if session.Status() == typing.NotStarted {
		segments = append(segments, "start typing")
	} else {
		segments = append(segments,
			fmt.Sprintf("%.0f wpm", live.WPM),
			fmt.Sprintf("%.0f%%", live.Accuracy),
		)
	}
	return strings.Join(segments, "  ")
}

func (m *Model) progressFraction(session *typing.Session) float64 {
	cfg := session.Config()
	if cfg.Mode == model.ModeTime {
		limit := time.Duration(cfg.TimeLimit) * time.Second
		if limit <= 0 {
			return 0
		}
		return clamp01(float64(limit-m.engine.Remaining()) / float64(limit))
	}
	total := len([]rune(session.Reference()))
	if total == 0 {
		return 0
	}
	return clamp01(float64(len(m.buffer)) / float64(total))
}

func (m *Model) renderFinish() string {
	res := m.finished
	lines := []string{
		headingStyle.Render(fmt.Sprintf("%.2f wpm", res.WPM)),
		fmt.Sprintf("accuracy %.2f%%", res.Accuracy),
		fmt.Sprintf("raw %.2f wpm", res.RawWPM),
		fmt.Sprintf("time %.2fs", res.Elapsed),
		fmt.Sprintf("correct %d  errors %d", res.Correct, res.Incorrect),
		"",
	}
	if m.saveErr != nil {
		lines = append(lines, notSavedStyle.Render("result not saved"))
	} else {
		lines = append(lines, savedStyle.Render("result saved"))
	}
	lines = append(lines, "", m.help.View(keys))
	return strings.Join(lines, "\n")
}

func (m *Model) renderFooter() string {
	segments := []string{}
	if m.hasLast {
		segments = append(segments, fmt.Sprintf("Last %.1f WPM · %.1f%%", m.lastWPM, m.lastAcc))
	}
	if m.allTime.TestsCompleted > 0 {
		segments = append(segments, fmt.Sprintf("All-time %.1f WPM · %.1f%%", m.allTime.AverageWPM, m.allTime.AverageAccuracy))
	}
	if m.finished == nil {
		segments = append(segments, m.help.View(keys))
	}
	return footerStyle.Render(strings.Join(segments, "  "))
}

func typedWords(buffer []rune) int {
	return len(strings.Fields(string(buffer)))
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
