package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"gocst/internal/driver"
)

// maxVisible bounds the file rows drawn; the rest is summarised.
const maxVisible = 20

type progressModel struct {
	title   string
	events  <-chan driver.Event
	spinner spinner.Model
	prog    progress.Model
	items   []fileItem
	index   map[string]int
	width   int
	done    bool
	started time.Time

	finished, cached, failed int
}

type fileItem struct {
	path    string
	status  driver.Status
	stage   driver.Stage
	elapsed time.Duration
}

type eventMsg driver.Event
type doneMsg struct{}

// NewProgressModel returns a Bubble Tea model that renders per-file progress
// of a driver run. The model quits when events is closed.
func NewProgressModel(title string, files []string, events <-chan driver.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 76

	items := make([]fileItem, len(files))
	index := make(map[string]int, len(files))
	for i, file := range files {
		items[i] = fileItem{path: file, status: driver.StatusQueued}
		index[file] = i
	}
	return &progressModel{
		title:   title,
		events:  events,
		spinner: sp,
		prog:    prog,
		items:   items,
		index:   index,
		width:   80,
		started: time.Now(),
	}
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listenForEvent())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		cmd := m.applyEvent(driver.Event(msg))
		return m, tea.Batch(cmd, m.listenForEvent())
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			return m, tea.Quit
		}
		return m, nil
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.prog.Width = max(10, msg.Width-4)
		}
		return m, nil
	case progress.FrameMsg:
		pm, cmd := m.prog.Update(msg)
		m.prog = pm.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) View() string {
	if len(m.items) == 0 {
		return ""
	}
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	header := fmt.Sprintf("%s %d/%d", m.title, m.finished, len(m.items))
	if m.done {
		header = fmt.Sprintf("done: %s in %s", header, time.Since(m.started).Round(time.Millisecond))
	} else {
		header = m.spinner.View() + " " + header
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n\n")

	const statusWidth = 10
	nameWidth := max(20, m.width-statusWidth-14)

	shown := 0
	for _, item := range m.visibleItems() {
		label := statusLabel(item.stage, item.status)
		status := styleStatus(item.status).Render(fmt.Sprintf("%*s", statusWidth, label))
		line := fmt.Sprintf("  %s %s", status, truncate(item.path, nameWidth))
		if item.elapsed > 0 {
			line += lipgloss.NewStyle().Faint(true).Render(" " + item.elapsed.Round(time.Microsecond).String())
		}
		b.WriteString(line)
		b.WriteString("\n")
		shown++
	}
	if rest := len(m.items) - shown; rest > 0 {
		fmt.Fprintf(&b, "  … %d more\n", rest)
	}

	b.WriteString("\n")
	if m.done {
		b.WriteString(m.prog.ViewAs(1.0))
	} else {
		b.WriteString(m.prog.View())
	}
	fmt.Fprintf(&b, "\n  %d parsed, %d cached, %d failed\n", m.finished-m.cached-m.failed, m.cached, m.failed)
	return b.String()
}

// visibleItems prefers files in flight and failures over finished ones.
func (m *progressModel) visibleItems() []fileItem {
	if len(m.items) <= maxVisible {
		return m.items
	}
	out := make([]fileItem, 0, maxVisible)
	for _, pass := range []func(fileItem) bool{
		func(it fileItem) bool { return it.status == driver.StatusWorking || it.status == driver.StatusError },
		func(it fileItem) bool { return it.status == driver.StatusQueued },
	} {
		for _, it := range m.items {
			if len(out) == maxVisible {
				return out
			}
			if pass(it) {
				out = append(out, it)
			}
		}
	}
	return out
}

func (m *progressModel) listenForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *progressModel) applyEvent(ev driver.Event) tea.Cmd {
	if ev.File == "" {
		return nil
	}
	idx, ok := m.index[ev.File]
	if !ok {
		return nil
	}
	item := &m.items[idx]
	wasFinished := item.status == driver.StatusDone || item.status == driver.StatusCached || item.status == driver.StatusError
	item.status = ev.Status
	item.stage = ev.Stage
	item.elapsed = ev.Elapsed

	if ev.Finished() && !wasFinished {
		m.finished++
		switch ev.Status {
		case driver.StatusCached:
			m.cached++
		case driver.StatusError:
			m.failed++
		}
	}
	return m.prog.SetPercent(float64(m.finished) / float64(len(m.items)))
}

func statusLabel(stage driver.Stage, status driver.Status) string {
	switch status {
	case driver.StatusWorking:
		switch stage {
		case driver.StageLoad:
			return "loading"
		case driver.StageLex:
			return "lexing"
		default:
			return "parsing"
		}
	case driver.StatusQueued, driver.StatusDone, driver.StatusCached, driver.StatusError:
		return string(status)
	default:
		return ""
	}
}

func styleStatus(status driver.Status) lipgloss.Style {
	switch status {
	case driver.StatusDone:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	case driver.StatusCached:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	case driver.StatusError:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	case driver.StatusWorking:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	}
}

func truncate(value string, width int) string {
	if width <= 0 || runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	// обрезаем слева: конец пути информативнее начала
	runes := []rune(value)
	for i := range runes {
		tail := string(runes[i:])
		if runewidth.StringWidth(tail) <= width-3 {
			return "..." + tail
		}
	}
	return runewidth.Truncate(value, width, "")
}
