package tui

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"antibias-assessment/internal/model"
	"antibias-assessment/internal/report"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	categoryStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	cursorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("33"))
	chosenStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("35"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	textStyle     = lipgloss.NewStyle()
)

// Model walks through the statements one at a time. Digits answer and
// advance; arrows move the option cursor or between statements.
type Model struct {
	title     string
	scale     model.Scale
	questions []model.Question
	answers   map[int]int

	current int
	cursor  int
	width   int

	done    bool
	aborted bool
}

func New(title string, scale model.Scale, questions []model.Question) Model {
	return Model{
		title:     title,
		scale:     scale,
		questions: questions,
		answers:   make(map[int]int, len(questions)),
		width:     80,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc", "q":
			m.aborted = true
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < m.scale.Max-1 {
				m.cursor++
			}
		case "left", "h", "backspace":
			m.move(-1)
		case "right", "l", "tab":
			m.move(1)
		case "enter", " ":
			return m.answer(m.cursor + 1)
		case "s":
			if len(m.answers) > 0 {
				m.done = true
				return m, tea.Quit
			}
		default:
			if n, err := strconv.Atoi(msg.String()); err == nil && m.scale.Valid(n) {
				return m.answer(n)
			}
		}
	}
	return m, nil
}

// answer records score for the current statement and moves on, finishing
// after the last one.
func (m Model) answer(score int) (tea.Model, tea.Cmd) {
	if len(m.questions) == 0 {
		m.done = true
		return m, tea.Quit
	}
	m.answers[m.questions[m.current].ID] = score
	if m.current == len(m.questions)-1 {
		m.done = true
		return m, tea.Quit
	}
	m.move(1)
	return m, nil
}

func (m *Model) move(delta int) {
	next := m.current + delta
	if next < 0 || next >= len(m.questions) {
		return
	}
	m.current = next
	m.cursor = 0
	if score, ok := m.answers[m.questions[next].ID]; ok {
		m.cursor = score - 1
	}
}

func (m Model) View() string {
	if m.done || m.aborted || len(m.questions) == 0 {
		return ""
	}
	q := m.questions[m.current]

	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n")
	pct := len(m.answers) * 100 / len(m.questions)
	fmt.Fprintf(&b, "%s %d/%d answered\n\n", report.ProgressBar(pct, 30), len(m.answers), len(m.questions))

	b.WriteString(categoryStyle.Render(fmt.Sprintf("Statement %d of %d", m.current+1, len(m.questions))))
	b.WriteString("\n")
	b.WriteString(textStyle.Width(m.width - 2).Render(q.Text))
	b.WriteString("\n\n")

	chosen := m.answers[q.ID]
	for v := 1; v <= m.scale.Max; v++ {
		line := fmt.Sprintf("%d  %s", v, m.scale.Label(v))
		prefix := "  "
		if v-1 == m.cursor {
			prefix = cursorStyle.Render("> ")
			line = cursorStyle.Render(line)
		} else if v == chosen {
			line = chosenStyle.Render(line)
		}
		if v == chosen {
			line += chosenStyle.Render("  *")
		}
		b.WriteString(prefix + line + "\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render(fmt.Sprintf("1-%d answer  up/down choose  enter select  left/right move  s finish  q quit", m.scale.Max)))
	b.WriteString("\n")
	return b.String()
}

// Done reports whether the user finished rather than quitting.
func (m Model) Done() bool {
	return m.done && !m.aborted
}

func (m Model) Aborted() bool {
	return m.aborted
}

// Answers returns the chosen scores keyed by question id, in the form the
// scoring service accepts.
func (m Model) Answers() map[int]string {
	out := make(map[int]string, len(m.answers))
	for id, score := range m.answers {
		out[id] = strconv.Itoa(score)
	}
	return out
}
