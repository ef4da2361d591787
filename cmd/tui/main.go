// Command tui plays tic-tac-toe against the engine in the terminal.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/romancitodev/tic-tac-toe-go/internal/ai"
	"github.com/romancitodev/tic-tac-toe-go/internal/domain"
)

var (
	boardStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	cursorStyle = lipgloss.NewStyle().Reverse(true)
	xStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	oStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	statusStyle = lipgloss.NewStyle().Faint(true)
)

type model struct {
	game   domain.Game
	engine ai.Engine
	first  domain.Cell
	row    int
	col    int
}

func initialModel(first domain.Cell) model {
	return model{
		game:   domain.New(),
		engine: ai.New(domain.Computer),
		first:  first,
		row:    1,
		col:    1,
	}
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "up", "k":
			if m.row > 0 {
				m.row--
			}
		case "down", "j":
			if m.row < 2 {
				m.row++
			}
		case "left", "h":
			if m.col > 0 {
				m.col--
			}
		case "right", "l":
			if m.col < 2 {
				m.col++
			}
		case "r":
			m.game = m.game.Reset()
		case "enter", " ":
			m.place()
		}
	}
	return m, nil
}

// place handles the human's selection: it starts a Ready round (letting the
// engine open when it moves first), applies the human move, and has the
// engine answer.
func (m *model) place() {
	if m.game.Phase().Kind == domain.Ready {
		m.game.Start(m.first)
		m.engineMove()
	}
	ph := m.game.Phase()
	if !ph.Playable() || ph.Player != domain.Human {
		return
	}
	m.game.Play(m.row, m.col)
	m.engineMove()
}

func (m *model) engineMove() {
	ph := m.game.Phase()
	if ph.Kind != domain.Playing || ph.Player != domain.Computer {
		return
	}
	r, c := m.engine.BestMove(m.game.Board())
	m.game.Play(r, c)
}

func (m model) View() string {
	b := m.game.Board()
	ph := m.game.Phase()

	rows := make([]string, 0, 3)
	for r := 0; r < 3; r++ {
		cells := make([]string, 0, 3)
		for c := 0; c < 3; c++ {
			s := cellView(b.At(r, c))
			if r == m.row && c == m.col && !ph.Finished() {
				s = cursorStyle.Render(stripStyle(b.At(r, c)))
			}
			cells = append(cells, s)
		}
		rows = append(rows, strings.Join(cells, " "))
	}

	var sb strings.Builder
	sb.WriteString(boardStyle.Render(strings.Join(rows, "\n")))
	sb.WriteString("\n")
	sb.WriteString(statusStyle.Render(status(ph)))
	sb.WriteString("\n")
	sb.WriteString(statusStyle.Render("arrows move, enter places, r resets, q quits"))
	sb.WriteString("\n")
	return sb.String()
}

func cellView(c domain.Cell) string {
	switch c {
	case domain.Computer:
		return xStyle.Render("X")
	case domain.Human:
		return oStyle.Render("O")
	default:
		return "·"
	}
}

// stripStyle renders the cell under the cursor without its color so the
// reverse-video cursor stays readable.
func stripStyle(c domain.Cell) string {
	switch c {
	case domain.Computer:
		return "X"
	case domain.Human:
		return "O"
	default:
		return "·"
	}
}

func status(ph domain.Phase) string {
	switch ph.Kind {
	case domain.Ready:
		return "press enter to start"
	case domain.Retry:
		return "that cell is taken, go again"
	case domain.Won:
		if ph.Player == domain.Computer {
			return "Computer Won!"
		}
		return "Human Won!"
	case domain.Draw:
		return "It's a draw!"
	}
	return "your move"
}

func main() {
	first := flag.String("first", "computer", "who opens each round: computer or human")
	flag.Parse()

	f := domain.Computer
	if *first == "human" {
		f = domain.Human
	}

	if _, err := tea.NewProgram(initialModel(f)).Run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
