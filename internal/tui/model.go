package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/akolanti/ragassistant/internal/config"
	"github.com/akolanti/ragassistant/internal/rag"
)

// Model is the Bubble Tea chat model. Questions go to the pipeline; lines
// starting with a slash are commands (/index, /reset, /count).
type Model struct {
	service  rag.Service
	dataDir  string
	input    textinput.Model
	viewport viewport.Model
	turns    []turn
	status   string
	busy     bool
	ready    bool
}

type turn struct {
	question string
	answer   string
}

type answerMsg struct {
	question string
	result   rag.QueryResult
}

type indexMsg struct{ report rag.IndexReport }

type resetMsg struct{ err error }

type countMsg struct {
	n   int
	err error
}

func New(service rag.Service, dataDir string) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask a question, or /index, /reset, /count"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	return Model{
		service:  service,
		dataDir:  dataDir,
		input:    ti,
		viewport: vp,
		status:   "Ready. Documents are read from " + dataDir,
	}
}

func (m Model) Init() tea.Cmd { return textinput.Blink }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, rh := transcriptBoxStyle.GetFrameSize()
		_, qh := queryBoxStyle.GetFrameSize()
		reserved := 2 + qh + 1 // header, status, spacer
		m.viewport.Width = max(20, msg.Width-2)
		m.viewport.Height = max(3, msg.Height-reserved-rh-1)
		m.refresh()
		return m, nil

	case answerMsg:
		m.busy = false
		m.turns = append(m.turns, turn{question: msg.question, answer: msg.result.Answer})
		m.status = "Answered"
		if msg.result.Err != nil {
			m.status = "Answered with errors: " + msg.result.Err.Error()
		}
		m.refresh()
		return m, nil

	case indexMsg:
		m.busy = false
		r := msg.report
		if r.Err != nil {
			m.status = "Index failed: " + r.Err.Error()
		} else {
			m.status = fmt.Sprintf("Indexed %s: %d files, %d images described, %d chunks stored, %d skipped",
				r.Directory, r.Loaded, r.Described, r.Added, len(r.Skipped))
		}
		return m, nil

	case resetMsg:
		m.busy = false
		m.status = "Knowledge base cleared"
		if msg.err != nil {
			m.status = "Reset failed: " + msg.err.Error()
		}
		return m, nil

	case countMsg:
		m.busy = false
		m.status = fmt.Sprintf("%d chunks stored", msg.n)
		if msg.err != nil {
			m.status = "Count failed: " + msg.err.Error()
		}
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		if msg.Type == tea.KeyEnter {
			return m.submit()
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	vpMsg := msg
	if _, isKey := msg.(tea.KeyMsg); isKey {
		// only arrow and page keys scroll the transcript
		vpMsg = filterScrollKeys(msg.(tea.KeyMsg))
	}
	var vpCmd tea.Cmd
	if vpMsg != nil {
		m.viewport, vpCmd = m.viewport.Update(vpMsg)
	}
	return m, tea.Batch(cmd, vpCmd)
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	line := strings.TrimSpace(m.input.Value())
	if line == "" || m.busy {
		return m, nil
	}
	m.input.SetValue("")
	m.busy = true

	switch line {
	case "/index":
		m.status = "Indexing " + m.dataDir + "..."
		return m, m.indexCmd()
	case "/reset":
		m.status = "Clearing the knowledge base..."
		return m, m.resetCmd()
	case "/count":
		return m, m.countCmd()
	}
	if strings.HasPrefix(line, "/") {
		m.busy = false
		m.status = "Unknown command " + line
		return m, nil
	}
	m.status = "Thinking..."
	return m, m.queryCmd(line)
}

func traced() context.Context {
	return context.WithValue(context.Background(), config.TRACE_ID_KEY, uuid.New().String())
}

func (m Model) queryCmd(question string) tea.Cmd {
	return func() tea.Msg {
		return answerMsg{question: question, result: m.service.Query(traced(), question)}
	}
}

func (m Model) indexCmd() tea.Cmd {
	return func() tea.Msg {
		return indexMsg{report: m.service.Index(traced(), m.dataDir)}
	}
}

func (m Model) resetCmd() tea.Cmd {
	return func() tea.Msg {
		return resetMsg{err: m.service.Reset(traced())}
	}
}

func (m Model) countCmd() tea.Cmd {
	return func() tea.Msg {
		n, err := m.service.Count(context.Background())
		return countMsg{n: n, err: err}
	}
}

func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := headerStyle.Render("Research Assistant")
	transcript := transcriptBoxStyle.Render(m.viewport.View())
	input := queryBoxStyle.Render(m.input.View())
	status := statusStyle.Render(m.status)
	return header + "\n" + transcript + "\n" + input + "\n" + status
}

func (m *Model) refresh() {
	m.viewport.SetContent(renderTranscript(m.turns, m.viewport.Width))
	m.viewport.GotoBottom()
}

func renderTranscript(turns []turn, width int) string {
	if len(turns) == 0 {
		return "No questions yet."
	}
	wrap := lipgloss.NewStyle().Width(max(10, width))
	var sb strings.Builder
	for i, t := range turns {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(questionStyle.Render("You: " + t.question))
		sb.WriteString("\n")
		sb.WriteString(wrap.Render(t.answer))
		sb.WriteString("\n")
	}
	return sb.String()
}

func filterScrollKeys(k tea.KeyMsg) tea.Msg {
	switch k.Type {
	case tea.KeyUp, tea.KeyDown, tea.KeyPgUp, tea.KeyPgDown:
		return k
	}
	return nil
}

var (
	headerStyle        = lipgloss.NewStyle().Bold(true)
	transcriptBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	questionStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	statusStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)
