package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/akolanti/ragassistant/internal/rag"
)

type stubService struct {
	indexed  string
	resetErr error
}

func (s *stubService) Index(ctx context.Context, dir string) rag.IndexReport {
	s.indexed = dir
	return rag.IndexReport{Directory: dir, Loaded: 2, Added: 5}
}

func (s *stubService) Query(ctx context.Context, question string) rag.QueryResult {
	return rag.QueryResult{Answer: "Revenue grew.\nSources:\n- data/raw/report.txt\n"}
}

func (s *stubService) Reset(ctx context.Context) error { return s.resetErr }

func (s *stubService) Count(ctx context.Context) (int, error) { return 5, nil }

// send feeds msg to the model and runs the command it returns, once.
func send(t *testing.T, m tea.Model, msg tea.Msg) tea.Model {
	t.Helper()
	m, cmd := m.Update(msg)
	if cmd != nil {
		if out := cmd(); out != nil {
			if _, isBatch := out.(tea.BatchMsg); !isBatch {
				m, _ = m.Update(out)
			}
		}
	}
	return m
}

func typeLine(t *testing.T, m tea.Model, line string) tea.Model {
	t.Helper()
	model := m.(Model)
	model.input.SetValue(line)
	return send(t, model, tea.KeyMsg{Type: tea.KeyEnter})
}

func TestQueryAppendsTurn(t *testing.T) {
	var m tea.Model = New(&stubService{}, "data/raw")
	m = send(t, m, tea.WindowSizeMsg{Width: 80, Height: 30})

	m = typeLine(t, m, "How did revenue change?")

	model := m.(Model)
	if len(model.turns) != 1 || model.turns[0].question != "How did revenue change?" {
		t.Fatalf("expected one turn, got %+v", model.turns)
	}
	if model.busy {
		t.Error("model should be idle after the answer arrives")
	}
	if !strings.Contains(model.View(), "Revenue grew.") {
		t.Errorf("answer missing from view:\n%s", model.View())
	}
	if model.input.Value() != "" {
		t.Error("input should be cleared after submit")
	}
}

func TestCommands(t *testing.T) {
	svc := &stubService{}
	var m tea.Model = New(svc, "docs")
	m = send(t, m, tea.WindowSizeMsg{Width: 80, Height: 30})

	m = typeLine(t, m, "/index")
	if svc.indexed != "docs" || !strings.Contains(m.(Model).status, "5 chunks stored") {
		t.Errorf("unexpected index status %q", m.(Model).status)
	}

	m = typeLine(t, m, "/count")
	if m.(Model).status != "5 chunks stored" {
		t.Errorf("unexpected count status %q", m.(Model).status)
	}

	svc.resetErr = errors.New("locked")
	m = typeLine(t, m, "/reset")
	if !strings.HasPrefix(m.(Model).status, "Reset failed") {
		t.Errorf("unexpected reset status %q", m.(Model).status)
	}

	m = typeLine(t, m, "/bogus")
	if !strings.HasPrefix(m.(Model).status, "Unknown command") || m.(Model).busy {
		t.Errorf("unexpected status %q", m.(Model).status)
	}
	if len(m.(Model).turns) != 0 {
		t.Error("commands are not chat turns")
	}
}
