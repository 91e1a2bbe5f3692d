package view

import (
	"bytes"
	"strings"
	"testing"

	"todo-client/internal/domain"
	"todo-client/internal/service"
)

func TestTodosEmptyState(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf)

	r.Todos(nil, "")
	r.Todos([]domain.Todo{}, "")
	if got := strings.Count(buf.String(), EmptyTodos); got != 2 {
		t.Fatalf("expected empty state twice, got %q", buf.String())
	}
}

func TestTodosKeepsOrderAndShowsDay(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf)

	r.Todos([]domain.Todo{
		{ID: "b", Tag: "work", Description: "second", Date: "2024-03-09T10:00:00Z"},
		{ID: "a", Tag: "home", Description: "first", Date: "2024-03-08"},
	}, "Failed to fetch todos")

	out := buf.String()
	if !strings.Contains(out, "Failed to fetch todos") {
		t.Fatalf("missing inline error: %q", out)
	}
	if !strings.Contains(out, "2024-03-09") || strings.Contains(out, "T10:00") {
		t.Fatalf("date must be cut to the day: %q", out)
	}
	if strings.Index(out, "second") > strings.Index(out, "first") {
		t.Fatalf("order not kept: %q", out)
	}
	if !strings.Contains(out, "1. [work] second") {
		t.Fatalf("unexpected row format: %q", out)
	}
}

func TestCountdownLine(t *testing.T) {
	r := NewRenderer(&bytes.Buffer{})
	if got := r.Countdown(180); !strings.Contains(got, "3:00") {
		t.Fatalf("unexpected line %q", got)
	}
	if got := r.Countdown(0); !strings.Contains(got, "expired") {
		t.Fatalf("unexpected line %q", got)
	}
}

func TestNoticeAndFeedback(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf)

	r.Notify(domain.Notice{Channel: domain.ChannelToast, Level: domain.LevelSuccess, Message: "sent"})
	r.Notice(domain.Notice{Channel: domain.ChannelAlert, Level: domain.LevelError, Message: "Error saving todo"})
	r.Notice(domain.Notice{Channel: domain.ChannelInline, Message: "  "})
	r.Feedback(service.Feedback{Error: "Login failed"})
	r.Feedback(service.Feedback{})

	out := buf.String()
	for _, want := range []string{"» sent", "Error saving todo", "Login failed"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in %q", want, out)
		}
	}
	if lines := strings.Count(out, "\n"); lines < 3 {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestPrintKeepsPromptOnSameLine(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf)
	r.Print("Email: ")
	r.Println("a@x.com")
	if got := buf.String(); got != "Email: a@x.com\n" {
		t.Fatalf("unexpected output %q", got)
	}
}
