// Package view dibuja el estado de los flujos en la terminal.
package view

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"todo-client/internal/domain"
	"todo-client/internal/service"
)

// EmptyTodos se muestra cuando la lista es null o vacia.
const EmptyTodos = "No todos available."

type styles struct {
	success lipgloss.Style
	failure lipgloss.Style
	info    lipgloss.Style
	alert   lipgloss.Style
	tag     lipgloss.Style
	date    lipgloss.Style
	id      lipgloss.Style
	header  lipgloss.Style
	clock   lipgloss.Style
	expired lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		success: r.NewStyle().Foreground(lipgloss.Color("42")),
		failure: r.NewStyle().Foreground(lipgloss.Color("196")),
		info:    r.NewStyle().Foreground(lipgloss.Color("245")),
		alert:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("196")).Border(lipgloss.RoundedBorder()).Padding(0, 1),
		tag:     r.NewStyle().Bold(true).Foreground(lipgloss.Color("63")),
		date:    r.NewStyle().Foreground(lipgloss.Color("245")),
		id:      r.NewStyle().Faint(true),
		header:  r.NewStyle().Bold(true),
		clock:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("214")),
		expired: r.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
	}
}

// Renderer escribe en out. Es seguro usarlo desde varias goroutines,
// por ejemplo el tick de la cuenta regresiva y el prompt.
type Renderer struct {
	mu     sync.Mutex
	out    io.Writer
	styles styles
}

func NewRenderer(out io.Writer) *Renderer {
	return &Renderer{out: out, styles: newStyles(lipgloss.NewRenderer(out))}
}

// Notify implementa domain.Notifier.
func (r *Renderer) Notify(n domain.Notice) {
	r.Notice(n)
}

func (r *Renderer) Notice(n domain.Notice) {
	if strings.TrimSpace(n.Message) == "" {
		return
	}
	var line string
	switch n.Channel {
	case domain.ChannelAlert:
		line = r.styles.alert.Render(n.Message)
	default:
		line = r.levelStyle(n.Level).Render(n.Message)
		if n.Channel == domain.ChannelToast {
			line = "» " + line
		}
	}
	r.println(line)
}

// Todos dibuja la lista en el orden recibido, numerada desde 1.
func (r *Renderer) Todos(items []domain.Todo, errMsg string) {
	var b strings.Builder
	if errMsg != "" {
		b.WriteString(r.styles.failure.Render(errMsg))
		b.WriteString("\n")
	}
	if len(items) == 0 {
		b.WriteString(r.styles.info.Render(EmptyTodos))
		r.println(b.String())
		return
	}
	width := len(fmt.Sprint(len(items)))
	for i, t := range items {
		fmt.Fprintf(&b, "%*d. %s %s  %s  %s",
			width, i+1,
			r.styles.tag.Render("["+t.Tag+"]"),
			t.Description,
			r.styles.date.Render(t.Day()),
			r.styles.id.Render(t.ID),
		)
		if i < len(items)-1 {
			b.WriteString("\n")
		}
	}
	r.println(b.String())
}

// Countdown devuelve la linea del prompt OTP con el tiempo restante.
func (r *Renderer) Countdown(remaining int) string {
	if remaining <= 0 {
		return r.styles.expired.Render("Code expired, request a new one")
	}
	return "Code expires in " + r.styles.clock.Render(service.FormatClock(remaining))
}

// Feedback muestra el mensaje del formulario de login o registro.
func (r *Renderer) Feedback(f service.Feedback) {
	switch {
	case f.Error != "":
		r.println(r.styles.failure.Render(f.Error))
	case f.Success != "":
		r.println(r.styles.success.Render(f.Success))
	}
}

// Identity muestra el usuario de la sesion y su indicador de verificacion.
func (r *Renderer) Identity(email string, verified bool) {
	status := r.styles.failure.Render("unverified")
	if verified {
		status = r.styles.success.Render("verified")
	}
	r.println(r.styles.header.Render(email) + " " + status)
}

func (r *Renderer) Println(s string) {
	r.println(s)
}

// Print escribe sin salto de linea, para etiquetas de prompt.
func (r *Renderer) Print(s string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprint(r.out, s)
}

func (r *Renderer) levelStyle(level domain.Level) lipgloss.Style {
	switch level {
	case domain.LevelSuccess:
		return r.styles.success
	case domain.LevelError:
		return r.styles.failure
	default:
		return r.styles.info
	}
}

func (r *Renderer) println(s string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintln(r.out, s)
}
