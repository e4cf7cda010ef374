package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"coinfixi/internal/admin"
)

// ToastMsg asks the app to show a transient notification.
type ToastMsg struct {
	Text string
	Tone admin.Tone
}

type toastExpiredMsg struct{ id int }

// toastTTL is how long a toast stays up.
const toastTTL = 4 * time.Second

func showToast(text string, tone admin.Tone) tea.Cmd {
	return func() tea.Msg { return ToastMsg{Text: text, Tone: tone} }
}

type toast struct {
	id   int
	msg  ToastMsg
	open bool
}

func (t *toast) show(m ToastMsg) tea.Cmd {
	t.id++
	t.msg = m
	t.open = true
	id := t.id
	return tea.Tick(toastTTL, func(time.Time) tea.Msg { return toastExpiredMsg{id: id} })
}

func (t *toast) expire(m toastExpiredMsg) {
	if m.id == t.id {
		t.open = false
	}
}

func (t *toast) View(styles Styles) string {
	if !t.open {
		return ""
	}
	st := styles.Toast.BorderForeground(styles.Tone(t.msg.Tone).GetForeground())
	return st.Render(styles.Tone(t.msg.Tone).Render(t.msg.Text))
}
