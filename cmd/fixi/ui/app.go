package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"coinfixi/internal/admin"
	"coinfixi/internal/session"
)

// SessionChangedMsg is sent when the session file changes on disk.
type SessionChangedMsg struct {
	Session *session.Session
}

// RefreshMsg reloads the active page, for timed refresh.
type RefreshMsg struct{}

// App is the root model: a tab per page plus a toast area.
type App struct {
	pages  []Page
	active int
	styles Styles
	toast  toast

	operator string
	baseURL  string
	width    int
	height   int
}

// NewApp builds the console over pages. pages must not be empty.
func NewApp(pages []Page, styles Styles, operator, baseURL string) *App {
	return &App{
		pages:    pages,
		styles:   styles,
		operator: operator,
		baseURL:  baseURL,
	}
}

// Active returns the selected page.
func (a *App) Active() Page { return a.pages[a.active] }

func (a *App) Init() tea.Cmd {
	return a.Active().Activate()
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		for _, p := range a.pages {
			p.SetSize(msg.Width, msg.Height-4)
		}
		return a, nil

	case ToastMsg:
		return a, a.toast.show(msg)

	case toastExpiredMsg:
		a.toast.expire(msg)
		return a, nil

	case RefreshMsg:
		return a, a.Active().Refresh()

	case SessionChangedMsg:
		if msg.Session == nil || !msg.Session.Authenticated() {
			a.operator = ""
			return a, a.toast.show(ToastMsg{Text: "Logged out elsewhere. Run fixi login.", Tone: admin.ToneWarning})
		}
		a.operator = msg.Session.User().Email
		return a, tea.Batch(
			a.toast.show(ToastMsg{Text: "Session updated: " + a.operator, Tone: admin.ToneInfo}),
			a.Active().Refresh(),
		)

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return a, tea.Quit
		}
		if !a.Active().Capturing() {
			switch key := msg.String(); key {
			case "q":
				return a, tea.Quit
			case "tab":
				return a, a.selectPage((a.active + 1) % len(a.pages))
			case "shift+tab":
				return a, a.selectPage((a.active - 1 + len(a.pages)) % len(a.pages))
			case "1", "2", "3", "4", "5", "6", "7", "8", "9":
				if i := int(key[0] - '1'); i < len(a.pages) {
					return a, a.selectPage(i)
				}
				return a, nil
			}
		}
		p, cmd := a.Active().Update(msg)
		a.pages[a.active] = p
		return a, cmd
	}

	// Everything else (load results, spinner ticks, action results) is
	// broadcast; pages ignore messages that are not theirs.
	var cmds []tea.Cmd
	for i, p := range a.pages {
		np, cmd := p.Update(msg)
		a.pages[i] = np
		cmds = append(cmds, cmd)
	}
	return a, tea.Batch(cmds...)
}

func (a *App) selectPage(i int) tea.Cmd {
	a.active = i
	return a.Active().Activate()
}

func (a *App) View() string {
	var sb strings.Builder

	who := a.operator
	if who == "" {
		who = "not logged in"
	}
	sb.WriteString(a.styles.Header.Render(fmt.Sprintf("Coinfixi Admin · %s · %s", who, a.baseURL)))
	sb.WriteString("\n")

	tabs := make([]string, len(a.pages))
	for i, p := range a.pages {
		label := fmt.Sprintf("%d %s", i+1, p.Title())
		if i == a.active {
			tabs[i] = a.styles.ActiveTab.Render(label)
		} else {
			tabs[i] = a.styles.Tab.Render(label)
		}
	}
	sb.WriteString(strings.Join(tabs, ""))
	sb.WriteString("\n")
	sb.WriteString(a.styles.RenderDivider(a.width))
	sb.WriteString("\n")

	sb.WriteString(a.styles.Content.Render(a.Active().View()))
	sb.WriteString("\n")
	if t := a.toast.View(a.styles); t != "" {
		sb.WriteString(t)
		sb.WriteString("\n")
	}
	sb.WriteString(a.styles.Footer.Render("tab/1-9 switch • q quit"))
	return sb.String()
}
