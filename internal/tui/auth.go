package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kickstats/kickstats/pkg/client"
	"github.com/kickstats/kickstats/pkg/domain"
	"github.com/kickstats/kickstats/pkg/session"
)

type authMode int

const (
	authLogin authMode = iota
	authRegister
)

const (
	fieldEmail = iota
	fieldUsername
	fieldPassword
)

// loggedInMsg reports a session that has been stored.
type loggedInMsg struct {
	gen  int
	user domain.User
	err  error
}

type authModel struct {
	client *client.Client
	store  *session.Store
	scope  viewScope

	mode       authMode
	fields     [3]string
	focus      int
	submitting bool
	errMsg     string
	notice     string
}

func newAuthModel(c *client.Client, s *session.Store) authModel {
	return authModel{client: c, store: s}
}

func (m *authModel) mount() tea.Cmd {
	m.scope.mount()
	m.submitting = false
	m.errMsg = ""
	m.fields[fieldPassword] = ""
	m.focus = fieldEmail
	return nil
}

func (m *authModel) unmount() {
	m.scope.unmount()
	m.submitting = false
	m.notice = ""
}

// order lists the fields visible in the current mode.
func (m authModel) order() []int {
	if m.mode == authRegister {
		return []int{fieldEmail, fieldUsername, fieldPassword}
	}
	return []int{fieldEmail, fieldPassword}
}

func (m *authModel) step(delta int) {
	order := m.order()
	pos := 0
	for i, f := range order {
		if f == m.focus {
			pos = i
		}
	}
	pos = (pos + delta + len(order)) % len(order)
	m.focus = order[pos]
}

func (m authModel) Update(msg tea.Msg) (authModel, tea.Cmd) {
	switch msg := msg.(type) {
	case loggedInMsg:
		if !m.scope.current(msg.gen) {
			return m, nil
		}
		m.submitting = false
		if msg.err != nil {
			fallback := "Invalid email or password"
			if m.mode == authRegister {
				fallback = "Registration failed"
			}
			m.errMsg = client.Message(msg.err, fallback)
			return m, nil
		}
		m.fields = [3]string{}
		m.errMsg = ""

	case tea.KeyMsg:
		if m.submitting {
			return m, nil
		}
		switch msg.String() {
		case "tab", "down":
			m.step(1)
		case "shift+tab", "up":
			m.step(-1)
		case "ctrl+t":
			if m.mode == authLogin {
				m.mode = authRegister
			} else {
				m.mode = authLogin
				if m.focus == fieldUsername {
					m.focus = fieldEmail
				}
			}
			m.errMsg = ""
		case "enter":
			order := m.order()
			if m.focus != order[len(order)-1] {
				m.step(1)
				return m, nil
			}
			return m, m.submit()
		default:
			m.fields[m.focus] = editRune(m.fields[m.focus], msg.String())
		}
	}
	return m, nil
}

func (m *authModel) submit() tea.Cmd {
	email := strings.TrimSpace(m.fields[fieldEmail])
	username := strings.TrimSpace(m.fields[fieldUsername])
	password := m.fields[fieldPassword]
	switch {
	case email == "" || password == "":
		m.errMsg = "Email and password are required"
		return nil
	case m.mode == authRegister && username == "":
		m.errMsg = "Choose a username"
		return nil
	}
	m.errMsg = ""
	m.submitting = true

	c, s, ctx, gen, mode := m.client, m.store, m.scope.context(), m.scope.gen, m.mode
	return func() tea.Msg {
		var (
			resp *domain.AuthResponse
			err  error
		)
		if mode == authRegister {
			resp, err = c.Register(ctx, email, username, password)
		} else {
			resp, err = c.Login(ctx, email, password)
		}
		if err != nil {
			return loggedInMsg{gen: gen, err: err}
		}
		if err := s.Login(resp.User, resp.AccessToken); err != nil {
			return loggedInMsg{gen: gen, err: err}
		}
		return loggedInMsg{gen: gen, user: resp.User}
	}
}

func (m authModel) View() string {
	var sb strings.Builder
	title, other := "SIGN IN", "create an account"
	if m.mode == authRegister {
		title, other = "CREATE ACCOUNT", "sign in instead"
	}
	sb.WriteString(" " + sectionHeaderStyle.Render(title) + "\n")
	if m.notice != "" {
		sb.WriteString(" " + noticeStyle.Render(m.notice) + "\n")
	}
	sb.WriteString("\n")

	sb.WriteString(renderField("Email", m.fields[fieldEmail], "you@example.com", m.focus == fieldEmail, false) + "\n")
	if m.mode == authRegister {
		sb.WriteString(renderField("Username", m.fields[fieldUsername], "pick a name", m.focus == fieldUsername, false) + "\n")
	}
	sb.WriteString(renderField("Password", m.fields[fieldPassword], "", m.focus == fieldPassword, true) + "\n\n")

	switch {
	case m.submitting:
		sb.WriteString(" " + dimStyle.Render("signing in...") + "\n")
	case m.errMsg != "":
		sb.WriteString(" " + errorStyle.Render(m.errMsg) + "\n")
	}

	sb.WriteString("\n " + helpEntry("enter", "submit") + "  " + helpEntry("tab", "next field") +
		"  " + helpEntry("ctrl+t", other) + "  " + helpEntry("esc", "back") + "\n")
	return sb.String()
}
