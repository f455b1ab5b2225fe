package views

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dvieira/videoboard/internal/auth"
	"github.com/dvieira/videoboard/internal/ui/keys"
	"github.com/dvieira/videoboard/internal/ui/styles"
)

type loginMode int

const (
	modeLogin loginMode = iota
	modeRegister
	modeReset
)

// LoggedIn is emitted when authentication succeeds.
type LoggedIn struct {
	Email string
}

// LoginView is the sign-in screen with register and password-reset
// sub-forms.
type LoginView struct {
	auth   *auth.Service
	styles *styles.Styles
	keys   keys.KeyMap

	width  int
	height int

	mode     loginMode
	email    textinput.Model
	password textinput.Model
	confirm  textinput.Model
	focusIdx int

	errMsg  string
	infoMsg string
}

// NewLoginView creates the login screen.
func NewLoginView(authSvc *auth.Service) *LoginView {
	email := textinput.New()
	email.Placeholder = "email@domain.com"
	email.CharLimit = 100

	password := textinput.New()
	password.Placeholder = "password"
	password.CharLimit = 100
	password.EchoMode = textinput.EchoPassword

	confirm := textinput.New()
	confirm.Placeholder = "confirm password"
	confirm.CharLimit = 100
	confirm.EchoMode = textinput.EchoPassword

	v := &LoginView{
		auth:     authSvc,
		styles:   styles.NewStyles(),
		keys:     keys.DefaultKeyMap(),
		email:    email,
		password: password,
		confirm:  confirm,
	}
	v.setMode(modeLogin)
	return v
}

func (v *LoginView) Init() tea.Cmd {
	return textinput.Blink
}

// fieldCount returns how many focusable slots the current mode has.
// Buttons occupy the slots after the inputs.
func (v *LoginView) fieldCount() int {
	switch v.mode {
	case modeLogin:
		return 5 // email, password, sign in, create account, forgot password
	case modeRegister:
		return 4 // email, password, confirm, create
	default:
		return 2 // email, send
	}
}

func (v *LoginView) inputCount() int {
	switch v.mode {
	case modeRegister:
		return 3
	case modeReset:
		return 1
	default:
		return 2
	}
}

func (v *LoginView) setMode(m loginMode) {
	v.mode = m
	v.focusIdx = 0
	v.errMsg = ""
	v.infoMsg = ""
	v.email.Reset()
	v.password.Reset()
	v.confirm.Reset()
	v.updateFocus()
}

func (v *LoginView) updateFocus() {
	v.email.Blur()
	v.password.Blur()
	v.confirm.Blur()
	switch v.focusIdx {
	case 0:
		v.email.Focus()
	case 1:
		if v.inputCount() > 1 {
			v.password.Focus()
		}
	case 2:
		if v.inputCount() > 2 {
			v.confirm.Focus()
		}
	}
}

func (v *LoginView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case tea.KeyMsg:
		switch {
		case msg.String() == "ctrl+c":
			return v, tea.Quit

		case key.Matches(msg, v.keys.Back):
			if v.mode != modeLogin {
				v.setMode(modeLogin)
			}
			return v, nil

		case key.Matches(msg, v.keys.Tab):
			v.focusIdx = (v.focusIdx + 1) % v.fieldCount()
			v.updateFocus()
			return v, nil

		case msg.String() == "shift+tab":
			v.focusIdx = (v.focusIdx + v.fieldCount() - 1) % v.fieldCount()
			v.updateFocus()
			return v, nil

		case key.Matches(msg, v.keys.Enter):
			return v.submit()
		}
	}

	var cmd tea.Cmd
	switch v.focusIdx {
	case 0:
		v.email, cmd = v.email.Update(msg)
	case 1:
		if v.inputCount() > 1 {
			v.password, cmd = v.password.Update(msg)
		}
	case 2:
		if v.mode == modeRegister {
			v.confirm, cmd = v.confirm.Update(msg)
		}
	}
	return v, cmd
}

func (v *LoginView) submit() (tea.Model, tea.Cmd) {
	// Enter on an input moves to the next slot, the web-form way.
	if v.focusIdx < v.inputCount()-1 {
		v.focusIdx++
		v.updateFocus()
		return v, nil
	}

	switch v.mode {
	case modeLogin:
		switch v.focusIdx {
		case 3: // create account
			v.setMode(modeRegister)
			return v, nil
		case 4: // forgot password
			v.setMode(modeReset)
			return v, nil
		}
		return v.doLogin()
	case modeRegister:
		return v.doRegister()
	default:
		return v.doReset()
	}
}

func (v *LoginView) doLogin() (tea.Model, tea.Cmd) {
	email := strings.TrimSpace(v.email.Value())
	err := v.auth.Login(email, v.password.Value())
	switch {
	case errors.Is(err, auth.ErrPendingApproval):
		v.errMsg = "Your account is awaiting admin approval."
		return v, nil
	case err != nil:
		v.errMsg = "Invalid email or password."
		return v, nil
	}
	return v, func() tea.Msg { return LoggedIn{Email: email} }
}

func (v *LoginView) doRegister() (tea.Model, tea.Cmd) {
	email := strings.TrimSpace(v.email.Value())
	err := v.auth.Register(email, v.password.Value(), v.confirm.Value())
	switch {
	case errors.Is(err, auth.ErrPasswordMismatch):
		v.errMsg = "Passwords do not match."
	case errors.Is(err, auth.ErrEmailTaken):
		v.errMsg = "That email is already registered."
	case err != nil:
		v.errMsg = "Registration failed."
	default:
		v.setMode(modeLogin)
		v.infoMsg = "Account created. An admin must approve it before you can sign in."
	}
	return v, nil
}

func (v *LoginView) doReset() (tea.Model, tea.Cmd) {
	email := strings.TrimSpace(v.email.Value())
	err := v.auth.RequestPasswordReset(email)
	if errors.Is(err, auth.ErrUserNotFound) {
		v.errMsg = "No account with that email."
		return v, nil
	}
	v.setMode(modeLogin)
	v.infoMsg = "Password reset requested."
	return v, nil
}

// View renders the view
func (v *LoginView) View() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)
	inputWidth := clamp(contentWidth-6, 20, 40)

	emailStyle, passStyle, confirmStyle := s.Input, s.Input, s.Input
	switch v.focusIdx {
	case 0:
		emailStyle = s.InputFocused
	case 1:
		passStyle = s.InputFocused
	case 2:
		confirmStyle = s.InputFocused
	}

	rows := []string{
		s.Title.Render(v.title()),
		"",
		"Email:",
		emailStyle.Width(inputWidth).Render(v.email.View()),
	}

	if v.mode != modeReset {
		rows = append(rows,
			"",
			"Password:",
			passStyle.Width(inputWidth).Render(v.password.View()),
		)
	}
	if v.mode == modeRegister {
		rows = append(rows,
			"",
			"Confirm password:",
			confirmStyle.Width(inputWidth).Render(v.confirm.View()),
		)
	}

	rows = append(rows, "", v.renderButtons())

	if v.errMsg != "" {
		rows = append(rows, "", s.ErrorText.Render(v.errMsg))
	} else if v.infoMsg != "" {
		rows = append(rows, "", s.InfoText.Render(v.infoMsg))
	}

	rows = append(rows, "", s.TitleMuted.Render("Tab: next • ↵: submit • Esc: back"))

	form := lipgloss.JoinVertical(lipgloss.Left, rows...)
	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		form,
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *LoginView) title() string {
	switch v.mode {
	case modeRegister:
		return "Create Account"
	case modeReset:
		return "Password Reset"
	}
	return "Sign In"
}

func (v *LoginView) renderButtons() string {
	s := v.styles
	btn := func(label string, idx int) string {
		if v.focusIdx == idx {
			return s.ButtonFocused.Render(label)
		}
		return s.Button.Render(label)
	}

	switch v.mode {
	case modeLogin:
		return lipgloss.JoinHorizontal(lipgloss.Center,
			btn(" Sign In ", 2), "  ",
			btn(" Create Account ", 3), "  ",
			btn(" Forgot Password ", 4),
		)
	case modeRegister:
		return btn(" Create ", 3)
	default:
		return btn(" Send ", 1)
	}
}
