package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/dvieira/videoboard/internal/auth"
	"github.com/dvieira/videoboard/internal/board"
	"github.com/dvieira/videoboard/internal/enhance"
	"github.com/dvieira/videoboard/internal/ui/views"
)

// Currently active view
type View int

const (
	ViewLogin View = iota
	ViewBoard
	ViewCreate
)

type App struct {
	store    *board.Store
	auth     *auth.Service
	enhancer enhance.Enhancer
	log      *zap.Logger

	currentView View
	login       *views.LoginView
	board       *views.BoardView
	create      *views.CreateView
	width       int
	height      int
}

// Creates a new application. A saved session skips the login screen.
func NewApp(store *board.Store, authSvc *auth.Service, enhancer enhance.Enhancer, log *zap.Logger) *App {
	a := &App{
		store:    store,
		auth:     authSvc,
		enhancer: enhancer,
		log:      log,
		login:    views.NewLoginView(authSvc),
	}

	if email, ok := authSvc.CurrentUser(); ok {
		a.currentView = ViewBoard
		a.board = views.NewBoardView(store, authSvc, email)
	}

	return a
}

func (a *App) Init() tea.Cmd {
	if a.currentView == ViewBoard {
		return a.board.Init()
	}
	return a.login.Init()
}

func (a *App) openBoard(email string) tea.Cmd {
	a.currentView = ViewBoard
	a.board = views.NewBoardView(a.store, a.auth, email)

	return tea.Batch(
		a.board.Init(),
		func() tea.Msg {
			return tea.WindowSizeMsg{Width: a.width, Height: a.height}
		},
	)
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height

	case views.LoggedIn:
		return a, a.openBoard(msg.Email)

	case views.LoggedOut:
		a.auth.Logout()
		a.currentView = ViewLogin
		a.board = nil
		a.login = views.NewLoginView(a.auth)
		return a, tea.Batch(
			a.login.Init(),
			func() tea.Msg {
				return tea.WindowSizeMsg{Width: a.width, Height: a.height}
			},
		)

	case views.SwitchToCreate:
		if email, ok := a.auth.CurrentUser(); ok {
			a.currentView = ViewCreate
			a.create = views.NewCreateView(a.store, a.enhancer, a.log, email)
			return a, tea.Batch(
				a.create.Init(),
				func() tea.Msg {
					return tea.WindowSizeMsg{Width: a.width, Height: a.height}
				},
			)
		}
		return a, nil

	case views.CardCreated, views.CreateCancelled:
		if email, ok := a.auth.CurrentUser(); ok {
			a.create = nil
			return a, a.openBoard(email)
		}
		return a, nil
	}

	var cmd tea.Cmd
	switch a.currentView {
	case ViewLogin:
		_, cmd = a.login.Update(msg)
	case ViewBoard:
		_, cmd = a.board.Update(msg)
	case ViewCreate:
		_, cmd = a.create.Update(msg)
	}

	return a, cmd
}

func (a *App) View() string {
	switch a.currentView {
	case ViewBoard:
		if a.board != nil {
			return a.board.View()
		}
	case ViewCreate:
		if a.create != nil {
			return a.create.View()
		}
	}
	return a.login.View()
}
