package views

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/dvieira/videoboard/internal/board"
	"github.com/dvieira/videoboard/internal/enhance"
	"github.com/dvieira/videoboard/internal/models"
	"github.com/dvieira/videoboard/internal/ui/keys"
	"github.com/dvieira/videoboard/internal/ui/styles"
)

const enhanceTimeout = 30 * time.Second

// CardCreated is emitted after a card is saved.
type CardCreated struct{}

// CreateCancelled is emitted when the form is dismissed.
type CreateCancelled struct{}

// CreateView is the new-card form.
type CreateView struct {
	store    *board.Store
	enhancer enhance.Enhancer
	log      *zap.Logger
	user     string
	styles   *styles.Styles
	keys     keys.KeyMap

	width  int
	height int

	title     textinput.Model
	desc      textarea.Model
	assignees textinput.Model
	startDate textinput.Model
	endDate   textinput.Model
	mediaURL  textinput.Model

	mediaFiles []models.MediaFile
	focusIdx   int // 0=title, 1=desc, 2=assignees, 3=start, 4=end, 5=media, 6=create

	// The enhancement call is the only operation allowed to be in flight
	// while the user keeps editing. Its result overwrites the description
	// when it lands, even over later edits; accepted race.
	enhancing bool

	errMsg string
}

// NewCreateView creates the form, seeding the assignee field with the
// current user.
func NewCreateView(store *board.Store, enhancer enhance.Enhancer, log *zap.Logger, user string) *CreateView {
	title := textinput.New()
	title.Placeholder = "Card title"
	title.CharLimit = 200
	title.Focus()

	desc := textarea.New()
	desc.Placeholder = "Description"
	desc.CharLimit = 2000
	desc.SetWidth(50)
	desc.SetHeight(4)
	desc.ShowLineNumbers = false

	assignees := textinput.New()
	assignees.Placeholder = "a@x.com, b@x.com"
	assignees.CharLimit = 500
	assignees.SetValue(user)

	startDate := textinput.New()
	startDate.Placeholder = "YYYY-MM-DD"
	startDate.CharLimit = 10

	endDate := textinput.New()
	endDate.Placeholder = "YYYY-MM-DD"
	endDate.CharLimit = 10

	mediaURL := textinput.New()
	mediaURL.Placeholder = "Media URL, ↵ to attach"
	mediaURL.CharLimit = 500

	return &CreateView{
		store:     store,
		enhancer:  enhancer,
		log:       log,
		user:      user,
		styles:    styles.NewStyles(),
		keys:      keys.DefaultKeyMap(),
		title:     title,
		desc:      desc,
		assignees: assignees,
		startDate: startDate,
		endDate:   endDate,
		mediaURL:  mediaURL,
	}
}

func (v *CreateView) Init() tea.Cmd {
	return textinput.Blink
}

type enhanceDoneMsg struct {
	text string
}

func (v *CreateView) enhanceDescription() tea.Cmd {
	text := v.desc.Value()
	enhancer := v.enhancer
	log := v.log
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), enhanceTimeout)
		defer cancel()
		return enhanceDoneMsg{text: enhance.BestEffort(ctx, enhancer, text, log)}
	}
}

func (v *CreateView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		v.desc.SetWidth(clamp(styles.ContentWidth(msg.Width)-8, 20, 60))
		return v, nil

	case enhanceDoneMsg:
		// Late responses still overwrite the field.
		v.enhancing = false
		v.desc.SetValue(msg.text)
		return v, nil

	case tea.KeyMsg:
		switch {
		case msg.String() == "ctrl+c":
			return v, tea.Quit

		case key.Matches(msg, v.keys.Back):
			return v, func() tea.Msg { return CreateCancelled{} }

		case msg.String() == "ctrl+s":
			return v.submit()

		case msg.String() == "ctrl+e":
			if !v.enhancing && v.enhancer != nil && strings.TrimSpace(v.desc.Value()) != "" {
				v.enhancing = true
				return v, v.enhanceDescription()
			}
			return v, nil

		case key.Matches(msg, v.keys.Tab):
			v.focusIdx = (v.focusIdx + 1) % 7
			v.updateFocus()
			return v, nil

		case msg.String() == "shift+tab":
			v.focusIdx = (v.focusIdx + 6) % 7
			v.updateFocus()
			return v, nil

		case key.Matches(msg, v.keys.Enter):
			switch v.focusIdx {
			case 1:
				// Newline in the description.
				break
			case 5:
				v.attachMedia()
				return v, nil
			case 6:
				return v.submit()
			default:
				v.focusIdx++
				v.updateFocus()
				return v, nil
			}
		}
	}

	var cmd tea.Cmd
	switch v.focusIdx {
	case 0:
		v.title, cmd = v.title.Update(msg)
	case 1:
		v.desc, cmd = v.desc.Update(msg)
	case 2:
		v.assignees, cmd = v.assignees.Update(msg)
	case 3:
		v.startDate, cmd = v.startDate.Update(msg)
	case 4:
		v.endDate, cmd = v.endDate.Update(msg)
	case 5:
		v.mediaURL, cmd = v.mediaURL.Update(msg)
	}
	return v, cmd
}

func (v *CreateView) updateFocus() {
	v.title.Blur()
	v.desc.Blur()
	v.assignees.Blur()
	v.startDate.Blur()
	v.endDate.Blur()
	v.mediaURL.Blur()
	switch v.focusIdx {
	case 0:
		v.title.Focus()
	case 1:
		v.desc.Focus()
	case 2:
		v.assignees.Focus()
	case 3:
		v.startDate.Focus()
	case 4:
		v.endDate.Focus()
	case 5:
		v.mediaURL.Focus()
	}
}

func (v *CreateView) attachMedia() {
	url := strings.TrimSpace(v.mediaURL.Value())
	if url == "" {
		return
	}
	v.mediaFiles = append(v.mediaFiles, models.MediaFile{
		URL:  url,
		Type: mediaTypeForURL(url),
	})
	v.mediaURL.Reset()
}

// parseAssignees splits the comma-separated input, dropping entries that
// are not email-shaped. An empty result means the store defaults to the
// creator.
func parseAssignees(input string) []string {
	var out []string
	for _, part := range strings.Split(input, ",") {
		e := strings.TrimSpace(part)
		if strings.Contains(e, "@") {
			out = append(out, e)
		}
	}
	return out
}

func (v *CreateView) submit() (tea.Model, tea.Cmd) {
	_, err := v.store.Create(board.CreateInput{
		Title:          strings.TrimSpace(v.title.Value()),
		Description:    v.desc.Value(),
		MediaFiles:     v.mediaFiles,
		AssignedEmails: parseAssignees(v.assignees.Value()),
		StartDate:      strings.TrimSpace(v.startDate.Value()),
		EndDate:        strings.TrimSpace(v.endDate.Value()),
		CreatedBy:      v.user,
	})
	if errors.Is(err, board.ErrTitleRequired) {
		v.errMsg = "A title is required."
		return v, nil
	}
	if err != nil {
		v.errMsg = err.Error()
		return v, nil
	}
	return v, func() tea.Msg { return CardCreated{} }
}

// View renders the view
func (v *CreateView) View() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)
	inputWidth := clamp(contentWidth-6, 20, 50)

	style := func(idx int) lipgloss.Style {
		if v.focusIdx == idx {
			return s.InputFocused
		}
		return s.Input
	}

	descLabel := "Description:"
	if v.enhancer != nil {
		descLabel = "Description (Ctrl+E: enhance):"
	}
	if v.enhancing {
		descLabel = "Description (enhancing...):"
	}

	createBtn := s.Button.Render(" Create Card ")
	if v.focusIdx == 6 {
		createBtn = s.ButtonFocused.Render(" Create Card ")
	}

	rows := []string{
		s.Title.Render("New Card"),
		"",
		"Title:",
		style(0).Width(inputWidth).Render(v.title.View()),
		"",
		descLabel,
		style(1).Render(v.desc.View()),
		"",
		"Assignees:",
		style(2).Width(inputWidth).Render(v.assignees.View()),
		"",
		"Start date:            Due date:",
		lipgloss.JoinHorizontal(lipgloss.Top,
			style(3).Width(14).Render(v.startDate.View()),
			"  ",
			style(4).Width(14).Render(v.endDate.View()),
		),
		"",
		"Reference media:",
		style(5).Width(inputWidth).Render(v.mediaURL.View()),
	}

	for _, f := range v.mediaFiles {
		rows = append(rows, s.CardMeta.Render("  ["+string(f.Type)+"] "+f.URL))
	}

	rows = append(rows, "", createBtn)
	if v.errMsg != "" {
		rows = append(rows, "", s.ErrorText.Render(v.errMsg))
	}
	rows = append(rows, "", s.TitleMuted.Render("Tab: next • Ctrl+S: save • Esc: cancel"))

	form := lipgloss.JoinVertical(lipgloss.Left, rows...)
	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		form,
	)
	return styles.CenterView(centered, v.width, v.height)
}
