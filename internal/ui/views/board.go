package views

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dvieira/videoboard/internal/auth"
	"github.com/dvieira/videoboard/internal/board"
	"github.com/dvieira/videoboard/internal/models"
	"github.com/dvieira/videoboard/internal/ui/keys"
	"github.com/dvieira/videoboard/internal/ui/styles"
)

// BoardFocus represents which part of the board has focus
type BoardFocus int

const (
	FocusSearchInput BoardFocus = iota
	FocusCardList
)

// SwitchToCreate asks the app to open the card-creation view.
type SwitchToCreate struct{}

// LoggedOut asks the app to end the session and return to login.
type LoggedOut struct{}

// BoardView lists the cards visible to the current user, newest first.
type BoardView struct {
	store  *board.Store
	auth   *auth.Service
	user   string
	styles *styles.Styles
	keys   keys.KeyMap

	width  int
	height int

	cards   []models.TaskCard
	cursor  int
	scrollY int

	focus       BoardFocus
	searchInput textinput.Model

	// Card detail mode
	viewingCard      bool
	viewCardID       string
	updateInput      textarea.Model
	updateMediaURL   textinput.Model
	updateFocused    bool
	updateMediaFocus bool

	// Delete confirmation
	confirmingDelete bool
	deleteTargetID   string

	// Pending-approvals overlay (admin only)
	showingPending bool
	pending        []models.User
	pendingCursor  int

	errMsg string
}

// NewBoardView creates the board for the given user.
func NewBoardView(store *board.Store, authSvc *auth.Service, user string) *BoardView {
	search := textinput.New()
	search.Placeholder = "Search cards..."
	search.CharLimit = 100

	updateInput := textarea.New()
	updateInput.Placeholder = "Add a note..."
	updateInput.CharLimit = 2000
	updateInput.SetWidth(50)
	updateInput.SetHeight(3)
	updateInput.ShowLineNumbers = false

	mediaURL := textinput.New()
	mediaURL.Placeholder = "Attachment URL (optional)"
	mediaURL.CharLimit = 500

	return &BoardView{
		store:          store,
		auth:           authSvc,
		user:           user,
		styles:         styles.NewStyles(),
		keys:           keys.DefaultKeyMap(),
		focus:          FocusCardList,
		searchInput:    search,
		updateInput:    updateInput,
		updateMediaURL: mediaURL,
	}
}

func (v *BoardView) Init() tea.Cmd {
	return v.loadCards
}

type cardsLoadedMsg struct {
	cards []models.TaskCard
}

type pendingLoadedMsg struct {
	users []models.User
}

func (v *BoardView) loadCards() tea.Msg {
	return cardsLoadedMsg{cards: v.store.List(v.user, v.searchInput.Value())}
}

func (v *BoardView) loadPending() tea.Msg {
	users, err := v.auth.PendingUsers(v.user)
	if err != nil {
		return err
	}
	return pendingLoadedMsg{users: users}
}

func (v *BoardView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		v.updateInput.SetWidth(clamp(styles.ContentWidth(msg.Width)-8, 20, 60))
		return v, nil

	case cardsLoadedMsg:
		v.cards = msg.cards
		if v.cursor >= len(v.cards) {
			v.cursor = max(len(v.cards)-1, 0)
		}
		return v, nil

	case pendingLoadedMsg:
		v.pending = msg.users
		if v.pendingCursor >= len(v.pending) {
			v.pendingCursor = max(len(v.pending)-1, 0)
		}
		return v, nil

	case tea.KeyMsg:
		if v.showingPending {
			return v.updatePending(msg)
		}
		if v.confirmingDelete {
			return v.updateConfirmDelete(msg)
		}
		if v.viewingCard {
			return v.updateViewingCard(msg)
		}
		return v.updateNormal(msg)
	}

	return v, nil
}

func (v *BoardView) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Typing in the search box takes priority over hotkeys.
	if v.focus == FocusSearchInput {
		switch {
		case key.Matches(msg, v.keys.Back), key.Matches(msg, v.keys.Enter):
			v.searchInput.Blur()
			v.focus = FocusCardList
			return v, v.loadCards
		default:
			var cmd tea.Cmd
			v.searchInput, cmd = v.searchInput.Update(msg)
			return v, tea.Batch(cmd, v.loadCards)
		}
	}

	v.errMsg = ""

	switch {
	case key.Matches(msg, v.keys.Quit):
		return v, tea.Quit

	case key.Matches(msg, v.keys.Logout):
		return v, func() tea.Msg { return LoggedOut{} }

	case key.Matches(msg, v.keys.Up):
		if v.cursor > 0 {
			v.cursor--
			v.ensureVisible()
		}
		return v, nil

	case key.Matches(msg, v.keys.Down):
		if v.cursor < len(v.cards)-1 {
			v.cursor++
			v.ensureVisible()
		}
		return v, nil

	case key.Matches(msg, v.keys.Enter):
		if len(v.cards) > 0 {
			v.viewingCard = true
			v.viewCardID = v.cards[v.cursor].ID
			v.updateFocused = false
			v.updateMediaFocus = false
			v.updateInput.Reset()
			v.updateMediaURL.Reset()
		}
		return v, nil

	case key.Matches(msg, v.keys.New):
		return v, func() tea.Msg { return SwitchToCreate{} }

	case key.Matches(msg, v.keys.Delete):
		if len(v.cards) > 0 {
			card := v.cards[v.cursor]
			if !card.IsCreator(v.user) {
				v.errMsg = "Only the creator can delete this card."
				return v, nil
			}
			v.confirmingDelete = true
			v.deleteTargetID = card.ID
		}
		return v, nil

	case key.Matches(msg, v.keys.Status):
		if len(v.cards) > 0 {
			card := v.cards[v.cursor]
			if !card.CanModify(v.user) {
				v.errMsg = "Only the creator or an assignee can change the status."
				return v, nil
			}
			if err := v.store.UpdateStatus(card.ID, v.user, nextStatus(card.Status)); err != nil {
				v.errMsg = err.Error()
				return v, nil
			}
			return v, v.loadCards
		}
		return v, nil

	case key.Matches(msg, v.keys.Search):
		v.focus = FocusSearchInput
		v.searchInput.Focus()
		return v, textinput.Blink

	case key.Matches(msg, v.keys.Pending):
		if v.auth.IsAdmin(v.user) {
			v.showingPending = true
			v.pendingCursor = 0
			return v, v.loadPending
		}
		return v, nil
	}

	return v, nil
}

func (v *BoardView) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		v.confirmingDelete = false
		if err := v.store.Delete(v.deleteTargetID, v.user); err != nil {
			if errors.Is(err, board.ErrNotCreator) {
				v.errMsg = "Only the creator can delete this card."
			} else {
				v.errMsg = err.Error()
			}
			return v, nil
		}
		return v, v.loadCards
	case "n", "N", "esc":
		v.confirmingDelete = false
		return v, nil
	}
	return v, nil
}

func (v *BoardView) updateViewingCard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if v.updateFocused {
		switch {
		case key.Matches(msg, v.keys.Back):
			v.updateFocused = false
			v.updateMediaFocus = false
			v.updateInput.Blur()
			v.updateMediaURL.Blur()
			return v, nil
		case key.Matches(msg, v.keys.Tab):
			v.updateMediaFocus = !v.updateMediaFocus
			if v.updateMediaFocus {
				v.updateInput.Blur()
				v.updateMediaURL.Focus()
			} else {
				v.updateMediaURL.Blur()
				v.updateInput.Focus()
			}
			return v, nil
		case msg.String() == "ctrl+s":
			return v, v.submitUpdate()
		default:
			var cmd tea.Cmd
			if v.updateMediaFocus {
				v.updateMediaURL, cmd = v.updateMediaURL.Update(msg)
			} else {
				v.updateInput, cmd = v.updateInput.Update(msg)
			}
			return v, cmd
		}
	}

	switch {
	case key.Matches(msg, v.keys.Back):
		v.viewingCard = false
		v.errMsg = ""
		return v, nil
	case msg.String() == "a":
		card, ok := v.store.Get(v.viewCardID)
		if ok && !card.CanModify(v.user) {
			v.errMsg = "Only the creator or an assignee can add notes."
			return v, nil
		}
		v.updateFocused = true
		v.updateMediaFocus = false
		v.updateInput.Focus()
		return v, textarea.Blink
	case key.Matches(msg, v.keys.Status):
		card, ok := v.store.Get(v.viewCardID)
		if !ok {
			return v, nil
		}
		if !card.CanModify(v.user) {
			v.errMsg = "Only the creator or an assignee can change the status."
			return v, nil
		}
		if err := v.store.UpdateStatus(card.ID, v.user, nextStatus(card.Status)); err != nil {
			v.errMsg = err.Error()
			return v, nil
		}
		return v, v.loadCards
	case key.Matches(msg, v.keys.Quit):
		return v, tea.Quit
	}
	return v, nil
}

func (v *BoardView) submitUpdate() tea.Cmd {
	text := strings.TrimSpace(v.updateInput.Value())
	var media *models.MediaFile
	if url := strings.TrimSpace(v.updateMediaURL.Value()); url != "" {
		media = &models.MediaFile{URL: url, Type: mediaTypeForURL(url)}
	}

	err := v.store.AppendUpdate(v.viewCardID, v.user, text, media)
	switch {
	case errors.Is(err, board.ErrEmptyUpdate):
		v.errMsg = "A note needs text or an attachment."
		return nil
	case errors.Is(err, board.ErrNotAssigned):
		v.errMsg = "Only the creator or an assignee can add notes."
		return nil
	case err != nil:
		v.errMsg = err.Error()
		return nil
	}

	v.errMsg = ""
	v.updateFocused = false
	v.updateMediaFocus = false
	v.updateInput.Reset()
	v.updateMediaURL.Reset()
	v.updateInput.Blur()
	v.updateMediaURL.Blur()
	return v.loadCards
}

func (v *BoardView) updatePending(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.showingPending = false
		return v, nil
	case key.Matches(msg, v.keys.Up):
		if v.pendingCursor > 0 {
			v.pendingCursor--
		}
		return v, nil
	case key.Matches(msg, v.keys.Down):
		if v.pendingCursor < len(v.pending)-1 {
			v.pendingCursor++
		}
		return v, nil
	case msg.String() == "a":
		if len(v.pending) > 0 {
			if err := v.auth.ApproveUser(v.user, v.pending[v.pendingCursor].Email); err != nil {
				v.errMsg = err.Error()
				return v, nil
			}
			return v, v.loadPending
		}
		return v, nil
	case msg.String() == "r":
		if len(v.pending) > 0 {
			if err := v.auth.RejectUser(v.user, v.pending[v.pendingCursor].Email); err != nil {
				v.errMsg = err.Error()
				return v, nil
			}
			return v, v.loadPending
		}
		return v, nil
	}
	return v, nil
}

func (v *BoardView) ensureVisible() {
	visible := v.visibleItems()
	if v.cursor < v.scrollY {
		v.scrollY = v.cursor
	}
	if v.cursor >= v.scrollY+visible {
		v.scrollY = v.cursor - visible + 1
	}
}

func (v *BoardView) visibleItems() int {
	// Each card row is 2 lines plus a margin line.
	available := v.height - 10
	if available < 3 {
		available = 3
	}
	items := available / 3
	if items < 1 {
		items = 1
	}
	return items
}

// View renders the view
func (v *BoardView) View() string {
	if v.showingPending {
		return v.renderPending()
	}
	if v.confirmingDelete {
		return v.renderDeleteConfirm()
	}
	if v.viewingCard {
		return v.renderCardDetail()
	}

	var b strings.Builder
	b.WriteString(v.renderHeader())
	b.WriteString("\n\n")
	b.WriteString(v.renderCardList())
	b.WriteString("\n")
	if v.errMsg != "" {
		b.WriteString(v.styles.ErrorText.Render(v.errMsg))
		b.WriteString("\n")
	}
	b.WriteString(v.renderHelp())

	return styles.CenterView(b.String(), v.width, v.height)
}

func (v *BoardView) renderHeader() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	searchStyle := s.Input
	if v.focus == FocusSearchInput {
		searchStyle = s.InputFocused
	}
	searchWidth := clamp(contentWidth-8, 10, 30)
	searchBox := searchStyle.Width(searchWidth).Render(v.searchInput.View())

	title := s.Title.Render("Personal Board")
	who := s.TitleMuted.Render("tasks linked to " + v.user)

	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Center, title, "  ", who),
		searchBox,
	)
}

func (v *BoardView) renderCardList() string {
	s := v.styles

	if len(v.cards) == 0 {
		return s.TitleMuted.Render("No cards found. Press 'n' to create one.")
	}

	var items []string
	endIdx := min(v.scrollY+v.visibleItems(), len(v.cards))
	for i := v.scrollY; i < endIdx; i++ {
		items = append(items, v.renderCardItem(v.cards[i], i == v.cursor))
	}
	return lipgloss.JoinVertical(lipgloss.Left, items...)
}

func (v *BoardView) renderCardItem(card models.TaskCard, selected bool) string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)
	width := max(contentWidth-4, 20)

	titleStyle := s.ListItem
	if selected {
		titleStyle = s.ListSelected
	}

	meta := fmt.Sprintf("%s • %s • %d assigned • %d notes",
		v.statusStyle(card.Status).Render(card.Status.Label()),
		shortDate(card.CreatedAt),
		len(card.AssignedEmails),
		len(card.Updates),
	)

	title := titleStyle.Width(width).Render(card.Title)
	metaLine := s.CardMeta.PaddingLeft(2).Render(meta)
	return lipgloss.JoinVertical(lipgloss.Left, title, metaLine) + "\n"
}

func (v *BoardView) statusStyle(status models.Status) lipgloss.Style {
	switch status {
	case models.StatusDoing:
		return v.styles.StatusDoing
	case models.StatusDone:
		return v.styles.StatusDone
	}
	return v.styles.StatusTodo
}

func (v *BoardView) renderCardDetail() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	card, ok := v.store.Get(v.viewCardID)
	if !ok {
		v.viewingCard = false
		return s.TitleMuted.Render("Card no longer exists.")
	}

	var rows []string
	rows = append(rows,
		s.CardTitle.Render(card.Title),
		s.CardMeta.Render(fmt.Sprintf("%s • created %s by %s",
			v.statusStyle(card.Status).Render(card.Status.Label()),
			shortDate(card.CreatedAt),
			card.CreatedBy,
		)),
	)

	if card.StartDate != "" || card.EndDate != "" {
		dates := ""
		if card.StartDate != "" {
			dates += "start: " + card.StartDate
		}
		if card.EndDate != "" {
			if dates != "" {
				dates += "  "
			}
			dates += "due: " + card.EndDate
		}
		rows = append(rows, s.CardMeta.Render(dates))
	}

	if card.Description != "" {
		rows = append(rows, "", card.Description)
	}

	if len(card.MediaFiles) > 0 {
		rows = append(rows, "", s.TitleMuted.Render(fmt.Sprintf("Reference files (%d)", len(card.MediaFiles))))
		for _, f := range card.MediaFiles {
			label := f.URL
			if f.Name != "" {
				label = f.Name
			}
			rows = append(rows, s.CardMeta.Render(fmt.Sprintf("  [%s] %s", f.Type, label)))
		}
	}

	rows = append(rows, "", s.TitleMuted.Render("History"))
	if len(card.Updates) == 0 {
		rows = append(rows, s.CardMeta.Render("  no notes yet"))
	}
	for _, u := range card.Updates {
		head := fmt.Sprintf("  %s • %s", localPart(u.Author), shortDate(u.Timestamp))
		rows = append(rows, s.CardMeta.Render(head))
		if u.Text != "" {
			rows = append(rows, "  "+u.Text)
		}
		if u.MediaURL != "" {
			rows = append(rows, s.CardMeta.Render(fmt.Sprintf("  [%s] %s", u.MediaType, u.MediaURL)))
		}
	}

	rows = append(rows, "", s.CardMeta.Render(strings.Join(card.AssignedEmails, ", ")))

	if v.updateFocused {
		noteStyle, urlStyle := s.InputFocused, s.Input
		if v.updateMediaFocus {
			noteStyle, urlStyle = s.Input, s.InputFocused
		}
		rows = append(rows, "",
			noteStyle.Render(v.updateInput.View()),
			urlStyle.Width(clamp(contentWidth-8, 20, 60)).Render(v.updateMediaURL.View()),
			s.TitleMuted.Render("Ctrl+S: save note • Tab: attachment • Esc: cancel"),
		)
	} else {
		help := "a add note • s cycle status • esc back"
		if !card.CanModify(v.user) {
			help = "esc back"
		}
		rows = append(rows, "", s.TitleMuted.Render(help))
	}

	if v.errMsg != "" {
		rows = append(rows, "", s.ErrorText.Render(v.errMsg))
	}

	content := s.Panel.Width(max(contentWidth-2, 20)).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
	return styles.CenterView(content, v.width, v.height)
}

func (v *BoardView) renderDeleteConfirm() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	content := lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Foreground(styles.Current.Error).Render("Delete Card?"),
		"",
		lipgloss.JoinHorizontal(lipgloss.Center,
			s.ButtonPrimary.Render(" Y - Yes "),
			"  ",
			s.Button.Render(" N - No "),
		),
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		content,
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *BoardView) renderPending() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	rows := []string{s.Title.Render("Pending Approvals"), ""}
	if len(v.pending) == 0 {
		rows = append(rows, s.TitleMuted.Render("No accounts waiting for approval."))
	}
	for i, u := range v.pending {
		itemStyle := s.ListItem
		if i == v.pendingCursor {
			itemStyle = s.ListSelected
		}
		rows = append(rows, itemStyle.Render(
			fmt.Sprintf("%s (requested %s)", u.Email, shortDate(u.RequestedAt)),
		))
	}
	rows = append(rows, "", s.TitleMuted.Render("a approve • r reject • esc back"))
	if v.errMsg != "" {
		rows = append(rows, "", s.ErrorText.Render(v.errMsg))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, rows...)
	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		s.Panel.Render(content),
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *BoardView) renderHelp() string {
	s := v.styles
	help := fmt.Sprintf("%s open • %s new • %s status • %s del • %s search • %s logout • %s quit",
		s.HelpKey.Render("↵"),
		s.HelpKey.Render("n"),
		s.HelpKey.Render("s"),
		s.HelpKey.Render("d"),
		s.HelpKey.Render("/"),
		s.HelpKey.Render("ctrl+l"),
		s.HelpKey.Render("q"),
	)
	if v.auth.IsAdmin(v.user) {
		help += " • " + s.HelpKey.Render("p") + " approvals"
	}
	return s.Help.Render(help)
}
