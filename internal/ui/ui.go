package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/marquee/internal/catalog"
	"github.com/desertthunder/marquee/internal/models"
	"github.com/desertthunder/marquee/internal/session"
)

// advanceThreshold is how close to the bottom of the list the cursor may
// get before the next page is requested.
const advanceThreshold = 3

// Model drives the catalog browser. It owns no stream state of its own;
// every render is derived from the latest [session.Snapshot].
type Model struct {
	ctx     context.Context
	sess    *session.Session
	svc     catalog.Service
	snap    session.Snapshot
	genres  []models.Genre
	genre   int // index into genres, -1 while browsing the popular category
	list    list.Model
	input   textinput.Model
	keys    keyMap
	help    help.Model
	search  bool
	done    bool
	loadErr error
	width   int
	height  int
}

func New(ctx context.Context, sess *session.Session, svc catalog.Service) Model {
	delegate := list.NewDefaultDelegate()
	l := list.New([]list.Item{}, delegate, 0, 0)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)

	input := textinput.New()
	input.Placeholder = "search movies"
	input.CharLimit = 64

	return Model{
		ctx:   ctx,
		sess:  sess,
		svc:   svc,
		genre: -1,
		list:  l,
		input: input,
		keys:  newKeyMap(),
		help:  help.New(),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.waitForSnapshot(), m.fetchGenres())
}

func (m Model) waitForSnapshot() tea.Cmd {
	return func() tea.Msg {
		select {
		case snap, ok := <-m.sess.Snapshots():
			if !ok {
				return snapshotsClosedMsg{}
			}
			return snapshotMsg(snap)
		case <-m.ctx.Done():
			return snapshotsClosedMsg{}
		}
	}
}

func (m Model) fetchGenres() tea.Cmd {
	return func() tea.Msg {
		genres, err := m.svc.Genres(m.ctx)
		return genresMsg{genres: genres, err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.list.SetSize(msg.Width-4, msg.Height-8)
		return m, nil
	case snapshotMsg:
		m.snap = session.Snapshot(msg)
		m.rebuildItems()
		return m, m.waitForSnapshot()
	case snapshotsClosedMsg:
		m.done = true
		return m, tea.Quit
	case genresMsg:
		m.genres, m.loadErr = msg.genres, msg.err
		return m, nil
	case tea.KeyMsg:
		if m.search {
			return m.updateSearch(msg)
		}
		return m.updateBrowse(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		m.sess.Close()
		return m, tea.Quit
	case key.Matches(msg, m.keys.favorite):
		if item, ok := m.list.SelectedItem().(movieItem); ok {
			m.sess.Toggle(item.movie)
		}
		return m, nil
	case key.Matches(msg, m.keys.genre):
		return m.cycleGenre()
	case key.Matches(msg, m.keys.search):
		m.search = true
		m.input.SetValue("")
		return m, m.input.Focus()
	case key.Matches(msg, m.keys.back):
		m.genre = -1
		m.sess.SetFilter(models.CategoryFilter("popular"))
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	if n := len(m.list.Items()); n > 0 && m.list.Index() >= n-advanceThreshold {
		m.sess.Advance()
	}
	return m, cmd
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.search = false
		m.input.Blur()
		return m, nil
	case tea.KeyEnter:
		m.search = false
		m.input.Blur()
		if query := m.input.Value(); query != "" {
			m.genre = -1
			m.sess.SetFilter(models.SearchFilter(query))
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// cycleGenre steps popular -> genres[0] -> ... -> genres[n-1] -> popular.
func (m Model) cycleGenre() (tea.Model, tea.Cmd) {
	if len(m.genres) == 0 {
		return m, nil
	}

	m.genre++
	if m.genre >= len(m.genres) {
		m.genre = -1
		m.sess.SetFilter(models.CategoryFilter("popular"))
		return m, nil
	}
	m.sess.SetFilter(models.GenreFilter(m.genres[m.genre].ID))
	return m, nil
}

// rebuildItems refreshes the list from the latest snapshot without
// losing the cursor position.
func (m *Model) rebuildItems() {
	movies := m.snap.Movies.Data
	items := make([]list.Item, 0, len(movies))
	for _, movie := range movies {
		items = append(items, movieItem{movie: movie, favorites: m.snap.Favorites})
	}

	cursor := m.list.Index()
	m.list.SetItems(items)
	if cursor < len(items) {
		m.list.Select(cursor)
	}
}

func (m Model) View() string {
	if m.done {
		return ""
	}

	header := styles.title.Render("marquee: " + m.filterLabel())
	status := m.statusLine()
	if m.search {
		return fmt.Sprintf("%s\n%s\n\n%s", header, m.input.View(), styles.help.Render("enter to search, esc to cancel"))
	}

	return fmt.Sprintf("%s\n%s\n%s\n%s", header, status, m.list.View(), m.help.View(m.keys))
}

func (m Model) filterLabel() string {
	filter := m.snap.Filter
	switch filter.Kind {
	case models.FilterGenre:
		if m.genre >= 0 && m.genre < len(m.genres) {
			return m.genres[m.genre].Name
		}
		return filter.Value
	case models.FilterSearch:
		return "search: " + filter.Value
	default:
		return "popular"
	}
}

func (m Model) statusLine() string {
	switch {
	case m.snap.Movies.Suspense:
		return styles.warn.Render("loading…")
	case m.snap.Movies.Err != nil:
		return styles.err.Render("listing failed: " + m.snap.Movies.Err.Error())
	case m.snap.Favorites.LastErr != nil:
		return styles.err.Render("favorite failed: " + m.snap.Favorites.LastErr.Error())
	case m.loadErr != nil:
		return styles.warn.Render("genres unavailable")
	default:
		return styles.ok.Render(fmt.Sprintf("%d movies", len(m.snap.Movies.Data)))
	}
}
