package tui

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/user/gitstar/internal/favorites"
)

const statusTimeout = 3 * time.Second

type model struct {
	store       *favorites.Store
	searchInput textinput.Model
	list        list.Model
	favorites   []favorites.Favorite // most recent first
	width       int
	height      int
	searching   bool
	status      string
	statusErr   bool
	statusSeq   int // identifies the status a pending clear belongs to
	err         error
}

type favoriteItem struct {
	favorite favorites.Favorite
}

func (f favoriteItem) Title() string {
	return f.favorite.Name + " · " + f.favorite.Owner
}

func (f favoriteItem) Description() string {
	if f.favorite.Description != "" {
		desc := []rune(f.favorite.Description)
		if len(desc) > 80 {
			return string(desc[:80]) + "..."
		}
		return f.favorite.Description
	}
	return f.favorite.URL
}

func (f favoriteItem) FilterValue() string {
	return f.favorite.Name + " " + f.favorite.Owner + " " + f.favorite.Description
}

func initialModel(store *favorites.Store) model {
	ti := textinput.New()
	ti.Placeholder = "Search favorites..."
	ti.CharLimit = 256
	ti.Width = 50

	delegate := list.NewDefaultDelegate()
	l := list.New([]list.Item{}, delegate, 0, 0)
	l.Title = "GitStar+ (0)"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)

	return model{
		store:       store,
		searchInput: ti,
		list:        l,
	}
}

type loadedMsg struct {
	favorites []favorites.Favorite
	err       error
}

type removedMsg struct {
	id  string
	err error
}

type clearStatusMsg struct {
	seq int
}

func (m model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.loadFavorites,
	)
}

func (m model) loadFavorites() tea.Msg {
	favs, err := m.store.GetAll(context.Background())
	return loadedMsg{favorites: favs, err: err}
}

func (m model) removeFavorite(id string) tea.Cmd {
	return func() tea.Msg {
		return removedMsg{id: id, err: m.store.Remove(context.Background(), id)}
	}
}

func clearStatusAfter(seq int) tea.Cmd {
	return tea.Tick(statusTimeout, func(time.Time) tea.Msg { return clearStatusMsg{seq: seq} })
}

func (m *model) setStatus(msg string, isErr bool) tea.Cmd {
	m.statusSeq++
	m.status = msg
	m.statusErr = isErr
	return clearStatusAfter(m.statusSeq)
}

// applyFilter rebuilds the list from the current search query.
func (m *model) applyFilter() {
	shown := favorites.Filter(m.favorites, m.searchInput.Value())
	items := make([]list.Item, 0, len(shown))
	for _, f := range shown {
		items = append(items, favoriteItem{favorite: f})
	}
	m.list.SetItems(items)
	m.list.Title = fmt.Sprintf("GitStar+ (%d)", len(m.favorites))
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "q":
			if !m.searching {
				return m, tea.Quit
			}
		case "esc":
			if m.searching {
				m.searching = false
				m.searchInput.Blur()
				return m, nil
			}
		case "/":
			if !m.searching {
				m.searching = true
				m.searchInput.Focus()
				return m, textinput.Blink
			}
		case "enter":
			if m.searching {
				m.searching = false
				m.searchInput.Blur()
				return m, nil
			}
		case "j", "down":
			if !m.searching {
				m.list.CursorDown()
				return m, nil
			}
		case "k", "up":
			if !m.searching {
				m.list.CursorUp()
				return m, nil
			}
		case "g":
			if !m.searching {
				m.list.Select(0)
				return m, nil
			}
		case "G":
			if !m.searching {
				items := m.list.Items()
				if len(items) > 0 {
					m.list.Select(len(items) - 1)
				}
				return m, nil
			}
		case "o":
			if !m.searching {
				if item, ok := m.list.SelectedItem().(favoriteItem); ok {
					openBrowser(item.favorite.URL)
				}
				return m, nil
			}
		case "d":
			if !m.searching {
				if item, ok := m.list.SelectedItem().(favoriteItem); ok {
					return m, m.removeFavorite(item.favorite.ID)
				}
				return m, nil
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width, msg.Height-7)
		m.searchInput.Width = msg.Width - 20

	case loadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.favorites = favorites.SortByRecent(msg.favorites)
		m.applyFilter()
		return m, nil

	case removedMsg:
		if msg.err != nil {
			return m, m.setStatus("Could not remove "+msg.id+": "+msg.err.Error(), true)
		}
		kept := make([]favorites.Favorite, 0, len(m.favorites))
		for _, f := range m.favorites {
			if f.ID != msg.id {
				kept = append(kept, f)
			}
		}
		m.favorites = kept
		m.applyFilter()
		return m, m.setStatus("Removed "+msg.id, false)

	case clearStatusMsg:
		if msg.seq != m.statusSeq {
			return m, nil
		}
		m.status = ""
		m.statusErr = false
		return m, nil
	}

	if m.searching {
		before := m.searchInput.Value()
		var cmd tea.Cmd
		m.searchInput, cmd = m.searchInput.Update(msg)
		cmds = append(cmds, cmd)

		// Live search on input change
		if m.searchInput.Value() != before {
			m.applyFilter()
		}
	} else {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m model) View() string {
	if m.err != nil {
		return fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err)
	}

	var b strings.Builder

	searchStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("214")).
		Padding(0, 1)

	b.WriteString(searchStyle.Render(m.searchInput.View()))
	b.WriteString("\n\n")

	if len(m.list.Items()) == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Padding(1, 2)
		if len(m.favorites) == 0 {
			b.WriteString(emptyStyle.Render("No favorites yet. Add one with: gitstar add owner/name"))
		} else {
			b.WriteString(emptyStyle.Render("No favorites match your search."))
		}
		b.WriteString("\n")
	} else {
		b.WriteString(m.list.View())
	}

	if m.status != "" {
		color := lipgloss.Color("86")
		if m.statusErr {
			color = lipgloss.Color("196")
		}
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(color).Render(m.status))
	}

	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		MarginTop(1)

	help := "[j/k]nav [g/G]top/end [/]search [o]pen [d]elete [q]uit"
	b.WriteString(helpStyle.Render(help))

	return b.String()
}

func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	}
	if cmd != nil {
		cmd.Start()
	}
}

// Run starts the TUI application
func Run(store *favorites.Store) error {
	p := tea.NewProgram(initialModel(store), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
