package viewer

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/voxee/voxee/session"
	"github.com/voxee/voxee/transcript"
)

const defaultRenderWidth = 100

var (
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("5")).Bold(true).Padding(0, 1)
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Padding(0, 1)
	userStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("7")).Bold(true)
)

// item adapts a transcript entry to the bubbles list.
type item struct {
	entry transcript.Entry
}

func (i item) Title() string { return i.entry.Key }
func (i item) Description() string {
	return fmt.Sprintf("%s · %d bytes", i.entry.CreatedAt().Format("2006-01-02 15:04"), i.entry.Size)
}
func (i item) FilterValue() string { return i.entry.Key }

type focus int

const (
	focusList focus = iota
	focusTranscript
)

// model is the viewer's bubbletea model: a list of saved transcripts and a
// viewport showing the selected one.
type model struct {
	store    *transcript.Store
	list     list.Model
	viewport viewport.Model
	renderer *glamour.TermRenderer

	focus  focus
	width  int
	height int
	ready  bool
	err    error
}

func newModel(store *transcript.Store) (*model, error) {
	entries, err := store.List()
	if err != nil {
		return nil, err
	}
	items := make([]list.Item, 0, len(entries))
	for _, entry := range entries {
		items = append(items, item{entry: entry})
	}

	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Saved chats"
	l.SetShowHelp(true)

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(defaultRenderWidth),
	)
	if err != nil {
		return nil, err
	}

	return &model{
		store:    store,
		list:     l,
		renderer: renderer,
		focus:    focusList,
	}, nil
}

func (m *model) Init() tea.Cmd {
	return nil
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width, msg.Height-2)
		m.viewport = viewport.New(msg.Width, msg.Height-2)
		m.ready = true
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "q", "esc":
			if m.focus == focusTranscript {
				m.focus = focusList
				return m, nil
			}
			return m, tea.Quit
		case "enter":
			if m.focus == focusList {
				if selected, ok := m.list.SelectedItem().(item); ok {
					m.openTranscript(selected.entry.Key)
				}
				return m, nil
			}
		}
	}

	var cmd tea.Cmd
	if m.focus == focusList {
		m.list, cmd = m.list.Update(msg)
	} else {
		m.viewport, cmd = m.viewport.Update(msg)
	}
	return m, cmd
}

func (m *model) View() string {
	if !m.ready {
		return "loading..."
	}
	if m.focus == focusList {
		return m.list.View()
	}
	title := titleStyle.Render("Transcript")
	status := statusStyle.Render("esc to go back · q to quit")
	if m.err != nil {
		status = statusStyle.Render(m.err.Error())
	}
	return lipgloss.JoinVertical(lipgloss.Left, title, m.viewport.View(), status)
}

// openTranscript loads, renders, and focuses the transcript stored under the
// given key.
func (m *model) openTranscript(key string) {
	m.err = nil
	data, err := m.store.Read(key)
	if err != nil {
		m.err = err
		return
	}
	history, err := session.UnmarshalHistory(data)
	if err != nil {
		m.err = err
		return
	}
	m.viewport.SetContent(m.renderHistory(history))
	m.viewport.GotoTop()
	m.focus = focusTranscript
}

// renderHistory renders a transcript: user turns as prompts, assistant turns
// as markdown.
func (m *model) renderHistory(history []*session.Message) string {
	var b strings.Builder
	for _, message := range history {
		switch message.Role {
		case session.RoleUser:
			b.WriteString(userStyle.Render("> "+message.Content) + "\n")
			for _, attachment := range message.Attachments {
				b.WriteString(userStyle.Render(fmt.Sprintf("  [attachment: %s (%s)]", attachment.Name, attachment.MediaType)) + "\n")
			}
		case session.RoleAI:
			rendered, err := m.renderer.Render(message.Content)
			if err != nil {
				rendered = message.Content + "\n"
			}
			b.WriteString(rendered)
		}
	}
	return b.String()
}
