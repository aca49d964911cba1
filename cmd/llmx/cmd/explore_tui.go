package cmd

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/llmx/llmx/internal/handler"
)

var (
	tuiTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	tuiDimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	tuiBoxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

type tuiItem struct {
	line string
}

func (i tuiItem) Title() string       { return i.line }
func (i tuiItem) Description() string { return "" }
func (i tuiItem) FilterValue() string { return i.line }

// exploreModel is a single-pane bubbletea browser that steps through three
// views: a list of files, then the outline for the selected file, then
// (enter again) the full content of the selected chunk. It calls back into the same Handler the
// non-interactive `explore`/`get-chunk` subcommands use.
type exploreModel struct {
	h       *handler.Handler
	ctx     context.Context
	indexID string

	mode string // "files" or "outline"
	path string // selected file, once in outline mode

	list   list.Model
	detail string
	err    error
	width  int
	height int
}

func runExploreTUI(ctx context.Context, h *handler.Handler, indexID string) error {
	resp, err := h.Explore(ctx, handler.ExploreRequest{IndexID: indexID, Mode: handler.ExploreFiles})
	if err != nil {
		return err
	}

	items := make([]list.Item, len(resp.Items))
	for i, p := range resp.Items {
		items[i] = tuiItem{line: p}
	}

	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = "llmx explore — files"

	m := exploreModel{h: h, ctx: ctx, indexID: indexID, mode: "files", list: l}
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

func (m exploreModel) Init() tea.Cmd { return nil }

func (m exploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.list.SetSize(msg.Width, msg.Height-4)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "esc", "backspace":
			if m.detail != "" {
				m.detail = ""
				return m, nil
			}
			if m.mode == "outline" {
				return m.backToFiles()
			}
		case "enter":
			return m.selectCurrent()
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m exploreModel) selectCurrent() (tea.Model, tea.Cmd) {
	item, ok := m.list.SelectedItem().(tuiItem)
	if !ok {
		return m, nil
	}

	switch m.mode {
	case "files":
		resp, err := m.h.Explore(m.ctx, handler.ExploreRequest{
			IndexID: m.indexID, Mode: handler.ExploreOutline, PathFilter: item.line,
		})
		if err != nil {
			m.err = err
			return m, nil
		}
		items := make([]list.Item, len(resp.Items))
		for i, l := range resp.Items {
			items[i] = tuiItem{line: l}
		}
		m.list.SetItems(items)
		m.list.Title = "llmx explore — " + item.line
		m.mode = "outline"
		m.path = item.line
		return m, nil

	case "outline":
		ref := outlineRef(item.line)
		chunk, err := m.h.GetChunk(m.ctx, handler.GetChunkRequest{IndexID: m.indexID, ChunkIDOrRefOrPrefix: ref})
		if err != nil {
			m.err = err
			return m, nil
		}
		if chunk == nil {
			m.detail = "no matching chunk"
			return m, nil
		}
		m.detail = chunk.Content
		return m, nil
	}
	return m, nil
}

func (m exploreModel) backToFiles() (tea.Model, tea.Cmd) {
	resp, err := m.h.Explore(m.ctx, handler.ExploreRequest{IndexID: m.indexID, Mode: handler.ExploreFiles})
	if err != nil {
		m.err = err
		return m, nil
	}
	items := make([]list.Item, len(resp.Items))
	for i, p := range resp.Items {
		items[i] = tuiItem{line: p}
	}
	m.list.SetItems(items)
	m.list.Title = "llmx explore — files"
	m.mode = "files"
	m.path = ""
	return m, nil
}

func (m exploreModel) View() string {
	if m.err != nil {
		return tuiDimStyle.Render(fmt.Sprintf("error: %v\n\npress q to quit", m.err))
	}
	if m.detail != "" {
		return tuiBoxStyle.Render(m.detail) + "\n" + tuiDimStyle.Render("esc to go back, q to quit")
	}
	return m.list.View() + "\n" + tuiDimStyle.Render("enter to open, esc to go back, q to quit")
}

// outlineRef extracts the leading "- {ref} (...)" token's ref from a
// rendered outline line, the same shape export.OutlineLine produces.
func outlineRef(line string) string {
	var ref string
	_, _ = fmt.Sscanf(line, "- %s", &ref)
	return ref
}
