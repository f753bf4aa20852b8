package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/needful/pkg/asset"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// LibraryListModel - Interactive library selection
// =============================================================================

// LibraryListModel is the bubbletea model for interactive library selection.
type LibraryListModel struct {
	Rows     []libraryRow
	Cursor   int
	Selected *asset.Library
	Height   int
	Offset   int
}

// NewLibraryListModel creates a new library list model.
func NewLibraryListModel(rows []libraryRow) LibraryListModel {
	return LibraryListModel{
		Rows:   rows,
		Height: 15,
	}
}

func (m LibraryListModel) Init() tea.Cmd {
	return nil
}

func (m LibraryListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Rows)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if len(m.Rows) == 0 {
				return m, nil
			}
			lib := m.Rows[m.Cursor].lib
			if len(lib.Resources()) == 0 {
				return m, nil
			}
			m.Selected = lib
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m LibraryListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Library"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Rows))

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		r := m.Rows[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{cursor, r.lib.Name(), strconv.Itoa(len(r.lib.Resources())), r.source, shortVersion(r.version)})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Library", "Resources", "Source", "Version").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}

			actualIdx := m.Offset + row
			if actualIdx >= len(m.Rows) {
				return lipgloss.NewStyle()
			}
			declared := len(m.Rows[actualIdx].lib.Resources()) > 0
			isCurrent := actualIdx == m.Cursor

			base := lipgloss.NewStyle()
			if col == 4 {
				base = base.Foreground(colorDim)
			}
			switch {
			case isCurrent && declared:
				return base.Foreground(colorGreen).Bold(true)
			case isCurrent:
				return base.Foreground(colorDim).Bold(true)
			case declared:
				return base
			}
			return base.Foreground(colorDim)
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Rows))))

	return b.String()
}

// =============================================================================
// ResourceListModel - Interactive resource selection
// =============================================================================

// ResourceListModel is the bubbletea model for picking a resource of one
// library.
type ResourceListModel struct {
	Library   string
	Resources []*asset.Resource
	Cursor    int
	Selected  *asset.Resource
}

// NewResourceListModel creates a new resource list model.
func NewResourceListModel(lib *asset.Library) ResourceListModel {
	return ResourceListModel{Library: lib.Name(), Resources: lib.Resources()}
}

func (m ResourceListModel) Init() tea.Cmd {
	return nil
}

func (m ResourceListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.Resources)-1 {
				m.Cursor++
			}
		case "enter":
			if len(m.Resources) > 0 {
				m.Selected = m.Resources[m.Cursor]
			}
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m ResourceListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Resource in " + m.Library))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("arrows: navigate  enter: select  q: quit"))
	b.WriteString("\n\n")

	for i, r := range m.Resources {
		cursor := "  "
		if i == m.Cursor {
			cursor = "> "
		}

		deps := ""
		if n := len(r.Depends()); n > 0 {
			deps = fmt.Sprintf("%d deps", n)
		}
		line := fmt.Sprintf("%s%-30s %-4s %s", cursor, r.Path(), r.Kind(), listDimStyle.Render(deps))

		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(strings.Repeat("-", 40)))
	b.WriteString("\n")

	return b.String()
}
