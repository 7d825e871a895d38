package cli

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/12357-314/gentoo-rdep-analyzer/pkg/errors"
	"github.com/12357-314/gentoo-rdep-analyzer/pkg/rdeps"
)

// selectPackage resolves a regex pattern to a single package name from the
// dependee map. A unique match is returned directly; multiple matches fall
// back to an interactive picker on a terminal and to an error otherwise.
// The empty pattern matches every package.
func selectPackage(m rdeps.Map, pattern string) (string, error) {
	matches, err := filterNames(m.Packages(), pattern)
	if err != nil {
		return "", err
	}
	sort.Strings(matches)

	switch len(matches) {
	case 0:
		return "", errors.New(errors.ErrCodePackageNotFound, "no package matches %q", pattern)
	case 1:
		return matches[0], nil
	}

	if isatty.IsTerminal(os.Stdin.Fd()) && isatty.IsTerminal(os.Stdout.Fd()) {
		return pickPackage(matches)
	}

	preview := matches
	if len(preview) > 5 {
		preview = preview[:5]
	}
	return "", errors.New(errors.ErrCodeAmbiguousPackage,
		"%d packages match %q: %s, ...", len(matches), pattern, strings.Join(preview, ", "))
}

// filterNames returns the names matching the regex pattern, preserving
// order. The empty pattern matches everything.
func filterNames(names []string, pattern string) ([]string, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPattern, err, "invalid pattern %q", pattern)
	}
	var out []string
	for _, name := range names {
		if re.MatchString(name) {
			out = append(out, name)
		}
	}
	return out, nil
}

// pickPackage runs the interactive list picker and returns the chosen name.
func pickPackage(items []string) (string, error) {
	model := newPkgListModel(items)
	final, err := tea.NewProgram(model, tea.WithOutput(os.Stderr)).Run()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "running package picker")
	}
	m, ok := final.(pkgListModel)
	if !ok || m.choice == "" {
		return "", errors.New(errors.ErrCodeAmbiguousPackage, "no package selected")
	}
	return m.choice, nil
}

// pkgListModel is the bubbletea model for interactive package selection.
type pkgListModel struct {
	items  []string
	cursor int
	height int
	offset int
	choice string
}

func newPkgListModel(items []string) pkgListModel {
	return pkgListModel{items: items, height: 15}
}

func (m pkgListModel) Init() tea.Cmd {
	return nil
}

func (m pkgListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				if m.cursor < m.offset {
					m.offset = m.cursor
				}
			}
		case "down", "j":
			if m.cursor < len(m.items)-1 {
				m.cursor++
				if m.cursor >= m.offset+m.height {
					m.offset = m.cursor - m.height + 1
				}
			}
		case "enter":
			m.choice = m.items[m.cursor]
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.height = msg.Height - 6
		if m.height < 5 {
			m.height = 5
		}
	}
	return m, nil
}

func (m pkgListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Package"))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := m.offset + m.height
	if end > len(m.items) {
		end = len(m.items)
	}

	for i := m.offset; i < end; i++ {
		cursor := "  "
		line := m.items[i]
		if i == m.cursor {
			cursor = "▸ "
			b.WriteString(listSelectedStyle.Render(cursor + line))
		} else {
			b.WriteString(listNormalStyle.Render(cursor + line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(StyleDim.Render(fmt.Sprintf("  [%d/%d]", m.cursor+1, len(m.items))))

	return b.String()
}

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
)
