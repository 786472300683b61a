package plan

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/felixgeelhaar/tskprio/internal/planning/application/queries"
	"gopkg.in/yaml.v3"
)

// Output formats accepted by --format.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF"))
	cellStyle  = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444444")).
			Padding(0, 1).
			Width(36)
	headStyles = []lipgloss.Style{
		lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF6B6B")),
		lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF")),
		lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F7B801")),
		lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#999999")),
	}
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
)

// renderMatrix draws the four quadrants as a 2x2 grid, urgent on the left.
func renderMatrix(m *queries.MatrixDTO) string {
	cells := make([]string, len(m.Quadrants))
	for i, q := range m.Quadrants {
		lines := []string{
			headStyles[i%len(headStyles)].Render(q.Name),
			mutedStyle.Render(q.Action),
			"",
		}
		if len(q.Tasks) == 0 {
			lines = append(lines, mutedStyle.Render("(none)"))
		}
		for _, t := range q.Tasks {
			lines = append(lines, fmt.Sprintf("• %s (U%d I%d)", t.Name, t.Urgency, t.Importance))
		}
		cells[i] = cellStyle.Render(strings.Join(lines, "\n"))
	}

	rows := []string{titleStyle.Render(m.Project)}
	for i := 0; i+1 < len(cells); i += 2 {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells[i], cells[i+1]))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// writePlan prints plan in the requested format.
func writePlan(w io.Writer, plan *queries.ActionPlanDTO, format string) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(plan)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(plan); err != nil {
			return err
		}
		return enc.Close()
	case FormatText, "":
		writePlanText(w, plan)
		return nil
	default:
		return fmt.Errorf("unsupported format %q (use text, json or yaml)", format)
	}
}

func writePlanText(w io.Writer, plan *queries.ActionPlanDTO) {
	fmt.Fprintln(w, titleStyle.Render("Action plan: "+plan.Project))
	if len(plan.Steps) == 0 {
		fmt.Fprintln(w, "  No tasks.")
		return
	}
	for _, s := range plan.Steps {
		fmt.Fprintf(w, "  %2d. %s\n", s.Position, s.Name)
		fmt.Fprintf(w, "      %s, score %d\n", s.Quadrant, s.Score)
		if len(s.Dependencies) > 0 {
			fmt.Fprintf(w, "      after: %s\n", strings.Join(s.Dependencies, ", "))
		}
	}
}
