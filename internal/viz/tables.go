package viz

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/san-kum/orbitsim/internal/celestial"
	"github.com/san-kum/orbitsim/internal/engine"
)

// FormatDuration renders simulated seconds in the largest sensible unit.
func FormatDuration(seconds float64) string {
	switch {
	case seconds >= celestial.SecondsPerYear:
		return fmt.Sprintf("%.2f yr", seconds/celestial.SecondsPerYear)
	case seconds >= 86400:
		return fmt.Sprintf("%.2f d", seconds/86400)
	case seconds >= 3600:
		return fmt.Sprintf("%.2f h", seconds/3600)
	default:
		return fmt.Sprintf("%.1f s", seconds)
	}
}

func status(s Styles, stats engine.Statistics) string {
	switch {
	case !stats.Running:
		return s.Warning.Render("STOPPED")
	case stats.Paused:
		return s.Paused.Render("PAUSED")
	default:
		return s.Running.Render("RUNNING")
	}
}

// StatsPanel renders the statistics block shown beside the body table.
func StatsPanel(s Styles, stats engine.Statistics) string {
	lines := []string{
		s.Header.Render(strings.ToUpper(stats.System)),
		status(s, stats),
		"",
		s.Field("Time", FormatDuration(stats.SimulationTime)),
		s.Field("Ticks", fmt.Sprintf("%d", stats.Ticks)),
		s.Field("Bodies", fmt.Sprintf("%d", stats.BodyCount)),
		s.Field("Energy", fmt.Sprintf("%.6e J", stats.TotalEnergy)),
		s.Field("Ang. momentum", fmt.Sprintf("%.6e", stats.AngularMomentum)),
		s.Field("Model", string(stats.PhysicsModel)),
		s.Field("Integrator", string(stats.Integrator)),
		s.Field("FPS", fmt.Sprintf("%.1f", stats.FPS)),
		s.Field("Compute", fmt.Sprintf("%.3f ms", stats.ComputationTimeMs)),
	}
	return s.Panel.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// BodyTable lists every body of sys with its distance, speed and eccentricity
// relative to the central body. Orbital columns are blank for the central body
// itself and when the system has none.
func BodyTable(s Styles, sys *celestial.System) string {
	central := sys.Central()
	rows := make([][]string, 0, sys.Len())
	colors := make([]lipgloss.Color, 0, sys.Len())
	for _, b := range sys.Bodies {
		dist, ecc := "-", "-"
		speed := b.Velocity.Magnitude()
		if central != nil && b != central {
			dist = fmt.Sprintf("%.4g AU", b.Position.Distance(central.Position)/celestial.AU)
			speed = b.Velocity.Sub(central.Velocity).Magnitude()
			if el, ok := b.OrbitalElements(central); ok {
				ecc = fmt.Sprintf("%.4f", el.Eccentricity)
			}
		}
		rows = append(rows, []string{
			b.Name,
			string(b.Type),
			fmt.Sprintf("%.3e", b.Mass),
			dist,
			fmt.Sprintf("%.3g km/s", speed/1000),
			ecc,
		})
		colors = append(colors, lipgloss.Color(b.Color.Hex()))
	}

	header := s.Label.UnsetWidth().Bold(true).Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(s.Border).
		Headers("NAME", "TYPE", "MASS (kg)", "DISTANCE", "SPEED", "ECC").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			if col == 0 && row >= 0 && row < len(colors) {
				return cell.Foreground(colors[row])
			}
			return cell
		}).
		String()
}
