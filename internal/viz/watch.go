package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/orbitsim/internal/engine"
)

const energyHistory = 240

// TickMsg drives one frame of the watch view.
type TickMsg time.Time

// WatchOptions configures a Watch model.
type WatchOptions struct {
	// Dt is the simulated step per frame, before the engine's time scale.
	Dt float64
	// FPS is the frame rate; zero means 30.
	FPS   int
	Theme string
}

// Watch is a bubbletea model that advances an engine once per frame and shows
// its statistics, a body table, an orbit map and an energy sparkline.
type Watch struct {
	eng  *engine.Engine
	dt   float64
	fps  int
	view Viewport

	theme  Theme
	styles Styles

	energies []float64
	width    int
	height   int
	showHelp bool
	showMap  bool
	trails   bool
	err      error
}

// NewWatch starts eng and returns the model. The orbit viewport is fitted to
// the active system at construction time.
func NewWatch(eng *engine.Engine, opts WatchOptions) *Watch {
	if opts.FPS <= 0 {
		opts.FPS = 30
	}
	theme := GetTheme(opts.Theme)
	w := &Watch{
		eng:     eng,
		dt:      opts.Dt,
		fps:     opts.FPS,
		theme:   theme,
		styles:  NewStyles(theme),
		width:   80,
		height:  24,
		showMap: true,
		trails:  true,
	}
	if sys := eng.ActiveSystem(); sys != nil {
		w.view = FitViewport(sys)
	}
	eng.Start()
	return w
}

func (w *Watch) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(w.fps), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (w *Watch) Init() tea.Cmd {
	return w.tick()
}

func (w *Watch) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		w.width, w.height = msg.Width, msg.Height
	case tea.KeyMsg:
		return w, w.handleKey(msg.String())
	case TickMsg:
		w.step()
		return w, w.tick()
	}
	return w, nil
}

func (w *Watch) handleKey(key string) tea.Cmd {
	switch key {
	case "q", "ctrl+c", "esc":
		w.eng.Stop()
		return tea.Quit
	case " ":
		w.eng.TogglePause()
	case "r":
		w.eng.ResetSimulation()
		w.energies = w.energies[:0]
	case "m":
		w.err = w.eng.SetForceModel(cycle(w.eng.ModelKeys(), w.eng.ActiveModel()))
	case "i":
		w.err = w.eng.SetIntegrator(cycle(w.eng.IntegratorKeys(), w.eng.ActiveIntegrator()))
	case "+", "=":
		w.err = w.eng.SetTimeScale(w.eng.TimeScale() * 2)
	case "-", "_":
		w.err = w.eng.SetTimeScale(w.eng.TimeScale() / 2)
	case "t":
		w.theme = NextTheme(w.theme.Name)
		w.styles = NewStyles(w.theme)
	case "o":
		w.showMap = !w.showMap
	case "c":
		w.trails = !w.trails
	case "f":
		if sys := w.eng.ActiveSystem(); sys != nil {
			w.view = FitViewport(sys)
		}
	case "?":
		w.showHelp = !w.showHelp
	}
	return nil
}

func cycle[K comparable](keys []K, current K) K {
	for i, k := range keys {
		if k == current {
			return keys[(i+1)%len(keys)]
		}
	}
	if len(keys) > 0 {
		return keys[0]
	}
	return current
}

func (w *Watch) step() {
	if w.eng.Paused() || !w.eng.Running() {
		return
	}
	w.eng.Update(w.dt)
	w.energies = append(w.energies, w.eng.Statistics().TotalEnergy)
	if len(w.energies) > energyHistory {
		w.energies = w.energies[len(w.energies)-energyHistory:]
	}
}

// Energies returns the recent total-energy samples, oldest first.
func (w *Watch) Energies() []float64 { return w.energies }

func (w *Watch) Theme() Theme { return w.theme }

func (w *Watch) View() string {
	stats := w.eng.Statistics()
	s := w.styles

	left := []string{StatsPanel(s, stats)}
	left = append(left, s.Field("Time scale", fmt.Sprintf("x%g", w.eng.TimeScale())))
	left = append(left, s.Field("Energy", Sparkline(Relative(w.energies), 30)))
	if w.err != nil {
		left = append(left, s.Warning.Render(w.err.Error()))
	}
	sidebar := lipgloss.JoinVertical(lipgloss.Left, left...)

	var main string
	if sys := w.eng.ActiveSystem(); sys != nil {
		parts := []string{BodyTable(s, sys)}
		if w.showMap {
			cw := max(w.width-lipgloss.Width(sidebar)-4, 10)
			ch := max(w.height-lipgloss.Height(parts[0])-4, 4)
			c := NewCanvas(cw, ch)
			c.DrawSystem(sys, w.view, w.trails)
			parts = append(parts, s.Panel.Render(c.String()))
		}
		main = lipgloss.JoinVertical(lipgloss.Left, parts...)
	} else {
		main = s.Hint.Render("no active system")
	}

	screen := lipgloss.JoinHorizontal(lipgloss.Top, sidebar, " ", main)
	footer := s.Hint.Render("space pause  r reset  m model  i integrator  +/- speed  t theme  ? help  q quit")
	if w.showHelp {
		return lipgloss.JoinVertical(lipgloss.Left, w.help(), screen, footer)
	}
	return lipgloss.JoinVertical(lipgloss.Left, screen, footer)
}

func (w *Watch) help() string {
	keys := [][2]string{
		{"space", "pause or resume"},
		{"r", "reset clock and trails"},
		{"m", "next force model"},
		{"i", "next integrator"},
		{"+ / -", "double or halve the time scale"},
		{"o", "toggle orbit map"},
		{"c", "toggle trails"},
		{"f", "refit the map"},
		{"t", "next theme"},
		{"q", "quit"},
	}
	var b strings.Builder
	for _, k := range keys {
		b.WriteString(w.styles.Field(k[0], k[1]) + "\n")
	}
	return w.styles.Panel.Render(strings.TrimRight(b.String(), "\n"))
}
