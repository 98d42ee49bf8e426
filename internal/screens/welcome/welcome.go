package welcome

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/kenroads/ntsabuddy/internal/router"
	"github.com/kenroads/ntsabuddy/internal/screen"
	"github.com/kenroads/ntsabuddy/internal/ui/theme"
)

const (
	tickInterval = 100 * time.Millisecond
	phase1End    = 500 * time.Millisecond
	phase2End    = 1500 * time.Millisecond
	totalDur     = 3000 * time.Millisecond
)

// Tagline appears with the banner.
const Tagline = "Pass your NTSA driving test with an AI instructor"

const roadWidth = 36

const carArt = ` __/‾‾\__
|_o____o_|`

// Traffic light frames cycle red, amber, green while the car drives in.
var lightFrames = []string{"🔴", "🟡", "🟢"}

type tickMsg time.Time

// WelcomeScreen shows a splash animation before transitioning to the home screen.
type WelcomeScreen struct {
	homeFactory  func() screen.Screen
	elapsed      time.Duration
	tickCount    int
	transitioned bool
}

var _ screen.Screen = (*WelcomeScreen)(nil)

// New creates a WelcomeScreen that will transition to the screen produced by homeFactory.
func New(homeFactory func() screen.Screen) *WelcomeScreen {
	return &WelcomeScreen{
		homeFactory: homeFactory,
	}
}

func (w *WelcomeScreen) Title() string {
	return ""
}

func (w *WelcomeScreen) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg.(type) {
	case tickMsg:
		if w.transitioned {
			return w, nil
		}
		if w.elapsed < totalDur {
			w.elapsed += tickInterval
		}
		w.tickCount++
		return w, tick()

	case tea.KeyPressMsg:
		// Any key skips the rest of the animation.
		return w, w.transition()
	}

	return w, nil
}

func (w *WelcomeScreen) transition() tea.Cmd {
	if w.transitioned {
		return nil
	}
	w.transitioned = true
	homeScreen := w.homeFactory()
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: homeScreen}
	}
}

func (w *WelcomeScreen) View(width, height int) string {
	var sections []string

	// Phase 1: the car drives in from the left.
	progress := float64(w.elapsed) / float64(phase2End)
	if progress > 1 {
		progress = 1
	}
	indent := int(progress * float64(roadWidth-10))
	car := lipgloss.NewStyle().Foreground(theme.Accent).Render(carArt)
	lines := strings.Split(car, "\n")
	for i := range lines {
		lines[i] = strings.Repeat(" ", indent) + lines[i]
	}
	road := lipgloss.NewStyle().Foreground(theme.TextDim).Render(strings.Repeat("═", roadWidth))
	scene := lipgloss.NewStyle().Width(roadWidth).Render(strings.Join(lines, "\n")) + "\n" + road

	// Phase 2: the traffic light cycles beside the road.
	if w.elapsed >= phase1End {
		light := lightFrames[(w.tickCount/3)%len(lightFrames)]
		if w.elapsed >= phase2End {
			light = lightFrames[len(lightFrames)-1]
		}
		scene = lipgloss.JoinHorizontal(lipgloss.Bottom, scene, "  "+light)
	}
	sections = append(sections, scene)

	// Phase 3: banner and tagline.
	if w.elapsed >= phase2End {
		sections = append(sections, "")
		sections = append(sections, RenderBanner(width))
		sections = append(sections, "")
		sections = append(sections, lipgloss.NewStyle().
			Foreground(theme.Text).
			Bold(true).
			Render(Tagline))
		sections = append(sections, "")
		sections = append(sections, lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Italic(true).
			Render("press any key to start studying"))
	}

	content := strings.Join(sections, "\n")

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
