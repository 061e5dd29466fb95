package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/avelarde/growthsim/internal/child"
	"github.com/avelarde/growthsim/internal/dynamo"
)

const historyCapacity = 600

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(42)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(14)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	focusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 2)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

type TickMsg time.Time

// Live is a terminal view that steps a growth simulation in real time.
type Live struct {
	model      *child.Model
	integrator dynamo.Integrator
	state      dynamo.State
	elapsed    float64
	horizon    float64
	stepsTick  int
	running    bool
	done       bool
	focus      int
	history    []float64
	title      string
	frame      time.Duration
}

// NewLive prepares a live view over the given model. horizon bounds the
// simulated days; stepsTick is how many integration steps run per frame.
func NewLive(m *child.Model, integ dynamo.Integrator, horizon float64, title string, fps int) Live {
	if fps <= 0 {
		fps = 30
	}
	return Live{
		model:      m,
		integrator: integ,
		state:      m.InitialState(),
		horizon:    horizon,
		stepsTick:  1,
		running:    true,
		title:      title,
		frame:      time.Second / time.Duration(fps),
		history:    make([]float64, 0, historyCapacity),
	}
}

func (l Live) Init() tea.Cmd {
	return tea.Tick(l.frame, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Update handles key input and advances the simulation each tick.
func (l Live) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return l, tea.Quit
		case " ":
			l.running = !l.running
		case "r":
			l.reset()
		case "up", "k":
			if l.stepsTick < 64 {
				l.stepsTick *= 2
			}
		case "down", "j":
			if l.stepsTick > 1 {
				l.stepsTick /= 2
			}
		case "tab":
			l.focus = (l.focus + 1) % l.model.Len()
		}
	case TickMsg:
		if l.running && !l.done {
			l.step()
		}
		return l, tea.Tick(l.frame, func(t time.Time) tea.Msg { return TickMsg(t) })
	}
	return l, nil
}

func (l *Live) step() {
	dt := l.model.Dt()
	for s := 0; s < l.stepsTick; s++ {
		if l.elapsed+dt > l.horizon+1e-9 {
			l.done = true
			l.running = false
			break
		}
		l.state = l.integrator.Step(l.model, l.state, l.elapsed, dt)
		l.elapsed += dt
	}
	l.history = append(l.history, l.meanWeight())
	if len(l.history) > historyCapacity {
		l.history = l.history[1:]
	}
}

func (l *Live) reset() {
	l.state = l.model.InitialState()
	l.elapsed = 0
	l.done = false
	l.running = true
	l.history = l.history[:0]
}

func (l Live) meanWeight() float64 {
	n := l.model.Len()
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += l.state[i] + l.state[n+i]
	}
	return sum / float64(n)
}

// View renders the chart and the stats panel side by side.
func (l Live) View() string {
	var chart string
	if len(l.history) > 1 {
		chart = asciigraph.Plot(l.history,
			asciigraph.Height(14),
			asciigraph.Width(64),
			asciigraph.Caption("mean body weight (kg)"))
	} else {
		chart = "(waiting for samples)"
	}
	chartView := graphStyle.Render(chart)

	n := l.model.Len()
	coh := l.model.Cohort()
	i := l.focus
	ffm, fm := l.state[i], l.state[n+i]
	age := coh.Age[i] + l.elapsed/365.0

	status := "RUNNING"
	if l.done {
		status = "FINISHED"
	} else if !l.running {
		status = "PAUSED"
	}

	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(l.title)) + "\n")
	s.WriteString(status + "\n\n")
	s.WriteString(labelStyle.Render("Day") + valueStyle.Render(fmt.Sprintf("%.0f / %.0f", l.elapsed, l.horizon)) + "\n")
	s.WriteString(labelStyle.Render("Cohort") + valueStyle.Render(fmt.Sprintf("%d children", n)) + "\n")
	s.WriteString(labelStyle.Render("Mean weight") + valueStyle.Render(fmt.Sprintf("%.2f kg", l.meanWeight())) + "\n")
	s.WriteString(labelStyle.Render("Speed") + valueStyle.Render(fmt.Sprintf("%d steps/frame", l.stepsTick)) + "\n")
	s.WriteString("\n" + focusStyle.Render(fmt.Sprintf("CHILD %d", i)) + "\n")
	s.WriteString(labelStyle.Render("Age") + valueStyle.Render(fmt.Sprintf("%.2f y", age)) + "\n")
	s.WriteString(labelStyle.Render("Fat-free mass") + valueStyle.Render(fmt.Sprintf("%.2f kg", ffm)) + "\n")
	s.WriteString(labelStyle.Render("Fat mass") + valueStyle.Render(fmt.Sprintf("%.2f kg", fm)) + "\n")
	s.WriteString(labelStyle.Render("Body weight") + valueStyle.Render(fmt.Sprintf("%.2f kg", ffm+fm)) + "\n")
	s.WriteString(helpStyle.Render("\nSP:Pause R:Reset Q:Quit\nTab:Child ↑↓:Speed"))
	statsView := statsStyle.Render(s.String())

	return lipgloss.JoinHorizontal(lipgloss.Top, chartView, statsView)
}
