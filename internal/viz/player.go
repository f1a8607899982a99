package viz

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/sphview/internal/playback"
)

// chrome is the number of terminal rows and columns around the canvas.
const (
	chromeRows = 6
	chromeCols = 2
)

// FrameMsg is posted to the program after every controller notification.
type FrameMsg struct {
	Index, Total int
}

// ReloadMsg asks the player to load Path again.
type ReloadMsg struct {
	Path string
}

// TermViewport reports the canvas size in braille sub-pixels. It is written
// by the tea loop and read by the controller's ticker.
type TermViewport struct {
	w, h atomic.Int64
}

func NewTermViewport(w, h int) *TermViewport {
	v := &TermViewport{}
	v.Resize(w, h)
	return v
}

func (v *TermViewport) Size() (int, int) {
	return int(v.w.Load()), int(v.h.Load())
}

func (v *TermViewport) Resize(w, h int) {
	v.w.Store(int64(w))
	v.h.Store(int64(h))
}

type PlayerOptions struct {
	Path    string
	Theme   string
	AutoRun bool
	// Reload delivers paths to load again, typically from a file watcher.
	Reload <-chan string
	// Err is shown until the next successful action, e.g. a failed
	// startup load of Path.
	Err error
}

// Player is the bubbletea front end of a playback.Controller.
type Player struct {
	ctrl      *playback.Controller
	vp        *TermViewport
	frames    chan FrameMsg
	reload    <-chan string
	path      string
	canvas    *Canvas
	theme     Theme
	styles    styles
	last      FrameMsg
	err       error
	showHelp  bool
	prompting bool
	input     string
	width     int
}

// NewPlayer wires ctrl's notifications into the tea loop. Ticks fire on the
// controller's goroutine; the player only ever sees them as FrameMsg.
func NewPlayer(ctrl *playback.Controller, vp *TermViewport, opts PlayerOptions) Player {
	theme := GetTheme(opts.Theme)
	frames := make(chan FrameMsg, 1)
	ctrl.OnFrameChanged(func(index, total int) {
		// Coalesce: View always reads the latest drawables.
		select {
		case frames <- FrameMsg{Index: index, Total: total}:
		default:
		}
	})

	p := Player{
		ctrl:   ctrl,
		vp:     vp,
		frames: frames,
		reload: opts.Reload,
		path:   opts.Path,
		theme:  theme,
		styles: newStyles(theme),
		last:   FrameMsg{Index: ctrl.Index(), Total: ctrl.FrameCount()},
		err:    opts.Err,
	}
	if opts.AutoRun && ctrl.State() == playback.Ready {
		p.err = ignoreEmpty(ctrl.Run())
	}
	return p
}

func waitForFrame(ch <-chan FrameMsg) tea.Cmd {
	return func() tea.Msg { return <-ch }
}

func waitForReload(ch <-chan string) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		path, ok := <-ch
		if !ok {
			return nil
		}
		return ReloadMsg{Path: path}
	}
}

func (m Player) Init() tea.Cmd {
	return tea.Batch(waitForFrame(m.frames), waitForReload(m.reload))
}

func (m Player) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.canvas = NewCanvas(msg.Width-chromeCols, msg.Height-chromeRows)
		m.vp.Resize(m.canvas.PixelSize())
		m.ctrl.Refresh()
	case FrameMsg:
		m.last = msg
		return m, waitForFrame(m.frames)
	case ReloadMsg:
		m = m.load(msg.Path)
		return m, waitForReload(m.reload)
	case tea.KeyMsg:
		if m.prompting {
			return m.promptKey(msg), nil
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Player) handleKey(msg tea.KeyMsg) (Player, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.ctrl.Close()
		return m, tea.Quit
	case " ":
		if m.ctrl.State() == playback.Running {
			m.err = m.ctrl.Stop()
		} else {
			m.err = m.ctrl.Run()
		}
	case "n", "l", "right":
		_, m.err = m.ctrl.Step()
	case "r":
		if m.path != "" {
			m = m.load(m.path)
		}
	case "o":
		m.prompting = true
		m.input = ""
	case "t":
		m.theme = NextTheme(m.theme)
		m.styles = newStyles(m.theme)
	case "?":
		m.showHelp = !m.showHelp
	}
	return m, nil
}

func (m Player) promptKey(msg tea.KeyMsg) Player {
	switch msg.Type {
	case tea.KeyEsc:
		m.prompting = false
	case tea.KeyEnter:
		m.prompting = false
		if path := strings.TrimSpace(m.input); path != "" {
			m = m.load(path)
		}
	case tea.KeyBackspace:
		if r := []rune(m.input); len(r) > 0 {
			m.input = string(r[:len(r)-1])
		}
	case tea.KeySpace:
		m.input += " "
	case tea.KeyRunes:
		m.input += string(msg.Runes)
	}
	return m
}

// load decodes path on the tea loop, so input waits until it finishes. A run
// in progress resumes on the new trace.
func (m Player) load(path string) Player {
	running := m.ctrl.State() == playback.Running
	if err := m.ctrl.Load(path); err != nil {
		m.err = err
		return m
	}
	m.path = path
	m.err = nil
	m.last = FrameMsg{Index: 0, Total: m.ctrl.FrameCount()}
	if running {
		m.err = ignoreEmpty(m.ctrl.Run())
	}
	return m
}

func ignoreEmpty(err error) error {
	if errors.Is(err, playback.ErrEmptyTrace) {
		return nil
	}
	return err
}

func (m Player) draw() {
	m.canvas.Clear()
	d := m.ctrl.BallDiameter()
	for _, b := range m.ctrl.Drawables() {
		m.canvas.FillDisc(b.X, b.Y, d, int(b.Color))
	}
}

func (m Player) View() string {
	if m.canvas == nil {
		return "loading..."
	}
	m.draw()

	var s strings.Builder
	name := "no file"
	if m.path != "" {
		name = filepath.Base(m.path)
	}
	state := m.ctrl.State()
	stateStyle := m.styles.paused
	if state == playback.Running {
		stateStyle = m.styles.running
	}
	s.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		m.styles.title.Render("SPHVIEW "),
		m.styles.status.Render(fmt.Sprintf("%s  %s  ", name, m.ctrl.Progress())),
		stateStyle.Render(strings.ToUpper(state.String())),
	))
	s.WriteString("\n")
	s.WriteString(m.styles.frame.Render(strings.TrimSuffix(m.canvas.Render(m.theme.inks()), "\n")))
	s.WriteString("\n")
	s.WriteString(m.styles.muted.Render(ProgressBar(m.ctrl.Index(), m.ctrl.FrameCount(), m.canvas.Width)))
	s.WriteString("\n")

	switch {
	case m.prompting:
		s.WriteString(m.styles.status.Render("open: " + m.input + "_"))
	case m.err != nil:
		s.WriteString(m.styles.err.Render(m.err.Error()))
	case m.showHelp:
		s.WriteString(m.styles.muted.Render("space run/stop  n step  o open  r reload  t theme  q quit"))
	default:
		s.WriteString(m.styles.muted.Render(fmt.Sprintf("%d balls  theme %s  ? help", m.ctrl.BallCount(), m.theme.Name)))
	}
	return s.String()
}

// Run blocks until the player quits.
func Run(ctrl *playback.Controller, vp *TermViewport, opts PlayerOptions) error {
	_, err := tea.NewProgram(NewPlayer(ctrl, vp, opts), tea.WithAltScreen()).Run()
	return err
}
