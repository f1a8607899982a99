package viz

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/sphview/internal/playback"
)

const threeFrames = "SPHView00 2 1.0\n0.1 0.1 0 0.9 0.9 1\n0.2 0.2 0 0.8 0.8 1\n0.3 0.3 0 0.7 0.7 1\n"

func writeTrace(t *testing.T, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "run.sph")
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func newPlayer(t *testing.T, opts PlayerOptions) (Player, *playback.Controller) {
	t.Helper()
	vp := NewTermViewport(80, 80)
	ctrl := playback.New(vp, playback.Options{Interval: time.Hour})
	t.Cleanup(func() { ctrl.Close() })
	if opts.Path != "" && !ctrl.Open(opts.Path) {
		t.Fatalf("open %s failed", opts.Path)
	}
	p := NewPlayer(ctrl, vp, opts)
	m, _ := p.Update(tea.WindowSizeMsg{Width: 42, Height: 26})
	return m.(Player), ctrl
}

func key(s string) tea.KeyMsg {
	switch s {
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestPlayerResizeSetsViewport(t *testing.T) {
	p, _ := newPlayer(t, PlayerOptions{})
	w, h := p.vp.Size()
	if w != (42-chromeCols)*2 || h != (26-chromeRows)*4 {
		t.Errorf("unexpected viewport %dx%d", w, h)
	}
}

func TestPlayerStepAndView(t *testing.T) {
	path := writeTrace(t, threeFrames)
	p, ctrl := newPlayer(t, PlayerOptions{Path: path})

	if !strings.Contains(p.View(), "0/3") {
		t.Errorf("expected 0/3 in view")
	}

	m, _ := p.Update(key("n"))
	p = m.(Player)
	if ctrl.Index() != 1 {
		t.Errorf("expected index 1, got %d", ctrl.Index())
	}
	view := p.View()
	if !strings.Contains(view, "1/3") || !strings.Contains(view, "run.sph") {
		t.Errorf("view missing progress or name:\n%s", view)
	}
}

func TestPlayerRunStop(t *testing.T) {
	p, ctrl := newPlayer(t, PlayerOptions{Path: writeTrace(t, threeFrames)})

	m, _ := p.Update(key(" "))
	p = m.(Player)
	if ctrl.State() != playback.Running {
		t.Fatalf("expected running, got %v", ctrl.State())
	}
	m, _ = p.Update(key(" "))
	p = m.(Player)
	if ctrl.State() != playback.Ready {
		t.Errorf("expected ready, got %v", ctrl.State())
	}
	if p.err != nil {
		t.Errorf("unexpected error: %v", p.err)
	}
}

func TestPlayerRunWithoutData(t *testing.T) {
	p, _ := newPlayer(t, PlayerOptions{})
	m, _ := p.Update(key(" "))
	p = m.(Player)
	if p.err == nil {
		t.Error("expected error running without data")
	}
	if !strings.Contains(p.View(), "empty trace") {
		t.Error("expected error in view")
	}
}

func TestPlayerOpenPrompt(t *testing.T) {
	p, ctrl := newPlayer(t, PlayerOptions{Path: writeTrace(t, threeFrames)})
	other := writeTrace(t, "SPHView00 1 1.0\n0.5 0.5 0\n")

	for _, msg := range []tea.Msg{key("o"), key(other), key("enter")} {
		m, _ := p.Update(msg)
		p = m.(Player)
	}
	if ctrl.FrameCount() != 1 || p.path != other {
		t.Errorf("expected new trace loaded, got %d frames from %s", ctrl.FrameCount(), p.path)
	}

	for _, msg := range []tea.Msg{key("o"), key("/nonexistent"), key("enter")} {
		m, _ := p.Update(msg)
		p = m.(Player)
	}
	if p.err == nil || ctrl.FrameCount() != 1 {
		t.Errorf("failed open should keep trace and report error")
	}
}

func TestPlayerReloadResumesRun(t *testing.T) {
	path := writeTrace(t, threeFrames)
	p, ctrl := newPlayer(t, PlayerOptions{Path: path, AutoRun: true})
	if ctrl.State() != playback.Running {
		t.Fatalf("expected autorun, got %v", ctrl.State())
	}

	os.WriteFile(path, []byte("SPHView00 1 1.0\n0.5 0.5 0\n0.6 0.6 1\n"), 0644)
	m, _ := p.Update(ReloadMsg{Path: path})
	p = m.(Player)
	if ctrl.FrameCount() != 2 {
		t.Errorf("expected reloaded trace, got %d frames", ctrl.FrameCount())
	}
	if ctrl.State() != playback.Running {
		t.Errorf("expected run resumed, got %v", ctrl.State())
	}
}

func TestPlayerFrameMsgRearms(t *testing.T) {
	p, _ := newPlayer(t, PlayerOptions{Path: writeTrace(t, threeFrames)})
	m, cmd := p.Update(FrameMsg{Index: 2, Total: 3})
	if cmd == nil {
		t.Error("expected follow-up wait command")
	}
	if m.(Player).last.Index != 2 {
		t.Error("frame message not recorded")
	}
}

func TestPlayerQuit(t *testing.T) {
	p, _ := newPlayer(t, PlayerOptions{})
	_, cmd := p.Update(key("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func TestPlayerStartsAfterFailedLoad(t *testing.T) {
	path := writeTrace(t, "not a trace")
	vp := NewTermViewport(80, 80)
	ctrl := playback.New(vp, playback.Options{Interval: time.Hour})
	t.Cleanup(func() { ctrl.Close() })

	err := ctrl.Load(path)
	if err == nil {
		t.Fatal("expected load to fail")
	}
	p := NewPlayer(ctrl, vp, PlayerOptions{Path: path, AutoRun: true, Err: err})
	m, _ := p.Update(tea.WindowSizeMsg{Width: 42, Height: 26})
	p = m.(Player)

	if ctrl.State() != playback.NoData {
		t.Errorf("expected NoData, got %v", ctrl.State())
	}
	if !strings.Contains(p.View(), "unknown format") {
		t.Errorf("expected load error in view:\n%s", p.View())
	}

	// Fix the file and retry with r.
	if err := os.WriteFile(path, []byte(threeFrames), 0644); err != nil {
		t.Fatal(err)
	}
	m, _ = p.Update(key("r"))
	p = m.(Player)
	if p.err != nil {
		t.Errorf("expected error cleared after reload, got %v", p.err)
	}
	if ctrl.State() != playback.Ready || ctrl.FrameCount() != 3 {
		t.Errorf("expected 3 frames ready, got %v with %d frames", ctrl.State(), ctrl.FrameCount())
	}
}
