package main

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/sphview/internal/analysis"
	"github.com/san-kum/sphview/internal/config"
	"github.com/san-kum/sphview/internal/export"
	"github.com/san-kum/sphview/internal/gui"
	"github.com/san-kum/sphview/internal/playback"
	"github.com/san-kum/sphview/internal/trace"
	"github.com/san-kum/sphview/internal/viz"
	"github.com/san-kum/sphview/internal/watch"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	// Config file
	configFile string
	// Preset name
	preset string
	// Playback
	fps      int
	ballSize float64
	autoRun  bool
	theme    string
	// Binary decoding
	reservedLines int
	// Headless viewport
	width  int
	height int
	// Diagnostics
	logFile   string
	verbose   bool
	watchFile bool

	// convert
	format string
	// snapshot
	frameIndex int
	// record
	maxFrames int
	// gui
	dark bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "sphview [trace]",
		Short:        "particle trace player",
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE:         runPlayer,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "use preset configuration")
	pf.IntVar(&fps, "fps", config.DefaultFPS, "playback frame rate")
	pf.Float64Var(&ballSize, "ball-size", config.DefaultBallSize, "ball diameter in pixels")
	pf.IntVar(&reservedLines, "reserved-lines", config.DefaultReservedLines, "lines skipped after the binary tag")
	pf.IntVar(&width, "width", config.DefaultWidth, "viewport width for window and exports")
	pf.IntVar(&height, "height", config.DefaultHeight, "viewport height for window and exports")
	pf.StringVar(&logFile, "log", "", "write diagnostics to this file")
	pf.BoolVarP(&verbose, "verbose", "v", false, "write diagnostics to stderr")

	addViewerFlags := func(cmd *cobra.Command) {
		cmd.Flags().BoolVar(&autoRun, "run", false, "start playing immediately")
		cmd.Flags().StringVar(&theme, "theme", config.DefaultTheme, "color theme ("+strings.Join(viz.ThemeNames(), "|")+")")
		cmd.Flags().BoolVar(&watchFile, "watch", false, "reload the trace when the file changes")
	}
	addViewerFlags(rootCmd)

	playCmd := &cobra.Command{
		Use:   "play [trace]",
		Short: "play a trace in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runPlayer,
	}
	addViewerFlags(playCmd)

	guiCmd := &cobra.Command{
		Use:   "gui [trace]",
		Short: "play a trace in a desktop window",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runGUI,
	}
	addViewerFlags(guiCmd)
	guiCmd.Flags().BoolVar(&dark, "dark", false, "dark background")

	infoCmd := &cobra.Command{
		Use:   "info [trace...]",
		Short: "summarize traces",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runInfo,
	}

	convertCmd := &cobra.Command{
		Use:   "convert [in] [out]",
		Short: "rewrite a trace in another format",
		Args:  cobra.ExactArgs(2),
		RunE:  runConvert,
	}
	convertCmd.Flags().StringVar(&format, "format", "binary", "output format (text|binary)")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [trace] [out]",
		Short: "export trace data to JSON",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, args, export.JSON)
		},
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [trace] [out]",
		Short: "export trace data to CSV",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, args, export.CSV)
		},
	}

	snapshotCmd := &cobra.Command{
		Use:   "snapshot [trace] [out.svg]",
		Short: "draw one frame as SVG",
		Args:  cobra.ExactArgs(2),
		RunE:  runSnapshot,
	}
	snapshotCmd.Flags().IntVar(&frameIndex, "frame", 0, "frame to draw")

	recordCmd := &cobra.Command{
		Use:   "record [trace] [out.gif]",
		Short: "record playback as an animated GIF",
		Args:  cobra.ExactArgs(2),
		RunE:  runRecord,
	}
	recordCmd.Flags().IntVar(&maxFrames, "frames", config.DefaultGIFFrames, "maximum frames to record (0 = all)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tFPS\tBALL\tVIEWPORT\tRESERVED\tTHEME")
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%d\t%.0f\t%dx%d\t%d\t%s\n", name, p.Playback.FPS, p.Playback.BallSize,
					p.Viewport.Width, p.Viewport.Height, p.Decoder.ReservedLines, p.Theme)
			}
			return w.Flush()
		},
	}

	rootCmd.AddCommand(playCmd, guiCmd, infoCmd, convertCmd, exportJSONCmd, exportCSVCmd, snapshotCmd, recordCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig applies the preset, then the config file, then any flag the
// user set explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("fps") {
		cfg.Playback.FPS = fps
	}
	if flags.Changed("ball-size") {
		cfg.Playback.BallSize = ballSize
	}
	if flags.Changed("run") {
		cfg.Playback.AutoRun = autoRun
	}
	if flags.Changed("reserved-lines") {
		cfg.Decoder.ReservedLines = reservedLines
	}
	if flags.Changed("width") {
		cfg.Viewport.Width = width
	}
	if flags.Changed("height") {
		cfg.Viewport.Height = height
	}
	if flags.Changed("theme") {
		cfg.Theme = theme
	}
	if flags.Changed("watch") {
		cfg.Watch = watchFile
	}
	if flags.Changed("frames") {
		cfg.Record.MaxFrames = maxFrames
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger returns nil unless diagnostics were requested. With --log the
// standard logger is pointed at the file, which keeps the terminal UI clean.
func newLogger() (*log.Logger, func(), error) {
	switch {
	case logFile != "":
		f, err := tea.LogToFile(logFile, "sphview")
		if err != nil {
			return nil, nil, err
		}
		return log.Default(), func() { f.Close() }, nil
	case verbose:
		return log.New(os.Stderr, "sphview ", log.LstdFlags), func() {}, nil
	}
	return nil, func() {}, nil
}

func newDecoder(cfg *config.Config, logger *log.Logger) *trace.Decoder {
	return &trace.Decoder{ReservedLines: cfg.Decoder.ReservedLines, Logger: logger}
}

func newController(cfg *config.Config, vp playback.Viewport, logger *log.Logger) *playback.Controller {
	return playback.New(vp, playback.Options{
		Interval:     cfg.Interval(),
		BallDiameter: cfg.Playback.BallSize,
		Decoder:      newDecoder(cfg, logger),
		Logger:       logger,
	})
}

// startWatch returns a reload channel for path, or nil when watching is off.
func startWatch(cfg *config.Config, path string, logger *log.Logger) (<-chan string, func(), error) {
	if !cfg.Watch || path == "" {
		return nil, func() {}, nil
	}
	w, err := watch.New(path, watch.DefaultDebounce)
	if err != nil {
		return nil, nil, fmt.Errorf("watch %s: %w", path, err)
	}
	go func() {
		for err := range w.Errors() {
			if logger != nil {
				logger.Printf("watch: %v", err)
			}
		}
	}()
	return w.Events(), func() { w.Close() }, nil
}

func runPlayer(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, closeLog, err := newLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	vp := viz.NewTermViewport(0, 0)
	ctrl := newController(cfg, vp, logger)
	defer ctrl.Close()

	// A failed startup load leaves the player open with no data; r retries.
	path := ""
	var loadErr error
	if len(args) > 0 {
		path = args[0]
		if err := ctrl.Load(path); err != nil {
			loadErr = fmt.Errorf("load %s: %w", filepath.Base(path), err)
			if logger != nil {
				logger.Print(loadErr)
			}
		}
	}

	reload, stop, err := startWatch(cfg, path, logger)
	if err != nil {
		return err
	}
	defer stop()

	return viz.Run(ctrl, vp, viz.PlayerOptions{
		Path:    path,
		Theme:   cfg.Theme,
		AutoRun: cfg.Playback.AutoRun,
		Reload:  reload,
		Err:     loadErr,
	})
}

func runGUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, closeLog, err := newLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	path := ""
	if len(args) > 0 {
		path = args[0]
	}
	reload, stop, err := startWatch(cfg, path, logger)
	if err != nil {
		return err
	}
	defer stop()

	app := gui.NewApp(gui.Options{
		Path:    path,
		Width:   cfg.Viewport.Width,
		Height:  cfg.Viewport.Height,
		AutoRun: cfg.Playback.AutoRun,
		Dark:    dark,
		Reload:  reload,
	})
	return gui.Run(newController(cfg, app.Viewport(), logger), app)
}

func decodeFile(cmd *cobra.Command, path string) (*trace.Trace, *config.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	logger, closeLog, err := newLogger()
	if err != nil {
		return nil, nil, err
	}
	defer closeLog()

	t, err := newDecoder(cfg, logger).DecodeFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return t, cfg, nil
}

func runInfo(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, closeLog, err := newLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	traces := make([]*trace.Trace, len(args))
	var g errgroup.Group
	g.SetLimit(4)
	for i, path := range args {
		g.Go(func() error {
			t, err := newDecoder(cfg, logger).DecodeFile(path)
			if err != nil {
				return fmt.Errorf("decode %s: %w", path, err)
			}
			traces[i] = t
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i, t := range traces {
		if i > 0 {
			fmt.Println()
		}
		printInfo(os.Stdout, args[i], t)
	}
	return nil
}

func printInfo(out io.Writer, path string, t *trace.Trace) {
	s := analysis.Summarize(t)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "file:\t%s\n", filepath.Base(path))
	fmt.Fprintf(w, "format:\t%s (%s)\n", s.Format, s.Format.Tag())
	fmt.Fprintf(w, "balls:\t%d\n", s.NumBalls)
	fmt.Fprintf(w, "scale:\t%g\n", s.Scale)
	fmt.Fprintf(w, "frames:\t%d\n", s.Frames)
	if s.Frames > 0 {
		classes := make([]string, len(s.Classes))
		for i, c := range s.Classes {
			classes[i] = fmt.Sprintf("%d:%d", c.Class, c.Count)
		}
		fmt.Fprintf(w, "classes:\t%s\n", strings.Join(classes, " "))
		b := s.Bounds
		fmt.Fprintf(w, "bounds:\t[%.4g, %.4g] x [%.4g, %.4g]\n", b.MinX, b.MaxX, b.MinY, b.MaxY)
		if s.Outside > 0 {
			fmt.Fprintf(w, "outside:\t%d positions beyond [0, %g]\n", s.Outside, s.Scale)
		}
	}
	w.Flush()

	if s.Frames < 2 {
		return
	}
	_, ys := analysis.MeanSeries(t)
	fmt.Fprintln(out)
	fmt.Fprintln(out, asciigraph.Plot(ys,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("mean y per frame"),
	))
	if p, ok := analysis.DominantPeriod(ys); ok {
		fmt.Fprintf(out, "dominant period: %.1f frames\n", p)
	}
}

func runConvert(cmd *cobra.Command, args []string) error {
	f, err := trace.ParseFormat(format)
	if err != nil {
		return err
	}
	t, cfg, err := decodeFile(cmd, args[0])
	if err != nil {
		return err
	}

	enc := trace.NewEncoder(f)
	enc.ReservedLines = cfg.Decoder.ReservedLines
	if err := enc.EncodeFile(args[1], t); err != nil {
		return fmt.Errorf("write %s: %w", args[1], err)
	}
	fmt.Printf("converted %d frames to %s: %s\n", t.Len(), f, args[1])
	return nil
}

func runExport(cmd *cobra.Command, args []string, write func(io.Writer, *trace.Trace) error) error {
	t, _, err := decodeFile(cmd, args[0])
	if err != nil {
		return err
	}
	if len(args) == 1 {
		return write(os.Stdout, t)
	}

	var buf bytes.Buffer
	if err := write(&buf, t); err != nil {
		return err
	}
	if err := os.WriteFile(args[1], buf.Bytes(), 0644); err != nil {
		return err
	}
	fmt.Printf("exported %d frames to %s\n", t.Len(), args[1])
	return nil
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	t, cfg, err := decodeFile(cmd, args[0])
	if err != nil {
		return err
	}
	if t.Len() == 0 {
		return playback.ErrEmptyTrace
	}
	if frameIndex < 0 || frameIndex >= t.Len() {
		return fmt.Errorf("frame %d out of range [0, %d)", frameIndex, t.Len())
	}

	w, h := cfg.Viewport.Width, cfg.Viewport.Height
	ctrl := newController(cfg, playback.FixedViewport{Width: w, Height: h}, nil)
	defer ctrl.Close()
	ctrl.LoadTrace(t)
	for i := 0; i < frameIndex; i++ {
		if _, err := ctrl.Step(); err != nil {
			return err
		}
	}

	svg := export.SVG(ctrl.Drawables(), w, h, ctrl.BallDiameter())
	if err := os.WriteFile(args[1], []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("saved frame %s to %s\n", ctrl.Progress(), args[1])
	return nil
}

func runRecord(cmd *cobra.Command, args []string) error {
	t, cfg, err := decodeFile(cmd, args[0])
	if err != nil {
		return err
	}

	f, err := os.Create(args[1])
	if err != nil {
		return err
	}
	err = export.GIF(f, t, export.GIFOptions{
		Width:     cfg.Viewport.Width,
		Height:    cfg.Viewport.Height,
		Diameter:  cfg.Playback.BallSize,
		Interval:  cfg.Interval(),
		MaxFrames: cfg.Record.MaxFrames,
	})
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("record %s: %w", args[1], err)
	}
	fmt.Printf("recorded %s\n", args[1])
	return nil
}
