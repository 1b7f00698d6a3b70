package main

import (
	"context"
	"errors"
	"fmt"
	"image/png"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/san-kum/wavesurf/internal/anim"
	"github.com/san-kum/wavesurf/internal/config"
	"github.com/san-kum/wavesurf/internal/export"
	"github.com/san-kum/wavesurf/internal/frames"
	"github.com/san-kum/wavesurf/internal/gui"
	"github.com/san-kum/wavesurf/internal/storage"
	"github.com/san-kum/wavesurf/internal/surface"
	"github.com/san-kum/wavesurf/internal/tui"
	"github.com/san-kum/wavesurf/internal/viz"
	"github.com/spf13/cobra"
)

var (
	// Config file
	configFile string
	// Preset name
	preset  string
	dataDir string
	pattern string
	fps     int
	output  string
	encoder string
	loop    bool
	verbose bool
	// play
	backend string
	// snapshot
	frameIndex int
)

// main registers the wavesurf commands and exits with status 1 on error.
func main() {
	rootCmd := &cobra.Command{
		Use:           "wavesurf",
		Short:         "animate height-field frames as a 3D surface",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging(verbose)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "use preset configuration")
	pf.StringVar(&dataDir, "data", ".wavesurf", "export history directory")
	pf.StringVar(&pattern, "pattern", config.DefaultFramePattern, "frame file glob")
	pf.IntVar(&fps, "fps", config.DefaultFPS, "frames per second")
	pf.StringVarP(&output, "output", "o", config.DefaultOutput, "output video path")
	pf.StringVar(&encoder, "encoder", "auto", "encoder: "+strings.Join(config.Encoders, "|"))
	pf.BoolVar(&loop, "loop", true, "wrap to the first frame after the last in interactive mode")
	pf.BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "encode the frames to a video file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			cfg.Export = true
			return run(cmd.Context(), cfg)
		},
	}

	playCmd := &cobra.Command{
		Use:   "play",
		Short: "play the frames interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			cfg.Export = false
			if cmd.Flags().Changed("backend") {
				cfg.Backend = backend
			}
			return run(cmd.Context(), cfg)
		},
	}
	playCmd.Flags().StringVar(&backend, "backend", "window", "backend: "+strings.Join(config.Backends, "|"))

	inspectCmd := &cobra.Command{
		Use:   "inspect",
		Short: "list frames with grid shape and height stats",
		Args:  cobra.NoArgs,
		RunE:  inspectFrames,
	}

	snapshotCmd := &cobra.Command{
		Use:   "snapshot [out.svg|out.png]",
		Short: "render a single frame to an image",
		Args:  cobra.ExactArgs(1),
		RunE:  snapshot,
	}
	snapshotCmd.Flags().IntVar(&frameIndex, "frame", 0, "frame index")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tMODE\tENCODER\tBACKEND\tFPS\tSIZE")
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%dx%d\n", name, p.Mode(), p.Encoder, p.Backend, p.FPS, p.Width, p.Height)
			}
			w.Flush()
		},
	}

	historyCmd := &cobra.Command{
		Use:   "history [run_id]",
		Short: "list recorded exports, or show one with per-frame stats",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				return showRun(args[0])
			}
			return listRuns(cmd, args)
		},
	}

	rootCmd.AddCommand(exportCmd, playCmd, inspectCmd, snapshotCmd, presetsCmd, historyCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func setupLogging(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// resolveConfig layers defaults, preset, config file and changed flags, in
// that order.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		fileCfg, err := config.Overlay(configFile, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = fileCfg
	}

	// CLI flags override config
	flags := cmd.Flags()
	if flags.Changed("pattern") {
		cfg.FramePattern = pattern
	}
	if flags.Changed("fps") {
		cfg.FPS = fps
	}
	if flags.Changed("output") {
		cfg.Output = output
	}
	if flags.Changed("encoder") {
		cfg.Encoder = encoder
	}
	if flags.Changed("loop") {
		cfg.Loop = loop
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func run(ctx context.Context, cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	slog.Debug("resolved config", "mode", cfg.Mode(), "pattern", cfg.FramePattern, "fps", cfg.FPS)

	seq, err := frames.LoadSequence(cfg.FramePattern)
	if err != nil {
		return err
	}
	slog.Info("loaded frames", "count", seq.Len(), "grid", seq.Frame(0).Shape())

	if cfg.Export {
		return runExport(ctx, cfg, seq)
	}
	return runPlay(cfg, seq)
}

func runExport(ctx context.Context, cfg *config.Config, seq *frames.Sequence) error {
	enc, err := export.New(cfg.Encoder, cfg.Output)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(cfg.Output); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	d := anim.New(seq, cfg.Style(), anim.Options{FPS: cfg.FPS})
	fmt.Printf("exporting %d frames to %s (%s, %d fps)...\n", seq.Len(), cfg.Output, enc.Name(), cfg.FPS)
	start := time.Now()

	err = export.Video(ctx, d, enc, export.Options{
		Path:   cfg.Output,
		FPS:    cfg.FPS,
		Width:  cfg.Width,
		Height: cfg.Height,
		Progress: func(done, total int) {
			fmt.Printf("\r  frame %d/%d", done, total)
		},
	})
	fmt.Println()
	if err != nil {
		return err
	}

	elapsed := time.Since(start)
	fmt.Printf("saved %s in %v\n", cfg.Output, elapsed.Round(time.Millisecond))

	lo, hi := seq.Extent()
	st := storage.New(dataDir)
	runID, err := st.Save(storage.RunMetadata{
		Pattern:   cfg.FramePattern,
		Output:    cfg.Output,
		Encoder:   enc.Name(),
		FPS:       cfg.FPS,
		Frames:    seq.Len(),
		Grid:      seq.Frame(0).Shape().String(),
		Width:     cfg.Width,
		Height:    cfg.Height,
		Elapsed:   elapsed,
		MinHeight: lo,
		MaxHeight: hi,
	}, seq.Paths(), seq.Stats())
	if err != nil {
		// history is best effort once the video exists
		slog.Warn("could not record export", "dir", dataDir, "error", err)
		return nil
	}
	slog.Debug("recorded export", "run", runID)
	return nil
}

func runPlay(cfg *config.Config, seq *frames.Sequence) error {
	d := anim.New(seq, cfg.Style(), anim.Options{FPS: cfg.FPS, Loop: cfg.Loop})
	slog.Debug("starting player", "backend", cfg.Backend, "loop", cfg.Loop)

	switch cfg.Backend {
	case "terminal":
		return tui.Run(d)
	default:
		return gui.Run(d, gui.Options{
			Width:  cfg.Width,
			Height: cfg.Height,
			Title:  "wavesurf - " + cfg.FramePattern,
		})
	}
}

func inspectFrames(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	paths, err := frames.Discover(cfg.FramePattern)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INDEX\tFILE\tGRID\tMIN\tMAX\tMEAN")

	var mismatch error
	var first frames.Shape
	for i, path := range paths {
		f, err := frames.Load(path)
		if err != nil {
			w.Flush()
			return err
		}
		shape := f.Shape()
		if i == 0 {
			first = shape
		}
		st := f.Stats()
		fmt.Fprintf(w, "%d\t%s\t%s\t%.4f\t%.4f\t%.4f\n", i, path, shape, st.Min, st.Max, st.Mean)

		if mismatch == nil && (!shape.Square() || shape != first) {
			n := first.Rows
			mismatch = &frames.FrameShapeMismatchError{Path: path, Expected: frames.Shape{Rows: n, Cols: n}, Actual: shape}
		}
	}
	w.Flush()

	fmt.Printf("\n%d frames, %.2fs at %d fps\n", len(paths), float64(len(paths))/float64(cfg.FPS), cfg.FPS)
	return mismatch
}

func snapshot(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	out := args[0]

	seq, err := frames.LoadSequence(cfg.FramePattern)
	if err != nil {
		return err
	}
	if frameIndex < 0 || frameIndex >= seq.Len() {
		return fmt.Errorf("frame %d out of range [0, %d)", frameIndex, seq.Len())
	}

	s, err := surface.Build(surface.NewMesh(seq.N()), seq.Frame(frameIndex), cfg.Style())
	if err != nil {
		return err
	}

	switch strings.ToLower(filepath.Ext(out)) {
	case ".svg":
		svg := export.SurfaceToSVG(s, viz.NewCamera(), cfg.Width, cfg.Height)
		if err := os.WriteFile(out, []byte(svg), 0644); err != nil {
			return err
		}
	case ".png":
		img := viz.NewRasterizer(cfg.Width, cfg.Height).Render(s, fmt.Sprintf("frame %d/%d", frameIndex+1, seq.Len()))
		file, err := os.Create(out)
		if err != nil {
			return err
		}
		if err := png.Encode(file, img); err != nil {
			file.Close()
			os.Remove(out)
			return err
		}
		if err := file.Close(); err != nil {
			return err
		}
	default:
		return errors.New("snapshot output must end in .svg or .png")
	}

	fmt.Printf("wrote frame %d (%s) to %s\n", frameIndex, seq.Frame(frameIndex).Path, out)
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no recorded exports")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tOUTPUT\tENCODER\tFRAMES\tGRID\tFPS\tELAPSED\tTIMESTAMP")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%d\t%v\t%s\n",
			r.ID, r.Output, r.Encoder, r.Frames, r.Grid, r.FPS,
			r.Elapsed.Round(time.Millisecond), r.Timestamp.Format("2006-01-02 15:04:05"))
	}
	return w.Flush()
}

func showRun(runID string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return fmt.Errorf("run %s: %w", runID, err)
	}
	paths, stats, err := st.LoadStats(runID)
	if err != nil {
		return err
	}

	fmt.Printf("run:      %s\n", meta.ID)
	fmt.Printf("output:   %s (%s, %d fps, %dx%d)\n", meta.Output, meta.Encoder, meta.FPS, meta.Width, meta.Height)
	fmt.Printf("frames:   %d from %s, grid %s\n", meta.Frames, meta.Pattern, meta.Grid)
	fmt.Printf("heights:  %.4f .. %.4f\n", meta.MinHeight, meta.MaxHeight)
	fmt.Printf("elapsed:  %v\n\n", meta.Elapsed.Round(time.Millisecond))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INDEX\tFILE\tMIN\tMAX\tMEAN")
	for i, s := range stats {
		fmt.Fprintf(w, "%d\t%s\t%.4f\t%.4f\t%.4f\n", i, paths[i], s.Min, s.Max, s.Mean)
	}
	return w.Flush()
}
