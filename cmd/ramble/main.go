// Command ramble transcribes a recorded WAV file with the multilingual
// transcription pipeline engine: fast per-chunk language detection feeding
// an accurate transcription pass, with automatic handling of recordings
// that switch languages mid-stream.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeff-barlow-spady/ramble/config"
	"github.com/jeff-barlow-spady/ramble/pkg/logger"
	"github.com/jeff-barlow-spady/ramble/pkg/multilang"
	"github.com/jeff-barlow-spady/ramble/pkg/transcription"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("ramble: "+err.Error()))
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("ramble", flag.ExitOnError)
	detectionModel := fs.String("detection-model", "", "model size for the fast detection pass (tiny, base, small, ...)")
	accurateModel := fs.String("accurate-model", "", "model size for the accurate transcription pass")
	languages := fs.String("languages", "", "comma-separated allowed language codes, e.g. en,es,fr (defaults to the previous run's set; unrestricted if there is none)")
	skipSampling := fs.Bool("skip-sampling", false, "skip the sampling/classification stage: run the two-pass pipeline with two or more allowed languages, otherwise a single whole-file pass")
	chunkSizeS := fs.Float64("chunk-size", 0, "detection pass chunk size in seconds (default 3.0)")
	writeDiagnostics := fs.Bool("diagnostics", false, "write a <stem>_diagnostics.json alongside the input file")
	diagnosticsDir := fs.String("diagnostics-dir", "", "directory for diagnostics JSON (default alongside the input file)")
	vttOut := fs.String("vtt", "", "also write a WebVTT subtitle file to this path")
	noTUI := fs.Bool("no-tui", false, "print progress as plain log lines instead of the terminal UI")
	fs.Parse(args)

	if fs.NArg() != 1 {
		return fmt.Errorf("usage: ramble [flags] <input.wav>")
	}
	inputPath := fs.Arg(0)

	if err := config.LoadConfig(); err != nil {
		logger.Warning(logger.CategoryApp, "failed to load config, using defaults: %v", err)
	}

	opts := multilang.DefaultOptions()
	opts.AccurateModelSize = multilang.ModelSize(firstNonEmpty(*accurateModel, config.Current.AccurateModelSize))
	opts.DetectionModelSize = multilang.ModelSize(firstNonEmpty(*detectionModel, config.Current.DetectionModelSize))
	opts.SkipSampling = *skipSampling
	if *chunkSizeS > 0 {
		opts.ChunkSizeS = *chunkSizeS
	}

	allowed := parseLanguageList(*languages)
	if allowed == nil {
		allowed = stringsToSet(config.Current.LastLanguages)
	}
	if len(allowed) > 0 {
		opts.AllowedLanguages = allowed
	}

	stem := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	opts.AudioFileStem = stem
	if *writeDiagnostics {
		opts.WriteDiagnostics = true
		opts.DiagnosticsDir = *diagnosticsDir
		if opts.DiagnosticsDir == "" {
			opts.DiagnosticsDir = filepath.Dir(inputPath)
		}
	}

	cache := multilang.NewModelCache(multilang.DefaultModelLoader, resolveModelPath)
	engine := multilang.NewEngine(cache)
	source := newFileAudioSource(inputPath)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	cancel := multilang.NewCancelFlag()

	var result multilang.TranscriptionResult
	var transcribeErr error

	if *noTUI {
		opts.ProgressFn = func(ev multilang.ProgressEvent) {
			logger.Info(logger.CategoryApp, "%s: %.1fs / %.1fs %s", ev.Stage, ev.CurrentS, ev.TotalS, ev.Message)
		}
		result, transcribeErr = engine.MultilangTranscribe(ctx, source, opts, cancel)
	} else {
		result, transcribeErr = runWithTUI(ctx, engine, source, opts, cancel)
	}

	if transcribeErr != nil && transcribeErr != multilang.ErrCanceled {
		return fmt.Errorf("transcribe: %w", transcribeErr)
	}

	printSummary(result)

	if *vttOut != "" {
		if err := os.WriteFile(*vttOut, []byte(multilang.FormatVTT(result.Segments)), 0644); err != nil {
			return fmt.Errorf("write vtt: %w", err)
		}
	}

	config.Current.AccurateModelSize = string(opts.AccurateModelSize)
	config.Current.DetectionModelSize = string(opts.DetectionModelSize)
	if len(allowed) > 0 {
		config.Current.LastLanguages = setToStrings(allowed)
	}
	if err := config.SaveConfig(); err != nil {
		logger.Warning(logger.CategoryApp, "failed to save config: %v", err)
	}

	if transcribeErr == multilang.ErrCanceled {
		return fmt.Errorf("transcription canceled, partial result printed above")
	}
	return nil
}

// resolveModelPath maps a ModelSize to an on-disk weights path, downloading
// it on first use via the transcription package's existing downloader. If
// the download fails (e.g. no network), it falls back to whatever the
// standard OS install locations already hold for that size.
func resolveModelPath(size multilang.ModelSize) (string, error) {
	modelDir, err := config.GetModelDir()
	if err != nil {
		return "", err
	}

	tsize := transcription.ModelSize(size)
	filename, ok := transcription.WhisperModelFilenames[tsize]
	if !ok {
		filename = fmt.Sprintf("ggml-%s.bin", size)
	}

	modelPath := filepath.Join(modelDir, filename)
	path, err := transcription.DownloadModel(modelPath, tsize)
	if err == nil {
		return path, nil
	}

	fallbackDir := transcription.ResolveExistingModelPath("", tsize)
	fallbackPath := filepath.Join(fallbackDir, filename)
	if _, statErr := os.Stat(fallbackPath); statErr == nil {
		logger.Warning(logger.CategoryApp, "model download failed (%v), using existing model at %s", err, fallbackPath)
		return fallbackPath, nil
	}

	return "", err
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func parseLanguageList(s string) map[string]bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	out := make(map[string]bool)
	for _, code := range strings.Split(s, ",") {
		code = strings.TrimSpace(code)
		if code != "" {
			out[code] = true
		}
	}
	return out
}

func stringsToSet(codes []string) map[string]bool {
	if len(codes) == 0 {
		return nil
	}
	out := make(map[string]bool, len(codes))
	for _, c := range codes {
		out[c] = true
	}
	return out
}

func setToStrings(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	return out
}

func printSummary(result multilang.TranscriptionResult) {
	header := headerStyle.Render(fmt.Sprintf("classification: %s  primary: %s  quality: %.2f",
		result.Classification.Mode, result.PrimaryLanguage, result.QualityScore))
	fmt.Println()
	fmt.Println(header)
	if result.LanguageTimeline != "" {
		fmt.Println()
		fmt.Println(infoStyle.Render(result.LanguageTimeline))
	}
	fmt.Println()
	fmt.Println(frameStyle.Render(result.Text))
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#61E3FA"))
	infoStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#A9B1D6"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F7768E"))
	frameStyle  = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7AA2F7")).
			Padding(1, 2)
)

// runWithTUI drives the transcription on a background goroutine while a
// bubbletea program renders live progress in the foreground.
func runWithTUI(ctx context.Context, engine *multilang.Engine, source multilang.AudioSource, opts multilang.Options, cancel *multilang.CancelFlag) (multilang.TranscriptionResult, error) {
	model := newProgressModel(cancel)
	program := tea.NewProgram(model)

	type outcome struct {
		result multilang.TranscriptionResult
		err    error
	}
	done := make(chan outcome, 1)

	opts.ProgressFn = func(ev multilang.ProgressEvent) {
		program.Send(progressMsg{
			frac:    progressFraction(ev),
			message: fmt.Sprintf("%s: %.1fs / %.1fs %s", ev.Stage, ev.CurrentS, ev.TotalS, ev.Message),
		})
	}

	go func() {
		result, err := engine.MultilangTranscribe(ctx, source, opts, cancel)
		program.Send(doneMsg{})
		done <- outcome{result: result, err: err}
	}()

	if _, err := program.Run(); err != nil {
		cancel.Cancel()
		<-done
		return multilang.TranscriptionResult{}, fmt.Errorf("terminal UI: %w", err)
	}

	out := <-done
	return out.result, out.err
}

func progressFraction(ev multilang.ProgressEvent) float64 {
	if ev.TotalS <= 0 {
		return 0
	}
	frac := ev.CurrentS / ev.TotalS
	if frac < 0 {
		return 0
	}
	if frac > 1 {
		return 1
	}
	return frac
}

// progressMsg carries one ProgressEvent translated into the TUI's terms.
type progressMsg struct {
	frac    float64
	message string
}

// doneMsg signals the transcription goroutine has finished.
type doneMsg struct{}

const appBanner = "ramble - multilingual transcription"

var bannerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#61E3FA")).Padding(0, 1)

type progressModel struct {
	bar      progress.Model
	message  string
	frac     float64
	finished bool
	cancel   *multilang.CancelFlag
}

func newProgressModel(cancel *multilang.CancelFlag) progressModel {
	return progressModel{
		bar:     progress.New(progress.WithDefaultGradient()),
		message: "starting...",
		cancel:  cancel,
	}
}

func (m progressModel) Init() tea.Cmd {
	return nil
}

// Update handles key events and progress/completion messages pushed from
// the transcription goroutine. It deliberately does not forward
// progress.FrameMsg: chunk-level progress arrives in discrete jumps, not a
// continuous animation, so the bar is rendered directly via ViewAs instead
// of driven through the gradient ticker.
func (m progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.cancel.Cancel()
			return m, tea.Quit
		}
	case progressMsg:
		m.frac = msg.frac
		m.message = msg.message
		return m, nil
	case doneMsg:
		m.finished = true
		return m, tea.Quit
	}
	return m, nil
}

func (m progressModel) View() string {
	if m.finished {
		return ""
	}
	var b strings.Builder
	b.WriteString(bannerStyle.Render(appBanner))
	b.WriteString("\n\n")
	b.WriteString(m.bar.ViewAs(m.frac))
	b.WriteString("\n")
	b.WriteString(infoStyle.Render(m.message))
	b.WriteString("\n\n")
	b.WriteString(infoStyle.Render("press q or ctrl+c to cancel"))
	b.WriteString("\n")
	return b.String()
}
