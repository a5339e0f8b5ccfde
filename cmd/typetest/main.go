// Package main provides the CLI entrypoint for typetest.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/typetest/internal/config"
	"github.com/verte-zerg/typetest/internal/corpus"
	"github.com/verte-zerg/typetest/internal/model"
	"github.com/verte-zerg/typetest/internal/stats"
	"github.com/verte-zerg/typetest/internal/statsui"
	"github.com/verte-zerg/typetest/internal/store"
	"github.com/verte-zerg/typetest/internal/tui"
	"github.com/verte-zerg/typetest/internal/typing"
	"github.com/verte-zerg/typetest/internal/wordlist"
)

const (
	defaultMode        = "time"
	defaultTime        = 30
	defaultWords       = 25
	defaultLang        = "en"
	defaultUser        = "local"
	defaultCurveWindow = 5
	defaultWeakWindow  = 20
	remoteTimeout      = 5 * time.Second
)

// settings is the resolved practice configuration.
type settings struct {
	mode        string
	time        int
	words       int
	punctuation bool
	numbers     bool
	lang        string
	text        string
	textFile    string
	quotesFile  string
	user        string
	postgresDSN string
}

var (
	logLevel string
	practice = settings{
		mode:  defaultMode,
		time:  defaultTime,
		words: defaultWords,
		lang:  defaultLang,
		user:  defaultUser,
	}

	statsUser        string
	statsLang        string
	statsMode        string
	statsSince       string
	statsLast        int
	statsCurveWindow int
	statsWeakWindow  int
	statsPlain       bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:               "typetest",
		Short:             "Terminal typing speed test",
		SilenceUsage:      true,
		SilenceErrors:     false,
		PersistentPreRunE: setup,
		RunE:              runPracticeCmd,
	}

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error (default warn)")

	flags := rootCmd.Flags()
	flags.StringVar(&practice.mode, "mode", practice.mode, "test mode: time, words, quote, custom")
	flags.IntVar(&practice.time, "time", practice.time, "time limit in seconds (15, 30, 60, 120)")
	flags.IntVar(&practice.words, "words", practice.words, "word count (10, 25, 50, 100)")
	flags.BoolVar(&practice.punctuation, "punctuation", false, "add punctuation and capitals to generated words")
	flags.BoolVar(&practice.numbers, "numbers", false, "mix numbers into generated words")
	flags.StringVar(&practice.lang, "lang", practice.lang, "word list language")
	flags.StringVar(&practice.text, "text", "", "custom text to type (implies --mode custom)")
	flags.StringVar(&practice.textFile, "text-file", "", "read custom text from a file (implies --mode custom)")
	flags.StringVar(&practice.quotesFile, "quotes-file", "", "YAML file with quotes to use instead of the built-in ones")
	flags.StringVar(&practice.user, "user", practice.user, "user name stored with results")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newLangsCmd())
	rootCmd.AddCommand(newQuotesCmd())
	rootCmd.AddCommand(newStatsCmd())

	return rootCmd
}

// setup loads .env files and installs the default logger.
func setup(cmd *cobra.Command, _ []string) error {
	if err := config.LoadEnv(config.DefaultEnvPaths()...); err != nil {
		return err
	}
	level := slog.LevelWarn
	raw := logLevel
	if !cmd.Flags().Changed("log-level") {
		raw = os.Getenv(config.EnvLogLevel)
	}
	if strings.TrimSpace(raw) != "" {
		parsed, err := config.ParseLogLevel(raw)
		if err != nil {
			return err
		}
		level = parsed
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	return nil
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := loadFileConfig()
	if err != nil {
		return err
	}
	applySettings(cmd, &practice, fileCfg)

	testCfg, err := buildTestConfig(cmd, practice)
	if err != nil {
		return err
	}
	if err := typing.ValidateConfig(testCfg); err != nil {
		return err
	}

	provider, err := newProvider(practice.quotesFile)
	if err != nil {
		return err
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			slog.Warn("failed to close db", "err", cerr)
		}
	}()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	sinks := []store.NamedSink{{Name: "local", Sink: st}}
	if practice.postgresDSN != "" {
		remote, err := openRemote(ctx, practice.postgresDSN)
		if err != nil {
			slog.Warn("remote publishing disabled", "err", err)
		} else {
			defer remote.Close()
			sinks = append(sinks, store.NamedSink{Name: "remote", Sink: remote})
		}
	}

	engine, err := typing.NewEngine(provider, store.NewFanout(sinks...), testCfg)
	if err != nil {
		return fmt.Errorf("failed to start test: %w", err)
	}
	slog.Debug("starting test", "mode", testCfg.Mode, "limit", testCfg.ModeLimit(), "lang", testCfg.Lang)

	program := tea.NewProgram(tui.NewModel(ctx, engine, st), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func openRemote(ctx context.Context, dsn string) (*store.Remote, error) {
	ctx, cancel := context.WithTimeout(ctx, remoteTimeout)
	defer cancel()
	return store.OpenRemote(ctx, dsn)
}

// loadFileConfig layers the TOML file over TYPETEST_* variables.
func loadFileConfig() (config.FileConfig, error) {
	envCfg, err := config.EnvConfig()
	if err != nil {
		return config.FileConfig{}, fmt.Errorf("failed to read environment: %w", err)
	}
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return config.FileConfig{}, fmt.Errorf("failed to load config: %w", err)
	}
	return config.Merge(envCfg, fileCfg), nil
}

// applySettings fills every flag the user did not set from cfg.
func applySettings(cmd *cobra.Command, s *settings, cfg config.FileConfig) {
	applyConfig(cmd, "mode", &s.mode, cfg.Test.Mode)
	applyConfig(cmd, "time", &s.time, cfg.Test.Time)
	applyConfig(cmd, "words", &s.words, cfg.Test.Words)
	applyConfig(cmd, "punctuation", &s.punctuation, cfg.Test.Punctuation)
	applyConfig(cmd, "numbers", &s.numbers, cfg.Test.Numbers)
	applyConfig(cmd, "lang", &s.lang, cfg.Test.Lang)
	applyConfig(cmd, "quotes-file", &s.quotesFile, cfg.Test.QuotesFile)
	applyConfig(cmd, "user", &s.user, cfg.Test.User)
	if cfg.Sync.PostgresDSN != nil {
		s.postgresDSN = *cfg.Sync.PostgresDSN
	}
}

func applyConfig[T any](cmd *cobra.Command, name string, target, value *T) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func buildTestConfig(cmd *cobra.Command, s settings) (model.TestConfig, error) {
	text := s.text
	if s.textFile != "" {
		data, err := os.ReadFile(s.textFile)
		if err != nil {
			return model.TestConfig{}, fmt.Errorf("failed to read text file: %w", err)
		}
		text = string(data)
	}
	modeName := s.mode
	if text != "" && !cmd.Flags().Changed("mode") {
		modeName = string(model.ModeCustom)
	}
	mode, err := typing.ParseMode(modeName)
	if err != nil {
		return model.TestConfig{}, err
	}
	return model.TestConfig{
		Mode:        mode,
		TimeLimit:   s.time,
		WordCount:   s.words,
		Punctuation: s.punctuation,
		Numbers:     s.numbers,
		Lang:        s.lang,
		CustomText:  text,
		User:        s.user,
	}, nil
}

func newProvider(quotesFile string) (*corpus.Provider, error) {
	opts := []corpus.Option{corpus.WithWordListDir(config.DefaultWordListDir())}
	if quotesFile != "" {
		quotes, err := corpus.LoadQuotes(quotesFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load quotes: %w", err)
		}
		opts = append(opts, corpus.WithQuotes(quotes))
	}
	provider, err := corpus.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare text source: %w", err)
	}
	return provider, nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newLangsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "langs",
		Short: "List available word list languages",
		Args:  cobra.NoArgs,
		RunE:  runLangsCmd,
	}
}

func runLangsCmd(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	langs, err := wordlist.Langs(config.DefaultWordListDir())
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to read wordlist directory: %w", err)
	}
	hasEnglish := false
	for _, lang := range langs {
		if lang == defaultLang {
			hasEnglish = true
		}
		if _, err := fmt.Fprintln(out, lang); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	if !hasEnglish {
		if _, err := fmt.Fprintln(out, defaultLang+" (built-in)"); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newQuotesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quotes",
		Short: "List the quotes used by quote mode",
		Args:  cobra.NoArgs,
		RunE:  runQuotesCmd,
	}
	cmd.Flags().StringVar(&practice.quotesFile, "quotes-file", "", "YAML file with quotes")
	return cmd
}

func runQuotesCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := loadFileConfig()
	if err != nil {
		return err
	}
	applyConfig(cmd, "quotes-file", &practice.quotesFile, fileCfg.Test.QuotesFile)
	provider, err := newProvider(practice.quotesFile)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, q := range provider.Quotes() {
		if _, err := fmt.Fprintf(out, "%s\n  - %s (%d chars)\n", q.Text, q.Source, len([]rune(q.Text))); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show stats",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsUser, "user", "", "user filter (default: configured user)")
	cmd.Flags().StringVar(&statsLang, "lang", "", "language filter")
	cmd.Flags().StringVar(&statsMode, "mode", "", "mode filter")
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N results")
	cmd.Flags().IntVar(&statsCurveWindow, "curve-window", defaultCurveWindow, "moving average window")
	cmd.Flags().IntVar(&statsWeakWindow, "weak-window", defaultWeakWindow, "number of recent results for weak characters")
	cmd.Flags().BoolVar(&statsPlain, "plain", false, "print a text report instead of the TUI")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildStatsConfig(cmd)
	if err != nil {
		return err
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			slog.Warn("failed to close db", "err", cerr)
		}
	}()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	out := cmd.OutOrStdout()
	if statsPlain || !isTerminal(out) {
		report, err := stats.BuildReport(ctx, st, cfg)
		if err != nil {
			return err
		}
		return stats.RenderReport(out, report, stats.TerminalWidth(out))
	}

	program := tea.NewProgram(statsui.NewModel(ctx, st, cfg), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

func buildStatsConfig(cmd *cobra.Command) (model.StatsConfig, error) {
	fileCfg, err := loadFileConfig()
	if err != nil {
		return model.StatsConfig{}, err
	}
	user := statsUser
	if !cmd.Flags().Changed("user") {
		user = defaultUser
		if fileCfg.Test.User != nil {
			user = *fileCfg.Test.User
		}
	}

	var mode model.Mode
	if statsMode != "" {
		if mode, err = typing.ParseMode(statsMode); err != nil {
			return model.StatsConfig{}, err
		}
	}

	var since *time.Time
	if statsSince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", statsSince, time.Local)
		if err != nil {
			return model.StatsConfig{}, fmt.Errorf("invalid --since value: %w", err)
		}
		since = &parsed
	}
	if statsLast < 0 || statsCurveWindow < 1 || statsWeakWindow < 1 {
		return model.StatsConfig{}, fmt.Errorf("--last must be >= 0 and windows must be >= 1")
	}

	return model.StatsConfig{
		User:        user,
		Lang:        statsLang,
		Mode:        mode,
		Since:       since,
		Last:        statsLast,
		CurveWindow: statsCurveWindow,
		WeakWindow:  statsWeakWindow,
	}, nil
}

func isTerminal(w any) bool {
	file, ok := w.(*os.File)
	return ok && term.IsTerminal(int(file.Fd()))
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# typetest configuration
# Uncomment a value to enable it. CLI flags override config values,
# config values override TYPETEST_* environment variables.

[test]
# mode = %q              # time, words, quote or custom
# time = %d                  # Time limit in seconds (15, 30, 60, 120)
# words = %d                 # Word count (10, 25, 50, 100)
# punctuation = false        # Punctuation and capitals in generated words
# numbers = false            # Numbers in generated words
# lang = %q                # Word list language
# quotes-file = ""           # YAML quotes file replacing the built-in quotes
# user = %q             # User name stored with results

[sync]
# postgres-dsn = ""          # Also publish results to PostgreSQL
`,
		defaultMode,
		defaultTime,
		defaultWords,
		defaultLang,
		defaultUser,
	)
}
