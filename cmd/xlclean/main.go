// Package main provides the CLI entry point for xlclean.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/ukaji3/xlclean-go/internal/config"
	"github.com/ukaji3/xlclean-go/internal/logging"
	"github.com/ukaji3/xlclean-go/pkg/xlclean"
	"github.com/ukaji3/xlclean-go/pkg/xlclean/ledger"
	"github.com/ukaji3/xlclean-go/pkg/xlclean/models"
	"github.com/ukaji3/xlclean-go/pkg/xlclean/output"
	"github.com/ukaji3/xlclean-go/pkg/xlclean/prompt"
)

var (
	configPath      string
	inputDir        string
	outputDir       string
	ledgerPath      string
	logLevel        string
	splitPolicy     string
	fields          []string
	maxAttempts     int
	maxFaultRetries int
	jsonOutput      bool
	pretty          bool
)

// errFilesFailed marks a run that finished with failed files.
var errFilesFailed = errors.New("some files failed")

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "xlclean",
		Short: "Normalize spreadsheet exports into a canonical schema",
		Long: `xlclean walks an operator through mapping each spreadsheet in a
directory onto a fixed set of fields, writes the normalized files and
records every mapping in a ledger for replay.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          run,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "Config file (default: ./"+config.DefaultPath+" if present)")
	pf.StringVarP(&inputDir, "input", "i", "", "Input directory")
	pf.StringVarP(&outputDir, "output", "o", "", "Output directory")
	pf.StringVarP(&ledgerPath, "metadata", "m", "", "Ledger file (JSON lines)")
	pf.StringVar(&logLevel, "log-level", "", "Log level: error, warn, info, debug")
	pf.StringSliceVar(&fields, "fields", nil, "Canonical fields in output order")
	pf.BoolVar(&jsonOutput, "json", false, "Print the run report as JSON (prompts go to stderr)")
	pf.BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")

	f := rootCmd.Flags()
	f.StringVar(&splitPolicy, "split-policy", "", "Split policy: permit, strict")
	f.IntVar(&maxAttempts, "max-attempts", 0, "Invalid answers allowed per question (0: unbounded)")
	f.IntVar(&maxFaultRetries, "max-fault-retries", xlclean.DefaultMaxFaultRetries, "Retries after a hard fault (negative: unbounded)")

	rootCmd.AddCommand(newReplayCmd(), newLedgerCmd())
	return rootCmd
}

func newReplayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "replay",
		Short: "Rebuild outputs from the ledger without prompting",
		Args:  cobra.NoArgs,
		RunE:  runReplay,
	}
}

func newLedgerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ledger",
		Short: "Print the entries of a ledger",
		Args:  cobra.NoArgs,
		RunE:  runLedger,
	}
}

// loadConfig reads the config file and lets explicitly set flags win.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("input") {
		cfg.Input = inputDir
	}
	if flags.Changed("output") {
		cfg.Output = outputDir
	}
	if flags.Changed("metadata") {
		cfg.Ledger = ledgerPath
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if flags.Changed("fields") {
		cfg.Fields = fields
	}
	if flags.Changed("split-policy") {
		cfg.SplitPolicy = splitPolicy
	}
	if flags.Changed("max-attempts") {
		cfg.MaxAttempts = maxAttempts
	}
	if flags.Changed("max-fault-retries") {
		cfg.MaxFaultRetries = maxFaultRetries
	}
	return cfg, nil
}

// operatorOut is where prompts go. With --json stdout carries only the
// report, so prompts move to stderr.
func operatorOut(cmd *cobra.Command) io.Writer {
	if jsonOutput {
		return cmd.ErrOrStderr()
	}
	return cmd.OutOrStdout()
}

func newLogger(cfg *config.Config) *logging.Logger {
	return logging.New(os.Stderr, logging.ParseLevel(cfg.LogLevel))
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return fail(cmd, err)
	}
	if err := cfg.Validate(); err != nil {
		return fail(cmd, err)
	}
	log := newLogger(cfg)

	runID := uuid.NewString()
	if cfg.Ledger != "" {
		log.Info("run %s recording to %s", runID, cfg.Ledger)
	}

	start := time.Now()
	p := prompt.New(cmd.InOrStdin(), operatorOut(cmd))
	runner := xlclean.NewRunner(cfg.Options(), p, ledger.New(cfg.Ledger, runID), log)
	files, runErr := runner.Run(cfg.Input, cfg.Output)
	return report(cmd, runID, files, runErr, start)
}

func runReplay(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return fail(cmd, err)
	}
	if err := cfg.ValidateReplay(); err != nil {
		return fail(cmd, err)
	}
	log := newLogger(cfg)

	contents, err := ledger.Load(cfg.Ledger)
	if err != nil {
		return fail(cmd, fmt.Errorf("failed to read ledger: %w", err))
	}
	if contents.Malformed > 0 {
		log.Warn("%s: skipped %d malformed lines", cfg.Ledger, contents.Malformed)
	}

	start := time.Now()
	replayer := xlclean.NewReplayer(cfg.Options(), log)
	files, runErr := replayer.Run(cfg.Input, cfg.Output, contents)
	return report(cmd, "", files, runErr, start)
}

func runLedger(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return fail(cmd, err)
	}
	if cfg.Ledger == "" {
		return fail(cmd, xlclean.ErrNoLedger)
	}

	contents, err := ledger.Load(cfg.Ledger)
	if err != nil {
		return fail(cmd, fmt.Errorf("failed to read ledger: %w", err))
	}
	return writeLedger(cmd.OutOrStdout(), contents, jsonOutput)
}

func writeLedger(w io.Writer, c ledger.Contents, asJSON bool) error {
	if asJSON {
		doc := struct {
			Entries   []ledger.Entry `json:"entries"`
			Malformed int            `json:"malformed"`
		}{Entries: c.Entries, Malformed: c.Malformed}
		if doc.Entries == nil {
			doc.Entries = []ledger.Entry{}
		}
		data, err := marshal(doc)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	}

	for _, e := range c.Entries {
		line, err := json.Marshal(e)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w, string(line)); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "%d entries, %d malformed lines\n", len(c.Entries), c.Malformed)
	return err
}

// report prints the run report and turns failures into a non-zero exit.
func report(cmd *cobra.Command, runID string, files []models.ProcessedFile, runErr error, start time.Time) error {
	rep := output.NewReport(runID, files)
	rep.Duration = time.Since(start).Round(time.Millisecond).String()
	if runErr != nil {
		rep.Success = false
		rep.Error = runErr.Error()
	}

	if err := printReport(cmd.OutOrStdout(), rep); err != nil {
		return err
	}
	switch {
	case runErr != nil:
		return runErr
	case rep.Failed > 0:
		return errFilesFailed
	}
	return nil
}

func printReport(w io.Writer, rep output.Report) error {
	if !jsonOutput {
		return output.Summary(w, rep)
	}
	data, err := output.ToJSON(rep, pretty)
	if err != nil {
		return fmt.Errorf("serialization failed: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// fail reports an error that happened before any file was processed.
func fail(cmd *cobra.Command, err error) error {
	rep := output.Report{Error: err.Error()}
	_ = printReport(cmd.ErrOrStderr(), rep)
	return err
}

func marshal(v any) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(v, "", "  ")
	}
	return json.Marshal(v)
}
