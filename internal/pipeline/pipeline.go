// =============================================================================
// Seller Performance Report - Pipeline
// =============================================================================
//
// This module orchestrates one report run, from input files to the written
// report.
//
// PIPELINE:
//   1. Load the dataset (loader)
//   2. Lint the dataset (validation); findings are logged, not fatal
//      unless Strict is set
//   3. Analyze (analytics) with the configured bonus tiers and workers
//   4. Render the report in the configured format (report)
//   5. Write the report file, or stream it to Stdout
//   6. Archive the input files and write the run summary, if configured
//
// Steps 5 and 6 are skipped on a dry run.
//
// =============================================================================

package pipeline

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/ginjaninja78/seller-performance-report/internal/analytics"
	"github.com/ginjaninja78/seller-performance-report/internal/config"
	"github.com/ginjaninja78/seller-performance-report/internal/loader"
	"github.com/ginjaninja78/seller-performance-report/internal/report"
	"github.com/ginjaninja78/seller-performance-report/internal/types"
	"github.com/ginjaninja78/seller-performance-report/internal/validation"
	"github.com/ginjaninja78/seller-performance-report/pkg/logger"
	"github.com/ginjaninja78/seller-performance-report/pkg/utils"
)

// ErrLintFailed is returned in strict mode when linting finds errors.
var ErrLintFailed = errors.New("dataset lint failed")

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result represents the outcome of a run.
type Result struct {
	// Rows are the report rows in rank order.
	Rows []types.ReportRow

	// Report is the rendered report.
	Report []byte

	// OutputFile is the path of the written report. Empty on dry runs and
	// when the report went to Stdout.
	OutputFile string

	// SummaryFile is the path of the run summary, if one was written.
	SummaryFile string

	// Issues holds the lint findings.
	Issues []*validation.ValidationError

	Stats Stats
}

// Stats contains statistics about the run.
type Stats struct {
	// RunID identifies the run. It also fills the {uuid} file name
	// placeholder.
	RunID string

	Sellers   int
	Products  int
	Records   int
	LineItems int

	// SkippedRecords and SkippedItems are records with an unknown seller
	// and items with an unknown sku.
	SkippedRecords int
	SkippedItems   int

	LintErrors   int
	LintWarnings int

	Duration time.Duration
}

// =============================================================================
// RUNNER
// =============================================================================

// Options tunes a Runner.
type Options struct {
	// DryRun computes and renders the report without writing anything.
	DryRun bool

	// Stdout, when set, receives the rendered report instead of a file.
	Stdout io.Writer

	// Strict fails the run when linting reports errors.
	Strict bool

	// WriteSummary writes a run summary file next to the report.
	WriteSummary bool
}

// Runner executes report runs for one configuration.
type Runner struct {
	config  *config.MainConfig
	log     *logger.Logger
	options Options
	files   *utils.FileManager
}

// New creates a Runner. A nil logger discards log output.
func New(cfg *config.MainConfig, log *logger.Logger, options Options) *Runner {
	if log == nil {
		log = logger.Nop()
	}
	return &Runner{
		config:  cfg,
		log:     log,
		options: options,
		files:   utils.NewFileManager(cfg.Output.Dir, cfg.Output.ArchiveDir),
	}
}

// =============================================================================
// MAIN PROCESSING FUNCTIONS
// =============================================================================

// Run executes the full pipeline.
func (r *Runner) Run() (*Result, error) {
	startTime := time.Now()
	result := &Result{Stats: Stats{RunID: uuid.New().String()}}
	log := r.log.WithField("run_id", result.Stats.RunID)

	// =========================================================================
	// STEP 1-2: LOAD AND LINT
	// =========================================================================

	data, lint, err := r.loadAndLint(log, &result.Stats)
	if err != nil {
		return nil, err
	}
	result.Issues = lint.Errors

	if r.options.Strict && lint.ErrorCount > 0 {
		return nil, fmt.Errorf("%w: %d error(s)", ErrLintFailed, lint.ErrorCount)
	}

	// =========================================================================
	// STEP 3: ANALYZE
	// =========================================================================

	policies := analytics.Policies{
		Revenue: analytics.CalculateSimpleRevenue,
		Bonus:   analytics.TieredBonus(TiersFromConfig(r.config.Bonus)),
	}

	outcome, err := analytics.AnalyzeWithOptions(data, policies, analytics.Options{Workers: r.config.Processing.Workers})
	if err != nil {
		return nil, fmt.Errorf("analysis failed: %w", err)
	}

	result.Rows = outcome.Rows
	result.Stats.SkippedRecords = outcome.SkippedRecords
	result.Stats.SkippedItems = outcome.SkippedItems

	if outcome.SkippedRecords > 0 || outcome.SkippedItems > 0 {
		log.WithFields(map[string]interface{}{
			"skipped_records": outcome.SkippedRecords,
			"skipped_items":   outcome.SkippedItems,
		}).Warn("Unresolved references were skipped")
	}
	log.Debugf("Ranked %d sellers", len(outcome.Rows))

	// =========================================================================
	// STEP 4: RENDER
	// =========================================================================

	format := r.config.Output.Format
	result.Report, err = report.Render(outcome.Rows, format)
	if err != nil {
		return nil, fmt.Errorf("rendering report: %w", err)
	}

	// =========================================================================
	// STEP 5-6: WRITE, ARCHIVE, SUMMARIZE
	// =========================================================================

	switch {
	case r.options.DryRun:
		log.Info("Dry run, nothing written")

	case r.options.Stdout != nil:
		if _, err := r.options.Stdout.Write(result.Report); err != nil {
			return nil, fmt.Errorf("writing report: %w", err)
		}

	default:
		fileName := r.files.GenerateOutputFileName(r.config.Output.FileNameFormat, report.Extension(format),
			map[string]string{"uuid": result.Stats.RunID, "format": format})

		result.OutputFile, err = r.files.WriteOutput(fileName, result.Report)
		if err != nil {
			return nil, fmt.Errorf("writing report: %w", err)
		}
		log.Infof("Wrote report to: %s", result.OutputFile)

		r.archiveInputs(log)
	}

	result.Stats.Duration = time.Since(startTime)

	if r.options.WriteSummary && !r.options.DryRun {
		result.SummaryFile, err = r.files.WriteSummaryLog(summaryOf(result, startTime, loader.Files(r.config.Input)))
		if err != nil {
			// The report itself is already written.
			log.WithError(err).Warn("Failed to write run summary")
		}
	}

	log.WithFields(map[string]interface{}{
		"sellers":  result.Stats.Sellers,
		"records":  result.Stats.Records,
		"duration": result.Stats.Duration.String(),
	}).Info("Run complete")

	return result, nil
}

// Lint loads the dataset and lints it without analyzing.
func (r *Runner) Lint() (*validation.ValidationResult, Stats, error) {
	stats := Stats{RunID: uuid.New().String()}
	_, lint, err := r.loadAndLint(r.log.WithField("run_id", stats.RunID), &stats)
	if err != nil {
		return nil, stats, err
	}
	return lint, stats, nil
}

func (r *Runner) loadAndLint(log *logger.Logger, stats *Stats) (*types.Dataset, *validation.ValidationResult, error) {
	log.Infof("Loading dataset from %v", loader.Files(r.config.Input))

	data, err := loader.Load(r.config.Input)
	if err != nil {
		return nil, nil, fmt.Errorf("loading dataset: %w", err)
	}

	stats.Sellers = len(data.Sellers)
	stats.Products = len(data.Products)
	stats.Records = len(data.PurchaseRecords)
	for _, rec := range data.PurchaseRecords {
		stats.LineItems += len(rec.Items)
	}

	log.WithFields(map[string]interface{}{
		"sellers":    stats.Sellers,
		"products":   stats.Products,
		"records":    stats.Records,
		"line_items": stats.LineItems,
	}).Debug("Dataset loaded")

	lint := validation.NewValidator().ValidateAll(data)
	stats.LintErrors = lint.ErrorCount
	stats.LintWarnings = lint.WarningCount

	for _, issue := range lint.Errors {
		if issue.Severity == validation.SeverityError {
			log.Warnf("Validation error: %s", issue.Error())
		} else {
			log.Debugf("Validation warning: %s", issue.Error())
		}
	}
	if len(lint.Errors) > 0 {
		log.Infof("Lint found %d error(s) and %d warning(s)", lint.ErrorCount, lint.WarningCount)
	}

	return data, lint, nil
}

// archiveInputs copies the input files to the archive directory. Failures
// are logged and do not fail the run.
func (r *Runner) archiveInputs(log *logger.Logger) {
	if r.config.Output.ArchiveDir == "" {
		return
	}
	for _, f := range loader.Files(r.config.Input) {
		archived, err := r.files.ArchiveInputFile(f)
		if err != nil {
			log.WithError(err).Warnf("Failed to archive %s", f)
			continue
		}
		log.Debugf("Archived %s to %s", f, archived)
	}
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// TiersFromConfig overlays configured percentages on the default tiers.
func TiersFromConfig(b config.BonusConfig) analytics.Tiers {
	tiers := analytics.DefaultTiers()
	if b.FirstPlacePct != nil {
		tiers.First = *b.FirstPlacePct
	}
	if b.RunnerUpPct != nil {
		tiers.RunnerUp = *b.RunnerUpPct
	}
	if b.LastPlacePct != nil {
		tiers.Last = *b.LastPlacePct
	}
	if b.DefaultPct != nil {
		tiers.Default = *b.DefaultPct
	}
	return tiers
}

func summaryOf(result *Result, start time.Time, inputs []string) utils.RunSummary {
	s := result.Stats
	return utils.RunSummary{
		RunID:          s.RunID,
		StartTime:      start,
		EndTime:        start.Add(s.Duration),
		InputFiles:     inputs,
		OutputFile:     result.OutputFile,
		Sellers:        s.Sellers,
		Products:       s.Products,
		Records:        s.Records,
		LineItems:      s.LineItems,
		SkippedRecords: s.SkippedRecords,
		SkippedItems:   s.SkippedItems,
		LintErrors:     s.LintErrors,
		LintWarnings:   s.LintWarnings,
	}
}
