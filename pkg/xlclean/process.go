package xlclean

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ukaji3/xlclean-go/internal/logging"
	"github.com/ukaji3/xlclean-go/pkg/xlclean/ledger"
	"github.com/ukaji3/xlclean-go/pkg/xlclean/models"
	"github.com/ukaji3/xlclean-go/pkg/xlclean/output"
	"github.com/ukaji3/xlclean-go/pkg/xlclean/parser"
	"github.com/ukaji3/xlclean-go/pkg/xlclean/prompt"
	"github.com/ukaji3/xlclean-go/pkg/xlclean/resolver"
)

// Runner drives the interactive normalization of an input directory.
type Runner struct {
	opts     Options
	prompt   *prompt.Prompter
	resolver *resolver.Resolver
	ledger   *ledger.Ledger
	log      *logging.Logger
}

// NewRunner returns a runner asking questions through p and recording saved
// mappings in l. A nil ledger records nothing.
func NewRunner(opts Options, p *prompt.Prompter, l *ledger.Ledger, log *logging.Logger) *Runner {
	if log == nil {
		log = logging.Discard()
	}
	if l == nil {
		l = ledger.New("", "")
	}
	p.MaxAttempts = opts.MaxAttempts
	return &Runner{
		opts:     opts,
		prompt:   p,
		resolver: resolver.New(p, opts.ResolverConfig(), log),
		ledger:   l,
		log:      log,
	}
}

// Run processes every regular file of inputDir, writing outputs to
// outputDir. It stops early only when operator input ends.
func (r *Runner) Run(inputDir, outputDir string) ([]models.ProcessedFile, error) {
	files, err := ListInputs(inputDir, r.opts.SortEntries)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	results := make([]models.ProcessedFile, 0, len(files))
	for _, path := range files {
		result, err := r.ProcessFile(path, outputDir)
		results = append(results, result)
		if err != nil {
			return results, err
		}
	}
	return results, nil
}

// ProcessFile runs the pipeline for one file until it is saved, skipped, or
// out of fault retries. Declined saves restart the resolution from scratch.
func (r *Runner) ProcessFile(path, outputDir string) (models.ProcessedFile, error) {
	name := filepath.Base(path)
	result := models.ProcessedFile{BookName: name}

	if ledger.OutputExists(name, outputDir) {
		r.prompt.Printf("%s already exists\n", filepath.Join(outputDir, name))
		answer, err := r.prompt.Confirm("Overwrite?")
		if err != nil {
			result.Status = models.StatusFailed
			result.Error = err.Error()
			return result, stopError(err)
		}
		if answer != prompt.Yes {
			r.log.Info("%s: keeping existing output", name)
			result.Status = models.StatusSkipped
			return result, nil
		}
	}

	faults := 0
	for {
		result.Attempts++
		r.log.Info("%s: attempt %d", name, result.Attempts)

		sheet, saved, err := r.attempt(path, outputDir)
		result.Sheet = sheet
		switch {
		case err == nil && saved == "":
			result.Status = models.StatusSkipped
			return result, nil
		case err == nil:
			result.Status = models.StatusSaved
			result.OutputPath = saved
			return result, nil
		case errors.Is(err, ErrSaveDeclined):
			r.prompt.Printf("Error: %v\n", ErrSaveDeclined)
			continue
		case errors.Is(err, prompt.ErrInputClosed):
			result.Status = models.StatusFailed
			result.Error = err.Error()
			return result, err
		}

		faults++
		r.prompt.Printf("Error: %v\n", err)
		if !r.opts.ShouldRetryFault(faults) {
			r.log.Error("%s: giving up after %d faults: %v", name, faults, err)
			result.Status = models.StatusFailed
			result.Error = err.Error()
			return result, nil
		}
		r.log.Warn("%s: retrying after fault: %v", name, err)
	}
}

// attempt resolves, assembles and (on confirmation) saves one file. It
// returns the chosen sheet and the written path, empty when skipped.
func (r *Runner) attempt(path, outputDir string) (string, string, error) {
	name := filepath.Base(path)
	r.prompt.Printf("File: %s\n", name)

	wb, err := OpenWorkbook(path)
	if err != nil {
		return "", "", NewProcessError(name, StageOpen, err)
	}
	defer wb.Close()

	res, err := r.resolver.Resolve(wb)
	if err != nil {
		return "", "", NewProcessError(name, StageResolve, err)
	}
	r.prompt.Printf("Row offset: %d\n", res.Mapping.HeaderRow)
	r.prompt.Printf("Column offsets: %s\n", describeFields(res.Mapping))

	rng, err := wb.Range(res.Sheet)
	if err != nil {
		return res.Sheet, "", NewProcessError(name, StageAssemble, err)
	}
	f, err := output.Assemble(rng, res.Mapping)
	if err != nil {
		return res.Sheet, "", NewProcessError(name, StageAssemble, err)
	}
	defer f.Close()

	answer, err := r.prompt.Confirm("Save?")
	if err != nil {
		return res.Sheet, "", NewProcessError(name, StageSave, err)
	}
	switch answer {
	case prompt.No:
		return res.Sheet, "", ErrSaveDeclined
	case prompt.SkipAnswer:
		r.log.Info("%s: skipped by operator", name)
		return res.Sheet, "", nil
	}

	outPath := filepath.Join(outputDir, name)
	if err := output.Save(f, outPath); err != nil {
		return res.Sheet, "", NewProcessError(name, StageSave, err)
	}
	if err := r.ledger.Append(ledger.NewEntry(name, res.Sheet, res.Mapping)); err != nil {
		return res.Sheet, "", NewProcessError(name, StageLedger, err)
	}
	r.log.Info("%s: saved to %s", name, outPath)
	return res.Sheet, outPath, nil
}

// OpenWorkbook opens an input file, classifying missing and unreadable
// files.
func OpenWorkbook(path string) (*parser.Workbook, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
	}
	wb, err := parser.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	return wb, nil
}

// ListInputs returns the regular files of dir. Subdirectories are ignored.
// When sorted is false the directory's own order is kept.
func ListInputs(dir string, sorted bool) ([]string, error) {
	var (
		entries []fs.DirEntry
		err     error
	)
	if sorted {
		entries, err = os.ReadDir(dir)
	} else {
		var d *os.File
		if d, err = os.Open(dir); err == nil {
			entries, err = d.ReadDir(-1)
			_ = d.Close()
		}
	}
	if err != nil {
		return nil, fmt.Errorf("read input directory: %w", err)
	}

	var files []string
	for _, e := range entries {
		if e.Type().IsRegular() {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	return files, nil
}

func describeFields(m models.ResolvedMapping) string {
	parts := make([]string, 0, len(m.Fields)+1)
	for _, f := range m.Fields {
		parts = append(parts, fmt.Sprintf("%s=%s", f.Name, f.Offset))
	}
	parts = append(parts, fmt.Sprintf("split=%d", m.Split))
	return strings.Join(parts, ", ")
}

// stopError keeps input-closed errors fatal and turns other confirmation
// failures into nil so the batch moves on.
func stopError(err error) error {
	if errors.Is(err, prompt.ErrInputClosed) {
		return err
	}
	return nil
}
