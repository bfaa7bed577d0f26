package xlclean

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ukaji3/xlclean-go/internal/logging"
	"github.com/ukaji3/xlclean-go/pkg/xlclean/ledger"
	"github.com/ukaji3/xlclean-go/pkg/xlclean/models"
	"github.com/ukaji3/xlclean-go/pkg/xlclean/output"
)

// Replayer re-applies recorded mappings without asking the operator.
type Replayer struct {
	opts Options
	log  *logging.Logger
}

// NewReplayer returns a replayer. Field order comes from opts.Fields.
func NewReplayer(opts Options, log *logging.Logger) *Replayer {
	if log == nil {
		log = logging.Discard()
	}
	return &Replayer{opts: opts, log: log}
}

// Run rebuilds the output of every input file that has a ledger entry,
// using the latest entry per file. Files without an entry are skipped;
// files whose entry no longer fits the sheet are reported as failed.
func (r *Replayer) Run(inputDir, outputDir string, contents ledger.Contents) ([]models.ProcessedFile, error) {
	files, err := ListInputs(inputDir, r.opts.SortEntries)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	latest := contents.Latest()
	results := make([]models.ProcessedFile, 0, len(files))
	for _, path := range files {
		name := filepath.Base(path)
		result := models.ProcessedFile{BookName: name}

		entry, ok := latest[name]
		if !ok {
			r.log.Info("%s: no ledger entry, skipping", name)
			result.Status = models.StatusSkipped
			results = append(results, result)
			continue
		}

		result.Attempts = 1
		sheet, outPath, err := r.replayFile(path, outputDir, entry)
		result.Sheet = sheet
		if err != nil {
			r.log.Error("%s: %v", name, err)
			result.Status = models.StatusFailed
			result.Error = err.Error()
		} else {
			result.Status = models.StatusSaved
			result.OutputPath = outPath
		}
		results = append(results, result)
	}
	return results, nil
}

func (r *Replayer) replayFile(path, outputDir string, entry ledger.Entry) (string, string, error) {
	name := filepath.Base(path)

	wb, err := OpenWorkbook(path)
	if err != nil {
		return "", "", NewProcessError(name, StageOpen, err)
	}
	defer wb.Close()

	sheet := entry.Sheet
	if sheet == "" {
		names := wb.SheetNames()
		if len(names) == 0 {
			return "", "", NewProcessError(name, StageOpen, fmt.Errorf("no sheets"))
		}
		sheet = names[0]
		r.log.Warn("%s: ledger entry has no sheet, using %q", name, sheet)
	}

	rng, err := wb.Range(sheet)
	if err != nil {
		return sheet, "", NewProcessError(name, StageOpen, err)
	}
	mapping := entry.Mapping(r.opts.Fields)
	if err := mapping.Validate(rng.RowCount(), rng.ColCount()); err != nil {
		return sheet, "", NewProcessError(name, StageResolve, err)
	}

	f, err := output.Assemble(rng, mapping)
	if err != nil {
		return sheet, "", NewProcessError(name, StageAssemble, err)
	}
	defer f.Close()

	outPath := filepath.Join(outputDir, name)
	if err := output.Save(f, outPath); err != nil {
		return sheet, "", NewProcessError(name, StageSave, err)
	}
	r.log.Info("%s: replayed to %s", name, outPath)
	return sheet, outPath, nil
}
