// Package resolver walks an operator through mapping a raw sheet onto the
// canonical field set.
package resolver

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ukaji3/xlclean-go/internal/logging"
	"github.com/ukaji3/xlclean-go/pkg/xlclean/models"
	"github.com/ukaji3/xlclean-go/pkg/xlclean/parser"
	"github.com/ukaji3/xlclean-go/pkg/xlclean/preview"
	"github.com/ukaji3/xlclean-go/pkg/xlclean/prompt"
)

// ErrEmptySheet indicates the chosen sheet has no rows or no columns.
var ErrEmptySheet = errors.New("sheet has no cells")

// ErrNoSheets indicates the workbook has no sheets to choose from.
var ErrNoSheets = errors.New("workbook has no sheets")

// ErrNoSplit indicates the strict policy leaves no column for the split.
var ErrNoSplit = errors.New("no column left for the split")

// Source is a workbook the resolver can inspect.
type Source interface {
	SheetNames() []string
	Range(sheetName string) (*models.Range, error)
}

// SplitPolicy decides whether a split may leave mapped fields in the
// pass-through columns.
type SplitPolicy string

const (
	// SplitPermit accepts any split and logs a warning on overlap.
	SplitPermit SplitPolicy = "permit"
	// SplitStrict rejects a split at or before any mapped field column.
	SplitStrict SplitPolicy = "strict"
)

// State is a step of the resolution.
type State int

const (
	// StateChooseSheet asks which sheet holds the data.
	StateChooseSheet State = iota
	// StateChooseHeaderRow asks for the header row.
	StateChooseHeaderRow
	// StateChooseField asks for the column of the next field.
	StateChooseField
	// StateChooseSplit asks for the first pass-through column.
	StateChooseSplit
	// StateDone ends the walk.
	StateDone
)

func (s State) String() string {
	switch s {
	case StateChooseSheet:
		return "choose-sheet"
	case StateChooseHeaderRow:
		return "choose-header-row"
	case StateChooseField:
		return "choose-field"
	case StateChooseSplit:
		return "choose-split"
	default:
		return "done"
	}
}

// Config controls what the resolver asks for.
type Config struct {
	// Fields is the ordered canonical field set.
	Fields []models.FieldName
	// SplitPolicy is SplitPermit when empty.
	SplitPolicy SplitPolicy
	// Preview bounds the header-row grid.
	Preview preview.Previewer
	// SampleDepth is the number of rows in the per-column sample.
	SampleDepth int
}

// DefaultConfig returns the standard resolver configuration.
func DefaultConfig() Config {
	return Config{
		Fields:      models.DefaultFields,
		SplitPolicy: SplitPermit,
		Preview:     preview.Default(),
		SampleDepth: 3,
	}
}

// Resolution is the outcome of a completed walk.
type Resolution struct {
	Sheet   string
	Mapping models.ResolvedMapping
}

// Resolver runs the interactive mapping.
type Resolver struct {
	p   *prompt.Prompter
	cfg Config
	log *logging.Logger
}

// New returns a resolver asking questions through p.
func New(p *prompt.Prompter, cfg Config, log *logging.Logger) *Resolver {
	if cfg.SplitPolicy == "" {
		cfg.SplitPolicy = SplitPermit
	}
	if cfg.SampleDepth <= 0 {
		cfg.SampleDepth = 3
	}
	if log == nil {
		log = logging.Discard()
	}
	return &Resolver{p: p, cfg: cfg, log: log}
}

// Resolve collects the sheet, header row, field offsets and split.
// An invalid answer never advances the walk.
func (r *Resolver) Resolve(src Source) (*Resolution, error) {
	var (
		res   Resolution
		rng   *models.Range
		field int
	)

	state := StateChooseSheet
	for state != StateDone {
		r.log.Debug("resolver state %s", state)

		switch state {
		case StateChooseSheet:
			sheet, err := r.ChooseSheet(src.SheetNames())
			if err != nil {
				return nil, err
			}
			r.p.Printf("Sheet: %s\n", sheet)
			if rng, err = src.Range(sheet); err != nil {
				return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
			}
			if rng.RowCount() == 0 || rng.ColCount() == 0 {
				return nil, fmt.Errorf("%w: %q", ErrEmptySheet, sheet)
			}
			res.Sheet = sheet
			state = StateChooseHeaderRow

		case StateChooseHeaderRow:
			row, err := r.ChooseHeaderRow(rng)
			if err != nil {
				return nil, err
			}
			res.Mapping.HeaderRow = row
			res.Mapping.Fields = make([]models.FieldOffset, 0, len(r.cfg.Fields))
			state = StateChooseField
			if len(r.cfg.Fields) == 0 {
				state = StateChooseSplit
			}

		case StateChooseField:
			name := r.cfg.Fields[field]
			offset, err := r.ChooseField(rng, res.Mapping.HeaderRow, name)
			if err != nil {
				return nil, err
			}
			res.Mapping.Fields = append(res.Mapping.Fields, models.FieldOffset{Name: name, Offset: offset})
			field++
			if field == len(r.cfg.Fields) {
				state = StateChooseSplit
			}

		case StateChooseSplit:
			split, err := r.ChooseSplit(rng, res.Mapping)
			if err != nil {
				return nil, err
			}
			res.Mapping.Split = split
			state = StateDone
		}
	}

	if overlaps := res.Mapping.Overlaps(); len(overlaps) > 0 {
		r.log.Warn("sheet %q: fields %v also fall in the pass-through columns from %d", res.Sheet, overlaps, res.Mapping.Split)
	}
	return &res, nil
}

// ChooseSheet lists the sheets and reads an index.
func (r *Resolver) ChooseSheet(names []string) (string, error) {
	if len(names) == 0 {
		return "", ErrNoSheets
	}
	var index int
	err := r.p.Ask(func(w io.Writer) error {
		return preview.List(w, names)
	}, "Choose Sheet: ", func(s string) error {
		i, err := parseIndex(s, len(names))
		if err != nil {
			return err
		}
		index = i
		return nil
	})
	if err != nil {
		return "", err
	}
	return names[index], nil
}

// ChooseHeaderRow previews the sheet and reads a row index.
func (r *Resolver) ChooseHeaderRow(rng *models.Range) (int, error) {
	var row int
	err := r.p.Ask(func(w io.Writer) error {
		if err := r.cfg.Preview.Range(w, rng); err != nil {
			return err
		}
		if region, ok := parser.DetectTable(rng, parser.DefaultTableParams()); ok {
			_, err := fmt.Fprintf(w, "Data region: %s\n", region)
			return err
		}
		return nil
	}, "Choose Row: ", func(s string) error {
		i, err := parseIndex(s, rng.RowCount())
		if err != nil {
			return err
		}
		row = i
		return nil
	})
	return row, err
}

// ChooseField shows a column sample from the header row and reads a column
// index or "s" to skip the field. Under the strict policy the last column
// is refused, since no split could follow it.
func (r *Resolver) ChooseField(rng *models.Range, headerRow int, name models.FieldName) (models.Offset, error) {
	var offset models.Offset
	label := fmt.Sprintf("Choose Column %s (s to skip): ", name)
	err := r.p.Ask(r.sample(rng, headerRow), label, func(s string) error {
		if isSkip(s) {
			offset = models.Skip()
			return nil
		}
		i, err := parseIndex(s, rng.ColCount())
		if err != nil {
			return err
		}
		if r.cfg.SplitPolicy == SplitStrict && i == rng.ColCount()-1 {
			return fmt.Errorf("column %d leaves no column for the split", i)
		}
		offset = models.Column(i)
		return nil
	})
	return offset, err
}

// ChooseSplit reads the first pass-through column. Skip is not accepted.
// Under the strict policy it returns ErrNoSplit without asking when every
// column is at or before a mapped field.
func (r *Resolver) ChooseSplit(rng *models.Range, mapping models.ResolvedMapping) (int, error) {
	if r.cfg.SplitPolicy == SplitStrict && lastMapped(mapping) >= rng.ColCount()-1 {
		return 0, fmt.Errorf("%w: a field is mapped to column %d", ErrNoSplit, lastMapped(mapping))
	}

	var split int
	err := r.p.Ask(r.sample(rng, mapping.HeaderRow), "Choose Column split: ", func(s string) error {
		if isSkip(s) {
			return errors.New("split needs a column index")
		}
		i, err := parseIndex(s, rng.ColCount())
		if err != nil {
			return err
		}
		if r.cfg.SplitPolicy == SplitStrict {
			candidate := mapping
			candidate.Split = i
			if overlaps := candidate.Overlaps(); len(overlaps) > 0 {
				return fmt.Errorf("split %d would repeat fields %v", i, overlaps)
			}
		}
		split = i
		return nil
	})
	return split, err
}

func (r *Resolver) sample(rng *models.Range, headerRow int) func(io.Writer) error {
	return func(w io.Writer) error {
		_, err := r.cfg.Preview.Columns(w, rng, headerRow, r.cfg.SampleDepth)
		return err
	}
}

// lastMapped returns the highest mapped column, or -1 when every field is
// skipped.
func lastMapped(m models.ResolvedMapping) int {
	last := -1
	for _, f := range m.Fields {
		if !f.Offset.IsSkip() && f.Offset.Index() > last {
			last = f.Offset.Index()
		}
	}
	return last
}

// parseIndex parses a non-negative index below limit.
func parseIndex(s string, limit int) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%q is not a non-negative number", s)
	}
	if n >= limit {
		return 0, fmt.Errorf("%d is out of range 0..%d", n, limit-1)
	}
	return n, nil
}

func isSkip(s string) bool {
	s = strings.TrimSpace(s)
	return strings.EqualFold(s, "s") || strings.EqualFold(s, models.SkipToken)
}
