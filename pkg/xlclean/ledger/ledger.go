// Package ledger records the mapping chosen for every saved file, one JSON
// object per line.
package ledger

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/tidwall/gjson"
	"github.com/ukaji3/xlclean-go/pkg/xlclean/models"
)

// Reserved keys of a ledger line. Every other key is a field name.
const (
	KeyFileName   = "file_name"
	KeySheet      = "sheet"
	KeyRowOffset  = "row_offset"
	KeySplit      = "split"
	KeyRunID      = "run_id"
	KeyRecordedAt = "recorded_at"
)

var reservedKeys = map[string]bool{
	KeyFileName:   true,
	KeySheet:      true,
	KeyRowOffset:  true,
	KeySplit:      true,
	KeyRunID:      true,
	KeyRecordedAt: true,
}

// IsReserved reports whether name collides with a ledger bookkeeping key.
func IsReserved(name string) bool { return reservedKeys[name] }

// Entry is one ledger line.
type Entry struct {
	FileName   string
	Sheet      string
	HeaderRow  int
	Fields     []models.FieldOffset
	Split      int
	RunID      string
	RecordedAt time.Time
}

// NewEntry builds an entry for a saved file.
func NewEntry(fileName, sheet string, m models.ResolvedMapping) Entry {
	return Entry{
		FileName:  fileName,
		Sheet:     sheet,
		HeaderRow: m.HeaderRow,
		Fields:    m.Fields,
		Split:     m.Split,
	}
}

// Mapping returns the recorded mapping with fields in the given order.
// Fields missing from the entry resolve to Skip.
func (e Entry) Mapping(fields []models.FieldName) models.ResolvedMapping {
	recorded := models.ResolvedMapping{Fields: e.Fields}
	m := models.ResolvedMapping{
		HeaderRow: e.HeaderRow,
		Fields:    make([]models.FieldOffset, 0, len(fields)),
		Split:     e.Split,
	}
	for _, name := range fields {
		offset, ok := recorded.Offset(name)
		if !ok {
			offset = models.Skip()
		}
		m.Fields = append(m.Fields, models.FieldOffset{Name: name, Offset: offset})
	}
	return m
}

// MarshalJSON encodes the entry as a flat object of strings. Keys are
// sorted, so equal entries encode to equal bytes.
func (e Entry) MarshalJSON() ([]byte, error) {
	obj := map[string]string{
		KeyFileName:  e.FileName,
		KeyRowOffset: strconv.Itoa(e.HeaderRow),
		KeySplit:     strconv.Itoa(e.Split),
	}
	if e.Sheet != "" {
		obj[KeySheet] = e.Sheet
	}
	if e.RunID != "" {
		obj[KeyRunID] = e.RunID
	}
	if !e.RecordedAt.IsZero() {
		obj[KeyRecordedAt] = e.RecordedAt.UTC().Format(time.RFC3339)
	}
	for _, f := range e.Fields {
		if IsReserved(string(f.Name)) {
			return nil, fmt.Errorf("field name %q is reserved", f.Name)
		}
		obj[string(f.Name)] = f.Offset.String()
	}
	return json.Marshal(obj)
}

// ParseEntry decodes one ledger line.
func ParseEntry(line string) (Entry, error) {
	if !gjson.Valid(line) {
		return Entry{}, errors.New("malformed ledger line")
	}
	doc := gjson.Parse(line)
	if !doc.IsObject() {
		return Entry{}, errors.New("ledger line is not an object")
	}

	var (
		e      Entry
		err    error
		hasRow bool
	)
	doc.ForEach(func(key, value gjson.Result) bool {
		switch k := key.String(); k {
		case KeyFileName:
			e.FileName = value.String()
		case KeySheet:
			e.Sheet = value.String()
		case KeyRunID:
			e.RunID = value.String()
		case KeyRowOffset:
			e.HeaderRow, err = strconv.Atoi(value.String())
			hasRow = err == nil
		case KeySplit:
			e.Split, err = strconv.Atoi(value.String())
		case KeyRecordedAt:
			e.RecordedAt, err = time.Parse(time.RFC3339, value.String())
		default:
			var offset models.Offset
			offset, err = models.ParseOffset(value.String())
			e.Fields = append(e.Fields, models.FieldOffset{Name: models.FieldName(k), Offset: offset})
		}
		return err == nil
	})
	if err != nil {
		return Entry{}, err
	}
	if e.FileName == "" || !hasRow {
		return Entry{}, errors.New("ledger line lacks file_name or row_offset")
	}
	return e, nil
}

// Ledger appends entries to a file.
type Ledger struct {
	path  string
	runID string
	now   func() time.Time
}

// New returns a ledger writing to path. An empty path disables it.
func New(path, runID string) *Ledger {
	return &Ledger{path: path, runID: runID, now: time.Now}
}

// Enabled reports whether entries are recorded.
func (l *Ledger) Enabled() bool { return l != nil && l.path != "" }

// Append writes e as one line, creating the file if needed. Entries are
// never rewritten or deduplicated.
func (l *Ledger) Append(e Entry) error {
	if !l.Enabled() {
		return nil
	}
	if e.RunID == "" {
		e.RunID = l.runID
	}
	if e.RecordedAt.IsZero() {
		e.RecordedAt = l.now()
	}

	line, err := json.Marshal(e)
	if err != nil {
		return err
	}
	line = append(line, '\n')

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.Write(line); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// OutputExists reports whether outputDir already holds a file named fileName.
func OutputExists(fileName, outputDir string) bool {
	info, err := os.Stat(filepath.Join(outputDir, fileName))
	return err == nil && !info.IsDir()
}

// Contents is the result of reading a ledger.
type Contents struct {
	Entries []Entry
	// Malformed counts lines that could not be decoded, e.g. a truncated
	// last line after a crash.
	Malformed int
}

// Latest returns the last entry recorded for each file name.
func (c Contents) Latest() map[string]Entry {
	out := make(map[string]Entry, len(c.Entries))
	for _, e := range c.Entries {
		out[e.FileName] = e
	}
	return out
}

// Read decodes ledger lines from r, skipping malformed ones.
func Read(r io.Reader) (Contents, error) {
	var c Contents
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for sc.Scan() {
		line := sc.Text()
		if len(line) == 0 {
			continue
		}
		e, err := ParseEntry(line)
		if err != nil {
			c.Malformed++
			continue
		}
		c.Entries = append(c.Entries, e)
	}
	return c, sc.Err()
}

// Load reads the ledger file at path.
func Load(path string) (Contents, error) {
	f, err := os.Open(path)
	if err != nil {
		return Contents{}, err
	}
	defer f.Close()
	return Read(f)
}
