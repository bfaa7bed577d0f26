package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/ukaji3/xlclean-go/pkg/xlclean/models"
)

// Report is the machine-readable summary of a run.
type Report struct {
	Success  bool                   `json:"success"`
	RunID    string                 `json:"run_id,omitempty"`
	Saved    int                    `json:"saved"`
	Skipped  int                    `json:"skipped"`
	Failed   int                    `json:"failed"`
	Files    []models.ProcessedFile `json:"files,omitempty"`
	Error    string                 `json:"error,omitempty"`
	Duration string                 `json:"duration"`
}

// NewReport tallies files into a report.
func NewReport(runID string, files []models.ProcessedFile) Report {
	r := Report{Success: true, RunID: runID, Files: files}
	for _, f := range files {
		switch f.Status {
		case models.StatusSaved:
			r.Saved++
		case models.StatusSkipped:
			r.Skipped++
		case models.StatusFailed:
			r.Failed++
		}
	}
	return r
}

// ToJSON serializes the report.
func ToJSON(r Report, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(r, "", "  ")
	}
	return json.Marshal(r)
}

// Summary writes the one-line human summary of a report.
func Summary(w io.Writer, r Report) error {
	var err error
	switch {
	case !r.Success:
		_, err = fmt.Fprintf(w, "Error: %s\n", r.Error)
	case r.Failed == 0 && r.Skipped == 0:
		_, err = fmt.Fprintln(w, "All files processed successfully!")
	default:
		_, err = fmt.Fprintf(w, "Processed files: %d saved, %d skipped, %d failed\n", r.Saved, r.Skipped, r.Failed)
	}
	return err
}
