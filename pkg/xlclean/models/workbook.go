package models

// FileStatus is the final state of one input file in a run.
type FileStatus string

const (
	// StatusSaved means an output workbook was written.
	StatusSaved FileStatus = "saved"
	// StatusSkipped means the operator skipped the file or kept existing output.
	StatusSkipped FileStatus = "skipped"
	// StatusFailed means hard faults exhausted the retry budget.
	StatusFailed FileStatus = "failed"
)

// ProcessedFile records what happened to one input file.
type ProcessedFile struct {
	// BookName is the input file name (no path).
	BookName string `json:"book_name"`
	// Sheet is the chosen sheet, empty when none was chosen.
	Sheet string `json:"sheet,omitempty"`
	// Status is the final state.
	Status FileStatus `json:"status"`
	// OutputPath is the written workbook, set when Status is saved.
	OutputPath string `json:"output_path,omitempty"`
	// Attempts counts pipeline runs for the file, retries included.
	Attempts int `json:"attempts"`
	// Error is the last hard fault, set when Status is failed.
	Error string `json:"error,omitempty"`
}
