package xlclean

import (
	"errors"
	"fmt"
)

// ErrFileNotFound indicates the input file does not exist.
var ErrFileNotFound = errors.New("file not found")

// ErrInvalidFormat indicates the input file is not a readable workbook.
var ErrInvalidFormat = errors.New("invalid workbook format")

// ErrSaveDeclined indicates the operator answered no to saving. The file is
// resolved again from scratch.
var ErrSaveDeclined = errors.New("file not saved")

// ErrNoLedger indicates replay was requested without a ledger.
var ErrNoLedger = errors.New("no ledger configured")

// Stage names the pipeline step an error came from.
type Stage string

const (
	StageOpen     Stage = "open"
	StageResolve  Stage = "resolve"
	StageAssemble Stage = "assemble"
	StageSave     Stage = "save"
	StageLedger   Stage = "ledger"
)

// ProcessError represents a failure while processing one input file.
type ProcessError struct {
	File  string
	Stage Stage
	Err   error
}

func (e *ProcessError) Error() string {
	return fmt.Sprintf("processing %q (%s): %v", e.File, e.Stage, e.Err)
}

func (e *ProcessError) Unwrap() error {
	return e.Err
}

// NewProcessError creates a new ProcessError.
func NewProcessError(file string, stage Stage, err error) *ProcessError {
	return &ProcessError{
		File:  file,
		Stage: stage,
		Err:   err,
	}
}
