// Package xlclean normalizes spreadsheet exports into a canonical schema
// under operator guidance.
package xlclean

import (
	"github.com/ukaji3/xlclean-go/pkg/xlclean/models"
	"github.com/ukaji3/xlclean-go/pkg/xlclean/preview"
	"github.com/ukaji3/xlclean-go/pkg/xlclean/resolver"
)

// DefaultMaxFaultRetries is the number of retries granted to a file that
// fails with a hard fault.
const DefaultMaxFaultRetries = 3

// Options configures a batch run.
type Options struct {
	// Fields is the ordered canonical field set written to every output.
	Fields []models.FieldName
	// SplitPolicy decides whether a split may repeat mapped fields.
	SplitPolicy resolver.SplitPolicy
	// MaxAttempts bounds invalid answers per question. Zero means unbounded.
	MaxAttempts int
	// MaxFaultRetries bounds retries after hard faults (codec, I/O,
	// exhausted prompts). Negative means unbounded. Declined saves always
	// retry.
	MaxFaultRetries int
	// SortEntries processes input files in name order instead of
	// directory order.
	SortEntries bool
	// Preview bounds the sheet previews.
	Preview preview.Previewer
	// SampleDepth is the number of rows sampled per column.
	SampleDepth int
}

// DefaultOptions returns default run options.
func DefaultOptions() Options {
	return Options{
		Fields:          models.DefaultFields,
		SplitPolicy:     resolver.SplitPermit,
		MaxFaultRetries: DefaultMaxFaultRetries,
		SortEntries:     true,
		Preview:         preview.Default(),
		SampleDepth:     3,
	}
}

// ShouldRetryFault reports whether a file that has already failed
// failures times with hard faults gets another attempt.
func (o Options) ShouldRetryFault(failures int) bool {
	if o.MaxFaultRetries < 0 {
		return true
	}
	return failures <= o.MaxFaultRetries
}

// ResolverConfig returns the resolver settings implied by the options.
func (o Options) ResolverConfig() resolver.Config {
	return resolver.Config{
		Fields:      o.Fields,
		SplitPolicy: o.SplitPolicy,
		Preview:     o.Preview,
		SampleDepth: o.SampleDepth,
	}
}
