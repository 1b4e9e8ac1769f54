package download

import (
	"fmt"
	"time"

	"github.com/hashicorp/go-multierror"

	"github.com/handiism/socrata-downloader/internal/model"
)

// Summary is the account of one run.
type Summary struct {
	Succeeded    int
	Failed       int
	Skipped      int
	BytesWritten int64 // successful downloads only
	Duration     time.Duration

	// Failures holds the failed results in completion order.
	Failures []model.Result
}

// add accounts for one result.
func (s *Summary) add(r model.Result) {
	if r.Succeeded() {
		s.Succeeded++
		s.BytesWritten += r.BytesWritten
		return
	}
	s.Failed++
	s.Failures = append(s.Failures, r)
}

// Total returns the number of assets accounted for.
func (s *Summary) Total() int {
	return s.Succeeded + s.Failed + s.Skipped
}

// Err returns the failures combined into one error, or nil when every
// download succeeded.
func (s *Summary) Err() error {
	var result *multierror.Error
	for _, r := range s.Failures {
		result = multierror.Append(result, fmt.Errorf("%s: %w", r.ID, r.Err))
	}
	return result.ErrorOrNil()
}

// String returns a one-line account of the run.
func (s *Summary) String() string {
	return fmt.Sprintf("%d succeeded, %d failed, %d skipped, %d bytes in %s",
		s.Succeeded, s.Failed, s.Skipped, s.BytesWritten, s.Duration.Round(time.Millisecond))
}
