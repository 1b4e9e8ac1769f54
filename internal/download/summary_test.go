package download

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/handiism/socrata-downloader/internal/model"
)

func TestSummary(t *testing.T) {
	s := &Summary{Skipped: 1}
	s.add(model.Result{ID: "a", Outcome: model.OutcomeSuccess, BytesWritten: 10})
	s.add(model.Result{ID: "b", Outcome: model.OutcomeFailure, BytesWritten: 3, Err: &Error{Kind: IOError, Err: errors.New("disk full")}})

	assert.Equal(t, 1, s.Succeeded)
	assert.Equal(t, 1, s.Failed)
	assert.Equal(t, 3, s.Total())
	assert.Equal(t, int64(10), s.BytesWritten)

	err := s.Err()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "b: io_error: disk full")

	kind, ok := KindOf(err)
	assert.True(t, ok)
	assert.Equal(t, IOError, kind)
}

func TestSummary_NoFailures(t *testing.T) {
	s := &Summary{}
	s.add(model.Result{ID: "a", Outcome: model.OutcomeSuccess})
	assert.NoError(t, s.Err())
	assert.Contains(t, s.String(), "1 succeeded, 0 failed, 0 skipped")
}
