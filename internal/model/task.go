package model

import (
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// MaxPath is the Windows MAX_PATH limit task paths are kept under.
const MaxPath = 260

// Task is one unit of scheduled work: an asset and the file it is written to.
//
// A Task is owned by the worker pool until a slot admits it, then by the
// single worker invocation that downloads it.
type Task struct {
	// Asset is the catalog entry to download.
	Asset Asset

	// Path is the destination file. No two tasks of a run share a Path.
	Path string

	// MetadataPath receives the view details of the asset before the
	// export is downloaded. Empty when details are not saved.
	MetadataPath string
}

// NewTask creates a Task writing the asset under dir with its preferred
// file name.
func NewTask(asset Asset, dir string) Task {
	return Task{Asset: asset, Path: JoinPath(dir, asset.FileName(), "")}
}

// JoinPath joins dir and fileName, inserting suffix before the extension.
//
// When the result would reach MaxPath the stem of fileName is shortened.
// The suffix and the extension are always kept whole, so two different
// suffixes never produce the same path.
func JoinPath(dir, fileName, suffix string) string {
	ext := filepath.Ext(fileName)
	stem := strings.TrimSuffix(fileName, ext)

	filePath := filepath.Join(dir, stem+suffix+ext)
	if len(filePath) < MaxPath {
		return filePath
	}

	maxLen := MaxPath - len(filepath.Join(dir, "x"+suffix+ext))
	if maxLen <= 0 || maxLen >= len(stem) {
		return filePath
	}
	for maxLen > 0 && !utf8.RuneStart(stem[maxLen]) {
		maxLen--
	}
	return filepath.Join(dir, stem[:maxLen]+suffix+ext)
}

// Outcome is the terminal state of a Task.
type Outcome int

const (
	// OutcomeFailure means the download failed; Result.Err says why. It is
	// the zero value, so a Result nobody filled in never counts as a success.
	OutcomeFailure Outcome = iota

	// OutcomeSuccess means the full body was written to Task.Path.
	OutcomeSuccess
)

// String returns "success" or "failure".
func (o Outcome) String() string {
	if o == OutcomeSuccess {
		return "success"
	}
	return "failure"
}

// Result is the outcome of one Task.
type Result struct {
	// ID is the identifier of the downloaded asset.
	ID string

	// Kind is the kind of the downloaded asset.
	Kind AssetKind

	// Outcome is success or failure.
	Outcome Outcome

	// Path is the destination file of the task.
	Path string

	// BytesWritten is the number of body bytes written to Path.
	BytesWritten int64

	// Err is set when Outcome is OutcomeFailure.
	Err error
}

// Succeeded reports whether the result is a success.
func (r Result) Succeeded() bool {
	return r.Outcome == OutcomeSuccess
}
