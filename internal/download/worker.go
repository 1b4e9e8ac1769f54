package download

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	ioutils "github.com/handiism/socrata-downloader/internal/io"
	"github.com/handiism/socrata-downloader/internal/model"
)

// Fetcher downloads one task. Implementations must report every failure
// in the returned Result rather than panic.
type Fetcher interface {
	Download(ctx context.Context, task model.Task) model.Result
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, task model.Task) model.Result

// Download calls f(ctx, task).
func (f FetcherFunc) Download(ctx context.Context, task model.Task) model.Result {
	return f(ctx, task)
}

// URLBuilder returns the URLs of an asset. socrata.Endpoints implements it.
type URLBuilder interface {
	ExportURL(asset model.Asset) (string, error)
	ViewURL(asset model.Asset) string
}

// Downloader fetches URLs into memory or into a file. *http.Client
// implements it.
type Downloader interface {
	Get(ctx context.Context, url string) ([]byte, error)
	DownloadFile(ctx context.Context, url, destPath string, onProgress func(written, total int64)) (int64, error)
}

// Worker is the Fetcher that downloads Socrata exports over HTTP.
type Worker struct {
	urls       URLBuilder
	client     Downloader
	onProgress func(delta int64)
}

// NewWorker creates a Worker. onProgress, when not nil, receives the number
// of bytes written since the previous call and must be safe for concurrent
// use.
func NewWorker(urls URLBuilder, client Downloader, onProgress func(delta int64)) *Worker {
	return &Worker{
		urls:       urls,
		client:     client,
		onProgress: onProgress,
	}
}

// Download fetches the export of task.Asset into task.Path.
//
// When task.MetadataPath is set the view details of the asset are saved
// there first; a task whose details cannot be saved is not exported. The
// result is a success only when the server answered 2xx and the whole
// body reached the file. Every failure is returned as an *Error inside
// the result, and no file of a failed task is left behind.
func (w *Worker) Download(ctx context.Context, task model.Task) model.Result {
	result := model.Result{
		ID:   task.Asset.ID,
		Kind: task.Asset.Kind,
		Path: task.Path,
	}

	// Plan never schedules unsupported assets; a task without an export URL
	// still ends as a failure rather than a panic.
	url, err := w.urls.ExportURL(task.Asset)
	if err != nil {
		return failed(result, &Error{Kind: NetworkError, Err: err})
	}

	if task.MetadataPath != "" {
		if err := w.saveDetails(ctx, task); err != nil {
			return failed(result, err)
		}
	}

	var reported int64
	var progress func(written, total int64)
	if w.onProgress != nil {
		progress = func(written, total int64) {
			w.onProgress(written - reported)
			reported = written
		}
	}

	n, err := w.client.DownloadFile(ctx, url, task.Path, progress)
	result.BytesWritten = n
	if err != nil {
		if task.MetadataPath != "" {
			os.Remove(task.MetadataPath)
		}
		return failed(result, classify(err))
	}

	result.Outcome = model.OutcomeSuccess
	return result
}

// saveDetails writes the view details of the asset to task.MetadataPath.
func (w *Worker) saveDetails(ctx context.Context, task model.Task) *Error {
	viewURL := w.urls.ViewURL(task.Asset)

	body, err := w.client.Get(ctx, viewURL)
	if err != nil {
		return classify(fmt.Errorf("view details: %w", err))
	}
	if !json.Valid(body) {
		return &Error{Kind: NetworkError, Err: fmt.Errorf("view details from %s are not JSON", viewURL)}
	}

	if err := ioutils.WriteFile(ctx, task.MetadataPath, body); err != nil {
		// Nothing was created when the open failed.
		var pathErr *os.PathError
		if !errors.As(err, &pathErr) || pathErr.Op != "open" {
			os.Remove(task.MetadataPath)
		}
		if ctx.Err() != nil {
			return &Error{Kind: NetworkError, Err: err}
		}
		return &Error{Kind: IOError, Err: fmt.Errorf("write view details: %w", err)}
	}
	return nil
}

func failed(result model.Result, err *Error) model.Result {
	result.Outcome = model.OutcomeFailure
	result.Err = err
	return result
}

// panicResult turns a recovered panic into a failed result.
func panicResult(task model.Task, v any) model.Result {
	return failed(model.Result{
		ID:   task.Asset.ID,
		Kind: task.Asset.Kind,
		Path: task.Path,
	}, &Error{Kind: NetworkError, Err: fmt.Errorf("fetcher panicked: %v", v)})
}
