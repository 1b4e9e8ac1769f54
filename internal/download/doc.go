// Package download provides the download orchestration logic for
// fetching Socrata assets.
//
// # Manager
//
// The Manager coordinates the entire download process:
//
//  1. Fetch the catalog of the domain
//  2. Classify every entry as table, blob or unsupported
//  3. Plan one task per supported asset, skipping the rest
//  4. Download tasks concurrently on a bounded worker pool
//  5. Record every step in the activity log and summarise the run
//
// # Basic Usage
//
//	manager := download.NewManager(settings, logger, func(event download.ProgressEvent) {
//	    fmt.Println(event.Message)
//	})
//
//	if err := manager.Initialize(ctx); err != nil {
//	    log.Fatal(err) // the catalog could not be fetched
//	}
//
//	summary, err := manager.StartDownloads(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(summary)
//
// # Concurrency
//
// Pool runs at most PoolConfig.Concurrency downloads at once and admits
// waiting tasks in order as slots free up. Results arrive in completion
// order, one per task.
//
// # Failures
//
// A failed download never stops the run. Worker turns every failure into
// a model.Result carrying an *Error of kind NetworkError, HTTPStatusError
// or IOError; the Summary counts them and Summary.Err combines them.
// There is no retry.
package download
