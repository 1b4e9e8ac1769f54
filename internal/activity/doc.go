// Package activity records the audit trail of a download run.
//
// A Logger writes one entry per lifecycle event: catalog fetched, asset
// skipped, download started, succeeded or failed. Entries are JSON lines in
// the log file and, optionally, human readable lines on a console writer:
//
//	logger, err := activity.Open("/data/cdc/socrata_downloader_log.txt", os.Stderr)
//	if err != nil {
//	    return err
//	}
//	defer logger.Close()
//
//	logger.Record(activity.Entry{Identifier: "abcd-1234", Event: activity.EventStarted})
//
// Record never fails. Logging is best effort: a sink that cannot be
// written to loses entries (counted by Dropped) but never interrupts a
// download in progress.
package activity
