// Package ioutils provides file system utilities for the socrata-downloader.
//
// This package contains functions for:
//   - Writing whole files (catalog snapshots)
//   - Filename sanitization for cross-platform compatibility
//   - Directory creation
//   - Locking an output directory against concurrent runs
//
// # Output Directory Lock
//
// Two runs writing into the same directory would race on the same file
// names. LockDir takes an exclusive, non-blocking lock:
//
//	lock, err := ioutils.LockDir("/data/cdc")
//	if err != nil {
//	    return err // ErrLocked if another run holds it
//	}
//	defer lock.Unlock()
//
// # Filename Sanitization
//
//	safe := ioutils.SanitizeFileName("Report: 2023/24") // Returns "Report_ 2023_24"
package ioutils
