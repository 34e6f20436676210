package models

import "fmt"

// ProgramNotFoundError reports that an operation referenced a program
// id absent from the store.
type ProgramNotFoundError struct {
	ProgramID string
}

func (e *ProgramNotFoundError) Error() string {
	return fmt.Sprintf("program not found: %s", e.ProgramID)
}

// InvalidProgramIDError reports input that failed the strict program id
// check or that no platform adapter recognizes.
type InvalidProgramIDError struct {
	ProgramID string
	Reason    string
}

func (e *InvalidProgramIDError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("invalid program id %q: %s", e.ProgramID, e.Reason)
	}
	return fmt.Sprintf("invalid program id %q", e.ProgramID)
}

// FetchError reports that a platform adapter could not obtain a snapshot.
// It wraps the underlying cause. Fetches are never retried here; retry
// policy belongs to the caller.
type FetchError struct {
	ProgramID string
	Reason    string
	Cause     error
}

func (e *FetchError) Error() string {
	msg := fmt.Sprintf("failed to fetch program %s", e.ProgramID)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *FetchError) Unwrap() error { return e.Cause }

// StorageError reports that the backing document could not be read or
// written. The operation name identifies what failed; a corrupted
// document is never silently treated as empty.
type StorageError struct {
	Op    string
	Cause error
}

func (e *StorageError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("storage operation failed: %s: %v", e.Op, e.Cause)
	}
	return fmt.Sprintf("storage operation failed: %s", e.Op)
}

func (e *StorageError) Unwrap() error { return e.Cause }

// ExtractorError reports a failure of the external metadata extractor
// for a given URL.
type ExtractorError struct {
	URL   string
	Cause error
}

func (e *ExtractorError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("extractor failed for %s: %v", e.URL, e.Cause)
	}
	return fmt.Sprintf("extractor failed for %s", e.URL)
}

func (e *ExtractorError) Unwrap() error { return e.Cause }
