package container

import (
	"errors"
	"fmt"
)

// ErrEntryNotFound indicates that no entry with the requested name exists.
var ErrEntryNotFound = errors.New("entry not found")

// FormatError indicates the file is not a ZIP container this package can read:
// the end of central directory record is missing or malformed, or the
// central directory is truncated.
type FormatError struct {
	Path   string
	Reason string
	Err    error
}

func (e *FormatError) Error() string {
	msg := "invalid container"
	if e.Path != "" {
		msg += " " + e.Path
	}
	msg += ": " + e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// NewFormatError creates a new FormatError.
func NewFormatError(path, reason string, err error) *FormatError {
	return &FormatError{
		Path:   path,
		Reason: reason,
		Err:    err,
	}
}

// ExtractionKind classifies why an entry could not be extracted.
type ExtractionKind string

const (
	// KindShortRead means the file ended before the entry's data did.
	KindShortRead ExtractionKind = "short-read"
	// KindCorrupt means the payload does not decode to the declared size.
	KindCorrupt ExtractionKind = "corrupt"
	// KindUnsupportedMethod means the entry uses neither store nor deflate.
	KindUnsupportedMethod ExtractionKind = "unsupported-method"
	// KindChecksum means the decoded bytes do not match the recorded CRC-32.
	KindChecksum ExtractionKind = "checksum"
	// KindEncrypted means the entry is encrypted.
	KindEncrypted ExtractionKind = "encrypted"
)

// ExtractionError represents a failure to produce an entry's content.
// No partial content is ever returned alongside it.
type ExtractionError struct {
	Name string
	Kind ExtractionKind
	Err  error
}

func (e *ExtractionError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("extract %s: %s", e.Name, e.Kind)
	}
	return fmt.Sprintf("extract %s: %s: %v", e.Name, e.Kind, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// NewExtractionError creates a new ExtractionError.
func NewExtractionError(name string, kind ExtractionKind, err error) *ExtractionError {
	return &ExtractionError{
		Name: name,
		Kind: kind,
		Err:  err,
	}
}
