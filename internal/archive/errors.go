package archive

import "fmt"

// ArchiveNotFoundError reports a missing archive root or data file.
type ArchiveNotFoundError struct {
	Path string
}

func (e *ArchiveNotFoundError) Error() string {
	return fmt.Sprintf("archive file not found: %s", e.Path)
}

// ArchiveFormatError reports a data file that could not be unwrapped or parsed.
type ArchiveFormatError struct {
	Path   string
	Reason string
	Err    error
}

func (e *ArchiveFormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed archive file %s: %s: %v", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("malformed archive file %s: %s", e.Path, e.Reason)
}

func (e *ArchiveFormatError) Unwrap() error {
	return e.Err
}
