package serialization

import "errors"

var (
	// ErrBadMagic means the file does not start with the format magic.
	ErrBadMagic = errors.New("serialization: not a checkpoint file")

	// ErrUnsupportedVersion means the file was written by a newer format.
	ErrUnsupportedVersion = errors.New("serialization: unsupported format version")

	// ErrChecksumMismatch means the file content does not match its checksum.
	ErrChecksumMismatch = errors.New("serialization: checksum mismatch")
)
