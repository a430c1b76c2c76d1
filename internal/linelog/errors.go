package linelog

import "errors"

// Errors returned by linelog operations. Callers wrap them with context;
// test with errors.Is.
var (
	// ErrRevisionOutOfRange indicates a revision outside [0, maxRev], or a
	// negative target revision.
	ErrRevisionOutOfRange = errors.New("revision out of range")

	// ErrChunkRangeInvalid indicates a1 > a2 or a chunk outside the baseline.
	ErrChunkRangeInvalid = errors.New("invalid chunk range")

	// ErrInvalidRemap indicates a mapping with a negative revision.
	ErrInvalidRemap = errors.New("invalid revision mapping")

	// ErrCorruptProgram indicates an instruction list that does not describe
	// a terminating program.
	ErrCorruptProgram = errors.New("corrupt program")
)
