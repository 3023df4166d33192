package convertflow

import "errors"

// Fatal errors abort the conversion outright (spec §7); every other
// recoverable condition (a missing resource, malformed path data, a font
// that fails to parse, an unmapped glyph) is logged via logging.Logger()
// at its point of occurrence and the affected element degrades instead.
var (
	// ErrPackageInvalid is returned when the input ZIP cannot be opened,
	// or its FixedDocumentSequence.fdseq part is missing or malformed.
	ErrPackageInvalid = errors.New("convertflow: package invalid")

	// ErrNoPages is returned when the package's FixedDocumentSequence
	// resolves to zero FixedPage parts.
	ErrNoPages = errors.New("convertflow: no pages found")

	// ErrOutputWriteFailed is returned when the finished PDF cannot be
	// written to the destination path.
	ErrOutputWriteFailed = errors.New("convertflow: failed to write output")
)
