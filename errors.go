package deideval

import (
	"errors"

	"github.com/jamesainslie/go-deideval/annotation"
	"github.com/jamesainslie/go-deideval/eval"
)

// Sentinel errors for conditions callers may need to handle differently.
var (
	// ErrUsage indicates gold and system paths are neither file-vs-file nor
	// directory-vs-directories. Nothing is scored.
	ErrUsage = errors.New("deideval: must pass FILE FILE or DIR DIR [DIR...]")

	// ErrUnknownSubtrack indicates an unsupported subtrack name.
	ErrUnknownSubtrack = errors.New("deideval: unknown subtrack")

	// ErrParse indicates an annotation file could not be decoded.
	ErrParse = annotation.ErrParse

	// ErrMissingGold indicates a system document with no gold counterpart.
	ErrMissingGold = eval.ErrMissingGold

	// ErrMissingSystem indicates a gold document a run has no output for.
	ErrMissingSystem = eval.ErrMissingSystem

	// ErrDuplicateDocument indicates two files resolving to the same document.
	ErrDuplicateDocument = eval.ErrDuplicateDocument
)
