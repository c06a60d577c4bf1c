package arthub

import "errors"

// Sentinel errors for the conditions callers branch on. Wrap them with
// fmt.Errorf("...: %w", err) and match with errors.Is.
var (
	// ErrNotFound reports a referenced record (asset, tag, folder, version)
	// that does not exist.
	ErrNotFound = errors.New("not found")

	// ErrLockHeld reports an operation refused because another user holds a
	// live lock on the file.
	ErrLockHeld = errors.New("file is locked by another user")

	// ErrCorrupt reports a persisted record that could not be parsed.
	// Lock files degrade to "no lock" instead; this is for history and
	// permission documents, where silent loss would be destructive.
	ErrCorrupt = errors.New("record is corrupt")

	// ErrValidation reports input rejected before touching storage,
	// such as an out-of-range rating or an unknown role name.
	ErrValidation = errors.New("invalid input")

	// ErrNoSharedRoot reports a team operation attempted without a shared
	// root configured.
	ErrNoSharedRoot = errors.New("no shared root configured")
)
