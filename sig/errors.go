package sig

import "errors"

// Error kinds of spec §7. Cache-local errors (CacheMismatch,
// InvalidCacheFile) never reach this package — the cache package already
// swallows them at its boundary.
var (
	ErrInvalidActivationParameters = errors.New("sig: activation_epoch + num_active_epochs exceeds the key's lifetime")
	ErrInsufficientBottomTrees     = errors.New("sig: expanded activation window has fewer than two bottom trees")
	ErrKeyNotActive                = errors.New("sig: epoch outside [activation_epoch, activation_epoch+num_active_epochs)")
	ErrEpochNotPrepared            = errors.New("sig: epoch outside the current prepared window")
	ErrEncodingAttemptsExceeded    = errors.New("sig: rejection encoding did not converge within MAX_TRIES")
	ErrInvalidTopTree              = errors.New("sig: top tree has an empty root layer")
	ErrInvalidBottomTree           = errors.New("sig: bottom tree has an empty root layer")
	ErrEpochTooLarge               = errors.New("sig: epoch >= 2^log_lifetime")
)
