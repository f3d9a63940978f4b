package constants

import "time"

type (
	CachePrefix string
)

const (
	CachePrefixRequestStats CachePrefix = "REQ_STATS_"
	CachePrefixUserProfile  CachePrefix = "USER_PROFILE_"
)

const (
	// RequestIDPrefix leads every public request reference, e.g. RQ-2025-00001.
	RequestIDPrefix = "RQ"

	// RequestIDSeqWidth is the zero-padded width of the per-year sequence.
	// Padding keeps lexicographic and numeric order identical, which the
	// sequence seeding relies on.
	RequestIDSeqWidth = 5
)

const (
	// OTPLength is the number of digits in a one-time code.
	OTPLength = 6

	// OTPTTL is how long a one-time code stays valid after issue.
	// Expiry is strict: a code aged exactly OTPTTL is still usable.
	OTPTTL = 10 * time.Minute
)
