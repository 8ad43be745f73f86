package hashfamily

import "errors"

// Sentinel configuration errors, checkable with errors.Is. hashfamily
// cannot import the root flash package (flash imports hashfamily), so it
// keeps its own sentinels, wrapped with the operation name; flash.New
// re-wraps these in a *flash.ParameterError for its own callers.
var (
	ErrZeroTables    = errors.New("hashfamily: number of tables (L) must be greater than zero")
	ErrZeroHashFuncs = errors.New("hashfamily: hash functions per table (K) must be greater than zero")
	ErrRangePow      = errors.New("hashfamily: range_pow must be in [1, 31]")
	ErrRangeTooSmall = errors.New("hashfamily: K*L hash functions exceed 2^range_pow rows")
)
