package reservoir

import (
	"errors"
	"fmt"
)

// Sentinel configuration errors, checkable with errors.Is. reservoir
// keeps its own copy rather than importing the root flash package, which
// imports reservoir.
var (
	ErrZeroTables    = errors.New("reservoir: number of tables (L) must be greater than zero")
	ErrZeroReservoir = errors.New("reservoir: reservoir size (R) must be greater than zero")
	ErrRangePow      = errors.New("reservoir: range_pow must be in [1, 31]")
)

// BoundsError reports an out-of-range row or table index reaching the
// storage layer. Spec.md §7 calls for a panic here rather than a
// returned error: a bad index means the caller (the orchestrator) passed
// a hash outside [0, 2^range_pow), which is an invariant violation, not a
// recoverable runtime condition. OverrideRandValues is the one place that
// returns it, wrapped, instead of panicking: for a table of the wrong
// length, with Rows holding the required length.
type BoundsError struct {
	Table, Row int
	Rows       int
}

func (e *BoundsError) Error() string {
	return fmt.Sprintf("reservoir: row %d out of bounds [0,%d) in table %d", e.Row, e.Rows, e.Table)
}

func wrapConfig(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", op, err)
}
