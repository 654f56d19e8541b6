package costbasis

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for precondition failures. All engine failures are ordinary
// returned values; nothing here is fatal or retried.
var (
	ErrInvalidAmount  = errors.New("transaction amount must be positive")
	ErrInvalidPrice   = errors.New("transaction price must be positive")
	ErrInvalidType    = errors.New("transaction type must be buy or sell")
	ErrEmptyImportSet = errors.New("import set contains no transactions")
)

// InsufficientQuantityError reports a sell that exceeds the available
// quantity, either against the asset aggregate or the running total during
// bulk import replay.
type InsufficientQuantityError struct {
	Available float64
	Requested float64
}

func (e *InsufficientQuantityError) Error() string {
	return fmt.Sprintf("insufficient quantity: requested %g, available %g", e.Requested, e.Available)
}

// FutureDatedError reports a bulk-import transaction dated after processing
// time. Imported transactions must be historical.
type FutureDatedError struct {
	Date time.Time
	Now  time.Time
}

func (e *FutureDatedError) Error() string {
	return fmt.Sprintf("transaction dated %s is in the future (now %s)",
		e.Date.Format(time.RFC3339), e.Now.Format(time.RFC3339))
}
