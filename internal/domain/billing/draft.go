package billing

import (
	"fmt"

	"github.com/retailbook/billing-api/internal/domain"
)

// ValidationError is a save-time rejection. It unwraps to
// domain.ErrInvalidInput so callers can branch on the sentinel while the
// message names the offending field. Validation never leaves partial state:
// a rejected draft stays exactly as it was.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid invoice: %s %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return domain.ErrInvalidInput }

// Draft is an invoice under construction or re-opened for editing: the
// ledger, discount and override being worked on for one customer. A Draft
// only becomes persistable through Finalize, which enforces the aggregate
// invariants and freezes the pricing snapshot.
type Draft struct {
	CustomerRef string
	Ledger      Ledger
	Discount    DiscountSpec
	Override    Override
}

// Finalize validates the draft and returns the persistable lines plus the
// frozen snapshot, rounded to currency precision. Blank ledger rows are
// filtered out here; they never reach storage. Rules: customer required, at
// least one resolved line, every resolved line with positive quantity and
// positive price.
func (d Draft) Finalize(e Engine) ([]Line, Snapshot, error) {
	if d.CustomerRef == "" {
		return nil, Snapshot{}, &ValidationError{Field: "customer", Reason: "is required"}
	}
	lines := d.Ledger.Filled()
	if len(lines) == 0 {
		return nil, Snapshot{}, &ValidationError{Field: "lines", Reason: "must contain at least one resolved item"}
	}
	for i, l := range lines {
		if l.Quantity <= 0 {
			return nil, Snapshot{}, &ValidationError{Field: fmt.Sprintf("lines[%d].quantity", i), Reason: "must be positive"}
		}
		if !l.UnitPrice.IsPositive() {
			return nil, Snapshot{}, &ValidationError{Field: fmt.Sprintf("lines[%d].price", i), Reason: "must be positive"}
		}
	}
	snap := e.Recompute(Input{Lines: lines, Discount: d.Discount, Override: d.Override}).Rounded()
	return lines, snap, nil
}
