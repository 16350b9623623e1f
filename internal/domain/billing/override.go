package billing

import "github.com/shopspring/decimal"

// OverrideState is the lifecycle of the manual net-total field.
type OverrideState int

const (
	// OverrideUnset: no override has ever been entered; the computed total rules.
	OverrideUnset OverrideState = iota
	// OverrideEditing: the field is focused. The typed characters are kept but
	// the final total keeps tracking the computed total so the residual row
	// does not flicker mid-keystroke.
	OverrideEditing
	// OverrideCommitted: the field was blurred; the typed value is frozen as
	// the authoritative net total.
	OverrideCommitted
)

// Override models the operator-entered final total that supersedes the
// computed one. It has value semantics like the ledger. There is no reset
// action: clearing happens only by starting a new invoice.
type Override struct {
	state OverrideState
	text  string
}

// State returns the current lifecycle state.
func (o Override) State() OverrideState { return o.state }

// Text returns the raw typed characters.
func (o Override) Text() string { return o.text }

// BeginEdit moves to Editing. The first time, the visible text is seeded
// with the integer-rounded computed total as a convenience default.
func (o Override) BeginEdit(computedTotal decimal.Decimal) Override {
	if o.state == OverrideUnset {
		o.text = computedTotal.Round(0).String()
	}
	o.state = OverrideEditing
	return o
}

// Type replaces the raw text while editing. Outside Editing it is ignored.
func (o Override) Type(text string) Override {
	if o.state != OverrideEditing {
		return o
	}
	o.text = text
	return o
}

// Commit freezes the typed value (blur). Committing empty text returns to
// Unset: the invoice falls back to the computed total.
func (o Override) Commit() Override {
	if o.state != OverrideEditing {
		return o
	}
	if o.text == "" {
		o.state = OverrideUnset
		return o
	}
	o.state = OverrideCommitted
	return o
}

// Value returns the committed override amount. ok is false while Unset or
// Editing, and also when the committed text does not parse as a number.
func (o Override) Value() (decimal.Decimal, bool) {
	if o.state != OverrideCommitted {
		return decimal.Zero, false
	}
	v, err := decimal.NewFromString(o.text)
	if err != nil {
		return decimal.Zero, false
	}
	return v, true
}

// CommittedOverride builds an already-committed override, used when an
// invoice is re-opened for editing with a persisted manual total.
func CommittedOverride(v decimal.Decimal) Override {
	return Override{state: OverrideCommitted, text: v.String()}
}
