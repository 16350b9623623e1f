package billing

import (
	"github.com/shopspring/decimal"

	"github.com/retailbook/billing-api/internal/domain/entity"
	"github.com/retailbook/billing-api/internal/domain/money"
)

// DiscountSpec is the invoice-level discount: a percentage of the subtotal
// or a flat currency amount. Percent values are not clamped to [0,100];
// out-of-range values flow through and can make the taxable amount negative.
type DiscountSpec struct {
	Kind  string // entity.DiscountPercent | entity.DiscountFlat
	Value decimal.Decimal
}

// Amount returns the discount for a given subtotal.
func (d DiscountSpec) Amount(subtotal decimal.Decimal) decimal.Decimal {
	if d.Kind == entity.DiscountPercent {
		return money.PercentOf(subtotal, d.Value)
	}
	return d.Value
}

// Input is the immutable input of one recomputation: the current ledger
// lines, the discount, and the sticky override. Everything else in the
// snapshot is derived fresh on every call.
type Input struct {
	Lines    []Line
	Discount DiscountSpec
	Override Override
}

// Snapshot is the fully derived pricing result for one Input at one instant.
// FinalTotal is the number persisted as the invoice total;
// RoundingAdjustment always equals FinalTotal - ComputedTotal exactly.
type Snapshot struct {
	Subtotal           decimal.Decimal
	DiscountAmount     decimal.Decimal
	TaxableAmount      decimal.Decimal
	TaxAmount          decimal.Decimal
	ComputedTotal      decimal.Decimal
	NetOverride        decimal.NullDecimal
	FinalTotal         decimal.Decimal
	RoundingAdjustment decimal.Decimal
}

// ShowRoundingAdjustment reports whether the residual is big enough to
// display as its own line (|adj| > 0.001).
func (s Snapshot) ShowRoundingAdjustment() bool {
	return !money.Negligible(s.RoundingAdjustment)
}

// Rounded freezes the snapshot for persistence: every currency field is
// rounded to 2 places, the computed total is rederived from the rounded
// components and the residual from the rounded totals, so the stored
// figures reconcile exactly (total - (taxable + tax) = roundingAdjustment)
// and a read-back returns what the create response said. Recompute itself
// stays full-precision; rounding happens only here.
func (s Snapshot) Rounded() Snapshot {
	out := s
	out.Subtotal = money.Round(s.Subtotal)
	out.DiscountAmount = money.Round(s.DiscountAmount)
	out.TaxableAmount = money.Round(s.TaxableAmount)
	out.TaxAmount = money.Round(s.TaxAmount)
	out.ComputedTotal = out.TaxableAmount.Add(out.TaxAmount)
	out.FinalTotal = out.ComputedTotal
	if s.NetOverride.Valid {
		out.NetOverride = decimal.NullDecimal{Decimal: money.Round(s.NetOverride.Decimal), Valid: true}
		out.FinalTotal = out.NetOverride.Decimal
	}
	out.RoundingAdjustment = out.FinalTotal.Sub(out.ComputedTotal)
	return out
}

// Engine derives pricing snapshots. The tax rate is injected, not a global:
// invoices persist the amounts computed with the rate in effect at creation.
type Engine struct {
	taxRate decimal.Decimal
}

// NewEngine builds an engine with the given tax rate (e.g. 0.18).
func NewEngine(taxRate decimal.Decimal) Engine {
	return Engine{taxRate: taxRate}
}

// TaxRate returns the injected rate.
func (e Engine) TaxRate() decimal.Decimal { return e.taxRate }

// Recompute derives a snapshot from the input. Pure: no cached state, no
// side effects. Called after every ledger or discount mutation.
//
// Chain: subtotal -> discountAmount -> taxableAmount -> taxAmount ->
// computedTotal, then reconciled with the override. While the override is
// being edited the final total tracks the computed total; only a committed
// override becomes authoritative. The rounding adjustment is informational
// and is never folded back into tax or discount.
func (e Engine) Recompute(in Input) Snapshot {
	subtotal := decimal.Zero
	for _, l := range in.Lines {
		subtotal = subtotal.Add(l.Total())
	}

	discountAmount := in.Discount.Amount(subtotal)
	taxableAmount := subtotal.Sub(discountAmount)
	taxAmount := taxableAmount.Mul(e.taxRate)
	computedTotal := taxableAmount.Add(taxAmount)

	snap := Snapshot{
		Subtotal:       subtotal,
		DiscountAmount: discountAmount,
		TaxableAmount:  taxableAmount,
		TaxAmount:      taxAmount,
		ComputedTotal:  computedTotal,
		FinalTotal:     computedTotal,
	}

	if v, ok := in.Override.Value(); ok {
		snap.NetOverride = decimal.NullDecimal{Decimal: v, Valid: true}
		snap.FinalTotal = v
	}
	snap.RoundingAdjustment = snap.FinalTotal.Sub(computedTotal)
	return snap
}
