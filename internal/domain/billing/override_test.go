package billing_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retailbook/billing-api/internal/domain/billing"
)

func TestOverride_StartsUnset(t *testing.T) {
	var o billing.Override
	assert.Equal(t, billing.OverrideUnset, o.State())
	_, ok := o.Value()
	assert.False(t, ok)
}

func TestOverride_BeginEditSeedsIntegerRoundedTotal(t *testing.T) {
	var o billing.Override
	o = o.BeginEdit(decimal.RequireFromString("944.37"))

	assert.Equal(t, billing.OverrideEditing, o.State())
	assert.Equal(t, "944", o.Text(), "visible text seeds with the integer-rounded computed total")

	_, ok := o.Value()
	assert.False(t, ok, "no authoritative value while editing")
}

func TestOverride_TypedValueBecomesAuthoritativeOnCommit(t *testing.T) {
	var o billing.Override
	o = o.BeginEdit(decimal.NewFromInt(944)).Type("950").Commit()

	require.Equal(t, billing.OverrideCommitted, o.State())
	v, ok := o.Value()
	require.True(t, ok)
	assert.True(t, v.Equal(decimal.NewFromInt(950)))
}

func TestOverride_CommitEmptyReturnsToUnset(t *testing.T) {
	var o billing.Override
	o = o.BeginEdit(decimal.NewFromInt(100)).Type("").Commit()
	assert.Equal(t, billing.OverrideUnset, o.State())
}

func TestOverride_ReEditKeepsPreviousText(t *testing.T) {
	var o billing.Override
	o = o.BeginEdit(decimal.NewFromInt(100)).Type("120").Commit()

	// A second focus does not re-seed: the typed characters are preserved.
	o = o.BeginEdit(decimal.NewFromInt(200))
	assert.Equal(t, billing.OverrideEditing, o.State())
	assert.Equal(t, "120", o.Text())
}

func TestOverride_TypeIgnoredOutsideEditing(t *testing.T) {
	var o billing.Override
	o = o.Type("999")
	assert.Equal(t, billing.OverrideUnset, o.State())
	assert.Equal(t, "", o.Text())
}

func TestOverride_UnparseableCommitHasNoValue(t *testing.T) {
	var o billing.Override
	o = o.BeginEdit(decimal.NewFromInt(100)).Type("12abc").Commit()

	assert.Equal(t, billing.OverrideCommitted, o.State())
	_, ok := o.Value()
	assert.False(t, ok, "garbage text never becomes an authoritative total")
}
