package sections

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	for _, s := range All() {
		parsed, ok := Parse(string(s))
		require.True(t, ok, "expected %s to parse", s)
		assert.Equal(t, s, parsed)
	}

	_, ok := Parse("bogus")
	assert.False(t, ok)
	_, ok = Parse("")
	assert.False(t, ok)
	// Names are case sensitive.
	_, ok = Parse("Information")
	assert.False(t, ok)
}

func TestCount(t *testing.T) {
	assert.Equal(t, 10, Count())
	assert.Len(t, All(), 10)
}

func TestIsFree(t *testing.T) {
	assert.True(t, IsFree(Information))
	assert.True(t, IsFree(Overview))

	for _, s := range []Section{InformationSheet, BeneficialOwnerCertification, CompanyReferences, DDForm, LoanDetails, LoanRequest, CEODashboard, CFODashboard} {
		assert.False(t, IsFree(s), "expected %s to be gated", s)
	}
}

func TestValidState(t *testing.T) {
	assert.True(t, ValidState(StateOpen))
	assert.True(t, ValidState(StateLocked))
	assert.True(t, ValidState(StateApproved))
	assert.False(t, ValidState(""))
	assert.False(t, ValidState("pending"))
	assert.False(t, ValidState("Approved"))
}

func TestWritable(t *testing.T) {
	assert.True(t, Writable(StateOpen))
	assert.True(t, Writable(StateApproved))
	assert.False(t, Writable(StateLocked))
	// Unset states read as locked.
	assert.False(t, Writable(""))
}

func TestDefaultApprovals(t *testing.T) {
	defaults := DefaultApprovals()
	require.Len(t, defaults, Count())

	assert.Equal(t, StateApproved, defaults["information"])
	assert.Equal(t, StateApproved, defaults["overview"])

	// Every gated section, loanRequest included, starts locked.
	for _, s := range All() {
		if IsFree(s) {
			continue
		}
		assert.Equal(t, StateLocked, defaults[string(s)], "section %s", s)
	}
}
