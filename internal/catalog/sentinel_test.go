package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMintSentinel(t *testing.T) {
	assert.Equal(t, "<<PLACEHOLDER:SKU>>", MintSentinel("SKU", ""))
	assert.Equal(t,
		"<<PLACEHOLDER:UOM (required because ChargeType=Usage)>>",
		MintSentinel("UOM", "required because ChargeType=Usage"))
}

func TestParseSentinel(t *testing.T) {
	testCases := []struct {
		name       string
		in         string
		wantField  string
		wantReason string
		valid      bool
	}{
		{"bare field", "<<PLACEHOLDER:SKU>>", "SKU", "", true},
		{"with reason", "<<PLACEHOLDER:UOM (required because ChargeType=Usage)>>", "UOM", "required because ChargeType=Usage", true},
		{"dotted path", "<<PLACEHOLDER:billToContact.firstName>>", "billToContact.firstName", "", true},
		{"plain value", "ANALYTICS-PRO", "", "", false},
		{"forward ref is not a sentinel", "@{Product[0].Id}", "", "", false},
		{"missing terminator", "<<PLACEHOLDER:SKU", "", "", false},
		{"empty field", "<<PLACEHOLDER:>>", "", "", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			field, reason, ok := ParseSentinel(tc.in)
			require.Equal(t, tc.valid, ok)
			if tc.valid {
				assert.Equal(t, tc.wantField, field)
				assert.Equal(t, tc.wantReason, reason)
				assert.True(t, IsSentinel(tc.in))
			}
		})
	}
}

func TestSentinelRoundTrip(t *testing.T) {
	s := MintSentinel("EffectiveEndDate", "end date must be after start date")
	field, reason, ok := ParseSentinel(s)
	require.True(t, ok)
	assert.Equal(t, "EffectiveEndDate", field)
	assert.Equal(t, "end date must be after start date", reason)
}
