package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldMapCaseInsensitiveLookup(t *testing.T) {
	m := NewFieldMap()
	m.Set("EffectiveStartDate", String("2026-01-01"))

	for _, spelling := range []string{
		"EffectiveStartDate",
		"effectivestartdate",
		"effective_start_date",
		"EFFECTIVE_START_DATE",
	} {
		v, ok := m.Get(spelling)
		require.True(t, ok, "lookup %q should hit", spelling)
		assert.Equal(t, String("2026-01-01"), v)
	}

	// Re-setting under a different spelling keeps the original one.
	m.Set("effective_start_date", String("2027-01-01"))
	assert.Equal(t, []string{"EffectiveStartDate"}, m.Names())
	v, _ := m.Get("EffectiveStartDate")
	assert.Equal(t, String("2027-01-01"), v)
}

func TestFieldMapPreservesInsertionOrder(t *testing.T) {
	m := NewFieldMap()
	m.Set("Name", String("Analytics Pro"))
	m.Set("EffectiveStartDate", String("2026-01-01"))
	m.Set("SKU", String("ANALYTICS-PRO"))
	m.Set("Name", String("Analytics Pro v2")) // overwrite must not reorder

	assert.Equal(t, []string{"Name", "EffectiveStartDate", "SKU"}, m.Names())
}

func TestFieldMapDelete(t *testing.T) {
	m := NewFieldMap()
	m.Set("Name", String("Analytics Pro"))
	m.Set("UOM", String("GB"))
	m.Set("SKU", String("ANALYTICS-PRO"))

	// Deletion works under any spelling and keeps the remaining order.
	m.Delete("uom")
	assert.Equal(t, []string{"Name", "SKU"}, m.Names())
	assert.False(t, m.Has("UOM"))

	m.Delete("UOM") // absent, no-op
	assert.Equal(t, 2, m.Len())
}

func TestRecordDeleteField(t *testing.T) {
	r := NewRecord("r1", Charge)
	r.SetField("Name", String("Metered"))
	r.SetField("UOM", PlaceholderValue{Field: "UOM"})
	require.False(t, r.ExecutionReady())

	r.DeleteField("uom")
	assert.False(t, r.Fields.Has("UOM"))
	assert.Empty(t, r.PlaceholderFields())
	assert.True(t, r.ExecutionReady())
}

func TestRecordPlaceholderBookkeeping(t *testing.T) {
	r := NewRecord("r1", Product)
	r.SetField("Name", String("Analytics Pro"))
	r.SetField("SKU", PlaceholderValue{Field: "SKU"})

	assert.Equal(t, []string{"SKU"}, r.PlaceholderFields())
	assert.False(t, r.ExecutionReady())

	// Resolving the field removes it from the set.
	r.SetField("SKU", String("ANALYTICS-PRO"))
	assert.Empty(t, r.PlaceholderFields())
	assert.True(t, r.ExecutionReady())

	// Re-placeholdering under a different spelling targets the same entry.
	r.SetField("sku", PlaceholderValue{Field: "SKU"})
	assert.Equal(t, []string{"SKU"}, r.PlaceholderFields())
}

func TestRecordParentRef(t *testing.T) {
	rp := NewRecord("r1", RatePlan)
	_, ok := rp.ParentRef()
	assert.False(t, ok, "no parent field set yet")

	rp.SetField("ProductId", RefValue{Kind: Product, Index: 0})
	ref, ok := rp.ParentRef()
	require.True(t, ok)
	assert.Equal(t, RefValue{Kind: Product, Index: 0}, ref)

	// Concrete IDs are not forward references.
	rp.SetField("ProductId", String("8a1234567890abcd"))
	_, ok = rp.ParentRef()
	assert.False(t, ok)

	// Products have no parent at all.
	p := NewRecord("p1", Product)
	_, ok = p.ParentRef()
	assert.False(t, ok)
}

func TestValueEqual(t *testing.T) {
	assert.True(t, ValueEqual(String("x"), String("x")))
	assert.False(t, ValueEqual(String("x"), String("y")))
	assert.True(t, ValueEqual(
		RefValue{Kind: Product, Index: 0},
		ValueFromWire("@{Product[0].Id}"),
	))
	assert.True(t, ValueEqual(
		PlaceholderValue{Field: "SKU"},
		ValueFromWire("<<PLACEHOLDER:SKU>>"),
	))
	assert.False(t, ValueEqual(
		PlaceholderValue{Field: "SKU"},
		PlaceholderValue{Field: "SKU", Reason: "supplied name collides"},
	))
}

func TestRecordClone(t *testing.T) {
	r := NewRecord("r1", Charge)
	r.SetField("Name", String("API Calls"))
	r.SetField("UOM", PlaceholderValue{Field: "UOM"})
	r.SetExtension("CustomField__c", String("x"))
	r.PositionalIndex = 3

	c := r.Clone()
	c.SetField("UOM", String("API_CALL"))
	c.SetExtension("CustomField__c", String("y"))

	// Original is untouched.
	assert.Equal(t, []string{"UOM"}, r.PlaceholderFields())
	v, _ := r.Extensions.Get("CustomField__c")
	assert.Equal(t, String("x"), v)
	assert.Equal(t, 3, c.PositionalIndex)
	assert.True(t, c.ExecutionReady())
}
