package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/draftbill/draftbill/internal/catalog"
	"github.com/draftbill/draftbill/internal/settings"
)

func TestDefinitionsCoverAllKinds(t *testing.T) {
	r := New(nil)
	for _, kind := range catalog.Kinds {
		def, err := r.Definition(kind)
		require.NoError(t, err, "kind %s", kind)
		assert.NotEmpty(t, def.Required, "kind %s", kind)
		assert.NotEmpty(t, def.NameField, "kind %s", kind)
		// Every required field must be in the known set.
		for _, f := range def.Required {
			assert.True(t, r.Knows(kind, f), "kind %s required field %s must be known", kind, f)
		}
	}
}

func TestRequiredFields(t *testing.T) {
	r := New(nil)

	product, err := r.RequiredFields(catalog.Product)
	require.NoError(t, err)
	assert.Equal(t, []string{"Name", "EffectiveStartDate", "EffectiveEndDate", "SKU"}, product)

	ratePlan, err := r.RequiredFields(catalog.RatePlan)
	require.NoError(t, err)
	assert.Equal(t, []string{"Name", "ProductId"}, ratePlan)

	charge, err := r.RequiredFields(catalog.Charge)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"Name", "ProductRatePlanId", "ChargeModel", "ChargeType",
		"BillCycleType", "TriggerEvent", "ProductRatePlanChargeTierData",
	}, charge)
}

func TestRequiredForConditional(t *testing.T) {
	r := New(nil)

	fields := catalog.NewFieldMap()
	fields.Set("ChargeType", catalog.String("Usage"))
	req, err := r.RequiredFor(catalog.Charge, fields)
	require.NoError(t, err)

	byName := make(map[string]RequiredField)
	for _, f := range req {
		byName[f.Name] = f
	}
	uom, ok := byName["UOM"]
	require.True(t, ok, "Usage charge must require UOM")
	assert.Equal(t, "required because ChargeType=Usage", uom.Reason)
	assert.NotContains(t, byName, "BillingPeriod", "Usage charge must not require BillingPeriod")

	// Conditions match case-insensitively, as supplied values do.
	fields = catalog.NewFieldMap()
	fields.Set("chargetype", catalog.String("recurring"))
	req, err = r.RequiredFor(catalog.Charge, fields)
	require.NoError(t, err)
	names := make([]string, 0, len(req))
	for _, f := range req {
		names = append(names, f.Name)
	}
	assert.Contains(t, names, "BillingPeriod")
}

func TestRequiredForQuantityBearingModels(t *testing.T) {
	r := New(nil)

	for _, model := range []string{"Per Unit Pricing", "Volume Pricing", "Tiered Pricing"} {
		fields := catalog.NewFieldMap()
		fields.Set("ChargeModel", catalog.String(model))
		req, err := r.RequiredFor(catalog.Charge, fields)
		require.NoError(t, err)

		byName := make(map[string]RequiredField)
		for _, f := range req {
			byName[f.Name] = f
		}
		dq, ok := byName["DefaultQuantity"]
		require.True(t, ok, "%s must require DefaultQuantity", model)
		assert.Equal(t, "required because ChargeModel="+model, dq.Reason)
	}

	fields := catalog.NewFieldMap()
	fields.Set("ChargeModel", catalog.String("Flat Fee Pricing"))
	req, err := r.RequiredFor(catalog.Charge, fields)
	require.NoError(t, err)
	for _, f := range req {
		assert.NotEqual(t, "DefaultQuantity", f.Name, "flat fee must not require DefaultQuantity")
	}
}

func TestRequiredForPriceIncreaseOption(t *testing.T) {
	r := New(nil)
	fields := catalog.NewFieldMap()
	fields.Set("PriceIncreaseOption", catalog.String("SpecificPercentageValue"))
	req, err := r.RequiredFor(catalog.Charge, fields)
	require.NoError(t, err)
	names := make([]string, 0, len(req))
	for _, f := range req {
		names = append(names, f.Name)
	}
	assert.Contains(t, names, "PriceIncreasePercentage")
}

func TestRequiredForBooleanCondition(t *testing.T) {
	r := New(nil)
	fields := catalog.NewFieldMap()
	fields.Set("Taxable", catalog.NewConcrete(true))
	req, err := r.RequiredFor(catalog.Charge, fields)
	require.NoError(t, err)
	names := make([]string, 0, len(req))
	for _, f := range req {
		names = append(names, f.Name)
	}
	assert.Contains(t, names, "TaxCode")
	assert.Contains(t, names, "TaxMode")
}

func TestUnknownKind(t *testing.T) {
	r := New(nil)
	_, err := r.Definition(catalog.EntityKind("invoice"))
	require.Error(t, err)
}

func TestAllowedValuesTenantNarrowing(t *testing.T) {
	// With no tenant restriction the static enum applies.
	r := New(nil)
	models := r.AllowedValues(catalog.Charge, "ChargeModel")
	assert.Contains(t, models, "Flat Fee Pricing")
	assert.Contains(t, models, "Tiered Pricing")

	// A tenant list replaces it.
	tenant := settings.Defaults()
	tenant.Models = []string{"Flat Fee Pricing"}
	r = New(tenant)
	assert.Equal(t, []string{"Flat Fee Pricing"}, r.AllowedValues(catalog.Charge, "ChargeModel"))

	// Currency has no static enum: open unless the tenant narrows it.
	r = New(nil)
	assert.Nil(t, r.AllowedValues(catalog.Charge, "Currency"))
	tenant = settings.Defaults()
	tenant.Curr = []string{"USD", "EUR"}
	r = New(tenant)
	assert.Equal(t, []string{"USD", "EUR"}, r.AllowedValues(catalog.Charge, "Currency"))
}

func TestMaxLength(t *testing.T) {
	r := New(nil)
	assert.Equal(t, 100, r.MaxLength(catalog.Product, "Name"))
	assert.Equal(t, 255, r.MaxLength(catalog.RatePlan, "Name"))
	assert.Equal(t, 100, r.MaxLength(catalog.Charge, "Name"))
	assert.Equal(t, 50, r.MaxLength(catalog.Product, "SKU"))
	assert.Equal(t, 25, r.MaxLength(catalog.Charge, "UOM"))
	assert.Equal(t, 0, r.MaxLength(catalog.Product, "EffectiveStartDate"))
}

func TestKnowsSplitsExtensions(t *testing.T) {
	r := New(nil)
	assert.True(t, r.Knows(catalog.Product, "SKU"))
	assert.True(t, r.Knows(catalog.Product, "sku"))
	assert.False(t, r.Knows(catalog.Charge, "effective_start_date"))
	assert.False(t, r.Knows(catalog.Product, "CustomField__c"))
}

func TestFriendlyLabels(t *testing.T) {
	assert.Equal(t, "monthly", FriendlyLabel("Month"))
	assert.Equal(t, "flat fee", FriendlyLabel("Flat Fee Pricing"))
	assert.Equal(t, "API_CALL", FriendlyLabel("API_CALL"), "unknown values pass through")
	assert.Equal(t, "monthly, quarterly, etc.", FriendlyOptions([]string{"Month", "Quarter", "Annual"}, 2))
	assert.Equal(t, "Product Rate Plan", FriendlyKind("product_rate_plan"))
	assert.Equal(t, "Charge", FriendlyKind("charge_update"))
}

func TestQuestionFor(t *testing.T) {
	q := QuestionFor("product_rate_plan_charge", "UOM")
	assert.Equal(t, "What unit of measure?", q.Prompt)
	assert.NotEmpty(t, q.Examples)
	assert.NotEmpty(t, q.Recommendation)

	q = QuestionFor("product", "Name")
	assert.Equal(t, "What should this product be named?", q.Prompt)

	q = QuestionFor("product", "SomeCustomThing__c")
	assert.Equal(t, "What SomeCustomThing?", q.Prompt)
}
