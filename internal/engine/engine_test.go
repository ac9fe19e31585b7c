package engine

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/draftbill/draftbill/internal/catalog"
)

func TestListPayloadsFiltersByKind(t *testing.T) {
	e := newTestEngine(t)
	_, _, err := e.ConstructPayload(catalog.Product, map[string]any{"Name": "First"})
	require.NoError(t, err)
	_, _, err = e.ConstructPayload(catalog.RatePlan, map[string]any{"Name": "Standard"})
	require.NoError(t, err)
	_, _, err = e.ConstructPayload(catalog.Product, map[string]any{"Name": "Second"})
	require.NoError(t, err)

	all, err := e.ListPayloads("")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	products, err := e.ListPayloads(catalog.Product)
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "First", fieldString(t, products[0], "Name"))
	assert.Equal(t, "Second", fieldString(t, products[1], "Name"))

	_, err = e.ListPayloads(catalog.EntityKind("bogus"))
	require.Error(t, err)
	assert.True(t, IsSchemaError(err))
}

func TestRemove(t *testing.T) {
	e := newTestEngine(t)
	r, _, err := e.ConstructPayload(catalog.Product, map[string]any{"Name": "First"})
	require.NoError(t, err)

	require.NoError(t, e.Remove(r.ID))
	assert.Equal(t, 0, e.Store().Len())

	err = e.Remove(r.ID)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestExportIsValidJSONInAppendOrder(t *testing.T) {
	e := newTestEngine(t)
	p, _, err := e.ConstructPayload(catalog.Product, map[string]any{"Name": "Analytics Pro"})
	require.NoError(t, err)
	rp, _, err := e.ConstructPayload(catalog.RatePlan, map[string]any{"Name": "Standard"})
	require.NoError(t, err)

	out, err := e.Export()
	require.NoError(t, err)

	var records []map[string]any
	require.NoError(t, json.Unmarshal(out, &records))
	require.Len(t, records, 2)
	assert.Equal(t, p.ID, records[0]["payload_id"])
	assert.Equal(t, rp.ID, records[1]["payload_id"])

	// Tokens stay unresolved in the export: resolution is the executor's.
	payload := records[1]["payload"].(map[string]any)
	assert.Equal(t, "@{Product[0].Id}", payload["ProductId"])
}

func TestExportEmptyBatch(t *testing.T) {
	e := newTestEngine(t)
	out, err := e.Export()
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(out))
}

func TestDescribeSchema(t *testing.T) {
	e := newTestEngine(t)

	fields, err := e.DescribeSchema(catalog.Product)
	require.NoError(t, err)
	require.Len(t, fields, 4)
	assert.Equal(t, "Name", fields[0].Name)
	assert.Contains(t, fields[0].Question.Prompt, "named")

	charge, err := e.DescribeSchema(catalog.Charge)
	require.NoError(t, err)
	var model *FieldSpec
	for i := range charge {
		if charge[i].Name == "ChargeModel" {
			model = &charge[i]
		}
	}
	require.NotNil(t, model)
	assert.Contains(t, model.Options, "Flat Fee Pricing")
	assert.Equal(t, "What pricing model would you like?", model.Question.Prompt)

	_, err = e.DescribeSchema(catalog.EntityKind("bogus"))
	require.Error(t, err)
	assert.True(t, IsSchemaError(err))
}
