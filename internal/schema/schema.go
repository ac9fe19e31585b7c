// Package schema is the entity schema registry: the static table of
// required/optional fields, conditional requirements, length bounds, and
// allowed value sets per entity kind.
//
// Definitions are authored in an embedded CUE file and decoded once at
// package init. Lookups are pure; tenant-dynamic value sets (currencies,
// billing periods, charge models, UOMs) come from an injected
// settings.Provider rather than being hardcoded here.
package schema

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"github.com/draftbill/draftbill/internal/catalog"
	"github.com/draftbill/draftbill/internal/settings"
)

//go:embed schema.cue
var schemaCUE string

// Conditional adds required fields when a trigger field holds a specific
// value, e.g. ChargeType=Usage requires UOM.
type Conditional struct {
	Field   string   `json:"field"`
	Equals  string   `json:"equals"`
	Require []string `json:"require"`
	Reason  string   `json:"reason"`
}

// Definition is the decoded schema for one entity kind.
type Definition struct {
	Required     []string            `json:"required"`
	NameField    string              `json:"nameField"`
	Conditional  []Conditional       `json:"conditional"`
	MaxLength    map[string]int      `json:"maxLength"`
	Enums        map[string][]string `json:"enums"`
	Descriptions map[string]string   `json:"descriptions"`
	Known        []string            `json:"known"`

	knownSet map[string]struct{} // folded known names, built after decode
}

// RequiredField pairs a required field name with the reason it is required
// (empty for unconditionally required fields) and its human description.
type RequiredField struct {
	Name        string
	Reason      string
	Description string
}

var definitions = mustLoadDefinitions()

func mustLoadDefinitions() map[catalog.EntityKind]*Definition {
	ctx := cuecontext.New()
	v := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := v.Err(); err != nil {
		panic(fmt.Sprintf("schema: compile schema.cue: %v", err))
	}
	v = v.LookupPath(cue.ParsePath("schemas"))
	if err := v.Err(); err != nil {
		panic(fmt.Sprintf("schema: schemas field missing: %v", err))
	}

	var raw map[string]*Definition
	if err := v.Decode(&raw); err != nil {
		panic(fmt.Sprintf("schema: decode schema.cue: %v", err))
	}

	defs := make(map[catalog.EntityKind]*Definition, len(raw))
	for tag, def := range raw {
		kind, ok := catalog.ParseKind(tag)
		if !ok {
			panic(fmt.Sprintf("schema: schema.cue defines unknown kind %q", tag))
		}
		def.knownSet = make(map[string]struct{}, len(def.Known))
		for _, name := range def.Known {
			def.knownSet[foldName(name)] = struct{}{}
		}
		defs[kind] = def
	}
	for _, kind := range catalog.Kinds {
		if _, ok := defs[kind]; !ok {
			panic(fmt.Sprintf("schema: schema.cue is missing kind %q", kind))
		}
	}
	return defs
}

func foldName(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), "_", "")
}

// Registry answers schema questions for every entity kind, consulting the
// injected tenant settings for tenant-dynamic value sets.
type Registry struct {
	tenant settings.Provider
}

// New builds a registry around the given tenant settings provider.
func New(tenant settings.Provider) *Registry {
	if tenant == nil {
		tenant = settings.Defaults()
	}
	return &Registry{tenant: tenant}
}

// Definition returns the schema for kind. An unknown kind is caller misuse.
func (r *Registry) Definition(kind catalog.EntityKind) (*Definition, error) {
	def, ok := definitions[kind]
	if !ok {
		return nil, fmt.Errorf("no schema registered for entity kind %q", kind)
	}
	return def, nil
}

// RequiredFields returns the unconditionally required field names for kind,
// in schema order.
func (r *Registry) RequiredFields(kind catalog.EntityKind) ([]string, error) {
	def, err := r.Definition(kind)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(def.Required))
	copy(out, def.Required)
	return out, nil
}

// RequiredFor computes the full required-field set for a record's current
// field map: the unconditional fields plus every conditional requirement
// whose trigger value matches. Results are in schema order, unconditional
// fields first.
func (r *Registry) RequiredFor(kind catalog.EntityKind, fields *catalog.FieldMap) ([]RequiredField, error) {
	def, err := r.Definition(kind)
	if err != nil {
		return nil, err
	}
	var out []RequiredField
	seen := make(map[string]struct{})
	for _, name := range def.Required {
		out = append(out, RequiredField{Name: name, Description: def.Descriptions[name]})
		seen[foldName(name)] = struct{}{}
	}
	for _, cond := range def.Conditional {
		v, ok := fields.Get(cond.Field)
		if !ok || !strings.EqualFold(scalarString(v), cond.Equals) {
			continue
		}
		for _, name := range cond.Require {
			if _, dup := seen[foldName(name)]; dup {
				continue
			}
			seen[foldName(name)] = struct{}{}
			out = append(out, RequiredField{
				Name:        name,
				Reason:      cond.Reason,
				Description: def.Descriptions[name],
			})
		}
	}
	return out, nil
}

// AllowedValues returns the closed value set for a field, or nil when the
// field is open. Tenant settings narrow the static enums where the tenant
// supplies its own list.
func (r *Registry) AllowedValues(kind catalog.EntityKind, field string) []string {
	def, ok := definitions[kind]
	if !ok {
		return nil
	}
	var tenantSet []string
	switch foldName(field) {
	case "currency":
		tenantSet = r.tenant.Currencies()
	case "billingperiod":
		tenantSet = r.tenant.BillingPeriods()
	case "chargemodel":
		tenantSet = r.tenant.ChargeModels()
	case "uom":
		tenantSet = r.tenant.UnitsOfMeasure()
	}
	if len(tenantSet) > 0 {
		return tenantSet
	}
	for name, vals := range def.Enums {
		if foldName(name) == foldName(field) {
			return vals
		}
	}
	return nil
}

// MaxLength returns the length bound for a field, or 0 when unbounded.
func (r *Registry) MaxLength(kind catalog.EntityKind, field string) int {
	def, ok := definitions[kind]
	if !ok {
		return 0
	}
	for name, n := range def.MaxLength {
		if foldName(name) == foldName(field) {
			return n
		}
	}
	return 0
}

// NameField returns the field carrying the record's user-visible name.
func (r *Registry) NameField(kind catalog.EntityKind) string {
	if def, ok := definitions[kind]; ok {
		return def.NameField
	}
	return ""
}

// Knows reports whether a field belongs to the kind's statically-known set.
// Fields outside it are passthrough extensions.
func (r *Registry) Knows(kind catalog.EntityKind, field string) bool {
	def, ok := definitions[kind]
	if !ok {
		return false
	}
	_, known := def.knownSet[foldName(field)]
	return known
}

// DefaultCurrency exposes the tenant default for the default rules.
func (r *Registry) DefaultCurrency() string {
	return r.tenant.DefaultCurrency()
}

// scalarString renders a scalar field value for conditional matching.
// Booleans compare as "true"/"false", numbers by their literal.
func scalarString(v catalog.Value) string {
	c, ok := v.(catalog.Concrete)
	if !ok {
		return ""
	}
	switch val := c.V.(type) {
	case string:
		return val
	case bool:
		if val {
			return "true"
		}
		return "false"
	case json.Number:
		return val.String()
	}
	return ""
}
