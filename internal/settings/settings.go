// Package settings supplies tenant-specific billing configuration to the
// schema registry and the default rules: the tenant's default currency and
// the value sets the tenant has enabled (currencies, billing periods, charge
// models, units of measure).
//
// The engine only reads settings. Fetching them from the billing API and
// refreshing them is the session manager's concern; here they arrive either
// as built-in defaults or as a YAML file handed over at startup.
package settings

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Provider supplies tenant-dynamic value sets. An empty slice means the
// tenant imposes no restriction and the full schema enum applies.
type Provider interface {
	DefaultCurrency() string
	Currencies() []string
	BillingPeriods() []string
	ChargeModels() []string
	UnitsOfMeasure() []string
}

// Tenant is a concrete, immutable Provider decoded from YAML or built from
// defaults.
type Tenant struct {
	Currency string   `yaml:"default_currency"`
	Curr     []string `yaml:"currencies"`
	Periods  []string `yaml:"billing_periods"`
	Models   []string `yaml:"charge_models"`
	UOMs     []string `yaml:"units_of_measure"`
}

// Defaults returns the settings assumed when no tenant file is supplied:
// USD with no tenant-level restrictions.
func Defaults() *Tenant {
	return &Tenant{Currency: "USD"}
}

// LoadFile reads tenant settings from a YAML file, overlaying Defaults.
func LoadFile(path string) (*Tenant, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read settings file: %w", err)
	}
	t := Defaults()
	if err := yaml.Unmarshal(data, t); err != nil {
		return nil, fmt.Errorf("parse settings file %s: %w", path, err)
	}
	if t.Currency == "" {
		t.Currency = "USD"
	}
	return t, nil
}

func (t *Tenant) DefaultCurrency() string  { return t.Currency }
func (t *Tenant) Currencies() []string     { return t.Curr }
func (t *Tenant) BillingPeriods() []string { return t.Periods }
func (t *Tenant) ChargeModels() []string   { return t.Models }
func (t *Tenant) UnitsOfMeasure() []string { return t.UOMs }
