package catalog

import "strings"

// EntityKind tags a pending payload with the billing API object it targets.
// The string value is the wire tag used in serialized payload lists.
type EntityKind string

const (
	// Product is a product creation payload.
	Product EntityKind = "product"
	// RatePlan is a product rate plan creation payload.
	RatePlan EntityKind = "product_rate_plan"
	// Charge is a product rate plan charge creation payload.
	Charge EntityKind = "product_rate_plan_charge"
	// ProductUpdate targets an existing product.
	ProductUpdate EntityKind = "product_update"
	// RatePlanUpdate targets an existing rate plan.
	RatePlanUpdate EntityKind = "rate_plan_update"
	// ChargeUpdate targets an existing charge.
	ChargeUpdate EntityKind = "charge_update"
)

// Kinds lists every valid entity kind in a fixed order.
var Kinds = []EntityKind{
	Product, RatePlan, Charge,
	ProductUpdate, RatePlanUpdate, ChargeUpdate,
}

// Valid reports whether k is a known entity kind.
func (k EntityKind) Valid() bool {
	switch k {
	case Product, RatePlan, Charge, ProductUpdate, RatePlanUpdate, ChargeUpdate:
		return true
	}
	return false
}

// IsUpdate reports whether k targets an existing remote entity rather than
// creating a new one.
func (k EntityKind) IsUpdate() bool {
	switch k {
	case ProductUpdate, RatePlanUpdate, ChargeUpdate:
		return true
	}
	return false
}

// RefName returns the entity name used inside forward-reference tokens,
// e.g. "ProductRatePlan" for rate plans. Update variants share the name of
// their creation counterpart.
func (k EntityKind) RefName() string {
	switch k {
	case Product, ProductUpdate:
		return "Product"
	case RatePlan, RatePlanUpdate:
		return "ProductRatePlan"
	case Charge, ChargeUpdate:
		return "ProductRatePlanCharge"
	}
	return ""
}

// Parent returns the kind a forward reference from k may legally point to,
// along with the field name that carries the reference. A charge references
// a rate plan via ProductRatePlanId; a rate plan references a product via
// ProductId. Products have no parent.
func (k EntityKind) Parent() (EntityKind, string, bool) {
	switch k {
	case RatePlan, RatePlanUpdate:
		return Product, "ProductId", true
	case Charge, ChargeUpdate:
		return RatePlan, "ProductRatePlanId", true
	}
	return "", "", false
}

// ParseKind resolves a wire tag (case-insensitively) to an EntityKind.
func ParseKind(s string) (EntityKind, bool) {
	k := EntityKind(strings.ToLower(strings.TrimSpace(s)))
	if k.Valid() {
		return k, true
	}
	return "", false
}

// KindForRefName resolves a forward-reference entity name ("Product",
// "ProductRatePlan", "ProductRatePlanCharge") to its creation kind.
func KindForRefName(name string) (EntityKind, bool) {
	switch name {
	case "Product":
		return Product, true
	case "ProductRatePlan":
		return RatePlan, true
	case "ProductRatePlanCharge":
		return Charge, true
	}
	return "", false
}
