// Package inference maps a partial charge specification to a pricing model.
//
// The rules run in strict priority order and the first match wins; when no
// rule matches unambiguously the result is "no model" and the caller records
// a placeholder. A wrong inferred charge model silently corrupts billing
// downstream, so the policy always prefers an explicit missing-value
// placeholder over a plausible-but-wrong guess.
package inference

import "fmt"

// Charge model names as the billing API spells them.
const (
	ModelTiered  = "Tiered Pricing"
	ModelPerUnit = "Per Unit Pricing"
	ModelFlatFee = "Flat Fee Pricing"
	ModelOverage = "Overage Pricing"
)

// Rule identifies which inference rule fired. Exactly one rule is reported
// per inference.
type Rule string

const (
	// RuleTiered fires when two or more pricing tiers are supplied.
	RuleTiered Rule = "tiered"
	// RulePerUnit fires for usage charges with a unit of measure and no tiers.
	RulePerUnit Rule = "per-unit"
	// RuleFlatFee fires for a lone flat price with no tiers and no UOM.
	RuleFlatFee Rule = "flat-fee"
	// RuleOverage fires when included units and an overage price are both set.
	RuleOverage Rule = "overage"
	// RuleAmbiguous means no rule matched; the model stays unknown.
	RuleAmbiguous Rule = "ambiguous"
)

// Signals are the pricing facts extracted from a partial charge.
type Signals struct {
	// ChargeType is the supplied charge type ("OneTime", "Recurring",
	// "Usage"), or empty when not given.
	ChargeType string

	// TierCount is the number of pricing tiers supplied.
	TierCount int

	// HasUOM is true when a unit of measure is supplied.
	HasUOM bool

	// HasFlatPrice is true when a single flat price is supplied.
	HasFlatPrice bool

	// HasIncludedUnits is true when an included-units quantity is supplied.
	HasIncludedUnits bool

	// HasOveragePrice is true when an overage price is supplied.
	HasOveragePrice bool
}

// Result reports the inferred model (empty when ambiguous), the rule that
// fired, and a short human-readable justification for surfacing to the
// caller.
type Result struct {
	Model         string
	Rule          Rule
	Justification string
}

// Known reports whether a model was inferred.
func (r Result) Known() bool { return r.Model != "" }

// Infer evaluates the rules in priority order against the signals.
// Deterministic: identical signals always produce identical results.
func Infer(sig Signals) Result {
	// Rule 1: two or more tiers is an unambiguous tiered model.
	if sig.TierCount >= 2 {
		return Result{
			Model:         ModelTiered,
			Rule:          RuleTiered,
			Justification: fmt.Sprintf("%d pricing tiers supplied", sig.TierCount),
		}
	}

	// Rule 2: a usage charge with a unit of measure rates per unit.
	if sig.ChargeType == "Usage" && sig.HasUOM && sig.TierCount == 0 {
		return Result{
			Model:         ModelPerUnit,
			Rule:          RulePerUnit,
			Justification: "usage-based charge with a unit of measure and no tiers",
		}
	}

	// Rule 3: a lone flat price. A Usage charge type conflicts with this
	// signal (usage pricing needs a unit of measure), so it stays ambiguous
	// rather than being guessed.
	if sig.HasFlatPrice && sig.TierCount == 0 && !sig.HasUOM && sig.ChargeType != "Usage" {
		return Result{
			Model:         ModelFlatFee,
			Rule:          RuleFlatFee,
			Justification: "flat price supplied with no tiers and no unit of measure",
		}
	}

	// Rule 4: included units plus an overage price.
	if sig.HasIncludedUnits && sig.HasOveragePrice {
		return Result{
			Model:         ModelOverage,
			Rule:          RuleOverage,
			Justification: "included units and an overage price both supplied",
		}
	}

	return Result{Rule: RuleAmbiguous, Justification: ambiguityReason(sig)}
}

// ambiguityReason explains why no rule fired, naming the conflicting signal
// where there is one.
func ambiguityReason(sig Signals) string {
	if sig.ChargeType == "Usage" && sig.HasFlatPrice && !sig.HasUOM {
		return "charge type Usage expects a unit of measure, but only a flat price was supplied"
	}
	if sig.ChargeType == "Usage" && !sig.HasUOM {
		return "charge type Usage expects a unit of measure"
	}
	return "no unambiguous pricing signal supplied"
}
