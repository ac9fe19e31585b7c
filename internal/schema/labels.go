package schema

import "strings"

// friendlyLabels maps technical billing API enum values to the phrasing
// surfaced to users in clarifying questions and schema descriptions.
var friendlyLabels = map[string]string{
	// Billing periods
	"Month":       "monthly",
	"Quarter":     "quarterly",
	"Annual":      "yearly",
	"Semi-Annual": "every 6 months",
	"Week":        "weekly",
	"Specific Months": "custom months",
	"Specific Weeks":  "custom weeks",
	"Specific Days":   "custom days",
	// Bill cycle types
	"DefaultFromCustomer":  "customer's billing day",
	"SpecificDayofMonth":   "specific day of month",
	"SubscriptionStartDay": "subscription start day",
	"ChargeTriggerDay":     "charge trigger day",
	// Charge types
	"OneTime":   "one-time",
	"Recurring": "recurring",
	"Usage":     "usage-based",
	// Trigger events
	"ContractEffective":  "contract start",
	"ServiceActivation":  "service activation",
	"CustomerAcceptance": "customer acceptance",
	// Charge models
	"Flat Fee Pricing":            "flat fee",
	"Per Unit Pricing":            "per unit",
	"Tiered Pricing":              "tiered",
	"Volume Pricing":              "volume-based",
	"Overage Pricing":             "overage",
	"Tiered with Overage Pricing": "tiered with overage",
	"Discount-Fixed Amount":       "fixed discount",
	"Discount-Percentage":         "percentage discount",
}

// FriendlyLabel converts a technical enum value to its human phrasing,
// falling back to the value itself.
func FriendlyLabel(value string) string {
	if label, ok := friendlyLabels[value]; ok {
		return label
	}
	return value
}

// FriendlyOptions renders a capped list of options in human phrasing.
func FriendlyOptions(options []string, maxShow int) string {
	if maxShow <= 0 || maxShow > len(options) {
		maxShow = len(options)
	}
	labels := make([]string, 0, maxShow)
	for _, opt := range options[:maxShow] {
		labels = append(labels, FriendlyLabel(opt))
	}
	out := strings.Join(labels, ", ")
	if len(options) > maxShow {
		out += ", etc."
	}
	return out
}

// FriendlyKind renders an entity kind tag for prose, e.g.
// "product_rate_plan" -> "Product Rate Plan".
func FriendlyKind(tag string) string {
	s := strings.TrimSuffix(strings.TrimSuffix(tag, "_create"), "_update")
	words := strings.Split(strings.ReplaceAll(s, "_", " "), " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
