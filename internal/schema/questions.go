package schema

import (
	"fmt"
	"strings"
)

// Question is the clarifying prompt surfaced for an outstanding field:
// what to ask the user, example answers, and a recommendation.
type Question struct {
	Field          string
	Prompt         string
	Examples       []string
	Recommendation string
}

// QuestionFor builds the clarifying question for a field of a kind.
// Grounded in the phrasing the conversational layer has always used; the
// fallback turns the raw field name into readable prose.
func QuestionFor(kind string, field string) Question {
	q := Question{Field: field, Recommendation: recommendationFor(field)}
	switch foldName(field) {
	case "chargemodel":
		q.Prompt = "What pricing model would you like?"
		q.Examples = []string{"flat fee", "per unit", "tiered"}
	case "billingperiod":
		q.Prompt = "What billing period would you like?"
		q.Examples = []string{"monthly", "quarterly", "annual"}
	case "billcycletype":
		q.Prompt = "What bill cycle type would you like?"
		q.Examples = []string{"customer's billing day", "specific day of month", "subscription start day"}
	case "productrateplanchargetierdata":
		q.Prompt = "What is the price?"
		q.Examples = []string{"49.99", "99.00", "199.00"}
	case "productrateplanid":
		q.Prompt = "Which rate plan should this charge belong to?"
	case "productid":
		q.Prompt = "Which product should this rate plan belong to?"
	case "uom":
		q.Prompt = "What unit of measure?"
		q.Examples = []string{"API calls", "GB", "users"}
	case "name":
		q.Prompt = fmt.Sprintf("What should this %s be named?", strings.ToLower(FriendlyKind(kind)))
	case "chargetype":
		q.Prompt = "What type of charge?"
		q.Examples = []string{"recurring", "one-time", "usage"}
	case "triggerevent":
		q.Prompt = "When should billing start?"
		q.Examples = []string{"contract start", "service activation", "customer acceptance"}
	case "effectivestartdate":
		q.Prompt = "What start date? (format: YYYY-MM-DD)"
	case "effectiveenddate":
		q.Prompt = "What end date? (format: YYYY-MM-DD)"
	case "sku":
		q.Prompt = "What SKU (product code)?"
	case "currency":
		q.Prompt = "What currency?"
		q.Examples = []string{"USD", "EUR", "GBP"}
	default:
		readable := strings.ReplaceAll(strings.TrimSuffix(field, "__c"), "_", " ")
		q.Prompt = fmt.Sprintf("What %s?", readable)
	}
	return q
}

// recommendationFor suggests a sensible answer for common fields.
func recommendationFor(field string) string {
	switch foldName(field) {
	case "billingperiod":
		return "Use 'Month' for standard monthly billing, 'Annual' for yearly subscriptions"
	case "chargemodel":
		return "Use 'Flat Fee Pricing' for simple fixed-price charges, 'Per Unit Pricing' for quantity-based"
	case "chargetype":
		return "Use 'Recurring' for ongoing charges, 'OneTime' for setup fees, 'Usage' for metered billing"
	case "billcycletype":
		return "Use 'DefaultFromCustomer' to align with the customer's existing billing day"
	case "triggerevent":
		return "Use 'ContractEffective' for immediate billing when the contract starts"
	case "uom":
		return "Specify the unit of measure (e.g., 'API_CALL', 'GB', 'User', 'SMS')"
	case "name":
		return "Provide a descriptive name that clearly identifies this item"
	case "productrateplanid":
		return "Use an object reference like '@{ProductRatePlan[0].Id}' to link to a rate plan in this batch"
	case "productid":
		return "Use an object reference like '@{Product[0].Id}' to link to a product in this batch"
	case "productrateplanchargetierdata":
		return "Specify pricing with a 'Price' field for flat/per-unit, or 'Tiers' for tiered pricing"
	case "effectivestartdate":
		return "Use today's date in YYYY-MM-DD format"
	case "effectiveenddate":
		return "Use a far-future date in YYYY-MM-DD format (10-year validity is typical)"
	case "sku":
		return "Use a unique alphanumeric identifier (e.g., 'PROD-001', 'ANALYTICS-PRO')"
	case "currency":
		return "Use a standard currency code like 'USD', 'EUR', 'GBP'"
	}
	return fmt.Sprintf("Provide a value for %s", field)
}
