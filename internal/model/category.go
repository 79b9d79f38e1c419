package model

import "time"

// BillCategory is a classification taxonomy entry for bills. The name is
// also used for fuzzy matching against ledger transaction categories.
type BillCategory struct {
	CreatedAt   time.Time
	ID          string
	Name        string
	Icon        string
	Color       string
	Description string
}

// DefaultBillCategories returns the fixed category set seeded on first run.
// The ids and names are stable so existing fixtures keep resolving.
func DefaultBillCategories() []BillCategory {
	return []BillCategory{
		{ID: "housing", Name: "Housing", Icon: "home", Color: "#FF6B6B"},
		{ID: "utilities", Name: "Utilities", Icon: "zap", Color: "#FFE66D"},
		{ID: "transportation", Name: "Transportation", Icon: "car", Color: "#4ECDC4"},
		{ID: "insurance", Name: "Insurance", Icon: "shield", Color: "#95E1D3"},
		{ID: "subscriptions", Name: "Subscriptions", Icon: "repeat", Color: "#A78BFA"},
		{ID: "healthcare", Name: "Healthcare", Icon: "heart", Color: "#F472B6"},
		{ID: "credit-cards", Name: "Credit Cards", Icon: "credit-card", Color: "#FB923C"},
		{ID: "loans", Name: "Loans", Icon: "bank", Color: "#60A5FA"},
		{ID: "phone", Name: "Phone", Icon: "phone", Color: "#34D399"},
		{ID: "other", Name: "Other", Icon: "dots", Color: "#666666"},
	}
}
