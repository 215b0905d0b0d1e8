package typemap

import "github.com/pennywise-dev/pennywise/internal/model"

// DefaultRules returns the built-in type rules. Rules keyed on Primary come
// first, grouped lifestyle, fun, travel, transfers, income, retail. The
// Secondary overrides follow them so that, for example, "Shopping: Groceries"
// ends up Lifestyle rather than Retail.
func DefaultRules() []Rule {
	return []Rule{
		// lifestyle
		{Primary, "Automotive", model.TypeLifestyle},
		{Primary, "Fuel", model.TypeLifestyle},
		{Primary, "Charity", model.TypeLifestyle},
		{Primary, "Tax", model.TypeLifestyle},
		{Primary, "Health", model.TypeLifestyle},
		{Primary, "Mortgage", model.TypeLifestyle},
		{Primary, "Insurance", model.TypeLifestyle},
		{Primary, "Utilities", model.TypeLifestyle},
		{Primary, "Contractor", model.TypeLifestyle},
		{Primary, "Service", model.TypeLifestyle},

		// fun
		{Primary, "Restaurant", model.TypeFun},
		{Primary, "Kiosk", model.TypeFun},
		{Primary, "Entertainment", model.TypeFun},

		{Primary, "Travel", model.TypeTravel},
		{Primary, "Transfers", model.TypeTransfers},
		{Primary, "Income", model.TypeIncome},
		{Primary, "Shopping", model.TypeRetail},

		// overrides
		{Secondary, "Utility", model.TypeLifestyle}, // Subscription: Utility
		{Secondary, "Health", model.TypeLifestyle},  // Subscription: Health
		{Secondary, "Groceries", model.TypeLifestyle},
		{Secondary, "Home", model.TypeLifestyle},
		{Secondary, "Video", model.TypeFun},
	}
}
