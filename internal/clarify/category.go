// Package clarify drives the multi-turn clarification dialog that runs when
// retrieval confidence is too low to answer a query directly.
package clarify

import "strings"

// Category is a coarse topical label used only to pick which clarifying
// question to ask. It is a closed set.
type Category string

const (
	CategoryPrinter  Category = "printer"
	CategoryPayment  Category = "payment"
	CategoryEmployee Category = "employee"
	CategoryOrder    Category = "order"
	CategoryMenu     Category = "menu"
	CategoryCash     Category = "cash"
	CategoryUnknown  Category = "unknown"
)

// categoryTriggers maps each category to its trigger substrings. The slice
// order is the match order: the first category with a matching term wins, so
// classification is deterministic regardless of map iteration order.
var categoryTriggers = []struct {
	category Category
	terms    []string
}{
	{CategoryPrinter, []string{"print", "receipt"}},
	{CategoryPayment, []string{"card", "tender", "charge", "payment", "batch", "settle", "declin", "refund"}},
	{CategoryEmployee, []string{"employee", "cashier", "clock", "pin", "permission"}},
	{CategoryOrder, []string{"order", "void", "ticket", "tax"}},
	{CategoryMenu, []string{"menu", "item", "modifier", "price"}},
	{CategoryCash, []string{"drawer", "cash", "drop", "reconcile"}},
}

// Detect maps a raw query string to a Category by case-insensitive substring
// matching. No match returns CategoryUnknown. This is intentionally a coarse
// heuristic, not a learned classifier.
func Detect(query string) Category {
	lower := strings.ToLower(query)
	for _, ct := range categoryTriggers {
		for _, term := range ct.terms {
			if strings.Contains(lower, term) {
				return ct.category
			}
		}
	}
	return CategoryUnknown
}
