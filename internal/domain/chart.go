package domain

import "strings"

// ChartCategory is the general-ledger bucket a chart account belongs to.
type ChartCategory string

const (
	CategoryAsset     ChartCategory = "asset"
	CategoryLiability ChartCategory = "liability"
	CategoryEquity    ChartCategory = "equity"
	CategoryIncome    ChartCategory = "income"
	CategoryExpense   ChartCategory = "expense"
	CategoryMemoranda ChartCategory = "memoranda"
)

// ParseChartCategory parses a category name.
func ParseChartCategory(s string) (ChartCategory, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "asset":
		return CategoryAsset, nil
	case "liability":
		return CategoryLiability, nil
	case "equity":
		return CategoryEquity, nil
	case "income":
		return CategoryIncome, nil
	case "expense":
		return CategoryExpense, nil
	case "memoranda":
		return CategoryMemoranda, nil
	default:
		return "", ErrInvalidChartCategory
	}
}

// ChartOfAccount is immutable reference data: a bucket in the general ledger.
// Looked up by the posting path, never mutated by it.
type ChartOfAccount struct {
	ID       string
	Code     string
	Name     string
	Category ChartCategory
	Currency string
}
