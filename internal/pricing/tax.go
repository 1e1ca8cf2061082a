// Package pricing converts export rows into normalized ESL item records.
package pricing

import (
	"strings"

	"github.com/shopspring/decimal"
)

var (
	rateNine = decimal.NewFromFloat(0.09)
	rateSix  = decimal.NewFromFloat(0.06)
)

// TaxTable maps product classes to tax rates: a fixed set of classes is
// taxed at 9%, everything else at 6%.
type TaxTable struct {
	ninePercent map[string]struct{}
}

// NewTaxTable builds a table from the 9% class labels. Matching is
// case-insensitive and ignores surrounding whitespace.
func NewTaxTable(ninePercentClasses []string) *TaxTable {
	set := make(map[string]struct{}, len(ninePercentClasses))
	for _, class := range ninePercentClasses {
		set[strings.ToUpper(strings.TrimSpace(class))] = struct{}{}
	}
	return &TaxTable{ninePercent: set}
}

// Rate returns the tax rate for a product class.
func (t *TaxTable) Rate(class string) decimal.Decimal {
	if _, ok := t.ninePercent[strings.ToUpper(strings.TrimSpace(class))]; ok {
		return rateNine
	}
	return rateSix
}
