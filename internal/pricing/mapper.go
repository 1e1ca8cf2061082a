package pricing

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/boolchand/esl-sync/internal/esl"
	"github.com/boolchand/esl-sync/internal/sheet"
)

// Column labels of the retailer export.
const (
	colSKU          = "Product ID"
	colShortName    = "Product Code"
	colName         = "Description"
	colManufacturer = "Brand Name"
	colRetail       = "Current Retail"
	colProductClass = "Product Class"
	colMSRP         = "MSRP"
)

// Accepted stock column labels after normalization (trim, lower, despace).
var stockSynonyms = map[string]struct{}{
	"qtyonhand":      {},
	"quantityonhand": {},
	"onhand":         {},
	"stock":          {},
}

var (
	one     = decimal.NewFromInt(1)
	ratioP2 = decimal.NewFromFloat(1.8)
)

// RowError describes why a single row could not be mapped. Rows failing with
// a RowError are skipped; the rest of the sheet is unaffected.
type RowError struct {
	Field  string
	Reason string
}

func (e *RowError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Mapper converts export rows into item records under a fixed tax table.
type Mapper struct {
	taxes *TaxTable
}

// NewMapper creates a mapper for the given tax table.
func NewMapper(taxes *TaxTable) *Mapper {
	return &Mapper{taxes: taxes}
}

// MapRow converts one row into an item record.
//
// price1 is the tax-inclusive retail price, price2 = price1/1.8, price3 the
// qualifying MSRP or 0. All rounding is to the nearest whole unit with the
// banker's tie-break (ties go to the even neighbor), matching the upstream
// system. Text fields are trimmed and cleaned of illegal cell characters.
func (m *Mapper) MapRow(row sheet.Row) (esl.Item, error) {
	sku, err := requiredText(row, colSKU)
	if err != nil {
		return esl.Item{}, err
	}
	shortName, err := requiredText(row, colShortName)
	if err != nil {
		return esl.Item{}, err
	}
	name, err := requiredText(row, colName)
	if err != nil {
		return esl.Item{}, err
	}
	manufacturer, err := requiredText(row, colManufacturer)
	if err != nil {
		return esl.Item{}, err
	}

	retailRaw, err := requiredText(row, colRetail)
	if err != nil {
		return esl.Item{}, err
	}
	retail, err := decimal.NewFromString(retailRaw)
	if err != nil {
		return esl.Item{}, &RowError{Field: colRetail, Reason: "not a number"}
	}
	if retail.IsNegative() {
		return esl.Item{}, &RowError{Field: colRetail, Reason: "negative value"}
	}

	rate := m.taxes.Rate(row.Get(colProductClass))
	price1 := retail.Mul(one.Add(rate)).RoundBank(0).IntPart()
	price2 := decimal.NewFromInt(price1).Div(ratioP2).RoundBank(0).IntPart()
	price3 := QualifyMSRP(row.Get(colMSRP), price1)

	inventory, err := resolveStock(row)
	if err != nil {
		return esl.Item{}, err
	}

	return esl.Item{
		Command:      esl.CommandUpdate,
		SKU:          sheet.CleanCellString(sku),
		ShortName:    sheet.CleanCellString(shortName),
		Name:         sheet.CleanCellString(name),
		Manufacturer: sheet.CleanCellString(manufacturer),
		Price1:       price1,
		Price2:       price2,
		Price3:       price3,
		Inventory:    inventory,
	}, nil
}

// QualifyMSRP derives price3 from a raw MSRP cell. The MSRP qualifies only
// when it parses as a whole number strictly greater than price1; in every
// other case (blank, unparseable, fractional, too low) price3 is 0, meaning
// "not applicable".
func QualifyMSRP(raw string, price1 int64) int64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	m, err := decimal.NewFromString(raw)
	if err != nil {
		return 0
	}
	if !m.IsInteger() {
		return 0
	}
	if v := m.IntPart(); v > price1 {
		return v
	}
	return 0
}

// resolveStock scans the columns in source order for the first stock synonym
// and truncates its value to a whole count. A missing column or blank cell
// means 0; a non-numeric cell fails the row; negative counts clamp to 0.
func resolveStock(row sheet.Row) (int64, error) {
	for i, label := range row.Columns() {
		norm := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(label)), " ", "")
		if _, ok := stockSynonyms[norm]; !ok {
			continue
		}
		value := strings.TrimSpace(row.Cell(i))
		if value == "" {
			return 0, nil
		}
		d, err := decimal.NewFromString(value)
		if err != nil {
			return 0, &RowError{Field: label, Reason: "not a number"}
		}
		n := d.Truncate(0).IntPart()
		if n < 0 {
			return 0, nil
		}
		return n, nil
	}
	return 0, nil
}

func requiredText(row sheet.Row, label string) (string, error) {
	value, ok := row.Lookup(label)
	if !ok {
		return "", &RowError{Field: label, Reason: "column missing"}
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return "", &RowError{Field: label, Reason: "missing required value"}
	}
	return value, nil
}
