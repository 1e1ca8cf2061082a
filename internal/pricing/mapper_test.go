package pricing

import (
	"errors"
	"testing"

	"github.com/boolchand/esl-sync/internal/sheet"
)

var testClasses = []string{"APPLE IPHONES", "OTHER PHONES", "SAMSUNG PHONES", "GAMING TITLES"}

func testRow(t *testing.T, cells map[string]string) sheet.Row {
	t.Helper()
	labels := []string{
		"Product ID", "Product Code", "Description", "Brand Name",
		"Current Retail", "Product Class", "MSRP", "QtyOnHand",
	}
	values := make([]string, len(labels))
	base := map[string]string{
		"Product ID":     "123",
		"Product Code":   "ABC",
		"Description":    "Widget",
		"Brand Name":     "Acme",
		"Current Retail": "10.00",
	}
	for k, v := range cells {
		base[k] = v
	}
	for i, label := range labels {
		values[i] = base[label]
	}
	return sheet.NewRow(labels, values, 3)
}

func TestMapRowExample(t *testing.T) {
	// The worked example: 10.00 at 9% = 10.9 -> 11, 11/1.8 -> 6, MSRP 12 > 11.
	row := testRow(t, map[string]string{
		"Product Class": "Gaming Titles",
		"MSRP":          "12",
		"QtyOnHand":     "5",
	})

	mapper := NewMapper(NewTaxTable(testClasses))
	item, err := mapper.MapRow(row)
	if err != nil {
		t.Fatalf("MapRow() error = %v", err)
	}

	if item.Command != "UPDATE" {
		t.Errorf("Command = %q, want UPDATE", item.Command)
	}
	if item.SKU != "123" || item.ShortName != "ABC" || item.Name != "Widget" || item.Manufacturer != "Acme" {
		t.Errorf("text fields = %q %q %q %q", item.SKU, item.ShortName, item.Name, item.Manufacturer)
	}
	if item.Price1 != 11 {
		t.Errorf("Price1 = %d, want 11", item.Price1)
	}
	if item.Price2 != 6 {
		t.Errorf("Price2 = %d, want 6", item.Price2)
	}
	if item.Price3 != 12 {
		t.Errorf("Price3 = %d, want 12", item.Price3)
	}
	if item.Inventory != 5 {
		t.Errorf("Inventory = %d, want 5", item.Inventory)
	}
}

func TestMapRowTaxRates(t *testing.T) {
	tests := []struct {
		name       string
		class      string
		wantPrice1 int64
	}{
		{"nine percent class", "GAMING TITLES", 11},             // 10.9 -> 11
		{"nine percent lowercase padded", "  apple iphones  ", 11},
		{"six percent default", "ACCESSORIES", 11},              // 10.6 -> 11
		{"six percent empty class", "", 11},
	}

	mapper := NewMapper(NewTaxTable(testClasses))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := testRow(t, map[string]string{"Product Class": tt.class})
			item, err := mapper.MapRow(row)
			if err != nil {
				t.Fatalf("MapRow() error = %v", err)
			}
			if item.Price1 != tt.wantPrice1 {
				t.Errorf("Price1 = %d, want %d", item.Price1, tt.wantPrice1)
			}
		})
	}
}

// Rounding uses the banker's tie-break: exact halves go to the even neighbor.
func TestMapRowBankersTieBreak(t *testing.T) {
	tests := []struct {
		retail     string
		wantPrice1 int64
	}{
		{"25.00", 26}, // 25 * 1.06 = 26.5 -> 26 (even)
		{"75.00", 80}, // 75 * 1.06 = 79.5 -> 80 (even)
	}

	mapper := NewMapper(NewTaxTable(testClasses))
	for _, tt := range tests {
		row := testRow(t, map[string]string{"Current Retail": tt.retail, "Product Class": ""})
		item, err := mapper.MapRow(row)
		if err != nil {
			t.Fatalf("MapRow(retail=%s) error = %v", tt.retail, err)
		}
		if item.Price1 != tt.wantPrice1 {
			t.Errorf("retail %s: Price1 = %d, want %d", tt.retail, item.Price1, tt.wantPrice1)
		}
	}
}

func TestMapRowRequiredFields(t *testing.T) {
	tests := []struct {
		name  string
		blank string
	}{
		{"missing sku", "Product ID"},
		{"missing product code", "Product Code"},
		{"missing description", "Description"},
		{"missing brand", "Brand Name"},
		{"missing retail", "Current Retail"},
		{"whitespace only sku", "Product ID"},
	}

	mapper := NewMapper(NewTaxTable(testClasses))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := testRow(t, map[string]string{tt.blank: "   "})
			_, err := mapper.MapRow(row)
			var rowErr *RowError
			if !errors.As(err, &rowErr) {
				t.Fatalf("MapRow() error = %v, want *RowError", err)
			}
			if rowErr.Field != tt.blank {
				t.Errorf("RowError.Field = %q, want %q", rowErr.Field, tt.blank)
			}
		})
	}
}

func TestMapRowBadRetail(t *testing.T) {
	mapper := NewMapper(NewTaxTable(testClasses))

	for _, retail := range []string{"abc", "10,50"} {
		row := testRow(t, map[string]string{"Current Retail": retail})
		if _, err := mapper.MapRow(row); err == nil {
			t.Errorf("MapRow(retail=%q) expected error", retail)
		}
	}

	row := testRow(t, map[string]string{"Current Retail": "-5.00"})
	if _, err := mapper.MapRow(row); err == nil {
		t.Error("MapRow() expected error for negative retail")
	}
}

func TestQualifyMSRP(t *testing.T) {
	tests := []struct {
		name   string
		msrp   string
		price1 int64
		want   int64
	}{
		{"blank", "", 11, 0},
		{"non-numeric", "abc", 11, 0},
		{"fractional", "11.5", 11, 0},
		{"integer above price1", "12", 11, 12},
		{"integer with decimal zero", "12.0", 11, 12},
		{"equal to price1", "11", 11, 0},
		{"below price1", "10", 11, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := QualifyMSRP(tt.msrp, tt.price1); got != tt.want {
				t.Errorf("QualifyMSRP(%q, %d) = %d, want %d", tt.msrp, tt.price1, got, tt.want)
			}
		})
	}
}

func TestResolveStock(t *testing.T) {
	mapper := NewMapper(NewTaxTable(testClasses))

	tests := []struct {
		name   string
		labels []string
		cells  []string
		want   int64
	}{
		{
			name:   "spaced label matches",
			labels: []string{"Product ID", "Product Code", "Description", "Brand Name", "Current Retail", "Qty On Hand"},
			cells:  []string{"1", "A", "W", "B", "10", "7"},
			want:   7,
		},
		{
			name:   "uppercase stock matches",
			labels: []string{"Product ID", "Product Code", "Description", "Brand Name", "Current Retail", "STOCK"},
			cells:  []string{"1", "A", "W", "B", "10", "4"},
			want:   4,
		},
		{
			name:   "first synonym in column order wins",
			labels: []string{"Product ID", "Product Code", "Description", "Brand Name", "Current Retail", "QtyOnHand", "Stock"},
			cells:  []string{"1", "A", "W", "B", "10", "5", "9"},
			want:   5,
		},
		{
			name:   "blank first match stays zero",
			labels: []string{"Product ID", "Product Code", "Description", "Brand Name", "Current Retail", "OnHand", "Stock"},
			cells:  []string{"1", "A", "W", "B", "10", "", "9"},
			want:   0,
		},
		{
			name:   "no stock column",
			labels: []string{"Product ID", "Product Code", "Description", "Brand Name", "Current Retail"},
			cells:  []string{"1", "A", "W", "B", "10"},
			want:   0,
		},
		{
			name:   "fractional count truncated",
			labels: []string{"Product ID", "Product Code", "Description", "Brand Name", "Current Retail", "Stock"},
			cells:  []string{"1", "A", "W", "B", "10", "5.7"},
			want:   5,
		},
		{
			name:   "negative count clamped",
			labels: []string{"Product ID", "Product Code", "Description", "Brand Name", "Current Retail", "Stock"},
			cells:  []string{"1", "A", "W", "B", "10", "-3"},
			want:   0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := sheet.NewRow(tt.labels, tt.cells, 3)
			item, err := mapper.MapRow(row)
			if err != nil {
				t.Fatalf("MapRow() error = %v", err)
			}
			if item.Inventory != tt.want {
				t.Errorf("Inventory = %d, want %d", item.Inventory, tt.want)
			}
		})
	}
}

func TestMapRowNonNumericStockFailsRow(t *testing.T) {
	mapper := NewMapper(NewTaxTable(testClasses))
	row := testRow(t, map[string]string{"QtyOnHand": "many"})
	if _, err := mapper.MapRow(row); err == nil {
		t.Error("MapRow() expected error for non-numeric stock cell")
	}
}

func TestMapRowSanitizesTextFields(t *testing.T) {
	mapper := NewMapper(NewTaxTable(testClasses))
	row := testRow(t, map[string]string{
		"Description": "Wid\x00get",
		"Brand Name":  "Ac\x1fme",
	})

	item, err := mapper.MapRow(row)
	if err != nil {
		t.Fatalf("MapRow() error = %v", err)
	}
	if item.Name != "Widget" {
		t.Errorf("Name = %q, want Widget", item.Name)
	}
	if item.Manufacturer != "Acme" {
		t.Errorf("Manufacturer = %q, want Acme", item.Manufacturer)
	}
}
