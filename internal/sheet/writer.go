package sheet

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/boolchand/esl-sync/internal/esl"
)

var workbookHeader = []string{
	"IIS_COMMAND", "sku", "itemShortName", "itemName", "manufacturer",
	"price1", "price2", "price3", "inventory",
}

// WriteWorkbook writes the mapped item set to an xlsx file at path,
// overwriting any previous file. Text cells are cleaned once more on the way
// out so the workbook can never carry illegal characters.
func WriteWorkbook(path string, items []esl.Item) error {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := f.GetSheetName(0)
	for col, label := range workbookHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("header cell: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, label); err != nil {
			return fmt.Errorf("set header cell: %w", err)
		}
	}

	for i, item := range items {
		values := []interface{}{
			CleanCellString(item.Command),
			CleanCellString(item.SKU),
			CleanCellString(item.ShortName),
			CleanCellString(item.Name),
			CleanCellString(item.Manufacturer),
			item.Price1,
			item.Price2,
			item.Price3,
			item.Inventory,
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return fmt.Errorf("cell name: %w", err)
			}
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				return fmt.Errorf("set cell: %w", err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}
