// Package export writes a computed position plan to downloadable report
// formats.
package export

import (
	"fmt"
	"io"
	"sort"

	"github.com/xuri/excelize/v2"

	"github.com/warekit/position-calculator/internal/calculator"
)

const (
	summarySheet     = "Summary"
	countsSheet      = "Position Counts"
	assignmentsSheet = "Assignments"
	palletsSheet     = "Pallets"
	exceptionsSheet  = "Exceptions"
)

// WriteXLSX generates a workbook with summary, per-position counts,
// assignment detail, pallet detail, and exception sheets.
func WriteXLSX(w io.Writer, plan calculator.PlanResult, params calculator.Params) error {
	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return fmt.Errorf("rename summary sheet: %w", err)
	}
	for _, sheet := range []string{countsSheet, assignmentsSheet, palletsSheet, exceptionsSheet} {
		if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("create sheet %s: %w", sheet, err)
		}
	}

	writeRow(f, summarySheet, 1, "Pallet Length", params.PalletLength)
	writeRow(f, summarySheet, 2, "Pallet Width", params.PalletWidth)
	writeRow(f, summarySheet, 3, "Clearance", params.Clearance)
	writeRow(f, summarySheet, 4, "Total Pallets", plan.TotalPallets)
	writeRow(f, summarySheet, 5, "Total Boxes", plan.TotalBoxes)
	writeRow(f, summarySheet, 6, "Unassigned Pallets", len(plan.UnassignedPallets))
	writeRow(f, summarySheet, 7, "Unassignable SKUs", len(plan.UnassignableSKUs))

	writeRow(f, countsSheet, 1, "Position", "Pallets")
	for i, key := range sortedCountKeys(plan.PositionCounts) {
		writeRow(f, countsSheet, i+2, key, plan.PositionCounts[key])
	}

	writeRow(f, assignmentsSheet, 1, "Pallet", "SKU", "Position")
	for i, assignment := range plan.Assignments {
		writeRow(f, assignmentsSheet, i+2, assignment.ID, assignment.SKU, assignment.Position)
	}

	writeRow(f, palletsSheet, 1, "Pallet", "SKU", "Length", "Width", "Height", "Weight", "Boxes")
	for i, pallet := range plan.Pallets {
		writeRow(f, palletsSheet, i+2,
			pallet.ID, pallet.SKU, pallet.Length, pallet.Width, pallet.Height, pallet.Weight, pallet.Boxes)
	}

	writeRow(f, exceptionsSheet, 1, "Type", "Identity")
	row := 2
	for _, sku := range plan.UnassignableSKUs {
		writeRow(f, exceptionsSheet, row, "unassignable", sku)
		row++
	}
	for _, id := range plan.UnassignedPallets {
		writeRow(f, exceptionsSheet, row, "unassigned", id)
		row++
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values ...any) {
	for col, value := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			continue
		}
		_ = f.SetCellValue(sheet, cell, value)
	}
}

// sortedCountKeys returns the position keys in lexical order so repeated
// exports of the same plan are byte-comparable.
func sortedCountKeys(counts map[string]int) []string {
	keys := make([]string, 0, len(counts))
	for key := range counts {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
