package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/warekit/position-calculator/internal/calculator"
)

// Page layout constants (A4 portrait in mm).
const (
	marginLeft  = 15.0
	marginTop   = 15.0
	lineHeight  = 6.0
	labelWidth  = 90.0
	valueWidth  = 40.0
	titleHeight = 10.0
)

// WritePDF generates a one-or-more page summary report of the plan:
// parameters, per-position counts, and the exception lists.
func WritePDF(w io.Writer, plan calculator.PlanResult, params calculator.Params) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, marginTop)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(0, titleHeight, "Pallet Position Plan", "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetX(marginLeft)
	pdf.CellFormat(0, lineHeight,
		fmt.Sprintf("Pallet base %.1f x %.1f, clearance %.1f", params.PalletLength, params.PalletWidth, params.Clearance),
		"", 1, "L", false, 0, "")
	pdf.SetX(marginLeft)
	pdf.CellFormat(0, lineHeight,
		fmt.Sprintf("%d pallets holding %d boxes", plan.TotalPallets, plan.TotalBoxes),
		"", 1, "L", false, 0, "")
	pdf.Ln(lineHeight / 2)

	renderCountsTable(pdf, plan)
	renderExceptions(pdf, "Unassignable SKUs (no pallet configuration possible)", plan.UnassignableSKUs)
	renderExceptions(pdf, "Unassigned pallets (no position fits)", plan.UnassignedPallets)

	return pdf.Output(w)
}

func renderCountsTable(pdf *fpdf.Fpdf, plan calculator.PlanResult) {
	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetX(marginLeft)
	pdf.CellFormat(0, lineHeight, "Pallets per position", "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetX(marginLeft)
	pdf.CellFormat(labelWidth, lineHeight, "Position", "1", 0, "L", false, 0, "")
	pdf.CellFormat(valueWidth, lineHeight, "Pallets", "1", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	keys := sortedCountKeys(plan.PositionCounts)
	if len(keys) == 0 {
		pdf.SetX(marginLeft)
		pdf.CellFormat(labelWidth+valueWidth, lineHeight, "No pallets assigned", "1", 1, "L", false, 0, "")
		return
	}
	for _, key := range keys {
		pdf.SetX(marginLeft)
		pdf.CellFormat(labelWidth, lineHeight, key, "1", 0, "L", false, 0, "")
		pdf.CellFormat(valueWidth, lineHeight, fmt.Sprintf("%d", plan.PositionCounts[key]), "1", 1, "R", false, 0, "")
	}
}

func renderExceptions(pdf *fpdf.Fpdf, title string, identities []string) {
	pdf.Ln(lineHeight / 2)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetX(marginLeft)
	pdf.CellFormat(0, lineHeight, title, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetX(marginLeft)
	if len(identities) == 0 {
		pdf.CellFormat(0, lineHeight, "None", "", 1, "L", false, 0, "")
		return
	}
	pdf.MultiCell(0, lineHeight, strings.Join(identities, ", "), "", "L", false)
}
