// Package importer reads position-type and box catalogs from CSV or XLSX
// files. Headers are matched case-insensitively against known aliases; rows
// that fail to parse are skipped and reported as warnings rather than
// failing the whole import.
package importer

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/warekit/position-calculator/internal/calculator"
)

// headerAliases maps canonical column names to their accepted spellings
// (all lowercase).
var headerAliases = map[string][]string{
	"aisle":           {"aisle"},
	"level":           {"level", "lvl", "tier"},
	"max_height":      {"max height", "max_height", "maxheight", "height"},
	"width_capacity":  {"width capacity", "width_capacity", "width"},
	"weight_capacity": {"weight capacity", "weight_capacity", "weight"},

	"sku":         {"sku", "article", "item"},
	"box_length":  {"box length", "box_length", "length", "len"},
	"box_width":   {"box width", "box_width", "width", "w"},
	"box_height":  {"box height", "box_height", "height", "h"},
	"box_weight":  {"box weight", "box_weight", "weight", "wt"},
	"total_boxes": {"total boxes", "total_boxes", "total", "boxes", "quantity", "qty", "count"},
}

// ReadPositionTypes loads a position-type catalog from a CSV or XLSX file.
// Expected columns: Aisle, Level, Max Height, Width Capacity, Weight Capacity.
func ReadPositionTypes(path string) ([]calculator.PositionType, []string, error) {
	rows, err := readRows(path)
	if err != nil {
		return nil, nil, err
	}

	columns, start, err := mapColumns(rows, []string{"aisle", "level", "max_height", "width_capacity", "weight_capacity"})
	if err != nil {
		return nil, nil, err
	}

	var positions []calculator.PositionType
	var warnings []string
	for i := start; i < len(rows); i++ {
		row := rows[i]
		if isBlank(row) {
			continue
		}

		aisle := cellString(row, columns["aisle"])
		level := cellString(row, columns["level"])
		maxHeight, err1 := cellFloat(row, columns["max_height"])
		widthCap, err2 := cellFloat(row, columns["width_capacity"])
		weightCap, err3 := cellFloat(row, columns["weight_capacity"])

		if aisle == "" || level == "" || err1 != nil || err2 != nil || err3 != nil {
			warnings = append(warnings, fmt.Sprintf("row %d: skipped, not a valid position type", i+1))
			continue
		}

		positions = append(positions, calculator.PositionType{
			Aisle:          aisle,
			Level:          level,
			MaxHeight:      maxHeight,
			WidthCapacity:  widthCap,
			WeightCapacity: weightCap,
		})
	}

	return positions, warnings, nil
}

// ReadBoxes loads a box catalog from a CSV or XLSX file. Expected columns:
// SKU, Box Length, Box Width, Box Height, Box Weight, Total Boxes.
func ReadBoxes(path string) ([]calculator.Box, []string, error) {
	rows, err := readRows(path)
	if err != nil {
		return nil, nil, err
	}

	columns, start, err := mapColumns(rows, []string{"sku", "box_length", "box_width", "box_height", "box_weight", "total_boxes"})
	if err != nil {
		return nil, nil, err
	}

	var boxes []calculator.Box
	var warnings []string
	for i := start; i < len(rows); i++ {
		row := rows[i]
		if isBlank(row) {
			continue
		}

		sku := cellString(row, columns["sku"])
		length, err1 := cellFloat(row, columns["box_length"])
		width, err2 := cellFloat(row, columns["box_width"])
		height, err3 := cellFloat(row, columns["box_height"])
		weight, err4 := cellFloat(row, columns["box_weight"])
		total, err5 := cellInt(row, columns["total_boxes"])

		if sku == "" || err1 != nil || err2 != nil || err3 != nil || err4 != nil || err5 != nil {
			warnings = append(warnings, fmt.Sprintf("row %d: skipped, not a valid box record", i+1))
			continue
		}

		boxes = append(boxes, calculator.Box{
			SKU:        sku,
			Length:     length,
			Width:      width,
			Height:     height,
			Weight:     weight,
			TotalBoxes: total,
		})
	}

	return boxes, warnings, nil
}

// readRows loads the raw cell grid from a CSV file or the first sheet of an
// XLSX workbook.
func readRows(path string) ([][]string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		file, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open catalog file: %w", err)
		}
		defer file.Close()

		reader := csv.NewReader(file)
		reader.FieldsPerRecord = -1
		reader.TrimLeadingSpace = true
		rows, err := reader.ReadAll()
		if err != nil {
			return nil, fmt.Errorf("read CSV: %w", err)
		}
		return rows, nil

	case ".xlsx":
		workbook, err := excelize.OpenFile(path)
		if err != nil {
			return nil, fmt.Errorf("open workbook: %w", err)
		}
		defer workbook.Close()

		sheets := workbook.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook has no sheets")
		}
		rows, err := workbook.GetRows(sheets[0])
		if err != nil {
			return nil, fmt.Errorf("read sheet %s: %w", sheets[0], err)
		}
		return rows, nil

	default:
		return nil, fmt.Errorf("unsupported catalog file type %q (want .csv or .xlsx)", filepath.Ext(path))
	}
}

// mapColumns resolves the wanted canonical columns against the header row.
// Earlier canonical names take priority when aliases overlap (e.g. "height"
// resolves to max_height in a position file and box_height in a box file
// because each file requests only its own set). Returns the column indices
// and the index of the first data row.
func mapColumns(rows [][]string, wanted []string) (map[string]int, int, error) {
	if len(rows) == 0 {
		return nil, 0, fmt.Errorf("catalog file is empty")
	}

	header := rows[0]
	columns := make(map[string]int, len(wanted))
	claimed := make(map[int]bool, len(header))

	for _, name := range wanted {
		for i, cell := range header {
			if claimed[i] {
				continue
			}
			normalized := strings.ToLower(strings.TrimSpace(cell))
			for _, alias := range headerAliases[name] {
				if normalized == alias {
					columns[name] = i
					claimed[i] = true
					break
				}
			}
			if _, ok := columns[name]; ok {
				break
			}
		}
		if _, ok := columns[name]; !ok {
			return nil, 0, fmt.Errorf("missing column %q in catalog header", name)
		}
	}

	return columns, 1, nil
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func cellString(row []string, col int) string {
	if col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}

func cellFloat(row []string, col int) (float64, error) {
	return strconv.ParseFloat(cellString(row, col), 64)
}

func cellInt(row []string, col int) (int, error) {
	return strconv.Atoi(cellString(row, col))
}
