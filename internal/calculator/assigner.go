package calculator

import "sort"

// AssignPallets places each pallet into the smallest-height position type
// that satisfies the height, weight, and width constraints. The scan is
// first-fit over the catalog sorted ascending by max height: once a
// position matches, a later, tighter fit is never preferred. Pallets that
// match no position are collected in Unassigned by ID.
//
// Assignment decisions are independent across pallets; only the per-key
// counts accumulate. The input slices are not mutated.
func AssignPallets(pallets []Pallet, positionTypes []PositionType, clearance float64) AssignResult {
	sorted := sortByMaxHeight(positionTypes)
	result := AssignResult{
		PositionCounts: make(map[string]int),
		Assignments:    make([]Assignment, 0, len(pallets)),
	}

	for _, pallet := range pallets {
		assigned := false
		for _, position := range sorted {
			if !fitsPosition(position, pallet.Height, pallet.Weight, pallet.Width, clearance) {
				continue
			}
			key := position.Key()
			result.PositionCounts[key]++
			result.Assignments = append(result.Assignments, Assignment{
				ID:       pallet.ID,
				SKU:      pallet.SKU,
				Position: key,
			})
			assigned = true
			break
		}
		if !assigned {
			result.Unassigned = append(result.Unassigned, pallet.ID)
		}
	}

	return result
}

// AssignItems places raw items without a packing stage. On top of the
// position constraints, an item must not exceed the fixed footprint length.
// Items are identified by SKU in the output.
func AssignItems(items []Item, fixedLength float64, positionTypes []PositionType, clearance float64) AssignResult {
	sorted := sortByMaxHeight(positionTypes)
	result := AssignResult{
		PositionCounts: make(map[string]int),
		Assignments:    make([]Assignment, 0, len(items)),
	}

	for _, item := range items {
		assigned := false
		for _, position := range sorted {
			if item.Length > fixedLength {
				continue
			}
			if !fitsPosition(position, item.Height, item.Weight, item.Width, clearance) {
				continue
			}
			key := position.Key()
			result.PositionCounts[key]++
			result.Assignments = append(result.Assignments, Assignment{
				ID:       item.SKU,
				SKU:      item.SKU,
				Position: key,
			})
			assigned = true
			break
		}
		if !assigned {
			result.Unassigned = append(result.Unassigned, item.SKU)
		}
	}

	return result
}

// fitsPosition reports whether a load of the given dimensions fits one
// position under the height clearance.
func fitsPosition(position PositionType, height, weight, width, clearance float64) bool {
	return height <= position.MaxHeight-clearance &&
		weight <= position.WeightCapacity &&
		width <= position.WidthCapacity
}

// sortByMaxHeight returns a copy of the catalog sorted ascending by max
// height. The sort is stable so ties keep catalog order, which decides
// first-fit tie-breaking.
func sortByMaxHeight(positionTypes []PositionType) []PositionType {
	sorted := make([]PositionType, len(positionTypes))
	copy(sorted, positionTypes)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].MaxHeight < sorted[j].MaxHeight
	})
	return sorted
}
