package calculator

import (
	"reflect"
	"testing"
)

func twoLevelCatalog() []PositionType {
	return []PositionType{
		{Aisle: "B", Level: "1", MaxHeight: 60, WidthCapacity: 40, WeightCapacity: 2500},
		{Aisle: "A", Level: "1", MaxHeight: 50, WidthCapacity: 40, WeightCapacity: 2000},
	}
}

func TestAssignPalletsPrefersSmallestHeight(t *testing.T) {
	t.Parallel()

	pallets := []Pallet{
		{ID: "SKU001-1", SKU: "SKU001", Length: 48, Width: 40, Height: 30, Weight: 500, Boxes: 10},
	}

	result := AssignPallets(pallets, twoLevelCatalog(), 4)

	if got := result.PositionCounts["Aisle A Level 1"]; got != 1 {
		t.Fatalf("expected pallet in the 50-height position, got counts %v", result.PositionCounts)
	}
	if len(result.Assignments) != 1 || result.Assignments[0].Position != "Aisle A Level 1" {
		t.Fatalf("unexpected assignments: %v", result.Assignments)
	}
	if len(result.Unassigned) != 0 {
		t.Fatalf("expected no unassigned pallets, got %v", result.Unassigned)
	}
}

func TestAssignPalletsClearanceRejectsFirstPosition(t *testing.T) {
	t.Parallel()

	// 47 > 50-4 rules out the smaller position; 47 <= 60-4 admits the taller one.
	pallets := []Pallet{
		{ID: "SKU001-1", SKU: "SKU001", Length: 48, Width: 40, Height: 47, Weight: 500, Boxes: 10},
	}

	result := AssignPallets(pallets, twoLevelCatalog(), 4)

	if got := result.Assignments[0].Position; got != "Aisle B Level 1" {
		t.Fatalf("expected assignment to Aisle B Level 1, got %s", got)
	}
}

func TestAssignPalletsClearanceBoundaryIsInclusive(t *testing.T) {
	t.Parallel()

	// Height exactly equal to max height minus clearance still fits.
	pallets := []Pallet{
		{ID: "SKU001-1", SKU: "SKU001", Length: 48, Width: 40, Height: 46, Weight: 500, Boxes: 10},
	}

	result := AssignPallets(pallets, twoLevelCatalog(), 4)

	if got := result.Assignments[0].Position; got != "Aisle A Level 1" {
		t.Fatalf("expected boundary pallet in Aisle A Level 1, got %s", got)
	}
}

func TestAssignPalletsCollectsUnassigned(t *testing.T) {
	t.Parallel()

	pallets := []Pallet{
		{ID: "HEAVY1-1", SKU: "HEAVY1", Length: 48, Width: 40, Height: 30, Weight: 9000, Boxes: 10},
		{ID: "SKU001-1", SKU: "SKU001", Length: 48, Width: 40, Height: 30, Weight: 500, Boxes: 10},
	}

	result := AssignPallets(pallets, twoLevelCatalog(), 4)

	if want := []string{"HEAVY1-1"}; !reflect.DeepEqual(result.Unassigned, want) {
		t.Fatalf("expected unassigned %v, got %v", want, result.Unassigned)
	}
	if len(result.Assignments) != 1 {
		t.Fatalf("expected the remaining pallet to be assigned, got %v", result.Assignments)
	}
}

func TestAssignPalletsTieKeepsCatalogOrder(t *testing.T) {
	t.Parallel()

	catalog := []PositionType{
		{Aisle: "C", Level: "2", MaxHeight: 50, WidthCapacity: 40, WeightCapacity: 2000},
		{Aisle: "A", Level: "1", MaxHeight: 50, WidthCapacity: 40, WeightCapacity: 2000},
	}
	pallets := []Pallet{
		{ID: "SKU001-1", SKU: "SKU001", Length: 48, Width: 40, Height: 30, Weight: 500, Boxes: 10},
	}

	result := AssignPallets(pallets, catalog, 4)

	if got := result.Assignments[0].Position; got != "Aisle C Level 2" {
		t.Fatalf("expected stable sort to keep catalog order on ties, got %s", got)
	}
}

func TestAssignPalletsDoesNotMutateCatalog(t *testing.T) {
	t.Parallel()

	catalog := twoLevelCatalog()
	pallets := []Pallet{
		{ID: "SKU001-1", SKU: "SKU001", Length: 48, Width: 40, Height: 30, Weight: 500, Boxes: 10},
	}

	AssignPallets(pallets, catalog, 4)

	if catalog[0].Aisle != "B" || catalog[1].Aisle != "A" {
		t.Fatalf("expected caller's catalog order to be preserved, got %v", catalog)
	}
}

func TestAssignPalletsAccumulatesCounts(t *testing.T) {
	t.Parallel()

	pallets := []Pallet{
		{ID: "SKU001-1", SKU: "SKU001", Length: 48, Width: 40, Height: 30, Weight: 500, Boxes: 10},
		{ID: "SKU001-2", SKU: "SKU001", Length: 48, Width: 40, Height: 30, Weight: 500, Boxes: 10},
		{ID: "SKU002-1", SKU: "SKU002", Length: 48, Width: 40, Height: 55, Weight: 500, Boxes: 5},
	}

	result := AssignPallets(pallets, twoLevelCatalog(), 4)

	want := map[string]int{
		"Aisle A Level 1": 2,
		"Aisle B Level 1": 1,
	}
	if !reflect.DeepEqual(result.PositionCounts, want) {
		t.Fatalf("expected counts %v, got %v", want, result.PositionCounts)
	}
}

func TestAssignItemsEnforcesFixedLength(t *testing.T) {
	t.Parallel()

	items := []Item{
		{SKU: "LONG01", Length: 50, Width: 30, Height: 20, Weight: 100},
		{SKU: "SKU001", Length: 12, Width: 10, Height: 10, Weight: 50},
	}

	result := AssignItems(items, 48, twoLevelCatalog(), 4)

	if want := []string{"LONG01"}; !reflect.DeepEqual(result.Unassigned, want) {
		t.Fatalf("expected %v unassigned, got %v", want, result.Unassigned)
	}
	if len(result.Assignments) != 1 || result.Assignments[0].SKU != "SKU001" {
		t.Fatalf("unexpected assignments: %v", result.Assignments)
	}
}

func TestAssignIsIdempotent(t *testing.T) {
	t.Parallel()

	pallets := []Pallet{
		{ID: "SKU001-1", SKU: "SKU001", Length: 48, Width: 40, Height: 30, Weight: 500, Boxes: 10},
		{ID: "SKU002-1", SKU: "SKU002", Length: 48, Width: 40, Height: 55, Weight: 2200, Boxes: 8},
		{ID: "HEAVY1-1", SKU: "HEAVY1", Length: 48, Width: 40, Height: 30, Weight: 9000, Boxes: 10},
	}
	catalog := twoLevelCatalog()

	first := AssignPallets(pallets, catalog, 4)
	second := AssignPallets(pallets, catalog, 4)

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical results, got %v and %v", first, second)
	}
}
