package calculator

import "fmt"

// PositionType describes the geometry of one class of storage positions.
// Aisle and Level together form the unique position key used for counting.
type PositionType struct {
	Aisle          string
	Level          string
	MaxHeight      float64
	WidthCapacity  float64
	WeightCapacity float64
}

// Key returns the position identity string, e.g. "Aisle A Level 1".
func (p PositionType) Key() string {
	return fmt.Sprintf("Aisle %s Level %s", p.Aisle, p.Level)
}

// Box represents the entire boxed inventory of one SKU, not a single
// physical box.
type Box struct {
	SKU        string
	Length     float64
	Width      float64
	Height     float64
	Weight     float64
	TotalBoxes int
}

// Item is a single physical unit assigned directly to a position, skipping
// the pallet configuration stage.
type Item struct {
	SKU    string
	Length float64
	Width  float64
	Height float64
	Weight float64
}

// Pallet is a stack of identical boxes produced by the configurator.
// Height and Weight reflect the actual stack, so a partial final pallet
// reports smaller values than the theoretical maximum. ID is deterministic
// ("{sku}-{n}") so identical inputs yield identical outputs.
type Pallet struct {
	ID     string
	SKU    string
	Length float64
	Width  float64
	Height float64
	Weight float64
	Boxes  int
}

// Assignment pairs one pallet or item with the position it was placed into.
type Assignment struct {
	ID       string
	SKU      string
	Position string
}

// AssignResult is the complete output of one assignment pass.
type AssignResult struct {
	PositionCounts map[string]int
	Assignments    []Assignment
	Unassigned     []string
}

// PlanResult aggregates the two-stage computation across all SKUs.
// UnassignableSKUs could not be packed onto any pallet at all;
// UnassignedSKUs were packed but matched no position in the catalog.
type PlanResult struct {
	Pallets           []Pallet
	PositionCounts    map[string]int
	Assignments       []Assignment
	UnassignedPallets []string
	UnassignedSKUs    []string
	UnassignableSKUs  []string
	TotalPallets      int
	TotalBoxes        int
}

// Params carries the global pallet base geometry and height clearance for
// one plan computation.
type Params struct {
	PalletLength float64
	PalletWidth  float64
	Clearance    float64
}

// ItemParams carries the fixed footprint length and height clearance for
// the direct item assignment path.
type ItemParams struct {
	FixedLength float64
	Clearance   float64
}

// Calculator describes the behaviour required from a position calculator.
type Calculator interface {
	PlanPositions(boxes []Box, positionTypes []PositionType, params Params) (PlanResult, error)
	PlaceItems(items []Item, positionTypes []PositionType, params ItemParams) (AssignResult, error)
}
