package calculator

import "errors"

type palletCalculator struct{}

// New creates a Calculator running the configure-then-assign pipeline.
func New() Calculator {
	return &palletCalculator{}
}

// PlanPositions configures pallets for every box and assigns the produced
// pallets to positions. SKUs whose boxes cannot be packed at all are
// reported in UnassignableSKUs; pallets that fit no position end up in
// UnassignedPallets (with their SKUs deduplicated into UnassignedSKUs).
func (c *palletCalculator) PlanPositions(boxes []Box, positionTypes []PositionType, params Params) (PlanResult, error) {
	if params.PalletLength <= 0 || params.PalletWidth <= 0 {
		return PlanResult{}, ErrInvalidPalletDims
	}
	if params.Clearance < 0 {
		return PlanResult{}, ErrInvalidClearance
	}

	plan := PlanResult{}
	for _, box := range boxes {
		pallets, err := ConfigurePallets(box, params.PalletLength, params.PalletWidth, positionTypes, params.Clearance)
		if errors.Is(err, ErrUnpackable) {
			plan.UnassignableSKUs = append(plan.UnassignableSKUs, box.SKU)
			continue
		}
		if err != nil {
			return PlanResult{}, err
		}
		plan.Pallets = append(plan.Pallets, pallets...)
		plan.TotalBoxes += box.TotalBoxes
	}

	assigned := AssignPallets(plan.Pallets, positionTypes, params.Clearance)
	plan.PositionCounts = assigned.PositionCounts
	plan.Assignments = assigned.Assignments
	plan.UnassignedPallets = assigned.Unassigned
	plan.UnassignedSKUs = unassignedSKUs(plan.Pallets, assigned.Unassigned)
	plan.TotalPallets = len(plan.Pallets)

	return plan, nil
}

// PlaceItems assigns raw items directly to positions without packing.
func (c *palletCalculator) PlaceItems(items []Item, positionTypes []PositionType, params ItemParams) (AssignResult, error) {
	if params.FixedLength <= 0 {
		return AssignResult{}, ErrInvalidFixedLength
	}
	if params.Clearance < 0 {
		return AssignResult{}, ErrInvalidClearance
	}

	return AssignItems(items, params.FixedLength, positionTypes, params.Clearance), nil
}

// unassignedSKUs maps unassigned pallet IDs back to their SKUs, deduplicated
// in first-occurrence order.
func unassignedSKUs(pallets []Pallet, unassignedIDs []string) []string {
	if len(unassignedIDs) == 0 {
		return nil
	}

	skuByID := make(map[string]string, len(pallets))
	for _, pallet := range pallets {
		skuByID[pallet.ID] = pallet.SKU
	}

	seen := make(map[string]struct{}, len(unassignedIDs))
	skus := make([]string, 0, len(unassignedIDs))
	for _, id := range unassignedIDs {
		sku := skuByID[id]
		if _, ok := seen[sku]; ok {
			continue
		}
		seen[sku] = struct{}{}
		skus = append(skus, sku)
	}

	return skus
}
