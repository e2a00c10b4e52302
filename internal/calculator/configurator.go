package calculator

import (
	"fmt"
	"math"
)

// ConfigurePallets packs one SKU's boxes into the fewest pallets.
//
// The layer capacity is the better of the two axis-aligned footprint
// orientations; no other rotation is attempted. The layer count is the
// maximum achievable across the whole position-type catalog, so packing is
// optimistic: the assignment stage performs the real per-position check.
//
// A zero TotalBoxes yields an empty pallet sequence. Positivity of the box
// fields is the caller's responsibility and is not re-validated here.
func ConfigurePallets(box Box, palletLength, palletWidth float64, positionTypes []PositionType, clearance float64) ([]Pallet, error) {
	boxesPerLayer := maxBoxesPerLayer(box, palletLength, palletWidth)
	if boxesPerLayer == 0 {
		return nil, ErrUnpackable
	}

	maxLayers := maxFeasibleLayers(box, boxesPerLayer, positionTypes, clearance)
	if maxLayers == 0 {
		return nil, ErrUnpackable
	}

	boxesPerPallet := boxesPerLayer * maxLayers

	pallets := make([]Pallet, 0, (box.TotalBoxes+boxesPerPallet-1)/boxesPerPallet)
	remaining := box.TotalBoxes
	for seq := 1; remaining > 0; seq++ {
		onPallet := boxesPerPallet
		if remaining < onPallet {
			onPallet = remaining
		}
		layers := (onPallet + boxesPerLayer - 1) / boxesPerLayer
		pallets = append(pallets, Pallet{
			ID:     fmt.Sprintf("%s-%d", box.SKU, seq),
			SKU:    box.SKU,
			Length: palletLength,
			Width:  palletWidth,
			Height: float64(layers) * box.Height,
			Weight: float64(onPallet) * box.Weight,
			Boxes:  onPallet,
		})
		remaining -= onPallet
	}

	return pallets, nil
}

// maxBoxesPerLayer tiles the pallet footprint in the two axis-aligned
// orientations and returns the larger count.
func maxBoxesPerLayer(box Box, palletLength, palletWidth float64) int {
	aligned := int(math.Floor(palletLength/box.Length)) * int(math.Floor(palletWidth/box.Width))
	rotated := int(math.Floor(palletLength/box.Width)) * int(math.Floor(palletWidth/box.Length))
	if rotated > aligned {
		return rotated
	}
	return aligned
}

// maxFeasibleLayers returns the largest layer count any position type can
// host under the height clearance and per-position weight capacity, or
// zero when no position fits even a single layer.
func maxFeasibleLayers(box Box, boxesPerLayer int, positionTypes []PositionType, clearance float64) int {
	weightPerLayer := float64(boxesPerLayer) * box.Weight

	maxLayers := 0
	for _, position := range positionTypes {
		usable := position.MaxHeight - clearance
		if box.Height > usable {
			continue
		}
		layersByHeight := int(math.Floor(usable / box.Height))
		if layersByHeight <= 0 {
			continue
		}
		if weightPerLayer > position.WeightCapacity {
			continue
		}
		layersByWeight := int(math.Floor(position.WeightCapacity / weightPerLayer))

		layers := layersByHeight
		if layersByWeight < layers {
			layers = layersByWeight
		}
		if layers > maxLayers {
			maxLayers = layers
		}
	}

	return maxLayers
}
