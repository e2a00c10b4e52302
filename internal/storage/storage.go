package storage

import (
	"errors"
	"fmt"
	"sync"

	"github.com/warekit/position-calculator/internal/calculator"
)

var (
	// ErrInvalidPositionType indicates a position-type record violates validation rules.
	ErrInvalidPositionType = errors.New("invalid position type")
	// ErrInvalidBox indicates a box record violates validation rules.
	ErrInvalidBox = errors.New("invalid box")
	// ErrEmptyCatalog indicates an attempt to store an empty catalog.
	ErrEmptyCatalog = errors.New("catalog must contain at least one entry")
)

var defaultPositionTypes = []calculator.PositionType{
	{Aisle: "A", Level: "1", MaxHeight: 50, WidthCapacity: 40, WeightCapacity: 2000},
	{Aisle: "B", Level: "1", MaxHeight: 60, WidthCapacity: 40, WeightCapacity: 2500},
}

var defaultBoxes = []calculator.Box{
	{SKU: "SKU001", Length: 12, Width: 10, Height: 10, Weight: 50, TotalBoxes: 100},
	{SKU: "SKU002", Length: 15, Width: 12, Height: 15, Weight: 60, TotalBoxes: 50},
}

// Storage provides access to the session catalogs used by the calculator.
type Storage interface {
	GetPositionTypes() ([]calculator.PositionType, error)
	SetPositionTypes(positionTypes []calculator.PositionType) error
	GetBoxes() ([]calculator.Box, error)
	SetBoxes(boxes []calculator.Box) error
}

// MemoryStorage keeps both catalogs in-memory and guards access with a
// RWMutex. Catalog order is preserved as given: the assigner's stable sort
// uses it for tie-breaking, so it is never re-sorted here.
type MemoryStorage struct {
	mu            sync.RWMutex
	positionTypes []calculator.PositionType
	boxes         []calculator.Box
}

// NewMemoryStorage initialises storage with copies of the default catalogs.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		positionTypes: clonePositionTypes(defaultPositionTypes),
		boxes:         cloneBoxes(defaultBoxes),
	}
}

// DefaultPositionTypes returns a copy of the default position-type catalog.
func DefaultPositionTypes() []calculator.PositionType {
	return clonePositionTypes(defaultPositionTypes)
}

// DefaultBoxes returns a copy of the default box catalog.
func DefaultBoxes() []calculator.Box {
	return cloneBoxes(defaultBoxes)
}

// GetPositionTypes returns a defensive copy of the position-type catalog.
func (s *MemoryStorage) GetPositionTypes() ([]calculator.PositionType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return clonePositionTypes(s.positionTypes), nil
}

// SetPositionTypes validates and stores the provided catalog.
func (s *MemoryStorage) SetPositionTypes(positionTypes []calculator.PositionType) error {
	if err := ValidatePositionTypes(positionTypes); err != nil {
		return err
	}

	s.mu.Lock()
	s.positionTypes = clonePositionTypes(positionTypes)
	s.mu.Unlock()

	return nil
}

// GetBoxes returns a defensive copy of the box catalog.
func (s *MemoryStorage) GetBoxes() ([]calculator.Box, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return cloneBoxes(s.boxes), nil
}

// SetBoxes validates and stores the provided catalog.
func (s *MemoryStorage) SetBoxes(boxes []calculator.Box) error {
	if err := ValidateBoxes(boxes); err != nil {
		return err
	}

	s.mu.Lock()
	s.boxes = cloneBoxes(boxes)
	s.mu.Unlock()

	return nil
}

// ValidatePositionTypes rejects empty catalogs, non-positive geometry, and
// duplicate position keys. The calculator itself never re-validates, so
// every write path funnels through here.
func ValidatePositionTypes(positionTypes []calculator.PositionType) error {
	if len(positionTypes) == 0 {
		return ErrEmptyCatalog
	}

	seen := make(map[string]struct{}, len(positionTypes))
	for i, position := range positionTypes {
		if position.Aisle == "" || position.Level == "" {
			return fmt.Errorf("%w: entry %d: aisle and level are required", ErrInvalidPositionType, i)
		}
		if position.MaxHeight <= 0 {
			return fmt.Errorf("%w: entry %d: max height must be positive", ErrInvalidPositionType, i)
		}
		if position.WidthCapacity <= 0 {
			return fmt.Errorf("%w: entry %d: width capacity must be positive", ErrInvalidPositionType, i)
		}
		if position.WeightCapacity <= 0 {
			return fmt.Errorf("%w: entry %d: weight capacity must be positive", ErrInvalidPositionType, i)
		}
		key := position.Key()
		if _, ok := seen[key]; ok {
			return fmt.Errorf("%w: entry %d: duplicate position %s", ErrInvalidPositionType, i, key)
		}
		seen[key] = struct{}{}
	}

	return nil
}

// ValidateBoxes rejects empty catalogs, non-positive dimensions or weight,
// negative box counts, and duplicate SKUs.
func ValidateBoxes(boxes []calculator.Box) error {
	if len(boxes) == 0 {
		return ErrEmptyCatalog
	}

	seen := make(map[string]struct{}, len(boxes))
	for i, box := range boxes {
		if box.SKU == "" {
			return fmt.Errorf("%w: entry %d: sku is required", ErrInvalidBox, i)
		}
		if box.Length <= 0 || box.Width <= 0 || box.Height <= 0 {
			return fmt.Errorf("%w: entry %d: dimensions must be positive", ErrInvalidBox, i)
		}
		if box.Weight <= 0 {
			return fmt.Errorf("%w: entry %d: weight must be positive", ErrInvalidBox, i)
		}
		if box.TotalBoxes < 0 {
			return fmt.Errorf("%w: entry %d: total boxes must not be negative", ErrInvalidBox, i)
		}
		if _, ok := seen[box.SKU]; ok {
			return fmt.Errorf("%w: entry %d: duplicate SKU %s", ErrInvalidBox, i, box.SKU)
		}
		seen[box.SKU] = struct{}{}
	}

	return nil
}

func clonePositionTypes(src []calculator.PositionType) []calculator.PositionType {
	if len(src) == 0 {
		return []calculator.PositionType{}
	}
	out := make([]calculator.PositionType, len(src))
	copy(out, src)
	return out
}

func cloneBoxes(src []calculator.Box) []calculator.Box {
	if len(src) == 0 {
		return []calculator.Box{}
	}
	out := make([]calculator.Box, len(src))
	copy(out, src)
	return out
}
