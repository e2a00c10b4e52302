package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/warekit/position-calculator/internal/calculator"
	"github.com/warekit/position-calculator/internal/export"
	"github.com/warekit/position-calculator/internal/storage"
)

type contextKey string

const requestIDContextKey contextKey = "requestID"

// Defaults holds the global pallet geometry applied when a request does not
// override it.
type Defaults struct {
	PalletLength float64
	PalletWidth  float64
	Clearance    float64
}

// Handler wires calculator and storage dependencies into HTTP handlers.
type Handler struct {
	calculator calculator.Calculator
	storage    storage.Storage
	defaults   Defaults

	clock func() time.Time

	mu                     sync.RWMutex
	positionTypesUpdatedAt time.Time
	boxesUpdatedAt         time.Time
}

// HandlerOption configures Handler behaviour.
type HandlerOption func(*Handler)

// WithClock overrides the time source, primarily for tests.
func WithClock(clock func() time.Time) HandlerOption {
	return func(h *Handler) {
		h.clock = clock
	}
}

// NewHandler constructs a Handler with the provided dependencies.
func NewHandler(calc calculator.Calculator, store storage.Storage, defaults Defaults, opts ...HandlerOption) *Handler {
	h := &Handler{
		calculator: calc,
		storage:    store,
		defaults:   defaults,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
	for _, opt := range opts {
		opt(h)
	}
	now := h.clock()
	h.positionTypesUpdatedAt = now
	h.boxesUpdatedAt = now
	return h
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	_ = r
	resp := healthResponse{
		Status:    "ok",
		Timestamp: h.clock(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleGetPositionTypes(w http.ResponseWriter, r *http.Request) {
	_ = r
	positions, err := h.storage.GetPositionTypes()
	if err != nil {
		writeInternalError(w, err)
		return
	}

	resp := positionTypesResponse{
		PositionTypes: positionTypePayloads(positions),
		UpdatedAt:     h.positionTypesUpdated(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handlePutPositionTypes(w http.ResponseWriter, r *http.Request) {
	var req positionTypesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "unable to parse JSON payload")
		return
	}

	catalog := make([]calculator.PositionType, 0, len(req.PositionTypes))
	for _, p := range req.PositionTypes {
		catalog = append(catalog, calculator.PositionType{
			Aisle:          p.Aisle,
			Level:          p.Level,
			MaxHeight:      p.MaxHeight,
			WidthCapacity:  p.WidthCapacity,
			WeightCapacity: p.WeightCapacity,
		})
	}

	if err := h.storage.SetPositionTypes(catalog); err != nil {
		if errors.Is(err, storage.ErrInvalidPositionType) || errors.Is(err, storage.ErrEmptyCatalog) {
			writeError(w, http.StatusBadRequest, "Invalid position types", err.Error())
			return
		}
		writeInternalError(w, err)
		return
	}

	h.markPositionTypesUpdated()

	positions, err := h.storage.GetPositionTypes()
	if err != nil {
		writeInternalError(w, err)
		return
	}

	resp := positionTypesResponse{
		PositionTypes: positionTypePayloads(positions),
		UpdatedAt:     h.positionTypesUpdated(),
		Message:       "Position types updated successfully",
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleGetBoxes(w http.ResponseWriter, r *http.Request) {
	_ = r
	boxes, err := h.storage.GetBoxes()
	if err != nil {
		writeInternalError(w, err)
		return
	}

	resp := boxesResponse{
		Boxes:     boxPayloads(boxes),
		UpdatedAt: h.boxesUpdated(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handlePutBoxes(w http.ResponseWriter, r *http.Request) {
	var req boxesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "unable to parse JSON payload")
		return
	}

	catalog := make([]calculator.Box, 0, len(req.Boxes))
	for _, b := range req.Boxes {
		catalog = append(catalog, calculator.Box{
			SKU:        b.SKU,
			Length:     b.Length,
			Width:      b.Width,
			Height:     b.Height,
			Weight:     b.Weight,
			TotalBoxes: b.TotalBoxes,
		})
	}

	if err := h.storage.SetBoxes(catalog); err != nil {
		if errors.Is(err, storage.ErrInvalidBox) || errors.Is(err, storage.ErrEmptyCatalog) {
			writeError(w, http.StatusBadRequest, "Invalid boxes", err.Error())
			return
		}
		writeInternalError(w, err)
		return
	}

	h.markBoxesUpdated()

	boxes, err := h.storage.GetBoxes()
	if err != nil {
		writeInternalError(w, err)
		return
	}

	resp := boxesResponse{
		Boxes:     boxPayloads(boxes),
		UpdatedAt: h.boxesUpdated(),
		Message:   "Boxes updated successfully",
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handlePlan(w http.ResponseWriter, r *http.Request) {
	plan, params, elapsed, ok := h.computePlan(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, buildPlanResponse(plan, params, elapsed))
}

func (h *Handler) handlePlanExport(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "xlsx"
	}
	if format != "xlsx" && format != "pdf" {
		writeError(w, http.StatusBadRequest, "Invalid request", fmt.Sprintf("unsupported export format %q", format))
		return
	}

	plan, params, _, ok := h.computePlan(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	var err error
	var contentType string
	switch format {
	case "pdf":
		contentType = "application/pdf"
		err = export.WritePDF(&buf, plan, params)
	default:
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		err = export.WriteXLSX(&buf, plan, params)
	}
	if err != nil {
		writeInternalError(w, err)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=position-plan.%s", format))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (h *Handler) handleAssignItems(w http.ResponseWriter, r *http.Request) {
	var req assignItemsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "unable to parse JSON payload")
		return
	}

	if len(req.Items) == 0 {
		writeError(w, http.StatusBadRequest, "Invalid request", "items must contain at least one entry")
		return
	}

	items := make([]calculator.Item, 0, len(req.Items))
	for i, payload := range req.Items {
		if payload.SKU == "" {
			writeError(w, http.StatusBadRequest, "Invalid item", fmt.Sprintf("item %d: sku is required", i))
			return
		}
		if payload.Length <= 0 || payload.Width <= 0 || payload.Height <= 0 || payload.Weight <= 0 {
			writeError(w, http.StatusBadRequest, "Invalid item", fmt.Sprintf("item %d: dimensions and weight must be positive", i))
			return
		}
		items = append(items, calculator.Item{
			SKU:    payload.SKU,
			Length: payload.Length,
			Width:  payload.Width,
			Height: payload.Height,
			Weight: payload.Weight,
		})
	}

	params := calculator.ItemParams{
		FixedLength: h.defaults.PalletLength,
		Clearance:   h.defaults.Clearance,
	}
	if req.FixedLength != nil {
		params.FixedLength = *req.FixedLength
	}
	if req.Clearance != nil {
		params.Clearance = *req.Clearance
	}

	positions, err := h.storage.GetPositionTypes()
	if err != nil {
		writeInternalError(w, err)
		return
	}

	start := time.Now()
	result, err := h.calculator.PlaceItems(items, positions, params)
	elapsed := time.Since(start)

	if err != nil {
		switch {
		case errors.Is(err, calculator.ErrInvalidFixedLength), errors.Is(err, calculator.ErrInvalidClearance):
			writeError(w, http.StatusBadRequest, "Invalid request", err.Error())
		default:
			writeInternalError(w, err)
		}
		return
	}

	resp := assignItemsResponse{
		FixedLength:       params.FixedLength,
		Clearance:         params.Clearance,
		PositionCounts:    result.PositionCounts,
		Assignments:       assignmentPayloads(result.Assignments),
		UnassignedSKUs:    emptyIfNil(result.Unassigned),
		CalculationTimeMs: elapsed.Milliseconds(),
	}
	writeJSON(w, http.StatusOK, resp)
}

// computePlan parses an optional plan request body, resolves parameters
// against the configured defaults, and runs the two-stage computation.
// It writes the HTTP error response itself and reports success via ok.
func (h *Handler) computePlan(w http.ResponseWriter, r *http.Request) (calculator.PlanResult, calculator.Params, time.Duration, bool) {
	var req planRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request", "unable to parse JSON payload")
			return calculator.PlanResult{}, calculator.Params{}, 0, false
		}
	}

	params := calculator.Params{
		PalletLength: h.defaults.PalletLength,
		PalletWidth:  h.defaults.PalletWidth,
		Clearance:    h.defaults.Clearance,
	}
	if req.PalletLength != nil {
		params.PalletLength = *req.PalletLength
	}
	if req.PalletWidth != nil {
		params.PalletWidth = *req.PalletWidth
	}
	if req.Clearance != nil {
		params.Clearance = *req.Clearance
	}

	positions, err := h.storage.GetPositionTypes()
	if err != nil {
		writeInternalError(w, err)
		return calculator.PlanResult{}, calculator.Params{}, 0, false
	}
	boxes, err := h.storage.GetBoxes()
	if err != nil {
		writeInternalError(w, err)
		return calculator.PlanResult{}, calculator.Params{}, 0, false
	}

	start := time.Now()
	plan, err := h.calculator.PlanPositions(boxes, positions, params)
	elapsed := time.Since(start)

	if err != nil {
		switch {
		case errors.Is(err, calculator.ErrInvalidPalletDims), errors.Is(err, calculator.ErrInvalidClearance):
			writeError(w, http.StatusBadRequest, "Invalid request", err.Error())
		default:
			writeInternalError(w, err)
		}
		return calculator.PlanResult{}, calculator.Params{}, 0, false
	}

	return plan, params, elapsed, true
}

func buildPlanResponse(plan calculator.PlanResult, params calculator.Params, elapsed time.Duration) planResponse {
	return planResponse{
		PalletLength:      params.PalletLength,
		PalletWidth:       params.PalletWidth,
		Clearance:         params.Clearance,
		TotalPallets:      plan.TotalPallets,
		TotalBoxes:        plan.TotalBoxes,
		PositionCounts:    plan.PositionCounts,
		Pallets:           palletPayloads(plan.Pallets),
		Assignments:       assignmentPayloads(plan.Assignments),
		UnassignedPallets: emptyIfNil(plan.UnassignedPallets),
		UnassignedSKUs:    emptyIfNil(plan.UnassignedSKUs),
		UnassignableSKUs:  emptyIfNil(plan.UnassignableSKUs),
		CalculationTimeMs: elapsed.Milliseconds(),
	}
}

func (h *Handler) positionTypesUpdated() time.Time {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.positionTypesUpdatedAt
}

func (h *Handler) markPositionTypesUpdated() {
	h.mu.Lock()
	h.positionTypesUpdatedAt = h.clock()
	h.mu.Unlock()
}

func (h *Handler) boxesUpdated() time.Time {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.boxesUpdatedAt
}

func (h *Handler) markBoxesUpdated() {
	h.mu.Lock()
	h.boxesUpdatedAt = h.clock()
	h.mu.Unlock()
}

func requestIDFromContext(ctx context.Context) string {
	if v := ctx.Value(requestIDContextKey); v != nil {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

type positionTypePayload struct {
	Aisle          string  `json:"aisle"`
	Level          string  `json:"level"`
	MaxHeight      float64 `json:"maxHeight"`
	WidthCapacity  float64 `json:"widthCapacity"`
	WeightCapacity float64 `json:"weightCapacity"`
}

type boxPayload struct {
	SKU        string  `json:"sku"`
	Length     float64 `json:"length"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	Weight     float64 `json:"weight"`
	TotalBoxes int     `json:"totalBoxes"`
}

type itemPayload struct {
	SKU    string  `json:"sku"`
	Length float64 `json:"length"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Weight float64 `json:"weight"`
}

type palletPayload struct {
	ID     string  `json:"id"`
	SKU    string  `json:"sku"`
	Length float64 `json:"length"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Weight float64 `json:"weight"`
	Boxes  int     `json:"boxes"`
}

type assignmentPayload struct {
	ID         string `json:"id"`
	SKU        string `json:"sku"`
	AssignedTo string `json:"assignedTo"`
}

type positionTypesRequest struct {
	PositionTypes []positionTypePayload `json:"positionTypes"`
}

type positionTypesResponse struct {
	PositionTypes []positionTypePayload `json:"positionTypes"`
	UpdatedAt     time.Time             `json:"updatedAt"`
	Message       string                `json:"message,omitempty"`
}

type boxesRequest struct {
	Boxes []boxPayload `json:"boxes"`
}

type boxesResponse struct {
	Boxes     []boxPayload `json:"boxes"`
	UpdatedAt time.Time    `json:"updatedAt"`
	Message   string       `json:"message,omitempty"`
}

type planRequest struct {
	PalletLength *float64 `json:"palletLength"`
	PalletWidth  *float64 `json:"palletWidth"`
	Clearance    *float64 `json:"clearance"`
}

type planResponse struct {
	PalletLength      float64             `json:"palletLength"`
	PalletWidth       float64             `json:"palletWidth"`
	Clearance         float64             `json:"clearance"`
	TotalPallets      int                 `json:"totalPallets"`
	TotalBoxes        int                 `json:"totalBoxes"`
	PositionCounts    map[string]int      `json:"positionCounts"`
	Pallets           []palletPayload     `json:"pallets"`
	Assignments       []assignmentPayload `json:"assignments"`
	UnassignedPallets []string            `json:"unassignedPallets"`
	UnassignedSKUs    []string            `json:"unassignedSkus"`
	UnassignableSKUs  []string            `json:"unassignableSkus"`
	CalculationTimeMs int64               `json:"calculationTimeMs"`
}

type assignItemsRequest struct {
	Items       []itemPayload `json:"items"`
	FixedLength *float64      `json:"fixedLength"`
	Clearance   *float64      `json:"clearance"`
}

type assignItemsResponse struct {
	FixedLength       float64             `json:"fixedLength"`
	Clearance         float64             `json:"clearance"`
	PositionCounts    map[string]int      `json:"positionCounts"`
	Assignments       []assignmentPayload `json:"assignments"`
	UnassignedSKUs    []string            `json:"unassignedSkus"`
	CalculationTimeMs int64               `json:"calculationTimeMs"`
}

type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

type errorResponse struct {
	Error      string `json:"error"`
	Details    string `json:"details,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

func positionTypePayloads(positions []calculator.PositionType) []positionTypePayload {
	out := make([]positionTypePayload, 0, len(positions))
	for _, p := range positions {
		out = append(out, positionTypePayload{
			Aisle:          p.Aisle,
			Level:          p.Level,
			MaxHeight:      p.MaxHeight,
			WidthCapacity:  p.WidthCapacity,
			WeightCapacity: p.WeightCapacity,
		})
	}
	return out
}

func boxPayloads(boxes []calculator.Box) []boxPayload {
	out := make([]boxPayload, 0, len(boxes))
	for _, b := range boxes {
		out = append(out, boxPayload{
			SKU:        b.SKU,
			Length:     b.Length,
			Width:      b.Width,
			Height:     b.Height,
			Weight:     b.Weight,
			TotalBoxes: b.TotalBoxes,
		})
	}
	return out
}

func palletPayloads(pallets []calculator.Pallet) []palletPayload {
	out := make([]palletPayload, 0, len(pallets))
	for _, p := range pallets {
		out = append(out, palletPayload{
			ID:     p.ID,
			SKU:    p.SKU,
			Length: p.Length,
			Width:  p.Width,
			Height: p.Height,
			Weight: p.Weight,
			Boxes:  p.Boxes,
		})
	}
	return out
}

func assignmentPayloads(assignments []calculator.Assignment) []assignmentPayload {
	out := make([]assignmentPayload, 0, len(assignments))
	for _, a := range assignments {
		out = append(out, assignmentPayload{
			ID:         a.ID,
			SKU:        a.SKU,
			AssignedTo: a.Position,
		})
	}
	return out
}

func emptyIfNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if status != 0 {
		w.WriteHeader(status)
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message, details string, suggestion ...string) {
	resp := errorResponse{
		Error:   message,
		Details: details,
	}
	if len(suggestion) > 0 {
		resp.Suggestion = suggestion[0]
	}
	writeJSON(w, status, resp)
}

func writeInternalError(w http.ResponseWriter, err error) {
	writeError(w, http.StatusInternalServerError, "Internal error", err.Error())
}
