package application

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/warekit/position-calculator/internal/calculator"
	"github.com/warekit/position-calculator/internal/config"
)

func TestNewInitializesDependencies(t *testing.T) {
	cfg := baseTestConfig(":8085")
	logger := zaptest.NewLogger(t)

	app, err := New(cfg, logger)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	positions, err := app.storage.GetPositionTypes()
	if err != nil {
		t.Fatalf("GetPositionTypes returned error: %v", err)
	}
	if len(positions) != 1 || positions[0].Aisle != "C" {
		t.Fatalf("expected seeded position types, got %+v", positions)
	}
	boxes, err := app.storage.GetBoxes()
	if err != nil {
		t.Fatalf("GetBoxes returned error: %v", err)
	}
	if len(boxes) != 1 || boxes[0].SKU != "SKU100" {
		t.Fatalf("expected seeded boxes, got %+v", boxes)
	}
	if app.server == nil || app.router == nil || app.handler == nil {
		t.Fatalf("expected server, router, and handler to be initialized")
	}
	if app.Server() != app.server {
		t.Fatalf("Server accessor did not return underlying instance")
	}
}

func TestNewSeedsCatalogsFromFiles(t *testing.T) {
	dir := t.TempDir()
	positionsPath := filepath.Join(dir, "positions.csv")
	boxesPath := filepath.Join(dir, "boxes.csv")
	writeFile(t, positionsPath, "Aisle,Level,Max Height,Width Capacity,Weight Capacity\nD,2,70,44,3000\n")
	writeFile(t, boxesPath, "SKU,Box Length,Box Width,Box Height,Box Weight,Total Boxes\nSKU200,10,10,10,25,30\n")

	cfg := baseTestConfig(":0")
	cfg.PositionTypesFile = positionsPath
	cfg.BoxesFile = boxesPath

	app, err := New(cfg, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	positions, err := app.Storage().GetPositionTypes()
	if err != nil {
		t.Fatalf("GetPositionTypes returned error: %v", err)
	}
	if len(positions) != 1 || positions[0].Aisle != "D" {
		t.Fatalf("expected imported position types to win over config, got %+v", positions)
	}
	boxes, err := app.Storage().GetBoxes()
	if err != nil {
		t.Fatalf("GetBoxes returned error: %v", err)
	}
	if len(boxes) != 1 || boxes[0].SKU != "SKU200" {
		t.Fatalf("expected imported boxes to win over config, got %+v", boxes)
	}
}

func TestNewReturnsErrorForMissingImportFile(t *testing.T) {
	cfg := baseTestConfig(":0")
	cfg.BoxesFile = filepath.Join(t.TempDir(), "nope.csv")

	if _, err := New(cfg, zaptest.NewLogger(t)); err == nil {
		t.Fatalf("expected error for missing import file")
	}
}

func TestNewReturnsErrorForEmptyCatalog(t *testing.T) {
	cfg := baseTestConfig(":0")
	cfg.PositionTypes = nil

	if _, err := New(cfg, zaptest.NewLogger(t)); err == nil {
		t.Fatalf("expected error for empty position type catalog")
	}
}

func TestNewServerAppliesConfig(t *testing.T) {
	cfg := baseTestConfig("9090")
	handler := http.NewServeMux()

	server := NewServer(cfg, handler)
	if server.Addr != ":9090" {
		t.Fatalf("expected address :9090, got %s", server.Addr)
	}
	if server.Handler != handler {
		t.Fatalf("expected handler to be applied")
	}
	if server.ReadHeaderTimeout != cfg.ReadHeaderTimeout ||
		server.WriteTimeout != cfg.WriteTimeout ||
		server.IdleTimeout != cfg.IdleTimeout {
		t.Fatalf("server timeouts do not match configuration")
	}
}

func baseTestConfig(port string) config.Config {
	return config.Config{
		Port:         port,
		PalletLength: 48,
		PalletWidth:  40,
		Clearance:    4,
		PositionTypes: []calculator.PositionType{
			{Aisle: "C", Level: "1", MaxHeight: 55, WidthCapacity: 42, WeightCapacity: 2200},
		},
		Boxes: []calculator.Box{
			{SKU: "SKU100", Length: 12, Width: 10, Height: 10, Weight: 40, TotalBoxes: 20},
		},
		ShutdownGracePeriod:  50 * time.Millisecond,
		ReadHeaderTimeout:    20 * time.Millisecond,
		WriteTimeout:         30 * time.Millisecond,
		IdleTimeout:          40 * time.Millisecond,
		EnableRequestLogging: false,
		RateLimitRPS:         0,
		RateLimitBurst:       0,
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
