package preset_test

import (
	"errors"
	"testing"

	"github.com/rook-computer/crosshair/internal/crosshair"
	"github.com/rook-computer/crosshair/internal/preset"
	"github.com/rook-computer/crosshair/internal/state"
	"github.com/rook-computer/crosshair/internal/storage"
)

func TestCatalog(t *testing.T) {
	all := preset.All()
	if len(all) != 6 {
		t.Fatalf("expected 6 designs, got %d", len(all))
	}
	seen := map[string]bool{}
	for _, d := range all {
		if seen[d.ID] {
			t.Fatalf("duplicate id %s", d.ID)
		}
		seen[d.ID] = true
		if d.Config.ID != d.ID || d.Config.Name != d.Name {
			t.Fatalf("%s: config identity mismatch %+v", d.ID, d.Config)
		}
		if !d.Config.Shape.Valid() {
			t.Fatalf("%s: invalid shape %q", d.ID, d.Config.Shape)
		}
	}

	square, ok := preset.Find("tactical-square")
	if !ok || square.Config.Rotation != 45 || square.Config.Shape != crosshair.ShapeSquare {
		t.Fatalf("unexpected tactical square %+v", square)
	}
	if _, ok := preset.Find("missing"); ok {
		t.Fatal("expected miss")
	}
}

func TestAllReturnsCopies(t *testing.T) {
	all := preset.All()
	all[0].Tags[0] = "mutated"
	all[0].Config.Color = "#123456"
	if fresh := preset.All(); fresh[0].Tags[0] == "mutated" || fresh[0].Config.Color == "#123456" {
		t.Fatal("catalog must not be mutable through All")
	}
}

func TestFilterAndSort(t *testing.T) {
	tactical := preset.Filter(preset.All(), "Tactical")
	if len(tactical) != 2 {
		t.Fatalf("expected 2 tactical designs, got %d", len(tactical))
	}
	if got := preset.Filter(preset.All(), ""); len(got) != 6 {
		t.Fatalf("empty tag must keep everything, got %d", len(got))
	}

	popular := preset.SortBy(preset.All(), preset.OrderPopular)
	if popular[0].ID != "apex-dot" || popular[len(popular)-1].ID != "rainbow-animated" {
		t.Fatalf("unexpected popular order %s..%s", popular[0].ID, popular[len(popular)-1].ID)
	}
	if rated := preset.SortBy(preset.All(), preset.OrderRating); rated[0].ID != "apex-dot" || rated[1].ID != "cs-classic" {
		t.Fatalf("unexpected rating order %s,%s", rated[0].ID, rated[1].ID)
	}
	if named := preset.SortBy(preset.All(), preset.OrderName); named[0].Name != "Apex Dot" {
		t.Fatalf("unexpected name order %s", named[0].Name)
	}
	trending := preset.SortBy(preset.All(), preset.OrderTrending)
	for i, d := range trending {
		if d.Trending != (i < 3) {
			t.Fatalf("trending designs must come first, got %v at %d", d.Trending, i)
		}
	}

	if _, err := preset.ParseOrder("random"); !errors.Is(err, preset.ErrUnknownOrder) {
		t.Fatalf("expected ErrUnknownOrder, got %v", err)
	}
	if o, err := preset.ParseOrder(" Rating "); err != nil || o != preset.OrderRating {
		t.Fatalf("ParseOrder: %v %v", o, err)
	}
}

func TestApply(t *testing.T) {
	store := state.NewStore(storage.NewMemoryKV())
	cfg, err := preset.Apply(store, "minimal-circle")
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	want, _ := preset.Find("minimal-circle")
	if cfg != want.Config || store.Config() != want.Config {
		t.Fatalf("expected design config active, got %+v", store.Config())
	}

	if _, err := preset.Apply(store, "missing"); !errors.Is(err, preset.ErrUnknownPreset) {
		t.Fatalf("expected ErrUnknownPreset, got %v", err)
	}
	if store.Config() != want.Config {
		t.Fatal("failed apply must not touch the active config")
	}
}

func TestPositions(t *testing.T) {
	store := state.NewStore(storage.NewMemoryKV())
	all := preset.Positions()
	if len(all) != 9 {
		t.Fatalf("expected 9 named positions, got %d", len(all))
	}
	if all[0].ID != "center" || all[8].ID != "bottom-center" {
		t.Fatalf("unexpected order %s..%s", all[0].ID, all[8].ID)
	}
	if cfg, err := preset.ApplyPosition(store, "left-center"); err != nil || cfg.Position != (crosshair.Position{X: 25, Y: 50}) {
		t.Fatalf("left-center: %+v %v", cfg.Position, err)
	}
	cfg, err := preset.ApplyPosition(store, "top-right")
	if err != nil {
		t.Fatalf("ApplyPosition: %v", err)
	}
	if cfg.Position != (crosshair.Position{X: 75, Y: 25}) {
		t.Fatalf("unexpected position %+v", cfg.Position)
	}
	if _, err := preset.ApplyPosition(store, "middle-ish"); !errors.Is(err, preset.ErrUnknownPosition) {
		t.Fatalf("expected ErrUnknownPosition, got %v", err)
	}

	store.UpdateConfig(crosshair.Patch{Scale: crosshair.Ptr(2.5), Rotation: crosshair.Ptr(90), Color: crosshair.Ptr("#abcdef")})
	reset := preset.ResetPosition(store)
	if reset.Position != (crosshair.Position{X: 50, Y: 50}) || reset.Scale != 1 || reset.Rotation != 0 {
		t.Fatalf("unexpected reset %+v", reset)
	}
	if reset.Color != "#abcdef" {
		t.Fatal("reset must keep unrelated fields")
	}
}
