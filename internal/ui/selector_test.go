package ui

import (
	"strings"
	"testing"

	"supplyask/internal/query"
)

func TestSelector_Cycle(t *testing.T) {
	s := NewSelector("Role", query.Roles(), query.RoleManager)
	if s.Value() != query.RoleManager {
		t.Fatalf("Value() = %v, want Manager", s.Value())
	}
	s.Next()
	if s.Value() != query.RoleFinance {
		t.Errorf("Next() wrapped to %v, want Finance", s.Value())
	}
	s.Prev()
	s.Prev()
	if s.Value() != query.RolePlanner {
		t.Errorf("Prev() x2 = %v, want Planner", s.Value())
	}
}

func TestSelector_UnknownInitialSelectsFirst(t *testing.T) {
	s := NewSelector("Region", query.Regions(), query.Region(42))
	if s.Value() != query.Regions()[0] {
		t.Errorf("Value() = %v, want first option", s.Value())
	}
	if s.Set(query.Region(42)) {
		t.Error("Set(unknown) = true")
	}
}

func TestSelector_View(t *testing.T) {
	s := NewSelector("Region", query.Regions(), query.RegionGlobal)
	out := s.View(true)
	for _, want := range []string{"Region", "India", "‹ Global ›"} {
		if !strings.Contains(out, want) {
			t.Errorf("View() = %q, missing %q", out, want)
		}
	}
	if strings.Contains(s.View(false), "‹") {
		t.Error("unfocused view should not show the focus markers")
	}
}
