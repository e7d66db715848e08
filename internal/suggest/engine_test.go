package suggest

import (
	"testing"

	"github.com/blackwell-systems/platovue/internal/analyzer"
	"github.com/blackwell-systems/platovue/internal/scanner"
)

func TestEngine_EmptyContext(t *testing.T) {
	if got := NewEngine().Run(&AnalysisContext{}); len(got) != 0 {
		t.Errorf("expected no suggestions, got %d", len(got))
	}
}

func TestEngine_RanksByImpact(t *testing.T) {
	results := []analyzer.Result{
		res("Legacy.js", scanner.CategoryScript, 20, 15, 400),
		res("Small.vue", scanner.CategoryComponent, 90, 1, 20),
	}
	ctx := &AnalysisContext{
		Results: results,
		Summary: analyzer.Summarize(results),
		Skipped: []string{"Icon.vue"},
	}

	got := NewEngine().Run(ctx)
	if len(got) < 4 {
		t.Fatalf("expected at least 4 suggestions, got %d", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].ImpactScore > got[i-1].ImpactScore {
			t.Fatalf("suggestions not sorted at %d: %.2f > %.2f", i, got[i].ImpactScore, got[i-1].ImpactScore)
		}
	}
	if got[0].Category != "maintainability" {
		t.Errorf("expected the low-tier refactor first, got %+v", got[0])
	}
	if last := got[len(got)-1]; last.Category != "coverage" {
		t.Errorf("expected the zero-impact coverage note last, got %+v", last)
	}
}

func TestRankSuggestions_TiesByPriority(t *testing.T) {
	in := []Suggestion{
		{Title: "low", Priority: PriorityLow, ImpactScore: 1},
		{Title: "critical", Priority: PriorityCritical, ImpactScore: 1},
		{Title: "top", Priority: PriorityMedium, ImpactScore: 5},
	}
	got := RankSuggestions(in)
	if got[0].Title != "top" || got[1].Title != "critical" || got[2].Title != "low" {
		t.Errorf("unexpected order: %+v", got)
	}
	if in[0].Title != "low" {
		t.Error("input slice should not be reordered")
	}
}

func TestComputeImpact(t *testing.T) {
	if got := ComputeImpact(100, 0.5, 4, 2); got != 100 {
		t.Errorf("expected 100, got %v", got)
	}
	if got := ComputeImpact(100, 1, 1, 0); got != 0 {
		t.Errorf("expected 0 for zero effort, got %v", got)
	}
}

func TestPriorityName(t *testing.T) {
	for p, want := range map[int]string{PriorityCritical: "CRITICAL", PriorityMedium: "MEDIUM", 9: "UNKNOWN"} {
		if got := PriorityName(p); got != want {
			t.Errorf("PriorityName(%d) = %q, want %q", p, got, want)
		}
	}
}
