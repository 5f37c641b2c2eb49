package stats

import (
	"testing"

	"github.com/paiban/roster/pkg/model"
)

func TestCoverageAnalyzerFullCoverage(t *testing.T) {
	analyzer := NewCoverageAnalyzer()

	var required, coverage model.DemandMatrix
	required[0][9] = 4
	coverage[0][9] = 4

	metrics := analyzer.Analyze(model.SolverResult{Required: required, Coverage: coverage})

	if metrics.OverallCoverage != 100 {
		t.Errorf("expected 100%% coverage, got %.1f%%", metrics.OverallCoverage)
	}
	if metrics.DemandSatisfaction != 100 {
		t.Errorf("expected 100%% demand satisfaction, got %.1f%%", metrics.DemandSatisfaction)
	}
	if len(metrics.Understaffed) != 0 {
		t.Errorf("expected 0 understaffed hours, got %d", len(metrics.Understaffed))
	}
}

func TestCoverageAnalyzerPartialCoverage(t *testing.T) {
	analyzer := NewCoverageAnalyzer()

	var required, coverage model.DemandMatrix
	required[0][9] = 4
	coverage[0][9] = 2

	metrics := analyzer.Analyze(model.SolverResult{Required: required, Coverage: coverage})

	if metrics.OverallCoverage != 50 {
		t.Errorf("expected 50%% coverage, got %.1f%%", metrics.OverallCoverage)
	}
	if len(metrics.Understaffed) != 1 {
		t.Fatalf("expected 1 understaffed hour, got %d", len(metrics.Understaffed))
	}
	u := metrics.Understaffed[0]
	if u.Day != 0 || u.Hour != 9 || u.Shortage != 2 {
		t.Errorf("unexpected understaffed entry: %+v", u)
	}
}

func TestCoverageAnalyzerEmptyInput(t *testing.T) {
	analyzer := NewCoverageAnalyzer()

	metrics := analyzer.Analyze(model.SolverResult{})

	if metrics.OverallCoverage != 100 {
		t.Errorf("all-zero demand should report 100%% coverage, got %.1f%%", metrics.OverallCoverage)
	}
	if len(metrics.DailyCoverage) != 7 {
		t.Errorf("expected 7 daily coverage entries, got %d", len(metrics.DailyCoverage))
	}
}

func TestCoverageAnalyzerOvercoverageDoesNotInflateSatisfaction(t *testing.T) {
	analyzer := NewCoverageAnalyzer()

	var required, coverage model.DemandMatrix
	required[2][14] = 3
	coverage[2][14] = 10

	metrics := analyzer.Analyze(model.SolverResult{Required: required, Coverage: coverage})

	if metrics.DemandSatisfaction != 100 {
		t.Errorf("overcoverage should cap demand satisfaction at 100%%, got %.1f%%", metrics.DemandSatisfaction)
	}
	if metrics.OverallCoverage <= 100 {
		t.Errorf("overall coverage should reflect the surplus headcount, got %.1f%%", metrics.OverallCoverage)
	}
}

func TestGenerateCoverageReportIncludesUnderstaffedHours(t *testing.T) {
	analyzer := NewCoverageAnalyzer()

	var required, coverage model.DemandMatrix
	required[3][20] = 5
	coverage[3][20] = 1

	metrics := analyzer.Analyze(model.SolverResult{Required: required, Coverage: coverage})
	report := analyzer.GenerateCoverageReport(metrics)

	if report == "" {
		t.Fatal("expected a non-empty report")
	}
}
