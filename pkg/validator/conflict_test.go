package validator

import (
	"testing"

	"github.com/paiban/roster/pkg/model"
	"github.com/paiban/roster/pkg/roster"
)

func TestManagerAuditCleanSolution(t *testing.T) {
	var oph model.DemandMatrix
	for d := 0; d < 5; d++ {
		for h := 9; h < 18; h++ {
			oph[d][h] = 10
		}
	}
	input := model.SolverInput{
		Oph:    oph,
		Config: model.Config{ProductivityRate: 5},
	}
	result := roster.Solve(input)

	report := NewManager().Audit(input, result)
	if !report.Valid {
		t.Fatalf("expected a valid report, got hard violations: %v", report.HardViolations)
	}
}

func TestManagerAuditCatchesCoverageShortfall(t *testing.T) {
	oneDay := model.DemandMatrix{}
	oneDay[0][9] = 10

	input := model.SolverInput{
		Oph:    oneDay,
		Config: model.Config{ProductivityRate: 5},
	}
	result := roster.Solve(input)
	// 人为捅破一个覆盖格子
	result.Coverage[0][9] = 0

	report := NewManager().Audit(input, result)
	if report.Valid {
		t.Fatal("expected coverage shortfall to be flagged")
	}
	found := false
	for _, v := range report.HardViolations {
		if v.Type == TypeCoverage {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a coverage violation, got %v", report.HardViolations)
	}
}

func TestManagerAuditCatchesDuplicateID(t *testing.T) {
	result := model.SolverResult{
		Status: model.StatusOptimal,
		Workers: []model.Worker{
			{ID: 1, Type: model.WorkerPT, DayOff: intPtr(0)},
			{ID: 1, Type: model.WorkerPT, DayOff: intPtr(1)},
		},
		TotalWorkers: 2,
		PTCount:      2,
	}
	input := model.SolverInput{Config: model.Config{ProductivityRate: 5}}

	report := NewManager().Audit(input, result)
	if report.Valid {
		t.Fatal("expected duplicate worker id to be flagged")
	}
}

func TestManagerAuditCatchesBadBreakWindow(t *testing.T) {
	result := model.SolverResult{
		Status: model.StatusOptimal,
		Workers: []model.Worker{
			{ID: 1, Type: model.WorkerFT, DayOff: intPtr(0), BreakHalfSlots: []int{1, 2}},
		},
		TotalWorkers: 1,
		FTCount:      1,
	}
	input := model.SolverInput{Config: model.Config{ProductivityRate: 5}}

	report := NewManager().Audit(input, result)
	if report.Valid {
		t.Fatal("expected out-of-window break pair to be flagged")
	}
}

func TestManagerAuditCatchesDayOffShapeMismatch(t *testing.T) {
	result := model.SolverResult{
		Status: model.StatusOptimal,
		Workers: []model.Worker{
			{ID: 1, Type: model.WorkerWFT, DayOff: intPtr(2), BreakHalfSlots: []int{4, 8}},
		},
		TotalWorkers: 1,
		WFTCount:     1,
	}
	input := model.SolverInput{Config: model.Config{ProductivityRate: 5}}

	report := NewManager().Audit(input, result)
	if report.Valid {
		t.Fatal("expected a weekend-only worker carrying dayOff to be flagged")
	}
}

func intPtr(v int) *int { return &v }
