package roster

import (
	"testing"
	"time"

	"github.com/paiban/roster/pkg/model"
)

func flatOph(perHour int, days ...int) model.SolverInput {
	var oph model.DemandMatrix
	dayset := make(map[int]bool)
	for _, d := range days {
		dayset[d] = true
	}
	for d := 0; d < 7; d++ {
		if len(days) > 0 && !dayset[d] {
			continue
		}
		for h := 9; h < 18; h++ {
			oph[d][h] = perHour
		}
	}
	return model.SolverInput{
		Oph: oph,
		Config: model.Config{
			ProductivityRate:   5,
			PartTimerCapPct:    0,
			WeekenderCapPct:    0,
			AllowWeekendDayOff: false,
		},
	}
}

func sumCoverage(m model.DemandMatrix) int {
	total := 0
	for d := 0; d < 7; d++ {
		for h := 0; h < 24; h++ {
			total += m[d][h]
		}
	}
	return total
}

// TestSolveAllZeroDemand 覆盖 S1：需求全零时应直接返回空方案，不触发求解器
func TestSolveAllZeroDemand(t *testing.T) {
	input := model.SolverInput{
		Config: model.Config{ProductivityRate: 5},
	}
	result := Solve(input)
	if result.Status != model.StatusOptimal {
		t.Fatalf("status = %s, want optimal", result.Status)
	}
	if result.TotalWorkers != 0 {
		t.Fatalf("totalWorkers = %d, want 0", result.TotalWorkers)
	}
	if len(result.Workers) != 0 {
		t.Fatalf("workers = %v, want empty", result.Workers)
	}
}

// TestSolveInvalidInput 覆盖非法输入：productivityRate<=0 应返回 status=error
func TestSolveInvalidInput(t *testing.T) {
	input := model.SolverInput{
		Config: model.Config{ProductivityRate: 0},
	}
	result := Solve(input)
	if result.Status != model.StatusError {
		t.Fatalf("status = %s, want error", result.Status)
	}
	if result.ErrorMessage == "" {
		t.Fatal("want non-empty errorMessage")
	}
}

// TestSolveInvalidDemand 覆盖负数需求：应返回 status=error
func TestSolveInvalidDemand(t *testing.T) {
	input := flatOph(10)
	input.Oph[0][9] = -1
	result := Solve(input)
	if result.Status != model.StatusError {
		t.Fatalf("status = %s, want error", result.Status)
	}
}

// TestSolveWeekdayDemandCoversRequired 覆盖基础可行场景：工作日白天平坦需求，
// 验证求得的覆盖矩阵在每个有需求的格子上都不小于必需人力（不变式 1）
func TestSolveWeekdayDemandCoversRequired(t *testing.T) {
	input := flatOph(10, 0, 1, 2, 3, 4)
	result := SolveWithOptions(input, Options{MaxPerTemplate: 50, SolveTimeout: defaultTestTimeout()})
	if result.Status != model.StatusOptimal {
		t.Fatalf("status = %s, want optimal, msg=%s", result.Status, result.ErrorMessage)
	}
	for d := 0; d < 7; d++ {
		for h := 0; h < 24; h++ {
			if result.Coverage[d][h] < result.Required[d][h] {
				t.Fatalf("coverage[%d][%d]=%d < required=%d", d, h, result.Coverage[d][h], result.Required[d][h])
			}
		}
	}
	if result.TotalWorkers != len(result.Workers) {
		t.Fatalf("totalWorkers=%d != len(workers)=%d", result.TotalWorkers, len(result.Workers))
	}
	if result.TotalWorkers != result.FTCount+result.PTCount+result.WFTCount+result.WPTCount {
		t.Fatal("totalWorkers must equal the sum of per-type counts")
	}
}

// TestSolveWorkerIDsUnique 覆盖不变式：每个工人 ID 在结果内唯一
func TestSolveWorkerIDsUnique(t *testing.T) {
	input := flatOph(10, 0, 1, 2, 3, 4)
	result := SolveWithOptions(input, Options{MaxPerTemplate: 50, SolveTimeout: defaultTestTimeout()})
	seen := make(map[int]bool)
	for _, w := range result.Workers {
		if seen[w.ID] {
			t.Fatalf("duplicate worker id %d", w.ID)
		}
		seen[w.ID] = true
	}
}

// TestSolveFTBreakWithinShift 覆盖不变式：FT/WFT 的两个休息半时段必须落在
// 班次的 18 个半时段窗口内，且满足 bs2>=bs1+4
func TestSolveFTBreakWithinShift(t *testing.T) {
	input := flatOph(10, 0, 1, 2, 3, 4)
	result := SolveWithOptions(input, Options{MaxPerTemplate: 50, SolveTimeout: defaultTestTimeout()})
	for _, w := range result.Workers {
		if !w.Type.HasBreaks() {
			continue
		}
		if len(w.BreakHalfSlots) != 2 {
			t.Fatalf("worker %d: want 2 break half-slots, got %v", w.ID, w.BreakHalfSlots)
		}
		bs1, bs2 := w.BreakHalfSlots[0], w.BreakHalfSlots[1]
		if bs1 < 4 || bs2 > 13 || bs2 < bs1+4 {
			t.Fatalf("worker %d: invalid break pair (%d, %d)", w.ID, bs1, bs2)
		}
	}
}

// TestSolvePartTimerCapRespected 覆盖占比上限：partTimerCapPct=0 时不得出现 PT/WPT
func TestSolvePartTimerCapRespected(t *testing.T) {
	input := flatOph(10, 0, 1, 2, 3, 4)
	input.Config.PartTimerCapPct = 0
	result := SolveWithOptions(input, Options{MaxPerTemplate: 50, SolveTimeout: defaultTestTimeout()})
	if result.PTCount != 0 || result.WPTCount != 0 {
		t.Fatalf("partTimerCapPct=0 but got PTCount=%d WPTCount=%d", result.PTCount, result.WPTCount)
	}
}

// TestSolveOvernightWraparound 覆盖 S6：夜间需求迫使跨夜班次出现，覆盖矩阵
// 中的溢出小时应正确落在下一日历日
func TestSolveOvernightWraparound(t *testing.T) {
	var oph model.DemandMatrix
	for h := 20; h < 24; h++ {
		oph[0][h] = 10
	}
	oph[1][0] = 10
	oph[1][1] = 10
	input := model.SolverInput{
		Oph: oph,
		Config: model.Config{
			ProductivityRate:   5,
			AllowWeekendDayOff: false,
		},
	}
	result := SolveWithOptions(input, Options{MaxPerTemplate: 50, SolveTimeout: defaultTestTimeout()})
	if result.Status != model.StatusOptimal {
		t.Fatalf("status = %s, want optimal, msg=%s", result.Status, result.ErrorMessage)
	}
	if result.Coverage[1][0] < result.Required[1][0] || result.Coverage[1][1] < result.Required[1][1] {
		t.Fatalf("overnight spill hours not covered: coverage=%v required=%v", result.Coverage[1], result.Required[1])
	}
}

func defaultTestTimeout() time.Duration {
	return DefaultOptions().SolveTimeout
}
