package roster

import (
	"time"

	"github.com/paiban/roster/pkg/model"
)

// Solve 是对外的唯一入口：solve(input) -> result，纯函数，不读写任何共享状态，
// 可以安全地被多个 goroutine 并发调用（§1、§9）。
func Solve(input model.SolverInput) model.SolverResult {
	return SolveWithOptions(input, DefaultOptions())
}

// SolveWithOptions 同 Solve，但允许调用方覆盖求解预算与变量上界
func SolveWithOptions(input model.SolverInput, opts Options) model.SolverResult {
	start := time.Now()

	n, err := normalize(input)
	if err != nil {
		return model.ZeroResult(model.StatusError, model.DemandMatrix{}, elapsedMs(start), err.Error())
	}

	if isAllZero(n.required) {
		return model.SolverResult{
			Status:       model.StatusOptimal,
			TotalWorkers: 0,
			Coverage:     model.DemandMatrix{},
			Required:     n.required,
			SolveTimeMs:  elapsedMs(start),
		}
	}

	cands := enumerate(input, n)
	if len(cands.ft)+len(cands.pt)+len(cands.wft)+len(cands.wpt) == 0 {
		return model.ZeroResult(
			model.StatusInfeasible,
			n.required,
			elapsedMs(start),
			"没有任何候选班次模板能够覆盖给定的需求矩阵",
		)
	}

	bm := build(n, cands, opts)

	solution, err := solve(bm, opts)
	if err != nil {
		return model.ZeroResult(model.StatusError, n.required, elapsedMs(start), err.Error())
	}
	if solution == nil || !solution.HasValues() {
		if solution != nil && solution.IsInfeasible() {
			return model.ZeroResult(model.StatusInfeasible, n.required, elapsedMs(start), "在给定约束下不存在可行的排班方案")
		}
		return model.ZeroResult(model.StatusError, n.required, elapsedMs(start), "求解器未能在预算内找到可行解")
	}

	result := materialize(bm, solution, n.required)
	result.SolveTimeMs = elapsedMs(start)
	return result
}

func elapsedMs(start time.Time) int64 {
	return time.Since(start).Milliseconds()
}

func isAllZero(m model.DemandMatrix) bool {
	for d := 0; d < 7; d++ {
		for h := 0; h < 24; h++ {
			if m[d][h] > 0 {
				return false
			}
		}
	}
	return true
}
