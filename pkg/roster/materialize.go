package roster

import (
	"math"
	"sort"

	"github.com/paiban/roster/pkg/model"

	"github.com/nextmv-io/sdk/mip"
)

// sameDayHours 返回班次窗口中落在同一日历日内的小时，按升序排列；
// 跨夜班次的溢出小时不包含在内（§4.5）。
func sameDayHours(start, shiftLen int) []int {
	hours := make([]int, 0, shiftLen)
	for i := 0; i < shiftLen; i++ {
		h := start + i
		if h < 24 {
			hours = append(hours, h)
		}
	}
	sort.Ints(hours)
	return hours
}

// roundCount 把求解器返回的浮点变量值还原为非负整数人头数
func roundCount(v float64) int {
	r := int(math.Round(v))
	if r < 0 {
		return 0
	}
	return r
}

// accumulateCoverage 把一个班次模板对应的 count 名工人计入覆盖见证矩阵：
// 班次触达的每个日历小时，对每个出勤日都累加 count（§4.5）——跨夜溢出的
// 小时沿用建模阶段相同的 cell() 翻译规则，落到 (workDay+1)%7。
func accumulateCoverage(coverage *model.DemandMatrix, start, shiftLen int, workDays []int, count int) {
	if count == 0 {
		return
	}
	for _, wd := range workDays {
		for i := 0; i < shiftLen; i++ {
			d, h := cell(wd, start+i)
			coverage[d][h] += count
		}
	}
}

// materialize 把求解得到的整数变量取值展开为具体工人记录，并重建覆盖见证矩阵
func materialize(bm builtModel, solution mip.Solution, required model.DemandMatrix) model.SolverResult {
	var (
		workers  []model.Worker
		coverage model.DemandMatrix
		nextID   = 1
		ftCount  int
		ptCount  int
		wftCount int
		wptCount int
	)

	for _, r := range bm.ft {
		count := roundCount(solution.Value(r.v))
		if count == 0 {
			continue
		}
		dayOff := r.key.dayOff
		hours := sameDayHours(r.key.start, ftShiftHours)
		for i := 0; i < count; i++ {
			workers = append(workers, model.Worker{
				ID:              nextID,
				Type:            model.WorkerFT,
				ShiftStart:      r.key.start,
				ShiftEnd:        r.key.start + 9,
				DayOff:          &dayOff,
				ProductiveHours: hours,
				BreakHalfSlots:  []int{r.key.bs1, r.key.bs2},
			})
			nextID++
		}
		ftCount += count
		accumulateCoverage(&coverage, r.key.start, ftShiftHours, ftWorkDays(dayOff), count)
	}

	for _, r := range bm.pt {
		count := roundCount(solution.Value(r.v))
		if count == 0 {
			continue
		}
		dayOff := r.key.dayOff
		hours := sameDayHours(r.key.start, ptShiftHours)
		for i := 0; i < count; i++ {
			workers = append(workers, model.Worker{
				ID:              nextID,
				Type:            model.WorkerPT,
				ShiftStart:      r.key.start,
				ShiftEnd:        r.key.start + 4,
				DayOff:          &dayOff,
				ProductiveHours: hours,
			})
			nextID++
		}
		ptCount += count
		accumulateCoverage(&coverage, r.key.start, ptShiftHours, ftWorkDays(dayOff), count)
	}

	for _, r := range bm.wft {
		count := roundCount(solution.Value(r.v))
		if count == 0 {
			continue
		}
		hours := sameDayHours(r.key.start, ftShiftHours)
		for i := 0; i < count; i++ {
			workers = append(workers, model.Worker{
				ID:              nextID,
				Type:            model.WorkerWFT,
				ShiftStart:      r.key.start,
				ShiftEnd:        r.key.start + 9,
				DayOff:          nil,
				ProductiveHours: hours,
				BreakHalfSlots:  []int{r.key.bs1, r.key.bs2},
			})
			nextID++
		}
		wftCount += count
		accumulateCoverage(&coverage, r.key.start, ftShiftHours, weekendWorkDays(), count)
	}

	for _, r := range bm.wpt {
		count := roundCount(solution.Value(r.v))
		if count == 0 {
			continue
		}
		hours := sameDayHours(r.key.start, ptShiftHours)
		for i := 0; i < count; i++ {
			workers = append(workers, model.Worker{
				ID:              nextID,
				Type:            model.WorkerWPT,
				ShiftStart:      r.key.start,
				ShiftEnd:        r.key.start + 4,
				DayOff:          nil,
				ProductiveHours: hours,
			})
			nextID++
		}
		wptCount += count
		accumulateCoverage(&coverage, r.key.start, ptShiftHours, weekendWorkDays(), count)
	}

	return model.SolverResult{
		Status:       model.StatusOptimal,
		Workers:      workers,
		TotalWorkers: ftCount + ptCount + wftCount + wptCount,
		FTCount:      ftCount,
		PTCount:      ptCount,
		WFTCount:     wftCount,
		WPTCount:     wptCount,
		Coverage:     coverage,
		Required:     required,
	}
}
