package roster

import "github.com/paiban/roster/pkg/model"

// ftKey 标识一个 FT 模板：开班小时、固定休息日、两个休息半时段
type ftKey struct {
	start, dayOff, bs1, bs2 int
}

// ptKey 标识一个 PT 模板：开班小时、固定休息日
type ptKey struct {
	start, dayOff int
}

// wftKey 标识一个 WFT 模板：开班小时、两个休息半时段；休息日隐含为周一到周五
type wftKey struct {
	start, bs1, bs2 int
}

// wptKey 标识一个 WPT 模板：仅开班小时；休息日隐含为周一到周五
type wptKey struct {
	start int
}

// candidates 是枚举+剪枝阶段（§4.2）的产出：四组存活下来的模板键
type candidates struct {
	ft  []ftKey
	pt  []ptKey
	wft []wftKey
	wpt []wptKey
}

// ftWorkDays FT/PT 的出勤日：一周七天去掉固定休息日
func ftWorkDays(dayOff int) []int {
	days := make([]int, 0, 6)
	for d := 0; d < 7; d++ {
		if d != dayOff {
			days = append(days, d)
		}
	}
	return days
}

// weekendWorkDays WFT/WPT 固定出勤周六、周日
func weekendWorkDays() []int { return []int{5, 6} }

// cell 把一个（出勤日, 窗口内第 i 小时）翻译为实际的（日历日, 日历小时）；
// i 越过 24 表示跨夜，落到下一个日历日。
func cell(workDay, rawHour int) (day, hour int) {
	if rawHour < 24 {
		return workDay, rawHour
	}
	return (workDay + 1) % 7, rawHour - 24
}

// isActive 判断某班次窗口在给定出勤日集合上是否至少触达一个正需求格
func isActive(required model.DemandMatrix, start, shiftLen int, workDays []int) bool {
	for _, wd := range workDays {
		for i := 0; i < shiftLen; i++ {
			d, h := cell(wd, start+i)
			if required[d][h] > 0 {
				return true
			}
		}
	}
	return false
}

// peakHours 返回某出勤日上，[start, start+8] 原始小时窗口内需求（oph）最大的
// 原始小时集合；窗口内需求全为零时返回空集（§4.2 峰值规避规则）。
func peakHours(oph model.DemandMatrix, start, workDay int) []int {
	max := 0
	var hours []int
	for i := 0; i <= 8; i++ {
		raw := start + i
		d, h := cell(workDay, raw)
		v := oph[d][h]
		switch {
		case v > max:
			max = v
			hours = []int{raw}
		case v == max && v > 0:
			hours = append(hours, raw)
		}
	}
	if max == 0 {
		return nil
	}
	return hours
}

// breakValid 检查一个半时段 b 是否在给定出勤日集合的所有峰值小时上都满足
// 「中心严格距离超过一个日历小时」的规避规则
func breakValid(oph model.DemandMatrix, start int, workDays []int, b int) bool {
	for _, wd := range workDays {
		for _, p := range peakHours(oph, start, wd) {
			diff := 2*start + b - 2*p
			if diff < 0 {
				diff = -diff
			}
			if diff <= 2 {
				return false
			}
		}
	}
	return true
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// enumerate 生成四类模板的候选键并剪枝掉不活跃或违反峰值规避规则的组合
func enumerate(input model.SolverInput, n normalized) candidates {
	var out candidates
	pairs := breakPairs()

	for _, s := range ftStarts {
		for _, off := range n.dayOffSet {
			workDays := ftWorkDays(off)
			if !isActive(n.required, s, ftShiftHours, workDays) {
				continue
			}
			for _, bp := range pairs {
				if breakValid(input.Oph, s, workDays, bp.bs1) && breakValid(input.Oph, s, workDays, bp.bs2) {
					out.ft = append(out.ft, ftKey{start: s, dayOff: off, bs1: bp.bs1, bs2: bp.bs2})
				}
			}
		}
	}

	if n.usePT {
		for _, s := range ptWptStarts {
			for _, off := range n.dayOffSet {
				if isActive(n.required, s, ptShiftHours, ftWorkDays(off)) {
					out.pt = append(out.pt, ptKey{start: s, dayOff: off})
				}
			}
		}
	}

	if n.useWFT {
		workDays := weekendWorkDays()
		for _, s := range wftStarts {
			if !isActive(n.required, s, ftShiftHours, workDays) {
				continue
			}
			for _, bp := range pairs {
				if breakValid(input.Oph, s, workDays, bp.bs1) && breakValid(input.Oph, s, workDays, bp.bs2) {
					out.wft = append(out.wft, wftKey{start: s, bs1: bp.bs1, bs2: bp.bs2})
				}
			}
		}
	}

	if n.useWPT {
		workDays := weekendWorkDays()
		for _, s := range ptWptStarts {
			if isActive(n.required, s, ptShiftHours, workDays) {
				out.wpt = append(out.wpt, wptKey{start: s})
			}
		}
	}

	return out
}
