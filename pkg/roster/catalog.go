// Package roster 实现每周人力排班的约束求解核心：模板枚举、剪枝、
// 整数规划建模与求解、以及将解还原为具体排班方案。
package roster

// ftStarts FT 的开班小时目录；>=20 的班次会跨夜
var ftStarts = []int{5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 20, 21, 22, 23}

// ptWptStarts PT / WPT 共用的开班小时目录
var ptWptStarts = rangeInts(5, 20)

// wftStarts WFT 的开班小时目录，只在白天出勤，不跨夜
var wftStarts = rangeInts(5, 15)

func rangeInts(lo, hi int) []int {
	out := make([]int, 0, hi-lo+1)
	for v := lo; v <= hi; v++ {
		out = append(out, v)
	}
	return out
}

// breakPair 一对半时段休息 (bs1, bs2)，满足 4<=bs1, bs2<=13, bs2>=bs1+4
type breakPair struct {
	bs1, bs2 int
}

// breakPairs 枚举全部 21 组合法休息配对
func breakPairs() []breakPair {
	pairs := make([]breakPair, 0, 21)
	for bs1 := 4; bs1 <= 9; bs1++ {
		for bs2 := bs1 + 4; bs2 <= 13; bs2++ {
			pairs = append(pairs, breakPair{bs1: bs1, bs2: bs2})
		}
	}
	return pairs
}

const (
	ftShiftHours  = 9
	ptShiftHours  = 4
	maxPerKey     = 500 // §4.3 每个模板变量的上界，约束求解器的搜索空间
	defaultSolveS = 120 // 秒，§4.4 的求解墙钟预算
)

// weekdaySet 返回允许的固定休息日集合：allowWeekendDayOff 为真时是全周，
// 否则只能落在周一到周五
func weekdaySet(allowWeekendDayOff bool) []int {
	if allowWeekendDayOff {
		return []int{0, 1, 2, 3, 4, 5, 6}
	}
	return []int{0, 1, 2, 3, 4}
}
