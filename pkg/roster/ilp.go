package roster

import (
	"fmt"
	"time"

	"github.com/nextmv-io/sdk/mip"
)

// Options 控制求解过程，但不改变 solve(input) -> result 的纯函数契约：
// 调用方显式传入，内部不读取任何全局或环境状态。
type Options struct {
	// MaxPerTemplate 单个模板变量的人数上界，用于约束求解器的搜索空间
	MaxPerTemplate int
	// SolveTimeout 求解墙钟预算
	SolveTimeout time.Duration
	// Verbose 是否让底层求解器打印进度日志
	Verbose bool
}

// DefaultOptions 对应 §4.4/§9 的默认求解参数
func DefaultOptions() Options {
	return Options{
		MaxPerTemplate: maxPerKey,
		SolveTimeout:   defaultSolveS * time.Second,
	}
}

type cellKey struct{ day, hour int }

type ftVarRec struct {
	key ftKey
	v   mip.Int
}

type ptVarRec struct {
	key ptKey
	v   mip.Int
}

type wftVarRec struct {
	key wftKey
	v   mip.Int
}

type wptVarRec struct {
	key wptKey
	v   mip.Int
}

// builtModel 承载模型和变量记录，求解完成后由 materialize 读取变量取值
type builtModel struct {
	m    mip.Model
	ft   []ftVarRec
	pt   []ptVarRec
	wft  []wftVarRec
	wpt  []wptVarRec
}

// ftBreakWeight 班次第 i 个小时（i=0..8）在休息配对 (bs1,bs2) 下的覆盖权重：
// 命中任一休息半时段记 1，否则记 2（§4.3）
func ftBreakWeight(i, bs1, bs2 int) int {
	if bs1 == 2*i || bs1 == 2*i+1 || bs2 == 2*i || bs2 == 2*i+1 {
		return 1
	}
	return 2
}

// shiftContribution 把一个班次模板的出勤窗口翻译成「日历格 -> 权重」的累加表
func shiftContribution(start int, workDays []int, shiftLen int, weightOf func(i int) int) map[cellKey]int {
	out := make(map[cellKey]int)
	for _, wd := range workDays {
		for i := 0; i < shiftLen; i++ {
			d, h := cell(wd, start+i)
			out[cellKey{day: d, hour: h}] += weightOf(i)
		}
	}
	return out
}

// build 构建 §4.3 描述的覆盖约束、占比上限约束与目标函数
func build(n normalized, c candidates, opts Options) builtModel {
	m := mip.NewModel()
	m.Objective().SetMinimize()

	bm := builtModel{m: m}

	for _, k := range c.ft {
		v := m.NewInt(0, opts.MaxPerTemplate)
		m.Objective().NewTerm(2, v)
		bm.ft = append(bm.ft, ftVarRec{key: k, v: v})
	}
	for _, k := range c.pt {
		v := m.NewInt(0, opts.MaxPerTemplate)
		m.Objective().NewTerm(1, v)
		bm.pt = append(bm.pt, ptVarRec{key: k, v: v})
	}
	for _, k := range c.wft {
		v := m.NewInt(0, opts.MaxPerTemplate)
		m.Objective().NewTerm(2, v)
		bm.wft = append(bm.wft, wftVarRec{key: k, v: v})
	}
	for _, k := range c.wpt {
		v := m.NewInt(0, opts.MaxPerTemplate)
		m.Objective().NewTerm(1, v)
		bm.wpt = append(bm.wpt, wptVarRec{key: k, v: v})
	}

	cov := make(map[cellKey]mip.Constraint)
	getCov := func(d, h int) mip.Constraint {
		ck := cellKey{day: d, hour: h}
		if con, ok := cov[ck]; ok {
			return con
		}
		con := m.NewConstraint(mip.GreaterThanOrEqual, float64(2*n.required[d][h]))
		cov[ck] = con
		return con
	}

	addContribution := func(v mip.Int, contrib map[cellKey]int) {
		for ck, w := range contrib {
			if n.required[ck.day][ck.hour] <= 0 || w == 0 {
				continue
			}
			getCov(ck.day, ck.hour).NewTerm(float64(w), v)
		}
	}

	for _, r := range bm.ft {
		workDays := ftWorkDays(r.key.dayOff)
		contrib := shiftContribution(r.key.start, workDays, ftShiftHours, func(i int) int {
			return ftBreakWeight(i, r.key.bs1, r.key.bs2)
		})
		addContribution(r.v, contrib)
	}
	for _, r := range bm.pt {
		workDays := ftWorkDays(r.key.dayOff)
		contrib := shiftContribution(r.key.start, workDays, ptShiftHours, func(int) int { return 2 })
		addContribution(r.v, contrib)
	}
	for _, r := range bm.wft {
		workDays := weekendWorkDays()
		contrib := shiftContribution(r.key.start, workDays, ftShiftHours, func(i int) int {
			return ftBreakWeight(i, r.key.bs1, r.key.bs2)
		})
		addContribution(r.v, contrib)
	}
	for _, r := range bm.wpt {
		workDays := weekendWorkDays()
		contrib := shiftContribution(r.key.start, workDays, ptShiftHours, func(int) int { return 2 })
		addContribution(r.v, contrib)
	}

	addShareCap(m, n.capPartTimer(),
		append(ftVarsOfPT(bm.pt), ftVarsOfWPT(bm.wpt)...),
		append(ftVarsOfFT(bm.ft), ftVarsOfWFT(bm.wft)...))
	addShareCap(m, n.capWeekender(),
		append(ftVarsOfWFT(bm.wft), ftVarsOfWPT(bm.wpt)...),
		append(ftVarsOfFT(bm.ft), ftVarsOfPT(bm.pt)...))

	return bm
}

// ftVarsOfFT/PT/WFT/WPT 把各自的变量记录切片拍平成 mip.Int 句柄切片，
// 供 addShareCap 在不关心具体模板类型的情况下按需组合分子/分母。
func ftVarsOfFT(rs []ftVarRec) []mip.Int {
	out := make([]mip.Int, len(rs))
	for i, r := range rs {
		out[i] = r.v
	}
	return out
}

func ftVarsOfPT(rs []ptVarRec) []mip.Int {
	out := make([]mip.Int, len(rs))
	for i, r := range rs {
		out[i] = r.v
	}
	return out
}

func ftVarsOfWFT(rs []wftVarRec) []mip.Int {
	out := make([]mip.Int, len(rs))
	for i, r := range rs {
		out[i] = r.v
	}
	return out
}

func ftVarsOfWPT(rs []wptVarRec) []mip.Int {
	out := make([]mip.Int, len(rs))
	for i, r := range rs {
		out[i] = r.v
	}
	return out
}

// addShareCap 添加 (100-cap)*(numerator vars) <= cap*(denominator vars)，
// 仅当 cap<100 且分子侧变量集合非空时才生成约束（§4.3、§7）。
//
// numerator/denominator 由调用方按语义拍平为 mip.Int 句柄切片传入——
// 既可以表示兼职占比上限也可以表示周末工占比上限，不绑定具体模板类型。
func addShareCap(m mip.Model, cap int, numerator, denominator []mip.Int) {
	if cap >= 100 {
		return
	}
	if len(numerator) == 0 {
		return
	}
	con := m.NewConstraint(mip.LessThanOrEqual, 0)
	coeffNum := float64(100 - cap)
	coeffDen := -float64(cap)
	for _, v := range numerator {
		con.NewTerm(coeffNum, v)
	}
	for _, v := range denominator {
		con.NewTerm(coeffDen, v)
	}
}

func (n normalized) capPartTimer() int { return n.partTimerCapPct }
func (n normalized) capWeekender() int { return n.weekenderCapPct }

// solve 把构建好的模型交给 HiGHS 求解，返回求解器给出的原始解或错误；
// 求解器状态到 §4.4 三态结果的映射由 SolveWithOptions 完成
func solve(bm builtModel, opts Options) (mip.Solution, error) {
	solver, err := mip.NewSolver(mip.Highs, bm.m)
	if err != nil {
		return nil, fmt.Errorf("创建求解器失败: %w", err)
	}

	solveOpts := mip.SolveOptions{}
	solveOpts.Limits.Duration = opts.SolveTimeout
	if opts.Verbose {
		solveOpts.Verbosity = mip.Medium
	} else {
		solveOpts.Verbosity = mip.Off
	}

	solution, err := solver.Solve(solveOpts)
	if err != nil {
		return nil, fmt.Errorf("求解器运行失败: %w", err)
	}
	return solution, nil
}
