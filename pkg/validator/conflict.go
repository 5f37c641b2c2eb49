// Package validator 对求解结果做求解后复核：独立地把 solve() 产出的方案
// 重新核对一遍不变式，不信任求解器本身的正确性。
package validator

import (
	"fmt"
	"sort"
	"sync"

	"github.com/paiban/roster/pkg/model"
)

// Type 审计项类型标识
type Type string

const (
	TypeCoverage       Type = "coverage"        // 覆盖不足
	TypeWorkerCount    Type = "worker_count"    // 人数统计不一致
	TypeDuplicateID    Type = "duplicate_id"    // 工人 ID 重复
	TypeBreakWindow    Type = "break_window"    // 休息半时段越界
	TypeDayOffShape    Type = "day_off_shape"   // dayOff 字段形状不符
	TypePartTimerShare Type = "part_timer_share" // 兼职工占比超限
	TypeWeekenderShare Type = "weekender_share" // 周末工占比超限
)

// Category 审计项类别
type Category string

const (
	CategoryHard Category = "hard" // 硬约束：违反即方案不可信
	CategorySoft Category = "soft" // 软约束：超出策略配置但不致命
)

// Violation 单条违反详情
type Violation struct {
	Type     Type   `json:"type"`
	Category Category `json:"category"`
	Message  string `json:"message"`
}

// Context 审计上下文：求解输入加求解结果
type Context struct {
	Input  model.SolverInput
	Result model.SolverResult
}

// Auditor 求解后复核项接口，刻意与求解阶段解耦：只读取 Context，不修改任何状态
type Auditor interface {
	Name() string
	Type() Type
	Category() Category
	Audit(ctx *Context) []Violation
}

// Report 一次完整复核的汇总结果
type Report struct {
	Valid           bool        `json:"valid"`
	HardViolations  []Violation `json:"hardViolations,omitempty"`
	SoftViolations  []Violation `json:"softViolations,omitempty"`
}

// Manager 审计项管理器
type Manager struct {
	auditors []Auditor
	mu       sync.RWMutex
}

// NewManager 创建已注册全部内建审计项的管理器
func NewManager() *Manager {
	m := &Manager{}
	m.Register(coverageAuditor{})
	m.Register(workerCountAuditor{})
	m.Register(duplicateIDAuditor{})
	m.Register(breakWindowAuditor{})
	m.Register(dayOffShapeAuditor{})
	m.Register(partTimerShareAuditor{})
	m.Register(weekenderShareAuditor{})
	return m
}

// Register 注册审计项，同类型的后注册者覆盖先注册者
func (m *Manager) Register(a Auditor) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, existing := range m.auditors {
		if existing.Type() == a.Type() {
			m.auditors[i] = a
			return
		}
	}
	m.auditors = append(m.auditors, a)
	sort.Slice(m.auditors, func(i, j int) bool {
		ai, aj := m.auditors[i], m.auditors[j]
		if ai.Category() != aj.Category() {
			return ai.Category() == CategoryHard
		}
		return ai.Name() < aj.Name()
	})
}

// Audit 对一个求解结果跑完整复核
func (m *Manager) Audit(input model.SolverInput, result model.SolverResult) Report {
	m.mu.RLock()
	auditors := make([]Auditor, len(m.auditors))
	copy(auditors, m.auditors)
	m.mu.RUnlock()

	ctx := &Context{Input: input, Result: result}
	report := Report{Valid: true}
	for _, a := range auditors {
		for _, v := range a.Audit(ctx) {
			if v.Category == CategoryHard {
				report.Valid = false
				report.HardViolations = append(report.HardViolations, v)
			} else {
				report.SoftViolations = append(report.SoftViolations, v)
			}
		}
	}
	return report
}

// coverageAuditor 复核不变式 1：覆盖必须处处不小于必需人力
type coverageAuditor struct{}

func (coverageAuditor) Name() string       { return "覆盖充分性" }
func (coverageAuditor) Type() Type         { return TypeCoverage }
func (coverageAuditor) Category() Category { return CategoryHard }

func (coverageAuditor) Audit(ctx *Context) []Violation {
	if ctx.Result.Status != model.StatusOptimal {
		return nil
	}
	var violations []Violation
	for d := 0; d < 7; d++ {
		for h := 0; h < 24; h++ {
			if ctx.Result.Coverage[d][h] < ctx.Result.Required[d][h] {
				violations = append(violations, Violation{
					Type:     TypeCoverage,
					Category: CategoryHard,
					Message:  fmt.Sprintf("day=%d hour=%d: coverage=%d required=%d", d, h, ctx.Result.Coverage[d][h], ctx.Result.Required[d][h]),
				})
			}
		}
	}
	return violations
}

// workerCountAuditor 复核 totalWorkers 与各分类计数之间的算术一致性
type workerCountAuditor struct{}

func (workerCountAuditor) Name() string       { return "人数统计一致性" }
func (workerCountAuditor) Type() Type         { return TypeWorkerCount }
func (workerCountAuditor) Category() Category { return CategoryHard }

func (workerCountAuditor) Audit(ctx *Context) []Violation {
	r := ctx.Result
	sum := r.FTCount + r.PTCount + r.WFTCount + r.WPTCount
	var violations []Violation
	if sum != r.TotalWorkers {
		violations = append(violations, Violation{
			Type:     TypeWorkerCount,
			Category: CategoryHard,
			Message:  fmt.Sprintf("totalWorkers=%d 但分类计数之和=%d", r.TotalWorkers, sum),
		})
	}
	if len(r.Workers) != 0 && len(r.Workers) != r.TotalWorkers {
		violations = append(violations, Violation{
			Type:     TypeWorkerCount,
			Category: CategoryHard,
			Message:  fmt.Sprintf("totalWorkers=%d 但 workers 数组长度=%d", r.TotalWorkers, len(r.Workers)),
		})
	}
	return violations
}

// duplicateIDAuditor 复核工人 ID 在结果内唯一
type duplicateIDAuditor struct{}

func (duplicateIDAuditor) Name() string       { return "工人 ID 唯一性" }
func (duplicateIDAuditor) Type() Type         { return TypeDuplicateID }
func (duplicateIDAuditor) Category() Category { return CategoryHard }

func (duplicateIDAuditor) Audit(ctx *Context) []Violation {
	seen := make(map[int]bool)
	var violations []Violation
	for _, w := range ctx.Result.Workers {
		if seen[w.ID] {
			violations = append(violations, Violation{
				Type:     TypeDuplicateID,
				Category: CategoryHard,
				Message:  fmt.Sprintf("worker id %d 重复出现", w.ID),
			})
		}
		seen[w.ID] = true
	}
	return violations
}

// breakWindowAuditor 复核 FT/WFT 的休息半时段落在合法窗口内
type breakWindowAuditor struct{}

func (breakWindowAuditor) Name() string       { return "休息时段合法性" }
func (breakWindowAuditor) Type() Type         { return TypeBreakWindow }
func (breakWindowAuditor) Category() Category { return CategoryHard }

func (breakWindowAuditor) Audit(ctx *Context) []Violation {
	var violations []Violation
	for _, w := range ctx.Result.Workers {
		if !w.Type.HasBreaks() {
			if len(w.BreakHalfSlots) != 0 {
				violations = append(violations, Violation{
					Type:     TypeBreakWindow,
					Category: CategoryHard,
					Message:  fmt.Sprintf("worker %d 类型 %s 不含休息，但 breakHalfSlots=%v", w.ID, w.Type, w.BreakHalfSlots),
				})
			}
			continue
		}
		if len(w.BreakHalfSlots) != 2 {
			violations = append(violations, Violation{
				Type:     TypeBreakWindow,
				Category: CategoryHard,
				Message:  fmt.Sprintf("worker %d 应有 2 个休息半时段，实际 %v", w.ID, w.BreakHalfSlots),
			})
			continue
		}
		bs1, bs2 := w.BreakHalfSlots[0], w.BreakHalfSlots[1]
		if bs1 < 4 || bs2 > 13 || bs2 < bs1+4 {
			violations = append(violations, Violation{
				Type:     TypeBreakWindow,
				Category: CategoryHard,
				Message:  fmt.Sprintf("worker %d 休息半时段 (%d,%d) 不满足 4<=bs1, bs2<=13, bs2>=bs1+4", w.ID, bs1, bs2),
			})
		}
	}
	return violations
}

// dayOffShapeAuditor 复核 dayOff 字段的 nil 形状：FT/PT 必须非 nil，WFT/WPT 必须为 nil
type dayOffShapeAuditor struct{}

func (dayOffShapeAuditor) Name() string       { return "固定休息日形状" }
func (dayOffShapeAuditor) Type() Type         { return TypeDayOffShape }
func (dayOffShapeAuditor) Category() Category { return CategoryHard }

func (dayOffShapeAuditor) Audit(ctx *Context) []Violation {
	var violations []Violation
	for _, w := range ctx.Result.Workers {
		wantNil := w.Type.IsWeekendOnly()
		if wantNil && w.DayOff != nil {
			violations = append(violations, Violation{
				Type:     TypeDayOffShape,
				Category: CategoryHard,
				Message:  fmt.Sprintf("worker %d 类型 %s 不应有 dayOff，实际为 %d", w.ID, w.Type, *w.DayOff),
			})
		}
		if !wantNil && w.DayOff == nil {
			violations = append(violations, Violation{
				Type:     TypeDayOffShape,
				Category: CategoryHard,
				Message:  fmt.Sprintf("worker %d 类型 %s 应有 dayOff，实际为 nil", w.ID, w.Type),
			})
		}
	}
	return violations
}

// partTimerShareAuditor 复核 PT/WPT 合计占比不超过策略配置的上限（软约束：
// 占比按向下取整的整数百分比计算，不超过上限加 1 个百分点时不报告）
type partTimerShareAuditor struct{}

func (partTimerShareAuditor) Name() string       { return "兼职工占比" }
func (partTimerShareAuditor) Type() Type         { return TypePartTimerShare }
func (partTimerShareAuditor) Category() Category { return CategorySoft }

func (partTimerShareAuditor) Audit(ctx *Context) []Violation {
	cap := ctx.Input.Config.PartTimerCapPct
	if cap <= 0 || cap >= 100 {
		return nil
	}
	r := ctx.Result
	if r.TotalWorkers == 0 {
		return nil
	}
	share := (r.PTCount + r.WPTCount) * 100 / r.TotalWorkers
	if share > cap+1 {
		return []Violation{{
			Type:     TypePartTimerShare,
			Category: CategorySoft,
			Message:  fmt.Sprintf("兼职工占比 %d%% 超过上限 %d%%", share, cap),
		}}
	}
	return nil
}

// weekenderShareAuditor 复核 WFT/WPT 合计占比不超过策略配置的上限
type weekenderShareAuditor struct{}

func (weekenderShareAuditor) Name() string       { return "周末工占比" }
func (weekenderShareAuditor) Type() Type         { return TypeWeekenderShare }
func (weekenderShareAuditor) Category() Category { return CategorySoft }

func (weekenderShareAuditor) Audit(ctx *Context) []Violation {
	cap := ctx.Input.Config.WeekenderCapPct
	if cap <= 0 || cap >= 100 {
		return nil
	}
	r := ctx.Result
	if r.TotalWorkers == 0 {
		return nil
	}
	share := (r.WFTCount + r.WPTCount) * 100 / r.TotalWorkers
	if share > cap+1 {
		return []Violation{{
			Type:     TypeWeekenderShare,
			Category: CategorySoft,
			Message:  fmt.Sprintf("周末工占比 %d%% 超过上限 %d%%", share, cap),
		}}
	}
	return nil
}
