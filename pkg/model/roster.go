package model

import "fmt"

// WorkerType 工人类型，四种闭合取值之一
type WorkerType string

const (
	// WorkerFT 全职工，工作日六天，每天 9 小时，含两次半小时休息
	WorkerFT WorkerType = "FT"
	// WorkerPT 兼职工，工作日六天，每天 4 小时，不含休息
	WorkerPT WorkerType = "PT"
	// WorkerWFT 周末全职工，仅周六周日，每天 9 小时，含两次半小时休息
	WorkerWFT WorkerType = "WFT"
	// WorkerWPT 周末兼职工，仅周六周日，每天 4 小时，不含休息
	WorkerWPT WorkerType = "WPT"
)

// Valid 判断工人类型是否为已知取值
func (t WorkerType) Valid() bool {
	switch t {
	case WorkerFT, WorkerPT, WorkerWFT, WorkerWPT:
		return true
	}
	return false
}

// HasBreaks 该类型的班次是否包含两次半小时休息
func (t WorkerType) HasBreaks() bool {
	return t == WorkerFT || t == WorkerWFT
}

// IsWeekendOnly 该类型是否仅在周末（周六、周日）出勤
func (t WorkerType) IsWeekendOnly() bool {
	return t == WorkerWFT || t == WorkerWPT
}

// ShiftLength 该类型每个出勤日的班次小时数
func (t WorkerType) ShiftLength() int {
	switch t {
	case WorkerFT, WorkerWFT:
		return 9
	case WorkerPT, WorkerWPT:
		return 4
	}
	return 0
}

// WorkDays 该类型每周的出勤天数
func (t WorkerType) WorkDays() int {
	if t.IsWeekendOnly() {
		return 2
	}
	return 6
}

// Config 求解相关的策略配置，对应 §3 SolverInput.config
type Config struct {
	// ProductivityRate 单个工人每小时可处理的订单数
	ProductivityRate int `json:"productivityRate"`
	// PartTimerCapPct PT/WPT 工人数占总工人数的上限百分比，0 表示完全禁用兼职工
	PartTimerCapPct int `json:"partTimerCapPct"`
	// WeekenderCapPct WFT/WPT 工人数占总工人数的上限百分比，0 表示完全禁用周末工
	WeekenderCapPct int `json:"weekenderCapPct"`
	// AllowWeekendDayOff 为 false 时，FT/PT 的固定休息日只能落在周一到周五
	AllowWeekendDayOff bool `json:"allowWeekendDayOff"`
}

// Validate 校验策略配置的取值范围
func (c Config) Validate() error {
	if c.ProductivityRate < 1 {
		return fmt.Errorf("productivityRate 必须为正整数，实际为 %d", c.ProductivityRate)
	}
	if c.PartTimerCapPct < 0 || c.PartTimerCapPct > 100 {
		return fmt.Errorf("partTimerCapPct 必须在 [0, 100] 区间内，实际为 %d", c.PartTimerCapPct)
	}
	if c.WeekenderCapPct < 0 || c.WeekenderCapPct > 100 {
		return fmt.Errorf("weekenderCapPct 必须在 [0, 100] 区间内，实际为 %d", c.WeekenderCapPct)
	}
	return nil
}

// DemandMatrix 按天、按小时描述的整数矩阵，形状固定为 7×24
//
// 行下标 0..4 = 周一..周五，5 = 周六，6 = 周日；列下标 0..23 = 日内小时。
type DemandMatrix [7][24]int

// Validate 校验矩阵中不含负数
func (m DemandMatrix) Validate() error {
	for d := 0; d < 7; d++ {
		for h := 0; h < 24; h++ {
			if m[d][h] < 0 {
				return fmt.Errorf("oph[%d][%d] 不能为负数，实际为 %d", d, h, m[d][h])
			}
		}
	}
	return nil
}

// SolverInput 求解器输入：一周的逐小时需求与策略配置
type SolverInput struct {
	Oph    DemandMatrix `json:"oph"`
	Config Config       `json:"config"`
}

// SolveStatus 求解状态，只有三种取值
type SolveStatus string

const (
	StatusOptimal    SolveStatus = "optimal"
	StatusInfeasible SolveStatus = "infeasible"
	StatusError      SolveStatus = "error"
)

// Worker 单个已排班工人的班次描述
//
// BreakHalfSlots 仅对 HasBreaks() 为真的类型有意义，取值范围 0..17，
// 代表班次内第几个半小时起休息；PT/WPT 该字段为空。
type Worker struct {
	ID              int        `json:"id"`
	Type            WorkerType `json:"type"`
	ShiftStart      int        `json:"shiftStart"`
	ShiftEnd        int        `json:"shiftEnd"`
	DayOff          *int       `json:"dayOff"`
	ProductiveHours []int      `json:"productiveHours"`
	BreakHalfSlots  []int      `json:"breakHalfSlots,omitempty"`
}

// SolverResult 求解器输出：最优排班方案加审计矩阵
type SolverResult struct {
	Status       SolveStatus  `json:"status"`
	Workers      []Worker     `json:"workers,omitempty"`
	TotalWorkers int          `json:"totalWorkers"`
	FTCount      int          `json:"ftCount"`
	PTCount      int          `json:"ptCount"`
	WFTCount     int          `json:"wftCount"`
	WPTCount     int          `json:"wptCount"`
	Coverage     DemandMatrix `json:"coverage"`
	Required     DemandMatrix `json:"required"`
	SolveTimeMs  int64        `json:"solveTimeMs"`
	ErrorMessage string       `json:"errorMessage,omitempty"`
}

// ZeroResult 返回§4.4/§7所说的"全零结果外壳"：保留 required 和耗时，其余归零。
func ZeroResult(status SolveStatus, required DemandMatrix, solveTimeMs int64, message string) SolverResult {
	return SolverResult{
		Status:       status,
		Required:     required,
		SolveTimeMs:  solveTimeMs,
		ErrorMessage: message,
	}
}
