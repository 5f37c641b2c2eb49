// Package stats 对求解结果做覆盖率与需求满足度的只读统计分析
package stats

import (
	"fmt"
	"strings"

	"github.com/paiban/roster/pkg/model"
)

// CoverageMetrics 一次求解结果的覆盖率分析
type CoverageMetrics struct {
	OverallCoverage    float64             `json:"overallCoverage"`    // 整体覆盖率 (%)
	DemandSatisfaction float64             `json:"demandSatisfaction"` // 需求满足度 (%)，超额覆盖不计入
	DailyCoverage      map[int]DayCoverage `json:"dailyCoverage"`      // 按星期几统计，0=周一..6=周日
	HourlyCoverage     map[int]float64     `json:"hourlyCoverage"`     // 跨全周聚合的按小时覆盖率 (%)
	Understaffed       []UnderstaffedHour  `json:"understaffed"`       // 人手不足的具体格子
}

// DayCoverage 单日覆盖情况
type DayCoverage struct {
	Day          int     `json:"day"`
	RequiredSum  int     `json:"requiredSum"`
	CoveredSum   int     `json:"coveredSum"`
	CoverageRate float64 `json:"coverageRate"`
}

// UnderstaffedHour 人手不足的单个格子
type UnderstaffedHour struct {
	Day      int `json:"day"`
	Hour     int `json:"hour"`
	Required int `json:"required"`
	Covered  int `json:"covered"`
	Shortage int `json:"shortage"`
}

// CoverageAnalyzer 覆盖率分析器：纯函数式地读取 SolverResult，不持有可变状态
type CoverageAnalyzer struct{}

// NewCoverageAnalyzer 创建覆盖率分析器
func NewCoverageAnalyzer() *CoverageAnalyzer {
	return &CoverageAnalyzer{}
}

// Analyze 基于 required/coverage 矩阵计算整体及细分覆盖率指标
func (c *CoverageAnalyzer) Analyze(result model.SolverResult) *CoverageMetrics {
	metrics := &CoverageMetrics{
		DailyCoverage:  make(map[int]DayCoverage),
		HourlyCoverage: make(map[int]float64),
	}

	var totalRequired, totalCovered, totalSatisfied int
	hourlyRequired := make(map[int]int)
	hourlyCovered := make(map[int]int)

	for d := 0; d < 7; d++ {
		day := DayCoverage{Day: d}
		for h := 0; h < 24; h++ {
			required := result.Required[d][h]
			covered := result.Coverage[d][h]

			day.RequiredSum += required
			day.CoveredSum += covered
			totalRequired += required
			totalCovered += covered
			hourlyRequired[h] += required
			hourlyCovered[h] += covered

			if covered >= required {
				totalSatisfied += required
			} else {
				totalSatisfied += covered
			}

			if covered < required {
				metrics.Understaffed = append(metrics.Understaffed, UnderstaffedHour{
					Day:      d,
					Hour:     h,
					Required: required,
					Covered:  covered,
					Shortage: required - covered,
				})
			}
		}
		if day.RequiredSum > 0 {
			day.CoverageRate = float64(day.CoveredSum) / float64(day.RequiredSum) * 100
		} else {
			day.CoverageRate = 100
		}
		metrics.DailyCoverage[d] = day
	}

	for h := 0; h < 24; h++ {
		if hourlyRequired[h] > 0 {
			metrics.HourlyCoverage[h] = float64(hourlyCovered[h]) / float64(hourlyRequired[h]) * 100
		} else {
			metrics.HourlyCoverage[h] = 100
		}
	}

	if totalRequired > 0 {
		metrics.OverallCoverage = float64(totalCovered) / float64(totalRequired) * 100
		metrics.DemandSatisfaction = float64(totalSatisfied) / float64(totalRequired) * 100
	} else {
		metrics.OverallCoverage = 100
		metrics.DemandSatisfaction = 100
	}

	return metrics
}

var weekdayNames = [7]string{"周一", "周二", "周三", "周四", "周五", "周六", "周日"}

// GenerateCoverageReport 生成人类可读的覆盖率报告
func (c *CoverageAnalyzer) GenerateCoverageReport(metrics *CoverageMetrics) string {
	var b strings.Builder
	b.WriteString("=== 覆盖率分析报告 ===\n\n")
	b.WriteString("【整体覆盖情况】\n")
	fmt.Fprintf(&b, "  整体覆盖率: %.1f%%\n", metrics.OverallCoverage)
	fmt.Fprintf(&b, "  需求满足度: %.1f%%\n\n", metrics.DemandSatisfaction)

	b.WriteString("【按日覆盖率】\n")
	for d := 0; d < 7; d++ {
		day := metrics.DailyCoverage[d]
		fmt.Fprintf(&b, "  %s: %.1f%% (%d/%d)\n", weekdayNames[d], day.CoverageRate, day.CoveredSum, day.RequiredSum)
	}

	if len(metrics.Understaffed) > 0 {
		b.WriteString("\n【人手不足时段】\n")
		for _, u := range metrics.Understaffed {
			fmt.Fprintf(&b, "  - %s %02d:00 需要%d人，实际%d人，缺%d人\n", weekdayNames[u.Day], u.Hour, u.Required, u.Covered, u.Shortage)
		}
	}

	return b.String()
}
