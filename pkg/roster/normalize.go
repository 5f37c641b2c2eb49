package roster

import "github.com/paiban/roster/pkg/model"

// normalized 是输入标准化之后的产物：必需人力矩阵以及三个开关，
// 对应 §4.1
type normalized struct {
	required         model.DemandMatrix
	usePT            bool
	useWFT           bool
	useWPT           bool
	dayOffSet        []int
	partTimerCapPct  int
	weekenderCapPct  int
}

// normalize 校验输入并派生必需人力矩阵。输入非法时返回错误，调用方
// 负责将其转换为 status=error 的结果。
func normalize(input model.SolverInput) (normalized, error) {
	if err := input.Oph.Validate(); err != nil {
		return normalized{}, err
	}
	if err := input.Config.Validate(); err != nil {
		return normalized{}, err
	}

	var required model.DemandMatrix
	rate := input.Config.ProductivityRate
	for d := 0; d < 7; d++ {
		for h := 0; h < 24; h++ {
			oph := input.Oph[d][h]
			if oph <= 0 {
				continue
			}
			required[d][h] = ceilDiv(oph, rate)
		}
	}

	usePT := input.Config.PartTimerCapPct > 0
	useWFT := input.Config.WeekenderCapPct > 0

	return normalized{
		required:        required,
		usePT:           usePT,
		useWFT:          useWFT,
		useWPT:          usePT && useWFT,
		dayOffSet:       weekdaySet(input.Config.AllowWeekendDayOff),
		partTimerCapPct: input.Config.PartTimerCapPct,
		weekenderCapPct: input.Config.WeekenderCapPct,
	}, nil
}

func ceilDiv(a, b int) int {
	if b <= 0 {
		return 0
	}
	return (a + b - 1) / b
}
