// Package handler 提供HTTP请求处理器
package handler

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/paiban/roster/internal/metrics"
	"github.com/paiban/roster/internal/repository"
	"github.com/paiban/roster/internal/tenant"
	"github.com/paiban/roster/pkg/errors"
	"github.com/paiban/roster/pkg/logger"
	"github.com/paiban/roster/pkg/model"
	"github.com/paiban/roster/pkg/roster"
	"github.com/paiban/roster/pkg/stats"
	"github.com/paiban/roster/pkg/validator"
)

// SolveHandler 求解处理器：接收需求矩阵与策略配置，返回最优排班方案
type SolveHandler struct {
	runRepo repository.RunRepositoryInterface
	auditor *validator.Manager
	rlog    *logger.RosterLogger
}

// NewSolveHandler 创建求解处理器
func NewSolveHandler(runRepo repository.RunRepositoryInterface) *SolveHandler {
	return &SolveHandler{
		runRepo: runRepo,
		auditor: validator.NewManager(),
		rlog:    logger.NewRosterLogger(),
	}
}

// SolveResponse 求解响应：求解结果加求解后复核报告
type SolveResponse struct {
	model.SolverResult
	Audit    validator.Report       `json:"audit"`
	Coverage *stats.CoverageMetrics `json:"coverageStats,omitempty"`
	RunID    string                 `json:"runId,omitempty"`
}

// Solve 处理 POST /api/v1/solve：一周需求矩阵 -> 最优排班方案
func (h *SolveHandler) Solve(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, errors.New(errors.CodeInvalidInput, "仅支持POST方法"))
		return
	}

	var input model.SolverInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondError(w, errors.Wrap(err, errors.CodeInvalidInput, "解析请求失败"))
		return
	}

	if err := input.Oph.Validate(); err != nil {
		respondError(w, errors.InvalidDemand(err.Error()))
		return
	}
	if err := input.Config.Validate(); err != nil {
		respondError(w, errors.InvalidInput("config", err.Error()))
		return
	}

	runID := uuid.New().String()
	h.rlog.SolveStart(runID, requiredCellCount(input.Oph))

	result := roster.Solve(input)

	h.rlog.SolveComplete(runID, time.Duration(result.SolveTimeMs)*time.Millisecond, string(result.Status), result.TotalWorkers)
	metrics.RecordSolve(string(result.Status), time.Duration(result.SolveTimeMs)*time.Millisecond)
	metrics.SetWorkerCounts(result.FTCount, result.PTCount, result.WFTCount, result.WPTCount)

	report := h.auditor.Audit(input, result)
	for _, v := range report.HardViolations {
		h.rlog.ConstraintViolation(string(v.Type), v.Message)
		metrics.RecordAuditViolation(string(v.Type), string(v.Category))
	}
	for _, v := range report.SoftViolations {
		metrics.RecordAuditViolation(string(v.Type), string(v.Category))
	}

	resp := SolveResponse{SolverResult: result, Audit: report}

	if result.Status == model.StatusOptimal {
		coverageMetrics := stats.NewCoverageAnalyzer().Analyze(result)
		resp.Coverage = coverageMetrics
		metrics.SetCoverageRate(coverageMetrics.OverallCoverage)
	}

	if h.runRepo != nil {
		orgID := uuid.Nil
		if t, ok := tenant.FromContext(r.Context()); ok {
			orgID = t.ID
		}
		run := repository.NewRun(orgID, inputHash(input), input, result)
		if err := h.runRepo.Create(r.Context(), run); err != nil {
			logger.Error().Err(err).Msg("写入求解审计记录失败")
		} else {
			resp.RunID = run.ID.String()
		}
	}

	respondJSON(w, http.StatusOK, resp)
}

// requiredCellCount 统计需求矩阵中正需求格子的数量，仅用于启动日志
func requiredCellCount(oph model.DemandMatrix) int {
	n := 0
	for d := 0; d < 7; d++ {
		for h := 0; h < 24; h++ {
			if oph[d][h] > 0 {
				n++
			}
		}
	}
	return n
}

// inputHash 对求解输入做哈希，用于在审计记录中定位重复请求
func inputHash(input model.SolverInput) string {
	payload, _ := json.Marshal(input)
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}

// respondJSON 返回JSON响应
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError 返回错误响应
func respondError(w http.ResponseWriter, err *errors.AppError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.HTTPStatus)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error":   true,
		"code":    err.Code,
		"message": err.Message,
		"details": err.Details,
	})
}
