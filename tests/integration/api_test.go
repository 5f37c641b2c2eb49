package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/paiban/roster/internal/handler"
	"github.com/paiban/roster/pkg/model"
)

func doSolve(t *testing.T, input model.SolverInput) *httptest.ResponseRecorder {
	t.Helper()
	h := handler.NewSolveHandler(nil)

	body, err := json.Marshal(input)
	if err != nil {
		t.Fatalf("序列化请求失败: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/solve", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	h.Solve(rec, req)
	return rec
}

// TestSolveAPI_ZeroDemand 对应 §8 S1：全零需求矩阵应返回 optimal 且零人排班
func TestSolveAPI_ZeroDemand(t *testing.T) {
	input := model.SolverInput{
		Config: model.Config{
			ProductivityRate:   20,
			PartTimerCapPct:    50,
			WeekenderCapPct:    50,
			AllowWeekendDayOff: true,
		},
	}

	rec := doSolve(t, input)
	if rec.Code != http.StatusOK {
		t.Fatalf("期望状态码 200，实际 %d: %s", rec.Code, rec.Body.String())
	}

	var resp handler.SolveResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("解析响应失败: %v", err)
	}

	if resp.Status != model.StatusOptimal {
		t.Fatalf("期望 status=optimal，实际 %s: %s", resp.Status, resp.ErrorMessage)
	}
	if resp.TotalWorkers != 0 {
		t.Errorf("全零需求应排班 0 人，实际 %d", resp.TotalWorkers)
	}
	if !resp.Audit.Valid {
		t.Errorf("求解后复核应通过，实际违反项: %v", resp.Audit.HardViolations)
	}
}

// TestSolveAPI_SingleHourWeekday 对应 §8 S2：单一工作日小时需求应产出恰好 1 名 FT
func TestSolveAPI_SingleHourWeekday(t *testing.T) {
	var oph model.DemandMatrix
	oph[0][9] = 20 // 周一 9 点 20 单，速率 20 单/小时 -> 需要 1 人

	input := model.SolverInput{
		Oph: oph,
		Config: model.Config{
			ProductivityRate:   20,
			PartTimerCapPct:    0,
			WeekenderCapPct:    0,
			AllowWeekendDayOff: false,
		},
	}

	rec := doSolve(t, input)
	if rec.Code != http.StatusOK {
		t.Fatalf("期望状态码 200，实际 %d: %s", rec.Code, rec.Body.String())
	}

	var resp handler.SolveResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("解析响应失败: %v", err)
	}

	if resp.Status != model.StatusOptimal {
		t.Fatalf("期望 status=optimal，实际 %s: %s", resp.Status, resp.ErrorMessage)
	}
	if resp.Required[0][9] != 1 {
		t.Fatalf("required[0][9] 应为 1，实际 %d", resp.Required[0][9])
	}
	if resp.TotalWorkers != 1 || resp.FTCount != 1 {
		t.Fatalf("期望恰好 1 名 FT 工人，实际 total=%d ft=%d", resp.TotalWorkers, resp.FTCount)
	}
	w := resp.Workers[0]
	if w.Type != model.WorkerFT {
		t.Errorf("期望工人类型 FT，实际 %s", w.Type)
	}
	if w.DayOff == nil || *w.DayOff < 0 || *w.DayOff > 4 {
		t.Errorf("禁止周末休息时 dayOff 应落在周一到周五，实际 %v", w.DayOff)
	}
	if resp.Coverage[0][9] < resp.Required[0][9] {
		t.Errorf("coverage[0][9]=%d 未满足 required=%d", resp.Coverage[0][9], resp.Required[0][9])
	}
}

// TestSolveAPI_InvalidInput 对应 §7 输入形状错误：速率非正应短路返回 error
func TestSolveAPI_InvalidInput(t *testing.T) {
	input := model.SolverInput{
		Config: model.Config{ProductivityRate: 0},
	}

	rec := doSolve(t, input)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("期望状态码 400，实际 %d: %s", rec.Code, rec.Body.String())
	}
}

// TestHealthEndpoint 健康检查端点应始终返回 200
func TestHealthEndpoint(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok","service":"roster"}`))
	})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("期望状态码 200，实际 %d", rec.Code)
	}
}
