// Package repository 提供数据访问层
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/paiban/roster/pkg/model"
)

// Run 一次求解调用的审计记录：输入的哈希与配置、输出的状态与计数、覆盖矩阵快照
type Run struct {
	ID           uuid.UUID         `json:"id"`
	OrgID        uuid.UUID         `json:"orgId"`
	InputHash    string            `json:"inputHash"` // sha256(oph||config)，用于定位重复请求
	Config       model.Config      `json:"config"`
	Status       model.SolveStatus `json:"status"`
	TotalWorkers int               `json:"totalWorkers"`
	FTCount      int               `json:"ftCount"`
	PTCount      int               `json:"ptCount"`
	WFTCount     int               `json:"wftCount"`
	WPTCount     int               `json:"wptCount"`
	Coverage     model.DemandMatrix `json:"coverage"`
	Required     model.DemandMatrix `json:"required"`
	SolveTimeMs  int64             `json:"solveTimeMs"`
	ErrorMessage string            `json:"errorMessage,omitempty"`
	CreatedAt    time.Time         `json:"createdAt"`
}

// NewRun 把一次求解的输入输出打包成待持久化的审计记录
func NewRun(orgID uuid.UUID, inputHash string, input model.SolverInput, result model.SolverResult) *Run {
	return &Run{
		ID:           uuid.New(),
		OrgID:        orgID,
		InputHash:    inputHash,
		Config:       input.Config,
		Status:       result.Status,
		TotalWorkers: result.TotalWorkers,
		FTCount:      result.FTCount,
		PTCount:      result.PTCount,
		WFTCount:     result.WFTCount,
		WPTCount:     result.WPTCount,
		Coverage:     result.Coverage,
		Required:     result.Required,
		SolveTimeMs:  result.SolveTimeMs,
		ErrorMessage: result.ErrorMessage,
		CreatedAt:    time.Now(),
	}
}

// RunRepositoryInterface 求解审计记录的仓储接口
type RunRepositoryInterface interface {
	Create(ctx context.Context, run *Run) error
	GetByID(ctx context.Context, id uuid.UUID) (*Run, error)
	List(ctx context.Context, filter ListFilter) ([]*Run, int, error)
	GetLatest(ctx context.Context, orgID uuid.UUID) (*Run, error)
}

// RunRepository 基于 Postgres 的求解审计记录仓储
type RunRepository struct {
	db DB
}

// NewRunRepository 创建求解审计记录仓储
func NewRunRepository(db DB) *RunRepository {
	return &RunRepository{db: db}
}

// Create 写入一条求解审计记录
func (r *RunRepository) Create(ctx context.Context, run *Run) error {
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}

	configJSON, err := json.Marshal(run.Config)
	if err != nil {
		return fmt.Errorf("序列化 config 失败: %w", err)
	}
	coverageJSON, err := json.Marshal(run.Coverage)
	if err != nil {
		return fmt.Errorf("序列化 coverage 失败: %w", err)
	}
	requiredJSON, err := json.Marshal(run.Required)
	if err != nil {
		return fmt.Errorf("序列化 required 失败: %w", err)
	}

	query := `
		INSERT INTO solver_runs (
			id, org_id, input_hash, config, status,
			total_workers, ft_count, pt_count, wft_count, wpt_count,
			coverage, required, solve_time_ms, error_message, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	_, err = r.db.ExecContext(ctx, query,
		run.ID, run.OrgID, run.InputHash, configJSON, run.Status,
		run.TotalWorkers, run.FTCount, run.PTCount, run.WFTCount, run.WPTCount,
		coverageJSON, requiredJSON, run.SolveTimeMs, run.ErrorMessage, run.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("写入求解审计记录失败: %w", err)
	}

	return nil
}

// GetByID 根据 ID 获取一条求解审计记录
func (r *RunRepository) GetByID(ctx context.Context, id uuid.UUID) (*Run, error) {
	query := `
		SELECT id, org_id, input_hash, config, status,
			total_workers, ft_count, pt_count, wft_count, wpt_count,
			coverage, required, solve_time_ms, error_message, created_at
		FROM solver_runs
		WHERE id = $1
	`
	return r.scanRun(r.db.QueryRowContext(ctx, query, id))
}

// GetLatest 获取某组织最近一次求解审计记录
func (r *RunRepository) GetLatest(ctx context.Context, orgID uuid.UUID) (*Run, error) {
	query := `
		SELECT id, org_id, input_hash, config, status,
			total_workers, ft_count, pt_count, wft_count, wpt_count,
			coverage, required, solve_time_ms, error_message, created_at
		FROM solver_runs
		WHERE org_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`
	return r.scanRun(r.db.QueryRowContext(ctx, query, orgID))
}

// List 按过滤条件列出求解审计记录
func (r *RunRepository) List(ctx context.Context, filter ListFilter) ([]*Run, int, error) {
	var conditions []string
	var args []interface{}
	argNum := 1

	if filter.OrgID != nil {
		conditions = append(conditions, fmt.Sprintf("org_id = $%d", argNum))
		args = append(args, *filter.OrgID)
		argNum++
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argNum))
		args = append(args, filter.Status)
		argNum++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM solver_runs %s", whereClause)
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("统计求解审计记录数量失败: %w", err)
	}

	orderBy := filter.OrderBy
	if orderBy == "" {
		orderBy = "created_at"
	}
	orderDir := filter.OrderDir
	if orderDir == "" {
		orderDir = "desc"
	}

	query := fmt.Sprintf(`
		SELECT id, org_id, input_hash, config, status,
			total_workers, ft_count, pt_count, wft_count, wpt_count,
			coverage, required, solve_time_ms, error_message, created_at
		FROM solver_runs %s
		ORDER BY %s %s
		LIMIT $%d OFFSET $%d
	`, whereClause, orderBy, orderDir, argNum, argNum+1)

	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("查询求解审计记录列表失败: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := r.scanRunFromRows(rows)
		if err != nil {
			return nil, 0, err
		}
		runs = append(runs, run)
	}

	return runs, total, nil
}

func (r *RunRepository) scanRun(row *sql.Row) (*Run, error) {
	run := &Run{}
	var configJSON, coverageJSON, requiredJSON []byte

	err := row.Scan(
		&run.ID, &run.OrgID, &run.InputHash, &configJSON, &run.Status,
		&run.TotalWorkers, &run.FTCount, &run.PTCount, &run.WFTCount, &run.WPTCount,
		&coverageJSON, &requiredJSON, &run.SolveTimeMs, &run.ErrorMessage, &run.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("扫描求解审计记录失败: %w", err)
	}

	if err := unmarshalRun(run, configJSON, coverageJSON, requiredJSON); err != nil {
		return nil, err
	}
	return run, nil
}

func (r *RunRepository) scanRunFromRows(rows *sql.Rows) (*Run, error) {
	run := &Run{}
	var configJSON, coverageJSON, requiredJSON []byte

	err := rows.Scan(
		&run.ID, &run.OrgID, &run.InputHash, &configJSON, &run.Status,
		&run.TotalWorkers, &run.FTCount, &run.PTCount, &run.WFTCount, &run.WPTCount,
		&coverageJSON, &requiredJSON, &run.SolveTimeMs, &run.ErrorMessage, &run.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("扫描求解审计记录失败: %w", err)
	}

	if err := unmarshalRun(run, configJSON, coverageJSON, requiredJSON); err != nil {
		return nil, err
	}
	return run, nil
}

func unmarshalRun(run *Run, configJSON, coverageJSON, requiredJSON []byte) error {
	if len(configJSON) > 0 {
		if err := json.Unmarshal(configJSON, &run.Config); err != nil {
			return fmt.Errorf("反序列化 config 失败: %w", err)
		}
	}
	if len(coverageJSON) > 0 {
		if err := json.Unmarshal(coverageJSON, &run.Coverage); err != nil {
			return fmt.Errorf("反序列化 coverage 失败: %w", err)
		}
	}
	if len(requiredJSON) > 0 {
		if err := json.Unmarshal(requiredJSON, &run.Required); err != nil {
			return fmt.Errorf("反序列化 required 失败: %w", err)
		}
	}
	return nil
}
