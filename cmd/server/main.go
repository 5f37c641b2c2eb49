// PaiBan 排班引擎服务
// 主程序入口

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/paiban/roster/internal/config"
	"github.com/paiban/roster/internal/database"
	"github.com/paiban/roster/internal/handler"
	"github.com/paiban/roster/internal/metrics"
	mw "github.com/paiban/roster/internal/middleware"
	"github.com/paiban/roster/internal/repository"
	"github.com/paiban/roster/internal/security"
	"github.com/paiban/roster/internal/tenant"
	"github.com/paiban/roster/pkg/logger"
)

// 构建信息（通过 ldflags 注入）
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	logger.Init(logger.Config{
		Level:  cfg.App.LogLevel,
		Format: "console",
	})

	fmt.Printf("PaiBan 排班引擎 v%s\n", Version)
	fmt.Printf("Build: %s (%s)\n", BuildTime, GitCommit)
	fmt.Println()

	// 数据库是可选的审计存储：连不上也不阻止求解服务启动，只是不落审计记录
	var runRepo repository.RunRepositoryInterface
	db, err := database.New(&cfg.Database)
	if err != nil {
		logger.Warn().Err(err).Msg("数据库不可用，求解审计记录将不会持久化")
	} else {
		defer db.Close()
		runRepo = repository.NewRunRepository(db)
	}

	keyManager := security.NewAPIKeyManager()
	tenantManager := tenant.NewTenantManager()
	seedDevTenant(tenantManager, keyManager)

	rateLimiter := security.NewRateLimiter(cfg.API.RateLimit, time.Minute)

	solveHandler := handler.NewSolveHandler(runRepo)

	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok","service":"roster"}`))
	})

	mux.HandleFunc("/version", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"version":"%s","build_time":"%s","git_commit":"%s"}`, Version, BuildTime, GitCommit)
	})

	mux.HandleFunc("/api/v1/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{
			"message": "PaiBan 排班引擎 API v1",
			"endpoints": {
				"solve": "POST /api/v1/solve"
			}
		}`))
	})

	// 排班求解 API —— 唯一的业务端点：一周需求矩阵 -> 最优排班方案
	mux.HandleFunc("/api/v1/solve", solveHandler.Solve)

	if cfg.Metrics.Enabled {
		mux.Handle(cfg.Metrics.Path, metrics.Handler())
	}

	authCfg := &mw.AuthConfig{
		APIKeyManager:   keyManager,
		TenantManager:   tenantManager,
		RateLimiter:     rateLimiter,
		SkipPaths:       []string{"/health", "/version", cfg.Metrics.Path},
		EnableRateLimit: true,
	}

	// 中间件执行顺序：恢复 -> 请求ID -> 安全头 -> CORS -> 认证 -> 日志 -> mux
	var root http.Handler = mux
	root = mw.LoggingMiddleware(root)
	root = mw.AuthMiddleware(authCfg)(root)
	if cfg.API.CORS.Enabled {
		root = corsMiddleware(cfg.API.CORS.Origins)(root)
	}
	root = mw.SecurityHeadersMiddleware(root)
	root = mw.RequestIDMiddleware(root)
	root = mw.RecoveryMiddleware(root)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      root,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 125 * time.Second, // 求解预算 120s 加余量
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info().
			Int("port", cfg.App.Port).
			Str("version", Version).
			Str("url", fmt.Sprintf("http://localhost:%d", cfg.App.Port)).
			Msg("服务器启动")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("服务器启动失败")
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("正在关闭服务器...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("服务器关闭失败")
		os.Exit(1)
	}

	logger.Info().Msg("服务器已关闭")
}

// seedDevTenant 注册一个默认租户与全权限密钥，便于本地环境直接调用 /api/v1/solve；
// 生产部署应通过密钥管理接口单独签发。
func seedDevTenant(tm *tenant.TenantManager, km *security.APIKeyManager) {
	t := tenant.CreateDefaultTenant()
	if err := tm.Register(t); err != nil {
		logger.Warn().Err(err).Msg("注册默认租户失败")
		return
	}
	key, err := km.GenerateKey(t.Code, "dev", []string{"*"}, nil)
	if err != nil {
		logger.Warn().Err(err).Msg("生成默认API密钥失败")
		return
	}
	logger.Info().Str("api_key", key.Key).Msg("已生成默认API密钥（仅供本地开发使用）")
}

// corsMiddleware 按配置的来源列表设置 CORS 响应头
func corsMiddleware(origins []string) func(http.Handler) http.Handler {
	allowAll := len(origins) == 0
	for _, o := range origins {
		if o == "*" {
			allowAll = true
		}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := "*"
			if !allowAll {
				origin = ""
				reqOrigin := r.Header.Get("Origin")
				for _, o := range origins {
					if o == reqOrigin {
						origin = reqOrigin
						break
					}
				}
			}
			if origin != "" {
				w.Header().Set("Access-Control-Allow-Origin", origin)
			}
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-API-Key")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
