package worker

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sysu-ecnc-dev/evo-islands/internal/config"
	"github.com/sysu-ecnc-dev/evo-islands/internal/domain"
	"github.com/sysu-ecnc-dev/evo-islands/internal/sim"
)

// worker 的版本号，会在请求任务时上报给 server
const Version = "0.2.0"

// 协议版本不匹配是 worker 唯一的致命错误
// worker 不会重试，而是直接退出，由外部的进程管理器用新版本重新拉起
var ErrVersionMismatch = errors.New("协议版本不匹配")

type Worker struct {
	id         uuid.UUID
	serverURL  string
	httpClient *http.Client
	rng        *rand.Rand

	requestRetryDelay time.Duration
	submitRetryDelay  time.Duration
}

func NewWorker(cfg *config.Config, rng *rand.Rand) *Worker {
	return &Worker{
		id:        uuid.New(),
		serverURL: cfg.Worker.ServerURL,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Worker.RequestTimeout) * time.Second,
		},
		rng:               rng,
		requestRetryDelay: time.Duration(cfg.Worker.RequestRetryDelay) * time.Second,
		submitRetryDelay:  time.Duration(cfg.Worker.SubmitRetryDelay) * time.Second,
	}
}

func (w *Worker) ID() uuid.UUID {
	return w.id
}

// 向 server 请求一个任务
func (w *Worker) RequestWork(ctx context.Context) (*domain.WorkAssignment, error) {
	req := domain.WorkRequest{
		WorkerID:        w.id,
		ProtocolVersion: domain.ProtocolVersion,
		WorkerVersion:   Version,
	}

	var assignment domain.WorkAssignment
	if err := w.postJSON(ctx, "/api/work/request", req, &assignment); err != nil {
		return nil, err
	}

	return &assignment, nil
}

/**
 * 在本地同步地执行一个任务
 * 一个 worker 同一时刻只会执行一个任务，模拟是纯 CPU 计算，
 * 一旦开始就会运行完配置的代数，不支持中途取消
 */
func (w *Worker) ProcessWork(assignment *domain.WorkAssignment) *domain.WorkResult {
	slog.Info("开始执行任务",
		"workId", assignment.WorkID,
		"generations", assignment.Generations,
		"populationSize", assignment.PopulationSize,
		"seedCount", len(assignment.SeedGenomes),
	)

	bestGenomes, stats := sim.RunSimulation(
		w.rng,
		assignment.SeedGenomes,
		assignment.Generations,
		assignment.PopulationSize,
		assignment.MutationRate,
	)

	return &domain.WorkResult{
		WorkID:               assignment.WorkID,
		WorkerID:             w.id,
		BestGenomes:          bestGenomes,
		GenerationsCompleted: assignment.Generations,
		Stats:                &stats,
	}
}

// 把任务结果提交给 server
func (w *Worker) SubmitResults(ctx context.Context, result *domain.WorkResult) error {
	return w.postJSON(ctx, "/api/work/submit", result, nil)
}

func (w *Worker) postJSON(ctx context.Context, path string, body any, v any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.serverURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// 尝试解析 server 返回的错误，版本不匹配需要特殊处理
		var errResp domain.ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil {
			if errResp.Code == domain.ErrCodeVersionMismatch {
				slog.Error("协议版本不匹配",
					"serverVersion", errResp.ServerVersion,
					"workerVersion", errResp.WorkerVersion,
				)
				return fmt.Errorf("%w: server 版本为 %d, worker 版本为 %d",
					ErrVersionMismatch, errResp.ServerVersion, errResp.WorkerVersion)
			}
			return fmt.Errorf("server 返回错误 %s: %s", errResp.Code, errResp.Message)
		}
		return fmt.Errorf("请求失败，状态码为 %d", resp.StatusCode)
	}

	if v != nil {
		return json.NewDecoder(resp.Body).Decode(v)
	}
	return nil
}

/**
 * worker 的主循环: 请求任务 -> 本地模拟 -> 提交结果
 * 除了版本不匹配之外的所有错误都以固定间隔无限重试:
 * 请求任务失败后等 10 秒，提交结果失败后等 5 秒（可配置）
 * 版本不匹配时返回 ErrVersionMismatch，由调用方决定退出码
 */
func (w *Worker) Run(ctx context.Context) error {
	slog.Info("worker 已启动", "workerId", w.id, "server", w.serverURL)

	for {
		assignment, err := w.RequestWork(ctx)
		if err != nil {
			if errors.Is(err, ErrVersionMismatch) {
				return err
			}

			slog.Error("请求任务失败", "error", err)
			if err := w.sleep(ctx, w.requestRetryDelay); err != nil {
				return err
			}
			continue
		}

		result := w.ProcessWork(assignment)

		for {
			err := w.SubmitResults(ctx, result)
			if err == nil {
				break
			}
			if errors.Is(err, ErrVersionMismatch) {
				return err
			}

			slog.Error("提交结果失败", "error", err)
			if err := w.sleep(ctx, w.submitRetryDelay); err != nil {
				return err
			}
		}

		slog.Info("任务已完成", "workId", result.WorkID, "bestFitness", result.Stats.BestFitness)
	}
}

func (w *Worker) sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
