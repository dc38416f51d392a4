package handler

import (
	"bytes"
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/evo-islands/internal/config"
	"github.com/sysu-ecnc-dev/evo-islands/internal/domain"
	"github.com/sysu-ecnc-dev/evo-islands/internal/genepool"
)

func newTestHandler(t *testing.T) (*Handler, *genepool.GenePool) {
	t.Helper()

	cfg := &config.Config{}
	cfg.Work.Generations = 200
	cfg.Work.PopulationSize = 50
	cfg.Work.MutationRate = 0.05
	cfg.Work.SeedCount = 20

	pool := genepool.New(genepool.DefaultOptions(), rand.New(rand.NewSource(42)))

	h, err := NewHandler(cfg, pool)
	require.NoError(t, err)
	h.RegisterRoutes()

	return h, pool
}

func doJSON(t *testing.T, h *Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.Mux.ServeHTTP(rec, req)
	return rec
}

func TestRequestWork(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := doJSON(t, h, http.MethodPost, "/api/work/request", domain.WorkRequest{
		WorkerID:        uuid.New(),
		ProtocolVersion: domain.ProtocolVersion,
		WorkerVersion:   "0.2.0",
	})

	require.Equal(t, http.StatusOK, rec.Code)

	var assignment domain.WorkAssignment
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &assignment))
	require.NotEqual(t, uuid.Nil, assignment.WorkID)
	require.Len(t, assignment.SeedGenomes, 20)
	require.Equal(t, uint32(200), assignment.Generations)
	require.Equal(t, 50, assignment.PopulationSize)
	require.Equal(t, 0.05, assignment.MutationRate)

	// 正常的请求会注册 worker
	require.Equal(t, 1, h.genePool.Stats().ActiveWorkers)
}

func TestRequestWorkVersionMismatch(t *testing.T) {
	h, pool := newTestHandler(t)

	rec := doJSON(t, h, http.MethodPost, "/api/work/request", domain.WorkRequest{
		WorkerID:        uuid.New(),
		ProtocolVersion: domain.ProtocolVersion + 1,
		WorkerVersion:   "0.3.0",
	})

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var errResp domain.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
	require.Equal(t, domain.ErrCodeVersionMismatch, errResp.Code)
	require.Equal(t, domain.ProtocolVersion, errResp.ServerVersion)
	require.Equal(t, domain.ProtocolVersion+1, errResp.WorkerVersion)

	// 版本不匹配的请求不会修改任何状态
	stats := pool.Stats()
	require.Equal(t, 0, stats.ActiveWorkers)
	require.Equal(t, uint64(0), stats.TotalWorkUnits)
	require.Equal(t, uint64(0), stats.TotalGenerations)
}

func TestRequestWorkVersionMismatchCarriesZeroVersion(t *testing.T) {
	h, _ := newTestHandler(t)

	// worker 上报的协议版本为 0 时，响应中仍然必须带上双方的版本号
	rec := doJSON(t, h, http.MethodPost, "/api/work/request", map[string]any{
		"workerId":        uuid.New(),
		"protocolVersion": 0,
		"workerVersion":   "0.1.0",
	})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), `"workerVersion":0`)
	require.Contains(t, rec.Body.String(), `"serverVersion":1`)

	var errResp domain.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
	require.Equal(t, domain.ErrCodeVersionMismatch, errResp.Code)
	require.Equal(t, uint32(0), errResp.WorkerVersion)
}

func TestRequestWorkInvalidBody(t *testing.T) {
	h, pool := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/work/request", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	h.Mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var errResp domain.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
	require.Equal(t, domain.ErrCodeInvalidRequest, errResp.Code)
	require.Equal(t, 0, pool.Stats().ActiveWorkers)
}

func TestRequestWorkMissingWorkerID(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := doJSON(t, h, http.MethodPost, "/api/work/request", map[string]any{
		"protocolVersion": domain.ProtocolVersion,
		"workerVersion":   "0.2.0",
	})

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSubmitWork(t *testing.T) {
	h, pool := newTestHandler(t)
	workerID := uuid.New()

	rec := doJSON(t, h, http.MethodPost, "/api/work/submit", domain.WorkResult{
		WorkID:   uuid.New(),
		WorkerID: workerID,
		BestGenomes: []domain.GenomeWithFitness{
			{Genome: domain.DefaultGenome(), Fitness: 0.8},
		},
		GenerationsCompleted: 200,
		Stats: &domain.SimulationStats{
			AvgFitness:      0.5,
			BestFitness:     0.8,
			FinalPopulation: 50,
			TotalCreatures:  10000,
		},
	})

	require.Equal(t, http.StatusOK, rec.Code)
	require.Empty(t, rec.Body.Bytes())

	stats := pool.Stats()
	require.Equal(t, uint64(1), stats.TotalWorkUnits)
	require.Equal(t, uint64(200), stats.TotalGenerations)
	require.Equal(t, 1, stats.ActiveWorkers)
}

func TestSubmitWorkRejectsOutOfRangeGenome(t *testing.T) {
	h, pool := newTestHandler(t)

	rec := doJSON(t, h, http.MethodPost, "/api/work/submit", map[string]any{
		"workId":   uuid.New(),
		"workerId": uuid.New(),
		"bestGenomes": []map[string]any{
			{
				"genome": map[string]float64{
					"strength":     1.5, // 超出 [0, 1]
					"speed":        0.5,
					"size":         0.5,
					"efficiency":   0.5,
					"reproduction": 0.5,
				},
				"fitness": 0.8,
			},
		},
		"generationsCompleted": 100,
	})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, uint64(0), pool.Stats().TotalWorkUnits)
}

func TestGetStats(t *testing.T) {
	h, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	rec := httptest.NewRecorder()
	h.Mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var stats domain.GlobalStats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	require.Equal(t, 10, stats.PoolSize)
	require.Len(t, stats.BestGenomes, 10)
}

func TestHealth(t *testing.T) {
	h, _ := newTestHandler(t)

	for _, path := range []string{"/health", "/healthz"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		h.Mux.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
	}
}
