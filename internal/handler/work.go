package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/sysu-ecnc-dev/evo-islands/internal/domain"
)

/**
 * worker 请求任务
 * 先做协议版本检查，版本不匹配时直接拒绝，不会注册 worker，
 * 也不会修改基因池的任何状态
 */
func (h *Handler) RequestWork(w http.ResponseWriter, r *http.Request) {
	var req domain.WorkRequest

	if err := h.readJSON(r, &req); err != nil {
		h.invalidRequest(w, r, err)
		return
	}

	if err := h.validate.Struct(req); err != nil {
		h.invalidRequest(w, r, err)
		return
	}

	if req.ProtocolVersion != domain.ProtocolVersion {
		h.versionMismatch(w, r, req.ProtocolVersion)
		return
	}

	h.genePool.RegisterWorker(req.WorkerID)

	assignment := domain.WorkAssignment{
		WorkID:         uuid.New(),
		SeedGenomes:    h.genePool.SeedGenomes(h.config.Work.SeedCount),
		Generations:    h.config.Work.Generations,
		PopulationSize: h.config.Work.PopulationSize,
		MutationRate:   h.config.Work.MutationRate,
	}

	h.writeJSON(w, r, http.StatusOK, assignment)
}

// worker 提交任务结果，合并进基因池后返回空响应
func (h *Handler) SubmitWork(w http.ResponseWriter, r *http.Request) {
	var result domain.WorkResult

	if err := h.readJSON(r, &result); err != nil {
		h.invalidRequest(w, r, err)
		return
	}

	if err := h.validate.Struct(result); err != nil {
		h.invalidRequest(w, r, err)
		return
	}

	h.genePool.SubmitResults(result.WorkerID, result.BestGenomes, result.GenerationsCompleted)

	w.WriteHeader(http.StatusOK)
}
