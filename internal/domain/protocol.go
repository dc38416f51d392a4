package domain

import "github.com/google/uuid"

// 协议版本，worker 的版本必须和 server 完全一致才允许领取任务
const ProtocolVersion uint32 = 1

// Worker -> Server: 请求任务
type WorkRequest struct {
	WorkerID        uuid.UUID `json:"workerId" validate:"required"`
	ProtocolVersion uint32    `json:"protocolVersion"`
	WorkerVersion   string    `json:"workerVersion" validate:"required"`
}

// Server -> Worker: 任务分配
type WorkAssignment struct {
	WorkID         uuid.UUID `json:"workId"`
	SeedGenomes    []Genome  `json:"seedGenomes"`
	Generations    uint32    `json:"generations"`
	PopulationSize int       `json:"populationSize"`
	MutationRate   float64   `json:"mutationRate"`
}

// 基因组和它的适应度
type GenomeWithFitness struct {
	Genome  Genome  `json:"genome"`
	Fitness float64 `json:"fitness" validate:"gte=0"`
}

// 一次模拟的统计信息
type SimulationStats struct {
	AvgFitness      float64 `json:"avgFitness"`
	BestFitness     float64 `json:"bestFitness"`
	FinalPopulation int     `json:"finalPopulation"`
	TotalCreatures  int     `json:"totalCreatures"`
}

// Worker -> Server: 提交任务结果
type WorkResult struct {
	WorkID               uuid.UUID           `json:"workId" validate:"required"`
	WorkerID             uuid.UUID           `json:"workerId" validate:"required"`
	BestGenomes          []GenomeWithFitness `json:"bestGenomes" validate:"dive"`
	GenerationsCompleted uint32              `json:"generationsCompleted"`
	Stats                *SimulationStats    `json:"stats,omitempty"`
}

// 全局演化状态的统计信息
type GlobalStats struct {
	ActiveWorkers    int                 `json:"activeWorkers"`
	TotalWorkUnits   uint64              `json:"totalWorkUnits"`
	TotalGenerations uint64              `json:"totalGenerations"`
	BestGenomes      []GenomeWithFitness `json:"top10BestGenomes"`
	PoolSize         int                 `json:"poolSize"`
	UptimeSeconds    uint64              `json:"uptimeSeconds"`
}
