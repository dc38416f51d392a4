package sim

import (
	"math/rand"

	"github.com/sysu-ecnc-dev/evo-islands/internal/domain"
)

const (
	// 繁殖所需的能量阈值，繁殖时每个亲本消耗阈值的一半
	reproductionThreshold = 100.0
	// 最大年龄
	maxAge = 500
	// 报告给 server 的最优基因组数量
	bestGenomeCount = 10
)

/**
 * 运行一次完整的岛屿模拟
 * 用种子基因组建立一个岛屿，推进恰好 generations 代（种群注入机制保证了
 * 种群不会灭绝，所以不存在提前结束的情况），然后返回适应度最高的 10 个
 * 基因组和整次模拟的统计信息
 */
func RunSimulation(rng *rand.Rand, seedGenomes []domain.Genome, generations uint32, populationSize int, mutationRate float64) ([]domain.GenomeWithFitness, domain.SimulationStats) {
	config := IslandConfig{
		PopulationSize:        populationSize,
		MutationRate:          mutationRate,
		FoodPerTick:           float64(populationSize) * 0.8, // 食物略微短缺，制造竞争压力
		ReproductionThreshold: reproductionThreshold,
		ReproductionCost:      reproductionThreshold / 2,
		MaxAge:                maxAge,
	}

	island := NewIsland(config, seedGenomes, rng)

	totalFitness := 0.0
	fitnessSamples := 0
	bestFitness := 0.0
	totalCreatures := island.Size()

	for i := uint32(0); i < generations; i++ {
		island.Tick()

		avgGenFitness := island.AverageFitness()
		totalFitness += avgGenFitness
		fitnessSamples++

		if avgGenFitness > bestFitness {
			bestFitness = avgGenFitness
		}

		totalCreatures += island.Size()
	}

	avgFitness := 0.0
	if fitnessSamples > 0 {
		avgFitness = totalFitness / float64(fitnessSamples)
	}

	stats := domain.SimulationStats{
		AvgFitness:      avgFitness,
		BestFitness:     bestFitness,
		FinalPopulation: island.Size(),
		TotalCreatures:  totalCreatures,
	}

	return island.BestGenomes(bestGenomeCount), stats
}
