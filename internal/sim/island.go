package sim

import (
	"math/rand"
	"sort"

	"github.com/sysu-ecnc-dev/evo-islands/internal/domain"
)

// 岛屿模拟的参数
type IslandConfig struct {
	PopulationSize        int     // 目标种群大小
	MutationRate          float64 // 变异概率
	FoodPerTick           float64 // 每一代的食物总量
	ReproductionThreshold float64 // 繁殖所需的能量阈值
	ReproductionCost      float64 // 繁殖时每个亲本消耗的能量
	MaxAge                uint32  // 最大年龄，超过即被淘汰
}

// Island: 一个独立的岛屿模拟，每个任务对应一个岛屿，任务结束后即被丢弃
type Island struct {
	config     IslandConfig
	creatures  []*Creature
	generation uint32
	rng        *rand.Rand
}

/**
 * 用种子基因组创建岛屿的初始种群
 * 种子数量不足 PopulationSize 时用随机基因组补齐，超过时截断
 */
func NewIsland(config IslandConfig, seedGenomes []domain.Genome, rng *rand.Rand) *Island {
	creatures := make([]*Creature, 0, config.PopulationSize)

	for i := 0; i < config.PopulationSize; i++ {
		if i < len(seedGenomes) {
			creatures = append(creatures, NewCreature(seedGenomes[i]))
		} else {
			creatures = append(creatures, NewCreature(domain.RandomGenome(rng)))
		}
	}

	return &Island{
		config:     config,
		creatures:  creatures,
		generation: 0,
		rng:        rng,
	}
}

/**
 * 推进一代，依次执行:
 * 		1. 所有生物消耗能量
 * 		2. 按战斗力分配食物（竞争）
 * 		3. 淘汰死亡和超龄的生物
 * 		4. 繁殖
 * 		5. 种群数量过少时注入随机生物
 * 无论结果如何，代数都会加一
 */
func (isl *Island) Tick() {
	for _, c := range isl.creatures {
		c.ConsumeEnergy()
	}

	isl.distributeFood()

	alive := isl.creatures[:0]
	for _, c := range isl.creatures {
		if !c.IsDead() && c.Age < isl.config.MaxAge {
			alive = append(alive, c)
		}
	}
	isl.creatures = alive

	isl.reproduce()

	// 种群数量低于 1/4 时注入随机生物，保证种群不会灭绝
	for len(isl.creatures) < isl.config.PopulationSize/4 {
		isl.creatures = append(isl.creatures, NewCreature(domain.RandomGenome(isl.rng)))
	}

	isl.generation++
}

// 按战斗力的比例分配食物，战斗力总和为零时平均分配
func (isl *Island) distributeFood() {
	if len(isl.creatures) == 0 {
		return
	}

	totalPower := 0.0
	for _, c := range isl.creatures {
		totalPower += c.CombatPower()
	}

	if totalPower <= 0 {
		foodPerCreature := isl.config.FoodPerTick / float64(len(isl.creatures))
		for _, c := range isl.creatures {
			c.AddEnergy(foodPerCreature)
		}
		return
	}

	for _, c := range isl.creatures {
		c.AddEnergy(isl.config.FoodPerTick * c.CombatPower() / totalPower)
	}
}

/**
 * 繁殖阶段
 * 先打乱存活的生物，然后按 (0,1), (2,3), ... 的顺序两两配对尝试繁殖，
 * 所有后代在配对结束后才加入种群，因此后代不会在出生的这一代参与繁殖
 */
func (isl *Island) reproduce() {
	if len(isl.creatures) < 2 {
		return
	}

	isl.rng.Shuffle(len(isl.creatures), func(i, j int) {
		isl.creatures[i], isl.creatures[j] = isl.creatures[j], isl.creatures[i]
	})

	var children []*Creature
	for i := 0; i+1 < len(isl.creatures); i += 2 {
		child := isl.creatures[i].Reproduce(
			isl.rng,
			isl.creatures[i+1],
			isl.config.MutationRate,
			isl.config.ReproductionCost,
			isl.config.ReproductionThreshold,
		)
		if child != nil {
			children = append(children, child)
		}
	}

	isl.creatures = append(isl.creatures, children...)
}

// 当前种群的平均适应度，种群为空时返回 0
func (isl *Island) AverageFitness() float64 {
	if len(isl.creatures) == 0 {
		return 0
	}

	total := 0.0
	for _, c := range isl.creatures {
		total += c.Fitness()
	}
	return total / float64(len(isl.creatures))
}

/**
 * 返回适应度最高的 n 个基因组（降序）
 * 适应度相同时保持种群中的原有顺序，n 超过种群大小时返回全部
 */
func (isl *Island) BestGenomes(n int) []domain.GenomeWithFitness {
	sorted := make([]*Creature, len(isl.creatures))
	copy(sorted, isl.creatures)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Fitness() > sorted[j].Fitness()
	})

	if n > len(sorted) {
		n = len(sorted)
	}

	best := make([]domain.GenomeWithFitness, 0, n)
	for _, c := range sorted[:n] {
		best = append(best, domain.GenomeWithFitness{
			Genome:  c.Genome,
			Fitness: c.Fitness(),
		})
	}
	return best
}

func (isl *Island) Generation() uint32 {
	return isl.generation
}

func (isl *Island) Size() int {
	return len(isl.creatures)
}
