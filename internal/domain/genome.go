package domain

import (
	"math"
	"math/rand"
)

/**
 * Genome: 生物的基因组，由 5 个基因组成，每个基因的取值范围都是 [0, 1]
 * 设计思路:
 * 		1. strength / speed / size 越高，生物的竞争力越强，但消耗的能量也越多
 * 		2. efficiency 越高，消耗的能量越少
 * 		3. reproduction 影响繁殖能力，但同样需要消耗能量
 * 这样各个基因之间会形成相互制衡的关系，不存在单一的最优策略
 */
type Genome struct {
	Strength     float64 `json:"strength" validate:"gte=0,lte=1"`
	Speed        float64 `json:"speed" validate:"gte=0,lte=1"`
	Size         float64 `json:"size" validate:"gte=0,lte=1"`
	Efficiency   float64 `json:"efficiency" validate:"gte=0,lte=1"`
	Reproduction float64 `json:"reproduction" validate:"gte=0,lte=1"`
}

// 把基因的值限制在 [0, 1] 之间
func clampGene(v float64) float64 {
	return math.Min(math.Max(v, 0), 1)
}

// 随机生成一个基因组，每个基因都在 [0, 1] 之间均匀分布
func RandomGenome(rng *rand.Rand) Genome {
	return Genome{
		Strength:     rng.Float64(),
		Speed:        rng.Float64(),
		Size:         rng.Float64(),
		Efficiency:   rng.Float64(),
		Reproduction: rng.Float64(),
	}
}

// 用给定的值构造基因组，超出范围的值会被限制在 [0, 1] 之间，不会报错
func NewGenome(strength, speed, size, efficiency, reproduction float64) Genome {
	return Genome{
		Strength:     clampGene(strength),
		Speed:        clampGene(speed),
		Size:         clampGene(size),
		Efficiency:   clampGene(efficiency),
		Reproduction: clampGene(reproduction),
	}
}

// 默认基因组，所有基因都取中间值
func DefaultGenome() Genome {
	return Genome{
		Strength:     0.5,
		Speed:        0.5,
		Size:         0.5,
		Efficiency:   0.5,
		Reproduction: 0.5,
	}
}

// 变异: 每个基因独立地以 rate 的概率加上一个 [-0.1, 0.1) 之间的随机扰动
func (g *Genome) Mutate(rng *rand.Rand, rate float64) {
	genes := []*float64{&g.Strength, &g.Speed, &g.Size, &g.Efficiency, &g.Reproduction}
	for _, gene := range genes {
		if rng.Float64() < rate {
			*gene = clampGene(*gene + (rng.Float64()*0.2 - 0.1))
		}
	}
}

// 交叉: 每个基因独立地以相等的概率从两个亲本中选择一个
// 由于亲本的基因都已经在 [0, 1] 之间，所以交叉的结果不需要再做限制
func (g Genome) Crossover(rng *rand.Rand, other Genome) Genome {
	pick := func(a, b float64) float64 {
		if rng.Intn(2) == 0 {
			return a
		}
		return b
	}
	return Genome{
		Strength:     pick(g.Strength, other.Strength),
		Speed:        pick(g.Speed, other.Speed),
		Size:         pick(g.Size, other.Size),
		Efficiency:   pick(g.Efficiency, other.Efficiency),
		Reproduction: pick(g.Reproduction, other.Reproduction),
	}
}

/**
 * 计算这个基因组每一代需要消耗的能量
 * energy_cost = 1.0 + (strength*2.0 + speed*1.5 + size*1.8 + reproduction*0.5) * (2.0 - efficiency)
 * strength / speed / size / reproduction 越高消耗越多，efficiency 越高消耗越少
 */
func (g Genome) EnergyCost() float64 {
	baseCost := 1.0
	traitCost := g.Strength*2.0 + g.Speed*1.5 + g.Size*1.8 + g.Reproduction*0.5
	efficiencyMultiplier := 2.0 - g.Efficiency // 在 1.0 到 2.0 之间

	return baseCost + traitCost*efficiencyMultiplier
}

/**
 * 计算适应度（越高越好）
 * fitness = (combat * survival * breeding) 的立方根
 * 其中:
 * 		1. combat = strength + 0.5*size 为战斗力
 * 		2. survival = speed + efficiency 为生存能力
 * 		3. breeding = reproduction 为繁殖能力
 * 三个因子都是非负的，所以结果一定是非负实数
 */
func (g Genome) FitnessScore() float64 {
	combat := g.Strength + g.Size*0.5
	survival := g.Speed + g.Efficiency
	breeding := g.Reproduction

	return math.Cbrt(combat * survival * breeding)
}
