package sim

import (
	"math/rand"

	"github.com/sysu-ecnc-dev/evo-islands/internal/domain"
)

// 生物出生时的初始能量
const initialEnergy = 50.0

// Creature: 岛屿上的一个生物，持有一个基因组以及能量和年龄两个状态
type Creature struct {
	Genome domain.Genome
	Energy float64
	Age    uint32
}

func NewCreature(genome domain.Genome) *Creature {
	return &Creature{
		Genome: genome,
		Energy: initialEnergy,
		Age:    0,
	}
}

// 每一代消耗一次能量，消耗量由基因组决定，同时年龄加一
func (c *Creature) ConsumeEnergy() {
	c.Energy -= c.Genome.EnergyCost()
	c.Age++
}

// 进食获得能量，没有上限
func (c *Creature) AddEnergy(amount float64) {
	c.Energy += amount
}

// 能量耗尽即死亡
func (c *Creature) IsDead() bool {
	return c.Energy <= 0
}

// 能量达到阈值才允许繁殖
func (c *Creature) CanReproduce(threshold float64) bool {
	return c.Energy >= threshold
}

/**
 * 和另一个生物繁殖后代
 * 只有双方的能量都达到阈值时才会繁殖，此时双方各扣除 cost 的能量，
 * 后代的基因组由双方交叉后再变异得到，能量和年龄都是初始值
 * 如果任何一方不满足条件，则返回 nil，并且双方的状态都不会改变
 */
func (c *Creature) Reproduce(rng *rand.Rand, other *Creature, mutationRate float64, cost float64, threshold float64) *Creature {
	if !c.CanReproduce(threshold) || !other.CanReproduce(threshold) {
		return nil
	}

	c.Energy -= cost
	other.Energy -= cost

	childGenome := c.Genome.Crossover(rng, other.Genome)
	childGenome.Mutate(rng, mutationRate)

	return NewCreature(childGenome)
}

// 战斗力，用于食物分配时的竞争，和适应度中的 combat 项是同一个公式
func (c *Creature) CombatPower() float64 {
	return c.Genome.Strength + c.Genome.Size*0.5
}

func (c *Creature) Fitness() float64 {
	return c.Genome.FitnessScore()
}
