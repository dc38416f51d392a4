package genepool

import (
	"math"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sysu-ecnc-dev/evo-islands/internal/domain"
)

// 基因池的参数
type Options struct {
	EliteSize      int     // 精英池的容量
	HistoricalSize int     // 历史池的容量
	InitialRandom  int     // 初始化时注入的随机基因组数量
	EliteFraction  float64 // 种子基因组中精英所占的比例
}

func DefaultOptions() Options {
	return Options{
		EliteSize:      100,
		HistoricalSize: 1000,
		InitialRandom:  10,
		EliteFraction:  0.7,
	}
}

/**
 * GenePool: 全局基因池，是所有 worker 共享的唯一状态
 * 由于读（领取种子、查询统计）远多于写（提交结果、注册 worker），
 * 这里用一把读写锁来保护整个状态，而不做更细粒度的加锁
 * 随机数生成器单独用一把锁保护，因为多个持有读锁的请求可能并发地取随机数
 */
type GenePool struct {
	mu sync.RWMutex

	options       Options
	eliteGenomes  []domain.GenomeWithFitness // 按适应度降序排列
	historical    []domain.Genome            // 曾经的精英，无序，用于保持多样性
	activeWorkers map[uuid.UUID]struct{}

	totalWorkUnits   uint64
	totalGenerations uint64
	startTime        time.Time

	rngMu sync.Mutex
	rng   *rand.Rand
}

// 初始化基因池，精英池中先注入若干随机基因组，避免最早的任务无种子可用
func New(options Options, rng *rand.Rand) *GenePool {
	// 配置中的比例必须落在 [0, 1]，否则 SeedGenomes 的数量保证不成立
	if options.EliteFraction < 0 {
		options.EliteFraction = 0
	}
	if options.EliteFraction > 1 {
		options.EliteFraction = 1
	}

	p := &GenePool{
		options:       options,
		eliteGenomes:  make([]domain.GenomeWithFitness, 0, options.EliteSize),
		historical:    make([]domain.Genome, 0),
		activeWorkers: make(map[uuid.UUID]struct{}),
		startTime:     time.Now(),
		rng:           rng,
	}

	for i := 0; i < options.InitialRandom; i++ {
		genome := domain.RandomGenome(rng)
		p.eliteGenomes = append(p.eliteGenomes, domain.GenomeWithFitness{
			Genome:  genome,
			Fitness: genome.FitnessScore(),
		})
	}
	sort.SliceStable(p.eliteGenomes, func(i, j int) bool {
		return p.eliteGenomes[i].Fitness > p.eliteGenomes[j].Fitness
	})

	return p
}

// 注册一个 worker，重复注册没有影响
func (p *GenePool) RegisterWorker(workerID uuid.UUID) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.activeWorkers[workerID] = struct{}{}
}

/**
 * 为一个新任务生成种子基因组，总是恰好返回 count 个
 * 其中 ⌈EliteFraction * count⌉ 个从精英池的头部取（精英不够时循环复用），
 * 剩下的从历史池中有放回地随机抽取，历史池为空时用随机基因组补齐
 */
func (p *GenePool) SeedGenomes(count int) []domain.Genome {
	p.mu.RLock()
	defer p.mu.RUnlock()

	seeds := make([]domain.Genome, 0, count)

	// EliteFraction 不超过 1，所以 ⌈EliteFraction * count⌉ 不会超过 count
	eliteCount := int(math.Ceil(p.options.EliteFraction * float64(count)))
	for i := 0; i < eliteCount && len(p.eliteGenomes) > 0; i++ {
		seeds = append(seeds, p.eliteGenomes[i%len(p.eliteGenomes)].Genome)
	}

	for len(seeds) < count {
		if len(p.historical) > 0 {
			seeds = append(seeds, p.historical[p.randIntn(len(p.historical))])
		} else {
			seeds = append(seeds, p.randomGenome())
		}
	}

	return seeds
}

/**
 * 合并一个任务的结果
 * 每个提交的基因组，只要精英池未满或者适应度超过当前池中的最低值，
 * 就按降序插入精英池；插入后超出容量的部分从尾部移入历史池
 * 历史池超出容量时随机丢弃一部分（不保证保留最新的）
 */
func (p *GenePool) SubmitResults(workerID uuid.UUID, bestGenomes []domain.GenomeWithFitness, generationsCompleted uint32) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.totalWorkUnits++
	p.totalGenerations += uint64(generationsCompleted)
	p.activeWorkers[workerID] = struct{}{}

	for _, candidate := range bestGenomes {
		if len(p.eliteGenomes) >= p.options.EliteSize &&
			candidate.Fitness <= p.eliteGenomes[len(p.eliteGenomes)-1].Fitness {
			continue
		}

		// 按降序插入，适应度相同时新基因组排在后面
		pos := sort.Search(len(p.eliteGenomes), func(i int) bool {
			return p.eliteGenomes[i].Fitness < candidate.Fitness
		})
		p.eliteGenomes = append(p.eliteGenomes, domain.GenomeWithFitness{})
		copy(p.eliteGenomes[pos+1:], p.eliteGenomes[pos:])
		p.eliteGenomes[pos] = candidate

		// 被挤出精英池的基因组进入历史池
		if len(p.eliteGenomes) > p.options.EliteSize {
			evicted := p.eliteGenomes[len(p.eliteGenomes)-1]
			p.eliteGenomes = p.eliteGenomes[:len(p.eliteGenomes)-1]
			p.historical = append(p.historical, evicted.Genome)
		}
	}

	if len(p.historical) > p.options.HistoricalSize {
		p.shuffleHistorical()
		p.historical = p.historical[:p.options.HistoricalSize]
	}
}

// 返回当前状态的一个只读快照，不会修改任何计数器
func (p *GenePool) Stats() domain.GlobalStats {
	p.mu.RLock()
	defer p.mu.RUnlock()

	topCount := 10
	if topCount > len(p.eliteGenomes) {
		topCount = len(p.eliteGenomes)
	}
	top := make([]domain.GenomeWithFitness, topCount)
	copy(top, p.eliteGenomes[:topCount])

	return domain.GlobalStats{
		ActiveWorkers:    len(p.activeWorkers),
		TotalWorkUnits:   p.totalWorkUnits,
		TotalGenerations: p.totalGenerations,
		BestGenomes:      top,
		PoolSize:         len(p.eliteGenomes) + len(p.historical),
		UptimeSeconds:    uint64(time.Since(p.startTime).Seconds()),
	}
}

func (p *GenePool) randIntn(n int) int {
	p.rngMu.Lock()
	defer p.rngMu.Unlock()
	return p.rng.Intn(n)
}

func (p *GenePool) randomGenome() domain.Genome {
	p.rngMu.Lock()
	defer p.rngMu.Unlock()
	return domain.RandomGenome(p.rng)
}

func (p *GenePool) shuffleHistorical() {
	p.rngMu.Lock()
	defer p.rngMu.Unlock()
	p.rng.Shuffle(len(p.historical), func(i, j int) {
		p.historical[i], p.historical[j] = p.historical[j], p.historical[i]
	})
}
