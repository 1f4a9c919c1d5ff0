package scenario

import (
	"math"
	"math/rand/v2"
	"sync"

	"github.com/funvibe/questlang/internal/config"
)

// Registry holds candidate builders per key and picks among them at random,
// avoiding the ones served recently. Recent use is tracked per key in a
// bounded history; each entry adds 1 to its candidate's usage for the most
// recent pick, decaying geometrically for older ones.
type Registry[K comparable, B any] struct {
	mu          sync.Mutex
	keys        []K
	builders    map[K][]B
	history     map[K][]int // oldest first
	historySize int
	decay       float64
	rng         *rand.Rand
}

// NewRegistry returns a registry with the default history size and decay.
// A nil rng uses a randomly seeded PCG source.
func NewRegistry[K comparable, B any](rng *rand.Rand) *Registry[K, B] {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Registry[K, B]{
		builders:    make(map[K][]B),
		history:     make(map[K][]int),
		historySize: config.ScenarioHistorySize,
		decay:       config.ScenarioDecay,
		rng:         rng,
	}
}

// SetHistory overrides the history size and decay factor.
func (r *Registry[K, B]) SetHistory(size int, decay float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.historySize = size
	r.decay = decay
}

// Register appends a builder for key and clears key's history so the new
// builder competes on equal terms.
func (r *Registry[K, B]) Register(key K, builder B) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.builders[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.builders[key] = append(r.builders[key], builder)
	delete(r.history, key)
}

// Builders returns the candidates of key in registration order.
func (r *Registry[K, B]) Builders(key K) []B {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]B(nil), r.builders[key]...)
}

// Keys returns every key with at least one builder, in registration order.
func (r *Registry[K, B]) Keys() []K {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]K(nil), r.keys...)
}

// Pick chooses uniformly among the candidates of key with the lowest
// weighted usage and records the choice. It reports false when key has no
// builders.
func (r *Registry[K, B]) Pick(key K) (B, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	candidates := r.builders[key]
	if len(candidates) == 0 {
		var zero B
		return zero, false
	}

	weights := r.weightsLocked(key)
	lowest := math.Inf(1)
	for _, w := range weights {
		lowest = math.Min(lowest, w)
	}
	var tied []int
	for i, w := range weights {
		if w-lowest < 1e-9 {
			tied = append(tied, i)
		}
	}
	chosen := tied[r.rng.IntN(len(tied))]

	h := append(r.history[key], chosen)
	if len(h) > r.historySize {
		h = h[len(h)-r.historySize:]
	}
	r.history[key] = h
	return candidates[chosen], true
}

// Weights returns the weighted usage of every candidate of key.
func (r *Registry[K, B]) Weights(key K) []float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.weightsLocked(key)
}

func (r *Registry[K, B]) weightsLocked(key K) []float64 {
	weights := make([]float64, len(r.builders[key]))
	h := r.history[key]
	factor := 1.0
	for i := len(h) - 1; i >= 0; i-- {
		if h[i] < len(weights) {
			weights[h[i]] += factor
		}
		factor *= r.decay
	}
	return weights
}

// Reset forgets every history; builders stay registered.
func (r *Registry[K, B]) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.history = make(map[K][]int)
}

// Clear removes every builder and history.
func (r *Registry[K, B]) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.keys = nil
	r.builders = make(map[K][]B)
	r.history = make(map[K][]int)
}
