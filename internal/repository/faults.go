package repository

import (
	"math/rand"
	"sync"
	"time"
)

// FaultPolicy decides whether an operation should fail with a simulated
// transient error. The repository consults it on ListAll; tests substitute
// a deterministic policy instead of relying on real randomness.
type FaultPolicy interface {
	ShouldFail() bool
}

// FaultPolicyFunc adapts a plain function to the FaultPolicy interface.
type FaultPolicyFunc func() bool

func (f FaultPolicyFunc) ShouldFail() bool { return f() }

// NeverFail is a deterministic policy that never injects a failure.
var NeverFail FaultPolicy = FaultPolicyFunc(func() bool { return false })

// AlwaysFail is a deterministic policy that always injects a failure.
var AlwaysFail FaultPolicy = FaultPolicyFunc(func() bool { return true })

// NewRandomFaultPolicy returns a policy that fails with the given independent
// probability per call. Safe for concurrent use.
func NewRandomFaultPolicy(rate float64) FaultPolicy {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	var mu sync.Mutex
	return FaultPolicyFunc(func() bool {
		mu.Lock()
		defer mu.Unlock()
		return rng.Float64() < rate
	})
}
