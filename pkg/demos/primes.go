package demos

import (
	"fmt"

	"github.com/vango-dev/hooks/pkg/hooks"
)

// Sieve returns the primes up to and including limit.
func Sieve(limit int) []int {
	if limit < 2 {
		return nil
	}
	composite := make([]bool, limit+1)
	var primes []int
	for i := 2; i <= limit; i++ {
		if composite[i] {
			continue
		}
		primes = append(primes, i)
		for j := i * i; j <= limit; j += i {
			composite[j] = true
		}
	}
	return primes
}

// Fibonacci returns the n-th Fibonacci number by plain recursion, slow on
// purpose.
func Fibonacci(n int) int {
	if n <= 1 {
		return n
	}
	return Fibonacci(n-1) + Fibonacci(n-2)
}

// PrimeView is the output of PrimeFilter.
type PrimeView struct {
	Limit   int
	Primes  int
	Largest int
	FibN    int
	Fib     int
	Clicks  int

	// Computations counts sieve and Fibonacci runs across all renders.
	Computations int

	SetLimit func(limit int)
	SetFibN  func(n int)
	Click    func()
}

func (v PrimeView) String() string {
	return fmt.Sprintf("limit=%d primes=%d largest=%d fib(%d)=%d clicks=%d computations=%d",
		v.Limit, v.Primes, v.Largest, v.FibN, v.Fib, v.Clicks, v.Computations)
}

// PrimeFilter memoizes two expensive derivations. Clicking re-renders but
// recomputes neither; changing the limit reruns only the sieve.
func PrimeFilter(in *hooks.Instance) any {
	limit, setLimit := hooks.UseState(in, 1000)
	fibN, setFibN := hooks.UseState(in, 20)
	clicks, setClicks := hooks.UseState(in, 0)
	computations := hooks.UseRef(in, 0)

	primes := hooks.UseMemo(in, func() []int {
		computations.Set(computations.Current() + 1)
		return Sieve(limit)
	}, hooks.On(limit))

	fib := hooks.UseMemo(in, func() int {
		computations.Set(computations.Current() + 1)
		return Fibonacci(fibN)
	}, hooks.On(fibN))

	largest := 0
	if len(primes) > 0 {
		largest = primes[len(primes)-1]
	}

	return PrimeView{
		Limit:        limit,
		Primes:       len(primes),
		Largest:      largest,
		FibN:         fibN,
		Fib:          fib,
		Clicks:       clicks,
		Computations: computations.Current(),
		SetLimit:     func(l int) { setLimit.Set(l) },
		SetFibN: func(n int) {
			if n < 0 {
				n = 0
			}
			setFibN.Set(n)
		},
		Click: func() { setClicks.Update(func(c int) int { return c + 1 }) },
	}
}
