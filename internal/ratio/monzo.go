package ratio

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

// Monzo maps a prime to its exponent in a ratio's factorization.
// Primes with a zero exponent are absent.
type Monzo map[int]int

// SupportedPrimes are the primes above 3 that the notation can express
// with a dedicated comma glyph. Everything else is spelled approximately.
var SupportedPrimes = []int{5, 7, 11, 13, 17, 19, 23, 29, 31}

// maxTrialDivisor bounds the full factorization used to discover
// unsupported primes. A cofactor left above it is reported as one prime.
const maxTrialDivisor = 1 << 16

// FactorExponents factors numerator and denominator by trial division with
// the primes up to primeLimit. The exponent of 2 is included so the monzo
// reconstructs the ratio exactly; use WithoutOctave to drop it.
func FactorExponents(r Ratio, primeLimit int) Monzo {
	r = r.normalized()
	m := Monzo{}
	n, d := r.Num, r.Den
	for _, p := range primesUpTo(primeLimit) {
		p64 := int64(p)
		e := 0
		for n%p64 == 0 {
			n /= p64
			e++
		}
		for d%p64 == 0 {
			d /= p64
			e--
		}
		if e != 0 {
			m[p] = e
		}
	}
	return m
}

// Factorize returns the complete monzo of r regardless of any prime limit.
func Factorize(r Ratio) Monzo {
	r = r.normalized()
	m := Monzo{}
	for _, f := range primeFactors(r.Num) {
		m[int(f.prime)] += f.count
	}
	for _, f := range primeFactors(r.Den) {
		m[int(f.prime)] -= f.count
	}
	for p, e := range m {
		if e == 0 {
			delete(m, p)
		}
	}
	return m
}

// UnsupportedPrimes lists, in ascending order, the prime factors of
// numerator or denominator that are neither 2, 3, nor a supported prime
// no larger than primeLimit.
func UnsupportedPrimes(r Ratio, primeLimit int) []int {
	r = r.normalized()
	var out []int
	seen := map[int64]bool{}
	for _, term := range [2]int64{r.Num, r.Den} {
		for _, f := range primeFactors(term) {
			if seen[f.prime] || f.prime == 2 || f.prime == 3 {
				continue
			}
			seen[f.prime] = true
			if f.prime <= int64(primeLimit) && isSupported(int(f.prime)) {
				continue
			}
			out = append(out, int(f.prime))
		}
	}
	sort.Ints(out)
	return out
}

// WithinLimit reports whether every prime factor of r is at most primeLimit.
func WithinLimit(r Ratio, primeLimit int) bool {
	r = r.normalized()
	return smoothOver(r.Num, primeLimit) && smoothOver(r.Den, primeLimit)
}

// Ratio rebuilds the fraction from the exponents.
// ok is false when a power or product overflows int64.
func (m Monzo) Ratio() (Ratio, bool) {
	n, d := int64(1), int64(1)
	for _, p := range m.Primes() {
		e := m[p]
		pow, ok := checkedPow(int64(p), abs(e))
		if !ok {
			return Ratio{}, false
		}
		if e > 0 {
			n, ok = checkedMul(n, pow)
		} else {
			d, ok = checkedMul(d, pow)
		}
		if !ok {
			return Ratio{}, false
		}
	}
	return NewRatio(n, d), true
}

// Value evaluates the monzo in floating point. It never overflows to a
// wrong finite value, unlike integer reconstruction.
func (m Monzo) Value() float64 {
	v := 1.0
	for p, e := range m {
		v *= math.Pow(float64(p), float64(e))
	}
	return v
}

// WithoutOctave returns a copy without the exponent of 2.
func (m Monzo) WithoutOctave() Monzo {
	out := make(Monzo, len(m))
	for p, e := range m {
		if p != 2 {
			out[p] = e
		}
	}
	return out
}

// Primes returns the primes present, ascending.
func (m Monzo) Primes() []int {
	ps := make([]int, 0, len(m))
	for p := range m {
		ps = append(ps, p)
	}
	sort.Ints(ps)
	return ps
}

// OnlyPrime reports whether p is the single prime other than 2 present.
func (m Monzo) OnlyPrime(p int) bool {
	if m[p] == 0 {
		return false
	}
	for q, e := range m {
		if q != 2 && q != p && e != 0 {
			return false
		}
	}
	return true
}

// String renders the monzo in bracket notation, e.g. "[-2 0 1>" for 5/4.
func (m Monzo) String() string {
	if len(m) == 0 {
		return "[>"
	}
	ps := m.Primes()
	top := ps[len(ps)-1]
	var b strings.Builder
	b.WriteByte('[')
	first := true
	for _, p := range primesUpTo(top) {
		if !first {
			b.WriteByte(' ')
		}
		first = false
		b.WriteString(strconv.Itoa(m[p]))
	}
	b.WriteByte('>')
	return b.String()
}

func isSupported(p int) bool {
	for _, s := range SupportedPrimes {
		if s == p {
			return true
		}
	}
	return false
}

type primePower struct {
	prime int64
	count int
}

// primeFactors factors n by bounded trial division.
func primeFactors(n int64) []primePower {
	var out []primePower
	if n < 2 {
		return out
	}
	for p := int64(2); p <= maxTrialDivisor && p*p <= n; p++ {
		if n%p != 0 {
			continue
		}
		c := 0
		for n%p == 0 {
			n /= p
			c++
		}
		out = append(out, primePower{prime: p, count: c})
	}
	if n > 1 {
		out = append(out, primePower{prime: n, count: 1})
	}
	return out
}

func smoothOver(n int64, limit int) bool {
	for _, p := range primesUpTo(limit) {
		for n%int64(p) == 0 {
			n /= int64(p)
		}
	}
	return n == 1
}

// smallPrimes covers every limit the engine is configured with.
var smallPrimes = []int{2, 3, 5, 7, 11, 13, 17, 19, 23, 29, 31, 37, 41, 43, 47, 53, 59, 61, 67, 71, 73, 79, 83, 89, 97}

// maxPrimeLimit caps primesUpTo so a hostile limit cannot stall a caller.
const maxPrimeLimit = 1 << 12

func primesUpTo(limit int) []int {
	if limit < 2 {
		return nil
	}
	if limit <= smallPrimes[len(smallPrimes)-1] {
		i := sort.SearchInts(smallPrimes, limit+1)
		return smallPrimes[:i]
	}
	if limit > maxPrimeLimit {
		limit = maxPrimeLimit
	}
	sieve := make([]bool, limit+1)
	var out []int
	for i := 2; i <= limit; i++ {
		if sieve[i] {
			continue
		}
		out = append(out, i)
		for j := i * i; j <= limit; j += i {
			sieve[j] = true
		}
	}
	return out
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
