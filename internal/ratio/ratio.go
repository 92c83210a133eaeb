package ratio

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Ratio is a reduced positive fraction Num/Den.
// The zero value is not a valid ratio; methods treat it as Unison.
type Ratio struct {
	Num int64 `json:"num"`
	Den int64 `json:"den"`
}

// Unison is the ratio 1/1.
var Unison = Ratio{Num: 1, Den: 1}

// NewRatio returns n/d in lowest terms.
// Non-positive input resolves to Unison.
func NewRatio(n, d int64) Ratio {
	if n <= 0 || d <= 0 {
		return Unison
	}
	g := gcd(n, d)
	return Ratio{Num: n / g, Den: d / g}
}

// ParseRatio parses "5/4", "5:4" or a bare integer such as "3".
func ParseRatio(s string) (Ratio, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Ratio{}, fmt.Errorf("parse ratio: empty input")
	}

	sep := strings.IndexAny(s, "/:")
	if sep < 0 {
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return Ratio{}, fmt.Errorf("parse ratio %q: %w", s, err)
		}
		if n <= 0 {
			return Ratio{}, fmt.Errorf("parse ratio %q: must be positive", s)
		}
		return NewRatio(n, 1), nil
	}

	n, err := strconv.ParseInt(strings.TrimSpace(s[:sep]), 10, 64)
	if err != nil {
		return Ratio{}, fmt.Errorf("parse ratio %q: numerator: %w", s, err)
	}
	d, err := strconv.ParseInt(strings.TrimSpace(s[sep+1:]), 10, 64)
	if err != nil {
		return Ratio{}, fmt.Errorf("parse ratio %q: denominator: %w", s, err)
	}
	if n <= 0 || d <= 0 {
		return Ratio{}, fmt.Errorf("parse ratio %q: terms must be positive", s)
	}
	return NewRatio(n, d), nil
}

// IsValid reports whether both terms are positive.
func (r Ratio) IsValid() bool {
	return r.Num > 0 && r.Den > 0
}

func (r Ratio) normalized() Ratio {
	if !r.IsValid() {
		return Unison
	}
	return r
}

// Value returns Num/Den as a float.
func (r Ratio) Value() float64 {
	r = r.normalized()
	return float64(r.Num) / float64(r.Den)
}

// Cents returns the size of the interval in cents.
func (r Ratio) Cents() float64 {
	return 1200 * math.Log2(r.Value())
}

// Mul returns r*o reduced. ok is false on int64 overflow.
func (r Ratio) Mul(o Ratio) (Ratio, bool) {
	r, o = r.normalized(), o.normalized()
	g1 := gcd(r.Num, o.Den)
	g2 := gcd(o.Num, r.Den)
	n, ok1 := checkedMul(r.Num/g1, o.Num/g2)
	d, ok2 := checkedMul(r.Den/g2, o.Den/g1)
	if !ok1 || !ok2 {
		return Ratio{}, false
	}
	return NewRatio(n, d), true
}

// Inverse returns Den/Num.
func (r Ratio) Inverse() Ratio {
	r = r.normalized()
	return Ratio{Num: r.Den, Den: r.Num}
}

func (r Ratio) String() string {
	r = r.normalized()
	return strconv.FormatInt(r.Num, 10) + "/" + strconv.FormatInt(r.Den, 10)
}

// Ref is a ratio anchored to an octave displacement from the root:
// the interval is P/Q * 2^Octave with P/Q in [1, 2).
// Monzo caches the prime-exponent decomposition of P/Q; empty means
// derive on demand.
type Ref struct {
	P      int64 `json:"p"`
	Q      int64 `json:"q"`
	Octave int   `json:"octave"`
	Monzo  Monzo `json:"monzo,omitempty"`
}

// NewRef octave-reduces r into [1, 2) and records the displacement.
func NewRef(r Ratio) Ref {
	reduced, octave := OctaveReduce(r)
	return Ref{P: reduced.Num, Q: reduced.Den, Octave: octave}
}

// Ratio returns the octave-reduced part P/Q.
func (f Ref) Ratio() Ratio {
	return NewRatio(f.P, f.Q)
}

// Full returns the whole interval P/Q * 2^Octave as one reduced ratio.
// ok is false when a term would overflow int64.
func (f Ref) Full() (Ratio, bool) {
	k := f.Octave
	if k < 0 {
		k = -k
	}
	if k > 62 {
		return Ratio{}, false
	}
	octaves := NewRatio(int64(1)<<k, 1)
	if f.Octave < 0 {
		octaves = octaves.Inverse()
	}
	return f.Ratio().Mul(octaves)
}

// Value returns P/Q * 2^Octave.
func (f Ref) Value() float64 {
	return math.Ldexp(f.Ratio().Value(), f.Octave)
}

// Cents returns the size of the full interval in cents.
func (f Ref) Cents() float64 {
	return f.Ratio().Cents() + 1200*float64(f.Octave)
}

// Exponents returns the cached monzo of P/Q, or factors it up to primeLimit.
func (f Ref) Exponents(primeLimit int) Monzo {
	if len(f.Monzo) > 0 {
		return f.Monzo
	}
	return FactorExponents(f.Ratio(), primeLimit)
}

func (f Ref) String() string {
	if f.Octave == 0 {
		return f.Ratio().String()
	}
	return fmt.Sprintf("%s (%+d oct)", f.Ratio(), f.Octave)
}

// OctaveReduce divides r by 2^k so the result lies in [1, 2) and returns k.
// If a term would overflow the reduction stops early.
func OctaveReduce(r Ratio) (Ratio, int) {
	r = r.normalized()
	n, d := r.Num, r.Den
	k := 0
	for i := 0; i < maxOctaveSteps && n/2 >= d; i++ {
		if n%2 == 0 {
			n /= 2
		} else if d <= math.MaxInt64/2 {
			d *= 2
		} else {
			break
		}
		k++
	}
	for i := 0; i < maxOctaveSteps && n < d; i++ {
		if d%2 == 0 {
			d /= 2
		} else if n <= math.MaxInt64/2 {
			n *= 2
		} else {
			break
		}
		k--
	}
	return Ratio{Num: n, Den: d}, k
}

// SemitoneOffset returns round(12*log2(r)) of r octave-reduced into [1, 2).
// The result lies in [0, 12].
func SemitoneOffset(r Ratio) int {
	reduced, _ := OctaveReduce(r)
	return int(math.Round(12 * math.Log2(reduced.Value())))
}

const maxOctaveSteps = 126

func gcd(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	if a < 0 {
		return -a
	}
	return a
}

// checkedMul multiplies two non-negative values, reporting overflow.
func checkedMul(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	if a > math.MaxInt64/b {
		return 0, false
	}
	return a * b, true
}

// checkedPow raises a non-negative base to a non-negative exponent.
func checkedPow(base int64, exp int) (int64, bool) {
	if base == 1 || exp == 0 {
		return 1, true
	}
	if exp > 63 {
		return 0, false
	}
	result := int64(1)
	for i := 0; i < exp; i++ {
		var ok bool
		result, ok = checkedMul(result, base)
		if !ok {
			return 0, false
		}
	}
	return result, true
}
