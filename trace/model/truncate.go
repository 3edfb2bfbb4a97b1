package model

import (
	"math"
	"math/rand"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat/distuv"
)

// truncatedNormal draws from a normal distribution whose center has been
// shifted with solveCenter, then clamps each draw into [lower, upper].
// solveCenter places the center so the mean of the clamped draws lands on
// the configured mean, so the sampler must clamp rather than redraw: the
// two halves optimize and realize the same distribution.
//
// A nil lower bound defaults to zero: every quantity this sampler serves
// (bandwidth, delay) is non-negative.
type truncatedNormal struct {
	mu    float64
	sigma float64
	lo    float64
	hi    float64
	rng   *rand.Rand
}

func newTruncatedNormal(mean, sigma float64, lower, upper *float64, rng *rand.Rand) *truncatedNormal {
	if lower == nil || *lower < 0 {
		zero := 0.0
		lower = &zero
	}
	hi := math.Inf(1)
	if upper != nil {
		hi = *upper
	}
	center := solveCenter(mean, sigma, lower, upper)
	return &truncatedNormal{mu: center, sigma: sigma, lo: *lower, hi: hi, rng: rng}
}

func (t *truncatedNormal) sample() float64 {
	v := t.mu
	if t.sigma > 0 {
		v += t.rng.NormFloat64() * t.sigma
	}
	if v < t.lo {
		v = t.lo
	}
	if v > t.hi {
		v = t.hi
	}
	return v
}

// solveCenter finds the center of a normal distribution with the given sigma
// such that, after truncation to [lower, upper], the distribution's mean
// equals want. Newton iteration on the truncated-mean function; falls back
// to want itself if the iteration diverges.
func solveCenter(want, sigma float64, lower, upper *float64) float64 {
	const eps = 2.220446049250313e-16
	if math.Abs(sigma) <= eps {
		return want
	}
	if lower != nil && *lower >= want*(1+eps) {
		return *lower
	}
	if lower == nil && want <= eps {
		return 0
	}
	if upper != nil && (*upper)*(1+eps) <= want {
		return *upper
	}
	lo := 0.0
	if lower != nil && *lower > 0 {
		lo = *lower
	}

	result := want
	lastDiff := math.MaxFloat64
	runs := 10
	for runs > 0 {
		fx := truncatedMean(result, sigma, &lo, upper)
		diff := math.Abs(fx - want)
		if diff < lastDiff {
			lastDiff = diff
			runs = 100
		} else {
			runs--
		}
		result -= (fx - want) / truncatedMeanDeriv(result, sigma, &lo, upper)
	}
	if math.IsNaN(result) || math.IsInf(result, 0) {
		logrus.Warnf("truncated-normal recentering diverged for mean=%g sigma=%g; using uncentered mean", want, sigma)
		return want
	}
	return result
}

// meanIntegral is the antiderivative-at-t term of E[X·1{X<t}] for
// X ~ N(x, sigma): x·(Φ(t) − ½) − σ²·φ(t).
func meanIntegral(x, t, sigma float64) float64 {
	d := distuv.Normal{Mu: x, Sigma: sigma}
	return x*(d.CDF(t)-0.5) - sigma*sigma*d.Prob(t)
}

// meanIntegralDeriv is d/dx of meanIntegral.
func meanIntegralDeriv(x, t, sigma float64) float64 {
	d := distuv.Normal{Mu: x, Sigma: sigma}
	return (d.CDF(t) - 0.5) - t*d.Prob(t)
}

// truncatedMean evaluates the mean of N(x, sigma) truncated to
// [lower, upper], counting clipped mass at the bounds.
func truncatedMean(x, sigma float64, lower, upper *float64) float64 {
	var upperIntegral float64
	if upper != nil {
		upperIntegral = meanIntegral(x, *upper, sigma)
	} else {
		upperIntegral = x * 0.5
	}
	var lowerIntegral float64
	if lower != nil {
		lowerIntegral = meanIntegral(x, *lower, sigma)
	} else {
		lowerIntegral = meanIntegral(x, 0, sigma)
	}
	d := distuv.Normal{Mu: x, Sigma: sigma}
	var upperClip, lowerClip float64
	if upper != nil {
		upperClip = *upper * (1 - d.CDF(*upper))
	}
	if lower != nil {
		lowerClip = *lower * d.CDF(*lower)
	}
	return upperIntegral - lowerIntegral + lowerClip + upperClip
}

// truncatedMeanDeriv is d/dx of truncatedMean.
func truncatedMeanDeriv(x, sigma float64, lower, upper *float64) float64 {
	var upperIntegral float64
	if upper != nil {
		upperIntegral = meanIntegralDeriv(x, *upper, sigma)
	} else {
		upperIntegral = 0.5
	}
	var lowerIntegral float64
	if lower != nil {
		lowerIntegral = meanIntegralDeriv(x, *lower, sigma)
	} else {
		lowerIntegral = meanIntegralDeriv(x, 0, sigma)
	}
	d := distuv.Normal{Mu: x, Sigma: sigma}
	var upperClip, lowerClip float64
	if upper != nil {
		upperClip = *upper * d.Prob(*upper)
	}
	if lower != nil {
		lowerClip = *lower * -d.Prob(*lower)
	}
	return upperIntegral - lowerIntegral + lowerClip + upperClip
}
