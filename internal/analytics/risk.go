package analytics

import (
	"fmt"
	"math"

	"github.com/AlphaCoderNotAI/AlgoTrade-Analyzer/internal/timeseries"
)

// Ratio names carried by ComputationError.
const (
	RatioSharpe  = "sharpe"
	RatioSortino = "sortino"
)

// ComputationError reason codes.
const (
	ReasonInsufficientData = "insufficient_data"
	ReasonZeroVolatility   = "zero_volatility"
	ReasonNoDownside       = "no_downside"
)

// ComputationError signals that a statistical precondition for a risk ratio
// failed. It identifies which ratio failed and why, so the caller can decide
// between a fallback display and aborting the view. These failures are
// deterministic; retrying is never meaningful.
type ComputationError struct {
	Ratio  string
	Reason string
	Detail string
}

func (e *ComputationError) Error() string {
	return fmt.Sprintf("%s ratio: %s (%s)", e.Ratio, e.Reason, e.Detail)
}

// RiskConfig holds the assumptions behind the risk-adjusted ratios. It is
// passed explicitly so that parallel computations with different assumptions
// never share state.
type RiskConfig struct {
	// AnnualizationFactor is the number of trading periods per year used to
	// scale the ratios.
	AnnualizationFactor float64 `yaml:"annualization_factor"`
	// AnnualRiskFreeRate is the baseline annual return subtracted from the
	// mean before forming the ratio.
	AnnualRiskFreeRate float64 `yaml:"annual_risk_free_rate"`
}

// DefaultRiskConfig returns the conventional assumptions: 252 trading days
// and a 5% annual risk-free rate.
func DefaultRiskConfig() RiskConfig {
	return RiskConfig{
		AnnualizationFactor: 252,
		AnnualRiskFreeRate:  0.05,
	}
}

// Sharpe computes the annualized Sharpe ratio from the series' daily
// percentage returns:
//
//	Sharpe = mean(return - rf) / stddev(return) * sqrt(annualization)
//
// where return = PnLPercentage/100 per record and rf is the per-period
// risk-free rate (annual rate / annualization factor). The standard
// deviation is the sample deviation (n-1).
//
// Fewer than 2 records or zero volatility yield a *ComputationError.
func Sharpe(s timeseries.Series, cfg RiskConfig) (float64, error) {
	returns := periodReturns(s)
	if len(returns) < 2 {
		return 0, &ComputationError{
			Ratio:  RatioSharpe,
			Reason: ReasonInsufficientData,
			Detail: fmt.Sprintf("need at least 2 records, have %d", len(returns)),
		}
	}

	m := mean(returns)
	std := sampleStddev(returns, m)
	if std == 0 {
		return 0, &ComputationError{
			Ratio:  RatioSharpe,
			Reason: ReasonZeroVolatility,
			Detail: "returns have zero variance",
		}
	}

	excess := m - cfg.AnnualRiskFreeRate/cfg.AnnualizationFactor
	return excess / std * math.Sqrt(cfg.AnnualizationFactor), nil
}

// Sortino computes the annualized Sortino ratio: the same excess-return
// numerator as Sharpe, but the denominator is the sample standard deviation
// of the strictly negative returns only.
//
// Fewer than 2 records yields a *ComputationError with
// ReasonInsufficientData. Zero negative returns yields ReasonNoDownside.
// A single negative return leaves the downside deviation undefined and also
// yields ReasonInsufficientData.
func Sortino(s timeseries.Series, cfg RiskConfig) (float64, error) {
	returns := periodReturns(s)
	if len(returns) < 2 {
		return 0, &ComputationError{
			Ratio:  RatioSortino,
			Reason: ReasonInsufficientData,
			Detail: fmt.Sprintf("need at least 2 records, have %d", len(returns)),
		}
	}

	var downside []float64
	for _, r := range returns {
		if r < 0 {
			downside = append(downside, r)
		}
	}
	if len(downside) == 0 {
		return 0, &ComputationError{
			Ratio:  RatioSortino,
			Reason: ReasonNoDownside,
			Detail: "no negative returns in series",
		}
	}
	if len(downside) < 2 {
		return 0, &ComputationError{
			Ratio:  RatioSortino,
			Reason: ReasonInsufficientData,
			Detail: "downside deviation undefined with a single negative return",
		}
	}

	std := sampleStddev(downside, mean(downside))
	if std == 0 {
		return 0, &ComputationError{
			Ratio:  RatioSortino,
			Reason: ReasonZeroVolatility,
			Detail: "negative returns have zero variance",
		}
	}

	excess := mean(returns) - cfg.AnnualRiskFreeRate/cfg.AnnualizationFactor
	return excess / std * math.Sqrt(cfg.AnnualizationFactor), nil
}

// --- Internal helpers ---

// periodReturns converts each record's PnL percentage to a decimal return.
func periodReturns(s timeseries.Series) []float64 {
	if s.Empty() {
		return nil
	}
	out := make([]float64, s.Len())
	for i := 0; i < s.Len(); i++ {
		out[i] = s.At(i).PnLPercentage / 100.0
	}
	return out
}

// mean returns the arithmetic mean of a slice.
func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// sampleStddev returns the sample standard deviation of a slice given its mean.
func sampleStddev(xs []float64, m float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	sumSq := 0.0
	for _, x := range xs {
		d := x - m
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(xs)-1))
}
