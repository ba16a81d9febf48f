package lawmatch

import (
	"sort"

	"github.com/shopspring/decimal"
)

// MatchLevel buckets a score
type MatchLevel string

const (
	MatchStrong   MatchLevel = "Strong"
	MatchGood     MatchLevel = "Good"
	MatchModerate MatchLevel = "Moderate"
)

// DefaultWAM is assumed when the query carries no WAM
var DefaultWAM = decimal.NewFromInt(70)

var (
	wamHigh     = decimal.NewFromInt(80)
	wamMid      = decimal.NewFromInt(70)
	wamLow      = decimal.NewFromInt(60)
	boostHigh   = decimal.RequireFromString("1.3")
	boostMid    = decimal.RequireFromString("1.1")
	penaltyLow  = decimal.RequireFromString("0.8")
	strongFloor = decimal.NewFromInt(20)
	goodFloor   = decimal.NewFromInt(10)
)

// Query is a candidate profile
type Query struct {
	University string
	// WAM is the weighted average mark, nil means DefaultWAM
	WAM *decimal.Decimal
}

// Result is one firm's score for a query
type Result struct {
	Firm          string
	Score         int64
	UniPercentage int
	MatchLevel    MatchLevel
}

// Matcher scores every firm in its data set
type Matcher struct {
	data  FirmData
	firms []string
}

// NewMatcher creates a matcher over data. Firms are visited in the given order.
func NewMatcher(data FirmData, firms []string) *Matcher {
	return &Matcher{data: data, firms: firms}
}

// NewDefaultMatcher creates a matcher over the built-in table
func NewDefaultMatcher() *Matcher {
	return NewMatcher(DefaultFirmData(), Firms)
}

// Data returns the underlying intake table
func (m *Matcher) Data() FirmData {
	return m.data
}

// Match scores every firm and returns the results ordered by score descending.
// Ties keep the firm order.
func (m *Matcher) Match(q Query) []Result {
	wam := DefaultWAM
	if q.WAM != nil {
		wam = *q.WAM
	}
	factor := wamFactor(wam)

	results := make([]Result, 0, len(m.firms))
	for _, firm := range m.firms {
		share, ok := m.data.Share(firm, q.University)
		if !ok {
			continue
		}
		raw := decimal.NewFromInt(int64(share)).Mul(factor)
		results = append(results, Result{
			Firm:          firm,
			Score:         raw.RoundBank(0).IntPart(),
			UniPercentage: share,
			MatchLevel:    level(raw),
		})
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return results
}

func wamFactor(wam decimal.Decimal) decimal.Decimal {
	switch {
	case wam.GreaterThanOrEqual(wamHigh):
		return boostHigh
	case wam.GreaterThanOrEqual(wamMid):
		return boostMid
	case wam.LessThan(wamLow):
		return penaltyLow
	default:
		return decimal.NewFromInt(1)
	}
}

func level(score decimal.Decimal) MatchLevel {
	switch {
	case score.GreaterThanOrEqual(strongFloor):
		return MatchStrong
	case score.GreaterThanOrEqual(goodFloor):
		return MatchGood
	default:
		return MatchModerate
	}
}
