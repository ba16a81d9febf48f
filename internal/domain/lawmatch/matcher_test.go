package lawmatch

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func wam(v string) *decimal.Decimal {
	d := decimal.RequireFromString(v)
	return &d
}

func byFirm(results []Result) map[string]Result {
	m := make(map[string]Result, len(results))
	for _, r := range results {
		m[r.Firm] = r
	}
	return m
}

func TestMatcher_HighWAM(t *testing.T) {
	results := NewDefaultMatcher().Match(Query{University: "University of Melbourne", WAM: wam("85")})
	require.Len(t, results, len(Firms))

	assert.Equal(t, "Lander & Rogers", results[0].Firm)
	assert.Equal(t, int64(46), results[0].Score)
	assert.Equal(t, 35, results[0].UniPercentage)
	assert.Equal(t, MatchStrong, results[0].MatchLevel)

	firms := byFirm(results)
	// 25 * 1.3 = 32.5 rounds half to even
	assert.Equal(t, int64(32), firms["Allens"].Score)
	// 15 * 1.3 = 19.5: the level is judged before rounding
	assert.Equal(t, int64(20), firms["MinterEllison"].Score)
	assert.Equal(t, MatchGood, firms["MinterEllison"].MatchLevel)
	assert.Equal(t, int64(13), firms["Gilbert + Tobin"].Score)

	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i-1].Score, results[i].Score)
	}
}

func TestMatcher_WAMBands(t *testing.T) {
	m := NewDefaultMatcher()
	tests := []struct {
		name  string
		wam   *decimal.Decimal
		score int64
	}{
		{"default wam applies the 70 band", nil, 33},
		{"80 and above", wam("80"), 39},
		{"70 to 80", wam("72.5"), 33},
		{"60 to 70 is unchanged", wam("65"), 30},
		{"below 60", wam("59.9"), 24},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			firms := byFirm(m.Match(Query{University: "University of Sydney", WAM: tt.wam}))
			// Gilbert + Tobin takes 30% from Sydney
			assert.Equal(t, tt.score, firms["Gilbert + Tobin"].Score)
		})
	}
}

func TestMatcher_UnknownUniversityUsesOther(t *testing.T) {
	results := NewDefaultMatcher().Match(Query{University: "Bond University"})
	firms := byFirm(results)

	assert.Equal(t, 3, firms["Allens"].UniPercentage)
	assert.Equal(t, int64(3), firms["Allens"].Score)
	assert.Equal(t, MatchModerate, firms["Allens"].MatchLevel)
	assert.Equal(t, int64(6), firms["Lander & Rogers"].Score)
}

func TestMatcher_TiesKeepFirmOrder(t *testing.T) {
	data := FirmData{
		"B": {OtherUniversity: 10},
		"A": {OtherUniversity: 10},
		"C": {OtherUniversity: 12},
	}
	results := NewMatcher(data, []string{"B", "A", "C", "Missing"}).Match(Query{WAM: wam("65")})
	require.Len(t, results, 3)
	assert.Equal(t, []string{"C", "B", "A"}, []string{results[0].Firm, results[1].Firm, results[2].Firm})
}

func TestFirmData_Share(t *testing.T) {
	data := DefaultFirmData()
	v, ok := data.Share("Allens", "UNSW")
	assert.True(t, ok)
	assert.Equal(t, 15, v)

	_, ok = data.Share("Nobody LLP", "UNSW")
	assert.False(t, ok)

	for _, firm := range Firms {
		total := 0
		for _, uni := range Universities {
			total += data[firm][uni]
		}
		assert.Equal(t, 100, total, firm)
	}
}
