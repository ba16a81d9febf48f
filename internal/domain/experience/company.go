package experience

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
)

// MaxRecentRoles caps the roles listed in a company summary
const MaxRecentRoles = 5

// CompanySummary aggregates the submissions about one company
type CompanySummary struct {
	Name             string
	TotalSubmissions int
	// AvgSalary is the integer mean of purely numeric salary sections, nil when none
	AvgSalary   *int64
	RecentRoles []string
}

// FoldCompany returns the case-folded key used to compare company names
func FoldCompany(name string) string {
	return cases.Fold().String(strings.TrimSpace(name))
}

// SameCompany reports whether two company names refer to the same company
func SameCompany(a, b string) bool {
	return FoldCompany(a) == FoldCompany(b)
}

type summaryBuilder struct {
	summary   CompanySummary
	salarySum decimal.Decimal
	salaryN   int64
	seenRoles map[string]bool
}

func newSummaryBuilder(name string) *summaryBuilder {
	return &summaryBuilder{
		summary:   CompanySummary{Name: name, RecentRoles: []string{}},
		salarySum: decimal.Zero,
		seenRoles: make(map[string]bool),
	}
}

func (b *summaryBuilder) add(s *Submission) {
	b.summary.TotalSubmissions++
	if salary, ok := numericSalary(s.SalaryBenefits); ok {
		b.salarySum = b.salarySum.Add(salary)
		b.salaryN++
	}
	role := strings.TrimSpace(s.Role)
	key := cases.Fold().String(role)
	if role != "" && !b.seenRoles[key] && len(b.summary.RecentRoles) < MaxRecentRoles {
		b.seenRoles[key] = true
		b.summary.RecentRoles = append(b.summary.RecentRoles, role)
	}
}

func (b *summaryBuilder) build() CompanySummary {
	out := b.summary
	if b.salaryN > 0 {
		avg := b.salarySum.Div(decimal.NewFromInt(b.salaryN)).Truncate(0).IntPart()
		out.AvgSalary = &avg
	}
	return out
}

// Summarize groups submissions by company. Submissions are expected newest
// first so the listed roles are the most recent ones. The result is ordered by
// submission count descending, then by name.
func Summarize(subs []Submission) []CompanySummary {
	builders := make(map[string]*summaryBuilder)
	var order []string
	for i := range subs {
		s := &subs[i]
		key := FoldCompany(s.Company)
		if key == "" {
			continue
		}
		b, ok := builders[key]
		if !ok {
			b = newSummaryBuilder(strings.TrimSpace(s.Company))
			builders[key] = b
			order = append(order, key)
		}
		b.add(s)
	}

	result := make([]CompanySummary, 0, len(order))
	for _, key := range order {
		result = append(result, builders[key].build())
	}
	sort.SliceStable(result, func(i, j int) bool {
		if result[i].TotalSubmissions != result[j].TotalSubmissions {
			return result[i].TotalSubmissions > result[j].TotalSubmissions
		}
		return result[i].Name < result[j].Name
	})
	return result
}

// SummarizeCompany aggregates the submissions of a single company under the
// requested name. Returns nil when there are none.
func SummarizeCompany(name string, subs []Submission) *CompanySummary {
	if len(subs) == 0 {
		return nil
	}
	b := newSummaryBuilder(name)
	for i := range subs {
		b.add(&subs[i])
	}
	out := b.build()
	return &out
}

// numericSalary accepts a salary section made only of digits
func numericSalary(v *string) (decimal.Decimal, bool) {
	if v == nil {
		return decimal.Zero, false
	}
	s := strings.TrimSpace(*v)
	if s == "" {
		return decimal.Zero, false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return decimal.Zero, false
		}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}
