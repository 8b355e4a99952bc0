// Package compliance accounts leave-certificate days over a trailing window
// and decides whether an employee has to be referred for escalation.
//
// Days are summed per diagnosis group and the largest group is compared with
// the limit of the employee's contract class. Leave for unrelated conditions
// therefore never adds up to an escalation.
package compliance

import (
	"math"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/dmitrijs2005/worktracker/internal/models"
)

// WindowDays is the length of the trailing accounting window; both ends count.
const WindowDays = 60

// NoCodeGroup collects certificates without a diagnosis code.
const NoCodeGroup = "no-code"

// Limits per contract class.
const (
	PermanentLimit = 10
	DefaultLimit   = 15
)

// Verdict is the escalation outcome.
type Verdict string

const (
	VerdictNormal            Verdict = "normal"
	VerdictInternalCommittee Verdict = "refer-to-internal-committee"
	VerdictExternalBenefits  Verdict = "refer-to-external-benefits"
)

// Group is the per-diagnosis subtotal inside the window.
type Group struct {
	Prefix       string  `json:"prefix"`
	Days         float64 `json:"days"`
	Certificates int     `json:"certificates"`
}

// Analysis is the result for one employee.
type Analysis struct {
	AccumulatedDays float64 `json:"accumulatedDays"`
	Status          Verdict `json:"status"`
	Limit           int     `json:"limit"`
	Groups          []Group `json:"groups"`
}

// Escalated reports whether the verdict is anything but normal.
func (a Analysis) Escalated() bool {
	return a.Status != VerdictNormal
}

// LimitFor returns the day limit for a contract class.
func LimitFor(class models.ContractClass) int {
	if class == models.ContractPermanent {
		return PermanentLimit
	}
	return DefaultLimit
}

// DiagnosisPrefix normalizes a diagnosis code to its group key: the first
// letter and the two digits after it, upper-cased ("j06.9" -> "J06"). Dots and
// spaces between those characters are skipped. Empty codes map to
// NoCodeGroup; codes of another shape group by their upper-cased text.
func DiagnosisPrefix(code string) string {
	trimmed := strings.ToUpper(strings.TrimSpace(code))
	if trimmed == "" {
		return NoCodeGroup
	}

	var key []rune
	for _, r := range trimmed {
		if r == '.' || r == ' ' {
			continue
		}
		switch len(key) {
		case 0:
			if !unicode.IsLetter(r) || r > unicode.MaxASCII {
				return trimmed
			}
		default:
			if r < '0' || r > '9' {
				return trimmed
			}
		}
		key = append(key, r)
		if len(key) == 3 {
			return string(key)
		}
	}
	return trimmed
}

// InWindow reports whether day lies in [today-WindowDays, today].
func InWindow(day models.Date, now time.Time) bool {
	diff := models.DateOf(now).DaysSince(day)
	return diff >= 0 && diff <= WindowDays
}

// Analyze runs the accounting for one employee's certificates as of now.
func Analyze(certs []models.LeaveCertificate, class models.ContractClass, now time.Time) Analysis {
	limit := LimitFor(class)

	sums := make(map[string]*Group)
	for _, c := range certs {
		if !InWindow(c.Date, now) {
			continue
		}
		prefix := DiagnosisPrefix(c.DiagnosisCode)
		g, ok := sums[prefix]
		if !ok {
			g = &Group{Prefix: prefix}
			sums[prefix] = g
		}
		g.Days += c.EffectiveDays()
		g.Certificates++
	}

	groups := make([]Group, 0, len(sums))
	var maxDays float64
	for _, g := range sums {
		if g.Days > maxDays {
			maxDays = g.Days
		}
		groups = append(groups, Group{Prefix: g.Prefix, Days: round1(g.Days), Certificates: g.Certificates})
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Prefix < groups[j].Prefix })

	status := VerdictNormal
	if maxDays >= float64(limit) {
		if class == models.ContractPermanent {
			status = VerdictInternalCommittee
		} else {
			status = VerdictExternalBenefits
		}
	}

	return Analysis{
		AccumulatedDays: round1(maxDays),
		Status:          status,
		Limit:           limit,
		Groups:          groups,
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
