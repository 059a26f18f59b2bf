// Package estimator computes the indicative DPDPA penalty exposure
// shown on the public site. The model is deliberately simple: a base
// fine plus a per-user component, capped at the statutory maximum.
package estimator

// RiskLevel buckets the exposure by affected-user count.
type RiskLevel string

const (
	RiskLow    RiskLevel = "LOW"
	RiskMedium RiskLevel = "MEDIUM"
	RiskHigh   RiskLevel = "HIGH"
)

const (
	// baseFineCrore is the floor of the estimate in crore rupees.
	baseFineCrore = 5.0
	// perUserCrore works out to about 1000 rupees per 10,000 users.
	perUserCrore = 0.0001
	// maxFineCrore is the DPDPA ceiling for a significant breach.
	maxFineCrore = 250.0

	mediumThreshold = 10_000
	highThreshold   = 100_000
)

// Estimate is the computed exposure for one user count.
type Estimate struct {
	Users     int
	FineCrore float64
	Risk      RiskLevel
}

// FineCrore returns the estimated fine in crore rupees for the given
// number of affected users. Negative counts are treated as zero.
func FineCrore(users int) float64 {
	if users < 0 {
		users = 0
	}
	fine := baseFineCrore + float64(users)*perUserCrore
	if fine > maxFineCrore {
		return maxFineCrore
	}
	return fine
}

// Risk returns the risk bucket for the given user count.
func Risk(users int) RiskLevel {
	switch {
	case users > highThreshold:
		return RiskHigh
	case users > mediumThreshold:
		return RiskMedium
	default:
		return RiskLow
	}
}

// For computes the full estimate for one user count.
func For(users int) Estimate {
	if users < 0 {
		users = 0
	}
	return Estimate{
		Users:     users,
		FineCrore: FineCrore(users),
		Risk:      Risk(users),
	}
}
