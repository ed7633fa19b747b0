package scoring

import "time"

// Weights are the tuning constants of the score heuristic.
type Weights struct {
	Base int

	AgeDaysPerPoint int
	AgeBonusCap     int

	PointsPerTransaction int
	TransactionBonusCap  int

	HighBalance      int64
	HighBalanceBonus int
	MidBalance       int64
	MidBalanceBonus  int
	LowBalance       int64
	LowBalanceBonus  int

	ActiveCreditPenalty  int
	OverdueCreditPenalty int
	ClosedCreditBonus    int
	CreditLatePenalty    int

	ActiveMortgageBonus int
	MortgageRatioLimit  int64
	MortgageRatioBonus  int
	ClosedMortgageBonus int
	MortgageLatePenalty int

	RecentWindow        time.Duration
	RecentActivityMin   int
	RecentActivityBonus int
}

// DefaultWeights returns the published scoring constants.
func DefaultWeights() Weights {
	return Weights{
		Base: 300,

		AgeDaysPerPoint: 7,
		AgeBonusCap:     100,

		PointsPerTransaction: 5,
		TransactionBonusCap:  100,

		HighBalance:      100_000,
		HighBalanceBonus: 100,
		MidBalance:       50_000,
		MidBalanceBonus:  50,
		LowBalance:       10_000,
		LowBalanceBonus:  25,

		ActiveCreditPenalty:  20,
		OverdueCreditPenalty: 50,
		ClosedCreditBonus:    75,
		CreditLatePenalty:    30,

		ActiveMortgageBonus: 30,
		MortgageRatioLimit:  3,
		MortgageRatioBonus:  20,
		ClosedMortgageBonus: 150,
		MortgageLatePenalty: 50,

		RecentWindow:        30 * 24 * time.Hour,
		RecentActivityMin:   5,
		RecentActivityBonus: 25,
	}
}
