package finance

import (
	"fmt"
	"time"

	"github.com/Dan9191/bank-credit-engine/internal/apperrors"

	"github.com/Dan9191/bank-credit-engine/internal/models"
	"github.com/shopspring/decimal"
)

// MaxScheduleMonths is the longest schedule generated, the longest mortgage term.
const MaxScheduleMonths = MaxMortgageTermYears * 12

// GenerateSchedule splits a loan into monthly periods. The first payment is
// due one month after start; the last period absorbs rounding so the
// remaining balance ends at exactly zero.
func GenerateSchedule(principal decimal.Decimal, annualRatePercent float64, termMonths int, start time.Time) ([]models.PaymentSchedule, error) {
	if termMonths > MaxScheduleMonths {
		return nil, fmt.Errorf("%w: schedules cover at most %d months, got %d", apperrors.ErrInvalidTerm, MaxScheduleMonths, termMonths)
	}
	am, err := ComputeAmortization(principal, annualRatePercent, termMonths)
	if err != nil {
		return nil, err
	}

	payment := am.MonthlyPayment.Round(2)
	rate := decimal.NewFromFloat(monthlyRate(annualRatePercent))
	remaining := principal

	schedule := make([]models.PaymentSchedule, 0, termMonths)
	for period := 1; period <= termMonths; period++ {
		interest := remaining.Mul(rate).Round(2)
		principalPart := payment.Sub(interest)

		if period == termMonths || principalPart.GreaterThan(remaining) {
			principalPart = remaining
		}
		remaining = remaining.Sub(principalPart)

		schedule = append(schedule, models.PaymentSchedule{
			Period:      period,
			PaymentDate: start.AddDate(0, period, 0),
			Principal:   principalPart,
			Interest:    interest,
			Amount:      principalPart.Add(interest),
			Remaining:   remaining,
		})
	}

	return schedule, nil
}
