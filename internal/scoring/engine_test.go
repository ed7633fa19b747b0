package scoring

import (
	"math/rand"
	"testing"
	"time"

	"github.com/Dan9191/bank-credit-engine/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

var now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func transactionsAt(n int, at time.Time) []models.Transaction {
	txns := make([]models.Transaction, n)
	for i := range txns {
		txns[i] = models.Transaction{Amount: decimal.NewFromInt(100), Type: models.TransactionIncome, CreatedAt: at}
	}
	return txns
}

func account(balance int64, ageDays int) models.Account {
	return models.Account{
		ID:       1,
		Balance:  decimal.NewFromInt(balance),
		OpenedAt: now.AddDate(0, 0, -ageDays),
	}
}

func activeCredit(due time.Time, late int) models.Credit {
	return models.Credit{Installments: models.Installments{IsActive: true, NextPaymentDueAt: due, LatePaymentCount: late}}
}

func closedCredit() models.Credit {
	return models.Credit{}
}

func TestScore_EstablishedAccountWithoutProducts(t *testing.T) {
	engine := NewEngine(DefaultWeights())
	p := Profile{
		Account:      account(150_000, 400),
		Transactions: transactionsAt(20, now.AddDate(0, -2, 0)),
	}

	b := engine.Score(p, now)

	assert.Equal(t, 300, b.BaseScore)
	assert.Equal(t, 57, b.AccountAgeBonus)
	assert.Equal(t, 100, b.TransactionBonus)
	assert.Equal(t, 100, b.BalanceBonus)
	assert.Equal(t, 0, b.RecentActivityBonus)
	assert.Equal(t, 557, b.FinalScore)
}

func TestScore_BalanceTiers(t *testing.T) {
	engine := NewEngine(DefaultWeights())
	tests := []struct {
		balance int64
		bonus   int
	}{
		{9_999, 0},
		{10_000, 25},
		{49_999, 25},
		{50_000, 50},
		{100_000, 100},
		{5_000_000, 100},
	}
	for _, tt := range tests {
		b := engine.Score(Profile{Account: account(tt.balance, 0)}, now)
		assert.Equal(t, tt.bonus, b.BalanceBonus, "balance %d", tt.balance)
	}
}

func TestScore_CreditHistory(t *testing.T) {
	engine := NewEngine(DefaultWeights())
	p := Profile{
		Account: account(0, 0),
		Credits: []models.Credit{
			activeCredit(now.AddDate(0, 0, -3), 2), // -20 -50 -60
			activeCredit(now.AddDate(0, 0, 10), 0), // -20
			closedCredit(),                         // +75
		},
	}

	b := engine.Score(p, now)

	assert.Equal(t, 2, b.ActiveCredits)
	assert.Equal(t, 1, b.ClosedCredits)
	assert.Equal(t, int64(-75), b.CreditAdjustment)
	assert.Equal(t, 225, b.FinalScore)
}

func TestScore_MortgageHistory(t *testing.T) {
	engine := NewEngine(DefaultWeights())
	p := Profile{
		Account: account(100_000, 0),
		Mortgages: []models.Mortgage{
			{Amount: decimal.NewFromInt(300_000), Installments: models.Installments{IsActive: true}},                      // +30 +20
			{Amount: decimal.NewFromInt(300_001), Installments: models.Installments{IsActive: true, LatePaymentCount: 1}}, // +30 -50
			{Amount: decimal.NewFromInt(1_000_000)},                                                                       // +150
		},
	}

	b := engine.Score(p, now)

	assert.Equal(t, int64(180), b.MortgageAdjustment)
	assert.Equal(t, 300+100+180, b.FinalScore)
}

func TestScore_MortgageRatioWithEmptyBalance(t *testing.T) {
	engine := NewEngine(DefaultWeights())
	p := Profile{
		Account:   account(0, 0),
		Mortgages: []models.Mortgage{{Amount: decimal.NewFromInt(3), Installments: models.Installments{IsActive: true}}},
	}

	b := engine.Score(p, now)
	assert.Equal(t, int64(50), b.MortgageAdjustment, "balance is floored at 1 for the ratio")
}

func TestScore_RecentActivity(t *testing.T) {
	engine := NewEngine(DefaultWeights())

	four := engine.Score(Profile{Account: account(0, 0), Transactions: transactionsAt(4, now.AddDate(0, 0, -1))}, now)
	assert.Equal(t, 0, four.RecentActivityBonus)

	five := engine.Score(Profile{Account: account(0, 0), Transactions: transactionsAt(5, now.AddDate(0, 0, -29))}, now)
	assert.Equal(t, 5, five.RecentTransactions)
	assert.Equal(t, 25, five.RecentActivityBonus)
	assert.Equal(t, 300+25+25, five.FinalScore)
}

func TestScore_ClampedToRange(t *testing.T) {
	engine := NewEngine(DefaultWeights())

	low := engine.Score(Profile{
		Account: account(0, 0),
		Credits: []models.Credit{activeCredit(now.AddDate(0, -1, 0), 100)},
	}, now)
	assert.Equal(t, 0, low.FinalScore)
	assert.Less(t, low.RawScore, int64(0))

	closed := make([]models.Mortgage, 10)
	high := engine.Score(Profile{Account: account(1_000_000, 3000), Mortgages: closed}, now)
	assert.Equal(t, 1000, high.FinalScore)
}

func TestScore_AdversarialInputsStayInRange(t *testing.T) {
	engine := NewEngine(DefaultWeights())
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 1000; i++ {
		p := Profile{
			Account: models.Account{
				Balance:  decimal.NewFromInt(rng.Int63n(20_000_000) - 10_000_000),
				OpenedAt: now.AddDate(0, 0, rng.Intn(20_000)-10_000),
			},
			Transactions: transactionsAt(rng.Intn(50), now.AddDate(0, 0, -rng.Intn(60))),
		}
		for j := rng.Intn(20); j > 0; j-- {
			c := activeCredit(now.AddDate(0, 0, rng.Intn(60)-30), rng.Intn(1<<30)-(1<<29))
			c.IsActive = rng.Intn(2) == 0
			p.Credits = append(p.Credits, c)
		}
		for j := rng.Intn(5); j > 0; j-- {
			p.Mortgages = append(p.Mortgages, models.Mortgage{
				Amount:       decimal.NewFromInt(rng.Int63n(50_000_000)),
				Installments: models.Installments{IsActive: rng.Intn(2) == 0, LatePaymentCount: rng.Int()},
			})
		}

		score := engine.Score(p, now).FinalScore
		assert.GreaterOrEqual(t, score, MinScore)
		assert.LessOrEqual(t, score, MaxScore)
	}
}

func TestScore_Idempotent(t *testing.T) {
	engine := NewEngine(DefaultWeights())
	p := Profile{
		Account:      account(75_000, 120),
		Credits:      []models.Credit{activeCredit(now.AddDate(0, 0, 5), 1), closedCredit()},
		Transactions: transactionsAt(12, now.AddDate(0, 0, -3)),
	}
	assert.Equal(t, engine.Score(p, now), engine.Score(p, now))
}

func TestScore_CustomWeights(t *testing.T) {
	w := DefaultWeights()
	w.Base = 500
	w.ClosedCreditBonus = 10
	engine := NewEngine(w)

	b := engine.Score(Profile{Account: account(0, 0), Credits: []models.Credit{closedCredit()}}, now)
	assert.Equal(t, 510, b.FinalScore)
}
