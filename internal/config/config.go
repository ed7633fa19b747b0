package config

import (
	"fmt"
	"time"

	"github.com/Dan9191/bank-credit-engine/internal/scoring"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	Port       string
	DBConn     string
	LogLevel   string
	JWTSecret  string
	JWTTTL     time.Duration
	CBRURL     string
	BankMargin float64
	HMACSecret string

	FallbackMortgageRate  float64
	DepositBaseRate       float64
	DepositSmallRate      float64
	MinDownPaymentPercent float64

	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	SenderEmail  string

	LoginRateLimit      string
	SweepSchedule       string
	RateRefreshSchedule string

	Scoring scoring.Weights
}

// NewConfig loads configuration from an optional .env file and the environment
func NewConfig() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AllowEmptyEnv(true)
	v.AutomaticEnv()

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("DB_CONN", "host=localhost port=5436 user=test password=test dbname=bank sslmode=disable")
	v.SetDefault("LOG_LEVEL", "INFO")
	v.SetDefault("JWT_SECRET", "secret")
	v.SetDefault("JWT_TTL", "24h")
	v.SetDefault("CBR_URL", "https://www.cbr.ru/DailyInfoWebServ/DailyInfo.asmx")
	v.SetDefault("BANK_MARGIN", 5.0)
	v.SetDefault("HMAC_SECRET", "a1b2c3d4e5f6a7b8c9d0e1f2a3b4c5d6a1b2c3d4e5f6a7b8c9d0e1f2a3b4c5d6")

	v.SetDefault("FALLBACK_MORTGAGE_RATE", 16.0)
	v.SetDefault("DEPOSIT_BASE_RATE", 16.0)
	v.SetDefault("DEPOSIT_SMALL_RATE", 10.0)
	v.SetDefault("MIN_DOWN_PAYMENT_PERCENT", 20.0)

	v.SetDefault("SMTP_HOST", "localhost")
	v.SetDefault("SMTP_PORT", "1025")
	v.SetDefault("SMTP_USERNAME", "")
	v.SetDefault("SMTP_PASSWORD", "")
	v.SetDefault("SENDER_EMAIL", "noreply@bank.local")

	v.SetDefault("LOGIN_RATE_LIMIT", "5-M")
	v.SetDefault("SWEEP_SCHEDULE", "@daily")
	v.SetDefault("RATE_REFRESH_SCHEDULE", "@hourly")

	w := scoring.DefaultWeights()
	v.SetDefault("SCORE_BASE", w.Base)
	v.SetDefault("SCORE_AGE_DAYS_PER_POINT", w.AgeDaysPerPoint)
	v.SetDefault("SCORE_AGE_BONUS_CAP", w.AgeBonusCap)
	v.SetDefault("SCORE_POINTS_PER_TRANSACTION", w.PointsPerTransaction)
	v.SetDefault("SCORE_TRANSACTION_BONUS_CAP", w.TransactionBonusCap)
	v.SetDefault("SCORE_HIGH_BALANCE", w.HighBalance)
	v.SetDefault("SCORE_HIGH_BALANCE_BONUS", w.HighBalanceBonus)
	v.SetDefault("SCORE_MID_BALANCE", w.MidBalance)
	v.SetDefault("SCORE_MID_BALANCE_BONUS", w.MidBalanceBonus)
	v.SetDefault("SCORE_LOW_BALANCE", w.LowBalance)
	v.SetDefault("SCORE_LOW_BALANCE_BONUS", w.LowBalanceBonus)
	v.SetDefault("SCORE_ACTIVE_CREDIT_PENALTY", w.ActiveCreditPenalty)
	v.SetDefault("SCORE_OVERDUE_CREDIT_PENALTY", w.OverdueCreditPenalty)
	v.SetDefault("SCORE_CLOSED_CREDIT_BONUS", w.ClosedCreditBonus)
	v.SetDefault("SCORE_CREDIT_LATE_PENALTY", w.CreditLatePenalty)
	v.SetDefault("SCORE_ACTIVE_MORTGAGE_BONUS", w.ActiveMortgageBonus)
	v.SetDefault("SCORE_MORTGAGE_RATIO_LIMIT", w.MortgageRatioLimit)
	v.SetDefault("SCORE_MORTGAGE_RATIO_BONUS", w.MortgageRatioBonus)
	v.SetDefault("SCORE_CLOSED_MORTGAGE_BONUS", w.ClosedMortgageBonus)
	v.SetDefault("SCORE_MORTGAGE_LATE_PENALTY", w.MortgageLatePenalty)
	v.SetDefault("SCORE_RECENT_WINDOW", w.RecentWindow.String())
	v.SetDefault("SCORE_RECENT_ACTIVITY_MIN", w.RecentActivityMin)
	v.SetDefault("SCORE_RECENT_ACTIVITY_BONUS", w.RecentActivityBonus)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Port:       v.GetString("PORT"),
		DBConn:     v.GetString("DB_CONN"),
		LogLevel:   v.GetString("LOG_LEVEL"),
		JWTSecret:  v.GetString("JWT_SECRET"),
		CBRURL:     v.GetString("CBR_URL"),
		BankMargin: v.GetFloat64("BANK_MARGIN"),
		HMACSecret: v.GetString("HMAC_SECRET"),

		FallbackMortgageRate:  v.GetFloat64("FALLBACK_MORTGAGE_RATE"),
		DepositBaseRate:       v.GetFloat64("DEPOSIT_BASE_RATE"),
		DepositSmallRate:      v.GetFloat64("DEPOSIT_SMALL_RATE"),
		MinDownPaymentPercent: v.GetFloat64("MIN_DOWN_PAYMENT_PERCENT"),

		SMTPHost:     v.GetString("SMTP_HOST"),
		SMTPPort:     v.GetString("SMTP_PORT"),
		SMTPUsername: v.GetString("SMTP_USERNAME"),
		SMTPPassword: v.GetString("SMTP_PASSWORD"),
		SenderEmail:  v.GetString("SENDER_EMAIL"),

		LoginRateLimit:      v.GetString("LOGIN_RATE_LIMIT"),
		SweepSchedule:       v.GetString("SWEEP_SCHEDULE"),
		RateRefreshSchedule: v.GetString("RATE_REFRESH_SCHEDULE"),
	}

	ttl, err := time.ParseDuration(v.GetString("JWT_TTL"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_TTL: %w", err)
	}
	cfg.JWTTTL = ttl

	window, err := time.ParseDuration(v.GetString("SCORE_RECENT_WINDOW"))
	if err != nil {
		return nil, fmt.Errorf("invalid SCORE_RECENT_WINDOW: %w", err)
	}

	cfg.Scoring = scoring.Weights{
		Base:                 v.GetInt("SCORE_BASE"),
		AgeDaysPerPoint:      v.GetInt("SCORE_AGE_DAYS_PER_POINT"),
		AgeBonusCap:          v.GetInt("SCORE_AGE_BONUS_CAP"),
		PointsPerTransaction: v.GetInt("SCORE_POINTS_PER_TRANSACTION"),
		TransactionBonusCap:  v.GetInt("SCORE_TRANSACTION_BONUS_CAP"),
		HighBalance:          v.GetInt64("SCORE_HIGH_BALANCE"),
		HighBalanceBonus:     v.GetInt("SCORE_HIGH_BALANCE_BONUS"),
		MidBalance:           v.GetInt64("SCORE_MID_BALANCE"),
		MidBalanceBonus:      v.GetInt("SCORE_MID_BALANCE_BONUS"),
		LowBalance:           v.GetInt64("SCORE_LOW_BALANCE"),
		LowBalanceBonus:      v.GetInt("SCORE_LOW_BALANCE_BONUS"),
		ActiveCreditPenalty:  v.GetInt("SCORE_ACTIVE_CREDIT_PENALTY"),
		OverdueCreditPenalty: v.GetInt("SCORE_OVERDUE_CREDIT_PENALTY"),
		ClosedCreditBonus:    v.GetInt("SCORE_CLOSED_CREDIT_BONUS"),
		CreditLatePenalty:    v.GetInt("SCORE_CREDIT_LATE_PENALTY"),
		ActiveMortgageBonus:  v.GetInt("SCORE_ACTIVE_MORTGAGE_BONUS"),
		MortgageRatioLimit:   v.GetInt64("SCORE_MORTGAGE_RATIO_LIMIT"),
		MortgageRatioBonus:   v.GetInt("SCORE_MORTGAGE_RATIO_BONUS"),
		ClosedMortgageBonus:  v.GetInt("SCORE_CLOSED_MORTGAGE_BONUS"),
		MortgageLatePenalty:  v.GetInt("SCORE_MORTGAGE_LATE_PENALTY"),
		RecentWindow:         window,
		RecentActivityMin:    v.GetInt("SCORE_RECENT_ACTIVITY_MIN"),
		RecentActivityBonus:  v.GetInt("SCORE_RECENT_ACTIVITY_BONUS"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.DBConn == "" {
		return fmt.Errorf("DB_CONN is required")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.HMACSecret == "" {
		return fmt.Errorf("HMAC_SECRET is required")
	}
	if c.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be positive")
	}
	if c.MinDownPaymentPercent < 0 || c.MinDownPaymentPercent >= 100 {
		return fmt.Errorf("MIN_DOWN_PAYMENT_PERCENT must be in [0, 100)")
	}
	for key, rate := range map[string]float64{
		"FALLBACK_MORTGAGE_RATE": c.FallbackMortgageRate,
		"DEPOSIT_BASE_RATE":      c.DepositBaseRate,
		"DEPOSIT_SMALL_RATE":     c.DepositSmallRate,
	} {
		if rate < 0 {
			return fmt.Errorf("%s must not be negative", key)
		}
	}
	if c.Scoring.AgeDaysPerPoint < 1 {
		return fmt.Errorf("SCORE_AGE_DAYS_PER_POINT must be at least 1")
	}
	return nil
}
