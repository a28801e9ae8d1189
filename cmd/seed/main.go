package main

import (
	"context"
	"os"
	"time"

	"github.com/expenso/expenso-backend/internal/config"
	"github.com/expenso/expenso-backend/internal/domain"
	"github.com/expenso/expenso-backend/internal/repository/postgres"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

type seedExpense struct {
	title       string
	description string
	amount      string
	category    domain.ExpenseCategory
	daysAgo     int
	location    string
	tags        []string
	isRecurring bool
}

var seedExpenses = []seedExpense{
	{
		title:       "Grocery Shopping",
		description: "Weekly groceries at the supermarket",
		amount:      "89.45",
		category:    domain.CategoryFood,
		daysAgo:     2,
		location:    "Whole Foods",
		tags:        []string{"groceries", "weekly"},
	},
	{
		title:       "Gas Station Fill-up",
		description: "Full tank of gas",
		amount:      "45.20",
		category:    domain.CategoryTransport,
		daysAgo:     3,
		location:    "Shell Station",
		tags:        []string{"fuel", "car"},
	},
	{
		title:       "Netflix Subscription",
		description: "Monthly streaming subscription",
		amount:      "15.99",
		category:    domain.CategoryEntertainment,
		daysAgo:     5,
		tags:        []string{"streaming", "subscription"},
		isRecurring: true,
	},
	{
		title:       "Electricity Bill",
		description: "Monthly electricity bill",
		amount:      "120.33",
		category:    domain.CategoryUtilities,
		daysAgo:     7,
		tags:        []string{"bills", "monthly"},
		isRecurring: true,
	},
	{
		title:       "Doctor Visit",
		description: "Annual checkup",
		amount:      "250.00",
		category:    domain.CategoryHealthcare,
		daysAgo:     10,
		location:    "City Medical Center",
		tags:        []string{"health", "checkup"},
	},
	{
		title:       "Morning Coffee",
		description: "Coffee and pastry",
		amount:      "8.75",
		category:    domain.CategoryFood,
		daysAgo:     1,
		location:    "Local Cafe",
		tags:        []string{"coffee"},
	},
	{
		title:       "Wireless Headphones",
		description: "New noise-cancelling headphones",
		amount:      "199.99",
		category:    domain.CategoryShopping,
		daysAgo:     14,
		location:    "Electronics Store",
		tags:        []string{"electronics", "audio"},
	},
	{
		title:       "Online Course",
		description: "Programming course subscription",
		amount:      "79.99",
		category:    domain.CategoryEducation,
		daysAgo:     20,
		tags:        []string{"learning", "programming"},
	},
	{
		title:       "Hotel Booking",
		description: "Weekend trip accommodation",
		amount:      "189.50",
		category:    domain.CategoryTravel,
		daysAgo:     30,
		location:    "Mountain View Hotel",
		tags:        []string{"trip", "weekend"},
	},
	{
		title:       "Bus Pass",
		description: "Monthly transit pass",
		amount:      "65.00",
		category:    domain.CategoryTransport,
		daysAgo:     25,
		tags:        []string{"transit", "monthly"},
		isRecurring: true,
	},
	{
		title:       "Birthday Gift",
		description: "Gift for a friend",
		amount:      "42.00",
		category:    domain.CategoryOther,
		daysAgo:     12,
		tags:        []string{"gift"},
	},
	{
		title:       "Movie Night",
		description: "Cinema tickets and snacks",
		amount:      "34.50",
		category:    domain.CategoryEntertainment,
		daysAgo:     8,
		location:    "Downtown Cinema",
		tags:        []string{"movies"},
	},
}

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	if err := postgres.RunMigrations(cfg.DatabaseURL); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer pool.Close()

	repo := postgres.NewExpenseRepository(pool)

	now := time.Now()
	for _, s := range seedExpenses {
		amount, err := decimal.NewFromString(s.amount)
		if err != nil {
			log.Fatal().Err(err).Str("title", s.title).Msg("Invalid seed amount")
		}

		expense := &domain.Expense{
			Title:       s.title,
			Amount:      amount,
			Category:    s.category,
			Date:        now.AddDate(0, 0, -s.daysAgo),
			IsRecurring: s.isRecurring,
		}
		if s.description != "" {
			desc := s.description
			expense.Description = &desc
		}
		if s.location != "" {
			loc := s.location
			expense.Location = &loc
		}
		if len(s.tags) > 0 {
			expense.Tags = domain.JoinTags(s.tags)
		}

		created, err := repo.Create(expense)
		if err != nil {
			log.Fatal().Err(err).Str("title", s.title).Msg("Failed to insert expense")
		}
		log.Info().Str("id", created.ID.String()).Str("title", created.Title).Msg("Seeded expense")
	}

	log.Info().Int("count", len(seedExpenses)).Msg("Seeding complete")
}
