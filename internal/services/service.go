package services

import (
	"lumen/config"
	"lumen/internal/database"
)

type Service struct {
	Transaction *TransactionService
	Scheduler   *SchedulerService
	Gemini      *GeminiService
	AI          *AIService
	Email       *EmailService
}

func New(db database.DB, config config.Config) Service {
	gemini := NewGeminiService(config)

	return Service{
		Transaction: NewTransactionService(db),
		Scheduler:   NewSchedulerService(),
		Gemini:      gemini,
		AI:          NewAIService(gemini),
		Email:       NewEmailService(config),
	}
}
