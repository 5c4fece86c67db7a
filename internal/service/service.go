// Package service implements the transactional write side of the
// application: registration and login, post and comment mutations, and
// the like toggle. Every multi-step write runs inside a single database
// transaction; uniqueness races are resolved by the store's constraints,
// not by application-level locking.
package service

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/instacommunity/backend/internal/auth"
	"github.com/instacommunity/backend/internal/feed"
	"github.com/instacommunity/backend/internal/mail"
	"github.com/instacommunity/backend/pkg/config"
	"github.com/instacommunity/backend/pkg/logging"
)

// Service carries the shared dependencies of all mutation workflows
type Service struct {
	db       *gorm.DB
	feed     *feed.Engine
	tokens   *auth.TokenIssuer
	mailer   *mail.Mailer
	features config.FeaturesConfig
	logger   *zap.Logger
}

// New creates a new service
func New(database *gorm.DB, engine *feed.Engine, tokens *auth.TokenIssuer, mailer *mail.Mailer, features config.FeaturesConfig) *Service {
	return &Service{
		db:       database,
		feed:     engine,
		tokens:   tokens,
		mailer:   mailer,
		features: features,
		logger:   logging.WithComponent("service"),
	}
}
