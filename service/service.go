package service

import (
	"sync"

	"github.com/sdsdc/bibliotheque/config"
	"github.com/sdsdc/bibliotheque/internal/jsonlog"
	"github.com/sdsdc/bibliotheque/internal/mailer"
	"github.com/sdsdc/bibliotheque/internal/token"
	"github.com/sdsdc/bibliotheque/repository"
)

type Service interface {
	books
	users
	consultations
}

// service defines the app's service layer.
type service struct {
	config config.Config
	wg     *sync.WaitGroup
	logger *jsonlog.Logger
	repo   repository.Repository
	tokens token.Service
	mailer mailer.Mailer
}

// New creates a new instance of Service.
func New(cfg config.Config, wg *sync.WaitGroup, logger *jsonlog.Logger, repo repository.Repository) *service {
	return &service{
		config: cfg,
		wg:     wg,
		logger: logger,
		repo:   repo,
		tokens: token.NewService(cfg.JWT.Secret, cfg.JWT.Issuer),
		mailer: mailer.New(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.Sender),
	}
}
