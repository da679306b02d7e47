package handler

import (
	"github.com/jellydator/ttlcache/v3"

	"github.com/sdsdc/bibliotheque/config"
	"github.com/sdsdc/bibliotheque/data"
	"github.com/sdsdc/bibliotheque/internal/jsonlog"
	"github.com/sdsdc/bibliotheque/service"
)

// Handler defines Handler layer.
type Handler struct {
	config  config.Config
	logger  *jsonlog.Logger
	cache   *ttlcache.Cache[string, *data.BookStats]
	service service.Service
}

// New creates a new instance of Handler.
func New(cfg config.Config, logger *jsonlog.Logger, cache *ttlcache.Cache[string, *data.BookStats], service service.Service) *Handler {
	return &Handler{
		config:  cfg,
		logger:  logger,
		cache:   cache,
		service: service,
	}
}
