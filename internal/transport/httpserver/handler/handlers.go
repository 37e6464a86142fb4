package handler

import (
	trackerdomain "weekly-tracker/internal/domain/tracker"
	"weekly-tracker/pkg/logger"
)

type Handlers struct {
	Tracker trackerdomain.Store
	log     logger.Logger
}

func New(tracker trackerdomain.Store, log logger.Logger) *Handlers {
	return &Handlers{
		Tracker: tracker,
		log:     log,
	}
}
