// Package actions holds the request handlers shared by the HTTP API, the CLI
// and the terminal client. Every method acts for one user, validates its
// input, checks ownership and then calls the store.
package actions

import (
	"sync"
	"time"

	apperrors "github.com/julianstephens/dailyos/internal/errors"
	"github.com/julianstephens/dailyos/internal/insights"
	"github.com/julianstephens/dailyos/internal/storage"
	"github.com/julianstephens/dailyos/internal/utils"
)

type Service struct {
	store    storage.Provider
	insights *insights.Service
	loc      *time.Location
	now      func() time.Time

	nailMu sync.Mutex
}

// NewService binds the handlers to store. "Today" is resolved in loc; nil
// means UTC.
func NewService(store storage.Provider, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		store:    store,
		insights: insights.NewService(store),
		loc:      loc,
		now:      time.Now,
	}
}

// SetClock replaces the time source used to resolve today.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// Now returns the current time in the configured zone.
func (s *Service) Now() time.Time {
	return s.now().In(s.loc)
}

// Today returns the current calendar date in the configured zone.
func (s *Service) Today() string {
	return utils.DateString(s.Now())
}

func (s *Service) Location() *time.Location {
	return s.loc
}

func requireUser(userID string) error {
	if userID == "" {
		return apperrors.ErrNotAuthenticated
	}
	return nil
}
