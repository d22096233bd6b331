package service

import (
	"time"

	"github.com/lshigami/cctfd/config"
	"github.com/lshigami/cctfd/internal/session"
)

// CTFStateService answers the competition-time and visibility questions the
// challenge routes gate on.
type CTFStateService interface {
	// CTFTime reports whether now is inside the competition window.
	CTFTime() bool
	Started() bool
	Ended() bool
	// ViewAfterCTF reports whether challenges stay readable after the end.
	ViewAfterCTF() bool
	VerifyEmails() bool
	UserCanViewChallenges(sc session.Context) bool
}

type ctfStateService struct {
	cfg config.CTF
	now func() time.Time
}

func NewCTFStateService(cfg *config.Config) CTFStateService {
	return &ctfStateService{cfg: cfg.CTF, now: time.Now}
}

// NewCTFStateServiceAt is NewCTFStateService with a fixed clock.
func NewCTFStateServiceAt(cfg config.CTF, now func() time.Time) CTFStateService {
	return &ctfStateService{cfg: cfg, now: now}
}

func (s *ctfStateService) CTFTime() bool {
	now := s.now()
	if !s.cfg.Start.IsZero() && now.Before(s.cfg.Start) {
		return false
	}
	if !s.cfg.End.IsZero() && now.After(s.cfg.End) {
		return false
	}
	return true
}

func (s *ctfStateService) Started() bool {
	return s.cfg.Start.IsZero() || s.now().After(s.cfg.Start)
}

func (s *ctfStateService) Ended() bool {
	return !s.cfg.End.IsZero() && s.now().After(s.cfg.End)
}

func (s *ctfStateService) ViewAfterCTF() bool {
	return s.cfg.ViewAfterCTF && s.Ended()
}

func (s *ctfStateService) VerifyEmails() bool {
	return s.cfg.VerifyEmails
}

func (s *ctfStateService) UserCanViewChallenges(sc session.Context) bool {
	return s.cfg.ViewChallengesUnregistered || sc.Authed()
}

// challengesVisible applies the challenge visibility gates in order. Admins
// skip the time and verification gates.
func challengesVisible(state CTFStateService, sc session.Context) bool {
	if !sc.Admin {
		if !state.CTFTime() && !state.ViewAfterCTF() {
			return false
		}
		if state.VerifyEmails() && sc.Authed() && !sc.Verified {
			return false
		}
	}
	return state.UserCanViewChallenges(sc) && (state.Started() || sc.Admin)
}
