package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lshigami/cctfd/internal/dto"
	"github.com/lshigami/cctfd/internal/model"
	"github.com/lshigami/cctfd/internal/repository"
	"github.com/lshigami/cctfd/internal/session"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const (
	// Submission statuses of dto.AttemptResponse.
	StatusNotLoggedIn   = -1
	StatusWrong         = 0
	StatusCorrect       = 1
	StatusAlreadySolved = 2
	StatusTooFast       = 3

	// maxWrongKeysPerMinute bounds how many wrong keys a team may submit in
	// a minute before submissions are refused.
	maxWrongKeysPerMinute = 10
)

// ChallengeService resolves challenges to their registered type and runs the
// role checks around each type operation.
type ChallengeService interface {
	// Types lists the challenge types the requester may create, keyed by id.
	Types(sc session.Context) map[string]dto.ChallengeTypeInfo
	Create(sc session.Context, form dto.CreateChallengeForm) (*model.Challenge, error)
	Update(sc session.Context, form dto.UpdateChallengeForm) error
	Get(sc session.Context, chalID uint) (*dto.ChallengeView, error)
	Submit(sc session.Context, chalID uint, provided string) (*dto.AttemptResponse, error)
	Delete(sc session.Context, chalID uint) error
}

type challengeService struct {
	challengeRepo repository.ChallengeRepository
	teamRepo      repository.TeamRepository
	solveRepo     repository.SolveRepository
	wrongKeyRepo  repository.WrongKeyRepository
	registry      *ChallengeTypeRegistry
	state         CTFStateService
	now           func() time.Time
}

func NewChallengeService(
	challengeRepo repository.ChallengeRepository,
	teamRepo repository.TeamRepository,
	solveRepo repository.SolveRepository,
	wrongKeyRepo repository.WrongKeyRepository,
	registry *ChallengeTypeRegistry,
	state CTFStateService,
) ChallengeService {
	return &challengeService{
		challengeRepo: challengeRepo,
		teamRepo:      teamRepo,
		solveRepo:     solveRepo,
		wrongKeyRepo:  wrongKeyRepo,
		registry:      registry,
		state:         state,
		now:           time.Now,
	}
}

func (s *challengeService) Types(sc session.Context) map[string]dto.ChallengeTypeInfo {
	out := make(map[string]dto.ChallengeTypeInfo)
	for _, t := range s.registry.All() {
		if !sc.Admin && t.ID() != model.ChallengeTypeCommunity {
			continue
		}
		out[t.ID()] = typeInfo(t)
	}
	return out
}

func (s *challengeService) Create(sc session.Context, form dto.CreateChallengeForm) (*model.Challenge, error) {
	t, err := s.registry.Get(form.ChalType)
	if err != nil {
		return nil, err
	}
	if !sc.Admin && t.ID() != model.ChallengeTypeCommunity {
		log.Warn().Uint("teamID", sc.TeamID).Str("type", t.ID()).Msg("Non-admin tried to create a restricted challenge type")
		return nil, fmt.Errorf("%w: only admins may create %s challenges", ErrForbidden, t.ID())
	}
	return t.Create(sc, form)
}

// Update only applies to community challenges and only for their owner.
func (s *challengeService) Update(sc session.Context, form dto.UpdateChallengeForm) error {
	chal, err := s.findChallenge(form.ID)
	if err != nil {
		return err
	}
	t, err := s.registry.Get(chal.Type)
	if err != nil || t.ID() != model.ChallengeTypeCommunity {
		return fmt.Errorf("%w: challenge %d is not a community challenge", ErrForbidden, chal.ID)
	}
	owned, ok := t.(OwnedChallengeType)
	if !ok {
		return fmt.Errorf("%w: challenge %d has no owner", ErrForbidden, chal.ID)
	}
	owner, err := owned.OwnerID(chal.ID)
	if err != nil {
		return err
	}
	if !sc.Authed() || owner != sc.TeamID {
		log.Warn().Uint("teamID", sc.TeamID).Uint("challengeID", chal.ID).Msg("Non-owner tried to update a community challenge")
		return fmt.Errorf("%w: not the owner of challenge %d", ErrForbidden, chal.ID)
	}
	return t.Update(sc, chal, form)
}

func (s *challengeService) Get(sc session.Context, chalID uint) (*dto.ChallengeView, error) {
	if !challengesVisible(s.state, sc) {
		return nil, ErrForbidden
	}
	chal, err := s.findChallenge(chalID)
	if err != nil {
		return nil, err
	}
	if chal.Hidden && !sc.Admin {
		return nil, fmt.Errorf("%w: challenge %d", ErrNotFound, chalID)
	}
	t, err := s.registry.Get(chal.Type)
	if err != nil {
		return nil, fmt.Errorf("%w: challenge %d has unregistered type %q", ErrNotFound, chalID, chal.Type)
	}
	return t.Read(sc, chal)
}

// Submit checks an answer and records the outcome. Outside the competition
// window answers are still checked when viewing after the end is allowed,
// but nothing is recorded.
func (s *challengeService) Submit(sc session.Context, chalID uint, provided string) (*dto.AttemptResponse, error) {
	ctftime := s.state.CTFTime()
	if !sc.Admin && !ctftime && !s.state.ViewAfterCTF() {
		return nil, fmt.Errorf("%w: the competition is not running", ErrForbidden)
	}

	eligible := sc.Authed() &&
		(!s.state.VerifyEmails() || sc.Verified) &&
		(s.state.Started() || s.state.ViewAfterCTF())
	if !eligible && !sc.Admin {
		return &dto.AttemptResponse{Status: StatusNotLoggedIn, Message: "You must be logged in to solve a challenge"}, nil
	}

	team, err := s.teamRepo.FindByID(sc.TeamID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: unknown team %d", ErrForbidden, sc.TeamID)
		}
		return nil, fmt.Errorf("load team: %w", err)
	}
	if team.Banned {
		return nil, fmt.Errorf("%w: team %d is banned", ErrForbidden, team.ID)
	}

	recent, err := s.wrongKeyRepo.CountRecent(team.ID, s.now().Add(-time.Minute))
	if err != nil {
		return nil, fmt.Errorf("count recent wrong keys: %w", err)
	}
	if recent > maxWrongKeysPerMinute {
		log.Warn().Uint("teamID", team.ID).Int64("wrongKeys", recent).Msg("Team submitting keys too fast")
		return &dto.AttemptResponse{Status: StatusTooFast, Message: "You're submitting keys too fast. Slow down."}, nil
	}

	solved, err := s.solveRepo.ExistsForTeam(chalID, team.ID)
	if err != nil {
		return nil, fmt.Errorf("check solve: %w", err)
	}
	if solved {
		return &dto.AttemptResponse{Status: StatusAlreadySolved, Message: "You already solved this"}, nil
	}

	chal, err := s.findChallenge(chalID)
	if err != nil {
		return nil, err
	}
	if chal.Hidden && !sc.Admin {
		return nil, fmt.Errorf("%w: challenge %d", ErrNotFound, chalID)
	}
	t, err := s.registry.Get(chal.Type)
	if err != nil {
		return nil, err
	}

	fails, err := s.wrongKeyRepo.CountForTeam(chal.ID, team.ID)
	if err != nil {
		return nil, fmt.Errorf("count wrong keys: %w", err)
	}
	if chal.MaxAttempts > 0 && fails >= int64(chal.MaxAttempts) {
		return &dto.AttemptResponse{Status: StatusWrong, Message: "You have 0 tries remaining"}, nil
	}

	correct, message, err := t.Attempt(sc, chal, provided)
	if err != nil {
		return nil, err
	}
	if !correct && message == MessageNotAllowed {
		return &dto.AttemptResponse{Status: StatusWrong, Message: message}, nil
	}
	record := ctftime || sc.Admin

	if correct {
		if record {
			if err := t.Solve(sc, team, chal, provided); err != nil {
				if errors.Is(err, ErrNotAllowed) {
					return &dto.AttemptResponse{Status: StatusWrong, Message: MessageNotAllowed}, nil
				}
				return nil, err
			}
		}
		return &dto.AttemptResponse{Status: StatusCorrect, Message: message}, nil
	}

	if record {
		if err := t.Fail(sc, team, chal, provided); err != nil {
			return nil, err
		}
	}
	if chal.MaxAttempts > 0 {
		left := int64(chal.MaxAttempts) - fails - 1
		tries := "tries"
		if left == 1 {
			tries = "try"
		}
		if message != "" && !strings.ContainsAny(message[len(message)-1:], "!().;?[]{}") {
			message += "."
		}
		message = fmt.Sprintf("%s You have %d %s remaining.", message, left, tries)
	}
	return &dto.AttemptResponse{Status: StatusWrong, Message: message}, nil
}

func (s *challengeService) Delete(sc session.Context, chalID uint) error {
	if !sc.Admin {
		return ErrForbidden
	}
	chal, err := s.findChallenge(chalID)
	if err != nil {
		return err
	}
	t, err := s.registry.Get(chal.Type)
	if err != nil {
		return err
	}
	return t.Delete(chal)
}

func (s *challengeService) findChallenge(id uint) (*model.Challenge, error) {
	chal, err := s.challengeRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: challenge %d", ErrNotFound, id)
		}
		log.Error().Err(err).Uint("challengeID", id).Msg("Failed to load challenge")
		return nil, fmt.Errorf("load challenge: %w", err)
	}
	return chal, nil
}
