package service

import (
	"errors"
	"fmt"

	"github.com/jinzhu/copier"
	"github.com/lshigami/cctfd/internal/dto"
	"github.com/lshigami/cctfd/internal/model"
	"github.com/lshigami/cctfd/internal/session"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const (
	MessageCorrect    = "Correct"
	MessageIncorrect  = "Incorrect"
	MessageNotAllowed = "Not allowed"
)

const communityAssets = "/plugins/CCTFd/assets/"

// communityChallengeService implements the challenge type participants use
// to publish their own challenges. The owner's team is credited a bonus
// award the first time another team solves it.
type communityChallengeService struct {
	challengeSupport
}

func NewCommunityChallengeService(deps ChallengeTypeDeps) ChallengeType {
	return &communityChallengeService{challengeSupport{deps: deps}}
}

func (s *communityChallengeService) ID() string   { return model.ChallengeTypeCommunity }
func (s *communityChallengeService) Name() string { return model.ChallengeTypeCommunity }

func (s *communityChallengeService) Templates() map[string]string {
	return map[string]string{
		"create": communityAssets + "community-challenge-create.njk",
		"update": communityAssets + "community-challenge-update.njk",
		"modal":  communityAssets + "community-challenge-modal.njk",
	}
}

func (s *communityChallengeService) Scripts() map[string]string {
	return map[string]string{
		"create": communityAssets + "community-challenge-create.js",
		"update": communityAssets + "community-challenge-update.js",
		"modal":  communityAssets + "community-challenge-modal.js",
	}
}

// OwnerID returns the team that submitted the challenge.
func (s *communityChallengeService) OwnerID(chalID uint) (uint, error) {
	owner, err := s.deps.Community.FindOwner(chalID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, fmt.Errorf("%w: community challenge %d", ErrNotFound, chalID)
		}
		return 0, fmt.Errorf("find owner: %w", err)
	}
	return owner, nil
}

// Create stores the challenge, then its key, then its files. The steps are
// not rolled back as a whole: a failure after the first leaves what was
// already written.
func (s *communityChallengeService) Create(sc session.Context, form dto.CreateChallengeForm) (*model.Challenge, error) {
	if !sc.Authed() {
		return nil, ErrForbidden
	}
	chal, err := s.buildChallenge(form, model.ChallengeTypeCommunity)
	if err != nil {
		return nil, err
	}
	chal.Hidden = false

	if err := s.deps.Community.Create(chal, sc.TeamID); err != nil {
		log.Error().Err(err).Uint("teamID", sc.TeamID).Str("name", chal.Name).Msg("Failed to create community challenge")
		return nil, fmt.Errorf("create challenge: %w", err)
	}
	defer s.deps.Cache.Invalidate()

	if err := s.storeKey(chal.ID, form); err != nil {
		return chal, err
	}
	if err := s.storeFiles(chal.ID, form.Files); err != nil {
		return chal, err
	}

	log.Info().Uint("challengeID", chal.ID).Uint("owner", sc.TeamID).Str("name", chal.Name).Msg("Community challenge created")
	return chal, nil
}

func (s *communityChallengeService) Read(sc session.Context, chal *model.Challenge) (*dto.ChallengeView, error) {
	detail, err := s.deps.Community.FindByID(chal.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: community challenge %d", ErrNotFound, chal.ID)
		}
		return nil, fmt.Errorf("load community challenge: %w", err)
	}
	names, err := s.deps.Teams.FindNames([]uint{detail.Owner})
	if err != nil {
		return nil, fmt.Errorf("resolve owner name: %w", err)
	}

	var view dto.ChallengeView
	if err := copier.Copy(&view, &detail.Challenge); err != nil {
		return nil, fmt.Errorf("copy challenge: %w", err)
	}
	view.Owner = names[detail.Owner]
	view.Own = sc.Authed() && sc.TeamID == detail.Owner
	view.TypeData = typeInfo(s)
	if view.Own {
		view.Nonce = sc.Nonce
	}
	return &view, nil
}

// Update overwrites the editable fields. Blank numbers become 0 and the
// challenge stays visible.
func (s *communityChallengeService) Update(sc session.Context, chal *model.Challenge, form dto.UpdateChallengeForm) error {
	value, err := parseBlankAsZero("value", form.Value)
	if err != nil {
		return err
	}
	maxAttempts, err := parseBlankAsZero("max_attempts", form.MaxAttempts)
	if err != nil {
		return err
	}

	chal.Name = form.Name
	chal.Description = form.Description
	chal.Value = value
	chal.MaxAttempts = maxAttempts
	chal.Category = form.Category
	chal.Hidden = false

	if err := s.deps.Challenges.Save(chal); err != nil {
		log.Error().Err(err).Uint("challengeID", chal.ID).Msg("Failed to update community challenge")
		return fmt.Errorf("save challenge: %w", err)
	}
	s.deps.Cache.Invalidate()
	log.Info().Uint("challengeID", chal.ID).Uint("teamID", sc.TeamID).Msg("Community challenge updated")
	return nil
}

// Delete removes the challenge and everything that references it, bonus
// award included.
func (s *communityChallengeService) Delete(chal *model.Challenge) error {
	var locations []string
	err := s.deps.DB.Transaction(func(tx *gorm.DB) error {
		owner, err := s.deps.Community.WithTx(tx).FindOwner(chal.ID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("find owner: %w", err)
		}
		if err := s.deps.Awards.WithTx(tx).DeleteBonus(chal.ID, owner, BonusAwardName(chal.Name), chal.Value); err != nil {
			return fmt.Errorf("delete bonus award: %w", err)
		}
		locations, err = s.deleteResources(tx, chal.ID)
		if err != nil {
			return err
		}
		if err := s.deps.Community.WithTx(tx).Delete(chal.ID); err != nil {
			return fmt.Errorf("delete community row: %w", err)
		}
		if err := s.deps.Challenges.WithTx(tx).Delete(chal.ID); err != nil {
			return fmt.Errorf("delete challenge row: %w", err)
		}
		return nil
	})
	if err != nil {
		log.Error().Err(err).Uint("challengeID", chal.ID).Msg("Failed to delete community challenge")
		return err
	}

	s.removeStoredFiles(chal.ID, locations)
	s.deps.Cache.Invalidate()
	log.Info().Uint("challengeID", chal.ID).Msg("Community challenge deleted")
	return nil
}

// Attempt never writes. The owner may not answer their own challenge.
func (s *communityChallengeService) Attempt(sc session.Context, chal *model.Challenge, provided string) (bool, string, error) {
	owner, err := s.OwnerID(chal.ID)
	if err != nil {
		return false, "", err
	}
	if sc.TeamID == owner {
		return false, MessageNotAllowed, nil
	}
	ok, err := s.checkKeys(chal.ID, provided)
	if err != nil {
		return false, "", err
	}
	if ok {
		return true, MessageCorrect, nil
	}
	return false, MessageIncorrect, nil
}

// Solve records the solve and, when no valid solve exists yet, the owner's
// bonus award first. The community row is locked for the whole transaction
// so two concurrent first solves cannot both award the bonus.
func (s *communityChallengeService) Solve(sc session.Context, team *model.Team, chal *model.Challenge, provided string) error {
	awarded := false
	err := s.deps.DB.Transaction(func(tx *gorm.DB) error {
		cc, err := s.deps.Community.WithTx(tx).LockByID(chal.ID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: community challenge %d", ErrNotFound, chal.ID)
			}
			return fmt.Errorf("lock challenge: %w", err)
		}
		if cc.Owner == team.ID {
			return ErrNotAllowed
		}

		current, err := s.deps.Challenges.WithTx(tx).FindByID(chal.ID)
		if err != nil {
			return fmt.Errorf("reload challenge: %w", err)
		}
		count, err := s.deps.Solves.WithTx(tx).CountValid(chal.ID)
		if err != nil {
			return fmt.Errorf("count solves: %w", err)
		}

		if count == 0 {
			chalID := current.ID
			award := model.Award{
				TeamID: cc.Owner,
				ChalID: &chalID,
				Name:   BonusAwardName(current.Name),
				Value:  current.Value,
			}
			if err := s.deps.Awards.WithTx(tx).Create(&award); err != nil {
				return fmt.Errorf("create bonus award: %w", err)
			}
			awarded = true
		}

		if err := s.deps.Solves.WithTx(tx).Create(s.newSolve(sc, team, current, provided)); err != nil {
			return fmt.Errorf("create solve: %w", err)
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrNotAllowed) {
			log.Error().Err(err).Uint("challengeID", chal.ID).Uint("teamID", team.ID).Msg("Failed to record solve")
		}
		return err
	}

	s.deps.Cache.Invalidate()
	log.Info().Uint("challengeID", chal.ID).Uint("teamID", team.ID).Bool("bonusAwarded", awarded).Msg("Community challenge solved")
	return nil
}

// Fail records a wrong answer. Answers from the owner are not recorded.
func (s *communityChallengeService) Fail(sc session.Context, team *model.Team, chal *model.Challenge, provided string) error {
	owner, err := s.OwnerID(chal.ID)
	if err != nil {
		return err
	}
	if owner == team.ID {
		return nil
	}
	return s.recordFail(sc, team, chal, provided)
}
