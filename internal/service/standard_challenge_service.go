package service

import (
	"fmt"
	"strings"

	"github.com/jinzhu/copier"
	"github.com/lshigami/cctfd/internal/dto"
	"github.com/lshigami/cctfd/internal/model"
	"github.com/lshigami/cctfd/internal/session"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const standardAssets = "/plugins/challenges/assets/"

// standardChallengeService is the host's own admin-authored challenge type.
type standardChallengeService struct {
	challengeSupport
}

func NewStandardChallengeService(deps ChallengeTypeDeps) ChallengeType {
	return &standardChallengeService{challengeSupport{deps: deps}}
}

func (s *standardChallengeService) ID() string   { return model.ChallengeTypeStandard }
func (s *standardChallengeService) Name() string { return model.ChallengeTypeStandard }

func (s *standardChallengeService) Templates() map[string]string {
	return map[string]string{
		"create": standardAssets + "standard-challenge-create.njk",
		"update": standardAssets + "standard-challenge-update.njk",
		"modal":  standardAssets + "standard-challenge-modal.njk",
	}
}

func (s *standardChallengeService) Scripts() map[string]string {
	return map[string]string{
		"create": standardAssets + "standard-challenge-create.js",
		"update": standardAssets + "standard-challenge-update.js",
		"modal":  standardAssets + "standard-challenge-modal.js",
	}
}

func (s *standardChallengeService) Create(sc session.Context, form dto.CreateChallengeForm) (*model.Challenge, error) {
	chal, err := s.buildChallenge(form, model.ChallengeTypeStandard)
	if err != nil {
		return nil, err
	}
	chal.Hidden = parseCheckbox(form.Hidden)

	if err := s.deps.Challenges.Save(chal); err != nil {
		log.Error().Err(err).Str("name", chal.Name).Msg("Failed to create challenge")
		return nil, fmt.Errorf("create challenge: %w", err)
	}
	defer s.deps.Cache.Invalidate()

	if err := s.storeKey(chal.ID, form); err != nil {
		return chal, err
	}
	if err := s.storeFiles(chal.ID, form.Files); err != nil {
		return chal, err
	}
	log.Info().Uint("challengeID", chal.ID).Str("name", chal.Name).Bool("hidden", chal.Hidden).Msg("Challenge created")
	return chal, nil
}

func (s *standardChallengeService) Read(sc session.Context, chal *model.Challenge) (*dto.ChallengeView, error) {
	var view dto.ChallengeView
	if err := copier.Copy(&view, chal); err != nil {
		return nil, fmt.Errorf("copy challenge: %w", err)
	}
	view.TypeData = typeInfo(s)
	return &view, nil
}

func (s *standardChallengeService) Update(sc session.Context, chal *model.Challenge, form dto.UpdateChallengeForm) error {
	value, err := parseBlankAsZero("value", form.Value)
	if err != nil {
		return err
	}
	maxAttempts, err := parseBlankAsZero("max_attempts", form.MaxAttempts)
	if err != nil {
		return err
	}

	chal.Name = strings.TrimSpace(form.Name)
	chal.Description = form.Description
	chal.Value = value
	chal.MaxAttempts = maxAttempts
	chal.Category = form.Category
	chal.Hidden = parseCheckbox(form.Hidden)

	if err := s.deps.Challenges.Save(chal); err != nil {
		log.Error().Err(err).Uint("challengeID", chal.ID).Msg("Failed to update challenge")
		return fmt.Errorf("save challenge: %w", err)
	}
	s.deps.Cache.Invalidate()
	return nil
}

func (s *standardChallengeService) Delete(chal *model.Challenge) error {
	var locations []string
	err := s.deps.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		locations, err = s.deleteResources(tx, chal.ID)
		if err != nil {
			return err
		}
		return s.deps.Challenges.WithTx(tx).Delete(chal.ID)
	})
	if err != nil {
		log.Error().Err(err).Uint("challengeID", chal.ID).Msg("Failed to delete challenge")
		return fmt.Errorf("delete challenge: %w", err)
	}
	s.removeStoredFiles(chal.ID, locations)
	s.deps.Cache.Invalidate()
	return nil
}

func (s *standardChallengeService) Attempt(sc session.Context, chal *model.Challenge, provided string) (bool, string, error) {
	ok, err := s.checkKeys(chal.ID, provided)
	if err != nil {
		return false, "", err
	}
	if ok {
		return true, MessageCorrect, nil
	}
	return false, MessageIncorrect, nil
}

func (s *standardChallengeService) Solve(sc session.Context, team *model.Team, chal *model.Challenge, provided string) error {
	if err := s.deps.Solves.Create(s.newSolve(sc, team, chal, provided)); err != nil {
		log.Error().Err(err).Uint("challengeID", chal.ID).Uint("teamID", team.ID).Msg("Failed to record solve")
		return fmt.Errorf("create solve: %w", err)
	}
	s.deps.Cache.Invalidate()
	return nil
}

func (s *standardChallengeService) Fail(sc session.Context, team *model.Team, chal *model.Challenge, provided string) error {
	return s.recordFail(sc, team, chal, provided)
}
