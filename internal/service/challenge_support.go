package service

import (
	"fmt"
	"mime/multipart"
	"strings"

	"github.com/lshigami/cctfd/internal/cache"
	"github.com/lshigami/cctfd/internal/dto"
	"github.com/lshigami/cctfd/internal/keys"
	"github.com/lshigami/cctfd/internal/model"
	"github.com/lshigami/cctfd/internal/repository"
	"github.com/lshigami/cctfd/internal/session"
	"github.com/lshigami/cctfd/internal/storage"
	"github.com/rs/zerolog/log"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// ChallengeTypeDeps is everything a challenge type needs from the host.
type ChallengeTypeDeps struct {
	fx.In

	DB         *gorm.DB
	Challenges repository.ChallengeRepository
	Community  repository.CommunityChallengeRepository
	Keys       repository.KeyRepository
	Solves     repository.SolveRepository
	WrongKeys  repository.WrongKeyRepository
	Awards     repository.AwardRepository
	Files      repository.FileRepository
	Tags       repository.TagRepository
	Hints      repository.HintRepository
	Teams      repository.TeamRepository
	Comparers  *keys.Registry
	Storage    storage.FileStorage
	Cache      cache.ChallengeCache
}

// BonusAwardName is the award name credited to the owner of a community
// challenge on its first solve.
func BonusAwardName(challengeName string) string {
	return "Bonus points for submitting challenge " + challengeName
}

// challengeSupport holds the steps shared by every challenge type.
type challengeSupport struct {
	deps ChallengeTypeDeps
}

// buildChallenge validates the creation form and returns the unsaved base row.
func (s challengeSupport) buildChallenge(form dto.CreateChallengeForm, chalType string) (*model.Challenge, error) {
	if strings.TrimSpace(form.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidForm)
	}
	value, err := parseRequiredInt("value", form.Value)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(form.Key) == "" {
		return nil, fmt.Errorf("%w: key is required", ErrInvalidForm)
	}
	if _, ok := s.deps.Comparers.Get(form.KeyType); !ok {
		return nil, fmt.Errorf("%w: unknown key type %q", ErrInvalidForm, form.KeyType)
	}

	chal := &model.Challenge{
		Name:        form.Name,
		Description: form.Description,
		Value:       value,
		Category:    form.Category,
		Type:        chalType,
	}
	// A malformed limit is ignored rather than rejected.
	if raw := strings.TrimSpace(form.MaxAttempts); isDigits(raw) {
		chal.MaxAttempts, _ = parseRequiredInt("max_attempts", raw)
	}
	return chal, nil
}

func (s challengeSupport) storeKey(chalID uint, form dto.CreateChallengeForm) error {
	key := model.Key{
		ChalID: chalID,
		Type:   form.KeyType,
		Flag:   form.Key,
		Data:   form.KeyData,
	}
	if err := s.deps.Keys.Create(&key); err != nil {
		log.Error().Err(err).Uint("challengeID", chalID).Msg("Failed to store challenge key")
		return fmt.Errorf("store key: %w", err)
	}
	return nil
}

func (s challengeSupport) storeFiles(chalID uint, files []*multipart.FileHeader) error {
	for _, fh := range files {
		location, err := s.deps.Storage.Save(chalID, fh)
		if err != nil {
			log.Error().Err(err).Uint("challengeID", chalID).Str("filename", fh.Filename).Msg("Failed to store challenge file")
			return fmt.Errorf("store file %q: %w", fh.Filename, err)
		}
		if err := s.deps.Files.Create(&model.File{ChalID: chalID, Location: location}); err != nil {
			return fmt.Errorf("record file %q: %w", location, err)
		}
	}
	return nil
}

// checkKeys trims provided and reports whether any key of the challenge
// accepts it.
func (s challengeSupport) checkKeys(chalID uint, provided string) (bool, error) {
	provided = strings.TrimSpace(provided)
	chalKeys, err := s.deps.Keys.FindByChallenge(chalID)
	if err != nil {
		return false, fmt.Errorf("load keys: %w", err)
	}
	for _, k := range chalKeys {
		if s.deps.Comparers.Compare(k, provided) {
			return true, nil
		}
	}
	return false, nil
}

func (s challengeSupport) recordFail(sc session.Context, team *model.Team, chal *model.Challenge, provided string) error {
	wrong := model.WrongKey{
		ChalID: chal.ID,
		TeamID: team.ID,
		IP:     sc.IP,
		Flag:   strings.TrimSpace(provided),
	}
	if err := s.deps.WrongKeys.Create(&wrong); err != nil {
		log.Error().Err(err).Uint("challengeID", chal.ID).Uint("teamID", team.ID).Msg("Failed to record wrong key")
		return fmt.Errorf("record wrong key: %w", err)
	}
	return nil
}

func (s challengeSupport) newSolve(sc session.Context, team *model.Team, chal *model.Challenge, provided string) *model.Solve {
	return &model.Solve{
		ChalID: chal.ID,
		TeamID: team.ID,
		IP:     sc.IP,
		Flag:   strings.TrimSpace(provided),
	}
}

// deleteResources removes the rows hanging off a challenge inside tx and
// returns the storage locations of its files. The files themselves are
// removed by the caller once tx commits.
func (s challengeSupport) deleteResources(tx *gorm.DB, chalID uint) ([]string, error) {
	if err := s.deps.WrongKeys.WithTx(tx).DeleteByChallenge(chalID); err != nil {
		return nil, fmt.Errorf("delete wrong keys: %w", err)
	}
	if err := s.deps.Solves.WithTx(tx).DeleteByChallenge(chalID); err != nil {
		return nil, fmt.Errorf("delete solves: %w", err)
	}
	if err := s.deps.Keys.WithTx(tx).DeleteByChallenge(chalID); err != nil {
		return nil, fmt.Errorf("delete keys: %w", err)
	}

	files, err := s.deps.Files.WithTx(tx).FindByChallenge(chalID)
	if err != nil {
		return nil, fmt.Errorf("load files: %w", err)
	}
	locations := make([]string, 0, len(files))
	for _, f := range files {
		locations = append(locations, f.Location)
	}
	if err := s.deps.Files.WithTx(tx).DeleteByChallenge(chalID); err != nil {
		return nil, fmt.Errorf("delete files: %w", err)
	}

	if err := s.deps.Tags.WithTx(tx).DeleteByChallenge(chalID); err != nil {
		return nil, fmt.Errorf("delete tags: %w", err)
	}
	if err := s.deps.Hints.WithTx(tx).DeleteByChallenge(chalID); err != nil {
		return nil, fmt.Errorf("delete hints: %w", err)
	}
	return locations, nil
}

// removeStoredFiles deletes uploads from storage. Failures are logged only,
// the rows are already gone.
func (s challengeSupport) removeStoredFiles(chalID uint, locations []string) {
	for _, loc := range locations {
		if err := s.deps.Storage.Delete(loc); err != nil {
			log.Warn().Err(err).Uint("challengeID", chalID).Str("location", loc).Msg("Failed to remove challenge file")
		}
	}
}
