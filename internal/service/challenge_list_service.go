package service

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lshigami/cctfd/internal/cache"
	"github.com/lshigami/cctfd/internal/dto"
	"github.com/lshigami/cctfd/internal/model"
	"github.com/lshigami/cctfd/internal/repository"
	"github.com/lshigami/cctfd/internal/session"
	"github.com/rs/zerolog/log"
)

// ChallengeListService builds the challenge list returned by GET /chals.
type ChallengeListService interface {
	List(sc session.Context) (*dto.ChallengeListResponse, error)
}

// catalogEntry is the part of a list item that is the same for every
// requester. Hint bodies are kept here and stripped per request.
type catalogEntry struct {
	Challenge model.Challenge `json:"challenge"`
	TypeName  string          `json:"type_name"`
	Template  string          `json:"template"`
	Script    string          `json:"script"`
	Tags      []string        `json:"tags"`
	Files     []string        `json:"files"`
	Hints     []model.Hint    `json:"hints"`
	OwnerID   uint            `json:"owner_id"`
	Owner     string          `json:"owner"`
}

type challengeListService struct {
	challengeRepo repository.ChallengeRepository
	tagRepo       repository.TagRepository
	fileRepo      repository.FileRepository
	hintRepo      repository.HintRepository
	teamRepo      repository.TeamRepository
	unlockRepo    repository.UnlockRepository
	registry      *ChallengeTypeRegistry
	state         CTFStateService
	cache         cache.ChallengeCache
}

func NewChallengeListService(
	challengeRepo repository.ChallengeRepository,
	tagRepo repository.TagRepository,
	fileRepo repository.FileRepository,
	hintRepo repository.HintRepository,
	teamRepo repository.TeamRepository,
	unlockRepo repository.UnlockRepository,
	registry *ChallengeTypeRegistry,
	state CTFStateService,
	cache cache.ChallengeCache,
) ChallengeListService {
	return &challengeListService{
		challengeRepo: challengeRepo,
		tagRepo:       tagRepo,
		fileRepo:      fileRepo,
		hintRepo:      hintRepo,
		teamRepo:      teamRepo,
		unlockRepo:    unlockRepo,
		registry:      registry,
		state:         state,
		cache:         cache,
	}
}

func (s *challengeListService) List(sc session.Context) (*dto.ChallengeListResponse, error) {
	if !challengesVisible(s.state, sc) {
		log.Debug().Uint("teamID", sc.TeamID).Msg("Challenge list refused")
		return nil, ErrForbidden
	}

	entries, err := s.catalog()
	if err != nil {
		return nil, err
	}

	unlocked := map[uint]bool{}
	if sc.Authed() {
		unlocked, err = s.unlockRepo.FindItemIDs(sc.TeamID, model.UnlockModelHints)
		if err != nil {
			return nil, fmt.Errorf("load unlocks: %w", err)
		}
	}
	ended := s.state.Ended()

	resp := &dto.ChallengeListResponse{Game: make([]dto.ChallengeListItem, 0, len(entries))}
	for _, e := range entries {
		item := dto.ChallengeListItem{
			ID:          e.Challenge.ID,
			Type:        e.TypeName,
			Name:        e.Challenge.Name,
			Value:       e.Challenge.Value,
			Description: e.Challenge.Description,
			Category:    e.Challenge.Category,
			Files:       e.Files,
			Tags:        e.Tags,
			Hints:       make([]dto.HintView, 0, len(e.Hints)),
			Owner:       e.Owner,
			Own:         sc.Authed() && e.OwnerID == sc.TeamID,
			Template:    e.Template,
			Script:      e.Script,
		}
		for _, h := range e.Hints {
			hv := dto.HintView{ID: h.ID, Cost: h.Cost}
			if unlocked[h.ID] || ended {
				body := h.Hint
				hv.Hint = &body
			}
			item.Hints = append(item.Hints, hv)
		}
		if item.Own {
			item.Nonce = sc.Nonce
		}
		resp.Game = append(resp.Game, item)
	}
	return resp, nil
}

// catalog returns the shared entries from the cache, rebuilding them from
// the database on a miss. The rebuilt catalog is dropped if an invalidation
// happened while it was being read.
func (s *challengeListService) catalog() ([]catalogEntry, error) {
	if payload, ok := s.cache.GetCatalog(); ok {
		var entries []catalogEntry
		if err := json.Unmarshal(payload, &entries); err == nil {
			return entries, nil
		}
		log.Warn().Msg("Discarding undecodable challenge catalog")
	}

	gen := s.cache.Generation()
	entries, err := s.buildCatalog()
	if err != nil {
		return nil, err
	}
	if payload, err := json.Marshal(entries); err == nil {
		s.cache.SetCatalog(gen, payload)
	}
	return entries, nil
}

func (s *challengeListService) buildCatalog() ([]catalogEntry, error) {
	chals, err := s.challengeRepo.FindVisible()
	if err != nil {
		log.Error().Err(err).Msg("Failed to load visible challenges")
		return nil, fmt.Errorf("load challenges: %w", err)
	}

	entries := make([]catalogEntry, 0, len(chals))
	ownerIDs := make([]uint, 0, len(chals))
	for _, c := range chals {
		t, err := s.registry.Get(c.Type)
		if err != nil {
			log.Warn().Uint("challengeID", c.ID).Str("type", c.Type).Msg("Skipping challenge of unregistered type")
			continue
		}

		entry := catalogEntry{
			Challenge: c,
			TypeName:  t.Name(),
			Template:  t.Templates()["modal"],
			Script:    t.Scripts()["modal"],
			Tags:      []string{},
			Files:     []string{},
			OwnerID:   model.PlatformOwnerID,
		}

		tags, err := s.tagRepo.FindByChallenge(c.ID)
		if err != nil {
			return nil, fmt.Errorf("load tags of challenge %d: %w", c.ID, err)
		}
		for _, tag := range tags {
			entry.Tags = append(entry.Tags, tag.Tag)
		}

		files, err := s.fileRepo.FindByChallenge(c.ID)
		if err != nil {
			return nil, fmt.Errorf("load files of challenge %d: %w", c.ID, err)
		}
		for _, f := range files {
			entry.Files = append(entry.Files, f.Location)
		}

		entry.Hints, err = s.hintRepo.FindByChallenge(c.ID)
		if err != nil {
			return nil, fmt.Errorf("load hints of challenge %d: %w", c.ID, err)
		}

		if owned, ok := t.(OwnedChallengeType); ok {
			owner, err := owned.OwnerID(c.ID)
			if err != nil && !errors.Is(err, ErrNotFound) {
				return nil, err
			}
			if err == nil {
				entry.OwnerID = owner
			}
		}
		ownerIDs = append(ownerIDs, entry.OwnerID)
		entries = append(entries, entry)
	}

	names, err := s.teamRepo.FindNames(ownerIDs)
	if err != nil {
		return nil, fmt.Errorf("resolve owner names: %w", err)
	}
	for i := range entries {
		entries[i].Owner = names[entries[i].OwnerID]
	}
	return entries, nil
}
