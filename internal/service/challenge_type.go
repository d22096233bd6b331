package service

import (
	"fmt"
	"sync"

	"github.com/lshigami/cctfd/internal/dto"
	"github.com/lshigami/cctfd/internal/model"
	"github.com/lshigami/cctfd/internal/session"
)

// ChallengeType is one variant of challenge. The host dispatches every
// challenge operation to the type named by Challenge.Type.
type ChallengeType interface {
	ID() string
	Name() string
	// Templates and Scripts map "create", "update" and "modal" to the
	// front-end assets of the type.
	Templates() map[string]string
	Scripts() map[string]string

	Create(sc session.Context, form dto.CreateChallengeForm) (*model.Challenge, error)
	Read(sc session.Context, chal *model.Challenge) (*dto.ChallengeView, error)
	Update(sc session.Context, chal *model.Challenge, form dto.UpdateChallengeForm) error
	Delete(chal *model.Challenge) error
	// Attempt checks an answer without writing anything.
	Attempt(sc session.Context, chal *model.Challenge, provided string) (bool, string, error)
	Solve(sc session.Context, team *model.Team, chal *model.Challenge, provided string) error
	Fail(sc session.Context, team *model.Team, chal *model.Challenge, provided string) error
}

// OwnedChallengeType is implemented by types whose challenges belong to a
// team. Other types are reported as owned by model.PlatformOwnerID.
type OwnedChallengeType interface {
	OwnerID(chalID uint) (uint, error)
}

func typeInfo(t ChallengeType) dto.ChallengeTypeInfo {
	return dto.ChallengeTypeInfo{
		ID:        t.ID(),
		Name:      t.Name(),
		Templates: t.Templates(),
		Scripts:   t.Scripts(),
	}
}

// ChallengeTypeRegistry holds the challenge types known to the process. It
// is filled at startup and read per request.
type ChallengeTypeRegistry struct {
	mu    sync.RWMutex
	order []string
	types map[string]ChallengeType
}

func NewChallengeTypeRegistry() *ChallengeTypeRegistry {
	return &ChallengeTypeRegistry{types: make(map[string]ChallengeType)}
}

func (r *ChallengeTypeRegistry) Register(t ChallengeType) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.types[t.ID()]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateChallengeType, t.ID())
	}
	r.types[t.ID()] = t
	r.order = append(r.order, t.ID())
	return nil
}

func (r *ChallengeTypeRegistry) Get(id string) (ChallengeType, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.types[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownChallengeType, id)
	}
	return t, nil
}

// All returns the registered types in registration order.
func (r *ChallengeTypeRegistry) All() []ChallengeType {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]ChallengeType, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.types[id])
	}
	return out
}
