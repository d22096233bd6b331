// Package keys holds the flag comparison strategies selected by a key's type.
package keys

import (
	"crypto/subtle"
	"regexp"
	"strings"
	"sync"

	"github.com/lshigami/cctfd/internal/model"
	"github.com/rs/zerolog/log"
)

const (
	TypeStatic = "static"
	TypeRegex  = "regex"

	// DataCaseInsensitive in Key.Data makes either strategy ignore case.
	DataCaseInsensitive = "case_insensitive"
)

// Comparer decides whether a provided answer satisfies a stored key.
type Comparer interface {
	Compare(key model.Key, provided string) bool
}

// Registry maps key types to their comparers.
type Registry struct {
	mu        sync.RWMutex
	comparers map[string]Comparer
}

// NewRegistry returns a registry with the static and regex strategies.
func NewRegistry() *Registry {
	r := &Registry{comparers: make(map[string]Comparer)}
	r.Register(TypeStatic, StaticComparer{})
	r.Register(TypeRegex, &RegexComparer{})
	return r
}

func (r *Registry) Register(keyType string, c Comparer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.comparers[keyType] = c
}

func (r *Registry) Get(keyType string) (Comparer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.comparers[keyType]
	return c, ok
}

// Types lists the registered key types.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.comparers))
	for t := range r.comparers {
		out = append(out, t)
	}
	return out
}

// Compare checks provided against key with the comparer of the key's type.
// Keys of an unknown type never match.
func (r *Registry) Compare(key model.Key, provided string) bool {
	c, ok := r.Get(key.Type)
	if !ok {
		log.Warn().Uint("keyID", key.ID).Str("keyType", key.Type).Msg("No comparer registered for key type")
		return false
	}
	return c.Compare(key, provided)
}

// StaticComparer matches the exact flag text in constant time.
type StaticComparer struct{}

func (StaticComparer) Compare(key model.Key, provided string) bool {
	saved := key.Flag
	if key.Data == DataCaseInsensitive {
		saved = strings.ToLower(saved)
		provided = strings.ToLower(provided)
	}
	if len(saved) != len(provided) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(saved), []byte(provided)) == 1
}

// RegexComparer treats the flag as a pattern that must match the whole
// answer. Compiled patterns are memoized.
type RegexComparer struct {
	cache sync.Map // pattern string -> *regexp.Regexp, or error
}

func (c *RegexComparer) Compare(key model.Key, provided string) bool {
	pattern := `^(?:` + key.Flag + `)$`
	if key.Data == DataCaseInsensitive {
		pattern = `(?i)` + pattern
	}
	re, err := c.compile(pattern)
	if err != nil {
		log.Warn().Err(err).Uint("keyID", key.ID).Msg("Invalid regex key")
		return false
	}
	return re.MatchString(provided)
}

func (c *RegexComparer) compile(pattern string) (*regexp.Regexp, error) {
	if v, ok := c.cache.Load(pattern); ok {
		if err, isErr := v.(error); isErr {
			return nil, err
		}
		return v.(*regexp.Regexp), nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		c.cache.Store(pattern, err)
		return nil, err
	}
	c.cache.Store(pattern, re)
	return re, nil
}
