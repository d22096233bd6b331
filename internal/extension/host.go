// Package extension holds the named slots the host exposes to plugins: page
// templates and the challenge list handler.
package extension

import (
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
	"github.com/lshigami/cctfd/internal/dto"
	"github.com/rs/zerolog/log"
)

// Template slots. Page slots are rendered inside SlotBase, which must
// contain {{block "content" .}}.
const (
	SlotBase            = "base.html"
	SlotCreateChallenge = "admin/chals/create.html"
	SlotChallenges      = "challenges.html"
)

var ErrUnknownSlot = errors.New("unknown extension slot")

const defaultBase = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>CTF</title></head>
<body>{{block "content" .}}{{end}}</body>
</html>`

const defaultCreate = `{{define "content"}}<h1>Create challenge</h1>{{end}}`

const defaultChallenges = `{{define "content"}}<h1>Challenges</h1>{{end}}`

// Host owns the router and the extension slots. Plugins fill slots through
// Set* at load time and the host routes serve whatever the slot holds.
type Host struct {
	router *gin.Engine

	mu        sync.RWMutex
	sources   map[string]string
	pages     map[string]*template.Template
	chalsList gin.HandlerFunc
}

func NewHost(router *gin.Engine) (*Host, error) {
	h := &Host{
		router: router,
		sources: map[string]string{
			SlotBase:            defaultBase,
			SlotCreateChallenge: defaultCreate,
			SlotChallenges:      defaultChallenges,
		},
		chalsList: func(c *gin.Context) {
			c.JSON(http.StatusOK, dto.ChallengeListResponse{Game: []dto.ChallengeListItem{}})
		},
	}
	if err := h.compile(); err != nil {
		return nil, err
	}
	return h, nil
}

// Router is where plugins register their own routes.
func (h *Host) Router() gin.IRouter {
	return h.router
}

// SetTemplate replaces the source of a template slot. The new source must
// parse together with the other slots or the slot is left unchanged.
func (h *Host) SetTemplate(slot, source string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	old, ok := h.sources[slot]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownSlot, slot)
	}
	h.sources[slot] = source
	if err := h.compile(); err != nil {
		h.sources[slot] = old
		return fmt.Errorf("template slot %q: %w", slot, err)
	}
	log.Info().Str("slot", slot).Msg("Template slot overridden")
	return nil
}

// Template returns the current source of a slot.
func (h *Host) Template(slot string) (string, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	src, ok := h.sources[slot]
	return src, ok
}

// compile parses every page slot on top of the base slot. Callers hold mu.
func (h *Host) compile() error {
	pages := make(map[string]*template.Template, len(h.sources)-1)
	for slot, src := range h.sources {
		if slot == SlotBase {
			continue
		}
		t, err := template.New(SlotBase).Parse(h.sources[SlotBase])
		if err != nil {
			return err
		}
		if _, err := t.New(slot).Parse(src); err != nil {
			return err
		}
		pages[slot] = t
	}
	h.pages = pages
	return nil
}

// Render writes the page slot wrapped in the base slot.
func (h *Host) Render(c *gin.Context, status int, slot string, data any) {
	h.mu.RLock()
	t, ok := h.pages[slot]
	h.mu.RUnlock()
	if !ok {
		log.Error().Str("slot", slot).Msg("Render of unknown page slot")
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Unknown page"})
		return
	}
	c.Render(status, render.HTML{Template: t, Name: SlotBase, Data: data})
}

// SetChallengeListHandler replaces the handler behind GET /chals.
func (h *Host) SetChallengeListHandler(fn gin.HandlerFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.chalsList = fn
}

// ServeChallengeList dispatches to the current challenge list handler.
func (h *Host) ServeChallengeList(c *gin.Context) {
	h.mu.RLock()
	fn := h.chalsList
	h.mu.RUnlock()
	fn(c)
}
