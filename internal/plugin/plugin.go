// Package plugin installs community challenges into the host: the challenge
// type, the overridden page templates, the challenge list handler and the
// /community routes.
package plugin

import (
	"embed"
	"fmt"
	"io/fs"
	"net/http"

	"github.com/lshigami/cctfd/internal/controller/community"
	"github.com/lshigami/cctfd/internal/extension"
	"github.com/lshigami/cctfd/internal/service"
	"github.com/rs/zerolog/log"
)

// AssetsPath serves the front-end files referenced by the community type's
// templates and scripts.
const AssetsPath = "/plugins/CCTFd/assets"

//go:embed templates/*.html assets/*
var content embed.FS

var templateOverrides = []struct {
	slot string
	file string
}{
	{extension.SlotBase, "templates/community-base.html"},
	{extension.SlotCreateChallenge, "templates/create.html"},
	{extension.SlotChallenges, "templates/challenges.html"},
}

// Load registers the community challenge type and fills the host slots.
func Load(host *extension.Host, registry *service.ChallengeTypeRegistry, deps service.ChallengeTypeDeps, ctrl *community.CommunityController) error {
	if err := registry.Register(service.NewCommunityChallengeService(deps)); err != nil {
		return fmt.Errorf("register community challenge type: %w", err)
	}

	for _, o := range templateOverrides {
		src, err := content.ReadFile(o.file)
		if err != nil {
			return fmt.Errorf("read %s: %w", o.file, err)
		}
		if err := host.SetTemplate(o.slot, string(src)); err != nil {
			return err
		}
	}

	assets, err := fs.Sub(content, "assets")
	if err != nil {
		return fmt.Errorf("assets: %w", err)
	}
	host.Router().StaticFS(AssetsPath, http.FS(assets))

	host.SetChallengeListHandler(ctrl.ListChallenges)
	ctrl.RegisterRoutes(host.Router())

	log.Info().Str("assets", AssetsPath).Msg("Community challenge plugin loaded")
	return nil
}
