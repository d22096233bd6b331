package community

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/cctfd/internal/controller"
	"github.com/lshigami/cctfd/internal/dto"
	"github.com/lshigami/cctfd/internal/extension"
	"github.com/lshigami/cctfd/internal/middleware"
	"github.com/lshigami/cctfd/internal/service"
	"github.com/rs/zerolog/log"
)

// ChallengesPath is where successful create and update requests redirect.
const ChallengesPath = "/challenges"

type CommunityController struct {
	challengeSvc service.ChallengeService
	listSvc      service.ChallengeListService
	host         *extension.Host
}

func NewCommunityController(challengeSvc service.ChallengeService, listSvc service.ChallengeListService, host *extension.Host) *CommunityController {
	return &CommunityController{challengeSvc: challengeSvc, listSvc: listSvc, host: host}
}

func (ctrl *CommunityController) RegisterRoutes(r gin.IRouter) {
	g := r.Group("/community")
	g.GET("/chal_types", ctrl.ChallengeTypes)
	g.POST("/chal_types", ctrl.ChallengeTypes)
	g.GET("/new", middleware.RequireAuth(), ctrl.NewChallengeForm)
	g.POST("/new", middleware.RequireAuth(), middleware.RequireNonce(), ctrl.CreateChallenge)
	g.POST("/update", middleware.RequireAuth(), middleware.RequireNonce(), ctrl.UpdateChallenge)
}

// ChallengeTypes godoc
// @Summary List challenge types
// @Description Metadata of every challenge type the requester may create. Non-admins only see the community type.
// @Tags Community
// @Produce json
// @Success 200 {object} map[string]dto.ChallengeTypeInfo
// @Router /community/chal_types [get]
// @Router /community/chal_types [post]
func (ctrl *CommunityController) ChallengeTypes(c *gin.Context) {
	c.JSON(http.StatusOK, ctrl.challengeSvc.Types(middleware.SessionFrom(c)))
}

// NewChallengeForm godoc
// @Summary Challenge creation page
// @Tags Community
// @Produce html
// @Success 200 {string} string "HTML page"
// @Router /community/new [get]
func (ctrl *CommunityController) NewChallengeForm(c *gin.Context) {
	sc := middleware.SessionFrom(c)
	ctrl.host.Render(c, http.StatusOK, extension.SlotCreateChallenge, gin.H{
		"Nonce": sc.Nonce,
		"Admin": sc.Admin,
		"Types": ctrl.challengeSvc.Types(sc),
	})
}

// CreateChallenge godoc
// @Summary Create a challenge
// @Description Creates a challenge of the requested type. Non-admins may only create community challenges.
// @Tags Community
// @Accept multipart/form-data
// @Param name formData string true "Challenge name"
// @Param description formData string false "Description"
// @Param value formData integer true "Points"
// @Param category formData string false "Category"
// @Param chaltype formData string true "Challenge type id"
// @Param key formData string true "Flag"
// @Param key_type[0] formData string true "Key type (static or regex)"
// @Param keydata formData string false "Key options, e.g. case_insensitive"
// @Param max_attempts formData string false "Attempt limit"
// @Param files[] formData file false "Attachments"
// @Param nonce formData string true "Session nonce"
// @Success 302 "Redirect to /challenges"
// @Failure 400 {object} dto.ErrorResponse "Invalid form"
// @Failure 403 {object} dto.ErrorResponse "Type not allowed"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /community/new [post]
func (ctrl *CommunityController) CreateChallenge(c *gin.Context) {
	var form dto.CreateChallengeForm
	if err := c.ShouldBind(&form); err != nil {
		controller.RespondBindError(c, err)
		return
	}
	if mf, err := c.MultipartForm(); err == nil {
		form.Files = mf.File["files[]"]
	}

	chal, err := ctrl.challengeSvc.Create(middleware.SessionFrom(c), form)
	if err != nil {
		controller.RespondError(c, err, "Failed to create challenge")
		return
	}
	log.Info().Uint("challengeID", chal.ID).Str("type", chal.Type).Msg("Challenge submitted")
	c.Redirect(http.StatusFound, ChallengesPath)
}

// UpdateChallenge godoc
// @Summary Update an owned community challenge
// @Description Blank numeric fields are stored as 0. The challenge always stays visible.
// @Tags Community
// @Accept x-www-form-urlencoded
// @Param id formData integer true "Challenge ID"
// @Param name formData string true "Challenge name"
// @Param description formData string false "Description"
// @Param value formData string false "Points"
// @Param category formData string false "Category"
// @Param max_attempts formData string false "Attempt limit"
// @Param nonce formData string true "Session nonce"
// @Success 302 "Redirect to /challenges"
// @Failure 400 {object} dto.ErrorResponse "Invalid form"
// @Failure 403 {object} dto.ErrorResponse "Not a community challenge or not the owner"
// @Failure 404 {object} dto.ErrorResponse "Challenge not found"
// @Router /community/update [post]
func (ctrl *CommunityController) UpdateChallenge(c *gin.Context) {
	var form dto.UpdateChallengeForm
	if err := c.ShouldBind(&form); err != nil {
		controller.RespondBindError(c, err)
		return
	}
	if err := ctrl.challengeSvc.Update(middleware.SessionFrom(c), form); err != nil {
		controller.RespondError(c, err, "Failed to update challenge")
		return
	}
	c.Redirect(http.StatusFound, ChallengesPath)
}

// ListChallenges godoc
// @Summary List visible challenges
// @Description Challenge list with owner, own flag and the session nonce on owned challenges. Hint bodies only for unlocked hints or after the CTF ended.
// @Tags Community
// @Produce json
// @Success 200 {object} dto.ChallengeListResponse
// @Failure 403 {object} dto.ErrorResponse "Challenges not visible"
// @Router /chals [get]
func (ctrl *CommunityController) ListChallenges(c *gin.Context) {
	resp, err := ctrl.listSvc.List(middleware.SessionFrom(c))
	if err != nil {
		controller.RespondError(c, err, "Failed to list challenges")
		return
	}
	c.JSON(http.StatusOK, resp)
}
