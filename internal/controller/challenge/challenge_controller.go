package challenge

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/cctfd/internal/controller"
	"github.com/lshigami/cctfd/internal/dto"
	"github.com/lshigami/cctfd/internal/extension"
	"github.com/lshigami/cctfd/internal/middleware"
	"github.com/lshigami/cctfd/internal/service"
)

// ChallengeController serves the host's challenge routes. Each one
// dispatches to the challenge's registered type.
type ChallengeController struct {
	challengeSvc service.ChallengeService
	host         *extension.Host
}

func NewChallengeController(challengeSvc service.ChallengeService, host *extension.Host) *ChallengeController {
	return &ChallengeController{challengeSvc: challengeSvc, host: host}
}

// RegisterRoutes mounts the host's challenge routes. GET /chals goes through
// the host's challenge list slot.
func (ctrl *ChallengeController) RegisterRoutes(r gin.IRouter) {
	r.GET("/challenges", ctrl.ChallengesPage)
	r.GET("/chals", ctrl.host.ServeChallengeList)
	r.GET("/chals/:id", ctrl.GetChallenge)
	r.POST("/chal/:id", middleware.RequireNonce(), ctrl.SubmitKey)

	admin := r.Group("/admin", middleware.RequireAdmin())
	admin.POST("/chal/delete", middleware.RequireNonce(), ctrl.DeleteChallenge)
}

// ChallengesPage godoc
// @Summary Challenge board page
// @Tags Challenges
// @Produce html
// @Success 200 {string} string "HTML page"
// @Router /challenges [get]
func (ctrl *ChallengeController) ChallengesPage(c *gin.Context) {
	sc := middleware.SessionFrom(c)
	ctrl.host.Render(c, http.StatusOK, extension.SlotChallenges, gin.H{
		"Nonce":  sc.Nonce,
		"Admin":  sc.Admin,
		"Authed": sc.Authed(),
	})
}

// GetChallenge godoc
// @Summary Read a challenge
// @Tags Challenges
// @Produce json
// @Param id path int true "Challenge ID"
// @Success 200 {object} dto.ChallengeView
// @Failure 400 {object} dto.ErrorResponse "Invalid ID format"
// @Failure 403 {object} dto.ErrorResponse "Challenges not visible"
// @Failure 404 {object} dto.ErrorResponse "Challenge not found"
// @Router /chals/{id} [get]
func (ctrl *ChallengeController) GetChallenge(c *gin.Context) {
	id, ok := controller.ParseID(c, "id")
	if !ok {
		return
	}
	view, err := ctrl.challengeSvc.Get(middleware.SessionFrom(c), id)
	if err != nil {
		controller.RespondError(c, err, "Failed to read challenge")
		return
	}
	c.JSON(http.StatusOK, view)
}

// SubmitKey godoc
// @Summary Submit a flag
// @Description status 1 correct, 0 wrong, 2 already solved, -1 not logged in, 3 too many wrong keys in the last minute.
// @Tags Challenges
// @Accept x-www-form-urlencoded
// @Produce json
// @Param id path int true "Challenge ID"
// @Param key formData string true "Flag"
// @Param nonce formData string true "Session nonce"
// @Success 200 {object} dto.AttemptResponse
// @Failure 403 {object} dto.ErrorResponse "Competition not running or team banned"
// @Failure 404 {object} dto.ErrorResponse "Challenge not found"
// @Failure 429 {object} dto.AttemptResponse "Submitting too fast"
// @Router /chal/{id} [post]
func (ctrl *ChallengeController) SubmitKey(c *gin.Context) {
	id, ok := controller.ParseID(c, "id")
	if !ok {
		return
	}
	var form dto.SubmitKeyForm
	if err := c.ShouldBind(&form); err != nil {
		controller.RespondBindError(c, err)
		return
	}
	resp, err := ctrl.challengeSvc.Submit(middleware.SessionFrom(c), id, form.Key)
	if err != nil {
		controller.RespondError(c, err, "Failed to submit key")
		return
	}
	if resp.Status == service.StatusTooFast {
		c.JSON(http.StatusTooManyRequests, resp)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DeleteChallenge godoc
// @Summary (Admin) Delete a challenge
// @Description Removes the challenge and everything attached to it.
// @Tags Admin - Challenges
// @Accept x-www-form-urlencoded
// @Param id formData integer true "Challenge ID"
// @Param nonce formData string true "Session nonce"
// @Success 204 "No Content"
// @Failure 403 {object} dto.ErrorResponse "Admin only"
// @Failure 404 {object} dto.ErrorResponse "Challenge not found"
// @Router /admin/chal/delete [post]
func (ctrl *ChallengeController) DeleteChallenge(c *gin.Context) {
	var form dto.DeleteChallengeForm
	if err := c.ShouldBind(&form); err != nil {
		controller.RespondBindError(c, err)
		return
	}
	if err := ctrl.challengeSvc.Delete(middleware.SessionFrom(c), form.ID); err != nil {
		controller.RespondError(c, err, "Failed to delete challenge")
		return
	}
	c.Status(http.StatusNoContent)
}
