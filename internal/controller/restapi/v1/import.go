package v1

import (
	"errors"
	"net/http"

	"github.com/andreyxaxa/Photo-Importer/internal/controller/restapi/v1/response"
	"github.com/andreyxaxa/Photo-Importer/pkg/types/errs"
	"github.com/gofiber/fiber/v2"
)

type processSessionRequest struct {
	SessionID string  `json:"session_id"`
	AlbumID   *string `json:"album_id"`
}

// @Summary  	Create a picker session
// @Description Opens a provider picker session; send the user to picker_uri, then start the import
// @Tags 		import
// @Produce 	json
// @Success 	201 {object} response.Session
// @Failure 	401 {object} response.Error "Missing identity or provider token"
// @Failure 	502 {object} response.Error "Provider rejected the request"
// @Failure 	500 {object} response.Error "Internal"
// @Router 		/v1/sessions [post]
func (r *V1) createSession(ctx *fiber.Ctx) error {
	token := providerToken(ctx)
	if token == "" {
		return errorResponse(ctx, http.StatusUnauthorized, "provider access token is required")
	}

	session, err := r.gallery.CreateSession(ctx.UserContext(), token)
	if err != nil {
		if errors.Is(err, errs.ErrProvider) {
			return errorResponse(ctx, http.StatusBadGateway, "provider problems")
		}
		r.logger.Error(err, "restapi - v1 - createSession")

		return errorResponse(ctx, http.StatusInternalServerError, "session problems")
	}

	return ctx.Status(http.StatusCreated).JSON(response.Session{
		SessionID:     session.ID,
		PickerURI:     session.PickerURI,
		MediaItemsSet: session.MediaItemsSet,
	})
}

// @Summary  	Start importing a picker session
// @Description Enqueues the session-level job that kicks off enumeration of the selected items
// @Tags 		import
// @Accept 		json
// @Produce 	json
// @Param 		request body processSessionRequest true "Picker session"
// @Success 	202 {object} response.ProcessSession
// @Failure 	400 {object} response.Error "Missing session id"
// @Failure 	401 {object} response.Error "Missing identity or provider token"
// @Failure 	500 {object} response.Error "Internal"
// @Router 		/v1/process-session [post]
func (r *V1) processSession(ctx *fiber.Ctx) error {
	var req processSessionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "invalid request body")
	}

	if req.SessionID == "" {
		return errorResponse(ctx, http.StatusBadRequest, "session_id is required")
	}

	token := providerToken(ctx)
	if token == "" {
		return errorResponse(ctx, http.StatusUnauthorized, "provider access token is required")
	}

	job, err := r.gallery.StartImport(ctx.UserContext(), callerID(ctx), req.SessionID, token, req.AlbumID)
	if err != nil {
		if errors.Is(err, errs.ErrValidation) {
			return errorResponse(ctx, http.StatusBadRequest, "invalid import request")
		}
		r.logger.Error(err, "restapi - v1 - processSession")

		return errorResponse(ctx, http.StatusInternalServerError, "import problems")
	}

	return ctx.Status(http.StatusAccepted).JSON(response.ProcessSession{
		JobID:     job.ID.String(),
		SessionID: job.SessionID,
		Status:    string(job.Status),
	})
}

// @Summary 	Session import progress
// @Description Snapshot of the session's job counts and phase; poll until phase is "complete"
// @Tags 		import
// @Produce 	json
// @Param 		sessionId path string true "Picker session ID"
// @Success 	200 {object} dto.SessionProgress
// @Failure 	400 {object} response.Error "Missing session id"
// @Failure 	401 {object} response.Error "Missing identity"
// @Failure 	500 {object} response.Error "Internal"
// @Router 		/v1/session-status/{sessionId} [get]
func (r *V1) sessionStatus(ctx *fiber.Ctx) error {
	sessionID := ctx.Params("sessionId")
	if sessionID == "" {
		return errorResponse(ctx, http.StatusBadRequest, "session id is required")
	}

	progress, err := r.progress.SessionProgress(ctx.UserContext(), callerID(ctx), sessionID)
	if err != nil {
		r.logger.Error(err, "restapi - v1 - sessionStatus")

		return errorResponse(ctx, http.StatusInternalServerError, "status problems")
	}

	return ctx.Status(http.StatusOK).JSON(progress)
}
