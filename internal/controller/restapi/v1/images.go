package v1

import (
	"errors"
	"net/http"
	"time"

	"github.com/andreyxaxa/Photo-Importer/internal/controller/restapi/v1/response"
	"github.com/andreyxaxa/Photo-Importer/internal/entity"
	"github.com/andreyxaxa/Photo-Importer/pkg/types/errs"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type deleteImagesRequest struct {
	ImageIDs []string `json:"image_ids"`
}

// @Summary 	List imported images
// @Description All processed images belonging to the caller, newest first
// @Tags 		images
// @Produce 	json
// @Success 	200 {object} response.ImageList
// @Failure 	401 {object} response.Error "Missing identity"
// @Failure 	500 {object} response.Error "Internal"
// @Router 		/v1/images [get]
func (r *V1) listImages(ctx *fiber.Ctx) error {
	images, err := r.gallery.ListImages(ctx.UserContext(), callerID(ctx))
	if err != nil {
		r.logger.Error(err, "restapi - v1 - listImages")

		return errorResponse(ctx, http.StatusInternalServerError, "storage problems")
	}

	list := response.ImageList{Images: make([]response.Image, 0, len(images))}
	for _, image := range images {
		list.Images = append(list.Images, toImageResponse(image))
	}

	return ctx.Status(http.StatusOK).JSON(list)
}

// @Summary 	Delete imported images
// @Description Removes the rows immediately; storage objects are cleaned up by batched background jobs
// @Tags 		images
// @Accept 		json
// @Produce 	json
// @Param 		request body deleteImagesRequest true "Image IDs"
// @Success 	200 {object} response.DeleteImages
// @Failure 	400 {object} response.Error "No valid ids"
// @Failure 	401 {object} response.Error "Missing identity"
// @Failure 	404 {object} response.Error "Nothing deleted"
// @Failure 	500 {object} response.Error "Internal"
// @Router 		/v1/images [delete]
func (r *V1) deleteImages(ctx *fiber.Ctx) error {
	var req deleteImagesRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "invalid request body")
	}

	ids := make([]uuid.UUID, 0, len(req.ImageIDs))
	for _, raw := range req.ImageIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return errorResponse(ctx, http.StatusBadRequest, "invalid image id: "+raw)
		}
		ids = append(ids, id)
	}

	deleted, err := r.gallery.DeleteImages(ctx.UserContext(), callerID(ctx), ids)
	if err != nil {
		if errors.Is(err, errs.ErrValidation) {
			return errorResponse(ctx, http.StatusBadRequest, "image_ids is required")
		}
		if errors.Is(err, errs.ErrRecordNotFound) {
			return errorResponse(ctx, http.StatusNotFound, "images not found")
		}
		r.logger.Error(err, "restapi - v1 - deleteImages")

		return errorResponse(ctx, http.StatusInternalServerError, "storage problems")
	}

	return ctx.Status(http.StatusOK).JSON(response.DeleteImages{Deleted: deleted})
}

func toImageResponse(image *entity.ProcessedImage) response.Image {
	resp := response.Image{
		ID:           image.ID.String(),
		AlbumID:      image.AlbumID,
		SessionID:    image.SessionID,
		Width:        image.Width,
		Height:       image.Height,
		ImageURL:     image.ImageURL,
		ThumbnailURL: image.ThumbnailURL,
		CreatedAt:    image.CreatedAt.Format(time.RFC3339),
	}
	if image.CapturedAt != nil {
		resp.CapturedAt = image.CapturedAt.Format(time.RFC3339)
	}

	return resp
}
