package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/rajeshmondalofficial/rentmate-backend/internal/models"
	"github.com/rajeshmondalofficial/rentmate-backend/internal/repository"
	"github.com/rajeshmondalofficial/rentmate-backend/internal/uploads"
	"github.com/rajeshmondalofficial/rentmate-backend/internal/utils"
)

// AmenityHandler is a thin store pass-through plus the icon upload.
type AmenityHandler struct {
	repo    repository.AmenityRepository
	uploads *uploads.Store
	logger  *zap.SugaredLogger
}

func NewAmenityHandler(repo repository.AmenityRepository, uploads *uploads.Store, logger *zap.SugaredLogger) *AmenityHandler {
	return &AmenityHandler{repo: repo, uploads: uploads, logger: logger}
}

type amenityInput struct {
	Title    string `json:"title" form:"title" validate:"required"`
	IsActive *bool  `json:"isActive" form:"isActive"`
}

func (h *AmenityHandler) Create(c *fiber.Ctx) error {
	var in amenityInput
	if err := c.BodyParser(&in); err != nil {
		return utils.JSONError(c, fiber.StatusBadRequest, "invalid body")
	}
	if issues := utils.Validate(in); issues != nil {
		return utils.JSONIssues(c, issues)
	}

	fh, err := c.FormFile("icon")
	if err != nil || fh == nil {
		return utils.JSONError(c, fiber.StatusBadRequest, "Amenities icon is required")
	}
	icon, err := h.uploads.Save(fh)
	if err != nil {
		h.logger.Errorw("amenity icon save failed", "err", err)
		return utils.JSONError(c, fiber.StatusInternalServerError, "failed to store icon")
	}

	a := &models.Amenity{Title: in.Title, Icon: icon, IsActive: true}
	if in.IsActive != nil {
		a.IsActive = *in.IsActive
	}
	if err := h.repo.Create(c.Context(), a); err != nil {
		h.logger.Errorw("amenity create failed", "err", err)
		return utils.JSONError(c, fiber.StatusInternalServerError, "failed to create amenity")
	}
	return utils.JSONSuccess(c, fiber.StatusOK, "Amenity created successfully", a)
}

// Get fetches one amenity by id, or lists all active ones when no id is given.
func (h *AmenityHandler) Get(c *fiber.Ctx) error {
	if raw := c.Params("id"); raw != "" {
		id, err := repository.ParseID(raw)
		if err != nil {
			return utils.JSONError(c, fiber.StatusBadRequest, "invalid id")
		}
		a, err := h.repo.FindByID(c.Context(), id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return utils.JSONError(c, fiber.StatusNotFound, "amenity not found")
			}
			h.logger.Errorw("amenity fetch failed", "id", raw, "err", err)
			return utils.JSONError(c, fiber.StatusInternalServerError, "failed to fetch amenity")
		}
		return utils.JSONSuccess(c, fiber.StatusOK, "Amenity fetched successfully", a)
	}

	list, err := h.repo.ListActive(c.Context())
	if err != nil {
		h.logger.Errorw("amenity list failed", "err", err)
		return utils.JSONError(c, fiber.StatusInternalServerError, "failed to fetch amenities")
	}
	return utils.JSONSuccess(c, fiber.StatusOK, "All Amenities Fetched", list)
}

func (h *AmenityHandler) Update(c *fiber.Ctx) error {
	id, err := repository.ParseID(c.Params("id"))
	if err != nil {
		return utils.JSONError(c, fiber.StatusBadRequest, "invalid id")
	}
	var in amenityInput
	if err := c.BodyParser(&in); err != nil {
		return utils.JSONError(c, fiber.StatusBadRequest, "invalid body")
	}

	set := bson.M{}
	if in.Title != "" {
		set["title"] = in.Title
	}
	if in.IsActive != nil {
		set["isActive"] = *in.IsActive
	}
	if len(set) == 0 {
		return utils.JSONError(c, fiber.StatusBadRequest, "nothing to update")
	}
	if err := h.repo.Update(c.Context(), id, set); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return utils.JSONError(c, fiber.StatusNotFound, "amenity not found")
		}
		h.logger.Errorw("amenity update failed", "id", id.Hex(), "err", err)
		return utils.JSONError(c, fiber.StatusInternalServerError, "failed to update amenity")
	}
	return utils.JSONSuccess(c, fiber.StatusOK, "Amenity updated successfully", nil)
}

func (h *AmenityHandler) Delete(c *fiber.Ctx) error {
	id, err := repository.ParseID(c.Params("id"))
	if err != nil {
		return utils.JSONError(c, fiber.StatusBadRequest, "invalid id")
	}
	if err := h.repo.Delete(c.Context(), id); err != nil {
		h.logger.Errorw("amenity delete failed", "id", id.Hex(), "err", err)
		return utils.JSONError(c, fiber.StatusInternalServerError, "failed to delete amenity")
	}
	return utils.JSONSuccess(c, fiber.StatusOK, "Amenity deleted successfully", nil)
}
