package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/rajeshmondalofficial/rentmate-backend/internal/models"
	"github.com/rajeshmondalofficial/rentmate-backend/internal/repository"
	"github.com/rajeshmondalofficial/rentmate-backend/internal/utils"
)

// CategoryHandler is a thin store pass-through; writes are admin-gated in the
// route wiring.
type CategoryHandler struct {
	repo   repository.CategoryRepository
	logger *zap.SugaredLogger
}

func NewCategoryHandler(repo repository.CategoryRepository, logger *zap.SugaredLogger) *CategoryHandler {
	return &CategoryHandler{repo: repo, logger: logger}
}

type categoryInput struct {
	Category string `json:"category" validate:"required"`
	IsActive *bool  `json:"isActive"`
}

func (h *CategoryHandler) Create(c *fiber.Ctx) error {
	var in categoryInput
	if err := c.BodyParser(&in); err != nil {
		return utils.JSONError(c, fiber.StatusBadRequest, "invalid body")
	}
	if issues := utils.Validate(in); issues != nil {
		return utils.JSONIssues(c, issues)
	}
	cat := &models.Category{Category: in.Category, IsActive: true}
	if in.IsActive != nil {
		cat.IsActive = *in.IsActive
	}
	if err := h.repo.Create(c.Context(), cat); err != nil {
		h.logger.Errorw("category create failed", "err", err)
		return utils.JSONError(c, fiber.StatusInternalServerError, "failed to create category")
	}
	return utils.JSONSuccess(c, fiber.StatusOK, "Category created successfully", cat)
}

// Get fetches one category by id, or lists all active ones when no id is given.
func (h *CategoryHandler) Get(c *fiber.Ctx) error {
	if raw := c.Params("id"); raw != "" {
		id, err := repository.ParseID(raw)
		if err != nil {
			return utils.JSONError(c, fiber.StatusBadRequest, "invalid id")
		}
		cat, err := h.repo.FindByID(c.Context(), id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return utils.JSONError(c, fiber.StatusNotFound, "category not found")
			}
			h.logger.Errorw("category fetch failed", "id", raw, "err", err)
			return utils.JSONError(c, fiber.StatusInternalServerError, "failed to fetch category")
		}
		return utils.JSONSuccess(c, fiber.StatusOK, "Category fetched successfully", cat)
	}

	list, err := h.repo.ListActive(c.Context())
	if err != nil {
		h.logger.Errorw("category list failed", "err", err)
		return utils.JSONError(c, fiber.StatusInternalServerError, "failed to fetch categories")
	}
	return utils.JSONSuccess(c, fiber.StatusOK, "All Category Fetched", list)
}

func (h *CategoryHandler) Update(c *fiber.Ctx) error {
	id, err := repository.ParseID(c.Params("id"))
	if err != nil {
		return utils.JSONError(c, fiber.StatusBadRequest, "invalid id")
	}
	var in categoryInput
	if err := c.BodyParser(&in); err != nil {
		return utils.JSONError(c, fiber.StatusBadRequest, "invalid body")
	}
	if issues := utils.Validate(in); issues != nil {
		return utils.JSONIssues(c, issues)
	}

	set := bson.M{"category": in.Category}
	if in.IsActive != nil {
		set["isActive"] = *in.IsActive
	}
	if err := h.repo.Update(c.Context(), id, set); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return utils.JSONError(c, fiber.StatusNotFound, "category not found")
		}
		h.logger.Errorw("category update failed", "id", id.Hex(), "err", err)
		return utils.JSONError(c, fiber.StatusInternalServerError, "failed to update category")
	}
	return utils.JSONSuccess(c, fiber.StatusOK, "Category updated successfully", nil)
}

func (h *CategoryHandler) Delete(c *fiber.Ctx) error {
	id, err := repository.ParseID(c.Params("id"))
	if err != nil {
		return utils.JSONError(c, fiber.StatusBadRequest, "invalid id")
	}
	if err := h.repo.Delete(c.Context(), id); err != nil {
		h.logger.Errorw("category delete failed", "id", id.Hex(), "err", err)
		return utils.JSONError(c, fiber.StatusInternalServerError, "failed to delete category")
	}
	return utils.JSONSuccess(c, fiber.StatusOK, "Category deleted successfully", nil)
}
