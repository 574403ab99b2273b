package handlers

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/rajeshmondalofficial/rentmate-backend/internal/middleware"
	"github.com/rajeshmondalofficial/rentmate-backend/internal/models"
	"github.com/rajeshmondalofficial/rentmate-backend/internal/repository"
	"github.com/rajeshmondalofficial/rentmate-backend/internal/utils"
)

// PropertyHandler owns the listing CRUD and the admin approval workflow.
// All routes run behind the authorization gate.
type PropertyHandler struct {
	repo   repository.PropertyRepository
	logger *zap.SugaredLogger
}

func NewPropertyHandler(repo repository.PropertyRepository, logger *zap.SugaredLogger) *PropertyHandler {
	return &PropertyHandler{repo: repo, logger: logger}
}

type propertyInput struct {
	Title         string    `json:"title" validate:"required"`
	Category      string    `json:"category" validate:"required"`
	Price         float64   `json:"price" validate:"required"`
	PriceUnit     string    `json:"priceUnit" validate:"omitempty,oneof='per night' day week month"`
	Bedrooms      int       `json:"bedrooms" validate:"required"`
	Bathrooms     int       `json:"bathrooms" validate:"required"`
	Sqft          int       `json:"sqft" validate:"required"`
	Description   string    `json:"description" validate:"required"`
	Location      []float64 `json:"location" validate:"required,min=2,max=2"`
	StreetAddress string    `json:"street_address" validate:"required"`
	City          string    `json:"city" validate:"required"`
	State         string    `json:"state" validate:"required"`
	Country       string    `json:"country" validate:"required"`
	Zipcode       string    `json:"zipcode" validate:"required"`
	Amenities     []string  `json:"amenities" validate:"required"`
	Status        string    `json:"status" validate:"omitempty,oneof=pending approved modification rejected"`
}

func (h *PropertyHandler) Create(c *fiber.Ctx) error {
	claims := middleware.Claims(c)
	var in propertyInput
	if err := c.BodyParser(&in); err != nil {
		return utils.JSONError(c, fiber.StatusBadRequest, "invalid body")
	}
	if issues := utils.Validate(in); issues != nil {
		return utils.JSONIssues(c, issues)
	}

	categoryID, err := repository.ParseID(in.Category)
	if err != nil {
		return utils.JSONError(c, fiber.StatusBadRequest, "invalid category id")
	}
	ownerID, err := repository.ParseID(claims.UserID)
	if err != nil {
		return utils.JSONError(c, fiber.StatusUnauthorized, "invalid caller identity")
	}
	amenityIDs := make([]primitive.ObjectID, 0, len(in.Amenities))
	for _, raw := range in.Amenities {
		oid, err := repository.ParseID(raw)
		if err != nil {
			return utils.JSONError(c, fiber.StatusBadRequest, "invalid amenity id")
		}
		amenityIDs = append(amenityIDs, oid)
	}

	p := &models.Property{
		Title:         in.Title,
		Category:      categoryID,
		User:          ownerID,
		Price:         in.Price,
		PriceUnit:     defaultString(in.PriceUnit, "month"),
		Bedrooms:      in.Bedrooms,
		Bathrooms:     in.Bathrooms,
		Sqft:          in.Sqft,
		Description:   in.Description,
		Location:      models.GeoPoint{Type: "Point", Coordinates: in.Location},
		StreetAddress: in.StreetAddress,
		City:          in.City,
		State:         in.State,
		Country:       in.Country,
		Zipcode:       in.Zipcode,
		Amenities:     amenityIDs,
		Status:        defaultString(in.Status, models.PropertyStatusPending),
	}
	if err := h.repo.Create(c.Context(), p); err != nil {
		h.logger.Errorw("property create failed", "err", err)
		return utils.JSONError(c, fiber.StatusInternalServerError, "failed to create property")
	}
	return utils.JSONSuccess(c, fiber.StatusOK, "Property created successfully", nil)
}

// Get returns one listing with joined relations, or the caller's listings when
// no id is given.
func (h *PropertyHandler) Get(c *fiber.Ctx) error {
	claims := middleware.Claims(c)
	ownerID, err := repository.ParseID(claims.UserID)
	if err != nil {
		return utils.JSONError(c, fiber.StatusUnauthorized, "invalid caller identity")
	}

	if raw := c.Params("id"); raw != "" {
		id, err := repository.ParseID(raw)
		if err != nil {
			return utils.JSONError(c, fiber.StatusBadRequest, "invalid id")
		}
		docs, err := h.repo.FindForUser(c.Context(), id, ownerID)
		if err != nil {
			h.logger.Errorw("property fetch failed", "id", raw, "err", err)
			return utils.JSONError(c, fiber.StatusInternalServerError, "failed to fetch property")
		}
		return utils.JSONSuccess(c, fiber.StatusOK, "Property fetched successfully", docs)
	}

	docs, err := h.repo.ListByOwner(c.Context(), ownerID)
	if err != nil {
		h.logger.Errorw("property list failed", "err", err)
		return utils.JSONError(c, fiber.StatusInternalServerError, "failed to fetch properties")
	}
	return utils.JSONSuccess(c, fiber.StatusOK, "Property fetched successfully", docs)
}

type updatePropertyInput struct {
	Title         *string  `json:"title"`
	Price         *float64 `json:"price"`
	PriceUnit     *string  `json:"priceUnit" validate:"omitempty,oneof='per night' day week month"`
	Bedrooms      *int     `json:"bedrooms"`
	Bathrooms     *int     `json:"bathrooms"`
	Sqft          *int     `json:"sqft"`
	Description   *string  `json:"description"`
	StreetAddress *string  `json:"street_address"`
	City          *string  `json:"city"`
	State         *string  `json:"state"`
	Country       *string  `json:"country"`
	Zipcode       *string  `json:"zipcode"`
	Status        *string  `json:"status" validate:"omitempty,oneof=pending approved modification rejected"`
}

func (h *PropertyHandler) Update(c *fiber.Ctx) error {
	id, err := repository.ParseID(c.Params("id"))
	if err != nil {
		return utils.JSONError(c, fiber.StatusBadRequest, "invalid id")
	}
	var in updatePropertyInput
	if err := c.BodyParser(&in); err != nil {
		return utils.JSONError(c, fiber.StatusBadRequest, "invalid body")
	}
	if issues := utils.Validate(in); issues != nil {
		return utils.JSONIssues(c, issues)
	}

	set := bson.M{}
	setIf(set, "title", in.Title)
	setIfFloat(set, "price", in.Price)
	setIf(set, "priceUnit", in.PriceUnit)
	setIfInt(set, "bedrooms", in.Bedrooms)
	setIfInt(set, "bathrooms", in.Bathrooms)
	setIfInt(set, "sqft", in.Sqft)
	setIf(set, "description", in.Description)
	setIf(set, "street_address", in.StreetAddress)
	setIf(set, "city", in.City)
	setIf(set, "state", in.State)
	setIf(set, "country", in.Country)
	setIf(set, "zipcode", in.Zipcode)
	setIf(set, "status", in.Status)

	if len(set) == 0 {
		return utils.JSONError(c, fiber.StatusBadRequest, "nothing to update")
	}
	if err := h.repo.Update(c.Context(), id, set); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return utils.JSONError(c, fiber.StatusNotFound, "property not found")
		}
		h.logger.Errorw("property update failed", "id", id.Hex(), "err", err)
		return utils.JSONError(c, fiber.StatusInternalServerError, "failed to update property")
	}
	return utils.JSONSuccess(c, fiber.StatusOK, "Property updated successfully", nil)
}

func (h *PropertyHandler) Delete(c *fiber.Ctx) error {
	id, err := repository.ParseID(c.Params("id"))
	if err != nil {
		return utils.JSONError(c, fiber.StatusBadRequest, "Invalid id")
	}
	if err := h.repo.Delete(c.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return utils.JSONError(c, fiber.StatusNotFound, "property not found")
		}
		h.logger.Errorw("property delete failed", "id", id.Hex(), "err", err)
		return utils.JSONError(c, fiber.StatusInternalServerError, "failed to delete property")
	}
	return utils.JSONSuccess(c, fiber.StatusOK, "Property deleted successfully", nil)
}

func (h *PropertyHandler) AddAmenity(c *fiber.Ctx) error {
	return h.toggleAmenity(c, h.repo.AddAmenity, "Amenities added to property successfully")
}

func (h *PropertyHandler) RemoveAmenity(c *fiber.Ctx) error {
	return h.toggleAmenity(c, h.repo.RemoveAmenity, "Amenities removed from property successfully")
}

// ListByStatus is the admin moderation view, including property notes.
func (h *PropertyHandler) ListByStatus(c *fiber.Ctx) error {
	status := c.Query("status", models.PropertyStatusPending)
	docs, err := h.repo.ListByStatus(c.Context(), status)
	if err != nil {
		h.logger.Errorw("property status list failed", "status", status, "err", err)
		return utils.JSONError(c, fiber.StatusInternalServerError, "failed to fetch properties")
	}
	return utils.JSONSuccess(c, fiber.StatusOK, "Properties fetched successfully", docs)
}

type approvePropertyReq struct {
	PropertyID string `json:"propertyId" validate:"required"`
	Status     string `json:"status" validate:"omitempty,oneof=pending approved modification rejected"`
	Note       string `json:"note"`
}

// Approve moves a listing through the moderation workflow and records the
// reviewer's note.
func (h *PropertyHandler) Approve(c *fiber.Ctx) error {
	var req approvePropertyReq
	if err := c.BodyParser(&req); err != nil {
		return utils.JSONError(c, fiber.StatusBadRequest, "invalid body")
	}
	if issues := utils.Validate(req); issues != nil {
		return utils.JSONIssues(c, issues)
	}
	id, err := repository.ParseID(req.PropertyID)
	if err != nil {
		return utils.JSONError(c, fiber.StatusBadRequest, "invalid property id")
	}
	status := defaultString(req.Status, models.PropertyStatusApproved)
	if err := h.repo.SetStatus(c.Context(), id, status); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return utils.JSONError(c, fiber.StatusNotFound, "property not found")
		}
		h.logger.Errorw("property approval failed", "id", id.Hex(), "err", err)
		return utils.JSONError(c, fiber.StatusInternalServerError, "failed to update property status")
	}
	if req.Note != "" {
		note := &models.PropertyNote{PropertyID: id, Note: req.Note}
		if err := h.repo.InsertNote(c.Context(), note); err != nil {
			h.logger.Warnw("property note insert failed", "id", id.Hex(), "err", err)
		}
	}
	return utils.JSONSuccess(c, fiber.StatusOK, "Property status updated successfully", nil)
}

func (h *PropertyHandler) toggleAmenity(c *fiber.Ctx, op func(ctx context.Context, id, amenityID primitive.ObjectID) error, message string) error {
	id, err := repository.ParseID(c.Params("id"))
	if err != nil {
		return utils.JSONError(c, fiber.StatusBadRequest, "invalid property id")
	}
	amenityID, err := repository.ParseID(c.Params("amenitiesId"))
	if err != nil {
		return utils.JSONError(c, fiber.StatusBadRequest, "invalid amenity id")
	}
	if err := op(c.Context(), id, amenityID); err != nil {
		h.logger.Errorw("property amenity toggle failed", "id", id.Hex(), "err", err)
		return utils.JSONError(c, fiber.StatusInternalServerError, "failed to update property amenities")
	}
	return utils.JSONSuccess(c, fiber.StatusOK, message, nil)
}

func defaultString(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

func setIf(set bson.M, key string, v *string) {
	if v != nil {
		set[key] = *v
	}
}

func setIfInt(set bson.M, key string, v *int) {
	if v != nil {
		set[key] = *v
	}
}

func setIfFloat(set bson.M, key string, v *float64) {
	if v != nil {
		set[key] = *v
	}
}
