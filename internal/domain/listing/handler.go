package listing

import (
	"errors"
	"net/http"
	"strconv"

	"renthome/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	repo Repository
}

func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}

type createListingRequest struct {
	Title       string  `json:"title" binding:"required"`
	Description string  `json:"description"`
	Address     string  `json:"address" binding:"required"`
	City        string  `json:"city" binding:"required"`
	Rooms       int     `json:"rooms" binding:"required,min=1"`
	Price       float64 `json:"price" binding:"required,gt=0"`
}

type updateListingRequest struct {
	Title       string   `json:"title,omitempty"`
	Description string   `json:"description,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	IsActive    *bool    `json:"is_active,omitempty"`
}

// Browse godoc
// @Summary List active listings
// @Tags Listings
// @Produce json
// @Param city query string false "Filter by city"
// @Success 200 {object} map[string]interface{}
// @Router /listings [get]
func (h *Handler) Browse(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	listings, err := h.repo.ListActive(c.Request.Context(), c.Query("city"), limit, offset)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "LIST_FAILED", "Failed to list listings")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"listings": listings})
}

// Get godoc
// @Summary Get one listing
// @Tags Listings
// @Produce json
// @Param id path int true "Listing ID"
// @Success 200 {object} map[string]interface{}
// @Router /listings/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid listing ID")
		return
	}

	l, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrListingNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", err.Error())
			return
		}
		response.Error(c, http.StatusInternalServerError, "GET_FAILED", "Failed to load listing")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"listing": l})
}

// Create godoc
// @Summary Create a listing (owner only)
// @Tags Listings
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body createListingRequest true "Listing details"
// @Success 201 {object} map[string]interface{}
// @Router /listings [post]
func (h *Handler) Create(c *gin.Context) {
	ownerID := c.GetInt64("user_id")

	var req createListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	l := &Listing{
		OwnerID:     ownerID,
		Title:       req.Title,
		Description: req.Description,
		Address:     req.Address,
		City:        req.City,
		Rooms:       req.Rooms,
		Price:       req.Price,
		IsActive:    true,
	}
	if err := h.repo.Create(c.Request.Context(), l); err != nil {
		response.Error(c, http.StatusInternalServerError, "CREATE_FAILED", "Failed to create listing")
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"listing": l})
}

// Mine godoc
// @Summary List my listings (owner only)
// @Tags Listings
// @Security BearerAuth
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /listings/mine [get]
func (h *Handler) Mine(c *gin.Context) {
	ownerID := c.GetInt64("user_id")

	listings, err := h.repo.ListByOwner(c.Request.Context(), ownerID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "LIST_FAILED", "Failed to list listings")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"listings": listings})
}

// Update godoc
// @Summary Update my listing (owner only)
// @Tags Listings
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Listing ID"
// @Param body body updateListingRequest true "Fields to update"
// @Success 200 {object} map[string]interface{}
// @Router /listings/{id} [patch]
func (h *Handler) Update(c *gin.Context) {
	ownerID := c.GetInt64("user_id")

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid listing ID")
		return
	}

	l, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrListingNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", err.Error())
			return
		}
		response.Error(c, http.StatusInternalServerError, "GET_FAILED", "Failed to load listing")
		return
	}
	if l.OwnerID != ownerID {
		response.Error(c, http.StatusForbidden, "FORBIDDEN", ErrNotListingOwner.Error())
		return
	}

	var req updateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	if req.Title != "" {
		l.Title = req.Title
	}
	if req.Description != "" {
		l.Description = req.Description
	}
	if req.Price != nil {
		l.Price = *req.Price
	}
	if req.IsActive != nil {
		l.IsActive = *req.IsActive
	}

	if err := h.repo.Update(c.Request.Context(), l); err != nil {
		response.Error(c, http.StatusInternalServerError, "UPDATE_FAILED", "Failed to update listing")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"listing": l})
}
