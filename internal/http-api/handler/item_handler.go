package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"foundhub/internal/http-api/dto"
	"foundhub/internal/http-api/models"
	"foundhub/internal/http-api/repository"
	"foundhub/internal/http-api/service"
)

type ItemHandler struct {
	svc    service.ItemService
	photos *service.PhotoStorage
}

func NewItemHandler(svc service.ItemService, photos *service.PhotoStorage) *ItemHandler {
	return &ItemHandler{svc: svc, photos: photos}
}

func (h *ItemHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/", h.List)
	rg.GET("/:item_id", h.Get)
	rg.POST("/", h.Create)
	rg.PUT("/:item_id", h.Update)
	rg.DELETE("/:item_id", h.Delete)
}

func (h *ItemHandler) List(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	f := repository.ItemFilter{
		Query: c.Query("q"),
		Page:  1, PageSize: 20,
	}

	switch c.Query("type") {
	case "lost":
		f.Type = models.ItemTypeLost
	case "found":
		f.Type = models.ItemTypeFound
	}
	if cid := c.Query("category_id"); cid != "" {
		if parsed, err := strconv.ParseInt(cid, 10, 64); err == nil {
			f.CategoryID = parsed
		}
	}
	if claimed := c.Query("claimed"); claimed != "" {
		if parsed, err := strconv.ParseBool(claimed); err == nil {
			f.Claimed = &parsed
		}
	}
	if p := c.Query("page"); p != "" {
		if parsed, err := strconv.Atoi(p); err == nil && parsed > 0 {
			f.Page = parsed
		}
	}
	if ps := c.Query("page_size"); ps != "" {
		if parsed, err := strconv.Atoi(ps); err == nil && parsed > 0 && parsed <= 100 {
			f.PageSize = parsed
		}
	}

	list, total, err := h.svc.List(ctx, f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := make([]dto.ItemResponse, 0, len(list))
	for _, item := range list {
		resp = append(resp, dto.FromItemModel(item))
	}

	c.JSON(http.StatusOK, gin.H{
		"data": resp,
		"pagination": gin.H{
			"page":        f.Page,
			"page_size":   f.PageSize,
			"total":       total,
			"total_pages": (total + int64(f.PageSize) - 1) / int64(f.PageSize),
		},
	})
}

func (h *ItemHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("item_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	item, err := h.svc.GetByID(ctx, id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "item not found"})
		return
	}
	c.JSON(http.StatusOK, dto.FromItemModel(*item))
}

func (h *ItemHandler) Create(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var form dto.CreateItemForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	dateReported, err := time.Parse("2006-01-02", form.DateReported)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date_reported must be YYYY-MM-DD"})
		return
	}

	item := &models.Item{
		PostedByID:           userID.(string),
		Title:                form.Title,
		Description:          form.Description,
		Type:                 models.ItemType(form.Type),
		CategoryID:           form.CategoryID,
		Brand:                form.Brand,
		Color:                form.Color,
		Location:             form.Location,
		DateReported:         dateReported,
		VerificationQuestion: form.VerificationQuestion,
		VerificationAnswer:   form.VerificationAnswer,
	}

	// Optional photo upload
	if file, err := c.FormFile("photo"); err == nil {
		src, err := file.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "could not read photo"})
			return
		}
		defer src.Close()

		name, err := h.photos.Save(src, file.Filename)
		if err != nil {
			if errors.Is(err, service.ErrPhotoTooLarge) {
				c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "photo too large"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		item.PhotoPath = name
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.svc.Create(ctx, item); err != nil {
		h.photos.Remove(item.PhotoPath)
		if errors.Is(err, service.ErrCategoryNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "category not found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, dto.FromItemModel(*item))
}

func (h *ItemHandler) Update(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	id, err := strconv.ParseInt(c.Param("item_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var form dto.UpdateItemForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var newPhoto string
	if file, err := c.FormFile("photo"); err == nil {
		src, err := file.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "could not read photo"})
			return
		}
		defer src.Close()

		newPhoto, err = h.photos.Save(src, file.Filename)
		if err != nil {
			if errors.Is(err, service.ErrPhotoTooLarge) {
				c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "photo too large"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	item, err := h.svc.Update(ctx, userID.(string), id, func(item *models.Item) {
		if form.Title != nil {
			item.Title = *form.Title
		}
		if form.Description != nil {
			item.Description = *form.Description
		}
		if form.CategoryID != nil {
			item.CategoryID = *form.CategoryID
		}
		if form.Brand != nil {
			item.Brand = *form.Brand
		}
		if form.Color != nil {
			item.Color = *form.Color
		}
		if form.Location != nil {
			item.Location = *form.Location
		}
		if form.DateReported != nil {
			if parsed, err := time.Parse("2006-01-02", *form.DateReported); err == nil {
				item.DateReported = parsed
			}
		}
		if newPhoto != "" {
			item.PhotoPath = newPhoto
		}
	})
	if err != nil {
		h.photos.Remove(newPhoto)
		switch {
		case errors.Is(err, service.ErrItemNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "item not found"})
		case errors.Is(err, service.ErrNotItemPoster):
			c.JSON(http.StatusForbidden, gin.H{"error": "only the poster may edit this item"})
		case errors.Is(err, service.ErrCategoryNotFound):
			c.JSON(http.StatusBadRequest, gin.H{"error": "category not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, dto.FromItemModel(*item))
}

func (h *ItemHandler) Delete(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
	role, _ := c.Get("role")

	id, err := strconv.ParseInt(c.Param("item_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.svc.Delete(ctx, userID.(string), role.(string), id); err != nil {
		switch {
		case errors.Is(err, service.ErrItemNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "item not found"})
		case errors.Is(err, service.ErrNotItemPoster):
			c.JSON(http.StatusForbidden, gin.H{"error": "only the poster may delete this item"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.Status(http.StatusNoContent)
}
