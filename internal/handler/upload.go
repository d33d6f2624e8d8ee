package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/wildoasis/booking-api/internal/repository"
)

// maxUploadBytes caps cabin photo uploads at 10 MiB.
const maxUploadBytes = 10 << 20

// UploadImage accepts a multipart "image" file, uploads it to the media
// host under a random public ID and stores the resulting URL on the cabin.
// The previous image, if any, is deleted best effort after the swap.
func (h *CabinHandler) UploadImage(c echo.Context) error {
	if h.Media == nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "media uploads are not configured"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid cabin id"})
	}

	fh, err := c.FormFile("image")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "image file required"})
	}
	if fh.Size > maxUploadBytes {
		return c.JSON(http.StatusRequestEntityTooLarge, echo.Map{"error": "image exceeds 10 MiB"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
	defer cancel()

	cab, err := h.Cabins.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCabinNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "cabin not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load cabin failed"})
	}

	src, err := fh.Open()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "open upload failed"})
	}
	defer src.Close()

	publicID := fmt.Sprintf("cabin-%d-%s", id, uuid.NewString())
	url, err := h.Media.Upload(ctx, src, publicID)
	if err != nil {
		c.Logger().Errorf("cabin %d: image upload failed: %v", id, err)
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "image upload failed"})
	}

	updated, err := h.Cabins.UpdateFields(ctx, id, repository.CabinPatch{ImageURL: &url})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "store image url failed"})
	}

	if cab.ImageURL != "" && cab.ImageURL != url {
		if err := h.Media.Delete(ctx, cab.ImageURL); err != nil {
			c.Logger().Warnf("cabin %d: old image delete failed: %v", id, err)
		}
	}
	return c.JSON(http.StatusOK, toCabinResp(updated))
}
