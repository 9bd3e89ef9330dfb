package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bistro_back_end/internal/services"
	"bistro_back_end/internal/validation"
)

const maxImageSize = 5 << 20

// UploadMenuImage : POST /menu/images, champ multipart "image".
func (h *Handler) UploadMenuImage(c *gin.Context) {
	if h.Images == nil {
		h.fail(c, services.ErrNotConfigured)
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxImageSize+(1<<20))
	file, err := c.FormFile("image")
	if err != nil {
		h.fail(c, validation.Field("image", "required"))
		return
	}
	if file.Size > maxImageSize {
		h.fail(c, validation.Field("image", "max=5MB"))
		return
	}
	contentType := file.Header.Get("Content-Type")
	if _, ok := services.ImageExtension(contentType); !ok {
		h.fail(c, validation.Field("image", "image/jpeg|image/png|image/webp"))
		return
	}

	f, err := file.Open()
	if err != nil {
		h.fail(c, err)
		return
	}
	defer f.Close()

	ctx, cancel := h.callContext(c)
	defer cancel()

	url, err := h.Images.Upload(ctx, file.Filename, f, file.Size, contentType)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}
