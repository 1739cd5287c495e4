package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"tutorhub/internal/storage"
)

// multipartOverhead leaves room for form boundaries and other fields.
const multipartOverhead = 1 << 20

func (h *Handler) upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes+multipartOverhead)

	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) || strings.Contains(err.Error(), "request body too large") {
			c.JSON(http.StatusRequestEntityTooLarge, Payload{Message: "File too large"})
			return
		}
		c.JSON(http.StatusBadRequest, Payload{Message: "No file provided"})
		return
	}
	if fh.Size > h.maxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, Payload{Message: "File too large"})
		return
	}

	kind := c.DefaultPostForm("type", storage.KindImages)
	if !storage.ValidKind(kind) {
		c.JSON(http.StatusBadRequest, Payload{Message: "type must be one of images, videos, pdfs", Fields: []string{"type"}})
		return
	}

	f, err := fh.Open()
	if err != nil {
		h.fail(c, err)
		return
	}
	defer f.Close()

	key := storage.ObjectKey(kind, fh.Filename, time.Now())
	path, err := h.storage.Save(c.Request.Context(), key, f, fh.Size, fh.Header.Get("Content-Type"))
	if err != nil {
		h.fail(c, err)
		return
	}
	h.logger.WithFields(logrus.Fields{"key": key, "size": fh.Size}).Info("file uploaded")
	c.JSON(http.StatusOK, gin.H{"path": path})
}
