package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/docforge/docforge/backend/go-services/internal/blobstore"
	"github.com/docforge/docforge/backend/go-services/internal/knowledge"
	"github.com/docforge/docforge/backend/go-services/internal/knowledge/repository"
	"github.com/docforge/docforge/backend/go-services/internal/knowledge/service"
)

// RegisterKnowledgeRoutes wires the knowledge file endpoints. Size and
// media-type admission checks happen upstream of this service; the body is
// the already extracted plain text.
func RegisterKnowledgeRoutes(r gin.IRoutes, svc service.Service) {
	r.GET("/api/knowledge-files", func(c *gin.Context) {
		files, err := svc.ListAll(c.Request.Context())
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, files)
	})

	r.POST("/api/knowledge-files", func(c *gin.Context) {
		var f knowledge.File
		if err := c.ShouldBindJSON(&f); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		saved, err := svc.Save(c.Request.Context(), f)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, saved)
	})

	r.GET("/api/knowledge-files/:id", func(c *gin.Context) {
		f, err := svc.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, f)
	})

	r.DELETE("/api/knowledge-files/:id", func(c *gin.Context) {
		if err := svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
			writeError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	})
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, blobstore.ErrQuotaExceeded):
		c.JSON(http.StatusInsufficientStorage, gin.H{"error": err.Error()})
	case errors.Is(err, repository.ErrCorrupted):
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
