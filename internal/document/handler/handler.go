package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/docforge/docforge/backend/go-services/internal/blobstore"
	"github.com/docforge/docforge/backend/go-services/internal/document"
	"github.com/docforge/docforge/backend/go-services/internal/document/diagram"
	"github.com/docforge/docforge/backend/go-services/internal/document/repository"
	"github.com/docforge/docforge/backend/go-services/internal/document/service"
	"github.com/docforge/docforge/backend/go-services/pkg/middleware"
)

// RegisterDocumentRoutes wires the document endpoints onto the router
// group. The caller decides which middlewares (identity, rate limiting)
// run in front.
func RegisterDocumentRoutes(r gin.IRoutes, svc service.Service) {
	r.GET("/api/documents", func(c *gin.Context) {
		docs, err := svc.ListAll(c.Request.Context())
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, docs)
	})

	r.GET("/api/documents/search", func(c *gin.Context) {
		q := c.Query("q")
		matches, err := svc.Search(c.Request.Context(), q)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, matches)
	})

	r.POST("/api/documents", func(c *gin.Context) {
		var gen document.GeneratedDocument
		if err := c.ShouldBindJSON(&gen); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		doc, err := svc.Create(c.Request.Context(), gen, c.GetString(middleware.UserKey))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, doc)
	})

	r.GET("/api/documents/:id", func(c *gin.Context) {
		doc, err := svc.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, doc)
	})

	// Commit of an edit-session snapshot: the body is the full candidate
	// document built by the caller.
	r.PUT("/api/documents/:id", func(c *gin.Context) {
		var doc document.StoredDocument
		if err := c.ShouldBindJSON(&doc); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if doc.ID != c.Param("id") {
			c.JSON(http.StatusBadRequest, gin.H{"error": "id mismatch"})
			return
		}
		if err := svc.Save(c.Request.Context(), doc); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": doc.ID})
	})

	// Full replacement from the assistant: appended as a new version.
	r.POST("/api/documents/:id/revisions", func(c *gin.Context) {
		var gen document.GeneratedDocument
		if err := c.ShouldBindJSON(&gen); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		doc, err := svc.SaveRevision(c.Request.Context(), c.Param("id"), gen, c.GetString(middleware.UserKey))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, doc)
	})

	r.DELETE("/api/documents/:id", func(c *gin.Context) {
		if err := svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
			writeError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	})

	// Comments persist immediately, outside the draft/commit session.
	r.POST("/api/documents/:id/sections/:index/comments", func(c *gin.Context) {
		index, err := strconv.Atoi(c.Param("index"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid section index"})
			return
		}
		var req struct {
			Content string `json:"content"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		doc, err := svc.AppendComment(c.Request.Context(), c.Param("id"), index, c.GetString(middleware.UserKey), req.Content)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, doc)
	})

	// Diagram patches also persist immediately. Block addressing is
	// positional within the section's content.
	r.PUT("/api/documents/:id/sections/:index/diagrams/:block", func(c *gin.Context) {
		index, err := strconv.Atoi(c.Param("index"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid section index"})
			return
		}
		block, err := strconv.Atoi(c.Param("block"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid block index"})
			return
		}
		var req struct {
			Body string `json:"body"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		doc, err := svc.PatchDiagram(c.Request.Context(), c.Param("id"), index, block, req.Body)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, doc)
	})
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, repository.ErrEmptyVersions):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, diagram.ErrBlockOutOfRange):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, blobstore.ErrQuotaExceeded):
		c.JSON(http.StatusInsufficientStorage, gin.H{"error": err.Error()})
	case errors.Is(err, repository.ErrCorrupted):
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
