package api

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"correspondence-workers/internal/common/database"
	"correspondence-workers/internal/common/errors"
	"correspondence-workers/internal/common/logger"
	"correspondence-workers/internal/templates"
	rc "correspondence-workers/internal/workers/correspondence/render-correspondence"
)

const maxPreviewBody = 1 << 20

type Handlers struct {
	renderer  *rc.Service
	templates templates.Source
	checks    []database.Pinger
	version   string
	logger    logger.Logger
}

func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"version": h.version,
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

// Ready pings every dependency; any failure makes the service unready.
func (h *Handlers) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	failures := database.CheckAll(ctx, h.checks...)
	deps := make(map[string]string, len(h.checks))
	for _, dep := range h.checks {
		deps[dep.Name()] = "ok"
	}
	for name, err := range failures {
		deps[name] = err.Error()
	}

	status, code := "ready", http.StatusOK
	if len(failures) > 0 {
		status, code = "unready", http.StatusServiceUnavailable
		h.logger.Warn("readiness check failed", map[string]interface{}{"dependencies": deps})
	}
	c.JSON(code, gin.H{
		"status":       status,
		"dependencies": deps,
		"time":         time.Now().UTC().Format(time.RFC3339),
	})
}

// Preview renders a stored or ad-hoc template without side effects.
func (h *Handlers) Preview(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxPreviewBody)
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			RespondErrorStatus(c, http.StatusRequestEntityTooLarge,
				errors.NewInvalidInputError(fmt.Sprintf("request body too large, limit is %d bytes", tooLarge.Limit)))
			return
		}
		RespondError(c, errors.NewInvalidInputError(fmt.Sprintf("read body: %v", err)))
		return
	}
	if err := rc.ValidateVariables(raw); err != nil {
		RespondError(c, err)
		return
	}

	var input rc.Input
	if err := json.Unmarshal(raw, &input); err != nil {
		RespondError(c, errors.NewInvalidInputError(fmt.Sprintf("parse body: %v", err)))
		return
	}

	out, err := h.renderer.Execute(c.Request.Context(), &input)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, out)
}

func (h *Handlers) GetTemplate(c *gin.Context) {
	id := c.Param("id")
	tmpl, err := h.templates.Get(c.Request.Context(), id)
	if err != nil {
		if stderrors.Is(err, templates.ErrTemplateNotFound) {
			err = errors.NewTemplateNotFoundError(id)
		}
		RespondError(c, err)
		return
	}
	RespondOK(c, tmpl)
}

func (h *Handlers) ListTemplates(c *gin.Context) {
	lister, ok := h.templates.(templates.Lister)
	if !ok {
		RespondOK(c, gin.H{"templates": []templates.Template{}})
		return
	}
	list, err := lister.List(c.Request.Context())
	if err != nil {
		RespondError(c, err)
		return
	}
	if list == nil {
		list = []templates.Template{}
	}
	RespondOK(c, gin.H{"templates": list})
}
