package http

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/faq-system/internal/domain/faq"
)

// FAQHandler serves the JSON FAQ API.
type FAQHandler struct {
	svc    faq.Service
	logger *slog.Logger
}

// NewFAQHandler constructs the handler.
func NewFAQHandler(svc faq.Service, logger *slog.Logger) *FAQHandler {
	return &FAQHandler{svc: svc, logger: logger.With("component", "http.faq")}
}

// List returns every FAQ, optionally filtered by ?search=. ?lang is accepted and ignored.
func (h *FAQHandler) List(c *gin.Context) {
	var (
		items []faq.FAQ
		err   error
	)
	if term := c.Query("search"); term != "" {
		items, err = h.svc.Search(c.Request.Context(), term)
	} else {
		items, err = h.svc.List(c.Request.Context())
	}
	if err != nil {
		abortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// Retrieve returns one FAQ.
func (h *FAQHandler) Retrieve(c *gin.Context) {
	id, ok := faqID(c)
	if !ok {
		return
	}
	item, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		abortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// Create stores a new FAQ.
func (h *FAQHandler) Create(c *gin.Context) {
	var req faq.CreateRequest
	if !bindBody(c, &req) {
		return
	}
	item, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		abortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

// Update applies a full or partial update. PUT and PATCH behave the same.
func (h *FAQHandler) Update(c *gin.Context) {
	id, ok := faqID(c)
	if !ok {
		return
	}
	var req faq.UpdateRequest
	if !bindBody(c, &req) {
		return
	}
	item, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		abortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// Delete removes an FAQ.
func (h *FAQHandler) Delete(c *gin.Context) {
	id, ok := faqID(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		abortWithDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// BulkCreate stores a JSON array of FAQs, all or none.
func (h *FAQHandler) BulkCreate(c *gin.Context) {
	var reqs []faq.CreateRequest
	if err := c.ShouldBindJSON(&reqs); err != nil {
		msg := "expected a list of items"
		if errors.Is(err, io.EOF) {
			msg = "request body is empty"
		}
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_input", msg, err))
		return
	}
	items, err := h.svc.BulkCreate(c.Request.Context(), reqs)
	if err != nil {
		abortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, items)
}

// bindBody decodes JSON or form bodies. An empty body binds to the zero value so field validation reports it.
func bindBody(c *gin.Context, dst any) bool {
	if c.Request.ContentLength == 0 && c.ContentType() != "application/x-www-form-urlencoded" {
		return true
	}
	if err := c.ShouldBind(dst); err != nil && !errors.Is(err, io.EOF) {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_input", "malformed request body", err))
		return false
	}
	return true
}

func faqID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		abortWithError(c, NewHTTPError(http.StatusNotFound, "not_found", "faq not found", err))
		return 0, false
	}
	return id, true
}
