package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/faq-system/internal/domain/auth"
	"github.com/yanqian/faq-system/internal/domain/faq"
	"github.com/yanqian/faq-system/internal/infra/config"
	apperrors "github.com/yanqian/faq-system/pkg/errors"
)

const (
	homePath   = "/"
	loginPath  = "/auth/login/"
	createPath = "/create/"
)

// WebHandler renders the server-side FAQ and account pages.
type WebHandler struct {
	faqSvc   faq.Service
	authSvc  auth.Service
	faqCfg   config.FAQConfig
	sessions *sessionManager
	pages    *renderer
	logger   *slog.Logger
}

// NewWebHandler constructs the handler and parses the embedded templates.
func NewWebHandler(cfg *config.Config, faqSvc faq.Service, authSvc auth.Service, logger *slog.Logger) (*WebHandler, error) {
	pages, err := newRenderer()
	if err != nil {
		return nil, err
	}
	return &WebHandler{
		faqSvc:   faqSvc,
		authSvc:  authSvc,
		faqCfg:   cfg.FAQ,
		sessions: newSessionManager(cfg.Auth),
		pages:    pages,
		logger:   logger.With("component", "http.web"),
	}, nil
}

// page fills the fields every template needs. The lang parameter only drives the selector.
func (h *WebHandler) page(c *gin.Context, title string, content any) pageData {
	lang := c.Query("lang")
	if !h.faqCfg.HasLanguage(lang) {
		lang = h.faqCfg.DefaultLanguage
	}
	return pageData{
		Title:     title,
		Path:      c.Request.URL.Path,
		Lang:      lang,
		Languages: h.faqCfg.Languages,
		User:      currentUser(c),
		Flash:     h.sessions.popFlash(c),
		Content:   content,
	}
}

// List renders every FAQ, or the ones matching ?search=.
func (h *WebHandler) List(c *gin.Context) {
	search := c.Query("search")
	var (
		items []faq.FAQ
		err   error
	)
	if search != "" {
		items, err = h.faqSvc.Search(c.Request.Context(), search)
	} else {
		items, err = h.faqSvc.List(c.Request.Context())
	}
	if err != nil {
		h.renderError(c, err)
		return
	}
	h.pages.render(c, http.StatusOK, "list", h.page(c, "FAQs", listView{FAQs: items, Search: search}))
}

// LegacyList keeps the old /faqs/ address working.
func (h *WebHandler) LegacyList(c *gin.Context) {
	target := homePath
	if c.Request.URL.RawQuery != "" {
		target += "?" + c.Request.URL.RawQuery
	}
	c.Redirect(http.StatusMovedPermanently, target)
}

// CreateForm shows an empty FAQ form.
func (h *WebHandler) CreateForm(c *gin.Context) {
	h.pages.render(c, http.StatusOK, "faq_form", h.page(c, "Add FAQ", createForm(nil, nil)))
}

// CreateSubmit stores the posted FAQ.
func (h *WebHandler) CreateSubmit(c *gin.Context) {
	req := faq.CreateRequest{Question: postedField(c, "question"), Answer: postedField(c, "answer")}
	if _, err := h.faqSvc.Create(c.Request.Context(), req); err != nil {
		if apperrors.IsCode(err, "invalid_input") {
			values := map[string]string{"question": c.PostForm("question"), "answer": c.PostForm("answer")}
			h.pages.render(c, http.StatusBadRequest, "faq_form", h.page(c, "Add FAQ", createForm(values, faqFieldErrors(err))))
			return
		}
		h.renderError(c, err)
		return
	}
	h.sessions.addFlash(c, flashSuccess, "FAQ created successfully.")
	c.Redirect(http.StatusFound, homePath)
}

// EditForm shows the form pre-filled with the stored FAQ.
func (h *WebHandler) EditForm(c *gin.Context) {
	item, ok := h.loadFAQ(c)
	if !ok {
		return
	}
	values := map[string]string{"question": item.Question, "answer": item.Answer}
	h.pages.render(c, http.StatusOK, "faq_form", h.page(c, "Edit FAQ", editForm(item, values, nil)))
}

// EditSubmit applies the posted changes.
func (h *WebHandler) EditSubmit(c *gin.Context) {
	item, ok := h.loadFAQ(c)
	if !ok {
		return
	}
	req := faq.UpdateRequest{Question: postedField(c, "question"), Answer: postedField(c, "answer")}
	_, err := h.faqSvc.Update(c.Request.Context(), item.ID, req)
	if err != nil {
		if apperrors.IsCode(err, "invalid_input") {
			values := map[string]string{"question": c.PostForm("question"), "answer": c.PostForm("answer")}
			h.pages.render(c, http.StatusBadRequest, "faq_form", h.page(c, "Edit FAQ", editForm(item, values, faqFieldErrors(err))))
			return
		}
		h.renderError(c, err)
		return
	}
	h.sessions.addFlash(c, flashSuccess, "FAQ updated successfully.")
	c.Redirect(http.StatusFound, homePath)
}

// DeleteConfirm asks before removing an FAQ.
func (h *WebHandler) DeleteConfirm(c *gin.Context) {
	item, ok := h.loadFAQ(c)
	if !ok {
		return
	}
	h.pages.render(c, http.StatusOK, "faq_delete", h.page(c, "Delete FAQ", formView{
		Action: "/" + strconv.FormatInt(item.ID, 10) + "/delete/",
		FAQ:    &item,
	}))
}

// DeleteSubmit removes the FAQ.
func (h *WebHandler) DeleteSubmit(c *gin.Context) {
	item, ok := h.loadFAQ(c)
	if !ok {
		return
	}
	if err := h.faqSvc.Delete(c.Request.Context(), item.ID); err != nil {
		h.renderError(c, err)
		return
	}
	h.sessions.addFlash(c, flashSuccess, "FAQ deleted successfully.")
	c.Redirect(http.StatusFound, homePath)
}

func (h *WebHandler) loadFAQ(c *gin.Context) (faq.FAQ, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		h.renderError(c, apperrors.Wrap("not_found", "faq not found", nil))
		return faq.FAQ{}, false
	}
	item, err := h.faqSvc.Get(c.Request.Context(), id)
	if err != nil {
		h.renderError(c, err)
		return faq.FAQ{}, false
	}
	return item, true
}

// renderError shows a generic HTML error page; detail stays in the log.
func (h *WebHandler) renderError(c *gin.Context, err error) {
	httpErr := fromDomainError(err)
	title, message := "Not found", "The page you requested does not exist."
	if httpErr.Status >= http.StatusInternalServerError {
		h.logger.Error("page failed", "path", c.Request.URL.Path, "error", err)
		title, message = "Server error", "Something went wrong. Please try again later."
	} else if httpErr.Status != http.StatusNotFound {
		title, message = http.StatusText(httpErr.Status), httpErr.Message
	}
	h.pages.render(c, httpErr.Status, "error", h.page(c, title, message))
	c.Abort()
}

func createForm(values map[string]string, errs map[string][]string) formView {
	return formView{Heading: "Add FAQ", Action: createPath, Submit: "Save", Values: values, Errors: errs}
}

func editForm(item faq.FAQ, values map[string]string, errs map[string][]string) formView {
	return formView{
		Heading: "Edit FAQ",
		Action:  "/" + strconv.FormatInt(item.ID, 10) + "/edit/",
		Submit:  "Update",
		Values:  values,
		Errors:  errs,
		FAQ:     &item,
	}
}

// postedField returns nil when the form did not include the field at all.
func postedField(c *gin.Context, name string) *string {
	value, ok := c.GetPostForm(name)
	if !ok {
		return nil
	}
	return &value
}

func faqFieldErrors(err error) map[string][]string {
	if fields, ok := apperrors.DetailsOf(err).(faq.FieldErrors); ok {
		return fields
	}
	return nil
}
