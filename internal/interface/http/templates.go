package http

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"path"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"

	"github.com/yanqian/faq-system/internal/domain/auth"
	"github.com/yanqian/faq-system/internal/domain/faq"
	"github.com/yanqian/faq-system/internal/infra/config"
)

//go:embed templates/*.html
var templateFiles embed.FS

const (
	layoutTemplate  = "templates/base.layout.html"
	partialsPattern = "templates/*.partial.html"
	pagesSuffix     = ".page.html"
)

// pageData is what every page template receives.
type pageData struct {
	Title     string
	Path      string
	Lang      string
	Languages []config.Language
	User      *auth.Claims
	Flash     *flash
	Content   any
}

type listView struct {
	FAQs   []faq.FAQ
	Search string
}

type formView struct {
	Heading string
	Action  string
	Submit  string
	Values  map[string]string
	Errors  map[string][]string
	Error   string
	FAQ     *faq.FAQ
	Next    string
}

var templateFuncs = template.FuncMap{
	// Stored FAQ markup is sanitized on write.
	"richText": func(markup string) template.HTML {
		return template.HTML(markup)
	},
	"preview": faq.Preview,
	"formatDate": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.UTC().Format("02 Jan 2006, 15:04")
	},
	"fieldErrors": func(errs map[string][]string, field string) []string {
		return errs[field]
	},
}

// renderer holds one parsed template set per page.
type renderer struct {
	pages map[string]*template.Template
}

func newRenderer() (*renderer, error) {
	pageFiles, err := fs.Glob(templateFiles, "templates/*"+pagesSuffix)
	if err != nil {
		return nil, err
	}
	r := &renderer{pages: make(map[string]*template.Template, len(pageFiles))}
	for _, file := range pageFiles {
		ts, err := template.New("").Funcs(templateFuncs).ParseFS(templateFiles, layoutTemplate, partialsPattern, file)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", file, err)
		}
		r.pages[strings.TrimSuffix(path.Base(file), pagesSuffix)] = ts
	}
	return r, nil
}

func (r *renderer) render(c *gin.Context, status int, page string, data pageData) {
	ts, ok := r.pages[page]
	if !ok {
		abortWithError(c, internalError(fmt.Errorf("unknown page %q", page)))
		return
	}
	c.Render(status, render.HTML{Template: ts, Name: "base", Data: data})
}
