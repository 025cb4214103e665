package render

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	htmltemplate "html/template"
	"os"
	"path/filepath"
	"strings"
	texttemplate "text/template"

	"linkdir/internal/domain/site"
)

const (
	TemplateCategory = "category.html.tmpl"
	TemplateLink     = "link.html.tmpl"
	TemplateHome     = "home.html.tmpl"
	TemplateSitemap  = "sitemap.xml.tmpl"
)

var RequiredTemplates = []string{
	TemplateCategory,
	TemplateLink,
	TemplateHome,
	TemplateSitemap,
}

// TemplateRenderer executes the theme templates. *.html.tmpl files share
// one html/template set so they can define partials for each other;
// *.xml.tmpl files go through text/template with the xml escaper.
type TemplateRenderer struct {
	html *htmltemplate.Template
	xml  *texttemplate.Template
}

func NewTemplateRenderer(themeDir, themeName string) (*TemplateRenderer, error) {
	dir := TemplateDir(themeDir, themeName)
	funcs := templateFuncs(NewMarkdownRenderer())

	r := &TemplateRenderer{
		html: htmltemplate.New("").Funcs(htmltemplate.FuncMap(funcs)),
		xml:  texttemplate.New("").Funcs(texttemplate.FuncMap(funcs)),
	}

	htmlFiles, err := filepath.Glob(filepath.Join(dir, "*.html.tmpl"))
	if err != nil {
		return nil, err
	}
	if len(htmlFiles) > 0 {
		if r.html, err = r.html.ParseFiles(htmlFiles...); err != nil {
			return nil, fmt.Errorf("parse templates: %w", err)
		}
	}

	xmlFiles, err := filepath.Glob(filepath.Join(dir, "*.xml.tmpl"))
	if err != nil {
		return nil, err
	}
	if len(xmlFiles) > 0 {
		if r.xml, err = r.xml.ParseFiles(xmlFiles...); err != nil {
			return nil, fmt.Errorf("parse templates: %w", err)
		}
	}
	return r, nil
}

func TemplateDir(themeDir, themeName string) string {
	return filepath.Join(themeDir, themeName, "templates")
}

func templateFuncs(md *MarkdownRenderer) map[string]any {
	return map[string]any{
		"date": func(t interface{}, layout string) string {
			switch v := t.(type) {
			case nil:
				return ""
			case string:
				return v
			case interface{ Format(string) string }:
				return v.Format(layout)
			default:
				return ""
			}
		},
		"markdown": func(s string) (htmltemplate.HTML, error) {
			out, err := md.Inline(s)
			return htmltemplate.HTML(out), err
		},
		"xml": func(s string) (string, error) {
			var buf bytes.Buffer
			if err := xml.EscapeText(&buf, []byte(s)); err != nil {
				return "", err
			}
			return buf.String(), nil
		},
		"abs":   site.JoinURL,
		"upper": strings.ToUpper,
		"add":   func(a, b int) int { return a + b },
		"sub":   func(a, b int) int { return a - b },
	}
}

func (r *TemplateRenderer) RenderCategory(ctx context.Context, page CategoryPage) ([]byte, error) {
	return r.exec(TemplateCategory, page)
}

func (r *TemplateRenderer) RenderLink(ctx context.Context, page LinkPage) ([]byte, error) {
	return r.exec(TemplateLink, page)
}

func (r *TemplateRenderer) RenderHome(ctx context.Context, page HomePage) ([]byte, error) {
	return r.exec(TemplateHome, page)
}

func (r *TemplateRenderer) RenderSitemap(ctx context.Context, page SitemapPage) ([]byte, error) {
	return r.execText(TemplateSitemap, page)
}

func (r *TemplateRenderer) exec(name string, data interface{}) ([]byte, error) {
	t := r.html.Lookup(name)
	if t == nil {
		return nil, fmt.Errorf("template %s not found", name)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (r *TemplateRenderer) execText(name string, data interface{}) ([]byte, error) {
	t := r.xml.Lookup(name)
	if t == nil {
		return nil, fmt.Errorf("template %s not found", name)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// CheckThemeTemplates reports every required template missing from dir.
func CheckThemeTemplates(dir string) error {
	var errs []error
	for _, name := range RequiredTemplates {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			errs = append(errs, fmt.Errorf("missing template: %s", name))
		}
	}
	return errors.Join(errs...)
}
