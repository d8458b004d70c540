// Package render turns composed documents into HTML using the embedded
// layouts. Layout choice never changes which sections appear, only where.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"ai-folio/internal/composer"
	"ai-folio/internal/domain"
	"ai-folio/templates"
)

type Renderer struct {
	tpl     *template.Template
	catalog templates.Catalog
	css     template.CSS
}

type page struct {
	Doc    composer.Document
	Layout templates.Info
	CSS    template.CSS
}

var funcs = template.FuncMap{
	"join": strings.Join,
	"section": func(d composer.Document, kind string) *composer.Section {
		return d.Section(composer.SectionKind(kind))
	},
	"pick": pick,
}

// pick returns the sections of the given kinds that the document carries,
// in the order the kinds are listed.
func pick(d composer.Document, kinds ...string) []composer.Section {
	out := []composer.Section{}
	for _, k := range kinds {
		if s := d.Section(composer.SectionKind(k)); s != nil {
			out = append(out, *s)
		}
	}
	return out
}

// New parses every embedded layout and the template catalog.
func New() (*Renderer, error) {
	catalog, err := templates.LoadCatalog()
	if err != nil {
		return nil, err
	}
	tpl, err := template.New("folio").Funcs(funcs).ParseFS(templates.FS, "*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	css, err := templates.FS.ReadFile("style.css")
	if err != nil {
		return nil, err
	}
	r := &Renderer{tpl: tpl, catalog: catalog, css: template.CSS(css)}
	for _, g := range []struct {
		kind  domain.Kind
		group templates.Group
	}{{domain.KindResume, catalog.Resume}, {domain.KindPortfolio, catalog.Portfolio}} {
		for _, info := range g.group.Templates {
			if r.tpl.Lookup(layoutName(g.kind, info.ID)) == nil {
				return nil, fmt.Errorf("catalog lists %s layout %q without a template", g.kind, info.ID)
			}
		}
	}
	return r, nil
}

func (r *Renderer) Catalog() templates.Catalog { return r.catalog }

// Resume renders doc with the named resume layout. Unknown ids use the default layout.
func (r *Renderer) Resume(doc composer.Document, templateID string) (string, error) {
	return r.execute(domain.KindResume, r.catalog.Resume.Lookup(templateID), doc)
}

// Portfolio renders doc with the named portfolio layout. Unknown ids use the default layout.
func (r *Renderer) Portfolio(doc composer.Document, templateID string) (string, error) {
	return r.execute(domain.KindPortfolio, r.catalog.Portfolio.Lookup(templateID), doc)
}

// NotFound renders the page shown for unknown or unpublished portfolio slugs.
func (r *Renderer) NotFound() (string, error) {
	var buf bytes.Buffer
	if err := r.tpl.ExecuteTemplate(&buf, "portfolio-not-found", page{CSS: r.css}); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (r *Renderer) execute(kind domain.Kind, layout templates.Info, doc composer.Document) (string, error) {
	var buf bytes.Buffer
	data := page{Doc: doc, Layout: layout, CSS: r.css}
	if err := r.tpl.ExecuteTemplate(&buf, layoutName(kind, layout.ID), data); err != nil {
		return "", fmt.Errorf("render %s/%s: %w", kind, layout.ID, err)
	}
	return buf.String(), nil
}

func layoutName(kind domain.Kind, id string) string {
	return string(kind) + "-" + id
}
