package main

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"luxesalon.cz/salon-web/internal/i18n"
	"luxesalon.cz/salon-web/internal/observability"
)

// pageNames are the templates under pages/ rendered through the base layout.
var pageNames = []string{"home", "gallery"}

// templateSet holds one parsed tree per page: shared layouts and partials
// plus the page's own "content" block.
type templateSet struct {
	dir   string
	dev   bool
	funcs template.FuncMap
	pages map[string]*template.Template
}

func newTemplateSet(dir string, dev bool, bundle *i18n.Bundle) (*templateSet, error) {
	ts := &templateSet{dir: dir, dev: dev, funcs: templateFuncs(bundle)}
	pages, err := ts.parse()
	if err != nil {
		return nil, err
	}
	ts.pages = pages
	return ts, nil
}

func templateFuncs(bundle *i18n.Bundle) template.FuncMap {
	return template.FuncMap{
		"t": func(lang i18n.Language, key string) string { return bundle.T(lang, key) },
		"now": time.Now,
		"errFor": func(errs map[string]string, field string) string {
			return errs[field]
		},
		"mib": func(n int64) int64 { return n >> 20 },
	}
}

func (ts *templateSet) parse() (map[string]*template.Template, error) {
	// Recursively discover shared templates. Note: ParseGlob doesn't support **.
	var shared []string
	for _, sub := range []string{"layouts", "partials"} {
		root := filepath.Join(ts.dir, sub)
		if err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && strings.HasSuffix(d.Name(), ".tmpl") {
				shared = append(shared, path)
			}
			return nil
		}); err != nil {
			return nil, err
		}
	}
	if len(shared) == 0 {
		return nil, fmt.Errorf("no templates found under %s", ts.dir)
	}
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		files := append(append([]string(nil), shared...), filepath.Join(ts.dir, "pages", name+".tmpl"))
		t, err := template.New(name).Funcs(ts.funcs).ParseFiles(files...)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		pages[name] = t
	}
	return pages, nil
}

// lookup returns the tree for page. In dev mode, templates are reparsed on each request.
func (ts *templateSet) lookup(page string) (*template.Template, error) {
	pages := ts.pages
	if ts.dev {
		p, err := ts.parse()
		if err != nil {
			return nil, err
		}
		pages = p
	}
	t, ok := pages[page]
	if !ok {
		return nil, fmt.Errorf("unknown page %q", page)
	}
	return t, nil
}

// renderPage executes the base layout of page with status.
func (ts *templateSet) renderPage(w http.ResponseWriter, r *http.Request, page string, status int, data any) {
	ts.execute(w, r, page, "base", status, data)
}

// renderFragment executes a named partial, e.g. for htmx swaps.
func (ts *templateSet) renderFragment(w http.ResponseWriter, r *http.Request, name string, status int, data any) {
	ts.execute(w, r, pageNames[0], name, status, data)
}

func (ts *templateSet) execute(w http.ResponseWriter, r *http.Request, page, name string, status int, data any) {
	logger := observability.FromContext(r.Context())
	t, err := ts.lookup(page)
	if err != nil {
		logger.Error("template parse failed", zap.Error(err))
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, name, data); err != nil {
		logger.Error("template exec failed", zap.String("template", name), zap.Error(err))
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
