package app

import (
	"encoding/json"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/gin-gonic/gin/render"
)

const (
	templatesDir    = "templates"
	htmlContentType = "text/html; charset=utf-8"
)

// TemplateRenderer renders pages from a templates/ tree:
//
//	templates/
//	  layouts/   base skeleton, defines "base"
//	  partials/  shared blocks (search box, results, sidebar)
//	  <module>/  pages such as trademark/index.html or errors/404.html
//
// Layouts and partials form one base set. Every page is parsed on its own
// clone of that set, so pages may redefine the same blocks. A page fragment
// served to htmx is just a page that invokes a partial without "base".
//
// In debug mode the tree is re-parsed on every render; otherwise it is
// parsed once by NewTemplateRenderer.
type TemplateRenderer struct {
	fs        fs.FS
	funcMap   template.FuncMap
	debug     bool
	templates map[string]*template.Template // page name -> set; release only
}

var _ render.HTMLRender = (*TemplateRenderer)(nil)

// NewTemplateRenderer returns a renderer over fsys, which must contain a
// templates/ directory. Use os.DirFS("web") with debug for hot reload and
// web.EmbeddedFS otherwise.
func NewTemplateRenderer(fsys fs.FS, debug bool) (*TemplateRenderer, error) {
	r := &TemplateRenderer{
		fs:      fsys,
		funcMap: templateFuncMap(),
		debug:   debug,
	}
	if debug {
		return r, nil
	}

	templates, err := r.parseAllTemplates()
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	r.templates = templates
	return r, nil
}

// Instance implements render.HTMLRender. name is the page path relative to
// templates/, e.g. "trademark/results.html".
func (r *TemplateRenderer) Instance(name string, data any) render.Render {
	templates := r.templates
	if r.debug {
		var err error
		if templates, err = r.parseAllTemplates(); err != nil {
			return &HTMLInstance{Name: name, err: err}
		}
	}
	return &HTMLInstance{Template: templates[name], Name: name, Data: data}
}

func (r *TemplateRenderer) parseAllTemplates() (map[string]*template.Template, error) {
	base, err := r.parseBase()
	if err != nil {
		return nil, err
	}

	pages, err := r.discoverPageTemplates()
	if err != nil {
		return nil, fmt.Errorf("discover pages: %w", err)
	}

	templates := make(map[string]*template.Template, len(pages))
	for _, path := range pages {
		name, tmpl, err := r.parsePage(base, path)
		if err != nil {
			return nil, err
		}
		templates[name] = tmpl
	}
	return templates, nil
}

// parseBase parses layouts then partials into one set.
func (r *TemplateRenderer) parseBase() (*template.Template, error) {
	base := template.New("").Funcs(r.funcMap)
	for _, dir := range []string{"layouts", "partials"} {
		files, err := fs.Glob(r.fs, templatesDir+"/"+dir+"/*.html")
		if err != nil {
			return nil, fmt.Errorf("glob %s: %w", dir, err)
		}
		for _, f := range files {
			if err := r.parseFile(base.New(f), f); err != nil {
				return nil, err
			}
		}
	}
	return base, nil
}

func (r *TemplateRenderer) parsePage(base *template.Template, path string) (string, *template.Template, error) {
	clone, err := base.Clone()
	if err != nil {
		return "", nil, fmt.Errorf("clone base for %s: %w", path, err)
	}
	name := strings.TrimPrefix(path, templatesDir+"/")
	if err := r.parseFile(clone.New(name), path); err != nil {
		return "", nil, err
	}
	return name, clone, nil
}

func (r *TemplateRenderer) parseFile(t *template.Template, path string) error {
	content, err := fs.ReadFile(r.fs, path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if _, err := t.Parse(string(content)); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

// discoverPageTemplates lists every .html file under templates/ outside
// layouts/ and partials/.
func (r *TemplateRenderer) discoverPageTemplates() ([]string, error) {
	var pages []string
	err := fs.WalkDir(r.fs, templatesDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".html") {
			return nil
		}
		rel := strings.TrimPrefix(path, templatesDir+"/")
		if strings.HasPrefix(rel, "layouts/") || strings.HasPrefix(rel, "partials/") {
			return nil
		}
		pages = append(pages, path)
		return nil
	})
	return pages, err
}

// templateFuncMap returns the helper functions available to every template.
func templateFuncMap() template.FuncMap {
	return template.FuncMap{
		// json encodes v for use inside attributes and scripts.
		"json": func(v any) template.JS {
			b, err := json.Marshal(v)
			if err != nil {
				return template.JS("null")
			}
			return template.JS(b)
		},

		// formatDate renders search log timestamps.
		"formatDate": func(t time.Time) string {
			return t.Format("2006-01-02 15:04:05")
		},

		"add": func(a, b int) int { return a + b },
		"sub": func(a, b int) int { return a - b },

		// seq returns start..end inclusive.
		"seq": func(start, end int) []int {
			if start > end {
				return nil
			}
			s := make([]int, 0, end-start+1)
			for i := start; i <= end; i++ {
				s = append(s, i)
			}
			return s
		},

		"lower": strings.ToLower,

		// has reports whether list contains v; used for checkbox state.
		"has": func(list []string, v string) bool {
			return slices.Contains(list, v)
		},
	}
}

// HTMLInstance is one page execution returned by TemplateRenderer.Instance.
type HTMLInstance struct {
	Template *template.Template
	Name     string
	Data     any
	err      error // debug re-parse failure
}

// Render executes the page into w.
func (h *HTMLInstance) Render(w http.ResponseWriter) error {
	h.WriteContentType(w)
	if h.err != nil {
		return h.err
	}
	if h.Template == nil {
		return fmt.Errorf("template %q not found", h.Name)
	}
	return h.Template.ExecuteTemplate(w, h.Name, h.Data)
}

// WriteContentType sets text/html unless a Content-Type is already present.
func (h *HTMLInstance) WriteContentType(w http.ResponseWriter) {
	header := w.Header()
	if len(header["Content-Type"]) == 0 {
		header["Content-Type"] = []string{htmlContentType}
	}
}
