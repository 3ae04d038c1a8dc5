package views

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/gin-gonic/gin/render"
	"github.com/samber/lo"

	"github.com/SAP-F-2025/school-admin-service/internal/i18n"
)

//go:embed templates
var templateFS embed.FS

// Page template names
const (
	PageLogin         = "login"
	PageDashboard     = "dashboard"
	PageTeachers      = "teachers"
	PageTeacherForm   = "teacher_form"
	PagePendingWorks  = "pending_works"
	PageResetPassword = "reset_password"
	PageError         = "error"
)

// Renderer holds one template set per page, all sharing the layout and the components.
// It implements gin's render.HTMLRender.
type Renderer struct {
	base  *template.Template
	pages map[string]*template.Template
}

// New parses the embedded templates.
func New() (*Renderer, error) {
	base, err := template.New("base").Funcs(funcMap()).ParseFS(templateFS, "templates/layout.html", "templates/components/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse components: %w", err)
	}

	files, err := fs.Glob(templateFS, "templates/pages/*.html")
	if err != nil {
		return nil, err
	}

	pages := make(map[string]*template.Template, len(files))
	for _, file := range files {
		name := strings.TrimSuffix(path.Base(file), ".html")
		set, err := base.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := set.ParseFS(templateFS, file); err != nil {
			return nil, fmt.Errorf("parse page %s: %w", name, err)
		}
		pages[name] = set
	}

	return &Renderer{base: base, pages: pages}, nil
}

// MustNew is New for package initialization.
func MustNew() *Renderer {
	r, err := New()
	if err != nil {
		panic(err)
	}
	return r
}

// Instance implements render.HTMLRender.
func (r *Renderer) Instance(name string, data any) render.Render {
	set, ok := r.pages[name]
	if !ok {
		set = r.pages[PageError]
		data = ErrorPage{Status: 500, Message: "unknown page " + name}
	}
	return render.HTML{Template: set, Name: "layout", Data: data}
}

// RenderPage writes a full page.
func (r *Renderer) RenderPage(w io.Writer, name string, data any) error {
	set, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}
	return set.ExecuteTemplate(w, "layout", data)
}

// RenderComponent writes a single component, such as "work_card" or "footer".
func (r *Renderer) RenderComponent(w io.Writer, name string, props any) error {
	return r.base.ExecuteTemplate(w, name, props)
}

func funcMap() template.FuncMap {
	return template.FuncMap{
		"t": func(b i18n.Bundle, key string) string {
			return b.T(key)
		},
		"date": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("02/01/2006 15:04")
		},
		"dateptr": func(t *time.Time) string {
			if t == nil {
				return "-"
			}
			return t.Format("02/01/2006 15:04")
		},
		"bytes":     formatBytes,
		"host":      hostname,
		"filename":  path.Base,
		"initials":  initials,
		"fieldrows": func(rows int) int { return lo.Ternary(rows > 0, rows, 4) },
	}
}

func hostname(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return raw
	}
	return strings.TrimPrefix(u.Host, "www.")
}

func initials(name string) string {
	parts := strings.Fields(name)
	out := lo.Map(lo.Slice(parts, 0, 2), func(p string, _ int) string {
		return strings.ToUpper(string([]rune(p)[0]))
	})
	return strings.Join(out, "")
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGTPE"[exp])
}
