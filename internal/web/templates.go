package web

import (
	"context"
	"database/sql"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/numera-market/numera/internal/auth"
	"github.com/numera-market/numera/internal/feed"
	"github.com/numera-market/numera/internal/model"
	"github.com/numera-market/numera/internal/service"
	webembed "github.com/numera-market/numera/web"
)

// Templates holds parsed HTML templates.
type Templates struct {
	templates map[string]*template.Template
}

// FuncMap returns the template function map.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"roleAtLeast": model.RoleAtLeast,
		"roleName": func(role string) string {
			switch role {
			case model.RoleAdmin:
				return "Administrator"
			case model.RoleEditor:
				return "Editor"
			case model.RoleViewer:
				return "Viewer"
			default:
				return role
			}
		},
		"price": func(d decimal.Decimal) string {
			return "₹" + d.StringFixed(2)
		},
		"date": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Local().Format("2006-01-02 15:04")
		},
		"fieldError": func(s ViewState, field string) string {
			return s.FieldErrors[field]
		},
		"pageLink": func(path string, s ViewState, page int) string {
			s.Page = page
			return path + s.QueryString()
		},
		"editLink": func(path string, s ViewState, id int64) string {
			return path + s.QueryString("edit", fmt.Sprint(id))
		},
	}
}

var pages = []string{
	"login.html",
	"dashboard.html",
	"categories.html",
	"phone_numbers.html",
	"vehicle_numbers.html",
	"currency_numbers.html",
	"numerology.html",
	"visitors.html",
	"feed.html",
	"users.html",
	"settings.html",
}

// LoadTemplates parses all page templates with the layout.
func LoadTemplates() (*Templates, error) {
	tfs := webembed.TemplatesFS()

	// Read layout.
	layoutBytes, err := fs.ReadFile(tfs, "layout.html")
	if err != nil {
		return nil, fmt.Errorf("reading layout template: %w", err)
	}

	ts := &Templates{templates: make(map[string]*template.Template)}

	for _, page := range pages {
		pageBytes, err := fs.ReadFile(tfs, page)
		if err != nil {
			return nil, fmt.Errorf("reading template %s: %w", page, err)
		}

		tmpl := template.New(page).Funcs(FuncMap())
		tmpl, err = tmpl.Parse(string(layoutBytes))
		if err != nil {
			return nil, fmt.Errorf("parsing layout for %s: %w", page, err)
		}
		tmpl, err = tmpl.Parse(string(pageBytes))
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", page, err)
		}

		ts.templates[page] = tmpl
	}

	return ts, nil
}

// Render renders a template with the given data.
func (ts *Templates) Render(w http.ResponseWriter, name string, data any) {
	ts.RenderStatus(w, http.StatusOK, name, data)
}

// RenderStatus renders a template with an explicit status code.
func (ts *Templates) RenderStatus(w http.ResponseWriter, status int, name string, data any) {
	tmpl, ok := ts.templates[name]
	if !ok {
		http.Error(w, "template not found", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := tmpl.ExecuteTemplate(w, "layout", data); err != nil {
		slog.Error("failed to render template", "template", name, "error", err)
	}
}

// PageData is the base data passed to all templates.
type PageData struct {
	Title   string
	Path    string
	User    *auth.Claims
	Error   string
	Success string
}

// FeedSource returns the social feed for a profile.
type FeedSource interface {
	Posts(ctx context.Context, profile string) (feed.Result, error)
}

// Server holds all dependencies for page handlers.
type Server struct {
	DB        *sql.DB
	Services  *service.Services
	Sessions  *auth.Sessions
	Accounts  *auth.Accounts
	Feed      FeedSource
	Templates *Templates
	PageSize  int
}

func (s *Server) page(r *http.Request, title string) PageData {
	return PageData{Title: title, Path: r.URL.Path, User: GetWebClaims(r.Context())}
}
