package handler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"ir-portal/internal/data"
	"ir-portal/internal/logger"
	"ir-portal/internal/middleware"
	"ir-portal/internal/service"
	"ir-portal/internal/session"
	"ir-portal/internal/view"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
)

const adminPageSize = 20

// tableRow is one line of an admin table.
type tableRow struct {
	ID        string
	Cells     []string
	Published bool
}

// adminTable describes how one resource is listed and deleted in the admin UI.
type adminTable struct {
	Key     string
	Label   string
	Columns []string
	load    func(ctx context.Context, q service.ListQuery) ([]tableRow, int, error)
	remove  func(ctx context.Context, id string) error
}

// tableView is what table.html renders.
type tableView struct {
	Key        string
	Label      string
	Columns    []string
	Rows       []tableRow
	Total      int
	Page       int
	TotalPages int
	PrevPage   int
	NextPage   int
	Search     string
	Published  string
}

func rowsOf[T any](items []*T, row func(*T) tableRow) []tableRow {
	out := make([]tableRow, len(items))
	for i, it := range items {
		out[i] = row(it)
	}
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func adminTables(s ContentServices) []adminTable {
	return []adminTable{
		{
			Key: "articles", Label: "Articles", Columns: []string{"Title", "Authors", "Year", "Tags"},
			load: func(ctx context.Context, q service.ListQuery) ([]tableRow, int, error) {
				p, err := s.Articles.List(ctx, service.ArticleQuery{ListQuery: q})
				if err != nil {
					return nil, 0, err
				}
				return rowsOf(p.Items, func(a *data.Article) tableRow {
					year := ""
					if a.Year != nil {
						year = strconv.Itoa(*a.Year)
					}
					return tableRow{ID: a.ID, Published: a.Published, Cells: []string{a.Title, a.Authors, year, a.Tags}}
				}), p.Total, nil
			},
			remove: s.Articles.Delete,
		},
		{
			Key: "analyses", Label: "Analyses", Columns: []string{"Title", "Author", "Categories", "Published at"},
			load: func(ctx context.Context, q service.ListQuery) ([]tableRow, int, error) {
				p, err := s.Analyses.List(ctx, service.AnalysisQuery{ListQuery: q})
				if err != nil {
					return nil, 0, err
				}
				return rowsOf(p.Items, func(a *data.Analysis) tableRow {
					return tableRow{ID: a.ID, Published: a.Published, Cells: []string{a.Title, a.Author, a.Categories, a.PublishedAt.Format("2006-01-02")}}
				}), p.Total, nil
			},
			remove: s.Analyses.Delete,
		},
		{
			Key: "news", Label: "News", Columns: []string{"Title", "Region", "Category", "Published at"},
			load: func(ctx context.Context, q service.ListQuery) ([]tableRow, int, error) {
				p, err := s.News.List(ctx, service.NewsQuery{ListQuery: q})
				if err != nil {
					return nil, 0, err
				}
				return rowsOf(p.Items, func(n *data.NewsItem) tableRow {
					return tableRow{ID: n.ID, Published: n.Published, Cells: []string{n.Title, n.Region, n.Category, n.PublishedAt.Format("2006-01-02")}}
				}), p.Total, nil
			},
			remove: s.News.Delete,
		},
		{
			Key: "podcasts", Label: "Podcasts", Columns: []string{"Title", "Topic", "Minutes", "Featured"},
			load: func(ctx context.Context, q service.ListQuery) ([]tableRow, int, error) {
				p, err := s.Podcasts.List(ctx, service.PodcastQuery{ListQuery: q})
				if err != nil {
					return nil, 0, err
				}
				return rowsOf(p.Items, func(pc *data.Podcast) tableRow {
					featured := ""
					if pc.Featured {
						featured = "yes"
					}
					return tableRow{ID: pc.ID, Published: pc.Published, Cells: []string{pc.Title, pc.Topic, strconv.Itoa(pc.DurationMinutes), featured}}
				}), p.Total, nil
			},
			remove: s.Podcasts.Delete,
		},
		{
			Key: "modules", Label: "Learning modules", Columns: []string{"Order", "Title", "Slug"},
			load: func(ctx context.Context, q service.ListQuery) ([]tableRow, int, error) {
				p, err := s.Modules.List(ctx, q)
				if err != nil {
					return nil, 0, err
				}
				return rowsOf(p.Items, func(m *data.LearningModule) tableRow {
					return tableRow{ID: m.ID, Published: m.Published, Cells: []string{strconv.Itoa(m.OrderIndex), m.Title, m.Slug}}
				}), p.Total, nil
			},
			remove: s.Modules.Delete,
		},
		{
			Key: "concepts", Label: "Concepts", Columns: []string{"Name", "Definition", "Related theory"},
			load: func(ctx context.Context, q service.ListQuery) ([]tableRow, int, error) {
				p, err := s.Concepts.List(ctx, q)
				if err != nil {
					return nil, 0, err
				}
				return rowsOf(p.Items, func(c *data.Concept) tableRow {
					return tableRow{ID: c.ID, Published: c.Published, Cells: []string{c.Name, c.ShortDefinition, deref(c.RelatedTheory)}}
				}), p.Total, nil
			},
			remove: s.Concepts.Delete,
		},
		{
			Key: "resources", Label: "Resources", Columns: []string{"Name", "Type", "Related theory"},
			load: func(ctx context.Context, q service.ListQuery) ([]tableRow, int, error) {
				p, err := s.Resources.List(ctx, service.ResourceQuery{ListQuery: q})
				if err != nil {
					return nil, 0, err
				}
				return rowsOf(p.Items, func(r *data.Resource) tableRow {
					return tableRow{ID: r.ID, Published: r.Published, Cells: []string{r.Name, r.Type, deref(r.RelatedTheory)}}
				}), p.Total, nil
			},
			remove: s.Resources.Delete,
		},
	}
}

// AdminHandler serves the server-rendered admin pages.
type AdminHandler struct {
	view    *view.View
	auth    *service.AuthService
	stats   *service.StatsService
	session session.Manager
	tables  []adminTable
	byKey   map[string]adminTable
	oidc    bool
	log     logger.Logger
}

// NewAdminHandler creates a new AdminHandler. oidc tells the login page to offer single sign-on.
func NewAdminHandler(v *view.View, a *service.AuthService, stats *service.StatsService, content ContentServices,
	sm session.Manager, oidc bool, log logger.Logger) *AdminHandler {
	tables := adminTables(content)
	byKey := make(map[string]adminTable, len(tables))
	for _, t := range tables {
		byKey[t.Key] = t
	}
	return &AdminHandler{view: v, auth: a, stats: stats, session: sm, tables: tables, byKey: byKey, oidc: oidc, log: log}
}

func (h *AdminHandler) render(w http.ResponseWriter, r *http.Request, code int, name string, vars map[string]interface{}) *middleware.AppError {
	vars["UserInfo"] = middleware.GetUserInfo(r.Context())
	var buf bytes.Buffer
	if err := h.view.Render(&buf, name, vars); err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to render page", Code: http.StatusInternalServerError}
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	_, _ = buf.WriteTo(w)
	return nil
}

// safeNext only allows redirects back into the admin area.
func safeNext(next string) string {
	if strings.HasPrefix(next, "/admin") && !strings.HasPrefix(next, middleware.AdminLoginPath) {
		return next
	}
	return "/admin"
}

func (h *AdminHandler) loginForm(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	if middleware.GetUserInfo(r.Context()).IsAdmin() {
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
		return nil
	}
	return h.render(w, r, http.StatusOK, "login.html", map[string]interface{}{
		"Next": r.URL.Query().Get("next"),
		"OIDC": h.oidc,
	})
}

func (h *AdminHandler) login(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	if err := r.ParseForm(); err != nil {
		return badRequest("Malformed form")
	}
	email := r.PostForm.Get("email")
	next := r.PostForm.Get("next")

	u, err := h.auth.Authenticate(r.Context(), email, r.PostForm.Get("password"))
	if err != nil {
		appErr := serviceError(err, "Admin")
		if appErr.Code >= http.StatusInternalServerError {
			return appErr
		}
		return h.render(w, r, appErr.Code, "login.html", map[string]interface{}{
			"Error": appErr.Message,
			"Email": email,
			"Next":  next,
			"OIDC":  h.oidc,
		})
	}
	if err := signIn(r.Context(), h.session, u); err != nil {
		return serviceError(err, "Session")
	}
	http.Redirect(w, r, safeNext(next), http.StatusSeeOther)
	return nil
}

func (h *AdminHandler) logout(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	if err := h.session.Destroy(r.Context()); err != nil {
		return serviceError(err, "Session")
	}
	http.Redirect(w, r, middleware.AdminLoginPath, http.StatusSeeOther)
	return nil
}

func (h *AdminHandler) dashboard(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	stats, err := h.stats.Stats(r.Context())
	if err != nil {
		return serviceError(err, "Stats")
	}
	return h.render(w, r, http.StatusOK, "dashboard.html", map[string]interface{}{
		"Stats":     stats,
		"Resources": h.tables,
	})
}

func (h *AdminHandler) table(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	t, found := h.byKey[chi.URLParam(r, "resource")]
	if !found {
		return &middleware.AppError{Error: errors.New("unknown admin table"), Message: "Page not found", Code: http.StatusNotFound}
	}
	lq, appErr := listQuery(r, adminPageSize)
	if appErr != nil {
		return appErr
	}
	rows, total, err := t.load(r.Context(), lq)
	if err != nil {
		return serviceError(err, t.Label)
	}

	page := lq.Pagination.Page
	totalPages := (total + lq.Pagination.PageSize - 1) / lq.Pagination.PageSize
	if totalPages < 1 {
		totalPages = 1
	}
	published := ""
	if lq.Published != nil {
		published = strconv.FormatBool(*lq.Published)
	}
	return h.render(w, r, http.StatusOK, "table.html", map[string]interface{}{
		"Table": tableView{
			Key:        t.Key,
			Label:      t.Label,
			Columns:    t.Columns,
			Rows:       rows,
			Total:      total,
			Page:       page,
			TotalPages: totalPages,
			PrevPage:   page - 1,
			NextPage:   page + 1,
			Search:     lq.Search,
			Published:  published,
		},
	})
}

func (h *AdminHandler) deleteRow(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	t, found := h.byKey[chi.URLParam(r, "resource")]
	if !found {
		return &middleware.AppError{Error: errors.New("unknown admin table"), Message: "Page not found", Code: http.StatusNotFound}
	}
	id := chi.URLParam(r, "id")
	if err := t.remove(r.Context(), id); err != nil {
		return serviceError(err, t.Label)
	}
	h.log.With(map[string]interface{}{"table": t.Key, "id": id}).Info("row deleted from admin")
	http.Redirect(w, r, fmt.Sprintf("/admin/%s", t.Key), http.StatusSeeOther)
	return nil
}
