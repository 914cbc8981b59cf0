package handler

import (
	"context"
	"encoding/xml"
	"fmt"
	"ir-portal/internal/service"
	"net/http"
	"strings"
	"time"
)

const (
	sitemapDateFormat = "2006-01-02"
	sitemapXMLNS      = "http://www.sitemaps.org/schemas/sitemap/0.9"
	// sitemapLimit caps the entries taken from each resource.
	sitemapLimit = 1000
)

// SeoHandler serves robots.txt and the sitemap.
type SeoHandler struct {
	content ContentServices
	baseURL string
}

// NewSeoHandler creates a new SeoHandler. baseURL is the public origin, e.g. https://example.org.
func NewSeoHandler(content ContentServices, baseURL string) *SeoHandler {
	return &SeoHandler{content: content, baseURL: strings.TrimRight(baseURL, "/")}
}

// robotsHandler keeps crawlers out of the admin and JSON surfaces.
func (h *SeoHandler) robotsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintln(w, "User-agent: *")
	fmt.Fprintln(w, "Allow: /")
	fmt.Fprintln(w, "Disallow: /admin")
	fmt.Fprintln(w, "Disallow: /api/")
	fmt.Fprintln(w, "")
	fmt.Fprintf(w, "Sitemap: %s/sitemap.xml\n", h.baseURL)
}

type sitemapURL struct {
	XMLName xml.Name `xml:"url"`
	Loc     string   `xml:"loc"`
	LastMod string   `xml:"lastmod"`
}

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

// sitemapEntries lists every published detail page.
func (h *SeoHandler) sitemapEntries(ctx context.Context) ([]sitemapURL, error) {
	q := service.ListQuery{Pagination: service.Pagination{Page: 1, Limit: sitemapLimit}}
	var urls []sitemapURL
	add := func(path string, updated time.Time) {
		urls = append(urls, sitemapURL{Loc: h.baseURL + path, LastMod: updated.Format(sitemapDateFormat)})
	}

	articles, err := h.content.Articles.List(ctx, service.ArticleQuery{ListQuery: q})
	if err != nil {
		return nil, err
	}
	for _, a := range articles.Items {
		add("/articles/"+a.ID, a.UpdatedAt)
	}
	analyses, err := h.content.Analyses.List(ctx, service.AnalysisQuery{ListQuery: q})
	if err != nil {
		return nil, err
	}
	for _, a := range analyses.Items {
		add("/analyses/"+a.ID, a.UpdatedAt)
	}
	news, err := h.content.News.List(ctx, service.NewsQuery{ListQuery: q})
	if err != nil {
		return nil, err
	}
	for _, n := range news.Items {
		add("/news/"+n.ID, n.UpdatedAt)
	}
	podcasts, err := h.content.Podcasts.List(ctx, service.PodcastQuery{ListQuery: q})
	if err != nil {
		return nil, err
	}
	for _, p := range podcasts.Items {
		add("/podcasts/"+p.ID, p.UpdatedAt)
	}
	modules, err := h.content.Modules.List(ctx, q)
	if err != nil {
		return nil, err
	}
	for _, m := range modules.Items {
		add("/modules/"+m.Slug, m.UpdatedAt)
	}
	return urls, nil
}

// sitemapHandler generates and serves a dynamic sitemap.xml.
func (h *SeoHandler) sitemapHandler(w http.ResponseWriter, r *http.Request) {
	urls, err := h.sitemapEntries(r.Context())
	if err != nil {
		http.Error(w, "Failed to retrieve content for sitemap", http.StatusInternalServerError)
		return
	}

	sitemap := urlSet{Xmlns: sitemapXMLNS, URLs: urls}

	w.Header().Set("Content-Type", "application/xml")
	w.Write([]byte(xml.Header))
	encoder := xml.NewEncoder(w)
	encoder.Indent("", "  ")
	if err := encoder.Encode(sitemap); err != nil {
		http.Error(w, "Failed to generate sitemap XML", http.StatusInternalServerError)
		return
	}
}
