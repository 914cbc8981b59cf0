package handler

import (
	"fmt"
	"ir-portal/internal/middleware"
	"ir-portal/internal/service"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// positiveParam reads an optional positive integer query parameter; 0 means absent.
func positiveParam(q url.Values, name string) (int, *middleware.AppError) {
	raw := strings.TrimSpace(q.Get(name))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, badRequest(fmt.Sprintf("%s must be a positive integer", name))
	}
	return n, nil
}

// boolParam reads an optional true/false query parameter.
func boolParam(q url.Values, name string) (*bool, *middleware.AppError) {
	raw := strings.TrimSpace(q.Get(name))
	if raw == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, badRequest(fmt.Sprintf("%s must be true or false", name))
	}
	return &b, nil
}

// listQuery parses search, page, pageSize, limit and published, and tags the query with the caller's role.
func listQuery(r *http.Request, defaultPageSize int) (service.ListQuery, *middleware.AppError) {
	q := r.URL.Query()
	page, appErr := positiveParam(q, "page")
	if appErr != nil {
		return service.ListQuery{}, appErr
	}
	pageSize, appErr := positiveParam(q, "pageSize")
	if appErr != nil {
		return service.ListQuery{}, appErr
	}
	limit, appErr := positiveParam(q, "limit")
	if appErr != nil {
		return service.ListQuery{}, appErr
	}
	published, appErr := boolParam(q, "published")
	if appErr != nil {
		return service.ListQuery{}, appErr
	}
	return service.ListQuery{
		Admin:      middleware.GetUserInfo(r.Context()).IsAdmin(),
		Published:  published,
		Search:     q.Get("search"),
		Pagination: service.NewPagination(page, pageSize, limit, defaultPageSize),
	}, nil
}
