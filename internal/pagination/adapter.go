// Package pagination pages flat collections locally so they can be served
// with the same {data, meta} contract as server-paginated endpoints.
package pagination

import (
	"zshop-storefront-api/internal/models"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 50
)

// PageSizes are the sizes offered by the page-size picker.
var PageSizes = []int{10, 20, 50}

// Request is the page window plus the optional status filter.
type Request struct {
	Page   int
	Limit  int
	Status string
}

// Normalize applies defaults and caps the limit.
func (r Request) Normalize() Request {
	if r.Page < 1 {
		r.Page = DefaultPage
	}
	if r.Limit < 1 {
		r.Limit = DefaultLimit
	}
	if r.Limit > MaxLimit {
		r.Limit = MaxLimit
	}
	return r
}

// Paginate filters items by status when one is requested, then returns the
// requested window. statusOf may be nil when items have no status.
func Paginate[T any](items []T, req Request, statusOf func(T) string) models.PaginatedResponse[T] {
	req = req.Normalize()

	filtered := items
	if req.Status != "" && statusOf != nil {
		filtered = make([]T, 0, len(items))
		for _, item := range items {
			if statusOf(item) == req.Status {
				filtered = append(filtered, item)
			}
		}
	}

	total := len(filtered)
	meta := buildMeta(req, total)

	// Page is unbounded; compare page counts before multiplying.
	start := total
	if req.Page-1 < (total+req.Limit-1)/req.Limit {
		start = (req.Page - 1) * req.Limit
	}
	end := total
	if total-start > req.Limit {
		end = start + req.Limit
	}

	data := make([]T, end-start)
	copy(data, filtered[start:end])

	return models.PaginatedResponse[T]{Data: data, Meta: meta}
}

// Failed is the page shown when the collection could not be fetched.
func Failed[T any](req Request, err error) models.PaginatedResponse[T] {
	req = req.Normalize()
	resp := models.PaginatedResponse[T]{
		Data: []T{},
		Meta: buildMeta(req, 0),
	}
	if err != nil {
		resp.Error = err.Error()
	}
	return resp
}

func buildMeta(req Request, total int) models.PaginationMeta {
	totalPages := (total + req.Limit - 1) / req.Limit
	return models.PaginationMeta{
		Page:        req.Page,
		Limit:       req.Limit,
		Total:       total,
		TotalPages:  totalPages,
		HasPrevious: req.Page > 1,
		HasNext:     req.Page < totalPages,
	}
}
