package pagination

import (
	"net/url"
	"strconv"

	"github.com/shopspring/decimal"
)

const DefaultSortOrder = "desc"

// Query is the common list query understood by the shop API.
type Query struct {
	Page      int
	Limit     int
	SortBy    string
	SortOrder string
	Search    string
}

// Values encodes the query, leaving out anything equal to the default.
func (q Query) Values() url.Values {
	params := url.Values{}
	if q.Page > 1 {
		params.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 && q.Limit != DefaultLimit {
		params.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.SortBy != "" {
		params.Set("sortBy", q.SortBy)
	}
	if q.SortOrder != "" && q.SortOrder != DefaultSortOrder {
		params.Set("sortOrder", q.SortOrder)
	}
	if q.Search != "" {
		params.Set("search", q.Search)
	}
	return params
}

// ProductQuery adds the catalog filters.
type ProductQuery struct {
	Query
	CategoryID  string
	Status      string
	Visibility  string
	StockStatus string
	MinPrice    *decimal.Decimal
	MaxPrice    *decimal.Decimal
}

func (q ProductQuery) Values() url.Values {
	params := q.Query.Values()
	if q.CategoryID != "" {
		params.Set("categoryId", q.CategoryID)
	}
	if q.Status != "" {
		params.Set("status", q.Status)
	}
	if q.Visibility != "" {
		params.Set("visibility", q.Visibility)
	}
	if q.StockStatus != "" {
		params.Set("stockStatus", q.StockStatus)
	}
	if q.MinPrice != nil {
		params.Set("minPrice", q.MinPrice.String())
	}
	if q.MaxPrice != nil {
		params.Set("maxPrice", q.MaxPrice.String())
	}
	return params
}

// OrderQuery adds the order filters.
type OrderQuery struct {
	Query
	Status        string
	PaymentStatus string
	StartDate     string
	EndDate       string
}

func (q OrderQuery) Values() url.Values {
	params := q.Query.Values()
	if q.Status != "" {
		params.Set("status", q.Status)
	}
	if q.PaymentStatus != "" {
		params.Set("paymentStatus", q.PaymentStatus)
	}
	if q.StartDate != "" {
		params.Set("startDate", q.StartDate)
	}
	if q.EndDate != "" {
		params.Set("endDate", q.EndDate)
	}
	return params
}

// Request returns the local paging window for q.
func (q OrderQuery) Request() Request {
	return Request{Page: q.Page, Limit: q.Limit, Status: q.Status}
}

// ParseQuery reads the common parameters from an incoming request's query string.
func ParseQuery(values url.Values) Query {
	return Query{
		Page:      atoi(values.Get("page"), DefaultPage),
		Limit:     atoi(values.Get("limit"), DefaultLimit),
		SortBy:    values.Get("sortBy"),
		SortOrder: values.Get("sortOrder"),
		Search:    values.Get("search"),
	}
}

// ParseProductQuery reads the catalog filters as well. Unparseable prices are ignored.
func ParseProductQuery(values url.Values) ProductQuery {
	q := ProductQuery{
		Query:       ParseQuery(values),
		CategoryID:  values.Get("categoryId"),
		Status:      values.Get("status"),
		Visibility:  values.Get("visibility"),
		StockStatus: values.Get("stockStatus"),
	}
	if d, err := decimal.NewFromString(values.Get("minPrice")); err == nil {
		q.MinPrice = &d
	}
	if d, err := decimal.NewFromString(values.Get("maxPrice")); err == nil {
		q.MaxPrice = &d
	}
	return q
}

func ParseOrderQuery(values url.Values) OrderQuery {
	return OrderQuery{
		Query:         ParseQuery(values),
		Status:        values.Get("status"),
		PaymentStatus: values.Get("paymentStatus"),
		StartDate:     values.Get("startDate"),
		EndDate:       values.Get("endDate"),
	}
}

func atoi(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
