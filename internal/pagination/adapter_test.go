package pagination

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type order struct {
	id     string
	status string
}

func orderStatus(o order) string { return o.status }

// makeOrders returns 25 orders of which 12 are confirmed.
func makeOrders() []order {
	out := make([]order, 0, 25)
	for i := 1; i <= 25; i++ {
		status := "pending"
		if i <= 12 {
			status = "confirmed"
		}
		out = append(out, order{id: fmt.Sprintf("o%02d", i), status: status})
	}
	return out
}

func TestPaginate_StatusFilterThenSlice(t *testing.T) {
	page := Paginate(makeOrders(), Request{Page: 2, Limit: 10, Status: "confirmed"}, orderStatus)

	require.Len(t, page.Data, 2)
	assert.Equal(t, "o11", page.Data[0].id)
	assert.Equal(t, "o12", page.Data[1].id)
	assert.Equal(t, 12, page.Meta.Total)
	assert.Equal(t, 2, page.Meta.TotalPages)
	assert.True(t, page.Meta.HasPrevious)
	assert.False(t, page.Meta.HasNext)
}

func TestPaginate_NoFilter(t *testing.T) {
	page := Paginate(makeOrders(), Request{Page: 1, Limit: 10}, orderStatus)

	assert.Len(t, page.Data, 10)
	assert.Equal(t, 25, page.Meta.Total)
	assert.Equal(t, 3, page.Meta.TotalPages)
	assert.False(t, page.Meta.HasPrevious)
	assert.True(t, page.Meta.HasNext)
}

func TestPaginate_Invariants(t *testing.T) {
	items := makeOrders()
	for _, status := range []string{"", "confirmed", "pending", "cancelled"} {
		for _, limit := range []int{1, 3, 10, 20, 50} {
			for p := 1; p <= 30; p++ {
				page := Paginate(items, Request{Page: p, Limit: limit, Status: status}, orderStatus)

				assert.LessOrEqual(t, len(page.Data), limit)
				assert.Equal(t, page.Meta.Page < page.Meta.TotalPages, page.Meta.HasNext)

				want := 0
				for _, o := range items {
					if status == "" || o.status == status {
						want++
					}
				}
				assert.Equal(t, want, page.Meta.Total)
			}
		}
	}
}

func TestPaginate_OutOfRangePageIsEmpty(t *testing.T) {
	page := Paginate(makeOrders(), Request{Page: 9, Limit: 10}, orderStatus)
	assert.Empty(t, page.Data)
	assert.NotNil(t, page.Data)
	assert.False(t, page.Meta.HasNext)
	assert.True(t, page.Meta.HasPrevious)
}

func TestPaginate_NormalizesRequest(t *testing.T) {
	page := Paginate(makeOrders(), Request{Page: 0, Limit: 0}, orderStatus)
	assert.Equal(t, 1, page.Meta.Page)
	assert.Equal(t, DefaultLimit, page.Meta.Limit)

	page = Paginate(makeOrders(), Request{Page: 1, Limit: 500}, orderStatus)
	assert.Equal(t, MaxLimit, page.Meta.Limit)
}

func TestPaginate_NilStatusFuncIgnoresFilter(t *testing.T) {
	page := Paginate([]int{1, 2, 3}, Request{Status: "confirmed"}, nil)
	assert.Equal(t, 3, page.Meta.Total)
}

func TestFailed_EmptyPageWithMessage(t *testing.T) {
	page := Failed[order](Request{Page: 3, Limit: 20}, errors.New("upstream unavailable"))

	assert.Empty(t, page.Data)
	assert.Equal(t, 0, page.Meta.Total)
	assert.Equal(t, 0, page.Meta.TotalPages)
	assert.False(t, page.Meta.HasNext)
	assert.Equal(t, "upstream unavailable", page.Error)
}

func TestQuery_ValuesOmitDefaults(t *testing.T) {
	assert.Empty(t, Query{Page: 1, Limit: 10, SortOrder: "desc"}.Values().Encode())

	values := Query{Page: 2, Limit: 20, SortBy: "price", SortOrder: "asc", Search: "son"}.Values()
	assert.Equal(t, "2", values.Get("page"))
	assert.Equal(t, "20", values.Get("limit"))
	assert.Equal(t, "price", values.Get("sortBy"))
	assert.Equal(t, "asc", values.Get("sortOrder"))
	assert.Equal(t, "son", values.Get("search"))
}

func TestProductQuery_Values(t *testing.T) {
	lo := decimal.NewFromInt(1000)
	q := ProductQuery{CategoryID: "c1", StockStatus: "in_stock", MinPrice: &lo}
	values := q.Values()

	assert.Equal(t, "c1", values.Get("categoryId"))
	assert.Equal(t, "in_stock", values.Get("stockStatus"))
	assert.Equal(t, "1000", values.Get("minPrice"))
	assert.False(t, values.Has("maxPrice"))
}

func TestParseOrderQuery(t *testing.T) {
	values, err := url.ParseQuery("page=3&limit=abc&status=delivered")
	require.NoError(t, err)

	q := ParseOrderQuery(values)
	assert.Equal(t, 3, q.Page)
	assert.Equal(t, DefaultLimit, q.Limit)
	assert.Equal(t, Request{Page: 3, Limit: DefaultLimit, Status: "delivered"}, q.Request())
	encoded := q.Values()
	assert.Equal(t, "delivered", encoded.Get("status"))
	assert.Equal(t, "3", encoded.Get("page"))
	assert.False(t, encoded.Has("limit"))
}

func TestPaginate_HugePageDoesNotOverflow(t *testing.T) {
	items := []int{1, 2, 3}

	q := ParseOrderQuery(url.Values{"page": {"9223372036854775807"}, "limit": {"10"}})
	page := Paginate(items, q.Request(), nil)
	assert.Empty(t, page.Data)
	assert.Equal(t, 3, page.Meta.Total)
	assert.True(t, page.Meta.HasPrevious)
	assert.False(t, page.Meta.HasNext)

	for _, p := range []int{math.MaxInt64 / 5, math.MaxInt64 / 10, math.MaxInt64/10 + 1} {
		page = Paginate(items, Request{Page: p, Limit: 10}, nil)
		assert.Empty(t, page.Data, "page %d", p)
	}
}
