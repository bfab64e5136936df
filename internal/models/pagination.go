package models

// PaginationMeta describes one page of a collection.
type PaginationMeta struct {
	Page        int  `json:"page"`
	Limit       int  `json:"limit"`
	Total       int  `json:"total"`
	TotalPages  int  `json:"totalPages"`
	HasPrevious bool `json:"hasPrevious"`
	HasNext     bool `json:"hasNext"`
}

// PaginatedResponse is the {data, meta} shape shared by server-paginated
// and locally paginated collections.
type PaginatedResponse[T any] struct {
	Data  []T            `json:"data"`
	Meta  PaginationMeta `json:"meta"`
	Error string         `json:"error,omitempty"`
}

// Validate checks the element type when it knows how to validate itself.
func (p PaginatedResponse[T]) Validate() error {
	for _, item := range p.Data {
		if v, ok := any(item).(interface{ Validate() error }); ok {
			if err := v.Validate(); err != nil {
				return err
			}
		}
	}
	return nil
}
