package handlers

import (
	"net/http"

	"zshop-storefront-api/internal/services"
)

// LocationHandler serves address autocomplete.
type LocationHandler struct {
	locations *services.LocationService
}

func NewLocationHandler(locations *services.LocationService) *LocationHandler {
	return &LocationHandler{locations: locations}
}

// Autocomplete handles GET /v1/location/autocomplete?input=. Calls that a
// newer keystroke overtook answer with status SUPERSEDED.
func (h *LocationHandler) Autocomplete(w http.ResponseWriter, r *http.Request) {
	resp, err := h.locations.Autocomplete(r.Context(), shopperKey(r), r.URL.Query().Get("input"))
	if err != nil {
		writeServiceError(w, r, err, "Failed to load address suggestions")
		return
	}
	writeJSONResponse(w, http.StatusOK, resp)
}
