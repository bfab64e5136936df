package handlers

import (
	"net/http"

	"zshop-storefront-api/internal/theme"
)

// ThemeHandler serves the storefront look.
type ThemeHandler struct {
	themes *theme.Set
}

func NewThemeHandler(themes *theme.Set) *ThemeHandler {
	return &ThemeHandler{themes: themes}
}

type themeResponse struct {
	theme.Theme
	CSSVariables map[string]string `json:"cssVariables"`
	Templates    []string          `json:"templates"`
}

// GetTheme handles GET /v1/theme[?template=id].
func (h *ThemeHandler) GetTheme(w http.ResponseWriter, r *http.Request) {
	t := h.themes.Lookup(r.URL.Query().Get("template"))
	writeJSONResponse(w, http.StatusOK, themeResponse{
		Theme:        t,
		CSSVariables: t.CSSVariables(),
		Templates:    h.themes.TemplateIDs(),
	})
}
