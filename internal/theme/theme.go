// Package theme builds the storefront theme once at startup. The result is
// handed to the handlers that serve it; nothing here is global.
package theme

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

// Overrides are the THEME_* settings. Empty fields keep the template value.
type Overrides struct {
	Template        string
	ProjectName     string
	PrimaryColor    string
	BackgroundColor string
	TextColor       string
	FontFamily      string
	LogoURL         string
	BannerURL       string
}

// Theme is the active template plus the base colours and font.
type Theme struct {
	Template        Template `json:"template"`
	BackgroundColor string   `json:"backgroundColor"`
	TextColor       string   `json:"textColor"`
	FontFamily      string   `json:"fontFamily"`
}

// Set holds every known template and the configured one.
type Set struct {
	active    Theme
	templates map[string]Template
	order     []string
}

// Load picks the configured template and applies the overrides on top.
func Load(o Overrides) *Set {
	s := &Set{templates: make(map[string]Template)}
	for _, tpl := range builtinTemplates() {
		s.templates[tpl.ID] = tpl
		s.order = append(s.order, tpl.ID)
	}

	id := o.Template
	if _, ok := s.templates[id]; !ok {
		if id != "" {
			slog.Warn("Unknown theme template, using default", "template", id, "default", DefaultTemplateID)
		}
		id = DefaultTemplateID
	}

	tpl := clone(s.templates[id])
	if o.ProjectName != "" {
		tpl.Brand.Name = o.ProjectName
	}
	if o.PrimaryColor != "" {
		tpl.Primary["500"] = o.PrimaryColor
		tpl.Primary["600"] = AdjustColor(o.PrimaryColor, -20)
		tpl.Accent.Main = o.PrimaryColor
	}
	if o.LogoURL != "" {
		tpl.Brand.Logo = o.LogoURL
	}
	if o.BannerURL != "" {
		if len(tpl.Banners) == 0 {
			tpl.Banners = []Banner{{ID: "1", Title: strings.ToUpper(tpl.Brand.Name)}}
		}
		tpl.Banners[0].Image = o.BannerURL
	}

	s.active = Theme{
		Template:        tpl,
		BackgroundColor: orDefault(o.BackgroundColor, "#f9fafb"),
		TextColor:       orDefault(o.TextColor, "#111827"),
		FontFamily:      orDefault(o.FontFamily, "Inter, system-ui, sans-serif"),
	}

	slog.Info("Theme loaded", "template", tpl.ID, "brand", tpl.Brand.Name, "primary_color", tpl.Primary["500"])
	return s
}

// Active returns the configured theme.
func (s *Set) Active() Theme {
	return s.active
}

// Lookup returns the theme for id, or the configured theme when id is
// empty or unknown. Base colours and font always come from the configuration.
func (s *Set) Lookup(id string) Theme {
	if id == "" || id == s.active.Template.ID {
		return s.active
	}
	tpl, ok := s.templates[id]
	if !ok {
		return s.active
	}
	t := s.active
	t.Template = clone(tpl)
	return t
}

// TemplateIDs lists the available templates in a stable order.
func (s *Set) TemplateIDs() []string {
	return append([]string(nil), s.order...)
}

// CSSVariables are the custom properties the app sets on its root element.
func (t Theme) CSSVariables() map[string]string {
	primary := t.Template.Primary["500"]
	return map[string]string{
		"--color-primary":            primary,
		"--color-primary-500":        primary,
		"--color-primary-600":        AdjustColor(primary, -20),
		"--color-background":         t.BackgroundColor,
		"--color-background-primary": t.BackgroundColor,
		"--color-text":               t.TextColor,
		"--color-text-primary":       t.TextColor,
		"--font-family":              t.FontFamily,
		"--font-family-primary":      t.FontFamily,
	}
}

// AdjustColor shifts each RGB channel of a #rrggbb colour by amount,
// clamped to [0, 255]. Input that is not a six-digit hex colour is returned as is.
func AdjustColor(color string, amount int) string {
	hex := strings.TrimPrefix(color, "#")
	if len(hex) != 6 {
		return color
	}
	rgb, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color
	}
	r := clamp(int(rgb>>16&0xff) + amount)
	g := clamp(int(rgb>>8&0xff) + amount)
	b := clamp(int(rgb&0xff) + amount)
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}

func clone(t Template) Template {
	out := t
	out.Primary = make(Palette, len(t.Primary))
	for k, v := range t.Primary {
		out.Primary[k] = v
	}
	out.Banners = append([]Banner(nil), t.Banners...)
	return out
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
