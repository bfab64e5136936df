package theme

// Palette maps a shade ("50" to "900") to a hex colour.
type Palette map[string]string

type Accent struct {
	Light  string `json:"light"`
	Main   string `json:"main"`
	Dark   string `json:"dark"`
	Accent string `json:"accent"`
}

type Brand struct {
	Name        string `json:"name"`
	Tagline     string `json:"tagline"`
	Logo        string `json:"logo"`
	Description string `json:"description"`
}

type Features struct {
	ShowCategories       bool `json:"showCategories"`
	ShowBanner           bool `json:"showBanner"`
	ShowFeaturedProducts bool `json:"showFeaturedProducts"`
	ShowSearch           bool `json:"showSearch"`
	ShowTrending         bool `json:"showTrending"`
}

type Layout struct {
	HeaderStyle     string `json:"headerStyle"`
	CardStyle       string `json:"cardStyle"`
	NavigationStyle string `json:"navigationStyle"`
}

type Banner struct {
	ID       string `json:"id"`
	Image    string `json:"image"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
}

// Template is a complete storefront look.
type Template struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Primary  Palette  `json:"primary"`
	Accent   Accent   `json:"accent"`
	Brand    Brand    `json:"brand"`
	Features Features `json:"features"`
	Layout   Layout   `json:"layout"`
	Banners  []Banner `json:"banners"`
}

const DefaultTemplateID = "cosmetic"

var allFeatures = Features{
	ShowCategories:       true,
	ShowBanner:           true,
	ShowFeaturedProducts: true,
	ShowSearch:           true,
	ShowTrending:         true,
}

var defaultLayout = Layout{HeaderStyle: "gradient", CardStyle: "modern", NavigationStyle: "bottom"}

func builtinTemplates() []Template {
	return []Template{
		{
			ID:   "cosmetic",
			Name: "Cosmetic Store",
			Primary: Palette{
				"50": "#f0fdf4", "100": "#dcfce7", "200": "#bbf7d0", "300": "#86efac", "400": "#4ade80",
				"500": "#22c55e", "600": "#16a34a", "700": "#15803d", "800": "#166534", "900": "#14532d",
			},
			Accent:   Accent{Light: "#f0fdf4", Main: "#22c55e", Dark: "#15803d", Accent: "#fbbf24"},
			Brand:    Brand{Name: "Veridian Bloom", Tagline: "Nature's Embrace", Logo: "/static/cosmetic.png", Description: "Premium natural cosmetics"},
			Features: allFeatures,
			Layout:   defaultLayout,
			Banners: []Banner{{
				ID:       "1",
				Image:    "https://images.unsplash.com/photo-1556228720-195a672e8a03?w=800&h=500&fit=crop&crop=center",
				Title:    "VERIDIAN BLOOM",
				Subtitle: "NATURE'S EMBRACE",
			}},
		},
		{
			ID:   "fashion",
			Name: "Fashion Store",
			Primary: Palette{
				"50": "#fef2f2", "100": "#fee2e2", "200": "#fecaca", "300": "#fca5a5", "400": "#f87171",
				"500": "#ef4444", "600": "#dc2626", "700": "#b91c1c", "800": "#991b1b", "900": "#7f1d1d",
			},
			Accent:   Accent{Light: "#fef2f2", Main: "#ef4444", Dark: "#b91c1c", Accent: "#f59e0b"},
			Brand:    Brand{Name: "Style Hub", Tagline: "Fashion Forward", Logo: "/static/fashion.png", Description: "Everyday fashion"},
			Features: allFeatures,
			Layout:   defaultLayout,
		},
		{
			ID:   "electronics",
			Name: "Electronics Store",
			Primary: Palette{
				"50": "#eff6ff", "100": "#dbeafe", "200": "#bfdbfe", "300": "#93c5fd", "400": "#60a5fa",
				"500": "#3b82f6", "600": "#2563eb", "700": "#1d4ed8", "800": "#1e40af", "900": "#1e3a8a",
			},
			Accent:   Accent{Light: "#eff6ff", Main: "#3b82f6", Dark: "#1d4ed8", Accent: "#10b981"},
			Brand:    Brand{Name: "TechZone", Tagline: "Innovation First", Logo: "/static/electronics.png", Description: "Phones, laptops and gear"},
			Features: allFeatures,
			Layout:   defaultLayout,
		},
	}
}
