package variant

import "zshop-storefront-api/internal/models"

// ValueOption is one selectable value as the product page shows it.
type ValueOption struct {
	Value     string `json:"value"`
	Available bool   `json:"available"`
	Selected  bool   `json:"selected"`
}

type GroupView struct {
	Name        string        `json:"name"`
	DisplayName string        `json:"displayName,omitempty"`
	Options     []ValueOption `json:"options"`
}

// View is everything the variant picker needs to render after a change.
type View struct {
	Selection   Selection       `json:"selection"`
	Groups      []GroupView     `json:"groups"`
	Variant     *models.Variant `json:"variant"`
	Quantity    int             `json:"quantity"`
	MaxQuantity int             `json:"maxQuantity"`
	CanPurchase bool            `json:"canPurchase"`
}

// View resolves selection and clamps quantity against the result.
func (r *Resolver) View(selection Selection, quantity int) View {
	if selection == nil {
		selection = Selection{}
	}
	resolved := r.Resolve(selection)

	groups := make([]GroupView, 0, len(r.groups))
	for _, g := range r.groups {
		gv := GroupView{Name: g.Name, DisplayName: g.DisplayName, Options: make([]ValueOption, 0, len(g.Values))}
		for _, value := range g.Values {
			gv.Options = append(gv.Options, ValueOption{
				Value:     value,
				Available: r.IsAttributeValueAvailable(g.Name, value),
				Selected:  selection[g.Name] == value,
			})
		}
		groups = append(groups, gv)
	}

	view := View{
		Selection:   selection,
		Groups:      groups,
		Variant:     resolved,
		Quantity:    ClampQuantity(quantity, resolved),
		CanPurchase: resolved != nil,
	}
	if resolved != nil {
		view.MaxQuantity = resolved.Stock
	}
	return view
}
