package catalog

import "encoding/json"

// ModifierOption is an addable attribute of a menu item.
type ModifierOption struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// SelectionType says whether a modifier group behaves as radio buttons or
// checkboxes.
type SelectionType string

const (
	SelectionSingle   SelectionType = "single"
	SelectionMultiple SelectionType = "multiple"
)

// ModifierGroup is a reusable set of options attached to menu items.
// FreeSelectionCount and ExtraPrice, when both present, define the tiered
// pricing policy: the first FreeSelectionCount picks are charged at the
// option's own price, every later pick at the flat ExtraPrice.
type ModifierGroup struct {
	Title              string           `json:"title"`
	SelectionType      SelectionType    `json:"selectionType"`
	MinSelection       int              `json:"minSelection"`
	MaxSelection       int              `json:"maxSelection"`
	Options            []ModifierOption `json:"options"`
	FreeSelectionCount *int             `json:"freeSelectionCount,omitempty"`
	ExtraPrice         *float64         `json:"extraPrice,omitempty"`
}

// Tiered reports whether the group carries a free/extra pricing policy.
func (g *ModifierGroup) Tiered() bool {
	return g.FreeSelectionCount != nil && g.ExtraPrice != nil
}

// Option looks up an option by name.
func (g *ModifierGroup) Option(name string) (ModifierOption, bool) {
	for _, opt := range g.Options {
		if opt.Name == name {
			return opt, true
		}
	}
	return ModifierOption{}, false
}

// ModifierAssignment attaches a modifier group to a menu item, optionally
// under a different display label (combo reuse). In JSON it is either a bare
// group title or {"group": ..., "label": ...}; both forms decode to the
// normalized pair, so downstream code never sees the union.
type ModifierAssignment struct {
	Group string `json:"group"`
	Label string `json:"label"`
}

func (a *ModifierAssignment) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var title string
		if err := json.Unmarshal(data, &title); err != nil {
			return err
		}
		a.Group, a.Label = title, title
		return nil
	}
	type plain ModifierAssignment
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*a = ModifierAssignment(p)
	if a.Label == "" {
		a.Label = a.Group
	}
	return nil
}

func (a ModifierAssignment) MarshalJSON() ([]byte, error) {
	if a.Label == a.Group {
		return json.Marshal(a.Group)
	}
	type plain ModifierAssignment
	return json.Marshal(plain(a))
}

// MenuItem is one sellable product. Catalog data is immutable configuration;
// the order core never writes back into it.
type MenuItem struct {
	Name                string               `json:"name"`
	Price               float64              `json:"price"`
	Available           bool                 `json:"available"`
	Description         string               `json:"description,omitempty"`
	ModifierGroupTitles []ModifierAssignment `json:"modifierGroupTitles,omitempty"`
}

// MenuCategory groups menu items for display.
type MenuCategory struct {
	Title string     `json:"title"`
	Items []MenuItem `json:"items"`
}

// StoreProfile is the static business configuration the core consumes.
type StoreProfile struct {
	ID                    string          `json:"id"`
	Name                  string          `json:"name"`
	Menu                  []MenuCategory  `json:"menu"`
	ModifierGroups        []ModifierGroup `json:"modifierGroups"`
	WhatsappNumber        string          `json:"whatsappNumber,omitempty"`
	KitchenWhatsappNumber string          `json:"kitchenWhatsappNumber,omitempty"`
	AdminWhatsappNumber   string          `json:"adminWhatsappNumber,omitempty"`
	PaymentMethods        []string        `json:"paymentMethods,omitempty"`
}

// Group looks up a modifier group definition by its real title.
func (p *StoreProfile) Group(title string) (*ModifierGroup, bool) {
	for i := range p.ModifierGroups {
		if p.ModifierGroups[i].Title == title {
			return &p.ModifierGroups[i], true
		}
	}
	return nil, false
}

// Item looks up a menu item by name across categories.
func (p *StoreProfile) Item(name string) (*MenuItem, bool) {
	for i := range p.Menu {
		for j := range p.Menu[i].Items {
			if p.Menu[i].Items[j].Name == name {
				return &p.Menu[i].Items[j], true
			}
		}
	}
	return nil, false
}

// LabeledGroup is a modifier group resolved for one menu item, carrying the
// per-item display label selections and cart lines are keyed by.
type LabeledGroup struct {
	ModifierGroup
	DisplayLabel string
}
