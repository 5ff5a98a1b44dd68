package catalog

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

// DefaultProfile is the seed configuration used until the shop saves its own
// profile. Mirrors the sample menu the product ships with.
func DefaultProfile() *StoreProfile {
	return &StoreProfile{
		ID:   "default",
		Name: "Mi Ranchito Mar y Lena",
		ModifierGroups: []ModifierGroup{
			{
				Title:         "Elige tu Proteina",
				SelectionType: SelectionSingle,
				MinSelection:  1,
				MaxSelection:  1,
				Options: []ModifierOption{
					{Name: "Carne en Vara", Price: 0},
					{Name: "Puerco", Price: 0},
					{Name: "Mixto", Price: 0},
				},
			},
			{
				Title:              "Proteina Adicional",
				SelectionType:      SelectionMultiple,
				MinSelection:       0,
				MaxSelection:       4,
				FreeSelectionCount: intPtr(1),
				ExtraPrice:         floatPtr(2),
				Options: []ModifierOption{
					{Name: "Carne", Price: 0},
					{Name: "Puerco", Price: 0},
					{Name: "Queso de Mano", Price: 1},
				},
			},
			{
				Title:         "Personaliza (Opcional)",
				SelectionType: SelectionMultiple,
				MinSelection:  0,
				MaxSelection:  10,
				Options: []ModifierOption{
					{Name: "Sin Ensalada", Price: 0},
					{Name: "Sin Queso", Price: 0},
					{Name: "Sin Nata", Price: 0},
					{Name: "Extra Chimichurri", Price: 0.5},
				},
			},
		},
		Menu: []MenuCategory{
			{
				Title: "PLATO FUERTE",
				Items: []MenuItem{
					{
						Name: "Cachapa con Queso de Mano", Price: 12, Available: true,
						Description: "Con 1 rueda de queso de mano, crema y puerco o carne en vara o mixta",
						ModifierGroupTitles: []ModifierAssignment{
							{Group: "Elige tu Proteina", Label: "Elige tu Proteina"},
							{Group: "Proteina Adicional", Label: "Proteina Adicional"},
							{Group: "Personaliza (Opcional)", Label: "Personaliza (Opcional)"},
						},
					},
					{
						Name: "Parrilla Mixta", Price: 18, Available: true,
						ModifierGroupTitles: []ModifierAssignment{
							{Group: "Elige tu Proteina", Label: "Proteina Principal"},
							{Group: "Elige tu Proteina", Label: "Segunda Proteina"},
						},
					},
				},
			},
			{
				Title: "SOPA",
				Items: []MenuItem{
					{Name: "Costilla (con arepa y queso)", Price: 5, Available: true},
					{Name: "Picadillo llanero", Price: 8, Available: true},
				},
			},
		},
		PaymentMethods: []string{"Efectivo", "Pago Movil", "Punto de Venta", "Zelle"},
	}
}
