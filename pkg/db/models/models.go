package models

// All lists every persisted model, dependents last.
func All() []any {
	return []any{
		&Product{},
		&Network{},
		&Store{},
		&NetworkProduct{},
		&NetworkStore{},
		&SubmittedItem{},
		&AllowedUser{},
		&AdminUser{},
	}
}
