package category

type CategoriesResponse struct {
	Kind       Kind       `json:"kind"`
	Categories []Category `json:"categories"`
}

type CatalogResponse struct {
	Income  []Category `json:"income"`
	Expense []Category `json:"expense"`
}
