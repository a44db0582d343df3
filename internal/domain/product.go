package domain

// Product is the canonical internal product shape. External records (Mongo
// documents, upstream feeds) are mapped into it at a single normalization
// boundary in the catalog package; nothing past that boundary branches on
// which source produced a record.
type Product struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Price       float64  `json:"price"`
	Images      []string `json:"images"`
	Category    string   `json:"category"`
	Sizes       []string `json:"sizes,omitempty"`
}
