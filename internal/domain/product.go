package domain

// Product is a catalog entry served by the remote API's public endpoint.
type Product struct {
	ID          string   `json:"_id"`
	Name        string   `json:"name"`
	Slug        string   `json:"slug,omitempty"`
	Description string   `json:"description,omitempty"`
	Category    string   `json:"category,omitempty"`
	Price       float64  `json:"price"`
	Images      []string `json:"images,omitempty"`
	Stock       int      `json:"stock,omitempty"`
}

// ProductQuery filters the public catalog listing.
type ProductQuery struct {
	Page     int
	Limit    int
	Category string
	Search   string
}
