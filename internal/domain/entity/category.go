package entity

import "time"

// Category agrupa productos en el catálogo (perfumes, accesorios, ...).
type Category struct {
	ID        string
	Name      string
	Slug      string // único, usado por el storefront en filtros
	CreatedAt time.Time
}
