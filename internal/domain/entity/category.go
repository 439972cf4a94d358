package entity

// Category agrupa productos para catálogos y reportes. ParentID nil = categoría raíz.
type Category struct {
	ID       int64
	ParentID *int64
	Name     string
	Audit
}
