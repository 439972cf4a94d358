package entity

// Supplier proveedor referenciado opcionalmente por las órdenes.
type Supplier struct {
	ID            int64
	Name          string
	Contact       string
	Address       string
	ContactPerson string
	Audit
}
