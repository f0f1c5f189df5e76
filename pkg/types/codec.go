package types

// Codec reads and writes whole record collections, one kind at a time.
// Every write replaces the stored collection for that kind.
type Codec interface {
	ReadCompanies() ([]*Company, error)
	ReadProducts() ([]*Product, error)
	ReadUsers() ([]*User, error)
	ReadWarehouses() ([]*Warehouse, error)

	WriteCompanies(companies []*Company) error
	WriteProducts(products []*Product) error
	WriteUsers(users []*User) error
	WriteWarehouses(warehouses []*Warehouse) error

	// Close releases resources held by the codec.
	Close() error
}
