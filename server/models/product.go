package models

type Product struct {
	BaseModel
	ProductName string  `json:"product_name" validate:"required" gorm:"not null"`
	ProductCost float64 `json:"product_cost" validate:"min=0"`
}

// ListProducts returns every product, sorted by cost according to order
func (store *Store) ListProducts(order SortOrder) ([]Product, error) {
	products := []Product{}

	err := store.db.Scopes(orderBy("product_cost", order)).Find(&products).Error
	if err != nil {
		return nil, err
	}

	return products, nil
}

func (store *Store) FindProduct(id uint) (*Product, error) {
	product := Product{}

	err := store.db.First(&product, id).Error
	if err != nil {
		return nil, err
	}

	return &product, nil
}

func (store *Store) CreateProduct(product *Product) error {
	return store.db.Create(product).Error
}

func (store *Store) UpdateProduct(product *Product) error {
	return store.db.Model(product).Select("product_name", "product_cost").Updates(product).Error
}

// DeleteProduct is a no-op when no product has the given id
func (store *Store) DeleteProduct(id uint) error {
	return store.db.Delete(&Product{}, id).Error
}
