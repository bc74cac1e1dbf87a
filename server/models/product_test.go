package models

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func productNames(products []Product) []string {
	names := []string{}
	for _, product := range products {
		names = append(names, product.ProductName)
	}
	return names
}

func TestListProducts(t *testing.T) {
	store := InitializeTestStore(t)

	for _, product := range []Product{
		{ProductName: "lamp", ProductCost: 30},
		{ProductName: "desk", ProductCost: 120},
		{ProductName: "pen", ProductCost: 2},
		{ProductName: "mug", ProductCost: 30},
	} {
		product := product
		require.Nil(t, store.CreateProduct(&product))
	}

	cases := []struct {
		sort     string
		expected []string
	}{
		{"none", []string{"lamp", "desk", "pen", "mug"}},
		{"asc", []string{"pen", "lamp", "mug", "desk"}},
		{"desc", []string{"desk", "lamp", "mug", "pen"}},
		{"sideways", []string{"lamp", "desk", "pen", "mug"}},
		{"", []string{"lamp", "desk", "pen", "mug"}},
	}

	for _, c := range cases {
		t.Run("sort="+c.sort, func(t *testing.T) {
			products, err := store.ListProducts(ParseSortOrder(c.sort))
			assert.Nil(t, err)
			assert.Equal(t, c.expected, productNames(products))
		})
	}
}

func TestProductLifecycle(t *testing.T) {
	store := InitializeTestStore(t)

	product := &Product{ProductName: "lamp", ProductCost: 30}
	require.Nil(t, store.CreateProduct(product))
	assert.NotZero(t, product.ID)

	product.ProductName = "floor lamp"
	product.ProductCost = 45.5
	assert.Nil(t, store.UpdateProduct(product))

	found, err := store.FindProduct(product.ID)
	assert.Nil(t, err)
	assert.Equal(t, "floor lamp", found.ProductName)
	assert.Equal(t, 45.5, found.ProductCost)

	assert.Nil(t, store.DeleteProduct(product.ID))
	assert.Nil(t, store.DeleteProduct(product.ID), "Deleting twice should be a no-op")

	_, err = store.FindProduct(product.ID)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestSortOrderNext(t *testing.T) {
	assert.Equal(t, SORT_ASC, SORT_NONE.Next())
	assert.Equal(t, SORT_DESC, SORT_ASC.Next())
	assert.Equal(t, SORT_NONE, SORT_DESC.Next())
}
