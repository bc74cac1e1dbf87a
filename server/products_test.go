package server

import (
	"fmt"
	"net/http"
	"net/url"
	"testing"

	"github.com/Daskott/rolodex/server/form"
	"github.com/Daskott/rolodex/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViewProducts(t *testing.T) {
	app := newTestApp(t)
	for _, product := range []models.Product{
		{ProductName: "Kettle", ProductCost: 30},
		{ProductName: "Mug", ProductCost: 5.5},
		{ProductName: "Teapot", ProductCost: 12},
	} {
		product := product
		require.Nil(t, app.store.CreateProduct(&product))
	}

	testCases := []struct {
		sort          string
		expectedState models.SortOrder
		expectedNext  models.SortOrder
		expectedNames []string
	}{
		{"", models.SORT_NONE, models.SORT_ASC, []string{"Kettle", "Mug", "Teapot"}},
		{"asc", models.SORT_ASC, models.SORT_DESC, []string{"Mug", "Teapot", "Kettle"}},
		{"desc", models.SORT_DESC, models.SORT_NONE, []string{"Kettle", "Teapot", "Mug"}},
		{"sideways", models.SORT_NONE, models.SORT_ASC, []string{"Kettle", "Mug", "Teapot"}},
	}

	for _, tc := range testCases {
		t.Run(fmt.Sprintf("sort=%v", tc.sort), func(t *testing.T) {
			rc := newTestContext(app, nil)
			render := viewProducts(rc, getRequest("/products/index?sort="+tc.sort, nil)).(Render)

			assert.Equal(t, tc.expectedState, render.Data["state"])
			assert.Equal(t, tc.expectedNext, render.Data["nextState"])

			names := []string{}
			for _, row := range render.Data["rows"].([]productRow) {
				names = append(names, row.Product.ProductName)
			}
			assert.Equal(t, tc.expectedNames, names)
		})
	}
}

func TestParseProduct(t *testing.T) {
	testCases := []struct {
		cost          string
		expectedCost  float64
		expectedError string
	}{
		{"12.50", 12.5, ""},
		{" 3 ", 3, ""},
		{"", 0, "Enter a value"},
		{"cheap", 0, "Enter a number"},
		{"NaN", 0, "Enter a number"},
		{"Inf", 0, "Enter a number"},
	}

	for _, tc := range testCases {
		t.Run(tc.cost, func(t *testing.T) {
			product, errs := parseProduct(form.Vars{"product_name": form.Value("Mug"), "product_cost": form.Value(tc.cost)})

			assert.Equal(t, tc.expectedCost, product.ProductCost)
			assert.Equal(t, tc.expectedError, errs["product_cost"])
		})
	}
}

func TestAddAndEditProduct(t *testing.T) {
	app := newTestApp(t)
	rc := newTestContext(app, nil)

	r := postForm(t, rc, "/products/add_product", url.Values{"product_name": {"Mug"}, "product_cost": {"-1"}}, nil)
	render := addProduct(rc, r).(Render)
	assert.Equal(t, "Enter a number greater than or equal to 0", render.Data["form"].(*form.Form).Error("product_cost"))

	r = postForm(t, rc, "/products/add_product", url.Values{"product_name": {"Mug"}, "product_cost": {"4.25"}}, nil)
	assert.Equal(t, Redirect{URL: "/products/index"}, addProduct(rc, r))

	products, _ := app.store.ListProducts(models.SORT_NONE)
	require.Len(t, products, 1)
	assert.Equal(t, 4.25, products[0].ProductCost)

	id := fmt.Sprint(products[0].ID)
	vars := map[string]string{"product_id": id}

	render = editProduct(rc, getRequest("/products/edit_product/"+id, vars)).(Render)
	assert.Equal(t, "4.25", render.Data["form"].(*form.Form).Value("product_cost"))

	r = postForm(t, rc, "/products/edit_product/"+id, url.Values{"product_name": {"Big mug"}, "product_cost": {"6"}}, vars)
	assert.Equal(t, Redirect{URL: "/products/index"}, editProduct(rc, r))

	found, _ := app.store.FindProduct(products[0].ID)
	assert.Equal(t, "Big mug", found.ProductName)
	assert.Equal(t, 6.0, found.ProductCost)

	result := editProduct(rc, getRequest("/products/edit_product/999", map[string]string{"product_id": "999"}))
	assert.Equal(t, Redirect{URL: "/products/index"}, result)
}

func TestDeleteProduct(t *testing.T) {
	app := newTestApp(t)
	product := &models.Product{ProductName: "Mug", ProductCost: 5}
	require.Nil(t, app.store.CreateProduct(product))

	rc := newTestContext(app, nil)
	params := url.Values{"product_id": {fmt.Sprint(product.ID)}}
	deleteAction := requireSignature(deleteProduct)

	failure := deleteAction(rc, getRequest("/products/delete_product?"+params.Encode(), nil)).(Failure)
	assert.Equal(t, http.StatusForbidden, failure.Status)
	_, err := app.store.FindProduct(product.ID)
	assert.Nil(t, err)

	assert.Equal(t, Redirect{URL: "/products/index"}, deleteAction(rc, signedRequest(t, rc, "/products/delete_product", params)))
	_, err = app.store.FindProduct(product.ID)
	assert.NotNil(t, err)

	assert.Equal(t, Redirect{URL: "/products/index"}, deleteAction(rc, signedRequest(t, rc, "/products/delete_product", params)))
}
