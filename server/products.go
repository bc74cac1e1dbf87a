package server

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/Daskott/rolodex/server/form"
	"github.com/Daskott/rolodex/server/models"
	"github.com/Daskott/rolodex/utils"
	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

const PRODUCTS_APP = "/products"

var productFields = []form.Field{
	{Name: "product_name", Label: "Product name", Type: "text"},
	{Name: "product_cost", Label: "Product cost", Type: "number"},
}

type productRow struct {
	Product   models.Product
	EditURL   string
	DeleteURL string
}

func viewProducts(rc *RequestContext, r *http.Request) Result {
	state := models.ParseSortOrder(r.URL.Query().Get("sort"))

	products, err := rc.Store.ListProducts(state)
	if err != nil {
		return serverError(err)
	}

	rows := make([]productRow, 0, len(products))
	for _, product := range products {
		deleteURL, err := rc.SignedURL(PRODUCTS_APP+"/delete_product",
			url.Values{"product_id": {fmt.Sprint(product.ID)}})
		if err != nil {
			return serverError(err)
		}

		rows = append(rows, productRow{
			Product:   product,
			EditURL:   fmt.Sprintf("%v/edit_product/%v", PRODUCTS_APP, product.ID),
			DeleteURL: deleteURL,
		})
	}

	return Render{
		Template: "products/index.html",
		Data:     map[string]interface{}{"rows": rows, "state": state, "nextState": state.Next()},
	}
}

func addProduct(rc *RequestContext, r *http.Request) Result {
	f, err := form.New(PRODUCTS_APP+"/add_product", productFields, nil, rc.Signer)
	if err != nil {
		return serverError(err)
	}

	if err := f.Process(r, form.Struct(validate, bindProduct)); err != nil {
		return Failure{Status: http.StatusBadRequest, Err: err}
	}

	if f.State() == form.ACCEPTED {
		product, _ := parseProduct(f.Vars)
		if err := f.Persist(func() error { return rc.Store.CreateProduct(product) }); err != nil {
			return serverError(err)
		}

		// We always want POST requests to be redirected as GETs.
		return Redirect{URL: PRODUCTS_APP + "/index"}
	}

	return Render{
		Template: "products/product_form.html",
		Data:     map[string]interface{}{"form": f, "title": "Add product"},
	}
}

func editProduct(rc *RequestContext, r *http.Request) Result {
	productID := mux.Vars(r)["product_id"]

	id, ok := utils.ParseID(productID)
	if !ok {
		return Redirect{URL: PRODUCTS_APP + "/index"}
	}

	product, err := rc.Store.FindProduct(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// Nothing to edit, this only happens when the url is tampered with
		return Redirect{URL: PRODUCTS_APP + "/index"}
	}

	if err != nil {
		return serverError(err)
	}

	record := form.Vars{
		"product_name": form.Value(product.ProductName),
		"product_cost": form.Value(strconv.FormatFloat(product.ProductCost, 'f', -1, 64)),
	}

	f, err := form.New(fmt.Sprintf("%v/edit_product/%v", PRODUCTS_APP, product.ID), productFields, record, rc.Signer)
	if err != nil {
		return serverError(err)
	}

	if err := f.Process(r, form.Struct(validate, bindProduct)); err != nil {
		return Failure{Status: http.StatusBadRequest, Err: err}
	}

	if f.State() == form.ACCEPTED {
		submitted, _ := parseProduct(f.Vars)
		product.ProductName = submitted.ProductName
		product.ProductCost = submitted.ProductCost

		if err := f.Persist(func() error { return rc.Store.UpdateProduct(product) }); err != nil {
			return serverError(err)
		}

		return Redirect{URL: PRODUCTS_APP + "/index"}
	}

	return Render{
		Template: "products/product_form.html",
		Data:     map[string]interface{}{"form": f, "title": "Edit product"},
	}
}

// deleteProduct expects a signed url
func deleteProduct(rc *RequestContext, r *http.Request) Result {
	productID := r.URL.Query().Get("product_id")

	if id, ok := utils.ParseID(productID); ok {
		if err := rc.Store.DeleteProduct(id); err != nil {
			return serverError(err)
		}
		logg.Infof("deleted product id=%v", id)
	}

	return Redirect{URL: PRODUCTS_APP + "/index"}
}

// ---------------------------------------------------------------------------------//
// Helper functions
// --------------------------------------------------------------------------------//

// parseProduct builds a product from submitted values, reporting a cost that isn't a number
func parseProduct(vars form.Vars) (*models.Product, form.Errors) {
	errs := form.Errors{}
	product := &models.Product{ProductName: strings.TrimSpace(vars.Get("product_name"))}

	cost := strings.TrimSpace(vars.Get("product_cost"))
	if cost == "" {
		errs["product_cost"] = "Enter a value"
		return product, errs
	}

	parsed, err := strconv.ParseFloat(cost, 64)
	if err != nil || math.IsNaN(parsed) || math.IsInf(parsed, 0) {
		errs["product_cost"] = "Enter a number"
		return product, errs
	}

	product.ProductCost = parsed
	return product, errs
}

func bindProduct(vars form.Vars) (interface{}, form.Errors) {
	product, errs := parseProduct(vars)
	return product, errs
}
