package httphandler

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
	"github.com/shopspring/decimal"
)

// GET v1/products?category=fabrics&category=designs&price_min=0&price_max=500&sort=price-low (200 OK, 400 Bad request)
// GET v1/categories (200 OK)

// unboundedPrice is the upper bound used when price_max is absent.
var unboundedPrice = decimal.New(1, 12)

type CatalogHandler struct {
	products   port.ProductsLister
	categories port.CategoriesLister
	money      moneyFmt
}

func RegisterCatalog(
	mux *http.ServeMux,
	products port.ProductsLister,
	categories port.CategoriesLister,
	formatter port.PriceFormatter,
) {
	h := CatalogHandler{products, categories, moneyFmt{formatter: formatter}}
	mux.HandleFunc("GET /v1/products", h.GetProducts)
	mux.HandleFunc("GET /v1/categories", h.GetCategories)
}

func (h CatalogHandler) GetProducts(w http.ResponseWriter, r *http.Request) {
	const op = "CatalogHandler.GetProducts"
	log := slog.With("op", op)

	criteria, err := criteriaFromQuery(r)
	if err != nil {
		writeError(w, log, err, "failed to list products")
		return
	}

	key, defaulted, err := sortKeyFromQuery(r)
	if err != nil {
		writeError(w, log, err, "failed to list products")
		return
	}
	if defaulted {
		log.Debug("sort key defaulted", "sort", key)
	}

	listing, err := h.products.ListProducts(r.Context(), criteria, key)
	if err != nil {
		writeError(w, log, err, "failed to list products")
		return
	}

	writeJSON(w, http.StatusOK, h.money.listing(listing, key, defaulted))
}

func (h CatalogHandler) GetCategories(w http.ResponseWriter, r *http.Request) {
	const op = "CatalogHandler.GetCategories"
	log := slog.With("op", op)

	cs, err := h.categories.ListCategories(r.Context())
	if err != nil {
		writeError(w, log, err, "failed to list categories")
		return
	}

	writeJSON(w, http.StatusOK, categoriesOf(cs))
}

func criteriaFromQuery(r *http.Request) (domain.FilterCriteria, error) {
	q := r.URL.Query()

	var categories []string
	for _, v := range q["category"] {
		for _, c := range strings.Split(v, ",") {
			if c = strings.TrimSpace(c); c != "" {
				categories = append(categories, c)
			}
		}
	}

	priceMin, err := decimalParam(q.Get("price_min"), "price_min", decimal.Zero)
	if err != nil {
		return domain.FilterCriteria{}, err
	}
	rawMax := q.Get("price_max")
	priceMax, err := decimalParam(rawMax, "price_max", unboundedPrice)
	if err != nil {
		return domain.FilterCriteria{}, err
	}
	// an absent bound never rejects the minimum
	if rawMax == "" && priceMin.GreaterThan(priceMax) {
		priceMax = priceMin
	}

	return domain.FilterCriteria{
		Categories: categories,
		PriceMin:   priceMin,
		PriceMax:   priceMax,
	}, nil
}

// sortKeyFromQuery reports whether the featured order was used
// because the parameter is absent.
func sortKeyFromQuery(r *http.Request) (domain.SortKey, bool, error) {
	raw := r.URL.Query().Get("sort")
	if raw == "" {
		return domain.SortFeatured, true, nil
	}
	key, err := domain.ParseSortKey(raw)
	if err != nil {
		return "", false, err
	}
	return key, false, nil
}

func decimalParam(raw, name string, fallback decimal.Decimal) (decimal.Decimal, error) {
	if raw == "" {
		return fallback, nil
	}
	v, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s=%q is not a number", domain.ErrParse, name, raw)
	}
	return v, nil
}
