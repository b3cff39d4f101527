package v1

import (
	"context"
	"fmt"
	"image/color"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestProductCRUD(t *testing.T) {
	env := newTestEnv(t)
	token := env.signupAndSignin(t, "asha")

	rec := env.request(t, http.MethodPost, "/api/products", token, ProductPayload{
		Name:     "Red Kurta",
		Price:    799,
		Stock:    5,
		Category: "Kurtas",
		Size:     "M",
		Color:    "Red",
		Images:   []string{testImage(t, color.NRGBA{R: 220, A: 255})},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	created := decodeBody[ProductResponse](t, rec)
	require.NotZero(t, created.ID)
	require.NotEmpty(t, created.UID)
	require.Len(t, created.Images, 1)

	// The catalog write indexed the photo.
	require.Len(t, env.driver.features, 1)

	rec = env.request(t, http.MethodGet, "/api/products", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, decodeBody[[]ProductResponse](t, rec), 1)

	rec = env.request(t, http.MethodGet, fmt.Sprintf("/api/products/%d", created.ID), token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Red Kurta", decodeBody[ProductResponse](t, rec).Name)

	rec = env.request(t, http.MethodPut, fmt.Sprintf("/api/products/%d", created.ID), token, ProductPayload{
		Name:  "Red Kurta",
		Price: 749,
		Stock: 4,
		Images: []string{
			testImage(t, color.NRGBA{R: 220, A: 255}),
			testImage(t, color.NRGBA{R: 180, G: 30, A: 255}),
		},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decodeBody[ProductResponse](t, rec)
	require.Equal(t, 749.0, updated.Price)
	require.Len(t, updated.Images, 2)
	require.Len(t, env.driver.features, 2)

	rec = env.request(t, http.MethodDelete, fmt.Sprintf("/api/products/%d", created.ID), token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// Soft deleted products vanish from the catalog and the feature index.
	rec = env.request(t, http.MethodGet, "/api/products", token, nil)
	require.Empty(t, decodeBody[[]ProductResponse](t, rec))
	require.Empty(t, env.driver.features)
}

func TestProductValidation(t *testing.T) {
	env := newTestEnv(t)
	token := env.signupAndSignin(t, "asha")

	rec := env.request(t, http.MethodPost, "/api/products", token, ProductPayload{Price: 10})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.request(t, http.MethodPost, "/api/products", token, ProductPayload{Name: "x", Price: -1})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProductCrossTenantAccess(t *testing.T) {
	env := newTestEnv(t)
	ashaToken := env.signupAndSignin(t, "asha")
	ravisToken := env.signupAndSignin(t, "ravi")

	rec := env.request(t, http.MethodPost, "/api/products", ashaToken, ProductPayload{Name: "Red Kurta", Price: 799, Stock: 5})
	require.Equal(t, http.StatusOK, rec.Code)
	created := decodeBody[ProductResponse](t, rec)

	// Another shop's product is indistinguishable from a missing one.
	rec = env.request(t, http.MethodGet, fmt.Sprintf("/api/products/%d", created.ID), ravisToken, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.request(t, http.MethodDelete, fmt.Sprintf("/api/products/%d", created.ID), ravisToken, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.request(t, http.MethodGet, "/api/products", ravisToken, nil)
	require.Empty(t, decodeBody[[]ProductResponse](t, rec))
}

func TestAdjustProductStockScopedByBusiness(t *testing.T) {
	env := newTestEnv(t)
	token := env.signupAndSignin(t, "asha")
	env.signupAndSignin(t, "ravi")

	rec := env.request(t, http.MethodPost, "/api/products", token, ProductPayload{Name: "Red Kurta", Price: 799, Stock: 5})
	require.Equal(t, http.StatusOK, rec.Code)
	created := decodeBody[ProductResponse](t, rec)

	// A stock write under the wrong business matches no row.
	ownerBusinessID := env.driver.products[0].BusinessID
	require.NoError(t, env.service.Store.AdjustProductStock(context.Background(), created.ID, ownerBusinessID+1, -3))
	require.Equal(t, 5, env.driver.products[0].Stock)

	require.NoError(t, env.service.Store.AdjustProductStock(context.Background(), created.ID, ownerBusinessID, -3))
	require.Equal(t, 2, env.driver.products[0].Stock)
}
