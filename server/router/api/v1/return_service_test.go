package v1

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nischalvasista13-maker/Snap-and-sell/store"
)

func createTestSale(t *testing.T, env *testEnv, token string, product ProductResponse, quantity int) SaleResponse {
	t.Helper()
	rec := env.request(t, http.MethodPost, "/api/sales", token, CreateSaleRequest{
		Items:         []SaleItemPayload{{ProductID: product.ID, Quantity: quantity, Price: 500}},
		Total:         float64(quantity) * 500,
		PaymentMethod: store.PaymentCash,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	return decodeBody[SaleResponse](t, rec)
}

func TestReturnRestocksInventory(t *testing.T) {
	env := newTestEnv(t)
	token := env.signupAndSignin(t, "asha")
	product := createTestProduct(t, env, token, "Red Kurta", 5)
	sale := createTestSale(t, env, token, product, 3)

	rec := env.request(t, http.MethodPost, "/api/returns", token, CreateReturnRequest{
		SaleID: sale.ID,
		Items:  []ReturnItemPayload{{ProductID: product.ID, ProductName: "Red Kurta", Quantity: 2, Price: 500}},
		Total:  1000,
		Reason: "size mismatch",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	created := decodeBody[ReturnResponse](t, rec)
	require.Equal(t, sale.ID, created.SaleID)
	require.Len(t, created.Items, 1)

	// 5 - 3 sold + 2 returned.
	rec = env.request(t, http.MethodGet, fmt.Sprintf("/api/products/%d", product.ID), token, nil)
	require.Equal(t, 4, decodeBody[ProductResponse](t, rec).Stock)
}

func TestReturnQuantityCannotExceedSold(t *testing.T) {
	env := newTestEnv(t)
	token := env.signupAndSignin(t, "asha")
	product := createTestProduct(t, env, token, "Red Kurta", 5)
	sale := createTestSale(t, env, token, product, 1)

	rec := env.request(t, http.MethodPost, "/api/returns", token, CreateReturnRequest{
		SaleID: sale.ID,
		Items:  []ReturnItemPayload{{ProductID: product.ID, Quantity: 2, Price: 500}},
		Total:  1000,
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReturnAgainstUnknownSale(t *testing.T) {
	env := newTestEnv(t)
	token := env.signupAndSignin(t, "asha")

	rec := env.request(t, http.MethodPost, "/api/returns", token, CreateReturnRequest{
		SaleID: 999,
		Items:  []ReturnItemPayload{{ProductID: 1, Quantity: 1, Price: 500}},
	})
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestReturnListBySale(t *testing.T) {
	env := newTestEnv(t)
	token := env.signupAndSignin(t, "asha")
	product := createTestProduct(t, env, token, "Red Kurta", 5)
	sale := createTestSale(t, env, token, product, 2)
	otherSale := createTestSale(t, env, token, product, 1)

	rec := env.request(t, http.MethodPost, "/api/returns", token, CreateReturnRequest{
		SaleID: sale.ID,
		Items:  []ReturnItemPayload{{ProductID: product.ID, Quantity: 1, Price: 500}},
		Total:  500,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.request(t, http.MethodGet, "/api/returns", token, nil)
	require.Len(t, decodeBody[[]ReturnResponse](t, rec), 1)

	rec = env.request(t, http.MethodGet, fmt.Sprintf("/api/returns/sale/%d", sale.ID), token, nil)
	require.Len(t, decodeBody[[]ReturnResponse](t, rec), 1)

	rec = env.request(t, http.MethodGet, fmt.Sprintf("/api/returns/sale/%d", otherSale.ID), token, nil)
	require.Empty(t, decodeBody[[]ReturnResponse](t, rec))
}
