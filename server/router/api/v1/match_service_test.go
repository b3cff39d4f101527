package v1

import (
	"image/color"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMatchEmptyCatalog(t *testing.T) {
	env := newTestEnv(t)
	token := env.signupAndSignin(t, "asha")

	rec := env.request(t, http.MethodPost, "/api/products/match", token, MatchRequest{
		ImageData: testImage(t, color.NRGBA{R: 200, A: 255}),
	})
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeBody[MatchResponse](t, rec)
	require.False(t, resp.HasMatch)
	require.Empty(t, resp.Matches)
	require.Equal(t, "No products found. Add some products first.", resp.Message)
}

func TestMatchSuggestsOwnProduct(t *testing.T) {
	env := newTestEnv(t)
	token := env.signupAndSignin(t, "asha")

	redImage := testImage(t, color.NRGBA{R: 220, A: 255})
	rec := env.request(t, http.MethodPost, "/api/products", token, ProductPayload{
		Name:   "Red Kurta",
		Price:  799,
		Stock:  5,
		Images: []string{redImage},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	product := decodeBody[ProductResponse](t, rec)

	rec = env.request(t, http.MethodPost, "/api/products/match", token, MatchRequest{ImageData: redImage})
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeBody[MatchResponse](t, rec)
	require.True(t, resp.HasMatch)
	require.Equal(t, "Suggested (based on similarity)", resp.Message)
	require.NotEmpty(t, resp.Matches)
	require.Equal(t, product.ID, resp.Matches[0].ProductID)
	require.Equal(t, "Red Kurta", resp.Matches[0].ProductName)
	require.Len(t, resp.Matches[0].Images, 1)
	require.InDelta(t, 1.0, resp.Matches[0].Similarity, 1e-6)
}

func TestMatchIsolatedAcrossShops(t *testing.T) {
	env := newTestEnv(t)
	ashaToken := env.signupAndSignin(t, "asha")
	raviToken := env.signupAndSignin(t, "ravi")

	redImage := testImage(t, color.NRGBA{R: 220, A: 255})
	rec := env.request(t, http.MethodPost, "/api/products", ashaToken, ProductPayload{
		Name:   "Red Kurta",
		Price:  799,
		Stock:  5,
		Images: []string{redImage},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	// Ravi's shop has no products; Asha's catalog must not leak into it.
	rec = env.request(t, http.MethodPost, "/api/products/match", raviToken, MatchRequest{ImageData: redImage})
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeBody[MatchResponse](t, rec)
	require.False(t, resp.HasMatch)
	require.Empty(t, resp.Matches)
	require.Equal(t, "No products found. Add some products first.", resp.Message)
}

func TestMatchInvalidImage(t *testing.T) {
	env := newTestEnv(t)
	token := env.signupAndSignin(t, "asha")

	rec := env.request(t, http.MethodPost, "/api/products/match", token, MatchRequest{})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.request(t, http.MethodPost, "/api/products/match", token, MatchRequest{ImageData: "bm90IGFuIGltYWdl"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMatchAcceptsDataURL(t *testing.T) {
	env := newTestEnv(t)
	token := env.signupAndSignin(t, "asha")

	redImage := testImage(t, color.NRGBA{R: 220, A: 255})
	rec := env.request(t, http.MethodPost, "/api/products", token, ProductPayload{
		Name:   "Red Kurta",
		Price:  799,
		Stock:  5,
		Images: []string{redImage},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.request(t, http.MethodPost, "/api/products/match", token, MatchRequest{
		ImageData: "data:image/png;base64," + redImage,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, decodeBody[MatchResponse](t, rec).HasMatch)
}
