package v1

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSettingsBeforeSetup(t *testing.T) {
	env := newTestEnv(t)
	token := env.signupAndSignin(t, "asha")

	rec := env.request(t, http.MethodGet, "/api/settings", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"setupCompleted": false}`, rec.Body.String())
}

func TestSettingsSetup(t *testing.T) {
	env := newTestEnv(t)
	token := env.signupAndSignin(t, "asha")

	rec := env.request(t, http.MethodPost, "/api/settings/setup", token, SettingPayload{
		ShopName:  "Asha Fashions",
		OwnerName: "Asha",
		UpiID:     "asha@upi",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeBody[SettingResponse](t, rec)
	require.True(t, resp.SetupCompleted)
	require.Equal(t, "Asha Fashions", resp.ShopName)

	// Second setup is rejected.
	rec = env.request(t, http.MethodPost, "/api/settings/setup", token, SettingPayload{ShopName: "Again"})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.request(t, http.MethodGet, "/api/settings", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Asha Fashions", decodeBody[SettingResponse](t, rec).ShopName)
}

func TestSettingsUpdateKeepsSetupCompleted(t *testing.T) {
	env := newTestEnv(t)
	token := env.signupAndSignin(t, "asha")

	rec := env.request(t, http.MethodPost, "/api/settings/setup", token, SettingPayload{ShopName: "Asha Fashions"})
	require.Equal(t, http.StatusOK, rec.Code)
	created := decodeBody[SettingResponse](t, rec)

	rec = env.request(t, http.MethodPut, fmt.Sprintf("/api/settings/%d", created.ID), token, SettingPayload{
		ShopName:  "Asha Fashions & Co",
		OwnerName: "Asha",
		UpiID:     "asha@upi",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeBody[SettingResponse](t, rec)
	require.Equal(t, "Asha Fashions & Co", resp.ShopName)
	require.True(t, resp.SetupCompleted)
}

func TestSettingsUpdateUnknownID(t *testing.T) {
	env := newTestEnv(t)
	token := env.signupAndSignin(t, "asha")

	rec := env.request(t, http.MethodPut, "/api/settings/999", token, SettingPayload{ShopName: "x"})
	require.Equal(t, http.StatusNotFound, rec.Code)
}
