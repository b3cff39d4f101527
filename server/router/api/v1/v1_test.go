package v1

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/nischalvasista13-maker/Snap-and-sell/internal/profile"
	"github.com/nischalvasista13-maker/Snap-and-sell/store"
)

type testEnv struct {
	service *APIV1Service
	echo    *echo.Echo
	driver  *fakeDriver
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	prof := &profile.Profile{
		Mode:                 "dev",
		JWTSecret:            "test-secret",
		ExtractionWorkers:    2,
		ExtractionTimeoutSec: 5,
		Version:              "0.0.0-test",
	}
	driver := newFakeDriver()
	st := store.New(driver, prof)
	t.Cleanup(func() { _ = st.Close() })

	e := echo.New()
	service := NewAPIV1Service(prof.JWTSecret, prof, st)
	service.Register(e)
	return &testEnv{service: service, echo: e, driver: driver}
}

func (env *testEnv) request(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	env.echo.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

// signupAndSignin provisions a fresh shop and returns its access token.
func (env *testEnv) signupAndSignin(t *testing.T, username string) string {
	t.Helper()
	rec := env.request(t, http.MethodPost, "/api/auth/signup", "", SignupRequest{
		Username:     username,
		Password:     "secret123",
		BusinessName: username + " boutique",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.request(t, http.MethodPost, "/api/auth/signin", "", SigninRequest{
		Username: username,
		Password: "secret123",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	return decodeBody[SigninResponse](t, rec).AccessToken
}

// testImage returns a base64-encoded PNG in the given color.
func testImage(t *testing.T, c color.NRGBA) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 16, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	env := newTestEnv(t)

	rec := env.request(t, http.MethodGet, "/api/products", "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.request(t, http.MethodGet, "/api/settings", "garbage-token", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
