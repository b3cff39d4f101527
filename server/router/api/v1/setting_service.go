package v1

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/nischalvasista13-maker/Snap-and-sell/server/auth"
	"github.com/nischalvasista13-maker/Snap-and-sell/store"
)

type SettingService struct {
	Store *store.Store
}

type SettingPayload struct {
	ShopName  string `json:"shopName"`
	OwnerName string `json:"ownerName"`
	UpiID     string `json:"upiId"`
}

type SettingResponse struct {
	ID             int32  `json:"id"`
	ShopName       string `json:"shopName"`
	OwnerName      string `json:"ownerName"`
	UpiID          string `json:"upiId"`
	SetupCompleted bool   `json:"setupCompleted"`
}

func convertSetting(setting *store.ShopSetting) *SettingResponse {
	return &SettingResponse{
		ID:             setting.ID,
		ShopName:       setting.ShopName,
		OwnerName:      setting.OwnerName,
		UpiID:          setting.UpiID,
		SetupCompleted: setting.SetupCompleted,
	}
}

// Setup completes first-run onboarding. Running it twice is a client error.
func (s *SettingService) Setup(c echo.Context) error {
	ctx := c.Request().Context()
	businessID := auth.GetBusinessID(c)

	var req SettingPayload
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.ShopName == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "shopName is required")
	}

	existing, err := s.Store.GetShopSetting(ctx, &store.FindShopSetting{BusinessID: &businessID})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load settings").SetInternal(err)
	}
	if existing != nil && existing.SetupCompleted {
		return echo.NewHTTPError(http.StatusBadRequest, "Setup already completed")
	}

	setting, err := s.Store.UpsertShopSetting(ctx, &store.ShopSetting{
		BusinessID:     businessID,
		ShopName:       req.ShopName,
		OwnerName:      req.OwnerName,
		UpiID:          req.UpiID,
		SetupCompleted: true,
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to save settings").SetInternal(err)
	}
	return c.JSON(http.StatusOK, convertSetting(setting))
}

// Get returns the shop settings, or just {"setupCompleted": false} before
// onboarding so the app can route to the setup screen.
func (s *SettingService) Get(c echo.Context) error {
	ctx := c.Request().Context()
	businessID := auth.GetBusinessID(c)

	setting, err := s.Store.GetShopSetting(ctx, &store.FindShopSetting{BusinessID: &businessID})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load settings").SetInternal(err)
	}
	if setting == nil {
		return c.JSON(http.StatusOK, map[string]bool{"setupCompleted": false})
	}
	return c.JSON(http.StatusOK, convertSetting(setting))
}

// Update edits shop details. setupCompleted is immutable here.
func (s *SettingService) Update(c echo.Context) error {
	ctx := c.Request().Context()
	businessID := auth.GetBusinessID(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid setting id")
	}

	var req SettingPayload
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	setting, err := s.Store.UpdateShopSetting(ctx, &store.UpdateShopSetting{
		ID:         int32(id),
		BusinessID: businessID,
		ShopName:   &req.ShopName,
		OwnerName:  &req.OwnerName,
		UpiID:      &req.UpiID,
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to update settings").SetInternal(err)
	}
	if setting == nil {
		return echo.NewHTTPError(http.StatusNotFound, "Settings not found")
	}
	return c.JSON(http.StatusOK, convertSetting(setting))
}
