package v1

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/nischalvasista13-maker/Snap-and-sell/server/auth"
	"github.com/nischalvasista13-maker/Snap-and-sell/store"
)

type ReturnService struct {
	Store *store.Store
}

type ReturnItemPayload struct {
	ProductID   int32   `json:"productId"`
	ProductName string  `json:"productName"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
}

type CreateReturnRequest struct {
	SaleID int32               `json:"saleId"`
	Items  []ReturnItemPayload `json:"items"`
	Total  float64             `json:"total"`
	Reason string              `json:"reason"`
}

type ReturnItemResponse struct {
	ProductID   int32   `json:"productId"`
	ProductName string  `json:"productName"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
}

type ReturnResponse struct {
	ID        int32                `json:"id"`
	UID       string               `json:"uid"`
	SaleID    int32                `json:"saleId"`
	Items     []ReturnItemResponse `json:"items"`
	Total     float64              `json:"total"`
	Reason    string               `json:"reason,omitempty"`
	CreatedTs int64                `json:"createdAt"`
}

func convertReturn(saleReturn *store.SaleReturn) *ReturnResponse {
	items := make([]ReturnItemResponse, 0, len(saleReturn.Items))
	for _, item := range saleReturn.Items {
		items = append(items, ReturnItemResponse{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			Price:       item.Price,
		})
	}
	return &ReturnResponse{
		ID:        saleReturn.ID,
		UID:       saleReturn.UID,
		SaleID:    saleReturn.SaleID,
		Items:     items,
		Total:     saleReturn.Total,
		Reason:    saleReturn.Reason,
		CreatedTs: saleReturn.CreatedTs,
	}
}

// Create records a return against an earlier sale and restocks the returned
// quantities.
func (s *ReturnService) Create(c echo.Context) error {
	ctx := c.Request().Context()
	businessID := auth.GetBusinessID(c)

	var req CreateReturnRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if len(req.Items) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "at least one item is required")
	}

	sale, err := s.Store.GetSale(ctx, &store.FindSale{ID: &req.SaleID, BusinessID: &businessID})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load sale").SetInternal(err)
	}
	if sale == nil {
		return echo.NewHTTPError(http.StatusNotFound, "Sale not found")
	}

	sold := make(map[int32]int)
	for _, item := range sale.Items {
		sold[item.ProductID] += item.Quantity
	}
	items := make([]store.SaleReturnItem, 0, len(req.Items))
	for _, item := range req.Items {
		if item.Quantity <= 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "item quantity must be positive")
		}
		if item.Quantity > sold[item.ProductID] {
			return echo.NewHTTPError(http.StatusBadRequest, "Returned quantity exceeds sold quantity")
		}
		items = append(items, store.SaleReturnItem{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			Price:       item.Price,
		})
	}

	saleReturn, err := s.Store.CreateSaleReturn(ctx, &store.SaleReturn{
		BusinessID: businessID,
		SaleID:     sale.ID,
		Items:      items,
		Total:      req.Total,
		Reason:     req.Reason,
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to create return").SetInternal(err)
	}

	for _, item := range saleReturn.Items {
		if err := s.Store.AdjustProductStock(ctx, item.ProductID, businessID, item.Quantity); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "failed to restock").SetInternal(err)
		}
	}
	return c.JSON(http.StatusOK, convertReturn(saleReturn))
}

func (s *ReturnService) List(c echo.Context) error {
	ctx := c.Request().Context()
	businessID := auth.GetBusinessID(c)

	returns, err := s.Store.ListSaleReturns(ctx, &store.FindSaleReturn{BusinessID: &businessID})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list returns").SetInternal(err)
	}
	return c.JSON(http.StatusOK, convertReturns(returns))
}

// ListBySale returns all returns recorded against one sale.
func (s *ReturnService) ListBySale(c echo.Context) error {
	ctx := c.Request().Context()
	businessID := auth.GetBusinessID(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid sale id")
	}
	saleID := int32(id)

	returns, err := s.Store.ListSaleReturns(ctx, &store.FindSaleReturn{BusinessID: &businessID, SaleID: &saleID})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list returns").SetInternal(err)
	}
	return c.JSON(http.StatusOK, convertReturns(returns))
}

func convertReturns(returns []*store.SaleReturn) []*ReturnResponse {
	response := make([]*ReturnResponse, 0, len(returns))
	for _, saleReturn := range returns {
		response = append(response, convertReturn(saleReturn))
	}
	return response
}
