package v1

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/nischalvasista13-maker/Snap-and-sell/server/auth"
	"github.com/nischalvasista13-maker/Snap-and-sell/store"
)

type SaleService struct {
	Store *store.Store
}

type SaleItemPayload struct {
	ProductID   int32   `json:"productId"`
	ProductName string  `json:"productName"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
	Image       string  `json:"image"`
}

type CreateSaleRequest struct {
	Items         []SaleItemPayload `json:"items"`
	Total         float64           `json:"total"`
	PaymentMethod string            `json:"paymentMethod"`
	CustomerPhone string            `json:"customerPhone"`
}

type SaleItemResponse struct {
	ProductID   int32   `json:"productId"`
	ProductName string  `json:"productName"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
	Image       string  `json:"image,omitempty"`
}

type SaleResponse struct {
	ID            int32              `json:"id"`
	UID           string             `json:"uid"`
	Items         []SaleItemResponse `json:"items"`
	Total         float64            `json:"total"`
	PaymentMethod string             `json:"paymentMethod"`
	CustomerPhone string             `json:"customerPhone,omitempty"`
	Date          string             `json:"date"`
	CreatedTs     int64              `json:"createdAt"`
}

func convertSale(sale *store.Sale) *SaleResponse {
	items := make([]SaleItemResponse, 0, len(sale.Items))
	for _, item := range sale.Items {
		items = append(items, SaleItemResponse{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			Price:       item.Price,
			Image:       item.Image,
		})
	}
	return &SaleResponse{
		ID:            sale.ID,
		UID:           sale.UID,
		Items:         items,
		Total:         sale.Total,
		PaymentMethod: sale.PaymentMethod,
		CustomerPhone: sale.CustomerPhone,
		Date:          sale.Date,
		CreatedTs:     sale.CreatedTs,
	}
}

// Create records a checkout and decrements stock for every line item. Credit
// sales must carry the customer's phone number for follow-up.
func (s *SaleService) Create(c echo.Context) error {
	ctx := c.Request().Context()
	businessID := auth.GetBusinessID(c)

	var req CreateSaleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if len(req.Items) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "at least one item is required")
	}
	switch req.PaymentMethod {
	case store.PaymentCash, store.PaymentUPI:
	case store.PaymentCredit:
		if req.CustomerPhone == "" {
			return echo.NewHTTPError(http.StatusBadRequest, "Customer phone is required for credit sales")
		}
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payment method")
	}

	items := make([]store.SaleItem, 0, len(req.Items))
	for _, item := range req.Items {
		if item.Quantity <= 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "item quantity must be positive")
		}
		product, err := s.Store.GetProduct(ctx, &store.FindProduct{ID: &item.ProductID, BusinessID: &businessID})
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "failed to load product").SetInternal(err)
		}
		if product == nil {
			return echo.NewHTTPError(http.StatusNotFound, "Product not found")
		}
		if product.Stock < item.Quantity {
			return echo.NewHTTPError(http.StatusBadRequest, "Insufficient stock for "+product.Name)
		}

		name := item.ProductName
		if name == "" {
			name = product.Name
		}
		image := item.Image
		if image == "" && len(product.Images) > 0 {
			image = product.Images[0]
		}
		items = append(items, store.SaleItem{
			ProductID:   product.ID,
			ProductUID:  product.UID,
			ProductName: name,
			Quantity:    item.Quantity,
			Price:       item.Price,
			Image:       image,
		})
	}

	sale, err := s.Store.CreateSale(ctx, &store.Sale{
		BusinessID:    businessID,
		Items:         items,
		Total:         req.Total,
		PaymentMethod: req.PaymentMethod,
		CustomerPhone: req.CustomerPhone,
		Date:          time.Now().Format("2006-01-02"),
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to create sale").SetInternal(err)
	}

	// Decrements run per item after the sale insert, not in one transaction;
	// a failure mid-loop leaves the sale recorded with partial decrements.
	for _, item := range sale.Items {
		if err := s.Store.AdjustProductStock(ctx, item.ProductID, businessID, -item.Quantity); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "failed to update stock").SetInternal(err)
		}
	}
	return c.JSON(http.StatusOK, convertSale(sale))
}

func (s *SaleService) List(c echo.Context) error {
	ctx := c.Request().Context()
	businessID := auth.GetBusinessID(c)

	sales, err := s.Store.ListSales(ctx, &store.FindSale{BusinessID: &businessID})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list sales").SetInternal(err)
	}
	return c.JSON(http.StatusOK, convertSales(sales))
}

// Today returns the current day's sales for the dashboard.
func (s *SaleService) Today(c echo.Context) error {
	ctx := c.Request().Context()
	businessID := auth.GetBusinessID(c)

	today := time.Now().Format("2006-01-02")
	sales, err := s.Store.ListSales(ctx, &store.FindSale{BusinessID: &businessID, Date: &today})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list sales").SetInternal(err)
	}
	return c.JSON(http.StatusOK, convertSales(sales))
}

func (s *SaleService) Get(c echo.Context) error {
	ctx := c.Request().Context()
	businessID := auth.GetBusinessID(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid sale id")
	}
	saleID := int32(id)

	sale, err := s.Store.GetSale(ctx, &store.FindSale{ID: &saleID, BusinessID: &businessID})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load sale").SetInternal(err)
	}
	if sale == nil {
		return echo.NewHTTPError(http.StatusNotFound, "Sale not found")
	}
	return c.JSON(http.StatusOK, convertSale(sale))
}

func convertSales(sales []*store.Sale) []*SaleResponse {
	response := make([]*SaleResponse, 0, len(sales))
	for _, sale := range sales {
		response = append(response, convertSale(sale))
	}
	return response
}
