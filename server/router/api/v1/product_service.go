package v1

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/nischalvasista13-maker/Snap-and-sell/server/auth"
	"github.com/nischalvasista13-maker/Snap-and-sell/store"
	"github.com/nischalvasista13-maker/Snap-and-sell/vision"
)

type ProductService struct {
	Store   *store.Store
	Indexer *vision.Indexer
}

type ProductPayload struct {
	Name     string   `json:"name"`
	Price    float64  `json:"price"`
	Stock    int      `json:"stock"`
	Category string   `json:"category"`
	Size     string   `json:"size"`
	Color    string   `json:"color"`
	Images   []string `json:"images"`
}

type ProductResponse struct {
	ID        int32    `json:"id"`
	UID       string   `json:"uid"`
	Name      string   `json:"name"`
	Price     float64  `json:"price"`
	Stock     int      `json:"stock"`
	Category  string   `json:"category"`
	Size      string   `json:"size"`
	Color     string   `json:"color"`
	Images    []string `json:"images"`
	CreatedTs int64    `json:"createdAt"`
	UpdatedTs int64    `json:"updatedAt"`
}

func convertProduct(product *store.Product) *ProductResponse {
	images := product.Images
	if images == nil {
		images = []string{}
	}
	return &ProductResponse{
		ID:        product.ID,
		UID:       product.UID,
		Name:      product.Name,
		Price:     product.Price,
		Stock:     product.Stock,
		Category:  product.Category,
		Size:      product.Size,
		Color:     product.Color,
		Images:    images,
		CreatedTs: product.CreatedTs,
		UpdatedTs: product.UpdatedTs,
	}
}

func (s *ProductService) Create(c echo.Context) error {
	ctx := c.Request().Context()
	businessID := auth.GetBusinessID(c)

	var req ProductPayload
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}
	if req.Price < 0 || req.Stock < 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "price and stock must be non-negative")
	}

	product, err := s.Store.CreateProduct(ctx, &store.Product{
		BusinessID: businessID,
		Name:       req.Name,
		Price:      req.Price,
		Stock:      req.Stock,
		Category:   req.Category,
		Size:       req.Size,
		Color:      req.Color,
		Images:     req.Images,
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to create product").SetInternal(err)
	}

	s.reindex(c, product)
	return c.JSON(http.StatusOK, convertProduct(product))
}

func (s *ProductService) List(c echo.Context) error {
	ctx := c.Request().Context()
	businessID := auth.GetBusinessID(c)

	products, err := s.Store.ListProducts(ctx, &store.FindProduct{BusinessID: &businessID})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list products").SetInternal(err)
	}

	response := make([]*ProductResponse, 0, len(products))
	for _, product := range products {
		response = append(response, convertProduct(product))
	}
	return c.JSON(http.StatusOK, response)
}

func (s *ProductService) Get(c echo.Context) error {
	ctx := c.Request().Context()

	product, err := s.findOwnProduct(ctx, c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, convertProduct(product))
}

func (s *ProductService) Update(c echo.Context) error {
	ctx := c.Request().Context()
	businessID := auth.GetBusinessID(c)

	existing, err := s.findOwnProduct(ctx, c)
	if err != nil {
		return err
	}

	var req ProductPayload
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}
	if req.Price < 0 || req.Stock < 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "price and stock must be non-negative")
	}

	product, err := s.Store.UpdateProduct(ctx, &store.UpdateProduct{
		ID:         existing.ID,
		BusinessID: businessID,
		Name:       &req.Name,
		Price:      &req.Price,
		Stock:      &req.Stock,
		Category:   &req.Category,
		Size:       &req.Size,
		Color:      &req.Color,
		Images:     &req.Images,
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to update product").SetInternal(err)
	}
	if product == nil {
		return echo.NewHTTPError(http.StatusNotFound, "Product not found")
	}

	s.reindex(c, product)
	return c.JSON(http.StatusOK, convertProduct(product))
}

func (s *ProductService) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	businessID := auth.GetBusinessID(c)

	product, err := s.findOwnProduct(ctx, c)
	if err != nil {
		return err
	}
	if err := s.Store.DeleteProduct(ctx, &store.DeleteProduct{ID: product.ID, BusinessID: businessID}); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to delete product").SetInternal(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Product deleted"})
}

// findOwnProduct resolves :id within the caller's business. A product that
// exists under another business is indistinguishable from a missing one.
func (s *ProductService) findOwnProduct(ctx context.Context, c echo.Context) (*store.Product, error) {
	businessID := auth.GetBusinessID(c)
	id, err := strconv.ParseInt(c.Param("id"), 10, 32)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid product id")
	}
	productID := int32(id)

	product, err := s.Store.GetProduct(ctx, &store.FindProduct{ID: &productID, BusinessID: &businessID})
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "failed to load product").SetInternal(err)
	}
	if product == nil {
		return nil, echo.NewHTTPError(http.StatusNotFound, "Product not found")
	}
	return product, nil
}

// reindex refreshes the product's feature index after a catalog write. A
// failure leaves some images unsearchable until the next write; it never
// fails the request.
func (s *ProductService) reindex(c echo.Context, product *store.Product) {
	if err := s.Indexer.OnProductImagesChanged(c.Request().Context(), product.ID, product.Images); err != nil {
		slog.Warn("failed to reindex product images",
			slog.Int("product", int(product.ID)),
			slog.Any("err", err))
	}
}
