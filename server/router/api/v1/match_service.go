package v1

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/nischalvasista13-maker/Snap-and-sell/server/auth"
	"github.com/nischalvasista13-maker/Snap-and-sell/store"
	"github.com/nischalvasista13-maker/Snap-and-sell/vision"
)

type MatchService struct {
	Store   *store.Store
	Matcher *vision.Matcher
	Metrics *Metrics
}

type MatchRequest struct {
	// ImageData is a base64 or data-URL encoded photo.
	ImageData string `json:"imageData"`
}

type MatchCandidateResponse struct {
	ProductID   int32    `json:"productId"`
	ProductName string   `json:"productName"`
	Similarity  float64  `json:"similarity"`
	Images      []string `json:"images"`
}

type MatchResponse struct {
	Matches  []MatchCandidateResponse `json:"matches"`
	HasMatch bool                     `json:"hasMatch"`
	Message  string                   `json:"message"`
}

// Match suggests catalog products visually similar to the captured photo.
// The suggestion is confirmed by the cashier; it is never an auto-decision.
func (s *MatchService) Match(c echo.Context) error {
	ctx := c.Request().Context()
	businessID := auth.GetBusinessID(c)
	start := time.Now()

	var req MatchRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	imageData, err := vision.DecodeImagePayload(req.ImageData)
	if err != nil {
		s.Metrics.ObserveMatch("error", time.Since(start).Seconds())
		return matchError(err)
	}

	result, err := s.Matcher.Match(ctx, businessID, imageData)
	if err != nil {
		s.Metrics.ObserveMatch("error", time.Since(start).Seconds())
		return matchError(err)
	}

	matches := make([]MatchCandidateResponse, 0, len(result.Matches))
	for _, candidate := range result.Matches {
		entry := MatchCandidateResponse{
			ProductID:  candidate.ProductID,
			Similarity: candidate.Similarity,
			Images:     []string{},
		}
		// Denormalize name and photos for the confirmation screen.
		product, err := s.Store.GetProduct(ctx, &store.FindProduct{ID: &candidate.ProductID, BusinessID: &businessID})
		if err == nil && product != nil {
			entry.ProductName = product.Name
			if product.Images != nil {
				entry.Images = product.Images
			}
		}
		matches = append(matches, entry)
	}

	s.Metrics.ObserveMatch(matchOutcome(result), time.Since(start).Seconds())
	return c.JSON(http.StatusOK, MatchResponse{
		Matches:  matches,
		HasMatch: result.HasMatch,
		Message:  result.Message,
	})
}

func matchOutcome(result *vision.MatchResult) string {
	switch {
	case result.HasMatch:
		return "matched"
	case result.Message == vision.MessageEmptyCatalog:
		return "empty_catalog"
	default:
		return "no_match"
	}
}

func matchError(err error) error {
	switch {
	case errors.Is(err, vision.ErrEmptyImage):
		return echo.NewHTTPError(http.StatusBadRequest, "image data is empty")
	case errors.Is(err, vision.ErrDecode):
		return echo.NewHTTPError(http.StatusBadRequest, "image could not be decoded")
	case errors.Is(err, vision.ErrExtractionTimeout):
		return echo.NewHTTPError(http.StatusRequestTimeout, "image processing timed out, try a smaller photo")
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to match image").SetInternal(err)
	}
}
