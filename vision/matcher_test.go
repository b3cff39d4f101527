package vision

import (
	"context"
	"image/color"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nischalvasista13-maker/Snap-and-sell/store"
)

// fakeSource serves features filtered by business, the same contract the
// store drivers implement.
type fakeSource struct {
	refs []*store.ImageFeatureRef
}

func (f *fakeSource) ListImageFeatures(_ context.Context, find *store.FindImageFeature) ([]*store.ImageFeatureRef, error) {
	var list []*store.ImageFeatureRef
	for _, ref := range f.refs {
		if ref.BusinessID != find.BusinessID {
			continue
		}
		if find.ProductID != nil && ref.ProductID != *find.ProductID {
			continue
		}
		list = append(list, ref)
	}
	return list, nil
}

// stubScorer returns a fixed score per stored hash, bypassing real feature
// math so ranking and threshold behavior can be pinned exactly.
type stubScorer struct {
	scores map[uint64]float64
}

func (s stubScorer) Score(_, b *Feature) float64 {
	return s.scores[b.PHash]
}

func featureRef(businessID, productID int32, imageIndex int, phash uint64, createdTs int64) *store.ImageFeatureRef {
	histogram := make([]float32, HistogramDim)
	histogram[0] = 1
	return &store.ImageFeatureRef{
		ProductID:        productID,
		BusinessID:       businessID,
		ImageIndex:       imageIndex,
		PHash:            int64(phash),
		Histogram:        histogram,
		ProductCreatedTs: createdTs,
	}
}

func queryImage(t *testing.T) []byte {
	t.Helper()
	return encodePNG(t, noiseImage(3, 32, 32))
}

func TestMatchEmptyCatalog(t *testing.T) {
	matcher := NewMatcher(&fakeSource{}, 2, time.Second)

	result, err := matcher.Match(context.Background(), 1, queryImage(t))
	require.NoError(t, err)
	require.Empty(t, result.Matches)
	require.False(t, result.HasMatch)
	require.Equal(t, "No products found. Add some products first.", result.Message)
}

func TestMatchExactImage(t *testing.T) {
	data := queryImage(t)
	feature, err := Extract(data)
	require.NoError(t, err)

	source := &fakeSource{refs: []*store.ImageFeatureRef{
		{ProductID: 10, BusinessID: 1, ImageIndex: 0, PHash: int64(feature.PHash), Histogram: feature.Histogram, ProductCreatedTs: 100},
		featureRef(1, 20, 0, ^feature.PHash, 200),
	}}
	matcher := NewMatcher(source, 2, time.Second)

	result, err := matcher.Match(context.Background(), 1, data)
	require.NoError(t, err)
	require.True(t, result.HasMatch)
	require.Equal(t, "Suggested (based on similarity)", result.Message)
	require.NotEmpty(t, result.Matches)
	require.Equal(t, int32(10), result.Matches[0].ProductID)
	require.InDelta(t, 1.0, result.Matches[0].Similarity, 1e-6)
}

func TestMatchThresholdInclusive(t *testing.T) {
	source := &fakeSource{refs: []*store.ImageFeatureRef{
		featureRef(1, 10, 0, 1, 100),
		featureRef(1, 20, 0, 2, 100),
	}}
	matcher := NewMatcher(source, 2, time.Second)
	matcher.scorer = stubScorer{scores: map[uint64]float64{
		1: 0.70,
		2: 0.69999,
	}}

	result, err := matcher.Match(context.Background(), 1, queryImage(t))
	require.NoError(t, err)
	require.True(t, result.HasMatch)
	require.Len(t, result.Matches, 1)
	require.Equal(t, int32(10), result.Matches[0].ProductID)
	require.Equal(t, 0.70, result.Matches[0].Similarity)
}

func TestMatchRanking(t *testing.T) {
	source := &fakeSource{refs: []*store.ImageFeatureRef{
		featureRef(1, 1, 0, 0xB, 100), // product B
		featureRef(1, 2, 0, 0xA, 100), // product A
		featureRef(1, 3, 0, 0xC, 100), // product C
	}}
	scores := map[uint64]float64{0xA: 0.92, 0xB: 0.75, 0xC: 0.40}
	matcher := NewMatcher(source, 2, time.Second)
	matcher.scorer = stubScorer{scores: scores}

	result, err := matcher.Match(context.Background(), 1, queryImage(t))
	require.NoError(t, err)
	require.True(t, result.HasMatch)

	// A then B; C is cut by the threshold, not by ordering.
	require.Len(t, result.Matches, 2)
	require.Equal(t, int32(2), result.Matches[0].ProductID)
	require.Equal(t, int32(1), result.Matches[1].ProductID)

	// The ordering rule on its own would have ranked C third.
	refC := source.refs[2]
	require.Less(t, scores[uint64(refC.PHash)], DefaultThreshold)
}

func TestMatchCardinalityAndOrder(t *testing.T) {
	source := &fakeSource{}
	scores := make(map[uint64]float64)
	for i := 0; i < 8; i++ {
		phash := uint64(100 + i)
		source.refs = append(source.refs, featureRef(1, int32(i+1), 0, phash, 100))
		scores[phash] = 0.99 - float64(i)*0.01
	}
	matcher := NewMatcher(source, 2, time.Second)
	matcher.scorer = stubScorer{scores: scores}

	result, err := matcher.Match(context.Background(), 1, queryImage(t))
	require.NoError(t, err)
	require.Len(t, result.Matches, DefaultTopK)
	for i := 1; i < len(result.Matches); i++ {
		require.GreaterOrEqual(t, result.Matches[i-1].Similarity, result.Matches[i].Similarity)
	}
}

func TestMatchBestImagePerProduct(t *testing.T) {
	// One product with two photos keeps its best score; the weak secondary
	// photo neither penalizes nor duplicates it.
	source := &fakeSource{refs: []*store.ImageFeatureRef{
		featureRef(1, 10, 0, 1, 100),
		featureRef(1, 10, 1, 2, 100),
	}}
	matcher := NewMatcher(source, 2, time.Second)
	matcher.scorer = stubScorer{scores: map[uint64]float64{1: 0.72, 2: 0.95}}

	result, err := matcher.Match(context.Background(), 1, queryImage(t))
	require.NoError(t, err)
	require.Len(t, result.Matches, 1)
	require.Equal(t, 0.95, result.Matches[0].Similarity)
	require.Equal(t, 1, result.Matches[0].MatchedImageIndex)
}

func TestMatchTieBreak(t *testing.T) {
	source := &fakeSource{refs: []*store.ImageFeatureRef{
		featureRef(1, 30, 0, 1, 100),
		featureRef(1, 10, 0, 1, 300), // newest wins the tie
		featureRef(1, 20, 0, 1, 100), // then the lower product ID
	}}
	matcher := NewMatcher(source, 2, time.Second)
	matcher.scorer = stubScorer{scores: map[uint64]float64{1: 0.8}}

	result, err := matcher.Match(context.Background(), 1, queryImage(t))
	require.NoError(t, err)
	require.Len(t, result.Matches, 3)
	require.Equal(t, int32(10), result.Matches[0].ProductID)
	require.Equal(t, int32(20), result.Matches[1].ProductID)
	require.Equal(t, int32(30), result.Matches[2].ProductID)
}

func TestMatchBusinessIsolation(t *testing.T) {
	source := &fakeSource{refs: []*store.ImageFeatureRef{
		featureRef(1, 10, 0, 1, 100),
		featureRef(2, 20, 0, 1, 100),
		featureRef(2, 30, 0, 1, 100),
	}}
	matcher := NewMatcher(source, 2, time.Second)
	matcher.scorer = stubScorer{scores: map[uint64]float64{1: 0.9}}

	result, err := matcher.Match(context.Background(), 2, queryImage(t))
	require.NoError(t, err)
	for _, match := range result.Matches {
		require.NotEqual(t, int32(10), match.ProductID)
	}
	require.Len(t, result.Matches, 2)
}

func TestMatchNoConfidentMatch(t *testing.T) {
	source := &fakeSource{refs: []*store.ImageFeatureRef{
		featureRef(1, 10, 0, 1, 100),
	}}
	matcher := NewMatcher(source, 2, time.Second)
	matcher.scorer = stubScorer{scores: map[uint64]float64{1: 0.3}}

	result, err := matcher.Match(context.Background(), 1, queryImage(t))
	require.NoError(t, err)
	require.False(t, result.HasMatch)
	require.Empty(t, result.Matches)
	require.Equal(t, "Product not found. Search manually.", result.Message)
}

func TestMatchInvalidInput(t *testing.T) {
	matcher := NewMatcher(&fakeSource{}, 2, time.Second)

	_, err := matcher.Match(context.Background(), 1, nil)
	require.ErrorIs(t, err, ErrEmptyImage)

	_, err = matcher.Match(context.Background(), 1, []byte("not an image"))
	require.ErrorIs(t, err, ErrDecode)
}

func TestMatchExtractionTimeout(t *testing.T) {
	matcher := NewMatcher(&fakeSource{}, 1, time.Nanosecond)

	// The budget expires before extraction can even be scheduled.
	time.Sleep(time.Millisecond)
	_, err := matcher.Match(context.Background(), 1, queryImage(t))
	require.ErrorIs(t, err, ErrExtractionTimeout)
}

func TestMatchSolidColorDistinction(t *testing.T) {
	// End to end with the real scorer: a red query against one red and one
	// blue product prefers the red one.
	red := encodePNG(t, solidImage(color.NRGBA{R: 230, A: 255}, 16, 16))
	blue := encodePNG(t, solidImage(color.NRGBA{B: 230, A: 255}, 16, 16))

	redFeature, err := Extract(red)
	require.NoError(t, err)
	blueFeature, err := Extract(blue)
	require.NoError(t, err)

	source := &fakeSource{refs: []*store.ImageFeatureRef{
		{ProductID: 1, BusinessID: 1, PHash: int64(redFeature.PHash), Histogram: redFeature.Histogram, ProductCreatedTs: 100},
		{ProductID: 2, BusinessID: 1, PHash: int64(blueFeature.PHash), Histogram: blueFeature.Histogram, ProductCreatedTs: 100},
	}}
	matcher := NewMatcher(source, 2, time.Second)

	result, err := matcher.Match(context.Background(), 1, red)
	require.NoError(t, err)
	require.NotEmpty(t, result.Matches)
	require.Equal(t, int32(1), result.Matches[0].ProductID)
	require.Greater(t, result.Matches[0].Similarity, result.Matches[len(result.Matches)-1].Similarity)
}
