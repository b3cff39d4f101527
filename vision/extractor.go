package vision

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"strings"

	"github.com/disintegration/imaging"
)

var (
	// ErrEmptyImage is returned for zero-byte input.
	ErrEmptyImage = errors.New("empty image")
	// ErrDecode is returned when the bytes are not a decodable image.
	ErrDecode = errors.New("failed to decode image")
	// ErrExtractionTimeout is returned when feature extraction exceeds its budget.
	ErrExtractionTimeout = errors.New("feature extraction timed out")
)

const (
	hashSize = 8
	// HistogramBinsPerChannel buckets each RGB channel into 8 bins,
	// giving a 24-dimensional histogram.
	HistogramBinsPerChannel = 8
	HistogramDim            = HistogramBinsPerChannel * 3

	// histogramSampleSize bounds the per-image pixel work. Downsampling
	// before binning keeps extraction cost independent of input resolution.
	histogramSampleSize = 256
)

// Feature is the visual signature of one image: a 64-bit average hash over an
// 8x8 luminance grid and a normalized 24-bin color histogram.
type Feature struct {
	PHash     uint64
	Histogram []float32
}

// Extract decodes the image once and computes both feature components.
// It is deterministic: identical bytes always yield an identical Feature.
func Extract(data []byte) (*Feature, error) {
	img, err := decode(data)
	if err != nil {
		return nil, err
	}
	return &Feature{
		PHash:     hashImage(img),
		Histogram: histogramImage(img),
	}, nil
}

// ComputeHash computes the 64-bit average hash of the image bytes.
func ComputeHash(data []byte) (uint64, error) {
	img, err := decode(data)
	if err != nil {
		return 0, err
	}
	return hashImage(img), nil
}

// ComputeHistogram computes the normalized color histogram of the image bytes.
// The returned vector has HistogramDim entries summing to 1.
func ComputeHistogram(data []byte) ([]float32, error) {
	img, err := decode(data)
	if err != nil {
		return nil, err
	}
	return histogramImage(img), nil
}

func decode(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, ErrEmptyImage
	}
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return img, nil
}

// hashImage downsamples to an 8x8 grayscale grid and sets one bit per cell:
// 1 if the cell is at least as bright as the grid mean. Bits are packed
// row-major, most significant bit first.
func hashImage(img image.Image) uint64 {
	gray := imaging.Grayscale(imaging.Resize(img, hashSize, hashSize, imaging.Lanczos))

	var pixels [hashSize * hashSize]uint8
	var sum uint32
	for i := range pixels {
		// Grayscale output has R == G == B.
		pixels[i] = gray.Pix[i*4]
		sum += uint32(pixels[i])
	}
	mean := float64(sum) / float64(len(pixels))

	var hash uint64
	for _, p := range pixels {
		hash <<= 1
		if float64(p) >= mean {
			hash |= 1
		}
	}
	return hash
}

// histogramImage buckets each RGB channel into HistogramBinsPerChannel bins
// and normalizes the counts into a probability distribution, so histograms
// are comparable across images of different resolutions.
func histogramImage(img image.Image) []float32 {
	bounds := img.Bounds()
	if bounds.Dx() > histogramSampleSize || bounds.Dy() > histogramSampleSize {
		img = imaging.Fit(img, histogramSampleSize, histogramSampleSize, imaging.Lanczos)
		bounds = img.Bounds()
	}

	counts := make([]uint32, HistogramDim)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			counts[binOf(r)]++
			counts[HistogramBinsPerChannel+binOf(g)]++
			counts[2*HistogramBinsPerChannel+binOf(b)]++
		}
	}

	total := uint32(bounds.Dx()*bounds.Dy()) * 3
	histogram := make([]float32, HistogramDim)
	if total == 0 {
		return histogram
	}
	for i, c := range counts {
		histogram[i] = float32(c) / float32(total)
	}
	return histogram
}

func binOf(channel uint32) int {
	// RGBA returns 16-bit channels.
	return int((channel >> 8) * HistogramBinsPerChannel / 256)
}

// DecodeImagePayload turns a base64 or data-URL encoded image string into raw
// bytes. Catalog images and match requests both carry images in this form.
func DecodeImagePayload(payload string) ([]byte, error) {
	if idx := strings.Index(payload, ","); idx >= 0 && strings.HasPrefix(payload, "data:") {
		payload = payload[idx+1:]
	}
	if payload == "" {
		return nil, ErrEmptyImage
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid base64: %v", ErrDecode, err)
	}
	return data, nil
}
