package chart

import (
	"bytes"
	"errors"
	"image/png"
	"testing"

	"survey-spider/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRadarProducesDecodablePNG(t *testing.T) {
	categories := []string{"Leadership", "Communication", "Teamwork", "Process", "Growth"}
	values := []float64{8, 6, 5, 7.5, 5}

	data, err := Radar(categories, values, "Average Results - Manager")
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, Width, img.Bounds().Dx())
	assert.Equal(t, Height, img.Bounds().Dy())
}

func TestRadarDeterministic(t *testing.T) {
	categories := []string{"A", "B", "C"}
	values := []float64{2, 9, 4}

	first, err := Radar(categories, values, "t")
	require.NoError(t, err)
	second, err := Radar(categories, values, "t")
	require.NoError(t, err)

	assert.Equal(t, first, second, "identical inputs must render identical bytes")
}

func TestRadarEmptyCategories(t *testing.T) {
	_, err := Radar(nil, nil, "empty")

	var domainErr *domain.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, domain.ErrEmptyChart, domainErr.Code)
}

func TestRadarLengthMismatch(t *testing.T) {
	_, err := Radar([]string{"A", "B"}, []float64{1}, "bad")

	var domainErr *domain.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, domain.ErrInvalidInput, domainErr.Code)
}

func TestRadarSingleAxis(t *testing.T) {
	data, err := Radar([]string{"Only"}, []float64{10}, "one axis")
	require.NoError(t, err)

	_, err = png.Decode(bytes.NewReader(data))
	assert.NoError(t, err)
}

func TestRadarBase64(t *testing.T) {
	encoded, err := RadarBase64([]string{"A", "B", "C"}, []float64{5, 5, 5}, "t")
	require.NoError(t, err)
	assert.NotEmpty(t, encoded)
	// base64 of a PNG always starts with the encoded magic bytes
	assert.Equal(t, "iVBORw0KGgo", encoded[:11])
}
