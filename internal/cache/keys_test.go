package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateCacheKey(t *testing.T) {
	assert.Equal(t, "surveyspider:report:role:manager",
		GenerateCacheKey("report", "role", "manager"))
}

func TestGenerateCacheKeyWithParams(t *testing.T) {
	assert.Equal(t, "surveyspider:report:team:platform:v1_png",
		GenerateCacheKey("report", "team", "platform", "v1", "png"))
}
