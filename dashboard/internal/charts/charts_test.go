package charts

import (
	"bytes"
	"errors"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/menuscore/menuscore/dashboard/internal/store"
	"github.com/menuscore/menuscore/pkg/dataset"
)

func scored(name string, score float64) dataset.ScoredItem {
	return dataset.ScoredItem{MenuItem: dataset.MenuItem{Item: name, Category: "Test"}, Score: score}
}

func TestTopItems(t *testing.T) {
	var buf bytes.Buffer
	err := TopItems(&buf, []dataset.ScoredItem{
		scored("Side Salad", 74.25),
		scored("Grilled Chicken", 70),
		scored("Egg McMuffin", 62.1),
	})
	require.NoError(t, err)

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Greater(t, img.Bounds().Dx(), 0)
}

func TestTopItems_Empty(t *testing.T) {
	var buf bytes.Buffer
	err := TopItems(&buf, nil)
	assert.True(t, errors.Is(err, ErrNoData))
	assert.Zero(t, buf.Len())
}

func TestCategoryProfile(t *testing.T) {
	prof, ok := store.CategoryProfile([]dataset.ScoredItem{
		{MenuItem: dataset.MenuItem{
			Item: "Egg McMuffin", Category: "Breakfast",
			Protein: dataset.Some(17), DietaryFiber: dataset.Some(4), SaturatedFat: dataset.Some(5),
			Sodium: dataset.Some(750), Sugars: dataset.Some(3), Calories: dataset.Some(300),
		}, Score: 62.1},
	}, "Breakfast")
	require.True(t, ok)

	var buf bytes.Buffer
	require.NoError(t, CategoryProfile(&buf, prof))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG\r\n\x1a\n")))
}

func TestCategoryProfile_Empty(t *testing.T) {
	err := CategoryProfile(&bytes.Buffer{}, store.Profile{Category: "Desserts"})
	assert.True(t, errors.Is(err, ErrNoData))
}

func TestScoreColor(t *testing.T) {
	assert.Equal(t, rampLow, ScoreColor(0))
	assert.Equal(t, rampHigh, ScoreColor(100))
	assert.Equal(t, rampHigh, ScoreColor(140))

	// Higher scores are darker.
	mid, high := ScoreColor(50), ScoreColor(90)
	assert.Greater(t, mid.G, high.G)
}

func TestParseHex(t *testing.T) {
	c, err := ParseHex("#ff4d6d")
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{R: 0xff, G: 0x4d, B: 0x6d, A: 0xff}, c)

	for _, bad := range []string{"", "ff4d6d", "#ff4d6", "#gg0000"} {
		_, err := ParseHex(bad)
		assert.Error(t, err, bad)
	}
}

func TestNutrientColors(t *testing.T) {
	for _, n := range store.ProfileNutrients {
		_, err := ParseHex(NutrientColors[n])
		assert.NoError(t, err, n.String())
	}
	assert.Equal(t, color.RGBA{R: 0x5b, G: 0xc0, B: 0xeb, A: 0xff}, NutrientColor(dataset.Sodium))
}
