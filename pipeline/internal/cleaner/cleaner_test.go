package cleaner

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/menuscore/menuscore/pipeline/internal/report"
	"github.com/menuscore/menuscore/pkg/dataset"
)

const rawCSV = `Category,Item,Serving Size,Calories,Calories from Fat,Saturated Fat,Sodium,Dietary Fiber,Sugars,Protein
Breakfast,Egg McMuffin,4.8 oz (136 g),300,120,5,750,4,3,17
Breakfast,"Sausage Biscuit, Regular",5.7 oz (161 g),460,250,11,1300,2,3,13
Salads,Side Salad,3.1 oz (87 g),20,0,0,10,1,2,1
Beverages,Water,16 fl oz cup,0,0,0,0,0,0,0
`

const cleanedCSV = `Category,Item,Calories,Saturated Fat,Sodium,Dietary Fiber,Sugars,Protein
Breakfast,Egg McMuffin,300,5,750,4,3,17
Breakfast,"Sausage Biscuit, Regular",460,11,1300,2,3,13
Salads,Side Salad,20,0,10,1,2,1
Beverages,Water,0,0,0,0,0,0
`

type recorder struct {
	clean []report.CleanSummary
}

func (r *recorder) CleanSummary(s report.CleanSummary) { r.clean = append(r.clean, s) }
func (r *recorder) ScorePreview(report.ScorePreview)    {}

func setup(t *testing.T) (dir, input string) {
	t.Helper()
	dir = t.TempDir()
	input = filepath.Join(dir, "menu.csv")
	require.NoError(t, os.WriteFile(input, []byte(rawCSV), 0o644))
	return dir, input
}

func TestRun_DropsDefaultColumns(t *testing.T) {
	dir, input := setup(t)
	output := filepath.Join(dir, "Cleaned_mcd.csv")
	rec := &recorder{}

	sum, err := Run(Options{Input: input, Output: output, Reporter: rec})
	require.NoError(t, err)

	got, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, cleanedCSV, string(got))

	assert.Equal(t, report.Shape{Rows: 4, Columns: 10}, sum.Before)
	assert.Equal(t, report.Shape{Rows: 4, Columns: 8}, sum.After)
	assert.Equal(t, DefaultDrop, sum.Dropped)
	assert.Len(t, sum.Profiles, 10)
	require.Len(t, rec.clean, 1)
	assert.Equal(t, output, rec.clean[0].Output)
}

func TestRun_SchemaIsRawMinusDropped(t *testing.T) {
	dir, input := setup(t)
	output := filepath.Join(dir, "out.csv")

	sum, err := Run(Options{Input: input, Output: output, Drop: []string{"Serving Size", "Sugars"}})
	require.NoError(t, err)

	tbl, err := dataset.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, 4, tbl.Len())

	var want []string
	for _, c := range sum.Columns {
		if c != "Serving Size" && c != "Sugars" {
			want = append(want, c)
		}
	}
	assert.Equal(t, want, tbl.Columns())
	assert.Equal(t, want, sum.Remaining)
}

func TestRun_Idempotent(t *testing.T) {
	dir, input := setup(t)
	first := filepath.Join(dir, "first.csv")
	second := filepath.Join(dir, "second.csv")

	_, err := Run(Options{Input: input, Output: first})
	require.NoError(t, err)
	_, err = Run(Options{Input: input, Output: second})
	require.NoError(t, err)

	a, err := os.ReadFile(first)
	require.NoError(t, err)
	b, err := os.ReadFile(second)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	// Overwriting an existing output gives the same bytes.
	_, err = Run(Options{Input: input, Output: first})
	require.NoError(t, err)
	c, err := os.ReadFile(first)
	require.NoError(t, err)
	assert.Equal(t, a, c)
}

func TestRun_EmptyDropListCopiesInput(t *testing.T) {
	dir, input := setup(t)
	output := filepath.Join(dir, "copy.csv")

	_, err := Run(Options{Input: input, Output: output, Drop: []string{}})
	require.NoError(t, err)

	got, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, rawCSV, string(got))
}

func TestRun_MissingInput(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "menu.csv")
	output := filepath.Join(dir, "out.csv")

	_, err := Run(Options{Input: input, Output: output})
	require.Error(t, err)
	assert.True(t, errors.Is(err, dataset.ErrNotFound))
	assert.Contains(t, err.Error(), input)

	_, statErr := os.Stat(output)
	assert.True(t, os.IsNotExist(statErr), "no output should be written")
}

func TestRun_MissingDropColumn(t *testing.T) {
	dir, input := setup(t)
	output := filepath.Join(dir, "out.csv")

	_, err := Run(Options{Input: input, Output: output, Drop: []string{"Serving Size", "Trans Fat"}})
	require.Error(t, err)

	var schemaErr *dataset.SchemaError
	require.True(t, errors.As(err, &schemaErr))
	assert.Equal(t, "Trans Fat", schemaErr.Column)

	_, statErr := os.Stat(output)
	assert.True(t, os.IsNotExist(statErr), "no output should be written")
}

func TestRun_HeaderOnlyInput(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "menu.csv")
	require.NoError(t, os.WriteFile(input,
		[]byte("Category,Item,Serving Size,Calories,Calories from Fat\n"), 0o644))
	output := filepath.Join(dir, "Cleaned_mcd.csv")

	sum, err := Run(Options{Input: input, Output: output})
	require.NoError(t, err)

	got, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, "Category,Item,Calories\n", string(got))
	assert.Equal(t, report.Shape{Rows: 0, Columns: 5}, sum.Before)
	assert.Equal(t, report.Shape{Rows: 0, Columns: 3}, sum.After)
	assert.Equal(t, []string{"Category", "Item", "Calories"}, sum.Remaining)
}

func TestRun_DuplicateHeader(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "menu.csv")
	require.NoError(t, os.WriteFile(input,
		[]byte("Category,Item,Item,Serving Size,Calories from Fat\nBreakfast,A,B,1 oz,10\n"), 0o644))
	output := filepath.Join(dir, "Cleaned_mcd.csv")

	_, err := Run(Options{Input: input, Output: output})
	var schemaErr *dataset.SchemaError
	require.True(t, errors.As(err, &schemaErr), "got %v", err)
	assert.Equal(t, "Item", schemaErr.Column)
	assert.Equal(t, input, schemaErr.Path)

	_, statErr := os.Stat(output)
	assert.True(t, errors.Is(statErr, os.ErrNotExist))
}
