// Package seed loads the tag and ingredient catalogs from CSV files.
package seed

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"Foodgram-Backend/domain"
	"Foodgram-Backend/pkg/ingredient"
	"Foodgram-Backend/pkg/tag"

	"github.com/go-playground/validator/v10"
)

const (
	IngredientsFile = "ingredients.csv"
	TagsFile        = "tags.csv"
)

type Counts struct {
	Ingredients int
	Tags        int
}

// readRows reads a CSV file with a header line and returns each record keyed
// by column name. Every column in required must be present in the header.
func readRows(r io.Reader, required ...string) ([]map[string]string, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[name] = i
	}
	for _, name := range required {
		if _, ok := index[name]; !ok {
			return nil, fmt.Errorf("missing column %q", name)
		}
	}

	var rows []map[string]string
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		row := make(map[string]string, len(required))
		for _, name := range required {
			row[name] = record[index[name]]
		}
		rows = append(rows, row)
	}
}

// ReadIngredients parses rows of name,measurement_unit.
func ReadIngredients(r io.Reader, validate *validator.Validate) ([]domain.IngredientImport, error) {
	rows, err := readRows(r, "name", "measurement_unit")
	if err != nil {
		return nil, err
	}
	ingredients := make([]domain.IngredientImport, 0, len(rows))
	for i, row := range rows {
		item := domain.IngredientImport{Name: row["name"], MeasurementUnit: row["measurement_unit"]}
		if err := validate.Struct(item); err != nil {
			return nil, fmt.Errorf("ingredient row %d: %w", i+1, err)
		}
		ingredients = append(ingredients, item)
	}
	return ingredients, nil
}

// ReadTags parses rows of name_tag,tag_slug,color.
func ReadTags(r io.Reader, validate *validator.Validate) ([]domain.TagImport, error) {
	rows, err := readRows(r, "name_tag", "tag_slug", "color")
	if err != nil {
		return nil, err
	}
	tags := make([]domain.TagImport, 0, len(rows))
	for i, row := range rows {
		item := domain.TagImport{Name: row["name_tag"], Slug: row["tag_slug"], Color: row["color"]}
		if err := validate.Struct(item); err != nil {
			return nil, fmt.Errorf("tag row %d: %w", i+1, err)
		}
		tags = append(tags, item)
	}
	return tags, nil
}

func readFile[T any](path string, validate *validator.Validate, parse func(io.Reader, *validator.Validate) ([]T, error)) ([]T, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	rows, err := parse(file, validate)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return rows, nil
}

// Load imports dataDir/ingredients.csv and then dataDir/tags.csv. Rows are
// inserted as they are, so running it twice duplicates ingredients.
func Load(
	ctx context.Context,
	dataDir string,
	validate *validator.Validate,
	ingredientService ingredient.IngredientService,
	tagService tag.TagService,
) (Counts, error) {
	var counts Counts

	ingredients, err := readFile(filepath.Join(dataDir, IngredientsFile), validate, ReadIngredients)
	if err != nil {
		return counts, err
	}
	counts.Ingredients, err = ingredientService.ImportIngredients(ctx, ingredients)
	if err != nil {
		return counts, err
	}

	tags, err := readFile(filepath.Join(dataDir, TagsFile), validate, ReadTags)
	if err != nil {
		return counts, err
	}
	counts.Tags, err = tagService.ImportTags(ctx, tags)
	return counts, err
}
