// Package importer loads storefront products from a CSV export.
package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"auraz-storefront/internal/domain"
	"auraz-storefront/internal/ids"
)

type ProductWriter interface {
	Upsert(ctx context.Context, product domain.Product) error
}

// CSVImporter reads product rows and inserts or overwrites them by id.
//
// A row with a name starts a product. Rows with only an "images" value add
// gallery images to the product above them.
type CSVImporter struct {
	reader   *csv.Reader
	products ProductWriter
	now      func() time.Time
}

func NewCSVImporter(r io.Reader, repo ProductWriter) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // continuation rows are often short
	return &CSVImporter{
		reader:   csvr,
		products: repo,
		now:      time.Now,
	}
}

// Run parses the file and upserts every product, returning how many were written.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)
	if _, ok := index["name"]; !ok {
		return 0, errors.New("read headers: name column is required")
	}

	var (
		current  *domain.Product
		imported int
		line     = 1
	)

	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("read row: %w", err)
		}
		line++

		if pick(record, index, "name") == "" {
			image := pick(record, index, "images")
			if current != nil && image != "" {
				current.Images = append(current.Images, image)
			}
			continue
		}

		if current != nil {
			if err := i.save(ctx, current); err != nil {
				return imported, err
			}
			imported++
		}
		current, err = i.parseRow(record, index)
		if err != nil {
			return imported, fmt.Errorf("line %d: %w", line, err)
		}
	}

	if current != nil {
		if err := i.save(ctx, current); err != nil {
			return imported, err
		}
		imported++
	}

	return imported, nil
}

func (i *CSVImporter) save(ctx context.Context, p *domain.Product) error {
	if p.Image == "" && len(p.Images) > 0 {
		p.Image = p.Images[0]
	}
	if err := i.products.Upsert(ctx, *p); err != nil {
		return fmt.Errorf("upsert product %q: %w", p.ID, err)
	}
	return nil
}

func (i *CSVImporter) parseRow(record []string, index map[string]int) (*domain.Product, error) {
	now := i.now().UTC()
	p := &domain.Product{
		ID:          pick(record, index, "id"),
		Name:        pick(record, index, "name"),
		Description: pick(record, index, "description"),
		Image:       pick(record, index, "image"),
		Category:    pick(record, index, "category"),
		Brand:       pick(record, index, "brand"),
		CreatedAt:   now,
	}
	if p.ID == "" {
		p.ID = ids.New("product", now)
	}

	var err error
	if p.Price, err = parseFloat(record, index, "price"); err != nil {
		return nil, err
	}
	if p.Price < 0 {
		return nil, fmt.Errorf("product %q: price must not be negative", p.Name)
	}
	if v := pick(record, index, "originalPrice"); v != "" {
		orig, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("originalPrice: %w", err)
		}
		p.OriginalPrice = &orig
	}
	if p.Stock, err = parseInt(record, index, "stock"); err != nil {
		return nil, err
	}
	if p.Rating, err = parseFloat(record, index, "rating"); err != nil {
		return nil, err
	}
	if p.ReviewCount, err = parseInt(record, index, "reviewCount"); err != nil {
		return nil, err
	}
	p.Trending = parseBool(record, index, "trending")
	p.NewArrival = parseBool(record, index, "newArrival")
	p.IsDeal = parseBool(record, index, "isDeal")
	p.IsFestive = parseBool(record, index, "isFestive")
	p.IsElectronics = parseBool(record, index, "isElectronics")

	if image := pick(record, index, "images"); image != "" {
		p.Images = []string{image}
	}
	return p, nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	return idx
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}

func parseFloat(record []string, index map[string]int, key string) (float64, error) {
	v := pick(record, index, key)
	if v == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return f, nil
}

func parseInt(record []string, index map[string]int, key string) (int, error) {
	v := pick(record, index, key)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func parseBool(record []string, index map[string]int, key string) bool {
	b, _ := strconv.ParseBool(pick(record, index, key))
	return b
}
