package importer

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"farmfresh-market/internal/domain"
)

// ProductWriter persists imported listings.
type ProductWriter interface {
	Create(ctx context.Context, p domain.Product) (*domain.Product, error)
}

// CSVImporter reads listing CSVs and creates products owned by one farmer.
//
// Expected header columns: name, description, price, unit, quantity,
// category, organic, image, harvest_date, location. Order is free;
// unknown columns are ignored.
type CSVImporter struct {
	reader   *csv.Reader
	products ProductWriter
	farmer   domain.User
}

func NewCSVImporter(r io.Reader, products ProductWriter, farmer domain.User) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	return &CSVImporter{
		reader:   csvr,
		products: products,
		farmer:   farmer,
	}
}

// Run parses all rows and creates one product per valid row. It stops at the
// first invalid row or write failure, returning the count created so far.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, errors.Wrap(err, "read headers")
	}
	index := headerIndex(headers)

	imported := 0
	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, errors.Wrap(err, "read row")
		}

		p, err := i.parseRow(record, index)
		if err != nil {
			return imported, err
		}
		if p == nil {
			continue
		}

		if _, err := i.products.Create(ctx, *p); err != nil {
			return imported, errors.Wrapf(err, "create product %q", p.Name)
		}
		imported++
	}

	return imported, nil
}

func (i *CSVImporter) parseRow(record []string, index map[string]int) (*domain.Product, error) {
	name := pick(record, index, "name")
	priceStr := pick(record, index, "price")
	unit := pick(record, index, "unit")

	// Blank rows are skipped, not rejected.
	if name == "" && priceStr == "" && unit == "" {
		return nil, nil
	}
	if name == "" || priceStr == "" || unit == "" {
		return nil, errors.Errorf("row missing required fields (name=%q price=%q unit=%q)", name, priceStr, unit)
	}

	price, err := decimal.NewFromString(priceStr)
	if err != nil || price.IsNegative() {
		return nil, errors.Errorf("invalid price %q for %q", priceStr, name)
	}

	quantity := 0
	if s := pick(record, index, "quantity"); s != "" {
		quantity, err = strconv.Atoi(s)
		if err != nil || quantity < 0 {
			return nil, errors.Errorf("invalid quantity %q for %q", s, name)
		}
	}

	organic := false
	if s := pick(record, index, "organic"); s != "" {
		organic, _ = strconv.ParseBool(s)
	}

	harvestDate := time.Now().UTC()
	if s := pick(record, index, "harvest_date"); s != "" {
		harvestDate, err = time.Parse("2006-01-02", s)
		if err != nil {
			return nil, errors.Errorf("invalid harvest_date %q for %q", s, name)
		}
	}

	location := pick(record, index, "location")
	if location == "" {
		location = i.farmer.Location
	}

	return &domain.Product{
		ID:          uuid.New().String(),
		Name:        name,
		Description: pick(record, index, "description"),
		Price:       price,
		Unit:        unit,
		Quantity:    quantity,
		ImageURL:    pick(record, index, "image"),
		Category:    pick(record, index, "category"),
		HarvestDate: harvestDate,
		Location:    location,
		Organic:     organic,
		FarmerID:    i.farmer.ID,
		FarmerName:  i.farmer.Name,
	}, nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.TrimSpace(strings.ToLower(h))] = i
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
