package main

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/boutique-api/internal/application/catalog"
	"github.com/jhoicas/boutique-api/internal/application/dto"
	"github.com/jhoicas/boutique-api/internal/domain"
)

// catalogRow fila del CSV del catálogo.
type catalogRow struct {
	Line        int
	Name        string
	Category    string
	Description string
	Price       decimal.Decimal
	Cost        decimal.Decimal
	Stock       int
}

var requiredColumns = []string{"nombre", "precio", "costo", "stock"}

// thousands "12.500" o "1.250.000": puntos como separador de miles.
var thousands = regexp.MustCompile(`^\d{1,3}(\.\d{3})+$`)

// readCatalog lee el CSV (separador ';', con encabezado). Las hojas exportadas desde
// Excel llegan en Latin-1; si el contenido no es UTF-8 válido se decodifica como ISO-8859-1.
func readCatalog(r io.Reader) ([]catalogRow, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("leer CSV: %w", err)
	}
	var src io.Reader = bytes.NewReader(raw)
	if !utf8.Valid(raw) {
		src = transform.NewReader(src, charmap.ISO8859_1.NewDecoder())
	}

	cr := csv.NewReader(src)
	cr.Comma = ';'
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("leer encabezado: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[catalog.Slugify(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	for _, c := range requiredColumns {
		if _, ok := cols[c]; !ok {
			return nil, fmt.Errorf("falta la columna %q", c)
		}
	}
	get := func(rec []string, col string) string {
		i, ok := cols[col]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	var rows []catalogRow
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("línea %d: %w", line, err)
		}
		row := catalogRow{
			Line:        line,
			Name:        get(rec, "nombre"),
			Category:    get(rec, "categoria"),
			Description: get(rec, "descripcion"),
		}
		if row.Name == "" {
			continue
		}
		if row.Price, err = parseMoney(get(rec, "precio")); err != nil {
			return nil, fmt.Errorf("línea %d precio: %w", line, err)
		}
		if row.Cost, err = parseMoney(get(rec, "costo")); err != nil {
			return nil, fmt.Errorf("línea %d costo: %w", line, err)
		}
		if row.Stock, err = strconv.Atoi(get(rec, "stock")); err != nil {
			return nil, fmt.Errorf("línea %d stock: %w", line, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// parseMoney acepta "$ 12.500", "12500", "12.500,50" y "12500.50".
func parseMoney(s string) (decimal.Decimal, error) {
	s = strings.NewReplacer("$", "", " ", "", "\u00a0", "").Replace(s)
	switch {
	case strings.Contains(s, ","):
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	case thousands.MatchString(s):
		s = strings.ReplaceAll(s, ".", "")
	}
	return decimal.NewFromString(s)
}

// importer crea categorías y productos a través de los casos de uso del catálogo,
// así las validaciones son las mismas que en el panel.
type importer struct {
	categories *catalog.CategoryUseCase
	products   *catalog.ProductUseCase
	log        zerolog.Logger
}

type importResult struct {
	Created int
	Skipped int
}

// run es idempotente: un producto con el mismo nombre (sin distinguir mayúsculas) se omite.
func (im *importer) run(ctx context.Context, rows []catalogRow) (importResult, error) {
	var res importResult
	categoryIDs, err := im.existingCategories(ctx)
	if err != nil {
		return res, err
	}
	for _, row := range rows {
		exists, err := im.productExists(ctx, row.Name)
		if err != nil {
			return res, err
		}
		if exists {
			res.Skipped++
			continue
		}
		categoryID, err := im.categoryID(ctx, categoryIDs, row.Category)
		if err != nil {
			return res, fmt.Errorf("línea %d: %w", row.Line, err)
		}
		_, err = im.products.Create(ctx, dto.CreateProductRequest{
			Name:        row.Name,
			Description: row.Description,
			Price:       row.Price,
			Cost:        row.Cost,
			Stock:       row.Stock,
			CategoryID:  categoryID,
		})
		if err != nil {
			return res, fmt.Errorf("línea %d (%s): %w", row.Line, row.Name, err)
		}
		res.Created++
	}
	return res, nil
}

func (im *importer) existingCategories(ctx context.Context) (map[string]string, error) {
	list, err := im.categories.List(ctx)
	if err != nil {
		return nil, err
	}
	ids := make(map[string]string, len(list))
	for _, c := range list {
		ids[c.Slug] = c.ID
	}
	return ids, nil
}

func (im *importer) categoryID(ctx context.Context, ids map[string]string, name string) (string, error) {
	if name == "" {
		return "", nil
	}
	slug := catalog.Slugify(name)
	if id, ok := ids[slug]; ok {
		return id, nil
	}
	c, err := im.categories.Create(ctx, dto.CategoryRequest{Name: name, Slug: slug})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return "", fmt.Errorf("categoría %q creada en paralelo, reintente: %w", name, err)
		}
		return "", err
	}
	im.log.Info().Str("category", name).Msg("categoría creada")
	ids[slug] = c.ID
	return c.ID, nil
}

func (im *importer) productExists(ctx context.Context, name string) (bool, error) {
	list, err := im.products.List(ctx, dto.ProductListQuery{Search: name, Limit: 100})
	if err != nil {
		return false, err
	}
	for _, p := range list.Items {
		if strings.EqualFold(p.Name, name) {
			return true, nil
		}
	}
	return false, nil
}
