// Package pricing holds the ice cream price table and flavor catalog.
package pricing

import (
	"strings"
)

// Canonical product line codes.
const (
	LinePro    = "PRO"
	LineProMax = "PROMAX"
)

// SizePrice is one size of a product line with its unit price in VND.
type SizePrice struct {
	Size  string `yaml:"size" json:"size"`
	Price int64  `yaml:"price" json:"price"`
}

// Table maps product lines to their sizes in catalog order.
type Table struct {
	order   []string
	lines   map[string][]SizePrice
	flavors []string
}

// Default returns the built-in price table.
func Default() *Table {
	return &Table{
		order: []string{LinePro, LineProMax},
		lines: map[string][]SizePrice{
			LinePro: {
				{Size: "80ml", Price: 15000},
				{Size: "500ml", Price: 48000},
				{Size: "2700ml", Price: 235000},
				{Size: "3500ml", Price: 295000},
			},
			LineProMax: {
				{Size: "80gr", Price: 21000},
				{Size: "500ml", Price: 79000},
				{Size: "2700ml", Price: 279000},
				{Size: "3500ml", Price: 375000},
			},
		},
		flavors: append([]string(nil), defaultFlavors...),
	}
}

// CanonicalLine maps the display spellings of a line ("Pro", "Pro Max",
// "ProMax") onto the table codes. Unknown lines are returned upper-cased
// without spaces.
func CanonicalLine(line string) string {
	return strings.ToUpper(strings.Join(strings.Fields(line), ""))
}

// Lookup returns the unit price of a line/size pair.
func (t *Table) Lookup(line, size string) (int64, bool) {
	sizes, ok := t.lines[CanonicalLine(line)]
	if !ok {
		return 0, false
	}
	size = strings.TrimSpace(size)
	for _, sp := range sizes {
		if strings.EqualFold(sp.Size, size) {
			return sp.Price, true
		}
	}
	return 0, false
}

// Lines returns the canonical line codes in catalog order.
func (t *Table) Lines() []string {
	return append([]string(nil), t.order...)
}

// SizesForLine returns the sizes of a line in catalog order, nil for unknown lines.
func (t *Table) SizesForLine(line string) []SizePrice {
	sizes, ok := t.lines[CanonicalLine(line)]
	if !ok {
		return nil
	}
	return append([]SizePrice(nil), sizes...)
}

// Flavors returns a copy of the flavor catalog.
func (t *Table) Flavors() []string {
	return append([]string(nil), t.flavors...)
}

// Row caps. A draft holds at most a few hundred rows, so totals built from
// capped rows stay far below the int64 range.
const (
	MaxQuantity  = 100_000
	MaxUnitPrice = 100_000_000
)

// LineTotal is the total of a row.
func LineTotal(price, qty int64) int64 {
	return price * qty
}

// CatalogLine is the serialisable form of a product line.
type CatalogLine struct {
	Code  string      `json:"code"`
	Sizes []SizePrice `json:"sizes"`
}

// Catalog is what the order form needs to render its pickers.
type Catalog struct {
	Lines   []CatalogLine `json:"lines"`
	Flavors []string      `json:"flavors"`
}

// Catalog returns the table and flavors in display order.
func (t *Table) Catalog() Catalog {
	cat := Catalog{Flavors: t.Flavors()}
	for _, code := range t.order {
		cat.Lines = append(cat.Lines, CatalogLine{Code: code, Sizes: t.SizesForLine(code)})
	}
	return cat
}
