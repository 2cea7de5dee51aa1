package analytics

import (
	"hash/fnv"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// Product is one catalogue line of the mock pharmacy.
type Product struct {
	CIP        string
	Name       string
	Laboratory string
	Segment    string
	UnitPrice  decimal.Decimal
	// MaxDaily bounds the units sold on a regular opening day.
	MaxDaily uint64
}

const (
	SegmentOTC         = "Médicaments OTC"
	SegmentGenerics    = "Génériques"
	SegmentDermo       = "Dermocosmétique"
	SegmentSupplements = "Compléments alimentaires"
	SegmentHomeopathy  = "Homéopathie"
)

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// DefaultCatalogue is the fixed product list used by the mock dataset.
func DefaultCatalogue() []Product {
	return []Product{
		{CIP: "3400930000011", Name: "Doliprane 1000mg 8 comprimés", Laboratory: "Sanofi", Segment: SegmentOTC, UnitPrice: price("2.18"), MaxDaily: 40},
		{CIP: "3400930000028", Name: "Dafalgan 500mg 16 gélules", Laboratory: "UPSA", Segment: SegmentOTC, UnitPrice: price("1.95"), MaxDaily: 18},
		{CIP: "3400930000035", Name: "Spasfon Lyoc 80mg", Laboratory: "Teva", Segment: SegmentOTC, UnitPrice: price("4.60"), MaxDaily: 9},
		{CIP: "3400930000042", Name: "Ibuprofène Biogaran 400mg", Laboratory: "Biogaran", Segment: SegmentGenerics, UnitPrice: price("2.45"), MaxDaily: 22},
		{CIP: "3400930000059", Name: "Amoxicilline Biogaran 1g", Laboratory: "Biogaran", Segment: SegmentGenerics, UnitPrice: price("3.10"), MaxDaily: 14},
		{CIP: "3400930000066", Name: "Oméprazole Sandoz 20mg", Laboratory: "Sandoz", Segment: SegmentGenerics, UnitPrice: price("4.02"), MaxDaily: 11},
		{CIP: "3400930000073", Name: "Cicaplast Baume B5 40ml", Laboratory: "La Roche-Posay", Segment: SegmentDermo, UnitPrice: price("9.90"), MaxDaily: 6},
		{CIP: "3400930000080", Name: "Avène Eau thermale 300ml", Laboratory: "Pierre Fabre", Segment: SegmentDermo, UnitPrice: price("11.50"), MaxDaily: 5},
		{CIP: "3400930000097", Name: "Bioderma Sensibio H2O 500ml", Laboratory: "Bioderma", Segment: SegmentDermo, UnitPrice: price("14.90"), MaxDaily: 4},
		{CIP: "3400930000103", Name: "Magnésium Marin B6", Laboratory: "Arkopharma", Segment: SegmentSupplements, UnitPrice: price("12.40"), MaxDaily: 3},
		{CIP: "3400930000110", Name: "Vitamine D3 1000UI", Laboratory: "Arkopharma", Segment: SegmentSupplements, UnitPrice: price("8.75"), MaxDaily: 4},
		{CIP: "3400930000127", Name: "Oscillococcinum 30 doses", Laboratory: "Boiron", Segment: SegmentHomeopathy, UnitPrice: price("16.20"), MaxDaily: 3},
	}
}

// UnitsSold returns the units of p sold on d. The figure only depends on
// the CIP and the date. Sundays run at a quarter of the weekday volume.
func UnitsSold(p Product, d civil.Date) int64 {
	if p.MaxDaily == 0 {
		return 0
	}
	h := fnv.New64a()
	_, _ = h.Write([]byte(p.CIP))
	_, _ = h.Write([]byte(d.String()))
	units := h.Sum64() % (p.MaxDaily + 1)
	if d.In(time.UTC).Weekday() == time.Sunday {
		units /= 4
	}
	return int64(units)
}
