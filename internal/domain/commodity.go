package domain

import "fmt"

// Product is a crude grade.
type Product string

const (
	// WTI is West Texas Intermediate, the sweet benchmark grade.
	WTI Product = "WTI"
	// WTS is West Texas Sour, priced at a sour differential to WTI.
	WTS Product = "WTS"
)

// Products returns every product in formulation order.
func Products() []Product {
	return []Product{WTI, WTS}
}

// ParseProduct validates a product name.
func ParseProduct(s string) (Product, error) {
	switch Product(s) {
	case WTI, WTS:
		return Product(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownProduct, s)
}

// Location is a physical hub where crude can be bought and stored.
type Location string

const (
	Midland Location = "M"
	Houston Location = "H"
)

// Locations returns the buy locations in formulation order.
func Locations() []Location {
	return []Location{Midland, Houston}
}

// ParseLocation accepts either the short code or the full name.
func ParseLocation(s string) (Location, error) {
	switch s {
	case "M", "Midland":
		return Midland, nil
	case "H", "Houston":
		return Houston, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownLocation, s)
}

// Name returns the hub name.
func (l Location) Name() string {
	switch l {
	case Midland:
		return "Midland"
	case Houston:
		return "Houston"
	}
	return string(l)
}

// SellOption is where a route delivers. Refinery is a Houston-linked
// futures delivery, not a storage point.
type SellOption string

const (
	SellMidland  SellOption = "M"
	SellHouston  SellOption = "H"
	SellRefinery SellOption = "R"
)

// SellOptions returns the sell options in formulation order.
func SellOptions() []SellOption {
	return []SellOption{SellMidland, SellHouston, SellRefinery}
}

// ParseSellOption accepts either the short code or the full name.
func ParseSellOption(s string) (SellOption, error) {
	switch s {
	case "M", "Midland":
		return SellMidland, nil
	case "H", "Houston":
		return SellHouston, nil
	case "R", "Refinery":
		return SellRefinery, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSellOption, s)
}

// Name returns the delivery name.
func (s SellOption) Name() string {
	switch s {
	case SellMidland:
		return "Midland"
	case SellHouston:
		return "Houston"
	case SellRefinery:
		return "Refinery"
	}
	return string(s)
}

// Location returns the physical hub for this option. Refinery has none.
func (s SellOption) Location() (Location, bool) {
	switch s {
	case SellMidland:
		return Midland, true
	case SellHouston:
		return Houston, true
	}
	return "", false
}

// Serves reports whether delivering via s needs no pipeline move from l.
func (s SellOption) Serves(l Location) bool {
	loc, ok := s.Location()
	return ok && loc == l
}

// Side is the direction of a trade on a route.
type Side string

const (
	// Long buys first and sells later.
	Long Side = "LONG"
	// Short sells first and covers later.
	Short Side = "SHORT"
)

// Sides returns both sides, long first.
func Sides() []Side {
	return []Side{Long, Short}
}
