package views

import (
	"github.com/shopspring/decimal"

	"lcgrants/internal/filter"
)

// GeoPoint is a geocoded grant ready for the map.
type GeoPoint struct {
	ID       int
	Lon      float64
	Lat      float64
	Category string
	Title    string
	Amount   decimal.Decimal
	Colour   string
}

// Palette maps a category label to a marker colour.
type Palette func(category string) string

// GeoCollection returns the grants of view that have both coordinates.
func GeoCollection(view filter.View, colour Palette) []GeoPoint {
	points := make([]GeoPoint, 0, view.Len())
	for g := range view.All() {
		c, ok := g.Coordinates()
		if !ok {
			continue
		}
		points = append(points, GeoPoint{
			ID:       g.ID,
			Lon:      c[0],
			Lat:      c[1],
			Category: g.Category,
			Title:    g.Title,
			Amount:   g.Amount,
			Colour:   colour(g.Category),
		})
	}
	return points
}
