package render

import (
	"fmt"
	"html"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"lcgrants/internal/core"
	"lcgrants/internal/views"
)

// MapBounds frames the UK and Ireland.
var MapBounds = orb.Bound{
	Min: orb.Point{-8.92242886, 43.30508298},
	Max: orb.Point{13.76496714, 59.87668996},
}

// Popup renders the marker popup HTML. Category and title come from the
// data source and are escaped; only the <br> separators are markup.
func Popup(p views.GeoPoint) string {
	return fmt.Sprintf("Grant type: %s<br> Title: %s<br> Amount awarded (GBP): %s",
		html.EscapeString(p.Category), html.EscapeString(p.Title), core.FormatAmount(p.Amount))
}

// GeoJSON builds a FeatureCollection with one point feature per grant.
func GeoJSON(points []views.GeoPoint) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	fc.BBox = geojson.NewBBox(MapBounds)
	for _, p := range points {
		f := geojson.NewFeature(orb.Point{p.Lon, p.Lat})
		f.ID = p.ID
		f.Properties["id"] = p.ID
		f.Properties["category"] = p.Category
		f.Properties["title"] = p.Title
		f.Properties["amount"] = core.FormatAmount(p.Amount)
		f.Properties["color"] = p.Colour
		f.Properties["popup"] = Popup(p)
		fc.Append(f)
	}
	return fc
}
