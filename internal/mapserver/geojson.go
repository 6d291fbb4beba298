package mapserver

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// BuildFeatureCollection renders every stored snapshot as a GeoJSON
// Point feature for the /parkings response.
func BuildFeatureCollection(snapshots []Snapshot) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, s := range snapshots {
		f := geojson.NewFeature(orb.Point{s.Lon, s.Lat})
		f.Properties["center_x"] = s.CenterX
		f.Properties["center_y"] = s.CenterY
		f.Properties["vacancy_status"] = s.VacancyStatus
		f.Properties["vacancy_color"] = s.VacancyColor
		f.Properties["name"] = s.Name
		f.Properties["fee_text"] = s.FeeText
		f.Properties["hours_text"] = s.HoursText
		fc.Append(f)
	}
	return fc
}
