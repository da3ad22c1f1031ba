// Package export renders analysis outcomes to interchange formats.
package export

import (
	"encoding/json"
	"io"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/sells-group/hotspot-cli/internal/dbscan"
	"github.com/sells-group/hotspot-cli/internal/hotspot"
)

// GeoJSONOptions configures the GeoJSON writer.
type GeoJSONOptions struct {
	IncludePoints bool // emit a feature per incident, not just centroids
}

// WriteGeoJSON writes the outcome as a FeatureCollection in WGS84. Cluster
// centroids are always emitted; IncludePoints adds one feature per analyzed
// incident with its cluster label (-1 for noise).
func WriteGeoJSON(w io.Writer, out *hotspot.Outcome, opts GeoJSONOptions) error {
	fc := geojson.FeatureCollection{}

	for _, c := range out.Result.Clusters {
		fc.Features = append(fc.Features, &geojson.Feature{
			Geometry: geom.NewPointFlat(geom.XY, []float64{c.CenterLng, c.CenterLat}),
			Properties: map[string]interface{}{
				"kind":         "centroid",
				"cluster":      c.ID,
				"count":        c.Count,
				"top_category": c.TopCategory,
			},
		})
	}

	if opts.IncludePoints {
		for i, inc := range out.Incidents {
			props := map[string]interface{}{
				"kind":     "incident",
				"cluster":  int(out.Labels[i]),
				"category": inc.Category,
			}
			if out.Labels[i] == dbscan.Noise {
				props["noise"] = true
			}
			fc.Features = append(fc.Features, &geojson.Feature{
				Geometry:   geom.NewPointFlat(geom.XY, []float64{inc.X, inc.Y}),
				Properties: props,
			})
		}
	}

	enc := json.NewEncoder(w)
	if err := enc.Encode(&fc); err != nil {
		return eris.Wrap(err, "export: encode geojson")
	}
	return nil
}
