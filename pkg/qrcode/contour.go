package qr

// Contour is a closed outline in canvas pixel space.
type Contour struct {
	Points []Point
}

func (c Contour) Empty() bool { return len(c.Points) < 3 }

const (
	contourBulge    = 0.25
	contourSegments = 8
)

// BuildContour smooths the convex hull of the cluster's module centres.
// Every hull vertex is replaced by a quadratic curve between the midpoints of
// its two edges, with the control point pushed away from the hull centroid by
// a quarter module. Clusters smaller than three modules, and clusters whose
// centres are collinear, have no contour.
func BuildContour(cl Cluster, g Layout) Contour {
	if len(cl.Modules) < 3 {
		return Contour{}
	}
	centres := make([]Point, len(cl.Modules))
	for i, mod := range cl.Modules {
		centres[i] = g.Center(mod)
	}
	hull := convexHull(centres)
	if len(hull) < 3 {
		return Contour{}
	}

	var centroid Point
	for _, p := range hull {
		centroid = centroid.add(p)
	}
	centroid = centroid.scale(1 / float64(len(hull)))

	offset := g.ModuleSize * contourBulge
	pts := make([]Point, 0, len(hull)*contourSegments)
	for i, cur := range hull {
		prev := hull[(i+len(hull)-1)%len(hull)]
		next := hull[(i+1)%len(hull)]
		from := midpoint(prev, cur)
		to := midpoint(cur, next)

		ctrl := cur
		if out := cur.sub(centroid); out.length() > 0 {
			ctrl = cur.add(out.scale(offset / out.length()))
		}
		for s := 0; s < contourSegments; s++ {
			pts = append(pts, quadBezier(from, ctrl, to, float64(s)/contourSegments))
		}
	}
	return Contour{Points: pts}
}

// BuildContours returns one contour per cluster, index aligned.
func BuildContours(clusters []Cluster, g Layout) []Contour {
	out := make([]Contour, len(clusters))
	for i, cl := range clusters {
		out[i] = BuildContour(cl, g)
	}
	return out
}
