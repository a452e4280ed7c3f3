package importer

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/entity"

	"github.com/piwi3910/BoardPlace/internal/geometry"
	"github.com/piwi3910/BoardPlace/internal/model"
)

// extent accumulates the bounding box of the geometry drawn on one layer.
type extent struct {
	minX, minY, maxX, maxY float64
	empty                  bool
}

func newExtent() *extent {
	return &extent{
		minX: math.Inf(1), minY: math.Inf(1),
		maxX: math.Inf(-1), maxY: math.Inf(-1),
		empty: true,
	}
}

func (e *extent) add(p geometry.Point) {
	e.minX = math.Min(e.minX, p.X)
	e.minY = math.Min(e.minY, p.Y)
	e.maxX = math.Max(e.maxX, p.X)
	e.maxY = math.Max(e.maxY, p.Y)
	e.empty = false
}

func (e *extent) size() (float64, float64) {
	if e.empty {
		return 0, 0
	}
	return e.maxX - e.minX, e.maxY - e.minY
}

// ImportDXF imports footprints from a DXF drawing. Geometry is grouped by
// layer; a layer named after a component (USB, MB1, MB2, MCU, CRYSTAL,
// case-insensitive) gives that component the bounding box of everything
// drawn on it. LWPOLYLINE (with bulges), CIRCLE, ARC and LINE entities are
// understood; other layers and entity types are ignored.
func ImportDXF(path string) ImportResult {
	result := ImportResult{}

	drawing, err := dxf.Open(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open DXF file: %v", err))
		return result
	}

	entities := drawing.Entities()
	if len(entities) == 0 {
		result.Errors = append(result.Errors, "DXF file contains no entities")
		return result
	}

	extents := make(map[model.ComponentID]*extent)
	ignored := make(map[string]bool)
	for _, ent := range entities {
		if ent.Layer() == nil {
			continue
		}
		layer := strings.ToUpper(ent.Layer().Name())
		id := model.ComponentID(layer)
		if !id.Valid() {
			ignored[layer] = true
			continue
		}
		ext, ok := extents[id]
		if !ok {
			ext = newExtent()
			extents[id] = ext
		}

		switch e := ent.(type) {
		case *entity.LwPolyline:
			for _, p := range lwPolylinePoints(e) {
				ext.add(p)
			}
		case *entity.Circle:
			ext.add(geometry.Point{X: e.Center[0] - e.Radius, Y: e.Center[1] - e.Radius})
			ext.add(geometry.Point{X: e.Center[0] + e.Radius, Y: e.Center[1] + e.Radius})
		case *entity.Arc:
			for _, p := range arcToPoints(e, 32) {
				ext.add(p)
			}
		case *entity.Line:
			ext.add(geometry.Point{X: e.Start[0], Y: e.Start[1]})
			ext.add(geometry.Point{X: e.End[0], Y: e.End[1]})
		default:
			// Unsupported entity types are silently skipped
		}
	}

	if len(ignored) > 0 {
		names := make([]string, 0, len(ignored))
		for name := range ignored {
			names = append(names, name)
		}
		sort.Strings(names)
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Ignored layers without a component name: %s", strings.Join(names, ", ")))
	}

	stock := model.NewComponentSet(model.DefaultComponents())
	for _, id := range model.ComponentIDs {
		ext, ok := extents[id]
		if !ok {
			continue
		}
		width, height := ext.size()
		if width < 0.01 || height < 0.01 {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Skipped degenerate footprint on layer %s (%.2f x %.2f)", id, width, height))
			continue
		}
		result.Components = append(result.Components, model.NewComponent(id, width, height, stock[id].Rule))
	}

	if len(result.Components) == 0 {
		result.Errors = append(result.Errors, "No component layers found in DXF file")
	}
	return result
}

// lwPolylinePoints returns the vertices of a LWPOLYLINE, with bulged
// segments interpolated as arcs.
func lwPolylinePoints(lw *entity.LwPolyline) []geometry.Point {
	var pts []geometry.Point

	for i := 0; i < len(lw.Vertices); i++ {
		v := lw.Vertices[i]
		current := geometry.Point{X: v[0], Y: v[1]}

		bulge := 0.0
		if i < len(lw.Bulges) {
			bulge = lw.Bulges[i]
		}

		if math.Abs(bulge) > 1e-9 {
			nextIdx := (i + 1) % len(lw.Vertices)
			next := geometry.Point{X: lw.Vertices[nextIdx][0], Y: lw.Vertices[nextIdx][1]}
			arc := bulgeArcPoints(current, next, bulge, 32)
			pts = append(pts, arc[:len(arc)-1]...)
		} else {
			pts = append(pts, current)
		}
	}

	return pts
}

// bulgeArcPoints generates points along an arc defined by two endpoints and a
// DXF bulge factor. The bulge is the tangent of 1/4 the included angle.
func bulgeArcPoints(p1, p2 geometry.Point, bulge float64, numSegments int) []geometry.Point {
	mx := (p1.X + p2.X) / 2
	my := (p1.Y + p2.Y) / 2
	dx := p2.X - p1.X
	dy := p2.Y - p1.Y
	chordLen := math.Hypot(dx, dy)
	if chordLen < 1e-9 {
		return []geometry.Point{p1, p2}
	}

	sagitta := math.Abs(bulge) * chordLen / 2
	radius := (chordLen*chordLen/(4*sagitta) + sagitta) / 2

	// Arc centre lies on the chord's perpendicular bisector
	perpX := -dy / chordLen
	perpY := dx / chordLen
	dist := radius - sagitta
	if bulge > 0 {
		perpX, perpY = -perpX, -perpY
	}
	cx := mx + perpX*dist
	cy := my + perpY*dist

	startAngle := math.Atan2(p1.Y-cy, p1.X-cx)
	endAngle := math.Atan2(p2.Y-cy, p2.X-cx)
	if bulge < 0 {
		if endAngle > startAngle {
			endAngle -= 2 * math.Pi
		}
	} else if endAngle < startAngle {
		endAngle += 2 * math.Pi
	}

	pts := make([]geometry.Point, 0, numSegments+1)
	for i := 0; i <= numSegments; i++ {
		t := float64(i) / float64(numSegments)
		angle := startAngle + t*(endAngle-startAngle)
		pts = append(pts, geometry.Point{
			X: cx + radius*math.Cos(angle),
			Y: cy + radius*math.Sin(angle),
		})
	}
	return pts
}

// arcToPoints converts a DXF ARC entity to a series of points.
func arcToPoints(a *entity.Arc, numSegments int) []geometry.Point {
	cx, cy := a.Circle.Center[0], a.Circle.Center[1]
	r := a.Circle.Radius

	startRad := a.Angle[0] * math.Pi / 180
	endRad := a.Angle[1] * math.Pi / 180
	if endRad <= startRad {
		endRad += 2 * math.Pi
	}

	pts := make([]geometry.Point, numSegments+1)
	for i := 0; i <= numSegments; i++ {
		t := float64(i) / float64(numSegments)
		angle := startRad + t*(endRad-startRad)
		pts[i] = geometry.Point{
			X: cx + r*math.Cos(angle),
			Y: cy + r*math.Sin(angle),
		}
	}
	return pts
}
