package skeleton

import "math"

// SkeletonBounds collects the world polygons of the bounding box attachments a
// skeleton currently shows, for hit detection.
type SkeletonBounds struct {
	MinX, MinY, MaxX, MaxY float64

	BoundingBoxes []*BoundingBoxAttachment
	Polygons      [][]float64
}

// Update recomputes the polygons from the skeleton's current pose. With
// updateAABB the box around all polygons is recomputed too.
func (b *SkeletonBounds) Update(s *Skeleton, updateAABB bool) {
	b.BoundingBoxes = b.BoundingBoxes[:0]
	b.Polygons = b.Polygons[:0]
	for _, sl := range s.slots {
		if !sl.Bone().active {
			continue
		}
		bb, ok := sl.attachment.(*BoundingBoxAttachment)
		if !ok {
			continue
		}
		poly := make([]float64, bb.WorldVerticesLength)
		bb.ComputeWorldVertices(sl, 0, bb.WorldVerticesLength, poly, 0, 2)
		b.BoundingBoxes = append(b.BoundingBoxes, bb)
		b.Polygons = append(b.Polygons, poly)
	}
	if updateAABB {
		b.aabbCompute()
	} else {
		b.MinX, b.MinY = math.Inf(-1), math.Inf(-1)
		b.MaxX, b.MaxY = math.Inf(1), math.Inf(1)
	}
}

func (b *SkeletonBounds) aabbCompute() {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, poly := range b.Polygons {
		for i := 0; i+1 < len(poly); i += 2 {
			minX = math.Min(minX, poly[i])
			minY = math.Min(minY, poly[i+1])
			maxX = math.Max(maxX, poly[i])
			maxY = math.Max(maxY, poly[i+1])
		}
	}
	b.MinX, b.MinY, b.MaxX, b.MaxY = minX, minY, maxX, maxY
}

// AABBContainsPoint reports whether the point is inside the box around all
// polygons.
func (b *SkeletonBounds) AABBContainsPoint(x, y float64) bool {
	return x >= b.MinX && x <= b.MaxX && y >= b.MinY && y <= b.MaxY
}

// ContainsPoint returns the first bounding box whose polygon contains the
// point, or nil.
func (b *SkeletonBounds) ContainsPoint(x, y float64) *BoundingBoxAttachment {
	for i, poly := range b.Polygons {
		if PolygonContainsPoint(poly, x, y) {
			return b.BoundingBoxes[i]
		}
	}
	return nil
}

// PolygonContainsPoint tests a point against a polygon of x,y pairs with
// the even-odd rule.
func PolygonContainsPoint(poly []float64, x, y float64) bool {
	n := len(poly)
	if n < 6 {
		return false
	}
	prev := n - 2
	inside := false
	for i := 0; i < n; i += 2 {
		vy, py := poly[i+1], poly[prev+1]
		if (vy < y && py >= y) || (py < y && vy >= y) {
			vx := poly[i]
			if vx+(y-vy)/(py-vy)*(poly[prev]-vx) < x {
				inside = !inside
			}
		}
		prev = i
	}
	return inside
}
