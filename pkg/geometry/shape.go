package geometry

// shapeDetectTolerance is the maximum allowed error for shape detection.
const shapeDetectTolerance = 1e-3

// DetectRect reports whether cmds describe a single axis-aligned rectangle,
// and returns it. Accepted forms are MoveTo followed by three LineTo, or four
// LineTo where the last returns to the start, either optionally followed by
// Close. Fills and clips close subpaths implicitly, so the Close is not
// required.
func DetectRect(cmds []PathCommand) (Rect, bool) {
	if len(cmds) < 4 || len(cmds) > 6 {
		return Rect{}, false
	}
	if cmds[0].Op != PathOpMoveTo || cmds[0].Validate() != nil {
		return Rect{}, false
	}

	pts := []Offset{{X: cmds[0].Args[0], Y: cmds[0].Args[1]}}
	for i, c := range cmds[1:] {
		switch c.Op {
		case PathOpLineTo:
			if c.Validate() != nil {
				return Rect{}, false
			}
			pts = append(pts, Offset{X: c.Args[0], Y: c.Args[1]})
		case PathOpClose:
			// Close must be the final command.
			if i != len(cmds)-2 {
				return Rect{}, false
			}
		default:
			return Rect{}, false
		}
	}

	if len(pts) == 5 && pointsClose(pts[4], pts[0]) {
		pts = pts[:4]
	}
	if len(pts) != 4 {
		return Rect{}, false
	}

	// Edges must alternate between horizontal and vertical.
	firstHorizontal := nearlyEqual(pts[0].Y, pts[1].Y)
	for i := range 4 {
		a, b := pts[i], pts[(i+1)%4]
		horizontal := (i%2 == 0) == firstHorizontal
		if horizontal && !nearlyEqual(a.Y, b.Y) {
			return Rect{}, false
		}
		if !horizontal && !nearlyEqual(a.X, b.X) {
			return Rect{}, false
		}
	}

	r := RectFromPoints(pts[0], pts[2])
	if r.IsEmpty() {
		return Rect{}, false
	}
	return r, true
}

func nearlyEqual(a, b float64) bool {
	d := a - b
	return d <= shapeDetectTolerance && d >= -shapeDetectTolerance
}

func pointsClose(a, b Offset) bool {
	return nearlyEqual(a.X, b.X) && nearlyEqual(a.Y, b.Y)
}
