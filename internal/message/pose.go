package message

// Pose holds the six optional cartesian/rotary axes a motion message may
// target.
type Pose struct {
	X, Y, Z, A, B, C *float64
}

// Equal reports whether two poses match axis-by-axis within tol.
func (p Pose) Equal(o Pose, tol float64) bool {
	return floatsEqual(p.X, o.X, tol) &&
		floatsEqual(p.Y, o.Y, tol) &&
		floatsEqual(p.Z, o.Z, tol) &&
		floatsEqual(p.A, o.A, tol) &&
		floatsEqual(p.B, o.B, tol) &&
		floatsEqual(p.C, o.C, tol)
}

// ArcParams holds the optional centre-offset/radius fields an arc message
// may carry.
type ArcParams struct {
	I, J, K, R *float64
}

// Equal reports whether two arc parameter sets match field-by-field within
// tol.
func (a ArcParams) Equal(o ArcParams, tol float64) bool {
	return floatsEqual(a.I, o.I, tol) &&
		floatsEqual(a.J, o.J, tol) &&
		floatsEqual(a.K, o.K, tol) &&
		floatsEqual(a.R, o.R, tol)
}

func floatsEqual(a, b *float64, tol float64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	d := *a - *b
	if d < 0 {
		d = -d
	}
	return d <= tol
}

func floatPtr(v float64) *float64 { return &v }
