package math

// Mat3 is a 3x3 matrix stored row-major: [r0c0, r0c1, r0c2, r1c0, ...].
// Covariances and ellipsoid embeddings use this type.
type Mat3 [9]float64

// Mat3Identity returns the 3x3 identity.
func Mat3Identity() Mat3 {
	return Mat3{1, 0, 0, 0, 1, 0, 0, 0, 1}
}

// Mat3Diag returns a diagonal matrix.
func Mat3Diag(x, y, z float64) Mat3 {
	return Mat3{x, 0, 0, 0, y, 0, 0, 0, z}
}

// At returns the element at row r, column c.
func (m Mat3) At(r, c int) float64 {
	return m[r*3+c]
}

// Mul returns m * other.
func (m Mat3) Mul(other Mat3) Mat3 {
	var result Mat3
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			result[r*3+c] = m[r*3+0]*other[0*3+c] + m[r*3+1]*other[1*3+c] + m[r*3+2]*other[2*3+c]
		}
	}
	return result
}

// MulVec3 returns m * v.
func (m Mat3) MulVec3(v Vec3) Vec3 {
	return Vec3{
		m[0]*v.X + m[1]*v.Y + m[2]*v.Z,
		m[3]*v.X + m[4]*v.Y + m[5]*v.Z,
		m[6]*v.X + m[7]*v.Y + m[8]*v.Z,
	}
}

// Scale returns every element multiplied by s.
func (m Mat3) Scale(s float64) Mat3 {
	var result Mat3
	for i := range m {
		result[i] = m[i] * s
	}
	return result
}

// Transpose returns the transposed matrix.
func (m Mat3) Transpose() Mat3 {
	return Mat3{
		m[0], m[3], m[6],
		m[1], m[4], m[7],
		m[2], m[5], m[8],
	}
}

// Det returns the determinant.
func (m Mat3) Det() float64 {
	return m[0]*(m[4]*m[8]-m[5]*m[7]) -
		m[1]*(m[3]*m[8]-m[5]*m[6]) +
		m[2]*(m[3]*m[7]-m[4]*m[6])
}

// IsSymmetric reports whether m equals its transpose within tol.
func (m Mat3) IsSymmetric(tol float64) bool {
	pairs := [3][2]int{{1, 3}, {2, 6}, {5, 7}}
	for _, p := range pairs {
		d := m[p[0]] - m[p[1]]
		if d > tol || d < -tol {
			return false
		}
	}
	return true
}

// IsFinite reports whether no element is NaN or infinite.
func (m Mat3) IsFinite() bool {
	for _, v := range m {
		if !isFinite(v) {
			return false
		}
	}
	return true
}

// Rows returns the matrix as nested rows.
func (m Mat3) Rows() [3][3]float64 {
	return [3][3]float64{
		{m[0], m[1], m[2]},
		{m[3], m[4], m[5]},
		{m[6], m[7], m[8]},
	}
}

// Mat3FromRows builds a Mat3 from nested rows.
func Mat3FromRows(rows [3][3]float64) Mat3 {
	return Mat3{
		rows[0][0], rows[0][1], rows[0][2],
		rows[1][0], rows[1][1], rows[1][2],
		rows[2][0], rows[2][1], rows[2][2],
	}
}
