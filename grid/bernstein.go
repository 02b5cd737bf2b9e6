package grid

// Closed-form integrals of the 1-D Bernstein basis on the reference
// interval [0,1]. Products of Bernstein polynomials are again Bernstein
// polynomials, so every integral below reduces to ratios of binomials:
//
//	∫ B_{i,m}·B_{j,n} = C(m,i)·C(n,j) / ((m+n+1)·C(m+n,i+j))
//	B'_{i,p} = p·(B_{i-1,p-1} − B_{i,p-1})

// binom returns C(n, k) as a float64, 0 outside the valid range.
func binom(n, k int) float64 {
	if k < 0 || k > n {
		return 0
	}
	if k > n-k {
		k = n - k
	}
	r := 1.0
	for i := 1; i <= k; i++ {
		r = r * float64(n-k+i) / float64(i)
	}
	return r
}

// overlap returns the (p+1)×(p+1) matrix M with M[i][j] = ∫ B_{i,p}·B_{j,p}.
// Symmetric and strictly positive.
func overlap(p int) [][]float64 {
	m := make([][]float64, p+1)
	for i := range m {
		m[i] = make([]float64, p+1)
		for j := 0; j <= p; j++ {
			m[i][j] = binom(p, i) * binom(p, j) / (float64(2*p+1) * binom(2*p, i+j))
		}
	}
	return m
}

// volCoeff returns the (p+1)×(p+1) matrix A with A[i][j] = ∫ B'_{i,p}·B_{j,p}.
// Off-diagonal entries satisfy A[i][j] = −A[j][i] exactly (the boundary term
// of integration by parts vanishes for i ≠ j); the upper triangle is computed
// and mirrored so the identity holds bitwise. Diagonal entries are the
// endpoint values (B_i(1)²−B_i(0)²)/2; faceAdjust cancels them exactly in
// the tensor-product couplings.
func volCoeff(p int) [][]float64 {
	t := func(k, j int) float64 {
		if k < 0 || k > p-1 {
			return 0
		}
		return binom(p-1, k) * binom(p, j) / (float64(2*p) * binom(2*p-1, k+j))
	}
	a := make([][]float64, p+1)
	for i := range a {
		a[i] = make([]float64, p+1)
	}
	for i := 0; i <= p; i++ {
		a[i][i] = float64(p) * (t(i-1, i) - t(i, i))
		for j := i + 1; j <= p; j++ {
			a[i][j] = float64(p) * (t(i-1, j) - t(i, j))
			a[j][i] = -a[i][j]
		}
	}
	return a
}

// faceAdjust is the central-flux face contribution to the in-element
// coupling of two local 1-D indices: −1/2 when both sit on the right
// element face, +1/2 when both sit on the left face, 0 otherwise.
func faceAdjust(a, b, p int) float64 {
	switch {
	case a == p && b == p:
		return -0.5
	case a == 0 && b == 0:
		return 0.5
	default:
		return 0
	}
}
