package grid

import (
	"math"

	"github.com/katalvlaran/hypflow/fem"
)

// New1D constructs a uniform 1-D grid of `elements` order-p Bernstein
// elements on [0,1]. Periodic grids wrap the last face onto the first;
// non-periodic grids expose the two domain-boundary faces instead.
// Complexity: O(elements·p²) time and memory.
func New1D(elements, order int, periodic bool) (*Grid, error) {
	if order < 1 {
		return nil, ErrBadOrder
	}
	if elements < 2 {
		return nil, ErrTooFewElements
	}
	p := order
	nl := p + 1
	n := elements * nl
	h := 1 / float64(elements)

	g := &Grid{
		dim:      1,
		order:    p,
		ex:       elements,
		ey:       1,
		periodic: periodic,
		n:        n,
		mass:     make([]float64, n),
		coords:   make([]fem.Point, n),
	}
	for e := 0; e < elements; e++ {
		for k := 0; k <= p; k++ {
			i := e*nl + k
			g.mass[i] = h / float64(nl)
			g.coords[i] = fem.Point{(float64(e) + float64(k)/float64(p)) * h, 0}
		}
	}

	// Same-element pairs from the closed-form volume coefficients.
	avol := volCoeff(p)
	for e := 0; e < elements; e++ {
		base := e * nl
		for i := 0; i <= p; i++ {
			for j := i + 1; j <= p; j++ {
				c := avol[i][j]
				if math.Abs(c) <= dropTol {
					continue
				}
				g.pairs = append(g.pairs, fem.Pair{
					I:     base + i,
					J:     base + j,
					Kappa: math.Abs(c),
					N:     fem.Point{sign(c), 0},
					X:     pairMid(g.coords[base+i], g.coords[base+j]),
				})
			}
		}
	}

	// Cross-face pairs: central flux couples the two trace dofs of every
	// interior face with coefficient −1/2 seen from the left element.
	for e := 0; e < elements; e++ {
		if e == elements-1 && !periodic {
			break
		}
		en := (e + 1) % elements
		g.pairs = append(g.pairs, fem.Pair{
			I:     e*nl + p,
			J:     en * nl,
			Kappa: 0.5,
			N:     fem.Point{-1, 0},
			X:     fem.Point{float64(e+1) * h, 0},
		})
	}

	if !periodic {
		g.bfaces = []fem.BoundaryFace{
			{Dof: 0, Kappa: 1, N: fem.Point{-1, 0}, X: fem.Point{0, 0}},
			{Dof: n - 1, Kappa: 1, N: fem.Point{1, 0}, X: fem.Point{1, 0}},
		}
	}

	g.buildStencil1D()
	return g, nil
}

// buildStencil1D fills the flat neighbor arenas: same-element neighbors are
// all other dofs of the element; cross-face neighbors are the single trace
// dof across each touching face.
func (g *Grid) buildStencil1D() {
	p, nl, elements := g.order, g.order+1, g.ex
	g.elemOff = make([]int, g.n+1)
	g.faceOff = make([]int, g.n+1)
	g.elemAdj = make([]int, 0, g.n*p)
	g.faceAdj = make([]int, 0, 2*elements)
	for i := 0; i < g.n; i++ {
		e, k := i/nl, i%nl
		for l := 0; l <= p; l++ {
			if l != k {
				g.elemAdj = append(g.elemAdj, e*nl+l)
			}
		}
		g.elemOff[i+1] = len(g.elemAdj)
		if k == 0 && (e > 0 || g.periodic) {
			prev := (e - 1 + elements) % elements
			g.faceAdj = append(g.faceAdj, prev*nl+p)
		}
		if k == p && (e < elements-1 || g.periodic) {
			next := (e + 1) % elements
			g.faceAdj = append(g.faceAdj, next*nl)
		}
		g.faceOff[i+1] = len(g.faceAdj)
	}
}

// New2D constructs a uniform, fully periodic 2-D quad grid of ex×ey order-p
// Bernstein elements on the unit square. Complexity: O(ex·ey·p⁴).
func New2D(ex, ey, order int) (*Grid, error) {
	if order < 1 {
		return nil, ErrBadOrder
	}
	if ex < 2 || ey < 2 {
		return nil, ErrTooFewElements
	}
	p := order
	nl := p + 1
	nloc := nl * nl
	nelem := ex * ey
	n := nelem * nloc
	hx, hy := 1/float64(ex), 1/float64(ey)

	g := &Grid{
		dim:      2,
		order:    p,
		ex:       ex,
		ey:       ey,
		periodic: true,
		n:        n,
		mass:     make([]float64, n),
		coords:   make([]fem.Point, n),
	}
	dof := func(e, kx, ky int) int { return e*nloc + ky*nl + kx }
	for e := 0; e < nelem; e++ {
		cx, cy := e%ex, e/ex
		for ky := 0; ky <= p; ky++ {
			for kx := 0; kx <= p; kx++ {
				i := dof(e, kx, ky)
				g.mass[i] = hx * hy / float64(nloc)
				g.coords[i] = fem.Point{
					(float64(cx) + float64(kx)/float64(p)) * hx,
					(float64(cy) + float64(ky)/float64(p)) * hy,
				}
			}
		}
	}

	avol := volCoeff(p)
	ovl := overlap(p)

	// Same-element pairs: tensor products of the 1-D volume and overlap
	// integrals, with the face contribution folded into the diagonal 1-D
	// factors so the coefficient is exactly antisymmetric.
	for e := 0; e < nelem; e++ {
		for a := 0; a < nloc; a++ {
			for b := a + 1; b < nloc; b++ {
				ax, ay := a%nl, a/nl
				bx, by := b%nl, b/nl
				cx := (avol[ax][bx] + faceAdjust(ax, bx, p)) * ovl[ay][by] * hy
				cy := ovl[ax][bx] * hx * (avol[ay][by] + faceAdjust(ay, by, p))
				g.appendPair(e*nloc+a, e*nloc+b, fem.Point{cx, cy})
			}
		}
	}

	// Cross-face pairs: every trace dof couples to every trace dof on the
	// touching face of the +x / +y neighbor element (the −x / −y faces are
	// those same pairs seen from the other side).
	for e := 0; e < nelem; e++ {
		cx, cy := e%ex, e/ex
		ePx := cy*ex + (cx+1)%ex
		ePy := ((cy+1)%ey)*ex + cx
		for ay := 0; ay <= p; ay++ {
			for by := 0; by <= p; by++ {
				c := fem.Point{-0.5 * ovl[ay][by] * hy, 0}
				g.appendPair(dof(e, p, ay), dof(ePx, 0, by), c)
			}
		}
		for ax := 0; ax <= p; ax++ {
			for bx := 0; bx <= p; bx++ {
				c := fem.Point{0, -0.5 * ovl[ax][bx] * hx}
				g.appendPair(dof(e, ax, p), dof(ePy, bx, 0), c)
			}
		}
	}

	g.buildStencil2D()
	return g, nil
}

// appendPair normalizes a raw coefficient vector into (Kappa, N) form and
// appends the pair, dropping exact-zero couplings.
func (g *Grid) appendPair(i, j int, c fem.Point) {
	k := math.Hypot(c[0], c[1])
	if k <= dropTol {
		return
	}
	g.pairs = append(g.pairs, fem.Pair{
		I:     i,
		J:     j,
		Kappa: k,
		N:     fem.Point{c[0] / k, c[1] / k},
		X:     pairMid(g.coords[i], g.coords[j]),
	})
}

// buildStencil2D fills the neighbor arenas: all other element dofs, plus
// the full trace of every face-adjacent element for dofs on element faces.
func (g *Grid) buildStencil2D() {
	p, nl := g.order, g.order+1
	nloc := nl * nl
	ex, ey := g.ex, g.ey
	g.elemOff = make([]int, g.n+1)
	g.faceOff = make([]int, g.n+1)
	g.elemAdj = make([]int, 0, g.n*(nloc-1))
	g.faceAdj = make([]int, 0, g.n)
	dof := func(e, kx, ky int) int { return e*nloc + ky*nl + kx }
	for i := 0; i < g.n; i++ {
		e := i / nloc
		l := i % nloc
		kx, ky := l%nl, l/nl
		cx, cy := e%ex, e/ex
		for m := 0; m < nloc; m++ {
			if m != l {
				g.elemAdj = append(g.elemAdj, e*nloc+m)
			}
		}
		g.elemOff[i+1] = len(g.elemAdj)

		var fn []int
		if kx == 0 {
			en := cy*ex + (cx-1+ex)%ex
			for by := 0; by <= p; by++ {
				fn = append(fn, dof(en, p, by))
			}
		}
		if kx == p {
			en := cy*ex + (cx+1)%ex
			for by := 0; by <= p; by++ {
				fn = append(fn, dof(en, 0, by))
			}
		}
		if ky == 0 {
			en := ((cy-1+ey)%ey)*ex + cx
			for bx := 0; bx <= p; bx++ {
				fn = append(fn, dof(en, bx, p))
			}
		}
		if ky == p {
			en := ((cy+1)%ey)*ex + cx
			for bx := 0; bx <= p; bx++ {
				fn = append(fn, dof(en, bx, 0))
			}
		}
		sortInts(fn)
		g.faceAdj = append(g.faceAdj, fn...)
		g.faceOff[i+1] = len(g.faceAdj)
	}
}

// pairMid returns the midpoint of two node positions, unwrapping across the
// periodic seam so the midpoint stays on the short arc between them.
func pairMid(a, b fem.Point) fem.Point {
	var m fem.Point
	for d := 0; d < 2; d++ {
		x, y := a[d], b[d]
		if math.Abs(x-y) > 0.5 {
			if x < y {
				x++
			} else {
				y++
			}
		}
		v := (x + y) / 2
		if v >= 1 {
			v--
		}
		m[d] = v
	}
	return m
}

func sign(x float64) float64 {
	if x < 0 {
		return -1
	}
	return 1
}

// sortInts is an insertion sort; neighbor lists are tiny.
func sortInts(a []int) {
	for i := 1; i < len(a); i++ {
		for j := i; j > 0 && a[j] < a[j-1]; j-- {
			a[j], a[j-1] = a[j-1], a[j]
		}
	}
}
