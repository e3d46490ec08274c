package contour

import (
	"fmt"

	"github.com/fgaudin/luxgrid/internal/logic/sampling"
)

// edgeKind distinguishes the two grid edge families.
type edgeKind uint8

const (
	edgeH edgeKind = iota // (x,y) → (x+1,y)
	edgeV                 // (x,y) → (x,y+1)
)

// edgeKey identifies one physical grid edge. Two adjacent cells sharing
// an edge produce the same key, so the crossing point is computed and
// stored exactly once.
type edgeKey struct {
	kind edgeKind
	x, y int
}

// cellEdge enumerates the four edges of a marching-squares cell.
type cellEdge uint8

const (
	cellTop cellEdge = iota
	cellRight
	cellBottom
	cellLeft
)

// connections maps each 4-bit corner configuration (TL<<3 | TR<<2 |
// BR<<1 | BL) to the cell-local edge pairs the contour joins. The two
// saddle configurations (5 and 10) resolve to two separate connections
// around same-corner-adjacent edges, never a single crossing strand.
var connections = [16][][2]cellEdge{
	0x1: {{cellBottom, cellLeft}},
	0x2: {{cellRight, cellBottom}},
	0x3: {{cellLeft, cellRight}},
	0x4: {{cellTop, cellRight}},
	0x5: {{cellTop, cellRight}, {cellBottom, cellLeft}}, // saddle TR+BL
	0x6: {{cellTop, cellBottom}},
	0x7: {{cellTop, cellLeft}},
	0x8: {{cellTop, cellLeft}},
	0x9: {{cellTop, cellBottom}},
	0xA: {{cellTop, cellLeft}, {cellBottom, cellRight}}, // saddle TL+BR
	0xB: {{cellTop, cellRight}},
	0xC: {{cellLeft, cellRight}},
	0xD: {{cellRight, cellBottom}},
	0xE: {{cellBottom, cellLeft}},
}

// node is one deduplicated edge-crossing point with its adjacency.
// Nodes live in an index-addressed arena so traversal never depends on
// pointer identity or map iteration order.
type node struct {
	pt  Point
	adj []int
}

type extractor struct {
	grid      *sampling.Grid
	threshold float64
	nodes     []node
	index     map[edgeKey]int
}

// Extract runs marching squares over the grid at the given threshold and
// returns the stitched polylines, unsmoothed. Grids with fewer than two
// samples on either axis have no interior cells and yield no contours.
// A crossing-graph node of degree above 2 is geometrically impossible
// given the connection table and reported as an error rather than
// producing corrupted polylines.
func Extract(grid *sampling.Grid, threshold float64) ([]Polyline, error) {
	if grid.Width < 2 || grid.Height < 2 {
		return nil, nil
	}

	ex := &extractor{
		grid:      grid,
		threshold: threshold,
		index:     make(map[edgeKey]int),
	}

	for cy := 0; cy < grid.Height-1; cy++ {
		for cx := 0; cx < grid.Width-1; cx++ {
			if err := ex.cell(cx, cy); err != nil {
				return nil, err
			}
		}
	}

	return ex.trace(), nil
}

// cell classifies one cell and records its contour connections.
func (ex *extractor) cell(cx, cy int) error {
	bl := ex.bit(cx, cy)
	br := ex.bit(cx+1, cy)
	tr := ex.bit(cx+1, cy+1)
	tl := ex.bit(cx, cy+1)

	config := tl<<3 | tr<<2 | br<<1 | bl
	if config == 0x0 || config == 0xF {
		return nil
	}

	for _, pair := range connections[config] {
		a := ex.crossing(cx, cy, pair[0])
		b := ex.crossing(cx, cy, pair[1])
		if err := ex.connect(a, b); err != nil {
			return err
		}
	}
	return nil
}

// bit is 1 when the corner value meets the threshold.
func (ex *extractor) bit(gx, gy int) int {
	if ex.grid.At(gx, gy) >= ex.threshold {
		return 1
	}
	return 0
}

// crossing returns the node index for a cell edge, interpolating and
// registering the crossing point on first sight.
func (ex *extractor) crossing(cx, cy int, e cellEdge) int {
	var key edgeKey
	switch e {
	case cellTop:
		key = edgeKey{edgeH, cx, cy + 1}
	case cellBottom:
		key = edgeKey{edgeH, cx, cy}
	case cellLeft:
		key = edgeKey{edgeV, cx, cy}
	case cellRight:
		key = edgeKey{edgeV, cx + 1, cy}
	}

	if idx, ok := ex.index[key]; ok {
		return idx
	}

	var pt Point
	if key.kind == edgeH {
		v0 := ex.grid.At(key.x, key.y)
		v1 := ex.grid.At(key.x+1, key.y)
		t := crossingT(v0, v1, ex.threshold)
		x0, x1 := ex.grid.WorldX(key.x), ex.grid.WorldX(key.x+1)
		pt = Point{X: x0 + (x1-x0)*t, Y: ex.grid.WorldY(key.y)}
	} else {
		v0 := ex.grid.At(key.x, key.y)
		v1 := ex.grid.At(key.x, key.y+1)
		t := crossingT(v0, v1, ex.threshold)
		y0, y1 := ex.grid.WorldY(key.y), ex.grid.WorldY(key.y+1)
		pt = Point{X: ex.grid.WorldX(key.x), Y: y0 + (y1-y0)*t}
	}

	idx := len(ex.nodes)
	ex.nodes = append(ex.nodes, node{pt: pt})
	ex.index[key] = idx
	return idx
}

// crossingT locates the threshold crossing along an edge as a fraction
// of its length. Equal endpoint values resolve to the midpoint.
func crossingT(v0, v1, threshold float64) float64 {
	if v1 == v0 {
		return 0.5
	}
	return (threshold - v0) / (v1 - v0)
}

// connect records an undirected graph edge between two crossing nodes.
func (ex *extractor) connect(a, b int) error {
	ex.nodes[a].adj = append(ex.nodes[a].adj, b)
	ex.nodes[b].adj = append(ex.nodes[b].adj, a)
	if len(ex.nodes[a].adj) > 2 || len(ex.nodes[b].adj) > 2 {
		return fmt.Errorf("contour: crossing node of degree > 2, grid topology is inconsistent")
	}
	return nil
}

// trace walks the crossing graph into polylines: first every open path
// from its degree-1 endpoints, then the remaining closed loops. Every
// node is visited exactly once.
func (ex *extractor) trace() []Polyline {
	visited := make([]bool, len(ex.nodes))
	var out []Polyline

	// Open paths end at the sampling boundary and have degree-1 tips.
	for i := range ex.nodes {
		if visited[i] || len(ex.nodes[i].adj) != 1 {
			continue
		}
		out = append(out, ex.walk(i, visited, false))
	}

	// Everything left unvisited is on a closed loop of degree-2 nodes.
	for i := range ex.nodes {
		if visited[i] || len(ex.nodes[i].adj) == 0 {
			continue
		}
		out = append(out, ex.walk(i, visited, true))
	}

	return out
}

// walk collects nodes from start through unvisited neighbors. Closed
// loops re-append the starting coordinate so first == last exactly.
func (ex *extractor) walk(start int, visited []bool, closed bool) Polyline {
	var line Polyline
	cur := start
	for {
		visited[cur] = true
		line = append(line, ex.nodes[cur].pt)

		next := -1
		for _, n := range ex.nodes[cur].adj {
			if !visited[n] {
				next = n
				break
			}
		}
		if next == -1 {
			break
		}
		cur = next
	}
	if closed {
		line = append(line, ex.nodes[start].pt)
	}
	return line
}
