package scissors

import (
	"fmt"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/iterator"
	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"

	"volseg/internal/models"
)

// pixelGraph adapts a CostMap to gonum's weighted graph interfaces. Nodes
// are pixels identified by their row-major index; edges connect 8-adjacent
// pixels with EdgeCost weights.
type pixelGraph struct {
	cm *CostMap
}

var _ graph.Weighted = (*pixelGraph)(nil)

func (g *pixelGraph) point(id int64) models.Point {
	return models.Point{X: int(id) % g.cm.width, Y: int(id) / g.cm.width}
}

func (g *pixelGraph) id(p models.Point) int64 {
	return int64(p.Y*g.cm.width + p.X)
}

// Node returns the node with the given ID, or nil for out-of-range IDs.
func (g *pixelGraph) Node(id int64) graph.Node {
	if id < 0 || id >= int64(g.cm.width*g.cm.height) {
		return nil
	}
	return simple.Node(id)
}

// Nodes returns an iterator over every pixel of the cost map.
func (g *pixelGraph) Nodes() graph.Nodes {
	return iterator.NewImplicitNodes(0, g.cm.width*g.cm.height, func(id int) graph.Node {
		return simple.Node(id)
	})
}

// From returns the 8-connected in-bounds neighbors of the given pixel.
func (g *pixelGraph) From(id int64) graph.Nodes {
	p := g.point(id)
	nodes := make([]graph.Node, 0, 8)
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			q := models.Point{X: p.X + dx, Y: p.Y + dy}
			if g.cm.InBounds(q) {
				nodes = append(nodes, simple.Node(g.id(q)))
			}
		}
	}
	if len(nodes) == 0 {
		return graph.Empty
	}
	return iterator.NewOrderedNodes(nodes)
}

// HasEdgeBetween reports whether two pixels are 8-adjacent.
func (g *pixelGraph) HasEdgeBetween(xid, yid int64) bool {
	if xid == yid {
		return false
	}
	p, q := g.point(xid), g.point(yid)
	if !g.cm.InBounds(p) || !g.cm.InBounds(q) {
		return false
	}
	dx, dy := p.X-q.X, p.Y-q.Y
	return dx >= -1 && dx <= 1 && dy >= -1 && dy <= 1
}

// Edge returns the edge between two adjacent pixels, or nil.
func (g *pixelGraph) Edge(uid, vid int64) graph.Edge {
	return g.WeightedEdge(uid, vid)
}

// WeightedEdge returns the weighted edge between two adjacent pixels, or nil.
func (g *pixelGraph) WeightedEdge(uid, vid int64) graph.WeightedEdge {
	if !g.HasEdgeBetween(uid, vid) {
		return nil
	}
	w, _ := g.Weight(uid, vid)
	return simple.WeightedEdge{F: simple.Node(uid), T: simple.Node(vid), W: w}
}

// Weight returns the cost of stepping from xid to yid.
func (g *pixelGraph) Weight(xid, yid int64) (w float64, ok bool) {
	if xid == yid {
		return 0, true
	}
	if !g.HasEdgeBetween(xid, yid) {
		return 0, false
	}
	return g.cm.EdgeCost(g.point(xid), g.point(yid)), true
}

// Finder runs single-source shortest-path searches over a cost map.
type Finder struct {
	g *pixelGraph
}

// NewFinder creates a path finder for the given cost map.
func NewFinder(cm *CostMap) *Finder {
	return &Finder{g: &pixelGraph{cm: cm}}
}

// Search runs Dijkstra from the given anchor pixel to every reachable pixel.
// The returned Result makes any subsequent path lookup a tree walk, so the
// live preview can be refreshed per pointer event without re-searching.
func (f *Finder) Search(from models.Point) (*Result, error) {
	if !f.g.cm.InBounds(from) {
		return nil, fmt.Errorf("anchor (%d, %d) outside %dx%d cost map",
			from.X, from.Y, f.g.cm.width, f.g.cm.height)
	}
	shortest := path.DijkstraFrom(simple.Node(f.g.id(from)), f.g)
	return &Result{g: f.g, from: from, shortest: shortest}, nil
}

// Result is the completed shortest-path tree rooted at one anchor.
type Result struct {
	g        *pixelGraph
	from     models.Point
	shortest path.Shortest
}

// From returns the anchor the search ran from.
func (r *Result) From() models.Point { return r.from }

// PathTo returns the minimum-cost pixel path from the anchor to the target,
// inclusive of both endpoints. It returns nil for out-of-bounds targets.
func (r *Result) PathTo(to models.Point) []models.Point {
	if !r.g.cm.InBounds(to) {
		return nil
	}
	nodes, _ := r.shortest.To(r.g.id(to))
	if len(nodes) == 0 {
		return nil
	}
	pts := make([]models.Point, len(nodes))
	for i, n := range nodes {
		pts[i] = r.g.point(n.ID())
	}
	return pts
}

// CostTo returns the accumulated path cost from the anchor to the target.
func (r *Result) CostTo(to models.Point) float64 {
	if !r.g.cm.InBounds(to) {
		return 0
	}
	return r.shortest.WeightTo(r.g.id(to))
}
