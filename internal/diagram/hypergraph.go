package diagram

import (
	"fmt"
	"sort"
	"slices"
	"strconv"
	"strings"

	"github.com/benbjohnson/immutable"
	"github.com/hashicorp/go-set/v2"

	"github.com/born-ml/braid/internal/log"
)

var logger = log.For("hypergraph")

// Boundary is the node index of the diagram's own ports.
const Boundary = -1

// Port names one end of a wire. As a source it is output Index of box Node,
// or domain wire Index when Node is Boundary. As a target it is input Index
// of box Node, or codomain wire Index when Node is Boundary.
type Port struct {
	Node  int
	Index int
}

// Hypergraph is the wiring of a diagram with swaps erased. Nodes are the
// remaining boxes in insertion order; each target port records its source.
type Hypergraph struct {
	dom     Ty
	cod     Ty
	boxes   []*Box
	inputs  [][]Port // inputs[k][j] feeds input j of node k
	outputs []Port   // outputs[i] feeds codomain wire i
}

// ToHypergraph walks the layers keeping the open source port of every wire.
func (d *Diagram) ToHypergraph() *Hypergraph {
	h := &Hypergraph{dom: d.dom, cod: d.cod}
	scan := make([]Port, d.dom.Len())
	for i := range scan {
		scan[i] = Port{Node: Boundary, Index: i}
	}

	itr := d.layers.Iterator()
	for !itr.Done() {
		_, l := itr.Next()
		off := l.Left.Len()
		if l.Box.kind == KindSwap {
			scan[off], scan[off+1] = scan[off+1], scan[off]
			continue
		}

		k := len(h.boxes)
		nIn := l.Box.dom.Len()
		h.boxes = append(h.boxes, l.Box)
		h.inputs = append(h.inputs, append([]Port(nil), scan[off:off+nIn]...))

		next := make([]Port, 0, len(scan)-nIn+l.Box.cod.Len())
		next = append(next, scan[:off]...)
		for j := 0; j < l.Box.cod.Len(); j++ {
			next = append(next, Port{Node: k, Index: j})
		}
		next = append(next, scan[off+nIn:]...)
		scan = next
	}
	h.outputs = scan
	return h
}

// Dom returns the domain.
func (h *Hypergraph) Dom() Ty { return h.dom }

// Cod returns the codomain.
func (h *Hypergraph) Cod() Ty { return h.cod }

// Boxes returns the nodes in insertion order.
func (h *Hypergraph) Boxes() []*Box {
	return append([]*Box(nil), h.boxes...)
}

// Inputs returns the source port of each input of node k.
func (h *Hypergraph) Inputs(k int) []Port {
	return append([]Port(nil), h.inputs[k]...)
}

// Outputs returns the source port of each codomain wire.
func (h *Hypergraph) Outputs() []Port {
	return append([]Port(nil), h.outputs...)
}

// atom returns the type of the wire leaving source port p.
func (h *Hypergraph) atom(p Port) Ob {
	if p.Node == Boundary {
		return h.dom.At(p.Index)
	}
	return h.boxes[p.Node].cod.At(p.Index)
}

func (h *Hypergraph) typeOf(ports []Port) Ty {
	obs := make([]Ob, len(ports))
	for i, p := range ports {
		obs[i] = h.atom(p)
	}
	return tyOf(obs...)
}

// consumers maps every source port to the target port it feeds.
func (h *Hypergraph) consumers() map[Port]Port {
	out := make(map[Port]Port, len(h.outputs))
	for k, ins := range h.inputs {
		for j, src := range ins {
			out[src] = Port{Node: k, Index: j}
		}
	}
	for i, src := range h.outputs {
		out[src] = Port{Node: Boundary, Index: i}
	}
	return out
}

// topoOrder is Kahn's algorithm, always releasing the smallest ready index.
func (h *Hypergraph) topoOrder() []int {
	n := len(h.boxes)
	inDegree := make([]int, n)
	dependents := make([][]int, n)
	for k, ins := range h.inputs {
		for _, src := range ins {
			if src.Node != Boundary {
				dependents[src.Node] = append(dependents[src.Node], k)
				inDegree[k]++
			}
		}
	}

	var ready []int
	for k := 0; k < n; k++ {
		if inDegree[k] == 0 {
			ready = append(ready, k)
		}
	}
	order := make([]int, 0, n)
	for len(ready) > 0 {
		k := ready[0]
		ready = ready[1:]
		order = append(order, k)
		for _, dep := range dependents[k] {
			inDegree[dep]--
			if inDegree[dep] == 0 {
				i := sort.SearchInts(ready, dep)
				ready = slices.Insert(ready, i, dep)
			}
		}
	}
	return order
}

// ToDiagram rebuilds a layered diagram. Boxes follow the topological order;
// before each box its input wires are permuted into a contiguous block placed
// where the first of them already sits, and a final permutation restores
// the codomain order.
func (h *Hypergraph) ToDiagram() *Diagram {
	scan := make([]Port, h.dom.Len())
	for i := range scan {
		scan[i] = Port{Node: Boundary, Index: i}
	}
	result := Id(h.dom)

	for _, k := range h.topoOrder() {
		box := h.boxes[k]
		needed := h.inputs[k]

		position := make(map[Port]int, len(scan))
		for i, p := range scan {
			position[p] = i
		}
		pos := make([]int, len(needed))
		wanted := make([]bool, len(scan))
		first := len(scan)
		for j, p := range needed {
			pos[j] = position[p]
			wanted[pos[j]] = true
			first = min(first, pos[j])
		}
		var others []int
		offset := 0
		for i := range scan {
			if wanted[i] {
				continue
			}
			if i < first {
				offset++
			}
			others = append(others, i)
		}

		perm := make([]int, 0, len(scan))
		perm = append(perm, others[:offset]...)
		perm = append(perm, pos...)
		perm = append(perm, others[offset:]...)
		result, scan = h.permute(result, scan, perm)

		left := h.typeOf(scan[:offset])
		right := h.typeOf(scan[offset+len(needed):])
		result = Must(result.Then(Id(left).Tensor(box.Diagram(), Id(right))))

		next := make([]Port, 0, len(scan)-len(needed)+box.cod.Len())
		next = append(next, scan[:offset]...)
		for j := 0; j < box.cod.Len(); j++ {
			next = append(next, Port{Node: k, Index: j})
		}
		next = append(next, scan[offset+len(needed):]...)
		scan = next
	}

	position := make(map[Port]int, len(scan))
	for i, p := range scan {
		position[p] = i
	}
	perm := make([]int, len(h.outputs))
	for i, p := range h.outputs {
		perm[i] = position[p]
	}
	result, _ = h.permute(result, scan, perm)
	return result
}

// permute appends the permutation perm of the open wires to d.
func (h *Hypergraph) permute(d *Diagram, scan []Port, perm []int) (*Diagram, []Port) {
	next := make([]Port, len(perm))
	identity := true
	for i, p := range perm {
		next[i] = scan[p]
		identity = identity && p == i
	}
	if identity {
		return d, next
	}
	return Must(d.Then(Must(Permutation(perm, h.typeOf(scan))))), next
}

// labeler numbers nodes in depth-first order, following ports in order:
// inputs first, then outputs.
type labeler struct {
	h       *Hypergraph
	cons    map[Port]Port
	visited *set.Set[int]
	label   map[int]int
	order   []int
}

func newLabeler(h *Hypergraph, cons map[Port]Port) *labeler {
	return &labeler{h: h, cons: cons, visited: set.New[int](len(h.boxes)), label: make(map[int]int)}
}

func (l *labeler) visit(k int) {
	if !l.visited.Insert(k) {
		return
	}
	l.label[k] = len(l.order)
	l.order = append(l.order, k)
	for _, src := range l.h.inputs[k] {
		if src.Node != Boundary {
			l.visit(src.Node)
		}
	}
	for j := 0; j < l.h.boxes[k].cod.Len(); j++ {
		if t := l.cons[Port{Node: k, Index: j}]; t.Node != Boundary {
			l.visit(t.Node)
		}
	}
}

func (l *labeler) ref(p Port) string {
	if p.Node == Boundary {
		return "d" + strconv.Itoa(p.Index)
	}
	return strconv.Itoa(l.label[p.Node]) + "." + strconv.Itoa(p.Index)
}

func (l *labeler) serialize(sb *strings.Builder) {
	for _, k := range l.order {
		sb.WriteString(strconv.Quote(l.h.boxes[k].Key()))
		sb.WriteByte('[')
		for j, src := range l.h.inputs[k] {
			if j > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(l.ref(src))
		}
		sb.WriteString("];")
	}
}

// CanonicalKey serializes the hypergraph under a labelling that depends only
// on its connectivity. Nodes reachable from the boundary are numbered from
// the domain ports, then the codomain ports; every closed component is
// serialized from its least start node and the components are sorted.
func (h *Hypergraph) CanonicalKey() string {
	cons := h.consumers()
	main := newLabeler(h, cons)
	for i := 0; i < h.dom.Len(); i++ {
		if t := cons[Port{Node: Boundary, Index: i}]; t.Node != Boundary {
			main.visit(t.Node)
		}
	}
	for _, src := range h.outputs {
		if src.Node != Boundary {
			main.visit(src.Node)
		}
	}

	var sb strings.Builder
	sb.WriteString(h.dom.key())
	sb.WriteString("->")
	sb.WriteString(h.cod.key())
	sb.WriteByte('|')
	main.serialize(&sb)
	sb.WriteString("out[")
	for i, src := range h.outputs {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(main.ref(src))
	}
	sb.WriteByte(']')

	var components []string
	seen := main.visited
	for k := range h.boxes {
		if seen.Contains(k) {
			continue
		}
		component := newLabeler(h, cons)
		component.visit(k)
		best := ""
		for _, start := range component.order {
			candidate := newLabeler(h, cons)
			candidate.visit(start)
			var csb strings.Builder
			candidate.serialize(&csb)
			if s := csb.String(); best == "" || s < best {
				best = s
			}
		}
		seen.InsertSet(component.visited)
		components = append(components, best)
	}
	sort.Strings(components)
	for _, c := range components {
		sb.WriteString("|")
		sb.WriteString(c)
	}

	logger.Debug("canonical key", "nodes", len(h.boxes), "components", len(components))
	return sb.String()
}

// Depth is the number of boxes on the longest dependency chain.
// Identity spiders do not count.
func (h *Hypergraph) Depth() int {
	depth := make([]int, len(h.boxes))
	best := 0
	for _, k := range h.topoOrder() {
		d := 0
		for _, src := range h.inputs[k] {
			if src.Node != Boundary {
				d = max(d, depth[src.Node])
			}
		}
		if !h.boxes[k].IsIdentity() {
			d++
		}
		depth[k] = d
		best = max(best, d)
	}
	return best
}

// String lists the nodes and their input sources.
func (h *Hypergraph) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Hypergraph(%s -> %s)", h.dom, h.cod)
	for k, box := range h.boxes {
		fmt.Fprintf(&sb, "\n  %d: %s <- %v", k, box, h.inputs[k])
	}
	fmt.Fprintf(&sb, "\n  out <- %v", h.outputs)
	return sb.String()
}

func (d *Diagram) canonicalKey() string {
	d.keyOnce.Do(func() {
		d.key = d.ToHypergraph().CanonicalKey()
	})
	return d.key
}

// Equal reports whether d and other have isomorphic hypergraphs, i.e. are
// equal up to the axioms of symmetric monoidal categories.
func (d *Diagram) Equal(other *Diagram) bool {
	if d == nil || other == nil {
		return false
	}
	if d == other {
		return true
	}
	if !d.dom.Equal(other.dom) || !d.cod.Equal(other.cod) {
		return false
	}
	return d.canonicalKey() == other.canonicalKey()
}

var keyHasher = immutable.NewHasher("")

// Hash is consistent with Equal.
func (d *Diagram) Hash() uint32 {
	return keyHasher.Hash(d.canonicalKey())
}

// Simplify returns the diagram rebuilt from its hypergraph.
// Simplify is idempotent.
func (d *Diagram) Simplify() *Diagram {
	return d.ToHypergraph().ToDiagram()
}

// Depth is the length of the longest chain of dependent boxes.
func (d *Diagram) Depth() int {
	return d.ToHypergraph().Depth()
}

// Hasher hashes diagrams by structure, for use as keys in immutable.Map.
type Hasher struct{}

var _ immutable.Hasher[*Diagram] = Hasher{}

// Hash implements immutable.Hasher.
func (Hasher) Hash(d *Diagram) uint32 { return d.Hash() }

// Equal implements immutable.Hasher.
func (Hasher) Equal(a, b *Diagram) bool { return a.Equal(b) }
