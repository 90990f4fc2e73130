package functor

import (
	"fmt"
	"slices"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/born-ml/braid/internal/diagram"
	"github.com/born-ml/braid/internal/log"
	"github.com/born-ml/braid/internal/tensor"
)

var netLogger = log.For("network")

// Node is one array of a contraction network. Legs names the edge attached
// to each axis of Array. ID is unique per node; contractors report and
// cache by it.
type Node struct {
	ID    uuid.UUID
	Name  string
	Array *tensor.RawTensor
	Legs  []int
}

// Network is a bag of nodes whose shared edges are summed over. Output lists
// the open edges in result order: domain legs, then codomain legs. Every edge
// is attached to at most two legs, and output edges to exactly one.
type Network struct {
	Dom    diagram.Ty
	Cod    diagram.Ty
	Nodes  []*Node
	Output []int
}

// Edges returns the number of distinct edges.
func (n *Network) Edges() int {
	seen := map[int]struct{}{}
	for _, node := range n.Nodes {
		for _, e := range node.Legs {
			seen[e] = struct{}{}
		}
	}
	return len(seen)
}

// String lists the nodes and their legs.
func (n *Network) String() string {
	out := fmt.Sprintf("Network(%s -> %s)", n.Dom, n.Cod)
	for _, node := range n.Nodes {
		out += fmt.Sprintf("\n  %s %s %v %v", node.ID, node.Name, node.Array.Shape(), node.Legs)
	}
	return out + fmt.Sprintf("\n  out %v", n.Output)
}

// validate checks that every node has one leg per axis and that legs
// sharing an edge agree in size.
func (n *Network) validate() error {
	type end struct {
		size int
		node uuid.UUID
	}
	sizes := map[int]end{}
	for _, node := range n.Nodes {
		shape := node.Array.Shape()
		if len(shape) != len(node.Legs) {
			return errors.Wrapf(diagram.ErrShapeMismatch, "node %s (%s): %d legs for %d axes",
				node.ID, node.Name, len(node.Legs), len(shape))
		}
		for k, edge := range node.Legs {
			prev, ok := sizes[edge]
			if !ok {
				sizes[edge] = end{size: shape[k], node: node.ID}
				continue
			}
			if prev.size != shape[k] {
				return errors.Wrapf(diagram.ErrShapeMismatch, "edge %d: size %d at node %s, %d at node %s",
					edge, prev.size, prev.node, shape[k], node.ID)
			}
		}
	}
	return nil
}

// edges hands out fresh edge labels and merges them.
type edges struct {
	parent []int
}

func (e *edges) fresh() int {
	e.parent = append(e.parent, len(e.parent))
	return len(e.parent) - 1
}

func (e *edges) find(x int) int {
	for e.parent[x] != x {
		e.parent[x] = e.parent[e.parent[x]]
		x = e.parent[x]
	}
	return x
}

func (e *edges) union(a, b int) {
	e.parent[e.find(a)] = e.find(b)
}

// ToNetwork lays d out as a contraction network. Each domain leg gets an
// identity node, swaps and identity spiders only relabel edges, cups join
// edges directly, and every other box becomes a node.
func (f *Functor) ToNetwork(d *diagram.Diagram) (*Network, error) {
	b := f.backend()
	dom, err := f.Dims(d.Dom())
	if err != nil {
		return nil, err
	}
	cod, err := f.Dims(d.Cod())
	if err != nil {
		return nil, err
	}

	var (
		e      edges
		nodes  []*Node
		inputs []int
		scan   []int
	)
	for _, n := range dom.Dims() {
		in, out := e.fresh(), e.fresh()
		nodes = append(nodes, &Node{ID: uuid.New(), Name: "input", Array: b.Eye(n, tensor.Float64), Legs: []int{in, out}})
		inputs = append(inputs, in)
		scan = append(scan, out)
	}

	for i, layer := range d.Layers() {
		left, err := f.Dims(layer.Left)
		if err != nil {
			return nil, err
		}
		off := left.Len()
		box := layer.Box
		bd, err := f.Dims(box.Dom())
		if err != nil {
			return nil, err
		}
		bc, err := f.Dims(box.Cod())
		if err != nil {
			return nil, err
		}
		consumed := scan[off : off+bd.Len()]

		switch {
		case box.Kind() == diagram.KindSwap:
			l, _ := f.Dims(box.Dom().Slice(0, 1))
			swapped := append(slices.Clone(consumed[l.Len():]), consumed[:l.Len()]...)
			copy(consumed, swapped)
			continue
		case box.IsIdentity():
			continue
		case box.Kind() == diagram.KindCup:
			l, _ := f.Dims(box.Dom().Slice(0, 1))
			r, _ := f.Dims(box.Dom().Slice(1, 2))
			if l.Equal(r) {
				for k := 0; k < l.Len(); k++ {
					e.union(consumed[k], consumed[l.Len()+k])
				}
				scan = slices.Delete(scan, off, off+bd.Len())
				continue
			}
		}

		array, err := f.arrow(box)
		if err != nil {
			return nil, errors.Wrapf(err, "layer %d", i)
		}
		legs := slices.Clone(consumed)
		produced := make([]int, bc.Len())
		for k := range produced {
			produced[k] = e.fresh()
		}
		legs = append(legs, produced...)
		nodes = append(nodes, &Node{ID: uuid.New(), Name: box.Name(), Array: array, Legs: legs})
		scan = slices.Replace(scan, off, off+bd.Len(), produced...)
	}

	for _, node := range nodes {
		for k, leg := range node.Legs {
			node.Legs[k] = e.find(leg)
		}
	}
	output := make([]int, 0, len(inputs)+len(scan))
	for _, leg := range append(append(make([]int, 0, len(inputs)+len(scan)), inputs...), scan...) {
		output = append(output, e.find(leg))
	}
	netLogger.Debug("network", "nodes", len(nodes), "edges", len(e.parent))
	return &Network{Dom: dom, Cod: cod, Nodes: nodes, Output: output}, nil
}

// Contractor reduces a network to a single array whose axes follow
// Network.Output.
type Contractor interface {
	Contract(n *Network, b tensor.Backend) (*tensor.RawTensor, error)
}

// ContractorFunc adapts a function to Contractor.
type ContractorFunc func(n *Network, b tensor.Backend) (*tensor.RawTensor, error)

// Contract calls fn.
func (fn ContractorFunc) Contract(n *Network, b tensor.Backend) (*tensor.RawTensor, error) {
	return fn(n, b)
}

// Sequential contracts nodes in network order, summing over every edge
// shared with the running result.
type Sequential struct{}

// Contract implements Contractor.
func (Sequential) Contract(n *Network, b tensor.Backend) (*tensor.RawTensor, error) {
	if err := n.validate(); err != nil {
		return nil, err
	}
	result := b.Diagonal(0, 1, tensor.Float64)
	var labels []int
	for _, node := range n.Nodes {
		array, legs := trace(b, node.Array, node.Legs)

		var left, right []int
		for i, label := range labels {
			if j := slices.Index(legs, label); j >= 0 {
				left = append(left, i)
				right = append(right, j)
			}
		}
		result = b.TensorDot(result, array, left, right)
		labels = append(remove(labels, left), remove(legs, right)...)
		result, labels = trace(b, result, labels)
	}

	if len(labels) != len(n.Output) {
		return nil, errors.Errorf("network leaves %d open legs, want %d", len(labels), len(n.Output))
	}
	order := make([]int, len(n.Output))
	for k, edge := range n.Output {
		i := slices.Index(labels, edge)
		if i < 0 {
			return nil, errors.Errorf("output edge %d is not open", edge)
		}
		order[k] = i
	}
	return b.Transpose(result, order...), nil
}

// trace sums over every edge attached to two axes of array.
func trace(b tensor.Backend, array *tensor.RawTensor, legs []int) (*tensor.RawTensor, []int) {
	for {
		i, j := selfLoop(legs)
		if i < 0 {
			return array, legs
		}
		eye := b.Eye(array.Shape()[i], tensor.Float64)
		array = b.TensorDot(array, eye, []int{i, j}, []int{0, 1})
		legs = remove(legs, []int{i, j})
	}
}

func selfLoop(legs []int) (int, int) {
	for i, leg := range legs {
		if j := slices.Index(legs[i+1:], leg); j >= 0 {
			return i, i + 1 + j
		}
	}
	return -1, -1
}

// remove drops the given positions, keeping order.
func remove(xs []int, positions []int) []int {
	out := make([]int, 0, len(xs))
	for i, x := range xs {
		if !slices.Contains(positions, i) {
			out = append(out, x)
		}
	}
	return out
}

// Contract evaluates d by building its network and handing it to c.
func (f *Functor) Contract(d *diagram.Diagram, c Contractor) (*Tensor, error) {
	network, err := f.ToNetwork(d)
	if err != nil {
		return nil, err
	}
	b := f.backend()
	array, err := c.Contract(network, b)
	if err != nil {
		return nil, err
	}
	return NewTensor(network.Dom, network.Cod, array, b)
}

// Option configures Eval.
type Option func(*evalConfig)

type evalConfig struct {
	functor    *Functor
	contractor Contractor
	backend    tensor.Backend
}

// WithFunctor replaces the default functor.
func WithFunctor(f *Functor) Option {
	return func(c *evalConfig) { c.functor = f }
}

// WithContractor evaluates through a contraction network instead of the
// layer-by-layer scan.
func WithContractor(contractor Contractor) Option {
	return func(c *evalConfig) { c.contractor = contractor }
}

// WithBackend pins the backend for this evaluation.
func WithBackend(b tensor.Backend) Option {
	return func(c *evalConfig) { c.backend = b }
}

func newEvalConfig(opts []Option) *evalConfig {
	c := &evalConfig{functor: New()}
	for _, opt := range opts {
		opt(c)
	}
	if c.backend != nil {
		f := *c.functor
		f.Backend = c.backend
		c.functor = &f
	}
	return c
}

// Eval evaluates d with dimensions read from Dim atoms and arrays read from
// box payloads, unless options say otherwise.
func Eval(d *diagram.Diagram, opts ...Option) (*Tensor, error) {
	c := newEvalConfig(opts)
	if c.contractor != nil {
		return c.functor.Contract(d, c.contractor)
	}
	return c.functor.Apply(d)
}

// EvalSum evaluates every term of s with Eval and adds the results.
func EvalSum(s *diagram.Sum, opts ...Option) (*Tensor, error) {
	c := newEvalConfig(opts)
	if c.contractor == nil {
		return c.functor.ApplySum(s)
	}
	dom, err := c.functor.Dims(s.Dom())
	if err != nil {
		return nil, err
	}
	cod, err := c.functor.Dims(s.Cod())
	if err != nil {
		return nil, err
	}
	result := Zeros(dom, cod, c.functor.backend())
	for _, term := range s.Terms() {
		t, err := c.functor.Contract(term, c.contractor)
		if err != nil {
			return nil, err
		}
		if result, err = result.Add(t); err != nil {
			return nil, err
		}
	}
	return result, nil
}
