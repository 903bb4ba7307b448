package xilcore

// dsuNode is one element of a DisjointSets forest (spec.md §3's
// "DisjointSets node"): index into the node slice, a rank upper-bounding
// the subtree height after path compression, and a parent index (the
// element is its own set's root when parent == its own index).
type dsuNode struct {
	rank   int
	parent int
}

// DisjointSets is a union-find structure over dense integer element
// IDs [0, N), using union-by-rank with full path compression. No
// example repo in the retrieved corpus implements union-find, so this
// follows the classic algorithm directly from spec.md §4.1, in the
// teacher's receiver-method and OutOfRange-on-bad-argument style.
//
// union(a, b) is deliberately permissive: it takes *set identifiers*
// but only bounds-checks against element_count, and does not require
// a or b to already be roots. This mirrors the original it's modeled
// on — see union's doc comment.
type DisjointSets struct {
	nodes []dsuNode
	sets  int
}

// NewDisjointSets creates n singleton sets with IDs [0, n). n < 0 fails
// with OutOfRange.
func NewDisjointSets(n int) (*DisjointSets, error) {
	if n < 0 {
		return nil, NewOutOfRange("DisjointSets element count", n, "must be >= 0")
	}
	d := &DisjointSets{nodes: make([]dsuNode, n, growCap(n)), sets: n}
	for i := range d.nodes {
		d.nodes[i] = dsuNode{rank: 0, parent: i}
	}
	return d, nil
}

func growCap(n int) int {
	if n < 8 {
		return 8
	}
	return n
}

// ElementCount returns the number of elements ever allocated.
func (d *DisjointSets) ElementCount() int { return len(d.nodes) }

// SetCount returns the current number of disjoint sets.
func (d *DisjointSets) SetCount() int { return d.sets }

// AddElements appends k new singleton sets; their IDs start at the
// current ElementCount(). k < 0 fails with OutOfRange.
func (d *DisjointSets) AddElements(k int) error {
	if k < 0 {
		return NewOutOfRange("DisjointSets.AddElements count", k, "must be >= 0")
	}
	base := len(d.nodes)
	for i := 0; i < k; i++ {
		d.nodes = append(d.nodes, dsuNode{rank: 0, parent: base + i})
	}
	d.sets += k
	return nil
}

// FindSet returns the current root representative for id, compressing
// every node on the path from id to the root to point directly at it.
// Logically read-only (it always returns the same set membership
// answer) even though it mutates the forest, per spec.md §4.1.
func (d *DisjointSets) FindSet(id int) (int, error) {
	if id < 0 || id >= len(d.nodes) {
		return 0, NewOutOfRange("DisjointSets.FindSet id", id, "must be < element_count")
	}
	root := id
	for d.nodes[root].parent != root {
		root = d.nodes[root].parent
	}
	// path compression: point every visited node directly at root.
	for d.nodes[id].parent != root {
		next := d.nodes[id].parent
		d.nodes[id].parent = root
		id = next
	}
	return root, nil
}

// Union merges the sets rooted at a and b. If a == b, it is a no-op;
// that equality is the only same-set check, so a call with two
// distinct elements of one set still links them and decrements
// SetCount.
//
// a and b are treated as element IDs, not necessarily roots: Union
// operates on whatever node is stored at index a/b, without re-rooting
// them first. Bounds are checked against element_count, not against
// "is a/b a root". Callers must pass the result of a prior FindSet when
// they mean to union two sets rather than two arbitrary elements — this
// permissive behavior is intentional and mirrors the structure this
// type is modeled on (spec.md §4.1's "important ambiguity").
func (d *DisjointSets) Union(a, b int) error {
	if a < 0 || a >= len(d.nodes) {
		return NewOutOfRange("DisjointSets.Union a", a, "must be < element_count")
	}
	if b < 0 || b >= len(d.nodes) {
		return NewOutOfRange("DisjointSets.Union b", b, "must be < element_count")
	}
	if a == b {
		return nil
	}
	// No find_set here: a and b are used as-is, as if they were
	// already set roots. Correctness of the merge depends on the
	// caller having passed FindSet results (see doc comment above).
	switch {
	case d.nodes[a].rank < d.nodes[b].rank:
		d.nodes[a].parent = b
	case d.nodes[a].rank > d.nodes[b].rank:
		d.nodes[b].parent = a
	default:
		d.nodes[b].parent = a
		d.nodes[a].rank++
	}
	d.sets--
	return nil
}
