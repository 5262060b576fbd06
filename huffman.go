package pp

import "container/heap"

// maxCodeLen bounds Huffman code depth. The code builder, serializer,
// and deserializer all refuse deeper trees.
const maxCodeLen = 32

// huffNode is a node of the literal Huffman tree. Internal nodes have
// both children set; leaves carry one byte symbol.
type huffNode struct {
	left, right *huffNode
	symbol      byte
	leaf        bool
}

type huffItem struct {
	node *huffNode
	freq uint64
	seq  int // insertion order, used as the tie-break
}

type huffQueue []huffItem

func (q huffQueue) Len() int { return len(q) }
func (q huffQueue) Less(i, j int) bool {
	if q[i].freq != q[j].freq {
		return q[i].freq < q[j].freq
	}
	return q[i].seq < q[j].seq
}
func (q huffQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }
func (q *huffQueue) Push(x any)   { *q = append(*q, x.(huffItem)) }
func (q *huffQueue) Pop() any {
	old := *q
	n := len(old)
	it := old[n-1]
	*q = old[:n-1]
	return it
}

// buildHuffTree builds the coding tree from the symbol frequencies.
// At least one frequency must be non-zero. A one-symbol alphabet
// produces a root whose two children are copies of the single leaf,
// so the symbol still costs one bit (code 0) and the serialized form
// keeps the two-children invariant.
func buildHuffTree(freq *[256]uint32) *huffNode {
	q := make(huffQueue, 0, 256)
	seq := 0
	for sym, f := range freq {
		if f == 0 {
			continue
		}
		q = append(q, huffItem{
			node: &huffNode{symbol: byte(sym), leaf: true},
			freq: uint64(f),
			seq:  seq,
		})
		seq++
	}
	if len(q) == 0 {
		return nil
	}
	if len(q) == 1 {
		leaf := q[0].node
		return &huffNode{
			left:  leaf,
			right: &huffNode{symbol: leaf.symbol, leaf: true},
		}
	}

	heap.Init(&q)
	for q.Len() > 1 {
		a := heap.Pop(&q).(huffItem)
		b := heap.Pop(&q).(huffItem)
		heap.Push(&q, huffItem{
			node: &huffNode{left: a.node, right: b.node},
			freq: a.freq + b.freq,
			seq:  seq,
		})
		seq++
	}
	return q[0].node
}

// hcode is the code for one symbol: the path bits from the root
// (left = 0, right = 1) with the root-level choice in the highest bit.
type hcode struct {
	bits   uint32
	length uint8
}

type codeFrame struct {
	n     *huffNode
	bits  uint32
	depth uint8
}

// buildCodes assigns a code to every symbol reachable in the tree.
// It returns ErrInternalLimit if any code would exceed 32 bits.
func buildCodes(root *huffNode) (*[256]hcode, error) {
	var codes [256]hcode
	stack := []codeFrame{{n: root}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if f.n.leaf {
			codes[f.n.symbol] = hcode{bits: f.bits, length: f.depth}
			continue
		}
		if f.depth == maxCodeLen {
			return nil, ErrInternalLimit
		}
		// The left child is visited last so that in a degenerate
		// tree, where both children carry the same symbol, the
		// symbol keeps the left code (0).
		stack = append(stack,
			codeFrame{n: f.n.left, bits: f.bits << 1, depth: f.depth + 1},
			codeFrame{n: f.n.right, bits: f.bits<<1 | 1, depth: f.depth + 1},
		)
	}
	return &codes, nil
}

// serializeTree writes the tree pre-order into an MSB-first bit
// stream: 1 plus eight symbol bits for a leaf, 0 followed by the left
// then the right subtree for an internal node. The final byte is
// zero-padded. Leaves are self-delimiting, so no length field is
// needed inside the blob.
func serializeTree(root *huffNode) ([]byte, error) {
	var w msbWriter
	type frame struct {
		n     *huffNode
		depth uint8
	}
	stack := []frame{{n: root}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if f.n.leaf {
			w.writeBit(1)
			w.writeByte(f.n.symbol)
			continue
		}
		if f.depth == maxCodeLen {
			return nil, ErrInternalLimit
		}
		w.writeBit(0)
		stack = append(stack,
			frame{n: f.n.right, depth: f.depth + 1},
			frame{n: f.n.left, depth: f.depth + 1},
		)
	}
	w.flush()
	return w.buf, nil
}

// parseTree rebuilds a tree from its serialized form. Any structural
// problem -- running out of bits, exceeding depth 32, or a bare leaf
// at the root -- reports ErrMalformedTree.
func parseTree(blob []byte) (*huffNode, error) {
	r := msbReader{data: blob}
	root, err := parseNode(&r, 0)
	if err != nil {
		return nil, err
	}
	if root.leaf {
		// A symbol must cost at least one bit; a root-level leaf
		// would decode symbols from zero bits.
		return nil, ErrMalformedTree
	}
	return root, nil
}

func parseNode(r *msbReader, depth int) (*huffNode, error) {
	if depth > maxCodeLen {
		return nil, ErrMalformedTree
	}
	tag, err := r.readBit()
	if err != nil {
		return nil, ErrMalformedTree
	}
	if tag == 1 {
		sym, err := r.readByte()
		if err != nil {
			return nil, ErrMalformedTree
		}
		return &huffNode{symbol: sym, leaf: true}, nil
	}
	left, err := parseNode(r, depth+1)
	if err != nil {
		return nil, err
	}
	right, err := parseNode(r, depth+1)
	if err != nil {
		return nil, err
	}
	return &huffNode{left: left, right: right}, nil
}

// decodeSymbol walks the tree one bit at a time until it reaches a leaf.
func decodeSymbol(br *bitReader, root *huffNode) (byte, error) {
	n := root
	for !n.leaf {
		bit, err := br.readBits(1)
		if err != nil {
			return 0, err
		}
		if bit == 0 {
			n = n.left
		} else {
			n = n.right
		}
	}
	return n.symbol, nil
}
