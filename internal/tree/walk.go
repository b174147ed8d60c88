package tree

// PreOrder visits every node starting at the root, parents before children,
// children in stored order. depth is 0 for the root.
func (t *Tree) PreOrder(visit func(i, depth int)) {
	type frame struct {
		i     int
		depth int
	}
	stack := []frame{{i: RootIndex}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		visit(f.i, f.depth)

		children := t.nodes[f.i].children
		for c := len(children) - 1; c >= 0; c-- {
			stack = append(stack, frame{i: children[c], depth: f.depth + 1})
		}
	}
}

// PostOrder visits every node with all children before their parent. The
// root is visited last.
func (t *Tree) PostOrder(visit func(i int)) {
	type frame struct {
		i        int
		expanded bool
	}
	stack := []frame{{i: RootIndex}}
	for len(stack) > 0 {
		top := len(stack) - 1
		f := stack[top]
		if f.expanded {
			stack = stack[:top]
			visit(f.i)
			continue
		}
		stack[top].expanded = true

		children := t.nodes[f.i].children
		for c := len(children) - 1; c >= 0; c-- {
			stack = append(stack, frame{i: children[c]})
		}
	}
}
