package ir

// Remove disposes the tree rooted at root, severing child links in
// post-order. A node shared through AddRef survives one removal per
// outstanding reference, so the compound-assignment expansion's shared
// destination is disposed exactly once.
func (b *Builder) Remove(root Node) {
	removeTree(root)
}

func removeTree(n Node) {
	if n == nil {
		return
	}
	if t, ok := n.(Typed); ok && !t.release() {
		return
	}

	switch node := n.(type) {
	case *Unary:
		removeTree(node.Operand)
		node.Operand = nil
	case *Binary:
		removeTree(node.Left)
		removeTree(node.Right)
		node.Left, node.Right = nil, nil
	case *Aggregate:
		for _, child := range node.Children {
			removeTree(child)
		}
		node.Children = nil
	case *Selection:
		removeTree(node.Cond)
		removeTree(node.TrueBlock)
		removeTree(node.FalseBlock)
		node.Cond, node.TrueBlock, node.FalseBlock = nil, nil, nil
	case *Loop:
		removeTree(node.Cond)
		removeTree(node.Step)
		removeTree(node.Body)
		node.Cond, node.Step, node.Body = nil, nil, nil
	case *Branch:
		removeTree(node.Expr)
		node.Expr = nil
	case *Declaration:
		removeTree(node.Decl)
		node.Decl = nil
	}
}
