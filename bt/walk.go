package bt

// Walk visits n and its descendants depth-first. Returning false from fn
// skips the node's children.
func Walk(n Node, fn func(n Node, depth int) bool) {
	walk(n, 0, fn)
}

func walk(n Node, depth int, fn func(Node, int) bool) {
	if n == nil || !fn(n, depth) {
		return
	}
	if p, ok := n.(Parent); ok {
		for _, c := range p.Children() {
			walk(c, depth+1, fn)
		}
	}
}
