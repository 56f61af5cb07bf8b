package avl

//	    y            x
//	   / \          / \
//	  x   C  ==>   A   y
//	 / \              / \
//	A   B            B   C
func (t *Tree[K, V]) rotateRight(y *node[K, V]) *node[K, V] {
	x := y.left
	y.left = x.right
	x.right = y

	y.height = 1 + max(height(y.left), height(y.right))
	x.height = 1 + max(height(x.left), height(x.right))
	t.rotations++
	return x
}

//	  x                y
//	 / \              / \
//	A   y    ==>     x   C
//	   / \          / \
//	  B   C        A   B
func (t *Tree[K, V]) rotateLeft(x *node[K, V]) *node[K, V] {
	y := x.right
	x.right = y.left
	y.left = x

	x.height = 1 + max(height(x.left), height(x.right))
	y.height = 1 + max(height(y.left), height(y.right))
	t.rotations++
	return y
}
