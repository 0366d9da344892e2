package memkit

// Destroyer is implemented by element types that own resources which must be
// released when a container destroys the element. The method is looked up on
// the pointer to the element, so Destroy normally has a pointer receiver.
type Destroyer interface {
	Destroy()
}

// Destroy runs the element's Destroy hook, if any, and zeroes it.
func Destroy[T any](p *T) {
	if d, ok := any(p).(Destroyer); ok {
		d.Destroy()
	}
	var zero T
	*p = zero
}
