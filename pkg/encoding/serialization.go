// Package encoding names the persistence contract shared by stateful types.
package encoding

// Serializable is implemented by types that round-trip through bytes. T is
// the implementing type, which lets callers constrain generic helpers.
type Serializable[T any] interface {
	Serialize() ([]byte, error)
	Deserialize([]byte) error
}
