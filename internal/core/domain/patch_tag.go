package domain

// PatchTypeTag carries a type tag supplied with an update request.
// The tag is immutable after creation: a patch naming a different tag
// is rejected with ErrImmutableField, never silently dropped. Naming
// the current tag is a no-op assertion.
type PatchTypeTag struct {
	TypeTag TypeTag
	Set     bool
}
