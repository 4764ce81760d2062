// pkg/entity/id.go
package entity

import (
	"bytes"
	"fmt"
	"io"

	"github.com/google/uuid"
)

// ID is a unique 128-bit identifier for an entity.
type ID uuid.UUID

// NilID is the zero identifier. It is never handed out by NewID in practice,
// but absence of a reference is expressed with OptionalID, not NilID.
var NilID ID

// NewID draws a random (version 4) identifier from r.
func NewID(r io.Reader) (ID, error) {
	u, err := uuid.NewRandomFromReader(r)
	if err != nil {
		return NilID, fmt.Errorf("generating entity id: %w", err)
	}
	return ID(u), nil
}

// ParseID parses the canonical string form produced by String.
func ParseID(s string) (ID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return NilID, err
	}
	return ID(u), nil
}

// String returns the canonical UUID form.
func (id ID) String() string {
	return uuid.UUID(id).String()
}

// Short returns the first eight hex digits, for logs and labels.
func (id ID) Short() string {
	return id.String()[:8]
}

// Compare orders ids bytewise. It gives the simulation a stable iteration
// order over map-backed collections.
func (id ID) Compare(other ID) int {
	return bytes.Compare(id[:], other[:])
}

// MarshalText implements encoding.TextMarshaler.
func (id ID) MarshalText() ([]byte, error) {
	return uuid.UUID(id).MarshalText()
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *ID) UnmarshalText(data []byte) error {
	var u uuid.UUID
	if err := u.UnmarshalText(data); err != nil {
		return err
	}
	*id = ID(u)
	return nil
}

// OptionalID is a reference to an entity that may be absent, such as a
// tank's last attacker or a bot's current target.
type OptionalID struct {
	id  ID
	set bool
}

// Some wraps a present id.
func Some(id ID) OptionalID {
	return OptionalID{id: id, set: true}
}

// None returns the absent reference.
func None() OptionalID {
	return OptionalID{}
}

// Get returns the id and whether one is set.
func (o OptionalID) Get() (ID, bool) {
	return o.id, o.set
}

// IsSome reports whether an id is set.
func (o OptionalID) IsSome() bool {
	return o.set
}

func (o OptionalID) String() string {
	if !o.set {
		return "none"
	}
	return o.id.String()
}
