package core

import "fmt"

// IdentifierPool hands out small integer ids, reusing released slots first.
type IdentifierPool struct {
	owners []interface{}
}

func NewIdentifierPool(capacity int) *IdentifierPool {
	return &IdentifierPool{
		owners: make([]interface{}, 0, capacity),
	}
}

func (p *IdentifierPool) Acquire(owner interface{}) uint32 {
	length := uint32(len(p.owners))
	for i := uint32(0); i < length; i++ {
		// Existing free spot. Take it.
		if p.owners[i] == nil {
			p.owners[i] = owner
			return i
		}
	}

	// If here, no existing free slots. Need a new id, so push one.
	p.owners = append(p.owners, owner)
	return uint32(len(p.owners)) - 1
}

func (p *IdentifierPool) Owner(id uint32) (interface{}, bool) {
	if id >= uint32(len(p.owners)) || p.owners[id] == nil {
		return nil, false
	}
	return p.owners[id], true
}

func (p *IdentifierPool) Release(id uint32) error {
	length := uint32(len(p.owners))
	if id >= length {
		return fmt.Errorf("identifier release: id '%d' out of range (max=%d). Nothing was done", id, length)
	}
	if p.owners[id] == nil {
		return fmt.Errorf("identifier release: id '%d' is not in use. Nothing was done", id)
	}
	// Just zero out the entry, making it available for use.
	p.owners[id] = nil
	return nil
}

// InUse returns the number of live identifiers.
func (p *IdentifierPool) InUse() int {
	n := 0
	for _, o := range p.owners {
		if o != nil {
			n++
		}
	}
	return n
}
