package soundpack

import (
	"fmt"

	"github.com/zjrosen/mimic/internal/log"
)

// Registry is the read-only, process-wide pack catalog. It is built once at
// startup and safe for concurrent reads.
type Registry struct {
	order []string
	packs map[string]Pack
}

// NewRegistry registers packs in order. A later pack with an id already
// registered replaces the earlier one in place, so user packs can override
// built-ins without reordering the list. Invalid packs are rejected.
func NewRegistry(packs ...Pack) (*Registry, error) {
	r := &Registry{packs: make(map[string]Pack, len(packs))}
	for _, p := range packs {
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("registering sound pack: %w", err)
		}
		if prev, ok := r.packs[p.ID]; ok {
			log.Info(log.CatConfig, "sound pack overridden", "id", p.ID, "from", prev.Source.String(), "to", p.Source.String())
		} else {
			r.order = append(r.order, p.ID)
		}
		r.packs[p.ID] = p
	}
	if _, ok := r.packs[DefaultID]; !ok {
		return nil, fmt.Errorf("registering sound packs: default pack %q missing", DefaultID)
	}
	return r, nil
}

// Default builds a registry holding only the built-in packs.
func Default() *Registry {
	r, err := NewRegistry(Builtin()...)
	if err != nil {
		panic(err)
	}
	return r
}

// Get returns the pack registered under id.
// Returns UnknownSoundPackError if no such pack exists.
func (r *Registry) Get(id string) (Pack, error) {
	p, ok := r.packs[id]
	if !ok {
		return Pack{}, &UnknownSoundPackError{ID: id}
	}
	return p, nil
}

// GetOrDefault returns the pack registered under id, or the default pack.
func (r *Registry) GetOrDefault(id string) Pack {
	p, err := r.Get(id)
	if err != nil {
		log.Warn(log.CatAudio, "falling back to default sound pack", "requested", id, "default", DefaultID)
		return r.packs[DefaultID]
	}
	return p
}

// DefaultPack returns the pack registered under DefaultID.
func (r *Registry) DefaultPack() Pack {
	return r.packs[DefaultID]
}

// List returns all packs in registration order.
func (r *Registry) List() []Pack {
	out := make([]Pack, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.packs[id])
	}
	return out
}

// Next returns the pack after id in registration order, wrapping around.
// Unknown ids yield the first pack.
func (r *Registry) Next(id string) Pack {
	for i, cur := range r.order {
		if cur == id {
			return r.packs[r.order[(i+1)%len(r.order)]]
		}
	}
	return r.packs[r.order[0]]
}
