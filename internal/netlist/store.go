package netlist

import (
	"fmt"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/syncrim/internal/component"
)

// Handle addresses a component within one Store.
type Handle int

// Store is an ordered, id-keyed collection of components.
//
// Components are kept in declaration order; that order fixes state slot
// allocation and breaks ties in the evaluation schedule.
type Store struct {
	components []component.Component
	index      map[string]Handle
	sealed     bool
}

// New creates a Store holding the given components in order.
// Duplicate ids fail with a ValidationError.
func New(components ...component.Component) (*Store, error) {
	s := &Store{index: make(map[string]Handle)}
	for _, c := range components {
		if _, err := s.Add(c); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Add appends c and returns its handle.
//
// Ids are compared after NFC normalization, so visually identical ids
// written with different Unicode compositions collide.
func (s *Store) Add(c component.Component) (Handle, error) {
	if s.sealed {
		return 0, ErrSealed
	}
	if s.index == nil {
		s.index = make(map[string]Handle)
	}

	id := c.ComponentID()
	key := normalizeID(id)
	if prev, ok := s.index[key]; ok {
		return 0, &ValidationError{
			Code:        ErrDuplicateID,
			ComponentID: id,
			Field:       "id",
			Message:     fmt.Sprintf("duplicate id (first declared at position %d)", prev),
		}
	}

	h := Handle(len(s.components))
	s.components = append(s.components, c)
	s.index[key] = h
	return h, nil
}

// Len returns the number of components.
func (s *Store) Len() int { return len(s.components) }

// At returns the component with handle h.
func (s *Store) At(h Handle) component.Component { return s.components[h] }

// Lookup returns the handle of the component with the given id.
func (s *Store) Lookup(id string) (Handle, bool) {
	h, ok := s.index[normalizeID(id)]
	return h, ok
}

// Get returns the component with the given id.
func (s *Store) Get(id string) (component.Component, bool) {
	h, ok := s.Lookup(id)
	if !ok {
		return nil, false
	}
	return s.components[h], true
}

// Components returns the components in declaration order.
// The returned slice is a copy; the store itself is not affected by
// changes to it.
func (s *Store) Components() []component.Component {
	out := make([]component.Component, len(s.components))
	copy(out, s.components)
	return out
}

// Seal prevents further Adds. A simulator seals the store it compiles so
// that topology cannot drift from the compiled schedule.
func (s *Store) Seal() { s.sealed = true }

// Sealed reports whether Seal has been called.
func (s *Store) Sealed() bool { return s.sealed }

// Validate checks the structural invariants of the store and returns
// every problem found as ValidationErrors, or nil.
func (s *Store) Validate() error {
	var errs ValidationErrors

	for _, c := range s.components {
		id := c.ComponentID()
		if id == "" {
			errs = append(errs, &ValidationError{
				Code:        ErrEmptyID,
				ComponentID: id,
				Field:       "id",
				Message:     fmt.Sprintf("%s component has an empty id", c.Kind()),
			})
		}

		if err := c.Validate(); err != nil {
			errs = append(errs, &ValidationError{
				Code:        ErrInvalidConfig,
				ComponentID: id,
				Message:     err.Error(),
				Err:         err,
			})
		}

		for i, in := range c.Ports().Inputs {
			if ve := s.checkInput(id, i, in.ID, in.Index); ve != nil {
				errs = append(errs, ve)
			}
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

func (s *Store) checkInput(referrer string, port int, target string, index int) *ValidationError {
	field := fmt.Sprintf("inputs[%d]", port)

	producer, ok := s.Get(target)
	if !ok {
		return &ValidationError{
			Code:        ErrDanglingInput,
			ComponentID: referrer,
			Field:       field,
			Message:     fmt.Sprintf("references unknown component %q", target),
			Err:         &UnknownComponentError{ID: target, Referrer: referrer},
		}
	}

	arity := producer.Ports().Arity()
	if index < 0 || index >= arity {
		return &ValidationError{
			Code:        ErrPortOutOfRange,
			ComponentID: referrer,
			Field:       field,
			Message:     fmt.Sprintf("output index %d of %q out of range (arity %d)", index, target, arity),
		}
	}
	return nil
}

func normalizeID(id string) string {
	return norm.NFC.String(id)
}
