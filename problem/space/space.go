// Package space defines coordinate spaces of named variables and batches of
// points living in them.
//
// A Space is an ordered set of variables, each with a dimension. Spaces
// multiply: space.R1("t").Cross(space.R2("x")) is a three dimensional space
// whose point columns are [t, x_0, x_1]. Points keep their space around so
// they can be split into per-variable columns and joined back.
package space

import "fmt"

// Variable is one named axis group of a space.
type Variable struct {
	Name string
	Dim  int
}

// Space is an ordered collection of variables.
type Space struct {
	vars []Variable
}

// New creates a space from the given variables. Names must be unique and
// dimensions positive.
func New(vars ...Variable) Space {
	seen := make(map[string]bool, len(vars))
	for _, v := range vars {
		if v.Dim <= 0 {
			panic(fmt.Sprintf("space: variable %q has non-positive dimension %d", v.Name, v.Dim))
		}
		if seen[v.Name] {
			panic(fmt.Sprintf("space: duplicate variable %q", v.Name))
		}
		seen[v.Name] = true
	}
	return Space{vars: vars}
}

// R1 creates a one dimensional space with a single named variable.
func R1(name string) Space {
	return New(Variable{Name: name, Dim: 1})
}

// R2 creates a two dimensional space with a single named variable.
func R2(name string) Space {
	return New(Variable{Name: name, Dim: 2})
}

// Rn creates an n dimensional space with a single named variable.
func Rn(name string, n int) Space {
	return New(Variable{Name: name, Dim: n})
}

// Cross returns the product space, appending the variables of other.
func (s Space) Cross(other Space) Space {
	vars := make([]Variable, 0, len(s.vars)+len(other.vars))
	vars = append(vars, s.vars...)
	vars = append(vars, other.vars...)
	return New(vars...)
}

// Dim returns the total dimension of the space.
func (s Space) Dim() int {
	d := 0
	for _, v := range s.vars {
		d += v.Dim
	}
	return d
}

// Variables returns the variables in column order.
func (s Space) Variables() []Variable {
	out := make([]Variable, len(s.vars))
	copy(out, s.vars)
	return out
}

// DimOf returns the dimension of the named variable.
func (s Space) DimOf(name string) (int, bool) {
	for _, v := range s.vars {
		if v.Name == name {
			return v.Dim, true
		}
	}
	return 0, false
}

// offsetOf returns the starting column of the named variable.
func (s Space) offsetOf(name string) (int, bool) {
	off := 0
	for _, v := range s.vars {
		if v.Name == name {
			return off, true
		}
		off += v.Dim
	}
	return 0, false
}

// Contains reports whether the space has a variable with the given name.
func (s Space) Contains(name string) bool {
	_, ok := s.DimOf(name)
	return ok
}

// Equal reports whether two spaces have identical variables in the same order.
func (s Space) Equal(other Space) bool {
	if len(s.vars) != len(other.vars) {
		return false
	}
	for i, v := range s.vars {
		if v != other.vars[i] {
			return false
		}
	}
	return true
}

// String renders the space as a product of its variables.
func (s Space) String() string {
	out := ""
	for i, v := range s.vars {
		if i > 0 {
			out += " x "
		}
		out += fmt.Sprintf("%s:R%d", v.Name, v.Dim)
	}
	return out
}
