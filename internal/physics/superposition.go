package physics

import (
	"fmt"
	"strings"

	"github.com/san-kum/attractor/internal/dynamo"
)

var scratch dynamo.ScratchPool

// Superposition sums the derivatives of fields of equal dimension.
type Superposition struct {
	fields []dynamo.Field
	dim    int
}

func NewSuperposition(fields ...dynamo.Field) (*Superposition, error) {
	if len(fields) == 0 {
		return nil, dynamo.ErrEmptySuperposition
	}
	dim := fields[0].Dim()
	for i, f := range fields[1:] {
		if f.Dim() != dim {
			return nil, fmt.Errorf("%w: field %d has dimension %d, field 0 has %d", dynamo.ErrDimensionMismatch, i+1, f.Dim(), dim)
		}
	}
	members := make([]dynamo.Field, len(fields))
	copy(members, fields)
	return &Superposition{fields: members, dim: dim}, nil
}

func (s *Superposition) Dim() int { return s.dim }

func (s *Superposition) Name() string {
	names := make([]string, len(s.fields))
	for i, f := range s.fields {
		names[i] = fieldName(f)
	}
	return strings.Join(names, "+")
}

func (s *Superposition) Derive(dst, x dynamo.Batch) {
	checkShape(s.dim, dst, x)
	s.fields[0].Derive(dst, x)
	if len(s.fields) == 1 {
		return
	}
	tmp := scratch.Get(x.P, x.D)
	defer scratch.Put(tmp)
	for _, f := range s.fields[1:] {
		f.Derive(*tmp, x)
		for i, v := range tmp.Data {
			dst.Data[i] += v
		}
	}
}

func fieldName(f dynamo.Field) string {
	if n, ok := f.(interface{ Name() string }); ok {
		return n.Name()
	}
	return fmt.Sprintf("%T", f)
}
