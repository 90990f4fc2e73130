package diagram

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Ob is an atomic object. Dim is the leg size when the atom is evaluated;
// zero means the atom carries no dimension annotation.
type Ob struct {
	Name string
	Dim  int
}

// String returns the atom name.
func (o Ob) String() string {
	return o.Name
}

// dimOb returns the atom of size n.
func dimOb(n int) Ob {
	return Ob{Name: strconv.Itoa(n), Dim: n}
}

// Ty is an immutable sequence of atoms, the free monoid over Ob.
// The zero value is the unit.
type Ty struct {
	obs []Ob
}

// NewTy builds a type from atom names (string), atoms (Ob), dimensions (int)
// and types (Ty, spliced in place).
func NewTy(components ...any) (Ty, error) {
	obs := make([]Ob, 0, len(components))
	for _, c := range components {
		switch v := c.(type) {
		case string:
			obs = append(obs, Ob{Name: v})
		case Ob:
			if v.Dim < 0 {
				return Ty{}, errors.Wrapf(ErrInvalidDimension, "atom %q has dimension %d", v.Name, v.Dim)
			}
			if v.Dim != 1 {
				obs = append(obs, v)
			}
		case int:
			if v < 1 {
				return Ty{}, errors.Wrapf(ErrInvalidDimension, "dimension %d is not positive", v)
			}
			if v != 1 {
				obs = append(obs, dimOb(v))
			}
		case Ty:
			obs = append(obs, v.obs...)
		default:
			return Ty{}, errors.Wrapf(ErrTypeMismatch, "%T is not an atomic object", c)
		}
	}
	return Ty{obs: obs}, nil
}

// MustTy is like NewTy but panics on error.
func MustTy(components ...any) Ty {
	t, err := NewTy(components...)
	if err != nil {
		panic(err)
	}
	return t
}

// NewDim returns the type of a tensor leg sequence. Dimensions of 1 are elided.
func NewDim(dims ...int) (Ty, error) {
	components := make([]any, len(dims))
	for i, d := range dims {
		components[i] = d
	}
	return NewTy(components...)
}

// MustDim is like NewDim but panics on error.
func MustDim(dims ...int) Ty {
	t, err := NewDim(dims...)
	if err != nil {
		panic(err)
	}
	return t
}

func tyOf(obs ...Ob) Ty {
	return Ty{obs: obs}
}

// Len returns the number of atoms.
func (t Ty) Len() int {
	return len(t.obs)
}

// At returns the i-th atom.
func (t Ty) At(i int) Ob {
	return t.obs[i]
}

// Obs returns a copy of the atoms.
func (t Ty) Obs() []Ob {
	return append([]Ob(nil), t.obs...)
}

// Slice returns atoms [i, j).
func (t Ty) Slice(i, j int) Ty {
	return Ty{obs: t.obs[i:j:j]}
}

// Tensor concatenates t with others.
func (t Ty) Tensor(others ...Ty) Ty {
	n := len(t.obs)
	for _, o := range others {
		n += len(o.obs)
	}
	if n == len(t.obs) {
		return t
	}
	obs := make([]Ob, 0, n)
	obs = append(obs, t.obs...)
	for _, o := range others {
		obs = append(obs, o.obs...)
	}
	return Ty{obs: obs}
}

// Pow returns t tensored with itself n times.
func (t Ty) Pow(n int) Ty {
	obs := make([]Ob, 0, n*len(t.obs))
	for i := 0; i < n; i++ {
		obs = append(obs, t.obs...)
	}
	return Ty{obs: obs}
}

// Reverse returns the atoms in reverse order.
func (t Ty) Reverse() Ty {
	obs := make([]Ob, len(t.obs))
	for i, o := range t.obs {
		obs[len(obs)-1-i] = o
	}
	return Ty{obs: obs}
}

// Equal reports whether both types hold the same atoms in the same order.
func (t Ty) Equal(other Ty) bool {
	if len(t.obs) != len(other.obs) {
		return false
	}
	for i := range t.obs {
		if t.obs[i] != other.obs[i] {
			return false
		}
	}
	return true
}

// IsDim reports whether every atom carries a dimension.
func (t Ty) IsDim() bool {
	for _, o := range t.obs {
		if o.Dim == 0 {
			return false
		}
	}
	return true
}

// Dims returns the dimension of each atom (0 for unannotated atoms).
func (t Ty) Dims() []int {
	dims := make([]int, len(t.obs))
	for i, o := range t.obs {
		dims[i] = o.Dim
	}
	return dims
}

// String renders t as "x @ y", or "Ty()" for the unit.
func (t Ty) String() string {
	if len(t.obs) == 0 {
		return "Ty()"
	}
	names := make([]string, len(t.obs))
	for i, o := range t.obs {
		names[i] = o.String()
	}
	return strings.Join(names, " @ ")
}

// key is String with names quoted so that composite names cannot collide.
func (t Ty) key() string {
	var sb strings.Builder
	for i, o := range t.obs {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.Quote(o.Name))
		sb.WriteByte(':')
		sb.WriteString(strconv.Itoa(o.Dim))
	}
	return sb.String()
}
