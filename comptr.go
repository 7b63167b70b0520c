package comptr

import (
	"cmp"
	"fmt"
	"reflect"
	"runtime"
	"unsafe"

	"go.uber.org/zap"

	"github.com/wippyai/comptr/errors"
)

// Unknown is the base capability shared by every foreign interface. The
// methods mirror the first three entries of every interface table.
type Unknown interface {
	QueryInterface(iid *GUID, out *unsafe.Pointer) HResult
	AddRef() uint32
	Release() uint32
}

// Interface constrains the types a Ptr can own. Implementations are pointer
// types to foreign objects and their zero value is the null handle.
//
// IID is called on the zero value, so its result must not depend on the
// receiver.
type Interface interface {
	comparable
	Unknown
	IID() *GUID
}

// ErrUnexpectedNil is matched (via errors.Is) by the error New returns when a
// factory reports success without producing an object.
var ErrUnexpectedNil = &errors.Error{Phase: errors.PhaseCreate, Kind: errors.KindNilPointer}

// Ptr owns exactly one reference to a foreign object.
//
// Release gives the reference back. A Ptr that becomes unreachable while it
// still owns its reference is released by a runtime cleanup and a warning is
// logged; callers should not rely on that and pair every Ptr with a Release
// or Detach, usually via defer.
//
// Ptr must not be copied by value: use Clone.
type Ptr[T Interface] struct {
	_       noCopy
	p       T
	cleanup runtime.Cleanup
}

// New calls factory exactly once and takes ownership of the object it
// returns. The factory is expected to hand over an already referenced object;
// no AddRef is performed.
//
// A factory error is returned as-is. A nil object reported as success yields
// an error matching ErrUnexpectedNil and nothing is released.
func New[T Interface](factory func() (T, error)) (*Ptr[T], error) {
	if factory == nil {
		return nil, errors.InvalidInput(errors.PhaseCreate, "nil factory", typeName[T]())
	}
	raw, err := factory()
	if err != nil {
		return nil, err
	}

	var zero T
	if raw == zero {
		name, iid := typeName[T](), iidString(IIDOf[T]())
		Logger().Debug("foreign call reported success without an object",
			zap.String("interface", name),
			zap.String("iid", iid))
		return nil, errors.NilPointer(errors.PhaseCreate, name, iid)
	}

	return FromRaw(raw), nil
}

// FromRaw wraps raw without calling AddRef.
//
// The caller asserts that raw is non-nil and carries a reference the caller
// owns. Nothing is checked: wrapping a borrowed object leads to an extra
// Release later on.
func FromRaw[T Interface](raw T) *Ptr[T] {
	p := &Ptr[T]{p: raw}
	p.cleanup = runtime.AddCleanup(p, releaseUnreachable[T], raw)
	return p
}

// Get returns the wrapped object without touching its reference count.
// The result stays valid only while p is alive and owning; the caller must
// neither release it nor keep it past that point. Get returns the zero value
// once p has been released or detached.
func (p *Ptr[T]) Get() T {
	if p == nil {
		var zero T
		return zero
	}
	return p.p
}

// Owns reports whether p still holds its reference.
func (p *Ptr[T]) Owns() bool {
	var zero T
	return p != nil && p.p != zero
}

// Detach gives the reference to the caller and disarms p. No foreign call is
// made. Calling Detach again returns the zero value.
func (p *Ptr[T]) Detach() T {
	raw, _ := p.take()
	return raw
}

// Release gives back the owned reference. Subsequent calls do nothing.
func (p *Ptr[T]) Release() {
	if raw, ok := p.take(); ok {
		raw.Release()
	}
}

// Clone calls AddRef once and returns a second, independent owner of the
// same object. Cloning a released or detached Ptr panics.
func (p *Ptr[T]) Clone() *Ptr[T] {
	if !p.Owns() {
		panic(errors.Released(errors.PhaseClone, typeName[T]()))
	}
	p.p.AddRef()
	c := FromRaw(p.p)
	runtime.KeepAlive(p)
	return c
}

// Equal reports whether p and other wrap the same object.
func (p *Ptr[T]) Equal(other *Ptr[T]) bool {
	return p.Get() == other.Get()
}

// Compare orders p and other by object address and returns -1, 0 or +1.
// Released pointers sort first. Only pointer-shaped T have an order; other
// kinds all compare equal.
func (p *Ptr[T]) Compare(other *Ptr[T]) int {
	return cmp.Compare(address(p.Get()), address(other.Get()))
}

// String implements fmt.Stringer.
func (p *Ptr[T]) String() string {
	if !p.Owns() {
		return fmt.Sprintf("Ptr[%s](released)", typeName[T]())
	}
	return fmt.Sprintf("Ptr[%s](%p)", typeName[T](), any(p.p))
}

// take empties the slot and stops the cleanup. It is the only place that
// moves a reference out of a Ptr.
func (p *Ptr[T]) take() (T, bool) {
	var zero T
	if p == nil || p.p == zero {
		return zero, false
	}
	raw := p.p
	p.p = zero
	p.cleanup.Stop()
	return raw, true
}

func releaseUnreachable[T Interface](raw T) {
	var zero T
	if raw == zero {
		return
	}
	Logger().Warn("releasing unreachable pointer that was never released",
		zap.String("interface", typeName[T]()),
		zap.String("iid", iidString(IIDOf[T]())))
	raw.Release()
}

// IIDOf returns the interface identifier of T.
func IIDOf[T Interface]() *GUID {
	var zero T
	return zero.IID()
}

func iidString(iid *GUID) string {
	if iid == nil {
		return ""
	}
	return iid.String()
}

func address[T any](v T) uintptr {
	rv := reflect.ValueOf(any(v))
	switch rv.Kind() {
	case reflect.Pointer, reflect.UnsafePointer:
		return rv.Pointer()
	default:
		return 0
	}
}

func typeName[T any]() string {
	return reflect.TypeFor[T]().String()
}

// noCopy triggers go vet's copylocks check on values embedding it.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}
