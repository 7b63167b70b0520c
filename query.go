package comptr

import (
	"reflect"
	"runtime"
	"unsafe"

	"go.uber.org/zap"

	"github.com/wippyai/comptr/errors"
)

// As asks the object behind p for interface U and returns a new owner of the
// resulting reference. p keeps its own reference.
//
// A failing status (typically E_NOINTERFACE) is returned unmodified. U must
// be a pointer type since the foreign call hands back a bare address.
func As[U Interface, T Interface](p *Ptr[T]) (*Ptr[U], error) {
	if err := checkPointerShaped[U](errors.PhaseQuery); err != nil {
		return nil, err
	}
	if !p.Owns() {
		return nil, errors.Released(errors.PhaseQuery, typeName[T]())
	}

	raw, iid := p.p, IIDOf[U]()
	q, err := New(func() (U, error) {
		var out unsafe.Pointer
		hr := raw.QueryInterface(iid, &out)
		return Check(fromPointer[U](out), hr)
	})
	runtime.KeepAlive(p)
	if err != nil {
		Logger().Debug("QueryInterface failed",
			zap.String("from", typeName[T]()),
			zap.String("to", typeName[U]()),
			zap.String("iid", iidString(iid)),
			zap.Error(err))
		return nil, err
	}
	return q, nil
}

// checkPointerShaped rejects interface types that a bare foreign address
// cannot be reinterpreted as.
func checkPointerShaped[U any](phase errors.Phase) error {
	if k := reflect.TypeFor[U]().Kind(); k != reflect.Pointer && k != reflect.UnsafePointer {
		return errors.New(phase, errors.KindUnsupported).
			Interface(typeName[U]()).
			Detail("interface type has kind %s, want pointer", k).
			Build()
	}
	return nil
}

// fromPointer reinterprets a foreign address as the pointer type U.
func fromPointer[U any](out unsafe.Pointer) U {
	return *(*U)(unsafe.Pointer(&out))
}
