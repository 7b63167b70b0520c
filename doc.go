// Package comptr provides a reference-counting smart pointer for foreign
// interface objects that follow the COM protocol: AddRef when a reference is
// copied, Release when it is dropped, destruction at zero.
//
// # Ownership
//
// A Ptr owns exactly one reference. The usual way to obtain one is New with a
// closure that performs a single foreign call and normalizes its status with
// Check:
//
//	p, err := comptr.New(func() (*IDXGIFactory1, error) {
//	    var obj *IDXGIFactory1
//	    hr := createDXGIFactory1(comptr.IIDOf[*IDXGIFactory1](), &obj)
//	    return comptr.Check(obj, hr)
//	})
//	if err != nil {
//	    return err
//	}
//	defer p.Release()
//
// Clone adds a reference and returns a second owner. Detach hands the
// reference to the caller without releasing it; FromRaw takes one back.
// Release is idempotent: only the first call reaches the object.
//
// # Errors
//
// A failing foreign status is returned unmodified as an HResult, so callers
// can use errors.As to read the code. A call that reports success but yields
// no object returns an error matching ErrUnexpectedNil.
//
// # Leaks
//
// A Ptr dropped without Release is released by a runtime cleanup once the
// garbage collector finds it unreachable, and a warning goes to the package
// logger (see SetLogger). The borrowed value returned by Get is only valid
// while its Ptr is reachable.
//
// # Thread Safety
//
// Ptr adds no locking. Distinct Ptrs over the same object can be used from
// different goroutines as long as the object's AddRef and Release are safe
// to call concurrently; whether its other methods are is up to the object.
// A single Ptr must not be released from two goroutines at once.
package comptr
