//go:build windows

package comptr

import (
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/wippyai/comptr/errors"
)

// Apartment models for CoInitializeEx.
const (
	COINIT_MULTITHREADED     = 0x0
	COINIT_APARTMENTTHREADED = 0x2
	COINIT_DISABLE_OLE1DDE   = 0x4
	COINIT_SPEED_OVER_MEMORY = 0x8
)

// Class contexts for CoCreateInstance.
const (
	CLSCTX_INPROC_SERVER  = 0x1
	CLSCTX_INPROC_HANDLER = 0x2
	CLSCTX_LOCAL_SERVER   = 0x4
	CLSCTX_REMOTE_SERVER  = 0x10
	CLSCTX_ALL            = CLSCTX_INPROC_SERVER | CLSCTX_INPROC_HANDLER | CLSCTX_LOCAL_SERVER | CLSCTX_REMOTE_SERVER
)

var (
	modole32 = windows.NewLazySystemDLL("ole32.dll")

	procCoInitializeEx   = modole32.NewProc("CoInitializeEx")
	procCoUninitialize   = modole32.NewProc("CoUninitialize")
	procCoCreateInstance = modole32.NewProc("CoCreateInstance")
)

// IUnknownVtbl is the table every COM object starts with.
type IUnknownVtbl struct {
	QueryInterface uintptr
	AddRef         uintptr
	Release        uintptr
}

// IUnknown is a COM object viewed through its base interface.
type IUnknown struct {
	Vtbl *IUnknownVtbl
}

// IID implements Interface.
func (*IUnknown) IID() *GUID {
	return &IIDUnknown
}

// QueryInterface calls the first table entry. On success out holds a new
// reference the caller owns.
func (u *IUnknown) QueryInterface(iid *GUID, out *unsafe.Pointer) HResult {
	r, _, _ := syscall.SyscallN(u.Vtbl.QueryInterface,
		uintptr(unsafe.Pointer(u)),
		uintptr(unsafe.Pointer(iid)),
		uintptr(unsafe.Pointer(out)))
	return HResult(int32(r))
}

// AddRef increments the object's count and returns the new value.
func (u *IUnknown) AddRef() uint32 {
	r, _, _ := syscall.SyscallN(u.Vtbl.AddRef, uintptr(unsafe.Pointer(u)))
	return uint32(r)
}

// Release decrements the object's count and returns the new value.
func (u *IUnknown) Release() uint32 {
	r, _, _ := syscall.SyscallN(u.Vtbl.Release, uintptr(unsafe.Pointer(u)))
	return uint32(r)
}

// CoInitializeEx initializes COM on the calling thread. S_FALSE (already
// initialized) is not an error; both outcomes need a matching CoUninitialize.
// The caller should hold runtime.LockOSThread for the apartment's lifetime.
func CoInitializeEx(coinit uint32) error {
	if err := procCoInitializeEx.Find(); err != nil {
		return errors.Foreign(errors.PhaseHost, "find CoInitializeEx", err)
	}
	r, _, _ := syscall.SyscallN(procCoInitializeEx.Addr(), 0, uintptr(coinit))
	_, err := Check(struct{}{}, HResult(int32(r)))
	return err
}

// CoUninitialize closes COM on the calling thread.
func CoUninitialize() {
	if procCoUninitialize.Find() != nil {
		return
	}
	syscall.SyscallN(procCoUninitialize.Addr())
}

// CoCreateInstance creates an object of class clsid and returns it as T.
// T must be a pointer type; other kinds are rejected before any call.
// outer is the controlling object for aggregation and is usually nil.
func CoCreateInstance[T Interface](clsid *GUID, outer *IUnknown, clsctx uint32) (*Ptr[T], error) {
	if err := checkPointerShaped[T](errors.PhaseCreate); err != nil {
		return nil, err
	}
	if err := procCoCreateInstance.Find(); err != nil {
		return nil, errors.Foreign(errors.PhaseHost, "find CoCreateInstance", err)
	}
	iid := IIDOf[T]()
	return New(func() (T, error) {
		var out unsafe.Pointer
		r, _, _ := syscall.SyscallN(procCoCreateInstance.Addr(),
			uintptr(unsafe.Pointer(clsid)),
			uintptr(unsafe.Pointer(outer)),
			uintptr(clsctx),
			uintptr(unsafe.Pointer(iid)),
			uintptr(unsafe.Pointer(&out)))
		return Check(fromPointer[T](out), HResult(int32(r)))
	})
}
