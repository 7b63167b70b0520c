package comptr

import "fmt"

// HResult is a foreign status code. Negative values are failures, anything
// else (S_OK, S_FALSE, ...) is success.
type HResult int32

// Well-known status codes.
const (
	S_OK    HResult = 0
	S_FALSE HResult = 1

	E_NOTIMPL      HResult = -0x7fffbfff // 0x80004001
	E_NOINTERFACE  HResult = -0x7fffbffe // 0x80004002
	E_POINTER      HResult = -0x7fffbffd // 0x80004003
	E_ABORT        HResult = -0x7fffbffc // 0x80004004
	E_FAIL         HResult = -0x7fffbffb // 0x80004005
	E_UNEXPECTED   HResult = -0x7fff0001 // 0x8000FFFF
	E_ACCESSDENIED HResult = -0x7ff8fffb // 0x80070005
	E_HANDLE       HResult = -0x7ff8fffa // 0x80070006
	E_OUTOFMEMORY  HResult = -0x7ff8fff2 // 0x8007000E
	E_INVALIDARG   HResult = -0x7ff8ffa9 // 0x80070057

	CLASS_E_NOAGGREGATION HResult = -0x7ffbfef0 // 0x80040110
	REGDB_E_CLASSNOTREG   HResult = -0x7ffbfeac // 0x80040154
	CO_E_NOTINITIALIZED   HResult = -0x7ffbfe10 // 0x800401F0
)

var knownMessages = map[HResult]string{
	S_OK:                  "The operation completed successfully.",
	S_FALSE:               "Incorrect function.",
	E_NOTIMPL:             "Not implemented",
	E_NOINTERFACE:         "No such interface supported",
	E_POINTER:             "Invalid pointer",
	E_ABORT:               "Operation aborted",
	E_FAIL:                "Unspecified error",
	E_UNEXPECTED:          "Catastrophic failure",
	E_ACCESSDENIED:        "Access is denied.",
	E_HANDLE:              "The handle is invalid.",
	E_OUTOFMEMORY:         "Not enough memory resources are available to complete this operation.",
	E_INVALIDARG:          "The parameter is incorrect.",
	CLASS_E_NOAGGREGATION: "Class does not support aggregation (or class object is remote)",
	REGDB_E_CLASSNOTREG:   "Class not registered",
	CO_E_NOTINITIALIZED:   "CoInitialize has not been called.",
}

// Succeeded reports whether the code is a success code.
func (hr HResult) Succeeded() bool {
	return hr >= 0
}

// Failed reports whether the code is a failure code.
func (hr HResult) Failed() bool {
	return hr < 0
}

// Code returns the raw status value.
func (hr HResult) Code() int32 {
	return int32(hr)
}

// Facility returns the 13-bit facility field.
func (hr HResult) Facility() uint16 {
	return uint16((uint32(hr) >> 16) & 0x1fff)
}

// Severity returns 1 for failure codes and 0 for success codes.
func (hr HResult) Severity() uint8 {
	return uint8(uint32(hr) >> 31)
}

// String formats the code as 0xXXXXXXXX.
func (hr HResult) String() string {
	return fmt.Sprintf("0x%08X", uint32(hr))
}

// Error implements error. The message comes from the platform when it knows
// the code.
func (hr HResult) Error() string {
	if msg := systemMessage(hr); msg != "" {
		return "HRESULT " + hr.String() + ": " + msg
	}
	return "HRESULT " + hr.String()
}

// Check converts the outcome of a foreign call into a Go result. A success
// code yields (v, nil); a failure code yields the zero value and hr itself as
// the error, so callers can recover the exact status with errors.As.
func Check[T any](v T, hr HResult) (T, error) {
	if hr.Failed() {
		var zero T
		return zero, hr
	}
	return v, nil
}
