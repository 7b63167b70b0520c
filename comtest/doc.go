// Package comtest provides an in-process fake of a reference-counted foreign
// runtime for testing code built on comptr.
//
// An Object counts every AddRef and Release it receives and is destroyed when
// its count reaches zero:
//
//	obj := comtest.NewObject(comtest.WithName("stream"))
//	p := comptr.FromRaw(obj)
//	p.Release()
//	obj.Destroyed() // true
//
// A Server plays the part of a fallible foreign constructor that writes an
// object through an out parameter and returns a status code:
//
//	srv := comtest.NewServer(comtest.FailWith(comptr.E_OUTOFMEMORY))
//	_, err := comptr.New(srv.Factory())
//	// err == comptr.E_OUTOFMEMORY, srv.Live() == 0
//
// Observers receive lifecycle events (AddRef, Release, QueryInterface,
// destruction) synchronously on the goroutine that caused them, which may be
// the runtime's cleanup goroutine.
package comtest
