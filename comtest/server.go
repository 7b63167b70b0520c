package comtest

import (
	"sync"

	"github.com/wippyai/comptr"
)

// ServerOption configures a Server.
type ServerOption func(*Server)

// FailWith makes every CreateInstance call return hr.
func FailWith(hr comptr.HResult) ServerOption {
	return func(s *Server) { s.status = hr }
}

// ReturnNil makes CreateInstance report success without writing an object.
func ReturnNil() ServerOption {
	return func(s *Server) { s.returnNil = true }
}

// LeaveGarbage makes a failing CreateInstance write a poisoned object to its
// out parameter. Any method call on it panics, which catches callers that use
// the out value of a failed call.
func LeaveGarbage() ServerOption {
	return func(s *Server) { s.garbage = true }
}

// WithObjectOptions applies opts to every object the server creates.
func WithObjectOptions(opts ...Option) ServerOption {
	return func(s *Server) { s.objectOpts = append(s.objectOpts, opts...) }
}

// Server is a fake class factory. It keeps every object it created so tests
// can check for leaks.
type Server struct {
	objectOpts []Option
	objects    []*Object
	calls      int
	status     comptr.HResult
	returnNil  bool
	garbage    bool
	mu         sync.Mutex
}

// NewServer creates a server that succeeds unless configured otherwise.
func NewServer(opts ...ServerOption) *Server {
	s := &Server{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateInstance writes a new object with one reference to out and returns
// a status code. On failure out must be treated as uninitialized.
func (s *Server) CreateInstance(iid *comptr.GUID, out **Object) comptr.HResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls++
	if out == nil || iid == nil {
		return comptr.E_POINTER
	}
	if s.status.Failed() {
		if s.garbage {
			*out = &Object{poisoned: true}
		}
		return s.status
	}
	if s.returnNil {
		*out = nil
		return comptr.S_OK
	}

	obj := NewObject(s.objectOpts...)
	if !obj.Supports(*iid) {
		*out = nil
		return comptr.E_NOINTERFACE
	}
	s.objects = append(s.objects, obj)
	*out = obj
	return comptr.S_OK
}

// Factory returns a closure suitable for comptr.New that calls
// CreateInstance once for *Object.
func (s *Server) Factory() func() (*Object, error) {
	return func() (*Object, error) {
		var obj *Object
		hr := s.CreateInstance(comptr.IIDOf[*Object](), &obj)
		return comptr.Check(obj, hr)
	}
}

// Calls returns how many times CreateInstance ran.
func (s *Server) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// Objects returns every object created so far, live or destroyed.
func (s *Server) Objects() []*Object {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*Object(nil), s.objects...)
}

// Live returns the count of created objects not yet destroyed.
func (s *Server) Live() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, o := range s.objects {
		if !o.Destroyed() {
			count++
		}
	}
	return count
}
