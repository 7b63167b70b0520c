package comtest

import (
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/wippyai/comptr"
)

// IIDObject identifies *Object.
var IIDObject = comptr.MustParseGUID("{6F1B0C2E-7D3A-4C55-9B1E-2A8F5D0C4E11}")

// EventType is the kind of lifecycle notification.
type EventType uint8

const (
	EventAddRef EventType = iota
	EventRelease
	EventQueried
	EventDestroyed
)

func (t EventType) String() string {
	switch t {
	case EventAddRef:
		return "addref"
	case EventRelease:
		return "release"
	case EventQueried:
		return "queried"
	case EventDestroyed:
		return "destroyed"
	default:
		return fmt.Sprintf("event(%d)", uint8(t))
	}
}

// Event represents an object lifecycle event.
type Event struct {
	Object *Object
	Type   EventType
	Refs   int32 // reference count after the operation
}

// Observer receives notifications about object lifecycle events.
type Observer interface {
	OnObjectEvent(Event)
}

// Option configures an Object.
type Option func(*Object)

// WithName sets the name reported by String.
func WithName(name string) Option {
	return func(o *Object) { o.name = name }
}

// WithInterfaces makes QueryInterface succeed for iids in addition to
// IIDObject and IIDUnknown.
func WithInterfaces(iids ...comptr.GUID) Option {
	return func(o *Object) { o.iids = append(o.iids, iids...) }
}

// WithDestructor sets a function run once when the count reaches zero.
func WithDestructor(dtor func()) Option {
	return func(o *Object) { o.dtor = dtor }
}

// WithObserver subscribes o to the object's events from creation on.
func WithObserver(obs Observer) Option {
	return func(o *Object) { o.observers = append(o.observers, obs) }
}

// Object is a fake foreign object with an atomic reference count. It
// satisfies comptr.Interface.
//
// Releasing past zero or touching a destroyed object panics.
type Object struct {
	name      string
	iids      []comptr.GUID
	dtor      func()
	observers []Observer
	obsMu     sync.RWMutex

	refs      atomic.Int32
	addRefs   atomic.Int32
	releases  atomic.Int32
	queries   atomic.Int32
	destroyed atomic.Bool
	poisoned  bool
}

// NewObject creates an object holding one reference, owned by the caller.
func NewObject(opts ...Option) *Object {
	o := &Object{}
	for _, opt := range opts {
		opt(o)
	}
	o.refs.Store(1)
	return o
}

// IID implements comptr.Interface.
func (*Object) IID() *comptr.GUID {
	return &IIDObject
}

// QueryInterface hands out a new reference when iid is supported.
func (o *Object) QueryInterface(iid *comptr.GUID, out *unsafe.Pointer) comptr.HResult {
	o.checkAlive("QueryInterface")
	if out == nil || iid == nil {
		return comptr.E_POINTER
	}
	*out = nil
	o.queries.Add(1)
	if !o.Supports(*iid) {
		return comptr.E_NOINTERFACE
	}
	o.AddRef()
	*out = unsafe.Pointer(o)
	o.notify(EventQueried, o.refs.Load())
	return comptr.S_OK
}

// AddRef increments the reference count.
func (o *Object) AddRef() uint32 {
	o.checkAlive("AddRef")
	n := o.refs.Add(1)
	o.addRefs.Add(1)
	o.notify(EventAddRef, n)
	return uint32(n)
}

// Release decrements the reference count and destroys the object at zero.
func (o *Object) Release() uint32 {
	o.checkAlive("Release")
	n := o.refs.Add(-1)
	o.releases.Add(1)
	if n < 0 {
		panic(fmt.Sprintf("comtest: %s released too often", o))
	}
	o.notify(EventRelease, n)
	if n == 0 {
		o.destroyed.Store(true)
		if o.dtor != nil {
			o.dtor()
		}
		o.notify(EventDestroyed, 0)
	}
	return uint32(n)
}

// Supports reports whether QueryInterface succeeds for iid.
func (o *Object) Supports(iid comptr.GUID) bool {
	return iid == IIDObject || iid == comptr.IIDUnknown || slices.Contains(o.iids, iid)
}

// Refs returns the current reference count.
func (o *Object) Refs() int32 {
	return o.refs.Load()
}

// AddRefs returns how many times AddRef was called.
func (o *Object) AddRefs() int {
	return int(o.addRefs.Load())
}

// Releases returns how many times Release was called.
func (o *Object) Releases() int {
	return int(o.releases.Load())
}

// Queries returns how many times QueryInterface was called.
func (o *Object) Queries() int {
	return int(o.queries.Load())
}

// Destroyed reports whether the count has reached zero.
func (o *Object) Destroyed() bool {
	return o.destroyed.Load()
}

// Subscribe adds an observer for lifecycle events.
func (o *Object) Subscribe(obs Observer) {
	o.obsMu.Lock()
	defer o.obsMu.Unlock()
	o.observers = append(o.observers, obs)
}

// Unsubscribe removes an observer.
func (o *Object) Unsubscribe(obs Observer) {
	o.obsMu.Lock()
	defer o.obsMu.Unlock()
	for i, cur := range o.observers {
		if cur == obs {
			o.observers = append(o.observers[:i], o.observers[i+1:]...)
			return
		}
	}
}

func (o *Object) String() string {
	if o.name != "" {
		return o.name
	}
	return fmt.Sprintf("object(%p)", o)
}

func (o *Object) checkAlive(op string) {
	if o.poisoned {
		panic(fmt.Sprintf("comtest: %s on an out parameter left by a failed call", op))
	}
	if o.destroyed.Load() {
		panic(fmt.Sprintf("comtest: %s on destroyed %s", op, o))
	}
}

func (o *Object) notify(t EventType, refs int32) {
	o.obsMu.RLock()
	defer o.obsMu.RUnlock()
	for _, obs := range o.observers {
		obs.OnObjectEvent(Event{Object: o, Type: t, Refs: refs})
	}
}

// Recorder is an Observer that keeps every event it sees. It is safe for
// concurrent use.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// OnObjectEvent implements Observer.
func (r *Recorder) OnObjectEvent(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.events)
}

// Types returns the recorded event types in order.
func (r *Recorder) Types() []EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	types := make([]EventType, len(r.events))
	for i, e := range r.events {
		types[i] = e.Type
	}
	return types
}
