package comtest

import (
	"slices"
	"testing"
	"unsafe"

	"github.com/wippyai/comptr"
)

func TestObjectRefCounting(t *testing.T) {
	dtorCalls := 0
	rec := &Recorder{}
	o := NewObject(WithName("obj"), WithDestructor(func() { dtorCalls++ }), WithObserver(rec))

	if o.Refs() != 1 {
		t.Fatalf("Refs = %d, want 1", o.Refs())
	}
	if n := o.AddRef(); n != 2 {
		t.Errorf("AddRef = %d, want 2", n)
	}
	if n := o.Release(); n != 1 {
		t.Errorf("Release = %d, want 1", n)
	}
	if o.Destroyed() {
		t.Fatal("object destroyed with one reference left")
	}
	if n := o.Release(); n != 0 {
		t.Errorf("Release = %d, want 0", n)
	}
	if !o.Destroyed() {
		t.Error("object not destroyed at zero")
	}
	if dtorCalls != 1 {
		t.Errorf("destructor ran %d times, want 1", dtorCalls)
	}
	if o.AddRefs() != 1 || o.Releases() != 2 {
		t.Errorf("AddRefs=%d Releases=%d, want 1 and 2", o.AddRefs(), o.Releases())
	}

	want := []EventType{EventAddRef, EventRelease, EventRelease, EventDestroyed}
	if got := rec.Types(); !slices.Equal(got, want) {
		t.Errorf("events = %v, want %v", got, want)
	}
}

func TestObjectReleasedAfterDestroyPanics(t *testing.T) {
	o := NewObject(WithName("gone"))
	o.Release()

	defer func() {
		if recover() == nil {
			t.Error("Release on destroyed object did not panic")
		}
	}()
	o.Release()
}

func TestObjectQueryInterface(t *testing.T) {
	extra := comptr.MustParseGUID("{11111111-2222-3333-4444-555555555555}")
	other := comptr.MustParseGUID("{99999999-2222-3333-4444-555555555555}")
	o := NewObject(WithInterfaces(extra))

	tests := []struct {
		name string
		iid  comptr.GUID
		want comptr.HResult
	}{
		{"own iid", IIDObject, comptr.S_OK},
		{"unknown", comptr.IIDUnknown, comptr.S_OK},
		{"extra", extra, comptr.S_OK},
		{"unsupported", other, comptr.E_NOINTERFACE},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := o.Refs()
			var out unsafe.Pointer
			hr := o.QueryInterface(&tt.iid, &out)
			if hr != tt.want {
				t.Fatalf("QueryInterface = %v, want %v", hr, tt.want)
			}
			if hr.Failed() {
				if out != nil {
					t.Error("out set on failure")
				}
				if o.Refs() != before {
					t.Errorf("Refs = %d, want %d", o.Refs(), before)
				}
				return
			}
			if out != unsafe.Pointer(o) {
				t.Error("out does not point at the object")
			}
			if o.Refs() != before+1 {
				t.Errorf("Refs = %d, want %d", o.Refs(), before+1)
			}
			o.Release()
		})
	}

	if hr := o.QueryInterface(&extra, nil); hr != comptr.E_POINTER {
		t.Errorf("nil out: %v, want E_POINTER", hr)
	}
	if o.Queries() != len(tests) {
		t.Errorf("Queries = %d, want %d", o.Queries(), len(tests))
	}
}

func TestObserverUnsubscribe(t *testing.T) {
	rec := &Recorder{}
	o := NewObject()
	o.Subscribe(rec)
	o.AddRef()
	o.Unsubscribe(rec)
	o.Release()

	if got := rec.Types(); !slices.Equal(got, []EventType{EventAddRef}) {
		t.Errorf("events = %v, want [addref]", got)
	}
	if ev := rec.Events(); len(ev) != 1 || ev[0].Object != o || ev[0].Refs != 2 {
		t.Errorf("event = %+v", ev)
	}
}

func TestEventTypeString(t *testing.T) {
	if EventDestroyed.String() != "destroyed" {
		t.Errorf("String = %q", EventDestroyed.String())
	}
	if EventType(42).String() != "event(42)" {
		t.Errorf("String = %q", EventType(42).String())
	}
}

func TestServer(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		srv := NewServer(WithObjectOptions(WithName("made")))
		var out *Object
		if hr := srv.CreateInstance(&IIDObject, &out); hr != comptr.S_OK {
			t.Fatalf("CreateInstance = %v", hr)
		}
		if out == nil || out.String() != "made" || out.Refs() != 1 {
			t.Fatalf("out = %v", out)
		}
		if srv.Live() != 1 {
			t.Errorf("Live = %d, want 1", srv.Live())
		}
		out.Release()
		if srv.Live() != 0 {
			t.Errorf("Live = %d, want 0", srv.Live())
		}
		if len(srv.Objects()) != 1 {
			t.Errorf("Objects = %d, want 1", len(srv.Objects()))
		}
	})

	t.Run("failure leaves garbage", func(t *testing.T) {
		srv := NewServer(FailWith(comptr.E_OUTOFMEMORY), LeaveGarbage())
		var out *Object
		if hr := srv.CreateInstance(&IIDObject, &out); hr != comptr.E_OUTOFMEMORY {
			t.Fatalf("CreateInstance = %v", hr)
		}
		if out == nil {
			t.Fatal("expected poisoned out value")
		}
		defer func() {
			if recover() == nil {
				t.Error("using poisoned object did not panic")
			}
		}()
		out.Release()
	})

	t.Run("nil on success", func(t *testing.T) {
		srv := NewServer(ReturnNil())
		out := NewObject()
		if hr := srv.CreateInstance(&IIDObject, &out); hr != comptr.S_OK {
			t.Fatalf("CreateInstance = %v", hr)
		}
		if out != nil {
			t.Error("out not cleared")
		}
	})

	t.Run("unsupported iid", func(t *testing.T) {
		srv := NewServer()
		iid := comptr.MustParseGUID("{99999999-2222-3333-4444-555555555555}")
		var out *Object
		if hr := srv.CreateInstance(&iid, &out); hr != comptr.E_NOINTERFACE {
			t.Fatalf("CreateInstance = %v, want E_NOINTERFACE", hr)
		}
		if srv.Live() != 0 || srv.Calls() != 1 {
			t.Errorf("Live=%d Calls=%d", srv.Live(), srv.Calls())
		}
	})
}
