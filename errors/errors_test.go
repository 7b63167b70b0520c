package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "full error",
			err: &Error{
				Phase:     PhaseQuery,
				Kind:      KindUnsupported,
				Interface: "*IStream",
				IID:       "{0000000C-0000-0000-C000-000000000046}",
				Detail:    "not pointer-shaped",
			},
			contains: []string{"[query]", "unsupported", "interface *IStream", "IID {0000000C", " - not pointer-shaped"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhaseCreate,
				Kind:  KindNilPointer,
			},
			contains: []string{"[create]", "nil_pointer"},
		},
		{
			name: "iid only",
			err: &Error{
				Phase: PhaseCreate,
				Kind:  KindNilPointer,
				IID:   "{X}",
			},
			contains: []string{": IID {X}"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseHost,
				Kind:   KindForeignStatus,
				Detail: "load ole32",
				Cause:  errors.New("underlying error"),
			},
			contains: []string{"[host]", "foreign_status", ": load ole32", "caused by", "underlying error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := &Error{
		Phase: PhaseParse,
		Kind:  KindInvalidInput,
		Cause: cause,
	}

	if !errors.Is(err.Unwrap(), cause) {
		t.Error("Unwrap did not return cause")
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is did not find cause in chain")
	}
}

func TestError_Is(t *testing.T) {
	err := NilPointer(PhaseCreate, "*IFoo", "{1}")

	if !err.Is(&Error{Phase: PhaseCreate, Kind: KindNilPointer}) {
		t.Error("Is should match same phase and kind")
	}
	if err.Is(&Error{Phase: PhaseQuery, Kind: KindNilPointer}) {
		t.Error("Is should not match different phase")
	}
	if err.Is(&Error{Phase: PhaseCreate, Kind: KindReleased}) {
		t.Error("Is should not match different kind")
	}
	if err.Is(errors.New("other")) {
		t.Error("Is should not match foreign error types")
	}

	target := &Error{Phase: PhaseCreate, Kind: KindNilPointer}
	if !errors.Is(err, target) {
		t.Error("errors.Is should match")
	}
}

func TestBuilder(t *testing.T) {
	cause := errors.New("root")
	err := New(PhaseQuery, KindUnsupported).
		Interface("*IStream").
		IID("{1}").
		Value(8).
		Cause(cause).
		Detail("size %d, want %d", 8, 4).
		Build()

	if err.Phase != PhaseQuery {
		t.Errorf("Phase = %v, want %v", err.Phase, PhaseQuery)
	}
	if err.Kind != KindUnsupported {
		t.Errorf("Kind = %v, want %v", err.Kind, KindUnsupported)
	}
	if err.Interface != "*IStream" {
		t.Errorf("Interface = %v, want '*IStream'", err.Interface)
	}
	if err.IID != "{1}" {
		t.Errorf("IID = %v, want '{1}'", err.IID)
	}
	if err.Value != 8 {
		t.Errorf("Value = %v, want 8", err.Value)
	}
	if !errors.Is(err.Cause, cause) {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
	if err.Detail != "size 8, want 4" {
		t.Errorf("Detail = %v, want 'size 8, want 4'", err.Detail)
	}

	plain := New(PhaseHost, KindForeignStatus).Detail("load ole32").Build()
	if plain.Detail != "load ole32" {
		t.Errorf("Detail without args = %q, want 'load ole32'", plain.Detail)
	}
}

func TestConvenienceConstructors(t *testing.T) {
	t.Run("NilPointer", func(t *testing.T) {
		err := NilPointer(PhaseCreate, "*IFoo", "{1}")
		if err.Kind != KindNilPointer {
			t.Errorf("Kind = %v, want %v", err.Kind, KindNilPointer)
		}
		if err.Interface != "*IFoo" || err.IID != "{1}" {
			t.Errorf("Interface=%v IID=%v", err.Interface, err.IID)
		}
	})

	t.Run("Released", func(t *testing.T) {
		err := Released(PhaseClone, "*IFoo")
		if err.Kind != KindReleased {
			t.Errorf("Kind = %v, want %v", err.Kind, KindReleased)
		}
		if err.Phase != PhaseClone {
			t.Errorf("Phase = %v, want %v", err.Phase, PhaseClone)
		}
	})

	t.Run("InvalidInput", func(t *testing.T) {
		err := InvalidInput(PhaseCreate, "nil factory", nil)
		if err.Kind != KindInvalidInput {
			t.Errorf("Kind = %v, want %v", err.Kind, KindInvalidInput)
		}
	})

	t.Run("ParseFailed", func(t *testing.T) {
		cause := errors.New("bad length")
		err := ParseFailed("GUID", "xyz", cause)
		if err.Phase != PhaseParse {
			t.Errorf("Phase = %v, want %v", err.Phase, PhaseParse)
		}
		if err.Value != "xyz" {
			t.Errorf("Value = %v, want 'xyz'", err.Value)
		}
		if !errors.Is(err, cause) {
			t.Error("ParseFailed should wrap cause")
		}
	})

	t.Run("Foreign", func(t *testing.T) {
		err := Foreign(PhaseHost, "find CoCreateInstance", errors.New("not found"))
		if err.Kind != KindForeignStatus {
			t.Errorf("Kind = %v, want %v", err.Kind, KindForeignStatus)
		}
	})
}
