package comptr

import (
	"encoding/binary"
	"strings"

	"github.com/google/uuid"

	"github.com/wippyai/comptr/errors"
)

// GUID is a foreign binary identifier in the platform's mixed-endian layout:
// Data1..Data3 are native integers, Data4 is raw bytes.
type GUID struct {
	Data1 uint32
	Data2 uint16
	Data3 uint16
	Data4 [8]byte
}

// IIDUnknown identifies the base interface every foreign interface derives from.
var IIDUnknown = MustParseGUID("{00000000-0000-0000-C000-000000000046}")

// ParseGUID parses the canonical textual forms, with or without braces.
func ParseGUID(s string) (GUID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return GUID{}, errors.ParseFailed("GUID", s, err)
	}
	return FromUUID(u), nil
}

// MustParseGUID is ParseGUID for package-level identifiers. It panics on
// malformed input.
func MustParseGUID(s string) GUID {
	g, err := ParseGUID(s)
	if err != nil {
		panic(err)
	}
	return g
}

// FromUUID converts RFC 4122 byte order to the GUID layout.
func FromUUID(u uuid.UUID) GUID {
	g := GUID{
		Data1: binary.BigEndian.Uint32(u[0:4]),
		Data2: binary.BigEndian.Uint16(u[4:6]),
		Data3: binary.BigEndian.Uint16(u[6:8]),
	}
	copy(g.Data4[:], u[8:16])
	return g
}

// UUID converts the GUID back to RFC 4122 byte order.
func (g GUID) UUID() uuid.UUID {
	var u uuid.UUID
	binary.BigEndian.PutUint32(u[0:4], g.Data1)
	binary.BigEndian.PutUint16(u[4:6], g.Data2)
	binary.BigEndian.PutUint16(u[6:8], g.Data3)
	copy(u[8:16], g.Data4[:])
	return u
}

// String returns the registry form, e.g. {00000000-0000-0000-C000-000000000046}.
func (g GUID) String() string {
	return "{" + strings.ToUpper(g.UUID().String()) + "}"
}

// IsZero reports whether g is the all-zero GUID (GUID_NULL).
func (g GUID) IsZero() bool {
	return g == GUID{}
}
