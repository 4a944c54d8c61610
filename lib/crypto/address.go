package crypto

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

type Address []byte

var _ AddressI = &Address{}

const (
	AddressSize = 20
)

func (a *Address) Bytes() []byte          { return (*a)[:] }
func (a *Address) String() string         { return hex.EncodeToString(a.Bytes()) }
func (a *Address) Equals(e AddressI) bool { return bytes.Equal(a.Bytes(), e.Bytes()) }

// Marshal() returns a copy of the raw address bytes
func (a *Address) Marshal() ([]byte, error) {
	return bytes.Clone(a.Bytes()), nil
}

// MarshalJSON() is the json.Marshaller implementation for Address
func (a *Address) MarshalJSON() ([]byte, error) { return json.Marshal(a.String()) }

// UnmarshalJSON() is the json.Unmarshaler implementation for Address
func (a *Address) UnmarshalJSON(b []byte) (err error) {
	var hexString string
	if err = json.Unmarshal(b, &hexString); err != nil {
		return
	}
	address, err := NewAddressFromString(hexString)
	if err != nil {
		return
	}
	*a = Address(address.Bytes())
	return
}

// NewAddressFromBytes() creates a new AddressI interface from a byte slice
func NewAddressFromBytes(bz []byte) (AddressI, error) {
	if len(bz) != AddressSize {
		return nil, fmt.Errorf("wrong address size: %d", len(bz))
	}
	a := Address(bz)
	return &a, nil
}

// NewAddressFromString() creates a new AddressI interface from a hex string
func NewAddressFromString(hexString string) (AddressI, error) {
	bz, err := hex.DecodeString(hexString)
	if err != nil {
		return nil, err
	}
	return NewAddressFromBytes(bz)
}
