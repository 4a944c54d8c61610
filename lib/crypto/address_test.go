package crypto

import (
	"encoding/hex"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAddress(t *testing.T) {
	// create a new key pair
	private, err := NewSECP256K1PrivateKey()
	require.NoError(t, err)
	public := private.PublicKey()
	// the address is the last 20 bytes of the keccak256 of the uncompressed public key
	addressBytes := Hash(public.Bytes())[HashSize-AddressSize:]
	address := public.Address()
	require.Equal(t, addressBytes, address.Bytes())
	// validate string function
	require.Equal(t, address.String(), hex.EncodeToString(addressBytes))
	// validate equals function
	fromBytes, err := NewAddressFromBytes(addressBytes)
	require.NoError(t, err)
	require.True(t, address.Equals(fromBytes))
	// validate round trip through the string form
	fromString, err := NewAddressFromString(address.String())
	require.NoError(t, err)
	require.True(t, address.Equals(fromString))
	// validate json marshalling
	marshalled, err := json.Marshal(address)
	require.NoError(t, err)
	// validate expected json vs got
	require.Equal(t, string(marshalled), "\""+address.String()+"\"")
	// validate unmarshalling
	unmarshalled := new(Address)
	require.NoError(t, json.Unmarshal(marshalled, unmarshalled))
	require.True(t, address.Equals(unmarshalled))
}

func TestNewAddressErrors(t *testing.T) {
	// reject hex of the wrong length
	_, err := NewAddressFromString("abcd")
	require.ErrorContains(t, err, "wrong address size")
	// reject strings that are not hex
	_, err = NewAddressFromString("not-hex")
	require.ErrorContains(t, err, "invalid byte")
	// reject byte slices of the wrong length
	_, err = NewAddressFromBytes(make([]byte, AddressSize+1))
	require.ErrorContains(t, err, "wrong address size")
}

func TestAddressUniqueness(t *testing.T) {
	// distinct keys must map to distinct addresses
	seen := make(map[string]struct{})
	for i := 0; i < 32; i++ {
		private, err := NewSECP256K1PrivateKey()
		require.NoError(t, err)
		address := private.PublicKey().Address().String()
		_, ok := seen[address]
		require.False(t, ok)
		seen[address] = struct{}{}
	}
}
