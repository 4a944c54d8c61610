package crypto

import (
	"strings"
	"testing"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/stretchr/testify/require"
)

func TestNewPublicKeyFromString(t *testing.T) {
	// pre-generate a key with the decred implementation
	decredKey, err := secp256k1.GeneratePrivateKey()
	require.NoError(t, err)
	// load the uncompressed public key into the wallet representation
	public, err := BytesToSECP256K1Public(decredKey.PubKey().SerializeUncompressed())
	require.NoError(t, err)
	tests := []struct {
		name     string
		string   string
		expected PublicKeyI
		error    string
	}{
		{
			name:   "not a hex string",
			string: "not-hex",
			error:  "invalid byte",
		},
		{
			name:   "not a recognized key",
			string: "abcd",
			error:  "unrecognized public key format",
		},
		{
			name:     "uncompressed public key without the prefix",
			string:   public.String(),
			expected: public,
		},
		{
			name:     "uncompressed public key with the prefix",
			string:   "04" + public.String(),
			expected: public,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			// execute the function call
			got, e := NewPublicKeyFromString(test.string)
			// check if an error is expected or not
			require.Equal(t, test.error != "", e != nil)
			// check the error
			if e != nil {
				require.ErrorContains(t, e, test.error)
				return
			}
			// compare got vs expected
			require.EqualExportedValues(t, test.expected, got)
		})
	}
}

func TestNewPublicKeyFromBytes(t *testing.T) {
	// pre-generate a key pair
	private, err := NewSECP256K1PrivateKey()
	require.NoError(t, err)
	// create a 64 byte blob that is not a curve point
	notOnCurve := make([]byte, SECP256K1PubKeySize)
	for i := range notOnCurve {
		notOnCurve[i] = 0xFF
	}
	tests := []struct {
		name     string
		bytes    []byte
		expected PublicKeyI
		error    string
	}{
		{
			name:  "not a recognized key",
			bytes: []byte("abcd"),
			error: "unrecognized public key format",
		},
		{
			name:  "right size but not on the curve",
			bytes: notOnCurve,
			error: "invalid secp256k1 public key",
		},
		{
			name:     "valid public key",
			bytes:    private.PublicKey().Bytes(),
			expected: private.PublicKey(),
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			// execute the function call
			got, e := NewPublicKeyFromBytes(test.bytes)
			// check if an error is expected or not
			require.Equal(t, test.error != "", e != nil)
			// check the error
			if e != nil {
				require.ErrorContains(t, e, test.error)
				return
			}
			// compare got vs expected
			require.EqualExportedValues(t, test.expected, got)
		})
	}
}

func TestNewPrivateKeyFromString(t *testing.T) {
	// pre-generate a private key
	private, err := NewSECP256K1PrivateKey()
	require.NoError(t, err)
	tests := []struct {
		name     string
		string   string
		expected PrivateKeyI
		error    string
	}{
		{
			name:   "not a recognized key",
			string: "abcd",
			error:  "unrecognized private key format",
		},
		{
			name:   "zero scalar",
			string: strings.Repeat("00", SECP256K1PrivKeySize),
			error:  "invalid private key",
		},
		{
			name:   "scalar above the curve order",
			string: strings.Repeat("ff", SECP256K1PrivKeySize),
			error:  "invalid private key",
		},
		{
			name:     "valid private key",
			string:   private.String(),
			expected: private,
		},
		{
			name:     "valid private key with surrounding whitespace",
			string:   "  " + private.String() + "\n",
			expected: private,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			// execute the function call
			got, e := NewPrivateKeyFromString(test.string)
			// check if an error is expected or not
			require.Equal(t, test.error != "", e != nil)
			// check the error
			if e != nil {
				require.ErrorContains(t, e, test.error)
				return
			}
			// compare got vs expected
			require.EqualExportedValues(t, test.expected, got)
		})
	}
}

func TestNewPrivateKeyFromBytes(t *testing.T) {
	// pre-generate a private key
	private, err := NewSECP256K1PrivateKey()
	require.NoError(t, err)
	tests := []struct {
		name     string
		bytes    []byte
		expected PrivateKeyI
		error    string
	}{
		{
			name:  "not a recognized key",
			bytes: []byte("abcd"),
			error: "unrecognized private key format",
		},
		{
			name:     "valid private key",
			bytes:    private.Bytes(),
			expected: private,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			// execute the function call
			got, e := NewPrivateKeyFromBytes(test.bytes)
			// check if an error is expected or not
			require.Equal(t, test.error != "", e != nil)
			// check the error
			if e != nil {
				require.ErrorContains(t, e, test.error)
				return
			}
			// compare got vs expected
			require.EqualExportedValues(t, test.expected, got)
		})
	}
}

func TestPrivateKeyCrossLibraryDerivation(t *testing.T) {
	// generate a key with the decred implementation
	decredKey, err := secp256k1.GeneratePrivateKey()
	require.NoError(t, err)
	// load the same scalar into the wallet representation
	got, err := NewPrivateKeyFromBytes(decredKey.Serialize())
	require.NoError(t, err)
	// both implementations must serialize the scalar identically
	require.Equal(t, decredKey.Serialize(), got.Bytes())
	// both implementations must derive the same public key
	require.Equal(t, decredKey.PubKey().SerializeUncompressed()[1:], got.PublicKey().Bytes())
}

func TestPrivateKeyFileRoundTrip(t *testing.T) {
	// pre-generate a private key
	private, err := NewSECP256K1PrivateKey()
	require.NoError(t, err)
	// write the key to a file
	filePath := t.TempDir() + "/key.txt"
	require.NoError(t, PrivateKeyToFile(private, filePath))
	// read the key back from the file
	got, err := NewPrivateKeyFromFile(filePath)
	require.NoError(t, err)
	// compare got vs expected
	require.EqualExportedValues(t, private, got)
}
