package crypto

import (
	"bytes"
	"crypto/ecdsa"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"math/big"

	ethCrypto "github.com/ethereum/go-ethereum/crypto"
)

/* This file implements the wallet's signing scheme: SECP256K1 with uncompressed public keys (64 bytes),
keccak256 addressing, and 65 byte recoverable signatures - recoverability is what makes a signed
transaction self-verifying, the signer address is computable from the signature alone */

const (
	SECP256K1PrivKeySize   = 32
	SECP256K1PubKeySize    = 64 // uncompressed, without the SEC1 prefix
	SECP256K1SignatureSize = 65 // r || s || v where v is the recovery id
)

// signedMsgPrefix domain-separates transaction signatures from any other use of the key
var signedMsgPrefix = []byte("\x19Arbor Signed Transaction:\n32")

// signingDigest() returns the digest that is actually signed: the keccak256 of the prefixed keccak256 of the message
func signingDigest(msg []byte) []byte {
	return ethCrypto.Keccak256(signedMsgPrefix, Hash(msg))
}

// Private Key Below

// ensure SECP256K1PrivateKey conforms to the PrivateKeyI interface
var _ PrivateKeyI = &SECP256K1PrivateKey{}

// SECP256K1PrivateKey is the private key of a cryptographic key pair used in elliptic curve signing and verification, based on the SECP256K1 elliptic curve
// It is used to create 'unique' digital signatures of messages
type SECP256K1PrivateKey struct {
	*ecdsa.PrivateKey
}

// NewSECP256K1PrivateKey() generates a new SECP256K1 private key from the platform entropy source
func NewSECP256K1PrivateKey() (PrivateKeyI, error) {
	return NewSECP256K1PrivateKeyFromReader(rand.Reader)
}

// NewSECP256K1PrivateKeyFromReader() generates a new SECP256K1 private key from the given entropy source
func NewSECP256K1PrivateKeyFromReader(r io.Reader) (PrivateKeyI, error) {
	pk, err := ecdsa.GenerateKey(ethCrypto.S256(), r)
	if err != nil {
		return nil, err
	}
	return &SECP256K1PrivateKey{PrivateKey: pk}, nil
}

// BytesToSECP256K1Private() converts bytes to a SECP256K1 private key, rejecting scalars that are zero or out of the curve order
func BytesToSECP256K1Private(b []byte) (*SECP256K1PrivateKey, error) {
	pk, err := ethCrypto.ToECDSA(b)
	if err != nil {
		return nil, err
	}
	return &SECP256K1PrivateKey{PrivateKey: pk}, nil
}

// StringToSECP256K1Private() creates a new PrivateKeyI interface from a SECP256K1 hex string
func StringToSECP256K1Private(hexString string) (PrivateKeyI, error) {
	bz, err := hex.DecodeString(hexString)
	if err != nil {
		return nil, err
	}
	return BytesToSECP256K1Private(bz)
}

// MarshalJSON() is the json.Marshaller implementation for SECP256K1PrivateKey
func (s *SECP256K1PrivateKey) MarshalJSON() ([]byte, error) { return json.Marshal(s.String()) }

// UnmarshalJSON() is the json.Unmarshaler implementation for SECP256K1PrivateKey
func (s *SECP256K1PrivateKey) UnmarshalJSON(b []byte) (err error) {
	var hexString string
	if err = json.Unmarshal(b, &hexString); err != nil {
		return
	}
	bz, err := hex.DecodeString(hexString)
	if err != nil {
		return
	}
	pk, err := BytesToSECP256K1Private(bz)
	if err != nil {
		return
	}
	*s = *pk
	return
}

// Sign() returns a 65 byte recoverable digital signature (r || s || v) over the prefixed digest of the message
func (s *SECP256K1PrivateKey) Sign(msg []byte) []byte {
	sig, _ := ethCrypto.Sign(signingDigest(msg), s.PrivateKey)
	return sig
}

// PublicKey() returns the public pair to this private key
func (s *SECP256K1PrivateKey) PublicKey() PublicKeyI {
	return &SECP256K1PublicKey{PublicKey: &s.PrivateKey.PublicKey}
}

// Bytes() returns the byte representation of the private key
func (s *SECP256K1PrivateKey) Bytes() []byte { return ethCrypto.FromECDSA(s.PrivateKey) }

// String() returns the hex string representation of the private key
func (s *SECP256K1PrivateKey) String() string { return hex.EncodeToString(s.Bytes()) }

// Equals() compares two private keys and returns true if they are equal
func (s *SECP256K1PrivateKey) Equals(i PrivateKeyI) bool { return bytes.Equal(s.Bytes(), i.Bytes()) }

// Public Key Below

// ensure SECP256K1PublicKey conforms to the PublicKeyI interface
var _ PublicKeyI = &SECP256K1PublicKey{}

// SECP256K1PublicKey is the public key of a cryptographic key pair used in elliptic curve signing and verification, based on the SECP256K1 elliptic curve
// It is used to verify ownership of the private key as well as validate digital signatures created by the private key
type SECP256K1PublicKey struct {
	*ecdsa.PublicKey
}

// BytesToSECP256K1Public() returns SECP256K1PublicKey from bytes
func BytesToSECP256K1Public(b []byte) (*SECP256K1PublicKey, error) {
	if len(b) == SECP256K1PubKeySize {
		b = append([]byte{0x04}, b...) // add the SEC1 prefix
	}
	pub, err := ethCrypto.UnmarshalPubkey(b)
	if err != nil {
		return nil, err
	}
	return &SECP256K1PublicKey{PublicKey: pub}, nil
}

// StringToSECP256K1Public() creates a new PublicKeyI interface from a SECP256K1 hex string
func StringToSECP256K1Public(hexString string) (PublicKeyI, error) {
	bz, err := hex.DecodeString(hexString)
	if err != nil {
		return nil, err
	}
	return BytesToSECP256K1Public(bz)
}

// MarshalJSON() is the json.Marshaller implementation for SECP256K1PublicKey
func (s *SECP256K1PublicKey) MarshalJSON() ([]byte, error) { return json.Marshal(s.String()) }

// UnmarshalJSON() is the json.Unmarshaler implementation for SECP256K1PublicKey
func (s *SECP256K1PublicKey) UnmarshalJSON(b []byte) (err error) {
	var hexString string
	if err = json.Unmarshal(b, &hexString); err != nil {
		return
	}
	bz, err := hex.DecodeString(hexString)
	if err != nil {
		return
	}
	pk, err := BytesToSECP256K1Public(bz)
	if err != nil {
		return
	}
	*s = *pk
	return
}

// Address() returns the short version of the public key: the last 20 bytes of the keccak256 of the uncompressed key
func (s *SECP256K1PublicKey) Address() AddressI {
	a := Address(ethCrypto.PubkeyToAddress(*s.PublicKey).Bytes())
	return &a
}

// VerifyBytes() returns true if the digital signature is valid for this public key and the given message
func (s *SECP256K1PublicKey) VerifyBytes(msg []byte, sig []byte) bool {
	if len(sig) == SECP256K1SignatureSize {
		sig = sig[:SECP256K1SignatureSize-1] // drop the recovery id
	}
	return ethCrypto.VerifySignature(s.BytesWithPrefix(), signingDigest(msg), sig)
}

// Bytes() returns the byte representation of the Public Key
func (s *SECP256K1PublicKey) Bytes() []byte {
	return s.BytesWithPrefix()[1:]
}

// BytesWithPrefix() returns the byte representation of the Public Key including the SEC1 prefix
func (s *SECP256K1PublicKey) BytesWithPrefix() []byte {
	return ethCrypto.FromECDSAPub(s.PublicKey)
}

// String() returns the hex string representation of the public key
func (s *SECP256K1PublicKey) String() string { return hex.EncodeToString(s.Bytes()) }

// Equals() compares two SECP256K1PublicKey objects and returns true if they're equal
func (s *SECP256K1PublicKey) Equals(i PublicKeyI) bool { return bytes.Equal(s.Bytes(), i.Bytes()) }

// RecoverSigner() recovers the signing public key from a message and its 65 byte recoverable signature
func RecoverSigner(msg []byte, sig []byte) (PublicKeyI, error) {
	if len(sig) != SECP256K1SignatureSize {
		return nil, fmt.Errorf("wrong signature size: %d", len(sig))
	}
	r := new(big.Int).SetBytes(sig[:32])
	ss := new(big.Int).SetBytes(sig[32:64])
	// validate signature values including the malleability bound on s
	if !ethCrypto.ValidateSignatureValues(sig[64], r, ss, true) {
		return nil, fmt.Errorf("invalid signature values")
	}
	digest := signingDigest(msg)
	// recover the public key
	pubKeyBytes, err := ethCrypto.Ecrecover(digest, sig)
	if err != nil {
		return nil, err
	}
	// verify signature to guard against invalid keys
	if !ethCrypto.VerifySignature(pubKeyBytes, digest, sig[:64]) {
		return nil, fmt.Errorf("signature verification failed")
	}
	return NewPublicKeyFromBytes(pubKeyBytes)
}
