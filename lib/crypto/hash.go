package crypto

import (
	"encoding/hex"
	"hash"

	ethCrypto "github.com/ethereum/go-ethereum/crypto"
)

const (
	HashSize = 32
)

/*
	Hash is a function that takes an input message and returns a fixed-size string of bytes that is unique to the input.
	The rollup uses keccak256 everywhere a digest is needed: transaction sign bytes, addressing, and transaction hashes.
*/

// Hasher() returns the global hashing algorithm used
func Hasher() hash.Hash { return ethCrypto.NewKeccakState() }

// Hash() executes the global hashing algorithm on input bytes
func Hash(msg []byte) []byte {
	return ethCrypto.Keccak256(msg)
}

// HashString() returns the hex byte version of a hash
func HashString(msg []byte) string { return hex.EncodeToString(Hash(msg)) }
