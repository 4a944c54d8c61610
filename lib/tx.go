package lib

import (
	"bytes"
	"encoding/json"

	"github.com/arbor-network/arbor-wallet/lib/crypto"
	"github.com/holiman/uint256"
)

/* This file implements the transfer transaction model: canonical sign bytes, one-shot signing, and deterministic verification */

const (
	// TxEncodingVersion pins the canonical wire format; any field addition bumps it
	TxEncodingVersion byte = 1

	// wordSize is the wire width of the numeric fields
	wordSize = 32

	// TxSignBytesSize is the fixed length of the canonical encoding:
	// version(1) || sender(20) || recipient(20) || value(32) || nonce(32)
	TxSignBytesSize = 1 + 2*crypto.AddressSize + 2*wordSize
)

// Transaction is a transfer of value between two rollup accounts
// Nonce ordering is owned by the caller and enforced by the rollup node, not validated here
type Transaction struct {
	Sender    crypto.AddressI // the account the value moves from; must be provable by the signing key
	Recipient crypto.AddressI // the account the value moves to; may equal the sender
	Value     uint64          // the amount transferred in base units; zero is a valid transfer
	Nonce     uint64          // the per-sender replay counter
}

// NewTransaction() assembles a transfer transaction from its parts
func NewTransaction(sender, recipient crypto.AddressI, value, nonce uint64) (*Transaction, ErrorI) {
	if sender == nil || recipient == nil {
		return nil, ErrInvalidAddress()
	}
	return &Transaction{
		Sender:    sender,
		Recipient: recipient,
		Value:     value,
		Nonce:     nonce,
	}, nil
}

// SignBytes() returns the canonical byte encoding of the transaction used for signing and hashing
// Fixed field widths make the encoding injective for a given version: distinct transactions never encode identically
func (x *Transaction) SignBytes() ([]byte, ErrorI) {
	if x == nil {
		return nil, ErrNilTransaction()
	}
	if x.Sender == nil || x.Recipient == nil {
		return nil, ErrInvalidAddress()
	}
	value := uint256.NewInt(x.Value).Bytes32()
	nonce := uint256.NewInt(x.Nonce).Bytes32()
	bz := make([]byte, 0, TxSignBytesSize)
	bz = append(bz, TxEncodingVersion)
	bz = append(bz, x.Sender.Bytes()...)
	bz = append(bz, x.Recipient.Bytes()...)
	bz = append(bz, value[:]...)
	bz = append(bz, nonce[:]...)
	return bz, nil
}

// Hash() returns the keccak256 of the canonical encoding, the transaction's identity on the rollup
func (x *Transaction) Hash() ([]byte, ErrorI) {
	bz, err := x.SignBytes()
	if err != nil {
		return nil, err
	}
	return crypto.Hash(bz), nil
}

// HashString() returns the hex string version of the transaction hash
func (x *Transaction) HashString() (string, ErrorI) {
	bz, err := x.Hash()
	if err != nil {
		return "", err
	}
	return BytesToString(bz), nil
}

// Copy() returns a deep clone of the transaction
func (x *Transaction) Copy() *Transaction {
	if x == nil {
		return nil
	}
	clone := Transaction{Value: x.Value, Nonce: x.Nonce}
	if x.Sender != nil {
		sender, _ := crypto.NewAddressFromBytes(bytes.Clone(x.Sender.Bytes()))
		clone.Sender = sender
	}
	if x.Recipient != nil {
		recipient, _ := crypto.NewAddressFromBytes(bytes.Clone(x.Recipient.Bytes()))
		clone.Recipient = recipient
	}
	return &clone
}

// Sign() produces the signed envelope for this transaction using the private key
// Signing is one-way and one-shot: a changed field requires building a new Transaction and signing again
func (x *Transaction) Sign(pk crypto.PrivateKeyI) (*SignedTransaction, ErrorI) {
	if x == nil {
		return nil, ErrNilTransaction()
	}
	if x.Sender == nil || x.Recipient == nil {
		return nil, ErrInvalidAddress()
	}
	// the claimed sender must be provable by the signing key; never coerced
	address := pk.PublicKey().Address()
	if !address.Equals(x.Sender) {
		return nil, ErrSenderKeyMismatch(x.Sender.String(), address.String())
	}
	signBytes, err := x.SignBytes()
	if err != nil {
		return nil, err
	}
	return &SignedTransaction{
		Transaction: x.Copy(),
		Signature:   pk.Sign(signBytes),
	}, nil
}

// NewSendTransaction() builds a transfer from the signing key's own address and signs it in a single call
func NewSendTransaction(pk crypto.PrivateKeyI, recipient crypto.AddressI, value, nonce uint64) (*SignedTransaction, ErrorI) {
	tx, err := NewTransaction(pk.PublicKey().Address(), recipient, value, nonce)
	if err != nil {
		return nil, err
	}
	return tx.Sign(pk)
}

// SignedTransaction is the envelope submitted to the rollup node: the transaction plus a
// recoverable signature over its canonical encoding. The recoverable signature makes the
// envelope self-verifying; a receiver needs no out-of-band data to validate the sender
type SignedTransaction struct {
	Transaction *Transaction
	Signature   HexBytes
}

// Verify() deterministically checks the envelope: it recomputes the canonical encoding from the
// transaction fields (cached bytes are never trusted), recovers the signer address from the
// signature, and requires it to equal the claimed sender. Returns the recovered address
func (x *SignedTransaction) Verify() (crypto.AddressI, ErrorI) {
	if x == nil || x.Transaction == nil {
		return nil, ErrNilTransaction()
	}
	signBytes, err := x.Transaction.SignBytes()
	if err != nil {
		return nil, err
	}
	publicKey, e := crypto.RecoverSigner(signBytes, x.Signature)
	if e != nil {
		return nil, ErrInvalidSignature()
	}
	address := publicKey.Address()
	if !address.Equals(x.Transaction.Sender) {
		return nil, ErrInvalidSignature()
	}
	return address, nil
}

// Hash() returns the transaction hash of the enveloped transaction
func (x *SignedTransaction) Hash() ([]byte, ErrorI) {
	if x == nil {
		return nil, ErrNilTransaction()
	}
	return x.Transaction.Hash()
}

// HashString() returns the hex string version of the enveloped transaction hash
func (x *SignedTransaction) HashString() (string, ErrorI) {
	if x == nil {
		return "", ErrNilTransaction()
	}
	return x.Transaction.HashString()
}

type jsonTx struct {
	Sender    HexBytes `json:"sender"`
	Recipient HexBytes `json:"recipient"`
	Value     uint64   `json:"value"`
	Nonce     uint64   `json:"nonce"`
}

// nolint:all
func (x Transaction) MarshalJSON() ([]byte, error) {
	if x.Sender == nil || x.Recipient == nil {
		return nil, ErrInvalidAddress()
	}
	return json.Marshal(jsonTx{
		Sender:    x.Sender.Bytes(),
		Recipient: x.Recipient.Bytes(),
		Value:     x.Value,
		Nonce:     x.Nonce,
	})
}

func (x *Transaction) UnmarshalJSON(b []byte) error {
	var j jsonTx
	if err := json.Unmarshal(b, &j); err != nil {
		return err
	}
	sender, err := crypto.NewAddressFromBytes(j.Sender)
	if err != nil {
		return err
	}
	recipient, err := crypto.NewAddressFromBytes(j.Recipient)
	if err != nil {
		return err
	}
	*x = Transaction{
		Sender:    sender,
		Recipient: recipient,
		Value:     j.Value,
		Nonce:     j.Nonce,
	}
	return nil
}

type jsonSignedTx struct {
	Transaction *Transaction `json:"transaction"`
	Signature   HexBytes     `json:"signature"`
}

// nolint:all
func (x SignedTransaction) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonSignedTx{
		Transaction: x.Transaction,
		Signature:   x.Signature,
	})
}

func (x *SignedTransaction) UnmarshalJSON(b []byte) error {
	var j jsonSignedTx
	if err := json.Unmarshal(b, &j); err != nil {
		return err
	}
	*x = SignedTransaction{
		Transaction: j.Transaction,
		Signature:   j.Signature,
	}
	return nil
}
