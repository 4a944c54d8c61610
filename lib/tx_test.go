package lib

import (
	"bytes"
	"encoding/binary"
	"strings"
	"testing"

	"github.com/arbor-network/arbor-wallet/lib/crypto"
	"github.com/nsf/jsondiff"
	"github.com/stretchr/testify/require"
)

func newTestKeyGroup(t *testing.T) *crypto.KeyGroup {
	private, err := crypto.NewSECP256K1PrivateKey()
	require.NoError(t, err)
	return crypto.NewKeyGroup(private)
}

func newTestAddress(t *testing.T, b byte) crypto.AddressI {
	address, err := crypto.NewAddressFromBytes(bytes.Repeat([]byte{b}, crypto.AddressSize))
	require.NoError(t, err)
	return address
}

func TestNewTransaction(t *testing.T) {
	sender, recipient := newTestAddress(t, 0x01), newTestAddress(t, 0x02)
	tests := []struct {
		name      string
		sender    crypto.AddressI
		recipient crypto.AddressI
		value     uint64
		nonce     uint64
		error     string
	}{
		{
			name:   "nil sender",
			sender: nil, recipient: recipient,
			error: "address is invalid",
		},
		{
			name:   "nil recipient",
			sender: sender, recipient: nil,
			error: "address is invalid",
		},
		{
			name:   "zero value and zero nonce are well formed",
			sender: sender, recipient: recipient,
		},
		{
			name:   "self transfer is well formed",
			sender: sender, recipient: sender,
			value: 100, nonce: 1,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			// execute the function call
			got, e := NewTransaction(test.sender, test.recipient, test.value, test.nonce)
			// check if an error is expected or not
			require.Equal(t, test.error != "", e != nil)
			// check the error
			if e != nil {
				require.ErrorContains(t, e, test.error)
				return
			}
			// validate the fields were set
			require.True(t, got.Sender.Equals(test.sender))
			require.True(t, got.Recipient.Equals(test.recipient))
			require.Equal(t, test.value, got.Value)
			require.Equal(t, test.nonce, got.Nonce)
		})
	}
}

func TestTransactionSignBytes(t *testing.T) {
	sender, recipient := newTestAddress(t, 0x01), newTestAddress(t, 0x02)
	tx, e := NewTransaction(sender, recipient, 300, 7)
	require.NoError(t, e)
	// execute the function call
	bz, e := tx.SignBytes()
	require.NoError(t, e)
	// the canonical encoding is fixed size with a leading version byte
	require.Len(t, bz, TxSignBytesSize)
	require.Equal(t, TxEncodingVersion, bz[0])
	// field layout is version || sender || recipient || value || nonce
	require.Equal(t, sender.Bytes(), bz[1:1+crypto.AddressSize])
	require.Equal(t, recipient.Bytes(), bz[1+crypto.AddressSize:1+2*crypto.AddressSize])
	// the numeric fields are 32 byte big endian words
	value, nonce := bz[41:73], bz[73:105]
	require.Equal(t, make([]byte, 24), value[:24])
	require.Equal(t, uint64(300), binary.BigEndian.Uint64(value[24:]))
	require.Equal(t, make([]byte, 24), nonce[:24])
	require.Equal(t, uint64(7), binary.BigEndian.Uint64(nonce[24:]))
	// the encoding is deterministic
	again, e := tx.SignBytes()
	require.NoError(t, e)
	require.Equal(t, bz, again)
	// any changed field produces a different encoding
	tests := []struct {
		name string
		tx   *Transaction
	}{
		{
			name: "changed sender",
			tx:   &Transaction{Sender: recipient, Recipient: recipient, Value: 300, Nonce: 7},
		},
		{
			name: "changed recipient",
			tx:   &Transaction{Sender: sender, Recipient: sender, Value: 300, Nonce: 7},
		},
		{
			name: "changed value",
			tx:   &Transaction{Sender: sender, Recipient: recipient, Value: 301, Nonce: 7},
		},
		{
			name: "changed nonce",
			tx:   &Transaction{Sender: sender, Recipient: recipient, Value: 300, Nonce: 8},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			other, e := test.tx.SignBytes()
			require.NoError(t, e)
			require.NotEqual(t, bz, other)
		})
	}
	// a nil transaction cannot be encoded
	_, e = (*Transaction)(nil).SignBytes()
	require.ErrorContains(t, e, "transaction is nil")
	// a transaction missing an address cannot be encoded
	_, e = (&Transaction{Sender: sender}).SignBytes()
	require.ErrorContains(t, e, "address is invalid")
}

func TestTransactionHash(t *testing.T) {
	tx, e := NewTransaction(newTestAddress(t, 0x01), newTestAddress(t, 0x02), 100, 1)
	require.NoError(t, e)
	// the hash is the keccak256 of the canonical encoding
	bz, e := tx.SignBytes()
	require.NoError(t, e)
	hash, e := tx.Hash()
	require.NoError(t, e)
	require.Equal(t, crypto.Hash(bz), hash)
	// the string form is the hex encoding of the hash
	hashString, e := tx.HashString()
	require.NoError(t, e)
	require.Equal(t, BytesToString(hash), hashString)
}

func TestTransactionCopy(t *testing.T) {
	tx, e := NewTransaction(newTestAddress(t, 0x01), newTestAddress(t, 0x02), 100, 1)
	require.NoError(t, e)
	clone := tx.Copy()
	// the clone encodes identically
	expected, e := tx.SignBytes()
	require.NoError(t, e)
	got, e := clone.SignBytes()
	require.NoError(t, e)
	require.Equal(t, expected, got)
	// mutating the clone leaves the original untouched
	clone.Value, clone.Nonce = 999, 999
	unchanged, e := tx.SignBytes()
	require.NoError(t, e)
	require.Equal(t, expected, unchanged)
}

func TestSignAndVerify(t *testing.T) {
	sender, recipient := newTestKeyGroup(t), newTestKeyGroup(t)
	tx, e := NewTransaction(sender.Address, recipient.Address, 100, 1)
	require.NoError(t, e)
	// execute the function call
	stx, e := tx.Sign(sender.PrivateKey)
	require.NoError(t, e)
	require.Len(t, []byte(stx.Signature), crypto.SECP256K1SignatureSize)
	// the envelope hash equals the transaction hash
	expectedHash, e := tx.Hash()
	require.NoError(t, e)
	gotHash, e := stx.Hash()
	require.NoError(t, e)
	require.Equal(t, expectedHash, gotHash)
	// verification recovers the sender address from the signature alone
	recovered, e := stx.Verify()
	require.NoError(t, e)
	require.True(t, recovered.Equals(sender.Address))
}

func TestSignSenderKeyMismatch(t *testing.T) {
	sender, other := newTestKeyGroup(t), newTestKeyGroup(t)
	// the transaction claims the first key's address as the sender
	tx, e := NewTransaction(sender.Address, other.Address, 100, 1)
	require.NoError(t, e)
	// any other key must be refused; the claimed sender is never coerced
	stx, e := tx.Sign(other.PrivateKey)
	require.Nil(t, stx)
	require.ErrorContains(t, e, "does not match signing key address")
	// the right key still works
	stx, e = tx.Sign(sender.PrivateKey)
	require.NoError(t, e)
	_, e = stx.Verify()
	require.NoError(t, e)
}

func TestVerifyTamperedEnvelope(t *testing.T) {
	sender, recipient, outsider := newTestKeyGroup(t), newTestKeyGroup(t), newTestKeyGroup(t)
	tx, e := NewTransaction(sender.Address, recipient.Address, 100, 1)
	require.NoError(t, e)
	tests := []struct {
		name   string
		mutate func(stx *SignedTransaction)
	}{
		{
			name:   "changed sender",
			mutate: func(stx *SignedTransaction) { stx.Transaction.Sender = outsider.Address },
		},
		{
			name:   "changed recipient",
			mutate: func(stx *SignedTransaction) { stx.Transaction.Recipient = outsider.Address },
		},
		{
			name:   "changed value",
			mutate: func(stx *SignedTransaction) { stx.Transaction.Value++ },
		},
		{
			name:   "changed nonce",
			mutate: func(stx *SignedTransaction) { stx.Transaction.Nonce++ },
		},
		{
			name:   "flipped signature bit",
			mutate: func(stx *SignedTransaction) { stx.Signature[10] ^= 0x01 },
		},
		{
			name:   "truncated signature",
			mutate: func(stx *SignedTransaction) { stx.Signature = stx.Signature[:10] },
		},
		{
			name:   "signature from another key",
			mutate: func(stx *SignedTransaction) { stx.Signature = outsider.PrivateKey.Sign([]byte("unrelated")) },
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			// sign a fresh envelope, then corrupt one field of it
			stx, e := tx.Sign(sender.PrivateKey)
			require.NoError(t, e)
			test.mutate(stx)
			// verification recomputes the encoding from the fields, so the corruption is always caught
			_, e = stx.Verify()
			require.ErrorContains(t, e, "signature is invalid")
		})
	}
	// nil envelopes are rejected outright
	_, e = (*SignedTransaction)(nil).Verify()
	require.ErrorContains(t, e, "transaction is nil")
	_, e = (&SignedTransaction{}).Verify()
	require.ErrorContains(t, e, "transaction is nil")
}

func TestNewSendTransaction(t *testing.T) {
	sender, recipient := newTestKeyGroup(t), newTestKeyGroup(t)
	// build and sign in a single call; the sender is taken from the key
	stx, e := NewSendTransaction(sender.PrivateKey, recipient.Address, 100, 1)
	require.NoError(t, e)
	require.True(t, stx.Transaction.Sender.Equals(sender.Address))
	recovered, e := stx.Verify()
	require.NoError(t, e)
	require.True(t, recovered.Equals(sender.Address))
	// a zero value self transfer with a zero nonce verifies too
	stx, e = NewSendTransaction(sender.PrivateKey, sender.Address, 0, 0)
	require.NoError(t, e)
	recovered, e = stx.Verify()
	require.NoError(t, e)
	require.True(t, recovered.Equals(sender.Address))
}

func TestTransactionJSON(t *testing.T) {
	sender, recipient := newTestAddress(t, 0x01), newTestAddress(t, 0x02)
	tx, e := NewTransaction(sender, recipient, 300, 7)
	require.NoError(t, e)
	stx := &SignedTransaction{Transaction: tx, Signature: HexBytes{0xde, 0xad, 0xbe, 0xef}}
	// execute the function call
	bz, e := MarshalJSON(stx)
	require.NoError(t, e)
	// compare against the expected wire form, ignoring key order and whitespace
	expected := `{
		"transaction": {
			"sender": "` + strings.Repeat("01", crypto.AddressSize) + `",
			"recipient": "` + strings.Repeat("02", crypto.AddressSize) + `",
			"value": 300,
			"nonce": 7
		},
		"signature": "deadbeef"
	}`
	opts := jsondiff.DefaultConsoleOptions()
	match, diff := jsondiff.Compare([]byte(expected), bz, &opts)
	require.Equal(t, jsondiff.FullMatch, match, diff)
	// the envelope round trips
	unmarshalled := new(SignedTransaction)
	require.NoError(t, UnmarshalJSON(bz, unmarshalled))
	expectedBz, e := stx.Transaction.SignBytes()
	require.NoError(t, e)
	gotBz, e := unmarshalled.Transaction.SignBytes()
	require.NoError(t, e)
	require.Equal(t, expectedBz, gotBz)
	require.Equal(t, stx.Signature, unmarshalled.Signature)
	// a malformed sender address fails to unmarshal
	e = UnmarshalJSON([]byte(`{"transaction":{"sender":"abcd","recipient":"`+strings.Repeat("02", crypto.AddressSize)+`","value":1,"nonce":1}}`), new(SignedTransaction))
	require.ErrorContains(t, e, "wrong address size")
}
