package rpc

import (
	"context"
	"testing"

	"github.com/arbor-network/arbor-wallet/lib"
	"github.com/arbor-network/arbor-wallet/lib/crypto"
	"github.com/stretchr/testify/require"
)

// newTestNode boots the verification-only dev node on an ephemeral port and returns a
// client pointed at it
func newTestNode(t *testing.T) (*Server, *Client) {
	config := lib.DefaultConfig()
	config.ListenAddress = "localhost:0"
	server := NewServer(config, lib.NewNullLogger())
	require.NoError(t, server.Listen())
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go func() { _ = server.Serve(ctx) }()
	clientConfig := lib.DefaultRPCConfig()
	clientConfig.NodeURL = "http://" + server.Addr()
	return server, NewClient(clientConfig, lib.NewNullLogger())
}

// newTestEnvelope returns a freshly signed transfer between two new keys
func newTestEnvelope(t *testing.T) *lib.SignedTransaction {
	sender, err := crypto.NewSECP256K1PrivateKey()
	require.NoError(t, err)
	recipient, err := crypto.NewSECP256K1PrivateKey()
	require.NoError(t, err)
	stx, e := lib.NewSendTransaction(sender, recipient.PublicKey().Address(), 100, 1)
	require.NoError(t, e)
	return stx
}

func TestClientVersion(t *testing.T) {
	_, client := newTestNode(t)
	// execute the function call
	version, err := client.Version()
	require.NoError(t, err)
	// compare got vs expected
	require.Equal(t, SoftwareVersion, *version)
}

func TestSubmitTransaction(t *testing.T) {
	_, client := newTestNode(t)
	stx := newTestEnvelope(t)
	// execute the function call
	result, err := client.SubmitTransaction(stx)
	require.NoError(t, err)
	// the acknowledged hash matches the locally computed one
	expected, e := stx.Hash()
	require.NoError(t, e)
	require.Equal(t, lib.HexBytes(expected), result.TxHash)
}

func TestSubmitTransactionLocalGate(t *testing.T) {
	_, client := newTestNode(t)
	stx := newTestEnvelope(t)
	// corrupt the envelope after signing
	stx.Transaction.Value++
	// the wallet refuses to transmit a payload it cannot verify itself
	_, err := client.SubmitTransaction(stx)
	require.Error(t, err)
	require.Equal(t, lib.CodeInvalidSignature, err.Code())
}

func TestSubmitTransactionUnreachableNode(t *testing.T) {
	// point the client at a port nothing listens on
	config := lib.DefaultRPCConfig()
	config.NodeURL = "http://localhost:1"
	config.TimeoutS = 1
	config.SubmitRetries = 1
	client := NewClient(config, lib.NewNullLogger())
	// the transport failure surfaces after the retries are exhausted
	_, err := client.SubmitTransaction(newTestEnvelope(t))
	require.Error(t, err)
	require.Equal(t, lib.CodePostRequest, err.Code())
}
