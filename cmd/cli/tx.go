package cli

import (
	"strconv"

	"github.com/arbor-network/arbor-wallet/lib"
	"github.com/arbor-network/arbor-wallet/lib/crypto"
	"github.com/spf13/cobra"
)

var (
	sender    string
	recipient string
	value     string
	nonce     string
	signature string
)

func init() {
	signCmd.PersistentFlags().StringVar(&privateKey, "private-key", "", "hex private key used to sign (prefer --private-key-file or --nickname)")
	signCmd.PersistentFlags().StringVar(&privateKeyFile, "private-key-file", "", "path to a file holding the hex private key")
	signCmd.PersistentFlags().StringVar(&sender, "sender", "", "address the funds move from; must match the signing key")
	signCmd.PersistentFlags().StringVar(&recipient, "to", "", "address the funds move to")
	signCmd.PersistentFlags().StringVar(&value, "value", "", "amount to transfer in the smallest denomination")
	signCmd.PersistentFlags().StringVar(&nonce, "nonce", "", "sender transaction count; ordering is enforced by the node, not the wallet")
	sendCmd.PersistentFlags().StringVar(&privateKey, "private-key", "", "hex private key used to sign (prefer --private-key-file or --nickname)")
	sendCmd.PersistentFlags().StringVar(&privateKeyFile, "private-key-file", "", "path to a file holding the hex private key")
	sendCmd.PersistentFlags().StringVar(&sender, "sender", "", "address the funds move from; must match the signing key")
	sendCmd.PersistentFlags().StringVar(&recipient, "to", "", "address the funds move to")
	sendCmd.PersistentFlags().StringVar(&value, "value", "", "amount to transfer in the smallest denomination")
	sendCmd.PersistentFlags().StringVar(&nonce, "nonce", "", "sender transaction count; ordering is enforced by the node, not the wallet")
	sendCmd.PersistentFlags().StringVar(&signature, "signature", "", "attach a pre-computed hex signature instead of signing")
}

var (
	signCmd = &cobra.Command{
		Use:     "sign --sender <address> --to <address> --value <amount> --nonce <nonce>",
		Short:   "sign a transfer and print the signed envelope without submitting it",
		Example: "sign --nickname alice --sender dfd3c8dff19da7682f7fe5fde062c813b55c9eee --to eed6c9dff19da7682f7fe5fde062c813b42c7abc --value 10000 --nonce 1",
		Run: func(cmd *cobra.Command, args []string) {
			writeToConsole(newTx().Sign(getPrivateKey()))
		},
	}

	sendCmd = &cobra.Command{
		Use:     "send --sender <address> --to <address> --value <amount> --nonce <nonce>",
		Short:   "sign a transfer and submit it to the node",
		Example: "send --private-key-file key.txt --sender dfd3c8dff19da7682f7fe5fde062c813b55c9eee --to eed6c9dff19da7682f7fe5fde062c813b42c7abc --value 10000 --nonce 1",
		Run: func(cmd *cobra.Command, args []string) {
			writeToConsole(client.SubmitTransaction(newSignedTx()))
		},
	}
)

// newTx() builds the canonical transaction from the command flags
func newTx() *lib.Transaction {
	tx, err := lib.NewTransaction(argGetAddr(sender), argGetAddr(recipient), argToValue(value), argToNonce(nonce))
	if err != nil {
		l.Fatal(err.Error())
	}
	return tx
}

// newSignedTx() wraps the transaction in a signed envelope, either by signing with the
// resolved key or by attaching the signature given on the command line
func newSignedTx() *lib.SignedTransaction {
	tx := newTx()
	if signature != "" {
		sig, err := lib.NewHexBytesFromString(signature)
		if err != nil {
			l.Fatal(err.Error())
		}
		return &lib.SignedTransaction{Transaction: tx, Signature: sig}
	}
	stx, err := tx.Sign(getPrivateKey())
	if err != nil {
		l.Fatal(err.Error())
	}
	return stx
}

func argGetAddr(arg string) crypto.AddressI {
	addr, err := crypto.NewAddressFromString(arg)
	if err != nil {
		l.Fatalf("%s isn't a 20 byte hex address: %s", arg, err.Error())
	}
	return addr
}

func argToValue(arg string) uint64 {
	amount, err := strconv.ParseUint(arg, 10, 64)
	if err != nil {
		l.Fatal(lib.ErrInvalidAmount(arg).Error())
	}
	return amount
}

func argToNonce(arg string) uint64 {
	n, err := strconv.ParseUint(arg, 10, 64)
	if err != nil {
		l.Fatal(lib.ErrInvalidNonce(arg).Error())
	}
	return n
}
