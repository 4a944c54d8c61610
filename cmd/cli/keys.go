package cli

import (
	"sort"

	"github.com/arbor-network/arbor-wallet/lib"
	"github.com/arbor-network/arbor-wallet/lib/crypto"
	"github.com/spf13/cobra"
)

var storeKey bool

func init() {
	newCmd.PersistentFlags().BoolVar(&storeKey, "store", false, "encrypt the new key into the keystore instead of printing it")
	publicCmd.PersistentFlags().StringVar(&privateKey, "private-key", "", "hex private key to derive from")
	publicCmd.PersistentFlags().StringVar(&privateKeyFile, "private-key-file", "", "path to a file holding the hex private key")
	keysCmd.AddCommand(keysNewCmd)
	keysCmd.AddCommand(keysImportCmd)
	keysCmd.AddCommand(keysImportRawCmd)
	keysCmd.AddCommand(keysExportCmd)
	keysCmd.AddCommand(keysListCmd)
	keysCmd.AddCommand(keysDeleteCmd)
}

// keyOutput is the console form of a derived wallet identity
type keyOutput struct {
	PublicKey lib.HexBytes `json:"publicKey"`
	Address   lib.HexBytes `json:"address"`
}

// keyListEntry is one keystore row in `keys list` output
type keyListEntry struct {
	Address   string `json:"address"`
	Nickname  string `json:"nickname,omitempty"`
	PublicKey string `json:"publicKey"`
}

var (
	newCmd = &cobra.Command{
		Use:   "new",
		Short: "generate a new keypair and print it, or store it encrypted with --store",
		Run: func(cmd *cobra.Command, args []string) {
			if storeKey {
				writeToConsole(storeNewKey(), nil)
				return
			}
			pk, err := crypto.NewSECP256K1PrivateKey()
			if err != nil {
				l.Fatal(lib.ErrReadEntropy(err).Error())
			}
			writeToConsole(crypto.NewKeyGroup(pk), nil)
		},
	}

	publicCmd = &cobra.Command{
		Use:   "public --private-key-file <path>",
		Short: "derive the public key and address for a private key",
		Run: func(cmd *cobra.Command, args []string) {
			pub := getPrivateKey().PublicKey()
			writeToConsole(keyOutput{PublicKey: pub.Bytes(), Address: pub.Address().Bytes()}, nil)
		},
	}

	keysCmd = &cobra.Command{
		Use:   "keys",
		Short: "manage the local encrypted keystore",
	}

	keysNewCmd = &cobra.Command{
		Use:   "new",
		Short: "generate a new key directly into the keystore",
		Run: func(cmd *cobra.Command, args []string) {
			writeToConsole(storeNewKey(), nil)
		},
	}

	keysImportCmd = &cobra.Command{
		Use:   "import <encrypted-pk-json>",
		Short: "add an already encrypted private key to the keystore",
		Args:  cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			ptr := new(crypto.EncryptedPrivateKey)
			if err := lib.UnmarshalJSON([]byte(args[0]), ptr); err != nil {
				l.Fatal(err.Error())
			}
			if _, err := crypto.NewPublicKeyFromString(ptr.PublicKey); err != nil {
				l.Fatal(lib.ErrInvalidPublicKey(err).Error())
			}
			ks := openKeystore()
			address, err := ks.Import(ptr, crypto.ImportOpts{Nickname: nick})
			if err != nil {
				l.Fatal(lib.ErrKeystore(err).Error())
			}
			saveKeystore(ks)
			writeToConsole(address, nil)
		},
	}

	keysImportRawCmd = &cobra.Command{
		Use:   "import-raw <private-key>",
		Short: "encrypt a raw hex private key into the keystore",
		Args:  cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			pk, err := crypto.NewPrivateKeyFromString(args[0])
			if err != nil {
				l.Fatal(lib.ErrInvalidPrivateKey(err).Error())
			}
			ks := openKeystore()
			address, e := ks.ImportRaw(pk.Bytes(), crypto.ImportRawOpts{Nickname: getNickname(), Password: getPassword()})
			if e != nil {
				l.Fatal(lib.ErrKeystore(e).Error())
			}
			saveKeystore(ks)
			writeToConsole(address, nil)
		},
	}

	keysExportCmd = &cobra.Command{
		Use:   "export <address or nickname>",
		Short: "decrypt and print the key group for the address or nickname",
		Args:  cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			ks := openKeystore()
			kg, err := ks.GetKeyGroup(getPassword(), argGetOpts(args[0]))
			if err != nil {
				l.Fatal(lib.ErrKeystore(err).Error())
			}
			writeToConsole(kg, nil)
		},
	}

	keysListCmd = &cobra.Command{
		Use:   "list",
		Short: "list the addresses and nicknames in the keystore",
		Run: func(cmd *cobra.Command, args []string) {
			ks := openKeystore()
			entries := make([]keyListEntry, 0, len(ks.ByAddress))
			for address, v := range ks.ByAddress {
				entries = append(entries, keyListEntry{Address: address, Nickname: v.Nickname, PublicKey: v.PublicKey})
			}
			sort.Slice(entries, func(i, j int) bool { return entries[i].Address < entries[j].Address })
			writeToConsole(entries, nil)
		},
	}

	keysDeleteCmd = &cobra.Command{
		Use:   "delete <address or nickname>",
		Short: "delete the key associated with the address or nickname from the keystore",
		Args:  cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			ks := openKeystore()
			ks.DeleteKey(argGetOpts(args[0]))
			saveKeystore(ks)
			writeToConsole(args[0], nil)
		},
	}
)

// storeNewKey() generates a key, encrypts it into the keystore, and returns the address
func storeNewKey() string {
	pk, err := crypto.NewSECP256K1PrivateKey()
	if err != nil {
		l.Fatal(lib.ErrReadEntropy(err).Error())
	}
	ks := openKeystore()
	address, e := ks.ImportRaw(pk.Bytes(), crypto.ImportRawOpts{Nickname: getNickname(), Password: getPassword()})
	if e != nil {
		l.Fatal(lib.ErrKeystore(e).Error())
	}
	saveKeystore(ks)
	l.Infof("Stored new encrypted key %s in the keystore", address)
	return address
}

// getPrivateKey() resolves the signing key: raw hex flag, key file, or the keystore
func getPrivateKey() crypto.PrivateKeyI {
	switch {
	case privateKey != "":
		pk, err := crypto.NewPrivateKeyFromString(privateKey)
		if err != nil {
			l.Fatal(lib.ErrInvalidPrivateKey(err).Error())
		}
		return pk
	case privateKeyFile != "":
		pk, err := crypto.NewPrivateKeyFromFile(privateKeyFile)
		if err != nil {
			l.Fatal(lib.ErrInvalidPrivateKey(err).Error())
		}
		return pk
	case nick != "":
		ks := openKeystore()
		pk, err := ks.GetKey(getPassword(), crypto.GetOpts{Nickname: nick})
		if err != nil {
			l.Fatal(lib.ErrKeystore(err).Error())
		}
		return pk
	default:
		l.Fatal("a signing key is required: use --private-key, --private-key-file or --nickname")
	}
	return nil
}

func argGetOpts(arg string) crypto.GetOpts {
	bz, err := lib.StringToBytes(arg)
	if err != nil || len(bz) != crypto.AddressSize {
		return crypto.GetOpts{Nickname: arg}
	}
	return crypto.GetOpts{Address: bz}
}

func openKeystore() *crypto.Keystore {
	ks, err := crypto.NewKeystoreFromFile(config.DataDirPath)
	if err != nil {
		l.Fatal(lib.ErrKeystore(err).Error())
	}
	return ks
}

func saveKeystore(ks *crypto.Keystore) {
	if err := ks.SaveToFile(config.DataDirPath); err != nil {
		l.Fatal(lib.ErrKeystore(err).Error())
	}
}
