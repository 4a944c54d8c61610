package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/arbor-network/arbor-wallet/cmd/rpc"
	"github.com/arbor-network/arbor-wallet/lib"
	"github.com/spf13/cobra"
	"golang.org/x/term"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var rootCmd = &cobra.Command{
	Use:   "arbor-wallet",
	Short: "command line wallet for the arbor rollup network",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		initialize()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(rpc.SoftwareVersion)
	},
}

var (
	client, config, l = &rpc.Client{}, lib.Config{}, lib.LoggerI(nil)
	DataDir           = ""
)

var (
	pwd            string
	nick           string
	nodeURL        string
	privateKey     string
	privateKeyFile string
	listenAddress  string
)

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(newCmd)
	rootCmd.AddCommand(publicCmd)
	rootCmd.AddCommand(signCmd)
	rootCmd.AddCommand(sendCmd)
	rootCmd.AddCommand(keysCmd)
	rootCmd.AddCommand(devNodeCmd)
	rootCmd.PersistentFlags().StringVar(&DataDir, "data-dir", lib.DefaultDataDirPath(), "custom data directory location")
	rootCmd.PersistentFlags().StringVar(&nodeURL, "node-url", "", "override the configured node rpc url")
	rootCmd.PersistentFlags().StringVar(&pwd, "password", "", "input a private key password (not recommended)")
	rootCmd.PersistentFlags().StringVar(&nick, "nickname", "", "input nickname for key")
	devNodeCmd.PersistentFlags().StringVar(&listenAddress, "listen", "", "address to listen for submissions on")
}

// initialize() loads the configuration and wires the logger and node client; runs after
// flag parsing so --data-dir and --node-url are honored
func initialize() {
	config = InitializeDataDirectory(DataDir, lib.NewDefaultLogger())
	if nodeURL != "" {
		config.NodeURL = nodeURL
	}
	l = lib.NewLogger(lib.LoggerConfig{
		Level: config.GetLogLevel(),
	}, config.DataDirPath)
	client = rpc.NewClient(config.RPCConfig, l)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

var devNodeCmd = &cobra.Command{
	Use:   "devnode --listen=localhost:38171",
	Short: "run a local verification-only node to develop against",
	Run: func(cmd *cobra.Command, args []string) {
		if listenAddress != "" {
			config.ListenAddress = listenAddress
		}
		server := rpc.NewServer(config, l)
		ctx, cancel := context.WithCancel(context.Background())
		go func() {
			waitForKill()
			cancel()
		}()
		if err := server.Serve(ctx); err != nil {
			l.Fatal(err.Error())
		}
	},
}

// waitForKill() blocks until a kill signal is received
func waitForKill() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGQUIT, syscall.SIGTERM, syscall.SIGABRT)
	// block until kill signal is received
	s := <-stop
	l.Infof("Exit command %s received", s)
}

// InitializeDataDirectory() populates the data directory with configuration files if missing
func InitializeDataDirectory(dataDirPath string, log lib.LoggerI) (c lib.Config) {
	// make the data dir if missing
	if err := os.MkdirAll(dataDirPath, os.ModePerm); err != nil {
		log.Fatal(err.Error())
	}
	// make the config.json file if missing
	configFilePath := filepath.Join(dataDirPath, lib.ConfigFilePath)
	if _, err := os.Stat(configFilePath); errors.Is(err, os.ErrNotExist) {
		log.Infof("Creating %s file", lib.ConfigFilePath)
		if err = lib.DefaultConfig().WriteToFile(configFilePath); err != nil {
			log.Fatal(err.Error())
		}
	}
	// load the config object
	c, err := lib.NewConfigFromFile(configFilePath)
	if err != nil {
		log.Fatal(err.Error())
	}
	// set the data-directory
	c.DataDirPath = dataDirPath
	return
}

func writeToConsole(a any, err error) {
	if err != nil {
		l.Fatal(err.Error())
	}
	switch v := a.(type) {
	case int, uint32, uint64:
		p := message.NewPrinter(language.English)
		if _, err := p.Printf("%d\n", v); err != nil {
			l.Fatal(err.Error())
		}
	case string:
		fmt.Println(v)
	case *string:
		fmt.Println(*v)
	default:
		s, err := lib.MarshalJSONIndentString(a)
		if err != nil {
			l.Fatal(err.Error())
		}
		fmt.Println(s)
	}
}

func getNickname() string {
	if nick == "" {
		fmt.Println("Enter nickname:")
		_, err := fmt.Scanln(&nick)
		if err != nil {
			fmt.Println("Error reading input:", err)
			return ""
		}
	}
	return nick
}

func getPassword() string {
	if pwd == "" {
		fmt.Println("Enter password:")
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err != nil {
			l.Fatal(err.Error())
		}
		if len(password) == 0 {
			fmt.Println("Password cannot be empty")
			return getPassword()
		}
		return string(password)
	}
	return pwd
}
