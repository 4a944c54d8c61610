package lib

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
)

/* This file implements logic for 'user controlled' global configurations of each module of the wallet */

const (
	// FILE NAMES in the 'data directory'
	ConfigFilePath = "config.json" // the file path for the wallet configuration
)

// Config is the structure of the user configuration options for the wallet
type Config struct {
	MainConfig    // main options spanning over all modules
	RPCConfig     // node rpc options
	DevNodeConfig // local development node options
}

// DefaultConfig() returns a Config with developer set options
func DefaultConfig() Config {
	return Config{
		MainConfig:    DefaultMainConfig(),
		RPCConfig:     DefaultRPCConfig(),
		DevNodeConfig: DefaultDevNodeConfig(),
	}
}

// MAIN CONFIG BELOW

type MainConfig struct {
	LogLevel    string `json:"logLevel"`    // any level includes the levels above it: debug < info < warning < error
	DataDirPath string `json:"dataDirPath"` // path of the designated folder where the wallet stores its config and keystore
}

// DefaultMainConfig() sets log level to 'info' and the data directory to its default path
func DefaultMainConfig() MainConfig {
	return MainConfig{
		LogLevel:    "info", // everything but debug is the default
		DataDirPath: DefaultDataDirPath(),
	}
}

// GetLogLevel() parses the log string in the config file into a LogLevel Enum
func (m *MainConfig) GetLogLevel() int32 {
	switch {
	case strings.Contains(strings.ToLower(m.LogLevel), "deb"):
		return DebugLevel
	case strings.Contains(strings.ToLower(m.LogLevel), "inf"):
		return InfoLevel
	case strings.Contains(strings.ToLower(m.LogLevel), "war"):
		return WarnLevel
	case strings.Contains(strings.ToLower(m.LogLevel), "err"):
		return ErrorLevel
	default:
		return DebugLevel
	}
}

// RPC CONFIG BELOW

type RPCConfig struct {
	NodeURL       string `json:"nodeURL"`       // the url where the rollup node rpc is hosted
	TimeoutS      int    `json:"timeoutS"`      // the rpc request timeout in seconds
	SubmitRetries uint64 `json:"submitRetries"` // transport-level retry attempts before giving up on a submission
}

// DefaultRPCConfig() points the wallet at a local rollup node
func DefaultRPCConfig() RPCConfig {
	return RPCConfig{
		NodeURL:       "http://localhost:38171", // use a local node by default
		TimeoutS:      3,                        // the rpc timeout is 3 seconds
		SubmitRetries: 3,                        // retry transport failures up to 3 times with exponential backoff
	}
}

// DEV NODE CONFIG BELOW

// DevNodeConfig is the user configuration of the local verification-only development node
type DevNodeConfig struct {
	ListenAddress      string `json:"listenAddress"`      // listen for incoming submissions
	MaxOpenConnections int    `json:"maxOpenConnections"` // cap on simultaneous connections
}

// DefaultDevNodeConfig() listens where DefaultRPCConfig() submits
func DefaultDevNodeConfig() DevNodeConfig {
	return DevNodeConfig{
		ListenAddress:      "localhost:38171",
		MaxOpenConnections: 50,
	}
}

// DefaultDataDirPath() is $USERHOME/.arbor-wallet
func DefaultDataDirPath() string {
	// get the user home
	home, err := os.UserHomeDir()
	// if unable to get the user home
	if err != nil {
		// fatal error
		panic(err)
	}
	// exit with full default data directory path
	return filepath.Join(home, ".arbor-wallet")
}

// WriteToFile() saves the Config object to a JSON file
func (c Config) WriteToFile(filepath string) error {
	// convert the config to indented 'pretty' json bytes
	jsonBytes, err := json.MarshalIndent(c, "", "  ")
	// if an error occurred during the conversion
	if err != nil {
		// exit with error
		return ErrJSONMarshal(err)
	}
	// write the config.json file to the data directory
	if err = os.WriteFile(filepath, jsonBytes, os.ModePerm); err != nil {
		// exit with error
		return ErrWriteFile(err)
	}
	// exit
	return nil
}

// NewConfigFromFile() populates a Config object from a JSON file
func NewConfigFromFile(filepath string) (Config, error) {
	// read the file into bytes using
	fileBytes, err := os.ReadFile(filepath)
	// if an error occurred
	if err != nil {
		// exit with error
		return Config{}, ErrReadFile(err)
	}
	// define the default config to fill in any blanks in the file
	c := DefaultConfig()
	// populate the default config with the file bytes
	if err = json.Unmarshal(fileBytes, &c); err != nil {
		// exit with error
		return Config{}, ErrJSONUnmarshal(err)
	}
	// exit
	return c, nil
}
