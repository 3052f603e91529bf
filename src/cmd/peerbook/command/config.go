package command

import (
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/willco-1/cuprate/src/config"
)

//CLIConfig contains the configuration of the peerbook commands
type CLIConfig struct {
	Peerbook config.Config `mapstructure:",squash"`
	JSON     bool          `mapstructure:"json"`
}

//NewDefaultCLIConfig creates a CLIConfig with default values
func NewDefaultCLIConfig() *CLIConfig {
	return &CLIConfig{
		Peerbook: *config.NewDefaultConfig(),
		JSON:     false,
	}
}

//AddStoreFlags adds the flags shared by every command that opens a peer store
func AddStoreFlags(cmd *cobra.Command) {
	cmd.Flags().String("datadir", _config.Peerbook.DataDir, "Top-level directory for configuration and data")
	cmd.Flags().String("peer-store", _config.Peerbook.PeerStoreFile, "Peer store file, relative to datadir")
	cmd.Flags().String("log", _config.Peerbook.LogLevel, "debug, info, warn, error, fatal, panic")
	cmd.Flags().String("log-file", _config.Peerbook.LogFile, "Also write JSON logs to this file")
	cmd.Flags().Bool("compress", _config.Peerbook.Compress, "Compress the peer store when rewriting it")
}

func loadConfig(cmd *cobra.Command, args []string) error {

	err := bindFlagsLoadViper(cmd)
	if err != nil {
		return err
	}

	_config.Peerbook.Logger().WithFields(logrus.Fields{
		"peerbook.DataDir":       _config.Peerbook.DataDir,
		"peerbook.PeerStoreFile": _config.Peerbook.PeerStoreFile,
		"peerbook.LogLevel":      _config.Peerbook.LogLevel,
		"peerbook.Compress":      _config.Peerbook.Compress,
		"JSON":                   _config.JSON,
	}).Debug(cmd.Name())

	return nil
}

// Bind all flags and read the config into viper
func bindFlagsLoadViper(cmd *cobra.Command) error {
	// Register flags with viper. Include flags from this command and all other
	// persistent flags from the parent
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	// first unmarshal to read from CLI flags
	if err := viper.Unmarshal(_config); err != nil {
		return err
	}

	// look for config file in [datadir]/peerbook.toml (.json, .yaml also work)
	viper.SetConfigName("peerbook")
	viper.AddConfigPath(_config.Peerbook.DataDir)

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		_config.Peerbook.Logger().Debugf("Using config file: %s", viper.ConfigFileUsed())
	} else if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		_config.Peerbook.Logger().Debugf("No config file found in: %s", _config.Peerbook.DataDir)
	} else {
		return err
	}

	// second unmarshal to read from config file
	return viper.Unmarshal(_config)
}

// setPeerStore makes path, relative to the working directory, the peer store
// of the command.
func setPeerStore(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	_config.Peerbook.PeerStoreFile = abs
	return nil
}
