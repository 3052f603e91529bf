package config

import (
	"os"
	"os/user"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/rifflock/lfshook"
	"github.com/sirupsen/logrus"
	"github.com/willco-1/cuprate/src/common"
	"github.com/willco-1/cuprate/src/peerstore"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"
)

// Default filenames.
const (
	// DefaultPeerStoreFile is the default name of the file holding the
	// address book state, relative to the data directory.
	DefaultPeerStoreFile = "p2p_state.bin"

	// DefaultSeedFile is the default name of the optional JSON file of peers
	// used to seed the gray list of an empty address book.
	DefaultSeedFile = "seeds.json"
)

// Default configuration values.
const (
	DefaultLogLevel        = "info"
	DefaultSaveInterval    = 90 * time.Second
	DefaultCompress        = false
	DefaultBlockingWorkers = peerstore.DefaultBlockingWorkers
	DefaultSerializeSaves  = true
	DefaultMaxWhiteList    = 1000
	DefaultMaxGrayList     = 5000
)

// Config contains all the configuration properties of the address book.
type Config struct {
	// DataDir is the top-level directory containing configuration and data.
	DataDir string `mapstructure:"datadir"`

	// PeerStoreFile is the file the address book is persisted to. A
	// relative path is resolved against DataDir.
	PeerStoreFile string `mapstructure:"peer-store"`

	// SeedFile is an optional JSON list of peers loaded into the gray list
	// when no peer store exists yet. A relative path is resolved against
	// DataDir.
	SeedFile string `mapstructure:"seeds"`

	// LogLevel determines the chattiness of the log output.
	LogLevel string `mapstructure:"log"`

	// LogFile, when set, receives a JSON copy of every log line.
	LogFile string `mapstructure:"log-file"`

	// SaveInterval is the period of the address book checkpoints. 0 disables
	// them; the state is then only saved on shutdown.
	SaveInterval time.Duration `mapstructure:"save-interval"`

	// Compress enables zstd compression of the peer store.
	Compress bool `mapstructure:"compress"`

	// BlockingWorkers is the number of file operations that can run at the
	// same time.
	BlockingWorkers int `mapstructure:"blocking-workers"`

	// SerializeSaves makes concurrent saves of the peer store wait for each
	// other instead of racing to replace the file.
	SerializeSaves bool `mapstructure:"serialize-saves"`

	// MaxWhiteList and MaxGrayList cap the size of the lists. Extra peers
	// are refused.
	MaxWhiteList int `mapstructure:"max-white"`
	MaxGrayList  int `mapstructure:"max-gray"`

	// Clock is the time source of the address book. Defaults to the wall
	// clock.
	Clock clock.Clock `mapstructure:"-"`

	logger *logrus.Logger
}

// NewDefaultConfig returns a config object with default values.
func NewDefaultConfig() *Config {
	config := &Config{
		DataDir:         DefaultDataDir(),
		PeerStoreFile:   DefaultPeerStoreFile,
		SeedFile:        DefaultSeedFile,
		LogLevel:        DefaultLogLevel,
		SaveInterval:    DefaultSaveInterval,
		Compress:        DefaultCompress,
		BlockingWorkers: DefaultBlockingWorkers,
		SerializeSaves:  DefaultSerializeSaves,
		MaxWhiteList:    DefaultMaxWhiteList,
		MaxGrayList:     DefaultMaxGrayList,
	}

	return config
}

// NewTestConfig returns a config object with default values, a data
// directory in a fresh temporary directory, and a special logger for
// debugging tests.
func NewTestConfig(t testing.TB, level logrus.Level) *Config {
	config := NewDefaultConfig()
	config.DataDir = t.TempDir()
	config.logger = common.NewTestLogger(t, level)
	return config
}

// PeerStorePath returns the full path of the peer store.
func (c *Config) PeerStorePath() string {
	return c.resolve(c.PeerStoreFile)
}

// SeedPath returns the full path of the seed file, or "" when there is none.
func (c *Config) SeedPath() string {
	if c.SeedFile == "" {
		return ""
	}
	return c.resolve(c.SeedFile)
}

func (c *Config) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.DataDir, path)
}

// GetClock returns the configured clock, defaulting to the wall clock.
func (c *Config) GetClock() clock.Clock {
	if c.Clock == nil {
		c.Clock = clock.New()
	}
	return c.Clock
}

// PeerStoreConfig returns the options of the peer store.
func (c *Config) PeerStoreConfig() peerstore.Config {
	return peerstore.Config{
		Path:            c.PeerStorePath(),
		Compress:        c.Compress,
		BlockingWorkers: c.BlockingWorkers,
		SerializeSaves:  c.SerializeSaves,
		Clock:           c.GetClock(),
		Logger:          c.Logger().WithField("prefix", "peerstore"),
	}
}

// Logger returns a formatted logrus Entry, with prefix set to "addrbook".
func (c *Config) Logger() *logrus.Entry {
	if c.logger == nil {
		c.logger = logrus.New()
		c.logger.Level = LogLevel(c.LogLevel)
		c.logger.Formatter = new(prefixed.TextFormatter)

		if c.LogFile != "" {
			paths := lfshook.PathMap{}
			for _, level := range logrus.AllLevels {
				paths[level] = c.LogFile
			}
			c.logger.AddHook(lfshook.NewHook(paths, &logrus.JSONFormatter{}))
		}
	}
	return c.logger.WithField("prefix", "addrbook")
}

// DefaultDataDir return the default directory name for top-level config based
// on the underlying OS, attempting to respect conventions.
func DefaultDataDir() string {
	// Try to place the data folder in the user's home dir
	home := HomeDir()
	if home != "" {
		if runtime.GOOS == "darwin" {
			return filepath.Join(home, "Library", "Peerbook")
		} else if runtime.GOOS == "windows" {
			return filepath.Join(home, "AppData", "Roaming", "Peerbook")
		} else {
			return filepath.Join(home, ".peerbook")
		}
	}
	// As we cannot guess a stable location, return empty and handle later
	return ""
}

// HomeDir returns the user's home directory.
func HomeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	if usr, err := user.Current(); err == nil {
		return usr.HomeDir
	}
	return ""
}

// LogLevel parses a string into a Logrus log level.
func LogLevel(l string) logrus.Level {
	switch l {
	case "debug":
		return logrus.DebugLevel
	case "info":
		return logrus.InfoLevel
	case "warn":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	case "fatal":
		return logrus.FatalLevel
	case "panic":
		return logrus.PanicLevel
	default:
		return logrus.DebugLevel
	}
}
