package config

import (
	"io/ioutil"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestPeerStorePath(t *testing.T) {
	c := NewDefaultConfig()
	c.DataDir = "/var/lib/node"

	if p := c.PeerStorePath(); p != filepath.Join("/var/lib/node", DefaultPeerStoreFile) {
		t.Fatalf("relative peer store should be resolved against the data dir, got %s", p)
	}

	c.PeerStoreFile = "/elsewhere/state.bin"
	if p := c.PeerStorePath(); p != "/elsewhere/state.bin" {
		t.Fatalf("absolute peer store should be used as is, got %s", p)
	}

	c.SeedFile = ""
	if p := c.SeedPath(); p != "" {
		t.Fatalf("empty seed file should give an empty path, got %s", p)
	}
}

func TestPeerStoreConfig(t *testing.T) {
	c := NewTestConfig(t, logrus.DebugLevel)
	c.Compress = true
	c.BlockingWorkers = 3

	psc := c.PeerStoreConfig()
	if psc.Path != c.PeerStorePath() {
		t.Fatalf("Path should be %s, not %s", c.PeerStorePath(), psc.Path)
	}
	if !psc.Compress || psc.BlockingWorkers != 3 || !psc.SerializeSaves {
		t.Fatalf("options not forwarded: %+v", psc)
	}
	if psc.Clock == nil || psc.Logger == nil {
		t.Fatalf("clock and logger should be set")
	}
}

func TestLogFile(t *testing.T) {
	c := NewDefaultConfig()
	c.LogLevel = "info"
	c.LogFile = filepath.Join(t.TempDir(), "addrbook.log")

	c.Logger().Info("hello")

	b, err := ioutil.ReadFile(c.LogFile)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), `"msg":"hello"`) {
		t.Fatalf("log file should contain the message: %s", string(b))
	}
}

func TestLogLevel(t *testing.T) {
	cases := map[string]logrus.Level{
		"debug":   logrus.DebugLevel,
		"info":    logrus.InfoLevel,
		"warn":    logrus.WarnLevel,
		"error":   logrus.ErrorLevel,
		"garbage": logrus.DebugLevel,
	}
	for in, want := range cases {
		if got := LogLevel(in); got != want {
			t.Fatalf("LogLevel(%q) should be %v, not %v", in, want, got)
		}
	}
}
