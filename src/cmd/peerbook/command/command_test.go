package command

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/willco-1/cuprate/src/config"
	"github.com/willco-1/cuprate/src/peers"
	"github.com/willco-1/cuprate/src/peerstore"
)

func fakePeer(i int) *peers.Peer {
	return &peers.Peer{
		Addr:     peers.NetAddr{Host: fmt.Sprintf("10.0.0.%d", i), Port: 18080},
		ID:       uint64(i),
		LastSeen: 1700000000,
	}
}

// writeStore saves 2 white peers, 3 gray ones of which the first duplicates
// a white peer, and 2 bans of which one is lifted.
func writeStore(t *testing.T) *config.Config {
	conf := config.NewTestConfig(t, logrus.DebugLevel)

	data := &peerstore.PeerData{
		White: []*peers.Peer{fakePeer(1), fakePeer(2)},
		Gray:  []*peers.Peer{fakePeer(1), fakePeer(3), fakePeer(4)},
		Bans: map[peers.BanID]uint64{
			"192.168.1.1": 0,
			"192.168.1.2": 60000,
		},
	}

	store := peerstore.NewStore(conf.PeerStoreConfig())
	if err := store.SaveData(data).Error(); err != nil {
		t.Fatal(err)
	}
	store.Wait()

	return conf
}

func TestInspect(t *testing.T) {
	conf := writeStore(t)

	var out bytes.Buffer
	if err := inspect(&out, conf, false); err != nil {
		t.Fatal(err)
	}

	for _, want := range []string{
		"white: 2 gray: 3 bans: 2",
		"10.0.0.3:18080 id=3",
		"192.168.1.2 60000ms",
	} {
		if !strings.Contains(out.String(), want) {
			t.Fatalf("output should contain %q:\n%s", want, out.String())
		}
	}
}

func TestInspectJSON(t *testing.T) {
	conf := writeStore(t)

	var out bytes.Buffer
	if err := inspect(&out, conf, true); err != nil {
		t.Fatal(err)
	}

	for _, want := range []string{`"192.168.1.2"`, "60000", `"10.0.0.4"`} {
		if !strings.Contains(out.String(), want) {
			t.Fatalf("JSON output should contain %s:\n%s", want, out.String())
		}
	}
}

func TestInspectMissing(t *testing.T) {
	conf := config.NewTestConfig(t, logrus.DebugLevel)

	var out bytes.Buffer
	if err := inspect(&out, conf, false); err == nil {
		t.Fatalf("inspecting a missing peer store should fail")
	}
}

func TestPrune(t *testing.T) {
	conf := writeStore(t)

	var out bytes.Buffer
	if err := prune(&out, conf); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "dropped 1 gray peers and 1 bans") {
		t.Fatalf("unexpected output: %s", out.String())
	}

	data, err := peerstore.NewStore(conf.PeerStoreConfig()).Load().Result()
	if err != nil {
		t.Fatal(err)
	}
	if len(data.White) != 2 || len(data.Gray) != 2 || len(data.Bans) != 1 {
		t.Fatalf("pruned store should hold 2/2/1, not %d/%d/%d", len(data.White), len(data.Gray), len(data.Bans))
	}
	if data.Bans["192.168.1.2"] != 60000 {
		t.Fatalf("remaining ban should be kept as is, got %d", data.Bans["192.168.1.2"])
	}
}

func TestExport(t *testing.T) {
	conf := writeStore(t)
	path := conf.DataDir + "/seeds.json"

	var out bytes.Buffer
	if err := export(&out, conf, path); err != nil {
		t.Fatal(err)
	}

	list, err := peers.NewJSONPeers(path).Peers()
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 5 {
		t.Fatalf("export should write 5 peers, not %d", len(list))
	}
	if *list[0] != *fakePeer(1) || *list[4] != *fakePeer(4) {
		t.Fatalf("export should write white peers then gray ones: %v %v", list[0], list[4])
	}
}

func TestExportCmdFileArg(t *testing.T) {
	conf := writeStore(t)
	out := filepath.Join(t.TempDir(), "seeds.json")

	cmd := NewExportCmd()
	var buf bytes.Buffer
	cmd.SetOutput(&buf)
	cmd.SetArgs([]string{"--datadir", t.TempDir(), "--log", "error", conf.PeerStorePath(), out})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("export: %v", err)
	}

	list, err := peers.NewJSONPeers(out).Peers()
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 5 {
		t.Fatalf("export should write the 5 peers of the given file, not %d", len(list))
	}
}
