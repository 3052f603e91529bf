package peers

import (
	"io/ioutil"
	"sync"

	"github.com/ugorji/go/codec"
)

// JSONPeers reads and writes a list of peers as a human-editable JSON file.
// It is used to seed the gray list of a fresh address book and to export the
// content of a peer store.
type JSONPeers struct {
	l    sync.Mutex
	path string
}

// NewJSONPeers ...
func NewJSONPeers(path string) *JSONPeers {
	return &JSONPeers{
		path: path,
	}
}

func jsonHandle() *codec.JsonHandle {
	jh := new(codec.JsonHandle)
	jh.Canonical = true
	jh.Indent = 2
	return jh
}

// Peers parses the underlying JSON file.
func (j *JSONPeers) Peers() ([]*Peer, error) {
	j.l.Lock()
	defer j.l.Unlock()

	buf, err := ioutil.ReadFile(j.path)
	if err != nil {
		return nil, err
	}

	// Check for no peers
	if len(buf) == 0 {
		return nil, nil
	}

	var peers []*Peer
	dec := codec.NewDecoderBytes(buf, jsonHandle())
	if err := dec.Decode(&peers); err != nil {
		return nil, err
	}

	return peers, nil
}

// Write persists a list of peers to the JSON file.
func (j *JSONPeers) Write(peers []*Peer) error {
	j.l.Lock()
	defer j.l.Unlock()

	var buf []byte
	enc := codec.NewEncoderBytes(&buf, jsonHandle())
	if err := enc.Encode(peers); err != nil {
		return err
	}

	return ioutil.WriteFile(j.path, buf, 0644)
}
