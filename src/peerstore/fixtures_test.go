package peerstore

import (
	"fmt"
	"time"

	"github.com/willco-1/cuprate/src/peers"
)

// makeFakePeers returns n peers with distinct hosts, starting at offset.
func makeFakePeers(n, offset int) []*peers.Peer {
	res := make([]*peers.Peer, 0, n)
	for i := offset; i < offset+n; i++ {
		res = append(res, &peers.Peer{
			Addr: peers.NetAddr{
				Host: fmt.Sprintf("10.%d.%d.%d", (i>>16)&0xff, (i>>8)&0xff, i&0xff),
				Port: 18080,
			},
			ID:                uint64(i) * 7919,
			LastSeen:          1700000000 + int64(i),
			PruningSeed:       uint32(i % 8),
			RPCPort:           uint16(18089 + i%2),
			RPCCreditsPerHash: uint32(i % 3),
		})
	}
	return res
}

// banPeers bans every peer of list until now+d.
func banPeers(bans BanTable, list []*peers.Peer, now time.Time, d time.Duration) {
	for _, p := range list {
		bans[p.Addr.BanID()] = now.Add(d)
	}
}

func fakePeerData(white, gray, bans int) *PeerData {
	data := &PeerData{
		White: makeFakePeers(white, 0),
		Gray:  makeFakePeers(gray, white),
		Bans:  make(map[peers.BanID]uint64, bans),
	}
	for i := 0; i < bans; i++ {
		data.Bans[peers.BanID(fmt.Sprintf("192.168.%d.%d", i/256, i%256))] = uint64(i) * 1000
	}
	return data
}
