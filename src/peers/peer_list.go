package peers

import "sort"

// PeerList is a set of peers indexed by address and by BanID.
type PeerList struct {
	peers  map[NetAddr]*Peer
	banIDs map[BanID][]NetAddr
}

// NewPeerList creates a PeerList from a slice of peers. When the slice
// contains the same address twice, the last one wins.
func NewPeerList(list []*Peer) *PeerList {
	pl := &PeerList{
		peers:  make(map[NetAddr]*Peer, len(list)),
		banIDs: make(map[BanID][]NetAddr),
	}

	for _, p := range list {
		pl.Add(p)
	}

	return pl
}

// Add inserts a peer, replacing the existing entry with the same address.
func (pl *PeerList) Add(p *Peer) {
	if _, ok := pl.peers[p.Addr]; !ok {
		id := p.Addr.BanID()
		pl.banIDs[id] = append(pl.banIDs[id], p.Addr)
	}
	pl.peers[p.Addr] = p
}

// Remove deletes the peer with the given address and returns it, or nil if
// it was not in the list.
func (pl *PeerList) Remove(addr NetAddr) *Peer {
	p, ok := pl.peers[addr]
	if !ok {
		return nil
	}

	delete(pl.peers, addr)

	id := addr.BanID()
	addrs := pl.banIDs[id]
	for i, a := range addrs {
		if a == addr {
			addrs = append(addrs[:i], addrs[i+1:]...)
			break
		}
	}
	if len(addrs) == 0 {
		delete(pl.banIDs, id)
	} else {
		pl.banIDs[id] = addrs
	}

	return p
}

// RemoveByBanID deletes every peer whose address derives the given BanID.
func (pl *PeerList) RemoveByBanID(id BanID) []*Peer {
	addrs := append([]NetAddr(nil), pl.banIDs[id]...)

	removed := make([]*Peer, 0, len(addrs))
	for _, addr := range addrs {
		if p := pl.Remove(addr); p != nil {
			removed = append(removed, p)
		}
	}

	return removed
}

// Get ...
func (pl *PeerList) Get(addr NetAddr) (*Peer, bool) {
	p, ok := pl.peers[addr]
	return p, ok
}

// Contains ...
func (pl *PeerList) Contains(addr NetAddr) bool {
	_, ok := pl.peers[addr]
	return ok
}

// AddrsByBanID returns the addresses in the list which share a BanID.
func (pl *PeerList) AddrsByBanID(id BanID) []NetAddr {
	return append([]NetAddr(nil), pl.banIDs[id]...)
}

// Len ...
func (pl *PeerList) Len() int {
	return len(pl.peers)
}

// Peers returns every peer of the list, sorted by address. The slice is new
// but the peers are not copied.
func (pl *PeerList) Peers() []*Peer {
	res := make([]*Peer, 0, len(pl.peers))
	for _, p := range pl.peers {
		res = append(res, p)
	}

	sort.Sort(ByAddr(res))

	return res
}
