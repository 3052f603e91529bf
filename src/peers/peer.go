package peers

// Peer is the metadata the address book keeps about a known peer. The field
// order matters: it is the order in which the peer store encodes them.
type Peer struct {
	// Addr is where the peer can be reached.
	Addr NetAddr

	// ID is the random identifier the peer announced in its handshake.
	ID uint64

	// LastSeen is the unix time, in seconds, the peer was last heard of.
	LastSeen int64

	// PruningSeed tells which part of the chain the peer keeps.
	PruningSeed uint32

	// RPCPort is the port of the peer's public RPC, 0 if it has none.
	RPCPort uint16

	// RPCCreditsPerHash is the price of the peer's RPC, 0 if free.
	RPCCreditsPerHash uint32
}

// NewPeer ...
func NewPeer(addr NetAddr, id uint64) *Peer {
	return &Peer{
		Addr: addr,
		ID:   id,
	}
}

// ByAddr implements sort.Interface for []*Peer based on the address.
type ByAddr []*Peer

func (a ByAddr) Len() int      { return len(a) }
func (a ByAddr) Swap(i, j int) { a[i], a[j] = a[j], a[i] }
func (a ByAddr) Less(i, j int) bool {
	if a[i].Addr.Host != a[j].Addr.Host {
		return a[i].Addr.Host < a[j].Addr.Host
	}
	return a[i].Addr.Port < a[j].Addr.Port
}
