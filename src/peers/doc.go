// Package peers defines the records an address book keeps about other nodes
// and the in-memory lists that hold them.
//
// A peer is reached through a NetAddr. Every NetAddr maps to a BanID, which is
// the key of the ban table: banning a BanID bans every address that derives
// it. With NetAddr, the BanID is the host, so all the ports of a host share a
// single ban.
//
// The address book keeps two PeerLists. The white list holds peers that the
// node has successfully connected to. The gray list holds peers that were
// learned about, from other peers or from a seed file, but never verified. A
// peer should not be in both lists at once; that is the address book's job to
// enforce, not the list's, and not the persistence layer's either.
//
// PeerLists are not safe for concurrent use. They are owned by the address
// book's event loop.
package peers
