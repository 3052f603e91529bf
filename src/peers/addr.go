package peers

import (
	"fmt"
	"net"
	"strconv"
)

// BanID identifies a banned entity. It is derived from a NetAddr.
type BanID string

// NetAddr is the network address of a peer.
type NetAddr struct {
	Host string
	Port uint16
}

// NewNetAddr parses a host:port string.
func NewNetAddr(hostPort string) (NetAddr, error) {
	host, portStr, err := net.SplitHostPort(hostPort)
	if err != nil {
		return NetAddr{}, err
	}

	if host == "" {
		return NetAddr{}, fmt.Errorf("missing host in address %q", hostPort)
	}

	port, err := strconv.ParseUint(portStr, 10, 16)
	if err != nil {
		return NetAddr{}, fmt.Errorf("invalid port in address %q: %v", hostPort, err)
	}

	return NetAddr{Host: host, Port: uint16(port)}, nil
}

// String returns the address in host:port form.
func (a NetAddr) String() string {
	return net.JoinHostPort(a.Host, strconv.Itoa(int(a.Port)))
}

// BanID returns the identifier this address is banned under. All the ports
// of a host share the same BanID.
func (a NetAddr) BanID() BanID {
	return BanID(a.Host)
}
