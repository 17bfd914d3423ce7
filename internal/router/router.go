// Package router resolves an incoming Host header to an upstream
// address, round-robining across every address configured for that
// host.
package router

import (
	"hash/fnv"
	"net"
	"sync/atomic"
)

// HostHash returns a fixed, deterministic 64-bit hash of a host name.
// The same function must be used for both config-time host names and
// every incoming request's Host header, since routing is keyed
// entirely on hash equality rather than string comparison.
//
// The upstream implementation this was ported from used Rust's
// DefaultHasher (SipHash, randomly keyed per process by default),
// which is unsuitable here: a routing table built at startup and
// looked up against request headers for the life of the process needs
// a hash that agrees with itself run over run, not merely within a
// single run. FNV-1a has no such seed and is used instead.
func HostHash(host []byte) uint64 {
	h := fnv.New64a()
	h.Write(host)
	return h.Sum64()
}

// Balancer round-robins across a fixed, pre-resolved list of upstream
// addresses for a single host.
type Balancer struct {
	addrs   []*net.TCPAddr
	counter atomic.Uint64
}

// NewBalancer returns a Balancer over addrs. addrs must be non-empty.
func NewBalancer(addrs []*net.TCPAddr) *Balancer {
	return &Balancer{addrs: addrs}
}

// Next returns the next address in the rotation.
func (b *Balancer) Next() *net.TCPAddr {
	i := b.counter.Add(1) - 1
	return b.addrs[i%uint64(len(b.addrs))]
}

// Table maps host hashes to their Balancer. It is built once at
// startup from configuration and never mutated afterward, so lookups
// require no locking.
type Table struct {
	routes map[uint64]*Balancer
}

// NewTable builds a routing table from host name to address list.
// Each address string is resolved once, here, not per request, and
// contributes one resolved address; if any address fails to resolve,
// NewTable returns that error and no table.
func NewTable(hosts map[string][]string) (*Table, error) {
	routes := make(map[uint64]*Balancer, len(hosts))
	for host, addrs := range hosts {
		resolved := make([]*net.TCPAddr, 0, len(addrs))
		for _, a := range addrs {
			tcpAddr, err := net.ResolveTCPAddr("tcp", a)
			if err != nil {
				return nil, err
			}
			resolved = append(resolved, tcpAddr)
		}
		routes[HostHash([]byte(host))] = NewBalancer(resolved)
	}
	return &Table{routes: routes}, nil
}

// Route returns the Balancer for host, or false if no route exists
// for it.
func (t *Table) Route(host []byte) (*Balancer, bool) {
	b, ok := t.routes[HostHash(host)]
	return b, ok
}
