/*
 * Copyright 2026 Nodehist Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package enrich

import (
	"context"
	"fmt"

	gnet "github.com/shirou/gopsutil/v3/net"

	"github.com/nodehist/nodehist/pkg/logger"
	"github.com/nodehist/nodehist/pkg/models"
)

// AnyAddress is the notation for sockets bound to the wildcard address.
const AnyAddress = "0.0.0.0/0"

// Socket type values from the socket table (SOCK_STREAM / SOCK_DGRAM).
const (
	sockStream = 1
	sockDgram  = 2
)

// SystemSocketTable reads listener bindings from the OS socket table via
// gopsutil. Collector funcs are swappable for tests.
type SystemSocketTable struct {
	connections func(ctx context.Context, kind string) ([]gnet.ConnectionStat, error)
	interfaces  func(ctx context.Context) (gnet.InterfaceStatList, error)
	log         logger.Logger
}

func NewSystemSocketTable(log logger.Logger) *SystemSocketTable {
	return &SystemSocketTable{
		connections: gnet.ConnectionsWithContext,
		interfaces:  gnet.InterfacesWithContext,
		log:         log,
	}
}

// Bindings returns the deduplicated (port, protocol, ip) triples for sockets
// accepting traffic on the declared port. TCP sockets count only in LISTEN
// state; bound UDP sockets always count. The wildcard address maps to
// AnyAddress; other addresses resolve to their interface CIDR, with the
// netmask lookup done once per distinct IP.
func (s *SystemSocketTable) Bindings(ctx context.Context, port int) ([]models.Binding, error) {
	conns, err := s.connections(ctx, "inet")
	if err != nil {
		return nil, fmt.Errorf("reading socket table: %w", err)
	}

	resolve := s.newAddrResolver(ctx)
	seen := make(map[models.Binding]struct{})
	bindings := []models.Binding{}

	for _, conn := range conns {
		if int(conn.Laddr.Port) != port {
			continue
		}

		var proto string

		switch conn.Type {
		case sockStream:
			if conn.Status != "LISTEN" {
				continue
			}

			proto = "tcp"
		case sockDgram:
			proto = "udp"
		default:
			continue
		}

		b := models.Binding{Port: port, Protocol: proto, IP: resolve(conn.Laddr.IP)}
		if _, dup := seen[b]; dup {
			continue
		}

		seen[b] = struct{}{}
		bindings = append(bindings, b)
	}

	return bindings, nil
}

// newAddrResolver maps a bound address to its network notation, caching per
// distinct IP for the lifetime of one Bindings call. The interface table is
// loaded lazily on the first non-wildcard address.
func (s *SystemSocketTable) newAddrResolver(ctx context.Context) func(string) string {
	cache := make(map[string]string)

	var (
		ifaces       gnet.InterfaceStatList
		ifacesLoaded bool
	)

	return func(ip string) string {
		switch ip {
		case "", "*", "0.0.0.0", "::":
			return AnyAddress
		}

		if cidr, ok := cache[ip]; ok {
			return cidr
		}

		if !ifacesLoaded {
			ifacesLoaded = true

			var err error

			ifaces, err = s.interfaces(ctx)
			if err != nil {
				s.log.Warn().Err(err).Msg("Interface table lookup failed; using bare addresses")
			}
		}

		resolved := ip

		for _, iface := range ifaces {
			for _, addr := range iface.Addrs {
				if addrIP(addr.Addr) == ip {
					resolved = addr.Addr
					break
				}
			}
		}

		cache[ip] = resolved

		return resolved
	}
}

// addrIP strips the prefix length from an interface CIDR like "10.0.0.5/24".
func addrIP(cidr string) string {
	for i := 0; i < len(cidr); i++ {
		if cidr[i] == '/' {
			return cidr[:i]
		}
	}

	return cidr
}
