/*
 * Copyright (c) 2026 frozensunq contributors
 */
package notify

import (
	"errors"

	"github.com/miekg/dns"
)

// Endpoint is a secondary nameserver address to NOTIFY. Port defaults
// to 53 when zero.
type Endpoint struct {
	IP   string
	Port uint16
}

func (e Endpoint) normalized() Endpoint {
	if e.Port == 0 {
		e.Port = 53
	}
	return e
}

// ErrZoneNotFound is returned by a DataSource lookup when the zone (or
// owner name) is not present at all, as distinct from a transport/I/O
// failure. The resolver treats both the same way: an empty result.
var ErrZoneNotFound = errors.New("notify: zone not found in data source")

// DataSource is the external collaborator described in spec §6: it
// answers SOA/NS/A/AAAA questions for the zones this module serves.
// The resolver calls it only while preparing a newly admitted zone:
// from SendNotify on the caller's goroutine with the dispatcher's
// mutex released, or from promoteWaiting on the dispatcher goroutine
// with that mutex held, where a slow lookup delays the event loop.
type DataSource interface {
	// LookupSOA returns the SOA RRset at the zone apex. A missing
	// zone is reported via ErrZoneNotFound.
	LookupSOA(zone string, class uint16) ([]dns.RR, error)
	// LookupNS returns the NS RRset at the zone apex.
	LookupNS(zone string, class uint16) ([]dns.RR, error)
	// LookupA returns the A RRset at owner.
	LookupA(owner string, class uint16) ([]dns.RR, error)
	// LookupAAAA returns the AAAA RRset at owner.
	LookupAAAA(owner string, class uint16) ([]dns.RR, error)
}
