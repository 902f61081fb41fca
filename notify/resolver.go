/*
 * Copyright (c) 2026 frozensunq contributors
 */
package notify

import (
	"log"
	"strings"

	"github.com/miekg/dns"
)

// Resolver turns a zone key into the ordered list of secondaries
// discovered via NS/A/AAAA lookups, grounded on the teacher's
// tdns/zone_utils.go GetSOA/GetRRset pair and tdns/dsync_lookup.go's
// logging-on-failure style.
type Resolver struct {
	DS     DataSource
	Logger *log.Logger
}

func (r *Resolver) logf(format string, args ...any) {
	if r.Logger != nil {
		r.Logger.Printf(format, args...)
		return
	}
	log.Printf(format, args...)
}

// Discover resolves the secondaries for zone/class via NS targets:
// the SOA must exist with multiplicity 1, every NS target other than
// the SOA MNAME is resolved for A then AAAA, and an SOA or NS lookup
// error collapses to an empty sequence without failing the caller.
// A and AAAA are resolved independently per NS target: a failed A or
// AAAA lookup is logged and skipped, and does not suppress the other
// RR type's addresses or those of other NS targets.
func (r *Resolver) Discover(zone string, class uint16) []Endpoint {
	zone = CanonicalZoneName(zone)

	soaRRs, err := r.DS.LookupSOA(zone, class)
	if err != nil {
		r.logf("notify: resolver: zone %s: SOA lookup failed: %v", zone, err)
		return nil
	}
	if len(soaRRs) != 1 {
		r.logf("notify: resolver: zone %s: SOA multiplicity %d, expected 1", zone, len(soaRRs))
		return nil
	}
	soa, ok := soaRRs[0].(*dns.SOA)
	if !ok {
		r.logf("notify: resolver: zone %s: SOA RRset contains non-SOA record", zone)
		return nil
	}
	mname := CanonicalZoneName(soa.Ns)

	nsRRs, err := r.DS.LookupNS(zone, class)
	if err != nil {
		r.logf("notify: resolver: zone %s: NS lookup failed: %v", zone, err)
		return nil
	}

	var out []Endpoint
	for _, rr := range nsRRs {
		ns, ok := rr.(*dns.NS)
		if !ok {
			continue
		}
		target := CanonicalZoneName(ns.Ns)
		if strings.EqualFold(target, mname) {
			continue
		}

		if aRRs, err := r.DS.LookupA(target, class); err != nil {
			r.logf("notify: resolver: zone %s: A lookup for %s failed: %v", zone, target, err)
		} else {
			for _, a := range aRRs {
				if rec, ok := a.(*dns.A); ok {
					out = append(out, Endpoint{IP: rec.A.String(), Port: 53})
				}
			}
		}

		if aaaaRRs, err := r.DS.LookupAAAA(target, class); err != nil {
			r.logf("notify: resolver: zone %s: AAAA lookup for %s failed: %v", zone, target, err)
		} else {
			for _, aaaa := range aaaaRRs {
				if rec, ok := aaaa.(*dns.AAAA); ok {
					out = append(out, Endpoint{IP: rec.AAAA.String(), Port: 53})
				}
			}
		}
	}

	return out
}

// MergeSecondaries concatenates static (statically configured
// secondaries, always notified) first, then discovered (resolver
// output), preserving duplicates. An address configured statically
// and also reachable via NS resolution is intentionally notified
// twice — see spec §9's "duplicate secondaries" note.
func MergeSecondaries(static, discovered []Endpoint) []Endpoint {
	out := make([]Endpoint, 0, len(static)+len(discovered))
	for _, e := range static {
		out = append(out, e.normalized())
	}
	for _, e := range discovered {
		out = append(out, e.normalized())
	}
	return out
}
