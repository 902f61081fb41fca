/*
 * Copyright (c) 2026 frozensunq contributors
 */
package notify

import (
	"log"
	"testing"

	"github.com/miekg/dns"
)

// fakeDataSource is an in-memory DataSource with one map per rrtype,
// keyed by owner name (the class argument is ignored), grounded on BIND10's MockXfrin-style test doubles in
// notify_out_test.py — plain Go maps standing in for monkey-patched
// methods.
type fakeDataSource struct {
	soa  map[string][]dns.RR
	ns   map[string][]dns.RR
	a    map[string][]dns.RR
	aaaa map[string][]dns.RR
}

func newFakeDataSource() *fakeDataSource {
	return &fakeDataSource{
		soa:  map[string][]dns.RR{},
		ns:   map[string][]dns.RR{},
		a:    map[string][]dns.RR{},
		aaaa: map[string][]dns.RR{},
	}
}

func mustRR(t *testing.T, s string) dns.RR {
	t.Helper()
	rr, err := dns.NewRR(s)
	if err != nil {
		t.Fatalf("failed to build RR %q: %v", s, err)
	}
	return rr
}

func (f *fakeDataSource) LookupSOA(zone string, class uint16) ([]dns.RR, error) {
	rrs, ok := f.soa[zone]
	if !ok {
		return nil, ErrZoneNotFound
	}
	return rrs, nil
}

func (f *fakeDataSource) LookupNS(zone string, class uint16) ([]dns.RR, error) {
	rrs, ok := f.ns[zone]
	if !ok {
		return nil, ErrZoneNotFound
	}
	return rrs, nil
}

func (f *fakeDataSource) LookupA(owner string, class uint16) ([]dns.RR, error) {
	rrs, ok := f.a[owner]
	if !ok {
		return nil, ErrZoneNotFound
	}
	return rrs, nil
}

func (f *fakeDataSource) LookupAAAA(owner string, class uint16) ([]dns.RR, error) {
	rrs, ok := f.aaaa[owner]
	if !ok {
		return nil, ErrZoneNotFound
	}
	return rrs, nil
}

func TestResolverDiscover_ExcludesMNAME(t *testing.T) {
	ds := newFakeDataSource()
	ds.soa["example.com."] = []dns.RR{mustRR(t, "example.com. 3600 IN SOA ns1.example.com. hostmaster.example.com. 1 2 3 4 5")}
	ds.ns["example.com."] = []dns.RR{
		mustRR(t, "example.com. 3600 IN NS ns1.example.com."),
		mustRR(t, "example.com. 3600 IN NS ns2.example.com."),
	}
	ds.a["ns2.example.com."] = []dns.RR{mustRR(t, "ns2.example.com. 3600 IN A 192.0.2.2")}

	r := &Resolver{DS: ds, Logger: log.Default()}
	eps := r.Discover("example.com.", dns.ClassINET)

	if len(eps) != 1 || eps[0].IP != "192.0.2.2" {
		t.Fatalf("got %+v, want only ns2's address (ns1 is the SOA MNAME)", eps)
	}
}

func TestResolverDiscover_PartialAAAAFailureDoesNotSuppressA(t *testing.T) {
	ds := newFakeDataSource()
	ds.soa["example.com."] = []dns.RR{mustRR(t, "example.com. 3600 IN SOA ns0.example.com. hostmaster.example.com. 1 2 3 4 5")}
	ds.ns["example.com."] = []dns.RR{mustRR(t, "example.com. 3600 IN NS ns1.example.com.")}
	ds.a["ns1.example.com."] = []dns.RR{mustRR(t, "ns1.example.com. 3600 IN A 192.0.2.1")}
	// no AAAA entry at all -> LookupAAAA returns ErrZoneNotFound

	r := &Resolver{DS: ds, Logger: log.Default()}
	eps := r.Discover("example.com.", dns.ClassINET)

	if len(eps) != 1 || eps[0].IP != "192.0.2.1" {
		t.Fatalf("got %+v, want the A record despite the missing AAAA", eps)
	}
}

func TestResolverDiscover_MissingSOAYieldsEmpty(t *testing.T) {
	ds := newFakeDataSource()
	r := &Resolver{DS: ds, Logger: log.Default()}
	if eps := r.Discover("nowhere.example.", dns.ClassINET); eps != nil {
		t.Fatalf("got %+v, want nil for a zone with no SOA", eps)
	}
}

func TestResolverDiscover_MultipleSOAYieldsEmpty(t *testing.T) {
	ds := newFakeDataSource()
	ds.soa["example.com."] = []dns.RR{
		mustRR(t, "example.com. 3600 IN SOA ns1.example.com. hostmaster.example.com. 1 2 3 4 5"),
		mustRR(t, "example.com. 3600 IN SOA ns2.example.com. hostmaster.example.com. 1 2 3 4 5"),
	}
	r := &Resolver{DS: ds, Logger: log.Default()}
	if eps := r.Discover("example.com.", dns.ClassINET); eps != nil {
		t.Fatalf("got %+v, want nil for a zone with SOA multiplicity != 1", eps)
	}
}

func TestMergeSecondaries_PreservesDuplicatesStaticFirst(t *testing.T) {
	static := []Endpoint{{IP: "192.0.2.9", Port: 53}}
	discovered := []Endpoint{{IP: "192.0.2.9", Port: 53}, {IP: "192.0.2.10", Port: 53}}

	merged := MergeSecondaries(static, discovered)
	if len(merged) != 3 {
		t.Fatalf("got %d secondaries, want 3 (duplicates preserved)", len(merged))
	}
	if merged[0] != static[0].normalized() {
		t.Fatalf("static secondary must come first: %+v", merged)
	}
}
