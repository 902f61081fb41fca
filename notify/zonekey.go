/*
 * Copyright (c) 2026 frozensunq contributors
 */
package notify

import (
	"strings"

	"github.com/miekg/dns"
)

// ZoneKey identifies a zone by its canonical name and class. Two keys
// compare equal iff their names are equal after folding per RFC 1035
// §2.3.3 and their classes match exactly.
type ZoneKey struct {
	Name  string
	Class uint16
}

// NewZoneKey canonicalizes name (lowercase, dot-terminated) and
// returns the resulting key.
func NewZoneKey(name string, class uint16) ZoneKey {
	return ZoneKey{Name: CanonicalZoneName(name), Class: class}
}

// CanonicalZoneName folds name to lowercase and ensures it is
// dot-terminated, matching the canonical comparison rule zone keys
// are hashed and compared under.
func CanonicalZoneName(name string) string {
	return strings.ToLower(dns.Fqdn(name))
}

func (k ZoneKey) String() string {
	return k.Name + " " + dns.ClassToString[k.Class]
}

// ClassFromString maps a textual DNS class ("IN", "CH", "HS") to its
// wire value, defaulting to IN for an empty string.
func ClassFromString(s string) (uint16, bool) {
	if s == "" {
		return dns.ClassINET, true
	}
	class, ok := dns.StringToClass[strings.ToUpper(s)]
	return class, ok
}
