/*
 * Copyright (c) 2026 frozensunq contributors
 */
package notify

import (
	"math/rand"
	"strings"

	"github.com/miekg/dns"
)

// EncodeQuery builds a NOTIFY query for zone/class: opcode NOTIFY,
// QR=0, AA=1, one question <zone, class, SOA>. The message id is
// chosen uniformly at random over 16 bits and returned alongside the
// message so the caller can record it for response correlation.
func EncodeQuery(zone string, class uint16) (*dns.Msg, uint16) {
	id := uint16(rand.Intn(1 << 16))

	m := new(dns.Msg)
	m.Id = id
	m.Opcode = dns.OpcodeNotify
	m.Response = false
	m.Authoritative = true
	m.Rcode = dns.RcodeSuccess
	m.Question = []dns.Question{
		{Name: CanonicalZoneName(zone), Qtype: dns.TypeSOA, Qclass: class},
	}
	return m, id
}

// ValidateResponse classifies data as a response to the outstanding
// request (expectedID, expectedQName, expectedClass). Checks run in a
// fixed order: parse failure, then id, then opcode, then QR, then the
// question section, matching the diagnostic a malformed packet must
// produce.
func ValidateResponse(expectedID uint16, expectedQName string, expectedClass uint16, data []byte) ReplyResult {
	if len(data) < 12 {
		return BadReplyPacket
	}

	m := new(dns.Msg)
	if err := m.Unpack(data); err != nil {
		return BadReplyPacket
	}

	if m.Id != expectedID {
		return BadQueryID
	}

	if m.Opcode != dns.OpcodeNotify {
		return BadOpcode
	}

	if !m.Response {
		return BadQR
	}

	if len(m.Question) < 1 {
		return BadReplyPacket
	}

	q := m.Question[0]
	if !strings.EqualFold(CanonicalZoneName(q.Name), CanonicalZoneName(expectedQName)) {
		return BadQueryName
	}
	if q.Qclass != expectedClass {
		return BadQueryName
	}
	if q.Qtype != dns.TypeSOA {
		return BadQueryName
	}

	return ReplyOK
}
