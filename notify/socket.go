/*
 * Copyright (c) 2026 frozensunq contributors
 */
package notify

import (
	"fmt"
	"net"
)

// Family is the address family of an allocated socket, recorded on
// ZoneNotifyInfo purely for metrics (notifyoutv4 vs notifyoutv6).
type Family int

const (
	FamilyIPv4 Family = iota + 1
	FamilyIPv6
)

// UDPSocket is the per-target socket abstraction the dispatcher reads
// from and writes to. A fresh one is allocated for every send,
// retries included, after the previous one is closed; the last one is
// closed on target advance or zone finish. Sockets are never reused.
type UDPSocket interface {
	Send(data []byte) error
	ReadFrom(buf []byte) (int, error)
	Close() error
	Family() Family
}

// SocketFactory is the seam spec §9 asks for in place of
// open-recursion monkey-patching of socket creation: tests substitute
// a fake factory that hands back in-memory sockets instead of real
// UDP ones.
type SocketFactory interface {
	NewSocket(ep Endpoint) (UDPSocket, error)
}

// SystemSocketFactory is the production SocketFactory, allocating a
// connected net.UDPConn of the family implied by ep.IP's textual form.
type SystemSocketFactory struct{}

func (SystemSocketFactory) NewSocket(ep Endpoint) (UDPSocket, error) {
	ip := net.ParseIP(ep.IP)
	if ip == nil {
		return nil, fmt.Errorf("notify: malformed secondary address %q", ep.IP)
	}

	network := "udp4"
	family := FamilyIPv4
	if ip.To4() == nil {
		network = "udp6"
		family = FamilyIPv6
	}

	raddr := &net.UDPAddr{IP: ip, Port: int(ep.normalized().Port)}
	conn, err := net.DialUDP(network, nil, raddr)
	if err != nil {
		return nil, err
	}
	return &systemUDPSocket{conn: conn, family: family}, nil
}

type systemUDPSocket struct {
	conn   *net.UDPConn
	family Family
}

func (s *systemUDPSocket) Send(data []byte) error {
	_, err := s.conn.Write(data)
	return err
}

func (s *systemUDPSocket) ReadFrom(buf []byte) (int, error) {
	return s.conn.Read(buf)
}

func (s *systemUDPSocket) Close() error {
	return s.conn.Close()
}

func (s *systemUDPSocket) Family() Family {
	return s.family
}
