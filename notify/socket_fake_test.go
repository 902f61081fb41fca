/*
 * Copyright (c) 2026 frozensunq contributors
 */
package notify

import (
	"errors"
	"sync"
)

// fakeSocket is an in-memory UDPSocket: Send records what the
// dispatcher wrote, ReadFrom blocks on recvCh until a test injects a
// reply or Close unblocks it with an error — standing in for
// BIND10's MockSocket in notify_out_test.py.
type fakeSocket struct {
	mu     sync.Mutex
	family Family
	sent   [][]byte
	recvCh chan []byte
	closed bool
}

func (s *fakeSocket) Send(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errors.New("fake socket: send on closed socket")
	}
	s.sent = append(s.sent, append([]byte(nil), data...))
	return nil
}

func (s *fakeSocket) ReadFrom(buf []byte) (int, error) {
	data, ok := <-s.recvCh
	if !ok {
		return 0, errors.New("fake socket: closed")
	}
	return copy(buf, data), nil
}

func (s *fakeSocket) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.recvCh)
	}
	return nil
}

func (s *fakeSocket) Family() Family { return s.family }

func (s *fakeSocket) lastSent() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.sent) == 0 {
		return nil
	}
	return s.sent[len(s.sent)-1]
}

func (s *fakeSocket) sentCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sent)
}

// fakeSocketFactory hands out fakeSockets and remembers every one it
// created, in order, so a test can reach the most recent socket for a
// zone (the dispatcher opens a fresh one per send).
type fakeSocketFactory struct {
	mu       sync.Mutex
	created  []*fakeSocket
	failNext bool
}

func (f *fakeSocketFactory) NewSocket(ep Endpoint) (UDPSocket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failNext {
		f.failNext = false
		return nil, errors.New("fake socket factory: injected allocation failure")
	}
	sock := &fakeSocket{family: FamilyIPv4, recvCh: make(chan []byte, 4)}
	f.created = append(f.created, sock)
	return sock, nil
}

func (f *fakeSocketFactory) last() *fakeSocket {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.created) == 0 {
		return nil
	}
	return f.created[len(f.created)-1]
}

func (f *fakeSocketFactory) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.created)
}
