/*
 * Copyright (c) 2026 frozensunq contributors
 */
package notify

import "errors"

// ReplyResult classifies a NOTIFY response against the request it is
// meant to acknowledge. The zero value is never produced by
// ValidateResponse; callers should treat it as "not yet classified".
type ReplyResult int

const (
	// ReplyOK: the response matches id, opcode, QR and question.
	ReplyOK ReplyResult = iota + 1
	// BadReplyPacket: the buffer could not be parsed as a DNS message,
	// or was too short, or its question section was malformed.
	BadReplyPacket
	// BadQueryID: the response header id does not match the
	// outstanding request's id.
	BadQueryID
	// BadOpcode: the response's opcode is not NOTIFY.
	BadOpcode
	// BadQR: the response's QR bit is not set.
	BadQR
	// BadQueryName: the response's first question does not match the
	// zone name, class or type (SOA) of the outstanding request.
	BadQueryName
)

func (r ReplyResult) String() string {
	switch r {
	case ReplyOK:
		return "REPLY_OK"
	case BadReplyPacket:
		return "BAD_REPLY_PACKET"
	case BadQueryID:
		return "BAD_QUERY_ID"
	case BadOpcode:
		return "BAD_OPCODE"
	case BadQR:
		return "BAD_QR"
	case BadQueryName:
		return "BAD_QUERY_NAME"
	default:
		return "UNKNOWN_REPLY_RESULT"
	}
}

// ErrCounterNotFound is returned by a CounterStore.Get for a path that
// has never been incremented.
var ErrCounterNotFound = errors.New("notify: counter not found")

// eventKind is the dispatcher's internal wake classification. Any
// other value reaching the state machine is a programming error.
type eventKind int

const (
	eventRead eventKind = iota + 1
	eventTimeout
)
