// Package service computes and checks audit entry integrity hashes.
package service

import (
	"encoding/binary"

	auditDomain "github.com/allisson/votesafe/internal/audit/domain"
)

// Hasher is the hash primitive of the vote cryptography engine.
type Hasher interface {
	Hash(data []byte) string
	VerifyHash(data []byte, hash string) bool
}

// IntegrityService fingerprints audit entries.
type IntegrityService interface {
	// Compute returns the integrity hash over every field except IntegrityHash.
	Compute(entry *auditDomain.AuditEntry) string

	// Verify recomputes the hash and compares it with entry.IntegrityHash.
	Verify(entry *auditDomain.AuditEntry) bool
}

type integrityService struct {
	hasher Hasher
}

// NewIntegrityService creates an IntegrityService on top of hasher.
func NewIntegrityService(hasher Hasher) IntegrityService {
	return &integrityService{hasher: hasher}
}

func (s *integrityService) Compute(entry *auditDomain.AuditEntry) string {
	return s.hasher.Hash(Canonicalize(entry))
}

func (s *integrityService) Verify(entry *auditDomain.AuditEntry) bool {
	return s.hasher.VerifyHash(Canonicalize(entry), entry.IntegrityHash)
}

// Canonicalize converts an entry to its hashed byte form:
//
//	id(16) || actor || action || details || ip || timestamp(8, unix nano) || event_type
//
// Strings are length-prefixed so shifting bytes between adjacent fields
// changes the encoding.
func Canonicalize(entry *auditDomain.AuditEntry) []byte {
	buf := make([]byte, 0, 256+len(entry.Details))

	buf = append(buf, entry.ID[:]...)
	buf = appendLengthPrefixed(buf, entry.ActorID)
	buf = appendLengthPrefixed(buf, entry.Action)
	buf = appendLengthPrefixed(buf, entry.Details)
	buf = appendLengthPrefixed(buf, entry.IPAddress)
	buf = binary.BigEndian.AppendUint64(buf, uint64(entry.Timestamp.UnixNano()))
	buf = appendLengthPrefixed(buf, string(entry.EventType))

	return buf
}

// appendLengthPrefixed adds a 4-byte big-endian length followed by data.
func appendLengthPrefixed(buf []byte, data string) []byte {
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(data)))
	return append(buf, data...)
}
