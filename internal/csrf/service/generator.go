// Package service implements anti-forgery token generation.
package service

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"time"

	apperrors "github.com/shimesaba-type0/secure-pdf-viewer-sub001/internal/errors"
)

// randomSize is the entropy drawn per token in bytes.
const randomSize = 32

// TokenGenerator defines the interface for producing token values.
type TokenGenerator interface {
	// Generate derives the externally visible token: a hash binding the
	// session, the issue time, and fresh random material.
	Generate(sessionID string, issuedAt time.Time) (string, error)
	// Fallback produces a bare random token for use when persistence is
	// unavailable. It carries no session binding and will never validate.
	Fallback() (string, error)
}

// tokenGenerator implements TokenGenerator.
type tokenGenerator struct{}

// Generate derives the token hash over {session_id, issue_timestamp, random}.
func (g *tokenGenerator) Generate(sessionID string, issuedAt time.Time) (string, error) {
	random := make([]byte, randomSize)
	if _, err := rand.Read(random); err != nil {
		return "", apperrors.Wrap(err, "failed to generate token entropy")
	}

	var ts [8]byte
	binary.BigEndian.PutUint64(ts[:], uint64(issuedAt.UnixNano()))

	h := sha256.New()
	h.Write([]byte(sessionID))
	h.Write(ts[:])
	h.Write(random)
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Fallback produces an unpersisted random token value.
func (g *tokenGenerator) Fallback() (string, error) {
	random := make([]byte, randomSize)
	if _, err := rand.Read(random); err != nil {
		return "", apperrors.Wrap(err, "failed to generate fallback token")
	}
	return hex.EncodeToString(random), nil
}

// NewTokenGenerator creates a new token generator.
func NewTokenGenerator() TokenGenerator {
	return &tokenGenerator{}
}
