// Package service implements passphrase hashing and verification.
//
// Stored credentials use PBKDF2-HMAC-SHA256 with a per-credential random
// salt, persisted as "hash:salt" with both halves hex encoded. Values
// written before hashing was introduced are bare plaintext; verification
// still accepts them but new writes always hash.
package service

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/pbkdf2"

	credentialDomain "github.com/shimesaba-type0/secure-pdf-viewer-sub001/internal/credential/domain"
	apperrors "github.com/shimesaba-type0/secure-pdf-viewer-sub001/internal/errors"
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/internal/validation"
)

const (
	// Iterations is the PBKDF2 iteration count.
	Iterations = 100000

	// SaltSize is the salt length in bytes.
	SaltSize = 16

	// KeySize is the derived key length in bytes.
	KeySize = 32

	// MinPassphraseLength and MaxPassphraseLength bound accepted passphrases.
	MinPassphraseLength = 32
	MaxPassphraseLength = 128
)

// PassphraseManager defines the interface for credential derivation and
// verification.
type PassphraseManager interface {
	ValidateFormat(passphrase string) error
	Hash(passphrase string) (*credentialDomain.Credential, error)
	Verify(passphrase string, credential *credentialDomain.Credential) bool
	Encode(credential *credentialDomain.Credential) string
	Decode(stored string) *credentialDomain.Credential
}

// passphraseManager implements PassphraseManager.
type passphraseManager struct{}

// ValidateFormat checks the candidate against the length and character-set
// rules. It never inspects the stored credential.
func (p *passphraseManager) ValidateFormat(passphrase string) error {
	rule := validation.PassphraseFormat{
		MinLength: MinPassphraseLength,
		MaxLength: MaxPassphraseLength,
	}
	if err := rule.Validate(passphrase); err != nil {
		return apperrors.Wrap(credentialDomain.ErrInvalidFormat, err.Error())
	}
	return nil
}

// Hash derives a new credential with a fresh random salt.
func (p *passphraseManager) Hash(passphrase string) (*credentialDomain.Credential, error) {
	salt := make([]byte, SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, apperrors.Wrap(err, "failed to generate salt")
	}

	key := pbkdf2.Key([]byte(passphrase), salt, Iterations, KeySize, sha256.New)
	return &credentialDomain.Credential{
		Hash:      hex.EncodeToString(key),
		Salt:      hex.EncodeToString(salt),
		Algorithm: credentialDomain.PBKDF2SHA256,
	}, nil
}

// Verify reports whether the passphrase matches the credential. Comparison
// is constant time for both storage formats.
func (p *passphraseManager) Verify(
	passphrase string,
	credential *credentialDomain.Credential,
) bool {
	if credential.Algorithm == credentialDomain.LegacyPlaintext {
		return subtle.ConstantTimeCompare([]byte(passphrase), []byte(credential.Hash)) == 1
	}

	salt, err := hex.DecodeString(credential.Salt)
	if err != nil {
		return false
	}
	stored, err := hex.DecodeString(credential.Hash)
	if err != nil {
		return false
	}

	derived := pbkdf2.Key([]byte(passphrase), salt, Iterations, KeySize, sha256.New)
	return subtle.ConstantTimeCompare(derived, stored) == 1
}

// Encode serializes a hashed credential to its "hash:salt" storage form.
func (p *passphraseManager) Encode(credential *credentialDomain.Credential) string {
	return credential.Hash + ":" + credential.Salt
}

// Decode parses a stored value. Anything that is not a well-formed
// "hash:salt" pair is treated as a legacy plaintext credential.
func (p *passphraseManager) Decode(stored string) *credentialDomain.Credential {
	hash, salt, found := strings.Cut(stored, ":")
	if found && isHex(hash) && isHex(salt) && hash != "" && salt != "" {
		return &credentialDomain.Credential{
			Hash:      hash,
			Salt:      salt,
			Algorithm: credentialDomain.PBKDF2SHA256,
		}
	}
	return &credentialDomain.Credential{
		Hash:      stored,
		Algorithm: credentialDomain.LegacyPlaintext,
	}
}

// isHex reports whether s decodes as hex.
func isHex(s string) bool {
	_, err := hex.DecodeString(s)
	return err == nil
}

// NewPassphraseManager creates a new passphrase manager.
func NewPassphraseManager() PassphraseManager {
	return &passphraseManager{}
}
