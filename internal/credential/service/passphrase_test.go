package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	credentialDomain "github.com/shimesaba-type0/secure-pdf-viewer-sub001/internal/credential/domain"
	apperrors "github.com/shimesaba-type0/secure-pdf-viewer-sub001/internal/errors"
)

func TestValidateFormat(t *testing.T) {
	manager := NewPassphraseManager()

	t.Run("AcceptsMinimumLength", func(t *testing.T) {
		assert.NoError(t, manager.ValidateFormat(strings.Repeat("a", 32)))
	})

	t.Run("AcceptsMaximumLength", func(t *testing.T) {
		assert.NoError(t, manager.ValidateFormat(strings.Repeat("a", 128)))
	})

	t.Run("AcceptsFullCharset", func(t *testing.T) {
		assert.NoError(t, manager.ValidateFormat("abcXYZ0123456789_-abcXYZ0123456789_-"))
	})

	t.Run("RejectsTooShort", func(t *testing.T) {
		err := manager.ValidateFormat(strings.Repeat("a", 31))
		assert.ErrorIs(t, err, credentialDomain.ErrInvalidFormat)
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})

	t.Run("RejectsTooLong", func(t *testing.T) {
		assert.Error(t, manager.ValidateFormat(strings.Repeat("a", 129)))
	})

	t.Run("RejectsForbiddenCharacters", func(t *testing.T) {
		for _, bad := range []string{
			strings.Repeat("a", 31) + "!",
			strings.Repeat("a", 31) + " ",
			strings.Repeat("a", 31) + "é",
		} {
			assert.Error(t, manager.ValidateFormat(bad), "expected %q to be rejected", bad)
		}
	})
}

func TestHashAndVerify(t *testing.T) {
	manager := NewPassphraseManager()
	passphrase := strings.Repeat("a", 40)

	t.Run("RoundTrip", func(t *testing.T) {
		credential, err := manager.Hash(passphrase)
		require.NoError(t, err)
		assert.Equal(t, credentialDomain.PBKDF2SHA256, credential.Algorithm)
		assert.Len(t, credential.Hash, KeySize*2)
		assert.Len(t, credential.Salt, SaltSize*2)

		assert.True(t, manager.Verify(passphrase, credential))
		assert.False(t, manager.Verify(strings.Repeat("b", 40), credential))
	})

	t.Run("SaltsAreUnique", func(t *testing.T) {
		first, err := manager.Hash(passphrase)
		require.NoError(t, err)
		second, err := manager.Hash(passphrase)
		require.NoError(t, err)

		assert.NotEqual(t, first.Salt, second.Salt)
		assert.NotEqual(t, first.Hash, second.Hash)
	})

	t.Run("EncodeDecodeRoundTrip", func(t *testing.T) {
		credential, err := manager.Hash(passphrase)
		require.NoError(t, err)

		stored := manager.Encode(credential)
		assert.Contains(t, stored, ":")

		decoded := manager.Decode(stored)
		assert.Equal(t, credentialDomain.PBKDF2SHA256, decoded.Algorithm)
		assert.Equal(t, credential.Hash, decoded.Hash)
		assert.Equal(t, credential.Salt, decoded.Salt)
		assert.True(t, manager.Verify(passphrase, decoded))
	})
}

func TestDecodeLegacy(t *testing.T) {
	manager := NewPassphraseManager()

	t.Run("BareStringIsLegacy", func(t *testing.T) {
		decoded := manager.Decode("old-plaintext-passphrase")
		assert.Equal(t, credentialDomain.LegacyPlaintext, decoded.Algorithm)
		assert.Equal(t, "old-plaintext-passphrase", decoded.Hash)
	})

	t.Run("NonHexHalvesAreLegacy", func(t *testing.T) {
		decoded := manager.Decode("not-hex:also-not-hex")
		assert.Equal(t, credentialDomain.LegacyPlaintext, decoded.Algorithm)
		assert.Equal(t, "not-hex:also-not-hex", decoded.Hash)
	})

	t.Run("LegacyVerification", func(t *testing.T) {
		decoded := manager.Decode("old-plaintext-passphrase")
		assert.True(t, manager.Verify("old-plaintext-passphrase", decoded))
		assert.False(t, manager.Verify("wrong", decoded))
	})
}
