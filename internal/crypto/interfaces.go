package crypto

//go:generate mockgen -source=interfaces.go -destination=../mock/token_cipher_mock.go -package=mock

// TokenCipher protects provider access tokens at rest. The authoritative
// store only ever sees the sealed form.
type TokenCipher interface {
	// Seal encrypts plaintext and returns a base64 blob (nonce || ciphertext).
	// additionalData binds the blob to its owner, e.g. the provider item id.
	Seal(plaintext, additionalData string) (string, error)

	// Open reverses Seal. It fails when the key, the blob or additionalData
	// does not match.
	Open(sealed, additionalData string) (string, error)
}
