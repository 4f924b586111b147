package domain

// Algorithm identifies the AEAD cipher an election key was created for.
//
// Both supported algorithms use 256-bit keys, 96-bit nonces and a 128-bit
// authentication tag, so the EncryptedVote layout is the same for either.
type Algorithm string

const (
	// AESGCM is AES-256-GCM, preferred on CPUs with AES-NI.
	AESGCM Algorithm = "aes-gcm"

	// ChaCha20 is ChaCha20-Poly1305, preferred where AES hardware support is absent.
	ChaCha20 Algorithm = "chacha20-poly1305"
)

const (
	// KeySize is the byte length of master keys and election keys.
	KeySize = 32

	// NonceSize is the byte length of the per-encryption nonce.
	NonceSize = 12
)

// ParseAlgorithm validates an algorithm name.
func ParseAlgorithm(name string) (Algorithm, error) {
	switch Algorithm(name) {
	case AESGCM, ChaCha20:
		return Algorithm(name), nil
	default:
		return "", ErrUnsupportedAlgorithm
	}
}
