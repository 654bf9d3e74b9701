package hash

// Hash abstracts a one-way hash with verification.
type Hash interface {
	// Hash returns the encoded hash of the input string.
	Hash(str string) ([]byte, error)
	// Verify checks whether the plaintext string matches the given hash.
	Verify(hashed, str string) bool
}
