package uid

// NumberID generates int64 identifiers for database entities.
type NumberID interface {
	// Generate returns a new unique int64 id.
	Generate() int64
}

// StringID generates string identifiers (correlation ids, jti).
type StringID interface {
	// Generate returns a new unique string id.
	Generate() string
}
