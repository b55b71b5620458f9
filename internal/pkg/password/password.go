// Package password implements one-way password hashing and verification on
// top of bcrypt.
package password

import "golang.org/x/crypto/bcrypt"

// MinCost is the lowest work factor accepted; weaker configurations are
// silently raised to it.
const MinCost = bcrypt.DefaultCost

// Hasher hashes and verifies passwords with a fixed cost factor.
type Hasher struct {
	cost int
}

// NewHasher returns a Hasher with the given bcrypt cost. Costs below MinCost
// are clamped to MinCost.
func NewHasher(cost int) Hasher {
	if cost < MinCost {
		cost = MinCost
	}
	return Hasher{cost: cost}
}

// Hash returns the salted bcrypt hash of plain. It fails only on entropy or
// library faults.
func (h Hasher) Hash(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Verify reports whether plain matches the stored hash. Any mismatch or
// malformed hash yields false; Verify never panics.
func (h Hasher) Verify(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
