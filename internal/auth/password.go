package auth

import "golang.org/x/crypto/bcrypt"

// HashPassword returns a bcrypt digest of the password. The embedded random
// salt means two calls with the same input produce different digests, so
// equality must always go through CheckPassword.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether the password matches the stored digest.
// A wrong password is not an error, just false.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
