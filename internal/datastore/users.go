// users.go: database operations for the user table. Kept for parity with
// the original schema, no HTTP route authenticates against it yet.
package datastore

import (
	"fmt"

	"github.com/tphakala/plantarium-go/internal/errors"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// GetUserByEmail retrieves a user by email address.
func (ds *DataStore) GetUserByEmail(email string) (User, error) {
	var user User
	if err := ds.DB.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return User{}, errors.NotFoundError("user", email)
		}
		return User{}, fmt.Errorf("getting user %s: %w", email, err)
	}
	return user, nil
}

// CreateUser persists a new user record.
func (ds *DataStore) CreateUser(user *User) error {
	if user.Email == "" {
		return errors.ValidationError("user email must not be empty")
	}
	if user.PasswordHash == "" {
		return errors.ValidationError("user password hash must not be empty")
	}
	if err := ds.DB.Create(user).Error; err != nil {
		return errors.New(fmt.Errorf("saving user %s: %w", user.Email, err)).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Build()
	}
	return nil
}

// HashPassword derives a bcrypt hash for storage in User.PasswordHash.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword compares a bcrypt hash with a candidate password.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
