package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// User-specific validation errors
var (
	ErrEmptyUserID       = errors.New("user ID cannot be empty")
	ErrEmptyUsername     = errors.New("username cannot be empty")
	ErrEmptyEmail        = errors.New("email cannot be empty")
	ErrPasswordTooShort  = errors.New("password must be at least 12 characters long")
	ErrPasswordTooLong   = errors.New("password must be at most 72 characters long")
	ErrEmptyPassword     = errors.New("password cannot be empty")
)

// User represents a registered user of the platform together with the
// running learning counters maintained by the reputation ledger.
//
// QuestionsAsked, AnswersGiven and TotalPoints are updated transactionally
// alongside journal entries; they are never written outside a ledger append.
// IsMentor is a cached flag that is re-derived inside the same transaction as
// every mentor-set mutation, so it cannot drift from the per-community
// mentor relations.
type User struct {
	ID             uuid.UUID `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	Password       string    `json:"-"` // Plaintext, only populated during registration
	HashedPassword string    `json:"-"`
	Bio            string    `json:"bio"`
	IsMentor       bool      `json:"is_mentor"`

	// Learning stats maintained by the reputation ledger.
	QuestionsAsked int `json:"questions_asked"`
	AnswersGiven   int `json:"answers_given"`
	TotalPoints    int `json:"total_points"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewUser creates a new User with the given username, email and plaintext
// password. The caller is responsible for hashing the password before the
// user is stored.
func NewUser(username, email, password string) (*User, error) {
	user := &User{
		ID:        uuid.New(),
		Username:  username,
		Email:     email,
		Password:  password,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks if the User has valid data.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return ErrEmptyUserID
	}

	if u.Username == "" {
		return ErrEmptyUsername
	}

	if u.Email == "" {
		return ErrEmptyEmail
	}

	if !validateEmailFormat(u.Email) {
		return ErrInvalidEmail
	}

	if u.Password != "" {
		// bcrypt truncates past 72 bytes, so cap there.
		if len(u.Password) < 12 {
			return ErrPasswordTooShort
		}
		if len(u.Password) > 72 {
			return ErrPasswordTooLong
		}
	} else if u.HashedPassword == "" {
		return ErrEmptyPassword
	}

	return nil
}

// ReputationScore computes the user's reputation from the running counters:
// total points plus 5 per question asked and 10 per answer given. It is
// recomputed on every read rather than cached, so it always reflects the
// latest ledger state.
func (u *User) ReputationScore() int {
	return u.TotalPoints + u.QuestionsAsked*5 + u.AnswersGiven*10
}
