package models

import (
	"time"

	"github.com/google/uuid"
)

// UserType distinguishes the two marketplace roles.
type UserType string

const (
	UserTypeClient     UserType = "client"
	UserTypeFreelancer UserType = "freelancer"
)

// Valid reports whether t is a known role.
func (t UserType) Valid() bool {
	return t == UserTypeClient || t == UserTypeFreelancer
}

// User represents a user record in the database
type User struct {
	UserID          uuid.UUID `json:"user_id" db:"user_id"`                   // Primary key
	Name            string    `json:"name" db:"name"`                         // Display name
	Email           string    `json:"email" db:"email"`                       // Unique login email
	PasswordHash    string    `json:"-" db:"password_hash"`                   // bcrypt hash
	UserType        UserType  `json:"user_type" db:"user_type"`               // client or freelancer
	ReputationScore float64   `json:"reputation_score" db:"reputation_score"` // Average rating received
	Bio             *string   `json:"bio,omitempty" db:"bio"`
	ProfileImage    *string   `json:"profile_image,omitempty" db:"profile_image"`
	Phone           *string   `json:"phone,omitempty" db:"phone"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

// UserStatistics summarises a user's marketplace history.
type UserStatistics struct {
	TotalProjects int     `json:"total_projects"`
	AverageRating float64 `json:"average_rating"`
	TotalReviews  int     `json:"total_reviews"`
}

// UserProfile is the public view of a user.
type UserProfile struct {
	User              *User          `json:"user"`
	Wallet            *Wallet        `json:"wallet,omitempty"`
	Statistics        UserStatistics `json:"statistics"`
	RecentReviews     []Review       `json:"recent_reviews"`
	CompletedProjects []Project      `json:"completed_projects"`
}

// ProfileUpdate holds the editable profile fields; nil means unchanged.
type ProfileUpdate struct {
	Name         *string `json:"name"`
	Phone        *string `json:"phone"`
	Bio          *string `json:"bio"`
	ProfileImage *string `json:"profile_image"`
}

// Caller is the authenticated identity an operation runs on behalf of.
type Caller struct {
	UserID   uuid.UUID
	UserType UserType
}

// IsFreelancer reports whether the caller acts as a freelancer.
func (c Caller) IsFreelancer() bool {
	return c.UserType == UserTypeFreelancer
}

// IsClient reports whether the caller acts as a client.
func (c Caller) IsClient() bool {
	return c.UserType == UserTypeClient
}

// RegisterInput holds the fields of a new account.
type RegisterInput struct {
	Name     string   `json:"name"`
	Email    string   `json:"email"`
	Password string   `json:"password"`
	UserType UserType `json:"user_type"`
	Phone    *string  `json:"phone"`
}

// Session is returned by register and login.
type Session struct {
	Token  string  `json:"access_token,omitempty"`
	User   *User   `json:"user"`
	Wallet *Wallet `json:"wallet,omitempty"`
}
