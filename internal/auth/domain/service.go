package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*RegisterResult, error)
	Login(ctx context.Context, req LoginRequest) (*LoginResult, error)
	Logout(ctx context.Context, rawToken string) error
	Authenticate(ctx context.Context, rawToken string) (*Session, error)
	Me(ctx context.Context, userID snowflake.ID) (*UserResponse, error)
}

type RegisterRequest struct {
	Email            string `json:"email"`
	Password         string `json:"password"`
	FirstName        string `json:"first_name"`
	LastName         string `json:"last_name"`
	OrganizationName string `json:"organization_name"`
	UserAgent        string `json:"-"`
	IPAddress        string `json:"-"`
}

type LoginRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	UserAgent string `json:"-"`
	IPAddress string `json:"-"`
}

// RegisterResult carries the freshly created user, the organization
// opened for them, and an already-issued session token.
type RegisterResult struct {
	User           UserResponse `json:"user"`
	OrganizationID string       `json:"organization_id"`
	Role           string       `json:"role"`
	Token          string       `json:"token"`
	ExpiresAt      time.Time    `json:"expires_at"`
}

type LoginResult struct {
	User        UserResponse `json:"user"`
	Memberships []Membership `json:"memberships"`
	Token       string       `json:"token"`
	ExpiresAt   time.Time    `json:"expires_at"`
}

// Membership is the caller's role in one organization, resolved at login
// for display.
type Membership struct {
	OrganizationID string `json:"organization_id"`
	Role           string `json:"role"`
}

type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	CreatedAt time.Time `json:"created_at"`
}
