package petsdk

import (
	"strings"
	"time"
)

// ============================================================================
// Members & authentication
// ============================================================================

type SignupRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
	Name     string `json:"name,omitempty"`
	Phone    string `json:"phone,omitempty"`
}

type SignupResponse struct {
	ID int64 `json:"id"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse carries the bearer token the frontend persists.
type LoginResponse struct {
	AccessToken string `json:"accessToken"`
	MemberID    int64  `json:"memberId"`
	Username    string `json:"username"`
	Role        string `json:"role"`
}

// Profile is the authenticated member's record (GET /members).
type Profile struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Name     string `json:"name,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Role     string `json:"role"`
}

// IsAdmin reports whether role names the admin role ("ADMIN" or "ROLE_ADMIN").
func IsAdmin(role string) bool {
	role = strings.ToUpper(strings.TrimSpace(role))
	return role == "ADMIN" || role == "ROLE_ADMIN"
}

// IsAdmin reports whether the member holds the admin role.
func (p Profile) IsAdmin() bool { return IsAdmin(p.Role) }

type UpdateProfileRequest struct {
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
	Phone string `json:"phone,omitempty"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// AuthCheck is the payload of GET /auth/check.
type AuthCheck struct {
	MemberID int64  `json:"memberId"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// ============================================================================
// Common codes (admin)
// ============================================================================

type CodeGroup struct {
	ID          string `json:"codeGroupId"`
	Name        string `json:"codeGroupName"`
	Description string `json:"description,omitempty"`
	Use         bool   `json:"useYn"`
}

type CodeDetail struct {
	ID          string `json:"codeDetailId"`
	CodeGroupID string `json:"codeGroupId"`
	Name        string `json:"codeDetailName"`
	SortOrder   int    `json:"sortOrder"`
	Use         bool   `json:"useYn"`
}

// ============================================================================
// Pets, pet sitters, bookings
// ============================================================================

type Pet struct {
	ID      int64   `json:"id"`
	Name    string  `json:"name"`
	Species string  `json:"species"`
	Breed   string  `json:"breed,omitempty"`
	Age     int     `json:"age,omitempty"`
	Weight  float64 `json:"weight,omitempty"`
	Notes   string  `json:"notes,omitempty"`
}

type PetSitter struct {
	ID           int64    `json:"id"`
	MemberID     int64    `json:"memberId"`
	Name         string   `json:"name"`
	Introduction string   `json:"introduction,omitempty"`
	Experience   string   `json:"experience,omitempty"`
	Services     []string `json:"services,omitempty"`
	Regions      []string `json:"regions,omitempty"`
}

type RegisterPetSitterRequest struct {
	Introduction string   `json:"introduction"`
	Experience   string   `json:"experience,omitempty"`
	Services     []string `json:"services,omitempty"`
	Regions      []string `json:"regions,omitempty"`
}

type Booking struct {
	ID          int64     `json:"id"`
	PetSitterID int64     `json:"petSitterId"`
	PetID       int64     `json:"petId"`
	StartAt     time.Time `json:"startAt"`
	EndAt       time.Time `json:"endAt"`
	Status      string    `json:"status"`
	Request     string    `json:"request,omitempty"`
}

type CreateBookingRequest struct {
	PetSitterID int64     `json:"petSitterId"`
	PetID       int64     `json:"petId"`
	StartAt     time.Time `json:"startAt"`
	EndAt       time.Time `json:"endAt"`
	Request     string    `json:"request,omitempty"`
}
