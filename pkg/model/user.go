package model

import "time"

type User struct {
	ID           string    `json:"id,omitempty" bson:"_id,omitempty"`
	Email        string    `json:"email" bson:"email"`
	Name         string    `json:"name" bson:"name"`
	PhoneNumber  string    `json:"phone_number,omitempty" bson:"phone_number,omitempty"`
	PasswordHash string    `json:"-" bson:"password_hash"`
	Role         Role      `json:"role" bson:"role"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
}

// UserView is the public shape of a user.
type UserView struct {
	ID          string            `json:"id"`
	Email       string            `json:"email"`
	Name        string            `json:"name"`
	PhoneNumber string            `json:"phone_number,omitempty"`
	Role        Role              `json:"role"`
	Bookings    []*BookingDetails `json:"bookings,omitempty"`
}

func (u *User) View() *UserView {
	if u == nil {
		return nil
	}
	return &UserView{
		ID:          u.ID,
		Email:       u.Email,
		Name:        u.Name,
		PhoneNumber: u.PhoneNumber,
		Role:        u.Role,
	}
}

type RegisterRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=100"`
	Email       string `json:"email" validate:"required,email,max=254"`
	Password    string `json:"password" validate:"required,min=6,max=72"`
	PhoneNumber string `json:"phone_number" validate:"omitempty,e164"`
	Role        string `json:"role" validate:"omitempty,oneof=ADMIN USER admin user"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResult struct {
	Token          string `json:"token"`
	Role           Role   `json:"role"`
	ExpirationTime string `json:"expiration_time"`
}
