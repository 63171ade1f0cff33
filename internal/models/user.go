package models

import "time"

type User struct {
	ID             int64     `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email,omitempty"`
	PasswordHash   string    `json:"-"`
	Bio            string    `json:"bio,omitempty"`
	Location       string    `json:"location,omitempty"`
	Website        string    `json:"website,omitempty"`
	ProfilePicture string    `json:"profile_picture,omitempty"`
	IsPrivate      bool      `json:"is_private"`
	JoinedAt       time.Time `json:"joined_at"`
}

// PublicUser is the subset of User safe to show to other members.
type PublicUser struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, Username: u.Username}
}

// Profile is a user's page: the user plus their posts and graph counts.
type Profile struct {
	User      PublicUser `json:"user"`
	Bio       string     `json:"bio,omitempty"`
	Location  string     `json:"location,omitempty"`
	Website   string     `json:"website,omitempty"`
	JoinedAt  time.Time  `json:"joined_at"`
	Followers int        `json:"followers"`
	Following int        `json:"following"`
	Posts     []Post     `json:"posts"`
}
