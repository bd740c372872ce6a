package user

import "time"

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleClient Role = "client"
)

type User struct {
	ID        string    `json:"uid" firestore:"-"`
	Email     string    `json:"email" firestore:"email"`
	Role      Role      `json:"role" firestore:"role"`
	CreatedAt time.Time `json:"createdAt" firestore:"createdAt,serverTimestamp"`
}

func (u *User) SetID(id string) {
	u.ID = id
}
