package model

import (
	"time"
)

type Sex string

const (
	SexMale   Sex = "male"
	SexFemale Sex = "female"
)

func (s Sex) Valid() bool {
	return s == SexMale || s == SexFemale
}

type User struct {
	ID           string    `db:"id"`
	Email        string    `db:"email"`
	Name         string    `db:"name"`
	PasswordHash string    `db:"password_hash"`
	Age          int       `db:"age"` // 0 when unknown
	Sex          Sex       `db:"sex"`
	CreatedAt    time.Time `db:"created_at"`
}

func (u *User) HasAge() bool {
	return u.Age > 0
}
