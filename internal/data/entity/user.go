package entity

import "time"

type User struct {
	BaseSimple
	Email    string    `db:"email"`
	Login    string    `db:"login"`
	Name     string    `db:"name"`
	Birthday time.Time `db:"birthday"`
}
