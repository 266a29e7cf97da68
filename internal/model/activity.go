package model

import (
	"time"
)

// Activity is one logged nutrition or exercise entry.
type Activity struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	Unit      Unit      `db:"unit"`
	Amount    float64   `db:"amount"`
	LoggedOn  time.Time `db:"logged_on"`
	CreatedAt time.Time `db:"created_at"`
}

// DayTotal is the summed amount of one unit on one day.
type DayTotal struct {
	Date   time.Time `json:"date"`
	Amount float64   `json:"amount"`
}
