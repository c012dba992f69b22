package entities

import "time"

type Review struct {
	ID        int64
	ProductID int64
	Name      string
	Email     string
	Rating    int
	Comment   string
	CreatedAt time.Time
}
