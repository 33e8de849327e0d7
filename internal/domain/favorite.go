package domain

import "time"

type FavoritePlayer struct {
	ID         int64
	UserID     string
	PlayerID   int
	PlayerName string
	Team       string
	Position   string
	CreatedAt  time.Time
}
