package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Favorite is a saved association between a user and a location.
type Favorite struct {
	bun.BaseModel `bun:"table:favorites,alias:fav"`

	ID         string    `bun:"id,pk,type:uuid" json:"favoriteId"`
	UserID     string    `bun:"user_id,notnull" json:"userId"`
	LocationID string    `bun:"location_id,notnull" json:"locationId"`
	CreatedAt  time.Time `bun:"created_at,notnull,default:current_timestamp" json:"createdAt"`
}

type FavoriteRef struct {
	LocationID string `bun:"location_id" json:"locationId"`
	FavoriteID string `bun:"id" json:"favoriteId"`
}

// ToggleResult reports the outcome of a toggle along with the refetched set.
type ToggleResult struct {
	Favorited  bool          `json:"favorited"`
	FavoriteID string        `json:"favoriteId,omitempty"`
	Favorites  []FavoriteRef `json:"favorites"`
}
