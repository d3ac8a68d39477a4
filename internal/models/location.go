package models

import (
	"slices"
	"time"

	"github.com/uptrace/bun"
)

type ClaimStatus string

const (
	ClaimStatusUnclaimed ClaimStatus = "unclaimed"
	ClaimStatusClaimed   ClaimStatus = "claimed"
)

// GoogleAddress is the structured address captured from places autocomplete.
type GoogleAddress struct {
	Formatted string `json:"formatted"`
	PlaceID   string `json:"placeId,omitempty"`
	City      string `json:"city,omitempty"`
	State     string `json:"state,omitempty"`
	Postcode  string `json:"postcode,omitempty"`
	Country   string `json:"country,omitempty"`
}

// Slide is one hero carousel entry.
type Slide struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Image       string `json:"image"`
	ButtonText  string `json:"buttonText"`
	ButtonLink  string `json:"buttonLink"`
}

type HeroContent struct {
	SlideContents []Slide `json:"slideContents"`
}

// Location is a listed provider. Rows are owned by the admin system; the
// directory only reads them.
type Location struct {
	bun.BaseModel `bun:"table:locations,alias:loc"`

	ID            string         `bun:"id,pk" json:"id"`
	Title         string         `bun:"title,notnull" json:"title"`
	Slug          string         `bun:"slug,unique,notnull" json:"slug"`
	Description   string         `bun:"description" json:"description"`
	Categories    []string       `bun:"categories,array" json:"categories"`
	Address       string         `bun:"address" json:"address"`
	GoogleAddress *GoogleAddress `bun:"google_address,type:jsonb" json:"googleAddress"`
	City          string         `bun:"city" json:"city"`
	Latitude      float64        `bun:"latitude" json:"latitude"`
	Longitude     float64        `bun:"longitude" json:"longitude"`
	PriceFrom     *float64       `bun:"price_from" json:"priceFrom"`
	PriceTo       *float64       `bun:"price_to" json:"priceTo"`
	Gallery       []string       `bun:"gallery,array" json:"gallery"`
	Logo          string         `bun:"logo" json:"logo"`
	Phone         string         `bun:"phone" json:"phone"`
	Email         string         `bun:"email" json:"email"`
	ClaimStatus   ClaimStatus    `bun:"claim_status,notnull,default:'unclaimed'" json:"claimStatus"`
	HeroContent   *HeroContent   `bun:"hero_content,type:jsonb" json:"contentHero,omitempty"`
	CreatedAt     time.Time      `bun:"created_at,notnull,default:current_timestamp" json:"createdAt"`
	UpdatedAt     time.Time      `bun:"updated_at,notnull,default:current_timestamp" json:"updatedAt"`

	// only populated by the favorites variant of the search
	FavoriteID *string `bun:"favorite_id,scanonly" json:"favoriteId,omitempty"`
}

// FormattedAddress prefers the structured google address over the free text one.
func (l *Location) FormattedAddress() string {
	if l.GoogleAddress != nil && l.GoogleAddress.Formatted != "" {
		return l.GoogleAddress.Formatted
	}
	return l.Address
}

// Slides returns the provider's own hero slides, if any.
func (l *Location) Slides() []Slide {
	if l.HeroContent == nil {
		return nil
	}
	return l.HeroContent.SlideContents
}

// MaxPage bounds page numbers so (page-1)*limit offsets stay far inside an int.
const MaxPage = 1 << 20

// LocationQuery is the paginated search request.
type LocationQuery struct {
	Page       int      `json:"page"`
	Limit      int      `json:"limit"`
	Search     string   `json:"search,omitempty"`
	City       string   `json:"city,omitempty"`
	Categories []string `json:"categories,omitempty"`
	Title      string   `json:"title,omitempty"`
	PriceFrom  *float64 `json:"priceFrom,omitempty"`
	PriceTo    *float64 `json:"priceTo,omitempty"`
	UserID     string   `json:"userId,omitempty"`
}

// Equal reports whether both queries ask for the same page of results.
// Nil and empty category lists are the same filter.
func (q LocationQuery) Equal(o LocationQuery) bool {
	return q.Page == o.Page &&
		q.Limit == o.Limit &&
		q.Search == o.Search &&
		q.City == o.City &&
		q.Title == o.Title &&
		q.UserID == o.UserID &&
		slices.Equal(q.Categories, o.Categories) &&
		sameFloat(q.PriceFrom, o.PriceFrom) &&
		sameFloat(q.PriceTo, o.PriceTo)
}

func sameFloat(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// LocationPage is the paginated search response.
type LocationPage struct {
	Data       []Location `json:"data"`
	Total      int        `json:"total"`
	TotalPages int        `json:"totalPages"`
}

// Pin is a map marker derived from a location's coordinates.
type Pin struct {
	ID          string  `json:"id"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Address     string  `json:"address"`
	Link        string  `json:"link"`
}
