package listing

import (
	"strings"

	"directory-bknd/internal/models"
)

const defaultPinDescription = "Service provider"

// Pins maps locations to map markers. It only reads the fields a marker needs.
func Pins(locs []models.Location) []models.Pin {
	pins := make([]models.Pin, 0, len(locs))
	for i := range locs {
		loc := &locs[i]
		desc := loc.Description
		if desc == "" && len(loc.Categories) > 0 {
			desc = strings.Join(loc.Categories, ", ")
		}
		if desc == "" {
			desc = defaultPinDescription
		}
		pins = append(pins, models.Pin{
			ID:          loc.ID,
			Lat:         loc.Latitude,
			Lng:         loc.Longitude,
			Title:       loc.Title,
			Description: desc,
			Address:     loc.FormattedAddress(),
			Link:        "/listing/" + loc.ID,
		})
	}
	return pins
}
