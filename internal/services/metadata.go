package services

import (
	"fmt"
	"strings"

	"directory-bknd/internal/models"
)

const (
	siteName          = "Nearheal"
	defaultLogoPath   = "/near_heal_logo.jpeg"
	ogImageWidth      = 1200
	ogImageHeight     = 630
	notFoundTitle     = "Provider Not Found | Nearheal"
	notFoundDesc      = "The requested healthcare provider could not be found."
	fallbackPageTitle = "Healthcare Provider | Nearheal"
	fallbackPageDesc  = "Find healthcare providers and medical services on Nearheal."
)

type MetaImage struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Alt    string `json:"alt"`
}

// PageMetadata is the SEO data for a provider detail page.
type PageMetadata struct {
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Keywords    []string    `json:"keywords,omitempty"`
	Canonical   string      `json:"canonical,omitempty"`
	SiteName    string      `json:"siteName"`
	Locale      string      `json:"locale"`
	Images      []MetaImage `json:"images"`
	Index       bool        `json:"index"`
}

// ProviderMetadata builds the page metadata for a location. appURL is the
// absolute site root used for canonical links and relative images.
func ProviderMetadata(appURL, slug string, loc *models.Location) PageMetadata {
	appURL = strings.TrimRight(appURL, "/")
	if loc == nil {
		return NotFoundMetadata(appURL)
	}

	desc := loc.Description
	if desc == "" {
		desc = fmt.Sprintf("Learn more about %s and their healthcare services on Nearheal. Find contact information, services, and more.", loc.Title)
	}

	keywords := append([]string{loc.Title}, loc.Categories...)
	keywords = append(keywords, "healthcare provider", "medical services", "NDIS services", "Australia healthcare")

	return PageMetadata{
		Title:       loc.Title + " - Healthcare Provider | Nearheal",
		Description: desc,
		Keywords:    keywords,
		Canonical:   appURL + "/listing/" + slug,
		SiteName:    siteName,
		Locale:      "en_AU",
		Images:      providerImages(appURL, loc),
		Index:       true,
	}
}

func NotFoundMetadata(appURL string) PageMetadata {
	appURL = strings.TrimRight(appURL, "/")
	return PageMetadata{
		Title:       notFoundTitle,
		Description: notFoundDesc,
		SiteName:    siteName,
		Locale:      "en_AU",
		Images:      []MetaImage{image(appURL, defaultLogoPath, siteName)},
	}
}

// FallbackMetadata is used when the provider could not be loaded at all.
func FallbackMetadata(appURL string) PageMetadata {
	appURL = strings.TrimRight(appURL, "/")
	return PageMetadata{
		Title:       fallbackPageTitle,
		Description: fallbackPageDesc,
		SiteName:    siteName,
		Locale:      "en_AU",
		Images:      []MetaImage{image(appURL, defaultLogoPath, siteName)},
	}
}

// providerImages prefers the gallery, then the logo, then the site logo.
func providerImages(appURL string, loc *models.Location) []MetaImage {
	if len(loc.Gallery) > 0 {
		out := make([]MetaImage, 0, len(loc.Gallery))
		for i, img := range loc.Gallery {
			out = append(out, image(appURL, img, fmt.Sprintf("%s - Image %d", loc.Title, i+1)))
		}
		return out
	}
	if loc.Logo != "" {
		return []MetaImage{image(appURL, loc.Logo, loc.Title)}
	}
	return []MetaImage{image(appURL, defaultLogoPath, "Nearheal Provider")}
}

func image(appURL, src, alt string) MetaImage {
	if !strings.HasPrefix(src, "http") {
		src = appURL + src
	}
	return MetaImage{URL: src, Width: ogImageWidth, Height: ogImageHeight, Alt: alt}
}
