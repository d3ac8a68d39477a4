package carousel

import "directory-bknd/internal/models"

var defaultImages = []string{
	"https://images.unsplash.com/photo-1581091226033-d5c48150dbaa?auto=format&fit=crop&w=2070&q=80",
	"https://images.unsplash.com/photo-1581091877018-dac6a371d50f?auto=format&fit=crop&w=2070&q=80",
	"https://images.unsplash.com/photo-1581092918056-0c4c3acd3789?auto=format&fit=crop&w=2070&q=80",
}

// DefaultSlides is shown for providers without hero content of their own.
func DefaultSlides() []models.Slide {
	return []models.Slide{
		{
			Title:       "Empowering Independence",
			Description: "We provide comprehensive support services that help individuals with disabilities live more independent and fulfilling lives.",
			ButtonText:  "Explore Services",
			ButtonLink:  "#services",
			Image:       defaultImages[0],
		},
		{
			Title:       "Personalized Care Plans",
			Description: "Our experienced team creates customized care plans designed to meet your unique needs and goals.",
			ButtonText:  "Learn More",
			ButtonLink:  "#about",
			Image:       defaultImages[1],
		},
		{
			Title:       "Trusted NDIS Provider",
			Description: "As a registered NDIS provider, we maintain the highest standards of care while helping you maximize your funding.",
			ButtonText:  "Contact Us",
			ButtonLink:  "#contact",
			Image:       defaultImages[2],
		},
	}
}

// ResolveSlides picks the provider's slides when it has any, else the
// defaults. Slides without an image get the first default image.
func ResolveSlides(own []models.Slide) []models.Slide {
	if len(own) == 0 {
		return DefaultSlides()
	}
	out := make([]models.Slide, len(own))
	copy(out, own)
	for i := range out {
		if out[i].Image == "" {
			out[i].Image = defaultImages[0]
		}
	}
	return out
}
