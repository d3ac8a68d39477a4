package suggest

import "strings"

// Categories is the NDIS support category list offered by the search box.
var Categories = []string{
	"Accommodation / Tenancy",
	"Assist Access / Maintain Employment",
	"Assist Life Stage, Transition",
	"Assist Personal Activities",
	"Assist-Travel / Transport",
	"Assistive Equipment - Recreation",
	"Assistive Prod - Household Task",
	"Behaviour Support",
	"Community Nursing Care",
	"Custom Prosthetics",
	"Daily Tasks / Shared Living",
	"Development-Life Skills",
	"Early Childhood Supports",
	"Exercise Physiology & Personal Training",
	"Group / Centre Activities",
	"Home Modification",
	"Household Tasks",
	"Innovative Community Participation",
	"Interpreting / Translation",
	"Participate Community",
	"Personal Activities High",
	"Personal Mobility Equipment",
	"Physical Wellbeing",
	"Plan Management",
	"Specialised Disability Accommodation",
	"Specialised Driver Training",
	"Specialised Hearing Services",
	"Specialised Supported Employment",
	"Support Coordination",
	"Therapeutic Supports",
	"Vehicle Modifications",
	"Vision Equipment",
}

// MatchCategories returns the categories containing text, case-insensitively.
// Blank text matches nothing.
func MatchCategories(text string) []string {
	needle := strings.ToLower(strings.TrimSpace(text))
	if needle == "" {
		return []string{}
	}
	out := []string{}
	for _, c := range Categories {
		if strings.Contains(strings.ToLower(c), needle) {
			out = append(out, c)
		}
	}
	return out
}
