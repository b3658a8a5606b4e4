package changes

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// TextFields are compared as trimmed strings, in report order. A field
// trimmed to empty is never reported.
var TextFields = []string{
	"partner_one_name",
	"partner_two_name",
	"couple_contact_email",
	"event_date",
	"event_time",
	"timezone",
	"venue_name",
	"venue_address",
	"venue_city",
	"venue_state",
	"welcome_message",
	"dress_code",
	"rsvp_url",
	"registry_url",
	"hotel_booking_url",
	"primary_color",
	"secondary_color",
	"accent_color",
	"font_family",
}

// ArrayFields are ordered JSON lists compared element by element.
var ArrayFields = []string{
	"timeline_events",
	"attractions",
	"dining",
	"shopping",
	"lodging",
	"faqs",
	"stationery_images",
}

// ToggleFields are the section visibility flags.
var ToggleFields = []string{
	"show_countdown",
	"show_timeline",
	"show_venue_map",
	"show_weather",
	"show_attractions",
	"show_dining",
	"show_shopping",
	"show_lodging",
	"show_faq",
	"show_rsvp",
	"show_registry",
	"show_stationery",
	"show_dress_code",
}

var labels = map[string]string{
	"partner_one_name":     "Partner One Name",
	"partner_two_name":     "Partner Two Name",
	"couple_contact_email": "Couple Contact Email",
	"event_date":           "Wedding Date",
	"event_time":           "Ceremony Time",
	"venue_name":           "Venue",
	"venue_address":        "Venue Address",
	"welcome_message":      "Welcome Message",
	"rsvp_url":             "RSVP Link",
	"registry_url":         "Registry Link",
	"hotel_booking_url":    "Hotel Booking Link",
	"timeline_events":      "Timeline",
	"attractions":          "Local Attractions",
	"faqs":                 "FAQs",
	"stationery_images":    "Stationery",
	"show_countdown":       "Countdown Timer",
	"show_venue_map":       "Venue Map",
	"show_faq":             "FAQ Section",
	"show_rsvp":            "RSVP Button",
	"show_weather":         "Weather Forecast",
}

var titleCaser = cases.Title(language.English)

// Label returns the presentation label for a field identifier.
func Label(field string) string {
	if label, ok := labels[field]; ok {
		return label
	}
	return humanize(field)
}

func humanize(field string) string {
	name := strings.TrimPrefix(field, "show_")
	name = strings.NewReplacer("_", " ", "-", " ").Replace(name)
	return titleCaser.String(strings.Join(strings.Fields(name), " "))
}

func contains(fields []string, field string) bool {
	for _, candidate := range fields {
		if candidate == field {
			return true
		}
	}
	return false
}
