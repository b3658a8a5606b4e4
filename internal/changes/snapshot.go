package changes

import (
	"encoding/json"
	"fmt"

	"github.com/angelmondragon/wedsite-backend/pkg/db/models"
)

// Snapshot is the editable content of an invitation, keyed by field identifier.
// List elements are kept as raw JSON so the comparison is shape agnostic.
type Snapshot struct {
	Text    map[string]string            `json:"text"`
	Arrays  map[string][]json.RawMessage `json:"arrays"`
	Toggles map[string]bool              `json:"toggles"`
}

// SnapshotOf captures the comparable content of an invitation.
func SnapshotOf(inv *models.Invitation) (Snapshot, error) {
	if inv == nil {
		return Snapshot{}, fmt.Errorf("snapshot: invitation is nil")
	}

	snap := Snapshot{
		Text: map[string]string{
			"partner_one_name":     inv.PartnerOneName,
			"partner_two_name":     inv.PartnerTwoName,
			"couple_contact_email": inv.CoupleContactEmail,
			"event_date":           inv.EventDate,
			"event_time":           inv.EventTime,
			"timezone":             inv.Timezone,
			"venue_name":           inv.VenueName,
			"venue_address":        inv.VenueAddress,
			"venue_city":           inv.VenueCity,
			"venue_state":          inv.VenueState,
			"welcome_message":      inv.WelcomeMessage,
			"dress_code":           inv.DressCode,
			"rsvp_url":             inv.RSVPURL,
			"registry_url":         inv.RegistryURL,
			"hotel_booking_url":    inv.HotelBookingURL,
			"primary_color":        inv.PrimaryColor,
			"secondary_color":      inv.SecondaryColor,
			"accent_color":         inv.AccentColor,
			"font_family":          inv.FontFamily,
		},
		Arrays: map[string][]json.RawMessage{},
		Toggles: map[string]bool{
			"show_countdown":   inv.ShowCountdown,
			"show_timeline":    inv.ShowTimeline,
			"show_venue_map":   inv.ShowVenueMap,
			"show_weather":     inv.ShowWeather,
			"show_attractions": inv.ShowAttractions,
			"show_dining":      inv.ShowDining,
			"show_shopping":    inv.ShowShopping,
			"show_lodging":     inv.ShowLodging,
			"show_faq":         inv.ShowFAQ,
			"show_rsvp":        inv.ShowRSVP,
			"show_registry":    inv.ShowRegistry,
			"show_stationery":  inv.ShowStationery,
			"show_dress_code":  inv.ShowDressCode,
		},
	}

	lists := map[string]any{
		"timeline_events":   inv.TimelineEvents,
		"attractions":       inv.Attractions,
		"dining":            inv.Dining,
		"shopping":          inv.Shopping,
		"lodging":           inv.Lodging,
		"faqs":              inv.FAQs,
		"stationery_images": inv.StationeryImages,
	}
	for field, list := range lists {
		elems, err := rawElements(list)
		if err != nil {
			return Snapshot{}, fmt.Errorf("snapshot %s: %w", field, err)
		}
		snap.Arrays[field] = elems
	}
	return snap, nil
}

// ParseSnapshot decodes a stored revision snapshot.
func ParseSnapshot(raw []byte) (Snapshot, error) {
	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("parse snapshot: %w", err)
	}
	return snap, nil
}

// Marshal encodes the snapshot for storage.
func (s Snapshot) Marshal() ([]byte, error) {
	return json.Marshal(s)
}

func rawElements(list any) ([]json.RawMessage, error) {
	buf, err := json.Marshal(list)
	if err != nil {
		return nil, err
	}
	elems := []json.RawMessage{}
	if err := json.Unmarshal(buf, &elems); err != nil {
		return nil, err
	}
	return elems, nil
}
