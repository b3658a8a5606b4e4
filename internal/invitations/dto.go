package invitations

import (
	"strings"
	"time"

	"github.com/angelmondragon/wedsite-backend/internal/changes"
	"github.com/angelmondragon/wedsite-backend/pkg/db/models"
	"github.com/angelmondragon/wedsite-backend/pkg/types"
	"github.com/google/uuid"
)

// Content is the editable part of an invitation. It is both the update
// payload and the content block of every response.
type Content struct {
	PartnerOneName     string `json:"partnerOneName" validate:"required,max=120"`
	PartnerTwoName     string `json:"partnerTwoName" validate:"required,max=120"`
	CoupleContactEmail string `json:"coupleContactEmail,omitempty" validate:"omitempty,email,max=254"`

	EventDate string `json:"eventDate" validate:"omitempty,datetime=2006-01-02"`
	EventTime string `json:"eventTime" validate:"max=64"`
	Timezone  string `json:"timezone" validate:"omitempty,timezone"`

	VenueName    string   `json:"venueName" validate:"max=200"`
	VenueAddress string   `json:"venueAddress" validate:"max=500"`
	VenueCity    string   `json:"venueCity" validate:"max=120"`
	VenueState   string   `json:"venueState" validate:"max=120"`
	VenuePlaceID string   `json:"venuePlaceId" validate:"max=300"`
	VenueLat     *float64 `json:"venueLat" validate:"omitempty,latitude"`
	VenueLng     *float64 `json:"venueLng" validate:"omitempty,longitude"`

	WelcomeMessage string `json:"welcomeMessage" validate:"max=4000"`
	DressCode      string `json:"dressCode" validate:"max=200"`

	RSVPURL         string `json:"rsvpUrl" validate:"omitempty,url"`
	RegistryURL     string `json:"registryUrl" validate:"omitempty,url"`
	HotelBookingURL string `json:"hotelBookingUrl" validate:"omitempty,url"`

	TimelineEvents   types.JSONList[types.TimelineEvent]  `json:"timelineEvents" validate:"max=50,dive"`
	Attractions      types.JSONList[types.Recommendation] `json:"attractions" validate:"max=50,dive"`
	Dining           types.JSONList[types.Recommendation] `json:"dining" validate:"max=50,dive"`
	Shopping         types.JSONList[types.Recommendation] `json:"shopping" validate:"max=50,dive"`
	Lodging          types.JSONList[types.Recommendation] `json:"lodging" validate:"max=50,dive"`
	FAQs             types.JSONList[types.FAQ]            `json:"faqs" validate:"max=50,dive"`
	StationeryImages types.JSONList[string]               `json:"stationeryImages" validate:"max=20,dive,url"`

	PrimaryColor   string `json:"primaryColor" validate:"omitempty,hexcolor"`
	SecondaryColor string `json:"secondaryColor" validate:"omitempty,hexcolor"`
	AccentColor    string `json:"accentColor" validate:"omitempty,hexcolor"`
	FontFamily     string `json:"fontFamily" validate:"max=80"`

	ShowCountdown   bool `json:"showCountdown"`
	ShowTimeline    bool `json:"showTimeline"`
	ShowVenueMap    bool `json:"showVenueMap"`
	ShowWeather     bool `json:"showWeather"`
	ShowAttractions bool `json:"showAttractions"`
	ShowDining      bool `json:"showDining"`
	ShowShopping    bool `json:"showShopping"`
	ShowLodging     bool `json:"showLodging"`
	ShowFAQ         bool `json:"showFaq"`
	ShowRSVP        bool `json:"showRsvp"`
	ShowRegistry    bool `json:"showRegistry"`
	ShowStationery  bool `json:"showStationery"`
	ShowDressCode   bool `json:"showDressCode"`
}

// CreateInput is the create payload: content plus an optional slug.
type CreateInput struct {
	Slug string `json:"slug" validate:"omitempty,max=80"`
	Content
}

// Planner identifies the caller from the verified bearer token.
type Planner struct {
	ID    uuid.UUID
	Email string
}

// InvitationDTO is the planner view. The approval token is never included.
type InvitationDTO struct {
	ID                          uuid.UUID  `json:"id"`
	Slug                        string     `json:"slug"`
	PlannerID                   uuid.UUID  `json:"plannerId"`
	PlannerEmail                string     `json:"plannerEmail,omitempty"`
	ApprovalStatus              string     `json:"approvalStatus"`
	ApprovalRequestedAt         *time.Time `json:"approvalRequestedAt,omitempty"`
	ApprovalApprovedAt          *time.Time `json:"approvalApprovedAt,omitempty"`
	IsPublished                 bool       `json:"isPublished"`
	UpdatesAcknowledgedByGuests bool       `json:"updatesAcknowledgedByGuests"`
	PublicURL                   string     `json:"publicUrl"`
	CreatedAt                   time.Time  `json:"createdAt"`
	UpdatedAt                   time.Time  `json:"updatedAt"`
	Content
}

// PublicInvitationDTO is what guests, and couples reviewing a proof, see.
// InvitationID is only set on a proof view, where the couple needs it to
// request edits.
type PublicInvitationDTO struct {
	InvitationID *uuid.UUID `json:"invitationId,omitempty"`
	Slug         string     `json:"slug"`
	IsPublished  bool       `json:"isPublished"`
	Preview      bool       `json:"preview"`
	Content
}

type UpdateResult struct {
	Invitation    InvitationDTO   `json:"invitation"`
	ChangeSummary changes.Summary `json:"changeSummary"`
}

func contentOf(inv *models.Invitation) Content {
	return Content{
		PartnerOneName:     inv.PartnerOneName,
		PartnerTwoName:     inv.PartnerTwoName,
		CoupleContactEmail: inv.CoupleContactEmail,
		EventDate:          inv.EventDate,
		EventTime:          inv.EventTime,
		Timezone:           inv.Timezone,
		VenueName:          inv.VenueName,
		VenueAddress:       inv.VenueAddress,
		VenueCity:          inv.VenueCity,
		VenueState:         inv.VenueState,
		VenuePlaceID:       inv.VenuePlaceID,
		VenueLat:           inv.VenueLat,
		VenueLng:           inv.VenueLng,
		WelcomeMessage:     inv.WelcomeMessage,
		DressCode:          inv.DressCode,
		RSVPURL:            inv.RSVPURL,
		RegistryURL:        inv.RegistryURL,
		HotelBookingURL:    inv.HotelBookingURL,
		TimelineEvents:     inv.TimelineEvents,
		Attractions:        inv.Attractions,
		Dining:             inv.Dining,
		Shopping:           inv.Shopping,
		Lodging:            inv.Lodging,
		FAQs:               inv.FAQs,
		StationeryImages:   inv.StationeryImages,
		PrimaryColor:       inv.PrimaryColor,
		SecondaryColor:     inv.SecondaryColor,
		AccentColor:        inv.AccentColor,
		FontFamily:         inv.FontFamily,
		ShowCountdown:      inv.ShowCountdown,
		ShowTimeline:       inv.ShowTimeline,
		ShowVenueMap:       inv.ShowVenueMap,
		ShowWeather:        inv.ShowWeather,
		ShowAttractions:    inv.ShowAttractions,
		ShowDining:         inv.ShowDining,
		ShowShopping:       inv.ShowShopping,
		ShowLodging:        inv.ShowLodging,
		ShowFAQ:            inv.ShowFAQ,
		ShowRSVP:           inv.ShowRSVP,
		ShowRegistry:       inv.ShowRegistry,
		ShowStationery:     inv.ShowStationery,
		ShowDressCode:      inv.ShowDressCode,
	}
}

// apply copies the editable content onto the model, trimming free text.
func (c Content) apply(inv *models.Invitation) {
	inv.PartnerOneName = strings.TrimSpace(c.PartnerOneName)
	inv.PartnerTwoName = strings.TrimSpace(c.PartnerTwoName)
	inv.CoupleContactEmail = strings.TrimSpace(c.CoupleContactEmail)
	inv.EventDate = strings.TrimSpace(c.EventDate)
	inv.EventTime = strings.TrimSpace(c.EventTime)
	inv.Timezone = strings.TrimSpace(c.Timezone)
	inv.VenueName = strings.TrimSpace(c.VenueName)
	inv.VenueAddress = strings.TrimSpace(c.VenueAddress)
	inv.VenueCity = strings.TrimSpace(c.VenueCity)
	inv.VenueState = strings.TrimSpace(c.VenueState)
	inv.VenuePlaceID = strings.TrimSpace(c.VenuePlaceID)
	inv.VenueLat = c.VenueLat
	inv.VenueLng = c.VenueLng
	inv.WelcomeMessage = strings.TrimSpace(c.WelcomeMessage)
	inv.DressCode = strings.TrimSpace(c.DressCode)
	inv.RSVPURL = strings.TrimSpace(c.RSVPURL)
	inv.RegistryURL = strings.TrimSpace(c.RegistryURL)
	inv.HotelBookingURL = strings.TrimSpace(c.HotelBookingURL)
	inv.TimelineEvents = nonNil(c.TimelineEvents)
	inv.Attractions = nonNil(c.Attractions)
	inv.Dining = nonNil(c.Dining)
	inv.Shopping = nonNil(c.Shopping)
	inv.Lodging = nonNil(c.Lodging)
	inv.FAQs = nonNil(c.FAQs)
	inv.StationeryImages = nonNil(c.StationeryImages)
	inv.PrimaryColor = strings.TrimSpace(c.PrimaryColor)
	inv.SecondaryColor = strings.TrimSpace(c.SecondaryColor)
	inv.AccentColor = strings.TrimSpace(c.AccentColor)
	inv.FontFamily = strings.TrimSpace(c.FontFamily)
	inv.ShowCountdown = c.ShowCountdown
	inv.ShowTimeline = c.ShowTimeline
	inv.ShowVenueMap = c.ShowVenueMap
	inv.ShowWeather = c.ShowWeather
	inv.ShowAttractions = c.ShowAttractions
	inv.ShowDining = c.ShowDining
	inv.ShowShopping = c.ShowShopping
	inv.ShowLodging = c.ShowLodging
	inv.ShowFAQ = c.ShowFAQ
	inv.ShowRSVP = c.ShowRSVP
	inv.ShowRegistry = c.ShowRegistry
	inv.ShowStationery = c.ShowStationery
	inv.ShowDressCode = c.ShowDressCode
}

func nonNil[T any](list types.JSONList[T]) types.JSONList[T] {
	if list == nil {
		return types.JSONList[T]{}
	}
	return list
}
