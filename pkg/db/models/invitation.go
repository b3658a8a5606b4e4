package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/wedsite-backend/pkg/enums"
	"github.com/angelmondragon/wedsite-backend/pkg/types"
)

// Invitation is a single wedding microsite owned by a planner.
type Invitation struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Slug         string    `gorm:"column:slug;not null;uniqueIndex"`
	PlannerID    uuid.UUID `gorm:"column:planner_id;type:uuid;not null;index"`
	PlannerEmail string    `gorm:"column:planner_email;not null;default:''"`

	PartnerOneName     string `gorm:"column:partner_one_name;not null;default:''"`
	PartnerTwoName     string `gorm:"column:partner_two_name;not null;default:''"`
	CoupleContactEmail string `gorm:"column:couple_contact_email;not null;default:''"`

	EventDate string `gorm:"column:event_date;not null;default:''"`
	EventTime string `gorm:"column:event_time;not null;default:''"`
	Timezone  string `gorm:"column:timezone;not null;default:''"`

	VenueName    string   `gorm:"column:venue_name;not null;default:''"`
	VenueAddress string   `gorm:"column:venue_address;not null;default:''"`
	VenueCity    string   `gorm:"column:venue_city;not null;default:''"`
	VenueState   string   `gorm:"column:venue_state;not null;default:''"`
	VenuePlaceID string   `gorm:"column:venue_place_id;not null;default:''"`
	VenueLat     *float64 `gorm:"column:venue_lat"`
	VenueLng     *float64 `gorm:"column:venue_lng"`

	WelcomeMessage string `gorm:"column:welcome_message;not null;default:''"`
	DressCode      string `gorm:"column:dress_code;not null;default:''"`

	RSVPURL         string `gorm:"column:rsvp_url;not null;default:''"`
	RegistryURL     string `gorm:"column:registry_url;not null;default:''"`
	HotelBookingURL string `gorm:"column:hotel_booking_url;not null;default:''"`

	TimelineEvents   types.JSONList[types.TimelineEvent]  `gorm:"column:timeline_events;type:jsonb;not null"`
	Attractions      types.JSONList[types.Recommendation] `gorm:"column:attractions;type:jsonb;not null"`
	Dining           types.JSONList[types.Recommendation] `gorm:"column:dining;type:jsonb;not null"`
	Shopping         types.JSONList[types.Recommendation] `gorm:"column:shopping;type:jsonb;not null"`
	Lodging          types.JSONList[types.Recommendation] `gorm:"column:lodging;type:jsonb;not null"`
	FAQs             types.JSONList[types.FAQ]            `gorm:"column:faqs;type:jsonb;not null"`
	StationeryImages types.JSONList[string]               `gorm:"column:stationery_images;type:jsonb;not null"`

	PrimaryColor   string `gorm:"column:primary_color;not null;default:''"`
	SecondaryColor string `gorm:"column:secondary_color;not null;default:''"`
	AccentColor    string `gorm:"column:accent_color;not null;default:''"`
	FontFamily     string `gorm:"column:font_family;not null;default:''"`

	ShowCountdown   bool `gorm:"column:show_countdown;not null"`
	ShowTimeline    bool `gorm:"column:show_timeline;not null"`
	ShowVenueMap    bool `gorm:"column:show_venue_map;not null"`
	ShowWeather     bool `gorm:"column:show_weather;not null"`
	ShowAttractions bool `gorm:"column:show_attractions;not null"`
	ShowDining      bool `gorm:"column:show_dining;not null"`
	ShowShopping    bool `gorm:"column:show_shopping;not null"`
	ShowLodging     bool `gorm:"column:show_lodging;not null"`
	ShowFAQ         bool `gorm:"column:show_faq;not null"`
	ShowRSVP        bool `gorm:"column:show_rsvp;not null"`
	ShowRegistry    bool `gorm:"column:show_registry;not null"`
	ShowStationery  bool `gorm:"column:show_stationery;not null"`
	ShowDressCode   bool `gorm:"column:show_dress_code;not null"`

	ApprovalStatus              *enums.ApprovalStatus `gorm:"column:approval_status;type:approval_status"`
	ApprovalToken               *string               `gorm:"column:approval_token;uniqueIndex"`
	ApprovalRequestedAt         *time.Time            `gorm:"column:approval_requested_at"`
	ApprovalApprovedAt          *time.Time            `gorm:"column:approval_approved_at"`
	IsPublished                 bool                  `gorm:"column:is_published;not null"`
	UpdatesAcknowledgedByGuests bool                  `gorm:"column:updates_acknowledged_by_guests;not null"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Invitation) TableName() string { return "invitations" }

// BeforeCreate assigns the primary key client side so SQLite and Postgres behave alike.
func (i *Invitation) BeforeCreate(*gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// Status folds the nullable column into the workflow state set.
func (i *Invitation) Status() enums.ApprovalStatus {
	return enums.NormalizeApprovalStatus(i.ApprovalStatus)
}
