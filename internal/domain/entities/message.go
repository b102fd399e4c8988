// Package entities defines the core domain model for the NLU pipeline.
package entities

// Intent represents the categorical purpose of a guest message.
type Intent string

const (
	IntentGreeting            Intent = "greeting"
	IntentReservationInquiry  Intent = "reservation_inquiry"
	IntentPricingRequest      Intent = "pricing_request"
	IntentAvailabilityCheck   Intent = "availability_check"
	IntentAmenitiesInfo       Intent = "amenities_info"
	IntentRestaurantInfo      Intent = "restaurant_info"
	IntentWifiInfo            Intent = "wifi_info"
	IntentLocationInfo        Intent = "location_info"
	IntentCheckinCheckoutInfo Intent = "checkin_checkout_info"
	IntentPastaRotation       Intent = "pasta_rotation"
	IntentComplaint           Intent = "complaint"
	IntentThanks              Intent = "thanks"
	IntentUnknown             Intent = "unknown"
)

// ValidIntents returns all intent values the classifier can emit.
func ValidIntents() []Intent {
	return []Intent{
		IntentGreeting, IntentReservationInquiry, IntentPricingRequest,
		IntentAvailabilityCheck, IntentAmenitiesInfo, IntentRestaurantInfo,
		IntentWifiInfo, IntentLocationInfo, IntentCheckinCheckoutInfo,
		IntentPastaRotation, IntentComplaint, IntentThanks, IntentUnknown,
	}
}

// IsValid checks if the intent value is one of the defined constants.
func (i Intent) IsValid() bool {
	for _, v := range ValidIntents() {
		if i == v {
			return true
		}
	}
	return false
}

// EntityType tags an extracted entity with its kind.
type EntityType string

const (
	EntityDate     EntityType = "date"
	EntityAdults   EntityType = "adults"
	EntityChildren EntityType = "children"
	EntityNights   EntityType = "nights"
	EntityRoomType EntityType = "room_type"
	EntityMealPlan EntityType = "meal_plan"
	EntityNumber   EntityType = "number"
)

// Entity is a typed span of the original message with a normalized value:
// an ISO date, a stringified integer, or a canonical category code.
// Start and End are byte offsets into the original (non-normalized) text.
type Entity struct {
	Type       EntityType `json:"type"`
	Value      string     `json:"value"`
	Confidence float64    `json:"confidence"`
	Start      int        `json:"start"`
	End        int        `json:"end"`
}

// Sentiment is the overall tone of a message.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

// Language is the detected message language.
type Language string

const (
	LanguagePortuguese Language = "pt"
	LanguageEnglish    Language = "en"
	LanguageSpanish    Language = "es"
)

// Result is the structured interpretation of one guest message. It is a value
// object created once per Process call; entities appear in extraction-pass
// order (dates, then numbers, then categorical) and overlapping spans are kept
// as independent matches.
type Result struct {
	Intent     Intent    `json:"intent"`
	Confidence float64   `json:"confidence"`
	Entities   []Entity  `json:"entities"`
	Sentiment  Sentiment `json:"sentiment"`
	Language   Language  `json:"language"`
}
