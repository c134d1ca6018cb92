package pricing

import "github.com/stratsession/stratsession-api/internal/models"

// AddOnOption describes one add-on for the calculator UI.
type AddOnOption struct {
	Key         models.AddOnKey `json:"key"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Price       int             `json:"price"`
}

// RegionOption describes one geography display tag. Regions do not affect
// pricing under formula v2.
type RegionOption struct {
	Value models.Geography `json:"value"`
	Label string           `json:"label"`
	Tag   string           `json:"tag,omitempty"`
}

// Catalog is everything the frontend needs to render the calculator.
type Catalog struct {
	PricingVersion  string         `json:"pricingVersion"`
	MinParticipants int            `json:"minParticipants"`
	MaxParticipants int            `json:"maxParticipants"`
	Formats         []string       `json:"formats"`
	AddOns          []AddOnOption  `json:"addOns"`
	Regions         []RegionOption `json:"regions"`
}

// Options returns the calculator catalog.
func Options() Catalog {
	return Catalog{
		PricingVersion:  Version,
		MinParticipants: models.MinParticipants,
		MaxParticipants: models.MaxParticipants,
		Formats:         []string{string(models.FormatOnline), string(models.FormatOffline)},
		AddOns: []AddOnOption{
			{
				Key:         models.AddOnExtraInterviews,
				Title:       "Extra Discovery Interviews",
				Description: "+3 stakeholder interviews before session",
				Price:       AddOnPrice(models.AddOnExtraInterviews),
			},
			{
				Key:         models.AddOnAdditionalFacilitation,
				Title:       "Additional Facilitation Block",
				Description: "Extended session time (+ half day)",
				Price:       AddOnPrice(models.AddOnAdditionalFacilitation),
			},
			{
				Key:         models.AddOnFollowUpCalls,
				Title:       "Post-Session Follow-up",
				Description: "3 check-in calls over 30 days",
				Price:       AddOnPrice(models.AddOnFollowUpCalls),
			},
			{
				Key:         models.AddOnDeepDocumentation,
				Title:       "Deep Documentation",
				Description: "Comprehensive written deliverables",
				Price:       AddOnPrice(models.AddOnDeepDocumentation),
			},
		},
		Regions: []RegionOption{
			{Value: models.GeographyKazakhstan, Label: "Kazakhstan", Tag: "Priority"},
			{Value: models.GeographyGeorgia, Label: "Georgia", Tag: "Priority"},
			{Value: models.GeographyBelarus, Label: "Belarus"},
			{Value: models.GeographyRussia, Label: "Russia"},
		},
	}
}
