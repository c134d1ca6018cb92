package models

import "time"

// SessionFormat is the delivery format of a facilitated session.
type SessionFormat string

const (
	FormatOnline  SessionFormat = "online"
	FormatOffline SessionFormat = "offline"
)

// Geography is a display tag on the configuration. It does not participate
// in pricing (see internal/pricing for the versioned formula).
type Geography string

const (
	GeographyKazakhstan Geography = "kazakhstan"
	GeographyGeorgia    Geography = "georgia"
	GeographyBelarus    Geography = "belarus"
	GeographyRussia     Geography = "russia"
)

// AddOnKey identifies one of the fixed add-on toggles. The universe is
// closed: these four keys and nothing else, never extended at runtime.
type AddOnKey string

const (
	AddOnExtraInterviews        AddOnKey = "extraInterviews"
	AddOnAdditionalFacilitation AddOnKey = "additionalFacilitation"
	AddOnFollowUpCalls          AddOnKey = "followUpCalls"
	AddOnDeepDocumentation      AddOnKey = "deepDocumentation"
)

// AddOnKeys returns the fixed add-on universe in catalog order.
func AddOnKeys() []AddOnKey {
	return []AddOnKey{
		AddOnExtraInterviews,
		AddOnAdditionalFacilitation,
		AddOnFollowUpCalls,
		AddOnDeepDocumentation,
	}
}

// AddOnSelection maps each add-on key to its toggle state.
type AddOnSelection map[AddOnKey]bool

// NewAddOnSelection returns a selection with every add-on switched off.
func NewAddOnSelection() AddOnSelection {
	sel := make(AddOnSelection, len(AddOnKeys()))
	for _, key := range AddOnKeys() {
		sel[key] = false
	}
	return sel
}

// Clone returns an independent copy of the selection.
func (s AddOnSelection) Clone() AddOnSelection {
	out := make(AddOnSelection, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Participant count domain for the slider control.
const (
	MinParticipants = 5
	MaxParticipants = 15
)

// CalculatorConfig is the current calculator configuration.
type CalculatorConfig struct {
	Participants int            `json:"participants"`
	Format       SessionFormat  `json:"format"`
	Geography    Geography      `json:"geography,omitempty"`
	AddOns       AddOnSelection `json:"addOns"`
}

// DefaultCalculatorConfig returns the configuration a freshly mounted
// calculator starts with: 8 participants, online, all add-ons off.
func DefaultCalculatorConfig() CalculatorConfig {
	return CalculatorConfig{
		Participants: 8,
		Format:       FormatOnline,
		AddOns:       NewAddOnSelection(),
	}
}

// Clone returns an independent copy of the configuration.
func (c CalculatorConfig) Clone() CalculatorConfig {
	out := c
	out.AddOns = c.AddOns.Clone()
	return out
}

// PriceBreakdown is derived from a CalculatorConfig. It is never mutated
// directly, only recomputed. Invariant: Total == Base + AddOnsTotal.
type PriceBreakdown struct {
	Base        int `json:"base"`
	AddOnsTotal int `json:"addOns"`
	Total       int `json:"total"`
}

// CalculatorSession is the shared calculator state: the configuration plus
// the HasInteracted flag that gates whether pricing context is attached to
// a lead submission.
type CalculatorSession struct {
	ID            string           `json:"sessionId"`
	Config        CalculatorConfig `json:"config"`
	HasInteracted bool             `json:"hasInteracted"`
	CreatedAt     time.Time        `json:"createdAt"`
	UpdatedAt     time.Time        `json:"updatedAt"`
}

// CalculatorUpdateRequest carries a partial configuration change. Nil fields
// are left untouched. AddOns lists only the toggles being changed; keys
// outside the fixed universe are rejected.
type CalculatorUpdateRequest struct {
	Participants *int            `json:"participants" binding:"omitempty,min=5,max=15"`
	Format       *string         `json:"format" binding:"omitempty,oneof=online offline"`
	Geography    *string         `json:"geography" binding:"omitempty,oneof=kazakhstan georgia belarus russia"`
	AddOns       map[string]bool `json:"addOns"`
}

// CalculatorStateResponse is returned by every calculator endpoint: the
// configuration together with its freshly computed breakdown.
type CalculatorStateResponse struct {
	SessionID     string           `json:"sessionId"`
	Config        CalculatorConfig `json:"config"`
	Pricing       PriceBreakdown   `json:"pricing"`
	HasInteracted bool             `json:"hasInteracted"`
}
