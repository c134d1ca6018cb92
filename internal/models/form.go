package models

import "time"

// FormMountResponse is returned when a lead-capture form mounts. The token
// must be echoed back on interaction and submit calls.
type FormMountResponse struct {
	FormID    string    `json:"formId"`
	Token     string    `json:"token"`
	MountedAt time.Time `json:"mountedAt"`
}

// FormInteractionRequest records the first field-change event of a form.
type FormInteractionRequest struct {
	FormToken string `json:"formToken" binding:"required"`
}
