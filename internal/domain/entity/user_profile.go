package entity

import (
	"fmt"
	"strings"
)

// BodyMeasurements are optional body dimensions in centimeters.
type BodyMeasurements struct {
	Bust  *float64 `json:"bust,omitempty"`
	Waist *float64 `json:"waist,omitempty"`
	Hips  *float64 `json:"hips,omitempty"`
}

func (m BodyMeasurements) IsEmpty() bool {
	return m.Bust == nil && m.Waist == nil && m.Hips == nil
}

// UserProfile is the single per-device profile record. It is never deleted,
// only replaced or reset to the zero value.
type UserProfile struct {
	FullBodyImageData []byte           `json:"fullBodyImageData,omitempty"`
	Gender            *Gender          `json:"gender,omitempty"`
	Height            *float64         `json:"height,omitempty"` // cm
	Weight            *float64         `json:"weight,omitempty"` // kg
	Measurements      BodyMeasurements `json:"measurements"`
}

func (p UserProfile) HasFullBodyImage() bool {
	return len(p.FullBodyImageData) > 0
}

func (p UserProfile) HasBasicInfo() bool {
	return p.Height != nil || p.Weight != nil || p.Gender != nil
}

func (p UserProfile) HasMeasurements() bool {
	return !p.Measurements.IsEmpty()
}

// BodyDescription renders the profile as a short prompt fragment for the
// generator. Returns "" when nothing is filled in.
func (p UserProfile) BodyDescription() string {
	var parts []string
	if p.Gender != nil {
		parts = append(parts, string(*p.Gender))
	}
	if p.Height != nil {
		parts = append(parts, fmt.Sprintf("height %dcm", int(*p.Height)))
	}
	if p.Weight != nil {
		parts = append(parts, fmt.Sprintf("weight %dkg", int(*p.Weight)))
	}
	if p.Measurements.Bust != nil {
		parts = append(parts, fmt.Sprintf("bust %dcm", int(*p.Measurements.Bust)))
	}
	if p.Measurements.Waist != nil {
		parts = append(parts, fmt.Sprintf("waist %dcm", int(*p.Measurements.Waist)))
	}
	if p.Measurements.Hips != nil {
		parts = append(parts, fmt.Sprintf("hips %dcm", int(*p.Measurements.Hips)))
	}
	return strings.Join(parts, ", ")
}
