package models

import "time"

// Step identifies where a conversation currently is. Dispatch on Step is a
// typed switch; an unknown value falls through to a generic reprompt.
type Step string

const (
	StepGreeting       Step = "greeting"
	StepSelectService  Step = "select_service"
	StepHelp           Step = "help"
	StepSelectDate     Step = "select_date"
	StepSelectDoctor   Step = "select_doctor"
	StepSelectSlot     Step = "select_slot"
	StepGetReason      Step = "get_reason"
	StepGetName        Step = "get_name"
	StepConfirmBooking Step = "confirm_booking"
)

// Session is the durable per-phone-number conversation state. One document
// per phone number; mutated exactly once per turn by the conversation
// engine and deleted on confirmation or cancellation.
//
// Snapshot fields (AvailableDoctors, AvailableSlots) are only meaningful
// for the steps that read them; restarting the flow replaces the whole
// document so an abandoned path cannot leak into a confirmed booking.
type Session struct {
	PhoneNumber          string          `bson:"phoneNumber" json:"phoneNumber"`
	Step                 Step            `bson:"step" json:"step"`
	Service              string          `bson:"service,omitempty" json:"service,omitempty"`
	Date                 string          `bson:"date,omitempty" json:"date,omitempty"`
	DoctorID             string          `bson:"doctorId,omitempty" json:"doctorId,omitempty"`
	DoctorName           string          `bson:"doctorName,omitempty" json:"doctorName,omitempty"`
	DoctorSpecialization string          `bson:"doctorSpecialization,omitempty" json:"doctorSpecialization,omitempty"`
	AvailableDoctors     []DoctorSummary `bson:"availableDoctors,omitempty" json:"availableDoctors,omitempty"`
	AvailableSlots       []string        `bson:"availableSlots,omitempty" json:"availableSlots,omitempty"`
	SelectedSlot         string          `bson:"selectedSlot,omitempty" json:"selectedSlot,omitempty"`
	Reason               string          `bson:"reason,omitempty" json:"reason,omitempty"`
	PatientName          string          `bson:"patientName,omitempty" json:"patientName,omitempty"`
	CreatedAt            time.Time       `bson:"created_at" json:"created_at"`
	UpdatedAt            time.Time       `bson:"updated_at" json:"updated_at"`
}
