package models

import "time"

// Booking source channels.
const (
	SourceWhatsApp = "WhatsApp"
	SourceWeb      = "Web"
)

// DoctorRef is the doctor snapshot mirrored onto a booking so listings do
// not need a join back to the doctors collection.
type DoctorRef struct {
	ID             string `bson:"id" json:"id"`
	Name           string `bson:"name" json:"name"`
	Specialization string `bson:"specialization" json:"specialization"`
}

// Booking represents a confirmed appointment. The tuple (doctor.id, date,
// time) is unique across the collection, enforced by a compound index.
type Booking struct {
	ID          string    `bson:"id" json:"id"`
	PatientName string    `bson:"patientName" json:"patientName"`
	PhoneNumber string    `bson:"phoneNumber" json:"phoneNumber"`
	Reason      string    `bson:"reason" json:"reason"`
	Service     string    `bson:"service,omitempty" json:"service,omitempty"`
	Doctor      DoctorRef `bson:"doctor" json:"doctor"`
	Date        string    `bson:"date" json:"date"` // "YYYY-MM-DD"
	Time        string    `bson:"time" json:"time"` // canonical slot, e.g. "02:00 PM - 02:30 PM"
	Source      string    `bson:"source" json:"source"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
}

// BookingInput carries the fields required to create a booking.
type BookingInput struct {
	PatientName string    `json:"patientName"`
	PhoneNumber string    `json:"phoneNumber"`
	Reason      string    `json:"reason"`
	Service     string    `json:"service"`
	Doctor      DoctorRef `json:"doctor"`
	Date        string    `json:"date"`
	Time        string    `json:"time"`
	Source      string    `json:"source"`
}
