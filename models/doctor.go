package models

import "time"

// WorkingHours describes one weekday entry of a doctor's calendar.
type WorkingHours struct {
	Day       string `bson:"day" json:"day"`             // e.g. "Monday"
	StartTime string `bson:"startTime" json:"startTime"` // e.g. "09:00"
	EndTime   string `bson:"endTime" json:"endTime"`     // e.g. "17:00"
}

// AppointmentRef is the denormalized copy of a booking embedded in the
// doctor document. It is written and removed only by the booking repository,
// inside the same transaction as the booking row itself.
type AppointmentRef struct {
	BookingID string `bson:"bookingId" json:"bookingId"`
	Date      string `bson:"date" json:"date"`
	Time      string `bson:"time" json:"time"`
	Source    string `bson:"source" json:"source"`
}

// Doctor is the authoritative record of a doctor's template slots,
// working days and booked appointments.
type Doctor struct {
	ID                 string           `bson:"id" json:"id"`
	Name               string           `bson:"name" json:"name"`
	Specialization     string           `bson:"specialization" json:"specialization"`
	AvailableSlots     []string         `bson:"availableSlots" json:"availableSlots"` // canonical template slots, e.g. "09:00 AM - 09:30 AM"
	WorkingHours       []WorkingHours   `bson:"workingHours" json:"workingHours"`
	AppointmentsBooked []AppointmentRef `bson:"appointmentsBooked" json:"appointmentsBooked"`
	CreatedAt          time.Time        `bson:"created_at" json:"created_at"`
	UpdatedAt          time.Time        `bson:"updated_at" json:"updated_at"`
}

// WorksOn reports whether the doctor has a working-hours entry for the
// given weekday name (e.g. "Monday").
func (d *Doctor) WorksOn(day string) bool {
	for _, wh := range d.WorkingHours {
		if wh.Day == day {
			return true
		}
	}
	return false
}

// DoctorSummary is the point-in-time snapshot of a candidate doctor kept in
// a conversation session while the patient picks from a numbered list.
type DoctorSummary struct {
	ID             string   `bson:"id" json:"id"`
	Name           string   `bson:"name" json:"name"`
	Specialization string   `bson:"specialization" json:"specialization"`
	Slots          []string `bson:"slots" json:"slots"`
}
