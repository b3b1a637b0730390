package models

// ReminderPayload is the serialized body of a queued appointment reminder.
type ReminderPayload struct {
	BookingID   string `json:"bookingId"`
	PhoneNumber string `json:"phoneNumber"`
	Body        string `json:"body"`
	FireDate    string `json:"fireDate"`
}
