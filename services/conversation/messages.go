package conversation

import (
	"fmt"
	"strings"

	"clinicbook/config"
	"clinicbook/models"
)

// All user-facing reply texts live here so the step handlers stay readable.

func msgWelcome() string {
	return fmt.Sprintf("🏥 Welcome to %s! Please choose:\n1. Book Appointment\n2. Help", config.AppConfig.ClinicName)
}

func msgCancelled() string {
	return "❌ Booking canceled. Type START to begin again."
}

func msgUnknownInput() string {
	return "❌ Invalid input. Type START to begin booking."
}

func msgInvalidService() string {
	return "❌ Invalid option. Please type 1 to book an appointment or 2 for help."
}

func msgHelp() string {
	return "ℹ️ I can book a doctor's appointment for you.\n" +
		"Reply 1 at the menu, then follow the prompts: date, doctor, time slot, reason and your name.\n" +
		"Type CANCEL at any point to stop.\n" +
		"Type BACK to return to the menu."
}

func msgAskDate() string {
	return "📅 Please enter your preferred date (YYYY-MM-DD):"
}

func msgInvalidDate() string {
	return "❌ Invalid date format. Please use YYYY-MM-DD:"
}

func msgPastDate() string {
	return "❌ That date has already passed. Please enter an upcoming date (YYYY-MM-DD):"
}

func msgNoDoctors() string {
	return "⚠️ No doctors available on this date. Please try another (YYYY-MM-DD):"
}

func msgDoctorList(doctors []models.DoctorSummary) string {
	var b strings.Builder
	b.WriteString("👨‍⚕️ Available Doctors:\n")
	for i, d := range doctors {
		fmt.Fprintf(&b, "%d. %s — %s (Available Slots: %s)\n", i+1, d.Name, d.Specialization, strings.Join(d.Slots, ", "))
	}
	b.WriteString("Reply with doctor number:")
	return b.String()
}

func msgInvalidDoctorChoice() string {
	return "❌ Invalid selection. Please choose a doctor number from the list:"
}

func msgDoctorGone(name string) string {
	return fmt.Sprintf("⚠️ %s is no longer available. Please choose another doctor from the list:", name)
}

func msgNoSlotsForDoctor(name string) string {
	return fmt.Sprintf("⚠️ No slots available for %s. Please choose another doctor:", name)
}

func msgSlotList(doctorName string, slots []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "⏰ Available Slots for %s:\n", doctorName)
	for i, slot := range slots {
		fmt.Fprintf(&b, "%d. Slot %s\n", i+1, slot)
	}
	b.WriteString("Reply with slot number:")
	return b.String()
}

func msgInvalidSlotChoice() string {
	return "❌ Invalid slot selection. Please choose a slot number from the list:"
}

func msgAskReason() string {
	return "📝 Please enter the reason for your appointment:"
}

func msgReasonTooShort() string {
	return "❌ The reason must be at least 5 characters long. Please provide a more detailed reason for your appointment:"
}

func msgReasonTooLong() string {
	return "❌ The reason must be at most 500 characters. Please shorten it:"
}

func msgAskName() string {
	return "👤 Please enter your full name for the booking:"
}

func msgConfirmSummary(s *models.Session) string {
	return fmt.Sprintf("📝 Please confirm your booking:\n"+
		"Doctor: %s (%s)\n"+
		"Date: %s\n"+
		"Slot: %s\n"+
		"Name: %s\n"+
		"Reason: %s\n\n"+
		"Reply:\n1. Confirm\n2. Cancel",
		s.DoctorName, s.DoctorSpecialization, s.Date, s.SelectedSlot, s.PatientName, s.Reason)
}

func msgBookingConfirmed(b *models.Booking) string {
	return fmt.Sprintf("✅ Booking confirmed!\n"+
		"📍 Clinic Address: %s\n"+
		"📅 Date: %s\n"+
		"⏰ Slot: %s\n"+
		"👨‍⚕️ Doctor: %s\n"+
		"📝 Reason: %s\n\n"+
		"You'll receive a reminder before your appointment.",
		config.AppConfig.ClinicAddress, b.Date, b.Time, b.Doctor.Name, b.Reason)
}

func msgDoctorVanished(name string) string {
	return fmt.Sprintf("⚠️ %s is no longer available at this clinic. Please enter another date (YYYY-MM-DD):", name)
}

func msgBookingAborted() string {
	return "❌ Booking canceled. Type START to begin again."
}

func msgConfirmRejected(err error) string {
	return fmt.Sprintf("❌ We couldn't confirm that booking (%v). Reply 1 to retry, or type CANCEL to start over.", err)
}

func msgSlotTaken(doctorName string, slots []string) string {
	var b strings.Builder
	b.WriteString("⚠️ Sorry, that slot was just booked by someone else.\n")
	fmt.Fprintf(&b, "⏰ Remaining slots for %s:\n", doctorName)
	for i, slot := range slots {
		fmt.Fprintf(&b, "%d. Slot %s\n", i+1, slot)
	}
	b.WriteString("Reply with slot number:")
	return b.String()
}

func msgSlotTakenNewDoctorList(doctors []models.DoctorSummary) string {
	return "⚠️ Sorry, that slot was just booked and that doctor is now fully booked.\n" + msgDoctorList(doctors)
}

func msgNoAvailabilityLeft() string {
	return "⚠️ Sorry, that slot was just booked and there is no availability left on that date. Type START to try another date."
}
