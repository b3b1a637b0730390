package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"clinicbook/config"
	"clinicbook/database"
	"clinicbook/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
)

// Seeds a demo doctor roster so the WhatsApp flow has something to book
// against. Wipes the doctors collection first.
func main() {
	config.LoadConfig()
	database.InitDB()
	doctorColl := database.DB().Collection("doctors")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if _, err := doctorColl.DeleteMany(ctx, bson.M{}); err != nil {
		log.Fatalf("Failed to clear doctors collection: %v", err)
	}

	weekdayHours := []models.WorkingHours{
		{Day: "Monday", StartTime: "09:00", EndTime: "17:00"},
		{Day: "Tuesday", StartTime: "09:00", EndTime: "17:00"},
		{Day: "Wednesday", StartTime: "09:00", EndTime: "17:00"},
		{Day: "Thursday", StartTime: "09:00", EndTime: "17:00"},
		{Day: "Friday", StartTime: "09:00", EndTime: "17:00"},
	}

	morningAndAfternoon := []string{
		"09:00 AM - 09:30 AM",
		"10:00 AM - 10:30 AM",
		"11:00 AM - 11:30 AM",
		"02:00 PM - 02:30 PM",
		"03:00 PM - 03:30 PM",
		"04:00 PM - 04:30 PM",
	}

	now := time.Now()
	roster := []models.Doctor{
		{
			Name:           "Dr. Amina Okafor",
			Specialization: "General Medicine",
			AvailableSlots: morningAndAfternoon,
			WorkingHours:   weekdayHours,
		},
		{
			Name:           "Dr. Samuel Kiptoo",
			Specialization: "Pediatrics",
			AvailableSlots: morningAndAfternoon[:4],
			WorkingHours:   weekdayHours[:3],
		},
		{
			Name:           "Dr. Grace Wanjiru",
			Specialization: "Dermatology",
			AvailableSlots: []string{"10:00 AM - 10:30 AM", "11:00 AM - 11:30 AM", "03:00 PM - 03:30 PM"},
			WorkingHours: []models.WorkingHours{
				{Day: "Wednesday", StartTime: "10:00", EndTime: "16:00"},
				{Day: "Thursday", StartTime: "10:00", EndTime: "16:00"},
				{Day: "Saturday", StartTime: "10:00", EndTime: "13:00"},
			},
		},
	}

	docs := make([]interface{}, 0, len(roster))
	for i := range roster {
		roster[i].ID = uuid.New().String()
		roster[i].AppointmentsBooked = []models.AppointmentRef{}
		roster[i].CreatedAt = now
		roster[i].UpdatedAt = now
		docs = append(docs, roster[i])
	}

	if _, err := doctorColl.InsertMany(ctx, docs); err != nil {
		log.Fatalf("Failed to seed doctors: %v", err)
	}

	fmt.Printf("Seeded %d doctors into %s\n", len(roster), config.AppConfig.DatabaseName)
	for _, d := range roster {
		fmt.Printf("  %s (%s) id=%s\n", d.Name, d.Specialization, d.ID)
	}
}
