package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"clinicbook/config"
	"clinicbook/cron"
	"clinicbook/database"
	bookingRepo "clinicbook/database/repository/booking"
	doctorRepo "clinicbook/database/repository/doctor"
	sessionRepo "clinicbook/database/repository/session"
	"clinicbook/handlers"
	"clinicbook/middleware"
	"clinicbook/routes"
	"clinicbook/services/availability"
	"clinicbook/services/booking"
	"clinicbook/services/conversation"
	"clinicbook/services/doctor"
	"clinicbook/services/notification"
	"clinicbook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	utils.InitializeLogger()
	logger := utils.GetLogger()
	defer logger.Sync()

	database.InitDB()
	utils.InitRedis()

	// Repositories.
	doctors := doctorRepo.NewMongoDoctorRepo()
	bookings := bookingRepo.NewMongoBookingRepo()
	sessions := sessionRepo.NewMongoSessionRepo()

	for name, fn := range map[string]func() error{
		"doctors":  doctors.EnsureIndexes,
		"bookings": bookings.EnsureIndexes,
		"sessions": sessions.EnsureIndexes,
	} {
		if err := fn(); err != nil {
			logger.Fatal("Failed to ensure indexes", zap.String("collection", name), zap.Error(err))
		}
	}

	// Services.
	doctorSvc := &doctor.DefaultDoctorService{Repo: doctors}
	bookingSvc := &booking.DefaultBookingService{Repo: bookings}
	availabilitySvc := &availability.DefaultAvailabilityService{
		Doctors: doctors,
		Ledger:  bookingSvc,
	}

	sender := notification.NewTwilioWhatsAppSender()
	scheduler := notification.NewAsynqReminderScheduler()
	defer scheduler.Client.Close()

	conversationSvc := &conversation.DefaultConversationService{
		Sessions:     sessions,
		Availability: availabilitySvc,
		Ledger:       bookingSvc,
		Reminders:    scheduler,
		Locks:        utils.NewTurnLock(utils.GetLockClient()),
	}

	// Reminder delivery worker.
	cron.InitReminderWorker(sender)

	// Handlers.
	webhookHandler := handlers.NewWebhookHandler(conversationSvc)
	doctorHandler := handlers.NewDoctorHandler(doctorSvc, availabilitySvc)
	bookingHandler := handlers.NewBookingHandler(bookingSvc)

	hb := &handlers.HandlerBundle{
		HandleIncoming: webhookHandler.HandleIncoming,

		CreateDoctorHandler:          doctorHandler.CreateDoctorHandler,
		GetDoctorByIDHandler:         doctorHandler.GetDoctorByIDHandler,
		GetAllDoctorsHandler:         doctorHandler.GetAllDoctorsHandler,
		DeleteDoctorHandler:          doctorHandler.DeleteDoctorHandler,
		GetDoctorAvailabilityHandler: doctorHandler.GetDoctorAvailabilityHandler,

		CreateBookingHandler: bookingHandler.CreateBookingHandler,
		ListBookingsHandler:  bookingHandler.ListBookingsHandler,
		CancelBookingHandler: bookingHandler.CancelBookingHandler,
	}

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(middleware.RateLimitMiddleware())

	routes.RegisterRoutes(router, hb)

	srv := &http.Server{
		Addr:    ":" + config.AppConfig.AppPort,
		Handler: router,
	}

	go func() {
		logger.Info("Starting server", zap.String("port", config.AppConfig.AppPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Forced shutdown", zap.Error(err))
	}

	logger.Info("Server exited cleanly")
}
