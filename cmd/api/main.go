package main

import (
	"log"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/businessofone/crm-backend/internal/config"
	"github.com/businessofone/crm-backend/internal/infra/database"
	"github.com/businessofone/crm-backend/internal/infra/http/handlers"
	"github.com/businessofone/crm-backend/internal/infra/http/middleware"
	"github.com/businessofone/crm-backend/internal/infra/integration"
	"github.com/businessofone/crm-backend/internal/infra/mail"
	"github.com/businessofone/crm-backend/internal/infra/queue"
	"github.com/businessofone/crm-backend/internal/usecase"
)

func main() {
	godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.NewDBConnection(cfg.Database.URL)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	rabbitMQ, err := queue.NewRabbitMQ(cfg.RabbitMQ.User, cfg.RabbitMQ.Pass, cfg.RabbitMQ.Host, cfg.RabbitMQ.Port)
	if err != nil {
		log.Fatal(err)
	}
	defer rabbitMQ.Conn.Close()
	defer rabbitMQ.Ch.Close()

	// 1. Repositories
	leadRepo := database.NewCapturedLeadRepository(db)

	// 2. CRM connector. Fails fast on an unsupported provider.
	connector, err := integration.NewConnector(cfg.CRM)
	if err != nil {
		log.Fatal(err)
	}

	// 3. Adapters
	producer := queue.NewProducer(rabbitMQ.Conn, rabbitMQ.Ch)
	mailSender := mail.NewEmailSender(
		cfg.Mail.Host, cfg.Mail.Port, cfg.Mail.User, cfg.Mail.Pass,
		cfg.Mail.From, os.Getenv("BOOKING_URL"),
	)

	// 4. Follow-up worker (consumes the queue, sends welcome emails)
	worker := queue.NewWorker(rabbitMQ.Ch, mailSender)
	go worker.Start(queue.QueueName)

	// 5. Services
	crmService := usecase.NewCRMService(connector)

	// 6. Handlers
	crmHandler := handlers.NewCRMHandler(crmService)
	captureHandler := handlers.NewCaptureHandler(crmService, leadRepo, producer)
	healthHandler := handlers.NewHealthHandler(db, rabbitMQ.Conn, cfg.CRM.Provider)

	// 7. Router
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Post("/api/leads/capture", captureHandler.CaptureLead)

	r.Route("/api/crm", func(r chi.Router) {
		r.Post("/leads", crmHandler.CreateLead)
		r.Get("/leads/{id}", crmHandler.GetLead)
		r.Patch("/leads/{id}", crmHandler.UpdateLead)
		r.Get("/leads", crmHandler.SearchLeads)
		r.Post("/leads/import", crmHandler.ImportLeads)
		r.Post("/events", crmHandler.TrackEvent)
		r.Get("/health", crmHandler.TestConnection)
	})

	r.Get("/health", healthHandler.Handle)
	r.Handle("/metrics", promhttp.Handler())

	port := ":" + cfg.Server.Port
	log.Printf("🔥 Business of One backend running on %s (crm=%s)", port, connector.Provider())
	http.ListenAndServe(port, r)
}
