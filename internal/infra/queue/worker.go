package queue

import (
	"encoding/json"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"
)

// FollowupSender is the contract the worker needs to greet a new lead.
type FollowupSender interface {
	SendWelcome(to, name, category string) error
}

// Worker consumes lead-captured messages and sends the follow-up email.
// Decoupled from the database and the CRM: everything it needs travels in
// the payload.
type Worker struct {
	Channel *amqp.Channel
	Mailer  FollowupSender
}

func NewWorker(ch *amqp.Channel, mailer FollowupSender) *Worker {
	return &Worker{
		Channel: ch,
		Mailer:  mailer,
	}
}

func (w *Worker) Start(queueName string) {
	msgs, err := w.Channel.Consume(
		queueName,
		"",    // consumer
		false, // auto-ack (manual is safer)
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		log.Fatalf("❌ [WORKER] failed to register RabbitMQ consumer: %s", err)
	}

	forever := make(chan bool)

	go func() {
		for d := range msgs {
			var payload LeadCapturedPayload
			if err := json.Unmarshal(d.Body, &payload); err != nil {
				log.Printf("❌ [WORKER] invalid JSON: %s", err)
				// Poison message. Reject without requeue so the queue keeps moving.
				d.Nack(false, false)
				continue
			}

			log.Printf("📥 [WORKER] follow-up for %s (%s lead, score %d)", payload.Email, payload.Category, payload.LeadScore)

			if err := w.process(payload); err != nil {
				log.Printf("❌ [WORKER] follow-up failed for %s: %s", payload.Email, err)
				// Goes to the DLQ; a redelivery loop against a broken SMTP
				// server would just hammer it.
				d.Nack(false, false)
			} else {
				log.Printf("✅ [WORKER] follow-up sent to %s", payload.Email)
				d.Ack(false)
			}
		}
	}()

	log.Printf(" [*] Worker running, waiting on queue '%s'", queueName)
	<-forever
}

func (w *Worker) process(payload LeadCapturedPayload) error {
	name := payload.FirstName
	if name == "" {
		name = "there"
	}
	return w.Mailer.SendWelcome(payload.Email, name, payload.Category)
}
