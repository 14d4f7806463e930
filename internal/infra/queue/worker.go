package queue

import (
	"context"
	"encoding/json"
	"log"
)

// MailSender is the outbound transport the worker delivers through.
type MailSender interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// LeadMarker flags leads as sent after their club email goes out.
type LeadMarker interface {
	MarkSent(ctx context.Context, ids []string) error
}

// EmailBuilder renders the club-leads email for one dispatch payload.
type EmailBuilder func(payload DispatchPayload) (subject, htmlBody string, err error)

type Worker struct {
	RabbitMQ *RabbitMQ
	Sender   MailSender
	Leads    LeadMarker
	Build    EmailBuilder
}

func NewWorker(rmq *RabbitMQ, sender MailSender, leads LeadMarker, build EmailBuilder) *Worker {
	return &Worker{
		RabbitMQ: rmq,
		Sender:   sender,
		Leads:    leads,
		Build:    build,
	}
}

func (w *Worker) Start(queueName string) {
	msgs, err := w.RabbitMQ.Ch.Consume(
		queueName,
		"",    // consumer
		false, // manual ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		log.Fatalf("registering RabbitMQ consumer: %s", err)
	}

	log.Printf("[WORKER] waiting on queue %q", queueName)

	for d := range msgs {
		var payload DispatchPayload
		if err := json.Unmarshal(d.Body, &payload); err != nil {
			log.Printf("[WORKER] invalid payload, dropping: %s", err)
			d.Nack(false, false)
			continue
		}

		if err := w.process(context.Background(), payload); err != nil {
			log.Printf("[WORKER] dispatch for club %q failed: %s", payload.ClubName, err)
			// To the DLQ; re-queueing would hammer the mail provider.
			d.Nack(false, false)
			continue
		}

		log.Printf("[WORKER] sent %d lead(s) to %s mailbox of %q", len(payload.LeadIDs), payload.Target, payload.ClubName)
		d.Ack(false)
	}
}

func (w *Worker) process(ctx context.Context, payload DispatchPayload) error {
	subject, html, err := w.Build(payload)
	if err != nil {
		return err
	}
	if err := w.Sender.Send(ctx, payload.ToEmail, subject, html); err != nil {
		return err
	}
	// Marking happens only after a successful send; a failure here leaves
	// the leads unsent-flagged, which re-dispatch tolerates.
	return w.Leads.MarkSent(ctx, payload.LeadIDs)
}
