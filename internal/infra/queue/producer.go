package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// DispatchLead is the subset of a lead that appears in the club email.
type DispatchLead struct {
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	Email       string     `json:"email"`
	PhoneNumber string     `json:"phone_number"`
	Age         string     `json:"age"`
	CreatedTime *time.Time `json:"created_time,omitempty"`
}

// DispatchPayload is one club-mailbox email job: all selected leads of one
// club, sent to the chosen mailbox in a single message.
type DispatchPayload struct {
	ClubName string         `json:"club_name"`
	Target   string         `json:"target"` // kids | nutrition
	ToEmail  string         `json:"to_email"`
	LeadIDs  []string       `json:"lead_ids"`
	Leads    []DispatchLead `json:"leads"`
}

type Producer struct {
	Conn *amqp.Connection
	Ch   *amqp.Channel
}

func NewProducer(conn *amqp.Connection, ch *amqp.Channel) *Producer {
	return &Producer{Conn: conn, Ch: ch}
}

func (p *Producer) PublishDispatch(ctx context.Context, payload DispatchPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshaling dispatch payload: %w", err)
	}

	err = p.Ch.PublishWithContext(ctx,
		ExchangeName,
		RoutingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("publishing dispatch: %w", err)
	}
	return nil
}
