package event

import (
	"encoding/json"
	"log"

	"github.com/streadway/amqp"
)

// Event types published on the exchange. The routing key is the type, so
// consumers bind with patterns like "knowledge.*" or "quiz.#".
const (
	KnowledgeTreeSaved    = "knowledge.tree.saved"
	KnowledgePointsMerged = "knowledge.points.merged"
	KnowledgePointsPurged = "knowledge.points.deleted"
	QuestionBatchSaved    = "question.batch.saved"
	QuestionBankAssigned  = "question.bank.assigned"
	BankCreated           = "bank.created"
	QuizComposed          = "quiz.composed"
	QuizCreated           = "quiz.created"
)

// EventPublisher pushes domain events onto a durable topic exchange. The
// service runs fine without one; callers treat a nil publisher as "events
// disabled".
type EventPublisher struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
}

func NewEventPublisher(amqpURL, exchange string) (*EventPublisher, error) {
	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		return nil, err
	}
	err = ch.ExchangeDeclare(
		exchange,
		"topic",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, err
	}
	return &EventPublisher{conn: conn, channel: ch, exchange: exchange}, nil
}

// Publish sends one {type, payload} event with the type as routing key.
func (p *EventPublisher) Publish(eventType string, payload interface{}) error {
	event := map[string]interface{}{
		"type":    eventType,
		"payload": payload,
	}
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	log.Printf("[EVENT] %s: %v", eventType, payload)

	return p.channel.Publish(
		p.exchange,
		eventType, // routing key
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
}

func (p *EventPublisher) Close() {
	if p.channel != nil {
		_ = p.channel.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}
