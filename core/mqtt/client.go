// Package mqtt defines the broker-facing notification contract.
package mqtt

// Publisher delivers a payload to a broker topic.
type Publisher interface {
	Publish(topic string, payload []byte) error
}

// PublisherFunc adapts a function to Publisher.
type PublisherFunc func(topic string, payload []byte) error

func (f PublisherFunc) Publish(topic string, payload []byte) error { return f(topic, payload) }
