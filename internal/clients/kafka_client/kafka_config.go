package kafka_client

type KafkaConfig struct {
	Broker   string
	Topic    string
	ClientID string
	GroupID  string
}

func NewKafkaConfig(broker, topic string) KafkaConfig {
	if topic == "" {
		topic = KAFKA_TOPIC_RUN_RESULTS
	}
	return KafkaConfig{
		Broker:   broker,
		Topic:    topic,
		ClientID: DEFAULT_PRODUCER_CLIENT_ID,
		GroupID:  DEFAULT_WATCH_GROUP_ID,
	}
}
