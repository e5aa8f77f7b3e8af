package kafka_client

import "time"

const (
	KAFKA_TOPIC_RUN_RESULTS = "brandvoice-run-results" // one summary event per completed run
)

const (
	DEFAULT_PRODUCER_CLIENT_ID = "brandvoice-producer"
	DEFAULT_WATCH_GROUP_ID     = "brandvoice-watch"
)

const (
	FLUSH_TIMEOUT_MS    = 5000
	DELIVERY_TIMEOUT    = 10 * time.Second
	READ_TIMEOUT        = time.Second
	MAX_RETRIES         = 3
	RETRY_DELAY         = 2 * time.Second
	PRODUCE_RETRY_DELAY = 250 * time.Millisecond
)
