package collector

import (
	"encoding/json"
	"log"

	"github.com/nats-io/nats.go"

	"github.com/wgagne-maynard/kcm-bus-tracker/business/data/busposition"
)

// batchPublisher sends stored position batches over nats for any downstream
// consumers. Publishing is best effort and never affects the storage path.
type batchPublisher struct {
	log            *log.Logger
	natsConnection *nats.Conn
	subject        string
}

func makeBatchPublisher(logger *log.Logger, natsConnection *nats.Conn, subject string) *batchPublisher {
	return &batchPublisher{
		log:            logger,
		natsConnection: natsConnection,
		subject:        subject,
	}
}

func (p *batchPublisher) publish(positions []*busposition.VehiclePosition) {
	jsonData, err := json.Marshal(positions)
	if err != nil {
		p.log.Printf("failed to marshal position batch for nats publish, error:%v", err)
		return
	}
	err = p.natsConnection.Publish(p.subject, jsonData)
	if err != nil {
		p.log.Printf("failed to publish position batch over nats, error:%v", err)
	}
}
