package data

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/stake-plus/dao-governance/src/gov"
)

// StreamNotifier forwards engine lifecycle notices onto the redis event
// stream. Publishes are bounded by a short timeout so a slow redis cannot
// stall a governance commit; a lost notice is logged, never retried.
type StreamNotifier struct {
	rdb *redis.Client
}

func NewStreamNotifier(rdb *redis.Client) *StreamNotifier {
	return &StreamNotifier{rdb: rdb}
}

func (n *StreamNotifier) ProposalCreated(p *gov.Proposal) {
	n.publish(map[string]interface{}{
		"event":   "proposal_created",
		"id":      p.ID,
		"type":    p.Type,
		"action":  string(p.Action),
		"title":   p.Title,
		"creator": p.Creator,
		"ends_at": p.EndsAt,
	})
}

func (n *StreamNotifier) ProposalExecuted(p *gov.Proposal) {
	n.publish(map[string]interface{}{
		"event":  "proposal_executed",
		"id":     p.ID,
		"type":   p.Type,
		"action": string(p.Action),
		"title":  p.Title,
		"result": string(p.Result),
	})
}

func (n *StreamNotifier) publish(payload map[string]interface{}) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := PublishEvent(ctx, n.rdb, payload); err != nil {
		log.Printf("notifier: publish %v: %v", payload["event"], err)
	}
}
