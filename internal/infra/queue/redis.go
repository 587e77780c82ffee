package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"reddit-lead-finder/internal/adapters/export"
	"reddit-lead-finder/internal/domain"
)

// Message описывает опубликованную возможность.
type Message struct {
	RunID string      `json:"run_id"`
	Lead  export.Lead `json:"lead"`
}

// RedisOpportunityQueue публикует возможности в Redis list.
type RedisOpportunityQueue struct {
	client *redis.Client
	key    string
}

var _ domain.OpportunityQueue = (*RedisOpportunityQueue)(nil)

// NewRedisOpportunityQueue создаёт очередь по указанному ключу.
func NewRedisOpportunityQueue(client *redis.Client, key string) *RedisOpportunityQueue {
	return &RedisOpportunityQueue{client: client, key: key}
}

// Encode сериализует возможность для очереди.
func Encode(opp domain.Opportunity) ([]byte, error) {
	payload, err := json.Marshal(Message{RunID: opp.RunID, Lead: export.ToLead(opp)})
	if err != nil {
		return nil, fmt.Errorf("marshal opportunity: %w", err)
	}
	return payload, nil
}

// Enqueue публикует возможность в очередь.
func (q *RedisOpportunityQueue) Enqueue(ctx context.Context, opp domain.Opportunity) error {
	payload, err := Encode(opp)
	if err != nil {
		return err
	}
	if err := q.client.LPush(ctx, q.key, payload).Err(); err != nil {
		return fmt.Errorf("push opportunity: %w", err)
	}
	return nil
}
