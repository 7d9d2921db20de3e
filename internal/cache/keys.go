package cache

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	KeyOrderDetail = "order:detail:%s"

	TTLOrderDetail = 5 * time.Minute
)

func OrderDetailKey(id uuid.UUID) string {
	return fmt.Sprintf(KeyOrderDetail, id)
}
