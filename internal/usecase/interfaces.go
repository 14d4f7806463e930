package usecase

import (
	"context"
	"time"

	"github.com/closingmachines/leads-api/internal/entity"
	"github.com/closingmachines/leads-api/internal/infra/queue"
)

// Repository lookups return (nil, nil) when no row matches; errors are
// reserved for infrastructure failures.

type AdRepositoryInterface interface {
	FindByAdID(ctx context.Context, adID string) (*entity.Ad, error)
	Insert(ctx context.Context, ad *entity.Ad) error
	Update(ctx context.Context, ad *entity.Ad) error
}

type ClubRepositoryInterface interface {
	All(ctx context.Context) ([]entity.Club, error)
	Insert(ctx context.Context, club *entity.Club) error
}

type LeadRepositoryInterface interface {
	FindByMetaID(ctx context.Context, metaID string) (*entity.Lead, error)
	FindByEmailAndCreatedTime(ctx context.Context, email string, createdTime time.Time) (*entity.Lead, error)
	Insert(ctx context.Context, lead *entity.Lead) error
	Update(ctx context.Context, lead *entity.Lead) error
}

// LeadDispatchReader loads leads joined with their club mailboxes for the
// club-email workflow.
type LeadDispatchReader interface {
	ListForDispatch(ctx context.Context, ids []string, all bool) ([]DispatchRow, error)
}

type DispatchProducerInterface interface {
	PublishDispatch(ctx context.Context, payload queue.DispatchPayload) error
}
