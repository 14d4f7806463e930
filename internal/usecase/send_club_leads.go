package usecase

import (
	"context"
	"log"

	"github.com/closingmachines/leads-api/internal/infra/queue"
)

const (
	TargetKids      = "kids"
	TargetNutrition = "nutrition"
)

// SendClubLeadsUseCase groups the selected leads by club and queues one
// email job per club group. Leads whose club lacks the requested mailbox
// (or that have no club at all) are skipped, not failed.
type SendClubLeadsUseCase struct {
	Leads    LeadDispatchReader
	Producer DispatchProducerInterface
}

func NewSendClubLeadsUseCase(leads LeadDispatchReader, producer DispatchProducerInterface) *SendClubLeadsUseCase {
	return &SendClubLeadsUseCase{Leads: leads, Producer: producer}
}

func (uc *SendClubLeadsUseCase) Execute(ctx context.Context, input SendClubLeadsInput) (*SendClubLeadsOutput, error) {
	if input.Target != TargetKids && input.Target != TargetNutrition {
		return nil, &DomainError{Code: "INVALID_TARGET", Message: "target must be kids or nutrition"}
	}
	if !input.All && len(input.IDs) == 0 {
		return nil, &DomainError{Code: "EMPTY_SELECTION", Message: "ids is required unless all is set"}
	}

	rows, err := uc.Leads.ListForDispatch(ctx, input.IDs, input.All)
	if err != nil {
		return nil, &TechnicalError{Code: "LEAD_LOAD_FAILED", Message: err.Error()}
	}

	groups := make(map[string][]DispatchRow)
	var order []string
	for _, row := range rows {
		key := ""
		if row.ClubID != nil {
			key = *row.ClubID
		}
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], row)
	}

	out := &SendClubLeadsOutput{}
	for _, key := range order {
		group := groups[key]

		clubName := "Unknown Club"
		if group[0].ClubName != nil {
			clubName = *group[0].ClubName
		}

		toEmail := mailboxFor(group[0], input.Target)
		if toEmail == "" {
			out.Skipped += len(group)
			log.Printf("skipping %d lead(s) for club %q: no %s mailbox", len(group), clubName, input.Target)
			continue
		}

		payload := queue.DispatchPayload{
			ClubName: clubName,
			Target:   input.Target,
			ToEmail:  toEmail,
		}
		for _, row := range group {
			payload.LeadIDs = append(payload.LeadIDs, row.LeadID)
			payload.Leads = append(payload.Leads, queue.DispatchLead{
				FirstName:   deref(row.FirstName),
				LastName:    deref(row.LastName),
				Email:       deref(row.Email),
				PhoneNumber: deref(row.PhoneNumber),
				Age:         deref(row.Age),
				CreatedTime: row.CreatedTime,
			})
		}

		if err := uc.Producer.PublishDispatch(ctx, payload); err != nil {
			return nil, &TechnicalError{Code: "DISPATCH_PUBLISH_FAILED", Message: err.Error()}
		}
		out.Queued += len(group)
	}

	return out, nil
}

func mailboxFor(row DispatchRow, target string) string {
	switch target {
	case TargetKids:
		return deref(row.KidsEmail)
	case TargetNutrition:
		return deref(row.NutritionEmail)
	}
	return ""
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
