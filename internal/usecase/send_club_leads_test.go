package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/closingmachines/leads-api/internal/infra/queue"
)

type MockLeadDispatchReader struct {
	mock.Mock
}

func (m *MockLeadDispatchReader) ListForDispatch(ctx context.Context, ids []string, all bool) ([]DispatchRow, error) {
	args := m.Called(ctx, ids, all)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]DispatchRow), args.Error(1)
}

type MockDispatchProducer struct {
	mock.Mock
}

func (m *MockDispatchProducer) PublishDispatch(ctx context.Context, payload queue.DispatchPayload) error {
	args := m.Called(ctx, payload)
	return args.Error(0)
}

func strptr(s string) *string { return &s }

func dispatchFixture() []DispatchRow {
	return []DispatchRow{
		{LeadID: "lead-1", FirstName: strptr("Ana"), ClubID: strptr("club-1"), ClubName: strptr("Midtown Club"), KidsEmail: strptr("kids@midtown.mx")},
		{LeadID: "lead-2", FirstName: strptr("Luis"), ClubID: strptr("club-1"), ClubName: strptr("Midtown Club"), KidsEmail: strptr("kids@midtown.mx")},
		{LeadID: "lead-3", FirstName: strptr("María"), ClubID: strptr("club-2"), ClubName: strptr("Club Del Valle"), NutritionEmail: strptr("nutri@delvalle.mx")},
		{LeadID: "lead-4", FirstName: strptr("Sin"), ClubID: nil, ClubName: nil},
	}
}

func TestSendClubLeadsGroupsByClub(t *testing.T) {
	reader := new(MockLeadDispatchReader)
	producer := new(MockDispatchProducer)
	reader.On("ListForDispatch", mock.Anything, mock.Anything, true).Return(dispatchFixture(), nil)
	producer.On("PublishDispatch", mock.Anything, mock.Anything).Return(nil)

	uc := NewSendClubLeadsUseCase(reader, producer)
	out, err := uc.Execute(context.Background(), SendClubLeadsInput{All: true, Target: TargetKids})
	require.NoError(t, err)

	// club-1 has a kids mailbox (2 leads queued); club-2 and the club-less
	// lead do not.
	assert.Equal(t, 2, out.Queued)
	assert.Equal(t, 2, out.Skipped)
	producer.AssertNumberOfCalls(t, "PublishDispatch", 1)

	published := producer.Calls[0].Arguments.Get(1).(queue.DispatchPayload)
	assert.Equal(t, "Midtown Club", published.ClubName)
	assert.Equal(t, "kids@midtown.mx", published.ToEmail)
	assert.Equal(t, []string{"lead-1", "lead-2"}, published.LeadIDs)
}

func TestSendClubLeadsNutritionTarget(t *testing.T) {
	reader := new(MockLeadDispatchReader)
	producer := new(MockDispatchProducer)
	reader.On("ListForDispatch", mock.Anything, []string{"lead-3"}, false).Return(dispatchFixture()[2:3], nil)
	producer.On("PublishDispatch", mock.Anything, mock.Anything).Return(nil)

	uc := NewSendClubLeadsUseCase(reader, producer)
	out, err := uc.Execute(context.Background(), SendClubLeadsInput{IDs: []string{"lead-3"}, Target: TargetNutrition})
	require.NoError(t, err)

	assert.Equal(t, 1, out.Queued)
	assert.Equal(t, 0, out.Skipped)
}

func TestSendClubLeadsValidation(t *testing.T) {
	uc := NewSendClubLeadsUseCase(new(MockLeadDispatchReader), new(MockDispatchProducer))

	_, err := uc.Execute(context.Background(), SendClubLeadsInput{All: true, Target: "other"})
	assert.True(t, IsDomainError(err))

	_, err = uc.Execute(context.Background(), SendClubLeadsInput{Target: TargetKids})
	assert.True(t, IsDomainError(err))
}

func TestSendClubLeadsPublishFailure(t *testing.T) {
	reader := new(MockLeadDispatchReader)
	producer := new(MockDispatchProducer)
	reader.On("ListForDispatch", mock.Anything, mock.Anything, true).Return(dispatchFixture()[:2], nil)
	producer.On("PublishDispatch", mock.Anything, mock.Anything).Return(errors.New("broker down"))

	uc := NewSendClubLeadsUseCase(reader, producer)
	_, err := uc.Execute(context.Background(), SendClubLeadsInput{All: true, Target: TargetKids})
	require.Error(t, err)
	assert.True(t, IsTechnicalError(err))
}
