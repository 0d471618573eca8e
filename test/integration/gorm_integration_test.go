package integration

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"amplified-be/internal/entity"
	"amplified-be/internal/repository/specification"
	"amplified-be/internal/repository/unitofwork"
	"amplified-be/pkg/database"
)

// Requires a migrated database, run `go run cmd/migrate/main.go` first.
func TestGormConnection(t *testing.T) {
	err := godotenv.Load("../../.env")
	if err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}

	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	uow := uowFactory.NewUnitOfWork(context.Background())

	assert.NotNil(t, uow.MeetingRepository())
	assert.NotNil(t, uow.KnowledgeChunkRepository())

	sqlDB, _ := gormDB.DB()
	err = sqlDB.Ping()
	assert.NoError(t, err)

	t.Run("Check Meeting Repository", func(t *testing.T) {
		count, err := uow.MeetingRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("Meeting count: %d", count)
	})

	t.Run("Check Transcript Repository", func(t *testing.T) {
		count, err := uow.TranscriptRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("Transcript entry count: %d", count)
	})
}

func TestMeetingReadsAlwaysCarryAssociations(t *testing.T) {
	if err := godotenv.Load("../../.env"); err != nil {
		log.Println("No .env file found, using system env")
	}
	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	require.NoError(t, err)

	ctx := context.Background()
	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	uow := uowFactory.NewUnitOfWork(ctx)

	userId := uuid.New()
	meeting := &entity.Meeting{
		Id:            uuid.New(),
		UserId:        userId,
		Title:         "Association shape check",
		SessionNumber: 1,
		StartTime:     time.Now(),
	}
	require.NoError(t, uow.MeetingRepository().Create(ctx, meeting))
	defer uow.MeetingRepository().Delete(ctx, meeting.Id)

	require.NoError(t, uow.MeetingSummaryRepository().Create(ctx, &entity.MeetingSummary{
		Id:              uuid.New(),
		MeetingId:       meeting.Id,
		SessionNumber:   1,
		ShortSummary:    "- checked shapes",
		DetailedSummary: "Verified both read paths.",
	}))
	defer uow.MeetingSummaryRepository().DeleteByMeetingId(ctx, meeting.Id)

	require.NoError(t, uow.MeetingActionRepository().Create(ctx, &entity.MeetingAction{
		Id:          uuid.New(),
		MeetingId:   meeting.Id,
		Description: "Verify the list read too",
		Status:      entity.ActionStatusOpen,
	}))
	defer uow.MeetingActionRepository().DeleteByMeetingId(ctx, meeting.Id)

	// Single read carries summaries and actions.
	single, err := uow.MeetingRepository().FindOne(ctx, specification.ByID{ID: meeting.Id})
	require.NoError(t, err)
	require.NotNil(t, single)
	assert.Len(t, single.Summaries, 1)
	assert.Len(t, single.Actions, 1)

	// List read returns the identical shape.
	list, err := uow.MeetingRepository().FindAll(ctx, specification.MeetingOwnedByUser{UserID: userId})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Len(t, list[0].Summaries, 1)
	assert.Len(t, list[0].Actions, 1)
}

func TestActionStatusRespectsOwnership(t *testing.T) {
	if err := godotenv.Load("../../.env"); err != nil {
		log.Println("No .env file found, using system env")
	}
	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	require.NoError(t, err)

	ctx := context.Background()
	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	uow := uowFactory.NewUnitOfWork(ctx)

	ownerId := uuid.New()
	strangerId := uuid.New()

	meeting := &entity.Meeting{
		Id:            uuid.New(),
		UserId:        ownerId,
		Title:         "Ownership check",
		SessionNumber: 1,
		StartTime:     time.Now(),
	}
	require.NoError(t, uow.MeetingRepository().Create(ctx, meeting))
	defer uow.MeetingRepository().Delete(ctx, meeting.Id)

	action := &entity.MeetingAction{
		Id:          uuid.New(),
		MeetingId:   meeting.Id,
		Description: "Flip me",
		Status:      entity.ActionStatusOpen,
	}
	require.NoError(t, uow.MeetingActionRepository().Create(ctx, action))
	defer uow.MeetingActionRepository().DeleteByMeetingId(ctx, meeting.Id)

	// A stranger touches nothing.
	affected, err := uow.MeetingActionRepository().SetStatus(ctx, action.Id, strangerId, entity.ActionStatusDone)
	require.NoError(t, err)
	assert.Equal(t, int64(0), affected)

	// The owner flips it.
	affected, err = uow.MeetingActionRepository().SetStatus(ctx, action.Id, ownerId, entity.ActionStatusDone)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)
}

func TestActionToggleRoundTripsStatus(t *testing.T) {
	if err := godotenv.Load("../../.env"); err != nil {
		log.Println("No .env file found, using system env")
	}
	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	require.NoError(t, err)

	ctx := context.Background()
	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	uow := uowFactory.NewUnitOfWork(ctx)

	ownerId := uuid.New()
	meeting := &entity.Meeting{
		Id:            uuid.New(),
		UserId:        ownerId,
		Title:         "Toggle check",
		SessionNumber: 1,
		StartTime:     time.Now(),
	}
	require.NoError(t, uow.MeetingRepository().Create(ctx, meeting))
	defer uow.MeetingRepository().Delete(ctx, meeting.Id)

	action := &entity.MeetingAction{
		Id:          uuid.New(),
		MeetingId:   meeting.Id,
		Description: "Toggle me twice",
		Status:      entity.ActionStatusOpen,
	}
	require.NoError(t, uow.MeetingActionRepository().Create(ctx, action))
	defer uow.MeetingActionRepository().DeleteByMeetingId(ctx, meeting.Id)

	readStatus := func() entity.ActionStatus {
		found, err := uow.MeetingActionRepository().FindOne(ctx, specification.ByID{ID: action.Id})
		require.NoError(t, err)
		require.NotNil(t, found)
		return found.Status
	}

	// done, back to open, done again lands where a single toggle does.
	for _, want := range []entity.ActionStatus{
		entity.ActionStatusDone,
		entity.ActionStatusOpen,
		entity.ActionStatusDone,
	} {
		affected, err := uow.MeetingActionRepository().SetStatus(ctx, action.Id, ownerId, want)
		require.NoError(t, err)
		require.Equal(t, int64(1), affected)
		assert.Equal(t, want, readStatus())
	}
}

func TestKnowledgeSearchNeverCrossesUsers(t *testing.T) {
	if err := godotenv.Load("../../.env"); err != nil {
		log.Println("No .env file found, using system env")
	}
	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	require.NoError(t, err)

	ctx := context.Background()
	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	uow := uowFactory.NewUnitOfWork(ctx)

	alice := uuid.New()
	bob := uuid.New()

	// Both users index near-identical content. Only the embedding owner
	// may ever come back.
	vec := func(hot int) []float32 {
		v := make([]float32, 768)
		v[hot] = 1
		return v
	}

	aliceDoc := uuid.New()
	bobDoc := uuid.New()
	chunks := []*entity.KnowledgeChunk{
		{Id: uuid.New(), EntityId: aliceDoc, EntityType: entity.EntityTypeDocument, UserId: alice, SourceTitle: "Alice notes", ChunkIndex: 0, Content: "release plan", Embedding: vec(0)},
		{Id: uuid.New(), EntityId: bobDoc, EntityType: entity.EntityTypeDocument, UserId: bob, SourceTitle: "Bob notes", ChunkIndex: 0, Content: "release plan", Embedding: vec(0)},
	}
	require.NoError(t, uow.KnowledgeChunkRepository().CreateBulk(ctx, chunks))
	defer uow.KnowledgeChunkRepository().DeleteByEntityId(ctx, aliceDoc)
	defer uow.KnowledgeChunkRepository().DeleteByEntityId(ctx, bobDoc)

	matches, err := uow.KnowledgeChunkRepository().SearchSimilarWithScore(ctx, vec(0), 10, alice, 0)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, alice, matches[0].Chunk.UserId)
	assert.Equal(t, aliceDoc, matches[0].Chunk.EntityId)
	assert.InDelta(t, 1.0, matches[0].Similarity, 0.001)
}

func TestTranscriptSequenceStartsAtOne(t *testing.T) {
	if err := godotenv.Load("../../.env"); err != nil {
		log.Println("No .env file found, using system env")
	}
	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	require.NoError(t, err)

	ctx := context.Background()
	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	uow := uowFactory.NewUnitOfWork(ctx)

	meetingId := uuid.New()

	seq, err := uow.TranscriptRepository().NextSequence(ctx, meetingId)
	require.NoError(t, err)
	assert.Equal(t, 1, seq)

	require.NoError(t, uow.TranscriptRepository().CreateBulk(ctx, []*entity.TranscriptEntry{
		{Id: uuid.New(), MeetingId: meetingId, SessionNumber: 1, Sequence: 1, Speaker: "You", Text: "hello", SpokenAt: time.Now()},
		{Id: uuid.New(), MeetingId: meetingId, SessionNumber: 1, Sequence: 2, Speaker: "You", Text: "again", SpokenAt: time.Now()},
	}))
	defer uow.TranscriptRepository().DeleteByMeetingId(ctx, meetingId)

	seq, err = uow.TranscriptRepository().NextSequence(ctx, meetingId)
	require.NoError(t, err)
	assert.Equal(t, 3, seq)
}
