package logic

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/VSO-Labs/Daddy-John-Backend/dao"
	"github.com/VSO-Labs/Daddy-John-Backend/logger"
	"github.com/VSO-Labs/Daddy-John-Backend/models"
	"github.com/VSO-Labs/Daddy-John-Backend/pkg"
)

// stubChat is a ChatCompleter with scripted replies.
type stubChat struct {
	mu         sync.Mutex
	reply      string
	tokens     int
	err        error
	calls      int
	photoCalls int
	lastInput  string
	lastHist   []pkg.HistoryEntry
}

func (s *stubChat) Complete(ctx context.Context, input string, history []pkg.HistoryEntry) (string, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	s.lastInput = input
	s.lastHist = history
	if s.err != nil {
		return "", 0, s.err
	}
	return s.reply, s.tokens, nil
}

func (s *stubChat) CompleteWithPhotos(ctx context.Context, input string, history []pkg.HistoryEntry, photos []pkg.Photo) (string, int, error) {
	s.mu.Lock()
	s.photoCalls++
	s.mu.Unlock()
	return s.Complete(ctx, input, history)
}

// stubStore is an AttachmentStore counting calls.
type stubStore struct {
	mu      sync.Mutex
	stores  int
	deletes []string
}

func (s *stubStore) Store(data []byte, originalName, contentType string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stores++
	return "http://files.test/" + originalName, nil
}

func (s *stubStore) Delete(url string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deletes = append(s.deletes, url)
	return true
}

type fixture struct {
	db       *gorm.DB
	userDAO  *dao.UserDAO
	convoDAO *dao.ConversationDAO
	msgDAO   *dao.MessageDAO
	planDAO  *dao.SubscriptionPlanDAO
	subDAO   *dao.UserSubscriptionDAO
	usageDAO *dao.DailyUsageDAO

	convos *ConversationLogic
	subs   *SubscriptionLogic
	usage  *UsageLogic
	msgs   *MessageLogic

	chat  *stubChat
	store *stubStore
	now   *time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Conversation{},
		&models.Message{},
		&models.SubscriptionPlan{},
		&models.UserSubscription{},
		&models.DailyUsage{},
	))

	log := logger.NewNop()
	f := &fixture{
		db:       db,
		userDAO:  dao.NewUserDAO(db),
		convoDAO: dao.NewConversationDAO(db),
		msgDAO:   dao.NewMessageDAO(db),
		planDAO:  dao.NewSubscriptionPlanDAO(db),
		subDAO:   dao.NewUserSubscriptionDAO(db),
		usageDAO: dao.NewDailyUsageDAO(db),
		chat:     &stubChat{reply: "hello from the assistant", tokens: 6},
		store:    &stubStore{},
	}

	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	f.now = &now

	f.convos = NewConversationLogic(f.userDAO, f.convoDAO, f.msgDAO, f.store, log)
	f.subs = NewSubscriptionLogic(f.subDAO, f.planDAO, log)
	f.usage = NewUsageLogic(f.usageDAO, f.subs, time.UTC, func() time.Time { return *f.now }, log)
	f.msgs = NewMessageLogic(f.convos, f.msgDAO, f.usage, f.chat, f.store,
		10, 5, 10*1024*1024, log)

	require.NoError(t, f.planDAO.SeedDefaultPlans(context.Background()))
	return f
}

func (f *fixture) addUser(t *testing.T, username string) *models.User {
	t.Helper()
	user, err := f.userDAO.CreateUser(context.Background(), username, "hash")
	require.NoError(t, err)
	return user
}

func (f *fixture) addConversation(t *testing.T, user *models.User, title string) *models.Conversation {
	t.Helper()
	convo, err := f.convoDAO.CreateConversation(context.Background(), user.ID, title)
	require.NoError(t, err)
	return convo
}

// putOnPlan gives the user an active subscription with the given daily limit.
func (f *fixture) putOnPlan(t *testing.T, user *models.User, name string, dailyLimit *int) {
	t.Helper()
	plan := models.SubscriptionPlan{Name: name, MessageLimitPerDay: dailyLimit}
	require.NoError(t, f.db.Create(&plan).Error)
	_, err := f.subDAO.Activate(context.Background(), user.ID, plan.ID, *f.now, f.now.AddDate(0, 0, 30))
	require.NoError(t, err)
}

func intPtr(v int) *int { return &v }
