package conversation

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/kbukum/llmgate/database"
	"github.com/kbukum/llmgate/database/migration"
	"github.com/kbukum/llmgate/llm"
	"github.com/kbukum/llmgate/logger"
)

// Migrations returns the schema migrations of the conversation tables.
func Migrations() []migration.Migration {
	return []migration.Migration{
		{
			ID:          "0001_conversations",
			Description: "create conversations and messages",
			Up: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&Conversation{}, &Message{})
			},
		},
		{
			ID:          "0002_messages_conversation_created",
			Description: "index messages by conversation and time",
			Up: func(tx *gorm.DB) error {
				return tx.Exec("CREATE INDEX IF NOT EXISTS idx_messages_conversation_created ON messages (conversation_id, created_at)").Error
			},
		},
	}
}

// GormStore is a Store backed by GORM.
type GormStore struct {
	db  *database.DB
	log *logger.Logger
	now func() time.Time
}

var _ Store = (*GormStore)(nil)

// NewGormStore creates a store over db. The schema must already be migrated.
func NewGormStore(db *database.DB, log *logger.Logger) *GormStore {
	return &GormStore{db: db, log: log.WithComponent("conversation"), now: time.Now}
}

func (s *GormStore) StartConversation(ctx context.Context, provider, requestID string, metadata map[string]any) (string, error) {
	c := &Conversation{
		Provider:  provider,
		RequestID: requestID,
		Metadata:  metadata,
		CreatedAt: s.now().UTC(),
	}
	if err := s.db.WithContext(ctx).Create(c).Error; err != nil {
		return "", database.FromDatabase(err, "conversation", c.ID)
	}
	s.log.Debug("Conversation started", logger.Fields(
		logger.FieldConversationID, c.ID,
		logger.FieldProvider, provider,
	))
	return c.ID, nil
}

func (s *GormStore) EndConversation(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Model(&Conversation{}).Where("id = ?", id).Update("ended_at", s.now().UTC())
	if res.Error != nil {
		return database.FromDatabase(res.Error, "conversation", id)
	}
	if res.RowsAffected == 0 {
		return database.FromDatabase(gorm.ErrRecordNotFound, "conversation", id)
	}
	return nil
}

func (s *GormStore) LogMessage(ctx context.Context, conversationID string, role llm.Role, content, model string, tokens *int) error {
	m := &Message{
		ConversationID: conversationID,
		Role:           string(role),
		Content:        content,
		Model:          model,
		Tokens:         tokens,
		CreatedAt:      s.now().UTC(),
	}
	if err := s.db.WithContext(ctx).Create(m).Error; err != nil {
		return database.FromDatabase(err, "message", "")
	}
	return nil
}

func (s *GormStore) GetConversation(ctx context.Context, id string) (*Conversation, error) {
	var c Conversation
	err := s.db.WithContext(ctx).
		Preload("Messages", func(tx *gorm.DB) *gorm.DB { return tx.Order("created_at, id") }).
		First(&c, "id = ?", id).Error
	if err != nil {
		return nil, database.FromDatabase(err, "conversation", id)
	}
	return &c, nil
}

func (s *GormStore) RecentConversations(ctx context.Context, limit, offset int) ([]Summary, error) {
	q := s.db.WithContext(ctx).Model(&Conversation{})
	return s.summaries(ctx, q, ClampLimit(limit, MaxRecentResults), offset)
}

func (s *GormStore) SearchConversations(ctx context.Context, sq SearchQuery) ([]Summary, error) {
	db := s.db.WithContext(ctx)
	q := db.Model(&Conversation{})
	if text := strings.TrimSpace(sq.Text); text != "" {
		matching := db.Model(&Message{}).
			Select("conversation_id").
			Where("LOWER(content) LIKE ?", "%"+strings.ToLower(text)+"%")
		q = q.Where("id IN (?)", matching)
	}
	if sq.Provider != "" {
		q = q.Where("provider = ?", sq.Provider)
	}
	if !sq.From.IsZero() {
		q = q.Where("created_at >= ?", sq.From.UTC())
	}
	if !sq.To.IsZero() {
		q = q.Where("created_at <= ?", sq.To.UTC())
	}
	return s.summaries(ctx, q, ClampLimit(sq.Limit, MaxSearchResults), sq.Offset)
}

func (s *GormStore) summaries(ctx context.Context, q *gorm.DB, limit, offset int) ([]Summary, error) {
	if offset < 0 {
		offset = 0
	}
	var convs []Conversation
	if err := q.Order("created_at DESC, id").Limit(limit).Offset(offset).Find(&convs).Error; err != nil {
		return nil, database.FromDatabase(err, "conversation", "")
	}
	if len(convs) == 0 {
		return []Summary{}, nil
	}

	ids := make([]string, len(convs))
	for i, c := range convs {
		ids[i] = c.ID
	}
	var counts []struct {
		ConversationID string
		N              int64
	}
	err := s.db.WithContext(ctx).Model(&Message{}).
		Select("conversation_id, COUNT(*) AS n").
		Where("conversation_id IN ?", ids).
		Group("conversation_id").
		Scan(&counts).Error
	if err != nil {
		return nil, database.FromDatabase(err, "message", "")
	}
	byID := make(map[string]int64, len(counts))
	for _, c := range counts {
		byID[c.ConversationID] = c.N
	}

	out := make([]Summary, len(convs))
	for i, c := range convs {
		out[i] = Summary{Conversation: c, MessageCount: byID[c.ID]}
	}
	return out, nil
}

func (s *GormStore) Stats(ctx context.Context) (*Stats, error) {
	db := s.db.WithContext(ctx)
	st := &Stats{ProviderStats: map[string]int64{}}

	if err := db.Model(&Conversation{}).Count(&st.ConversationCount).Error; err != nil {
		return nil, database.FromDatabase(err, "conversation", "")
	}
	if err := db.Model(&Message{}).Count(&st.MessageCount).Error; err != nil {
		return nil, database.FromDatabase(err, "message", "")
	}

	var rows []struct {
		Provider string
		N        int64
	}
	if err := db.Model(&Conversation{}).Select("provider, COUNT(*) AS n").Where("provider <> ''").Group("provider").Scan(&rows).Error; err != nil {
		return nil, database.FromDatabase(err, "conversation", "")
	}
	for _, r := range rows {
		st.ProviderStats[r.Provider] = r.N
	}
	return st, nil
}

func (s *GormStore) Cleanup(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := s.now().UTC().Add(-retention)
	var deleted int64
	err := s.db.WithTransaction(ctx, func(tx *gorm.DB) error {
		old := tx.Model(&Conversation{}).Select("id").Where("created_at < ?", cutoff)
		if err := tx.Where("conversation_id IN (?)", old).Delete(&Message{}).Error; err != nil {
			return err
		}
		res := tx.Where("created_at < ?", cutoff).Delete(&Conversation{})
		deleted = res.RowsAffected
		return res.Error
	})
	if err != nil {
		return 0, database.FromDatabase(err, "conversation", "")
	}
	s.log.Info("Cleaned up old conversations", logger.Fields("deleted", deleted, "cutoff", cutoff.Format(time.RFC3339)))
	return deleted, nil
}
