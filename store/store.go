package store

import (
	"context"
	"fmt"
	"time"

	"github.com/hmztgr/smartdocs/internal/profile"
	"github.com/hmztgr/smartdocs/store/cache"
)

// Store provides database access to all raw objects.
type Store struct {
	profile *profile.Profile
	driver  Driver

	// Cache settings
	cacheConfig cache.Config

	// Caches
	conversationCache *cache.Cache // cache for conversations, keyed by UID
	projectCache      *cache.Cache // cache for projects, keyed by UID
}

// New creates a new instance of Store.
func New(driver Driver, profile *profile.Profile) *Store {
	// Default cache settings
	cacheConfig := cache.Config{
		DefaultTTL:      10 * time.Minute,
		CleanupInterval: 5 * time.Minute,
		MaxItems:        1000,
		OnEviction:      nil,
	}

	store := &Store{
		driver:            driver,
		profile:           profile,
		cacheConfig:       cacheConfig,
		conversationCache: cache.New(cacheConfig),
		projectCache:      cache.New(cacheConfig),
	}

	return store
}

func (s *Store) GetDriver() Driver {
	return s.driver
}

func (s *Store) Close() error {
	// Stop all cache cleanup goroutines
	s.conversationCache.Close()
	s.projectCache.Close()

	return s.driver.Close()
}

func (s *Store) CreateUser(ctx context.Context, create *User) (*User, error) {
	return s.driver.CreateUser(ctx, create)
}

func (s *Store) GetUser(ctx context.Context, find *FindUser) (*User, error) {
	users, err := s.driver.ListUsers(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, nil
	}
	return users[0], nil
}

func (s *Store) ListUsers(ctx context.Context, find *FindUser) ([]*User, error) {
	return s.driver.ListUsers(ctx, find)
}

func (s *Store) DeleteUser(ctx context.Context, delete *DeleteUser) error {
	return s.driver.DeleteUser(ctx, delete)
}

func (s *Store) CreateConversation(ctx context.Context, create *Conversation) (*Conversation, error) {
	conversation, err := s.driver.CreateConversation(ctx, create)
	if err != nil {
		return nil, err
	}
	s.conversationCache.Set(ctx, conversation.UID, conversation)
	return conversation, nil
}

func (s *Store) GetConversation(ctx context.Context, find *FindConversation) (*Conversation, error) {
	if find.UID != nil && find.ID == nil && find.CreatorID == nil && find.Status == nil {
		if v, ok := s.conversationCache.Get(ctx, *find.UID); ok {
			return v.(*Conversation), nil
		}
	}
	conversations, err := s.driver.ListConversations(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(conversations) == 0 {
		return nil, nil
	}
	conversation := conversations[0]
	s.conversationCache.Set(ctx, conversation.UID, conversation)
	return conversation, nil
}

func (s *Store) ListConversations(ctx context.Context, find *FindConversation) ([]*Conversation, error) {
	return s.driver.ListConversations(ctx, find)
}

func (s *Store) UpdateConversation(ctx context.Context, update *UpdateConversation) (*Conversation, error) {
	conversation, err := s.driver.UpdateConversation(ctx, update)
	if err != nil {
		return nil, err
	}
	s.conversationCache.Set(ctx, conversation.UID, conversation)
	return conversation, nil
}

func (s *Store) DeleteConversation(ctx context.Context, delete *DeleteConversation) error {
	conversations, err := s.driver.ListConversations(ctx, &FindConversation{ID: &delete.ID})
	if err == nil && len(conversations) > 0 {
		s.conversationCache.Delete(ctx, conversations[0].UID)
	}
	return s.driver.DeleteConversation(ctx, delete)
}

func (s *Store) CreateMessage(ctx context.Context, create *Message) (*Message, error) {
	return s.driver.CreateMessage(ctx, create)
}

func (s *Store) ListMessages(ctx context.Context, find *FindMessage) ([]*Message, error) {
	return s.driver.ListMessages(ctx, find)
}

func (s *Store) DeleteMessage(ctx context.Context, delete *DeleteMessage) error {
	return s.driver.DeleteMessage(ctx, delete)
}

func (s *Store) CreateProject(ctx context.Context, create *Project) (*Project, error) {
	project, err := s.driver.CreateProject(ctx, create)
	if err != nil {
		return nil, err
	}
	s.projectCache.Set(ctx, project.UID, project)
	return project, nil
}

func (s *Store) GetProject(ctx context.Context, find *FindProject) (*Project, error) {
	if find.UID != nil && find.ID == nil && find.CreatorID == nil {
		if v, ok := s.projectCache.Get(ctx, *find.UID); ok {
			return v.(*Project), nil
		}
	}
	projects, err := s.driver.ListProjects(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(projects) == 0 {
		return nil, nil
	}
	project := projects[0]
	s.projectCache.Set(ctx, project.UID, project)
	return project, nil
}

func (s *Store) ListProjects(ctx context.Context, find *FindProject) ([]*Project, error) {
	return s.driver.ListProjects(ctx, find)
}

func (s *Store) UpdateProject(ctx context.Context, update *UpdateProject) (*Project, error) {
	project, err := s.driver.UpdateProject(ctx, update)
	if err != nil {
		return nil, err
	}
	s.projectCache.Set(ctx, project.UID, project)
	return project, nil
}

func (s *Store) DeleteProject(ctx context.Context, delete *DeleteProject) error {
	projects, err := s.driver.ListProjects(ctx, &FindProject{ID: &delete.ID})
	if err == nil && len(projects) > 0 {
		s.projectCache.Delete(ctx, projects[0].UID)
	}
	return s.driver.DeleteProject(ctx, delete)
}

// FindMessagesByConversationUID loads the ordered transcript for a
// conversation addressed by its external UID.
func (s *Store) FindMessagesByConversationUID(ctx context.Context, uid string) (*Conversation, []*Message, error) {
	conversation, err := s.GetConversation(ctx, &FindConversation{UID: &uid})
	if err != nil {
		return nil, nil, err
	}
	if conversation == nil {
		return nil, nil, fmt.Errorf("conversation not found: %s", uid)
	}
	messages, err := s.ListMessages(ctx, &FindMessage{ConversationID: &conversation.ID})
	if err != nil {
		return nil, nil, err
	}
	return conversation, messages, nil
}
