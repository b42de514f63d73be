package telegram

import "sync"

type conversationStep int

const (
	stepNone conversationStep = iota
	stepProjectName
	stepProjectCurrency
)

type conversation struct {
	step        conversationStep
	projectName string
}

// conversationStore tracks per-chat multi-step dialogs in memory. State
// does not survive a restart; an interrupted dialog simply starts over.
type conversationStore struct {
	mu     sync.Mutex
	byChat map[int64]*conversation
}

func newConversationStore() *conversationStore {
	return &conversationStore{byChat: make(map[int64]*conversation)}
}

func (s *conversationStore) get(chatID int64) conversation {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.byChat[chatID]; ok {
		return *c
	}
	return conversation{}
}

func (s *conversationStore) set(chatID int64, c conversation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byChat[chatID] = &c
}

func (s *conversationStore) clear(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byChat, chatID)
}
