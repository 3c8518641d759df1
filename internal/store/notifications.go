package store

import (
	"context"
	"slices"

	"auraz-storefront/internal/domain"
	"auraz-storefront/internal/ids"
	"auraz-storefront/internal/rules"
)

// notifyLocked stamps n and puts it at the head of the notification list.
func (s *Store) notifyLocked(n domain.Notification) domain.Notification {
	now := s.now()
	n.ID = ids.New("notification", now)
	n.CreatedAt = now.UTC()
	n.IsRead = false
	s.notifications = prepended(s.notifications, n)
	return n
}

func (s *Store) AddNotification(ctx context.Context, n domain.Notification) domain.Notification {
	s.mu.Lock()
	n = s.notifyLocked(n)
	s.mu.Unlock()
	s.save(ctx, KeyNotifications)
	return n
}

func (s *Store) MarkNotificationRead(ctx context.Context, id string) {
	s.mu.Lock()
	s.notifications, _, _ = mapWhere(s.notifications,
		func(n domain.Notification) bool { return n.ID == id },
		func(n domain.Notification) (domain.Notification, error) {
			n.IsRead = true
			return n, nil
		})
	s.mu.Unlock()
	s.save(ctx, KeyNotifications)
}

func (s *Store) Notifications() []domain.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.notifications)
}

func (s *Store) UserNotifications(userID string) []domain.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return rules.UserNotifications(s.notifications, userID)
}

func (s *Store) AdminNotifications() []domain.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return rules.AdminNotifications(s.notifications)
}

func (s *Store) AdminNotificationCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return rules.AdminUnreadCount(s.notifications, s.conversations)
}

func (s *Store) UserUnreadNotificationCount(userID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return rules.UserUnreadCount(s.notifications, userID)
}

// CreateConversation opens a support chat for the current user, or for an
// anonymous visitor, and returns its id.
func (s *Store) CreateConversation(ctx context.Context, visitorName, visitorEmail string) string {
	now := s.now().UTC()
	conv := domain.Conversation{
		ID:            ids.Plain(now),
		VisitorName:   visitorName,
		VisitorEmail:  visitorEmail,
		Messages:      []domain.ChatMessage{},
		Status:        domain.ConversationActive,
		CreatedAt:     now,
		LastMessageAt: now,
	}
	s.mu.Lock()
	if s.currentUser != nil {
		conv.UserID = s.currentUser.ID
	}
	s.conversations = prepended(s.conversations, conv)
	s.mu.Unlock()
	s.save(ctx, KeyConversations)
	return conv.ID
}

// AddMessageToConversation appends a message. Customer messages in a chat
// handed to an admin raise an admin notification.
func (s *Store) AddMessageToConversation(ctx context.Context, conversationID string, sender domain.Sender, text string) error {
	now := s.now().UTC()
	msg := domain.ChatMessage{
		ID:             ids.Plain(now),
		ConversationID: conversationID,
		Sender:         sender,
		Message:        text,
		CreatedAt:      now,
	}

	s.mu.Lock()
	prev, ok := find(s.conversations, func(c domain.Conversation) bool { return c.ID == conversationID })
	if !ok {
		s.mu.Unlock()
		return ruleError("Conversation not found")
	}
	s.conversations, _, _ = mapWhere(s.conversations,
		func(c domain.Conversation) bool { return c.ID == conversationID },
		func(c domain.Conversation) (domain.Conversation, error) {
			c.Messages = appended(c.Messages, msg)
			c.LastMessageAt = now
			if sender == domain.SenderAdmin {
				c.AdminReplied = true
			}
			return c, nil
		})
	notify := sender == domain.SenderUser && prev.TransferredToAdmin
	if notify {
		s.notifyLocked(domain.Notification{
			Target:  domain.TargetAdmin,
			Title:   "New Message from Customer",
			Message: preview(text, 50),
			Type:    domain.NotifySystem,
			Link:    "/admin/messages",
		})
	}
	s.mu.Unlock()

	if notify {
		s.save(ctx, KeyConversations, KeyNotifications)
		return nil
	}
	s.save(ctx, KeyConversations)
	return nil
}

func preview(text string, n int) string {
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n]) + "..."
}

func (s *Store) TransferConversationToAdmin(ctx context.Context, conversationID string) error {
	s.mu.Lock()
	convs, found, _ := mapWhere(s.conversations,
		func(c domain.Conversation) bool { return c.ID == conversationID },
		func(c domain.Conversation) (domain.Conversation, error) {
			c.TransferredToAdmin = true
			c.Status = domain.ConversationTransferred
			return c, nil
		})
	if !found {
		s.mu.Unlock()
		return ruleError("Conversation not found")
	}
	s.conversations = convs
	s.notifyLocked(domain.Notification{
		Target:  domain.TargetAdmin,
		Title:   "New Customer Service Request",
		Message: "A customer wants to speak with support",
		Type:    domain.NotifySystem,
		Link:    "/admin/messages",
	})
	s.mu.Unlock()
	s.save(ctx, KeyConversations, KeyNotifications)
	return nil
}

func (s *Store) CloseConversation(ctx context.Context, conversationID string) {
	s.mu.Lock()
	s.conversations, _, _ = mapWhere(s.conversations,
		func(c domain.Conversation) bool { return c.ID == conversationID },
		func(c domain.Conversation) (domain.Conversation, error) {
			c.Status = domain.ConversationClosed
			return c, nil
		})
	s.mu.Unlock()
	s.save(ctx, KeyConversations)
}

func (s *Store) DeleteConversation(ctx context.Context, conversationID string) {
	s.mu.Lock()
	s.conversations = without(s.conversations, func(c domain.Conversation) bool { return c.ID == conversationID })
	s.mu.Unlock()
	s.save(ctx, KeyConversations)
}

func (s *Store) Conversation(conversationID string) (domain.Conversation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return find(s.conversations, func(c domain.Conversation) bool { return c.ID == conversationID })
}

func (s *Store) Conversations() []domain.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.conversations)
}

func (s *Store) ActiveConversations() []domain.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return rules.ActiveConversations(s.conversations)
}
