package domain

import "time"

type ConversationStatus string

const (
	ConversationActive      ConversationStatus = "active"
	ConversationTransferred ConversationStatus = "transferred"
	ConversationClosed      ConversationStatus = "closed"
)

type Sender string

const (
	SenderUser  Sender = "user"
	SenderAI    Sender = "ai"
	SenderAdmin Sender = "admin"
)

type ChatMessage struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversationId"`
	Sender         Sender    `json:"sender"`
	Message        string    `json:"message"`
	CreatedAt      time.Time `json:"createdAt"`
}

// Conversation is a support chat. UserID is empty for anonymous visitors.
type Conversation struct {
	ID                 string             `json:"id"`
	UserID             string             `json:"userId,omitempty"`
	VisitorName        string             `json:"visitorName,omitempty"`
	VisitorEmail       string             `json:"visitorEmail,omitempty"`
	Messages           []ChatMessage      `json:"messages"`
	Status             ConversationStatus `json:"status"`
	TransferredToAdmin bool               `json:"transferredToAdmin"`
	AdminReplied       bool               `json:"adminReplied"`
	CreatedAt          time.Time          `json:"createdAt"`
	LastMessageAt      time.Time          `json:"lastMessageAt"`
}
