package models

type Conversation struct {
	ID           int64 `json:"id"`
	Participant1 int64 `json:"participant_1,omitempty"`
	Participant2 int64 `json:"participant_2,omitempty"`
}

type Message struct {
	ID             int64  `json:"id,omitempty"`
	ConversationID int64  `json:"conversation_id"`
	Content        string `json:"content"`
}
