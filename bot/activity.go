// Copyright (c) Microsoft. All rights reserved.

package bot

// ActivityKind identifies the type of an inbound [Activity].
type ActivityKind string

const (
	// ActivityMessage is a user text message.
	ActivityMessage ActivityKind = "message"

	// ActivityConversationUpdate signals a membership change, such as
	// participants being added to the conversation.
	ActivityConversationUpdate ActivityKind = "conversationUpdate"
)

// ChannelAccount identifies a participant on the channel.
type ChannelAccount struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// ConversationAccount identifies the conversation an activity belongs to.
type ConversationAccount struct {
	ID string `json:"id"`
}

// Activity is one inbound event from the hosting channel.
type Activity struct {
	Kind         ActivityKind        `json:"kind"`
	Text         string              `json:"text,omitempty"`
	From         ChannelAccount      `json:"from"`
	Recipient    ChannelAccount      `json:"recipient"`
	Conversation ConversationAccount `json:"conversation"`
	MembersAdded []ChannelAccount    `json:"membersAdded,omitempty"`
}

// NewMessageActivity builds a message [Activity] for the given conversation.
func NewMessageActivity(conversationID, text string, from, recipient ChannelAccount) Activity {
	return Activity{
		Kind:         ActivityMessage,
		Text:         text,
		From:         from,
		Recipient:    recipient,
		Conversation: ConversationAccount{ID: conversationID},
	}
}
