package messenger

// ReplyPayload is the platform message object sent back to a user. Empty
// quick replies and buttons are omitted from the wire format entirely, not
// emitted as empty lists: the platform rejects empty arrays.
type ReplyPayload struct {
	Text         string       `json:"text"`
	QuickReplies []QuickReply `json:"quick_replies,omitempty"`
	Buttons      []Button     `json:"buttons,omitempty"`
}

type QuickReply struct {
	ContentType string `json:"content_type"`
	Title       string `json:"title,omitempty"`
	Payload     string `json:"payload,omitempty"`
}

type Button struct {
	Type    string `json:"type"`
	Title   string `json:"title,omitempty"`
	URL     string `json:"url,omitempty"`
	Payload string `json:"payload,omitempty"`
}

const locationPromptText = "What state are you in? Share your location?"

func Format(text string, quickReplies []QuickReply, buttons []Button) ReplyPayload {
	payload := ReplyPayload{
		Text: text,
	}

	if len(quickReplies) > 0 {
		payload.QuickReplies = quickReplies
	}

	if len(buttons) > 0 {
		payload.Buttons = buttons
	}

	return payload
}

// LocationPrompt builds the quick-reply prompt asking the user to share
// their location.
func LocationPrompt() ReplyPayload {
	return Format(locationPromptText, []QuickReply{
		{ContentType: "location"},
	}, nil)
}
