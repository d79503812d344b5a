package chat

import "fmt"

// Reminder carries the details rendered into a chat card nudging one
// unsigned recipient about one pending document.
type Reminder struct {
	DocumentName  string
	DocumentURL   string
	RecipientName string
	DaysPending   int
}

// Teams incoming-webhook envelope wrapping one Adaptive Card.
type message struct {
	Type        string       `json:"type"`
	Attachments []attachment `json:"attachments"`
}

type attachment struct {
	ContentType string `json:"contentType"`
	Content     card   `json:"content"`
}

type card struct {
	Schema  string    `json:"$schema"`
	Type    string    `json:"type"`
	Version string    `json:"version"`
	Body    []element `json:"body"`
	Actions []action  `json:"actions,omitempty"`
}

type element struct {
	Type    string `json:"type"`
	Text    string `json:"text,omitempty"`
	Weight  string `json:"weight,omitempty"`
	Size    string `json:"size,omitempty"`
	Wrap    bool   `json:"wrap,omitempty"`
	Spacing string `json:"spacing,omitempty"`
}

type action struct {
	Type  string `json:"type"`
	Title string `json:"title"`
	URL   string `json:"url"`
	Style string `json:"style,omitempty"`
}

func buildMessage(r *Reminder) message {
	body := []element{
		{
			Type:   "TextBlock",
			Text:   fmt.Sprintf("Hi **%s**,", r.RecipientName),
			Wrap:   true,
			Size:   "Medium",
			Weight: "Bolder",
		},
		{
			Type: "TextBlock",
			Text: fmt.Sprintf(
				"Just a friendly reminder - the document **\"%s\"** has been waiting for your signature for **%d day(s)**.",
				r.DocumentName, r.DaysPending,
			),
			Wrap:    true,
			Spacing: "Small",
		},
		{
			Type:    "TextBlock",
			Text:    "Could you please take a moment to review and sign it? Your approval helps keep things moving smoothly for everyone involved.",
			Wrap:    true,
			Spacing: "Small",
		},
	}

	var actions []action
	if r.DocumentURL != "" {
		actions = append(actions, action{
			Type:  "Action.OpenUrl",
			Title: "Review & Sign Document",
			URL:   r.DocumentURL,
			Style: "positive",
		})
	}

	return message{
		Type: "message",
		Attachments: []attachment{
			{
				ContentType: "application/vnd.microsoft.card.adaptive",
				Content: card{
					Schema:  "http://adaptivecards.io/schemas/adaptive-card.json",
					Type:    "AdaptiveCard",
					Version: "1.4",
					Body:    body,
					Actions: actions,
				},
			},
		},
	}
}
