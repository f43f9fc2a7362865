package types

type ChatRequest struct {
	Message string `json:"message"`
	// Location is the city carried over from the previous reply, if any.
	Location string `json:"location,omitempty"`
}

type ChatResponse struct {
	Reply    string          `json:"reply"`
	HTML     bool            `json:"html"`
	Location string          `json:"location,omitempty"`
	Intent   *IntentResponse `json:"intent,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// IntentResponse tells the frontend which route produced the reply and,
// for event listings, whether the events are live or suggestions.
type IntentResponse struct {
	Type    string         `json:"type"`
	Payload map[string]any `json:"payload,omitempty"`
}
