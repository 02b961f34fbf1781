package contract

// Interaction types the telephony provider sends on the webhook. Only
// response-required turns reach the language model.
const (
	InteractionResponseRequired = "response_required"
	InteractionReminderRequired = "reminder_required"
)

// TranscriptEntry is one prior utterance of the live call, re-sent by the
// telephony provider on every turn. Roles follow the provider's convention
// ("user" for the caller, "agent" for the assistant).
type TranscriptEntry struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// TurnRequest is the inbound webhook payload for one conversational turn.
type TurnRequest struct {
	CallID          string            `json:"call_id"`
	InteractionType string            `json:"interaction_type"`
	ResponseID      int               `json:"response_id"`
	Utterance       string            `json:"utterance"`
	Transcript      []TranscriptEntry `json:"transcript,omitempty"`
}

// TurnResponse is returned to the telephony provider. It is always
// success-shaped: orchestration failures become an apologetic Content,
// never a transport error.
type TurnResponse struct {
	ResponseID      int    `json:"response_id"`
	Content         string `json:"content"`
	ContentComplete bool   `json:"content_complete"`
	EndCall         bool   `json:"end_call"`
}
