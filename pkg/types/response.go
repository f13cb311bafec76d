package types

type SuccessEnvelope struct {
	Data any `json:"data"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// WebhookAck is the body a webhook endpoint returns on success, including
// tolerated duplicate/missing-table outcomes.
type WebhookAck struct {
	Received bool `json:"received"`
}
