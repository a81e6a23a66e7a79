package session

import "github.com/leofalp/puter-go/core/content"

const (
	chatInterface = "puter-chat-completion"
	chatMethod    = "complete"

	// DefaultMaxTokens and DefaultTemperature are sent with every chat call.
	DefaultMaxTokens   = 4096
	DefaultTemperature = 0.7
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Proceed bool   `json:"proceed"`
	Token   string `json:"token"`
}

type chatPayload struct {
	Interface string   `json:"interface"`
	Driver    string   `json:"driver"`
	Method    string   `json:"method"`
	Args      chatArgs `json:"args"`
	Stream    bool     `json:"stream"`
	TestMode  bool     `json:"testMode"`
}

type chatArgs struct {
	Messages    []content.Message `json:"messages"`
	Model       string            `json:"model"`
	Stream      bool              `json:"stream"`
	MaxTokens   int               `json:"max_tokens"`
	Temperature float64           `json:"temperature"`
}

func newChatPayload(driver, model string, messages []content.Message) chatPayload {
	return chatPayload{
		Interface: chatInterface,
		Driver:    driver,
		Method:    chatMethod,
		Args: chatArgs{
			Messages:    messages,
			Model:       model,
			MaxTokens:   DefaultMaxTokens,
			Temperature: DefaultTemperature,
		},
	}
}
