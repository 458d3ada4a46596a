package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
)

type ChatbotRequest struct {
	Message string `json:"message" binding:"required"`
}

type ChatbotResponse struct {
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

type chatAPIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatAPIRequest struct {
	Model     string           `json:"model"`
	MaxTokens int              `json:"max_tokens"`
	Messages  []chatAPIMessage `json:"messages"`
	System    string           `json:"system,omitempty"`
}

type chatAPIResponse struct {
	Content []struct {
		Text string `json:"text"`
	} `json:"content"`
}

// ChatbotHandler lets the player talk to an AI table-talk companion about
// their current game. The live state is summarized into the system prompt so
// answers can reference the actual table.
func ChatbotHandler(gm *GameManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := userIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		var req ChatbotRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		// Chat works without a live game too; the prompt just loses the
		// table summary.
		var view *GameView
		if v, err := gm.Snapshot(userID); err == nil {
			view = v
		}

		systemPrompt := buildSystemPrompt(view)

		response, err := callChatAPI(c.Request.Context(), systemPrompt, req.Message)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get chatbot response"})
			return
		}

		c.JSON(http.StatusOK, ChatbotResponse{
			Message:   response,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		})
	}
}

// buildSystemPrompt constructs the system prompt for the chat API. When a
// live game view is provided its public facts are folded into the prompt.
func buildSystemPrompt(view *GameView) string {
	basePrompt := `You are a friendly table-talk companion for a Crazy Eights card game.
You help the player understand the rules, discuss strategy, and answer questions about their current game.

The rules: a card is playable if it matches the active suit or the active rank, and eights are wild.
Playing an eight lets the player name the next suit. First player to empty their hand wins.
Be concise and friendly. Never reveal which cards the bot opponent is holding.`

	if view != nil {
		basePrompt += fmt.Sprintf(`

Current game state:
- Status: %s, turn: %s
- Active suit: %s, active rank: %s
- Cards in the player's hand: %d (playable right now: %d)
- Cards in the bot's hand: %d
- Cards left in the draw pile: %d

Use this context to provide relevant, specific advice.`,
			view.Status, view.Turn,
			view.CurrentSuit, view.CurrentRank,
			len(view.PlayerHand), len(view.Playable),
			view.BotCards, view.DrawCards)
	}

	return basePrompt
}

func callChatAPI(ctx context.Context, systemPrompt, userMessage string) (string, error) {
	apiKey := os.Getenv("CHATBOT_API_KEY")
	if apiKey == "" {
		return "I'm sorry, the chatbot service is not configured. Please contact the administrator.", nil
	}

	apiURL := os.Getenv("CHATBOT_API_URL")
	if apiURL == "" {
		apiURL = "https://api.anthropic.com/v1/messages"
	}
	model := os.Getenv("CHATBOT_MODEL")
	if model == "" {
		model = "claude-3-5-sonnet-20241022"
	}

	reqBody := chatAPIRequest{
		Model:     model,
		MaxTokens: 500,
		System:    systemPrompt,
		Messages: []chatAPIMessage{
			{
				Role:    "user",
				Content: userMessage,
			},
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	client := &http.Client{
		Timeout: 30 * time.Second,
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API returned status %d", resp.StatusCode)
	}

	var apiResp chatAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if len(apiResp.Content) == 0 {
		return "", fmt.Errorf("no content in response")
	}

	return apiResp.Content[0].Text, nil
}
