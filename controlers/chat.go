package controlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/RayaSatriatama/dicoding-genai-backend/config"
	"github.com/RayaSatriatama/dicoding-genai-backend/libs"
)

type ChatController struct {
	chats     *libs.ChatService
	generator libs.Generator
	typer     libs.Typewriter
	cfg       *config.Config
}

func NewChatController(chats *libs.ChatService, generator libs.Generator, cfg *config.Config) *ChatController {
	return &ChatController{
		chats:     chats,
		generator: generator,
		typer:     libs.NewTypewriter(),
		cfg:       cfg,
	}
}

// CreateChat seeds a new chat with the first user message and registers
// it in the caller's index.
func (cc *ChatController) CreateChat(c *gin.Context) {
	type Body struct {
		Text string `json:"text"`
	}

	var body Body
	if err := c.ShouldBindJSON(&body); err != nil || body.Text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text is required"})
		return
	}

	userID := c.GetString(libs.ContextUserKey)

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	chat, err := cc.chats.CreateSession(ctx, userID, body.Text)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "chat created",
		"chatId":  chat.ID,
	})
}

// GetUserChats lists the caller's chat summaries, most recent first.
func (cc *ChatController) GetUserChats(c *gin.Context) {
	userID := c.GetString(libs.ContextUserKey)

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	summaries, err := cc.chats.ListSessions(ctx, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, summaries)
}

// GetChat returns the full history of an owned chat. With ?render=1 each
// history entry also carries its rendered form (quiz or prose HTML).
func (cc *ChatController) GetChat(c *gin.Context) {
	userID := c.GetString(libs.ContextUserKey)

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	chat, err := cc.chats.GetSession(ctx, c.Param("id"), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	if c.Query("render") == "" {
		c.JSON(http.StatusOK, chat)
		return
	}

	rendered := make([]libs.RenderedMessage, len(chat.History))
	for i, msg := range chat.History {
		if len(msg.Parts) > 0 {
			rendered[i] = libs.Render(msg.Parts[0].Text)
		}
	}
	c.JSON(http.StatusOK, gin.H{"chat": chat, "rendered": rendered})
}

// AppendChat appends a question/answer turn in one batch. The question is
// optional; the answer is not.
func (cc *ChatController) AppendChat(c *gin.Context) {
	type Body struct {
		Question string `json:"question"`
		Answer   string `json:"answer"`
		Img      string `json:"img"`
	}

	var body Body
	if err := c.ShouldBindJSON(&body); err != nil || body.Answer == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "answer is required"})
		return
	}

	userID := c.GetString(libs.ContextUserKey)

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	chat, err := cc.chats.AppendTurn(ctx, c.Param("id"), userID, body.Question, body.Answer, body.Img)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, chat)
}

// AskChat generates an answer for the prompt and records the turn. The
// chat stays untouched unless generation fully succeeds; only then is the
// [question, answer] batch appended. With ?stream=1 the stored answer is
// replayed as server-sent events.
func (cc *ChatController) AskChat(c *gin.Context) {
	type Body struct {
		Text        string   `json:"text"`
		Img         string   `json:"img"`
		Model       string   `json:"model"`
		MaxTokens   int      `json:"maxTokens"`
		Temperature *float64 `json:"temperature"`
		TopK        *float64 `json:"topK"`
		TopP        *float64 `json:"topP"`
		Document    string   `json:"document"`
	}

	var body Body
	if err := c.ShouldBindJSON(&body); err != nil || body.Text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text is required"})
		return
	}

	userID := c.GetString(libs.ContextUserKey)
	chatID := c.Param("id")

	ctx, cancel := context.WithTimeout(c.Request.Context(), 120*time.Second)
	defer cancel()

	// Ownership check before spending a generation call.
	chat, err := cc.chats.GetSession(ctx, chatID, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	req := libs.GenerationRequest{
		Input:       body.Text,
		SessionID:   chatID,
		History:     chat.History,
		Model:       cc.cfg.Model,
		MaxTokens:   cc.cfg.MaxTokens,
		Temperature: cc.cfg.Temperature,
		TopK:        cc.cfg.TopK,
		TopP:        cc.cfg.TopP,
		Document:    body.Document,
	}
	if body.Model != "" {
		req.Model = body.Model
	}
	if body.MaxTokens > 0 {
		req.MaxTokens = body.MaxTokens
	}
	if body.Temperature != nil {
		req.Temperature = *body.Temperature
	}
	if body.TopK != nil {
		req.TopK = *body.TopK
	}
	if body.TopP != nil {
		req.TopP = *body.TopP
	}

	answer, err := cc.generator.Generate(ctx, req)
	if err != nil {
		// Nothing was appended; the caller can retry the whole turn.
		respondError(c, err)
		return
	}

	chat, err = cc.chats.AppendTurn(ctx, chatID, userID, body.Text, answer, body.Img)
	if err != nil {
		respondError(c, err)
		return
	}

	if c.Query("stream") == "" {
		c.JSON(http.StatusOK, gin.H{"answer": answer, "chat": chat})
		return
	}

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Flush()

	for chunk := range cc.typer.Reveal(c.Request.Context(), answer) {
		fmt.Fprintf(c.Writer, "data: %q\n\n", chunk)
		c.Writer.Flush()
	}
	fmt.Fprintf(c.Writer, "event: done\ndata: \"end\"\n\n")
	c.Writer.Flush()
}

// DeleteChat removes an owned chat and its index entry.
func (cc *ChatController) DeleteChat(c *gin.Context) {
	userID := c.GetString(libs.ContextUserKey)

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	if err := cc.chats.DeleteSession(ctx, c.Param("id"), userID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Chat deleted successfully"})
}
