package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/tidwall/gjson"

	"arena/provider"
)

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handleChat serves POST /api/chat {prompt, systemInstruction?}.
func (s *Server) handleChat(c *gin.Context) {
	entry := requestLogger(c)

	raw, err := c.GetRawData()
	if err != nil || !gjson.ValidBytes(raw) {
		c.JSON(http.StatusBadRequest, provider.ErrorResponse{Error: provider.MsgPromptRequired})
		return
	}

	prompt := gjson.GetBytes(raw, "prompt")
	if prompt.Type != gjson.String || strings.TrimSpace(prompt.Str) == "" {
		c.JSON(http.StatusBadRequest, provider.ErrorResponse{Error: provider.MsgPromptRequired})
		return
	}

	var system string
	if si := gjson.GetBytes(raw, "systemInstruction"); si.Type == gjson.String {
		system = si.Str
	}

	if s.credErr != nil || s.upstream == nil {
		entry.Errorf("chat request rejected: %v", s.credErr)
		c.JSON(http.StatusInternalServerError, provider.ErrorResponse{Error: provider.MsgMisconfiguredServer})
		return
	}

	// Only the prompt and system instruction are forwarded
	reply, err := s.upstream.Generate(c.Request.Context(), provider.Request{
		Prompt:            prompt.Str,
		SystemInstruction: system,
	})
	if err != nil {
		uerr := provider.ClassifyError(s.upstream.Name(), err)
		entry.Errorf("upstream call failed: %v", uerr)
		c.JSON(http.StatusInternalServerError, provider.ErrorResponse{
			Error:   provider.ErrCodeAIError,
			Details: upstreamDetails(uerr),
		})
		return
	}

	c.JSON(http.StatusOK, provider.ChatResponse{Reply: reply})
}

// upstreamDetails keeps the status code in the message so clients can spot 429/503.
func upstreamDetails(err error) string {
	if ue, ok := err.(*provider.UpstreamError); ok && ue.StatusCode != 0 {
		return ue.Error()
	}
	return err.Error()
}
