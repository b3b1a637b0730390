package handlers

import (
	"encoding/xml"
	"net/http"
	"strings"

	"clinicbook/services/conversation"
	"clinicbook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const fallbackReply = "⚠️ We're experiencing technical difficulties. Please try again later."

// twiML is the Twilio messaging response envelope.
type twiML struct {
	XMLName xml.Name `xml:"Response"`
	Message string   `xml:"Message"`
}

// WebhookHandler receives inbound WhatsApp messages from Twilio.
type WebhookHandler struct {
	Conversation conversation.ConversationService
}

// NewWebhookHandler constructs a WebhookHandler.
func NewWebhookHandler(svc conversation.ConversationService) *WebhookHandler {
	return &WebhookHandler{Conversation: svc}
}

// HandleIncoming runs one conversation turn and frames the reply as TwiML.
// Internal errors never leak: the caller gets a generic apology and the
// session is left untouched so a retry is safe.
func (h *WebhookHandler) HandleIncoming(c *gin.Context) {
	from := c.PostForm("From")
	body := c.PostForm("Body")
	if from == "" {
		utils.JSONError(c, http.StatusBadRequest, "missing sender", "the From field is required")
		return
	}
	phone := strings.TrimPrefix(from, "whatsapp:")

	reply, err := h.Conversation.HandleTurn(c.Request.Context(), phone, body)
	if err != nil {
		utils.GetLogger().Error("conversation turn failed",
			zap.String("phone", phone), zap.Error(err))
		reply = fallbackReply
	}

	payload, err := xml.Marshal(twiML{Message: reply})
	if err != nil {
		utils.GetLogger().Error("failed to marshal TwiML reply", zap.Error(err))
		c.Status(http.StatusInternalServerError)
		return
	}
	c.Data(http.StatusOK, "text/xml; charset=utf-8", append([]byte(xml.Header), payload...))
}
