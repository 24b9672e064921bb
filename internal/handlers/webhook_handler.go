package handlers

import (
	"context"
	"encoding/xml"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"

	"github.com/himudigonda/Vyayamam/pkg/utils"
)

// maxMessageLength is the per-message size the delivery channel tolerates;
// longer replies are split across multiple TwiML Message elements.
const maxMessageLength = 1500

type messageHandler interface {
	HandleMessage(ctx context.Context, userID, body string) (string, error)
}

// WebhookHandler accepts inbound WhatsApp messages from Twilio and replies
// with TwiML.
type WebhookHandler struct {
	messages messageHandler
}

func NewWebhookHandler(messages messageHandler) *WebhookHandler {
	return &WebhookHandler{messages: messages}
}

type twimlResponse struct {
	XMLName  xml.Name `xml:"Response"`
	Messages []string `xml:"Message"`
}

func (h *WebhookHandler) HandleIncoming(c *fiber.Ctx) error {
	from := c.FormValue("From")
	body := c.FormValue("Body")
	if from == "" || body == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "From and Body are required"})
	}

	reply, err := h.messages.HandleMessage(c.Context(), from, body)
	if err != nil {
		log.WithError(err).WithField("user", from).Error("message handling failed")
		return writeTwiML(c, fiber.StatusInternalServerError,
			"Something went wrong on my end. Your message was not saved — please try again.")
	}

	return writeTwiML(c, fiber.StatusOK, reply)
}

func writeTwiML(c *fiber.Ctx, status int, reply string) error {
	payload := twimlResponse{Messages: utils.SplitMessage(reply, maxMessageLength)}
	encoded, err := xml.Marshal(payload)
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, "application/xml")
	return c.Status(status).SendString(xml.Header + string(encoded))
}
