package email

import (
	"bytes"
	"io"
	"mime"
	"mime/multipart"
	"net/mail"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/tam/internal/app/models"
)

func TestBuildConfirmationMessage(t *testing.T) {
	msg := models.ConfirmationMessage{
		RegistrationID: 4,
		Email:          "ana@example.com",
		EventName:      "Hackathon",
		TeamName:       "<Rockets>",
		QRCode:         "1-team-Rockets-1700000000000-abc123",
	}

	raw, err := BuildConfirmationMessage("TAM Events <noreply@tam.test>", msg)
	require.NoError(t, err)

	parsed, err := mail.ReadMessage(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", parsed.Header.Get("To"))

	subject, err := new(mime.WordDecoder).DecodeHeader(parsed.Header.Get("Subject"))
	require.NoError(t, err)
	assert.Equal(t, "Registration Confirmation - Hackathon", subject)

	mediaType, params, err := mime.ParseMediaType(parsed.Header.Get("Content-Type"))
	require.NoError(t, err)
	assert.Equal(t, "multipart/related", mediaType)

	reader := multipart.NewReader(parsed.Body, params["boundary"])

	htmlPart, err := reader.NextPart()
	require.NoError(t, err)
	assert.Contains(t, htmlPart.Header.Get("Content-Type"), "text/html")
	html, err := io.ReadAll(htmlPart)
	require.NoError(t, err)
	assert.NotEmpty(t, html)

	imagePart, err := reader.NextPart()
	require.NoError(t, err)
	assert.Equal(t, "image/png", imagePart.Header.Get("Content-Type"))
	assert.Equal(t, "<qrcodeimage>", imagePart.Header.Get("Content-ID"))

	_, err = reader.NextPart()
	assert.ErrorIs(t, err, io.EOF)
}

func TestSendConfirmationEmailWithoutCredentials(t *testing.T) {
	var logs bytes.Buffer
	svc := NewEmailService(SMTPConfig{Host: "smtp.invalid", Port: 587}, zerolog.New(&logs))

	err := svc.SendConfirmationEmail(models.ConfirmationMessage{Email: "a@b.co", EventName: "E", QRCode: "c"})
	require.NoError(t, err)
	assert.Contains(t, logs.String(), "confirmation email not sent")
}
