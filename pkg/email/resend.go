package email

import (
	"bytes"
	"html/template"
	"time"

	"github.com/resendlabs/resend-go"
	"go.uber.org/zap"
)

type EmailService struct {
	client   *resend.Client
	from     string
	fromName string
	logger   *zap.Logger
}

func NewEmailService(apiKey, from, fromName string, logger *zap.Logger) *EmailService {
	return &EmailService{
		client:   resend.NewClient(apiKey),
		from:     from,
		fromName: fromName,
		logger:   logger,
	}
}

var credentialsTemplate = template.Must(template.New("credentials").Parse(`
<h2>Your event is ready!</h2>
<p>Hi, your event <strong>{{.Title}}</strong> has been created.</p>
<p>Scheduled for: {{.Date}}</p>
<p>Use these credentials to sign in and moderate uploaded photos:</p>
<ul>
  <li>Event ID: <strong>{{.EventID}}</strong></li>
  <li>Password: <strong>{{.Password}}</strong></li>
</ul>
<p>Share the upload link with your guests: <a href="{{.UploadURL}}">{{.UploadURL}}</a></p>
<p>&copy; {{.Year}} EventSnap</p>
`))

// SendEventCredentials mails the host their login details after self-service
// event creation. Best-effort: callers must not fail the creation on error.
func (s *EmailService) SendEventCredentials(to, title, eventID, password, uploadURL string, date time.Time) error {
	s.logger.Info("sending event credentials email",
		zap.String("to", to),
		zap.String("event_id", eventID),
	)

	var body bytes.Buffer
	err := credentialsTemplate.Execute(&body, map[string]interface{}{
		"Title":     title,
		"Date":      date.Format("January 2, 2006"),
		"EventID":   eventID,
		"Password":  password,
		"UploadURL": uploadURL,
		"Year":      time.Now().Year(),
	})
	if err != nil {
		s.logger.Error("failed to render credentials template", zap.Error(err))
		return err
	}

	params := &resend.SendEmailRequest{
		From:    s.fromName + " <" + s.from + ">",
		To:      []string{to},
		Subject: "Your EventSnap event credentials",
		Html:    body.String(),
	}

	resp, err := s.client.Emails.Send(params)
	if err != nil {
		s.logger.Error("failed to send credentials email",
			zap.String("to", to),
			zap.Error(err),
		)
		return err
	}

	s.logger.Info("credentials email sent",
		zap.String("to", to),
		zap.String("message_id", resp.Id),
	)
	return nil
}
