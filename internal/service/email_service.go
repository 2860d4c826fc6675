package service

import (
	"context"
	"fmt"
	"html"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"spellstory/internal/models"
)

// SessionReport summarizes a finished story session for a parent
type SessionReport struct {
	Learner    string
	SessionID  string
	ListID     int64
	StoryTitle string
	Stats      models.SessionStats
	Words      []models.WordStats
	FinishedAt time.Time
}

func newSessionReport(session *models.PlaySession, stats models.SessionStats, at time.Time) SessionReport {
	words := make([]models.WordStats, 0, len(session.WordStats))
	for _, ws := range session.WordStats {
		words = append(words, ws)
	}
	sort.Slice(words, func(i, j int) bool { return words[i].Word < words[j].Word })

	return SessionReport{
		Learner:    session.Learner,
		SessionID:  session.ID,
		ListID:     session.ListID,
		StoryTitle: session.Story.Title,
		Stats:      stats,
		Words:      words,
		FinishedAt: at,
	}
}

type sesAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// EmailService handles sending emails via Amazon SES
type EmailService struct {
	client    sesAPI
	fromEmail string
	fromName  string
	reportTo  string
	enabled   bool
	debug     bool
}

// NewEmailService creates a new email service. It is disabled unless both a sender
// and a report recipient are configured.
func NewEmailService(ctx context.Context, awsRegion, fromEmail, fromName, reportTo string, debug bool) (*EmailService, error) {
	if fromEmail == "" || reportTo == "" {
		log.Println("Email service disabled: SES_FROM_EMAIL or REPORT_EMAIL not configured")
		return &EmailService{enabled: false, debug: debug}, nil
	}

	if debug {
		log.Printf("[DEBUG] Initializing email service with AWS SES")
		log.Printf("[DEBUG] AWS Region: %s", awsRegion)
		log.Printf("[DEBUG] From Email: %s", fromEmail)
	}

	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(awsRegion))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	log.Printf("Email service enabled: from=%s, region=%s", fromEmail, awsRegion)
	return newEmailService(sesv2.NewFromConfig(cfg), fromEmail, fromName, reportTo, debug), nil
}

func newEmailService(client sesAPI, fromEmail, fromName, reportTo string, debug bool) *EmailService {
	return &EmailService{
		client:    client,
		fromEmail: fromEmail,
		fromName:  fromName,
		reportTo:  reportTo,
		enabled:   true,
		debug:     debug,
	}
}

// IsEnabled returns whether the email service is enabled
func (s *EmailService) IsEnabled() bool {
	return s.enabled
}

// SendSessionReport emails the finale report to the configured parent address
func (s *EmailService) SendSessionReport(ctx context.Context, report SessionReport) error {
	if !s.enabled {
		log.Printf("Skipping email send (service disabled): session report for %s", report.Learner)
		return nil
	}

	subject := fmt.Sprintf("%s finished a story!", report.Learner)
	return s.sendEmail(ctx, s.reportTo, subject, reportHTML(report), reportText(report))
}

func reportText(r SessionReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s finished \"%s\" on %s.\n\n", r.Learner, r.StoryTitle, r.FinishedAt.Format("2 January 2006"))
	fmt.Fprintf(&b, "Games played: %d\n", r.Stats.TotalGames)
	fmt.Fprintf(&b, "Accuracy: %.0f%%\n", r.Stats.Accuracy*100)
	fmt.Fprintf(&b, "Time: %s\n", r.Stats.Elapsed.Round(time.Second))
	fmt.Fprintf(&b, "Words mastered: %d\n\n", r.Stats.MasteredWords)
	for _, w := range r.Words {
		fmt.Fprintf(&b, "  %s: %d/%d correct (%.0f%%)\n", w.Word, w.Correct, w.Attempts, w.Confidence)
	}
	return b.String()
}

func reportHTML(r SessionReport) string {
	var rows strings.Builder
	for _, w := range r.Words {
		fmt.Fprintf(&rows, "<tr><td>%s</td><td>%d/%d</td><td>%.0f%%</td></tr>\n",
			html.EscapeString(w.Word), w.Correct, w.Attempts, w.Confidence)
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<style>
		body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
		.container { max-width: 600px; margin: 0 auto; padding: 20px; }
		.header { background-color: #4a90e2; color: white; padding: 20px; text-align: center; border-radius: 5px 5px 0 0; }
		.content { background-color: #f9f9f9; padding: 30px; border-radius: 0 0 5px 5px; }
		td { padding: 4px 12px; }
	</style>
</head>
<body>
	<div class="container">
		<div class="header"><h1>%s finished a story!</h1></div>
		<div class="content">
			<p><strong>%s</strong></p>
			<p>Games played: %d<br>Accuracy: %.0f%%<br>Words mastered: %d</p>
			<table>
%s			</table>
		</div>
	</div>
</body>
</html>`,
		html.EscapeString(r.Learner),
		html.EscapeString(r.StoryTitle),
		r.Stats.TotalGames,
		r.Stats.Accuracy*100,
		r.Stats.MasteredWords,
		rows.String(),
	)
}

// sendEmail sends an email using Amazon SES
func (s *EmailService) sendEmail(ctx context.Context, toEmail, subject, htmlBody, textBody string) error {
	fromAddress := s.fromEmail
	if s.fromName != "" {
		fromAddress = fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail)
	}

	if s.debug {
		log.Printf("[DEBUG] Sending email: from=%s, to=%s, subject=%s", fromAddress, toEmail, subject)
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{
					Data:    aws.String(subject),
					Charset: aws.String("UTF-8"),
				},
				Body: &types.Body{
					Html: &types.Content{
						Data:    aws.String(htmlBody),
						Charset: aws.String("UTF-8"),
					},
					Text: &types.Content{
						Data:    aws.String(textBody),
						Charset: aws.String("UTF-8"),
					},
				},
			},
		},
	}

	result, err := s.client.SendEmail(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to send email to %s: %w", toEmail, err)
	}

	if s.debug && result.MessageId != nil {
		log.Printf("[DEBUG] Message ID: %s", *result.MessageId)
	}

	log.Printf("Email sent successfully: to=%s, subject=%s", toEmail, subject)
	return nil
}
