package utils

import (
	"eskuul/config"
	"fmt"
	"log"
	"net/smtp"
	"strings"
)

// Generic Send Email
func SendEmail(to []string, subject string, htmlBody string) error {
	smtpHost := "smtp.gmail.com"
	smtpPort := "587"

	from := config.AppConfig.EmailSender
	password := config.AppConfig.Password

	if from == "" || password == "" {
		log.Println("Email sender not configured, skipping notification.")
		return nil
	}

	// MIME basics
	msg := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n"
	msg += fmt.Sprintf("From: Eskuul <%s>\r\n", from)
	msg += fmt.Sprintf("To: %s\r\n", strings.Join(to, ","))
	msg += fmt.Sprintf("Subject: %s\r\n\r\n", subject)
	msg += htmlBody

	auth := smtp.PlainAuth("", from, password, smtpHost)

	err := smtp.SendMail(smtpHost+":"+smtpPort, auth, from, to, []byte(msg))
	if err != nil {
		log.Printf("Error sending email: %v", err)
		return err
	}
	return nil
}

func getEmailTemplate(title string, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; box-shadow: 0 4px 15px rgba(0,0,0,0.05); }
			.header { background-color: #1A3C6E; padding: 30px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 24px; letter-spacing: 1px; }
			.content { padding: 40px 30px; color: #1A3C6E; line-height: 1.6; }
			.content h2 { color: #1A3C6E; margin-top: 0; }
			.footer { background-color: #F6F6F6; padding: 20px; text-align: center; font-size: 12px; color: #666666; border-top: 1px solid #E0E0E0; }
			.info-box { background: #E8F0FE; padding: 15px; border-radius: 4px; border-left: 4px solid #2D9CDB; margin: 20px 0; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header">
				<h1>ESKUUL</h1>
			</div>
			<div class="content">
				<h2>%s</h2>
				%s
			</div>
			<div class="footer">
				&copy; 2026 Eskuul. All rights reserved.
			</div>
		</div>
	</body>
	</html>
	`, title, bodyContent)
}

// --- Triggers ---

// SendWelcomeEmail greets a newly registered user.
func SendWelcomeEmail(email, name string) {
	subject := "Welcome to Eskuul"
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Welcome to <strong>Eskuul</strong>! Your account has been created successfully.</p>
		<p>Log in to your dashboard to get started.</p>
	`, name)

	go SendEmail([]string{email}, subject, getEmailTemplate("Welcome Onboard!", body))
}

// SendContentApprovedEmail tells a teacher their submission went live.
func SendContentApprovedEmail(email, name, kind, title string) {
	subject := fmt.Sprintf("Your %s has been approved", kind)
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Good news! Your %s <strong>%s</strong> has been approved and is now visible to students.</p>
	`, name, kind, title)

	go SendEmail([]string{email}, subject, getEmailTemplate("Submission Approved", body))
}

// SendContentRejectedEmail tells a teacher why their submission was turned
// down.
func SendContentRejectedEmail(email, name, kind, title, reason string) {
	subject := fmt.Sprintf("Your %s was not approved", kind)
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Unfortunately your %s <strong>%s</strong> was not approved.</p>
		<div class="info-box">
			<strong>Reason:</strong> %s
		</div>
		<p>You can delete the submission, address the feedback and submit it again.</p>
	`, name, kind, title, reason)

	go SendEmail([]string{email}, subject, getEmailTemplate("Submission Rejected", body))
}
