package notification

import (
	"fmt"
	"time"
)

// Email is a rendered message ready to hand to a Mailer.
type Email struct {
	Subject  string
	HTMLBody string
	TextBody string
}

// VerificationEmail renders the email-verification message carrying the
// one-time code.
func VerificationEmail(firstName, code string, validFor time.Duration) Email {
	minutes := int(validFor.Minutes())
	return Email{
		Subject: "Verify your email address",
		HTMLBody: fmt.Sprintf(
			`<p>Hi %s,</p>
<p>Welcome aboard! Use the code below to verify your email address:</p>
<p style="font-size:24px;letter-spacing:4px;"><strong>%s</strong></p>
<p>The code expires in %d minutes. If you didn't create an account, you can ignore this email.</p>`,
			firstName, code, minutes),
		TextBody: fmt.Sprintf(
			"Hi %s,\n\nWelcome aboard! Your email verification code is: %s\n\nThe code expires in %d minutes. If you didn't create an account, you can ignore this email.\n",
			firstName, code, minutes),
	}
}

// ResetEmail renders the password-reset message carrying the one-time
// code.
func ResetEmail(firstName, code string, validFor time.Duration) Email {
	minutes := int(validFor.Minutes())
	return Email{
		Subject: "Reset your password",
		HTMLBody: fmt.Sprintf(
			`<p>Hi %s,</p>
<p>We received a request to reset your password. Use the code below to continue:</p>
<p style="font-size:24px;letter-spacing:4px;"><strong>%s</strong></p>
<p>The code expires in %d minutes. If you didn't request a reset, your password is unchanged and you can ignore this email.</p>`,
			firstName, code, minutes),
		TextBody: fmt.Sprintf(
			"Hi %s,\n\nWe received a request to reset your password. Your reset code is: %s\n\nThe code expires in %d minutes. If you didn't request a reset, your password is unchanged.\n",
			firstName, code, minutes),
	}
}
