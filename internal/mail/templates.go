package mail

import (
	"fmt"

	"cloudvault/internal/i18n"
)

type template struct {
	subject string
	html    func(value, country string) string
	text    func(value string) string
}

func otpTemplate(locale i18n.Locale) template {
	if locale == i18n.LocaleFR {
		return template{
			subject: "Votre code de vérification",
			html: func(code, country string) string {
				return fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
<h2 style="color: #333;">Code de vérification</h2>
<p>Votre code de vérification est :</p>
<div style="background-color: #f4f4f4; padding: 20px; text-align: center; font-size: 32px; font-weight: bold; letter-spacing: 8px; margin: 20px 0;">%s</div>
<p style="color: #666;">Ce code expirera dans 10 minutes.</p>%s
<p style="color: #999; font-size: 12px;">Si vous n'avez pas demandé ce code, vous pouvez ignorer cet email.</p>
</div>`, code, originLineFR(country))
			},
			text: func(code string) string {
				return fmt.Sprintf("Votre code de vérification est : %s. Ce code expirera dans 10 minutes.", code)
			},
		}
	}
	return template{
		subject: "Your verification code",
		html: func(code, country string) string {
			return fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
<h2 style="color: #333;">Verification code</h2>
<p>Your verification code is:</p>
<div style="background-color: #f4f4f4; padding: 20px; text-align: center; font-size: 32px; font-weight: bold; letter-spacing: 8px; margin: 20px 0;">%s</div>
<p style="color: #666;">This code expires in 10 minutes.</p>%s
<p style="color: #999; font-size: 12px;">If you did not request this code, you can ignore this email.</p>
</div>`, code, originLineEN(country))
		},
		text: func(code string) string {
			return fmt.Sprintf("Your verification code is: %s. This code expires in 10 minutes.", code)
		},
	}
}

func resetTemplate(locale i18n.Locale) template {
	if locale == i18n.LocaleFR {
		return template{
			subject: "Réinitialisation de mot de passe",
			html: func(url, _ string) string {
				return fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
<h2 style="color: #333;">Réinitialisation de mot de passe</h2>
<p>Cliquez sur le lien ci-dessous pour réinitialiser votre mot de passe :</p>
<a href="%s" style="display: inline-block; background-color: #007bff; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px; margin: 20px 0;">Réinitialiser mon mot de passe</a>
<p style="color: #666;">Ce lien expirera dans 1 heure.</p>
<p style="color: #999; font-size: 12px;">Si vous n'avez pas demandé cette réinitialisation, vous pouvez ignorer cet email.</p>
</div>`, url)
			},
			text: func(url string) string {
				return fmt.Sprintf("Réinitialisez votre mot de passe : %s (expire dans 1 heure)", url)
			},
		}
	}
	return template{
		subject: "Password reset",
		html: func(url, _ string) string {
			return fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
<h2 style="color: #333;">Password reset</h2>
<p>Click the link below to reset your password:</p>
<a href="%s" style="display: inline-block; background-color: #007bff; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px; margin: 20px 0;">Reset my password</a>
<p style="color: #666;">This link expires in 1 hour.</p>
<p style="color: #999; font-size: 12px;">If you did not request this reset, you can ignore this email.</p>
</div>`, url)
		},
		text: func(url string) string {
			return fmt.Sprintf("Reset your password: %s (expires in 1 hour)", url)
		},
	}
}

func originLineFR(country string) string {
	if country == "" {
		return ""
	}
	return fmt.Sprintf(`
<p style="color: #666;">Demande effectuée depuis : %s</p>`, country)
}

func originLineEN(country string) string {
	if country == "" {
		return ""
	}
	return fmt.Sprintf(`
<p style="color: #666;">Request made from: %s</p>`, country)
}
