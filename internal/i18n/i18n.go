// Package i18n selects the response and email language. The product is
// French-first with an English fallback, so the catalog is a closed two-locale
// table rather than a translation pipeline.
package i18n

import (
	"golang.org/x/text/language"
)

// Locale is a normalized language code, either "en" or "fr".
type Locale string

const (
	LocaleEN Locale = "en"
	LocaleFR Locale = "fr"
)

var matcher = language.NewMatcher([]language.Tag{
	language.English, // first entry is the fallback
	language.French,
})

// Match resolves an Accept-Language style header (or a bare code) to a
// supported locale.
func Match(header string) Locale {
	if header == "" {
		return LocaleEN
	}
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return LocaleEN
	}
	_, index, _ := matcher.Match(tags...)
	if index == 1 {
		return LocaleFR
	}
	return LocaleEN
}

// Normalize coerces arbitrary locale strings into a supported Locale.
func Normalize(code string) Locale {
	if Match(code) == LocaleFR {
		return LocaleFR
	}
	return LocaleEN
}

// MessageKey names a translatable string.
type MessageKey string

const (
	MsgInvalidCredentials MessageKey = "invalid_credentials"
	MsgInvalidCode        MessageKey = "invalid_code"
	MsgExpiredCode        MessageKey = "expired_code"
	MsgNotAuthenticated   MessageKey = "not_authenticated"
	MsgServerError        MessageKey = "server_error"
	MsgResetRequested     MessageKey = "reset_requested"
	MsgCodeSent           MessageKey = "code_sent"
	MsgPasswordUpdated    MessageKey = "password_updated"
	MsgLoggedOut          MessageKey = "logged_out"
)

var catalog = map[MessageKey]map[Locale]string{
	MsgInvalidCredentials: {
		LocaleEN: "Invalid credentials",
		LocaleFR: "Identifiants invalides",
	},
	MsgInvalidCode: {
		LocaleEN: "Invalid code",
		LocaleFR: "Code invalide",
	},
	MsgExpiredCode: {
		LocaleEN: "Code expired",
		LocaleFR: "Code expiré",
	},
	MsgNotAuthenticated: {
		LocaleEN: "Not authenticated",
		LocaleFR: "Non authentifié",
	},
	MsgServerError: {
		LocaleEN: "Server error",
		LocaleFR: "Erreur serveur",
	},
	MsgResetRequested: {
		LocaleEN: "If an account exists with this email, you will receive a reset link.",
		LocaleFR: "Si un compte existe avec cet email, vous recevrez un lien de réinitialisation.",
	},
	MsgCodeSent: {
		LocaleEN: "A verification code has been sent to your email.",
		LocaleFR: "Un code de vérification a été envoyé à votre adresse email.",
	},
	MsgPasswordUpdated: {
		LocaleEN: "Password updated",
		LocaleFR: "Mot de passe mis à jour",
	},
	MsgLoggedOut: {
		LocaleEN: "Logged out",
		LocaleFR: "Déconnecté",
	},
}

// T returns the message for key in the given locale, falling back to English.
func T(locale Locale, key MessageKey) string {
	if msgs, ok := catalog[key]; ok {
		if msg, ok := msgs[locale]; ok {
			return msg
		}
		return msgs[LocaleEN]
	}
	return string(key)
}
