package middleware

import "net/http"

// Header que Telegram agrega a cada llamada del webhook cuando el alta se
// hizo con secret_token.
const secretTokenHeader = "X-Telegram-Bot-Api-Secret-Token"

// WebhookAuth corta los requests cuyo secret no coincide con el configurado.
// Con secret vacío no exige nada (webhook dado de alta sin secreto).
func WebhookAuth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secret != "" && r.Header.Get(secretTokenHeader) != secret {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
