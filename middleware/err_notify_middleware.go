package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

type errNotifyPayload struct {
	Code   int    `json:"code"`
	Method string `json:"method"`
	Path   string `json:"path"`
	UserID string `json:"user_id,omitempty"`
	Error  string `json:"error"`
}

// ErrNotify отправляет на addr сведения об ответах 5xx
func ErrNotify(addr string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()
		statusCode := c.Response().StatusCode()
		if statusCode < http.StatusInternalServerError {
			return err
		}

		var data struct {
			Message string `json:"message"`
		}
		body := c.Response().Body()
		if unmErr := json.Unmarshal(body, &data); unmErr != nil {
			log.WithError(unmErr).Warn("ошибка разбора ответа в ErrNotify")
		}
		payload := errNotifyPayload{
			Code:   statusCode,
			Method: c.Method(),
			Path:   c.OriginalURL(),
			UserID: GetUserID(c),
			Error:  data.Message,
		}
		if r := c.Route(); r != nil {
			payload.Path = r.Path
		}
		if payload.Error == "" {
			payload.Error = string(body)
		}

		go func() {
			raw, mErr := json.Marshal(payload)
			if mErr != nil {
				log.WithError(mErr).Warn("ошибка формирования оповещения об ошибке")
				return
			}
			resp, reqErr := http.Post(addr, "application/json", strings.NewReader(string(raw)))
			if reqErr != nil {
				log.WithError(reqErr).Warn("ошибка отправки оповещения об ошибке")
				return
			}
			_ = resp.Body.Close()
		}()
		return err
	}
}
