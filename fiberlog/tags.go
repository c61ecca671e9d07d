package fiberlog

import (
	"time"

	authutils "approval-routing-backend/lib/utils/auth-utils"

	"github.com/gofiber/fiber/v2"
)

const (
	TagPid      = "pid"
	TagStatus   = "status"
	TagLatency  = "latency"
	TagMethod   = "method"
	TagPath     = "path"
	TagURL      = "url"
	TagIP       = "ip"
	TagUA       = "ua"
	TagBytesIn  = "bytes_in"
	TagBytesOut = "bytes_out"
	TagUserID   = "user_id"
)

type data struct {
	pid   int
	start time.Time
	end   time.Time
}

// FuncTag значение поля лога для запроса
type FuncTag func(c *fiber.Ctx, d *data) interface{}

var funcTags = map[string]FuncTag{
	TagPid:      func(c *fiber.Ctx, d *data) interface{} { return d.pid },
	TagStatus:   func(c *fiber.Ctx, d *data) interface{} { return c.Response().StatusCode() },
	TagLatency:  func(c *fiber.Ctx, d *data) interface{} { return d.end.Sub(d.start).String() },
	TagMethod:   func(c *fiber.Ctx, d *data) interface{} { return c.Method() },
	TagPath:     func(c *fiber.Ctx, d *data) interface{} { return c.Path() },
	TagURL:      func(c *fiber.Ctx, d *data) interface{} { return c.OriginalURL() },
	TagIP:       func(c *fiber.Ctx, d *data) interface{} { return c.IP() },
	TagUA:       func(c *fiber.Ctx, d *data) interface{} { return c.Get(fiber.HeaderUserAgent) },
	TagBytesIn:  func(c *fiber.Ctx, d *data) interface{} { return len(c.Request().Body()) },
	TagBytesOut: func(c *fiber.Ctx, d *data) interface{} { return len(c.Response().Body()) },
	TagUserID: func(c *fiber.Ctx, d *data) interface{} {
		if sub, ok := authutils.GetClaims(c)["sub"].(string); ok {
			return sub
		}
		return ""
	},
}

func getFuncTagMap(cfg Config) map[string]FuncTag {
	result := make(map[string]FuncTag, len(cfg.Tags))
	for _, tag := range cfg.Tags {
		if ft, ok := funcTags[tag]; ok {
			result[tag] = ft
		}
	}
	return result
}
