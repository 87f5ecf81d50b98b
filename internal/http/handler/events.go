package handler

import (
	"bufio"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"awdtrack/internal/events"
	"awdtrack/internal/model"
)

const keepAliveInterval = 15 * time.Second

// visibleTo reports whether sess should see ev. Admin and the secretary see
// every change; a division sees documents it holds or just acted on.
func visibleTo(sess model.Session, ev model.DocumentEvent) bool {
	if sess.Role == model.RoleAdmin || sess.Role == model.RoleSecretary {
		return true
	}
	return ev.ForwardedTo == sess.Role || ev.Actor == sess.Role
}

// Events streams document changes as server-sent events until the client
// disconnects.
//
// @Summary  Document change feed
// @Tags     events
// @Security BearerAuth
// @Produce  text/event-stream
// @Success  200 {string} string
// @Router   /api/v1/events [get]
func Events(sub events.Subscriber) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess := sessionOf(c)

		c.Set(fiber.HeaderContentType, "text/event-stream")
		c.Set(fiber.HeaderCacheControl, "no-cache")
		c.Set(fiber.HeaderConnection, "keep-alive")
		c.Set("X-Accel-Buffering", "no")

		s := sub.Subscribe()
		c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
			defer s.Close()

			ticker := time.NewTicker(keepAliveInterval)
			defer ticker.Stop()

			fmt.Fprint(w, "retry: 3000\n\n")
			if err := w.Flush(); err != nil {
				return
			}
			for {
				select {
				case ev, ok := <-s.Events():
					if !ok {
						return
					}
					if !visibleTo(sess, ev) {
						continue
					}
					b, err := json.Marshal(ev)
					if err != nil {
						continue
					}
					fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Type, b)
				case <-ticker.C:
					fmt.Fprint(w, ": keep-alive\n\n")
				}
				// A failed flush means the client went away.
				if err := w.Flush(); err != nil {
					return
				}
			}
		})
		return nil
	}
}
