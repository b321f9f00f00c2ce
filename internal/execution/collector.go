package execution

import (
	"strings"
	"sync"

	copilot "github.com/github/copilot-sdk/go"
)

const sessionFailedUnknown = "session failed with unknown error"

// messageCollector gathers assistant output from a Copilot session.
type messageCollector struct {
	mu       sync.Mutex
	parts    []string
	errorMsg string
}

// On is intended to be passed to [copilot.Session.On].
func (c *messageCollector) On(event copilot.SessionEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch event.Type {
	case copilot.AssistantMessage:
		if event.Data.Content != nil {
			c.parts = append(c.parts, *event.Data.Content)
		}
	case copilot.SessionError:
		if event.Data.Message == nil || *event.Data.Message == "" {
			c.errorMsg = sessionFailedUnknown
		} else {
			c.errorMsg = *event.Data.Message
		}
	}
}

// Output joins the collected assistant messages.
func (c *messageCollector) Output() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return strings.Join(c.parts, "")
}

// ErrorMessage returns the session error, if any.
func (c *messageCollector) ErrorMessage() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errorMsg
}
