// Package workspace implements workspace notifications and client logging.
package workspace

import (
	"fmt"

	"bennypowers.dev/stylenorm/internal/log"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// LogError logs to stderr and, when a client is connected, to its log
func LogError(ctx *glsp.Context, format string, args ...any) {
	message := fmt.Sprintf(format, args...)
	log.Error("%s", message)
	notifyLog(ctx, protocol.MessageTypeError, message)
}

// LogWarning logs to stderr and, when a client is connected, to its log
func LogWarning(ctx *glsp.Context, format string, args ...any) {
	message := fmt.Sprintf(format, args...)
	log.Warn("%s", message)
	notifyLog(ctx, protocol.MessageTypeWarning, message)
}

func notifyLog(ctx *glsp.Context, kind protocol.MessageType, message string) {
	if ctx == nil || ctx.Notify == nil {
		return
	}
	go ctx.Notify(protocol.ServerWindowLogMessage, &protocol.LogMessageParams{
		Type:    kind,
		Message: message,
	})
}
