package providers

import (
	"context"
)

// ReplyGenerator defines an external text-generation collaborator. It is
// best-effort: callers must fall back to a template reply on any error.
type ReplyGenerator interface {
	GenerateReply(ctx context.Context, prompt string) (string, error)
}
