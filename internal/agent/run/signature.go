package run

import (
	"encoding/json"
	"fmt"

	"github.com/Bookline-core-poc-v1/server/internal/agent/model"
)

// signatureIgnoredArgs are presentation-only arguments that do not change what
// a tool call actually fetches, so two calls differing only here are duplicates.
var signatureIgnoredArgs = map[string]struct{}{
	"max_results": {},
}

// Signature derives an order-independent fingerprint of a tool name and its
// semantically relevant arguments. Replanning uses the set of attempted
// signatures to avoid reissuing an identical call.
func Signature(tool string, args map[string]any) string {
	relevant := make(map[string]any, len(args))
	for k, v := range args {
		if _, skip := signatureIgnoredArgs[k]; skip {
			continue
		}
		relevant[k] = v
	}
	// json.Marshal sorts map keys, giving a canonical encoding.
	b, err := json.Marshal(relevant)
	if err != nil {
		return fmt.Sprintf("%s:%v", tool, relevant)
	}
	return tool + ":" + string(b)
}

// CallSignature is Signature applied to a ToolCall.
func CallSignature(c model.ToolCall) string {
	return Signature(c.Tool, c.Arguments)
}
