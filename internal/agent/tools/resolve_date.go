package tools

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Bookline-core-poc-v1/server/internal/agent/model"
	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"
)

// ===================================
// Resolve Date Tool
// ===================================

const dateLayout = "2006-01-02"

type ResolveDateInput struct {
	DateText string `json:"date_text"`
	Nights   int    `json:"nights,omitempty"`
}

type ResolveDateOutput struct {
	CheckIn  string `json:"check_in,omitempty"`
	CheckOut string `json:"check_out,omitempty"`
	Nights   int    `json:"nights,omitempty"`
	Note     string `json:"note,omitempty"`
}

func createResolveDateTool() tool.BaseTool {
	return utils.NewTool(
		&schema.ToolInfo{
			Name: model.ToolResolveDate,
			Desc: "Resolve a natural-language stay description into concrete check-in and check-out dates. Handles phrases like 'tonight', 'tomorrow', 'this weekend', 'next week' and explicit dates or ranges in YYYY-MM-DD form. Always call this before searching rooms when the customer gave dates in words.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"date_text": {
					Type:     "string",
					Desc:     "The stay description as the customer phrased it, e.g. 'this weekend', 'tomorrow for 3 nights', '2026-09-01 to 2026-09-04'.",
					Required: true,
				},
				"nights": {
					Type: "number",
					Desc: "Number of nights when the customer stated it explicitly (default 1).",
				},
			}),
		},
		func(ctx context.Context, in *ResolveDateInput) (*ResolveDateOutput, error) {
			if strings.TrimSpace(in.DateText) == "" {
				return nil, fmt.Errorf("date_text is required")
			}
			nights := in.Nights
			if nights <= 0 {
				nights = 1
			}
			return resolveStay(strings.ToLower(strings.TrimSpace(in.DateText)), nights, time.Now()), nil
		},
	)
}

// resolveStay maps a normalized phrase to a date range relative to now. A
// phrase it cannot understand produces an output with no dates, which the
// validator flags as malformed rather than failing the call.
func resolveStay(text string, nights int, now time.Time) *ResolveDateOutput {
	today := now.Truncate(24 * time.Hour)

	stay := func(checkIn time.Time, n int) *ResolveDateOutput {
		return &ResolveDateOutput{
			CheckIn:  checkIn.Format(dateLayout),
			CheckOut: checkIn.AddDate(0, 0, n).Format(dateLayout),
			Nights:   n,
		}
	}

	// Explicit range first: "2026-09-01 to 2026-09-04".
	if from, to, ok := strings.Cut(text, " to "); ok {
		in, errIn := time.Parse(dateLayout, strings.TrimSpace(from))
		out, errOut := time.Parse(dateLayout, strings.TrimSpace(to))
		if errIn == nil && errOut == nil && out.After(in) {
			n := int(out.Sub(in).Hours() / 24)
			return &ResolveDateOutput{
				CheckIn:  in.Format(dateLayout),
				CheckOut: out.Format(dateLayout),
				Nights:   n,
			}
		}
	}

	switch {
	case strings.Contains(text, "tonight"), strings.Contains(text, "today"):
		return stay(today, nights)
	case strings.Contains(text, "tomorrow"):
		return stay(today.AddDate(0, 0, 1), nights)
	case strings.Contains(text, "weekend"):
		daysUntilSaturday := (int(time.Saturday) - int(today.Weekday()) + 7) % 7
		if daysUntilSaturday == 0 {
			daysUntilSaturday = 7
		}
		return stay(today.AddDate(0, 0, daysUntilSaturday), nights)
	case strings.Contains(text, "next week"):
		daysUntilMonday := (int(time.Monday) - int(today.Weekday()) + 7) % 7
		if daysUntilMonday == 0 {
			daysUntilMonday = 7
		}
		return stay(today.AddDate(0, 0, daysUntilMonday), nights)
	}

	// A bare explicit date.
	if in, err := time.Parse(dateLayout, text); err == nil {
		return stay(in, nights)
	}

	return &ResolveDateOutput{Note: fmt.Sprintf("could not resolve %q into dates", text)}
}
