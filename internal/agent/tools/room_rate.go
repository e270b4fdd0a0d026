package tools

import (
	"context"
	"fmt"
	"time"

	"github.com/Bookline-core-poc-v1/server/internal/agent/model"
	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"
)

type GetRoomRateInput struct {
	RoomID   string `json:"room_id"`
	CheckIn  string `json:"check_in"`
	CheckOut string `json:"check_out"`
}

func createGetRoomRateTool() tool.BaseTool {
	return utils.NewTool(
		&schema.ToolInfo{
			Name: model.ToolGetRoomRate,
			Desc: "Quote the total price for a room over a stay. Requires a room ID from search_rooms and concrete YYYY-MM-DD dates. Stays of 7 nights or more get the long-stay discount applied automatically.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"room_id": {
					Type:     "string",
					Desc:     "Room ID from search_rooms results.",
					Required: true,
				},
				"check_in": {
					Type:     "string",
					Desc:     "Check-in date in YYYY-MM-DD format.",
					Required: true,
				},
				"check_out": {
					Type:     "string",
					Desc:     "Check-out date in YYYY-MM-DD format.",
					Required: true,
				},
			}),
		},
		func(ctx context.Context, in *GetRoomRateInput) (*model.RoomRate, error) {
			if in.RoomID == "" {
				return nil, fmt.Errorf("room_id is required")
			}

			var room *model.Room
			for i := range MockRooms {
				if MockRooms[i].ID == in.RoomID {
					room = &MockRooms[i]
					break
				}
			}
			if room == nil {
				return nil, fmt.Errorf("room not found: %s", in.RoomID)
			}

			checkIn, err := time.Parse(dateLayout, in.CheckIn)
			if err != nil {
				return nil, fmt.Errorf("invalid check_in %q: %w", in.CheckIn, err)
			}
			checkOut, err := time.Parse(dateLayout, in.CheckOut)
			if err != nil {
				return nil, fmt.Errorf("invalid check_out %q: %w", in.CheckOut, err)
			}
			nights := int(checkOut.Sub(checkIn).Hours() / 24)
			if nights <= 0 {
				return nil, fmt.Errorf("check_out must be after check_in")
			}

			total := room.NightlyRate * float64(nights)
			if nights >= 7 {
				// long-stay discount
				total = total * 0.9
			}

			return &model.RoomRate{
				RoomID:      room.ID,
				NightlyRate: room.NightlyRate,
				Nights:      nights,
				Total:       total,
				Currency:    "THB",
			}, nil
		},
	)
}
