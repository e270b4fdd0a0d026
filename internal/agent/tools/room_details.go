package tools

import (
	"context"
	"fmt"

	"github.com/Bookline-core-poc-v1/server/internal/agent/model"
	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"
)

type GetRoomDetailsInput struct {
	RoomID string `json:"room_id"`
}

type GetRoomDetailsOutput struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	NightlyRate float64           `json:"nightly_rate"`
	Amenities   map[string]string `json:"amenities"`
	Available   bool              `json:"available"`
}

func createGetRoomDetailsTool() tool.BaseTool {
	return utils.NewTool(
		&schema.ToolInfo{
			Name: model.ToolGetRoomDetails,
			Desc: "Get full details and amenities for a specific room. Use this when the customer asks what a room includes or wants to compare rooms.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"room_id": {
					Type:     "string",
					Desc:     "Room ID obtained from search_rooms results (e.g., room-101, room-301). Must be the exact ID from search results.",
					Required: true,
				},
			}),
		},
		func(ctx context.Context, in *GetRoomDetailsInput) (*GetRoomDetailsOutput, error) {
			if in.RoomID == "" {
				return nil, fmt.Errorf("room_id is required")
			}

			if details, exists := MockRoomDetails[in.RoomID]; exists {
				return &details, nil
			}

			// Fall back to basic inventory data when no detailed record exists.
			for _, room := range MockRooms {
				if room.ID == in.RoomID {
					return &GetRoomDetailsOutput{
						ID:          room.ID,
						Name:        room.Name,
						Description: room.Description,
						NightlyRate: room.NightlyRate,
						Amenities: map[string]string{
							"type":     room.Type,
							"capacity": fmt.Sprintf("%d guests", room.Capacity),
						},
						Available: room.Available,
					}, nil
				}
			}

			return nil, fmt.Errorf("room not found: %s", in.RoomID)
		},
	)
}

var MockRoomDetails = map[string]GetRoomDetailsOutput{
	"room-201": {
		ID:          "room-201",
		Name:        "Deluxe King",
		Description: "Corner room on the upper floors with a king bed, deep soaking tub and floor-to-ceiling windows on two sides.",
		NightlyRate: 3290.00,
		Amenities: map[string]string{
			"bed":       "King, premium linen",
			"bathroom":  "Soaking tub + rain shower",
			"view":      "City corner view",
			"wifi":      "Fibre, free",
			"breakfast": "Included for two",
			"size":      "38 sqm",
		},
		Available: true,
	},
	"room-301": {
		ID:          "room-301",
		Name:        "Junior Suite",
		Description: "Suite with a separate living area, dining nook and evening turndown service.",
		NightlyRate: 5490.00,
		Amenities: map[string]string{
			"bed":       "King + sofa bed",
			"living":    "Separate living area",
			"coffee":    "Espresso machine",
			"wifi":      "Fibre, free",
			"breakfast": "Included for two",
			"size":      "52 sqm",
		},
		Available: true,
	},
	"room-401": {
		ID:          "room-401",
		Name:        "Family Loft",
		Description: "Two-level loft sleeping five, with bunk beds upstairs, a kitchenette and a shelf of board games.",
		NightlyRate: 6290.00,
		Amenities: map[string]string{
			"beds":        "Queen + 3 bunks",
			"kitchenette": "Fridge, microwave, kettle",
			"extras":      "Board games, baby cot on request",
			"wifi":        "Fibre, free",
			"size":        "64 sqm",
		},
		Available: true,
	},
}
