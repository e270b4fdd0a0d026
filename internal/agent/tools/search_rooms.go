package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/Bookline-core-poc-v1/server/internal/agent/model"
	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"
)

// ===================================
// Search Rooms Tool
// ===================================

type SearchRoomsInput struct {
	CheckIn    string `json:"check_in"`
	CheckOut   string `json:"check_out"`
	Guests     int    `json:"guests,omitempty"`
	RoomType   string `json:"room_type,omitempty"`
	MaxResults int    `json:"max_results,omitempty"`
}

type SearchRoomsOutput struct {
	AvailableRooms []model.Room `json:"available_rooms"`
	Total          int          `json:"total"`
	CheckIn        string       `json:"check_in"`
	CheckOut       string       `json:"check_out"`
}

func createSearchRoomsTool() tool.BaseTool {
	return utils.NewTool(
		&schema.ToolInfo{
			Name: model.ToolSearchRooms,
			Desc: "Search available rooms for a stay. Requires concrete check-in and check-out dates (YYYY-MM-DD) - resolve natural-language dates with resolve_date first. Returns structured room data with ID, name, type, capacity and nightly rate.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
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
				"guests": {
					Type: "number",
					Desc: "Number of guests (default 1).",
				},
				"room_type": {
					Type: "string",
					Desc: "Optional type filter. Available types: standard, deluxe, suite, family",
				},
				"max_results": {
					Type: "number",
					Desc: "Maximum number of rooms to return (default: 10, max: 20)",
				},
			}),
		},
		func(ctx context.Context, in *SearchRoomsInput) (*SearchRoomsOutput, error) {
			if in.CheckIn == "" || in.CheckOut == "" {
				return nil, fmt.Errorf("check_in and check_out are required")
			}
			guests := in.Guests
			if guests <= 0 {
				guests = 1
			}
			maxResults := in.MaxResults
			if maxResults <= 0 {
				maxResults = 10
			}
			if maxResults > 20 {
				maxResults = 20
			}

			var matched []model.Room
			for _, room := range MockRooms {
				if !room.Available {
					continue
				}
				if room.Capacity < guests {
					continue
				}
				if in.RoomType != "" && !strings.EqualFold(room.Type, in.RoomType) {
					continue
				}
				matched = append(matched, room)
			}

			if len(matched) > maxResults {
				matched = matched[:maxResults]
			}
			if matched == nil {
				matched = []model.Room{}
			}

			return &SearchRoomsOutput{
				AvailableRooms: matched,
				Total:          len(matched),
				CheckIn:        in.CheckIn,
				CheckOut:       in.CheckOut,
			}, nil
		},
	)
}

var MockRooms = []model.Room{
	{
		ID:          "room-101",
		Name:        "Standard Twin",
		Type:        "standard",
		Capacity:    2,
		NightlyRate: 1890.00,
		Description: "Cozy twin room with garden view, ideal for short city stays",
		Available:   true,
	},
	{
		ID:          "room-102",
		Name:        "Standard Queen",
		Type:        "standard",
		Capacity:    2,
		NightlyRate: 2090.00,
		Description: "Queen bed, work desk and rain shower on the quiet side of the building",
		Available:   true,
	},
	{
		ID:          "room-201",
		Name:        "Deluxe King",
		Type:        "deluxe",
		Capacity:    2,
		NightlyRate: 3290.00,
		Description: "King bed, corner windows and a deep soaking tub",
		Available:   true,
	},
	{
		ID:          "room-202",
		Name:        "Deluxe Balcony",
		Type:        "deluxe",
		Capacity:    3,
		NightlyRate: 3690.00,
		Description: "Deluxe room with private balcony overlooking the river",
		Available:   false,
	},
	{
		ID:          "room-301",
		Name:        "Junior Suite",
		Type:        "suite",
		Capacity:    3,
		NightlyRate: 5490.00,
		Description: "Separate living area, espresso machine and evening turndown",
		Available:   true,
	},
	{
		ID:          "room-302",
		Name:        "Riverside Suite",
		Type:        "suite",
		Capacity:    4,
		NightlyRate: 7890.00,
		Description: "Full river panorama, dining table for four and butler service",
		Available:   true,
	},
	{
		ID:          "room-401",
		Name:        "Family Loft",
		Type:        "family",
		Capacity:    5,
		NightlyRate: 6290.00,
		Description: "Two-level loft with bunk beds, kitchenette and board games",
		Available:   true,
	},
	{
		ID:          "room-402",
		Name:        "Family Garden",
		Type:        "family",
		Capacity:    6,
		NightlyRate: 6890.00,
		Description: "Ground-floor family room opening onto the private garden",
		Available:   false,
	},
}
