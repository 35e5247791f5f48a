package libvb

import "time"

// DefaultBoardID is the well-known identifier of the shared default board.
const DefaultBoardID = "default"

// SeedDocument returns the document used to initialize a new board.
func SeedDocument() *Document {
	return &Document{
		Items: []Item{
			{ID: "1", Type: TypeNote, Title: "Dream Trip", Content: "London 2026\nWalking by the Thames", Color: "bg-blue-100", Rotation: -2, Sticker: "✈️", Date: "Summer 2026", Scale: 1, FontSize: "text-xl"},
			{ID: "2", Type: TypeImage, Title: "Race Day", Content: "https://images.unsplash.com/photo-1532906619279-a764d89a445d?w=800&q=80", Rotation: 3, Sticker: "🏎️", Scale: 1},
			{ID: "3", Type: TypeGoal, Title: "Academic Weapon", Content: "9.5 CGPA", Color: "bg-pink-100", Rotation: -1, Sticker: "📚", Scale: 1, FontSize: "text-2xl"},
			{ID: "4", Type: TypeQuote, Content: "Do it tired.\nDo it sad.\nJust do it.", Color: "bg-red-200", Rotation: 2, Scale: 1, FontSize: "text-xl"},
			{ID: "5", Type: TypeImage, Title: "Himalayan Trek", Content: "https://images.unsplash.com/photo-1464822759023-fed622ff2c3b?w=800&q=80", Rotation: -3, Sticker: "🏔️", Scale: 1},
			{ID: "6", Type: TypeNote, Title: "Healthy Body", Content: "Pilates & Greens", Color: "bg-green-100", Rotation: 1, Sticker: "🧘", Scale: 1, FontSize: "text-lg"},
			{ID: "7", Type: TypeQuote, Content: "2026 is my year", Color: "bg-purple-200", Rotation: 6, Scale: 1, FontSize: "text-2xl"},
			{ID: "8", Type: TypeJournal, Title: "Productive Day", Content: "Studied for 4 hours straight today. Starting to get the hang of it.", Date: "Oct 24, 2025", Sticker: "💪", Scale: 1},
		},
		HeaderConfig: HeaderConfig{
			Title:    "My Era ✨",
			Subtitle: "Dream • Plan • Do",
			Hashtags: []string{"#Travel", "#Foodie", "#FitFab"},
		},
		ChatMessages: []ChatMessage{
			{Role: RoleModel, Text: "Hey! Ready to manifest this year? ✨", Timestamp: time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)},
		},
	}
}
