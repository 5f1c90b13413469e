package noteservice

import "time"

// DefaultSeed returns the sample notes a fresh instance starts with.
func DefaultSeed() []SeedNote {
	return []SeedNote{
		{
			Title:    "Welcome to Quill",
			Content:  "Create, edit, and organize your thoughts. Notes live in memory and are gone after a restart.",
			Category: "Personal",
		},
		{
			Title:    "Project Ideas",
			Content:  "List of exciting project ideas:\n- Modern dashboard with real-time data\n- AI-powered chat application\n- Collaborative whiteboard tool",
			Category: "Ideas",
			Age:      24 * time.Hour,
		},
		{
			Title:    "Meeting Notes - Q1 Review",
			Content:  "Key discussion points from the quarterly review meeting. Focus on performance metrics, team goals, and upcoming initiatives.",
			Category: "Work",
			Age:      48 * time.Hour,
		},
	}
}
