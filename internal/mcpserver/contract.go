package mcpserver

import (
	"fmt"
	"strings"

	"github.com/starford/quill/internal/models"
	"github.com/starford/quill/internal/noteservice"
)

// EditorContract renders the rules a client must follow when writing notes,
// including the current category catalog.
func EditorContract(cats noteservice.CategoryList) string {
	var b strings.Builder
	b.WriteString("# Quill Editor Contract\n\n")
	b.WriteString("Notes are short plain-text records held in memory. They are lost when the server restarts.\n\n")
	b.WriteString("## Fields\n\n")
	b.WriteString("- `title`: plain text, may be empty.\n")
	b.WriteString("- `content`: plain text, may be empty.\n")
	b.WriteString("- `category`: one of the categories below.\n\n")
	b.WriteString("## Rules\n\n")
	b.WriteString("1. Title and content are trimmed before saving.\n")
	b.WriteString("2. A note needs a non-empty title or a non-empty content. This is checked on the note as saved, so an update that would leave both empty is rejected.\n")
	b.WriteString("3. An unknown or missing category is replaced by the default category.\n")
	b.WriteString("4. Updates are partial: omitted fields keep their value. `id` and `created_at` never change.\n")
	b.WriteString("5. New notes are listed first. Updating a note does not move it.\n")
	fmt.Fprintf(&b, "6. Searching matches a case-insensitive substring of title or content; category `%s` matches every category.\n\n", models.CategoryAll)
	b.WriteString("## Categories\n\n")
	for _, c := range cats.Items {
		fmt.Fprintf(&b, "- %s", c.Name)
		if c.Name == cats.Default {
			b.WriteString(" (default)")
		}
		b.WriteString("\n")
	}
	return b.String()
}
