package assistant

const capabilitiesMessage = `I'm here to help with pathway management! You can:

- Regenerate modules with different tones
- Upload and process new files
- Update module content
- Search through existing content
- Ask what a module covers

What would you like to do?`

// Help returns the full usage guide shown for explicit help requests.
func Help() string {
	return `🤖 Pathway Assistant Help

Module management:
- "Regenerate module 2 with professional tone"
- "Update the safety module with new content"
- "Replace module 1 with the uploaded file"

File content:
- "Add the new content to pathway 1 section 2"
- "Update module 3 with the new file"
- "Add content to the safety section"

Content search:
- "Search for safety procedures"
- "Find modules about quality control"
- "What PPE is required?"

Past pathways:
- "Show past pathways"
- "Update pathway 2 section 1 with the new content"

Tips:
- Refer to modules by their number when titles are ambiguous
- Upload files first, then tell me where the content goes`
}
