package draft

import "strings"

// SystemPrompt is the fixed drafting instruction sent with every request.
const SystemPrompt = "You are a professional legislative counsel. " +
	"Write concise, legally-sound statutory language in active voice. " +
	"Keep scope narrowly tailored to the described policy change and include effective dates."

// Prompts is the exact instruction pair sent to the completion service,
// exposed so inspection modes can display what was actually asked.
type Prompts struct {
	System string `json:"system_prompt"`
	User   string `json:"user_prompt"`
}

// BuildPrompts composes the instruction pair for a policy description and
// an optional reference-context block.
func BuildPrompts(description, refContext string) Prompts {
	return Prompts{
		System: SystemPrompt,
		User:   UserPrompt(description, refContext),
	}
}

// UserPrompt wraps the policy description in the drafting instruction,
// appending the reference context when one is available.
func UserPrompt(description, refContext string) string {
	prompt := "Draft legislation that implements the following policy change: " +
		strings.TrimSpace(description)
	if refContext != "" {
		prompt += "\n\nReference context:\n" + refContext
	}
	return prompt
}
