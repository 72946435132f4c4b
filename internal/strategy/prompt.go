package strategy

import (
	"fmt"
	"strings"
)

// Whitespace inside promptTemplate is part of the prompt.
const promptTemplate = `Act as a Senior Design Ops & AI Workflow Architect at Spark Labs. 
    A professional creative needs a technical blueprint to automate a specific task.
    Task: "%s"
    Preferred Software Stack: "%s"

    Generate a high-end "Workflow Blueprint" that includes:
    1. A "Strategic Approach" (Explain how to bridge human creativity with AI).
    2. A "Technical Stack Expansion" (Suggest specific AI models like Stable Diffusion XL, ControlNet, or EbSynth, and how they connect to their stack).
    3. A "Production Protocol" (Step-by-step technical implementation).
    
    Maintain a highly professional, visionary, and technical tone. Use Markdown formatting.`

// Fallback is returned when the service answers without any text.
const Fallback = "I was unable to architect a workflow at this moment. Please try again."

// Request is one blueprint request as submitted by the form.
type Request struct {
	Task  string `json:"task"`
	Stack string `json:"stack"`
}

// Validate is the caller-side presence check. Generate does not call it.
func (r Request) Validate() error {
	var missing []string
	if strings.TrimSpace(r.Task) == "" {
		missing = append(missing, "task")
	}
	if strings.TrimSpace(r.Stack) == "" {
		missing = append(missing, "stack")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingField, strings.Join(missing, ", "))
	}
	return nil
}

// Prompt embeds task and stack verbatim; user text is not escaped.
func (r Request) Prompt() string {
	return fmt.Sprintf(promptTemplate, r.Task, r.Stack)
}
