// Package dto defines the Langflow run API payloads.
package dto

// PromptTweak overrides the prompt component of the flow.
type PromptTweak struct {
	Template string `json:"template"`
	UserID   string `json:"userId"`
}

// RunRequest is the body of POST /lf/{langflowId}/api/v1/run/{flowId}.
type RunRequest struct {
	InputValue string         `json:"input_value"`
	InputType  string         `json:"input_type"`
	OutputType string         `json:"output_type"`
	Tweaks     map[string]any `json:"tweaks,omitempty"`
}

// RunResponse is the subset of the run response that carries the chat reply.
// Reply path: outputs[0].outputs[0].outputs.message.message.text
type RunResponse struct {
	Outputs []struct {
		Outputs []struct {
			Outputs struct {
				Message struct {
					Message struct {
						Text string `json:"text"`
					} `json:"message"`
				} `json:"message"`
			} `json:"outputs"`
		} `json:"outputs"`
	} `json:"outputs"`
}

// Text returns the reply text, or "" when the path is absent.
func (r RunResponse) Text() string {
	if len(r.Outputs) == 0 || len(r.Outputs[0].Outputs) == 0 {
		return ""
	}
	return r.Outputs[0].Outputs[0].Outputs.Message.Message.Text
}
