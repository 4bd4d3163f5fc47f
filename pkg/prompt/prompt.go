// Package prompt builds the instruction text sent to the vision model
// together with the grid overlay image.
package prompt

import (
	"fmt"

	"github.com/OpenBitX/seeclaw/pkg/grid"
)

// SelfTestPrompt checks that the model can see the attached image at all.
const SelfTestPrompt = `What do you see in this image? Describe it briefly.`

// instructionTemplate is the fixed part of the grounding instruction. The
// reply grammar names hex_coord literally so the structured parse pass can
// target that field, and the null case is spelled out so "not found" is
// distinguishable from a malformed reply.
const instructionTemplate = `You are a desktop UI grounding assistant.

The screenshot has a coordinate grid overlay (cyan lines, %d px cells,
%d columns x %d rows). Each cell shows its own label as two stacked
lines of 4 uppercase hexadecimal digits: the top line is XXXX, the
bottom line is YYYY, together encoding the cell's TOP-LEFT corner in
screen pixels. Example: a cell labeled "0280" over "01E0" has its
top-left corner at pixel (640, 480) and transcribes as "0280,01E0".

Find the UI element described by the task and COPY the label printed in
its grid cell. This is a transcription task, not an estimation task: do
not compute or guess pixel values, read the label off the image.

Return JSON only:
{
  "hex_coord": "XXXX,YYYY",
  "reasoning": "short sentence (<= 15 words)"
}

HARD RULES
- hex_coord must be a label transcribed from the image, exactly 4 hex
  digits, a comma, 4 hex digits.
- If the element spans several cells, pick the cell containing its center.
- If no matching element is visible, return {"hex_coord": null, "reasoning": "..."}.
- JSON only. No markdown, no code fences, no comments.

Task: %s`

// BuildInstruction combines the grid convention, the reply grammar and the
// caller's goal into one instruction string.
func BuildInstruction(goal string, spec grid.Spec, width, height int) string {
	return fmt.Sprintf(instructionTemplate,
		spec.CellSize, spec.Columns(width), spec.Rows(height), goal)
}
