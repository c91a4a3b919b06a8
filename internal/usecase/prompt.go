package usecase

import (
	"fmt"
	"strconv"
	"strings"

	"agri-advisor/internal/domain/entity"
)

const (
	personalityPreamble = "You are Krishi Mitra, a friendly and practical agriculture advisor. " +
		"You help farmers with soil, crops, irrigation, weather and pest problems. " +
		"Answer in simple words a farmer can act on."

	replyLengthInstruction = "Reply in about 30 tokens and never more than 100 tokens."

	defaultDesiredCrop = "any suitable crop"
)

// buildChatPrompt renders the preamble, the turns (history followed by the new
// user message) and the reply length instruction, one turn per line.
func buildChatPrompt(history []entity.ChatTurn, message string) string {
	lines := make([]string, 0, len(history)+1)
	for _, t := range history {
		lines = append(lines, renderTurn(t))
	}
	lines = append(lines, renderTurn(entity.ChatTurn{Role: entity.RoleUser, Content: message}))

	return strings.Join([]string{
		personalityPreamble,
		"",
		strings.Join(lines, "\n"),
		"",
		replyLengthInstruction,
	}, "\n")
}

func renderTurn(t entity.ChatTurn) string {
	if t.Role == entity.RoleAssistant {
		return "AI: " + t.Content
	}
	return "User: " + t.Content
}

// lastTurns returns the final n turns without copying.
func lastTurns(history []entity.ChatTurn, n int) []entity.ChatTurn {
	if n <= 0 {
		return nil
	}
	if len(history) > n {
		return history[len(history)-n:]
	}
	return history
}

func buildRecommendPrompt(r entity.SoilReading, desiredCrop string) string {
	crop := strings.TrimSpace(desiredCrop)
	if crop == "" {
		crop = defaultDesiredCrop
	}
	temperature := "not measured"
	if r.Temperature != nil {
		temperature = formatReading(*r.Temperature) + " °C"
	}

	return strings.Join([]string{
		"You are an expert agronomist advising a smallholder farmer.",
		"",
		"Soil readings:",
		fmt.Sprintf("- pH: %s", formatReading(r.PH)),
		fmt.Sprintf("- Moisture: %s%%", formatReading(r.Moisture)),
		fmt.Sprintf("- Temperature: %s", temperature),
		fmt.Sprintf("Desired crop: %s", crop),
		"",
		"Recommend what to grow and the key soil treatments, fertilizer and irrigation steps.",
		"Keep the answer short and practical.",
	}, "\n")
}

func formatReading(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
