package gemini

import (
	"fmt"
	"strings"

	"github.com/at-ishikawa/studylog/internal/inference"
)

func buildPrompt(params inference.SuggestTasksRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are a study assistant. The learner is studying %q.\n", params.Subject)
	if topic := strings.TrimSpace(params.Topic); topic != "" {
		fmt.Fprintf(&b, "Their understanding of %q looks weak. ", topic)
		b.WriteString("Suggest three concrete tasks that a beginner can follow to understand this topic better, ")
	} else {
		b.WriteString("Suggest three concrete tasks that deepen their overall understanding of the subject, ")
	}
	b.WriteString("for example reading a specific chapter, solving practice problems, or watching a related video. ")
	b.WriteString("Use a positive and encouraging tone.")
	return b.String()
}
