package answer

import (
	"fmt"
	"strings"

	"github.com/osaleh99/doc-chat/internal/vectorindex"
)

// systemInstruction constrains the model to the retrieved context and tells
// it to state when the information is absent.
const systemInstruction = `You are a document assistant. Answer the question using only the provided context. If the answer is not present in the context, reply that the answer is not available in the context. Do not invent information.`

// buildUserMessage assembles the context block, each retrieved chunk tagged
// with its source filename in retrieval-rank order, followed by the question.
func buildUserMessage(hits []vectorindex.Hit, question string) string {
	var b strings.Builder

	b.WriteString("Context:\n")
	for _, h := range hits {
		fmt.Fprintf(&b, "Source: %s\n%s\n\n", h.Source, h.Text)
	}
	fmt.Fprintf(&b, "Question: %s", question)

	return b.String()
}
