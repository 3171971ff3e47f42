package rag

import (
	"fmt"

	"scheme-sahayak/internal/storage"
)

// maxContextChars bounds how much retrieved context is embedded
// verbatim in the system prompt (roughly 6000 tokens).
const maxContextChars = 25000

const truncationMarker = "...[truncated]"

// historyLimit caps how many prior turns are forwarded to the model.
const historyLimit = 4

// langAssets holds the per-language prompt fragments: the output
// language instruction, the mandatory answer template, and the
// mandatory disclaimer.
type langAssets struct {
	instruction string
	format      string
	disclaimer  string
	labelFound  string
	labelNone   string
}

var promptAssets = map[string]langAssets{
	"english": {
		instruction: "- Output Language: English (Formal)",
		format: `
Scheme Name:
Purpose:
Eligibility:
Benefits:
How to Apply:
Official Government Source: (If known, else say "Refer official portal")
`,
		disclaimer: `"Information is based on general knowledge. Please verify with official documents."`,
		labelFound: "Based on verified government documents",
		labelNone:  "No relevant verified government documents found",
	},
	"tamil": {
		instruction: "- Output Language: Tamil (தமிழ்).",
		format: `
திட்டத்தின் பெயர்:
நோக்கம்:
தகுதி:
நன்மைகள்:
விண்ணப்பிக்கும் முறை:
அதிகாரப்பூர்வ அரசு ஆதாரம்: (தெரிந்தால், இல்லையெனில் "அதிகாரப்பூர்வ இணையதளத்தைப் பார்க்கவும்" என்று கூறவும்)
`,
		disclaimer: `"தகவல்கள் பொது அறிவு அடிப்படையிலானவை. தயவுசெய்து அதிகாரப்பூர்வ ஆவணங்களை சரிபார்க்கவும்."`,
		labelFound: "சரிபார்க்கப்பட்ட அரசு ஆவணங்களின் அடிப்படையில்",
		labelNone:  "சம்பந்தப்பட்ட சரிபார்க்கப்பட்ட அரசு ஆவணங்கள் எதுவும் இல்லை",
	},
	"hindi": {
		instruction: "- Output Language: Hindi (हिंदी). Use clear Devanagari script.",
		format: `
योजना का नाम:
उद्देश्य:
पात्रता:
लाभ:
आवेदन कैसे करें:
आधिकारिक सरकारी स्रोत: (यदि ज्ञात हो, अन्यथा कहें "आधिकारिक पोर्टल देखें")
`,
		disclaimer: `"जानकारी सामान्य ज्ञान पर आधारित है। कृपया आधिकारिक दस्तावेजों से सत्यापित करें।"`,
		labelFound: "सत्यापित सरकारी दस्तावेजों के आधार पर",
		labelNone:  "कोई प्रासंगिक सत्यापित सरकारी दस्तावेज नहीं मिले",
	},
}

func assetsFor(language string) langAssets {
	if a, ok := promptAssets[language]; ok {
		return a
	}
	return promptAssets["english"]
}

// sourceLabel is the UI-facing provenance string for the answer.
func sourceLabel(language string, fromDocuments bool) string {
	a := assetsFor(language)
	if fromDocuments {
		return a.labelFound
	}
	return a.labelNone
}

// buildSystemPrompt assembles the generation system prompt. With
// context present the model must use it strictly; without context the
// model may answer from general knowledge but must flag the answer as
// unverified. The output template and disclaimer are mandatory in every
// language.
func buildSystemPrompt(ragContext string, hasContext bool, stats storage.Stats, language string) string {
	a := assetsFor(language)

	contextInstruction := `CONTEXT: NO DOCUMENTED KNOWLEDGE FOUND.
IMPORTANT: You are now in "GENERAL KNOWLEDGE FALLBACK MODE".
- You MAY use your internal training data to answer.
- You MUST qualify your answer saying "General Information (Not from verified PDF)".`
	if hasContext {
		contextInstruction = "CONTEXT:\n" + ragContext
	}

	return fmt.Sprintf(`You are "Scheme Sahayak", a Government Scheme Assistant.

YOUR CORE RULE:
1. IF context is present, use it strictly.
2. IF context is empty, use your general knowledge to help the user, but explicitly state it is general info.

DATA SOURCE POLICY:
Prioritize: india.gov.in, pmindia.gov.in, scholarships.gov.in.

KNOWLEDGE BASE:
%d documents, %d chunks indexed (%d from the web).

BEHAVIOR RULES:
1. Do NOT hallucinate.
2. %s

OUTPUT FORMAT (MANDATORY):
%s
DISCLAIMER (MANDATORY - ALWAYS ADD):
%s

%s`, stats.Documents, stats.Chunks, stats.Web, a.instruction, a.format, a.disclaimer, contextInstruction)
}

// truncateContext caps the retrieved context, appending a
// marker when content was dropped.
func truncateContext(ragContext string) string {
	if len(ragContext) > maxContextChars {
		return ragContext[:maxContextChars] + truncationMarker
	}
	return ragContext
}
