package openai

// Message is one chat turn sent to the provider.
type Message struct {
	Role    string
	Content string
}

const parseSystemPrompt = `You are a strict Resume Parsing Assistant.
Your ONLY job is to extract information explicitly present in the resume text.

CRITICAL RULES:
1. NO HALLUCINATIONS: Do not infer, guess, or create information. If it's not in the text, leave it empty.
2. NO PLACEHOLDERS: Do not use "N/A", "None", "Not Specified", or similar placeholders. Use null or empty string/list.
3. NO SYNONYMS: Extract exact terms (e.g., do not change "ML" to "Machine Learning").
4. STRICT JSON: Return ONLY valid JSON. No markdown formatting, no explanations.

OUTPUT SCHEMA:
{
"name": string (full name),
"email": string,
"phone": string,
"location": string,
"skills": list of strings (exact matches only),
"education": list of {"degree": string, "institution": string, "year": string},
"experience": list of {"company": string, "role": string, "start_date": string, "end_date": string, "description": list of strings},
"projects": list of {"name": string, "description": string},
"summary": string,
"certificates": list of {"name": string, "issuer": string, "year": string},
"salary": {"current_ctc_lpa": number or null, "expected_ctc_lpa": number or null}
}`

// BuildParsePrompt assembles the chat turns for a parse request.
func BuildParsePrompt(normalizedText string) []Message {
	return []Message{
		{Role: "system", Content: parseSystemPrompt},
		{Role: "user", Content: "Extract ONLY information that is explicitly present in the resume. Do NOT infer or guess anything."},
		{Role: "user", Content: normalizedText},
	}
}

// buildFixPrompt asks the model to repair malformed JSON from a previous turn.
func buildFixPrompt(raw []byte) []Message {
	return []Message{
		{Role: "system", Content: "You repair malformed JSON. Return ONLY the corrected JSON object matching the resume parsing schema. No commentary."},
		{Role: "user", Content: string(raw)},
	}
}
