package gemini

import "fmt"

// TranscriptionPrompt returns the instruction sent alongside the audio.
func TranscriptionPrompt(language string) string {
	if language == "" {
		language = "English"
	}
	return fmt.Sprintf(`You are a meticulous transcription specialist, fluent in %[1]s. Your sole task is to transcribe the sung or spoken %[1]s audio.
Listen carefully and produce a complete and accurate transcription of the lyrics in %[1]s script, one lyric line per output line.
Output ONLY the plain text transcript. Do not include introductory text, timestamps, explanations, translations or markdown formatting.
Do not add interpretations or any information not present in the audio.`, language)
}
