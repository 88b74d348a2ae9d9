package extract

import "strings"

// FileMetadata is speaker and language information derived from an audio
// file's name. Empty fields mean the filename did not encode them.
type FileMetadata struct {
	Speaker        string
	NativeLanguage string
}

// parseFilenameMetadata derives speaker and language from a file basename.
// Filenames like speaker_language_take1 or speaker-language.session are
// split on underscore, hyphen and dot: with two or more tokens the first
// two are speaker and language; with exactly one it is the speaker. An
// empty basename falls back to itself as the speaker.
func parseFilenameMetadata(basename string) FileMetadata {
	normalized := strings.NewReplacer("-", "_", ".", "_").Replace(basename)

	var tokens []string
	for _, tok := range strings.Split(normalized, "_") {
		if tok != "" {
			tokens = append(tokens, tok)
		}
	}

	var md FileMetadata
	switch {
	case len(tokens) >= 2:
		md.Speaker = tokens[0]
		md.NativeLanguage = tokens[1]
	case len(tokens) == 1:
		md.Speaker = tokens[0]
	}

	if md.Speaker == "" {
		md.Speaker = basename
	}
	return md
}
