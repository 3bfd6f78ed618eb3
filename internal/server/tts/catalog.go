package tts

import "strings"

type auraVoice struct {
	key      string
	category string
	accent   string
	gender   string
	age      string
}

var auraVoices = []auraVoice{
	{"thalia-en", "English", "American", "feminine", "Adult"},
	{"andromeda-en", "English", "American", "feminine", "Adult"},
	{"helena-en", "English", "American", "feminine", "Adult"},
	{"apollo-en", "English", "American", "masculine", "Adult"},
	{"arcas-en", "English", "American", "masculine", "Adult"},
	{"aries-en", "English", "American", "masculine", "Adult"},
	{"asteria-en", "English", "American", "feminine", "Adult"},
	{"athena-en", "English", "American", "feminine", "Mature"},
	{"draco-en", "English", "British", "masculine", "Adult"},
	{"hyperion-en", "English", "Australian", "masculine", "Adult"},
	{"luna-en", "English", "American", "feminine", "Young Adult"},
	{"orion-en", "English", "American", "masculine", "Adult"},
	{"pandora-en", "English", "British", "feminine", "Adult"},
	{"zeus-en", "English", "American", "masculine", "Adult"},
	{"celeste-es", "Spanish", "Colombian", "feminine", "Young Adult"},
	{"estrella-es", "Spanish", "Mexican", "feminine", "Mature"},
	{"nestor-es", "Spanish", "Peninsular", "masculine", "Adult"},
	{"javier-es", "Spanish", "Mexican", "masculine", "Adult"},
	{"rhea-nl", "Dutch", "Dutch", "feminine", "Adult"},
	{"sander-nl", "Dutch", "Dutch", "masculine", "Adult"},
	{"agathe-fr", "French", "French", "feminine", "Adult"},
	{"hector-fr", "French", "French", "masculine", "Adult"},
	{"julius-de", "German", "German", "masculine", "Adult"},
	{"viktoria-de", "German", "German", "feminine", "Adult"},
	{"livia-it", "Italian", "Italian", "feminine", "Adult"},
	{"dionisio-it", "Italian", "Italian", "masculine", "Adult"},
	{"fujin-ja", "Japanese", "Japanese", "masculine", "Adult"},
	{"izanami-ja", "Japanese", "Japanese", "feminine", "Adult"},
}

// DeepgramVoices returns a fresh copy of the Aura 2 catalog sorted by name.
func DeepgramVoices() []Voice {
	voices := make([]Voice, 0, len(auraVoices))
	for _, v := range auraVoices {
		name, _, _ := strings.Cut(v.key, "-")
		voices = append(voices, Voice{
			ID:       "aura-2-" + v.key,
			Name:     strings.ToUpper(name[:1]) + name[1:],
			Category: v.category,
			Accent:   optional(v.accent),
			Gender:   optional(v.gender),
			Age:      optional(v.age),
		})
	}
	sortVoices(voices)
	return voices
}
