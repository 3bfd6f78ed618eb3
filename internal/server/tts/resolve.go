package tts

import (
	"strings"

	"github.com/natorvoice/natorvoice/internal/common"
)

// ResolveName picks the provider for a request. A preference is honored
// when its credential is present; otherwise the other configured provider
// is used. Without a preference Deepgram wins when configured.
func ResolveName(preference string, hasElevenLabs, hasDeepgram bool) string {
	has := map[string]bool{ElevenLabs: hasElevenLabs, Deepgram: hasDeepgram}

	switch pref := strings.ToLower(strings.TrimSpace(preference)); pref {
	case ElevenLabs, Deepgram:
		if has[pref] {
			return pref
		}
		other := Deepgram
		if pref == Deepgram {
			other = ElevenLabs
		}
		if has[other] {
			return other
		}
		return pref
	}

	if hasDeepgram {
		return Deepgram
	}
	return ElevenLabs
}

// Registry holds the configured providers and resolves one per request.
type Registry struct {
	preference string
	providers  map[string]Provider
}

// NewRegistry builds a registry. Nil providers are treated as unconfigured.
func NewRegistry(preference string, elevenLabs, deepgram Provider) *Registry {
	r := &Registry{preference: preference, providers: map[string]Provider{}}
	if elevenLabs != nil {
		r.providers[ElevenLabs] = elevenLabs
	}
	if deepgram != nil {
		r.providers[Deepgram] = deepgram
	}
	return r
}

// Resolve returns the provider to use, or a ServerMisconfigured error when
// the chosen provider has no credential.
func (r *Registry) Resolve() (Provider, error) {
	name := ResolveName(r.preference, r.providers[ElevenLabs] != nil, r.providers[Deepgram] != nil)
	p, ok := r.providers[name]
	if !ok {
		return nil, common.NewError(common.KindServerMisconfigured, "Server is missing "+credentialEnv(name)+".", nil)
	}
	return p, nil
}

func credentialEnv(name string) string {
	if name == Deepgram {
		return "DEEPGRAM_API_KEY"
	}
	return "ELEVENLABS_API_KEY"
}
