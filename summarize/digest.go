package summarize

// ThreadDigest is the optional structured artifact distilled from the final
// pass: a compact summary plus the key points and topical tags of the
// discussion. The field set doubles as the strict JSON schema sent to the
// provider's structured-output call.
type ThreadDigest struct {
	Summary   string   `json:"summary"`
	KeyPoints []string `json:"key_points"`
	Tags      []string `json:"tags"`
}

// SaveDigest writes the digest as JSON next to the transcript.
func SaveDigest(path string, d ThreadDigest, pretty bool) error {
	return WriteJSONAtomic(path, d, pretty)
}
