// Package transcription provides speech-to-text model support: acoustic
// model sizes, on-disk path resolution, and download-on-first-use.
package transcription

// ModelSize identifies a Whisper acoustic model variant.
type ModelSize string

const (
	ModelTiny    ModelSize = "tiny"
	ModelBase    ModelSize = "base"
	ModelSmall   ModelSize = "small"
	ModelSmallEn ModelSize = "small.en"
	ModelMedium  ModelSize = "medium"
	ModelLargeV3 ModelSize = "large-v3"
)
