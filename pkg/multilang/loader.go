package multilang

// DefaultModelLoader is the ModelLoader selected at build time: the real
// whisper.cpp binding when built with -tags=cgo,whisper_go, or the
// deterministic stub otherwise. Callers that don't need to substitute a
// mock loader (production binaries, mainly) wire this straight into
// NewModelCache.
var DefaultModelLoader ModelLoader = loadWhisperModel
