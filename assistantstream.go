package assistantstream

// Version of the assistantstream module.
const Version = "0.1.0"

// ContentType is the transport content type of the outbound stream. Frames
// are plain UTF-8 text lines; no other header semantics apply.
const ContentType = "text/plain; charset=utf-8"
